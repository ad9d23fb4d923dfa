package refdata

import "errors"

var (
	// ErrUnsupportedLocation means no insurance rate data exists for the
	// requested (state, county, crop, type, practice).
	ErrUnsupportedLocation = errors.New("no insurance rate data for location")

	// ErrMissing means a reference lookup failed where the configuration
	// implied it should succeed.
	ErrMissing = errors.New("reference data missing")
)
