// Package validate checks farm-year configuration before any engine
// runs, so the engines can assume well-formed inputs.
package validate

import (
	"errors"
	"fmt"
	"math"

	"farmbudget/pkg/models"
)

var (
	ErrInvalidConfiguration = errors.New("invalid configuration")
	ErrMissingInput         = errors.New("missing input")
)

// levelIn reports whether level sits on the 5-point grid [lo, hi].
func levelIn(level, lo, hi float64) bool {
	if level < lo-1e-9 || level > hi+1e-9 {
		return false
	}
	steps := (level - lo) / 0.05
	return math.Abs(steps-math.Round(steps)) < 1e-6
}

// FarmCrop validates one crop's insurance selections.
func FarmCrop(fc *models.FarmCrop) []error {
	var errs []error
	name := fc.Type.String()

	if fc.ProtFactor < 0.8 || fc.ProtFactor > 1.2 {
		errs = append(errs, fmt.Errorf("%w: %s: protection factor %.2f outside [0.80, 1.20]",
			ErrInvalidConfiguration, name, fc.ProtFactor))
	}
	if fc.CoverageType != nil && fc.ProductType == nil {
		errs = append(errs, fmt.Errorf("%w: %s: coverage type set without a product type",
			ErrMissingInput, name))
	}
	if fc.CoverageType != nil && fc.BaseCoverageLevel == nil {
		errs = append(errs, fmt.Errorf("%w: %s: coverage type set without a coverage level",
			ErrMissingInput, name))
	}
	if fc.ProductType != nil && (*fc.ProductType < 0 || *fc.ProductType > 2) {
		errs = append(errs, fmt.Errorf("%w: %s: unknown product type %d",
			ErrInvalidConfiguration, name, *fc.ProductType))
	}
	if fc.CoverageType != nil && fc.BaseCoverageLevel != nil {
		lvl := *fc.BaseCoverageLevel
		switch *fc.CoverageType {
		case models.CoverageFarm:
			if !levelIn(lvl, 0.5, 0.85) {
				errs = append(errs, fmt.Errorf("%w: %s: farm coverage level %.2f not in 50%%-85%% by 5%%",
					ErrInvalidConfiguration, name, lvl))
			}
		case models.CoverageCounty:
			if !levelIn(lvl, 0.7, 0.9) {
				errs = append(errs, fmt.Errorf("%w: %s: county coverage level %.2f not in 70%%-90%% by 5%%",
					ErrInvalidConfiguration, name, lvl))
			}
		default:
			errs = append(errs, fmt.Errorf("%w: %s: unknown coverage type %d",
				ErrInvalidConfiguration, name, *fc.CoverageType))
		}
	}
	if fc.SCOUse && fc.CoverageType != nil && *fc.CoverageType == models.CoverageCounty {
		errs = append(errs, fmt.Errorf("%w: %s: SCO requires a farm (enterprise) base unit",
			ErrInvalidConfiguration, name))
	}
	if fc.ECOLevel != nil {
		lvl := *fc.ECOLevel
		if math.Abs(lvl-0.90) > 1e-9 && math.Abs(lvl-0.95) > 1e-9 {
			errs = append(errs, fmt.Errorf("%w: %s: ECO level %.2f must be 90%% or 95%%",
				ErrInvalidConfiguration, name, lvl))
		}
		if fc.CoverageType != nil && *fc.CoverageType == models.CoverageCounty {
			errs = append(errs, fmt.Errorf("%w: %s: ECO requires a farm (enterprise) base unit",
				ErrInvalidConfiguration, name))
		}
	}
	if fc.PlantedAcres < 0 {
		errs = append(errs, fmt.Errorf("%w: %s: planted acres must be nonnegative",
			ErrInvalidConfiguration, name))
	}
	return errs
}

// FarmYear validates the whole configuration tree, including the
// statutory exclusivity between ARC-CO enrollment and SCO.
func FarmYear(fy *models.FarmYear) []error {
	var errs []error

	if fy.CropYear < 2023 {
		errs = append(errs, fmt.Errorf("%w: crop year %d not supported",
			ErrInvalidConfiguration, fy.CropYear))
	}
	if fy.EligiblePersonsForCap < 1 {
		errs = append(errs, fmt.Errorf("%w: at least one person must be eligible for the payment cap",
			ErrInvalidConfiguration))
	}
	if fy.PriceFactor <= 0 || fy.YieldFactor <= 0 {
		errs = append(errs, fmt.Errorf("%w: price and yield factors must be positive",
			ErrInvalidConfiguration))
	}

	for _, fsa := range fy.FsaCrops {
		for _, fc := range fsa.FarmCrops() {
			errs = append(errs, FarmCrop(fc)...)
			if fsa.ARCCoBaseAcres > 0 && fc.SCOUse {
				errs = append(errs, fmt.Errorf("%w: %s: SCO cannot combine with ARC-CO enrollment on %s base acres",
					ErrInvalidConfiguration, fc.Type, fsa.Name))
			}
		}
	}
	return errs
}
