package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"farmbudget/pkg/core/refdata"
)

// RatingRepo serves RMA actuarial reference data from Postgres. It
// implements refdata.Provider.
//
// Schema assumption (loaded once per crop year from the RMA actuarial
// data master files):
//
//	CREATE TABLE IF NOT EXISTS rating_data (
//	  crop_year INT NOT NULL,
//	  state INT NOT NULL,
//	  county INT NOT NULL,
//	  crop INT NOT NULL,
//	  crop_type INT NOT NULL,
//	  practice INT NOT NULL,
//	  subcounty TEXT NOT NULL DEFAULT '',
//	  rating_json JSONB NOT NULL,
//	  PRIMARY KEY (crop_year, state, county, crop, crop_type, practice, subcounty)
//	);
//
//	CREATE TABLE IF NOT EXISTS combo_rev_factors (
//	  crop_year INT NOT NULL,
//	  lookup_id INT NOT NULL,
//	  std DOUBLE PRECISION NOT NULL,
//	  mean DOUBLE PRECISION NOT NULL,
//	  PRIMARY KEY (crop_year, lookup_id)
//	);
type RatingRepo struct {
	CropYear int
}

func NewRatingRepo(cropYear int) *RatingRepo {
	return &RatingRepo{CropYear: cropYear}
}

func (r *RatingRepo) RatingData(ctx context.Context, key refdata.Key) (*refdata.RatingData, error) {
	pool := GetPool()
	if pool == nil {
		return nil, fmt.Errorf("database pool not initialized")
	}

	query := `
		SELECT rating_json FROM rating_data
		WHERE crop_year = $1 AND state = $2 AND county = $3
		  AND crop = $4 AND crop_type = $5 AND practice = $6 AND subcounty = $7;
	`
	var raw []byte
	err := pool.QueryRow(ctx, query, r.CropYear, key.State, key.County,
		key.Crop, key.CropType, key.Practice, key.Subcounty).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: state=%d county=%d crop=%d type=%d practice=%d",
			refdata.ErrUnsupportedLocation, key.State, key.County, key.Crop, key.CropType, key.Practice)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load rating data: %w", err)
	}

	var data refdata.RatingData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("failed to decode rating data: %w", err)
	}
	return &data, nil
}

func (r *RatingRepo) ComboRevStdMean(ctx context.Context, lookupID int) (float64, float64, error) {
	pool := GetPool()
	if pool == nil {
		return 0, 0, fmt.Errorf("database pool not initialized")
	}

	query := `
		SELECT std, mean FROM combo_rev_factors
		WHERE crop_year = $1 AND lookup_id = $2;
	`
	var std, mean float64
	err := pool.QueryRow(ctx, query, r.CropYear, lookupID).Scan(&std, &mean)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, 0, fmt.Errorf("%w: combo revenue factor id %d", refdata.ErrMissing, lookupID)
	}
	if err != nil {
		return 0, 0, fmt.Errorf("failed to load combo revenue factors: %w", err)
	}
	return std, mean, nil
}
