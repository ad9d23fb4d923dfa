package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"farmbudget/pkg/core/refdata"
)

// Price queries backing scenario refresh. Schema assumption (loaded
// from the exchange feed and WASDE releases):
//
//	CREATE TABLE IF NOT EXISTS market_tickers (
//	  crop_year INT NOT NULL,
//	  state INT NOT NULL,
//	  county INT NOT NULL,
//	  market_crop TEXT NOT NULL,
//	  ticker TEXT NOT NULL,
//	  PRIMARY KEY (crop_year, state, county, market_crop)
//	);
//
//	CREATE TABLE IF NOT EXISTS futures_prices (
//	  ticker TEXT NOT NULL,
//	  priced_on DATE NOT NULL,
//	  price DOUBLE PRECISION NOT NULL,
//	  PRIMARY KEY (ticker, priced_on)
//	);
//
//	CREATE TABLE IF NOT EXISTS mya_estimates (
//	  crop_year INT NOT NULL,
//	  crop TEXT NOT NULL,
//	  pre_wasde DOUBLE PRECISION NOT NULL,
//	  post_wasde DOUBLE PRECISION NOT NULL,
//	  PRIMARY KEY (crop_year, crop)
//	);

// HarvestFuturesPrice resolves the market crop's harvest contract
// ticker for the county and returns the latest settle at or before
// pricedOn.
func (r *RatingRepo) HarvestFuturesPrice(ctx context.Context, state, county int,
	marketCrop string, pricedOn time.Time) (float64, error) {

	pool := GetPool()
	if pool == nil {
		return 0, fmt.Errorf("database pool not initialized")
	}

	query := `
		SELECT p.price
		FROM market_tickers t
		JOIN futures_prices p ON p.ticker = t.ticker
		WHERE t.crop_year = $1 AND t.state = $2 AND t.county = $3
		  AND t.market_crop = $4 AND p.priced_on <= $5
		ORDER BY p.priced_on DESC
		LIMIT 1;
	`
	var price float64
	err := pool.QueryRow(ctx, query, r.CropYear, state, county, marketCrop, pricedOn).Scan(&price)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, fmt.Errorf("%w: futures price for %s", refdata.ErrMissing, marketCrop)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to load futures price: %w", err)
	}
	return price, nil
}

// MYAPrice returns the marketing-year-average price estimate for the
// crop: the pre-WASDE figure before the first WASDE release on May 10
// of the crop year, the WASDE projection after.
func (r *RatingRepo) MYAPrice(ctx context.Context, crop string, asOf time.Time) (float64, error) {
	pool := GetPool()
	if pool == nil {
		return 0, fmt.Errorf("database pool not initialized")
	}

	query := `
		SELECT pre_wasde, post_wasde FROM mya_estimates
		WHERE crop_year = $1 AND crop = $2;
	`
	var pre, post float64
	err := pool.QueryRow(ctx, query, r.CropYear, crop).Scan(&pre, &post)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, fmt.Errorf("%w: MYA estimate for %s", refdata.ErrMissing, crop)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to load MYA estimate: %w", err)
	}

	wasde := time.Date(r.CropYear, time.May, 10, 0, 0, 0, 0, time.UTC)
	if asOf.Before(wasde) {
		return pre, nil
	}
	return post, nil
}
