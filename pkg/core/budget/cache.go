package budget

import (
	"context"
	"sync"
	"time"

	"farmbudget/pkg/core/premium"
	"farmbudget/pkg/core/refdata"
	"farmbudget/pkg/models"
)

// PremiumCache memoizes premium tables per crop configuration.
// Premiums depend only on the rating request, not on the sensitivity
// point, so one computation serves the whole grid. An entry is
// invalidated when any request field changes or when the model run
// date crosses the end of the crop's projected price discovery period,
// after which discovered prices replace placeholder prices.
type PremiumCache struct {
	mu      sync.Mutex
	entries map[cacheKey]*premium.Tables
}

type cacheKey struct {
	refdata.Key

	rateYield, adjYield, taYield, acres float64
	taUse, yieldExcl                    bool
	protFactor                          float64
	projectedPrice                      float64
	priceVolatility                     int
	hasPrice, hasVol                    bool

	afterDiscovery bool
}

func NewPremiumCache() *PremiumCache {
	return &PremiumCache{entries: make(map[cacheKey]*premium.Tables)}
}

func keyFor(req premium.Request, runDate, discEnd time.Time) cacheKey {
	k := cacheKey{
		Key:        req.Key,
		rateYield:  req.RateYield,
		adjYield:   req.AdjYield,
		taYield:    req.TAYield,
		acres:      req.Acres,
		taUse:      req.TAUse,
		yieldExcl:  req.YieldExcl,
		protFactor: req.ProtFactor,
	}
	if req.ProjectedPrice != nil {
		k.hasPrice, k.projectedPrice = true, *req.ProjectedPrice
	}
	if req.PriceVolatility != nil {
		k.hasVol, k.priceVolatility = true, *req.PriceVolatility
	}
	k.afterDiscovery = !runDate.Before(discEnd)
	return k
}

// discoveryEnd is the crop's projected price discovery close, defaulting
// to March 1 of the crop year for the spring-priced grains.
func discoveryEnd(fy *models.FarmYear, fc *models.FarmCrop) time.Time {
	if !fc.ProjPriceDiscEnd.IsZero() {
		return fc.ProjPriceDiscEnd.Time
	}
	return time.Date(fy.CropYear, time.March, 1, 0, 0, 0, 0, time.UTC)
}

// Get returns the cached tables for the crop, computing them on a miss.
func (c *PremiumCache) Get(ctx context.Context, eng *premium.Engine,
	fy *models.FarmYear, fc *models.FarmCrop) (*premium.Tables, error) {

	req := premiumRequest(fy, fc)
	key := keyFor(req, fy.ModelRunDate.Time, discoveryEnd(fy, fc))

	c.mu.Lock()
	if t, ok := c.entries[key]; ok {
		c.mu.Unlock()
		return t, nil
	}
	c.mu.Unlock()

	t, err := eng.Compute(ctx, req)
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	c.entries[key] = t
	c.mu.Unlock()
	return t, nil
}

// Invalidate clears the cache.
func (c *PremiumCache) Invalidate() {
	c.mu.Lock()
	c.entries = make(map[cacheKey]*premium.Tables)
	c.mu.Unlock()
}
