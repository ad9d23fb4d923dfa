package premium

import (
	"context"
	"fmt"
	"math"

	"farmbudget/pkg/core/refdata"
	"farmbudget/pkg/core/utils"
)

// Coverage level grids. Enterprise and SCO share the 8-level grid;
// area products use 5 levels; ECO has 2.
var (
	Covers     = [8]float64{0.50, 0.55, 0.60, 0.65, 0.70, 0.75, 0.80, 0.85}
	AreaCovers = [5]float64{0.70, 0.75, 0.80, 0.85, 0.90}
	ECOCovers  = [2]float64{0.90, 0.95}
)

// SCOTopLevel is the coverage level SCO tops up to.
const SCOTopLevel = 0.86

// Product column indices shared by all premium and indemnity tables.
const (
	RP    = 0
	RPHPE = 1
	YP    = 2
)

// Request carries the farm-specific inputs to a premium computation.
type Request struct {
	Key refdata.Key

	RateYield float64
	AdjYield  float64
	TAYield   float64
	Acres     float64

	HailFire  bool
	PrevPlant bool
	TAUse     bool
	YieldExcl bool

	// Payment (protection) factor for county products.
	ProtFactor float64

	// Pre-discovery estimates; nil means use the RMA discovered values
	// carried in the rating data.
	ProjectedPrice  *float64
	PriceVolatility *int
}

// Tables holds the four dollar-per-acre premium tables, each indexed
// (coverage level, product). A nil table means the product is not
// available for the county.
type Tables struct {
	Farm *[8][3]float64 `json:"farm"`
	Area *[5][3]float64 `json:"area"`
	SCO  *[8][3]float64 `json:"sco"`
	ECO  *[2][3]float64 `json:"eco"`
}

// Engine computes enterprise, area, SCO and ECO premiums from rating
// reference data.
type Engine struct {
	data refdata.Provider
}

func New(data refdata.Provider) *Engine {
	return &Engine{data: data}
}

// Compute returns the four premium tables for the request. Tables whose
// reference data is absent come back nil. A zero-acre or zero-yield
// request returns all-nil tables.
func (e *Engine) Compute(ctx context.Context, req Request) (*Tables, error) {
	if req.Acres <= 0 || req.RateYield <= 0 || req.AdjYield <= 0 || req.TAYield <= 0 {
		return &Tables{}, nil
	}

	data, err := e.data.RatingData(ctx, req.Key)
	if err != nil {
		return nil, err
	}

	c, err := newCalc(req, data)
	if err != nil {
		return nil, err
	}
	if c == nil {
		// No projected price available yet; nothing can be rated.
		return &Tables{}, nil
	}

	tables := &Tables{}
	farm, err := c.enterprise(ctx, e.data)
	if err != nil {
		return nil, err
	}
	tables.Farm = farm
	tables.Area = c.area()
	tables.SCO = c.sco()
	tables.ECO = c.eco()
	return tables, nil
}

// calc holds the working state of a single rating pass.
type calc struct {
	req  Request
	data *refdata.RatingData

	projectedPrice float64
	priceVol       int

	// tayield clamped up to the rate yield; atayield keeps the raw
	// trend-adjusted yield for the county option liability.
	tayield  float64
	atayield float64

	jsize      int
	multfactor float64

	effcov   [8]float64
	revyield float64
	revcov   [8]float64
	liab     [8]float64

	ratediff [8][2]float64
	efactorY [8][2]float64
	efactorR [8][2]float64
	disenter [8]float64

	baserate [2]float64

	// basepremrate[kind][level][year]: kind 0 = Y, 1 = R; year 0 = current.
	basepremrate [2][8][2]float64

	adjMeanQty float64
	adjStdQty  float64

	simloss   [8][3]float64
	premrate  [8][2]float64
	rpRate    [8]float64
	rphpeRate [8]float64
}

func newCalc(req Request, data *refdata.RatingData) (*calc, error) {
	c := &calc{req: req, data: data}

	switch {
	case req.ProjectedPrice != nil:
		c.projectedPrice = *req.ProjectedPrice
	case data.ProjectedPrice != nil:
		c.projectedPrice = *data.ProjectedPrice
	default:
		return nil, nil
	}
	switch {
	case req.PriceVolatility != nil:
		c.priceVol = *req.PriceVolatility
	case data.PriceVolatility != nil:
		c.priceVol = *data.PriceVolatility
	default:
		return nil, fmt.Errorf("%w: price volatility factor", refdata.ErrMissing)
	}

	c.atayield = req.TAYield
	c.tayield = req.TAYield
	if c.tayield < req.RateYield {
		c.tayield = req.RateYield
	}

	switch acres := req.Acres; {
	case acres < 50:
		c.jsize = 0
	case acres < 100:
		c.jsize = 1
	case acres < 200:
		c.jsize = 2
	case acres < 400:
		c.jsize = 3
	case acres < 800:
		c.jsize = 4
	default:
		c.jsize = 5
	}
	return c, nil
}

// ===== ENTERPRISE UNIT =====

func (c *calc) enterprise(ctx context.Context, provider refdata.Provider) (*[8][3]float64, error) {
	c.setMultFactor()
	c.setEffCov()
	c.setFactors()
	c.makeYEAdj()
	c.makeRevLiab()
	c.setBaseRates()
	c.setBasePremRates()
	c.limitBasePremRates()
	c.limitBaseRate()
	if err := c.setQtys(ctx, provider); err != nil {
		return nil, err
	}
	c.simulateLosses()
	c.setRates()

	prem := c.setPrems()
	c.applySubsidy(prem)

	// A negative current rate differential marks a level the county
	// cannot rate; surface it as +Inf rather than a free premium.
	for k := 0; k < 8; k++ {
		if c.data.RateDifferentialFactor[k][0] < 0 {
			prem[k][RP] = math.Inf(1)
			prem[k][RPHPE] = math.Inf(1)
			prem[k][YP] = math.Inf(1)
		}
	}
	return prem, nil
}

func (c *calc) setMultFactor() {
	c.multfactor = 1
	if c.req.HailFire {
		c.multfactor *= c.data.OptionRate[0]
	}
	if c.req.PrevPlant {
		c.multfactor *= c.data.OptionRate[1]
	}
}

// Effective coverage depends on the trend-adjusted yield whether or not
// trend adjustment is elected.
func (c *calc) setEffCov() {
	for k := 0; k < 8; k++ {
		c.effcov[k] = utils.Round(0.0001+Covers[k]*c.tayield/c.req.AdjYield, 2)
	}
}

// setFactors interpolates each rate factor in effective coverage across
// the tabulated grid, at the factor's documented precision.
func (c *calc) setFactors() {
	curRD := columnOf(&c.data.RateDifferentialFactor, 0)
	priorRD := columnOf(&c.data.RateDifferentialFactor, 1)
	curEY := columnOf(&c.data.EnterpriseResidualFactorY, 0)
	priorEY := columnOf(&c.data.EnterpriseResidualFactorY, 1)
	curER := columnOf(&c.data.EnterpriseResidualFactorR, 0)
	priorER := columnOf(&c.data.EnterpriseResidualFactorR, 1)
	var disc [8]float64
	for k := 0; k < 8; k++ {
		disc[k] = c.data.EnterpriseDiscountFactor[k][c.jsize]
	}

	for k := 0; k < 8; k++ {
		c.ratediff[k][0] = c.interp(curRD, k, 9)
		c.ratediff[k][1] = c.interp(priorRD, k, 9)
		c.efactorY[k][0] = c.interp(curEY, k, 3)
		c.efactorY[k][1] = c.interp(priorEY, k, 3)
		c.efactorR[k][0] = c.interp(curER, k, 3)
		c.efactorR[k][1] = c.interp(priorER, k, 3)
		c.disenter[k] = c.interp(disc, k, 4)
	}
}

func columnOf(m *[8][2]float64, col int) [8]float64 {
	var out [8]float64
	for k := 0; k < 8; k++ {
		out[k] = m[k][col]
	}
	return out
}

// interp piecewise-linearly interpolates (extrapolating upward at the
// top) a tabulated factor at effcov[k], then rounds to the given
// precision. Three special cases override the general formula.
func (c *calc) interp(v [8]float64, k, places int) float64 {
	const gap = 0.05
	ec := c.effcov[k]

	if !c.req.TAUse {
		return v[k]
	}
	if ec < Covers[0] {
		return utils.Round(v[0], places)
	}
	// Counties with no rates above the .75 level interpolate off the
	// .70/.75 pair for all higher effective coverages.
	if ec > 0.75 && c.data.RateDifferentialFactor[6][0] == 0 {
		return utils.Round(v[5]+(v[5]-v[4])*(ec-Covers[5])/gap, places)
	}

	// j = largest tabulated level at or below effcov.
	j := 0
	for i := 0; i < 8; i++ {
		if ec-Covers[i] >= 0 {
			j = i
		}
	}
	var diff float64
	if j < 7 {
		diff = v[j+1] - v[j]
	} else {
		diff = v[j] - v[j-1]
	}
	return utils.Round(v[j]+diff*(ec-Covers[j])/gap, places)
}

// makeYEAdj applies the above-85% effective coverage adjustment and the
// yield-exclusion buyup to the current-year factors.
func (c *calc) makeYEAdj() {
	jjhigh := 7
	if c.data.RateDifferentialFactor[6][0] == 0 {
		jjhigh = 5
	}
	for k := 0; k < 8; k++ {
		if c.effcov[k] <= 0.85 {
			continue
		}
		yeadj := 0.0
		if c.req.YieldExcl {
			yeadj = (c.effcov[k] - 0.85) / 0.15
		}
		if yeadj > 1 {
			yeadj = 1
		}
		yeadj = 1 + utils.Round(yeadj*yeadj*yeadj, 7)*0.05
		c.ratediff[k][0] *= yeadj
		for yr := 0; yr < 2; yr++ {
			cap := c.data.EnterpriseResidualFactorY[jjhigh][yr]
			if c.efactorY[k][yr] > cap {
				c.efactorY[k][yr] = cap
			}
		}
	}
}

func (c *calc) makeRevLiab() {
	if c.req.TAUse {
		c.revyield = c.tayield
		c.revcov = c.effcov
	} else {
		c.revyield = c.req.AdjYield
		c.revcov = Covers
	}
	for k := 0; k < 8; k++ {
		c.liab[k] = utils.Round(
			utils.Round(c.revyield*Covers[k]+0.001, 1)*c.projectedPrice*c.req.Acres, 0)
	}
}

func (c *calc) setBaseRates() {
	subRate := 0.0
	if c.data.SubcountyRate != nil {
		subRate = *c.data.SubcountyRate
	}
	for yr := 0; yr < 2; yr++ {
		ratio := utils.Clamp(utils.Round(c.req.RateYield/c.data.RefYield[yr], 2), 0.5, 1.5)
		base := utils.Round(math.Pow(ratio, c.data.Exponent[yr]), 8)
		rate := base*c.data.RefRate[yr] + c.data.FixedRate[yr]
		// The rate method says how a subcounty (high-risk land) rate
		// combines with the county rate: added, multiplied, or a full
		// replacement.
		if subRate != 0 {
			switch c.data.RateMethodID {
			case "M":
				rate *= subRate
			case "F":
				rate = subRate
			default:
				rate += subRate
			}
		}
		c.baserate[yr] = utils.Round(rate, 8)
	}
}

func (c *calc) setBasePremRates() {
	for k := 0; k < 8; k++ {
		for yr := 0; yr < 2; yr++ {
			prod := c.baserate[yr] * c.ratediff[k][yr]
			c.basepremrate[0][k][yr] = utils.Round(prod*c.efactorY[k][yr], 8)
			c.basepremrate[1][k][yr] = utils.Round(prod*c.efactorR[k][yr], 8)
		}
	}
}

// Current rates are capped at 1.2x prior and zeroed above 0.99.
func (c *calc) limitBasePremRates() {
	for kind := 0; kind < 2; kind++ {
		for k := 0; k < 8; k++ {
			if c.basepremrate[kind][k][0] > c.basepremrate[kind][k][1]*1.2 {
				c.basepremrate[kind][k][0] = utils.Round(c.basepremrate[kind][k][1]*1.2, 8)
			}
			if c.basepremrate[kind][k][0] > 0.99 {
				c.basepremrate[kind][k][0] = 0
			}
		}
	}
}

func (c *calc) limitBaseRate() {
	if c.baserate[0] > c.baserate[1]*1.2 {
		c.baserate[0] = utils.Round(c.baserate[1]*1.2, 8)
	}
}

func (c *calc) setQtys(ctx context.Context, provider refdata.Provider) error {
	rate := math.Min(c.baserate[0], 0.9999)
	lookup := int(utils.Round(rate, 4)*10000*c.data.EnterpriseDiscountFactor[3][c.jsize] + 0.5)
	std, mean, err := provider.ComboRevStdMean(ctx, lookup)
	if err != nil {
		return err
	}
	c.adjMeanQty = utils.Round(c.revyield*mean/100, 8)
	c.adjStdQty = utils.Round(c.revyield*std/100, 8)
	return nil
}

// simulateLosses runs the 500-draw loss simulation, producing mean loss
// rates for YP, RP and RP-HPE at each coverage level.
func (c *calc) simulateLosses() {
	pvol := float64(c.priceVol) / 100
	lnMean := utils.Round(math.Log(c.projectedPrice)-pvol*pvol/2, 8)

	var sums [8][3]float64
	for _, draw := range c.data.Draws {
		yld := math.Max(0, draw[0]*c.adjStdQty+c.adjMeanQty)
		harvPrice := math.Min(2*c.projectedPrice, math.Exp(draw[1]*pvol+lnMean))
		guarPrice := math.Max(harvPrice, c.projectedPrice)
		for k := 0; k < 8; k++ {
			guar := c.revyield * c.revcov[k]
			sums[k][YP] += math.Max(0, guar-yld)
			sums[k][RP] += math.Max(0, guar*guarPrice-yld*harvPrice)
			sums[k][RPHPE] += math.Max(0, guar*c.projectedPrice-yld*harvPrice)
		}
	}
	n := float64(len(c.data.Draws))
	for k := 0; k < 8; k++ {
		guar := c.revyield * c.revcov[k]
		c.simloss[k][YP] = utils.Round(sums[k][YP]/n/guar, 8)
		c.simloss[k][RP] = utils.Round(sums[k][RP]/n/(guar*c.projectedPrice), 8)
		c.simloss[k][RPHPE] = utils.Round(sums[k][RPHPE]/n/(guar*c.projectedPrice), 8)
	}
}

func (c *calc) setRates() {
	for k := 0; k < 8; k++ {
		curR := c.basepremrate[1][k][0]
		c.rpRate[k] = utils.Round(math.Max(0.01*curR, c.simloss[k][RP]-c.simloss[k][YP]), 8)
		c.rphpeRate[k] = utils.Round(math.Max(-0.5*curR, c.simloss[k][RPHPE]-c.simloss[k][YP]), 8)
		c.premrate[k][0] = c.basepremrate[0][k][0] * c.multfactor * c.disenter[k]
		c.premrate[k][1] = c.basepremrate[1][k][0] * c.multfactor * c.disenter[k]
	}
}

func (c *calc) setPrems() *[8][3]float64 {
	prem := &[8][3]float64{}
	for k := 0; k < 8; k++ {
		prem[k][RP] = utils.Round(c.liab[k]*utils.Round(c.premrate[k][1]+c.rpRate[k], 8), 0)
		prem[k][RPHPE] = utils.Round(c.liab[k]*utils.Round(c.premrate[k][1]+c.rphpeRate[k], 8), 0)
		prem[k][YP] = utils.Round(c.liab[k]*utils.Round(c.premrate[k][0], 8), 0)
	}
	return prem
}

func (c *calc) applySubsidy(prem *[8][3]float64) {
	for k := 0; k < 8; k++ {
		for p := 0; p < 3; p++ {
			prem[k][p] -= utils.Round(prem[k][p]*c.data.SubsidyEnt[k], 0)
			prem[k][p] = utils.Round(prem[k][p]/c.req.Acres, 2)
		}
	}
}

// ===== AREA (COUNTY) UNIT =====

func (c *calc) area() *[5][3]float64 {
	d := c.data
	if d.ExpectedYield == nil ||
		d.AreaRPBaseRate == nil || d.AreaRPHPEBaseRate == nil || d.AreaYPBaseRate == nil {
		return nil
	}
	maxLiab := utils.Round(*d.ExpectedYield*c.projectedPrice*1.2, 2)

	rates := [3]*[5]float64{d.AreaRPBaseRate, d.AreaRPHPEBaseRate, d.AreaYPBaseRate}
	subs := [3]*[5]float64{&d.SubsidyAreaRev, &d.SubsidyAreaRev, &d.SubsidyAreaYield}

	prem := &[5][3]float64{}
	for l := 0; l < 5; l++ {
		for p := 0; p < 3; p++ {
			v := utils.Round(maxLiab*100*rates[p][l], 0)
			v -= utils.Round(v*subs[p][l], 0)
			prem[l][p] = utils.Round(v/100*c.req.ProtFactor/1.2, 2)
		}
	}
	return prem
}

// ===== SCO / ECO OPTIONS =====

// aliab is the per-acre dollar liability base for the county options,
// using the unclamped trend-adjusted yield.
func (c *calc) aliab() float64 {
	yield := c.req.RateYield
	if c.req.TAUse {
		yield = c.atayield
	}
	return yield * c.projectedPrice
}

func (c *calc) sco() *[8][3]float64 {
	d := c.data
	if d.SCORPBaseRate == nil || d.SCORPHPEBaseRate == nil || d.SCOYPBaseRate == nil {
		return nil
	}
	aliab := c.aliab()
	rates := [3]*[8]float64{d.SCORPBaseRate, d.SCORPHPEBaseRate, d.SCOYPBaseRate}

	prem := &[8][3]float64{}
	for k := 0; k < 8; k++ {
		for p := 0; p < 3; p++ {
			v := utils.Round(aliab*rates[p][k]*(SCOTopLevel-Covers[k]), 2)
			prem[k][p] = v - utils.Round(d.SubsidySCO*v, 2)
		}
	}
	return prem
}

func (c *calc) eco() *[2][3]float64 {
	d := c.data
	if d.ECORPBaseRate == nil || d.ECORPHPEBaseRate == nil || d.ECOYPBaseRate == nil {
		return nil
	}
	aliab := c.aliab()
	rates := [3]*[2]float64{d.ECORPBaseRate, d.ECORPHPEBaseRate, d.ECOYPBaseRate}
	subs := [3]float64{d.SubsidyECORev, d.SubsidyECORev, d.SubsidyECOYield}

	prem := &[2][3]float64{}
	for l := 0; l < 2; l++ {
		for p := 0; p < 3; p++ {
			prem[l][p] = utils.Round((ECOCovers[l]-SCOTopLevel)*aliab*rates[p][l]*(1-subs[p]), 2)
		}
	}
	return prem
}
