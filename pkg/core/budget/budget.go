// Package budget composes the engines into per-crop budget figures:
// grain revenue, Title payments, crop insurance and costs at a given
// price/yield sensitivity point.
package budget

import (
	"context"
	"fmt"
	"math"

	"farmbudget/pkg/core/cost"
	"farmbudget/pkg/core/govpmt"
	"farmbudget/pkg/core/indemnity"
	"farmbudget/pkg/core/marketing"
	"farmbudget/pkg/core/premium"
	"farmbudget/pkg/core/refdata"
	"farmbudget/pkg/models"
)

// Engine evaluates farm budgets. Premium tables are computed once per
// crop and cached; indemnities, revenue and costs are recomputed per
// sensitivity point.
type Engine struct {
	premiums *premium.Engine
	cache    *PremiumCache
}

func New(data refdata.Provider) *Engine {
	return &Engine{
		premiums: premium.New(data),
		cache:    NewPremiumCache(),
	}
}

// CropPoint is one crop's budget at one sensitivity point, in dollars
// for its planted acres.
type CropPoint struct {
	Crop models.FarmCropType `json:"crop"`

	GrainRevenue float64 `json:"grain_revenue"`
	OtherRevenue float64 `json:"other_revenue"`
	Title        float64 `json:"title"`
	Indemnity    float64 `json:"indemnity"`
	Premium      float64 `json:"premium"`
	NonLandCost  float64 `json:"nonland_cost"`
	LandCost     float64 `json:"land_cost"`
}

// Revenue is grain plus other crop revenue.
func (c CropPoint) Revenue() float64 { return c.GrainRevenue + c.OtherRevenue }

// Cost is growing cost, land cost and the insurance premium.
func (c CropPoint) Cost() float64 { return c.NonLandCost + c.LandCost + c.Premium }

// CashFlow is the crop's pretax contribution at the point.
func (c CropPoint) CashFlow() float64 {
	return c.Revenue() + c.Title + c.Indemnity - c.Cost()
}

// FarmPoint is the whole-farm budget at one sensitivity point.
type FarmPoint struct {
	Crops []CropPoint `json:"crops"`

	OtherNonGrainIncome  float64 `json:"other_nongrain_income"`
	OtherNonGrainExpense float64 `json:"other_nongrain_expense"`
}

func (f FarmPoint) TotalRevenue() float64 {
	total := f.OtherNonGrainIncome
	for _, c := range f.Crops {
		total += c.Revenue()
	}
	return total
}

func (f FarmPoint) TotalCost() float64 {
	total := f.OtherNonGrainExpense
	for _, c := range f.Crops {
		total += c.Cost()
	}
	return total
}

func (f FarmPoint) TotalCashFlow() float64 {
	total := f.OtherNonGrainIncome - f.OtherNonGrainExpense
	for _, c := range f.Crops {
		total += c.CashFlow()
	}
	return total
}

// Run evaluates the farm budget at the farm year's own price and yield
// factors.
func (e *Engine) Run(ctx context.Context, fy *models.FarmYear) (*FarmPoint, error) {
	return e.RunAt(ctx, fy, fy.PriceFactor, fy.YieldFactor)
}

// RunAt evaluates the farm budget at an explicit sensitivity point.
func (e *Engine) RunAt(ctx context.Context, fy *models.FarmYear, pf, yf float64) (*FarmPoint, error) {
	titleByCrop, err := titlePayments(fy, pf, yf)
	if err != nil {
		return nil, err
	}

	point := &FarmPoint{
		OtherNonGrainIncome:  fy.OtherNonGrainIncome,
		OtherNonGrainExpense: fy.OtherNonGrainExpense,
	}
	i := 0
	for _, fsa := range fy.FsaCrops {
		for _, mc := range fsa.MarketCrops {
			for _, fc := range mc.FarmCrops {
				cp, err := e.cropPoint(ctx, fy, mc, fc, pf, yf)
				if err != nil {
					return nil, fmt.Errorf("crop %s: %w", fc.Type, err)
				}
				cp.Title = titleByCrop[i]
				point.Crops = append(point.Crops, cp)
				i++
			}
		}
	}
	return point, nil
}

func (e *Engine) cropPoint(ctx context.Context, fy *models.FarmYear,
	mc *models.MarketCrop, fc *models.FarmCrop, pf, yf float64) (CropPoint, error) {

	cp := CropPoint{Crop: fc.Type}

	runDate := fy.ModelRunDate.Time
	cp.GrainRevenue = marketing.GrainRevenue(mc, fc, runDate, pf, yf)
	if fc.Budget != nil {
		cp.OtherRevenue = (fc.Budget.OtherGovPmts + fc.Budget.OtherRevenue) * fc.PlantedAcres
	}

	// A final farm yield is already realized; the grid factor no longer
	// moves the crop's bushels.
	yfc := yf
	if fc.Budget != nil && fc.Budget.YieldFinal {
		yfc = 1
	}

	// Variable rent keys off the uncontracted revenue relative to the
	// unsensitized plan; contracted legs are fixed and do not move rent.
	baseRev := marketing.NonContractRevenue(mc, fc, runDate, 1, 1)
	revFrac := 1.0
	if baseRev != 0 {
		revFrac = marketing.NonContractRevenue(mc, fc, runDate, pf, yf) / baseRev
	}
	if fc.Budget != nil {
		cp.NonLandCost = cost.NonLandPerAcre(fc.Budget, yfc) * fc.PlantedAcres
		cp.LandCost = cost.LandPerAcre(fc.Budget, fy, revFrac) * fc.PlantedAcres
	}

	if fc.CoverageType == nil && !fc.SCOUse && fc.ECOLevel == nil {
		return cp, nil
	}

	prem, err := e.cache.Get(ctx, e.premiums, fy, fc)
	if err != nil {
		return cp, err
	}
	indem := indemnity.Compute(indemnityInputs(mc, fc), pf, yfc)

	sel := Select(fc, prem, indem)
	cp.Premium = sel.Premium * fc.PlantedAcres
	cp.Indemnity = sel.Indemnity * fc.PlantedAcres
	return cp, nil
}

// titlePayments returns the net Title payment apportioned to farm
// crops (in tree order) by planted acres. The sensitized MYA price
// scales the farm-year estimate by the price factor.
func titlePayments(fy *models.FarmYear, pf, yf float64) ([]float64, error) {
	var perFsa []float64
	for _, fsa := range fy.FsaCrops {
		in := govpmt.CropInputs{
			PLCBaseAcres:     fsa.PLCBaseAcres,
			ARCCoBaseAcres:   fsa.ARCCoBaseAcres,
			PLCYield:         fsa.PLCYield,
			EstCountyYield:   fsa.CtyExpectedYield(fy.ModelRunDate.Time, yf),
			EffectiveRef:     fsa.EffectiveRefPrice,
			NatlLoanRate:     fsa.NatlLoanRate,
			SensMYAPrice:     fsa.MYAPrice * pf,
			BenchmarkRevenue: fsa.BenchmarkRevenue,
		}
		perFsa = append(perFsa, govpmt.PreSequest(in, 1))
	}
	total := govpmt.Total(perFsa, fy.EligiblePersonsForCap)

	crops := fy.FarmCrops()
	acres := make([]float64, len(crops))
	for i, fc := range crops {
		acres[i] = fc.PlantedAcres
	}
	return govpmt.Apportion(total, acres), nil
}

// premiumRequest maps a crop's configuration onto a rating request.
func premiumRequest(fy *models.FarmYear, fc *models.FarmCrop) premium.Request {
	return premium.Request{
		Key: refdata.Key{
			State:     fy.State,
			County:    fy.County,
			Crop:      fc.InsCrop,
			CropType:  fc.InsCropType,
			Practice:  fc.InsPractice,
			Subcounty: fc.Subcounty,
		},
		RateYield:       fc.RateYield,
		AdjYield:        fc.AdjYield,
		TAYield:         fc.TAAPHYield,
		Acres:           fc.PlantedAcres,
		TAUse:           fc.TAUse,
		YieldExcl:       fc.YEUse,
		ProtFactor:      fc.ProtFactor,
		ProjectedPrice:  fc.RMAProjectedPrice,
		PriceVolatility: fc.PriceVolatility,
	}
}

func indemnityInputs(mc *models.MarketCrop, fc *models.FarmCrop) indemnity.Inputs {
	pp := 0.0
	if fc.RMAProjectedPrice != nil {
		pp = *fc.RMAProjectedPrice
	}
	return indemnity.Inputs{
		TAYield:                fc.TAAPHYield,
		ProjectedPrice:         pp,
		HarvestFuturesPrice:    mc.HarvestFuturesPrice,
		RMACountyExpectedYield: fc.RMAExpectedYield,
		ProtFactor:             fc.ProtFactor,
		FarmExpectedYield:      fc.FarmExpectedYield(),
		CountyExpectedYield:    fc.CountyExpectedYield(),
	}
}

// ===== SELECTED COVERAGE =====

// Selection is the per-acre premium and indemnity for the coverage a
// crop actually elected: base policy plus any SCO and ECO endorsements.
type Selection struct {
	Premium   float64 `json:"premium"`
	Indemnity float64 `json:"indemnity"`
}

// Select picks the elected rows out of the full premium and indemnity
// tables. Base rows index by coverage level from the unit's bottom
// level in 5-point steps; SCO rows index by the base level, ECO rows
// by the 90 or 95 top level.
func Select(fc *models.FarmCrop, prem *premium.Tables, indem indemnity.Tables) Selection {
	var sel Selection
	if fc.ProductType == nil {
		return sel
	}
	p := *fc.ProductType

	if fc.CoverageType != nil && fc.BaseCoverageLevel != nil {
		switch *fc.CoverageType {
		case models.CoverageFarm:
			k := levelIndex(*fc.BaseCoverageLevel, 0.5)
			if k >= 0 && k < 8 {
				if prem != nil && prem.Farm != nil && !math.IsInf(prem.Farm[k][p], 1) {
					sel.Premium += prem.Farm[k][p]
				}
				sel.Indemnity += indem.Farm[k][p]
			}
		case models.CoverageCounty:
			l := levelIndex(*fc.BaseCoverageLevel, 0.7)
			if l >= 0 && l < 5 {
				if prem != nil && prem.Area != nil {
					sel.Premium += prem.Area[l][p]
				}
				sel.Indemnity += indem.Area[l][p]
			}
		}
	}

	if fc.SCOUse && fc.BaseCoverageLevel != nil {
		k := levelIndex(*fc.BaseCoverageLevel, 0.5)
		if k >= 0 && k < 8 {
			if prem != nil && prem.SCO != nil {
				sel.Premium += prem.SCO[k][p]
			}
			sel.Indemnity += indem.SCO[k][p]
		}
	}

	if fc.ECOLevel != nil {
		l := levelIndex(*fc.ECOLevel, 0.9)
		if l >= 0 && l < 2 {
			if prem != nil && prem.ECO != nil {
				sel.Premium += prem.ECO[l][p]
			}
			sel.Indemnity += indem.ECO[l][p]
		}
	}
	return sel
}

func levelIndex(level, bottom float64) int {
	return int(math.Round((level - bottom) / 0.05))
}
