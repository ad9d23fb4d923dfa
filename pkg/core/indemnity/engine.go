package indemnity

import (
	"math"

	"farmbudget/pkg/core/premium"
	"farmbudget/pkg/core/utils"
)

// Factors limiting insured prices and area losses.
const (
	PriceCapFactor  = 2
	LossLimitFactor = 0.18
)

// Inputs are the farm- and county-level values an indemnity computation
// needs. RMACountyExpectedYield is nil for county/crops RMA does not
// publish; area, SCO and ECO tables are then zero.
type Inputs struct {
	TAYield             float64
	ProjectedPrice      float64
	HarvestFuturesPrice float64

	RMACountyExpectedYield *float64

	ProtFactor          float64
	FarmExpectedYield   float64
	CountyExpectedYield float64
}

// Tables holds dollar-per-acre indemnities shaped like the premium
// tables: (coverage level, product), products ordered RP, RP-HPE, YP.
type Tables struct {
	Farm [8][3]float64 `json:"farm"`
	Area [5][3]float64 `json:"area"`
	SCO  [8][3]float64 `json:"sco"`
	ECO  [2][3]float64 `json:"eco"`
}

// Grid is the vectorized result over price and yield factor axes,
// indexed [priceFactor][yieldFactor].
type Grid [][]Tables

// Compute returns the four indemnity tables at a single sensitivity
// point. All entries are clamped to be nonnegative and rounded to cents.
func Compute(in Inputs, pf, yf float64) Tables {
	var t Tables
	t.Farm = enterprise(in, pf, yf)
	t.Area = area(in, pf, yf)
	t.SCO = scoTable(in, pf, yf)
	t.ECO = ecoTable(in, pf, yf)
	return t
}

// ComputeGrid evaluates Compute at every (pf, yf) pair. Each cell is
// exactly the scalar result at that point.
func ComputeGrid(in Inputs, pfs, yfs []float64) Grid {
	grid := make(Grid, len(pfs))
	for i, pf := range pfs {
		grid[i] = make([]Tables, len(yfs))
		for j, yf := range yfs {
			grid[i][j] = Compute(in, pf, yf)
		}
	}
	return grid
}

// insHarvestPrice is the harvest price recognized by the policy: the
// sensitized futures price capped at twice the projected price.
func insHarvestPrice(in Inputs, pf float64) float64 {
	return math.Min(in.ProjectedPrice*PriceCapFactor, in.HarvestFuturesPrice*pf)
}

// revTriggerCondition is the harvest price when it exceeds the
// projected price, else zero.
func revTriggerCondition(in Inputs, pf float64) float64 {
	hp := insHarvestPrice(in, pf)
	if hp > in.ProjectedPrice {
		return hp
	}
	return 0
}

// ===== ENTERPRISE UNIT =====

func enterprise(in Inputs, pf, yf float64) [8][3]float64 {
	hp := insHarvestPrice(in, pf)
	farmYield := in.FarmExpectedYield * yf
	actualRev := farmYield * hp
	cond := revTriggerCondition(in, pf)

	var out [8][3]float64
	for k := 0; k < 8; k++ {
		trigger := in.TAYield * premium.Covers[k]
		trigFeb := trigger * in.ProjectedPrice

		// Revised trigger per product: RP rides the harvest price when
		// it exceeds the projected price; RP-HPE keeps the projected
		// price only when the harvest price did not exceed it.
		revisedRP := trigger * cond
		revisedHPE := 0.0
		if hp <= in.ProjectedPrice {
			revisedHPE = trigger * in.ProjectedPrice
		}

		out[k][premium.RP] = math.Max(math.Max(trigFeb, revisedRP)-actualRev, 0)
		out[k][premium.RPHPE] = math.Max(math.Max(trigFeb, revisedHPE)-actualRev, 0)
		out[k][premium.YP] = math.Max(trigger-farmYield, 0) * in.ProjectedPrice
	}
	roundTable(out[:])
	return out
}

// ===== AREA (COUNTY) UNIT =====

func area(in Inputs, pf, yf float64) [5][3]float64 {
	var out [5][3]float64
	if in.RMACountyExpectedYield == nil {
		return out
	}
	ctyExp := *in.RMACountyExpectedYield
	hp := insHarvestPrice(in, pf)
	ctyYield := in.CountyExpectedYield * yf
	actualRev := ctyYield * hp
	cond := revTriggerCondition(in, pf)

	minProtection := ctyExp * in.ProjectedPrice * in.ProtFactor
	revisedProtection := ctyExp * in.ProtFactor * cond

	// Loss-limit terms per product column.
	var limiting [3]float64
	limiting[premium.RP] = ctyExp * LossLimitFactor * math.Max(in.ProjectedPrice, hp)
	limiting[premium.RPHPE] = ctyExp * LossLimitFactor * in.ProjectedPrice
	limiting[premium.YP] = ctyExp * LossLimitFactor

	for l := 0; l < 5; l++ {
		trigger := ctyExp * premium.AreaCovers[l]
		trigFeb := trigger * in.ProjectedPrice
		revised := trigger * cond
		maxTrig := math.Max(trigFeb, revised)

		var loss, maxLoss [3]float64
		loss[premium.RP] = math.Max(maxTrig-actualRev, 0)
		loss[premium.RPHPE] = math.Max(trigFeb-actualRev, 0)
		loss[premium.YP] = math.Max(trigger-ctyYield, 0)
		maxLoss[premium.RP] = maxTrig - limiting[premium.RP]
		maxLoss[premium.RPHPE] = trigFeb - limiting[premium.RPHPE]
		maxLoss[premium.YP] = trigger - limiting[premium.YP]

		for p := 0; p < 3; p++ {
			factor := utils.SafeDiv(loss[p], maxLoss[p])
			if factor > 1 {
				factor = 1
			}
			dollars := minProtection
			if p == premium.RP {
				dollars = math.Max(minProtection, revisedProtection)
			}
			out[l][p] = math.Max(factor*dollars, 0)
		}
	}
	roundTable(out[:])
	return out
}

// ===== SCO / ECO OPTIONS =====

func scoTable(in Inputs, pf, yf float64) [8][3]float64 {
	var out [8][3]float64
	if in.RMACountyExpectedYield == nil {
		return out
	}
	for k := 0; k < 8; k++ {
		lvl := premium.SCOTopLevel
		diff := premium.SCOTopLevel - premium.Covers[k]
		out[k] = optionRow(in, lvl, diff, pf, yf)
	}
	roundTable(out[:])
	return out
}

func ecoTable(in Inputs, pf, yf float64) [2][3]float64 {
	var out [2][3]float64
	if in.RMACountyExpectedYield == nil {
		return out
	}
	for l := 0; l < 2; l++ {
		lvl := premium.ECOCovers[l]
		diff := premium.ECOCovers[l] - premium.SCOTopLevel
		out[l] = optionRow(in, lvl, diff, pf, yf)
	}
	roundTable(out[:])
	return out
}

// optionRow computes one coverage row of an SCO or ECO indemnity table.
// The payment factor compares the county revenue ratio against the
// option's top level and scales linearly through the coverage band.
func optionRow(in Inputs, lvl, diff, pf, yf float64) [3]float64 {
	ctyExp := *in.RMACountyExpectedYield
	hp := insHarvestPrice(in, pf)
	ctyYield := in.CountyExpectedYield * yf
	maxPrice := math.Max(hp, in.ProjectedPrice)

	// Actual and insured county revenue per product column.
	var actual, insured [3]float64
	actual[premium.RP] = ctyYield * hp
	actual[premium.RPHPE] = ctyYield * hp
	actual[premium.YP] = ctyYield * in.ProjectedPrice
	insured[premium.RP] = ctyExp * maxPrice
	insured[premium.RPHPE] = ctyExp * in.ProjectedPrice
	insured[premium.YP] = ctyExp * in.ProjectedPrice

	var row [3]float64
	for p := 0; p < 3; p++ {
		ratio := utils.SafeDiv(actual[p], insured[p])
		factor := 0.0
		if ratio <= lvl {
			factor = math.Min((lvl-ratio)/diff, 1)
		}
		value := in.TAYield * diff
		if p == premium.RP {
			value *= maxPrice
		} else {
			value *= in.ProjectedPrice
		}
		row[p] = value * factor
	}
	return row
}

func roundTable(rows [][3]float64) {
	for i := range rows {
		for p := 0; p < 3; p++ {
			rows[i][p] = utils.Round(math.Max(rows[i][p], 0), 2)
		}
	}
}
