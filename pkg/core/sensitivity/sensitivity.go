// Package sensitivity evaluates the farm budget over a grid of price
// and yield factors and shapes the results into per-crop and
// whole-farm tables, in thousands of dollars.
package sensitivity

import (
	"context"

	"farmbudget/pkg/core/budget"
	"farmbudget/pkg/models"
)

// Default sensitivity axes. Price factors run a wider range than yield
// factors since price moves dominate revenue risk for a hedged farm.
var (
	DefaultPriceFactors = []float64{
		0.5, 0.6, 0.7, 0.8, 0.9, 0.95, 1, 1.05, 1.1, 1.2, 1.3, 1.4, 1.5, 1.6, 1.7,
	}
	DefaultYieldFactors = []float64{0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 1, 1.05, 1.1}
)

// Metrics selecting a plane family.
type Metric int

const (
	Revenue Metric = iota
	Title
	Indemnity
	Cost
	CashFlow
	numMetrics
)

func (m Metric) String() string {
	switch m {
	case Revenue:
		return "Gross Revenue"
	case Title:
		return "Title Payments"
	case Indemnity:
		return "Crop Ins. Indemnities"
	case Cost:
		return "Total Cost"
	case CashFlow:
		return "Pretax Cash Flow"
	}
	return "Unknown"
}

// Plane is one crop's (or aggregate's) values over the grid, indexed
// [priceFactor][yieldFactor], in thousands of dollars.
type Plane struct {
	Label string      `json:"label"`
	Cells [][]float64 `json:"cells"`
}

// Result carries all metric planes for a grid run.
type Result struct {
	PriceFactors []float64 `json:"price_factors"`
	YieldFactors []float64 `json:"yield_factors"`

	// Planes[metric] lists crop planes in tree order, then the farm
	// total, then the combined wheat/double-crop plane when applicable.
	Planes [numMetrics][]Plane `json:"planes"`
}

const (
	wheatDCLabel   = "Wheat/DC Beans"
	farmTotalLabel = "Farm Total"
)

func newPlane(label string, np, ny int) Plane {
	cells := make([][]float64, np)
	for i := range cells {
		cells[i] = make([]float64, ny)
	}
	return Plane{Label: label, Cells: cells}
}

// hasWheatDC reports whether the farm grows both winter wheat and
// double-crop beans; their combined economics get their own plane
// since the acres overlap.
func hasWheatDC(fy *models.FarmYear) bool {
	var wheat, dc bool
	for _, fc := range fy.FarmCrops() {
		switch fc.Type {
		case models.WinterWheat:
			wheat = true
		case models.DoubleCropSoy:
			dc = true
		}
	}
	return wheat && dc
}

// Compute runs the budget engine at every grid point. Each cell equals
// the scalar budget run at that point.
func Compute(ctx context.Context, eng *budget.Engine, fy *models.FarmYear,
	pfs, yfs []float64) (*Result, error) {

	if len(pfs) == 0 {
		pfs = DefaultPriceFactors
	}
	if len(yfs) == 0 {
		yfs = DefaultYieldFactors
	}

	crops := fy.FarmCrops()
	withDC := hasWheatDC(fy)
	np, ny := len(pfs), len(yfs)

	res := &Result{PriceFactors: pfs, YieldFactors: yfs}
	for m := Metric(0); m < numMetrics; m++ {
		for _, fc := range crops {
			res.Planes[m] = append(res.Planes[m], newPlane(fc.Type.String(), np, ny))
		}
		res.Planes[m] = append(res.Planes[m], newPlane(farmTotalLabel, np, ny))
		if withDC {
			res.Planes[m] = append(res.Planes[m], newPlane(wheatDCLabel, np, ny))
		}
	}
	totIdx := len(crops)
	dcIdx := -1
	if withDC {
		dcIdx = totIdx + 1
	}

	for i, pf := range pfs {
		for j, yf := range yfs {
			point, err := eng.RunAt(ctx, fy, pf, yf)
			if err != nil {
				return nil, err
			}
			for c, cp := range point.Crops {
				vals := [numMetrics]float64{
					Revenue:   cp.Revenue() / 1000,
					Title:     cp.Title / 1000,
					Indemnity: cp.Indemnity / 1000,
					Cost:      cp.Cost() / 1000,
					CashFlow:  cp.CashFlow() / 1000,
				}
				for m := Metric(0); m < numMetrics; m++ {
					res.Planes[m][c].Cells[i][j] += vals[m]
					res.Planes[m][totIdx].Cells[i][j] += vals[m]
					if dcIdx >= 0 && (crops[c].Type == models.WinterWheat ||
						crops[c].Type == models.DoubleCropSoy) {
						res.Planes[m][dcIdx].Cells[i][j] += vals[m]
					}
				}
			}
			res.Planes[Revenue][totIdx].Cells[i][j] += fy.OtherNonGrainIncome / 1000
			res.Planes[Cost][totIdx].Cells[i][j] += fy.OtherNonGrainExpense / 1000
			res.Planes[CashFlow][totIdx].Cells[i][j] +=
				(fy.OtherNonGrainIncome - fy.OtherNonGrainExpense) / 1000
		}
	}
	return res, nil
}
