package validate

import (
	"fmt"
	"math"

	"farmbudget/pkg/core/budget"
)

// ConsistencyReport collects the identity checks for one budget run.
type ConsistencyReport struct {
	CashFlowIdentity *CashFlowIdentity `json:"cash_flow_identity"`
	FarmTotalLinkage *FarmTotalLinkage `json:"farm_total_linkage"`
	AllPassed        bool              `json:"all_passed"`
	FailedChecks     []string          `json:"failed_checks,omitempty"`
}

// CashFlowIdentity validates, per crop:
// cash flow == revenue + title + indemnity - cost.
type CashFlowIdentity struct {
	MaxDifference float64 `json:"max_difference"`
	IsLinked      bool    `json:"is_linked"`
	Tolerance     float64 `json:"tolerance"`
}

// FarmTotalLinkage validates that farm totals equal the crop sums plus
// the non-grain income and expense lines.
type FarmTotalLinkage struct {
	RevenueDifference  float64 `json:"revenue_difference"`
	CostDifference     float64 `json:"cost_difference"`
	CashFlowDifference float64 `json:"cash_flow_difference"`
	IsLinked           bool    `json:"is_linked"`
	Tolerance          float64 `json:"tolerance"`
}

// CheckConsistency verifies the identities that must hold between
// per-crop figures and farm totals on a finished budget run.
func CheckConsistency(point *budget.FarmPoint, tolerance float64) *ConsistencyReport {
	report := &ConsistencyReport{AllPassed: true}

	ci := &CashFlowIdentity{Tolerance: tolerance, IsLinked: true}
	for _, cp := range point.Crops {
		want := cp.Revenue() + cp.Title + cp.Indemnity - cp.Cost()
		diff := math.Abs(cp.CashFlow() - want)
		if diff > ci.MaxDifference {
			ci.MaxDifference = diff
		}
	}
	if ci.MaxDifference > tolerance {
		ci.IsLinked = false
		report.AllPassed = false
		report.FailedChecks = append(report.FailedChecks,
			fmt.Sprintf("crop cash flow identity off by %.4f", ci.MaxDifference))
	}
	report.CashFlowIdentity = ci

	var rev, cst, cash float64
	for _, cp := range point.Crops {
		rev += cp.Revenue()
		cst += cp.Cost()
		cash += cp.CashFlow()
	}
	rev += point.OtherNonGrainIncome
	cst += point.OtherNonGrainExpense
	cash += point.OtherNonGrainIncome - point.OtherNonGrainExpense

	ft := &FarmTotalLinkage{
		RevenueDifference:  math.Abs(point.TotalRevenue() - rev),
		CostDifference:     math.Abs(point.TotalCost() - cst),
		CashFlowDifference: math.Abs(point.TotalCashFlow() - cash),
		Tolerance:          tolerance,
		IsLinked:           true,
	}
	if ft.RevenueDifference > tolerance || ft.CostDifference > tolerance ||
		ft.CashFlowDifference > tolerance {
		ft.IsLinked = false
		report.AllPassed = false
		report.FailedChecks = append(report.FailedChecks, "farm totals do not tie to crop sums")
	}
	report.FarmTotalLinkage = ft
	return report
}
