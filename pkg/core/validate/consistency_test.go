package validate

import (
	"testing"

	"farmbudget/pkg/core/budget"
	"farmbudget/pkg/models"
)

func TestCheckConsistency(t *testing.T) {
	point := &budget.FarmPoint{
		Crops: []budget.CropPoint{
			{
				Crop:         models.Corn,
				GrainRevenue: 300000, OtherRevenue: 5000,
				Title: 10000, Indemnity: 2500, Premium: 4000,
				NonLandCost: 150000, LandCost: 80000,
			},
			{
				Crop:         models.FullSeasonSoy,
				GrainRevenue: 180000,
				NonLandCost:  90000, LandCost: 40000,
			},
		},
		OtherNonGrainIncome:  12000,
		OtherNonGrainExpense: 7000,
	}

	report := CheckConsistency(point, 0.01)
	if !report.AllPassed {
		t.Fatalf("expected consistent run, failed checks: %v", report.FailedChecks)
	}
	if !report.CashFlowIdentity.IsLinked || !report.FarmTotalLinkage.IsLinked {
		t.Error("expected both identities linked")
	}
}
