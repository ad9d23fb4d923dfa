// Package cost models per-acre crop budgets: direct, power and
// overhead items, yield-variable scaling, variable cash rent and the
// spread of owned-land costs.
package cost

import (
	"farmbudget/pkg/core/utils"
	"farmbudget/pkg/models"
)

// Per-acre sums of the three budget cost categories.

func DirectPerAcre(b *models.FarmBudget) float64 {
	return b.Fertilizers + b.Pesticides + b.Seed + b.Drying + b.Storage +
		b.OtherDirectCosts
}

func PowerPerAcre(b *models.FarmBudget) float64 {
	return b.MachineHireLease + b.Utilities + b.MachineRepair +
		b.FuelAndOil + b.LightVehicle + b.MachineDepr
}

func OverheadPerAcre(b *models.FarmBudget) float64 {
	return b.LaborAndMgmt + b.BuildingRepairAndRent + b.BuildingDepr +
		b.Insurance + b.MiscOverheadCosts + b.InterestNonland +
		b.OtherOverheadCosts
}

// NonLandPerAcre is the yield-sensitized per-acre cost of growing the
// crop. A fraction of the budget scales with yield (drying, hauling,
// storage move with bushels); once costs are final the budget is taken
// as booked and no adjustment applies.
func NonLandPerAcre(b *models.FarmBudget, yf float64) float64 {
	base := DirectPerAcre(b) + PowerPerAcre(b) + OverheadPerAcre(b)
	if b.CostFinal {
		return base
	}
	return base * (1 + b.YieldVariability*(yf-1))
}

// RentedLandPerAcre adjusts the budgeted rent for variable-rent
// agreements. revFrac is sensitized uncontracted crop revenue over its
// baseline; the excess passes through to rent on the variable-rented
// fraction of acres, clamped at the contract cap and floor.
func RentedLandPerAcre(b *models.FarmBudget, fy *models.FarmYear, revFrac float64) float64 {
	excess := utils.Clamp(revFrac-1, -fy.VarRentCapFloorFrac, fy.VarRentCapFloorFrac)
	return b.RentedLandCosts * (1 + fy.VarRentedFrac()*excess)
}

// OwnedLandPerAcre spreads the farm's owned-land carrying costs over
// all planted acres. The cash-flow report replaces the income view of
// land cost with actual debt service, so principal payments join in.
func OwnedLandPerAcre(fy *models.FarmYear) float64 {
	total := fy.AnnualLandIntExpense + fy.PropertyTaxes + fy.LandRepairs
	if fy.ReportType == models.PretaxCashFlow {
		total += fy.AnnualLandPrincipalPmt
	}
	return utils.SafeDiv(total, fy.TotalPlantedAcres())
}

// LandPerAcre combines rented and owned land cost for one crop acre,
// weighting the rented component by the farm's rented share of acres.
func LandPerAcre(b *models.FarmBudget, fy *models.FarmYear, revFrac float64) float64 {
	totalAcres := fy.CroplandAcresOwned + fy.CroplandAcresRented
	rentedFrac := utils.SafeDiv(fy.CroplandAcresRented, totalAcres)
	return RentedLandPerAcre(b, fy, revFrac)*rentedFrac + OwnedLandPerAcre(fy)
}

// TotalCost is the crop's full cost at the sensitivity point, in
// dollars for its planted acres.
func TotalCost(fc *models.FarmCrop, fy *models.FarmYear, revFrac, yf float64) float64 {
	if fc.Budget == nil {
		return 0
	}
	perAcre := NonLandPerAcre(fc.Budget, yf) + LandPerAcre(fc.Budget, fy, revFrac)
	return perAcre * fc.PlantedAcres
}
