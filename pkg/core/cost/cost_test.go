package cost_test

import (
	"math"
	"testing"

	"farmbudget/pkg/core/cost"
	"farmbudget/pkg/models"
)

func testBudget() *models.FarmBudget {
	return &models.FarmBudget{
		FarmYield:        200,
		YieldVariability: 0.2,

		Fertilizers:      100,
		Pesticides:       50,
		Seed:             80,
		Drying:           10,
		Storage:          5,
		OtherDirectCosts: 5,

		MachineHireLease: 20,
		Utilities:        10,
		MachineRepair:    25,
		FuelAndOil:       30,
		LightVehicle:     5,
		MachineDepr:      60,

		LaborAndMgmt:          70,
		BuildingRepairAndRent: 10,
		BuildingDepr:          20,
		Insurance:             12,
		MiscOverheadCosts:     8,
		InterestNonland:       30,

		RentedLandCosts: 280,
	}
}

func testFarmYear() *models.FarmYear {
	return &models.FarmYear{
		CroplandAcresOwned:     500,
		CroplandAcresRented:    500,
		CashRentedAcres:        250,
		VarRentCapFloorFrac:    0.15,
		AnnualLandIntExpense:   20000,
		AnnualLandPrincipalPmt: 30000,
		PropertyTaxes:          8000,
		LandRepairs:            2000,
		FsaCrops: []*models.FsaCrop{{
			MarketCrops: []*models.MarketCrop{{
				FarmCrops: []*models.FarmCrop{
					{Type: models.Corn, PlantedAcres: 1000, Budget: testBudget()},
				},
			}},
		}},
	}
}

func approx(t *testing.T, name string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("%s = %v, want %v", name, got, want)
	}
}

func TestCategorySums(t *testing.T) {
	b := testBudget()
	approx(t, "direct", cost.DirectPerAcre(b), 250)
	approx(t, "power", cost.PowerPerAcre(b), 150)
	approx(t, "overhead", cost.OverheadPerAcre(b), 150)
}

func TestNonLandYieldScaling(t *testing.T) {
	b := testBudget()
	approx(t, "at yf 1", cost.NonLandPerAcre(b, 1), 550)
	// 20% of cost moves with yield: 550 * (1 + 0.2*(-0.2)).
	approx(t, "at yf 0.8", cost.NonLandPerAcre(b, 0.8), 528)

	b.CostFinal = true
	approx(t, "final costs ignore yf", cost.NonLandPerAcre(b, 0.8), 550)
}

func TestVariableRent(t *testing.T) {
	b, fy := testBudget(), testFarmYear()

	// Revenue 40% over plan clamps to the 15% cap on half the acres.
	approx(t, "rent capped up", cost.RentedLandPerAcre(b, fy, 1.4), 301)
	// 30% under plan clamps to the floor.
	approx(t, "rent floored down", cost.RentedLandPerAcre(b, fy, 0.7), 259)
	approx(t, "rent at plan", cost.RentedLandPerAcre(b, fy, 1.0), 280)
}

func TestOwnedLandPerAcre(t *testing.T) {
	fy := testFarmYear()
	approx(t, "income view", cost.OwnedLandPerAcre(fy), 30)

	fy.ReportType = models.PretaxCashFlow
	approx(t, "cash flow adds principal", cost.OwnedLandPerAcre(fy), 60)
}

func TestLandPerAcre(t *testing.T) {
	b, fy := testBudget(), testFarmYear()
	// Half the acres rented at 280 plus 30 owned-land spread.
	approx(t, "combined land", cost.LandPerAcre(b, fy, 1.0), 170)
}

func TestTotalCost(t *testing.T) {
	fy := testFarmYear()
	fc := fy.FarmCrops()[0]
	approx(t, "total", cost.TotalCost(fc, fy, 1.0, 1.0), (550+170)*1000)

	fc.Budget = nil
	approx(t, "no budget", cost.TotalCost(fc, fy, 1.0, 1.0), 0)
}
