package budget_test

import (
	"context"
	"math"
	"testing"
	"time"

	"farmbudget/pkg/core/budget"
	"farmbudget/pkg/core/indemnity"
	"farmbudget/pkg/core/premium"
	"farmbudget/pkg/core/refdata"
	"farmbudget/pkg/models"
)

func floatPtr(f float64) *float64 { return &f }
func intPtr(i int) *int           { return &i }

var testKey = refdata.Key{
	State: 17, County: 113,
	Crop: refdata.CropCorn, CropType: refdata.TypeGrain,
	Practice: refdata.PracticeNfacNonIrr,
}

// ratingFixture mirrors the flat-table rating block the premium engine
// tests use, so selected premiums are hand-computable here too.
func ratingFixture() *refdata.RatingData {
	d := &refdata.RatingData{
		ExpectedYield: floatPtr(200),
		RefYield:      [2]float64{190, 190},
		RefRate:       [2]float64{0.05, 0.05},
		Exponent:      [2]float64{1, 1},
	}
	for k := 0; k < 8; k++ {
		d.RateDifferentialFactor[k] = [2]float64{0.8, 0.8}
		d.EnterpriseResidualFactorY[k] = [2]float64{1, 1}
		d.EnterpriseResidualFactorR[k] = [2]float64{1, 1}
		for j := 0; j < 6; j++ {
			d.EnterpriseDiscountFactor[k][j] = 1
		}
		d.SubsidyEnt[k] = 0.5
	}
	d.Draws = [][2]float64{{0, 0}, {0, 0}}
	return d
}

// countingProvider wraps a Static provider and counts rating lookups.
type countingProvider struct {
	*refdata.Static
	calls int
}

func (p *countingProvider) RatingData(ctx context.Context, key refdata.Key) (*refdata.RatingData, error) {
	p.calls++
	return p.Static.RatingData(ctx, key)
}

func newCountingProvider() *countingProvider {
	s := refdata.NewStatic()
	s.AddRating(testKey, ratingFixture())
	s.AddComboRev(475, 0, 100)
	return &countingProvider{Static: s}
}

func insuredCrop() *models.FarmCrop {
	return &models.FarmCrop{
		Type:         models.Corn,
		PlantedAcres: 100,
		TAAPHYield:   190,
		AdjYield:     190,
		RateYield:    180,
		TAUse:        true,
		InsCrop:      refdata.CropCorn,
		InsCropType:  refdata.TypeGrain,
		InsPractice:  refdata.PracticeNfacNonIrr,

		CoverageType:      intPtr(models.CoverageFarm),
		ProductType:       intPtr(premium.RP),
		BaseCoverageLevel: floatPtr(0.75),
		ProtFactor:        1,

		RMAProjectedPrice: floatPtr(4.00),
		PriceVolatility:   intPtr(20),
		RMAExpectedYield:  floatPtr(200),

		Budget: &models.FarmBudget{
			FarmYield:   190,
			CountyYield: 195,
			Fertilizers: 300,
		},
	}
}

func testFarmYear() *models.FarmYear {
	return &models.FarmYear{
		FarmName:              "test farm",
		CropYear:              2023,
		State:                 17,
		County:                113,
		EligiblePersonsForCap: 1,
		PriceFactor:           1,
		YieldFactor:           1,
		ModelRunDate:          models.NewDate(2023, time.February, 1),
		FsaCrops: []*models.FsaCrop{{
			Name: "corn",
			MarketCrops: []*models.MarketCrop{{
				Name:                "corn",
				HarvestFuturesPrice: 3.60,
				AssumedBasisForNew:  -0.25,
				FarmCrops:           []*models.FarmCrop{insuredCrop()},
			}},
		}},
	}
}

func approx(t *testing.T, name string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > 1e-6 {
		t.Errorf("%s = %v, want %v", name, got, want)
	}
}

func TestRunAtComposition(t *testing.T) {
	eng := budget.New(newCountingProvider())
	fy := testFarmYear()

	point, err := eng.RunAt(context.Background(), fy, 1, 1)
	if err != nil {
		t.Fatalf("RunAt: %v", err)
	}
	if len(point.Crops) != 1 {
		t.Fatalf("got %d crops, want 1", len(point.Crops))
	}
	cp := point.Crops[0]

	// 19000 bu at 3.60 futures less 0.25 basis.
	approx(t, "grain revenue", cp.GrainRevenue, 63650)
	// 300/acre growing cost on 100 acres, no land costs.
	approx(t, "nonland cost", cp.NonLandCost, 30000)
	// RP at the 75% level: 10.94/acre on 100 acres.
	approx(t, "premium", cp.Premium, 1094)
	// Harvest price below projected with no yield loss pays nothing.
	approx(t, "indemnity", cp.Indemnity, 0)
	// No base acres enrolled.
	approx(t, "title", cp.Title, 0)

	approx(t, "cash flow", cp.CashFlow(), 63650-30000-1094)
	approx(t, "farm total", point.TotalCashFlow(), cp.CashFlow())
}

func TestTitleApportionment(t *testing.T) {
	eng := budget.New(newCountingProvider())
	fy := testFarmYear()
	fsa := fy.FsaCrops[0]
	fsa.PLCBaseAcres = 500
	fsa.PLCYield = 150
	fsa.EffectiveRefPrice = 3.70
	fsa.NatlLoanRate = 2.20
	fsa.MYAPrice = 3.20

	point, err := eng.RunAt(context.Background(), fy, 1, 1)
	if err != nil {
		t.Fatalf("RunAt: %v", err)
	}
	// PLC 31875 pre-sequestration, 0.938 after, rounded to dollars,
	// all apportioned to the single crop.
	approx(t, "title", point.Crops[0].Title, 29899)
}

func TestPremiumCacheReuse(t *testing.T) {
	provider := newCountingProvider()
	eng := budget.New(provider)
	fy := testFarmYear()
	ctx := context.Background()

	if _, err := eng.RunAt(ctx, fy, 1, 1); err != nil {
		t.Fatalf("RunAt: %v", err)
	}
	if _, err := eng.RunAt(ctx, fy, 0.8, 0.7); err != nil {
		t.Fatalf("RunAt: %v", err)
	}
	if provider.calls != 1 {
		t.Errorf("rating lookups = %d, want 1 (cached)", provider.calls)
	}

	// Crossing the March 1 discovery date invalidates the entry.
	fy.ModelRunDate = models.NewDate(2023, time.April, 1)
	if _, err := eng.RunAt(ctx, fy, 1, 1); err != nil {
		t.Fatalf("RunAt: %v", err)
	}
	if provider.calls != 2 {
		t.Errorf("rating lookups = %d, want 2 after discovery", provider.calls)
	}
}

func TestPremiumCacheCropDiscoveryDate(t *testing.T) {
	provider := newCountingProvider()
	eng := budget.New(provider)
	fy := testFarmYear()
	ctx := context.Background()

	// A fall-priced crop discovers later than the spring default.
	fc := fy.FarmCrops()[0]
	fc.ProjPriceDiscEnd = models.NewDate(2023, time.June, 1)

	fy.ModelRunDate = models.NewDate(2023, time.April, 1)
	if _, err := eng.RunAt(ctx, fy, 1, 1); err != nil {
		t.Fatalf("RunAt: %v", err)
	}
	fy.ModelRunDate = models.NewDate(2023, time.May, 1)
	if _, err := eng.RunAt(ctx, fy, 1, 1); err != nil {
		t.Fatalf("RunAt: %v", err)
	}
	if provider.calls != 1 {
		t.Errorf("rating lookups = %d, want 1 before the crop's discovery end", provider.calls)
	}

	fy.ModelRunDate = models.NewDate(2023, time.June, 15)
	if _, err := eng.RunAt(ctx, fy, 1, 1); err != nil {
		t.Fatalf("RunAt: %v", err)
	}
	if provider.calls != 2 {
		t.Errorf("rating lookups = %d, want 2 after the crop's discovery end", provider.calls)
	}
}

func TestVariableRentTracksUncontractedRevenue(t *testing.T) {
	eng := budget.New(newCountingProvider())
	fy := &models.FarmYear{
		FarmName:              "test farm",
		CropYear:              2023,
		EligiblePersonsForCap: 1,
		PriceFactor:           1,
		YieldFactor:           1,
		ModelRunDate:          models.NewDate(2023, time.April, 1),
		CroplandAcresRented:   100,
		VarRentCapFloorFrac:   0.5,
		FsaCrops: []*models.FsaCrop{{
			Name: "corn",
			MarketCrops: []*models.MarketCrop{{
				Name:                "corn",
				HarvestFuturesPrice: 4.00,
				Contracts: []models.Contract{
					{IsBasis: false, ContractDate: models.NewDate(2023, time.February, 1), Bushels: 10000, Price: 4.00},
				},
				FarmCrops: []*models.FarmCrop{{
					Type:         models.Corn,
					PlantedAcres: 100,
					Budget:       &models.FarmBudget{FarmYield: 200, RentedLandCosts: 100},
				}},
			}},
		}},
	}

	point, err := eng.RunAt(context.Background(), fy, 1.5, 1)
	if err != nil {
		t.Fatalf("RunAt: %v", err)
	}
	// Half the 20000-bushel crop is locked at 4.00. Rent follows only
	// the uncontracted half, which is up 50% at pf 1.5, so the full
	// excess passes through on all-variable rented acres. Scaling off
	// total grain revenue would understate rent at 125/acre.
	approx(t, "land cost", point.Crops[0].LandCost, 15000)
}

func TestYieldFinalIgnoresYieldFactor(t *testing.T) {
	eng := budget.New(newCountingProvider())
	fy := testFarmYear()
	fc := fy.FarmCrops()[0]
	fc.Budget.YieldVariability = 0.3
	fc.Budget.YieldFinal = true
	ctx := context.Background()

	at1, err := eng.RunAt(ctx, fy, 1, 1)
	if err != nil {
		t.Fatalf("RunAt: %v", err)
	}
	at07, err := eng.RunAt(ctx, fy, 1, 0.7)
	if err != nil {
		t.Fatalf("RunAt: %v", err)
	}
	approx(t, "grain revenue", at07.Crops[0].GrainRevenue, at1.Crops[0].GrainRevenue)
	approx(t, "nonland cost", at07.Crops[0].NonLandCost, at1.Crops[0].NonLandCost)
	approx(t, "indemnity", at07.Crops[0].Indemnity, at1.Crops[0].Indemnity)
}

func TestSelect(t *testing.T) {
	fc := insuredCrop()
	fc.BaseCoverageLevel = floatPtr(0.80)
	fc.SCOUse = true
	fc.ECOLevel = floatPtr(0.95)

	prem := &premium.Tables{
		Farm: &[8][3]float64{},
		SCO:  &[8][3]float64{},
		ECO:  &[2][3]float64{},
	}
	prem.Farm[6][premium.RP] = 11.50
	prem.SCO[6][premium.RP] = 3.25
	prem.ECO[1][premium.RP] = 2.00

	var indem indemnity.Tables
	indem.Farm[6][premium.RP] = 40
	indem.SCO[6][premium.RP] = 7.6
	indem.ECO[1][premium.RP] = 19

	sel := budget.Select(fc, prem, indem)
	approx(t, "premium", sel.Premium, 11.50+3.25+2.00)
	approx(t, "indemnity", sel.Indemnity, 40+7.6+19)
}

func TestSelectCountyUnit(t *testing.T) {
	fc := insuredCrop()
	fc.CoverageType = intPtr(models.CoverageCounty)
	fc.BaseCoverageLevel = floatPtr(0.85)

	prem := &premium.Tables{Area: &[5][3]float64{}}
	prem.Area[3][premium.RP] = 8.00
	var indem indemnity.Tables
	indem.Area[3][premium.RP] = 220

	sel := budget.Select(fc, prem, indem)
	approx(t, "premium", sel.Premium, 8.00)
	approx(t, "indemnity", sel.Indemnity, 220)
}

func TestSelectSkipsUnratableLevel(t *testing.T) {
	fc := insuredCrop()
	prem := &premium.Tables{Farm: &[8][3]float64{}}
	prem.Farm[5][premium.RP] = math.Inf(1)
	var indem indemnity.Tables
	indem.Farm[5][premium.RP] = 40

	sel := budget.Select(fc, prem, indem)
	approx(t, "premium", sel.Premium, 0)
	approx(t, "indemnity", sel.Indemnity, 40)
}
