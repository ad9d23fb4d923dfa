// Package models defines the declarative farm-year configuration the
// engines consume. The hosting application builds these records from
// its own storage; the core treats them as immutable inputs.
package models

import "time"

// Farm crop identities at the budget/insurance level.
type FarmCropType int

const (
	Corn FarmCropType = iota
	FullSeasonSoy
	WinterWheat
	SpringWheat
	DoubleCropSoy
)

func (t FarmCropType) String() string {
	switch t {
	case Corn:
		return "Corn"
	case FullSeasonSoy:
		return "FS Beans"
	case WinterWheat:
		return "W Wheat"
	case SpringWheat:
		return "S Wheat"
	case DoubleCropSoy:
		return "DC Beans"
	}
	return "Unknown"
}

// Report types for the profit plane of the sensitivity analysis.
type ReportType int

const (
	PretaxIncome ReportType = iota
	PretaxCashFlow
)

// Coverage unit selections.
const (
	CoverageCounty = 0
	CoverageFarm   = 1
)

// FarmYear is the root configuration record: one farm, one crop year.
type FarmYear struct {
	FarmName string `yaml:"farm_name" json:"farm_name"`
	CropYear int    `yaml:"crop_year" json:"crop_year"`
	State    int    `yaml:"state" json:"state"`
	County   int    `yaml:"county" json:"county"`

	CroplandAcresOwned  float64 `yaml:"cropland_acres_owned" json:"cropland_acres_owned"`
	CroplandAcresRented float64 `yaml:"cropland_acres_rented" json:"cropland_acres_rented"`
	CashRentedAcres     float64 `yaml:"cash_rented_acres" json:"cash_rented_acres"`

	// Floor and cap on variable rent as a fraction of base rent.
	VarRentCapFloorFrac float64 `yaml:"var_rent_cap_floor_frac" json:"var_rent_cap_floor_frac"`

	AnnualLandIntExpense   float64 `yaml:"annual_land_int_expense" json:"annual_land_int_expense"`
	AnnualLandPrincipalPmt float64 `yaml:"annual_land_principal_pmt" json:"annual_land_principal_pmt"`
	PropertyTaxes          float64 `yaml:"property_taxes" json:"property_taxes"`
	LandRepairs            float64 `yaml:"land_repairs" json:"land_repairs"`

	EligiblePersonsForCap int `yaml:"eligible_persons_for_cap" json:"eligible_persons_for_cap"`

	OtherNonGrainIncome  float64 `yaml:"other_nongrain_income" json:"other_nongrain_income"`
	OtherNonGrainExpense float64 `yaml:"other_nongrain_expense" json:"other_nongrain_expense"`

	ReportType ReportType `yaml:"report_type" json:"report_type"`

	ModelRunDate Date `yaml:"model_run_date" json:"model_run_date"`

	PriceFactor float64 `yaml:"price_factor" json:"price_factor"`
	YieldFactor float64 `yaml:"yield_factor" json:"yield_factor"`

	FsaCrops []*FsaCrop `yaml:"fsa_crops" json:"fsa_crops"`
}

// FarmCrops flattens the crop tree in declaration order.
func (fy *FarmYear) FarmCrops() []*FarmCrop {
	var out []*FarmCrop
	for _, fsa := range fy.FsaCrops {
		for _, mc := range fsa.MarketCrops {
			out = append(out, mc.FarmCrops...)
		}
	}
	return out
}

// TotalPlantedAcres sums planted acres over all farm crops.
func (fy *FarmYear) TotalPlantedAcres() float64 {
	total := 0.0
	for _, fc := range fy.FarmCrops() {
		total += fc.PlantedAcres
	}
	return total
}

// VarRentedFrac is the fraction of rented acres under variable-rent
// agreements, the rest being cash rented.
func (fy *FarmYear) VarRentedFrac() float64 {
	if fy.CroplandAcresRented == 0 {
		return 0
	}
	return (fy.CroplandAcresRented - fy.CashRentedAcres) / fy.CroplandAcresRented
}

// WasdeFirstMyaReleaseOn is the date the first WASDE MYA projection for
// the crop year becomes available.
func (fy *FarmYear) WasdeFirstMyaReleaseOn() time.Time {
	return time.Date(fy.CropYear, time.May, 10, 0, 0, 0, 0, time.UTC)
}

// ClampModelRunDate limits the run date to [Jan 11 of the crop year, now].
func (fy *FarmYear) ClampModelRunDate(now time.Time) {
	first := time.Date(fy.CropYear, time.January, 11, 0, 0, 0, 0, time.UTC)
	if fy.ModelRunDate.Before(first) {
		fy.ModelRunDate = Date{first}
	}
	if fy.ModelRunDate.After(now) {
		fy.ModelRunDate = Date{now}
	}
}

// FsaCrop carries Title program inputs for one program crop
// (corn, soybeans or wheat).
type FsaCrop struct {
	Name string `yaml:"name" json:"name"`

	PLCBaseAcres   float64 `yaml:"plc_base_acres" json:"plc_base_acres"`
	ARCCoBaseAcres float64 `yaml:"arcco_base_acres" json:"arcco_base_acres"`
	PLCYield       float64 `yaml:"plc_yield" json:"plc_yield"`

	EffectiveRefPrice float64 `yaml:"effective_ref_price" json:"effective_ref_price"`
	NatlLoanRate      float64 `yaml:"natl_loan_rate" json:"natl_loan_rate"`

	// Current MYA price estimate at price factor 1 (pre- or post-WASDE
	// depending on the model run date; the host picks the series).
	MYAPrice float64 `yaml:"mya_price" json:"mya_price"`

	BenchmarkRevenue float64 `yaml:"benchmark_revenue" json:"benchmark_revenue"`

	MarketCrops []*MarketCrop `yaml:"market_crops" json:"market_crops"`
}

// FarmCrops lists the farm crops under this FSA crop.
func (fsa *FsaCrop) FarmCrops() []*FarmCrop {
	var out []*FarmCrop
	for _, mc := range fsa.MarketCrops {
		out = append(out, mc.FarmCrops...)
	}
	return out
}

// PlantedAcres sums planted acres over the FSA crop's farm crops.
func (fsa *FsaCrop) PlantedAcres() float64 {
	total := 0.0
	for _, fc := range fsa.FarmCrops() {
		total += fc.PlantedAcres
	}
	return total
}

// CtyExpectedYield is the acreage-weighted county yield over the FSA
// crop's farm crops at the given yield factor. Crops whose final county
// yield is already released at the run date do not move with the factor.
func (fsa *FsaCrop) CtyExpectedYield(runDate time.Time, yf float64) float64 {
	acres, weighted := 0.0, 0.0
	for _, fc := range fsa.FarmCrops() {
		acres += fc.PlantedAcres
		weighted += fc.PlantedAcres * fc.SensCountyExpectedYield(runDate, yf)
	}
	if acres == 0 {
		return 0
	}
	return weighted / acres
}

// MarketCrop groups farm crops sharing a futures market.
type MarketCrop struct {
	Name string `yaml:"name" json:"name"`

	AssumedBasisForNew  float64 `yaml:"assumed_basis_for_new" json:"assumed_basis_for_new"`
	HarvestFuturesPrice float64 `yaml:"harvest_futures_price" json:"harvest_futures_price"`

	Contracts []Contract `yaml:"contracts" json:"contracts"`

	FarmCrops []*FarmCrop `yaml:"farm_crops" json:"farm_crops"`
}

// Contract is a futures or basis contract for a market crop.
type Contract struct {
	IsBasis      bool `yaml:"is_basis" json:"is_basis"`
	ContractDate Date `yaml:"contract_date" json:"contract_date"`
	Bushels      float64   `yaml:"bushels" json:"bushels"`
	Price        float64   `yaml:"price" json:"price"`
}

// FarmCrop is one budget/insurance crop column.
type FarmCrop struct {
	Type FarmCropType `yaml:"type" json:"type"`

	PlantedAcres float64 `yaml:"planted_acres" json:"planted_acres"`

	TAAPHYield float64 `yaml:"ta_aph_yield" json:"ta_aph_yield"`
	AdjYield   float64 `yaml:"adj_yield" json:"adj_yield"`
	RateYield  float64 `yaml:"rate_yield" json:"rate_yield"`

	TAUse bool `yaml:"ta_use" json:"ta_use"`
	YEUse bool `yaml:"ye_use" json:"ye_use"`

	Subcounty string `yaml:"subcounty" json:"subcounty"`

	// Insurance rating identity.
	InsCrop     int `yaml:"ins_crop" json:"ins_crop"`
	InsCropType int `yaml:"ins_crop_type" json:"ins_crop_type"`
	InsPractice int `yaml:"ins_practice" json:"ins_practice"`

	// Coverage selections; nil means not insured.
	CoverageType      *int     `yaml:"coverage_type" json:"coverage_type"`
	ProductType       *int     `yaml:"product_type" json:"product_type"`
	BaseCoverageLevel *float64 `yaml:"base_coverage_level" json:"base_coverage_level"`
	SCOUse            bool     `yaml:"sco_use" json:"sco_use"`
	ECOLevel          *float64 `yaml:"eco_level" json:"eco_level"`
	ProtFactor        float64  `yaml:"prot_factor" json:"prot_factor"`

	// RMA discovered values; nil before the discovery period ends.
	RMAProjectedPrice *float64 `yaml:"rma_projected_price" json:"rma_projected_price"`
	PriceVolatility   *int     `yaml:"price_volatility" json:"price_volatility"`
	RMAExpectedYield  *float64 `yaml:"rma_expected_yield" json:"rma_expected_yield"`

	// Insurance calendar for the crop: end of projected price discovery
	// and the RMA final county yield release. Zero dates fall back to
	// the standard spring calendar.
	ProjPriceDiscEnd Date `yaml:"proj_price_disc_end" json:"proj_price_disc_end"`
	CtyYieldFinal    Date `yaml:"cty_yield_final" json:"cty_yield_final"`

	Budget *FarmBudget `yaml:"budget" json:"budget"`
}

// FarmExpectedYield is the budgeted farm yield, falling back to the
// insured TA APH yield when no budget is attached.
func (fc *FarmCrop) FarmExpectedYield() float64 {
	if fc.Budget != nil {
		return fc.Budget.FarmYield
	}
	return fc.TAAPHYield
}

// CountyExpectedYield parallels FarmExpectedYield for the county yield.
func (fc *FarmCrop) CountyExpectedYield() float64 {
	if fc.Budget != nil {
		return fc.Budget.CountyYield
	}
	return fc.TAAPHYield
}

// SensFarmExpectedYield applies the yield factor to the expected farm
// yield. A yield the budget declares final is already realized and
// does not move with the factor.
func (fc *FarmCrop) SensFarmExpectedYield(yf float64) float64 {
	if fc.Budget != nil && fc.Budget.YieldFinal {
		return fc.FarmExpectedYield()
	}
	return fc.FarmExpectedYield() * yf
}

// SensCountyExpectedYield applies the yield factor to the expected
// county yield until RMA releases the final county yield.
func (fc *FarmCrop) SensCountyExpectedYield(runDate time.Time, yf float64) float64 {
	if !fc.CtyYieldFinal.IsZero() && runDate.After(fc.CtyYieldFinal.Time) {
		return fc.CountyExpectedYield()
	}
	return fc.CountyExpectedYield() * yf
}

// FarmBudget is one budget column: yields plus per-acre cost items.
type FarmBudget struct {
	FarmYield        float64 `yaml:"farm_yield" json:"farm_yield"`
	CountyYield      float64 `yaml:"county_yield" json:"county_yield"`
	YieldVariability float64 `yaml:"yield_variability" json:"yield_variability"`

	// Flags declaring actuals known; adjustments then stop applying.
	YieldFinal bool `yaml:"yield_final" json:"yield_final"`
	CostFinal  bool `yaml:"cost_final" json:"cost_final"`

	OtherGovPmts float64 `yaml:"other_gov_pmts" json:"other_gov_pmts"`
	OtherRevenue float64 `yaml:"other_revenue" json:"other_revenue"`

	// Direct costs per acre.
	Fertilizers      float64 `yaml:"fertilizers" json:"fertilizers"`
	Pesticides       float64 `yaml:"pesticides" json:"pesticides"`
	Seed             float64 `yaml:"seed" json:"seed"`
	Drying           float64 `yaml:"drying" json:"drying"`
	Storage          float64 `yaml:"storage" json:"storage"`
	OtherDirectCosts float64 `yaml:"other_direct_costs" json:"other_direct_costs"`

	// Power costs per acre.
	MachineHireLease float64 `yaml:"machine_hire_lease" json:"machine_hire_lease"`
	Utilities        float64 `yaml:"utilities" json:"utilities"`
	MachineRepair    float64 `yaml:"machine_repair" json:"machine_repair"`
	FuelAndOil       float64 `yaml:"fuel_and_oil" json:"fuel_and_oil"`
	LightVehicle     float64 `yaml:"light_vehicle" json:"light_vehicle"`
	MachineDepr      float64 `yaml:"machine_depr" json:"machine_depr"`

	// Overhead costs per acre.
	LaborAndMgmt          float64 `yaml:"labor_and_mgmt" json:"labor_and_mgmt"`
	BuildingRepairAndRent float64 `yaml:"building_repair_and_rent" json:"building_repair_and_rent"`
	BuildingDepr          float64 `yaml:"building_depr" json:"building_depr"`
	Insurance             float64 `yaml:"insurance" json:"insurance"`
	MiscOverheadCosts     float64 `yaml:"misc_overhead_costs" json:"misc_overhead_costs"`
	InterestNonland       float64 `yaml:"interest_nonland" json:"interest_nonland"`
	OtherOverheadCosts    float64 `yaml:"other_overhead_costs" json:"other_overhead_costs"`

	// Rented land cost per rented acre before the variable adjustment.
	RentedLandCosts float64 `yaml:"rented_land_costs" json:"rented_land_costs"`
}
