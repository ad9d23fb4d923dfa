package refdata

import "context"

// Crop commodity codes used by RMA.
const (
	CropCorn     = 41
	CropSoybeans = 81
	CropWheat    = 11
)

// Crop type (commodity type) codes.
const (
	TypeGrain  = 16
	TypeNone   = 997
	TypeWinter = 11
	TypeSpring = 12
)

// Insurance practice codes.
const (
	PracticeIrrigated       = 2
	PracticeNonIrrigated    = 3
	PracticeFacNonIrrigated = 43
	PracticeNfacNonIrr      = 53
	PracticeNfacIrrigated   = 94
	PracticeFacIrrigated    = 95
)

// CountyPractice maps an insurance practice to the practice code used by
// county (area) products, which collapse the fac/nfac distinction.
func CountyPractice(practice int) int {
	switch practice {
	case PracticeIrrigated, PracticeNonIrrigated:
		return 3
	default:
		return 53
	}
}

// Key identifies a rating dataset.
type Key struct {
	State     int
	County    int
	Crop      int
	CropType  int
	Practice  int
	Subcounty string
}

// RatingData holds the full block of reference data needed to rate one
// (state, county, crop, type, practice, risk class) combination.
// Array shapes follow the RMA actuarial layout: enterprise factors are
// 8 coverage levels x {current, prior}; area arrays are 5 levels;
// ECO arrays are 2 levels. Nil pointers mark products unavailable for
// the county.
type RatingData struct {
	// Area (county) plan base rates, indexed by coverage level .70...90.
	AreaYPBaseRate    *[5]float64 `json:"area_yp_base_rate"`
	AreaRPBaseRate    *[5]float64 `json:"area_rp_base_rate"`
	AreaRPHPEBaseRate *[5]float64 `json:"area_rphpe_base_rate"`

	// SCO base rates indexed by coverage level .50...85.
	SCOYPBaseRate    *[8]float64 `json:"sco_yp_base_rate"`
	SCORPBaseRate    *[8]float64 `json:"sco_rp_base_rate"`
	SCORPHPEBaseRate *[8]float64 `json:"sco_rphpe_base_rate"`

	// ECO base rates indexed by coverage level {.90, .95}.
	ECOYPBaseRate    *[2]float64 `json:"eco_yp_base_rate"`
	ECORPBaseRate    *[2]float64 `json:"eco_rp_base_rate"`
	ECORPHPEBaseRate *[2]float64 `json:"eco_rphpe_base_rate"`

	// RMA expected county yield; nil for counties without area data.
	ExpectedYield *float64 `json:"expected_yield"`

	// RMA discovered projected price and price volatility, available
	// once the discovery period closes.
	ProjectedPrice  *float64 `json:"projected_price"`
	PriceVolatility *int     `json:"price_volatility"`

	SubcountyRate *float64 `json:"subcounty_rate"`
	RateMethodID  string   `json:"rate_method_id"`

	// Continuous rating base-rate parameters, {current, prior}.
	RefYield  [2]float64 `json:"ref_yield"`
	RefRate   [2]float64 `json:"ref_rate"`
	Exponent  [2]float64 `json:"exponent"`
	FixedRate [2]float64 `json:"fixed_rate"`

	EnterpriseResidualFactorR [8][2]float64 `json:"enterprise_residual_factor_r"`
	EnterpriseResidualFactorY [8][2]float64 `json:"enterprise_residual_factor_y"`
	RateDifferentialFactor    [8][2]float64 `json:"rate_differential_factor"`

	// Unit discount factors, 8 coverage levels x 6 acreage size buckets.
	EnterpriseDiscountFactor [8][6]float64 `json:"enterprise_discount_factor"`

	// Hail/fire and prevent-plant option rates.
	OptionRate [2]float64 `json:"option_rate"`

	// 500 correlated (yield draw, price draw) pairs for loss simulation.
	Draws [][2]float64 `json:"draws"`

	SubsidyEnt       [8]float64 `json:"subsidy_ent"`
	SubsidyAreaYield [5]float64 `json:"subsidy_area_yield"`
	SubsidyAreaRev   [5]float64 `json:"subsidy_area_rev"`
	SubsidySCO       float64    `json:"subsidy_sco"`
	SubsidyECOYield  float64    `json:"subsidy_eco_yield"`
	SubsidyECORev    float64    `json:"subsidy_eco_rev"`
}

// Provider supplies rating reference data to the premium engine.
type Provider interface {
	// RatingData returns the rating block for the key, or
	// ErrUnsupportedLocation when the enterprise base lookup is absent.
	RatingData(ctx context.Context, key Key) (*RatingData, error)

	// ComboRevStdMean returns the (std deviation qty, mean qty) pair
	// from the combo revenue factor table for a scaled-rate lookup id.
	ComboRevStdMean(ctx context.Context, lookupID int) (std, mean float64, err error)
}
