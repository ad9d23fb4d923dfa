package govpmt_test

import (
	"math"
	"testing"

	"farmbudget/pkg/core/govpmt"
)

func testInputs() govpmt.CropInputs {
	return govpmt.CropInputs{
		PLCBaseAcres:     500,
		ARCCoBaseAcres:   300,
		PLCYield:         150,
		EstCountyYield:   180,
		EffectiveRef:     3.70,
		NatlLoanRate:     2.20,
		SensMYAPrice:     3.20,
		BenchmarkRevenue: 700,
	}
}

func approx(t *testing.T, name string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("%s = %v, want %v", name, got, want)
	}
}

func TestPreSequest(t *testing.T) {
	// PLC: (3.70-3.20) * 0.85 * 500 * 150 = 31875.
	// ARC: guarantee 602, actual 576, shortfall 26 under the 70 cap;
	// 26 * 0.85 * 300 = 6630.
	approx(t, "PreSequest", govpmt.PreSequest(testInputs(), 1), 38505)
}

func TestARCShortfallCap(t *testing.T) {
	// At 80% county yield the shortfall 141.20 exceeds 10% of the
	// benchmark, so the 70 cap binds: 70 * 0.85 * 300 = 17850.
	approx(t, "PreSequest at yf 0.8", govpmt.PreSequest(testInputs(), 0.8), 49725)
}

func TestPLCZeroWhenPriceHigh(t *testing.T) {
	in := testInputs()
	in.SensMYAPrice = 4.00
	in.ARCCoBaseAcres = 0
	approx(t, "PLC above ref price", govpmt.PreSequest(in, 1), 0)
}

func TestPLCRateCappedAtLoanRate(t *testing.T) {
	// MYA below the loan rate: the gap caps at ref minus loan rate.
	in := testInputs()
	in.SensMYAPrice = 1.00
	in.ARCCoBaseAcres = 0
	in.BenchmarkRevenue = 0
	// (3.70-2.20) * 0.85 * 500 * 150 = 95625.
	approx(t, "PLC at loan rate floor", govpmt.PreSequest(in, 1), 95625)
}

func TestTotalSequestration(t *testing.T) {
	// 38505 * (1 - 0.062) = 36117.69, rounded to whole dollars.
	approx(t, "Total", govpmt.Total([]float64{38505}, 1), 36118)
}

func TestTotalPaymentCap(t *testing.T) {
	approx(t, "capped total", govpmt.Total([]float64{200000}, 1), 125000)
	approx(t, "two persons", govpmt.Total([]float64{200000}, 2), 187600)
}

func TestApportion(t *testing.T) {
	shares := govpmt.Apportion(100, []float64{600, 400})
	approx(t, "share 0", shares[0], 60)
	approx(t, "share 1", shares[1], 40)

	sum := shares[0] + shares[1]
	approx(t, "shares sum", sum, 100)

	zero := govpmt.Apportion(100, []float64{0, 0})
	approx(t, "zero acres", zero[0]+zero[1], 0)
}
