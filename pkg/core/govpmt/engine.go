package govpmt

import (
	"math"

	"farmbudget/pkg/core/utils"
)

// Program constants from the FSA payment rules.
const (
	// Net payment acres are 85 percent of base acres.
	BaseToNetPmtFrac = 0.85
	// Sequestration fraction applied to the farm total.
	SequestFrac = 0.062
	// ARC-CO payment rate cap: 10 percent of benchmark county revenue.
	CapOnBmkCountyRev = 0.1
	// ARC-CO revenue guarantee: 86 percent of benchmark county revenue.
	GuarRevFrac = 0.86
	// FSA payment cap per eligible person or entity.
	PaymentCapPerPrincipal = 125000
)

// CropInputs are the per-FSA-crop values a Title payment needs. The MYA
// price carries any price sensitivity already applied by the caller.
type CropInputs struct {
	PLCBaseAcres   float64
	ARCCoBaseAcres float64
	PLCYield       float64

	EstCountyYield   float64
	EffectiveRef     float64
	NatlLoanRate     float64
	SensMYAPrice     float64
	BenchmarkRevenue float64
}

// PreSequest returns the combined pre-sequestration ARC-CO + PLC payment
// for one crop at the given yield factor, rounded to cents.
func PreSequest(in CropInputs, yf float64) float64 {
	return utils.Round(arcPmt(in, yf)+plcPmt(in), 2)
}

// PLC pays on the gap between the effective reference price and the
// effective price, capped at the reference-to-loan-rate spread.
func plcPmt(in CropInputs) float64 {
	effPrice := math.Max(in.NatlLoanRate, in.SensMYAPrice)
	rate := math.Max(in.EffectiveRef-effPrice, 0)
	maxRate := in.EffectiveRef - in.NatlLoanRate
	if rate > maxRate {
		rate = maxRate
	}
	return rate * BaseToNetPmtFrac * in.PLCBaseAcres * in.PLCYield
}

// ARC-CO pays the capped shortfall of actual county revenue against the
// guarantee fraction of benchmark revenue.
func arcPmt(in CropInputs, yf float64) float64 {
	guarantee := in.BenchmarkRevenue * GuarRevFrac
	actual := math.Max(in.SensMYAPrice, in.NatlLoanRate) * in.EstCountyYield * yf
	shortfall := math.Max(0, guarantee-actual)
	rate := math.Min(in.BenchmarkRevenue*CapOnBmkCountyRev, shortfall)
	return rate * BaseToNetPmtFrac * in.ARCCoBaseAcres
}

// Total applies sequestration and the per-entity cap to the summed
// per-crop payments, rounding to a whole dollar.
func Total(perCrop []float64, eligiblePersons int) float64 {
	sum := 0.0
	for _, p := range perCrop {
		sum += p
	}
	cap := float64(eligiblePersons) * PaymentCapPerPrincipal
	return utils.RoundDollar(math.Min(cap, sum*(1-SequestFrac)))
}

// Apportion splits the farm total across crops in proportion to planted
// acres. The shares sum back to the total exactly (no per-share rounding).
func Apportion(total float64, acres []float64) []float64 {
	shares := make([]float64, len(acres))
	totalAcres := 0.0
	for _, a := range acres {
		totalAcres += a
	}
	if totalAcres == 0 {
		return shares
	}
	for i, a := range acres {
		shares[i] = total * a / totalAcres
	}
	return shares
}
