package utils

import "math"

// Round rounds half away from zero at the given number of decimal places.
// The rating algorithms are sensitive to this; math.Round (not banker's
// rounding) matches the published worksheets.
func Round(x float64, places int) float64 {
	p := math.Pow10(places)
	return math.Round(x*p) / p
}

// RoundDollar rounds to a whole dollar amount.
func RoundDollar(x float64) float64 {
	return math.Round(x)
}

// Clamp limits x to the closed interval [lo, hi].
func Clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

// SafeDiv returns a/b, or 0 when b is zero.
func SafeDiv(a, b float64) float64 {
	if b == 0 {
		return 0
	}
	return a / b
}
