package utils

import (
	"math"
	"testing"
)

func TestRoundHalfAwayFromZero(t *testing.T) {
	cases := []struct {
		x      float64
		places int
		want   float64
	}{
		{2.5, 0, 3},
		{-2.5, 0, -3},
		{1239.5, 0, 1240},
		{0.125, 2, 0.13},
		{-0.125, 2, -0.13},
		{0.0475, 4, 0.0475},
		{1.23456789, 8, 1.23456789},
		{0.94736842, 2, 0.95},
	}
	for _, c := range cases {
		got := Round(c.x, c.places)
		if math.Abs(got-c.want) > 1e-12 {
			t.Errorf("Round(%v, %d) = %v, want %v", c.x, c.places, got, c.want)
		}
	}
}

func TestRoundDollar(t *testing.T) {
	if got := RoundDollar(1458.44); got != 1458 {
		t.Errorf("RoundDollar(1458.44) = %v, want 1458", got)
	}
	if got := RoundDollar(2479.5); got != 2480 {
		t.Errorf("RoundDollar(2479.5) = %v, want 2480", got)
	}
}

func TestClamp(t *testing.T) {
	if got := Clamp(1.7, 0.5, 1.5); got != 1.5 {
		t.Errorf("Clamp high = %v, want 1.5", got)
	}
	if got := Clamp(0.3, 0.5, 1.5); got != 0.5 {
		t.Errorf("Clamp low = %v, want 0.5", got)
	}
	if got := Clamp(1.0, 0.5, 1.5); got != 1.0 {
		t.Errorf("Clamp mid = %v, want 1.0", got)
	}
}

func TestSafeDiv(t *testing.T) {
	if got := SafeDiv(10, 4); got != 2.5 {
		t.Errorf("SafeDiv(10, 4) = %v, want 2.5", got)
	}
	if got := SafeDiv(10, 0); got != 0 {
		t.Errorf("SafeDiv(10, 0) = %v, want 0", got)
	}
}
