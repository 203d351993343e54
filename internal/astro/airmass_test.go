package astro

import (
	"math"
	"testing"
)

func TestAirmass(t *testing.T) {
	tests := []struct {
		name string
		alt  float64
		want float64
		tol  float64
	}{
		{"zenith", 90, 1.0, 0},
		{"above zenith clamps", 95, 1.0, 0},
		{"60 degrees", 60, 1.1541, 0.001},
		{"45 degrees", 45, 1.4124, 0.001},
		{"30 degrees", 30, 1.9932, 0.001},
		{"10 degrees", 10, 5.581, 0.01},
		{"1 degree", 1, 26.64, 0.05},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Airmass(tt.alt)
			if math.Abs(got-tt.want) > tt.tol {
				t.Errorf("Airmass(%v) = %v, want %v (±%v)", tt.alt, got, tt.want, tt.tol)
			}
		})
	}
}

func TestAirmass_AtOrBelowHorizon(t *testing.T) {
	for _, h := range []float64{0, -0.001, -5, -90, math.NaN()} {
		if got := Airmass(h); !math.IsInf(got, 1) {
			t.Errorf("Airmass(%v) = %v, want +Inf", h, got)
		}
	}
}

func TestAirmass_Monotonic(t *testing.T) {
	// Strictly increasing as altitude drops from the zenith to the horizon.
	prev := Airmass(90)
	for h := 89.0; h > 0; h -= 0.5 {
		got := Airmass(h)
		if got <= prev {
			t.Fatalf("Airmass(%v) = %v not greater than Airmass(%v) = %v", h, got, h+0.5, prev)
		}
		prev = got
	}
}

func TestAirmass_NeverBelowOne(t *testing.T) {
	for h := 0.01; h <= 90; h += 0.01 {
		if got := Airmass(h); got < 1 {
			t.Fatalf("Airmass(%v) = %v, want >= 1", h, got)
		}
	}
}
