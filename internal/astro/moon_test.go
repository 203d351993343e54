package astro

import (
	"math"
	"testing"
	"time"
)

func TestMoonIlluminationAt(t *testing.T) {
	tests := []struct {
		name      string
		time      time.Time
		wantFrac  float64
		fracTol   float64
		wantPhase float64
		phaseTol  float64
	}{
		{
			name:      "2024-04-08 eclipse (new Moon)",
			time:      time.Date(2024, 4, 8, 18, 18, 0, 0, time.UTC),
			wantFrac:  0,
			fracTol:   0.01,
			wantPhase: 1.0,
			phaseTol:  0.02,
		},
		{
			name:      "2024-04-15 first quarter",
			time:      time.Date(2024, 4, 15, 19, 13, 0, 0, time.UTC),
			wantFrac:  0.5,
			fracTol:   0.03,
			wantPhase: 0.25,
			phaseTol:  0.02,
		},
		{
			name:      "2024-04-23 full Moon",
			time:      time.Date(2024, 4, 23, 23, 49, 0, 0, time.UTC),
			wantFrac:  1.0,
			fracTol:   0.01,
			wantPhase: 0.5,
			phaseTol:  0.02,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MoonIlluminationAt(tt.time)
			if math.Abs(got.Fraction-tt.wantFrac) > tt.fracTol {
				t.Errorf("Fraction = %.4f, want %.4f (±%.3f)", got.Fraction, tt.wantFrac, tt.fracTol)
			}
			// Phase wraps at new Moon
			d := math.Abs(got.Phase - tt.wantPhase)
			if d > 0.5 {
				d = 1 - d
			}
			if d > tt.phaseTol {
				t.Errorf("Phase = %.4f, want %.4f (±%.3f)", got.Phase, tt.wantPhase, tt.phaseTol)
			}
		})
	}
}

func TestMoonPosition_EclipseAlignsWithSun(t *testing.T) {
	eclipse := time.Date(2024, 4, 8, 18, 18, 0, 0, time.UTC)
	moon := MoonPosition(eclipse)
	sunRA, sunDec := SunPosition(eclipse)

	// Geocentric separation is under a degree; parallax does the rest.
	if sep := AngularSeparation(sunRA, sunDec, moon.RAdeg, moon.DecDeg); sep > 1 {
		t.Errorf("geocentric Sun-Moon separation at eclipse = %.3f°, want < 1°", sep)
	}
	if moon.DistKm < 356000 || moon.DistKm > 407000 {
		t.Errorf("DistKm = %.0f, want within perigee/apogee range", moon.DistKm)
	}
}

func TestMoonTopocentric_Parallax(t *testing.T) {
	// Parallax lowers the Moon by up to ~1° near the horizon.
	obs := Observer{LatDeg: 51.4536, LonDeg: -0.1919}
	at := time.Date(2024, 4, 23, 22, 0, 0, 0, time.UTC)

	geo := MoonPosition(at)
	geoAlt := EquatorialToHorizontal(SkyCoord{RAdeg: geo.RAdeg, DecDeg: geo.DecDeg}, obs, at).ElDeg
	topoAlt := MoonAltitude(obs, at)

	diff := geoAlt - topoAlt
	if diff <= 0 || diff > 1.1 {
		t.Errorf("parallax correction = %.3f°, want in (0, 1.1]", diff)
	}
}

func TestMoonPhaseName(t *testing.T) {
	tests := []struct {
		phase float64
		want  string
	}{
		{0, "New Moon"},
		{0.99, "New Moon"},
		{0.1, "Waxing Crescent"},
		{0.25, "First Quarter"},
		{0.4, "Waxing Gibbous"},
		{0.5, "Full Moon"},
		{0.6, "Waning Gibbous"},
		{0.75, "Last Quarter"},
		{0.85, "Waning Crescent"},
	}

	for _, tt := range tests {
		if got := MoonPhaseName(tt.phase); got != tt.want {
			t.Errorf("MoonPhaseName(%v) = %q, want %q", tt.phase, got, tt.want)
		}
	}
}
