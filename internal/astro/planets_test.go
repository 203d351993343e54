package astro

import (
	"math"
	"testing"
	"time"
)

func TestPlanetPosition_Oppositions(t *testing.T) {
	tests := []struct {
		name     string
		planet   Planet
		time     time.Time
		wantRA   float64
		wantDec  float64
		wantDist float64
	}{
		{"Jupiter 2023", Jupiter, time.Date(2023, 11, 3, 0, 0, 0, 0, time.UTC), 38.5, 13.6, 3.98},
		{"Mars 2025", Mars, time.Date(2025, 1, 16, 0, 0, 0, 0, time.UTC), 119.2, 25.1, 0.643},
		{"Saturn 2024", Saturn, time.Date(2024, 9, 8, 0, 0, 0, 0, time.UTC), 348.1, -7.5, 8.65},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PlanetPosition(tt.planet, tt.time)
			if sep := AngularSeparation(got.RAdeg, got.DecDeg, tt.wantRA, tt.wantDec); sep > 0.5 {
				t.Errorf("position (%.2f, %.2f) is %.2f° from expected (%.1f, %.1f)",
					got.RAdeg, got.DecDeg, sep, tt.wantRA, tt.wantDec)
			}
			if math.Abs(got.DistAU-tt.wantDist)/tt.wantDist > 0.01 {
				t.Errorf("DistAU = %.3f, want ~%.3f", got.DistAU, tt.wantDist)
			}

			// Near opposition the planet sits opposite the Sun.
			sunRA, sunDec := SunPosition(tt.time)
			if sep := AngularSeparation(sunRA, sunDec, got.RAdeg, got.DecDeg); sep < 170 {
				t.Errorf("Sun separation at opposition = %.1f°, want > 170°", sep)
			}
			if got.PhaseAngleDeg > 5 {
				t.Errorf("PhaseAngleDeg = %.2f, want small at opposition", got.PhaseAngleDeg)
			}
		})
	}
}

func TestPlanetPosition_Magnitudes(t *testing.T) {
	jup := PlanetPosition(Jupiter, time.Date(2023, 11, 3, 0, 0, 0, 0, time.UTC))
	if jup.Magnitude < -3.1 || jup.Magnitude > -2.7 {
		t.Errorf("Jupiter magnitude at opposition = %.2f, want ~-2.9", jup.Magnitude)
	}
	if jup.DiameterArcsec < 48 || jup.DiameterArcsec > 51 {
		t.Errorf("Jupiter diameter = %.1f\", want ~49.5\"", jup.DiameterArcsec)
	}

	venus := PlanetPosition(Venus, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	if venus.Magnitude > -3.8 || venus.Magnitude < -4.6 {
		t.Errorf("Venus magnitude = %.2f, want about -4", venus.Magnitude)
	}
}

func TestPlanetByName(t *testing.T) {
	for _, p := range AllPlanets() {
		got, ok := PlanetByName(p.String())
		if !ok || got != p {
			t.Errorf("PlanetByName(%q) = %v, %v", p.String(), got, ok)
		}
	}
	if got, ok := PlanetByName("saturn"); !ok || got != Saturn {
		t.Errorf("PlanetByName(saturn) = %v, %v", got, ok)
	}
	if _, ok := PlanetByName("Pluto"); ok {
		t.Error("PlanetByName(Pluto) should not resolve")
	}
	if Planet(42).String() != "Unknown" {
		t.Error("out of range planet should stringify as Unknown")
	}
}

func TestPrecessFromJ2000(t *testing.T) {
	// Zero interval is the identity.
	j2000 := time.Date(2000, 1, 1, 12, 0, 0, 0, time.UTC)
	ra, dec := PrecessFromJ2000(83.8221, -5.3911, j2000)
	if math.Abs(ra-83.8221) > 1e-6 || math.Abs(dec+5.3911) > 1e-6 {
		t.Errorf("PrecessFromJ2000 at J2000 = (%v, %v), want unchanged", ra, dec)
	}

	// 25 years of general precession moves positions by roughly 0.35°.
	ra, dec = PrecessFromJ2000(0, 0, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	shift := AngularSeparation(0, 0, ra, dec)
	if shift < 0.3 || shift > 0.4 {
		t.Errorf("precession shift over 25 years = %.3f°, want ~0.35°", shift)
	}
}
