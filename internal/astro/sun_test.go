package astro

import (
	"math"
	"testing"
	"time"
)

func TestSunPosition(t *testing.T) {
	tests := []struct {
		name      string
		time      time.Time
		wantRAMin float64 // RA in degrees
		wantRAMax float64
		wantDecMin float64 // Dec in degrees
		wantDecMax float64
	}{
		{
			name:      "Spring Equinox 2024 - Sun near 0h RA, 0° Dec",
			time:      time.Date(2024, 3, 20, 12, 0, 0, 0, time.UTC),
			wantRAMin: 359, // Near 0h (can be 359-1)
			wantRAMax: 2,
			wantDecMin: -1,
			wantDecMax: 1,
		},
		{
			name:      "Summer Solstice 2024 - Sun near 6h RA, +23.5° Dec",
			time:      time.Date(2024, 6, 21, 12, 0, 0, 0, time.UTC),
			wantRAMin: 88, // 6h = 90°
			wantRAMax: 92,
			wantDecMin: 23,
			wantDecMax: 24,
		},
		{
			name:      "Autumn Equinox 2024 - Sun near 12h RA, 0° Dec",
			time:      time.Date(2024, 9, 22, 12, 0, 0, 0, time.UTC),
			wantRAMin: 178, // 12h = 180°
			wantRAMax: 182,
			wantDecMin: -1,
			wantDecMax: 1,
		},
		{
			name:      "Winter Solstice 2024 - Sun near 18h RA, -23.5° Dec",
			time:      time.Date(2024, 12, 21, 12, 0, 0, 0, time.UTC),
			wantRAMin: 268, // 18h = 270°
			wantRAMax: 272,
			wantDecMin: -24,
			wantDecMax: -23,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotRA, gotDec := SunPosition(tt.time)

			// Handle RA wrap-around for spring equinox
			raOK := false
			if tt.wantRAMin > tt.wantRAMax {
				// Wrap-around case (e.g., 359-2)
				raOK = gotRA >= tt.wantRAMin || gotRA <= tt.wantRAMax
			} else {
				raOK = gotRA >= tt.wantRAMin && gotRA <= tt.wantRAMax
			}

			if !raOK {
				t.Errorf("SunPosition() RA = %.2f°, want between %.2f° and %.2f°",
					gotRA, tt.wantRAMin, tt.wantRAMax)
			}

			if gotDec < tt.wantDecMin || gotDec > tt.wantDecMax {
				t.Errorf("SunPosition() Dec = %.2f°, want between %.2f° and %.2f°",
					gotDec, tt.wantDecMin, tt.wantDecMax)
			}
		})
	}
}

func TestAngularSeparation(t *testing.T) {
	tests := []struct {
		name      string
		ra1, dec1 float64
		ra2, dec2 float64
		wantSep   float64
		tol       float64
	}{
		{
			name:    "Same point",
			ra1:     100, dec1: 30,
			ra2:     100, dec2: 30,
			wantSep: 0,
			tol:     0.001,
		},
		{
			name:    "90 degrees apart on equator",
			ra1:     0, dec1: 0,
			ra2:     90, dec2: 0,
			wantSep: 90,
			tol:     0.001,
		},
		{
			name:    "180 degrees apart on equator",
			ra1:     0, dec1: 0,
			ra2:     180, dec2: 0,
			wantSep: 180,
			tol:     0.001,
		},
		{
			name:    "Pole to equator",
			ra1:     0, dec1: 90,   // North pole
			ra2:     0, dec2: 0,    // On equator
			wantSep: 90,
			tol:     0.001,
		},
		{
			name:    "Pole to pole",
			ra1:     0, dec1: 90,   // North pole
			ra2:     0, dec2: -90,  // South pole
			wantSep: 180,
			tol:     0.001,
		},
		{
			name:    "Small separation",
			ra1:     100, dec1: 30,
			ra2:     101, dec2: 30,
			wantSep: 0.866, // cos(30°) ≈ 0.866
			tol:     0.01,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AngularSeparation(tt.ra1, tt.dec1, tt.ra2, tt.dec2)
			if math.Abs(got-tt.wantSep) > tt.tol {
				t.Errorf("AngularSeparation() = %.4f°, want %.4f° (±%.4f)",
					got, tt.wantSep, tt.tol)
			}
		})
	}
}

func TestSunAltitude(t *testing.T) {
	london := Observer{LatDeg: 51.4536, LonDeg: -0.1919}

	// Local solar noon near the June solstice: 90 - 51.45 + 23.44 ≈ 62°
	noon := time.Date(2024, 6, 21, 12, 2, 0, 0, time.UTC)
	if alt := SunAltitude(london, noon); math.Abs(alt-62) > 1 {
		t.Errorf("SunAltitude(June noon) = %.2f°, want ~62°", alt)
	}

	// Local midnight in December is deep below the horizon
	midnight := time.Date(2024, 12, 21, 0, 0, 0, 0, time.UTC)
	if alt := SunAltitude(london, midnight); alt > -50 {
		t.Errorf("SunAltitude(December midnight) = %.2f°, want below -50°", alt)
	}
}

func TestSunDistance(t *testing.T) {
	perihelion := SunDistance(time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC))
	aphelion := SunDistance(time.Date(2024, 7, 5, 0, 0, 0, 0, time.UTC))
	if math.Abs(perihelion-0.9833) > 0.001 {
		t.Errorf("SunDistance(perihelion) = %.4f AU, want ~0.9833", perihelion)
	}
	if math.Abs(aphelion-1.0167) > 0.001 {
		t.Errorf("SunDistance(aphelion) = %.4f AU, want ~1.0167", aphelion)
	}
}

func TestAngularSeparation_NearAntipodal(t *testing.T) {
	// The Vincenty form stays accurate where the cosine formula loses precision.
	got := AngularSeparation(10, 20, 190.0001, -20)
	if math.Abs(got-179.9999) > 0.0005 {
		t.Errorf("AngularSeparation(near antipodal) = %.6f°, want ~179.9999°", got)
	}

	tiny := AngularSeparation(83.8221, -5.3911, 83.8222, -5.3911)
	if tiny <= 0 || tiny > 0.0002 {
		t.Errorf("AngularSeparation(tiny) = %.8f°, want small positive", tiny)
	}
}

func TestAngularSeparation_Symmetric(t *testing.T) {
	pairs := [][4]float64{{10, 20, 200, -30}, {359, 89, 1, -89}, {45, 0, 315, 0}}
	for _, p := range pairs {
		a := AngularSeparation(p[0], p[1], p[2], p[3])
		b := AngularSeparation(p[2], p[3], p[0], p[1])
		if math.Abs(a-b) > 1e-9 {
			t.Errorf("AngularSeparation not symmetric for %v: %v vs %v", p, a, b)
		}
	}
}
