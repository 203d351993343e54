package astro

import (
	"errors"
	"math"
	"testing"
	"time"
)

func TestJulianDate(t *testing.T) {
	tests := []struct {
		name     string
		time     time.Time
		expected float64
		tol      float64
	}{
		{
			name:     "J2000 epoch",
			time:     time.Date(2000, 1, 1, 12, 0, 0, 0, time.UTC),
			expected: 2451545.0,
			tol:      0.0001,
		},
		{
			name:     "Unix epoch",
			time:     time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC),
			expected: 2440587.5,
			tol:      0.0001,
		},
		{
			name:     "Known date 2024-01-01 00:00 UTC",
			time:     time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			expected: 2460310.5,
			tol:      0.0001,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := JulianDate(tt.time)
			if math.Abs(got-tt.expected) > tt.tol {
				t.Errorf("JulianDate() = %v, want %v (±%v)", got, tt.expected, tt.tol)
			}
		})
	}
}

func TestGreenwichMeanSiderealTime(t *testing.T) {
	// At J2000 epoch (2000-01-01 12:00 UTC), GMST should be approximately 280.46°
	t2000 := time.Date(2000, 1, 1, 12, 0, 0, 0, time.UTC)
	gmst := greenwichMeanSiderealTime(t2000)

	// GMST at J2000 should be very close to 280.46°
	if math.Abs(gmst-280.46) > 0.1 {
		t.Errorf("GMST at J2000 = %v, want ~280.46", gmst)
	}

	// GMST should be in range 0-360
	if gmst < 0 || gmst >= 360 {
		t.Errorf("GMST out of range: %v", gmst)
	}
}

func TestLocalSiderealTime(t *testing.T) {
	// LST = GMST + longitude
	testTime := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

	// At longitude 0 (Greenwich), LST should equal GMST
	gmst := greenwichMeanSiderealTime(testTime)
	lst0 := LocalSiderealTime(testTime, 0)
	if math.Abs(lst0-gmst) > 0.001 {
		t.Errorf("LST at lon=0 should equal GMST: got %v, want %v", lst0, gmst)
	}

	// At longitude +90° (east), LST should be GMST + 90°
	lst90 := LocalSiderealTime(testTime, 90)
	expected90 := math.Mod(gmst+90, 360)
	if math.Abs(lst90-expected90) > 0.001 {
		t.Errorf("LST at lon=90 = %v, want %v", lst90, expected90)
	}

	// LST should always be in 0-360 range
	for lon := -180.0; lon <= 180; lon += 30 {
		lst := LocalSiderealTime(testTime, lon)
		if lst < 0 || lst >= 360 {
			t.Errorf("LST at lon=%v out of range: %v", lon, lst)
		}
	}
}

func TestEquatorialToHorizontal_Polaris(t *testing.T) {
	// Polaris is approximately at RA=37.95°, Dec=89.26° (very close to NCP)
	// From northern latitudes, it should always be visible (El > 0)
	// and approximately at Az=0° (due north) with El ≈ latitude

	polaris := SkyCoord{
		RAdeg:  37.95,
		DecDeg: 89.26,
	}

	// Observer at 35°N
	observer := Observer{
		LatDeg: 35.0,
		LonDeg: -117.0, // west longitude
	}

	testTime := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)
	result := EquatorialToHorizontal(polaris, observer, testTime)

	// Polaris elevation should be approximately equal to observer latitude (±5°)
	expectedEl := observer.LatDeg
	if math.Abs(result.ElDeg-expectedEl) > 5 {
		t.Errorf("Polaris elevation = %v°, expected ~%v° (latitude)", result.ElDeg, expectedEl)
	}

	// Polaris should always be visible from northern hemisphere
	if result.ElDeg < 0 {
		t.Errorf("Polaris should be visible from 35°N, got El=%v°", result.ElDeg)
	}

	// Original RA/Dec should be preserved
	if result.RAdeg != polaris.RAdeg || result.DecDeg != polaris.DecDeg {
		t.Error("RA/Dec should be preserved after transformation")
	}
}

func TestEquatorialToHorizontal_ZenithStar(t *testing.T) {
	// A star at the zenith has Dec = observer latitude and HA = 0
	// This means RA = LST at that moment

	observer := Observer{
		LatDeg: 35.0,
		LonDeg: -117.0,
	}

	testTime := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	lst := LocalSiderealTime(testTime, observer.LonDeg)

	// Star at zenith: Dec = lat, RA = LST
	zenithStar := SkyCoord{
		RAdeg:  lst,
		DecDeg: observer.LatDeg,
	}

	result := EquatorialToHorizontal(zenithStar, observer, testTime)

	// Elevation should be ~90° (zenith)
	if math.Abs(result.ElDeg-90) > 1 {
		t.Errorf("Zenith star elevation = %v°, expected ~90°", result.ElDeg)
	}
}

func TestEquatorialToHorizontal_SouthernStar(t *testing.T) {
	// A star at Dec = -60° should not be visible from 35°N
	// (it's always below the horizon)

	southernStar := SkyCoord{
		RAdeg:  0,
		DecDeg: -60,
	}

	observer := Observer{
		LatDeg: 35.0,
		LonDeg: -117.0,
	}

	// Test at multiple times
	for hour := 0; hour < 24; hour += 6 {
		testTime := time.Date(2024, 6, 15, hour, 0, 0, 0, time.UTC)
		result := EquatorialToHorizontal(southernStar, observer, testTime)

		// Star at -60° should never rise above horizon from 35°N
		// Max elevation = 90 - lat + dec = 90 - 35 + (-60) = -5°
		if result.ElDeg > 0 {
			t.Errorf("Star at Dec=-60° visible from 35°N at hour %d: El=%v°", hour, result.ElDeg)
		}
	}
}

func TestEquatorialToHorizontal_PreservesDistance(t *testing.T) {
	planet := SkyCoord{
		RAdeg:  100,
		DecDeg: 20,
		DistAU: 4.2,
	}

	observer := Observer{LatDeg: 51.4536, LonDeg: -0.1919}
	result := EquatorialToHorizontal(planet, observer, time.Date(2025, 1, 10, 22, 0, 0, 0, time.UTC))

	if result.DistAU != planet.DistAU {
		t.Errorf("DistAU not preserved: got %v, want %v", result.DistAU, planet.DistAU)
	}
}

func TestObserverValidate(t *testing.T) {
	tests := []struct {
		name    string
		obs     Observer
		wantErr bool
	}{
		{"London", Observer{LatDeg: 51.4536, LonDeg: -0.1919}, false},
		{"north pole", Observer{LatDeg: 90, LonDeg: 0}, false},
		{"antimeridian", Observer{LatDeg: -33, LonDeg: 180}, false},
		{"high site", Observer{LatDeg: 19.82, LonDeg: -155.47, ElevationM: 4205}, false},
		{"latitude too large", Observer{LatDeg: 91, LonDeg: 0}, true},
		{"latitude too small", Observer{LatDeg: -90.5, LonDeg: 0}, true},
		{"longitude too large", Observer{LatDeg: 10, LonDeg: 181}, true},
		{"longitude NaN", Observer{LatDeg: 10, LonDeg: math.NaN()}, true},
		{"elevation inf", Observer{LatDeg: 10, LonDeg: 10, ElevationM: math.Inf(1)}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.obs.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidCoordinates) {
				t.Errorf("Validate() error %v is not ErrInvalidCoordinates", err)
			}
		})
	}
}

func TestValidateRADec(t *testing.T) {
	if err := ValidateRADec(83.82, -5.39); err != nil {
		t.Errorf("ValidateRADec(M42) = %v, want nil", err)
	}
	for _, bad := range [][2]float64{{360, 0}, {-1, 0}, {10, 90.1}, {10, -91}, {math.NaN(), 0}} {
		err := ValidateRADec(bad[0], bad[1])
		if !errors.Is(err, ErrInvalidCoordinates) {
			t.Errorf("ValidateRADec(%v, %v) = %v, want ErrInvalidCoordinates", bad[0], bad[1], err)
		}
		if errors.Is(err, ErrDegenerateNightWindow) {
			t.Errorf("ValidateRADec(%v, %v) matched the wrong kind", bad[0], bad[1])
		}
	}
}

func TestHorizonDip(t *testing.T) {
	if d := (Observer{}).HorizonDip(); d != 0 {
		t.Errorf("HorizonDip at sea level = %v, want 0", d)
	}
	d := Observer{ElevationM: 1000}.HorizonDip()
	if math.Abs(d-0.9265) > 0.001 {
		t.Errorf("HorizonDip(1000m) = %v, want ~0.93", d)
	}
}

func TestEquatorialToHorizontal_AzimuthRange(t *testing.T) {
	// Test that azimuth is always in 0-360 range
	observer := Observer{LatDeg: 35, LonDeg: -117}

	for ra := 0.0; ra < 360; ra += 30 {
		for dec := -80.0; dec <= 80; dec += 20 {
			star := SkyCoord{RAdeg: ra, DecDeg: dec}
			testTime := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
			result := EquatorialToHorizontal(star, observer, testTime)

			if result.AzDeg < 0 || result.AzDeg >= 360 {
				t.Errorf("Azimuth out of range for RA=%v, Dec=%v: Az=%v",
					ra, dec, result.AzDeg)
			}
		}
	}
}
