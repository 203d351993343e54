// Package astro provides astronomical coordinate transformations and sky math.
package astro

import (
	"math"
	"time"
)

// SkyCoord represents celestial coordinates with both equatorial (RA/Dec)
// and horizontal (Az/El) components.
type SkyCoord struct {
	// Equatorial coordinates (of date)
	RAdeg  float64 // Right Ascension in degrees (0-360)
	DecDeg float64 // Declination in degrees (-90 to +90)

	// Horizontal coordinates (observer-relative)
	AzDeg float64 // Azimuth in degrees (0=N, 90=E, 180=S, 270=W)
	ElDeg float64 // Elevation/Altitude in degrees (0=horizon, 90=zenith)

	// Geocentric distance in AU (optional, solar-system bodies only)
	DistAU float64
}

// Observer represents a ground-based observer location.
type Observer struct {
	LatDeg     float64 `json:"lat_deg"`               // north positive
	LonDeg     float64 `json:"lon_deg"`               // east positive
	ElevationM float64 `json:"elevation_m,omitempty"` // above sea level
	Name       string  `json:"name,omitempty"`
}

// Validate rejects latitudes outside [-90, 90], longitudes outside
// [-180, 180] and non-finite values. Nothing is clamped.
func (o Observer) Validate() error {
	if !isFinite(o.LatDeg) || o.LatDeg < -90 || o.LatDeg > 90 {
		return invalidCoordinate("latitude", o.LatDeg, "latitude must be in [-90, 90]")
	}
	if !isFinite(o.LonDeg) || o.LonDeg < -180 || o.LonDeg > 180 {
		return invalidCoordinate("longitude", o.LonDeg, "longitude must be in [-180, 180]")
	}
	if !isFinite(o.ElevationM) {
		return invalidCoordinate("elevation_m", o.ElevationM, "elevation must be finite")
	}
	return nil
}

// HorizonDip returns the dip of the visible horizon in degrees for an
// observer above sea level.
func (o Observer) HorizonDip() float64 {
	if o.ElevationM <= 0 {
		return 0
	}
	return 0.0293 * math.Sqrt(o.ElevationM)
}

// EquatorialToHorizontal converts equatorial coordinates (RA/Dec) to horizontal
// coordinates (Az/El) for a given observer and time.
//
// The function preserves the input RA/Dec values and populates Az/El.
// Uses standard astronomical conventions:
//   - Azimuth: 0° = North, 90° = East, 180° = South, 270° = West
//   - Elevation: 0° = horizon, 90° = zenith
func EquatorialToHorizontal(eq SkyCoord, obs Observer, t time.Time) SkyCoord {
	lat := degToRad(obs.LatDeg)
	dec := degToRad(eq.DecDeg)

	ha := degToRad(LocalSiderealTime(t, obs.LonDeg) - eq.RAdeg)

	sinAlt := math.Sin(dec)*math.Sin(lat) + math.Cos(dec)*math.Cos(lat)*math.Cos(ha)
	alt := math.Asin(clampUnit(sinAlt))

	// atan2 form stays well defined at the poles and the zenith
	az := math.Atan2(-math.Cos(dec)*math.Sin(ha),
		math.Sin(dec)*math.Cos(lat)-math.Cos(dec)*math.Sin(lat)*math.Cos(ha))

	return SkyCoord{
		RAdeg:  eq.RAdeg,
		DecDeg: eq.DecDeg,
		AzDeg:  normalizeAngle360(radToDeg(az)),
		ElDeg:  radToDeg(alt),
		DistAU: eq.DistAU,
	}
}

// LocalSiderealTime calculates the Local Sidereal Time in degrees
// for a given UTC time and observer longitude.
func LocalSiderealTime(t time.Time, lonDeg float64) float64 {
	return normalizeAngle360(greenwichMeanSiderealTime(t) + lonDeg)
}

// greenwichMeanSiderealTime calculates GMST in degrees for a given UTC time.
// Uses the IAU 1982 formula based on Julian Date.
func greenwichMeanSiderealTime(t time.Time) float64 {
	jd := JulianDate(t)
	T := (jd - 2451545.0) / 36525.0

	gmst := 280.46061837 +
		360.98564736629*(jd-2451545.0) +
		0.000387933*T*T -
		T*T*T/38710000.0

	return normalizeAngle360(gmst)
}

// JulianDate calculates the Julian Date for a given time.
func JulianDate(t time.Time) float64 {
	t = t.UTC()

	y := float64(t.Year())
	m := float64(t.Month())
	d := float64(t.Day())

	h := float64(t.Hour())
	min := float64(t.Minute())
	sec := float64(t.Second())
	ns := float64(t.Nanosecond())

	dayFrac := (h + min/60 + sec/3600 + ns/3600e9) / 24.0

	// January/February count as months 13/14 of the previous year
	if m <= 2 {
		y--
		m += 12
	}

	// Gregorian calendar correction
	A := math.Floor(y / 100)
	B := 2 - A + math.Floor(A/4)

	return math.Floor(365.25*(y+4716)) +
		math.Floor(30.6001*(m+1)) +
		d + dayFrac + B - 1524.5
}

// centuriesSinceJ2000 returns Julian centuries since J2000.0 for t.
func centuriesSinceJ2000(t time.Time) float64 {
	return (JulianDate(t) - 2451545.0) / 36525.0
}

// degToRad converts degrees to radians.
func degToRad(deg float64) float64 {
	return deg * math.Pi / 180
}

// radToDeg converts radians to degrees.
func radToDeg(rad float64) float64 {
	return rad * 180 / math.Pi
}

func clampUnit(x float64) float64 {
	if x > 1 {
		return 1
	}
	if x < -1 {
		return -1
	}
	return x
}

func isFinite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
