package astro

import (
	"math"
	"time"
)

// Sun altitudes that bound the observing night.
const (
	// SunsetAltitude is the apparent upper-limb sunset/sunrise altitude
	// including standard refraction.
	SunsetAltitude = -0.833

	// AstronomicalTwilight is the altitude below which the sky is fully dark.
	AstronomicalTwilight = -18.0
)

// solarElements holds the low-precision solar ephemeris terms shared by
// SunPosition and SunDistance.
type solarElements struct {
	appLonDeg float64
	oblDeg    float64
	distAU    float64
}

func solarAt(t time.Time) solarElements {
	T := centuriesSinceJ2000(t)

	// Mean longitude and mean anomaly (degrees)
	L0 := normalizeAngle360(280.46646 + 36000.76983*T + 0.0003032*T*T)
	M := normalizeAngle360(357.52911 + 35999.05029*T - 0.0001537*T*T)
	Mrad := degToRad(M)

	e := 0.016708634 - 0.000042037*T - 0.0000001267*T*T

	// Equation of center
	C := (1.914602 - 0.004817*T - 0.000014*T*T) * math.Sin(Mrad)
	C += (0.019993 - 0.000101*T) * math.Sin(2*Mrad)
	C += 0.000289 * math.Sin(3*Mrad)

	v := degToRad(M + C)
	R := 1.000001018 * (1 - e*e) / (1 + e*math.Cos(v))

	// Apparent longitude (aberration and nutation)
	omega := 125.04 - 1934.136*T
	lonApp := L0 + C - 0.00569 - 0.00478*math.Sin(degToRad(omega))

	eps0 := 23.439291 - 0.0130042*T - 0.00000016*T*T + 0.000000504*T*T*T
	eps := eps0 + 0.00256*math.Cos(degToRad(omega))

	return solarElements{appLonDeg: lonApp, oblDeg: eps, distAU: R}
}

// SunPosition calculates the apparent equatorial coordinates of the Sun.
// Uses a simplified solar ephemeris based on the Astronomical Almanac.
// Accuracy: ~0.01 degrees for RA, ~0.001 degrees for Dec.
func SunPosition(t time.Time) (raDeg, decDeg float64) {
	s := solarAt(t)
	lon := degToRad(s.appLonDeg)
	eps := degToRad(s.oblDeg)

	ra := math.Atan2(math.Cos(eps)*math.Sin(lon), math.Cos(lon))
	raDeg = normalizeAngle360(radToDeg(ra))
	decDeg = radToDeg(math.Asin(math.Sin(eps) * math.Sin(lon)))
	return raDeg, decDeg
}

// SunDistance returns the Earth-Sun distance in AU.
func SunDistance(t time.Time) float64 {
	return solarAt(t).distAU
}

// SunAltitude returns the Sun's geometric altitude in degrees for an observer.
func SunAltitude(obs Observer, t time.Time) float64 {
	ra, dec := SunPosition(t)
	return EquatorialToHorizontal(SkyCoord{RAdeg: ra, DecDeg: dec}, obs, t).ElDeg
}

// AngularSeparation calculates the angular separation between two points on
// the celestial sphere using the Vincenty formula, which is well conditioned
// for both tiny and near-antipodal separations.
// All coordinates in degrees. Returns separation in degrees.
func AngularSeparation(ra1, dec1, ra2, dec2 float64) float64 {
	dRA := degToRad(ra2 - ra1)
	d1 := degToRad(dec1)
	d2 := degToRad(dec2)

	sinD1, cosD1 := math.Sincos(d1)
	sinD2, cosD2 := math.Sincos(d2)
	sinDRA, cosDRA := math.Sincos(dRA)

	num1 := cosD2 * sinDRA
	num2 := cosD1*sinD2 - sinD1*cosD2*cosDRA
	den := sinD1*sinD2 + cosD1*cosD2*cosDRA

	return radToDeg(math.Atan2(math.Hypot(num1, num2), den))
}

// normalizeAngle360 normalizes an angle to 0-360 degrees.
func normalizeAngle360(a float64) float64 {
	a = math.Mod(a, 360)
	if a < 0 {
		a += 360
	}
	return a
}

// normalizeAngle180 normalizes an angle to (-180, 180] degrees.
func normalizeAngle180(a float64) float64 {
	a = normalizeAngle360(a)
	if a > 180 {
		a -= 360
	}
	return a
}
