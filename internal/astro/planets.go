package astro

import (
	"math"
	"strings"
	"time"
)

// Planet identifies a major planet.
type Planet int

const (
	Mercury Planet = iota
	Venus
	Mars
	Jupiter
	Saturn
	Uranus
	Neptune
)

var planetNames = [...]string{"Mercury", "Venus", "Mars", "Jupiter", "Saturn", "Uranus", "Neptune"}

func (p Planet) String() string {
	if p < Mercury || p > Neptune {
		return "Unknown"
	}
	return planetNames[p]
}

// PlanetByName looks up a planet by its English name, ignoring case.
func PlanetByName(name string) (Planet, bool) {
	for i, n := range planetNames {
		if strings.EqualFold(n, name) {
			return Planet(i), true
		}
	}
	return 0, false
}

// AllPlanets lists the planets in order from the Sun.
func AllPlanets() []Planet {
	return []Planet{Mercury, Venus, Mars, Jupiter, Saturn, Uranus, Neptune}
}

// keplerElements are JPL approximate mean elements valid 1800-2050
// (Standish, "Keplerian Elements for Approximate Positions of the Major Planets").
// Angles in degrees, a in AU, rates per Julian century.
type keplerElements struct {
	a, e, i, L, peri, node float64

	aDot, eDot, iDot, LDot, periDot, nodeDot float64
}

var planetElements = map[Planet]keplerElements{
	Mercury: {0.38709927, 0.20563593, 7.00497902, 252.25032350, 77.45779628, 48.33076593,
		0.00000037, 0.00001906, -0.00594749, 149472.67411175, 0.16047689, -0.12534081},
	Venus: {0.72333566, 0.00677672, 3.39467605, 181.97909950, 131.60246718, 76.67984255,
		0.00000390, -0.00004107, -0.00078890, 58517.81538729, 0.00268329, -0.27769418},
	Mars: {1.52371034, 0.09339410, 1.84969142, -4.55343205, -23.94362959, 49.55953891,
		0.00001847, 0.00007882, -0.00813131, 19140.30268499, 0.44441088, -0.29257343},
	Jupiter: {5.20288700, 0.04838624, 1.30439695, 34.39644051, 14.72847983, 100.47390909,
		-0.00011607, -0.00013253, -0.00183714, 3034.74612775, 0.21252668, 0.20469106},
	Saturn: {9.53667594, 0.05386179, 2.48599187, 49.95424423, 92.59887831, 113.66242448,
		-0.00125060, -0.00050991, 0.00193609, 1222.49362201, -0.41897216, -0.28867794},
	Uranus: {19.18916464, 0.04725744, 0.77263783, 313.23810451, 170.95427630, 74.01692503,
		-0.00196176, -0.00004397, -0.00242939, 428.48202785, 0.40805281, 0.04240589},
	Neptune: {30.06992276, 0.00859048, 1.77004347, -55.12002969, 44.96476227, 131.78422574,
		0.00026291, 0.00005105, 0.00035372, 218.45945325, -0.32241464, -0.01262724},
}

// Earth-Moon barycenter elements from the same table.
var earthElements = keplerElements{1.00000261, 0.01671123, -0.00001531, 100.46457166, 102.93768193, 0.0,
	0.00000562, -0.00004392, -0.01294668, 35999.37244981, 0.32327364, 0.0}

// Equatorial diameter in arcseconds at 1 AU.
var planetDiameter1AU = map[Planet]float64{
	Mercury: 6.74,
	Venus:   16.92,
	Mars:    9.36,
	Jupiter: 196.74,
	Saturn:  165.6,
	Uranus:  70.48,
	Neptune: 68.3,
}

// PlanetState is the geocentric view of a planet at one instant.
type PlanetState struct {
	RAdeg          float64 // of date
	DecDeg         float64 // of date
	DistAU         float64 // geocentric distance
	SunDistAU      float64 // heliocentric distance
	PhaseAngleDeg  float64
	Magnitude      float64
	DiameterArcsec float64
}

// heliocentric returns the ecliptic J2000 position of a body with the given
// mean elements at T centuries past J2000.
func (el keplerElements) heliocentric(T float64) Vec3 {
	a := el.a + el.aDot*T
	e := el.e + el.eDot*T
	inc := el.i + el.iDot*T
	L := el.L + el.LDot*T
	peri := el.peri + el.periDot*T
	node := el.node + el.nodeDot*T

	M := degToRad(normalizeAngle180(L - peri))
	E := solveKepler(M, e)

	xp := a * (math.Cos(E) - e)
	yp := a * math.Sqrt(1-e*e) * math.Sin(E)

	return orbitalToEcliptic(xp, yp, degToRad(peri-node), degToRad(node), degToRad(inc))
}

// PlanetPosition computes the apparent geocentric position of a planet,
// corrected for light time and precessed to the equinox of date.
func PlanetPosition(p Planet, t time.Time) PlanetState {
	el := planetElements[p]
	T := centuriesSinceJ2000(t)

	earth := earthElements.heliocentric(T)
	helio := el.heliocentric(T)
	geo := helio.Sub(earth)

	// One light-time iteration is enough at these accuracies.
	tau := LightTimeDays(geo.Norm())
	helio = el.heliocentric(T - tau/36525)
	geo = helio.Sub(earth)

	raJ, decJ := VecToRADec(EclipticToEquatorial(geo))
	ra, dec := PrecessFromJ2000(raJ, decJ, t)

	r := helio.Norm()
	delta := geo.Norm()
	R := earth.Norm()
	phase := phaseAngle(r, delta, R)

	return PlanetState{
		RAdeg:          ra,
		DecDeg:         dec,
		DistAU:         delta,
		SunDistAU:      r,
		PhaseAngleDeg:  phase,
		Magnitude:      planetMagnitude(p, r, delta, phase),
		DiameterArcsec: planetDiameter1AU[p] / delta,
	}
}

// phaseAngle returns the Sun-body-Earth angle in degrees from the three
// sides of the triangle.
func phaseAngle(r, delta, R float64) float64 {
	if r == 0 || delta == 0 {
		return 0
	}
	cosI := (r*r + delta*delta - R*R) / (2 * r * delta)
	return radToDeg(math.Acos(clampUnit(cosI)))
}

// planetMagnitude uses the phase-angle polynomials from Meeus ch. 41.
// Saturn's ring contribution is ignored.
func planetMagnitude(p Planet, r, delta, i float64) float64 {
	d := 5 * math.Log10(r*delta)
	switch p {
	case Mercury:
		return -0.42 + d + 0.0380*i - 0.000273*i*i + 0.000002*i*i*i
	case Venus:
		return -4.40 + d + 0.0009*i + 0.000239*i*i - 0.00000065*i*i*i
	case Mars:
		return -1.52 + d + 0.016*i
	case Jupiter:
		return -9.40 + d + 0.005*i
	case Saturn:
		return -8.88 + d
	case Uranus:
		return -7.19 + d
	case Neptune:
		return -6.87 + d
	}
	return math.NaN()
}

// solveKepler solves E - e·sin(E) = M for the eccentric anomaly (radians).
func solveKepler(M, e float64) float64 {
	E := M
	if e > 0.8 {
		E = math.Pi
	}
	for i := 0; i < 50; i++ {
		dE := (E - e*math.Sin(E) - M) / (1 - e*math.Cos(E))
		E -= dE
		if math.Abs(dE) < 1e-12 {
			break
		}
	}
	return E
}

// orbitalToEcliptic rotates in-plane coordinates (x toward perihelion) by the
// argument of perihelion w, ascending node node and inclination inc.
func orbitalToEcliptic(xp, yp, w, node, inc float64) Vec3 {
	cw, sw := math.Cos(w), math.Sin(w)
	cn, sn := math.Cos(node), math.Sin(node)
	ci, si := math.Cos(inc), math.Sin(inc)

	return Vec3{
		X: (cw*cn-sw*sn*ci)*xp + (-sw*cn-cw*sn*ci)*yp,
		Y: (cw*sn+sw*cn*ci)*xp + (-sw*sn+cw*cn*ci)*yp,
		Z: (sw*si)*xp + (cw*si)*yp,
	}
}

// PrecessFromJ2000 applies the rigorous IAU 1976 precession from J2000 to the
// equinox of t.
func PrecessFromJ2000(raDeg, decDeg float64, t time.Time) (float64, float64) {
	T := centuriesSinceJ2000(t)
	arcsec := func(x float64) float64 { return degToRad(x / 3600) }

	zeta := arcsec(2306.2181*T + 0.30188*T*T + 0.017998*T*T*T)
	z := arcsec(2306.2181*T + 1.09468*T*T + 0.018203*T*T*T)
	theta := arcsec(2004.3109*T - 0.42665*T*T - 0.041833*T*T*T)

	ra := degToRad(raDeg)
	dec := degToRad(decDeg)

	A := math.Cos(dec) * math.Sin(ra+zeta)
	B := math.Cos(theta)*math.Cos(dec)*math.Cos(ra+zeta) - math.Sin(theta)*math.Sin(dec)
	C := math.Sin(theta)*math.Cos(dec)*math.Cos(ra+zeta) + math.Cos(theta)*math.Sin(dec)

	raOut := normalizeAngle360(radToDeg(math.Atan2(A, B) + z))
	decOut := radToDeg(math.Asin(clampUnit(C)))
	return raOut, decOut
}
