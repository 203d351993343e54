package astro

import (
	"math"
	"time"
)

// gaussK is the Gaussian gravitational constant (radians/day for a = 1 AU).
const gaussK = 0.01720209895

// nearParabolic is the |1-e| band treated with Barker's equation.
const nearParabolic = 1e-6

// OrbitalElements are heliocentric ecliptic J2000 elements of a comet or
// asteroid referred to perihelion passage.
type OrbitalElements struct {
	PerihelionAU   float64   // q
	Eccentricity   float64   // e
	InclinationDeg float64   // i
	NodeDeg        float64   // longitude of ascending node
	ArgPeriDeg     float64   // argument of perihelion
	PerihelionTime time.Time // T

	// Photometry. Comets use H + 5 log Δ + 2.5 n log r with Slope = n;
	// asteroids use the IAU H,G system with Slope = G.
	AbsMag float64
	Slope  float64
	Comet  bool
}

// Validate rejects elements that cannot describe a heliocentric orbit.
func (el OrbitalElements) Validate() error {
	if !isFinite(el.PerihelionAU) || el.PerihelionAU <= 0 {
		return invalidCoordinate("perihelion_au", el.PerihelionAU, "perihelion distance must be positive")
	}
	if !isFinite(el.Eccentricity) || el.Eccentricity < 0 {
		return invalidCoordinate("eccentricity", el.Eccentricity, "eccentricity must be non-negative")
	}
	if !isFinite(el.InclinationDeg) || el.InclinationDeg < 0 || el.InclinationDeg > 180 {
		return invalidCoordinate("inclination_deg", el.InclinationDeg, "inclination must be in [0, 180]")
	}
	if el.PerihelionTime.IsZero() {
		return invalidCoordinate("perihelion_time", 0, "perihelion time is required")
	}
	return nil
}

// SmallBodyState is the geocentric view of a comet or asteroid.
type SmallBodyState struct {
	RAdeg         float64
	DecDeg        float64
	DistAU        float64
	SunDistAU     float64
	PhaseAngleDeg float64
	Magnitude     float64
}

// heliocentric returns the ecliptic J2000 position at t.
func (el OrbitalElements) heliocentric(t time.Time) Vec3 {
	q := el.PerihelionAU
	e := el.Eccentricity
	dt := t.Sub(el.PerihelionTime).Hours() / 24

	var r, nu float64
	switch {
	case math.Abs(1-e) < nearParabolic:
		// Barker: s^3 + 3s - W = 0
		W := 3 * gaussK / math.Sqrt(2*q*q*q) * dt
		Y := math.Cbrt(W/2 + math.Sqrt(W*W/4+1))
		s := Y - 1/Y
		nu = 2 * math.Atan(s)
		r = q * (1 + s*s)

	case e < 1:
		a := q / (1 - e)
		n := gaussK / math.Pow(a, 1.5)
		M := math.Remainder(n*dt, 2*math.Pi)
		E := solveKepler(M, e)
		r = a * (1 - e*math.Cos(E))
		nu = 2 * math.Atan(math.Sqrt((1+e)/(1-e))*math.Tan(E/2))

	default:
		a := q / (e - 1)
		n := gaussK / math.Pow(a, 1.5)
		M := n * dt
		H := solveHyperbolic(M, e)
		r = a * (e*math.Cosh(H) - 1)
		nu = 2 * math.Atan(math.Sqrt((e+1)/(e-1))*math.Tanh(H/2))
	}

	return orbitalToEcliptic(r*math.Cos(nu), r*math.Sin(nu),
		degToRad(el.ArgPeriDeg), degToRad(el.NodeDeg), degToRad(el.InclinationDeg))
}

// solveHyperbolic solves e·sinh(H) - H = M by Newton iteration.
func solveHyperbolic(M, e float64) float64 {
	H := math.Asinh(M / e)
	for i := 0; i < 100; i++ {
		dH := (e*math.Sinh(H) - H - M) / (e*math.Cosh(H) - 1)
		H -= dH
		if math.Abs(dH) < 1e-12 {
			break
		}
	}
	return H
}

// SmallBodyPosition computes the apparent geocentric position of a comet or
// asteroid, corrected for light time and precessed to the equinox of t.
func SmallBodyPosition(el OrbitalElements, t time.Time) (SmallBodyState, error) {
	if err := el.Validate(); err != nil {
		return SmallBodyState{}, err
	}

	earth := earthElements.heliocentric(centuriesSinceJ2000(t))
	helio := el.heliocentric(t)
	geo := helio.Sub(earth)

	tau := LightTimeDays(geo.Norm())
	helio = el.heliocentric(t.Add(-time.Duration(tau * 24 * float64(time.Hour))))
	geo = helio.Sub(earth)

	raJ, decJ := VecToRADec(EclipticToEquatorial(geo))
	ra, dec := PrecessFromJ2000(raJ, decJ, t)

	r := helio.Norm()
	delta := geo.Norm()
	phase := phaseAngle(r, delta, earth.Norm())

	return SmallBodyState{
		RAdeg:         ra,
		DecDeg:        dec,
		DistAU:        delta,
		SunDistAU:     r,
		PhaseAngleDeg: phase,
		Magnitude:     el.magnitude(r, delta, phase),
	}, nil
}

func (el OrbitalElements) magnitude(r, delta, phaseDeg float64) float64 {
	if el.Comet {
		n := el.Slope
		if n == 0 {
			n = 4
		}
		return el.AbsMag + 5*math.Log10(delta) + 2.5*n*math.Log10(r)
	}

	// IAU H,G two-parameter system
	tanHalf := math.Tan(degToRad(phaseDeg) / 2)
	phi1 := math.Exp(-3.33 * math.Pow(tanHalf, 0.63))
	phi2 := math.Exp(-1.87 * math.Pow(tanHalf, 1.22))
	g := el.Slope
	return el.AbsMag + 5*math.Log10(r*delta) - 2.5*math.Log10((1-g)*phi1+g*phi2)
}
