// Package ephem resolves where a target sits on an observer's sky.
package ephem

import (
	"math"
	"time"

	"github.com/litescript/ls-nightwatch/internal/astro"
)

const moonRadiusKm = 1737.4

// Apparent is the physical state of a solar-system body at an instant.
// Fields are NaN when they do not apply to the target.
type Apparent struct {
	Magnitude      float64
	DiameterArcsec float64
	SunDistAU      float64
	DistAU         float64
}

// Provider defines the interface for ephemeris sources.
type Provider interface {
	// Name returns the provider name for display/logging.
	Name() string

	// Position returns the target's horizontal (and equatorial) coordinates
	// for an observer at t. Malformed coordinates fail with
	// astro.ErrInvalidCoordinates.
	Position(target Target, obs astro.Observer, t time.Time) (astro.SkyCoord, error)

	// Apparent returns magnitude and size for solar-system targets.
	Apparent(target Target, t time.Time) Apparent
}

// Builtin computes positions from analytic theories with no I/O.
// It is safe for concurrent use.
type Builtin struct{}

// NewBuiltin returns the analytic ephemeris provider.
func NewBuiltin() Builtin {
	return Builtin{}
}

// Name returns the provider name.
func (Builtin) Name() string {
	return "builtin"
}

// Position implements Provider.
func (Builtin) Position(target Target, obs astro.Observer, t time.Time) (astro.SkyCoord, error) {
	return Position(target, obs, t)
}

// Apparent implements Provider.
func (Builtin) Apparent(target Target, t time.Time) Apparent {
	return ApparentAt(target, t)
}

// Position is the pure sampler: equatorial position of the target at t,
// transformed to the observer's horizon.
func Position(target Target, obs astro.Observer, t time.Time) (astro.SkyCoord, error) {
	if err := obs.Validate(); err != nil {
		return astro.SkyCoord{}, err
	}
	if target.Kind == KindMoon {
		return astro.MoonTopocentric(obs, t), nil
	}

	eq, err := EquatorialAt(target, t)
	if err != nil {
		return astro.SkyCoord{}, err
	}
	return astro.EquatorialToHorizontal(eq, obs, t), nil
}

// EquatorialAt returns the geocentric RA/Dec of date for a target at t.
func EquatorialAt(target Target, t time.Time) (astro.SkyCoord, error) {
	if err := target.Validate(); err != nil {
		return astro.SkyCoord{}, err
	}

	switch target.Kind {
	case KindPlanet:
		p := astro.PlanetPosition(target.Planet, t)
		return astro.SkyCoord{RAdeg: p.RAdeg, DecDeg: p.DecDeg, DistAU: p.DistAU}, nil
	case KindSmallBody:
		s, err := astro.SmallBodyPosition(*target.Orbit, t)
		if err != nil {
			return astro.SkyCoord{}, err
		}
		return astro.SkyCoord{RAdeg: s.RAdeg, DecDeg: s.DecDeg, DistAU: s.DistAU}, nil
	case KindMoon:
		m := astro.MoonPosition(t)
		return astro.SkyCoord{RAdeg: m.RAdeg, DecDeg: m.DecDeg, DistAU: m.DistKm / astro.AU}, nil
	default:
		ra, dec := astro.PrecessFromJ2000(target.RAdeg, target.DecDeg, t)
		return astro.SkyCoord{RAdeg: ra, DecDeg: dec}, nil
	}
}

// ApparentAt returns the brightness and size of a solar-system target.
// Fixed targets get NaN throughout; their catalog values apply instead.
func ApparentAt(target Target, t time.Time) Apparent {
	nan := math.NaN()
	switch target.Kind {
	case KindPlanet:
		if target.Validate() != nil {
			break
		}
		p := astro.PlanetPosition(target.Planet, t)
		return Apparent{Magnitude: p.Magnitude, DiameterArcsec: p.DiameterArcsec, SunDistAU: p.SunDistAU, DistAU: p.DistAU}
	case KindSmallBody:
		if target.Orbit == nil {
			break
		}
		s, err := astro.SmallBodyPosition(*target.Orbit, t)
		if err != nil {
			break
		}
		return Apparent{Magnitude: s.Magnitude, DiameterArcsec: nan, SunDistAU: s.SunDistAU, DistAU: s.DistAU}
	case KindMoon:
		m := astro.MoonPosition(t)
		diam := 2 * math.Atan(moonRadiusKm/m.DistKm) * 180 / math.Pi * 3600
		return Apparent{Magnitude: nan, DiameterArcsec: diam, SunDistAU: nan, DistAU: m.DistKm / astro.AU}
	}
	return Apparent{Magnitude: nan, DiameterArcsec: nan, SunDistAU: nan, DistAU: nan}
}
