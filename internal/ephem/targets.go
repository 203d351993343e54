package ephem

import (
	"fmt"

	"github.com/litescript/ls-nightwatch/internal/astro"
)

// Kind says how a target's position is resolved.
type Kind int

const (
	KindFixed     Kind = iota // static J2000 RA/Dec
	KindPlanet                // major planet from mean elements
	KindSmallBody             // comet or asteroid from osculating elements
	KindMoon                  // the Moon, topocentric
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindFixed:
		return "fixed"
	case KindPlanet:
		return "planet"
	case KindSmallBody:
		return "small_body"
	case KindMoon:
		return "moon"
	default:
		return "unknown"
	}
}

// Target is anything the sampler can place on the sky.
type Target struct {
	Kind   Kind
	RAdeg  float64 // J2000, KindFixed only
	DecDeg float64 // J2000, KindFixed only
	Planet astro.Planet
	Orbit  *astro.OrbitalElements
}

// Fixed returns a target at a static J2000 position.
func Fixed(raDeg, decDeg float64) Target {
	return Target{Kind: KindFixed, RAdeg: raDeg, DecDeg: decDeg}
}

// PlanetTarget returns a target for a major planet.
func PlanetTarget(p astro.Planet) Target {
	return Target{Kind: KindPlanet, Planet: p}
}

// SmallBody returns a target for a comet or asteroid.
func SmallBody(el astro.OrbitalElements) Target {
	return Target{Kind: KindSmallBody, Orbit: &el}
}

// Moon returns the Moon as a target.
func Moon() Target {
	return Target{Kind: KindMoon}
}

// Validate checks the static part of a target.
func (t Target) Validate() error {
	switch t.Kind {
	case KindFixed:
		return astro.ValidateRADec(t.RAdeg, t.DecDeg)
	case KindPlanet:
		if t.Planet < astro.Mercury || t.Planet > astro.Neptune {
			return &astro.Error{Kind: astro.KindInvalidCoordinates, Field: "planet",
				Value: float64(t.Planet), Message: "unknown planet"}
		}
		return nil
	case KindSmallBody:
		if t.Orbit == nil {
			return &astro.Error{Kind: astro.KindInvalidCoordinates, Field: "orbit",
				Message: "small body target has no orbital elements"}
		}
		return t.Orbit.Validate()
	case KindMoon:
		return nil
	}
	return fmt.Errorf("ephem: unknown target kind %d", t.Kind)
}
