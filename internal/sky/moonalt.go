package sky

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/litescript/ls-nightwatch/internal/astro"
)

// MoonModel selects how Moon altitude is evaluated across a night.
type MoonModel int

const (
	// MoonEstimate uses a half-sine arc between rise and set.
	MoonEstimate MoonModel = iota
	// MoonEphemeris queries the lunar theory at each instant.
	MoonEphemeris
)

// String returns the model name.
func (m MoonModel) String() string {
	switch m {
	case MoonEstimate:
		return "estimate"
	case MoonEphemeris:
		return "ephemeris"
	default:
		return "unknown"
	}
}

// ParseMoonModel parses a moon model name.
func ParseMoonModel(s string) (MoonModel, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "estimate":
		return MoonEstimate, nil
	case "ephemeris":
		return MoonEphemeris, nil
	default:
		return MoonEstimate, fmt.Errorf("unknown moon model: %q (valid: estimate, ephemeris)", s)
	}
}

const (
	// moonUpFallback and moonDownFallback are the binary estimate used when the
	// Moon does not both rise and set inside the night window.
	moonUpFallback   = 30.0
	moonDownFallback = -10.0

	// moonArc is the typical time the Moon spends above the horizon.
	moonArc = 12*time.Hour + 25*time.Minute

	// moonBrightFallback is the illumination (percent) above which a Moon
	// with unknown rise or set is assumed up.
	moonBrightFallback = 50.0
)

// MoonAltitudeEstimate approximates Moon altitude at t as a half-sine arc
// between rise and set, peaking at 90 - |lat - moonDec|. When the Moon does
// not both rise and set in the window it falls back to a fixed high or low
// value chosen by illumination.
func MoonAltitudeEstimate(night NightInfo, t time.Time) float64 {
	if night.MoonRise == nil || night.MoonSet == nil {
		if night.MoonIllumination > moonBrightFallback {
			return moonUpFallback
		}
		return moonDownFallback
	}

	peak := 90 - math.Abs(night.Location.LatDeg-night.MoonDecDeg)
	if peak < 0 {
		peak = 0
	}
	rise, set := *night.MoonRise, *night.MoonSet

	// Up from rise to set inside the window.
	if rise.Before(set) {
		return halfSine(rise, set, t, peak)
	}

	// Already up at the start of the window: one arc ends at set, the next
	// begins at rise.
	if !t.After(set) {
		return halfSine(set.Add(-moonArc), set, t, peak)
	}
	if !t.Before(rise) {
		return halfSine(rise, rise.Add(moonArc), t, peak)
	}
	return moonDownFallback
}

func halfSine(rise, set, t time.Time, peak float64) float64 {
	span := set.Sub(rise)
	if span <= 0 || t.Before(rise) || t.After(set) {
		return moonDownFallback
	}
	frac := float64(t.Sub(rise)) / float64(span)
	return peak * math.Sin(math.Pi*frac)
}

// MoonAltitudeEphemeris returns the topocentric Moon altitude at t.
func MoonAltitudeEphemeris(night NightInfo, t time.Time) float64 {
	return astro.MoonAltitude(night.Location, t)
}

// MoonAltitudeFunc returns the altitude function for the chosen model.
func MoonAltitudeFunc(model MoonModel, night NightInfo) astro.AltitudeFunc {
	if model == MoonEphemeris {
		return func(t time.Time) float64 { return MoonAltitudeEphemeris(night, t) }
	}
	return func(t time.Time) float64 { return MoonAltitudeEstimate(night, t) }
}
