package sky

import (
	"math"
	"time"

	"github.com/litescript/ls-nightwatch/internal/astro"
)

// NightSampleStep is the Sun and Moon sampling cadence used to locate
// twilight and rise/set crossings.
const NightSampleStep = 5 * time.Minute

// ApproxZone returns a fixed zone whose offset is the longitude rounded to
// whole hours. It is used when no IANA timezone is configured.
func ApproxZone(lonDeg float64) *time.Location {
	hours := int(math.Round(lonDeg / 15))
	return time.FixedZone("LMT", hours*3600)
}

// ComputeNightInfo returns the night that begins on the evening of date.
// The window searched runs for 24 hours from local mean solar noon at the
// observer's longitude on date's calendar day. date's location only picks the
// calendar day and the zone of the returned times, so the same site and day
// give the same night whatever zone the caller displays in.
//
// If the Sun never crosses -18° inside that window and stays above it, dusk and
// dawn are left zero and the night is Degenerate. If it stays below -18° the
// whole window is dark.
func ComputeNightInfo(date time.Time, obs astro.Observer) (NightInfo, error) {
	if err := obs.Validate(); err != nil {
		return NightInfo{}, err
	}

	loc := date.Location()
	y, m, d := date.Date()
	noon := time.Date(y, m, d, 12, 0, 0, 0, time.UTC)
	start := noon.Add(-time.Duration(obs.LonDeg / 15 * float64(time.Hour))).In(loc)
	end := start.Add(24 * time.Hour)
	midnight := start.Add(12 * time.Hour)

	info := NightInfo{
		Date:     time.Date(y, m, d, 0, 0, 0, 0, loc),
		Location: obs,
	}

	sun := astro.SampleAltitudes(func(t time.Time) float64 {
		return astro.SunAltitude(obs, t)
	}, start, end, NightSampleStep)

	horizon := astro.SunsetAltitude - obs.HorizonDip()
	info.Sunset, info.Sunrise = crossingPair(sun, horizon)
	info.AstronomicalDusk, info.AstronomicalDawn = crossingPair(sun, astro.AstronomicalTwilight)

	if info.AstronomicalDusk.IsZero() && info.AstronomicalDawn.IsZero() && allBelow(sun, astro.AstronomicalTwilight) {
		info.AstronomicalDusk, info.AstronomicalDawn = start, end
	}

	illum := astro.MoonIlluminationAt(midnight)
	info.MoonPhase = illum.Phase
	info.MoonIllumination = illum.Fraction * 100

	moon := astro.MoonPosition(midnight)
	info.MoonRAdeg, info.MoonDecDeg = moon.RAdeg, moon.DecDeg

	moonSamples := astro.SampleAltitudes(func(t time.Time) float64 {
		return astro.MoonAltitude(obs, t)
	}, start, end, NightSampleStep)
	moonHorizon := astro.MoonRiseAltitude - obs.HorizonDip()
	if t, ok := astro.FirstCrossing(moonSamples, moonHorizon, true); ok {
		info.MoonRise = timePtr(t)
	}
	if t, ok := astro.FirstCrossing(moonSamples, moonHorizon, false); ok {
		info.MoonSet = timePtr(t)
	}

	return info, nil
}

// crossingPair returns the first setting crossing of threshold and the first
// rising crossing after it. Either is zero when missing.
func crossingPair(samples []astro.AltitudeSample, threshold float64) (set, rise time.Time) {
	for _, c := range astro.FindCrossings(samples, threshold) {
		switch {
		case !c.Rising && set.IsZero():
			set = c.Time
		case c.Rising && !set.IsZero() && rise.IsZero():
			rise = c.Time
		}
	}
	return set, rise
}

func allBelow(samples []astro.AltitudeSample, threshold float64) bool {
	if len(samples) == 0 {
		return false
	}
	for _, s := range samples {
		if s.AltDeg >= threshold {
			return false
		}
	}
	return true
}
