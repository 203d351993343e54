package scoring

import (
	"math"
	"time"

	"github.com/litescript/ls-nightwatch/internal/sky"
	"github.com/litescript/ls-nightwatch/internal/weather"
)

// AltitudeScore rates how high the object climbs, 0-40. Minimum airmass is
// preferred; peak altitude is the fallback when no usable airmass exists.
func AltitudeScore(minAirmass *float64, maxAltitude float64) float64 {
	if minAirmass != nil && *minAirmass >= 1 && *minAirmass < airmassUsableLimit {
		return lookupAtMost(airmassTiers, *minAirmass, airmassFloorPoints)
	}
	if maxAltitude < altitudeFallbackMin {
		return 0
	}
	return lookupAtLeast(altitudeFallbackTiers, maxAltitude, altitudeFallbackPoints)
}

// MoonSensitivity returns how strongly moonlight washes out this kind of
// object, 0..1.
func MoonSensitivity(cat sky.Category, sub sky.Subtype) float64 {
	if cat == sky.CategoryDSO {
		if s, ok := moonSensitivity[sub]; ok {
			return s
		}
		return DefaultMoonSensitivity
	}
	if s, ok := categoryMoonSensitivity[cat]; ok {
		return s
	}
	return DefaultMoonSensitivity
}

// MoonPenalty returns the points lost to moonlight, 0-30. A nil separation
// is treated as close to the Moon.
func MoonPenalty(sep *float64, illuminationPct float64, cat sky.Category, sub sky.Subtype) float64 {
	return MoonMax - MoonScore(sep, illuminationPct, cat, sub)
}

// MoonScore is the moon-interference sub-score, 0-30, where 30 means the Moon
// costs nothing. Planets are scored flat; a near-new Moon is ignored.
func MoonScore(sep *float64, illuminationPct float64, cat sky.Category, sub sky.Subtype) float64 {
	if cat == sky.CategoryPlanet {
		return moonPlanetScore
	}
	if illuminationPct < moonDarkIllumPct {
		return MoonMax
	}

	worst := MoonMax
	if sep != nil {
		worst = lookupAbove(moonSeparationTiers, *sep, MoonMax)
	}
	lost := clamp(illuminationPct, 0, 100) / 100 * MoonSensitivity(cat, sub) * worst
	return clamp(MoonMax-lost, 0, MoonMax)
}

// TimingScore rewards a peak inside the astronomical dark window, 0-15.
func TimingScore(peak *time.Time, dusk, dawn time.Time) float64 {
	if peak == nil || dusk.IsZero() || dawn.IsZero() {
		return UnknownPeakTimingScore
	}
	if !peak.Before(dusk) && !peak.After(dawn) {
		return TimingMax
	}

	var off time.Duration
	if peak.Before(dusk) {
		off = dusk.Sub(*peak)
	} else {
		off = peak.Sub(dawn)
	}
	return lookupBelow(timingTiers, off.Hours(), timingFloorPoints)
}

// WeatherScore combines cloud, haze, transparency, rain and wind into a
// 0-15 score. Without weather data a neutral default is returned.
func WeatherScore(w *weather.NightWeather, cat sky.Category) float64 {
	if w == nil {
		return DefaultWeatherScore
	}
	deepSky := cat.IsDeepSky()

	factor := lookupBelow(cloudFactorTiers, w.AvgCloudCover, cloudFloorFactor)

	if w.AvgAOD != nil {
		if deepSky {
			factor *= lookupBelow(aodDeepSkyTiers, *w.AvgAOD, aodDeepSkyFloor)
		} else {
			factor *= lookupBelow(aodPlanetTiers, *w.AvgAOD, aodPlanetFloor)
		}
	}
	if deepSky && w.TransparencyScore != nil {
		factor *= lookupAtLeast(transparencyTiers, *w.TransparencyScore, transparencyFloor)
	}
	if w.MaxPrecipProbability != nil {
		factor *= lookupAbove(precipTiers, *w.MaxPrecipProbability, 1)
	}
	if w.MaxWindGustKmh != nil {
		if cat == sky.CategoryPlanet {
			factor *= lookupBelow(windPlanetTiers, *w.MaxWindGustKmh, windPlanetFloor)
		} else {
			factor *= lookupBelow(windOtherTiers, *w.MaxWindGustKmh, windOtherFloor)
		}
	}

	return clamp(math.Round(WeatherMax*factor), 0, WeatherMax)
}

func clamp(x, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, x))
}
