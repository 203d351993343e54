package scoring

import (
	"math"

	"github.com/litescript/ls-nightwatch/internal/sky"
)

// EstimateSurfaceBrightness derives mag/arcsec² from integrated magnitude and
// apparent diameter, treating the object as a uniform disc.
func EstimateSurfaceBrightness(magnitude, sizeArcmin float64) float64 {
	arcsec := sizeArcmin * 60
	area := arcsec * arcsec * math.Pi / 4
	return magnitude + 2.5*math.Log10(math.Max(area, 1))
}

// SurfaceBrightnessScore rates how concentrated the object's light is, 0-20.
// A catalog surface brightness wins over an estimate from magnitude and size.
func SurfaceBrightnessScore(sb, magnitude, sizeArcmin *float64) float64 {
	switch {
	case sb != nil:
		return lookupBelow(surfaceBrightnessTiers, *sb, surfaceBrightnessFloor)
	case magnitude != nil && sizeArcmin != nil && *sizeArcmin > 0:
		est := EstimateSurfaceBrightness(*magnitude, *sizeArcmin)
		return lookupBelow(surfaceBrightnessTiers, est, surfaceBrightnessFloor)
	}
	return DefaultSurfaceBrightnessScore
}

// MagnitudeScore rates integrated brightness per category, 0-15.
func MagnitudeScore(magnitude *float64, cat sky.Category) float64 {
	if magnitude == nil {
		return DefaultMagnitudeScore
	}
	m := *magnitude
	switch cat {
	case sky.CategoryPlanet:
		return lookupBelow(planetMagnitudeTiers, m, planetMagnitudeFloor)
	case sky.CategoryComet, sky.CategoryAsteroid, sky.CategoryDwarfPlanet:
		return lookupBelow(smallBodyMagTiers, m, smallBodyMagFloor)
	}
	return lookupBelow(dsoMagnitudeTiers, m, dsoMagnitudeFloor)
}

// TypeSuitabilityScore rates how well the object type suits the night's Moon
// phase, 0-15. Faint extended targets want a dark sky; planets and clusters
// tolerate moonlight.
func TypeSuitabilityScore(cat sky.Category, sub sky.Subtype, illuminationPct float64) float64 {
	key := string(cat)
	if cat == sky.CategoryDSO {
		key = string(sub)
	}
	if illuminationPct < darkSkyIllumination {
		if v, ok := darkSkySuitability[key]; ok {
			return v
		}
		return darkSkyDefault
	}
	if v, ok := brightSkySuitability[key]; ok {
		return v
	}
	return brightSkyDefault
}
