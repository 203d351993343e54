package scoring

import "github.com/litescript/ls-nightwatch/internal/sky"

// Category caps. The three subtotals sum to MaxTotal.
const (
	MaxImaging         = 100.0
	MaxCharacteristics = 50.0
	MaxPriority        = 50.0
	MaxTotal           = MaxImaging + MaxCharacteristics + MaxPriority
)

// Sub-score maxima.
const (
	AltitudeMax          = 40.0
	MoonMax              = 30.0
	TimingMax            = 15.0
	WeatherMax           = 15.0
	SurfaceBrightnessMax = 20.0
	MagnitudeMax         = 15.0
	TypeSuitabilityMax   = 15.0
	TransientMax         = 25.0
	SeasonalMax          = 15.0
	NoveltyMax           = 10.0
)

// Neutral defaults for absent inputs.
const (
	DefaultSurfaceBrightnessScore = 10.0
	DefaultMagnitudeScore         = 7.5
	DefaultWeatherScore           = 10.5
	UnknownPeakTimingScore        = 3.0

	// DefaultMoonSensitivity applies to subtypes missing from moonSensitivity.
	DefaultMoonSensitivity = 0.5
)

// tier awards points when a value is below (or, for ascending tables, above)
// limit. Tables are scanned in order; the first match wins.
type tier struct {
	limit  float64
	points float64
}

// lookupBelow returns the points of the first tier with value < limit, or
// fallback.
func lookupBelow(tiers []tier, value, fallback float64) float64 {
	for _, t := range tiers {
		if value < t.limit {
			return t.points
		}
	}
	return fallback
}

// lookupAtMost returns the points of the first tier with value <= limit.
func lookupAtMost(tiers []tier, value, fallback float64) float64 {
	for _, t := range tiers {
		if value <= t.limit {
			return t.points
		}
	}
	return fallback
}

// lookupAtLeast returns the points of the first tier with value >= limit.
func lookupAtLeast(tiers []tier, value, fallback float64) float64 {
	for _, t := range tiers {
		if value >= t.limit {
			return t.points
		}
	}
	return fallback
}

// lookupAbove returns the points of the first tier with value > limit.
func lookupAbove(tiers []tier, value, fallback float64) float64 {
	for _, t := range tiers {
		if value > t.limit {
			return t.points
		}
	}
	return fallback
}

// Altitude score from minimum airmass (<= limit).
var airmassTiers = []tier{
	{1.05, 38},
	{1.15, 36},
	{1.41, 30},
	{2.0, 22},
	{3.0, 12},
}

const airmassFloorPoints = 4.0

// Altitude score from peak altitude when airmass is unusable (>= limit).
// Below altitudeFallbackMin the score is zero.
var altitudeFallbackTiers = []tier{
	{75, 38},
	{60, 34},
	{45, 28},
	{30, 20},
}

const (
	altitudeFallbackMin    = 15.0
	altitudeFallbackPoints = 12.0
	airmassUsableLimit     = 99.0
)

// Moon interference.
const (
	moonPlanetScore     = 27.0
	moonDarkIllumPct    = 5.0
	moonSeparationClose = 30.0
)

// Separation tiers (> limit) give the worst-case points lost to a full Moon
// before subtype sensitivity is applied.
var moonSeparationTiers = []tier{
	{90, 9},
	{60, 15},
	{30, 21},
}

// moonSensitivity is how strongly a subtype's contrast suffers from moonlight.
var moonSensitivity = map[sky.Subtype]float64{
	sky.SubtypeGalaxy:           0.8,
	sky.SubtypeGalaxyGroup:      0.8,
	sky.SubtypeGalaxyPair:       0.8,
	sky.SubtypeGalaxyTriplet:    0.8,
	sky.SubtypeGalaxyCluster:    0.7,
	sky.SubtypePlanetaryNebula:  0.5,
	sky.SubtypeEmissionNebula:   0.9,
	sky.SubtypeReflectionNebula: 0.95,
	sky.SubtypeSupernovaRemnant: 0.85,
	sky.SubtypeNebula:           0.85,
	sky.SubtypeOpenCluster:      0.3,
	sky.SubtypeGlobularCluster:  0.4,
	sky.SubtypeClusterNebula:    0.7,
	sky.SubtypeQuasar:           0.2,
	sky.SubtypeStar:             0.1,
	sky.SubtypeDoubleStar:       0.1,
	sky.SubtypeAssociation:      0.3,
	sky.SubtypeAsterism:         0.2,
	sky.SubtypeOther:            0.5,
}

// Sensitivity for non-DSO categories.
var categoryMoonSensitivity = map[sky.Category]float64{
	sky.CategoryComet:    0.7,
	sky.CategoryMilkyWay: 1.0,
}

// Peak timing by hours outside the dark window (< limit).
var timingTiers = []tier{
	{1, 12},
	{2, 9},
	{4, 6},
}

const timingFloorPoints = 3.0

// Weather: cloud cover base factor (< limit).
var cloudFactorTiers = []tier{
	{10, 1.0},
	{25, 0.9},
	{50, 0.6},
	{75, 0.3},
}

const cloudFloorFactor = 0.1

// Aerosol optical depth factors (< limit), deep-sky and planetary.
var (
	aodDeepSkyTiers = []tier{{0.1, 1.0}, {0.2, 0.95}, {0.3, 0.85}, {0.5, 0.70}}
	aodPlanetTiers  = []tier{{0.1, 1.0}, {0.2, 0.98}, {0.3, 0.92}, {0.5, 0.85}}
)

const (
	aodDeepSkyFloor = 0.50
	aodPlanetFloor  = 0.75
)

// Transparency factor for deep-sky targets (>= limit).
var transparencyTiers = []tier{{80, 1.05}, {60, 1.0}, {40, 0.90}}

const transparencyFloor = 0.75

// Precipitation probability factor (> limit).
var precipTiers = []tier{{70, 0.3}, {50, 0.5}, {30, 0.7}, {10, 0.9}}

// Wind gust factors (< limit, km/h). Planetary imaging uses short exposures.
var (
	windPlanetTiers = []tier{{15, 1.0}, {25, 0.98}, {40, 0.92}, {55, 0.80}}
	windOtherTiers  = []tier{{15, 1.0}, {25, 0.95}, {40, 0.80}, {55, 0.60}}
)

const (
	windPlanetFloor = 0.60
	windOtherFloor  = 0.40
)

// Surface brightness in mag/arcsec² (< limit).
var surfaceBrightnessTiers = []tier{
	{20, 20},
	{22, 16},
	{24, 12},
	{26, 8},
}

const surfaceBrightnessFloor = 4.0

// Magnitude tiers per category (< limit).
var (
	planetMagnitudeTiers = []tier{{-2, 15}, {0, 13.5}, {2, 10.5}}
	smallBodyMagTiers    = []tier{{6, 15}, {8, 12}, {10, 9}, {12, 6}}
	dsoMagnitudeTiers    = []tier{{5, 15}, {7, 13.5}, {9, 10.5}, {11, 7.5}, {13, 4.5}}
)

const (
	planetMagnitudeFloor = 7.5
	smallBodyMagFloor    = 3.0
	dsoMagnitudeFloor    = 3.0
)

// Type suitability. Keys are the DSO subtype or, for other categories, the
// category name.
const darkSkyIllumination = 30.0

var darkSkySuitability = map[string]float64{
	string(sky.CategoryMilkyWay):        15,
	string(sky.SubtypeEmissionNebula):   14.25,
	string(sky.SubtypeReflectionNebula): 14.25,
	string(sky.SubtypeGalaxy):           14.25,
	string(sky.SubtypeGalaxyGroup):      14.25,
	string(sky.SubtypeGalaxyPair):       14.25,
	string(sky.SubtypeGalaxyTriplet):    14.25,
	string(sky.SubtypePlanetaryNebula):  12.75,
	string(sky.SubtypeSupernovaRemnant): 12.75,
	string(sky.CategoryComet):           12,
	string(sky.SubtypeOpenCluster):      10.5,
	string(sky.SubtypeGlobularCluster):  10.5,
	string(sky.CategoryPlanet):          9,
}

var brightSkySuitability = map[string]float64{
	string(sky.CategoryPlanet):         15,
	string(sky.SubtypeGlobularCluster): 13.5,
	string(sky.SubtypeOpenCluster):     13.5,
	string(sky.SubtypePlanetaryNebula): 10.5,
	string(sky.CategoryComet):          7.5,
	string(sky.SubtypeGalaxy):          4.5,
	string(sky.SubtypeGalaxyGroup):     4.5,
	string(sky.SubtypeGalaxyPair):      4.5,
	string(sky.SubtypeGalaxyTriplet):   4.5,
	string(sky.SubtypeEmissionNebula):  4.5,
	string(sky.CategoryMilkyWay):       1.5,
}

const (
	darkSkyDefault   = 7.5
	brightSkyDefault = 6.0
)

// Transient bonus.
const (
	interstellarBonus    = 25.0
	cometPerihelionBonus = 17.5
	cometBonus           = 12.5
	asteroidBonus        = 7.5
	perihelionWindowDays = 30.0
)

// Novelty.
const (
	messierNovelty = 10.0
	namedNovelty   = 5.0
)

// Tier labels by total score (>= limit).
var scoreTierLabels = []struct {
	limit float64
	label string
}{
	{150, "Excellent"},
	{100, "Very Good"},
	{70, "Good"},
	{40, "Fair"},
}
