// Package scoring ranks visible objects for one night on a 0-200 scale.
//
// A score is the sum of ten sub-scores in three capped groups:
//
//	imaging quality   (0-100) altitude, moon, peak timing, weather
//	characteristics   (0-50)  surface brightness, magnitude, type suitability
//	priority          (0-50)  transient bonus, seasonal window, novelty
//
// Every sub-scorer is total over its inputs: missing data maps to a fixed
// neutral default rather than an error.
package scoring

import (
	"strings"
	"time"

	"github.com/litescript/ls-nightwatch/internal/astro"
	"github.com/litescript/ls-nightwatch/internal/sky"
	"github.com/litescript/ls-nightwatch/internal/weather"
)

// Conditions are the night-wide inputs shared by every object scored that
// night.
type Conditions struct {
	Night    sky.NightInfo
	Weather  *weather.NightWeather
	SunRAdeg float64
}

// NewConditions derives the Sun's right ascension at local midnight of the
// night.
func NewConditions(night sky.NightInfo, w *weather.NightWeather) Conditions {
	ra, _ := astro.SunPosition(night.Date.Add(24 * time.Hour))
	return Conditions{Night: night, Weather: w, SunRAdeg: ra}
}

// Breakdown holds the ten sub-scores.
type Breakdown struct {
	Altitude         float64 `json:"altitude"`
	MoonInterference float64 `json:"moon_interference"`
	PeakTiming       float64 `json:"peak_timing"`
	Weather          float64 `json:"weather"`

	SurfaceBrightness float64 `json:"surface_brightness"`
	Magnitude         float64 `json:"magnitude"`
	TypeSuitability   float64 `json:"type_suitability"`

	TransientBonus float64 `json:"transient_bonus"`
	SeasonalWindow float64 `json:"seasonal_window"`
	Novelty        float64 `json:"novelty"`
}

// ImagingQuality returns the capped imaging group subtotal.
func (b Breakdown) ImagingQuality() float64 {
	return clamp(b.Altitude+b.MoonInterference+b.PeakTiming+b.Weather, 0, MaxImaging)
}

// Characteristics returns the capped object-characteristics subtotal.
func (b Breakdown) Characteristics() float64 {
	return clamp(b.SurfaceBrightness+b.Magnitude+b.TypeSuitability, 0, MaxCharacteristics)
}

// Priority returns the capped priority subtotal.
func (b Breakdown) Priority() float64 {
	return clamp(b.TransientBonus+b.SeasonalWindow+b.Novelty, 0, MaxPriority)
}

// Total returns the 0-200 total.
func (b Breakdown) Total() float64 {
	return clamp(b.ImagingQuality()+b.Characteristics()+b.Priority(), 0, MaxTotal)
}

// ScoredObject is one object's ranking for one night.
type ScoredObject struct {
	Object     sky.Object           `json:"object"`
	Visibility sky.ObjectVisibility `json:"visibility"`
	Breakdown  Breakdown            `json:"breakdown"`

	ImagingQuality  float64 `json:"imaging_quality"`
	Characteristics float64 `json:"characteristics"`
	Priority        float64 `json:"priority"`
	TotalScore      float64 `json:"total_score"`

	Tier   string `json:"tier"`
	Reason string `json:"reason"`
}

// Score computes the full breakdown for obj. Magnitude and size resolved by
// the visibility pass (planets, comets) take precedence over catalog values.
func Score(obj sky.Object, vis sky.ObjectVisibility, cond Conditions) ScoredObject {
	night := cond.Night
	illum := night.MoonIllumination

	mag := vis.Magnitude
	if mag == nil {
		mag = obj.Magnitude
	}
	size := vis.AngularSizeArcmin
	if size == nil {
		size = obj.AngularSizeArcmin
	}

	b := Breakdown{
		Altitude:         AltitudeScore(vis.MinAirmass, vis.MaxAltitude),
		MoonInterference: MoonScore(vis.MoonSeparation, illum, obj.Category, obj.Subtype),
		PeakTiming:       TimingScore(vis.MaxAltitudeTime, night.AstronomicalDusk, night.AstronomicalDawn),
		Weather:          WeatherScore(cond.Weather, obj.Category),

		SurfaceBrightness: SurfaceBrightnessScore(obj.SurfaceBrightness, mag, size),
		Magnitude:         MagnitudeScore(mag, obj.Category),
		TypeSuitability:   TypeSuitabilityScore(obj.Category, obj.Subtype, illum),

		TransientBonus: TransientBonus(obj, night.Date),
		SeasonalWindow: SeasonalScore(vis.RAdeg, cond.SunRAdeg),
		Novelty:        NoveltyScore(obj),
	}

	total := b.Total()
	return ScoredObject{
		Object:          obj,
		Visibility:      vis,
		Breakdown:       b,
		ImagingQuality:  b.ImagingQuality(),
		Characteristics: b.Characteristics(),
		Priority:        b.Priority(),
		TotalScore:      total,
		Tier:            ScoreTier(total),
		Reason:          Reason(b, vis, illum),
	}
}

// ScoreTier labels a total score.
func ScoreTier(total float64) string {
	for _, t := range scoreTierLabels {
		if total >= t.limit {
			return t.label
		}
	}
	return "Poor"
}

// Reason summarises why an object ranks where it does, e.g.
// "Excellent altitude, dark sky, rare target".
func Reason(b Breakdown, vis sky.ObjectVisibility, illuminationPct float64) string {
	var parts []string

	switch alt := vis.MaxAltitude; {
	case alt >= 75:
		parts = append(parts, "excellent altitude")
	case alt >= 60:
		parts = append(parts, "very good altitude")
	case alt >= 45:
		parts = append(parts, "good altitude")
	case alt >= 30:
		parts = append(parts, "acceptable altitude")
	default:
		parts = append(parts, "low altitude")
	}

	switch {
	case illuminationPct < 20:
		parts = append(parts, "dark sky")
	case illuminationPct < 50:
		parts = append(parts, "moderate moonlight")
	case b.MoonInterference > MoonMax/2:
		parts = append(parts, "moon tolerable")
	default:
		parts = append(parts, "moon interference")
	}

	if b.TransientBonus > 15 {
		parts = append(parts, "rare target")
	}
	if b.SeasonalWindow > 10 {
		parts = append(parts, "peak season")
	}

	s := strings.Join(parts, ", ")
	return strings.ToUpper(s[:1]) + s[1:]
}
