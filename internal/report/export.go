// Package report renders forecast results as JSON or terminal tables.
package report

import (
	"encoding/json"
	"io"
	"time"

	"github.com/litescript/ls-nightwatch/internal/forecast"
	"github.com/litescript/ls-nightwatch/internal/imaging"
	"github.com/litescript/ls-nightwatch/internal/rating"
	"github.com/litescript/ls-nightwatch/internal/scoring"
	"github.com/litescript/ls-nightwatch/internal/sky"
	"github.com/litescript/ls-nightwatch/internal/weather"
)

// ForecastExport is the JSON-serializable representation of a forecast run.
type ForecastExport struct {
	RunID       string         `json:"run_id"`
	GeneratedAt time.Time      `json:"generated_at"`
	Location    LocationExport `json:"location"`
	Nights      []NightExport  `json:"nights"`
}

// LocationExport is the observing site.
type LocationExport struct {
	Name       string  `json:"name,omitempty"`
	Latitude   float64 `json:"latitude"`
	Longitude  float64 `json:"longitude"`
	ElevationM float64 `json:"elevation_m"`
}

// NightExport is one night without the raw altitude tracks.
type NightExport struct {
	Date             string             `json:"date"`
	Sunset           time.Time          `json:"sunset"`
	Sunrise          time.Time          `json:"sunrise"`
	AstronomicalDusk *time.Time         `json:"astronomical_dusk,omitempty"`
	AstronomicalDawn *time.Time         `json:"astronomical_dawn,omitempty"`
	DarkHours        float64            `json:"dark_hours"`
	MoonPhase        float64            `json:"moon_phase"`
	MoonIllumination float64            `json:"moon_illumination"`
	Rating           rating.NightRating `json:"rating"`
	Weather          *WeatherExport     `json:"weather,omitempty"`
	VisibleCount     int                `json:"visible_count"`
	Objects          []ObjectExport     `json:"objects"`
}

// WeatherExport summarizes the night's weather.
type WeatherExport struct {
	AvgCloudCover      float64  `json:"avg_cloud_cover"`
	Description        string   `json:"description"`
	ClearDurationHours float64  `json:"clear_duration_hours"`
	TransparencyScore  *float64 `json:"transparency_score,omitempty"`
	MaxWindGustKmh     *float64 `json:"max_wind_gust_kmh,omitempty"`
}

// ObjectExport is one ranked object with its best imaging window.
type ObjectExport struct {
	Rank            int               `json:"rank"`
	ID              string            `json:"id"`
	Name            string            `json:"name"`
	Category        sky.Category      `json:"category"`
	Subtype         sky.Subtype       `json:"subtype"`
	TotalScore      float64           `json:"total_score"`
	Tier            string            `json:"tier"`
	Breakdown       scoring.Breakdown `json:"breakdown"`
	MaxAltitude     float64           `json:"max_altitude"`
	MaxAltitudeTime *time.Time        `json:"max_altitude_time,omitempty"`
	MoonSeparation  *float64          `json:"moon_separation,omitempty"`
	BestWindow      *imaging.Window   `json:"best_window,omitempty"`
	Reason          string            `json:"reason"`
}

// ExportForecast converts a forecast result to its export form.
func ExportForecast(res *forecast.Result) *ForecastExport {
	if res == nil {
		return &ForecastExport{Nights: []NightExport{}}
	}
	export := &ForecastExport{
		RunID:       res.RunID,
		GeneratedAt: res.GeneratedAt,
		Location: LocationExport{
			Name:       res.Location.Name,
			Latitude:   res.Location.LatDeg,
			Longitude:  res.Location.LonDeg,
			ElevationM: res.Location.ElevationM,
		},
		Nights: make([]NightExport, 0, len(res.Nights)),
	}
	for _, nf := range res.Nights {
		export.Nights = append(export.Nights, ExportNight(nf, res.MoonModel))
	}
	return export
}

// ExportNight converts one night, computing the best imaging window of each
// ranked object.
func ExportNight(nf forecast.NightForecast, model sky.MoonModel) NightExport {
	n := nf.Night
	ne := NightExport{
		Date:             n.Key(),
		Sunset:           n.Sunset,
		Sunrise:          n.Sunrise,
		DarkHours:        n.DarkHours(),
		MoonPhase:        n.MoonPhase,
		MoonIllumination: n.MoonIllumination,
		Rating:           nf.Rating,
		Weather:          exportWeather(nf.Weather),
		VisibleCount:     nf.VisibleCount(),
		Objects:          make([]ObjectExport, 0, len(nf.Scored)),
	}
	if !n.Degenerate() {
		dusk, dawn := n.AstronomicalDusk, n.AstronomicalDawn
		ne.AstronomicalDusk, ne.AstronomicalDawn = &dusk, &dawn
	}

	for i, so := range nf.Scored {
		windows := imaging.ComputeWindows(so.Visibility, n, nf.Weather, imaging.WithMoonModel(model))
		ne.Objects = append(ne.Objects, ObjectExport{
			Rank:            i + 1,
			ID:              so.Object.ID,
			Name:            so.Object.DisplayName(),
			Category:        so.Object.Category,
			Subtype:         so.Object.Subtype,
			TotalScore:      so.TotalScore,
			Tier:            so.Tier,
			Breakdown:       so.Breakdown,
			MaxAltitude:     so.Visibility.MaxAltitude,
			MaxAltitudeTime: so.Visibility.MaxAltitudeTime,
			MoonSeparation:  so.Visibility.MoonSeparation,
			BestWindow:      imaging.BestWindow(windows),
			Reason:          so.Reason,
		})
	}
	return ne
}

func exportWeather(w *weather.NightWeather) *WeatherExport {
	if w == nil {
		return nil
	}
	return &WeatherExport{
		AvgCloudCover:      w.AvgCloudCover,
		Description:        weather.CloudDescription(w.AvgCloudCover),
		ClearDurationHours: w.ClearDurationHours,
		TransparencyScore:  w.TransparencyScore,
		MaxWindGustKmh:     w.MaxWindGustKmh,
	}
}

// WriteJSON writes the forecast export as indented JSON.
func WriteJSON(w io.Writer, res *forecast.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(ExportForecast(res))
}

// WriteNightJSON writes one night's export as indented JSON.
func WriteNightJSON(w io.Writer, nf forecast.NightForecast, model sky.MoonModel) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(ExportNight(nf, model))
}
