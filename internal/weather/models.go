// Package weather supplies per-night meteorological data to the scoring core.
package weather

import (
	"context"
	"time"

	"github.com/litescript/ls-nightwatch/internal/astro"
)

// Hour is one hourly forecast bucket. Optional fields are nil when the
// source did not report them.
type Hour struct {
	Time       time.Time `json:"time"`
	CloudCover float64   `json:"cloud_cover"` // percent
	CloudLow   *float64  `json:"cloud_cover_low,omitempty"`
	CloudMid   *float64  `json:"cloud_cover_mid,omitempty"`
	CloudHigh  *float64  `json:"cloud_cover_high,omitempty"`

	TemperatureC *float64 `json:"temperature_c,omitempty"`
	DewPointC    *float64 `json:"dew_point_c,omitempty"`
	HumidityPct  *float64 `json:"humidity_pct,omitempty"`

	WindSpeedKmh *float64 `json:"wind_speed_kmh,omitempty"`
	WindGustKmh  *float64 `json:"wind_gust_kmh,omitempty"`

	PrecipProbability *float64 `json:"precip_probability,omitempty"`
	PressureHPa       *float64 `json:"pressure_hpa,omitempty"`

	AOD  *float64 `json:"aod,omitempty"`
	PM25 *float64 `json:"pm2_5,omitempty"`
	PM10 *float64 `json:"pm10,omitempty"`
}

// ClearWindow is a run of consecutive hours below the clear-window cloud limit.
type ClearWindow struct {
	Start         time.Time `json:"start"`
	End           time.Time `json:"end"`
	AvgCloudCover float64   `json:"avg_cloud_cover"`
}

// PressureTrend is the direction of surface pressure across the night.
type PressureTrend string

const (
	PressureUnknown PressureTrend = ""
	PressureRising  PressureTrend = "rising"
	PressureFalling PressureTrend = "falling"
	PressureSteady  PressureTrend = "steady"
)

// NightWeather is the aggregated weather for the dark window of one night.
// Optional aggregates are nil when no hour in the window reported them.
type NightWeather struct {
	Date time.Time `json:"date"`

	AvgCloudCover      float64       `json:"avg_cloud_cover"`
	MinCloudCover      float64       `json:"min_cloud_cover"`
	MaxCloudCover      float64       `json:"max_cloud_cover"`
	ClearDurationHours float64       `json:"clear_duration_hours"`
	ClearWindows       []ClearWindow `json:"clear_windows"`

	AvgWindSpeedKmh      *float64 `json:"avg_wind_speed_kmh,omitempty"`
	MaxWindGustKmh       *float64 `json:"max_wind_gust_kmh,omitempty"`
	AvgHumidity          *float64 `json:"avg_humidity,omitempty"`
	AvgTemperatureC      *float64 `json:"avg_temperature_c,omitempty"`
	MinDewMarginC        *float64 `json:"min_dew_margin_c,omitempty"`
	MaxPrecipProbability *float64 `json:"max_precip_probability,omitempty"`
	AvgAOD               *float64 `json:"avg_aod,omitempty"`
	AvgPM25              *float64 `json:"avg_pm2_5,omitempty"`
	AvgPM10              *float64 `json:"avg_pm10,omitempty"`
	TransparencyScore    *float64 `json:"transparency_score,omitempty"` // 0-100

	PressureTrend PressureTrend `json:"pressure_trend,omitempty"`

	Hourly []Hour `json:"hourly"`
}

// Provider returns an hourly series for a location. Implementations are
// expected to cover [start, end] as far as their data allows.
type Provider interface {
	Name() string
	Hourly(ctx context.Context, obs astro.Observer, start, end time.Time) ([]Hour, error)
}

// Night fetches the hourly series covering dusk to dawn and aggregates it.
// A nil result with a nil error means the provider has no data for the night.
func Night(ctx context.Context, p Provider, obs astro.Observer, date, dusk, dawn time.Time) (*NightWeather, error) {
	if dusk.IsZero() || dawn.IsZero() || !dusk.Before(dawn) {
		return nil, nil
	}
	hours, err := p.Hourly(ctx, obs, dusk, dawn)
	if err != nil {
		return nil, err
	}
	w := Aggregate(hours, dusk, dawn)
	if w != nil {
		w.Date = date
	}
	return w, nil
}
