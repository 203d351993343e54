package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/litescript/ls-nightwatch/internal/astro"
	"github.com/litescript/ls-nightwatch/internal/logging"
)

const (
	// DefaultForecastURL is the Open-Meteo hourly forecast endpoint.
	DefaultForecastURL = "https://api.open-meteo.com/v1/forecast"

	// DefaultAirQualityURL is the Open-Meteo air-quality endpoint.
	DefaultAirQualityURL = "https://air-quality-api.open-meteo.com/v1/air-quality"

	// DefaultTimeout for HTTP requests.
	DefaultTimeout = 10 * time.Second

	// MaxForecastDays is the horizon Open-Meteo serves hourly data for.
	MaxForecastDays = 16
)

var forecastFields = []string{
	"cloud_cover", "cloud_cover_low", "cloud_cover_mid", "cloud_cover_high",
	"temperature_2m", "dew_point_2m", "relative_humidity_2m",
	"wind_speed_10m", "wind_gusts_10m", "precipitation_probability", "surface_pressure",
}

var airQualityFields = []string{"aerosol_optical_depth", "pm2_5", "pm10"}

// OpenMeteoClient fetches hourly forecasts from Open-Meteo. Each call makes
// a single attempt per endpoint. Air-quality failures are logged and the
// forecast is returned without aerosol data.
type OpenMeteoClient struct {
	client        *http.Client
	forecastURL   string
	airQualityURL string
	timeout       time.Duration
	log           *logging.Logger
}

// OpenMeteoOption configures an OpenMeteoClient.
type OpenMeteoOption func(*OpenMeteoClient)

// WithForecastURL overrides the forecast endpoint.
func WithForecastURL(u string) OpenMeteoOption {
	return func(c *OpenMeteoClient) {
		c.forecastURL = u
	}
}

// WithAirQualityURL overrides the air-quality endpoint. An empty URL disables
// the air-quality request.
func WithAirQualityURL(u string) OpenMeteoOption {
	return func(c *OpenMeteoClient) {
		c.airQualityURL = u
	}
}

// WithTimeout sets the HTTP request timeout.
func WithTimeout(d time.Duration) OpenMeteoOption {
	return func(c *OpenMeteoClient) {
		c.timeout = d
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) OpenMeteoOption {
	return func(c *OpenMeteoClient) {
		c.client = client
	}
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) OpenMeteoOption {
	return func(c *OpenMeteoClient) {
		c.log = l
	}
}

// NewOpenMeteoClient creates a client with default endpoints.
func NewOpenMeteoClient(opts ...OpenMeteoOption) *OpenMeteoClient {
	c := &OpenMeteoClient{
		forecastURL:   DefaultForecastURL,
		airQualityURL: DefaultAirQualityURL,
		timeout:       DefaultTimeout,
		log:           logging.Discard(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.client == nil {
		c.client = &http.Client{Timeout: c.timeout}
	}
	return c
}

// Name returns the provider name.
func (c *OpenMeteoClient) Name() string {
	return "openmeteo"
}

// Night fetches and aggregates the weather for one dark window.
func (c *OpenMeteoClient) Night(ctx context.Context, obs astro.Observer, date, dusk, dawn time.Time) (*NightWeather, error) {
	return Night(ctx, c, obs, date, dusk, dawn)
}

type openMeteoHourly struct {
	Time []int64 `json:"time"`

	CloudCover     []*float64 `json:"cloud_cover"`
	CloudCoverLow  []*float64 `json:"cloud_cover_low"`
	CloudCoverMid  []*float64 `json:"cloud_cover_mid"`
	CloudCoverHigh []*float64 `json:"cloud_cover_high"`
	Temperature    []*float64 `json:"temperature_2m"`
	DewPoint       []*float64 `json:"dew_point_2m"`
	Humidity       []*float64 `json:"relative_humidity_2m"`
	WindSpeed      []*float64 `json:"wind_speed_10m"`
	WindGusts      []*float64 `json:"wind_gusts_10m"`
	PrecipProb     []*float64 `json:"precipitation_probability"`
	Pressure       []*float64 `json:"surface_pressure"`

	AOD  []*float64 `json:"aerosol_optical_depth"`
	PM25 []*float64 `json:"pm2_5"`
	PM10 []*float64 `json:"pm10"`
}

type openMeteoResponse struct {
	Hourly openMeteoHourly `json:"hourly"`
	Error  bool            `json:"error"`
	Reason string          `json:"reason"`
}

// Hourly returns the hourly series covering [start, end]. Hours without a
// cloud cover value are dropped.
func (c *OpenMeteoClient) Hourly(ctx context.Context, obs astro.Observer, start, end time.Time) ([]Hour, error) {
	if err := obs.Validate(); err != nil {
		return nil, err
	}
	if end.Before(start) {
		return nil, fmt.Errorf("open-meteo: end %s before start %s", end.Format(time.RFC3339), start.Format(time.RFC3339))
	}

	query := baseQuery(obs, start, end)
	query.Set("hourly", strings.Join(forecastFields, ","))

	forecast, err := c.get(ctx, c.forecastURL, query)
	if err != nil {
		return nil, err
	}
	hours := forecast.Hourly.hours()

	if c.airQualityURL != "" {
		aq := baseQuery(obs, start, end)
		aq.Set("hourly", strings.Join(airQualityFields, ","))
		air, err := c.get(ctx, c.airQualityURL, aq)
		if err != nil {
			c.log.Warn("air quality unavailable", "err", err)
		} else {
			mergeAirQuality(hours, air.Hourly)
		}
	}

	c.log.Debug("open-meteo hourly fetched", "hours", len(hours),
		"lat", obs.LatDeg, "lon", obs.LonDeg)
	return hours, nil
}

func baseQuery(obs astro.Observer, start, end time.Time) url.Values {
	q := url.Values{}
	q.Set("latitude", fmt.Sprintf("%.4f", obs.LatDeg))
	q.Set("longitude", fmt.Sprintf("%.4f", obs.LonDeg))
	q.Set("timezone", "GMT")
	q.Set("timeformat", "unixtime")
	q.Set("start_date", start.UTC().Format("2006-01-02"))
	q.Set("end_date", end.UTC().Format("2006-01-02"))
	return q
}

func (c *OpenMeteoClient) get(ctx context.Context, endpoint string, query url.Values) (*openMeteoResponse, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("open-meteo url: %w", err)
	}
	u.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("open-meteo request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("open-meteo request failed: %w", err)
	}
	defer resp.Body.Close()

	var payload openMeteoResponse
	decodeErr := json.NewDecoder(resp.Body).Decode(&payload)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if decodeErr == nil && payload.Reason != "" {
			return nil, fmt.Errorf("open-meteo bad status: %s: %s", resp.Status, payload.Reason)
		}
		return nil, fmt.Errorf("open-meteo bad status: %s", resp.Status)
	}
	if decodeErr != nil {
		return nil, fmt.Errorf("open-meteo decode: %w", decodeErr)
	}
	if payload.Error {
		return nil, fmt.Errorf("open-meteo error: %s", payload.Reason)
	}
	return &payload, nil
}

func (h openMeteoHourly) hours() []Hour {
	out := make([]Hour, 0, len(h.Time))
	for i, ts := range h.Time {
		cloud := at(h.CloudCover, i)
		if cloud == nil {
			continue
		}
		out = append(out, Hour{
			Time:              time.Unix(ts, 0).UTC(),
			CloudCover:        *cloud,
			CloudLow:          at(h.CloudCoverLow, i),
			CloudMid:          at(h.CloudCoverMid, i),
			CloudHigh:         at(h.CloudCoverHigh, i),
			TemperatureC:      at(h.Temperature, i),
			DewPointC:         at(h.DewPoint, i),
			HumidityPct:       at(h.Humidity, i),
			WindSpeedKmh:      at(h.WindSpeed, i),
			WindGustKmh:       at(h.WindGusts, i),
			PrecipProbability: at(h.PrecipProb, i),
			PressureHPa:       at(h.Pressure, i),
		})
	}
	return out
}

func mergeAirQuality(hours []Hour, aq openMeteoHourly) {
	idx := make(map[int64]int, len(aq.Time))
	for i, ts := range aq.Time {
		idx[ts] = i
	}
	for k := range hours {
		i, ok := idx[hours[k].Time.Unix()]
		if !ok {
			continue
		}
		hours[k].AOD = at(aq.AOD, i)
		hours[k].PM25 = at(aq.PM25, i)
		hours[k].PM10 = at(aq.PM10, i)
	}
}

func at(values []*float64, i int) *float64 {
	if i < 0 || i >= len(values) {
		return nil
	}
	return values[i]
}
