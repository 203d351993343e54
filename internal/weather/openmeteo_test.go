package weather

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/litescript/ls-nightwatch/internal/astro"
)

var testObserver = astro.Observer{LatDeg: 51.4536, LonDeg: -0.1919}

// hourlyJSON renders an Open-Meteo style hourly block starting at start.
func hourlyJSON(start time.Time, fields map[string][]string) string {
	n := 0
	for _, v := range fields {
		n = len(v)
	}
	times := make([]string, n)
	for i := range times {
		times[i] = fmt.Sprint(start.Add(time.Duration(i) * time.Hour).Unix())
	}
	parts := []string{`"time":[` + strings.Join(times, ",") + `]`}
	for k, v := range fields {
		parts = append(parts, fmt.Sprintf("%q:[%s]", k, strings.Join(v, ",")))
	}
	return `{"latitude":51.45,"longitude":-0.19,"hourly":{` + strings.Join(parts, ",") + `}}`
}

func TestOpenMeteoHourly(t *testing.T) {
	start := time.Date(2025, 9, 15, 21, 0, 0, 0, time.UTC)

	var forecastQuery, airQuery string
	forecast := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		forecastQuery = r.URL.RawQuery
		fmt.Fprint(w, hourlyJSON(start, map[string][]string{
			"cloud_cover":      {"10", "null", "30"},
			"wind_gusts_10m":   {"12.5", "20", "null"},
			"surface_pressure": {"1012", "1011", "1010"},
			"temperature_2m":   {"11", "10", "9"},
			"dew_point_2m":     {"8", "8", "8.5"},
		}))
	}))
	defer forecast.Close()

	air := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		airQuery = r.URL.RawQuery
		fmt.Fprint(w, hourlyJSON(start, map[string][]string{
			"aerosol_optical_depth": {"0.08", "0.09", "0.30"},
		}))
	}))
	defer air.Close()

	c := NewOpenMeteoClient(WithForecastURL(forecast.URL), WithAirQualityURL(air.URL))
	assert.Equal(t, "openmeteo", c.Name())

	hours, err := c.Hourly(context.Background(), testObserver, start, start.Add(2*time.Hour))
	require.NoError(t, err)

	assert.Contains(t, forecastQuery, "latitude=51.4536")
	assert.Contains(t, forecastQuery, "timeformat=unixtime")
	assert.Contains(t, forecastQuery, "start_date=2025-09-15")
	assert.Contains(t, airQuery, "aerosol_optical_depth")

	require.Len(t, hours, 2, "hours without cloud cover are dropped")
	assert.Equal(t, start, hours[0].Time)
	assert.Equal(t, 10.0, hours[0].CloudCover)
	require.NotNil(t, hours[0].WindGustKmh)
	assert.Equal(t, 12.5, *hours[0].WindGustKmh)
	require.NotNil(t, hours[0].AOD)
	assert.Equal(t, 0.08, *hours[0].AOD)

	assert.Equal(t, start.Add(2*time.Hour), hours[1].Time)
	assert.Nil(t, hours[1].WindGustKmh)
	require.NotNil(t, hours[1].AOD)
	assert.Equal(t, 0.30, *hours[1].AOD)
}

func TestOpenMeteoAirQualityFailureIsSoft(t *testing.T) {
	start := time.Date(2025, 9, 15, 21, 0, 0, 0, time.UTC)
	forecast := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, hourlyJSON(start, map[string][]string{"cloud_cover": {"5", "6"}}))
	}))
	defer forecast.Close()
	air := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	defer air.Close()

	c := NewOpenMeteoClient(WithForecastURL(forecast.URL), WithAirQualityURL(air.URL))
	hours, err := c.Hourly(context.Background(), testObserver, start, start.Add(time.Hour))
	require.NoError(t, err)
	require.Len(t, hours, 2)
	assert.Nil(t, hours[0].AOD)
}

func TestOpenMeteoErrors(t *testing.T) {
	start := time.Date(2025, 9, 15, 21, 0, 0, 0, time.UTC)

	t.Run("bad status with reason", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			fmt.Fprint(w, `{"error":true,"reason":"Latitude must be in range of -90 to 90°."}`)
		}))
		defer srv.Close()

		c := NewOpenMeteoClient(WithForecastURL(srv.URL), WithAirQualityURL(""))
		_, err := c.Hourly(context.Background(), testObserver, start, start)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Latitude must be in range")
	})

	t.Run("malformed body", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"hourly":`)
		}))
		defer srv.Close()

		c := NewOpenMeteoClient(WithForecastURL(srv.URL), WithAirQualityURL(""))
		_, err := c.Hourly(context.Background(), testObserver, start, start)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "decode")
	})

	t.Run("invalid observer", func(t *testing.T) {
		c := NewOpenMeteoClient(WithForecastURL("http://127.0.0.1:1"))
		_, err := c.Hourly(context.Background(), astro.Observer{LatDeg: 120}, start, start)
		require.Error(t, err)
		assert.True(t, errors.Is(err, astro.ErrInvalidCoordinates))
	})

	t.Run("canceled context", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{}`)
		}))
		defer srv.Close()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		c := NewOpenMeteoClient(WithForecastURL(srv.URL), WithAirQualityURL(""))
		_, err := c.Hourly(ctx, testObserver, start, start)
		require.Error(t, err)
	})
}

func TestOpenMeteoNight(t *testing.T) {
	start := time.Date(2025, 9, 15, 19, 0, 0, 0, time.UTC)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, hourlyJSON(start, map[string][]string{
			"cloud_cover": {"90", "90", "10", "20", "30", "90", "90", "90", "90", "90"},
		}))
	}))
	defer srv.Close()

	c := NewOpenMeteoClient(WithForecastURL(srv.URL), WithAirQualityURL(""))
	date := time.Date(2025, 9, 15, 0, 0, 0, 0, time.UTC)
	w, err := c.Night(context.Background(), testObserver, date, dusk, dawn)
	require.NoError(t, err)
	require.NotNil(t, w)
	assert.Equal(t, date, w.Date)
	assert.Len(t, w.Hourly, 7)
	assert.InDelta(t, (10+20+30+90*4)/7.0, w.AvgCloudCover, 1e-9)

	none, err := c.Night(context.Background(), testObserver, date, dawn, dusk)
	require.NoError(t, err)
	assert.Nil(t, none, "degenerate window has no weather")
}

func TestFileProvider(t *testing.T) {
	dir := t.TempDir()

	arrayPath := filepath.Join(dir, "hours.json")
	require.NoError(t, os.WriteFile(arrayPath, []byte(`[
		{"time":"2025-09-15T23:00:00Z","cloud_cover":40},
		{"time":"2025-09-15T21:00:00Z","cloud_cover":20,"wind_gust_kmh":30},
		{"time":"2025-09-16T12:00:00Z","cloud_cover":90}
	]`), 0o644))

	wrappedPath := filepath.Join(dir, "night.json")
	require.NoError(t, os.WriteFile(wrappedPath, []byte(`{"hourly":[
		{"time":"2025-09-15T22:00:00Z","cloud_cover":0}
	]}`), 0o644))

	t.Run("array", func(t *testing.T) {
		p := NewFileProvider(arrayPath)
		assert.Equal(t, "file", p.Name())
		w, err := p.Night(context.Background(), testObserver, time.Time{}, dusk, dawn)
		require.NoError(t, err)
		require.NotNil(t, w)
		require.Len(t, w.Hourly, 2)
		assert.Equal(t, 20.0, w.Hourly[0].CloudCover, "sorted by time")
		assert.InDelta(t, 30.0, w.AvgCloudCover, 1e-12)
		require.NotNil(t, w.MaxWindGustKmh)
		assert.Equal(t, 30.0, *w.MaxWindGustKmh)
	})

	t.Run("wrapped", func(t *testing.T) {
		hours, err := ReadHours(wrappedPath)
		require.NoError(t, err)
		require.Len(t, hours, 1)
		assert.Equal(t, 0.0, hours[0].CloudCover)
	})

	t.Run("missing", func(t *testing.T) {
		_, err := NewFileProvider(filepath.Join(dir, "nope.json")).Hourly(context.Background(), testObserver, dusk, dawn)
		require.Error(t, err)
	})

	t.Run("garbage", func(t *testing.T) {
		bad := filepath.Join(dir, "bad.json")
		require.NoError(t, os.WriteFile(bad, []byte(`not json`), 0o644))
		_, err := ReadHours(bad)
		require.Error(t, err)
	})
}
