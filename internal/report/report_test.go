package report

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/litescript/ls-nightwatch/internal/astro"
	"github.com/litescript/ls-nightwatch/internal/catalog"
	"github.com/litescript/ls-nightwatch/internal/forecast"
	"github.com/litescript/ls-nightwatch/internal/rating"
	"github.com/litescript/ls-nightwatch/internal/sky"
)

func runForecast(t *testing.T) *forecast.Result {
	t.Helper()
	byID := catalog.ByID(catalog.Builtin())
	var objs []sky.Object
	for _, id := range []string{"M31", "M45", "M13", "jupiter", "saturn"} {
		objs = append(objs, byID[id])
	}
	res, err := forecast.NewEngine().Run(context.Background(), forecast.Request{
		Observer:   astro.Observer{LatDeg: 51.4536, LonDeg: -0.1919, Name: "London"},
		Start:      time.Date(2025, 9, 15, 0, 0, 0, 0, time.UTC),
		Nights:     2,
		Objects:    objs,
		MaxObjects: 5,
	})
	require.NoError(t, err)
	return res
}

func TestWriteJSON(t *testing.T) {
	res := runForecast(t)

	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, res))
	assert.NotContains(t, buf.String(), `"samples"`, "altitude tracks are not exported")

	var got ForecastExport
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, res.RunID, got.RunID)
	assert.Equal(t, "London", got.Location.Name)
	require.Len(t, got.Nights, 2)

	n := got.Nights[0]
	assert.Equal(t, "2025-09-15", n.Date)
	require.NotNil(t, n.AstronomicalDusk)
	require.NotNil(t, n.AstronomicalDawn)
	assert.Greater(t, n.DarkHours, 5.0)
	assert.Nil(t, n.Weather)
	require.NotEmpty(t, n.Objects)
	for i, o := range n.Objects {
		assert.Equal(t, i+1, o.Rank)
		assert.NotEmpty(t, o.Tier)
		assert.NotEmpty(t, o.Reason)
	}

	var m31 *ObjectExport
	for i := range n.Objects {
		if n.Objects[i].ID == "M31" {
			m31 = &n.Objects[i]
		}
	}
	require.NotNil(t, m31)
	require.NotNil(t, m31.BestWindow, "Andromeda has a long imaging window")
	assert.GreaterOrEqual(t, m31.BestWindow.Duration(), 30*time.Minute)
}

func TestWriteJSONNil(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, nil))
	assert.Contains(t, buf.String(), `"nights": []`)
}

func TestWriteNightJSON(t *testing.T) {
	res := runForecast(t)

	var buf bytes.Buffer
	require.NoError(t, WriteNightJSON(&buf, res.Nights[1], res.MoonModel))

	var got NightExport
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "2025-09-16", got.Date)
	assert.Equal(t, res.Nights[1].VisibleCount(), got.VisibleCount)
	assert.Len(t, got.Objects, len(res.Nights[1].Scored))
}

func TestWriteForecastTable(t *testing.T) {
	res := runForecast(t)

	var plain bytes.Buffer
	WriteForecastTable(&plain, res, Options{Location: time.UTC})
	out := plain.String()
	assert.Contains(t, out, "Forecast for London")
	assert.Contains(t, out, "Mon 15 Sep")
	assert.Contains(t, out, "Tue 16 Sep")
	assert.Contains(t, out, "Best dark nights:")
	assert.NotContains(t, out, "\x1b[")

	var colored bytes.Buffer
	WriteForecastTable(&colored, res, Options{Color: true, Location: time.UTC})
	assert.Contains(t, colored.String(), "\x1b[")

	var empty bytes.Buffer
	WriteForecastTable(&empty, nil, Options{})
	assert.Equal(t, "No nights forecast\n", empty.String())
}

func TestWriteNightTable(t *testing.T) {
	res := runForecast(t)

	var buf bytes.Buffer
	WriteNightTable(&buf, res.Nights[0], Options{Location: time.UTC})
	out := buf.String()
	assert.Contains(t, out, "Monday 15 September 2025")
	assert.Contains(t, out, "Dark ")
	assert.Contains(t, out, "Andromeda Galaxy")
	assert.Contains(t, out, "galaxy")
	assert.True(t, strings.Contains(out, "Why"))
}

func TestWriteNightTableDegenerate(t *testing.T) {
	nf := forecast.NightForecast{
		Night:  sky.NightInfo{Date: time.Date(2025, 6, 21, 0, 0, 0, 0, time.UTC)},
		Rating: rating.Rate(nil, sky.NightInfo{}),
	}
	var buf bytes.Buffer
	WriteNightTable(&buf, nf, Options{})
	out := buf.String()
	assert.Contains(t, out, "No astronomical darkness")
	assert.Contains(t, out, "No objects worth observing")
}
