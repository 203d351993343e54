// Package forecast runs the visibility and scoring core across a span of
// nights and assembles per-night results.
package forecast

import (
	"sort"
	"time"

	"github.com/litescript/ls-nightwatch/internal/astro"
	"github.com/litescript/ls-nightwatch/internal/rating"
	"github.com/litescript/ls-nightwatch/internal/scoring"
	"github.com/litescript/ls-nightwatch/internal/sky"
	"github.com/litescript/ls-nightwatch/internal/weather"
)

// MaxNights is the longest forecast horizon.
const MaxNights = 30

// Request describes one forecast run.
type Request struct {
	Observer astro.Observer
	Start    time.Time // local midnight of the first night
	Nights   int
	Objects  []sky.Object

	// MagnitudeLimits drops objects fainter than the limit for their
	// category from scoring. Categories without an entry are unfiltered.
	MagnitudeLimits map[sky.Category]float64
	MaxObjects      int
	MinScore        float64
	MoonModel       sky.MoonModel
}

// NightForecast bundles everything computed for one night.
type NightForecast struct {
	Night        sky.NightInfo                           `json:"night"`
	Weather      *weather.NightWeather                   `json:"weather,omitempty"`
	Rating       rating.NightRating                      `json:"rating"`
	Visibilities map[sky.Category][]sky.ObjectVisibility `json:"visibilities"`
	Scored       []scoring.ScoredObject                  `json:"scored"`
}

// Visibility finds the track of an object that was visible this night.
func (f NightForecast) Visibility(id string) (sky.ObjectVisibility, bool) {
	for _, list := range f.Visibilities {
		for _, v := range list {
			if v.ObjectID == id {
				return v, true
			}
		}
	}
	return sky.ObjectVisibility{}, false
}

// VisibleCount returns the number of objects above the visibility altitude.
func (f NightForecast) VisibleCount() int {
	n := 0
	for _, list := range f.Visibilities {
		n += len(list)
	}
	return n
}

// Result is the outcome of Engine.Run.
type Result struct {
	RunID       string         `json:"run_id"`
	GeneratedAt time.Time      `json:"generated_at"`
	Location    astro.Observer `json:"location"`
	MoonModel   sky.MoonModel  `json:"-"`

	Nights []NightForecast `json:"nights"`

	// ByDate maps NightInfo.Key() to the ranked highlight list.
	ByDate map[string][]scoring.ScoredObject `json:"by_date"`
}

// Night returns the forecast for a date key (YYYY-MM-DD).
func (r *Result) Night(key string) (NightForecast, bool) {
	for _, n := range r.Nights {
		if n.Night.Key() == key {
			return n, true
		}
	}
	return NightForecast{}, false
}

// RatedNights returns the rating of each night in date order.
func (r *Result) RatedNights() []rating.RatedNight {
	out := make([]rating.RatedNight, 0, len(r.Nights))
	for _, n := range r.Nights {
		out = append(out, rating.RatedNight{Night: n.Night, Weather: n.Weather, Rating: n.Rating})
	}
	return out
}

// sortVisibilities orders each category by descending peak altitude.
func sortVisibilities(m map[sky.Category][]sky.ObjectVisibility) {
	for _, list := range m {
		sort.SliceStable(list, func(i, j int) bool {
			if list[i].MaxAltitude != list[j].MaxAltitude {
				return list[i].MaxAltitude > list[j].MaxAltitude
			}
			return list[i].ObjectID < list[j].ObjectID
		})
	}
}
