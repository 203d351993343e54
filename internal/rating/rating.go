// Package rating turns a night's cloud and Moon conditions into a 1-5 star
// observing rating.
package rating

import (
	"sort"
	"strings"

	"github.com/litescript/ls-nightwatch/internal/sky"
	"github.com/litescript/ls-nightwatch/internal/weather"
)

// Weights of the combined badness score when weather is known. Clouds block
// everything; moonlight only washes out faint targets.
const (
	CloudWeight = 0.7
	MoonWeight  = 0.3
)

// NightRating is the overall verdict for one night.
type NightRating struct {
	Stars      int     `json:"stars"`
	Label      string  `json:"label"`
	ColorClass string  `json:"color_class"`
	Summary    string  `json:"summary"`
	Badness    float64 `json:"badness"` // 0 best, 100 worst
	HasWeather bool    `json:"has_weather"`
}

// StarString renders the rating as filled and empty stars.
func (r NightRating) StarString() string {
	return strings.Repeat("★", r.Stars) + strings.Repeat("☆", 5-r.Stars)
}

var labels = [6]string{"", "Bad", "Poor", "Fair", "Good", "Excellent"}

var colorClasses = [6]string{"", "rating-bad", "rating-poor", "rating-fair", "rating-good", "rating-excellent"}

// Rate rates a night from its weather (nil when unknown) and Moon
// illumination. Without weather the rating is Moon-only and never exceeds
// four stars.
func Rate(w *weather.NightWeather, night sky.NightInfo) NightRating {
	illum := night.MoonIllumination

	var r NightRating
	if w == nil {
		r = moonOnly(illum)
	} else {
		r = combined(w.AvgCloudCover, illum)
	}

	if night.Degenerate() {
		r.Stars = 1
		r.Summary = "No astronomical darkness"
	}

	r.Label = labels[r.Stars]
	r.ColorClass = colorClasses[r.Stars]
	return r
}

func moonOnly(illum float64) NightRating {
	r := NightRating{Badness: illum}
	switch {
	case illum < 20:
		r.Stars, r.Summary = 4, "Dark Moon, no weather data"
	case illum < 40:
		r.Stars, r.Summary = 3, "Some moonlight, no weather data"
	case illum < 70:
		r.Stars, r.Summary = 2, "Bright Moon favours planets, no weather data"
	default:
		r.Stars, r.Summary = 1, "Bright Moon, no weather data"
	}
	return r
}

func combined(cloud, illum float64) NightRating {
	score := cloud*CloudWeight + illum*MoonWeight
	r := NightRating{Badness: score, HasWeather: true}
	switch {
	case score < 20:
		r.Stars, r.Summary = 5, "Dark and clear"
	case score < 35:
		r.Stars = 4
		if cloud < 30 {
			r.Summary = "Clear skies"
		} else {
			r.Summary = "Some clouds"
		}
	case score < 55:
		r.Stars = 3
		switch {
		case cloud > 60:
			r.Summary = "Cloudy"
		case illum > 60:
			r.Summary = "Bright Moon"
		default:
			r.Summary = "Fair conditions"
		}
	case score < 75:
		r.Stars, r.Summary = 2, poorSummary(cloud)
	default:
		r.Stars, r.Summary = 1, poorSummary(cloud)
	}
	return r
}

func poorSummary(cloud float64) string {
	if cloud > 70 {
		return "Very cloudy"
	}
	return "Bright Moon and clouds"
}

// RatedNight pairs a night with its weather and rating.
type RatedNight struct {
	Night   sky.NightInfo         `json:"night"`
	Weather *weather.NightWeather `json:"weather,omitempty"`
	Rating  NightRating           `json:"rating"`
}

// BestDarkNights returns up to n nights ordered by stars, then by lower
// badness, then by date. Nights without darkness are skipped.
func BestDarkNights(nights []RatedNight, n int) []RatedNight {
	var out []RatedNight
	for _, rn := range nights {
		if rn.Night.Degenerate() {
			continue
		}
		out = append(out, rn)
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].Rating, out[j].Rating
		if a.Stars != b.Stars {
			return a.Stars > b.Stars
		}
		if a.Badness != b.Badness {
			return a.Badness < b.Badness
		}
		return out[i].Night.Date.Before(out[j].Night.Date)
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}
