package weather

import (
	"math"
	"sort"
	"time"
)

const (
	// ClearHourCloud is the cloud cover below which an hour counts as clear.
	ClearHourCloud = 20.0

	// ClearWindowCloud and ClearWindowMinHours define a sustained clear window.
	ClearWindowCloud    = 40.0
	ClearWindowMinHours = 2

	// pressureTrendHPa is the change across the night that counts as a trend.
	pressureTrendHPa = 2.0

	// hourTolerance is how far from a bucket's timestamp HourAt still matches.
	hourTolerance = 30 * time.Minute
)

// Aggregate summarizes the hours that fall within [dusk, dawn]. It returns nil
// when no hour falls inside the window.
func Aggregate(hours []Hour, dusk, dawn time.Time) *NightWeather {
	var night []Hour
	for _, h := range hours {
		if h.Time.Before(dusk) || h.Time.After(dawn) {
			continue
		}
		night = append(night, h)
	}
	if len(night) == 0 {
		return nil
	}
	sort.Slice(night, func(i, j int) bool { return night[i].Time.Before(night[j].Time) })

	w := &NightWeather{
		MinCloudCover: math.Inf(1),
		MaxCloudCover: math.Inf(-1),
		Hourly:        night,
	}

	var cloudSum float64
	var wind, humidity, temp, aod, pm25, pm10 mean
	for _, h := range night {
		cloudSum += h.CloudCover
		w.MinCloudCover = math.Min(w.MinCloudCover, h.CloudCover)
		w.MaxCloudCover = math.Max(w.MaxCloudCover, h.CloudCover)
		if h.CloudCover < ClearHourCloud {
			w.ClearDurationHours++
		}

		wind.add(h.WindSpeedKmh)
		humidity.add(h.HumidityPct)
		temp.add(h.TemperatureC)
		aod.add(h.AOD)
		pm25.add(h.PM25)
		pm10.add(h.PM10)

		w.MaxWindGustKmh = maxPtr(w.MaxWindGustKmh, h.WindGustKmh)
		w.MaxPrecipProbability = maxPtr(w.MaxPrecipProbability, h.PrecipProbability)
		if h.TemperatureC != nil && h.DewPointC != nil {
			margin := *h.TemperatureC - *h.DewPointC
			w.MinDewMarginC = minPtr(w.MinDewMarginC, &margin)
		}
	}

	w.AvgCloudCover = cloudSum / float64(len(night))
	w.AvgWindSpeedKmh = wind.value()
	w.AvgHumidity = humidity.value()
	w.AvgTemperatureC = temp.value()
	w.AvgAOD = aod.value()
	w.AvgPM25 = pm25.value()
	w.AvgPM10 = pm10.value()
	w.TransparencyScore = Transparency(w.AvgHumidity, w.AvgAOD, w.AvgPM25)
	w.PressureTrend = pressureTrend(night)
	w.ClearWindows = findClearWindows(night)

	return w
}

// HourAt returns the hourly bucket nearest to t, if one lies within half an
// hour of it.
func (w *NightWeather) HourAt(t time.Time) (Hour, bool) {
	if w == nil {
		return Hour{}, false
	}
	best := -1
	var bestDelta time.Duration
	for i, h := range w.Hourly {
		d := h.Time.Sub(t)
		if d < 0 {
			d = -d
		}
		if d <= hourTolerance && (best < 0 || d < bestDelta) {
			best, bestDelta = i, d
		}
	}
	if best < 0 {
		return Hour{}, false
	}
	return w.Hourly[best], true
}

// CloudCoverAt returns the hourly cloud cover near t, or the nightly average.
func (w *NightWeather) CloudCoverAt(t time.Time) float64 {
	if h, ok := w.HourAt(t); ok {
		return h.CloudCover
	}
	return w.AvgCloudCover
}

// Transparency estimates sky transparency (0-100) from humidity, aerosol
// optical depth and fine particulates. It returns nil when none is known.
func Transparency(humidity, aod, pm25 *float64) *float64 {
	if humidity == nil && aod == nil && pm25 == nil {
		return nil
	}
	score := 100.0
	if humidity != nil && *humidity > 50 {
		score -= (*humidity - 50) * 1.2
	}
	if aod != nil {
		score -= *aod * 80
	}
	if pm25 != nil {
		score -= *pm25 / 2
	}
	score = math.Max(0, math.Min(100, score))
	return &score
}

// CloudDescription returns a short label for an average cloud cover.
func CloudDescription(avg float64) string {
	switch {
	case avg < 10:
		return "Clear"
	case avg < 25:
		return "Mostly clear"
	case avg < 50:
		return "Partly cloudy"
	case avg < 75:
		return "Mostly cloudy"
	default:
		return "Overcast"
	}
}

func findClearWindows(hours []Hour) []ClearWindow {
	windows := []ClearWindow{}
	start := -1
	flush := func(end int) {
		if start < 0 || end-start+1 < ClearWindowMinHours {
			return
		}
		var sum float64
		for _, h := range hours[start : end+1] {
			sum += h.CloudCover
		}
		windows = append(windows, ClearWindow{
			Start:         hours[start].Time,
			End:           hours[end].Time,
			AvgCloudCover: sum / float64(end-start+1),
		})
	}

	for i, h := range hours {
		if h.CloudCover < ClearWindowCloud {
			if start < 0 {
				start = i
			}
			continue
		}
		flush(i - 1)
		start = -1
	}
	flush(len(hours) - 1)
	return windows
}

func pressureTrend(hours []Hour) PressureTrend {
	var first, last *float64
	for _, h := range hours {
		if h.PressureHPa == nil {
			continue
		}
		if first == nil {
			first = h.PressureHPa
		}
		last = h.PressureHPa
	}
	if first == nil {
		return PressureUnknown
	}
	switch d := *last - *first; {
	case d > pressureTrendHPa:
		return PressureRising
	case d < -pressureTrendHPa:
		return PressureFalling
	default:
		return PressureSteady
	}
}

type mean struct {
	sum float64
	n   int
}

func (m *mean) add(v *float64) {
	if v == nil {
		return
	}
	m.sum += *v
	m.n++
}

func (m mean) value() *float64 {
	if m.n == 0 {
		return nil
	}
	v := m.sum / float64(m.n)
	return &v
}

func maxPtr(cur, v *float64) *float64 {
	if v == nil {
		return cur
	}
	if cur == nil || *v > *cur {
		x := *v
		return &x
	}
	return cur
}

func minPtr(cur, v *float64) *float64 {
	if v == nil {
		return cur
	}
	if cur == nil || *v < *cur {
		x := *v
		return &x
	}
	return cur
}
