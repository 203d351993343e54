package astro

import (
	"math"
	"time"
)

// AltitudeSample is a single altitude reading at an instant.
type AltitudeSample struct {
	Time   time.Time
	AltDeg float64
}

// Crossing is an interpolated threshold crossing between two samples.
type Crossing struct {
	Time   time.Time
	Rising bool // true when altitude goes from below to at/above the threshold
}

// AltitudeFunc returns an altitude in degrees at an instant.
type AltitudeFunc func(time.Time) float64

// SampleAltitudes evaluates fn from start to end inclusive at the given step.
// It returns nil when end is before start or step is not positive.
func SampleAltitudes(fn AltitudeFunc, start, end time.Time, step time.Duration) []AltitudeSample {
	if step <= 0 || end.Before(start) {
		return nil
	}
	n := int(end.Sub(start)/step) + 1
	samples := make([]AltitudeSample, 0, n)
	for t := start; !t.After(end); t = t.Add(step) {
		samples = append(samples, AltitudeSample{Time: t, AltDeg: fn(t)})
	}
	return samples
}

// FindCrossings returns every interpolated crossing of threshold in a
// chronologically ordered sample series.
func FindCrossings(samples []AltitudeSample, threshold float64) []Crossing {
	var out []Crossing
	for i := 1; i < len(samples); i++ {
		prev, curr := samples[i-1], samples[i]
		switch {
		case prev.AltDeg < threshold && curr.AltDeg >= threshold:
			out = append(out, Crossing{
				Time:   InterpolateCrossing(prev.Time, curr.Time, prev.AltDeg, curr.AltDeg, threshold),
				Rising: true,
			})
		case prev.AltDeg >= threshold && curr.AltDeg < threshold:
			out = append(out, Crossing{
				Time:   InterpolateCrossing(prev.Time, curr.Time, prev.AltDeg, curr.AltDeg, threshold),
				Rising: false,
			})
		}
	}
	return out
}

// FirstCrossing returns the first crossing in the requested direction.
func FirstCrossing(samples []AltitudeSample, threshold float64, rising bool) (time.Time, bool) {
	for _, c := range FindCrossings(samples, threshold) {
		if c.Rising == rising {
			return c.Time, true
		}
	}
	return time.Time{}, false
}

// InterpolateCrossing finds the time when altitude crosses a threshold
// between two samples, by linear interpolation.
func InterpolateCrossing(t1, t2 time.Time, alt1, alt2, threshold float64) time.Time {
	if math.Abs(alt2-alt1) < 0.0001 {
		return t1
	}

	fraction := (threshold - alt1) / (alt2 - alt1)
	if fraction < 0 {
		fraction = 0
	} else if fraction > 1 {
		fraction = 1
	}

	dt := t2.Sub(t1)
	return t1.Add(time.Duration(float64(dt) * fraction))
}

// AltitudeTier categorizes altitude for display.
type AltitudeTier int

const (
	AltitudeNone   AltitudeTier = iota // Below horizon
	AltitudeLow                        // 0-30 degrees
	AltitudeMedium                     // 30-60 degrees
	AltitudeHigh                       // 60+ degrees
)

// GetAltitudeTier returns the tier for a given altitude.
func GetAltitudeTier(altDeg float64) AltitudeTier {
	switch {
	case altDeg <= 0:
		return AltitudeNone
	case altDeg < 30:
		return AltitudeLow
	case altDeg < 60:
		return AltitudeMedium
	default:
		return AltitudeHigh
	}
}
