// Package imaging finds stretches of the night when an object is worth
// pointing a camera at.
package imaging

import (
	"math"
	"sort"
	"time"

	"github.com/litescript/ls-nightwatch/internal/astro"
	"github.com/litescript/ls-nightwatch/internal/sky"
	"github.com/litescript/ls-nightwatch/internal/weather"
)

const (
	// MinAltitude is the lowest altitude a sample is scored at.
	MinAltitude = 20.0

	// AcceptableScore is the point score a window must hold throughout.
	AcceptableScore = 50.0

	// MinDuration is the shortest window reported.
	MinDuration = 30 * time.Minute

	// UnknownCloudCover is assumed for every point when the night has no
	// weather data.
	UnknownCloudCover = 30.0
)

// Quality labels a window by its score.
type Quality string

const (
	QualityExcellent  Quality = "excellent"
	QualityGood       Quality = "good"
	QualityAcceptable Quality = "acceptable"
	QualityPoor       Quality = "poor"
)

// QualityFor returns the label for a 0-100 score.
func QualityFor(score float64) Quality {
	switch {
	case score >= 85:
		return QualityExcellent
	case score >= 70:
		return QualityGood
	case score >= AcceptableScore:
		return QualityAcceptable
	}
	return QualityPoor
}

// Factors are the four equally weighted 0-100 sub-scores of a point.
type Factors struct {
	Altitude float64 `json:"altitude"`
	Airmass  float64 `json:"airmass"`
	Moon     float64 `json:"moon"`
	Cloud    float64 `json:"cloud"`
}

// Score is the mean of the four factors.
func (f Factors) Score() float64 {
	return (f.Altitude + f.Airmass + f.Moon + f.Cloud) / 4
}

// Point is one scored altitude sample.
type Point struct {
	Time    time.Time `json:"time"`
	AltDeg  float64   `json:"alt_deg"`
	Factors Factors   `json:"factors"`
	Score   float64   `json:"score"`
}

// Window is a run of consecutive acceptable points. Score is the best point
// score in the run, so a cloudier sky can only lower it. MeanScore and
// Factors average over the run, so Factors.Score() equals MeanScore rather
// than Score.
type Window struct {
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
	Score     float64   `json:"score"`
	MeanScore float64   `json:"mean_score"`
	Quality   Quality   `json:"quality"`
	Factors   Factors   `json:"factors"`

	PeakAltitude float64 `json:"peak_altitude"`
	Points       int     `json:"points"`
}

// Duration returns End - Start.
func (w Window) Duration() time.Duration {
	return w.End.Sub(w.Start)
}

// AltitudeQuality rates object altitude, 0-100.
func AltitudeQuality(altDeg float64) float64 {
	switch {
	case altDeg < 20:
		return 0
	case altDeg < 30:
		return 30
	case altDeg < 45:
		return 50
	case altDeg < 60:
		return 70
	case altDeg < 75:
		return 85
	}
	return 100
}

// AirmassQuality rates the atmospheric path at altDeg, 0-100.
func AirmassQuality(altDeg float64) float64 {
	if altDeg <= 0 {
		return 0
	}
	switch x := astro.Airmass(altDeg); {
	case x <= 1.1:
		return 100
	case x <= 1.3:
		return 90
	case x <= 1.5:
		return 75
	case x <= 2.0:
		return 50
	case x <= 3.0:
		return 25
	}
	return 0
}

// MoonQuality rates moonlight at one instant, 0-100. A Moon below the
// horizon costs nothing; a thin Moon costs little; otherwise separation
// and illumination share the score 60/40.
func MoonQuality(moonAltDeg, illuminationPct float64, sep *float64) float64 {
	if moonAltDeg <= 0 {
		return 100
	}
	if illuminationPct < 20 {
		return 95
	}
	if sep == nil {
		return 50
	}
	sepFactor := math.Min(*sep/90, 1)
	illumFactor := 1 - illuminationPct/100
	return math.Round((sepFactor*0.6 + illumFactor*0.4) * 100)
}

// CloudQuality rates cloud cover, 0-100.
func CloudQuality(cloudPct float64) float64 {
	switch {
	case cloudPct <= 10:
		return 100
	case cloudPct <= 20:
		return 90
	case cloudPct <= 30:
		return 75
	case cloudPct <= 50:
		return 50
	case cloudPct <= 70:
		return 25
	}
	return 0
}

// PointScore scores one instant from its object altitude, Moon altitude,
// Moon illumination, object-Moon separation and cloud cover.
func PointScore(altDeg, moonAltDeg, illuminationPct float64, sep *float64, cloudPct float64) Factors {
	return Factors{
		Altitude: AltitudeQuality(altDeg),
		Airmass:  AirmassQuality(altDeg),
		Moon:     MoonQuality(moonAltDeg, illuminationPct, sep),
		Cloud:    CloudQuality(cloudPct),
	}
}

type options struct {
	moonModel sky.MoonModel
}

// Option configures ComputeWindows.
type Option func(*options)

// WithMoonModel selects how Moon altitude is derived at each point.
func WithMoonModel(m sky.MoonModel) Option {
	return func(o *options) {
		o.moonModel = m
	}
}

// Points scores every visibility sample at or above MinAltitude.
func Points(vis sky.ObjectVisibility, night sky.NightInfo, w *weather.NightWeather, opts ...Option) []Point {
	o := options{moonModel: sky.MoonEstimate}
	for _, opt := range opts {
		opt(&o)
	}
	moonAlt := sky.MoonAltitudeFunc(o.moonModel, night)

	points := make([]Point, 0, len(vis.Samples))
	for _, s := range vis.Samples {
		if s.AltDeg < MinAltitude {
			continue
		}
		cloud := UnknownCloudCover
		if w != nil {
			cloud = w.CloudCoverAt(s.Time)
		}
		f := PointScore(s.AltDeg, moonAlt(s.Time), night.MoonIllumination, vis.MoonSeparation, cloud)
		points = append(points, Point{Time: s.Time, AltDeg: s.AltDeg, Factors: f, Score: f.Score()})
	}
	return points
}

// ComputeWindows merges runs of acceptable points into windows of at least
// MinDuration, sorted by descending score. A sample below MinAltitude or a
// gap in the track ends a run.
func ComputeWindows(vis sky.ObjectVisibility, night sky.NightInfo, w *weather.NightWeather, opts ...Option) []Window {
	points := Points(vis, night, w, opts...)

	var windows []Window
	var run []Point
	flush := func() {
		if win, ok := merge(run); ok {
			windows = append(windows, win)
		}
		run = run[:0]
	}

	var prev time.Time
	step := sampleStep(vis.Samples)
	for _, p := range points {
		contiguous := len(run) == 0 || p.Time.Sub(prev) <= step
		if p.Score < AcceptableScore || !contiguous {
			flush()
		}
		if p.Score >= AcceptableScore {
			run = append(run, p)
		}
		prev = p.Time
	}
	flush()

	sort.SliceStable(windows, func(i, j int) bool {
		if windows[i].Score != windows[j].Score {
			return windows[i].Score > windows[j].Score
		}
		if windows[i].MeanScore != windows[j].MeanScore {
			return windows[i].MeanScore > windows[j].MeanScore
		}
		return windows[i].Start.Before(windows[j].Start)
	})
	return windows
}

// BestWindow returns the highest-scoring window, or nil.
func BestWindow(windows []Window) *Window {
	if len(windows) == 0 {
		return nil
	}
	best := windows[0]
	return &best
}

func merge(run []Point) (Window, bool) {
	if len(run) == 0 {
		return Window{}, false
	}
	win := Window{Start: run[0].Time, End: run[len(run)-1].Time, Points: len(run)}
	if win.Duration() < MinDuration {
		return Window{}, false
	}

	var sum Factors
	var total float64
	for _, p := range run {
		sum.Altitude += p.Factors.Altitude
		sum.Airmass += p.Factors.Airmass
		sum.Moon += p.Factors.Moon
		sum.Cloud += p.Factors.Cloud
		total += p.Score
		win.Score = math.Max(win.Score, p.Score)
		win.PeakAltitude = math.Max(win.PeakAltitude, p.AltDeg)
	}
	n := float64(len(run))
	win.Factors = Factors{
		Altitude: clampPercent(sum.Altitude / n),
		Airmass:  clampPercent(sum.Airmass / n),
		Moon:     clampPercent(sum.Moon / n),
		Cloud:    clampPercent(sum.Cloud / n),
	}
	win.MeanScore = clampPercent(total / n)
	win.Quality = QualityFor(win.Score)
	return win, true
}

func clampPercent(x float64) float64 {
	return math.Min(100, math.Max(0, x))
}

// sampleStep returns the spacing of the visibility track, allowing for
// rounding in the sample times.
func sampleStep(samples []sky.Sample) time.Duration {
	if len(samples) < 2 {
		return sky.VisibilitySampleStep + time.Second
	}
	return samples[1].Time.Sub(samples[0].Time) + time.Second
}
