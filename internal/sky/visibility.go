package sky

import (
	"math"
	"time"

	"github.com/litescript/ls-nightwatch/internal/astro"
	"github.com/litescript/ls-nightwatch/internal/ephem"
)

const (
	// VisibilitySampleStep is the cadence of the per-object altitude track.
	VisibilitySampleStep = 10 * time.Minute

	// VisibleAltitude is the peak altitude an object must reach to count as visible.
	VisibleAltitude = 30.0

	// MoonWarningSeparation flags objects closer than this to the Moon at peak.
	MoonWarningSeparation = 30.0
)

// Thresholds are the altitudes whose first/last crossing times are tracked.
var Thresholds = [3]float64{45, 60, 75}

// SampleTimes returns start, start+step, ... and always ends on end itself,
// so the last partial step before dawn is still sampled.
// It returns nil when end is not after start or step is not positive.
func SampleTimes(start, end time.Time, step time.Duration) []time.Time {
	if step <= 0 || !end.After(start) {
		return nil
	}
	times := make([]time.Time, 0, int(end.Sub(start)/step)+2)
	for t := start; !t.After(end); t = t.Add(step) {
		times = append(times, t)
	}
	if last := times[len(times)-1]; last.Before(end) {
		times = append(times, end)
	}
	return times
}

// Calculator computes visibility against an ephemeris provider.
type Calculator struct {
	provider ephem.Provider
	step     time.Duration
}

// Option configures a Calculator.
type Option func(*Calculator)

// WithProvider sets the ephemeris provider.
func WithProvider(p ephem.Provider) Option {
	return func(c *Calculator) {
		c.provider = p
	}
}

// WithStep sets the altitude sampling cadence.
func WithStep(d time.Duration) Option {
	return func(c *Calculator) {
		c.step = d
	}
}

// NewCalculator creates a calculator backed by the builtin ephemeris unless
// another provider is given.
func NewCalculator(opts ...Option) *Calculator {
	c := &Calculator{
		provider: ephem.NewBuiltin(),
		step:     VisibilitySampleStep,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Provider returns the calculator's ephemeris provider.
func (c *Calculator) Provider() ephem.Provider {
	return c.provider
}

var defaultCalculator = NewCalculator()

// ComputeVisibility samples obj across the dark window of night using the
// builtin ephemeris.
func ComputeVisibility(obj Object, night NightInfo) (ObjectVisibility, error) {
	return defaultCalculator.Visibility(obj, night)
}

// Visibility samples obj from astronomical dusk to dawn inclusive and folds
// the track into an ObjectVisibility. A degenerate night yields an empty track
// and an invisible result, not an error. Only malformed coordinates fail.
func (c *Calculator) Visibility(obj Object, night NightInfo) (ObjectVisibility, error) {
	if err := obj.Target.Validate(); err != nil {
		return ObjectVisibility{}, err
	}
	if err := night.Location.Validate(); err != nil {
		return ObjectVisibility{}, err
	}

	vis := ObjectVisibility{
		ObjectID:          obj.ID,
		ObjectName:        obj.DisplayName(),
		Category:          obj.Category,
		Subtype:           obj.Subtype,
		Magnitude:         obj.Magnitude,
		AngularSizeArcmin: obj.AngularSizeArcmin,
		Samples:           []Sample{},
	}

	ref := night.Date.Add(24 * time.Hour)
	if night.Degenerate() {
		c.resolveApparent(&vis, obj, ref)
		return vis, nil
	}

	for _, t := range SampleTimes(night.AstronomicalDusk, night.AstronomicalDawn, c.step) {
		pos, err := c.provider.Position(obj.Target, night.Location, t)
		if err != nil {
			return ObjectVisibility{}, err
		}
		vis.Samples = append(vis.Samples, Sample{Time: t, AltDeg: pos.ElDeg, AzDeg: pos.AzDeg})
	}

	acc := foldSamples(vis.Samples)
	if acc.peak < 0 {
		c.resolveApparent(&vis, obj, ref)
		return vis, nil
	}

	peak := vis.Samples[acc.peak]
	vis.MaxAltitude = peak.AltDeg
	vis.MaxAltitudeTime = timePtr(peak.Time)
	vis.AzimuthAtPeak = peak.AzDeg
	vis.IsVisible = vis.MaxAltitude >= VisibleAltitude
	vis.Above45 = acc.window(vis.Samples, 0)
	vis.Above60 = acc.window(vis.Samples, 1)
	vis.Above75 = acc.window(vis.Samples, 2)
	if vis.MaxAltitude > 0 {
		vis.MinAirmass = floatPtr(astro.Airmass(vis.MaxAltitude))
	}

	c.resolveApparent(&vis, obj, peak.Time)

	if vis.IsVisible {
		moon := astro.MoonTopocentric(night.Location, peak.Time)
		sep := astro.AngularSeparation(vis.RAdeg, vis.DecDeg, moon.RAdeg, moon.DecDeg)
		vis.MoonSeparation = floatPtr(sep)
		vis.MoonWarning = sep < MoonWarningSeparation
	}

	return vis, nil
}

// resolveApparent fills the equatorial position at t and, for solar-system
// targets, the magnitude and angular size at t.
func (c *Calculator) resolveApparent(vis *ObjectVisibility, obj Object, t time.Time) {
	if eq, err := ephem.EquatorialAt(obj.Target, t); err == nil {
		vis.RAdeg, vis.DecDeg = eq.RAdeg, eq.DecDeg
	}

	switch obj.Target.Kind {
	case ephem.KindPlanet, ephem.KindSmallBody, ephem.KindMoon:
	default:
		return
	}

	app := c.provider.Apparent(obj.Target, t)
	if m := floatPtr(app.Magnitude); m != nil {
		vis.Magnitude = m
	}
	if d := floatPtr(app.DiameterArcsec / 60); d != nil {
		vis.AngularSizeArcmin = d
	}
}

// visibilityFold is the running state of the altitude fold. Indices are -1
// until set.
type visibilityFold struct {
	peak   int
	maxAlt float64
	first  [3]int
	last   [3]int
}

func foldSamples(samples []Sample) visibilityFold {
	acc := visibilityFold{
		peak:   -1,
		maxAlt: math.Inf(-1),
		first:  [3]int{-1, -1, -1},
		last:   [3]int{-1, -1, -1},
	}
	for i, s := range samples {
		acc = acc.step(i, s)
	}
	return acc
}

// step folds one sample. Ties keep the earliest peak.
func (f visibilityFold) step(i int, s Sample) visibilityFold {
	if s.AltDeg > f.maxAlt {
		f.maxAlt = s.AltDeg
		f.peak = i
	}
	for k, thr := range Thresholds {
		if s.AltDeg < thr {
			continue
		}
		if f.first[k] < 0 {
			f.first[k] = i
		}
		f.last[k] = i
	}
	return f
}

func (f visibilityFold) window(samples []Sample, k int) *Window {
	if f.first[k] < 0 {
		return nil
	}
	return &Window{Start: samples[f.first[k]].Time, End: samples[f.last[k]].Time}
}
