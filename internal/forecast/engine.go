package forecast

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/litescript/ls-nightwatch/internal/logging"
	"github.com/litescript/ls-nightwatch/internal/rating"
	"github.com/litescript/ls-nightwatch/internal/scoring"
	"github.com/litescript/ls-nightwatch/internal/sky"
	"github.com/litescript/ls-nightwatch/internal/weather"
)

// Engine evaluates (night × object) pairs on a bounded worker pool.
type Engine struct {
	calc    *sky.Calculator
	nights  *NightCache
	weather weather.Provider
	workers int
	log     *logging.Logger
	now     func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithWeather sets the weather provider. Without one every night is scored
// with the documented no-weather defaults.
func WithWeather(p weather.Provider) Option {
	return func(e *Engine) {
		e.weather = p
	}
}

// WithWorkers bounds the number of concurrent evaluations.
func WithWorkers(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.workers = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(e *Engine) {
		e.log = l
	}
}

// WithCalculator replaces the visibility calculator.
func WithCalculator(c *sky.Calculator) Option {
	return func(e *Engine) {
		e.calc = c
	}
}

// WithNightCache shares a night envelope cache between engines.
func WithNightCache(c *NightCache) Option {
	return func(e *Engine) {
		e.nights = c
	}
}

// WithClock overrides the time source used for GeneratedAt.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// NewEngine creates an engine.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		calc:    sky.NewCalculator(),
		workers: runtime.NumCPU(),
		log:     logging.Discard(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.nights == nil {
		e.nights = NewNightCache()
	}
	return e
}

// task is the output slot of one (night, object) evaluation.
type task struct {
	vis    sky.ObjectVisibility
	scored *scoring.ScoredObject
}

// Run computes every requested night. Only invalid coordinates (observer or
// catalog) fail the run. Weather errors are logged and the affected nights
// fall back to no-weather scoring. Cancelling ctx stops new evaluations from
// being submitted; evaluations already running complete.
func (e *Engine) Run(ctx context.Context, req Request) (*Result, error) {
	if err := req.Observer.Validate(); err != nil {
		return nil, err
	}
	if req.Nights < 1 || req.Nights > MaxNights {
		return nil, fmt.Errorf("nights must be in [1, %d], got %d", MaxNights, req.Nights)
	}

	runID := uuid.NewString()
	log := e.log.With("run_id", runID)
	started := time.Now()
	log.Info("forecast started", "nights", req.Nights, "objects", len(req.Objects), "workers", e.workers)

	nights := make([]sky.NightInfo, req.Nights)
	for i := range nights {
		night, err := e.nights.Get(req.Start.AddDate(0, 0, i), req.Observer)
		if err != nil {
			return nil, fmt.Errorf("night %d: %w", i, err)
		}
		nights[i] = night
	}

	conditions := e.fetchWeather(ctx, log, nights)

	slots := make([][]task, len(nights))
	for i := range slots {
		slots[i] = make([]task, len(req.Objects))
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)

submit:
	for i := range nights {
		for j := range req.Objects {
			if gctx.Err() != nil {
				break submit
			}
			g.Go(func() error {
				obj := req.Objects[j]
				vis, err := e.calc.Visibility(obj, nights[i])
				if err != nil {
					return fmt.Errorf("object %s: %w", obj.ID, err)
				}
				slots[i][j].vis = vis
				if vis.IsVisible && req.withinMagnitude(obj, vis) {
					so := scoring.Score(obj, vis, conditions[i])
					slots[i][j].scored = &so
				}
				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		log.Warn("forecast cancelled", "error", err)
		return nil, err
	}

	res := &Result{
		RunID:       runID,
		GeneratedAt: e.now(),
		Location:    req.Observer,
		MoonModel:   req.MoonModel,
		Nights:      make([]NightForecast, len(nights)),
		ByDate:      make(map[string][]scoring.ScoredObject, len(nights)),
	}
	for i, night := range nights {
		nf := assemble(night, conditions[i].Weather, slots[i], req)
		res.Nights[i] = nf
		res.ByDate[night.Key()] = nf.Scored
		log.Debug("night assembled",
			"date", night.Key(),
			"visible", nf.VisibleCount(),
			"selected", len(nf.Scored),
			"stars", nf.Rating.Stars,
		)
	}

	log.Info("forecast complete", "nights", len(nights), "duration", time.Since(started).Round(time.Millisecond))
	return res, nil
}

// fetchWeather makes one provider call spanning every dark window and
// aggregates it per night.
func (e *Engine) fetchWeather(ctx context.Context, log *logging.Logger, nights []sky.NightInfo) []scoring.Conditions {
	conds := make([]scoring.Conditions, len(nights))
	for i, n := range nights {
		conds[i] = scoring.NewConditions(n, nil)
	}
	if e.weather == nil {
		return conds
	}

	var start, end time.Time
	for _, n := range nights {
		if n.Degenerate() {
			continue
		}
		if start.IsZero() || n.AstronomicalDusk.Before(start) {
			start = n.AstronomicalDusk
		}
		if n.AstronomicalDawn.After(end) {
			end = n.AstronomicalDawn
		}
	}
	if start.IsZero() {
		return conds
	}

	hours, err := e.weather.Hourly(ctx, nights[0].Location, start, end)
	if err != nil {
		log.Warn("weather unavailable, scoring without it", "provider", e.weather.Name(), "error", err)
		return conds
	}

	for i, n := range nights {
		if n.Degenerate() {
			continue
		}
		if w := weather.Aggregate(hours, n.AstronomicalDusk, n.AstronomicalDawn); w != nil {
			w.Date = n.Date
			conds[i].Weather = w
		}
	}
	log.Debug("weather loaded", "provider", e.weather.Name(), "hours", len(hours))
	return conds
}

func (r Request) withinMagnitude(obj sky.Object, vis sky.ObjectVisibility) bool {
	limit, ok := r.MagnitudeLimits[obj.Category]
	if !ok {
		return true
	}
	mag := vis.Magnitude
	if mag == nil {
		mag = obj.Magnitude
	}
	return mag == nil || *mag <= limit
}

func assemble(night sky.NightInfo, w *weather.NightWeather, slots []task, req Request) NightForecast {
	nf := NightForecast{
		Night:        night,
		Weather:      w,
		Rating:       rating.Rate(w, night),
		Visibilities: make(map[sky.Category][]sky.ObjectVisibility),
	}

	var scored []scoring.ScoredObject
	for _, s := range slots {
		if s.vis.IsVisible {
			nf.Visibilities[s.vis.Category] = append(nf.Visibilities[s.vis.Category], s.vis)
		}
		if s.scored != nil && s.scored.TotalScore >= req.MinScore {
			scored = append(scored, *s.scored)
		}
	}
	sortVisibilities(nf.Visibilities)

	nf.Scored = scoring.SelectBest(scored, scoring.DefaultSelection(req.MaxObjects))
	if nf.Scored == nil {
		nf.Scored = []scoring.ScoredObject{}
	}
	return nf
}
