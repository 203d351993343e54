package main

import (
	"context"
	"io"
	"os"
	"sync"
	"time"

	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/litescript/ls-nightwatch/internal/catalog"
	"github.com/litescript/ls-nightwatch/internal/config"
	"github.com/litescript/ls-nightwatch/internal/forecast"
	"github.com/litescript/ls-nightwatch/internal/logging"
	"github.com/litescript/ls-nightwatch/internal/sky"
	"github.com/litescript/ls-nightwatch/internal/state"
	"github.com/litescript/ls-nightwatch/internal/weather"
)

// app carries the loaded configuration shared by every subcommand.
type app struct {
	v          *viper.Viper
	configFile string

	cfg *config.Config
	log *logging.Logger
	now func() time.Time

	// logOutput receives structured logs. The TUI swaps it for io.Discard.
	logOutput io.Writer
}

func newApp(v *viper.Viper) *app {
	return &app{v: v, now: time.Now, logOutput: os.Stderr}
}

func (a *app) load() error {
	cfg, err := config.LoadFrom(a.v, a.configFile)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.log = logging.NewWithOutput(a.logOutput, logging.ParseLevel(cfg.Log.Level), logging.Format(cfg.Log.Format))
	a.log.Debug("configuration loaded",
		"site", cfg.Location.Name,
		"lat", cfg.Location.Latitude,
		"lon", cfg.Location.Longitude,
		"weather", cfg.Weather.Provider,
	)
	return nil
}

// objects returns the catalog to evaluate.
func (a *app) objects() ([]sky.Object, error) {
	if a.cfg.Catalog.File == "" {
		return catalog.Builtin(), nil
	}
	objs, err := catalog.LoadFile(a.cfg.Catalog.File)
	if err != nil {
		return nil, err
	}
	a.log.Info("catalog loaded", "file", a.cfg.Catalog.File, "objects", len(objs))
	return objs, nil
}

func (a *app) weatherProvider() weather.Provider {
	switch a.cfg.Weather.Provider {
	case "openmeteo":
		return weather.NewOpenMeteoClient(
			weather.WithTimeout(a.cfg.Weather.Timeout),
			weather.WithLogger(a.log),
		)
	case "file":
		return weather.NewFileProvider(a.cfg.Weather.File)
	default:
		return nil
	}
}

func (a *app) newEngine() *forecast.Engine {
	opts := []forecast.Option{
		forecast.WithWorkers(a.cfg.Forecast.Workers),
		forecast.WithLogger(a.log),
		forecast.WithNightCache(forecast.NewNightCache()),
		forecast.WithClock(a.now),
	}
	if p := a.weatherProvider(); p != nil {
		opts = append(opts, forecast.WithWeather(p))
	}
	return forecast.NewEngine(opts...)
}

func (a *app) request(start time.Time, nights int, objs []sky.Object) forecast.Request {
	return forecast.Request{
		Observer:        a.cfg.Observer(),
		Start:           start,
		Nights:          nights,
		Objects:         objs,
		MagnitudeLimits: a.cfg.Forecast.Magnitude.ByCategory(),
		MaxObjects:      a.cfg.Forecast.MaxObjects,
		MinScore:        a.cfg.Forecast.MinScore,
		MoonModel:       a.cfg.MoonModel(),
	}
}

// colorFor reports whether output to w should carry ANSI colours.
func colorFor(w io.Writer, disabled bool) bool {
	if disabled || os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// refresher recomputes the forecast into a state manager. Concurrent calls
// are serialized so a manual refresh never overlaps the periodic one.
type refresher struct {
	mu      sync.Mutex
	app     *app
	engine  *forecast.Engine
	objects []sky.Object
	mgr     *state.Manager
}

func (a *app) newRefresher(mgr *state.Manager) (*refresher, error) {
	objs, err := a.objects()
	if err != nil {
		return nil, err
	}
	return &refresher{app: a, engine: a.newEngine(), objects: objs, mgr: mgr}, nil
}

// Refresh runs one forecast starting tonight and records the outcome.
func (r *refresher) Refresh(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	start, err := r.app.cfg.StartDate(r.app.now())
	if err != nil {
		return err
	}

	began := time.Now()
	res, err := r.engine.Run(ctx, r.app.request(start, r.app.cfg.Forecast.Nights, r.objects))
	r.mgr.Update(res, time.Since(began), err)
	return err
}

// runRefreshLoop refreshes once immediately and then on every interval
// until ctx is cancelled. onUpdate, when set, sees each outcome.
func runRefreshLoop(ctx context.Context, r *refresher, interval time.Duration, onUpdate func(error), log *logging.Logger) {
	refresh := func() {
		err := r.Refresh(ctx)
		if err != nil && ctx.Err() == nil {
			log.Error("forecast refresh failed", "error", err)
		}
		if onUpdate != nil && ctx.Err() == nil {
			onUpdate(err)
		}
	}

	refresh()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			refresh()
		}
	}
}
