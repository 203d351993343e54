package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/litescript/ls-nightwatch/internal/astro"
)

// FileProvider serves an hourly series from a JSON file. The file holds
// either an array of hours or an object with an "hourly" array, in the same
// shape NightWeather.Hourly is exported in. Location is ignored.
type FileProvider struct {
	path string
}

// NewFileProvider returns a provider reading path on each call.
func NewFileProvider(path string) *FileProvider {
	return &FileProvider{path: path}
}

// Name returns the provider name.
func (p *FileProvider) Name() string {
	return "file"
}

// Night aggregates the file's hours for one dark window.
func (p *FileProvider) Night(ctx context.Context, obs astro.Observer, date, dusk, dawn time.Time) (*NightWeather, error) {
	return Night(ctx, p, obs, date, dusk, dawn)
}

// Hourly returns the hours in [start, end], sorted by time.
func (p *FileProvider) Hourly(_ context.Context, _ astro.Observer, start, end time.Time) ([]Hour, error) {
	hours, err := ReadHours(p.path)
	if err != nil {
		return nil, err
	}
	var out []Hour
	for _, h := range hours {
		if h.Time.Before(start) || h.Time.After(end) {
			continue
		}
		out = append(out, h)
	}
	return out, nil
}

// ReadHours loads every hour from a weather JSON file.
func ReadHours(path string) ([]Hour, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading weather file: %w", err)
	}

	var hours []Hour
	if err := json.Unmarshal(data, &hours); err != nil {
		var wrapped struct {
			Hourly []Hour `json:"hourly"`
		}
		if err2 := json.Unmarshal(data, &wrapped); err2 != nil {
			return nil, fmt.Errorf("parsing weather file %s: %w", path, err)
		}
		hours = wrapped.Hourly
	}

	sort.Slice(hours, func(i, j int) bool { return hours[i].Time.Before(hours[j].Time) })
	return hours, nil
}
