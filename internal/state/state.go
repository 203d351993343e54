// Package state provides thread-safe state management for the application.
package state

import (
	"fmt"
	"sync"
	"time"

	"github.com/litescript/ls-nightwatch/internal/forecast"
)

// EventType represents the type of state change event.
type EventType string

const (
	EventRunCompleted  EventType = "RUN_COMPLETED"
	EventRunFailed     EventType = "RUN_FAILED"
	EventRatingChanged EventType = "RATING_CHANGED"
	EventTopChanged    EventType = "TOP_CHANGED"
)

// Event represents a change between successive forecast runs.
type Event struct {
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	RunID     string    `json:"run_id,omitempty"`
	Date      string    `json:"date,omitempty"`
	Old       string    `json:"old,omitempty"`
	New       string    `json:"new,omitempty"`
	Message   string    `json:"message,omitempty"`
}

// HistoryEntry records one completed run.
type HistoryEntry struct {
	RunID       string        `json:"run_id"`
	GeneratedAt time.Time     `json:"generated_at"`
	Duration    time.Duration `json:"duration"`
	Nights      int           `json:"nights"`
}

// TimeSeries is a single data point with timestamp.
type TimeSeries struct {
	Timestamp time.Time `json:"timestamp"`
	Value     float64   `json:"value"`
}

// nightSummary is what event detection compares between runs.
type nightSummary struct {
	stars int
	top   string
}

// Manager holds the latest forecast and what changed across refreshes.
type Manager struct {
	mu sync.RWMutex

	// Current state
	current     *forecast.Result
	lastRun     time.Time
	lastError   error
	runDuration time.Duration

	// Previous per-night summaries for event detection
	prevNights map[string]nightSummary

	// History buffers
	history       []HistoryEntry
	maxHistoryLen int
	ratingHistory map[string][]TimeSeries
	maxRatingHist int

	// Event log (ring buffer)
	events       []Event
	maxEvents    int
	eventWriteAt int

	refreshInterval time.Duration
}

// Config holds configuration for the state manager.
type Config struct {
	MaxHistoryLen   int
	MaxRatingHist   int
	MaxEvents       int
	RefreshInterval time.Duration
}

// DefaultConfig returns sensible default configuration.
func DefaultConfig() Config {
	return Config{
		MaxHistoryLen:   48, // two days of hourly refreshes
		MaxRatingHist:   48,
		MaxEvents:       50,
		RefreshInterval: time.Hour,
	}
}

// NewManager creates a new state manager.
func NewManager(cfg Config) *Manager {
	maxEvents := cfg.MaxEvents
	if maxEvents <= 0 {
		maxEvents = 50
	}
	return &Manager{
		maxHistoryLen:   cfg.MaxHistoryLen,
		maxRatingHist:   cfg.MaxRatingHist,
		maxEvents:       maxEvents,
		events:          make([]Event, 0, maxEvents),
		refreshInterval: cfg.RefreshInterval,
		ratingHistory:   make(map[string][]TimeSeries),
		prevNights:      make(map[string]nightSummary),
	}
}

// Update atomically records the outcome of a forecast run. A failed run
// keeps the previous result and logs a RUN_FAILED event.
func (m *Manager) Update(res *forecast.Result, runDuration time.Duration, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	m.lastRun = now
	m.lastError = err
	m.runDuration = runDuration

	if err != nil {
		m.addEvent(Event{Type: EventRunFailed, Timestamp: now, Message: err.Error()})
	}
	if res == nil {
		return
	}

	m.detectEvents(res, now)
	m.current = res

	m.history = append(m.history, HistoryEntry{
		RunID:       res.RunID,
		GeneratedAt: res.GeneratedAt,
		Duration:    runDuration,
		Nights:      len(res.Nights),
	})
	if m.maxHistoryLen > 0 && len(m.history) > m.maxHistoryLen {
		m.history = m.history[1:]
	}

	m.updateRatingHistory(res)

	m.prevNights = make(map[string]nightSummary, len(res.Nights))
	for _, nf := range res.Nights {
		m.prevNights[nf.Night.Key()] = summarize(nf)
	}

	m.addEvent(Event{
		Type:      EventRunCompleted,
		Timestamp: now,
		RunID:     res.RunID,
		Message:   fmt.Sprintf("%d nights in %s", len(res.Nights), runDuration.Round(time.Millisecond)),
	})
}

func summarize(nf forecast.NightForecast) nightSummary {
	s := nightSummary{stars: nf.Rating.Stars}
	if len(nf.Scored) > 0 {
		s.top = nf.Scored[0].Object.ID
	}
	return s
}

// detectEvents compares the new run with the previous one night by night.
func (m *Manager) detectEvents(res *forecast.Result, now time.Time) {
	for _, nf := range res.Nights {
		key := nf.Night.Key()
		prev, ok := m.prevNights[key]
		if !ok {
			continue
		}
		cur := summarize(nf)

		if prev.stars != cur.stars {
			m.addEvent(Event{
				Type:      EventRatingChanged,
				Timestamp: now,
				RunID:     res.RunID,
				Date:      key,
				Old:       fmt.Sprintf("%d", prev.stars),
				New:       fmt.Sprintf("%d", cur.stars),
			})
		}
		if prev.top != cur.top {
			m.addEvent(Event{
				Type:      EventTopChanged,
				Timestamp: now,
				RunID:     res.RunID,
				Date:      key,
				Old:       prev.top,
				New:       cur.top,
			})
		}
	}
}

// addEvent adds an event to the ring buffer.
func (m *Manager) addEvent(e Event) {
	if len(m.events) < m.maxEvents {
		m.events = append(m.events, e)
	} else {
		m.events[m.eventWriteAt] = e
		m.eventWriteAt = (m.eventWriteAt + 1) % m.maxEvents
	}
}

func (m *Manager) updateRatingHistory(res *forecast.Result) {
	for _, nf := range res.Nights {
		key := nf.Night.Key()
		hist := append(m.ratingHistory[key], TimeSeries{
			Timestamp: res.GeneratedAt,
			Value:     float64(nf.Rating.Stars),
		})
		if m.maxRatingHist > 0 && len(hist) > m.maxRatingHist {
			hist = hist[1:]
		}
		m.ratingHistory[key] = hist
	}
}

// Snapshot represents an immutable snapshot of current state.
type Snapshot struct {
	Result      *forecast.Result
	LastRun     time.Time
	LastError   error
	RunDuration time.Duration
	History     []HistoryEntry
	Events      []Event
}

// Snapshot returns a consistent snapshot of current state. The result itself
// is shared and must be treated as read-only.
func (m *Manager) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	history := make([]HistoryEntry, len(m.history))
	copy(history, m.history)

	return Snapshot{
		Result:      m.current,
		LastRun:     m.lastRun,
		LastError:   m.lastError,
		RunDuration: m.runDuration,
		History:     history,
		Events:      m.getEventsOrdered(),
	}
}

// getEventsOrdered returns events in chronological order.
func (m *Manager) getEventsOrdered() []Event {
	if len(m.events) == 0 {
		return nil
	}

	if len(m.events) < m.maxEvents {
		result := make([]Event, len(m.events))
		copy(result, m.events)
		return result
	}

	// Ring buffer is full, reorder from oldest to newest
	result := make([]Event, m.maxEvents)
	for i := 0; i < m.maxEvents; i++ {
		idx := (m.eventWriteAt + i) % m.maxEvents
		result[i] = m.events[idx]
	}
	return result
}

// Events returns every retained event, oldest first.
func (m *Manager) Events() []Event {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.getEventsOrdered()
}

// RecentEvents returns the last n events.
func (m *Manager) RecentEvents(n int) []Event {
	m.mu.RLock()
	defer m.mu.RUnlock()

	all := m.getEventsOrdered()
	if len(all) <= n {
		return all
	}
	return all[len(all)-n:]
}

// RatingHistory returns the star rating of a night across runs.
func (m *Manager) RatingHistory(date string) []TimeSeries {
	m.mu.RLock()
	defer m.mu.RUnlock()

	hist := m.ratingHistory[date]
	out := make([]TimeSeries, len(hist))
	copy(out, hist)
	return out
}

// Night returns the latest forecast for a date key.
func (m *Manager) Night(date string) (forecast.NightForecast, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.current == nil {
		return forecast.NightForecast{}, false
	}
	return m.current.Night(date)
}

// RefreshInterval returns the configured refresh interval.
func (m *Manager) RefreshInterval() time.Duration {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.refreshInterval
}

// SetRefreshInterval updates the refresh interval.
func (m *Manager) SetRefreshInterval(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.refreshInterval = d
}

// HasData returns true once a forecast run has succeeded.
func (m *Manager) HasData() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current != nil
}
