package state

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/litescript/ls-nightwatch/internal/forecast"
	"github.com/litescript/ls-nightwatch/internal/rating"
	"github.com/litescript/ls-nightwatch/internal/scoring"
	"github.com/litescript/ls-nightwatch/internal/sky"
)

var base = time.Date(2025, 9, 15, 0, 0, 0, 0, time.UTC)

// nightResult builds a result whose night i has stars[i] and top object tops[i].
func nightResult(runID string, stars []int, tops []string) *forecast.Result {
	res := &forecast.Result{
		RunID:       runID,
		GeneratedAt: time.Now(),
		ByDate:      map[string][]scoring.ScoredObject{},
	}
	for i := range stars {
		nf := forecast.NightForecast{
			Night:  sky.NightInfo{Date: base.AddDate(0, 0, i)},
			Rating: rating.NightRating{Stars: stars[i]},
		}
		if tops[i] != "" {
			nf.Scored = []scoring.ScoredObject{{Object: sky.Object{ID: tops[i]}}}
		}
		res.Nights = append(res.Nights, nf)
		res.ByDate[nf.Night.Key()] = nf.Scored
	}
	return res
}

func countEvents(events []Event, typ EventType) int {
	n := 0
	for _, e := range events {
		if e.Type == typ {
			n++
		}
	}
	return n
}

func TestNewManager(t *testing.T) {
	cfg := DefaultConfig()
	m := NewManager(cfg)

	if m == nil {
		t.Fatal("NewManager returned nil")
	}
	if m.RefreshInterval() != cfg.RefreshInterval {
		t.Errorf("RefreshInterval = %v, want %v", m.RefreshInterval(), cfg.RefreshInterval)
	}
	if m.HasData() {
		t.Error("HasData should be false initially")
	}
	if _, ok := m.Night("2025-09-15"); ok {
		t.Error("Night should miss before any run")
	}
}

func TestManager_Update(t *testing.T) {
	m := NewManager(DefaultConfig())
	res := nightResult("run-1", []int{4, 2}, []string{"M31", "M45"})

	m.Update(res, 100*time.Millisecond, nil)

	if !m.HasData() {
		t.Error("HasData should be true after Update")
	}

	snap := m.Snapshot()
	if snap.Result != res {
		t.Error("Snapshot Result doesn't match")
	}
	if snap.RunDuration != 100*time.Millisecond {
		t.Errorf("RunDuration = %v, want 100ms", snap.RunDuration)
	}
	if snap.LastError != nil {
		t.Errorf("LastError = %v, want nil", snap.LastError)
	}
	if len(snap.History) != 1 || snap.History[0].RunID != "run-1" || snap.History[0].Nights != 2 {
		t.Errorf("History = %+v, want one entry for run-1 with 2 nights", snap.History)
	}

	nf, ok := m.Night("2025-09-16")
	if !ok {
		t.Fatal("Night(2025-09-16) not found")
	}
	if nf.Rating.Stars != 2 {
		t.Errorf("Stars = %d, want 2", nf.Rating.Stars)
	}
}

func TestManager_UpdateWithError(t *testing.T) {
	m := NewManager(DefaultConfig())
	prev := nightResult("run-1", []int{3}, []string{"M13"})
	m.Update(prev, 0, nil)

	runErr := errors.New("weather fetch failed")
	m.Update(nil, 50*time.Millisecond, runErr)

	snap := m.Snapshot()
	if snap.Result != prev {
		t.Error("a failed run should keep the previous result")
	}
	if snap.LastError != runErr {
		t.Errorf("LastError = %v, want %v", snap.LastError, runErr)
	}
	if n := countEvents(snap.Events, EventRunFailed); n != 1 {
		t.Errorf("RUN_FAILED events = %d, want 1", n)
	}
}

func TestManager_HistoryBuffer(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxHistoryLen = 3
	m := NewManager(cfg)

	for i := 0; i < 5; i++ {
		m.Update(nightResult("run", []int{3}, []string{"M31"}), 0, nil)
	}

	if got := len(m.Snapshot().History); got != 3 {
		t.Errorf("history length = %d, want 3", got)
	}
}

func TestManager_RatingHistory(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxRatingHist = 5
	m := NewManager(cfg)

	for i := 0; i < 10; i++ {
		m.Update(nightResult("run", []int{1 + i%5}, []string{"M31"}), 0, nil)
	}

	hist := m.RatingHistory("2025-09-15")
	if len(hist) != 5 {
		t.Fatalf("RatingHistory length = %d, want 5", len(hist))
	}
	// Runs 5..9 remain: stars 1..5.
	if hist[0].Value != 1 || hist[4].Value != 5 {
		t.Errorf("RatingHistory = %v, want 1..5", hist)
	}

	hist[0].Value = 99
	if m.RatingHistory("2025-09-15")[0].Value == 99 {
		t.Error("RatingHistory returned shared storage")
	}
	if len(m.RatingHistory("2030-01-01")) != 0 {
		t.Error("unknown date should have empty history")
	}
}

func TestManager_EventDetection(t *testing.T) {
	m := NewManager(DefaultConfig())

	m.Update(nightResult("run-1", []int{4, 3, 2}, []string{"M31", "M45", "M13"}), 0, nil)
	events := m.RecentEvents(10)
	if len(events) != 1 || events[0].Type != EventRunCompleted {
		t.Fatalf("first run events = %+v, want a single RUN_COMPLETED", events)
	}
	if events[0].RunID != "run-1" {
		t.Errorf("RunID = %q, want run-1", events[0].RunID)
	}

	// Night 1 rating drops, night 2 gets a new top object, night 3 unchanged.
	m.Update(nightResult("run-2", []int{2, 3, 2}, []string{"M31", "jupiter", "M13"}), 0, nil)

	var ratingEv, topEv *Event
	for _, e := range m.Events() {
		switch e.Type {
		case EventRatingChanged:
			ratingEv = &e
		case EventTopChanged:
			topEv = &e
		}
	}

	if ratingEv == nil {
		t.Fatal("no RATING_CHANGED event found")
	}
	if ratingEv.Date != "2025-09-15" || ratingEv.Old != "4" || ratingEv.New != "2" {
		t.Errorf("rating event = %+v, want 2025-09-15 4 -> 2", *ratingEv)
	}

	if topEv == nil {
		t.Fatal("no TOP_CHANGED event found")
	}
	if topEv.Date != "2025-09-16" || topEv.Old != "M45" || topEv.New != "jupiter" {
		t.Errorf("top event = %+v, want 2025-09-16 M45 -> jupiter", *topEv)
	}

	all := m.Events()
	if n := countEvents(all, EventRatingChanged) + countEvents(all, EventTopChanged); n != 2 {
		t.Errorf("change events = %d, want 2", n)
	}
}

func TestManager_EventRingBuffer(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxEvents = 3
	m := NewManager(cfg)

	ids := []string{"a", "b", "c", "d", "e"}
	for _, id := range ids {
		m.Update(nightResult(id, []int{3}, []string{"M31"}), 0, nil)
	}

	events := m.Events()
	if len(events) != 3 {
		t.Fatalf("events = %d, want 3", len(events))
	}
	for i, want := range []string{"c", "d", "e"} {
		if events[i].RunID != want {
			t.Errorf("events[%d].RunID = %q, want %q", i, events[i].RunID, want)
		}
	}

	recent := m.RecentEvents(2)
	if len(recent) != 2 || recent[1].RunID != "e" {
		t.Errorf("RecentEvents(2) = %+v, want last two", recent)
	}
}

func TestManager_ConcurrentAccess(t *testing.T) {
	m := NewManager(DefaultConfig())

	var wg sync.WaitGroup
	iterations := 100

	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < iterations; i++ {
			m.Update(nightResult("run", []int{1 + i%5, 3}, []string{"M31", "M45"}), time.Duration(i)*time.Millisecond, nil)
		}
	}()

	for r := 0; r < 5; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < iterations; i++ {
				_ = m.Snapshot()
				_ = m.HasData()
				_ = m.RefreshInterval()
				_ = m.RatingHistory("2025-09-15")
				_, _ = m.Night("2025-09-16")
			}
		}()
	}

	wg.Wait()
}

func TestManager_SetRefreshInterval(t *testing.T) {
	m := NewManager(DefaultConfig())

	newInterval := 30 * time.Minute
	m.SetRefreshInterval(newInterval)

	if m.RefreshInterval() != newInterval {
		t.Errorf("RefreshInterval = %v, want %v", m.RefreshInterval(), newInterval)
	}
}
