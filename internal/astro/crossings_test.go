package astro

import (
	"testing"
	"time"
)

func TestSampleAltitudes(t *testing.T) {
	start := time.Date(2025, 1, 10, 18, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)
	fn := func(tt time.Time) float64 { return tt.Sub(start).Minutes() }

	samples := SampleAltitudes(fn, start, end, 10*time.Minute)
	if len(samples) != 7 {
		t.Fatalf("len(samples) = %d, want 7 (inclusive of end)", len(samples))
	}
	if !samples[6].Time.Equal(end) || samples[6].AltDeg != 60 {
		t.Errorf("last sample = %+v, want end at 60°", samples[6])
	}

	if got := SampleAltitudes(fn, end, start, 10*time.Minute); got != nil {
		t.Errorf("reversed range returned %d samples, want nil", len(got))
	}
	if got := SampleAltitudes(fn, start, end, 0); got != nil {
		t.Errorf("zero step returned %d samples, want nil", len(got))
	}
}

func TestFindCrossings(t *testing.T) {
	base := time.Date(2025, 1, 10, 18, 0, 0, 0, time.UTC)
	at := func(min int) time.Time { return base.Add(time.Duration(min) * time.Minute) }

	samples := []AltitudeSample{
		{at(0), -10},
		{at(10), 10},
		{at(20), 30},
		{at(30), 10},
		{at(40), -10},
	}

	crossings := FindCrossings(samples, 0)
	if len(crossings) != 2 {
		t.Fatalf("len(crossings) = %d, want 2", len(crossings))
	}
	if !crossings[0].Rising || !crossings[0].Time.Equal(at(5)) {
		t.Errorf("first crossing = %+v, want rising at +5m", crossings[0])
	}
	if crossings[1].Rising || !crossings[1].Time.Equal(at(35)) {
		t.Errorf("second crossing = %+v, want setting at +35m", crossings[1])
	}

	rise, ok := FirstCrossing(samples, 20, true)
	if !ok || !rise.Equal(at(15)) {
		t.Errorf("FirstCrossing(20, rising) = %v, %v; want +15m", rise, ok)
	}
	if _, ok := FirstCrossing(samples, 45, true); ok {
		t.Error("FirstCrossing(45) should not find a crossing")
	}
}

func TestInterpolateCrossing(t *testing.T) {
	t1 := time.Date(2025, 1, 10, 20, 0, 0, 0, time.UTC)
	t2 := t1.Add(10 * time.Minute)

	tests := []struct {
		name      string
		alt1      float64
		alt2      float64
		threshold float64
		want      time.Time
	}{
		{"midpoint", 0, 10, 5, t1.Add(5 * time.Minute)},
		{"descending", 10, 0, 2.5, t1.Add(7*time.Minute + 30*time.Second)},
		{"flat", 5, 5, 5, t1},
		{"clamped below", 10, 20, 0, t1},
		{"clamped above", 10, 20, 30, t2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := InterpolateCrossing(t1, t2, tt.alt1, tt.alt2, tt.threshold)
			if !got.Equal(tt.want) {
				t.Errorf("InterpolateCrossing() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGetAltitudeTier(t *testing.T) {
	tests := []struct {
		alt  float64
		want AltitudeTier
	}{
		{-5, AltitudeNone},
		{0, AltitudeNone},
		{15, AltitudeLow},
		{30, AltitudeMedium},
		{59.9, AltitudeMedium},
		{60, AltitudeHigh},
		{90, AltitudeHigh},
	}

	for _, tt := range tests {
		if got := GetAltitudeTier(tt.alt); got != tt.want {
			t.Errorf("GetAltitudeTier(%v) = %v, want %v", tt.alt, got, tt.want)
		}
	}
}
