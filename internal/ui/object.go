package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-nightwatch/internal/forecast"
	"github.com/litescript/ls-nightwatch/internal/imaging"
	"github.com/litescript/ls-nightwatch/internal/scoring"
)

var qualityColors = map[imaging.Quality]lipgloss.Color{
	imaging.QualityExcellent:  lipgloss.Color("#7CFC00"),
	imaging.QualityGood:       lipgloss.Color("#4FC3F7"),
	imaging.QualityAcceptable: lipgloss.Color("#FFD700"),
	imaging.QualityPoor:       lipgloss.Color("244"),
}

// ObjectModel shows the detail of one object on one night: altitude track,
// score breakdown and imaging windows.
type ObjectModel struct {
	width  int
	height int

	date     string
	objectID string

	night   forecast.NightForecast
	scored  scoring.ScoredObject
	windows []imaging.Window
	found   bool
}

// NewObjectModel creates an empty object view.
func NewObjectModel() ObjectModel {
	return ObjectModel{}
}

// SetSize updates the viewport size.
func (m ObjectModel) SetSize(width, height int) ObjectModel {
	m.width = width
	m.height = height
	return m
}

// SetObject switches to an object on a night.
func (m ObjectModel) SetObject(date, objectID string, res *forecast.Result) ObjectModel {
	m.date = date
	m.objectID = objectID
	return m.UpdateData(res)
}

// UpdateData re-resolves the object and recomputes its imaging windows.
func (m ObjectModel) UpdateData(res *forecast.Result) ObjectModel {
	m.found = false
	m.windows = nil
	if res == nil || m.date == "" {
		return m
	}
	nf, ok := res.Night(m.date)
	if !ok {
		return m
	}
	for _, so := range nf.Scored {
		if so.Object.ID == m.objectID {
			m.night, m.scored, m.found = nf, so, true
			break
		}
	}
	if m.found {
		m.windows = imaging.ComputeWindows(m.scored.Visibility, nf.Night, nf.Weather, imaging.WithMoonModel(res.MoonModel))
	}
	return m
}

// Update handles messages.
func (m ObjectModel) Update(_ tea.Msg) (ObjectModel, tea.Cmd) {
	return m, nil
}

// View renders the object detail.
func (m ObjectModel) View() string {
	var b strings.Builder

	if !m.found {
		b.WriteString("  Select an object from a night\n")
		return b.String()
	}

	so := m.scored
	vis := so.Visibility
	n := m.night.Night
	loc := n.Date.Location()

	b.WriteString(titleStyle.Render("  " + so.Object.DisplayName()))
	if so.Object.CommonName != "" && so.Object.Name != so.Object.CommonName {
		b.WriteString(dimStyle.Render("  " + so.Object.Name))
	}
	b.WriteString("\n  ")
	kind := string(so.Object.Category)
	if so.Object.Subtype != "" {
		kind += " / " + string(so.Object.Subtype)
	}
	b.WriteString(dimStyle.Render(strings.ReplaceAll(kind, "_", " ") + " on " + n.Date.Format("Mon 02 Jan")))
	b.WriteString("\n\n")

	tier := lipgloss.NewStyle().Foreground(tierColors[so.Tier]).Bold(true).Render(so.Tier)
	b.WriteString(fmt.Sprintf("  Score %.0f/%.0f  %s\n", so.TotalScore, scoring.MaxTotal, tier))
	b.WriteString("  " + so.Reason + "\n\n")

	// Altitude track across the night
	b.WriteString(labelStyle.Render("  Altitude"))
	b.WriteString("\n  ")
	b.WriteString(renderSparkline(vis.Samples, SparklineWidth))
	peak := fmt.Sprintf(" peak %.0f°", vis.MaxAltitude)
	if vis.MaxAltitudeTime != nil {
		peak += " at " + clock(*vis.MaxAltitudeTime, loc)
	}
	b.WriteString(dimStyle.Render(peak))
	b.WriteString("\n  ")
	if len(vis.Samples) > 0 {
		first, last := vis.Samples[0].Time, vis.Samples[len(vis.Samples)-1].Time
		start, end := clock(first, loc), clock(last, loc)
		gap := SparklineWidth - len(start) - len(end)
		b.WriteString(dimStyle.Render(start + strings.Repeat(" ", max(gap, 1)) + end))
	}
	b.WriteString("\n\n")

	b.WriteString(RenderThresholdPanel(vis, loc))
	b.WriteString("\n")
	b.WriteString(RenderMoonSeparation(vis))
	if vis.MinAirmass != nil {
		b.WriteString(dimStyle.Render(fmt.Sprintf("   airmass: %.2f", *vis.MinAirmass)))
	}
	b.WriteString("\n\n")

	b.WriteString(m.renderBreakdown())
	b.WriteString("\n")
	b.WriteString(m.renderWindows())

	return b.String()
}

func (m ObjectModel) renderBreakdown() string {
	bd := m.scored.Breakdown
	rows := []struct {
		label string
		value float64
		max   float64
	}{
		{"Imaging", m.scored.ImagingQuality, scoring.MaxImaging},
		{"Object", m.scored.Characteristics, scoring.MaxCharacteristics},
		{"Priority", m.scored.Priority, scoring.MaxPriority},
	}

	var b strings.Builder
	b.WriteString(labelStyle.Render("  Breakdown"))
	b.WriteString("\n")
	for _, r := range rows {
		b.WriteString(fmt.Sprintf("  %-9s %s %5.1f\n", r.label, renderBar(r.value, r.max, 20, lipgloss.Color("39")), r.value))
	}
	b.WriteString(dimStyle.Render(fmt.Sprintf(
		"  alt %.0f  moon %.0f  timing %.0f  weather %.1f  sb %.0f  mag %.0f  type %.0f  bonus %.0f",
		bd.Altitude, bd.MoonInterference, bd.PeakTiming, bd.Weather,
		bd.SurfaceBrightness, bd.Magnitude, bd.TypeSuitability,
		bd.TransientBonus+bd.SeasonalWindow+bd.Novelty,
	)))
	b.WriteString("\n")
	return b.String()
}

func (m ObjectModel) renderWindows() string {
	var b strings.Builder
	b.WriteString(labelStyle.Render("  Imaging windows"))
	b.WriteString("\n")

	if len(m.windows) == 0 {
		b.WriteString(dimStyle.Render("  No usable imaging window"))
		b.WriteString("\n")
		return b.String()
	}

	loc := m.night.Night.Date.Location()
	best := imaging.BestWindow(m.windows)
	for _, w := range m.windows {
		marker := "  "
		if best != nil && w.Start.Equal(best.Start) {
			marker = "▶ "
		}
		quality := lipgloss.NewStyle().Foreground(qualityColors[w.Quality]).Render(fmt.Sprintf("%-10s", w.Quality))
		b.WriteString(fmt.Sprintf("  %s%s-%s %7s  %s score %3.0f  peak %2.0f°\n",
			marker,
			clock(w.Start, loc),
			clock(w.End, loc),
			formatDuration(w.Duration()),
			quality,
			w.Score,
			w.PeakAltitude,
		))
	}
	return b.String()
}
