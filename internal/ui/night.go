package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-nightwatch/internal/forecast"
	"github.com/litescript/ls-nightwatch/internal/weather"
)

// miniSparkWidth is the per-row altitude track in the night view.
const miniSparkWidth = 16

var tierColors = map[string]lipgloss.Color{
	"Excellent": lipgloss.Color("#7CFC00"),
	"Very Good": lipgloss.Color("#9ACD32"),
	"Good":      lipgloss.Color("#4FC3F7"),
	"Fair":      lipgloss.Color("#FFD700"),
	"Poor":      lipgloss.Color("244"),
}

// OpenObjectMsg asks the root model to show one object on one night.
type OpenObjectMsg struct {
	Date     string
	ObjectID string
}

// NightModel shows the ranked objects of one night.
type NightModel struct {
	width  int
	height int
	cursor int
	date   string
	night  forecast.NightForecast
	found  bool
}

// NewNightModel creates an empty night view.
func NewNightModel() NightModel {
	return NightModel{}
}

// SetSize updates the viewport size.
func (m NightModel) SetSize(width, height int) NightModel {
	m.width = width
	m.height = height
	return m
}

// SetNight switches to a night and resets the cursor.
func (m NightModel) SetNight(date string, res *forecast.Result) NightModel {
	if date != m.date {
		m.cursor = 0
	}
	m.date = date
	return m.UpdateData(res)
}

// UpdateData re-resolves the current night in a new forecast.
func (m NightModel) UpdateData(res *forecast.Result) NightModel {
	m.found = false
	if res == nil || m.date == "" {
		return m
	}
	m.night, m.found = res.Night(m.date)
	if m.cursor >= len(m.night.Scored) {
		m.cursor = max(len(m.night.Scored)-1, 0)
	}
	return m
}

// Date returns the key of the night shown.
func (m NightModel) Date() string {
	return m.date
}

// Update handles messages.
func (m NightModel) Update(msg tea.Msg) (NightModel, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok || !m.found {
		return m, nil
	}

	n := len(m.night.Scored)
	switch key.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < n-1 {
			m.cursor++
		}
	case "home":
		m.cursor = 0
	case "end":
		m.cursor = max(n-1, 0)
	case "enter":
		if m.cursor < n {
			msg := OpenObjectMsg{Date: m.date, ObjectID: m.night.Scored[m.cursor].Object.ID}
			return m, func() tea.Msg { return msg }
		}
	}
	return m, nil
}

// View renders the night.
func (m NightModel) View() string {
	var b strings.Builder

	if !m.found {
		b.WriteString("  Select a night from the list\n")
		return b.String()
	}

	n := m.night.Night
	loc := n.Date.Location()

	b.WriteString(titleStyle.Render("  " + n.Date.Format("Monday 02 January 2006")))
	b.WriteString("  ")
	b.WriteString(renderStars(m.night.Rating))
	b.WriteString("  ")
	b.WriteString(dimStyle.Render(m.night.Rating.Summary))
	b.WriteString("\n")

	var facts []string
	if n.Degenerate() {
		facts = append(facts, "No astronomical darkness")
	} else {
		facts = append(facts, fmt.Sprintf("Dark %s-%s (%.1fh)",
			clock(n.AstronomicalDusk, loc), clock(n.AstronomicalDawn, loc), n.DarkHours()))
	}
	facts = append(facts, fmt.Sprintf("Moon %.0f%%", n.MoonIllumination))
	if w := m.night.Weather; w != nil {
		facts = append(facts, fmt.Sprintf("%s (%.0f%%)", weather.CloudDescription(w.AvgCloudCover), w.AvgCloudCover))
	}
	b.WriteString("  ")
	b.WriteString(strings.Join(facts, dimStyle.Render("  |  ")))
	b.WriteString("\n\n")

	header := fmt.Sprintf("%-3s %-26s %-16s %5s %-9s %5s %-5s  %s",
		"#", "Object", "Type", "Score", "Tier", "Peak", "At", "Altitude")
	b.WriteString(headerStyle.Render(header))
	b.WriteString("\n")

	if len(m.night.Scored) == 0 {
		b.WriteString("  No objects worth observing\n")
		return b.String()
	}

	maxRows := m.height - 8
	if maxRows < 5 {
		maxRows = 5
	}
	startIdx := 0
	if m.cursor >= maxRows {
		startIdx = m.cursor - maxRows + 1
	}
	endIdx := min(startIdx+maxRows, len(m.night.Scored))

	for i := startIdx; i < endIdx; i++ {
		so := m.night.Scored[i]
		vis := so.Visibility

		kind := string(so.Object.Category)
		if so.Object.Subtype != "" {
			kind = string(so.Object.Subtype)
		}
		at := "--:--"
		if vis.MaxAltitudeTime != nil {
			at = clock(*vis.MaxAltitudeTime, loc)
		}
		tier := lipgloss.NewStyle().Foreground(tierColors[so.Tier]).Render(fmt.Sprintf("%-9s", so.Tier))

		row := fmt.Sprintf("%-3d %-26s %-16s %5.0f %s %4.0f° %-5s  %s",
			i+1,
			truncate(so.Object.DisplayName(), 26),
			truncate(strings.ReplaceAll(kind, "_", " "), 16),
			so.TotalScore,
			tier,
			vis.MaxAltitude,
			at,
			renderSparkline(vis.Samples, miniSparkWidth),
		)

		if i == m.cursor {
			b.WriteString(selectedRowStyle.Render(row))
		} else {
			b.WriteString(rowStyle.Render(row))
		}
		b.WriteString("\n")
	}

	if len(m.night.Scored) > maxRows {
		b.WriteString(fmt.Sprintf("\n  Showing %d-%d of %d objects", startIdx+1, endIdx, len(m.night.Scored)))
		b.WriteString("\n")
	}

	if m.cursor < len(m.night.Scored) {
		b.WriteString("\n  ")
		b.WriteString(dimStyle.Render(m.night.Scored[m.cursor].Reason))
		b.WriteString("\n")
	}

	return b.String()
}
