package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-nightwatch/internal/forecast"
	"github.com/litescript/ls-nightwatch/internal/rating"
)

// Styles shared by the views.
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("111"))

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")).
			Background(lipgloss.Color("235")).
			Padding(0, 1)

	rowStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	selectedRowStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("229")).
				Background(lipgloss.Color("57"))

	dimStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("60"))

	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("135")).Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))
)

// starColors maps a night rating to its colour.
var starColors = map[int]lipgloss.Color{
	1: lipgloss.Color("#E84A27"),
	2: lipgloss.Color("#FF8C42"),
	3: lipgloss.Color("#FFD700"),
	4: lipgloss.Color("#9ACD32"),
	5: lipgloss.Color("#7CFC00"),
}

func renderStars(r rating.NightRating) string {
	return lipgloss.NewStyle().Foreground(starColors[r.Stars]).Render(r.StarString())
}

// OpenNightMsg asks the root model to show one night.
type OpenNightMsg struct {
	Date string
}

// NightsModel lists every forecast night with its rating.
type NightsModel struct {
	width  int
	height int
	cursor int
	result *forecast.Result
}

// NewNightsModel creates an empty nights list.
func NewNightsModel() NightsModel {
	return NightsModel{}
}

// SetSize updates the viewport size.
func (m NightsModel) SetSize(width, height int) NightsModel {
	m.width = width
	m.height = height
	return m
}

// UpdateData replaces the forecast, keeping the cursor in range.
func (m NightsModel) UpdateData(res *forecast.Result) NightsModel {
	m.result = res
	if n := m.count(); m.cursor >= n {
		m.cursor = max(n-1, 0)
	}
	return m
}

func (m NightsModel) count() int {
	if m.result == nil {
		return 0
	}
	return len(m.result.Nights)
}

// Selected returns the night under the cursor.
func (m NightsModel) Selected() (forecast.NightForecast, bool) {
	if m.cursor < 0 || m.cursor >= m.count() {
		return forecast.NightForecast{}, false
	}
	return m.result.Nights[m.cursor], true
}

// Update handles messages.
func (m NightsModel) Update(msg tea.Msg) (NightsModel, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < m.count()-1 {
			m.cursor++
		}
	case "home":
		m.cursor = 0
	case "end":
		m.cursor = max(m.count()-1, 0)
	case "enter":
		if nf, ok := m.Selected(); ok {
			date := nf.Night.Key()
			return m, func() tea.Msg { return OpenNightMsg{Date: date} }
		}
	}
	return m, nil
}

// View renders the nights list.
func (m NightsModel) View() string {
	var b strings.Builder

	if m.result == nil {
		b.WriteString("  No forecast yet\n")
		return b.String()
	}

	site := m.result.Location.Name
	if site == "" {
		site = fmt.Sprintf("%.4f, %.4f", m.result.Location.LatDeg, m.result.Location.LonDeg)
	}
	b.WriteString(titleStyle.Render("  Forecast for " + site))
	b.WriteString("\n\n")

	header := fmt.Sprintf("%-12s %-7s %6s %-11s %5s %6s %4s  %s",
		"Date", "Rating", "Dark", "Window", "Moon", "Cloud", "Vis", "Top object")
	b.WriteString(headerStyle.Render(header))
	b.WriteString("\n")

	if len(m.result.Nights) == 0 {
		b.WriteString("  No nights forecast\n")
		return b.String()
	}

	for i, nf := range m.result.Nights {
		n := nf.Night

		window := "-"
		if !n.Degenerate() {
			window = clock(n.AstronomicalDusk, n.Date.Location()) + "-" + clock(n.AstronomicalDawn, n.Date.Location())
		}
		cloud := "-"
		if nf.Weather != nil {
			cloud = fmt.Sprintf("%.0f%%", nf.Weather.AvgCloudCover)
		}
		top := "-"
		if len(nf.Scored) > 0 {
			top = fmt.Sprintf("%s (%.0f)", nf.Scored[0].Object.DisplayName(), nf.Scored[0].TotalScore)
		}

		row := fmt.Sprintf("%-12s %s %5.1fh %-11s %4.0f%% %6s %4d  %s",
			n.Date.Format("Mon 02 Jan"),
			renderStars(nf.Rating),
			n.DarkHours(),
			window,
			n.MoonIllumination,
			cloud,
			nf.VisibleCount(),
			truncate(top, 32),
		)

		if i == m.cursor {
			b.WriteString(selectedRowStyle.Render(row))
		} else {
			b.WriteString(rowStyle.Render(row))
		}
		b.WriteString("\n")
	}

	if best := rating.BestDarkNights(m.result.RatedNights(), 3); len(best) > 0 {
		dates := make([]string, 0, len(best))
		for _, rn := range best {
			dates = append(dates, rn.Night.Date.Format("Mon 02 Jan"))
		}
		b.WriteString("\n")
		b.WriteString(labelStyle.Render("  Best dark nights: "))
		b.WriteString(strings.Join(dates, ", "))
		b.WriteString("\n")
	}

	if nf, ok := m.Selected(); ok {
		b.WriteString("\n  ")
		b.WriteString(dimStyle.Render(nf.Rating.Summary))
		b.WriteString("\n")
	}

	return b.String()
}

func clock(t time.Time, loc *time.Location) string {
	if t.IsZero() {
		return "--:--"
	}
	if loc != nil {
		t = t.In(loc)
	}
	return t.Format("15:04")
}

func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-3]) + "..."
}
