package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-nightwatch/internal/sky"
)

// Visibility display colors
const (
	colorVisHigh   = "#7CFC00" // Lawn green - high altitude
	colorVisMedium = "#FFD700" // Gold - medium altitude
	colorVisLow    = "#FF6347" // Tomato - low altitude
	colorVisNone   = "#444444" // Dark gray - never reached

	// Moon separation colors
	colorMoonSafe    = "#7CFC00" // Green - safe (>=60°)
	colorMoonCaution = "#FFD700" // Gold - caution (30-60°)
	colorMoonWarning = "#FF4500" // Orange-red - warning (<30°)
)

// thresholds are the tracked altitude bands, highest first.
var thresholds = []struct {
	deg   float64
	color string
}{
	{75, colorVisHigh},
	{60, colorVisMedium},
	{45, colorVisLow},
}

// RenderThresholdPanel renders the time spent above each tracked altitude.
// Format:
//
//	>75°  Never
//	>60°  21:40-00:55   3h15m
//	>45°  20:30-02:05   5h35m
func RenderThresholdPanel(vis sky.ObjectVisibility, loc *time.Location) string {
	var lines []string
	for _, th := range thresholds {
		line := labelStyle.Render(fmt.Sprintf(">%.0f°  ", th.deg))

		w := vis.AboveThreshold(th.deg)
		if w == nil {
			line += lipgloss.NewStyle().Foreground(lipgloss.Color(colorVisNone)).Render("Never")
			lines = append(lines, line)
			continue
		}

		style := lipgloss.NewStyle().Foreground(lipgloss.Color(th.color))
		line += style.Render(fmt.Sprintf("%s-%s   %s", clock(w.Start, loc), clock(w.End, loc), formatDuration(w.Duration())))
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

// RenderMoonSeparation renders the Moon separation with appropriate styling.
func RenderMoonSeparation(vis sky.ObjectVisibility) string {
	label := dimStyle.Render("moon-sep: ")
	if vis.MoonSeparation == nil {
		return label + dimStyle.Render("n/a")
	}

	sep := *vis.MoonSeparation
	color, status := colorMoonSafe, ""
	switch {
	case vis.MoonWarning || sep < 30:
		color, status = colorMoonWarning, " (warning)"
	case sep < 60:
		color, status = colorMoonCaution, " (caution)"
	}

	style := lipgloss.NewStyle().Foreground(lipgloss.Color(color))
	return label + style.Render(fmt.Sprintf("%.1f°%s", sep, status))
}

// formatDuration formats a duration as 3h15m or 45m.
func formatDuration(d time.Duration) string {
	d = d.Round(time.Minute)
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	if h == 0 {
		return fmt.Sprintf("%dm", m)
	}
	return fmt.Sprintf("%dh%02dm", h, m)
}
