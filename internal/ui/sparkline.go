package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-nightwatch/internal/sky"
)

// SparklineWidth is the width of the altitude sparkline in the object view.
const SparklineWidth = 48

// sparklineBlocks are the Unicode block characters for sparkline (0 = lowest, 7 = highest).
var sparklineBlocks = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// altColorLow is the color for low altitude (dark blue).
var altColorLow = [3]uint8{0x1b, 0x2b, 0x4b}

// altColorMid is the color for mid altitude (blue).
var altColorMid = [3]uint8{0x34, 0x78, 0xc0}

// altColorHigh is the color for high altitude (cyan).
var altColorHigh = [3]uint8{0x8b, 0xe9, 0xff}

// renderSparkline draws an altitude track resampled to width cells. Cells
// below the horizon are drawn as dim dots.
func renderSparkline(samples []sky.Sample, width int) string {
	alts := resampleAltitude(samples, width)
	if len(alts) == 0 {
		return dimStyle.Render(strings.Repeat("·", width))
	}

	below := lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
	var sb strings.Builder
	for _, alt := range alts {
		if alt <= 0 {
			sb.WriteString(below.Render("·"))
			continue
		}
		if alt > 90 {
			alt = 90
		}

		t := alt / 90.0
		blockIdx := int(t * 7.0)
		if blockIdx > 7 {
			blockIdx = 7
		}

		r, g, b := interpolateAltColor(t)
		color := fmt.Sprintf("#%02x%02x%02x", r, g, b)
		sb.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render(string(sparklineBlocks[blockIdx])))
	}
	return sb.String()
}

// interpolateAltColor returns RGB color for altitude fraction t in [0, 1].
// Gradient: low (dark blue) → mid (blue) → high (cyan).
func interpolateAltColor(t float64) (uint8, uint8, uint8) {
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}

	lo, hi := altColorLow, altColorMid
	s := t * 2
	if t >= 0.5 {
		lo, hi = altColorMid, altColorHigh
		s = (t - 0.5) * 2
	}
	mix := func(a, b uint8) uint8 {
		return uint8(float64(a)*(1-s) + float64(b)*s)
	}
	return mix(lo[0], hi[0]), mix(lo[1], hi[1]), mix(lo[2], hi[2])
}

// resampleAltitude averages an altitude track into a fixed number of buckets.
func resampleAltitude(samples []sky.Sample, width int) []float64 {
	if len(samples) == 0 || width <= 0 {
		return nil
	}

	result := make([]float64, width)
	perBucket := float64(len(samples)) / float64(width)

	for i := 0; i < width; i++ {
		startIdx := int(float64(i) * perBucket)
		endIdx := int(float64(i+1) * perBucket)
		if endIdx <= startIdx {
			endIdx = startIdx + 1
		}
		if endIdx > len(samples) {
			endIdx = len(samples)
		}
		startIdx = min(startIdx, endIdx-1)

		sum := 0.0
		for j := startIdx; j < endIdx; j++ {
			sum += samples[j].AltDeg
		}
		if n := endIdx - startIdx; n > 0 {
			result[i] = sum / float64(n)
		}
	}
	return result
}

// renderBar renders a filled bar for value out of max, like [████░░░░].
func renderBar(value, max float64, width int, color lipgloss.Color) string {
	if max <= 0 || width <= 0 {
		return "[]"
	}
	filled := int(value / max * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	fill := lipgloss.NewStyle().Foreground(color).Render(strings.Repeat("█", filled))
	empty := dimStyle.Render(strings.Repeat("░", width-filled))
	return "[" + fill + empty + "]"
}
