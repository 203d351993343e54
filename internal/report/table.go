package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/litescript/ls-nightwatch/internal/forecast"
	"github.com/litescript/ls-nightwatch/internal/imaging"
	"github.com/litescript/ls-nightwatch/internal/rating"
	"github.com/litescript/ls-nightwatch/internal/sky"
	"github.com/litescript/ls-nightwatch/internal/weather"
)

// Options controls table rendering.
type Options struct {
	// Color enables ANSI colours. Callers decide based on the terminal.
	Color bool
	// Location formats clock times. Nil uses each night's own zone.
	Location *time.Location
	// MoonModel is used for the best-window column.
	MoonModel sky.MoonModel
}

var starColors = map[int]color.Attribute{
	1: color.FgRed,
	2: color.FgHiRed,
	3: color.FgYellow,
	4: color.FgHiGreen,
	5: color.FgGreen,
}

var tierColors = map[string]color.Attribute{
	"Excellent": color.FgGreen,
	"Very Good": color.FgHiGreen,
	"Good":      color.FgCyan,
	"Fair":      color.FgYellow,
	"Poor":      color.FgHiBlack,
}

func (o Options) paint(attr color.Attribute, s string) string {
	c := color.New(attr)
	if o.Color {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
	return c.Sprint(s)
}

func (o Options) clock(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	if o.Location != nil {
		t = t.In(o.Location)
	}
	return t.Format("15:04")
}

func (o Options) newTable(w io.Writer) table.Writer {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleLight)
	tw.Style().Format.Header = text.FormatDefault
	return tw
}

// WriteForecastTable writes one row per night: rating, darkness, Moon,
// cloud and the top-ranked object.
func WriteForecastTable(w io.Writer, res *forecast.Result, opts Options) {
	if res == nil || len(res.Nights) == 0 {
		fmt.Fprintln(w, "No nights forecast")
		return
	}

	site := res.Location.Name
	if site == "" {
		site = fmt.Sprintf("%.4f, %.4f", res.Location.LatDeg, res.Location.LonDeg)
	}
	fmt.Fprintf(w, "Forecast for %s @ %s\n", site, res.GeneratedAt.Format(time.RFC3339))

	tw := opts.newTable(w)
	tw.AppendHeader(table.Row{"Date", "Rating", "Dark", "Dusk", "Dawn", "Moon", "Cloud", "Visible", "Top object"})
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Name: "Dark", Align: text.AlignRight},
		{Name: "Moon", Align: text.AlignRight},
		{Name: "Cloud", Align: text.AlignRight},
		{Name: "Visible", Align: text.AlignRight},
	})

	for _, nf := range res.Nights {
		n := nf.Night
		stars := opts.paint(starColors[nf.Rating.Stars], nf.Rating.StarString())

		cloud := "-"
		if nf.Weather != nil {
			cloud = fmt.Sprintf("%.0f%%", nf.Weather.AvgCloudCover)
		}

		top := "-"
		if len(nf.Scored) > 0 {
			so := nf.Scored[0]
			top = fmt.Sprintf("%s (%.0f)", so.Object.DisplayName(), so.TotalScore)
		}

		dusk, dawn := "-", "-"
		if !n.Degenerate() {
			dusk, dawn = opts.clock(n.AstronomicalDusk), opts.clock(n.AstronomicalDawn)
		}

		tw.AppendRow(table.Row{
			n.Date.Format("Mon 02 Jan"),
			stars,
			fmt.Sprintf("%.1fh", n.DarkHours()),
			dusk,
			dawn,
			fmt.Sprintf("%.0f%%", n.MoonIllumination),
			cloud,
			nf.VisibleCount(),
			top,
		})
	}
	tw.Render()

	best := rating.BestDarkNights(res.RatedNights(), 3)
	if len(best) > 0 {
		dates := make([]string, 0, len(best))
		for _, rn := range best {
			dates = append(dates, rn.Night.Date.Format("Mon 02 Jan"))
		}
		fmt.Fprintf(w, "\nBest dark nights: %s\n", strings.Join(dates, ", "))
	}
}

// WriteNightTable writes the ranked objects of one night with their best
// imaging window.
func WriteNightTable(w io.Writer, nf forecast.NightForecast, opts Options) {
	n := nf.Night
	fmt.Fprintf(w, "%s  %s  %s\n",
		n.Date.Format("Monday 02 January 2006"),
		opts.paint(starColors[nf.Rating.Stars], nf.Rating.StarString()),
		nf.Rating.Summary,
	)
	if n.Degenerate() {
		fmt.Fprintln(w, "No astronomical darkness")
	} else {
		fmt.Fprintf(w, "Dark %s-%s (%.1fh)  Moon %.0f%%", opts.clock(n.AstronomicalDusk), opts.clock(n.AstronomicalDawn), n.DarkHours(), n.MoonIllumination)
		if nf.Weather != nil {
			fmt.Fprintf(w, "  %s (%.0f%%)", weather.CloudDescription(nf.Weather.AvgCloudCover), nf.Weather.AvgCloudCover)
		}
		fmt.Fprintln(w)
	}

	if len(nf.Scored) == 0 {
		fmt.Fprintln(w, "No objects worth observing")
		return
	}

	tw := opts.newTable(w)
	tw.AppendHeader(table.Row{"#", "Object", "Type", "Score", "Tier", "Peak", "At", "Best window", "Why"})
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Name: "Score", Align: text.AlignRight},
		{Name: "Peak", Align: text.AlignRight},
		{Name: "Why", WidthMax: 48},
	})

	for i, so := range nf.Scored {
		vis := so.Visibility
		at := "-"
		if vis.MaxAltitudeTime != nil {
			at = opts.clock(*vis.MaxAltitudeTime)
		}

		window := "-"
		windows := imaging.ComputeWindows(vis, n, nf.Weather, imaging.WithMoonModel(opts.MoonModel))
		if best := imaging.BestWindow(windows); best != nil {
			window = fmt.Sprintf("%s-%s %s", opts.clock(best.Start), opts.clock(best.End), best.Quality)
		}

		kind := string(so.Object.Category)
		if so.Object.Subtype != "" {
			kind = string(so.Object.Subtype)
		}

		tw.AppendRow(table.Row{
			i + 1,
			so.Object.DisplayName(),
			strings.ReplaceAll(kind, "_", " "),
			fmt.Sprintf("%.0f", so.TotalScore),
			opts.paint(tierColors[so.Tier], so.Tier),
			fmt.Sprintf("%.0f°", vis.MaxAltitude),
			at,
			window,
			so.Reason,
		})
	}
	tw.Render()
}
