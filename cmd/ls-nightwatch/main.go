// Command ls-nightwatch plans observing nights: which objects are worth
// observing from a site over the coming nights, when, and how good the
// conditions will be.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/litescript/ls-nightwatch/internal/config"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// flagBindings maps persistent flags to config keys.
var flagBindings = map[string]string{
	"lat":          "location.latitude",
	"lon":          "location.longitude",
	"elevation":    "location.elevation_m",
	"tz":           "location.timezone",
	"name":         "location.name",
	"nights":       "forecast.nights",
	"workers":      "forecast.workers",
	"max-objects":  "forecast.max_objects",
	"min-score":    "forecast.min_score",
	"moon-model":   "forecast.moon_model",
	"start":        "forecast.start_date",
	"weather":      "weather.provider",
	"weather-file": "weather.file",
	"catalog":      "catalog.file",
	"log-level":    "log.level",
	"log-format":   "log.format",
}

func newRootCmd() *cobra.Command {
	a := newApp(config.NewViper())

	root := &cobra.Command{
		Use:   "ls-nightwatch",
		Short: "Night sky planner",
		Long: "Rates the coming nights at a site and ranks the planets, deep-sky objects,\n" +
			"comets and asteroids worth observing, with their best imaging windows.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "version" {
				return nil
			}
			return a.load()
		},
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&a.configFile, "config", "c", "", "config file path (default ./nightwatch.yaml)")
	pf.Float64("lat", 0, "site latitude in degrees, north positive")
	pf.Float64("lon", 0, "site longitude in degrees, east positive")
	pf.Float64("elevation", 0, "site elevation in metres")
	pf.String("tz", "", "IANA time zone of the site (default from longitude)")
	pf.String("name", "", "site name")
	pf.Int("nights", 0, "number of nights to forecast (1-30)")
	pf.Int("workers", 0, "concurrent evaluations")
	pf.Int("max-objects", 0, "objects listed per night")
	pf.Float64("min-score", 0, "drop objects scoring below this (0-200)")
	pf.String("moon-model", "", "Moon altitude model: estimate or ephemeris")
	pf.String("start", "", "first night as YYYY-MM-DD (default tonight)")
	pf.String("weather", "", "weather provider: none, openmeteo or file")
	pf.String("weather-file", "", "hourly weather JSON for --weather file")
	pf.String("catalog", "", "catalog YAML replacing the built-in catalog")
	pf.String("log-level", "", "log level: debug, info, warn, error")
	pf.String("log-format", "", "log format: text or json")
	for flag, key := range flagBindings {
		_ = a.v.BindPFlag(key, pf.Lookup(flag))
	}

	root.AddCommand(forecastCmd(a))
	root.AddCommand(nightCmd(a))
	root.AddCommand(tuiCmd(a))
	root.AddCommand(serveCmd(a))
	root.AddCommand(versionCmd())
	return root
}
