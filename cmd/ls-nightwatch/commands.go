package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/litescript/ls-nightwatch/internal/astro"
	"github.com/litescript/ls-nightwatch/internal/report"
	"github.com/litescript/ls-nightwatch/internal/version"
)

func forecastCmd(a *app) *cobra.Command {
	var (
		asJSON  bool
		noColor bool
	)

	cmd := &cobra.Command{
		Use:   "forecast",
		Short: "Rate the coming nights and list the best objects for each",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			objs, err := a.objects()
			if err != nil {
				return err
			}
			start, err := a.cfg.StartDate(a.now())
			if err != nil {
				return err
			}

			res, err := a.newEngine().Run(cmd.Context(), a.request(start, a.cfg.Forecast.Nights, objs))
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				return report.WriteJSON(out, res)
			}
			report.WriteForecastTable(out, res, report.Options{
				Color:     colorFor(out, noColor),
				Location:  a.cfg.TimeZone(),
				MoonModel: res.MoonModel,
			})
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the forecast as JSON")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "disable colours")
	return cmd
}

func nightCmd(a *app) *cobra.Command {
	var (
		asJSON  bool
		noColor bool
	)

	cmd := &cobra.Command{
		Use:   "night [YYYY-MM-DD]",
		Short: "Show one night in detail",
		Long:  "Shows the darkness window, Moon, weather and ranked objects for one night.\nThe date defaults to the configured start date, or tonight.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			loc := a.cfg.TimeZone()
			date, err := a.cfg.StartDate(a.now())
			if err != nil {
				return err
			}
			if len(args) == 1 {
				date, err = time.ParseInLocation("2006-01-02", args[0], loc)
				if err != nil {
					return fmt.Errorf("invalid date %q: want YYYY-MM-DD", args[0])
				}
			}

			objs, err := a.objects()
			if err != nil {
				return err
			}
			res, err := a.newEngine().Run(cmd.Context(), a.request(date, 1, objs))
			if err != nil {
				return err
			}
			nf := res.Nights[0]

			if nf.Night.Degenerate() {
				a.log.Warn("no astronomical darkness", "kind", astro.KindDegenerateNightWindow, "date", nf.Night.Key())
			}
			if nf.Weather == nil && a.cfg.Weather.Provider != "none" {
				a.log.Warn("no weather for night, using defaults", "kind", astro.KindMissingOptionalData, "date", nf.Night.Key())
			}

			out := cmd.OutOrStdout()
			if asJSON {
				return report.WriteNightJSON(out, nf, res.MoonModel)
			}
			report.WriteNightTable(out, nf, report.Options{
				Color:     colorFor(out, noColor),
				Location:  loc,
				MoonModel: res.MoonModel,
			})
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the night as JSON")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "disable colours")
	return cmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "ls-nightwatch v%s\n", version.Version)
		},
	}
}
