package main

import (
	"errors"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/litescript/ls-nightwatch/internal/ui"
)

func tuiCmd(a *app) *cobra.Command {
	var refresh time.Duration

	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Browse the forecast in an interactive terminal UI",
		Args:  cobra.NoArgs,
		// Logs would corrupt the alternate screen.
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			a.logOutput = io.Discard
			return a.load()
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !term.IsTerminal(int(os.Stdout.Fd())) {
				return errors.New("tui needs a terminal; use the forecast command for piped output")
			}

			mgr := newState(refresh)
			r, err := a.newRefresher(mgr)
			if err != nil {
				return err
			}

			ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			p := tea.NewProgram(ui.New(mgr, r.Refresh), tea.WithAltScreen(), tea.WithContext(ctx))

			go runRefreshLoop(ctx, r, mgr.RefreshInterval(), func(err error) {
				if err != nil {
					p.Send(ui.ErrorMsg{Error: err})
					return
				}
				p.Send(ui.DataUpdateMsg{Snapshot: mgr.Snapshot()})
			}, a.log)

			_, err = p.Run()
			if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
				return nil
			}
			return err
		},
	}

	cmd.Flags().DurationVar(&refresh, "refresh", time.Hour, "forecast refresh interval")
	return cmd
}
