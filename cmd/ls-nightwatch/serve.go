package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/litescript/ls-nightwatch/internal/server"
	"github.com/litescript/ls-nightwatch/internal/state"
)

const shutdownTimeout = 5 * time.Second

func newState(refresh time.Duration) *state.Manager {
	cfg := state.DefaultConfig()
	if refresh > 0 {
		cfg.RefreshInterval = refresh
	}
	return state.NewManager(cfg)
}

func serveCmd(a *app) *cobra.Command {
	var refresh time.Duration

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the latest forecast as a JSON API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			mgr := newState(refresh)
			r, err := a.newRefresher(mgr)
			if err != nil {
				return err
			}

			ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			srv := &http.Server{
				Addr:              a.cfg.Server.Addr,
				Handler:           server.NewRouter(mgr, server.WithLogger(a.log)),
				ReadHeaderTimeout: 10 * time.Second,
			}

			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				runRefreshLoop(gctx, r, mgr.RefreshInterval(), nil, a.log)
				return nil
			})
			g.Go(func() error {
				a.log.Info("listening", "addr", srv.Addr)
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					return fmt.Errorf("serve: %w", err)
				}
				return nil
			})
			g.Go(func() error {
				<-gctx.Done()
				a.log.Info("shutting down")
				shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
				defer cancel()
				return srv.Shutdown(shutdownCtx)
			})
			return g.Wait()
		},
	}

	cmd.Flags().String("addr", "", "listen address (default :8047)")
	cmd.Flags().DurationVar(&refresh, "refresh", time.Hour, "forecast refresh interval")
	_ = a.v.BindPFlag("server.addr", cmd.Flags().Lookup("addr"))
	return cmd
}
