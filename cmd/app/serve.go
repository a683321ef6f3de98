package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/chris/digital-wallet/pkg/bootstrap"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func serveCmd() *cobra.Command {
	var scheduleInterval time.Duration
	var sweepInterval time.Duration

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		Long: `Start the HTTP API on HTTP_PORT.

With --schedule-interval the server also runs due scheduled payments in
process, and with --sweep-interval it polls stale pending transactions.
Deployments that use the lambdas leave both at zero.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			app, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer app.Close()

			if scheduleInterval > 0 {
				go every(ctx, scheduleInterval, func(ctx context.Context) {
					if _, err := app.Schedules.RunDue(ctx, time.Now().UTC()); err != nil {
						app.Logger.Error("scheduled payment pass failed", zap.Error(err))
					}
				})
			}
			if sweepInterval > 0 {
				go every(ctx, sweepInterval, func(ctx context.Context) {
					if _, err := app.Reconciler.SweepPending(ctx, app.Config.StalePendingAfter); err != nil {
						app.Logger.Error("stale pending sweep failed", zap.Error(err))
					}
				})
			}

			return serve(ctx, app)
		},
	}

	cmd.Flags().DurationVar(&scheduleInterval, "schedule-interval", 0, "run due scheduled payments at this interval (0 disables)")
	cmd.Flags().DurationVar(&sweepInterval, "sweep-interval", 0, "poll stale pending transactions at this interval (0 disables)")
	return cmd
}

func serve(ctx context.Context, app *bootstrap.App) error {
	server := &http.Server{
		Addr:              ":" + app.Config.HTTPPort,
		Handler:           app.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		app.Logger.Info("starting server", zap.String("addr", server.Addr))
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	app.Logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func every(ctx context.Context, interval time.Duration, fn func(context.Context)) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			fn(ctx)
		}
	}
}
