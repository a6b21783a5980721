package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the scheduler loops and the management API",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	app, cleanup, err := openApp()
	if err != nil {
		return err
	}
	defer cleanup()

	log := app.Logger
	log.Info("starting autoclock",
		zap.String("instance_id", app.Config.Scheduler.InstanceID),
		zap.String("lease_backend", app.Config.Lease.Backend))

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app.Scheduler.Start(ctx)

	if app.Config.Server.Enabled {
		go func() {
			if err := app.Server.Run(); err != nil {
				log.Error("API server failed", zap.Error(err))
				stop()
			}
		}()
	}

	select {
	case <-ctx.Done():
		log.Info("shutting down...")
	case <-app.Scheduler.Done():
		log.Warn("scheduler loops exited, shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if app.Config.Server.Enabled {
		if err := app.Server.Shutdown(shutdownCtx); err != nil {
			log.Error("failed to shutdown API server", zap.Error(err))
		}
	}

	err = app.Scheduler.Stop()
	log.Info("shutdown complete")
	return err
}
