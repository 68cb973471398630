package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/schoolsuite/institute-admin-api/internal/di"
	"github.com/schoolsuite/institute-admin-api/internal/observability"
)

func main() {
	a, err := di.InitializeApp()
	if err != nil {
		observability.NewLogger().Error("failed to initialize application", "error", err)
		os.Exit(1)
	}
	logger := a.Logger

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("http server starting", "addr", a.Server.Addr, "env", a.Config.Env)
		if err := a.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stop:
		logger.Info("shutdown signal received", "signal", sig.String())
	case err := <-serverErr:
		logger.Error("http server failed", "error", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), a.ShutdownTimeout)
	defer cancel()

	drainCtx, drainCancel := context.WithTimeout(ctx, a.ShutdownHTTPDrainTimeout)
	if err := a.Server.Shutdown(drainCtx); err != nil {
		logger.Error("http drain failed", "error", err)
	}
	drainCancel()

	obsCtx, obsCancel := context.WithTimeout(ctx, a.ShutdownObservabilityTimeout)
	if err := a.Observability.Shutdown(obsCtx); err != nil {
		logger.Error("observability shutdown failed", "error", err)
	}
	obsCancel()

	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			logger.Error("redis close failed", "error", err)
		}
	}
	if a.DB != nil {
		if sqlDB, err := a.DB.DB(); err == nil {
			if err := sqlDB.Close(); err != nil {
				logger.Error("database close failed", "error", err)
			}
		}
	}

	logger.Info("shutdown complete")
}
