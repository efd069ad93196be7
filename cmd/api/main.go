package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fintrack/internal/shared/config"
	"fintrack/internal/shared/logging"
	"fintrack/internal/shared/telemetry"

	"go.uber.org/zap"
)

const shutdownTimeout = 30 * time.Second

func main() {
	if err := run(); err != nil {
		log.Fatalf("Application error: %v", err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	_, syncLogger, err := logging.Init(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return err
	}
	defer syncLogger()

	ctx := context.Background()

	shutdownTelemetry, err := telemetry.Init(ctx, cfg.Telemetry)
	if err != nil {
		return err
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTelemetry(ctx); err != nil {
			zap.L().Error("Telemetry shutdown failed", zap.Error(err))
		}
	}()

	deps, err := NewDependencies(ctx, cfg)
	if err != nil {
		return err
	}
	defer deps.Close()

	deps.WorkerPool.Start()
	if deps.Scheduler != nil {
		if err := deps.Scheduler.Start(); err != nil {
			deps.WorkerPool.Shutdown(shutdownTimeout)
			return err
		}
	}

	handler := SetupRoutes(deps, cfg)
	srv, redirectSrv := StartServers(NewServerConfigFromConfig(handler, cfg))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	GracefulShutdown(srv, redirectSrv, deps.Scheduler, deps.WorkerPool, shutdownTimeout)
	return nil
}
