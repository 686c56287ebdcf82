package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"skarbonka/internal/shared/config"
	"skarbonka/internal/shared/logger"
	"skarbonka/internal/shared/telemetry"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Application error: %v", err)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	appLog := logger.New()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize telemetry (if enabled)
	if cfg.Telemetry.Enabled {
		shutdownTelemetry, err := telemetry.Init(ctx, telemetry.Config{
			ServiceName:  cfg.Telemetry.ServiceName,
			Environment:  cfg.Telemetry.Environment,
			OTLPEndpoint: cfg.Telemetry.OTLPEndpoint,
			MetricsPort:  cfg.Telemetry.MetricsPort,
		}, appLog)
		if err != nil {
			return err
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := shutdownTelemetry(shutdownCtx); err != nil {
				log.Printf("Error shutting down telemetry: %v", err)
			}
		}()
	} else {
		log.Println("Telemetry is disabled")
	}

	// Initialize all dependencies
	deps, err := NewDependencies(ctx, cfg, appLog)
	if err != nil {
		return err
	}
	defer deps.Close()

	// Reap browser sessions that go quiet
	go deps.Sessions.Janitor(ctx, 10*time.Minute, 24*time.Hour)

	// Setup routes and middleware
	handler := SetupRoutes(deps, cfg, appLog)

	// Start servers
	srv, redirectSrv := StartServers(NewServerConfigFromConfig(handler, cfg))

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	GracefulShutdown(srv, redirectSrv, 30*time.Second)
	return nil
}
