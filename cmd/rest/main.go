package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"bidwizer-be/internal/bootstrap"
	"bidwizer-be/internal/config"
	"bidwizer-be/internal/pkg/logger"
	"bidwizer-be/internal/server"
	"bidwizer-be/internal/tracer"
)

func main() {
	// 1. Load Configuration
	cfg := config.Load()
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.IsProduction())
	defer sysLogger.Sync()

	// 2. Initialize Tracer
	shutdownTracer := tracer.InitTracer(cfg, sysLogger)
	defer shutdownTracer(context.Background())

	// 3. Bootstrap Dependencies (Container)
	container, err := bootstrap.NewContainer(cfg, sysLogger)
	if err != nil {
		log.Fatalf("Failed to bootstrap: %v", err)
	}
	defer container.Close()

	// 4. Run Server until interrupted
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := server.New(cfg, container)
	if err := srv.Run(ctx); err != nil {
		sysLogger.Error("Main", "Server stopped", map[string]interface{}{"error": err})
	}
}
