package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fullstackyodha/wechat-backend/infrastructure/config"
	"github.com/fullstackyodha/wechat-backend/infrastructure/di"

	"go.uber.org/zap"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize dependency container
	container, err := di.NewContainer(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize container: %v", err)
	}

	srv, err := container.WorkerServer()
	if err != nil {
		log.Fatalf("Failed to build job server: %v", err)
	}
	mux := container.WorkerMux()

	// Start worker in goroutine
	go func() {
		container.Logger.Info("Starting worker",
			zap.Int("concurrency", cfg.WorkerConcurrency),
			zap.String("environment", cfg.Environment),
		)

		if err := srv.Run(mux); err != nil {
			container.Logger.Fatal("Worker failed to start", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	// Graceful shutdown: stop fetching new jobs, let in-flight jobs finish.
	container.Logger.Info("Shutting down worker...")
	srv.Stop()
	srv.Shutdown()

	shutdownCtx, shutdownCancel := context.WithTimeout(ctx, 30*time.Second)
	defer shutdownCancel()

	container.Close(shutdownCtx)
	log.Println("Worker stopped")
}
