package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"fiberops-assistant-be/internal/bootstrap"
	"fiberops-assistant-be/internal/config"
	"fiberops-assistant-be/internal/server"
	"fiberops-assistant-be/internal/tracer"
)

func main() {
	// 0. Initialize Tracer (no-op unless OTEL_ENABLED=true)
	shutdownTracer := tracer.InitTracer("fiberops-assistant-backend")
	defer shutdownTracer(context.Background())

	// 1. Load Configuration
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 2. Bootstrap Dependencies (Container)
	container := bootstrap.NewContainer(cfg)
	defer container.Close()

	// 3. Start Background Services
	if err := container.Start(ctx, cfg.Sheets.RefreshInterval); err != nil {
		log.Fatalf("Background services failed to start: %v", err)
	}

	// 4. Initialize Server
	srv := server.New(cfg, container)
	go func() {
		<-ctx.Done()
		log.Println("Shutting down...")
		if err := srv.Shutdown(); err != nil {
			log.Printf("Shutdown error: %v", err)
		}
	}()

	// 5. Run Server
	if err := srv.Run(); err != nil {
		log.Printf("Server stopped: %v", err)
	}
}
