package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "rpssl/docs"
	"rpssl/internal/app"
	"rpssl/internal/config"
	"rpssl/internal/telemetry"

	"golang.org/x/sync/errgroup"
)

// @title RPSSL Game API
// @version 1.0
// @description Rock Paper Scissors Lizard Spock game sessions
// @host localhost:8080
// @BasePath /v1
func main() {
	log.Println("started")

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := telemetry.Setup(ctx, telemetry.ServiceName, cfg.OTelEnabled, cfg.OTelEndpoint)
	if err != nil {
		log.Fatal("Failed to set up tracing:", err)
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(flushCtx); err != nil {
			log.Printf("Failed to flush traces: %v", err)
		}
	}()

	a, err := app.New(ctx, cfg)
	if err != nil {
		log.Fatal("Failed to initialize server:", err)
	}
	defer a.Close()

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           a.Handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Printf("Server starting on :%s", cfg.Port)
		log.Println("Endpoints:")
		log.Println("  POST /v1/play/create")
		log.Println("  POST /v1/play")
		log.Println("  GET  /v1/choices")
		log.Println("  GET  /v1/choices/choice")
		log.Println("  GET  /v1/swagger/doc.json")
		log.Println("  WS   /v1/ws/game?gameCode={code}")

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Println("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Printf("Server error: %v", err)
		os.Exit(1)
	}

	log.Println("Server exited")
}
