package main

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"flightsync-service/internal/app"
	"flightsync-service/internal/infrastructure/config"
	"flightsync-service/internal/usecase"
	"flightsync-service/pkg/logger"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.NewLogger("info").Fatal("Failed to load config", "error", err)
	}

	log := logger.NewLogger(cfg.LogLevel)
	defer log.Sync()
	log.Info("Starting Flightsync Service", "version", cfg.AppVersion, "source", cfg.FlightSource)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	services, err := app.New(ctx, cfg, log)
	if err != nil {
		log.Fatal("Failed to initialize services", "error", err)
	}

	syncProcessor, err := services.NewSyncProcessor(ctx)
	if err != nil {
		log.Fatal("Failed to set up sheet sync", "error", err)
	}

	scheduler, err := usecase.NewDailyScheduler(syncProcessor, cfg.SyncAt, services.Location, cfg.SyncOnStart, log)
	if err != nil {
		log.Fatal("Failed to create scheduler", "error", err)
	}

	schedulerDone := make(chan struct{})
	go func() {
		defer close(schedulerDone)
		scheduler.Start(ctx)
	}()

	server := newHTTPServer(cfg, services)
	go func() {
		log.Info("Starting HTTP server", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server error", "error", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan
	log.Info("Received signal", "signal", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error", "error", err)
	}

	// stops the scheduler and a sync in progress
	cancel()
	select {
	case <-schedulerDone:
	case <-shutdownCtx.Done():
		log.Warn("Scheduler did not stop in time")
	}

	services.Close(shutdownCtx)
	log.Info("Flightsync Service stopped")
}

// newHTTPServer exposes the metrics of the service registry and a health probe
func newHTTPServer(cfg *config.Config, services *app.App) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(services.Registry, promhttp.HandlerOpts{}))
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{
			"status":  "ok",
			"version": cfg.AppVersion,
			"source":  services.Source.Name(),
		})
	})

	return &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      mux,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
}
