package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"

	"newsdash/internal/app"
	"newsdash/internal/config"
	"newsdash/internal/logger"
	"newsdash/internal/metrics"
	"newsdash/internal/sources"
	"newsdash/internal/storage"
)

func main() {
	logger.Init()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	srcs, err := sources.Load(cfg.SourcesConfigPath)
	if err != nil {
		logger.Error("cannot load source registry", "error", err)
		os.Exit(1)
	}

	store, err := storage.New(cfg.DatabaseURL)
	if err != nil {
		logger.Error("cannot connect to store", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	if os.Getenv("ENABLE_HTTP_MONITORING") == "true" {
		go startMonitoringServer()
	}

	summary, err := app.New(cfg, store, srcs).Run(context.Background())
	if err != nil {
		if errors.Is(err, app.ErrHealthCheck) {
			logger.Error("aborting run, upstream health unknown", "error", err)
			os.Exit(2)
		}
		logger.Error("run failed", "error", err)
		os.Exit(1)
	}

	logger.Info("done", "inserted", summary.Inserted, "duration", summary.Duration)
}

func startMonitoringServer() {
	port := os.Getenv("MONITORING_PORT")
	if port == "" {
		port = "8080"
	}

	http.HandleFunc("/health", healthHandler)
	http.HandleFunc("/metrics", metricsHandler)

	logger.Info("starting monitoring server", "port", port)
	if err := http.ListenAndServe(":"+port, nil); err != nil {
		logger.Error("monitoring server error", "error", err)
	}
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	stats := metrics.Global.GetStats()

	status := "ok"
	if healthy, ok := stats["is_healthy"].(bool); ok && !healthy {
		status = "error"
		w.WriteHeader(http.StatusServiceUnavailable)
	}

	response := map[string]interface{}{
		"status":     status,
		"last_run":   stats["last_run_time"],
		"last_error": stats["last_error"],
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

func metricsHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(metrics.Global.GetStats())
}
