package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"circuitdesk/internal/circuit"
	"circuitdesk/internal/config"
	"circuitdesk/internal/logging"
	"circuitdesk/internal/web"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env file if it exists (Overload overwrites existing env vars)
	if err := godotenv.Overload(); err != nil {
		slog.Info("no .env file found, using environment variables")
	} else {
		slog.Info("loaded .env file (overwriting existing env vars)")
	}

	// Load and validate configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Setup structured logging based on config
	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	slog.Info("configuration loaded",
		"port", cfg.Server.Port,
		"mock_latency", cfg.Mock.Latency,
		"session_ttl", cfg.Auth.SessionTTL,
		"rate_limit_enabled", cfg.Rate.Enabled,
	)

	// Seed the in-memory store with the demo circuit set
	store := circuit.NewStore(cfg.Mock.Latency)
	store.Seed(circuit.DemoRecords())
	slog.Info("demo circuits loaded", "count", store.Count())

	// Session gate with the placeholder credential
	gate := circuit.NewGate(cfg.Auth.SessionTTL)

	server := web.NewServer(store, gate, cfg)

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown error", "error", err)
		}
	}()

	slog.Info("server starting", "addr", cfg.Server.Addr())
	if err := server.Start(); err != nil {
		slog.Info("server stopped", "error", err)
	}
}
