package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/aquadesk/aquadesk/internal/adapter/opsapi"
	"github.com/aquadesk/aquadesk/internal/fallback"
)

// aquadesk-fallback mirrors the recurrence sweep through the public HTTP
// API, for deployments where the server's in-process scheduler cannot run.
func main() {
	_ = godotenv.Load()

	serverURL := flag.String("s", envOr("AQUADESK_SERVER", "http://localhost:8080"), "aquadesk server base URL")
	intervalStr := flag.String("i", envOr("FALLBACK_INTERVAL", "3m"), "poll interval")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	interval, err := time.ParseDuration(*intervalStr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid poll interval: %v\n", err)
		os.Exit(1)
	}

	client, err := opsapi.NewHTTPClient(*serverURL, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid server URL: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("fallback trigger started",
		slog.String("server", *serverURL),
		slog.Duration("interval", interval),
	)

	trigger := fallback.New(client, interval, logger)
	if err := trigger.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintf(os.Stderr, "fallback trigger failed: %v\n", err)
		os.Exit(1)
	}
	logger.Info("fallback trigger stopped")
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
