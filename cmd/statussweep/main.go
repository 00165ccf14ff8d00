package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/vncsmyrnk/election/internal/config"
	"github.com/vncsmyrnk/election/internal/core/ports"
	"github.com/vncsmyrnk/election/internal/core/services"
	"github.com/vncsmyrnk/election/internal/storage"
)

// statussweep runs one election status sweep, for deployments that drive
// it from an external scheduler instead of the server's own cron.
func main() {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		log.Fatal(err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	repos, err := storage.Open(cfg)
	if err != nil {
		log.Fatalf("failed to open storage: %v", err)
	}
	defer repos.Close()

	statusService := services.NewStatusService(repos.Elections, ports.NopMetrics{}, time.Now, logger)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	logger.Info("starting election status sweep")

	updated, err := statusService.Sweep(ctx)
	if err != nil {
		log.Fatalf("error sweeping election statuses: %v", err)
	}

	logger.Info("election status sweep completed", "updated", updated)
}
