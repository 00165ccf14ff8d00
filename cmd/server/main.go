package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	stdhttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/vncsmyrnk/election/internal/adapters/handler/http"
	"github.com/vncsmyrnk/election/internal/adapters/metrics"
	"github.com/vncsmyrnk/election/internal/adapters/oauth/google"
	"github.com/vncsmyrnk/election/internal/adapters/scheduler"
	"github.com/vncsmyrnk/election/internal/config"
	"github.com/vncsmyrnk/election/internal/core/services"
	"github.com/vncsmyrnk/election/internal/storage"
)

func main() {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		log.Fatal(err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	repos, err := storage.Open(cfg)
	if err != nil {
		logger.Error("failed to open storage", "storage", cfg.Storage, "error", err)
		os.Exit(1)
	}
	defer repos.Close()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	recorder := metrics.NewRecorder(registry)

	now := time.Now
	if cfg.VoteHashSecret == "" {
		logger.Warn("VOTE_HASH_SECRET not set, candidate references are unkeyed")
	}

	authService, err := services.NewAuthService(repos.Users, google.NewVerifier(), services.AuthConfig{
		JWTSecret:      cfg.JWTSecret,
		GoogleClientID: cfg.GoogleClientID,
		AdminEmails:    cfg.AdminEmails,
		AccessTokenTTL: cfg.AccessTokenTTL,
	}, now)
	if err != nil {
		logger.Error("failed to set up authentication", "error", err)
		os.Exit(1)
	}
	electionService := services.NewElectionService(repos.Elections, repos.Candidates, repos.Tally, now)
	candidateService := services.NewCandidateService(repos.Elections, repos.Candidates, now)
	voteService := services.NewVoteService(repos.Elections, repos.Candidates, repos.Votes, repos.Tally, recorder, cfg.VoteHashSecret, now)
	tallyService := services.NewTallyService(repos.Elections, repos.Candidates, repos.Tally, now)
	statusService := services.NewStatusService(repos.Elections, recorder, now, logger)
	feedService := services.NewFeedService(tallyService, services.FeedConfig{
		Interval:       cfg.FeedInterval,
		HourlyInterval: cfg.HourlyFeedInterval,
	}, recorder, logger)

	handler := http.NewHandler(http.Handlers{
		Auth:        http.NewAuthHandler(authService, cfg.AuthRedirectURL, cfg.CookieDomain, cfg.CookieSameSite, cfg.AccessTokenTTL),
		Users:       http.NewUserHandler(repos.Users),
		Elections:   http.NewElectionHandler(electionService),
		Candidates:  http.NewCandidateHandler(candidateService),
		Votes:       http.NewVoteHandler(voteService),
		Feed:        http.NewFeedHandler(feedService, cfg.SSERetry, now),
		AuthService: authService,
		Metrics:     promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		Ready:       repos.Ping,
	})

	sweeper, err := scheduler.New(cfg.StatusSweepSchedule, statusService, time.Minute, logger)
	if err != nil {
		logger.Error("failed to schedule status sweep", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if _, err := statusService.Sweep(ctx); err != nil {
		logger.Error("initial status sweep failed", "error", err)
	}
	sweeper.Start()

	server := &stdhttp.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", server.Addr, "storage", cfg.Storage)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, stdhttp.ErrServerClosed) {
			logger.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	logger.Info("gracefully shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	sweeper.Stop(shutdownCtx)
	// Feed loops only end on their own when clients leave.
	feedService.Close()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown failed", "error", err)
	}
}
