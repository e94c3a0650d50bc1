package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pageza/flavorfind/backend/config"
	"github.com/pageza/flavorfind/backend/internal/api"
	"github.com/pageza/flavorfind/backend/internal/logger"
	"github.com/pageza/flavorfind/backend/internal/middleware"
	"github.com/pageza/flavorfind/backend/internal/router"
	"github.com/pageza/flavorfind/backend/internal/server"
	"github.com/pageza/flavorfind/backend/internal/service"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger.Init(config.IsProduction())
	if err := run(cfg, logger.L()); err != nil {
		logger.L().Error("server exited with error", zap.Error(err))
		logger.Sync()
		log.Fatal(err)
	}
	logger.Sync()
}

func run(cfg *config.Config, zlog *zap.Logger) error {
	if cfg.SessionSecret == "" {
		// Sessions will not survive a restart
		cfg.SessionSecret = uuid.NewString()
		zlog.Warn("SESSION_SECRET not set, using a random secret for this process")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	backend, err := server.OpenStorage(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to open session storage: %w", err)
	}
	defer func() {
		if err := backend.Close(); err != nil {
			zlog.Warn("failed to close storage", zap.Error(err))
		}
	}()

	// Initialize services
	sessions := service.NewSessionService(cfg.SessionSecret, backend.Storage)
	tracker := service.NewSearchTracker()
	client := service.NewSpoonacularClient(
		cfg.SpoonacularBaseURL,
		&http.Client{Timeout: cfg.SpoonacularTimeout},
		cfg.ResultLimit,
		zlog.Named("spoonacular"),
	)

	// A nil *redis.Client must not reach the limiters as a non-nil interface
	searchLimiter := middleware.NewSearchRateLimiter(nil, cfg.RateLimitPerHour)
	sessionLimiter := middleware.NewSessionRateLimiter(nil, cfg.SessionRateLimitPerHour)
	if backend.Redis != nil {
		searchLimiter = middleware.NewSearchRateLimiter(backend.Redis, cfg.RateLimitPerHour)
		sessionLimiter = middleware.NewSessionRateLimiter(backend.Redis, cfg.SessionRateLimitPerHour)
	}

	sweepers := []server.Sweeper{sessions, tracker}
	for _, lim := range []middleware.Limiter{searchLimiter, sessionLimiter} {
		if s, ok := lim.(server.Sweeper); ok {
			sweepers = append(sweepers, s)
		}
	}
	go server.RunJanitor(ctx, server.DefaultSweepInterval, zlog, sweepers...)

	engine := router.SetupRouter(zlog, cfg.CORSOrigins, api.Dependencies{
		Sessions:       sessions,
		Recipes:        client,
		Tracker:        tracker,
		SearchLimiter:  searchLimiter,
		SessionLimiter: sessionLimiter,
		Health:         backend.HealthCheck,
	})

	srv := server.NewServer(cfg, engine, zlog)
	if err := srv.Start(); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	zlog.Info("server stopped")
	return nil
}
