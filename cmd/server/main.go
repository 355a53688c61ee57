package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/shreyanshbahuguna/trustcheck-backend/internal/application/usecase"
	"github.com/shreyanshbahuguna/trustcheck-backend/internal/domain/service"
	"github.com/shreyanshbahuguna/trustcheck-backend/internal/infrastructure/config"
	"github.com/shreyanshbahuguna/trustcheck-backend/internal/infrastructure/kafka"
	"github.com/shreyanshbahuguna/trustcheck-backend/internal/infrastructure/observability"
	"github.com/shreyanshbahuguna/trustcheck-backend/internal/infrastructure/postgres"
	"github.com/shreyanshbahuguna/trustcheck-backend/internal/infrastructure/providers"
	"github.com/shreyanshbahuguna/trustcheck-backend/internal/presentation/rest"
)

const eventsTopic = "trustcheck.events"

func main() {
	cfg := config.Load()

	logger := observability.InitLogger(observability.LogConfig{
		Level:  cfg.LogLevel,
		Format: "json",
	})

	logger.Info("starting trustcheck-backend", slog.String("environment", cfg.Environment))

	_, metricsHandler, err := observability.InitMetrics(observability.MetricsConfig{
		ServiceName: "trustcheck-backend",
	})
	if err != nil {
		logger.Error("failed to initialize metrics", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Connect to PostgreSQL and apply pending migrations.
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()

	if err := postgres.RunMigrations(cfg.DatabaseURL, "file://./migrations"); err != nil {
		logger.Error("failed to run migrations", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("connected to database")

	// Keyword overrides are optional; built-in defaults apply otherwise.
	keywords, err := config.LoadKeywords(cfg.KeywordsFile)
	if err != nil {
		logger.Error("failed to load keywords file", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Redis warms the phishing feed across restarts when configured.
	var feedStore providers.FeedSnapshotStore
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		feedStore = providers.NewRedisSnapshotStore(redisClient, "trustcheck:openphish:snapshot", 24*time.Hour)
		logger.Info("phishing feed warm store enabled", slog.String("redis_addr", cfg.RedisAddr))
	}

	// Signal providers.
	vtClient := providers.NewVirusTotalClient(cfg.VirusTotalBaseURL, cfg.VirusTotalAPIKey, cfg.ProviderTimeout, logger)
	feedCache := providers.NewFeedCache(providers.FeedCacheConfig{
		FeedURL:         cfg.PhishingFeedURL,
		RefreshInterval: cfg.FeedRefreshInterval,
		Store:           feedStore,
		Logger:          logger,
	})
	lenderRegistry, err := providers.NewLenderRegistry(logger)
	if err != nil {
		logger.Error("failed to load lender registry", slog.String("error", err.Error()))
		os.Exit(1)
	}

	providerSet := service.Providers{
		URLScanner:      vtClient,
		News:            providers.NewNewsClient(cfg.NewsAPIURL, cfg.NewsAPIKey, keywords.Scam, cfg.ProviderTimeout, logger),
		Registration:    providers.NewWhoisClient(cfg.WhoisAPIURL, cfg.WhoisAPIKey, cfg.ProviderTimeout, logger),
		Blacklist:       providers.NewBlacklistService(logger),
		PhishingFeed:    feedCache,
		DomainScanner:   vtClient,
		CompanyRegistry: providers.NewCompanyRegistryClient(cfg.ProviderTimeout, logger),
		LenderRegistry:  lenderRegistry,
	}

	// Domain services.
	collector := service.NewCollector(providerSet, keywords.Financial, cfg.ProviderTimeout, logger)
	reducer := service.NewReducer()
	redirector := service.NewRedirector(providers.NewNetResolver(), 5*time.Second, logger)

	// Infrastructure adapters.
	artifactRepo := postgres.NewArtifactRepository(pool, logger)
	publisher := kafka.NewPublisher([]string{cfg.KafkaBroker}, eventsTopic, logger)
	defer publisher.Close()

	// Use cases.
	verifyUC := usecase.NewVerifyArtifact(collector, reducer, redirector, artifactRepo, publisher, logger)
	getArtifactUC := usecase.NewGetArtifact(artifactRepo)
	reportUC := usecase.NewReportArtifact(artifactRepo)

	// HTTP surface.
	verificationHandler := rest.NewVerificationHandler(verifyUC, getArtifactUC, reportUC, logger)
	healthHandler := rest.NewHealthHandler(logger, map[string]rest.ReadinessCheck{
		"database": func(ctx context.Context) error {
			return postgres.HealthCheck(ctx, pool)
		},
	})
	router := rest.NewRouter(verificationHandler, healthHandler, metricsHandler)

	httpServer := &http.Server{
		Addr:         cfg.HTTPAddress(),
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("HTTP server starting", slog.String("address", cfg.HTTPAddress()))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	logger.Info("trustcheck-backend started", slog.String("http_address", cfg.HTTPAddress()))

	// Wait for shutdown signal.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		logger.Info("received shutdown signal", slog.String("signal", sig.String()))
	case err := <-errCh:
		logger.Error("server error", slog.String("error", err.Error()))
	}

	logger.Info("shutting down trustcheck-backend")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
	}

	logger.Info("trustcheck-backend stopped")
}
