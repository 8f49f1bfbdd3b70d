package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/zuno/backend/config"
	httpDelivery "github.com/zuno/backend/internal/delivery/http"
	"github.com/zuno/backend/internal/domain"
	"github.com/zuno/backend/internal/infrastructure/gemini"
	"github.com/zuno/backend/internal/infrastructure/ratelimit"
	"github.com/zuno/backend/internal/infrastructure/serpapi"
	"github.com/zuno/backend/internal/observability"
	"github.com/zuno/backend/internal/usecase"
)

const shutdownTimeout = 15 * time.Second

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(observability.LogConfig{
		Level:       cfg.Log.Level,
		Format:      cfg.Log.Format,
		ServiceName: "zuno",
	})

	logger.Info().
		Str("environment", cfg.Server.Environment).
		Str("port", cfg.Server.Port).
		Str("ratelimit_store", cfg.RateLimit.Store).
		Dur("request_timeout", cfg.Server.RequestTimeout).
		Msg("Starting Zuno backend v1.0.0")

	// Initialize infrastructure dependencies
	searchClient := serpapi.NewClient(serpapi.Config{
		APIKey:            cfg.SerpAPI.APIKey,
		BaseURL:           cfg.SerpAPI.BaseURL,
		RequestsPerSecond: cfg.SerpAPI.RequestsPerSecond,
		Burst:             cfg.SerpAPI.Burst,
		Timeout:           cfg.SerpAPI.Timeout,
		Logger:            logger,
	})

	generator := gemini.NewClient(gemini.Config{
		APIKey:      cfg.Gemini.APIKey,
		BaseURL:     cfg.Gemini.BaseURL,
		Model:       cfg.Gemini.Model,
		Temperature: cfg.Gemini.Temperature,
		Timeout:     cfg.Gemini.Timeout,
		Logger:      logger,
	})

	store, closeStore, err := newRateLimitStore(cfg.RateLimit, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize rate limit store")
	}
	defer closeStore()

	// Initialize usecase layer
	recommendationService := usecase.NewRecommendationService(searchClient, generator, logger)

	// Create HTTP handler with dependencies
	handler := httpDelivery.NewHandler(recommendationService, logger)

	// Setup router
	router := httpDelivery.SetupRouter(cfg, handler, store, logger)

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		// Leave room for the request timeout plus response encoding
		WriteTimeout: cfg.Server.RequestTimeout + 10*time.Second,
		IdleTimeout:  2 * time.Minute,
	}

	// Start server in goroutine
	serverErrors := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", addr).Msg("Server listening")
		serverErrors <- srv.ListenAndServe()
	}()

	// Wait for interrupt or error
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("Server error")
		}
	case sig := <-shutdown:
		logger.Info().Str("signal", sig.String()).Msg("Shutdown signal received")
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("Graceful shutdown failed")
		if err := srv.Close(); err != nil {
			logger.Error().Err(err).Msg("Forced shutdown failed")
		}
	}

	logger.Info().Msg("Server stopped")
}

// newRateLimitStore builds the configured per-IP store and its cleanup func
func newRateLimitStore(cfg config.RateLimitConfig, logger zerolog.Logger) (domain.RateLimitStore, func(), error) {
	switch cfg.Store {
	case "redis":
		store, err := ratelimit.NewRedisStore(context.Background(), cfg.RedisURL, cfg.PerIP, time.Minute)
		if err != nil {
			return nil, nil, err
		}
		logger.Info().Int("per_ip", cfg.PerIP).Msg("Using Redis rate limit store")
		return store, func() { _ = store.Close() }, nil
	default:
		store := ratelimit.NewMemoryStore(cfg.PerIP, cfg.Burst)
		logger.Info().Int("per_ip", cfg.PerIP).Int("burst", cfg.Burst).Msg("Using in-memory rate limit store")
		return store, func() { _ = store.Close() }, nil
	}
}
