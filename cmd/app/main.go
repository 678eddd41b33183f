package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"wordflow/internal/api/v1/router"
	"wordflow/internal/bootstrap"
	"wordflow/internal/config"
	"wordflow/internal/logger"

	"github.com/joho/godotenv"
)

// @title wordflow API
// @version 1.0
// @description Usage ledger, scheduled post automation and Stripe entitlement sync.
// @BasePath /v1
// @Schemes http https

func main() {
	// 1. Load configuration
	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log := logger.New("")
		log.Fatal().Msgf("Error loading config: %v", err)
	}
	log := logger.New(cfg.LogLevel)
	if envErr != nil {
		log.Warn().Msg("Warning: no .env file found")
	}

	startCtx, cancelStart := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelStart()

	if err := bootstrap.ResolveSecrets(startCtx, cfg, log); err != nil {
		log.Fatal().Msgf("Failed to resolve secrets: %v", err)
	}

	// 2. Connect infrastructure and build services
	c, err := bootstrap.Build(startCtx, cfg, log)
	if err != nil {
		log.Fatal().Msgf("Failed to build services: %v", err)
	}
	defer c.Close()

	r := router.New(router.Deps{
		Config:     cfg,
		Usage:      c.Usage,
		Automation: c.Automation,
		Stripe:     c.Stripe,
		DB:         c.Pool,
		Metrics:    c.Metrics,
	}, log)

	// 3. Create HTTP server. A tick runs sequentially with delays, so writes get a long timeout.
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Msgf("Server starting on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Msgf("Listen: %s", err)
		}
	}()

	// 4. Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutdown signal received, exiting...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Msgf("Server forced to shutdown: %v", err)
		return
	}
	log.Info().Msg("Server shut down gracefully")
}
