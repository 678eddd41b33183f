package main

import (
	"context"
	"flag"
	"os/signal"
	"syscall"
	"time"

	"wordflow/internal/bootstrap"
	"wordflow/internal/config"
	"wordflow/internal/logger"
	"wordflow/internal/orchestrator/automation"

	"github.com/joho/godotenv"
)

func main() {
	mode := flag.String("mode", "", "Orchestrator mode: automation")
	flag.Parse()

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

	// Set up context with graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	startCtx, cancelStart := context.WithTimeout(ctx, 30*time.Second)
	defer cancelStart()
	if err := bootstrap.ResolveSecrets(startCtx, cfg, log); err != nil {
		log.Fatal().Msgf("Failed to resolve secrets: %v", err)
	}
	c, err := bootstrap.Build(startCtx, cfg, log)
	if err != nil {
		log.Fatal().Msgf("Failed to build services: %v", err)
	}
	defer c.Close()

	var runErr error
	switch *mode {
	case "automation":
		runErr = automation.Run(ctx, log, c.Automation, cfg.AutomationInterval(), cfg.AutomationMaxPosts)
	default:
		log.Error().Msgf("Invalid mode: %q", *mode)
		return
	}

	if runErr != nil {
		log.Error().Msgf("%s orchestrator failed: %v", *mode, runErr)
		return
	}
	log.Info().Msgf("%s orchestrator stopped gracefully", *mode)
}
