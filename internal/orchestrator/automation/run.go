package automation

import (
	"context"
	"time"

	"wordflow/internal/service"

	"github.com/rs/zerolog"
)

// Processor runs one batch tick.
type Processor interface {
	ProcessScheduled(ctx context.Context, maxPosts int) (*service.BatchResult, error)
}

// Run ticks immediately and then every interval until ctx is cancelled.
// A failed tick is logged and the loop keeps going.
func Run(ctx context.Context, logger zerolog.Logger, processor Processor, interval time.Duration, maxPosts int) error {
	logger = logger.With().Str("orchestrator", "automation").Logger()
	logger.Info().Dur("interval", interval).Int("max_posts", maxPosts).Msg("Starting automation orchestrator")

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		tick(ctx, logger, processor, maxPosts)
		select {
		case <-ctx.Done():
			logger.Info().Msg("Shutting down automation orchestrator")
			return nil
		case <-ticker.C:
		}
	}
}

func tick(ctx context.Context, logger zerolog.Logger, processor Processor, maxPosts int) {
	if ctx.Err() != nil {
		return
	}
	result, err := processor.ProcessScheduled(ctx, maxPosts)
	if err != nil {
		logger.Error().Err(err).Msg("Automation tick failed")
		return
	}
	if result.Skipped {
		logger.Debug().Msg("Automation tick skipped, another worker holds the lock")
		return
	}
	logger.Info().
		Int("processed", result.Processed).
		Int("success_count", result.SuccessCount).
		Int("error_count", result.ErrorCount).
		Msg("Automation tick done")
}
