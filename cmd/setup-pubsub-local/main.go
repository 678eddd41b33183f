package main

import (
	"context"
	"time"

	"wordflow/internal/config"
	"wordflow/internal/logger"

	"cloud.google.com/go/pubsub"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"google.golang.org/api/option"
)

// Creates the domain events topic and an audit pull subscription on the
// Pub/Sub emulator. Never point this at a real project.
func main() {
	envErr := godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		log := logger.New("")
		log.Fatal().Msgf("Failed to load config: %v", err)
	}
	log := logger.New(cfg.LogLevel)
	if envErr != nil {
		log.Warn().Msg("No .env file found, relying on system environment variables")
	}

	if cfg.GCPProjectID == "" {
		log.Fatal().Msg("GCP_PROJECT_ID is not set")
	}
	if cfg.PubSubEmulatorHost == "" {
		log.Fatal().Msg("PUBSUB_EMULATOR_HOST must be set; this tool only targets the emulator")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := pubsub.NewClient(ctx, cfg.GCPProjectID,
		option.WithEndpoint(cfg.PubSubEmulatorHost),
		option.WithoutAuthentication(),
	)
	if err != nil {
		log.Fatal().Msgf("Failed to create Pub/Sub client: %v", err)
	}
	defer func() {
		if err := client.Close(); err != nil {
			log.Error().Msgf("Failed to close pubsub client: %v", err)
		}
	}()

	if err := ensureTopicWithAudit(ctx, client, cfg.PubSubEventsTopic, log); err != nil {
		log.Fatal().Err(err).Msg("Pub/Sub setup failed")
	}
	log.Info().Msg("Pub/Sub setup for local environment complete")
}

func ensureTopicWithAudit(ctx context.Context, client *pubsub.Client, topicID string, log zerolog.Logger) error {
	topic := client.Topic(topicID)
	exists, err := topic.Exists(ctx)
	if err != nil {
		return err
	}
	if !exists {
		if topic, err = client.CreateTopic(ctx, topicID); err != nil {
			return err
		}
		log.Info().Str("topic", topicID).Msg("Created topic")
	} else {
		log.Info().Str("topic", topicID).Msg("Topic already exists")
	}

	subID := topicID + "-audit"
	sub := client.Subscription(subID)
	exists, err = sub.Exists(ctx)
	if err != nil {
		return err
	}
	if exists {
		log.Info().Str("subscription", subID).Msg("Subscription already exists")
		return nil
	}
	_, err = client.CreateSubscription(ctx, subID, pubsub.SubscriptionConfig{
		Topic:             topic,
		AckDeadline:       30 * time.Second,
		RetentionDuration: 7 * 24 * time.Hour,
	})
	if err != nil {
		return err
	}
	log.Info().Str("subscription", subID).Msg("Created audit subscription")
	return nil
}
