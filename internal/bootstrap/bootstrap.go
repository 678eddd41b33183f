// Package bootstrap builds the infrastructure clients and services shared by
// the API server and the orchestrator.
package bootstrap

import (
	"context"
	"fmt"

	"wordflow/internal/archive"
	"wordflow/internal/config"
	"wordflow/internal/database"
	"wordflow/internal/lock"
	"wordflow/internal/metrics"
	"wordflow/internal/model"
	"wordflow/internal/pubsub"
	"wordflow/internal/repository"
	"wordflow/internal/secrets"
	"wordflow/internal/service"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// Container owns every long-lived dependency. Close releases them in reverse
// order of construction.
type Container struct {
	Pool       *pgxpool.Pool
	Metrics    *metrics.Metrics
	Usage      service.UsageService
	Automation service.AutomationService
	Stripe     *service.StripeService

	closers []func()
}

func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
}

// ResolveSecrets fills empty credentials from Secret Manager when a project is set.
func ResolveSecrets(ctx context.Context, cfg *config.Config, logger zerolog.Logger) error {
	if cfg.SecretManagerProject == "" {
		return nil
	}
	client, err := secrets.NewClient(ctx)
	if err != nil {
		return err
	}
	defer client.Close()

	resolver := secrets.NewResolver(client, cfg.SecretManagerProject, logger)
	return resolver.Fill(ctx, map[string]*string{
		"STRIPE_SECRET_KEY":     &cfg.StripeSecretKey,
		"STRIPE_WEBHOOK_SECRET": &cfg.StripeWebhookSecret,
		"AUTOMATION_API_KEY":    &cfg.AutomationAPIKey,
	})
}

// AutomationConfig maps the environment onto the batch processor settings.
func AutomationConfig(cfg *config.Config) service.AutomationConfig {
	return service.AutomationConfig{
		MaxPosts: cfg.AutomationMaxPosts,
		Policy: model.RetryPolicy{
			MaxRetries: cfg.AutomationMaxRetries,
			Backoff:    cfg.AutomationBackoff(),
		},
		PostDelay:       cfg.AutomationPostDelay(),
		StepDelay:       cfg.AutomationStepDelay(),
		PipelineTimeout: cfg.PipelineTimeout(),
		ClaimLease:      cfg.AutomationClaimLease(),
		TickLockTTL:     cfg.AutomationTickLockTTL(),
		EventsTopic:     cfg.PubSubEventsTopic,
	}
}

// Build connects to Postgres and the optional backends and wires the services.
func Build(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*Container, error) {
	c := &Container{Metrics: metrics.New()}

	pool, err := database.NewPool(ctx, database.Options{
		DSN:         cfg.DBConnectionString,
		Development: cfg.IsDevelopment(),
	}, logger)
	if err != nil {
		return nil, err
	}
	c.Pool = pool
	c.closers = append(c.closers, pool.Close)

	var publisher pubsub.Publisher = pubsub.NoopPublisher{}
	if cfg.GCPProjectID != "" {
		p, err := pubsub.NewPublisher(ctx, cfg.GCPProjectID)
		if err != nil {
			c.Close()
			return nil, err
		}
		publisher = p
		c.closers = append(c.closers, func() {
			if err := p.Close(); err != nil {
				logger.Warn().Err(err).Msg("Failed to close Pub/Sub client")
			}
		})
	} else {
		logger.Info().Msg("GCP_PROJECT_ID not set, domain events disabled")
	}

	var locker lock.Locker = lock.NoopLocker{}
	if cfg.RedisURL != "" {
		rdb, err := lock.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			// Claims are already exclusive; the tick lock only saves wasted work.
			logger.Warn().Err(err).Msg("Redis unavailable, running without tick lock")
		} else {
			locker = lock.NewRedisLocker(rdb)
			c.closers = append(c.closers, func() { _ = rdb.Close() })
		}
	}

	var archiver archive.Archiver = archive.NoopArchiver{}
	if cfg.WebhookArchiveBucket != "" {
		s3Client, err := archive.NewS3Client(ctx, archive.S3Options{
			Endpoint:  cfg.S3URL,
			Region:    cfg.S3Region,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
		})
		if err != nil {
			c.Close()
			return nil, err
		}
		archiver = archive.NewS3Archiver(s3Client, cfg.WebhookArchiveBucket)
	}

	catalog, err := service.LoadPlanCatalog(cfg.PlanCatalogPath)
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("load plan catalog: %w", err)
	}
	logger.Info().Int("products", catalog.Len()).Msg("Plan catalog loaded")

	usageRepo := repository.NewUsageRepo(pool)
	userRepo := repository.NewUserRepo(pool)
	purchaseRepo := repository.NewPurchaseRepo(pool)
	postRepo := repository.NewPostRepo(pool)
	orgRepo := repository.NewOrganizationRepo(pool)

	c.Usage = service.NewUsageService(usageRepo, userRepo, logger, service.WithUsageMetrics(c.Metrics))

	pipeline := service.NewPipelineClient(cfg.PipelineBaseURL, cfg.PipelineAPIKey, cfg.PipelineTimeout(), logger)
	c.Automation = service.NewAutomationService(postRepo, orgRepo, pipeline, AutomationConfig(cfg), logger,
		service.WithLocker(locker),
		service.WithPublisher(publisher),
		service.WithAutomationMetrics(c.Metrics),
	)

	entitlements := service.NewEntitlementService(userRepo, purchaseRepo, catalog, publisher, cfg.PubSubEventsTopic, logger)
	var lineItems service.CheckoutLineItems
	if cfg.StripeSecretKey != "" {
		lineItems = service.NewStripeCheckoutLineItems(cfg.StripeSecretKey)
	} else {
		logger.Warn().Msg("STRIPE_SECRET_KEY not set, checkout line items cannot be fetched")
	}
	if cfg.StripeWebhookSecret == "" {
		logger.Warn().Msg("STRIPE_WEBHOOK_SECRET not set, every webhook will fail verification")
	}
	c.Stripe = service.NewStripeService(cfg.StripeWebhookSecret, userRepo, entitlements, catalog, lineItems, archiver, c.Metrics, logger)

	return c, nil
}
