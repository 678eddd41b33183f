package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	// Local & Github Secrets (Fill up for local development)
	DBConnectionString string `envconfig:"DB_CONNECTION_STRING" required:"true"`
	JWTSecret          string `envconfig:"SUPABASE_JWT_SECRET" required:"true"`
	Environment        string `envconfig:"ENV" default:"development"`
	LogLevel           string `envconfig:"LOG_LEVEL" default:"debug"`
	Port               string `envconfig:"PORT" default:"8080"`

	// Stripe
	StripeSecretKey     string `envconfig:"STRIPE_SECRET_KEY"`
	StripeWebhookSecret string `envconfig:"STRIPE_WEBHOOK_SECRET"`
	PlanCatalogPath     string `envconfig:"PLAN_CATALOG_PATH" default:"plans.yaml"`

	// Post pipeline collaborator
	PipelineBaseURL           string `envconfig:"PIPELINE_BASE_URL" required:"true"`
	PipelineAPIKey            string `envconfig:"PIPELINE_API_KEY"`
	PipelineRequestTimeoutSec int    `envconfig:"PIPELINE_REQUEST_TIMEOUT_SEC" default:"120"`

	// Automation batch settings
	AutomationAPIKey         string  `envconfig:"AUTOMATION_API_KEY"`
	AutomationMaxPosts       int     `envconfig:"AUTOMATION_MAX_POSTS" default:"10"`
	AutomationMaxRetries     int     `envconfig:"AUTOMATION_MAX_RETRIES" default:"3"`
	AutomationBackoffMinutes []int   `envconfig:"AUTOMATION_BACKOFF_MINUTES" default:"10,30,120"`
	AutomationPostDelayMs    int     `envconfig:"AUTOMATION_POST_DELAY_MS" default:"2000"`
	AutomationStepDelayMs    int     `envconfig:"AUTOMATION_STEP_DELAY_MS" default:"1000"`
	AutomationClaimLeaseMin  int     `envconfig:"AUTOMATION_CLAIM_LEASE_MIN" default:"15"`
	AutomationIntervalSec    int     `envconfig:"AUTOMATION_INTERVAL_SEC" default:"300"`
	AutomationTickLockSec    int     `envconfig:"AUTOMATION_TICK_LOCK_SEC" default:"600"`
	SchedulerAudience        string  `envconfig:"SCHEDULER_AUDIENCE"`
	SchedulerServiceAccount  string  `envconfig:"SCHEDULER_SERVICE_ACCOUNT_EMAIL"`
	UsageRateLimitPerSecond  float64 `envconfig:"USAGE_RATE_LIMIT_PER_SECOND" default:"5"`
	UsageRateLimitBurst      int     `envconfig:"USAGE_RATE_LIMIT_BURST" default:"10"`

	// Redis (optional tick lock)
	RedisURL string `envconfig:"REDIS_URL"`

	// GCP
	GCPProjectID         string `envconfig:"GCP_PROJECT_ID"`
	PubSubEmulatorHost   string `envconfig:"PUBSUB_EMULATOR_HOST"`
	PubSubEventsTopic    string `envconfig:"PUBSUB_EVENTS_TOPIC" default:"wordflow-events"`
	SecretManagerProject string `envconfig:"SECRET_MANAGER_PROJECT"`

	// Webhook archive (S3 compatible)
	WebhookArchiveBucket string `envconfig:"WEBHOOK_ARCHIVE_BUCKET"`
	S3URL                string `envconfig:"S3_URL"`
	S3Region             string `envconfig:"S3_REGION" default:"us-east-1"`
	S3AccessKey          string `envconfig:"S3_ACCESS_KEY"`
	S3SecretKey          string `envconfig:"S3_SECRET_KEY"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// IsDevelopment reports whether the service runs against local infrastructure.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func (c *Config) PipelineTimeout() time.Duration {
	return time.Duration(c.PipelineRequestTimeoutSec) * time.Second
}

func (c *Config) AutomationInterval() time.Duration {
	return time.Duration(c.AutomationIntervalSec) * time.Second
}

func (c *Config) AutomationTickLockTTL() time.Duration {
	return time.Duration(c.AutomationTickLockSec) * time.Second
}

func (c *Config) AutomationClaimLease() time.Duration {
	return time.Duration(c.AutomationClaimLeaseMin) * time.Minute
}

func (c *Config) AutomationPostDelay() time.Duration {
	return time.Duration(c.AutomationPostDelayMs) * time.Millisecond
}

func (c *Config) AutomationStepDelay() time.Duration {
	return time.Duration(c.AutomationStepDelayMs) * time.Millisecond
}

// AutomationBackoff converts the configured backoff table into durations.
func (c *Config) AutomationBackoff() []time.Duration {
	out := make([]time.Duration, 0, len(c.AutomationBackoffMinutes))
	for _, m := range c.AutomationBackoffMinutes {
		out = append(out, time.Duration(m)*time.Minute)
	}
	return out
}
