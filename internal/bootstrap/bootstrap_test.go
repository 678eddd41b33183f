package bootstrap

import (
	"context"
	"testing"
	"time"

	"wordflow/internal/config"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAutomationConfigFromEnv(t *testing.T) {
	cfg := &config.Config{
		AutomationMaxPosts:        20,
		AutomationMaxRetries:      4,
		AutomationBackoffMinutes:  []int{5, 15},
		AutomationPostDelayMs:     500,
		AutomationStepDelayMs:     250,
		AutomationClaimLeaseMin:   30,
		AutomationTickLockSec:     120,
		PipelineRequestTimeoutSec: 90,
		PubSubEventsTopic:         "events",
	}

	got := AutomationConfig(cfg)

	assert.Equal(t, 20, got.MaxPosts)
	assert.Equal(t, 4, got.Policy.MaxRetries)
	assert.Equal(t, []time.Duration{5 * time.Minute, 15 * time.Minute}, got.Policy.Backoff)
	assert.Equal(t, 500*time.Millisecond, got.PostDelay)
	assert.Equal(t, 250*time.Millisecond, got.StepDelay)
	assert.Equal(t, 30*time.Minute, got.ClaimLease)
	assert.Equal(t, 2*time.Minute, got.TickLockTTL)
	assert.Equal(t, 90*time.Second, got.PipelineTimeout)
	assert.Equal(t, "events", got.EventsTopic)
}

func TestResolveSecretsSkippedWithoutProject(t *testing.T) {
	cfg := &config.Config{StripeSecretKey: "sk_env"}

	require.NoError(t, ResolveSecrets(context.Background(), cfg, zerolog.Nop()))
	assert.Equal(t, "sk_env", cfg.StripeSecretKey)
}

func TestContainerClosesInReverseOrder(t *testing.T) {
	var order []int
	c := &Container{}
	c.closers = append(c.closers, func() { order = append(order, 1) }, func() { order = append(order, 2) })

	c.Close()
	assert.Equal(t, []int{2, 1}, order)
}
