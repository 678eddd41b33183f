package service

import (
	"context"
	"fmt"

	"wordflow/internal/model"
	"wordflow/internal/pubsub"
	"wordflow/internal/repository"

	"github.com/rs/zerolog"
)

// EntitlementService keeps a user's monthly word limit in line with what they paid for.
// Quota writes are absolute sets, so replaying an event converges to the same value.
type EntitlementService interface {
	GrantOneTimePurchase(ctx context.Context, userID, productID, checkoutSessionID string) error
	StartSubscription(ctx context.Context, userID, subscriptionID, productID, status string) error
	// ChangeSubscription only writes when the product differs from the stored purchase.
	ChangeSubscription(ctx context.Context, userID, subscriptionID, productID, status string) (bool, error)
	EndSubscription(ctx context.Context, userID, subscriptionID string) error
}

type entitlementService struct {
	users       repository.UserRepository
	purchases   repository.PurchaseRepository
	catalog     *PlanCatalog
	publisher   pubsub.Publisher
	eventsTopic string
	logger      zerolog.Logger
}

func NewEntitlementService(
	users repository.UserRepository,
	purchases repository.PurchaseRepository,
	catalog *PlanCatalog,
	publisher pubsub.Publisher,
	eventsTopic string,
	logger zerolog.Logger,
) EntitlementService {
	if publisher == nil {
		publisher = pubsub.NoopPublisher{}
	}
	return &entitlementService{
		users:       users,
		purchases:   purchases,
		catalog:     catalog,
		publisher:   publisher,
		eventsTopic: eventsTopic,
		logger:      logger.With().Str("service", "EntitlementService").Logger(),
	}
}

// setQuota writes the plan's limit. Failures are logged only; the billing provider's
// redelivery or the next lifecycle event repairs the value.
func (s *entitlementService) setQuota(ctx context.Context, userID string, plan model.Plan, reason string) {
	limit := plan.WordLimit()
	if err := s.users.SetMonthlyWordLimit(ctx, userID, limit); err != nil {
		s.logger.Error().Err(err).
			Str("user_id", userID).
			Str("plan", string(plan)).
			Int("word_limit", limit).
			Msg("Failed to update monthly word limit")
		return
	}
	s.logger.Info().
		Str("user_id", userID).
		Str("plan", string(plan)).
		Int("word_limit", limit).
		Str("reason", reason).
		Msg("Monthly word limit updated")

	if s.eventsTopic == "" {
		return
	}
	_, err := pubsub.PublishEvent(ctx, s.publisher, s.eventsTopic, pubsub.EventEntitlementChanged, map[string]any{
		"userId":    userID,
		"plan":      plan,
		"wordLimit": limit,
		"reason":    reason,
	})
	if err != nil {
		s.logger.Warn().Err(err).Str("user_id", userID).Msg("Failed to publish entitlement event")
	}
}

func (s *entitlementService) GrantOneTimePurchase(ctx context.Context, userID, productID, checkoutSessionID string) error {
	plan := s.catalog.PlanFor(productID)
	s.setQuota(ctx, userID, plan, "one_time_purchase")
	if err := s.purchases.CreateOneTime(ctx, userID, productID, checkoutSessionID); err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Str("checkout_session_id", checkoutSessionID).Msg("Failed to store one-time purchase")
		return fmt.Errorf("store one-time purchase: %w", err)
	}
	return nil
}

func (s *entitlementService) StartSubscription(ctx context.Context, userID, subscriptionID, productID, status string) error {
	plan := s.catalog.PlanFor(productID)
	s.setQuota(ctx, userID, plan, "subscription_created")
	if err := s.purchases.UpsertSubscription(ctx, userID, productID, subscriptionID, status); err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Str("subscription_id", subscriptionID).Msg("Failed to store subscription purchase")
		return fmt.Errorf("store subscription purchase: %w", err)
	}
	return nil
}

func (s *entitlementService) ChangeSubscription(ctx context.Context, userID, subscriptionID, productID, status string) (bool, error) {
	existing, err := s.purchases.GetBySubscriptionID(ctx, subscriptionID)
	if err != nil {
		s.logger.Error().Err(err).Str("subscription_id", subscriptionID).Msg("Failed to fetch stored subscription purchase")
		return false, fmt.Errorf("fetch subscription purchase: %w", err)
	}
	if existing != nil && existing.ProductID == productID {
		s.logger.Debug().Str("subscription_id", subscriptionID).Str("product_id", productID).Msg("Subscription product unchanged")
		return false, nil
	}

	plan := s.catalog.PlanFor(productID)
	s.setQuota(ctx, userID, plan, "subscription_updated")
	if err := s.purchases.UpsertSubscription(ctx, userID, productID, subscriptionID, status); err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Str("subscription_id", subscriptionID).Msg("Failed to update subscription purchase")
		return true, fmt.Errorf("update subscription purchase: %w", err)
	}
	return true, nil
}

func (s *entitlementService) EndSubscription(ctx context.Context, userID, subscriptionID string) error {
	s.setQuota(ctx, userID, model.PlanFree, "subscription_deleted")
	if err := s.purchases.DeleteBySubscriptionID(ctx, subscriptionID); err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Str("subscription_id", subscriptionID).Msg("Failed to delete subscription purchase")
		return fmt.Errorf("delete subscription purchase: %w", err)
	}
	return nil
}
