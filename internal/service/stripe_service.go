package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"wordflow/internal/archive"
	"wordflow/internal/metrics"
	"wordflow/internal/repository"

	"github.com/rs/zerolog"
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/client"
	"github.com/stripe/stripe-go/v82/webhook"
)

var (
	ErrInvalidSignature = errors.New("stripe signature verification failed")
	ErrInvalidPayload   = errors.New("invalid stripe event payload")
	errUserUnresolved   = errors.New("cannot determine user for stripe event")
)

// CheckoutLineItems looks up the purchased item of a checkout session when the
// webhook payload does not carry it.
type CheckoutLineItems interface {
	FirstLineItem(ctx context.Context, sessionID string) (priceID, productID string, err error)
}

type stripeCheckoutLineItems struct {
	api *client.API
}

// NewStripeCheckoutLineItems uses a Stripe API client bound to secretKey.
func NewStripeCheckoutLineItems(secretKey string) CheckoutLineItems {
	return &stripeCheckoutLineItems{api: client.New(secretKey, nil)}
}

func (c *stripeCheckoutLineItems) FirstLineItem(ctx context.Context, sessionID string) (string, string, error) {
	params := &stripe.CheckoutSessionParams{}
	params.Context = ctx
	params.AddExpand("line_items")
	sess, err := c.api.CheckoutSessions.Get(sessionID, params)
	if err != nil {
		return "", "", fmt.Errorf("fetch checkout session %s: %w", sessionID, err)
	}
	if sess.LineItems == nil || len(sess.LineItems.Data) == 0 || sess.LineItems.Data[0].Price == nil {
		return "", "", fmt.Errorf("checkout session %s has no line items", sessionID)
	}
	price := sess.LineItems.Data[0].Price
	productID := ""
	if price.Product != nil {
		productID = price.Product.ID
	}
	return price.ID, productID, nil
}

// StripeService verifies Stripe webhooks and turns them into entitlement changes.
type StripeService struct {
	webhookSecret string
	userRepo      repository.UserRepository
	entitlements  EntitlementService
	catalog       *PlanCatalog
	lineItems     CheckoutLineItems
	archiver      archive.Archiver
	metrics       *metrics.Metrics
	logger        zerolog.Logger
}

func NewStripeService(
	webhookSecret string,
	userRepo repository.UserRepository,
	entitlements EntitlementService,
	catalog *PlanCatalog,
	lineItems CheckoutLineItems,
	archiver archive.Archiver,
	m *metrics.Metrics,
	logger zerolog.Logger,
) *StripeService {
	if archiver == nil {
		archiver = archive.NoopArchiver{}
	}
	lg := logger.With().Str("service", "StripeService").Logger()
	return &StripeService{
		webhookSecret: webhookSecret,
		userRepo:      userRepo,
		entitlements:  entitlements,
		catalog:       catalog,
		lineItems:     lineItems,
		archiver:      archiver,
		metrics:       m,
		logger:        lg,
	}
}

// getUserIDFromEvent resolves the user from metadata, falling back to the Stripe customer.
func (s *StripeService) getUserIDFromEvent(ctx context.Context, metadata map[string]string, customer *stripe.Customer) (string, error) {
	if userID, ok := metadata["user_id"]; ok && userID != "" {
		return userID, nil
	}
	if customer == nil || customer.ID == "" {
		return "", errUserUnresolved
	}
	s.logger.Warn().Str("stripe_customer_id", customer.ID).Msg("Missing user_id metadata; looking up user by customer ID")
	u, err := s.userRepo.GetUserByStripeCustomerID(ctx, customer.ID)
	if err != nil {
		return "", fmt.Errorf("failed to lookup user by Stripe customer ID: %w", err)
	}
	if u == nil {
		return "", fmt.Errorf("%w: no user for customer %s", errUserUnresolved, customer.ID)
	}
	return u.UserID, nil
}

// HandleEvent verifies and applies one webhook delivery. ErrInvalidSignature and
// ErrInvalidPayload map to 400; any other error asks Stripe to redeliver.
func (s *StripeService) HandleEvent(ctx context.Context, payload []byte, signature string) error {
	event, err := webhook.ConstructEvent(payload, signature, s.webhookSecret)
	if err != nil {
		s.logger.Error().Err(err).Msg("Signature verification failed for Stripe webhook")
		s.metrics.WebhookEvent("unverified", "rejected")
		return fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}
	eventType := string(event.Type)
	s.logger.Info().Str("event_id", event.ID).Str("event_type", eventType).Msg("Stripe webhook received")

	if err := s.archiver.Archive(ctx, "stripe", event.ID, payload); err != nil {
		s.logger.Warn().Err(err).Str("event_id", event.ID).Msg("Failed to archive Stripe webhook")
	}

	err = s.dispatch(ctx, event)
	switch {
	case err == nil:
		s.metrics.WebhookEvent(eventType, "ok")
	case errors.Is(err, errUserUnresolved):
		// Redelivery cannot fix a missing user mapping.
		s.logger.Error().Err(err).Str("event_id", event.ID).Str("event_type", eventType).Msg("Acknowledging Stripe event without a resolvable user")
		s.metrics.WebhookEvent(eventType, "unresolved")
		return nil
	case errors.Is(err, ErrInvalidPayload):
		s.metrics.WebhookEvent(eventType, "rejected")
	default:
		s.metrics.WebhookEvent(eventType, "error")
	}
	return err
}

func (s *StripeService) dispatch(ctx context.Context, event stripe.Event) error {
	if event.Data == nil {
		return ErrInvalidPayload
	}
	switch event.Type {
	case "checkout.session.completed":
		var cs stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &cs); err != nil {
			s.logger.Error().Err(err).Msg("Invalid checkout.session data")
			return fmt.Errorf("%w: %v", ErrInvalidPayload, err)
		}
		return s.handleCheckoutCompleted(ctx, &cs)
	case "customer.subscription.created", "customer.subscription.updated":
		var ss stripe.Subscription
		if err := json.Unmarshal(event.Data.Raw, &ss); err != nil {
			s.logger.Error().Err(err).Str("event_type", string(event.Type)).Msg("Invalid subscription payload")
			return fmt.Errorf("%w: %v", ErrInvalidPayload, err)
		}
		return s.handleSubscriptionUpsert(ctx, &ss, event.Type == "customer.subscription.created")
	case "customer.subscription.deleted":
		var ss stripe.Subscription
		if err := json.Unmarshal(event.Data.Raw, &ss); err != nil {
			s.logger.Error().Err(err).Msg("Invalid customer.subscription.deleted payload")
			return fmt.Errorf("%w: %v", ErrInvalidPayload, err)
		}
		userID, err := s.getUserIDFromEvent(ctx, ss.Metadata, ss.Customer)
		if err != nil {
			return err
		}
		return s.entitlements.EndSubscription(ctx, userID, ss.ID)
	case "invoice.payment_succeeded":
		// Renewals keep the current plan; the ledger resets by month on its own.
		s.logger.Info().Msg("Invoice payment succeeded, no quota change")
		return nil
	default:
		s.logger.Debug().Str("event_type", string(event.Type)).Msg("Ignoring unhandled Stripe event")
		return nil
	}
}

func (s *StripeService) handleCheckoutCompleted(ctx context.Context, cs *stripe.CheckoutSession) error {
	if cs.Mode != stripe.CheckoutSessionModePayment {
		s.logger.Debug().Str("checkout_session_id", cs.ID).Str("mode", string(cs.Mode)).Msg("Checkout handled by subscription events")
		return nil
	}
	userID, err := s.getUserIDFromEvent(ctx, cs.Metadata, cs.Customer)
	if err != nil {
		return err
	}

	productID := cs.Metadata["product_id"]
	if productID == "" && cs.LineItems != nil && len(cs.LineItems.Data) > 0 && cs.LineItems.Data[0].Price != nil {
		price := cs.LineItems.Data[0].Price
		productID = s.catalog.Resolve(price.ID, productOf(price))
	}
	if productID == "" {
		if s.lineItems == nil {
			return fmt.Errorf("checkout session %s: product unknown and no Stripe client configured", cs.ID)
		}
		priceID, prodID, err := s.lineItems.FirstLineItem(ctx, cs.ID)
		if err != nil {
			s.logger.Error().Err(err).Str("checkout_session_id", cs.ID).Msg("Failed to resolve checkout line item")
			return err
		}
		productID = s.catalog.Resolve(priceID, prodID)
	}

	s.logger.Info().Str("checkout_session_id", cs.ID).Str("product_id", productID).Str("user_id", userID).Msg("One-time purchase completed")
	return s.entitlements.GrantOneTimePurchase(ctx, userID, productID, cs.ID)
}

func (s *StripeService) handleSubscriptionUpsert(ctx context.Context, ss *stripe.Subscription, created bool) error {
	if ss.Items == nil || len(ss.Items.Data) == 0 || ss.Items.Data[0].Price == nil {
		s.logger.Error().Str("subscription_id", ss.ID).Msg("Subscription has no items")
		return fmt.Errorf("%w: subscription %s has no items", ErrInvalidPayload, ss.ID)
	}
	price := ss.Items.Data[0].Price
	productID := s.catalog.Resolve(price.ID, productOf(price))

	userID, err := s.getUserIDFromEvent(ctx, ss.Metadata, ss.Customer)
	if err != nil {
		return err
	}
	s.logger.Info().Str("subscription_id", ss.ID).Str("product_id", productID).Str("user_id", userID).Bool("created", created).Msg("Subscription event")

	if created {
		return s.entitlements.StartSubscription(ctx, userID, ss.ID, productID, string(ss.Status))
	}
	_, err = s.entitlements.ChangeSubscription(ctx, userID, ss.ID, productID, string(ss.Status))
	return err
}

func productOf(p *stripe.Price) string {
	if p == nil || p.Product == nil {
		return ""
	}
	return p.Product.ID
}
