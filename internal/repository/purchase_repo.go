package repository

//go:generate mockgen -source=purchase_repo.go -destination=mocks/purchase_repo_mock.go -package=mocks

import (
	"context"
	"errors"
	"fmt"

	"wordflow/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PurchaseRepository defines methods for the local record of Stripe purchases.
type PurchaseRepository interface {
	// UpsertSubscription creates or replaces the purchase keyed by its Stripe subscription ID.
	UpsertSubscription(ctx context.Context, userID, productID, stripeSubscriptionID, status string) error
	// CreateOneTime records a one-time purchase. Replaying the same checkout session is a no-op.
	CreateOneTime(ctx context.Context, userID, productID, checkoutSessionID string) error
	// GetBySubscriptionID returns nil when no purchase is stored for the subscription.
	GetBySubscriptionID(ctx context.Context, stripeSubscriptionID string) (*model.Purchase, error)
	DeleteBySubscriptionID(ctx context.Context, stripeSubscriptionID string) error
}

type purchaseRepo struct {
	pool *pgxpool.Pool
}

// NewPurchaseRepo creates a new PurchaseRepository.
func NewPurchaseRepo(pool *pgxpool.Pool) PurchaseRepository {
	return &purchaseRepo{pool: pool}
}

func (r *purchaseRepo) UpsertSubscription(ctx context.Context, userID, productID, stripeSubscriptionID, status string) error {
	const q = `
		INSERT INTO purchases (user_id, kind, product_id, stripe_subscription_id, status, created_at, updated_at)
		VALUES ($1, 'SUBSCRIPTION', $2, $3, $4, NOW(), NOW())
		ON CONFLICT (stripe_subscription_id) DO UPDATE
		SET user_id = EXCLUDED.user_id,
			product_id = EXCLUDED.product_id,
			status = EXCLUDED.status,
			updated_at = NOW();
	`
	if _, err := r.pool.Exec(ctx, q, userID, productID, stripeSubscriptionID, status); err != nil {
		return fmt.Errorf("upsert subscription purchase %s for user %s: %w", stripeSubscriptionID, userID, err)
	}
	return nil
}

func (r *purchaseRepo) CreateOneTime(ctx context.Context, userID, productID, checkoutSessionID string) error {
	const q = `
		INSERT INTO purchases (user_id, kind, product_id, stripe_checkout_session_id, status, created_at, updated_at)
		VALUES ($1, 'ONE_TIME', $2, $3, 'completed', NOW(), NOW())
		ON CONFLICT (stripe_checkout_session_id) DO NOTHING;
	`
	if _, err := r.pool.Exec(ctx, q, userID, productID, checkoutSessionID); err != nil {
		return fmt.Errorf("create one-time purchase %s for user %s: %w", checkoutSessionID, userID, err)
	}
	return nil
}

func (r *purchaseRepo) GetBySubscriptionID(ctx context.Context, stripeSubscriptionID string) (*model.Purchase, error) {
	const q = `
		SELECT id, user_id, kind, product_id, stripe_subscription_id, stripe_checkout_session_id, status, created_at, updated_at
		FROM purchases
		WHERE stripe_subscription_id = $1
	`
	var p model.Purchase
	err := r.pool.QueryRow(ctx, q, stripeSubscriptionID).Scan(
		&p.ID,
		&p.UserID,
		&p.Kind,
		&p.ProductID,
		&p.StripeSubscriptionID,
		&p.StripeSessionID,
		&p.Status,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("fetch purchase for subscription %s: %w", stripeSubscriptionID, err)
	}
	return &p, nil
}

func (r *purchaseRepo) DeleteBySubscriptionID(ctx context.Context, stripeSubscriptionID string) error {
	const q = `DELETE FROM purchases WHERE stripe_subscription_id = $1`
	if _, err := r.pool.Exec(ctx, q, stripeSubscriptionID); err != nil {
		return fmt.Errorf("delete purchase for subscription %s: %w", stripeSubscriptionID, err)
	}
	return nil
}
