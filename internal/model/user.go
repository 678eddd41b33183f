package model

import "time"

// User represents a user in the system
type User struct {
	UserID           string    `db:"user_id" json:"user_id"`
	Name             string    `db:"name" json:"name"`
	Email            string    `db:"email" json:"email"`
	StripeCustomerID *string   `db:"stripe_customer_id" json:"stripe_customer_id,omitempty"`
	MonthlyWordLimit int       `db:"monthly_word_limit" json:"monthly_word_limit"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time `db:"updated_at" json:"updated_at"`
}

// PurchaseKind distinguishes one-time credit packs from recurring subscriptions.
type PurchaseKind string

const (
	PurchaseOneTime      PurchaseKind = "ONE_TIME"
	PurchaseSubscription PurchaseKind = "SUBSCRIPTION"
)

// Purchase is the local record of a Stripe purchase.
type Purchase struct {
	ID                   string       `db:"id" json:"id"`
	UserID               string       `db:"user_id" json:"user_id"`
	Kind                 PurchaseKind `db:"kind" json:"kind"`
	ProductID            string       `db:"product_id" json:"product_id"`
	StripeSubscriptionID *string      `db:"stripe_subscription_id" json:"stripe_subscription_id,omitempty"`
	StripeSessionID      *string      `db:"stripe_checkout_session_id" json:"stripe_checkout_session_id,omitempty"`
	Status               string       `db:"status" json:"status"`
	CreatedAt            time.Time    `db:"created_at" json:"created_at"`
	UpdatedAt            time.Time    `db:"updated_at" json:"updated_at"`
}
