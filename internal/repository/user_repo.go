package repository

//go:generate mockgen -source=user_repo.go -destination=mocks/user_repo_mock.go -package=mocks

import (
	"context"
	"errors"
	"fmt"

	"wordflow/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrUserNotFound is returned by writes that target a user profile that does not exist.
var ErrUserNotFound = errors.New("user_not_found")

type UserRepository interface {
	// GetUserByID returns nil when no profile exists.
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	GetUserByStripeCustomerID(ctx context.Context, customerID string) (*model.User, error)
	// SetMonthlyWordLimit overwrites the user's quota with an absolute value.
	SetMonthlyWordLimit(ctx context.Context, userID string, limit int) error
}

type userRepo struct {
	pool *pgxpool.Pool
}

func NewUserRepo(pool *pgxpool.Pool) UserRepository {
	return &userRepo{pool: pool}
}

const userColumns = `user_id, name, email, stripe_customer_id, monthly_word_limit, created_at, updated_at`

func (r *userRepo) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	q := `SELECT ` + userColumns + ` FROM user_profiles WHERE user_id = $1`
	u, err := scanUser(r.pool.QueryRow(ctx, q, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("fetch user %s: %w", id, err)
	}
	return u, nil
}

func (r *userRepo) GetUserByStripeCustomerID(ctx context.Context, customerID string) (*model.User, error) {
	q := `SELECT ` + userColumns + ` FROM user_profiles WHERE stripe_customer_id = $1`
	u, err := scanUser(r.pool.QueryRow(ctx, q, customerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("fetch user by stripe customer %s: %w", customerID, err)
	}
	return u, nil
}

func (r *userRepo) SetMonthlyWordLimit(ctx context.Context, userID string, limit int) error {
	const q = `
		UPDATE user_profiles
		SET monthly_word_limit = $2,
		    updated_at = NOW()
		WHERE user_id = $1
	`
	tag, err := r.pool.Exec(ctx, q, userID, limit)
	if err != nil {
		return fmt.Errorf("set monthly word limit %d for user %s: %w", limit, userID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("set monthly word limit for user %s: %w", userID, ErrUserNotFound)
	}
	return nil
}

func scanUser(row rowScanner) (*model.User, error) {
	var u model.User
	if err := row.Scan(&u.UserID, &u.Name, &u.Email, &u.StripeCustomerID, &u.MonthlyWordLimit, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	return &u, nil
}
