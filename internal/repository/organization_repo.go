package repository

//go:generate mockgen -source=organization_repo.go -destination=mocks/organization_repo_mock.go -package=mocks

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

type OrganizationRepository interface {
	IsMember(ctx context.Context, organizationID, userID string) (bool, error)
}

type organizationRepo struct {
	pool *pgxpool.Pool
}

func NewOrganizationRepo(pool *pgxpool.Pool) OrganizationRepository {
	return &organizationRepo{pool: pool}
}

func (r *organizationRepo) IsMember(ctx context.Context, organizationID, userID string) (bool, error) {
	const q = `
		SELECT EXISTS (
			SELECT 1 FROM organization_members
			WHERE organization_id = $1 AND user_id = $2
		)
	`
	var ok bool
	if err := r.pool.QueryRow(ctx, q, organizationID, userID).Scan(&ok); err != nil {
		return false, fmt.Errorf("checking membership of user %s in organization %s: %w", userID, organizationID, err)
	}
	return ok, nil
}
