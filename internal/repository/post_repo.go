package repository

//go:generate mockgen -source=post_repo.go -destination=mocks/post_repo_mock.go -package=mocks

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"wordflow/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostRepository reads and writes scheduled posts and their automation fields.
type PostRepository interface {
	// GetPost returns nil when the post does not exist.
	GetPost(ctx context.Context, postID string) (*model.ScheduledPost, error)
	// ClaimDuePosts selects up to limit due posts, oldest first, skipping rows locked by a
	// concurrent claimer, and pushes their next_check_at to leaseUntil in the same statement.
	ClaimDuePosts(ctx context.Context, now time.Time, limit, maxRetries int, leaseUntil time.Time) ([]model.ScheduledPost, error)
	// SaveAutomation persists the automation value of a post.
	SaveAutomation(ctx context.Context, postID string, a model.Automation) error
	ListByOrganization(ctx context.Context, organizationID string) ([]model.ScheduledPost, error)
}

type postRepo struct {
	pool *pgxpool.Pool
}

// NewPostRepo creates a new PostRepository.
func NewPostRepo(pool *pgxpool.Pool) PostRepository {
	return &postRepo{pool: pool}
}

const postColumns = `id, organization_id, url, status, comment_count, auto_process, check_interval_hours,
	next_check_at, retry_count, last_error, created_at, updated_at`

func (r *postRepo) GetPost(ctx context.Context, postID string) (*model.ScheduledPost, error) {
	q := `SELECT ` + postColumns + ` FROM posts WHERE id = $1`
	p, err := scanPost(r.pool.QueryRow(ctx, q, postID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isInvalidTextRepresentation(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("fetch post %s: %w", postID, err)
	}
	return p, nil
}

func (r *postRepo) ClaimDuePosts(ctx context.Context, now time.Time, limit, maxRetries int, leaseUntil time.Time) ([]model.ScheduledPost, error) {
	q := `
		WITH due AS (
			SELECT id
			FROM posts
			WHERE auto_process = TRUE
			  AND retry_count < $3
			  AND (next_check_at IS NULL OR next_check_at <= $1)
			ORDER BY created_at ASC
			LIMIT $2
			FOR UPDATE SKIP LOCKED
		)
		UPDATE posts p
		SET next_check_at = $4,
		    updated_at = NOW()
		FROM due
		WHERE p.id = due.id
		RETURNING ` + prefixed("p.", postColumns)
	rows, err := r.pool.Query(ctx, q, now, limit, maxRetries, leaseUntil)
	if err != nil {
		return nil, fmt.Errorf("claiming due posts: %w", err)
	}
	defer rows.Close()

	posts, err := collectPosts(rows)
	if err != nil {
		return nil, fmt.Errorf("claiming due posts: %w", err)
	}
	// RETURNING does not preserve the CTE order.
	sort.SliceStable(posts, func(i, j int) bool {
		return posts[i].CreatedAt.Before(posts[j].CreatedAt)
	})
	return posts, nil
}

func (r *postRepo) SaveAutomation(ctx context.Context, postID string, a model.Automation) error {
	const q = `
		UPDATE posts
		SET auto_process = $2,
		    check_interval_hours = $3,
		    next_check_at = $4,
		    retry_count = $5,
		    last_error = $6,
		    updated_at = NOW()
		WHERE id = $1
	`
	tag, err := r.pool.Exec(ctx, q, postID, a.Enabled, a.CheckIntervalHours, a.NextCheckAt, a.RetryCount, a.LastError)
	if err != nil {
		return fmt.Errorf("saving automation for post %s: %w", postID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("saving automation for post %s: %w", postID, pgx.ErrNoRows)
	}
	return nil
}

func (r *postRepo) ListByOrganization(ctx context.Context, organizationID string) ([]model.ScheduledPost, error) {
	q := `SELECT ` + postColumns + `
		FROM posts
		WHERE organization_id = $1
		ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, q, organizationID)
	if err != nil {
		return nil, fmt.Errorf("listing posts for organization %s: %w", organizationID, err)
	}
	defer rows.Close()

	posts, err := collectPosts(rows)
	if err != nil {
		return nil, fmt.Errorf("listing posts for organization %s: %w", organizationID, err)
	}
	return posts, nil
}

func collectPosts(rows pgx.Rows) ([]model.ScheduledPost, error) {
	var posts []model.ScheduledPost
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return posts, nil
}

func scanPost(row rowScanner) (*model.ScheduledPost, error) {
	var p model.ScheduledPost
	err := row.Scan(
		&p.ID,
		&p.OrganizationID,
		&p.URL,
		&p.Status,
		&p.CommentCount,
		&p.Automation.Enabled,
		&p.Automation.CheckIntervalHours,
		&p.Automation.NextCheckAt,
		&p.Automation.RetryCount,
		&p.Automation.LastError,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
