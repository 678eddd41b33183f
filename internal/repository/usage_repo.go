package repository

//go:generate mockgen -source=usage_repo.go -destination=mocks/usage_repo_mock.go -package=mocks

import (
	"context"
	"errors"
	"fmt"

	"wordflow/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// UsageRepository stores the monthly word ledger.
type UsageRepository interface {
	// RecordUsage atomically adds words to the tool counter and the total for the period, creating the row if needed.
	RecordUsage(ctx context.Context, userID string, period model.Period, tool model.ToolType, words int) error
	// GetEntry returns the ledger row for the period, or nil when the user has no usage yet.
	GetEntry(ctx context.Context, userID string, period model.Period) (*model.UsageLedgerEntry, error)
	// ListEntries returns up to limit rows, newest period first.
	ListEntries(ctx context.Context, userID string, limit int) ([]model.UsageLedgerEntry, error)
}

type usageRepo struct {
	pool *pgxpool.Pool
}

// NewUsageRepo creates a new UsageRepository.
func NewUsageRepo(pool *pgxpool.Pool) UsageRepository {
	return &usageRepo{pool: pool}
}

var toolColumns = map[model.ToolType]string{
	model.ToolHumanizer:   "humanizer_words",
	model.ToolDetector:    "detector_words",
	model.ToolSummariser:  "summariser_words",
	model.ToolParaphraser: "paraphraser_words",
}

const ledgerColumns = `user_id, month, year, total_words, humanizer_words, detector_words,
	summariser_words, paraphraser_words, created_at, updated_at`

// RecordUsage performs a single upsert-with-increment so concurrent writers never lose an update.
func (r *usageRepo) RecordUsage(ctx context.Context, userID string, period model.Period, tool model.ToolType, words int) error {
	col, ok := toolColumns[tool]
	if !ok {
		return fmt.Errorf("recording usage for user %s: %w: %q", userID, model.ErrUnknownTool, tool)
	}
	q := fmt.Sprintf(`
		INSERT INTO usage_ledger (user_id, month, year, total_words, %[1]s)
		VALUES ($1, $2, $3, $4, $4)
		ON CONFLICT (user_id, month, year) DO UPDATE
		SET total_words = usage_ledger.total_words + EXCLUDED.total_words,
		    %[1]s = usage_ledger.%[1]s + EXCLUDED.%[1]s,
		    updated_at = NOW()
	`, col)
	if _, err := r.pool.Exec(ctx, q, userID, period.Month, period.Year, words); err != nil {
		return fmt.Errorf("recording %d %s words for user %s: %w", words, tool, userID, err)
	}
	return nil
}

func (r *usageRepo) GetEntry(ctx context.Context, userID string, period model.Period) (*model.UsageLedgerEntry, error) {
	q := `SELECT ` + ledgerColumns + `
		FROM usage_ledger
		WHERE user_id = $1 AND month = $2 AND year = $3`
	e, err := scanLedgerEntry(r.pool.QueryRow(ctx, q, userID, period.Month, period.Year))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("fetch usage for user %s %d-%02d: %w", userID, period.Year, period.Month, err)
	}
	return e, nil
}

func (r *usageRepo) ListEntries(ctx context.Context, userID string, limit int) ([]model.UsageLedgerEntry, error) {
	q := `SELECT ` + ledgerColumns + `
		FROM usage_ledger
		WHERE user_id = $1
		ORDER BY year DESC, month DESC
		LIMIT $2`
	rows, err := r.pool.Query(ctx, q, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("listing usage for user %s: %w", userID, err)
	}
	defer rows.Close()

	entries := make([]model.UsageLedgerEntry, 0, limit)
	for rows.Next() {
		e, err := scanLedgerEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning usage row for user %s: %w", userID, err)
		}
		entries = append(entries, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating usage rows for user %s: %w", userID, err)
	}
	return entries, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLedgerEntry(row rowScanner) (*model.UsageLedgerEntry, error) {
	var e model.UsageLedgerEntry
	err := row.Scan(
		&e.UserID,
		&e.Month,
		&e.Year,
		&e.TotalWords,
		&e.HumanizerWords,
		&e.DetectorWords,
		&e.SummariserWords,
		&e.ParaphraserWords,
		&e.CreatedAt,
		&e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &e, nil
}
