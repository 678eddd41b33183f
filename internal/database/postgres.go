package database

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// Options controls how the pool is built.
type Options struct {
	DSN         string
	Development bool
	MaxConns    int32
}

// NewPool opens a pgx pool and pings it.
func NewPool(ctx context.Context, opts Options, logger zerolog.Logger) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(PrepareDSN(opts.DSN, opts.Development))
	if err != nil {
		return nil, fmt.Errorf("parsing db connection string: %w", err)
	}

	// Transaction poolers such as pgbouncer cannot hold server-side prepared statements.
	if !opts.Development {
		poolCfg.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeSimpleProtocol
	}

	maxConns := opts.MaxConns
	if maxConns <= 0 {
		maxConns = 25
	}
	poolCfg.MaxConns = maxConns
	poolCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("opening db pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging db: %w", err)
	}

	logger.Info().
		Str("host", poolCfg.ConnConfig.Host).
		Uint16("port", poolCfg.ConnConfig.Port).
		Int32("max_conns", maxConns).
		Msg("Database connection successful")
	return pool, nil
}

// PrepareDSN disables SSL for local development when the DSN does not say otherwise.
func PrepareDSN(dsn string, development bool) string {
	if !development || strings.Contains(dsn, "sslmode") {
		return dsn
	}
	separator := " "
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		if strings.Contains(dsn, "?") {
			separator = "&"
		} else {
			separator = "?"
		}
	}
	return dsn + separator + "sslmode=disable"
}
