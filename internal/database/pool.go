package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rickgao/voldash/internal/config"
)

// Connect creates a connection pool and verifies it with a ping.
func Connect(ctx context.Context, cfg config.DBConfig) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(BuildConnString(cfg))
	if err != nil {
		return nil, fmt.Errorf("parse connection string: %w", err)
	}

	poolCfg.MinConns = int32(cfg.MinConns)
	poolCfg.MaxConns = int32(cfg.MaxConns)

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return pool, nil
}

// Execer runs a statement without returning rows. *pgxpool.Pool satisfies it.
type Execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// schema creates the archive table. Statements are idempotent.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS instrument_snapshots (
		batch_id             UUID             NOT NULL,
		record_id            TEXT             NOT NULL,
		tag                  TEXT             NOT NULL,
		category_code        TEXT             NOT NULL,
		name                 TEXT             NOT NULL,
		icon_type            TEXT             NOT NULL DEFAULT '',
		latest_price         DOUBLE PRECISION NOT NULL,
		price_change_percent DOUBLE PRECISION NOT NULL,
		remaining_time       TEXT             NOT NULL,
		current_vol          DOUBLE PRECISION NOT NULL,
		vol_change           DOUBLE PRECISION NOT NULL,
		vol_change_speed     DOUBLE PRECISION NOT NULL,
		real_vol             DOUBLE PRECISION NOT NULL,
		premium              DOUBLE PRECISION NOT NULL,
		current_skew         DOUBLE PRECISION NOT NULL,
		vol_percentile       DOUBLE PRECISION NOT NULL,
		skew_percentile      DOUBLE PRECISION NOT NULL,
		fetched_at           TIMESTAMPTZ      NOT NULL,
		PRIMARY KEY (batch_id, record_id)
	)`,
	`CREATE INDEX IF NOT EXISTS instrument_snapshots_code_time
		ON instrument_snapshots (category_code, fetched_at DESC)`,
}

// EnsureSchema creates the archive table and index if missing.
func EnsureSchema(ctx context.Context, db Execer) error {
	for i, stmt := range schema {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema statement %d: %w", i, err)
		}
	}
	return nil
}
