package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// InitSchema creates the order and solution cache tables. The DDL is
// accepted by both SQLite and Postgres.
func InitSchema(ctx context.Context, db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createOrdersQuery := `
	CREATE TABLE IF NOT EXISTS transport_orders (
		order_id INTEGER PRIMARY KEY,
		pickup_location INTEGER NOT NULL,
		delivery_location INTEGER NOT NULL,
		order_demand INTEGER NOT NULL,
		earliest_pickup INTEGER NOT NULL,
		latest_pickup INTEGER NOT NULL,
		pickup_service_time INTEGER NOT NULL,
		earliest_delivery INTEGER NOT NULL,
		latest_delivery INTEGER NOT NULL,
		delivery_service_time INTEGER NOT NULL
	);
	`

	createSolutionCacheQuery := `
	CREATE TABLE IF NOT EXISTS solution_cache (
		cache_key TEXT PRIMARY KEY,
		payload TEXT NOT NULL,
		expires_at BIGINT NOT NULL
	);
	`

	createIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_solution_cache_expires_at
	ON solution_cache(expires_at);
	`

	statements := []string{
		createOrdersQuery,
		createSolutionCacheQuery,
		createIndexQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}
