package store

import (
	"context"
	"fmt"
)

// The event tables are created on startup if missing, matching the
// writer's layout. There is no migration path; columns never change.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS product_events (
		id SERIAL PRIMARY KEY,
		evt_type VARCHAR(255) NOT NULL,
		user_id VARCHAR(255) NOT NULL,
		product_id VARCHAR(255) NOT NULL,
		location_id VARCHAR(255),
		location VARCHAR(255),
		evt_date TIMESTAMP,
		transaction_id VARCHAR(255),
		platform VARCHAR(255),
		meta TEXT,
		created TIMESTAMP NOT NULL DEFAULT NOW(),
		last_modified TIMESTAMP NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS user_events (
		id SERIAL PRIMARY KEY,
		evt_type VARCHAR(255) NOT NULL,
		user_id VARCHAR(255) NOT NULL,
		evt_date TIMESTAMP,
		platform VARCHAR(255),
		meta TEXT,
		created TIMESTAMP NOT NULL DEFAULT NOW(),
		last_modified TIMESTAMP NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_product_events_product_date
		ON product_events (product_id, evt_date DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_user_events_user_date
		ON user_events (user_id, evt_date DESC)`,
}

// EnsureSchema creates the event tables and indexes if they do not
// exist yet.
func (s *Store) EnsureSchema(ctx context.Context) error {
	const op = "store.EnsureSchema"

	for _, stmt := range schemaStatements {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}
	return nil
}
