package store

import (
	"context"
	"fmt"
	"time"
)

// Insert helpers for the seed CLI, which stands in for the external
// ingestion process during local development. The service itself never
// writes to the event tables.

// InsertProductEvent appends one product event.
func (s *Store) InsertProductEvent(ctx context.Context, evtType, userID, productID, locationID, location string, evtDate time.Time, transactionID, platform string) error {
	const op = "store.InsertProductEvent"

	_, err := s.pool.Exec(ctx,
		`INSERT INTO product_events (evt_type, user_id, product_id, location_id, location, evt_date, transaction_id, platform)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		evtType, userID, productID, locationID, location, evtDate, transactionID, platform)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// InsertUserEvent appends one user event.
func (s *Store) InsertUserEvent(ctx context.Context, evtType, userID string, evtDate time.Time, platform, meta string) error {
	const op = "store.InsertUserEvent"

	_, err := s.pool.Exec(ctx,
		`INSERT INTO user_events (evt_type, user_id, evt_date, platform, meta)
		 VALUES ($1, $2, $3, $4, $5)`,
		evtType, userID, evtDate, platform, meta)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
