// Package store provides read access to the event tables in Postgres.
package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fairyhunter13/event-reporting-service/internal/model"
)

// Store wraps the shared connection pool to the event database. The
// event tables are append-only; this service only reads them.
type Store struct {
	pool *pgxpool.Pool
}

// New opens a connection pool against the given DSN. The pool is shared
// by all requests and released via Close.
func New(ctx context.Context, dsn string) (*Store, error) {
	const op = "store.New"

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &Store{pool: pool}, nil
}

// Close releases the connection pool.
func (s *Store) Close() {
	s.pool.Close()
}

// Ping verifies database connectivity, used by the health endpoint.
func (s *Store) Ping(ctx context.Context) error {
	const op = "store.Ping"

	if err := s.pool.Ping(ctx); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

const productEventColumns = `id, evt_type, user_id, product_id, location_id, location,
	evt_date, transaction_id, platform, meta, created, last_modified`

// ProductEvents returns the full product event log, unfiltered and in
// no particular order.
func (s *Store) ProductEvents(ctx context.Context) ([]model.ProductEvent, error) {
	const op = "store.ProductEvents"

	rows, err := s.pool.Query(ctx, "SELECT "+productEventColumns+" FROM product_events")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	events := []model.ProductEvent{}
	for rows.Next() {
		var (
			e        model.ProductEvent
			locID    pgtype.Text
			loc      pgtype.Text
			evtDate  pgtype.Timestamp
			txID     pgtype.Text
			platform pgtype.Text
			meta     pgtype.Text
		)
		err := rows.Scan(&e.ID, &e.EvtType, &e.UserID, &e.ProductID, &locID, &loc,
			&evtDate, &txID, &platform, &meta, &e.Created, &e.LastModified)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		e.LocationID = locID.String
		e.Location = loc.String
		e.EvtDate = evtDate.Time
		e.TransactionID = txID.String
		e.Platform = platform.String
		e.Meta = textPtr(meta)
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return events, nil
}

const userEventColumns = `id, evt_type, user_id, evt_date, platform, meta, created, last_modified`

// UserEvents returns the full user event log, unfiltered and in no
// particular order.
func (s *Store) UserEvents(ctx context.Context) ([]model.UserEvent, error) {
	const op = "store.UserEvents"

	rows, err := s.pool.Query(ctx, "SELECT "+userEventColumns+" FROM user_events")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	events := []model.UserEvent{}
	for rows.Next() {
		var (
			e        model.UserEvent
			evtDate  pgtype.Timestamp
			platform pgtype.Text
			meta     pgtype.Text
		)
		err := rows.Scan(&e.ID, &e.EvtType, &e.UserID, &evtDate, &platform, &meta,
			&e.Created, &e.LastModified)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		e.EvtDate = evtDate.Time
		e.Platform = platform.String
		e.Meta = textPtr(meta)
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return events, nil
}

func textPtr(t pgtype.Text) *string {
	if !t.Valid {
		return nil
	}
	v := t.String
	return &v
}
