package report

import (
	"context"
	"sort"
	"time"

	"github.com/fairyhunter13/event-reporting-service/internal/model"
)

// Event types the derivations key on. The evt_type column is a
// free-form tag; these are the two values with derivation semantics.
const (
	EvtBorrow           = "borrow"
	EvtAddPaymentMethod = "add-payment-method"
)

// EventSource supplies the raw event logs. Implemented by the Postgres
// store; tests substitute an in-memory source.
type EventSource interface {
	ProductEvents(ctx context.Context) ([]model.ProductEvent, error)
	UserEvents(ctx context.Context) ([]model.UserEvent, error)
}

// Service computes the derived views over an event source. Now is the
// reference clock and may be replaced for tests; derivations are
// deterministic for a fixed source and a fixed Now.
type Service struct {
	Source          EventSource
	Now             func() time.Time
	LostAfterMonths int
	ExpiryWindow    time.Duration
}

// NewService builds a Service with the wall clock as reference time.
func NewService(source EventSource, lostAfterMonths int, expiryWindow time.Duration) *Service {
	return &Service{
		Source:          source,
		Now:             time.Now,
		LostAfterMonths: lostAfterMonths,
		ExpiryWindow:    expiryWindow,
	}
}

// ProductEvents passes the raw product event log through unchanged.
func (s *Service) ProductEvents(ctx context.Context) ([]model.ProductEvent, error) {
	return s.Source.ProductEvents(ctx)
}

// UserEvents passes the raw user event log through unchanged.
func (s *Service) UserEvents(ctx context.Context) ([]model.UserEvent, error) {
	return s.Source.UserEvents(ctx)
}

// LostProducts lists products whose latest event is a borrow older than
// the staleness threshold, ascending by product id.
func (s *Service) LostProducts(ctx context.Context) ([]model.LostProduct, error) {
	events, err := s.Source.ProductEvents(ctx)
	if err != nil {
		return nil, err
	}

	cutoff := s.Now().AddDate(0, -s.LostAfterMonths, 0)
	latest := latestProductEvents(events)

	ids := make([]string, 0, len(latest))
	for pid, ev := range latest {
		if ev.EvtType != EvtBorrow || ev.EvtDate.IsZero() {
			continue
		}
		if !ev.EvtDate.After(cutoff) {
			ids = append(ids, pid)
		}
	}
	return toLostProducts(ids), nil
}

// UnreturnedProducts lists open-borrowed products whose borrower's
// latest payment method expires within the expiry window, ascending by
// product id. Borrowers without any add-payment-method event are
// dropped (inner join), as are rows whose metadata carries no parseable
// valid_until fragment.
func (s *Service) UnreturnedProducts(ctx context.Context) ([]model.LostProduct, error) {
	productEvents, err := s.Source.ProductEvents(ctx)
	if err != nil {
		return nil, err
	}
	userEvents, err := s.Source.UserEvents(ctx)
	if err != nil {
		return nil, err
	}

	horizon := s.Now().Add(s.ExpiryWindow)
	openBorrows := latestProductEvents(productEvents)
	latestPayments := latestPaymentEvents(userEvents)

	ids := make([]string, 0, len(openBorrows))
	for pid, ev := range openBorrows {
		if ev.EvtType != EvtBorrow || ev.EvtDate.IsZero() {
			continue
		}
		payment, ok := latestPayments[ev.UserID]
		if !ok || payment.Meta == nil {
			continue
		}
		expiry, ok := ParseValidUntil(*payment.Meta)
		if !ok {
			continue
		}
		if !expiry.After(horizon) {
			ids = append(ids, pid)
		}
	}
	return toLostProducts(ids), nil
}

func latestProductEvents(events []model.ProductEvent) map[string]model.ProductEvent {
	return LatestPerKey(events,
		func(e model.ProductEvent) string { return e.ProductID },
		func(e model.ProductEvent) time.Time { return e.EvtDate },
		func(e model.ProductEvent) int64 { return e.ID },
	)
}

// latestPaymentEvents filters to add-payment-method events before
// ranking, so an unrelated newer user event never shadows the payment
// history.
func latestPaymentEvents(events []model.UserEvent) map[string]model.UserEvent {
	payments := make([]model.UserEvent, 0, len(events))
	for _, e := range events {
		if e.EvtType == EvtAddPaymentMethod {
			payments = append(payments, e)
		}
	}
	return LatestPerKey(payments,
		func(e model.UserEvent) string { return e.UserID },
		func(e model.UserEvent) time.Time { return e.EvtDate },
		func(e model.UserEvent) int64 { return e.ID },
	)
}

func toLostProducts(ids []string) []model.LostProduct {
	sort.Strings(ids)
	out := make([]model.LostProduct, 0, len(ids))
	for _, id := range ids {
		out = append(out, model.LostProduct{ProductID: id})
	}
	return out
}
