// Package model defines domain types used by the service.
package model

import "time"

// ProductEvent is one record of the product lifecycle event log
// (borrow/return style events tied to a product and a user).
//
// EvtDate is the event timestamp used to rank events. A NULL column
// value is carried as the zero time.Time and ranks below any real
// timestamp.
type ProductEvent struct {
	ID            int64     `json:"id"`
	EvtType       string    `json:"evt_type"`
	UserID        string    `json:"user_id"`
	ProductID     string    `json:"product_id"`
	LocationID    string    `json:"location_id"`
	Location      string    `json:"location"`
	EvtDate       time.Time `json:"evt_date"`
	TransactionID string    `json:"transaction_id"`
	Platform      string    `json:"platform"`
	Meta          *string   `json:"meta"`
	Created       time.Time `json:"created"`
	LastModified  time.Time `json:"last_modified"`
}

// UserEvent is one record of the account-level event log. For
// "add-payment-method" events Meta is expected to embed a
// `"valid_until": "MM/YY"` field, but no schema is enforced.
type UserEvent struct {
	ID           int64     `json:"id"`
	EvtType      string    `json:"evt_type"`
	UserID       string    `json:"user_id"`
	EvtDate      time.Time `json:"evt_date"`
	Platform     string    `json:"platform"`
	Meta         *string   `json:"meta"`
	Created      time.Time `json:"created"`
	LastModified time.Time `json:"last_modified"`
}

// LostProduct is the row shape of both derivations. Only the product id
// is exposed even where more is computed internally; callers needing
// user or expiry fields must extend this deliberately.
type LostProduct struct {
	ProductID string `json:"product_id"`
}
