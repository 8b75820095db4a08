package integration

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/fairyhunter13/event-reporting-service/internal/config"
	httpapi "github.com/fairyhunter13/event-reporting-service/internal/http"
	"github.com/fairyhunter13/event-reporting-service/internal/model"
	"github.com/fairyhunter13/event-reporting-service/internal/obs"
	"github.com/fairyhunter13/event-reporting-service/internal/report"
)

// memorySource stands in for the Postgres store so the full router and
// derivation stack can be exercised without a database.
type memorySource struct {
	productEvents []model.ProductEvent
	userEvents    []model.UserEvent
	err           error
}

func (m *memorySource) ProductEvents(ctx context.Context) ([]model.ProductEvent, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.productEvents, nil
}

func (m *memorySource) UserEvents(ctx context.Context) ([]model.UserEvent, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.userEvents, nil
}

func (m *memorySource) Ping(ctx context.Context) error { return m.err }

var now = time.Date(2024, 4, 20, 0, 0, 0, 0, time.UTC)

func strptr(s string) *string { return &s }

// fixtureSource builds an event log covering every derivation branch:
// a lost product, a returned product, an open borrow with an expiring
// payment method, one with a far-future expiry, one with malformed
// metadata and one whose borrower has no payment history.
func fixtureSource() *memorySource {
	return &memorySource{
		productEvents: []model.ProductEvent{
			// P1: single borrow four months ago, lost.
			{ID: 1, ProductID: "P1", UserID: "U1", EvtType: "borrow", EvtDate: now.AddDate(0, -4, 0)},
			// P2: borrowed five months ago, returned last month.
			{ID: 2, ProductID: "P2", UserID: "U2", EvtType: "borrow", EvtDate: now.AddDate(0, -5, 0)},
			{ID: 3, ProductID: "P2", UserID: "U2", EvtType: "return", EvtDate: now.AddDate(0, -1, 0)},
			// P3: open borrow, borrower's card expires within 30 days.
			{ID: 4, ProductID: "P3", UserID: "U3", EvtType: "borrow", EvtDate: now.AddDate(0, -1, 0)},
			// P4: open borrow, borrower's card expires far in the future.
			{ID: 5, ProductID: "P4", UserID: "U4", EvtType: "borrow", EvtDate: now.AddDate(0, -1, 0)},
			// P5: open borrow, borrower's metadata is malformed.
			{ID: 6, ProductID: "P5", UserID: "U5", EvtType: "borrow", EvtDate: now.AddDate(0, -1, 0)},
			// P6: open borrow, borrower has no payment history.
			{ID: 7, ProductID: "P6", UserID: "U6", EvtType: "borrow", EvtDate: now.AddDate(0, -1, 0)},
		},
		userEvents: []model.UserEvent{
			{ID: 1, UserID: "U3", EvtType: "add-payment-method", EvtDate: now.AddDate(0, -2, 0), Meta: strptr(`{"valid_until": "05/24"}`)},
			{ID: 2, UserID: "U4", EvtType: "add-payment-method", EvtDate: now.AddDate(0, -2, 0), Meta: strptr(`{"valid_until": "12/28"}`)},
			{ID: 3, UserID: "U5", EvtType: "add-payment-method", EvtDate: now.AddDate(0, -2, 0), Meta: strptr(`{"card": "visa"}`)},
		},
	}
}

func newServer(t *testing.T, src *memorySource) *httptest.Server {
	t.Helper()
	obs.InitLogger()
	cfg := config.Load()
	svc := report.NewService(src, cfg.LostAfterMonths, cfg.ExpiryWindow)
	svc.Now = func() time.Time { return now }
	app := httpapi.NewApp(cfg, svc, src)
	ts := httptest.NewServer(httpapi.NewRouter(app))
	t.Cleanup(ts.Close)
	return ts
}

func getJSON(t *testing.T, url string, out any) *http.Response {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode %s: %v", url, err)
		}
	}
	return resp
}

func TestFullReadAPI(t *testing.T) {
	ts := newServer(t, fixtureSource())

	var products []model.ProductEvent
	resp := getJSON(t, ts.URL+"/product-events/", &products)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("product-events: expected 200, got %d", resp.StatusCode)
	}
	if len(products) != 7 {
		t.Fatalf("expected 7 raw product events, got %d", len(products))
	}

	var users []model.UserEvent
	resp = getJSON(t, ts.URL+"/user-events/", &users)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("user-events: expected 200, got %d", resp.StatusCode)
	}
	if len(users) != 3 {
		t.Fatalf("expected 3 raw user events, got %d", len(users))
	}

	var lost []model.LostProduct
	resp = getJSON(t, ts.URL+"/lost-products/", &lost)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("lost-products: expected 200, got %d", resp.StatusCode)
	}
	if len(lost) != 1 || lost[0].ProductID != "P1" {
		t.Fatalf("expected lost [P1], got %v", lost)
	}

	var unreturned []model.LostProduct
	resp = getJSON(t, ts.URL+"/unreturned-products/", &unreturned)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unreturned-products: expected 200, got %d", resp.StatusCode)
	}
	if len(unreturned) != 1 || unreturned[0].ProductID != "P3" {
		t.Fatalf("expected unreturned [P3], got %v", unreturned)
	}
}

func TestTimestampsSerializeISO8601(t *testing.T) {
	ts := newServer(t, fixtureSource())
	resp, err := http.Get(ts.URL + "/product-events/")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer resp.Body.Close()
	var raw []map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		t.Fatalf("decode: %v", err)
	}
	evtDate, ok := raw[0]["evt_date"].(string)
	if !ok {
		t.Fatalf("evt_date missing or not a string: %v", raw[0])
	}
	if _, err := time.Parse(time.RFC3339, evtDate); err != nil {
		t.Fatalf("evt_date not RFC3339: %q", evtDate)
	}
}

func TestDerivationsIdempotent(t *testing.T) {
	ts := newServer(t, fixtureSource())
	var first, second []model.LostProduct
	getJSON(t, ts.URL+"/unreturned-products/", &first)
	getJSON(t, ts.URL+"/unreturned-products/", &second)
	if len(first) != len(second) {
		t.Fatalf("derivation changed between identical runs: %v vs %v", first, second)
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("derivation changed between identical runs: %v vs %v", first, second)
		}
	}
}

func TestStorageFailurePropagatesAs503(t *testing.T) {
	ts := newServer(t, &memorySource{err: errors.New("dial tcp: connection refused")})
	for _, path := range []string{"/product-events/", "/lost-products/", "/unreturned-products/", "/user-events/", "/healthz"} {
		resp, err := http.Get(ts.URL + path)
		if err != nil {
			t.Fatalf("GET %s: %v", path, err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusServiceUnavailable {
			t.Fatalf("%s: expected 503, got %d", path, resp.StatusCode)
		}
	}
}

func TestEmptyLogYieldsEmptyArrays(t *testing.T) {
	ts := newServer(t, &memorySource{
		productEvents: []model.ProductEvent{},
		userEvents:    []model.UserEvent{},
	})
	for _, path := range []string{"/product-events/", "/lost-products/", "/unreturned-products/", "/user-events/"} {
		resp, err := http.Get(ts.URL + path)
		if err != nil {
			t.Fatalf("GET %s: %v", path, err)
		}
		body := make([]byte, 16)
		n, _ := resp.Body.Read(body)
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d", path, resp.StatusCode)
		}
		if got := strings.TrimSpace(string(body[:n])); got != "[]" {
			t.Fatalf("%s: expected empty array, got %q", path, got)
		}
	}
}
