package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/fairyhunter13/event-reporting-service/internal/config"
	httpopenapi "github.com/fairyhunter13/event-reporting-service/internal/http/openapi"
	"github.com/fairyhunter13/event-reporting-service/internal/obs"
	"github.com/fairyhunter13/event-reporting-service/internal/report"
)

// Pinger reports event store connectivity for the health endpoint.
type Pinger interface {
	Ping(ctx context.Context) error
}

type App struct {
	Cfg     config.Config
	Reports *report.Service
	Health  Pinger
}

func NewApp(cfg config.Config, reports *report.Service, health Pinger) *App {
	return &App{Cfg: cfg, Reports: reports, Health: health}
}

// queryCtx bounds a storage read by the configured query timeout.
func (a *App) queryCtx(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), a.Cfg.QueryTimeout)
}

// writeList serializes rows only after the query fully succeeded, so a
// storage failure never yields a partially written response.
func writeList(w http.ResponseWriter, r *http.Request, rows any, err error) {
	if err != nil {
		obs.Logger.Error("storage_error",
			"path", r.URL.Path,
			"error", err,
			"request_id", RequestIDFromContext(r.Context()),
		)
		WriteJSONError(w, http.StatusServiceUnavailable, "storage_unavailable", "")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(rows)
}

func (a *App) listProductEventsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		WriteJSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", "")
		return
	}
	ctx, cancel := a.queryCtx(r)
	defer cancel()
	events, err := a.Reports.ProductEvents(ctx)
	writeList(w, r, events, err)
}

func (a *App) listUserEventsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		WriteJSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", "")
		return
	}
	ctx, cancel := a.queryCtx(r)
	defer cancel()
	events, err := a.Reports.UserEvents(ctx)
	writeList(w, r, events, err)
}

func (a *App) listLostProductsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		WriteJSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", "")
		return
	}
	ctx, cancel := a.queryCtx(r)
	defer cancel()
	rows, err := a.Reports.LostProducts(ctx)
	if err == nil {
		obs.DerivationRows.WithLabelValues("lost_products").Set(float64(len(rows)))
	}
	writeList(w, r, rows, err)
}

func (a *App) listUnreturnedProductsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		WriteJSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", "")
		return
	}
	ctx, cancel := a.queryCtx(r)
	defer cancel()
	rows, err := a.Reports.UnreturnedProducts(ctx)
	if err == nil {
		obs.DerivationRows.WithLabelValues("unreturned_products").Set(float64(len(rows)))
	}
	writeList(w, r, rows, err)
}

func (a *App) healthHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	if a.Health != nil {
		if err := a.Health.Ping(ctx); err != nil {
			obs.Logger.Error("health_ping_failed", "error", err)
			WriteJSONError(w, http.StatusServiceUnavailable, "storage_unavailable", "")
			return
		}
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (a *App) openapiHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	_, _ = w.Write(httpopenapi.YAML)
}

func (a *App) docsHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	html := `<!doctype html>
<html>
  <head>
    <meta charset="utf-8" />
    <title>API Docs</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css" />
  </head>
  <body>
    <div id="swagger-ui"></div>
    <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
    <script>
      window.ui = SwaggerUIBundle({
        url: '/openapi.yaml',
        dom_id: '#swagger-ui'
      });
    </script>
  </body>
</html>`
	_, _ = w.Write([]byte(html))
}
