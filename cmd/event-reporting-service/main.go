// Package main boots the Event Reporting Service HTTP server.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fairyhunter13/event-reporting-service/internal/config"
	httpapi "github.com/fairyhunter13/event-reporting-service/internal/http"
	"github.com/fairyhunter13/event-reporting-service/internal/obs"
	"github.com/fairyhunter13/event-reporting-service/internal/report"
	"github.com/fairyhunter13/event-reporting-service/internal/store"
)

func main() {
	cfg := config.Load()
	obs.InitLogger()
	obs.Logger.Info("service_starting")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	st, err := store.New(ctx, cfg.DatabaseURL)
	if err != nil {
		obs.Logger.Error("store_connect_error", "error", err)
		os.Exit(1)
	}
	defer st.Close()

	ctxSchema, cancelSchema := context.WithTimeout(ctx, 30*time.Second)
	defer cancelSchema()
	if err := st.EnsureSchema(ctxSchema); err != nil {
		obs.Logger.Error("schema_ensure_error", "error", err)
		os.Exit(1)
	}

	reports := report.NewService(st, cfg.LostAfterMonths, cfg.ExpiryWindow)
	app := httpapi.NewApp(cfg, reports, st)
	mux := httpapi.NewRouter(app)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		obs.Logger.Info("http_listen", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			obs.Logger.Error("http_server_error", "error", err)
			os.Exit(1)
		}
	}()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	s := <-sigc
	obs.Logger.Info("shutdown_signal", "signal", s.String())

	ctxSrv, cancelSrv := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancelSrv()
	if err := srv.Shutdown(ctxSrv); err != nil {
		obs.Logger.Error("http_shutdown_error", "error", err)
	}
	obs.Logger.Info("service_stopped")
}
