package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"docket/internal/checklist"
	checklistmetrics "docket/internal/checklist/metrics"
	"docket/internal/platform/config"
	"docket/internal/platform/httpserver"
	"docket/internal/platform/logger"
	"docket/internal/platform/metrics"
	"docket/internal/platform/middleware"
	"docket/internal/platform/postgres"
	"docket/internal/platform/redis"
	"docket/pkg/platform/httputil"
	"docket/pkg/platform/middleware/requesttime"
)

// main wires configuration, storage and the HTTP router. Business logic lives
// in internal/checklist.
func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "docket: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.FromEnv()
	if err != nil {
		return err
	}
	log := logger.New(cfg.LogLevel)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := postgres.Open(ctx, cfg.Database)
	if err != nil {
		return err
	}
	if db != nil {
		defer db.Close()
		if err := postgres.Migrate(ctx, db); err != nil {
			return err
		}
	} else {
		log.Warn("DATABASE_URL not set, serving from in-memory stores", "ruleset", cfg.Checklist.RuleSetFile)
	}

	rc, err := redis.New(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	defer rc.Close()

	checklistMetrics := checklistmetrics.New()
	stores, err := checklist.OpenStores(cfg.Checklist, db, rc.Raw(), log, checklistMetrics)
	if err != nil {
		return err
	}
	svc, err := checklist.NewService(cfg.Checklist, stores, log, checklistMetrics)
	if err != nil {
		return err
	}
	if stores.Reloader != nil {
		go func() {
			if err := stores.Reloader.Run(ctx); err != nil {
				log.Error("rule-set watcher stopped", "error", err)
			}
		}()
	}

	router := newRouter(log, metrics.New(), checklist.NewHandler(svc, log, cfg.Checklist.MaxBatchSize), db, rc)
	srv := httpserver.New(cfg.Addr, router)
	return httpserver.Run(ctx, srv, log, 10*time.Second)
}

func newRouter(log *slog.Logger, m *metrics.Metrics, h *checklist.Handler, db *sql.DB, rc *redis.Client) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recover(log))
	r.Use(middleware.RequestID)
	r.Use(requesttime.Middleware)
	r.Use(middleware.AccessLog(log))
	r.Use(m.Middleware)

	r.Get("/health", healthHandler(db, rc))
	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(chimw.Timeout(30 * time.Second))
		h.Register(r)
	})
	return r
}

func healthHandler(db *sql.DB, rc *redis.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		checks := map[string]string{}
		healthy := true
		if db != nil {
			checks["postgres"] = "ok"
			if err := db.PingContext(ctx); err != nil {
				checks["postgres"] = err.Error()
				healthy = false
			}
		}
		if rc.Raw() != nil {
			checks["redis"] = "ok"
			if err := rc.Health(ctx); err != nil {
				checks["redis"] = err.Error()
				healthy = false
			}
		}

		status := http.StatusOK
		state := "ok"
		if !healthy {
			status = http.StatusServiceUnavailable
			state = "degraded"
		}
		httputil.WriteJSON(w, status, map[string]any{"status": state, "checks": checks})
	}
}
