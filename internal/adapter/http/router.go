package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/zjttbkd/simple-accounting-book/internal/adapter/http/handler"
	"github.com/zjttbkd/simple-accounting-book/internal/adapter/http/middleware"
	"github.com/zjttbkd/simple-accounting-book/internal/infrastructure/metrics"
	"github.com/zjttbkd/simple-accounting-book/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	AccountHandler    *handler.AccountHandler
	SettlementHandler *handler.SettlementHandler
	EntryHandler      *handler.EntryHandler
	LedgerHandler     *handler.LedgerHandler
	HealthHandler     *handler.HealthHandler
	IdempotencyStore  usecase.IdempotencyStore
	IdempotencyTTL    time.Duration
	Metrics           *metrics.Metrics
	Logger            zerolog.Logger
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
	r.Use(middleware.Recovery)

	if cfg.Metrics != nil {
		r.Use(middleware.NewMetricsMiddleware(cfg.Metrics).Wrap)
	}

	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		if cfg.IdempotencyStore != nil {
			r.Use(middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore, cfg.IdempotencyTTL).Wrap)
		}

		r.Route("/accounts", func(r chi.Router) {
			r.Post("/", cfg.AccountHandler.Create)
			r.Get("/{uid}", cfg.AccountHandler.Get)
			r.Get("/{uid}/entries", cfg.EntryHandler.ListByAccount)
		})

		r.Route("/settlements", func(r chi.Router) {
			r.Post("/", cfg.SettlementHandler.Settle)
			r.Get("/{listid}", cfg.SettlementHandler.Get)
			r.Get("/{listid}/entries", cfg.EntryHandler.ListByInstruction)
		})

		r.Get("/ledger/consistency", cfg.LedgerHandler.CheckConsistency)
	})

	return r
}
