package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/notifyhub/bankapp/internal/api/handler"
	apimw "github.com/notifyhub/bankapp/internal/api/middleware"
)

// Bank is what the admin API needs from the client registry.
type Bank interface {
	handler.ClientRegistry
}

// NewRouter wires the chi router, attaches all middleware, and registers
// every route of the admin API.
func NewRouter(
	bank Bank,
	emails handler.WorkerStats,
	reg prometheus.Gatherer,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.Recoverer)
	r.Use(chimw.RequestSize(1 << 20))
	r.Use(apimw.CorrelationID)
	r.Use(apimw.RequestLogger(logger))

	ch := handler.NewClientHandler(bank, logger)
	mh := handler.NewMetricsHandler(bank, emails)
	hh := handler.NewHealthHandler(emails)

	r.Get("/health", hh.Health)
	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/clients", ch.Create)
		r.Get("/clients", ch.List)
		r.Get("/statistics", mh.GetStatistics)
		r.Get("/metrics", mh.GetMetrics)
	})

	return r
}
