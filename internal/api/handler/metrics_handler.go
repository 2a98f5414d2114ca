package handler

import (
	"net/http"

	"github.com/notifyhub/bankapp/internal/report"
)

// MetricsHandler serves human-readable JSON snapshots of the bank and the
// email queue. Prometheus metrics live at /metrics.
type MetricsHandler struct {
	bank   report.ClientSource
	emails WorkerStats
}

func NewMetricsHandler(bank report.ClientSource, emails WorkerStats) *MetricsHandler {
	return &MetricsHandler{bank: bank, emails: emails}
}

// GetMetrics handles GET /api/v1/metrics
func (h *MetricsHandler) GetMetrics(w http.ResponseWriter, r *http.Request) {
	s := h.emails.Stats()
	respondJSON(w, http.StatusOK, map[string]any{
		"email_worker": map[string]any{
			"state":     s.State.String(),
			"submitted": s.Submitted,
			"delivered": s.Delivered,
			"failed":    s.Failed,
			"dropped":   s.Dropped,
			"pending":   s.Pending,
		},
	})
}

// GetStatistics handles GET /api/v1/statistics
func (h *MetricsHandler) GetStatistics(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, report.Build(h.bank))
}
