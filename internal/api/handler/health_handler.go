package handler

import (
	"net/http"

	"github.com/notifyhub/bankapp/internal/worker"
)

// WorkerStats exposes the email worker counters.
type WorkerStats interface {
	Stats() worker.Stats
}

// HealthHandler serves the liveness probe endpoint.
type HealthHandler struct {
	emails WorkerStats
}

func NewHealthHandler(emails WorkerStats) *HealthHandler {
	return &HealthHandler{emails: emails}
}

// Health handles GET /health
//
// Reports 503 once the email worker has left the running state.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	state := h.emails.Stats().State
	if state != worker.StateRunning {
		respondJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status":       "unavailable",
			"email_worker": state.String(),
		})
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{
		"status":       "ok",
		"email_worker": state.String(),
	})
}
