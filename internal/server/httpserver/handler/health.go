package handler

import "net/http"

// handleHealth handles GET {prefix}/healthz. The service reports healthy
// whenever it can answer.
func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	h.recorder.RecordHealthCheck()

	h.writeJSON(w, r, http.StatusOK, HealthResponse{
		Status:    "healthy",
		Timestamp: h.timestamp(),
		Version:   h.app.Version,
	})
}
