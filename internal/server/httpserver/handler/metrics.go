package handler

import (
	"io"
	"net/http"
)

// handleMetrics handles GET {prefix}/metrics.
func (h *Handler) handleMetrics(w http.ResponseWriter, r *http.Request) {
	text, contentType, err := h.exporter.Export(r.Context())
	if err != nil {
		h.logger.WithContext(r.Context()).Error("failed to export metrics", "error", err)
		WriteHTTPError(w, http.StatusInternalServerError, "failed to export metrics")
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	if _, err := io.WriteString(w, text); err != nil {
		h.logger.WithContext(r.Context()).Debug("failed to write metrics", "error", err)
	}
}
