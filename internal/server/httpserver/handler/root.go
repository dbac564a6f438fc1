package handler

import (
	_ "embed"
	"net/http"

	"github.com/darleilopes/healthy-go/internal/server/config"
)

//go:embed openapi.yaml
var openAPIDocument []byte

// handleRoot handles GET /.
func (h *Handler) handleRoot(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, r, http.StatusOK, RootResponse{
		App:         h.app.Name,
		Version:     h.app.Version,
		Environment: h.app.Environment,
		DocsURL:     config.OpenAPIPath,
		HealthURL:   h.api.HealthURL(),
		MetricsURL:  h.api.MetricsURL(),
	})
}

// handleOpenAPI serves the embedded API description.
func (h *Handler) handleOpenAPI(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(openAPIDocument)
}
