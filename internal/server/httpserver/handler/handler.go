package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/darleilopes/healthy-go/internal/server/config"
	"github.com/darleilopes/healthy-go/internal/telemetry/logger"
)

// Recorder receives the endpoint-level counters.
type Recorder interface {
	RecordGreetRequest(name string)
	RecordHealthCheck()
}

// Exporter renders the metrics exposition.
type Exporter interface {
	Export(ctx context.Context) (text, contentType string, err error)
}

// Route binds a handler to a method and path.
type Route struct {
	Method  string
	Path    string
	Handler http.HandlerFunc
}

// Pattern returns the route as a ServeMux pattern. The root path matches
// only itself.
func (r Route) Pattern() string {
	if r.Path == config.RootPath {
		return r.Method + " /{$}"
	}
	return r.Method + " " + r.Path
}

// Handler serves the application endpoints.
type Handler struct {
	app         config.AppSection
	api         config.APISection
	defaultName string

	recorder Recorder
	exporter Exporter
	logger   logger.Logger
	now      func() time.Time
}

// New creates a Handler.
func New(cfg *config.ServerConfig, recorder Recorder, exporter Exporter, log logger.Logger) *Handler {
	if log == nil {
		log = logger.Nop()
	}
	return &Handler{
		app:         cfg.App,
		api:         cfg.API,
		defaultName: cfg.Greeting.DefaultName,
		recorder:    recorder,
		exporter:    exporter,
		logger:      log,
		now:         time.Now,
	}
}

// Routes returns every endpoint served by h.
func (h *Handler) Routes() []Route {
	return []Route{
		{Method: http.MethodGet, Path: config.RootPath, Handler: h.handleRoot},
		{Method: http.MethodGet, Path: config.OpenAPIPath, Handler: h.handleOpenAPI},
		{Method: http.MethodGet, Path: h.api.HealthURL(), Handler: h.handleHealth},
		{Method: http.MethodGet, Path: h.api.GreetURL(), Handler: h.handleGreet},
		{Method: http.MethodGet, Path: h.api.MetricsURL(), Handler: h.handleMetrics},
	}
}

func (h *Handler) timestamp() string {
	return formatTimestamp(h.now())
}

// writeJSON writes v as the JSON body.
func writeJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}

func (h *Handler) writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	if err := writeJSON(w, status, v); err != nil {
		h.logger.WithContext(r.Context()).Warn("failed to encode response", "error", err)
	}
}

// WriteHTTPError writes a protocol-level error. detail defaults to the
// status text.
func WriteHTTPError(w http.ResponseWriter, status int, detail string) {
	if detail == "" {
		detail = http.StatusText(status)
	}
	_ = writeJSON(w, status, HTTPError{
		Error:      "HTTP Exception",
		Detail:     detail,
		StatusCode: status,
	})
}
