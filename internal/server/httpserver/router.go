package httpserver

import (
	"net/http"

	"github.com/darleilopes/healthy-go/internal/server/config"
	"github.com/darleilopes/healthy-go/internal/server/httpserver/handler"
	"github.com/darleilopes/healthy-go/internal/telemetry/logger"
)

// RouterConfig holds the collaborators of the HTTP router.
type RouterConfig struct {
	Server config.ServerSection

	// Routes are the application endpoints.
	Routes []handler.Route

	// Recorder receives one sample per completed request.
	Recorder RequestRecorder

	Logger logger.Logger
}

// NewRouter creates the HTTP handler with all routes and middleware.
func NewRouter(cfg *RouterConfig) http.Handler {
	log := cfg.Logger
	if log == nil {
		log = logger.Nop()
	}

	mux := http.NewServeMux()
	routes := make(map[string]string, len(cfg.Routes))
	for _, rt := range cfg.Routes {
		mux.Handle(rt.Pattern(), rt.Handler)
		routes[rt.Pattern()] = rt.Path
	}

	middlewares := []Middleware{
		RequestID(),
		Instrument(cfg.Recorder),
		MatchRoute(mux, routes),
		AccessLog(log),
		Recover(log),
		CORS(cfg.Server.CORSAllowedOrigins),
	}
	if cfg.Server.RateLimit.Enabled() {
		middlewares = append(middlewares, RateLimit(cfg.Server.RateLimit.RequestsPerSecond, cfg.Server.RateLimit.Burst))
	}

	return Chain(jsonErrors{mux: mux}, middlewares...)
}

// jsonErrors replaces the plain-text 404 and 405 replies of the mux with
// JSON bodies.
type jsonErrors struct {
	mux *http.ServeMux
}

func (j jsonErrors) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if _, pattern := j.mux.Handler(r); pattern != "" {
		j.mux.ServeHTTP(w, r)
		return
	}

	capture := &headerCapture{header: make(http.Header)}
	j.mux.ServeHTTP(capture, r)

	if allow := capture.header.Get("Allow"); allow != "" {
		w.Header().Set("Allow", allow)
	}
	status := capture.status
	if status == 0 {
		status = http.StatusNotFound
	}
	handler.WriteHTTPError(w, status, "")
}

// headerCapture records the status and headers of a reply and drops its body.
type headerCapture struct {
	header http.Header
	status int
}

func (c *headerCapture) Header() http.Header { return c.header }

func (c *headerCapture) Write(p []byte) (int, error) {
	if c.status == 0 {
		c.status = http.StatusOK
	}
	return len(p), nil
}

func (c *headerCapture) WriteHeader(status int) {
	if c.status == 0 {
		c.status = status
	}
}
