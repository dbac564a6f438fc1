package httpserver

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/rs/cors"
	"golang.org/x/time/rate"

	"github.com/darleilopes/healthy-go/internal/server/httpserver/handler"
	"github.com/darleilopes/healthy-go/internal/telemetry/logger"
	"github.com/darleilopes/healthy-go/pkg/cmap"
)

// HeaderRequestID carries the request ID in both directions.
const HeaderRequestID = "X-Request-ID"

// maxRequestIDLength bounds a client-supplied request ID.
const maxRequestIDLength = 128

// UnmatchedRoute is the route label of requests that matched no route.
const UnmatchedRoute = "unmatched"

// Middleware wraps an http.Handler with additional functionality.
type Middleware func(http.Handler) http.Handler

// Chain chains middlewares so that the first one runs outermost.
func Chain(h http.Handler, middlewares ...Middleware) http.Handler {
	for i := len(middlewares) - 1; i >= 0; i-- {
		h = middlewares[i](h)
	}
	return h
}

// RequestID propagates the client's X-Request-ID or assigns a ULID.
func RequestID() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(HeaderRequestID)
			if id == "" || len(id) > maxRequestIDLength {
				id = ulid.Make().String()
			}

			w.Header().Set(HeaderRequestID, id)
			next.ServeHTTP(w, r.WithContext(logger.WithRequestID(r.Context(), id)))
		})
	}
}

// RequestRecorder receives one sample per completed request.
type RequestRecorder interface {
	RecordRequest(method, endpoint string, status int, duration time.Duration)
}

// routeHolder is filled in by MatchRoute on the goroutine serving the
// request, so no locking is needed.
type routeHolder struct {
	route string
}

type routeKey struct{}

// MatchRoute tags the request with its route before the rest of the chain
// runs, so replies written ahead of the mux (rate limiting, CORS preflight)
// carry the route as well. routes maps mux patterns to route labels.
// Preflight requests are matched with the method they announce.
func MatchRoute(mux *http.ServeMux, routes map[string]string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if holder, ok := r.Context().Value(routeKey{}).(*routeHolder); ok {
				holder.route = routes[matchedPattern(mux, r)]
			}
			next.ServeHTTP(w, r)
		})
	}
}

func matchedPattern(mux *http.ServeMux, r *http.Request) string {
	if m := r.Header.Get("Access-Control-Request-Method"); r.Method == http.MethodOptions && m != "" {
		preflight := *r
		preflight.Method = m
		r = &preflight
	}
	_, pattern := mux.Handler(r)
	return pattern
}

// RouteFromContext returns the matched route of the request, or
// UnmatchedRoute before a route matched.
func RouteFromContext(ctx context.Context) string {
	if holder, ok := ctx.Value(routeKey{}).(*routeHolder); ok && holder.route != "" {
		return holder.route
	}
	return UnmatchedRoute
}

// Instrument records method, route, status and duration of every request,
// including requests whose handler panics. A panic is recorded as a 500
// and then re-raised.
func Instrument(rec RequestRecorder) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			holder := &routeHolder{}
			sw := &statusWriter{ResponseWriter: w}

			defer func() {
				status := sw.Status()
				p := recover()
				if p != nil {
					status = http.StatusInternalServerError
				}
				rec.RecordRequest(r.Method, routeOrUnmatched(holder), status, time.Since(start))
				if p != nil {
					panic(p)
				}
			}()

			next.ServeHTTP(sw, r.WithContext(context.WithValue(r.Context(), routeKey{}, holder)))
		})
	}
}

func routeOrUnmatched(h *routeHolder) string {
	if h.route == "" {
		return UnmatchedRoute
	}
	return h.route
}

// AccessLog logs one line per request. The level follows the status class.
func AccessLog(log logger.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sw := &statusWriter{ResponseWriter: w}

			next.ServeHTTP(sw, r)

			status := sw.Status()
			l := log.WithContext(r.Context())
			attrs := []any{
				"method", r.Method,
				"path", r.URL.Path,
				"route", RouteFromContext(r.Context()),
				"status", status,
				"duration", time.Since(start),
				"client_ip", clientIP(r),
			}
			switch {
			case status >= 500:
				l.Error("request completed with error", attrs...)
			case status >= 400:
				l.Warn("request completed with client error", attrs...)
			default:
				l.Info("request completed", attrs...)
			}
		})
	}
}

// Recover turns a panic into a 500 reply. http.ErrAbortHandler is passed
// through so the server can abort the connection.
func Recover(log logger.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				p := recover()
				if p == nil {
					return
				}
				if p == http.ErrAbortHandler {
					panic(p)
				}
				log.WithContext(r.Context()).Error("panic recovered",
					"error", fmt.Sprint(p),
					"path", r.URL.Path,
				)
				handler.WriteHTTPError(w, http.StatusInternalServerError, "Internal Server Error")
			}()

			next.ServeHTTP(w, r)
		})
	}
}

// CORS answers preflight requests and sets CORS headers. An empty origin
// list allows any origin.
func CORS(allowedOrigins []string) Middleware {
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}
	c := cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{
			http.MethodGet, http.MethodHead, http.MethodPost, http.MethodPut,
			http.MethodPatch, http.MethodDelete, http.MethodOptions,
		},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{HeaderRequestID},
		AllowCredentials: true,
	})
	return c.Handler
}

// RateLimit limits each client IP to rps requests per second with the
// given burst. Over-limit requests get 429.
func RateLimit(rps float64, burst int) Middleware {
	if burst < 1 {
		burst = 1
	}
	set := newLimiterSet(rate.Limit(rps), burst, 3*time.Minute)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !set.allow(clientIP(r), time.Now()) {
				w.Header().Set("Retry-After", "1")
				handler.WriteHTTPError(w, http.StatusTooManyRequests, "Too Many Requests")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen atomic.Int64
}

// limiterSet keeps one token bucket per client and forgets clients idle
// for longer than ttl.
type limiterSet struct {
	limit rate.Limit
	burst int
	ttl   time.Duration

	entries   *cmap.Map[*limiterEntry]
	lastSweep atomic.Int64
}

func newLimiterSet(limit rate.Limit, burst int, ttl time.Duration) *limiterSet {
	return &limiterSet{
		limit:   limit,
		burst:   burst,
		ttl:     ttl,
		entries: cmap.New[*limiterEntry](),
	}
}

func (s *limiterSet) allow(key string, now time.Time) bool {
	s.sweep(now)

	e, _ := s.entries.GetOrCreate(key, func() *limiterEntry {
		return &limiterEntry{limiter: rate.NewLimiter(s.limit, s.burst)}
	})
	e.lastSeen.Store(now.UnixNano())
	return e.limiter.AllowN(now, 1)
}

// sweep drops idle clients at most once per ttl.
func (s *limiterSet) sweep(now time.Time) {
	last := s.lastSweep.Load()
	if now.UnixNano()-last <= int64(s.ttl) || !s.lastSweep.CompareAndSwap(last, now.UnixNano()) {
		return
	}
	cutoff := now.Add(-s.ttl).UnixNano()
	s.entries.DeleteFunc(func(_ string, e *limiterEntry) bool {
		return e.lastSeen.Load() < cutoff
	})
}

func (s *limiterSet) size() int {
	return s.entries.Count()
}

// statusWriter captures the status code written by the handler.
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	if w.status == 0 {
		w.status = code
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Write(p []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	return w.ResponseWriter.Write(p)
}

// Status returns the written status, 200 if the handler wrote nothing.
func (w *statusWriter) Status() int {
	if w.status == 0 {
		return http.StatusOK
	}
	return w.status
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (w *statusWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}

// clientIP extracts the client IP from the request.
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
