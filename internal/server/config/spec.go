package config

import (
	"net"
	"strconv"
	"time"
)

// Fixed routes served outside the configurable API paths.
const (
	RootPath    = "/"
	OpenAPIPath = "/openapi.yaml"
)

// ServerConfig is the root configuration for healthy-server.
type ServerConfig struct {
	App      AppSection      `koanf:"app"`
	Server   ServerSection   `koanf:"server"`
	API      APISection      `koanf:"api"`
	Greeting GreetingSection `koanf:"greeting"`
	Metrics  MetricsSection  `koanf:"metrics"`
	Log      LogSection      `koanf:"log"`
}

// AppSection describes the running application.
type AppSection struct {
	Name        string `koanf:"name"`
	Version     string `koanf:"version"`
	Environment string `koanf:"environment"`
	Debug       bool   `koanf:"debug"`
}

// ServerSection configures the HTTP listener.
type ServerSection struct {
	Host              string        `koanf:"host"`
	Port              int           `koanf:"port"`
	ReadHeaderTimeout time.Duration `koanf:"read_header_timeout"`
	ShutdownTimeout   time.Duration `koanf:"shutdown_timeout"`

	// CORSAllowedOrigins lists the origins allowed by CORS.
	// Empty allows any origin.
	CORSAllowedOrigins []string `koanf:"cors_allowed_origins"`

	RateLimit RateLimitConfig `koanf:"rate_limit"`
}

// Addr returns the listen address in host:port form.
func (s ServerSection) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

// RateLimitConfig configures the per-client request limit.
// A zero RequestsPerSecond disables limiting.
type RateLimitConfig struct {
	RequestsPerSecond float64 `koanf:"requests_per_second"`
	Burst             int     `koanf:"burst"`
}

// Enabled reports whether rate limiting is on.
func (r RateLimitConfig) Enabled() bool {
	return r.RequestsPerSecond > 0
}

// APISection configures route paths.
type APISection struct {
	V1Prefix    string `koanf:"v1_prefix"`
	HealthPath  string `koanf:"health_path"`
	MetricsPath string `koanf:"metrics_path"`
	GreetPath   string `koanf:"greet_path"`
}

// HealthURL returns the full health check path.
func (a APISection) HealthURL() string { return a.V1Prefix + a.HealthPath }

// MetricsURL returns the full metrics path.
func (a APISection) MetricsURL() string { return a.V1Prefix + a.MetricsPath }

// GreetURL returns the full greeting path.
func (a APISection) GreetURL() string { return a.V1Prefix + a.GreetPath }

// GreetingSection configures the greeting endpoint.
type GreetingSection struct {
	// DefaultName is used when the request carries no name.
	DefaultName string `koanf:"default_name"`
}

// MetricsSection configures the metric catalog.
type MetricsSection struct {
	// HashGreetNames replaces greeting-name label values with a digest.
	HashGreetNames bool `koanf:"hash_greet_names"`

	// DurationBuckets overrides the request latency buckets, in seconds.
	// Empty selects the built-in buckets.
	DurationBuckets []float64 `koanf:"duration_buckets"`
}

// LogSection configures logging.
type LogSection struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}
