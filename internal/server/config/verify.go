package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/darleilopes/healthy-go/internal/telemetry/logger"
)

// Verify validates the configuration.
func Verify(cfg *ServerConfig) error {
	return errors.Join(
		verifyApp(&cfg.App),
		verifyServer(&cfg.Server),
		verifyAPI(&cfg.API),
		verifyMetrics(&cfg.Metrics),
		verifyLog(&cfg.Log),
	)
}

func verifyApp(cfg *AppSection) error {
	if strings.TrimSpace(cfg.Name) == "" {
		return errors.New("app.name is required")
	}
	return nil
}

func verifyServer(cfg *ServerSection) error {
	var errs []error
	if cfg.Port < 1 || cfg.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port %d out of range 1-65535", cfg.Port))
	}
	if cfg.ReadHeaderTimeout < 0 {
		errs = append(errs, errors.New("server.read_header_timeout must not be negative"))
	}
	if cfg.ShutdownTimeout < 0 {
		errs = append(errs, errors.New("server.shutdown_timeout must not be negative"))
	}
	if cfg.RateLimit.RequestsPerSecond < 0 {
		errs = append(errs, errors.New("server.rate_limit.requests_per_second must not be negative"))
	}
	if cfg.RateLimit.Burst < 0 {
		errs = append(errs, errors.New("server.rate_limit.burst must not be negative"))
	}
	return errors.Join(errs...)
}

func verifyAPI(cfg *APISection) error {
	var errs []error
	for _, f := range []struct{ key, path string }{
		{"api.v1_prefix", cfg.V1Prefix},
		{"api.health_path", cfg.HealthPath},
		{"api.metrics_path", cfg.MetricsPath},
		{"api.greet_path", cfg.GreetPath},
	} {
		if !strings.HasPrefix(f.path, "/") {
			errs = append(errs, fmt.Errorf("%s %q must start with /", f.key, f.path))
		}
		if strings.ContainsAny(f.path, "{} \t\n") {
			errs = append(errs, fmt.Errorf("%s %q must not contain braces or whitespace", f.key, f.path))
		}
	}

	// Every route is registered on one mux; two equal paths cannot coexist.
	seen := map[string]string{
		RootPath:    "the root route",
		OpenAPIPath: "the OpenAPI route",
	}
	for _, r := range []struct{ key, url string }{
		{"api.health_path", cfg.HealthURL()},
		{"api.metrics_path", cfg.MetricsURL()},
		{"api.greet_path", cfg.GreetURL()},
	} {
		if other, ok := seen[r.url]; ok {
			errs = append(errs, fmt.Errorf("%s: route %q conflicts with %s", r.key, r.url, other))
			continue
		}
		seen[r.url] = r.key
	}
	return errors.Join(errs...)
}

func verifyMetrics(cfg *MetricsSection) error {
	for i := 1; i < len(cfg.DurationBuckets); i++ {
		if cfg.DurationBuckets[i] <= cfg.DurationBuckets[i-1] {
			return errors.New("metrics.duration_buckets must be strictly increasing")
		}
	}
	return nil
}

func verifyLog(cfg *LogSection) error {
	if _, err := logger.ParseLevel(cfg.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	switch strings.ToLower(cfg.Format) {
	case "", "json", "console", "text":
		return nil
	default:
		return fmt.Errorf("log.format: unknown format %q", cfg.Format)
	}
}
