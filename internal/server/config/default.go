package config

import "time"

// Default configuration values.
const (
	DefaultAppName     = "Healthy"
	DefaultAppVersion  = "1.0.0"
	DefaultEnvironment = "development"

	DefaultHost              = "0.0.0.0"
	DefaultPort              = 8000
	DefaultReadHeaderTimeout = 10 * time.Second
	DefaultShutdownTimeout   = 15 * time.Second

	DefaultV1Prefix    = "/api/v1"
	DefaultHealthPath  = "/healthz"
	DefaultMetricsPath = "/metrics"
	DefaultGreetPath   = "/greet"

	DefaultGreetingName = "you!!"

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
)

// Default returns the default server configuration.
//
// Slice fields are left nil so that values loaded on top replace them
// instead of merging element by element.
func Default() *ServerConfig {
	return &ServerConfig{
		App: AppSection{
			Name:        DefaultAppName,
			Version:     DefaultAppVersion,
			Environment: DefaultEnvironment,
		},
		Server: ServerSection{
			Host:              DefaultHost,
			Port:              DefaultPort,
			ReadHeaderTimeout: DefaultReadHeaderTimeout,
			ShutdownTimeout:   DefaultShutdownTimeout,
		},
		API: APISection{
			V1Prefix:    DefaultV1Prefix,
			HealthPath:  DefaultHealthPath,
			MetricsPath: DefaultMetricsPath,
			GreetPath:   DefaultGreetPath,
		},
		Greeting: GreetingSection{
			DefaultName: DefaultGreetingName,
		},
		Log: LogSection{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}
