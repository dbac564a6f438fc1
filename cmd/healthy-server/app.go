package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/darleilopes/healthy-go/internal/infra/buildinfo"
	"github.com/darleilopes/healthy-go/internal/infra/confloader"
	"github.com/darleilopes/healthy-go/internal/infra/shutdown"
	"github.com/darleilopes/healthy-go/internal/server/config"
	"github.com/darleilopes/healthy-go/internal/server/httpserver"
	"github.com/darleilopes/healthy-go/internal/server/httpserver/handler"
	"github.com/darleilopes/healthy-go/internal/telemetry/logger"
	"github.com/darleilopes/healthy-go/internal/telemetry/metric"
)

// App creates the command-line application.
func App() *cli.App {
	return &cli.App{
		Name:    "healthy-server",
		Usage:   "Greeting, health check and Prometheus metrics HTTP service",
		Version: buildinfo.Get().String(),
		Flags:   flags(),
		Action:  serve,
	}
}

func flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Path to a YAML configuration file",
			EnvVars: []string{"HEALTHY_CONFIG"},
		},
		&cli.StringFlag{
			Name:  "host",
			Usage: "Address to bind (default 0.0.0.0)",
		},
		&cli.IntFlag{
			Name:    "port",
			Aliases: []string{"p"},
			Usage:   "Port to listen on (default 8000)",
		},
		&cli.StringFlag{
			Name:  "log-level",
			Usage: "Log level: debug, info, warn, error",
		},
		&cli.StringFlag{
			Name:  "log-format",
			Usage: "Log format: json, console",
		},
	}
}

// flagValues maps the flags set on the command line to configuration keys.
// Unset flags are left out so they do not mask file or env values.
func flagValues(c *cli.Context) map[string]any {
	values := make(map[string]any)
	if c.IsSet("host") {
		values["server.host"] = c.String("host")
	}
	if c.IsSet("port") {
		values["server.port"] = c.Int("port")
	}
	if c.IsSet("log-level") {
		values["log.level"] = c.String("log-level")
	}
	if c.IsSet("log-format") {
		values["log.format"] = c.String("log-format")
	}
	return values
}

// loadConfig reads and verifies the configuration.
func loadConfig(loader *confloader.Loader) (*config.ServerConfig, error) {
	cfg := config.Default()
	if err := loader.Load(cfg); err != nil {
		return nil, err
	}
	if cfg.App.Debug {
		cfg.Log.Level = "debug"
	}
	cfg.App.Version = buildinfo.VersionOr(cfg.App.Version)

	if err := config.Verify(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func serve(c *cli.Context) error {
	loader := confloader.NewLoader(
		confloader.WithConfigFile(c.String("config")),
		confloader.WithFlags(flagValues(c)),
	)
	cfg, err := loadConfig(loader)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.New(logger.Config{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Output:  os.Stdout,
		Service: "healthy-server",
	})
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	logger.SetDefault(log)

	build := buildinfo.Get()
	log.Info("starting healthy-server",
		"app", cfg.App.Name,
		"version", cfg.App.Version,
		"commit", build.Commit,
		"environment", cfg.App.Environment,
		"config", loader.FilePath(),
	)
	log.Debug("configuration loaded", "keys", loader.Keys())

	metrics := newMetrics(cfg, build)
	exporter := metric.NewExporter(metrics.Registry(), log.With("component", "exporter"), metric.HostProbes(metrics)...)
	h := handler.New(cfg, metrics, exporter, log)

	router := httpserver.NewRouter(&httpserver.RouterConfig{
		Server:   cfg.Server,
		Routes:   h.Routes(),
		Recorder: metrics,
		Logger:   log.With("component", "http"),
	})
	srv := httpserver.New(cfg.Server.Addr(), router, cfg.Server.ReadHeaderTimeout)
	if err := srv.Listen(); err != nil {
		return err
	}

	sh := shutdown.NewHandler(cfg.Server.ShutdownTimeout, shutdown.WithLogger(log))
	sh.OnShutdown("logger", func(context.Context) error {
		_ = log.Sync()
		return nil
	})

	if path := loader.FilePath(); path != "" {
		w, err := watchConfig(c.Context, loader, log)
		if err != nil {
			log.Warn("config hot reload disabled", "file", path, "error", err)
		} else {
			sh.OnShutdown("config-watcher", func(context.Context) error { return w.Stop() })
		}
	}

	sh.OnShutdown("http", srv.Shutdown)

	go func() {
		log.Info("HTTP server listening", "addr", srv.Addr())
		if err := srv.Serve(); err != nil {
			log.Error("HTTP server error", "error", err)
			sh.Trigger()
		}
	}()

	if err := sh.Wait(c.Context); err != nil {
		log.Error("shutdown error", "error", err)
		return err
	}

	log.Info("server stopped gracefully")
	return nil
}

// newMetrics declares the metric catalog and publishes app_info.
func newMetrics(cfg *config.ServerConfig, build buildinfo.Info) *metric.Metrics {
	m := metric.New(metric.NewRegistry(),
		metric.WithDurationBuckets(cfg.Metrics.DurationBuckets),
		metric.WithHashedGreetNames(cfg.Metrics.HashGreetNames),
	)
	m.SetAppInfo(metric.AppInfo{
		Name:         cfg.App.Name,
		Version:      cfg.App.Version,
		Environment:  cfg.App.Environment,
		GoVersion:    build.GoVersion,
		Platform:     build.Platform,
		Architecture: build.Architecture,
	})
	return m
}

// watchConfig reloads the configuration file when it changes and applies
// the new log level. Other settings take effect on restart.
func watchConfig(ctx context.Context, loader *confloader.Loader, log logger.Logger) (*confloader.Watcher, error) {
	w, err := confloader.NewWatcher(confloader.WithWatcherLogger(log))
	if err != nil {
		return nil, err
	}
	if err := w.Watch(loader.FilePath()); err != nil {
		_ = w.Stop()
		return nil, err
	}

	w.OnChange(func(path string) {
		applyReload(loader, log, path)
	})
	w.StartAsync(ctx)
	return w, nil
}

func applyReload(loader *confloader.Loader, log logger.Logger, path string) {
	cfg, err := loadConfig(loader)
	if err != nil {
		log.Warn("config reload rejected", "file", path, "error", err)
		return
	}
	log.Debug("configuration reloaded", "file", path, "keys", loader.Keys())
	if prev := logger.GetLevel(); prev != cfg.Log.Level {
		logger.SetLevel(cfg.Log.Level)
		log.Info("log level changed", "from", prev, "to", logger.GetLevel())
	}
}
