// Package main provides the entry point for healthy-server.
//
// healthy-server serves a greeting endpoint, a health check and the
// Prometheus metrics of the process and its host.
//
// Configuration is read from an optional YAML file (--config), then from
// HEALTHY_* environment variables, then from command-line flags.
package main
