// Package logger provides structured logging for the service.
//
// This package wraps zap for structured logging:
//
//   - zap.go: zap core construction, the Logger interface and level control
//   - context.go: context-aware logging with request IDs
//
// Features:
//
//   - JSON and console output formats
//   - Runtime level changes shared by every logger
//   - Request ID propagation through context
package logger
