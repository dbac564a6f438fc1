// Package handler provides the HTTP endpoints of healthy-server.
//
//   - root.go: application information and the OpenAPI document
//   - health.go: liveness check
//   - greet.go: personalized greeting
//   - metrics.go: Prometheus exposition
//
// Errors are written as JSON in one of three shapes: HTTPError for
// protocol-level failures, ValidationError for malformed query parameters
// and ErrorResponse for rejected greeting names.
package handler
