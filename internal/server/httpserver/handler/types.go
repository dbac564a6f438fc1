package handler

import "time"

// timestampLayout renders UTC times with a literal Z suffix.
const timestampLayout = "2006-01-02T15:04:05.000000Z07:00"

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

// RootResponse is the body of GET /.
type RootResponse struct {
	App         string `json:"app"`
	Version     string `json:"version"`
	Environment string `json:"environment"`
	DocsURL     string `json:"docs_url"`
	HealthURL   string `json:"health_url"`
	MetricsURL  string `json:"metrics_url"`
}

// HealthResponse is the body of the health check.
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Version   string `json:"version"`
}

// GreetingResponse is the body of a successful greeting.
type GreetingResponse struct {
	Message   string `json:"message"`
	Name      string `json:"name"`
	Timestamp string `json:"timestamp"`
}

// ErrorResponse rejects a request the endpoint understood but refused.
type ErrorResponse struct {
	Error     string `json:"error"`
	Detail    string `json:"detail"`
	Timestamp string `json:"timestamp"`
}

// HTTPError reports a protocol-level failure such as 404 or 405.
type HTTPError struct {
	Error      string `json:"error"`
	Detail     string `json:"detail"`
	StatusCode int    `json:"status_code"`
}

// ValidationError reports malformed request parameters.
type ValidationError struct {
	Error  string            `json:"error"`
	Detail []ValidationIssue `json:"detail"`
	Body   any               `json:"body"`
}

// ValidationIssue describes one rejected parameter.
type ValidationIssue struct {
	Type  string         `json:"type"`
	Loc   []string       `json:"loc"`
	Msg   string         `json:"msg"`
	Input string         `json:"input"`
	Ctx   map[string]any `json:"ctx,omitempty"`
}
