package metric

import (
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/spaolacci/murmur3"
)

// Series names exposed by the service.
const (
	NameRequestsTotal   = "http_requests_total"
	NameRequestDuration = "http_request_duration_seconds"
	NameAppInfo         = "app_info"

	NameSystemCPU         = "system_cpu_usage_percent"
	NameSystemMemoryUsage = "system_memory_usage_bytes"
	NameSystemMemoryTotal = "system_memory_total_bytes"
	NameSystemDiskUsage   = "system_disk_usage_bytes"
	NameSystemDiskTotal   = "system_disk_total_bytes"
	NameSystemLoadAverage = "system_load_average"
	NameSystemUptime      = "system_uptime_seconds"

	NameProcessCPU     = "process_cpu_usage_percent"
	NameProcessMemory  = "process_memory_usage_bytes"
	NameProcessOpenFDs = "process_open_file_descriptors"
	NameProcessThreads = "process_threads_total"

	NameGreetRequests = "greet_requests_total"
	NameHealthChecks  = "health_checks_total"
)

// DefaultDurationBuckets are the request latency upper bounds in seconds.
var DefaultDurationBuckets = []float64{.005, .01, .025, .05, .075, .1, .25, .5, .75, 1, 2.5, 5, 7.5, 10}

// AppInfo is the fixed informational record exposed as app_info.
type AppInfo struct {
	Name         string
	Version      string
	Environment  string
	GoVersion    string
	Platform     string
	Architecture string
}

// Metrics is the fixed catalog of series the service exposes.
//
// Every series is declared in New, before any traffic is served.
type Metrics struct {
	registry *Registry

	requestsTotal   *Counter
	requestDuration *Histogram
	appInfo         *Gauge
	greetRequests   *Counter
	healthChecks    *Counter

	system  systemGauges
	process processGauges

	greetLabel func(string) string
	infoOnce   sync.Once
}

type systemGauges struct {
	cpu         *Gauge
	memoryUsed  *Gauge
	memoryTotal *Gauge
	diskUsed    *Gauge
	diskTotal   *Gauge
	load        *Gauge
	uptime      *Gauge
}

type processGauges struct {
	cpu     *Gauge
	memory  *Gauge
	openFDs *Gauge
	threads *Gauge
}

type options struct {
	buckets        []float64
	hashGreetNames bool
}

// Option configures the catalog.
type Option func(*options)

// WithDurationBuckets overrides the request latency buckets.
func WithDurationBuckets(buckets []float64) Option {
	return func(o *options) {
		if len(buckets) > 0 {
			o.buckets = buckets
		}
	}
}

// WithHashedGreetNames replaces greeting-name label values with a murmur3
// digest, bounding the label to fixed-width values. Distinct names still
// produce distinct series.
func WithHashedGreetNames(enabled bool) Option {
	return func(o *options) {
		o.hashGreetNames = enabled
	}
}

// New declares every series of the service on reg.
func New(reg *Registry, opts ...Option) *Metrics {
	o := options{buckets: DefaultDurationBuckets}
	for _, opt := range opts {
		opt(&o)
	}

	m := &Metrics{
		registry: reg,

		requestsTotal:   reg.DeclareCounter(NameRequestsTotal, "HTTP requests total", "method", "endpoint", "status"),
		requestDuration: reg.DeclareHistogram(NameRequestDuration, "HTTP request duration in seconds", o.buckets, "method", "endpoint"),
		appInfo: reg.DeclareGauge(NameAppInfo, "App info",
			"name", "version", "environment", "go_version", "platform", "architecture"),

		system: systemGauges{
			cpu:         reg.DeclareGauge(NameSystemCPU, "System CPU usage percent"),
			memoryUsed:  reg.DeclareGauge(NameSystemMemoryUsage, "System memory usage in bytes"),
			memoryTotal: reg.DeclareGauge(NameSystemMemoryTotal, "System memory total in bytes"),
			diskUsed:    reg.DeclareGauge(NameSystemDiskUsage, "System disk usage in bytes", "device"),
			diskTotal:   reg.DeclareGauge(NameSystemDiskTotal, "System disk total in bytes", "device"),
			load:        reg.DeclareGauge(NameSystemLoadAverage, "System load average", "period"),
			uptime:      reg.DeclareGauge(NameSystemUptime, "System uptime in seconds"),
		},
		process: processGauges{
			cpu:     reg.DeclareGauge(NameProcessCPU, "Process CPU usage percent"),
			memory:  reg.DeclareGauge(NameProcessMemory, "Process memory usage in bytes"),
			openFDs: reg.DeclareGauge(NameProcessOpenFDs, "Number of open file descriptors"),
			threads: reg.DeclareGauge(NameProcessThreads, "Number of threads total"),
		},

		// The name label admits one series per distinct name ever greeted.
		// Enable hashing to shorten the values when names are untrusted.
		greetRequests: reg.DeclareCounter(NameGreetRequests, "Total greeting requests", "name"),
		healthChecks:  reg.DeclareCounter(NameHealthChecks, "Total health check requests"),

		greetLabel: func(name string) string { return name },
	}

	if o.hashGreetNames {
		m.greetLabel = hashLabel
	}
	return m
}

// Registry returns the registry the catalog was declared on.
func (m *Metrics) Registry() *Registry {
	return m.registry
}

// SetAppInfo publishes the app_info sample. Only the first call has an effect.
func (m *Metrics) SetAppInfo(info AppInfo) {
	m.infoOnce.Do(func() {
		m.appInfo.Set(1, info.Name, info.Version, info.Environment, info.GoVersion, info.Platform, info.Architecture)
	})
}

// RecordRequest records one completed HTTP request.
func (m *Metrics) RecordRequest(method, endpoint string, status int, duration time.Duration) {
	m.requestsTotal.Inc(method, endpoint, strconv.Itoa(status))
	m.requestDuration.Observe(duration.Seconds(), method, endpoint)
}

// RecordGreetRequest counts one greeting for name.
func (m *Metrics) RecordGreetRequest(name string) {
	m.greetRequests.Inc(m.greetLabel(name))
}

// RecordHealthCheck counts one health check.
func (m *Metrics) RecordHealthCheck() {
	m.healthChecks.Inc()
}

func hashLabel(v string) string {
	return fmt.Sprintf("%08x", murmur3.Sum32([]byte(v)))
}
