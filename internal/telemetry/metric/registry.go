// Package metric provides the process-wide Prometheus metrics of the service.
//
// A Registry owns every series declared at startup. Series never appear or
// disappear at runtime; only label-value combinations accumulate. Values are
// kept in client_golang vectors, so every update is atomic per sample and no
// lock is shared between unrelated series.
package metric

import (
	"bytes"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"
)

// ContentType is the media type of a rendered snapshot.
const ContentType = "text/plain; version=0.0.4; charset=utf-8"

// Kind is the type of a declared series as written in its TYPE header.
type Kind string

// Series kinds.
const (
	KindCounter   Kind = "counter"
	KindGauge     Kind = "gauge"
	KindHistogram Kind = "histogram"
)

// series describes one declared metric.
type series struct {
	name   string
	help   string
	kind   Kind
	labels []string
}

// Registry holds all declared series and renders them on demand.
type Registry struct {
	reg *prometheus.Registry

	mu     sync.RWMutex
	series map[string]series
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		reg:    prometheus.NewRegistry(),
		series: make(map[string]series),
	}
}

// DeclareCounter declares a counter series.
// It panics if name was already declared.
func (r *Registry) DeclareCounter(name, help string, labelNames ...string) *Counter {
	vec := prometheus.NewCounterVec(prometheus.CounterOpts{Name: name, Help: help}, labelNames)
	r.declare(series{name: name, help: help, kind: KindCounter, labels: labelNames}, vec)
	if len(labelNames) == 0 {
		vec.WithLabelValues()
	}
	return &Counter{vec: vec}
}

// DeclareGauge declares a gauge series.
// It panics if name was already declared.
func (r *Registry) DeclareGauge(name, help string, labelNames ...string) *Gauge {
	vec := prometheus.NewGaugeVec(prometheus.GaugeOpts{Name: name, Help: help}, labelNames)
	r.declare(series{name: name, help: help, kind: KindGauge, labels: labelNames}, vec)
	if len(labelNames) == 0 {
		vec.WithLabelValues()
	}
	return &Gauge{vec: vec}
}

// DeclareHistogram declares a histogram series with the given upper bounds.
// A nil buckets slice selects DefaultDurationBuckets.
// It panics if name was already declared.
func (r *Registry) DeclareHistogram(name, help string, buckets []float64, labelNames ...string) *Histogram {
	if buckets == nil {
		buckets = DefaultDurationBuckets
	}
	vec := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    name,
		Help:    help,
		Buckets: buckets,
	}, labelNames)
	r.declare(series{name: name, help: help, kind: KindHistogram, labels: labelNames}, vec)
	if len(labelNames) == 0 {
		vec.WithLabelValues()
	}
	return &Histogram{vec: vec}
}

func (r *Registry) declare(s series, c prometheus.Collector) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, dup := r.series[s.name]; dup {
		panic(fmt.Sprintf("metric: series %q declared twice", s.name))
	}
	r.reg.MustRegister(c)
	r.series[s.name] = s
}

// Names returns the declared series names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.series))
	for name := range r.series {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Snapshot renders every declared series in the Prometheus text format.
//
// Series without any labeled sample still emit their HELP and TYPE lines.
// Each sample is read atomically; the snapshot as a whole is not a single
// transaction across series.
func (r *Registry) Snapshot() (string, error) {
	families, err := r.reg.Gather()
	if err != nil {
		return "", fmt.Errorf("gather metrics: %w", err)
	}

	byName := make(map[string]*dto.MetricFamily, len(families))
	for _, mf := range families {
		byName[mf.GetName()] = mf
	}

	var buf bytes.Buffer
	for _, name := range r.Names() {
		if mf, ok := byName[name]; ok && len(mf.GetMetric()) > 0 {
			if _, err := expfmt.MetricFamilyToText(&buf, mf); err != nil {
				return "", fmt.Errorf("render %s: %w", name, err)
			}
			continue
		}

		r.mu.RLock()
		s := r.series[name]
		r.mu.RUnlock()
		fmt.Fprintf(&buf, "# HELP %s %s\n# TYPE %s %s\n", s.name, helpEscaper.Replace(s.help), s.name, s.kind)
	}
	return buf.String(), nil
}

var helpEscaper = strings.NewReplacer(`\`, `\\`, "\n", `\n`)

// Counter is a handle to a declared counter series.
type Counter struct {
	vec *prometheus.CounterVec
}

// Inc adds 1 to the sample identified by labelValues.
func (c *Counter) Inc(labelValues ...string) {
	c.vec.WithLabelValues(labelValues...).Inc()
}

// Add adds v to the sample identified by labelValues. It panics if v is negative.
func (c *Counter) Add(v float64, labelValues ...string) {
	c.vec.WithLabelValues(labelValues...).Add(v)
}

// Gauge is a handle to a declared gauge series.
type Gauge struct {
	vec *prometheus.GaugeVec
}

// Set overwrites the sample identified by labelValues.
func (g *Gauge) Set(v float64, labelValues ...string) {
	g.vec.WithLabelValues(labelValues...).Set(v)
}

// Histogram is a handle to a declared histogram series.
type Histogram struct {
	vec *prometheus.HistogramVec
}

// Observe records v into the sample identified by labelValues.
func (h *Histogram) Observe(v float64, labelValues ...string) {
	h.vec.WithLabelValues(labelValues...).Observe(v)
}
