package metric

import (
	"context"

	"github.com/darleilopes/healthy-go/internal/telemetry/logger"
)

// Exporter renders the registry for a scrape.
//
// Probes are refreshed lazily on every Export; there is no background
// sampling.
type Exporter struct {
	registry *Registry
	probes   []Probe
	logger   logger.Logger
}

// NewExporter creates an exporter that refreshes probes, in order, before
// rendering reg.
func NewExporter(reg *Registry, log logger.Logger, probes ...Probe) *Exporter {
	if log == nil {
		log = logger.Nop()
	}
	return &Exporter{
		registry: reg,
		probes:   probes,
		logger:   log,
	}
}

// Export refreshes every probe and returns the rendered registry with its
// content type. Probe failures leave the affected gauges unchanged.
func (e *Exporter) Export(ctx context.Context) (string, string, error) {
	for _, p := range e.probes {
		for _, res := range p.Refresh(ctx).Failed() {
			e.logger.Debug("probe field not refreshed",
				"probe", p.Name(),
				"field", res.Field,
				"outcome", res.Outcome.String(),
				"error", res.Err,
			)
		}
	}

	text, err := e.registry.Snapshot()
	if err != nil {
		return "", ContentType, err
	}
	return text, ContentType, nil
}
