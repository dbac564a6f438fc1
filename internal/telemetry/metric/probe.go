package metric

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/darleilopes/healthy-go/internal/telemetry/hostinfo"
)

// Outcome tells what happened to one probed field.
type Outcome int

const (
	// Sampled means the gauge was updated.
	Sampled Outcome = iota
	// Skipped means the reading failed and the gauge kept its previous value.
	Skipped
	// Unsupported means the platform has no such reading.
	Unsupported
)

func (o Outcome) String() string {
	switch o {
	case Sampled:
		return "sampled"
	case Skipped:
		return "skipped"
	case Unsupported:
		return "unsupported"
	default:
		return "unknown"
	}
}

// Result is the outcome of refreshing one field.
type Result struct {
	Field   string
	Outcome Outcome
	Err     error
}

// Report lists the results of one refresh, in probing order.
type Report []Result

// Failed returns the results that did not update their gauge.
func (r Report) Failed() []Result {
	var out []Result
	for _, res := range r {
		if res.Outcome != Sampled {
			out = append(out, res)
		}
	}
	return out
}

// Probe refreshes a group of gauges. Refresh never fails; problems are
// reported per field.
type Probe interface {
	Name() string
	Refresh(ctx context.Context) Report
}

// sample runs fn and classifies its outcome. A panic inside fn is reported
// as a skip.
func sample(field string, fn func() error) (res Result) {
	defer func() {
		if rec := recover(); rec != nil {
			res = Result{Field: field, Outcome: Skipped, Err: fmt.Errorf("panic: %v", rec)}
		}
	}()

	if err := fn(); err != nil {
		if errors.Is(err, hostinfo.ErrUnsupported) {
			return Result{Field: field, Outcome: Unsupported, Err: err}
		}
		return Result{Field: field, Outcome: Skipped, Err: err}
	}
	return Result{Field: field, Outcome: Sampled}
}

// SystemSource provides host-wide readings.
type SystemSource interface {
	CPUPercent(ctx context.Context) (float64, error)
	VirtualMemory(ctx context.Context) (hostinfo.Memory, error)
	Partitions(ctx context.Context) ([]hostinfo.Partition, error)
	DiskUsage(ctx context.Context, mountpoint string) (hostinfo.DiskUsage, error)
	LoadAverage(ctx context.Context) (hostinfo.LoadAverage, error)
	Uptime(ctx context.Context) (time.Duration, error)
}

// SystemProbe refreshes the system_* gauges.
type SystemProbe struct {
	src    SystemSource
	gauges systemGauges
}

// NewSystemProbe creates a probe writing into m's system gauges.
func NewSystemProbe(m *Metrics, src SystemSource) *SystemProbe {
	return &SystemProbe{src: src, gauges: m.system}
}

// Name implements Probe.
func (p *SystemProbe) Name() string { return "system" }

// Refresh implements Probe.
func (p *SystemProbe) Refresh(ctx context.Context) Report {
	rep := Report{
		sample("cpu", func() error {
			v, err := p.src.CPUPercent(ctx)
			if err != nil {
				return err
			}
			p.gauges.cpu.Set(v)
			return nil
		}),
		sample("memory", func() error {
			m, err := p.src.VirtualMemory(ctx)
			if err != nil {
				return err
			}
			p.gauges.memoryUsed.Set(float64(m.Used))
			p.gauges.memoryTotal.Set(float64(m.Total))
			return nil
		}),
	}

	rep = append(rep, p.refreshDisks(ctx)...)

	rep = append(rep,
		sample("load", func() error {
			avg, err := p.src.LoadAverage(ctx)
			if err != nil {
				return err
			}
			p.gauges.load.Set(avg.Load1, "1m")
			p.gauges.load.Set(avg.Load5, "5m")
			p.gauges.load.Set(avg.Load15, "15m")
			return nil
		}),
		sample("uptime", func() error {
			up, err := p.src.Uptime(ctx)
			if err != nil {
				return err
			}
			p.gauges.uptime.Set(up.Seconds())
			return nil
		}),
	)
	return rep
}

// refreshDisks samples each partition independently.
func (p *SystemProbe) refreshDisks(ctx context.Context) Report {
	var parts []hostinfo.Partition
	res := sample("disk", func() error {
		var err error
		parts, err = p.src.Partitions(ctx)
		return err
	})
	if res.Outcome != Sampled {
		return Report{res}
	}

	rep := make(Report, 0, len(parts))
	for _, part := range parts {
		device := DeviceLabel(part.Device)
		rep = append(rep, sample("disk:"+part.Mountpoint, func() error {
			u, err := p.src.DiskUsage(ctx, part.Mountpoint)
			if err != nil {
				return err
			}
			p.gauges.diskUsed.Set(float64(u.Used), device)
			p.gauges.diskTotal.Set(float64(u.Total), device)
			return nil
		}))
	}
	return rep
}

// DeviceLabel turns a device path into a label value: "/dev/sda1" becomes "dev_sda1".
func DeviceLabel(device string) string {
	return strings.Trim(strings.ReplaceAll(device, "/", "_"), "_")
}

// ProcessSource provides readings about the current process.
type ProcessSource interface {
	CPUPercent(ctx context.Context) (float64, error)
	ResidentMemory(ctx context.Context) (uint64, error)
	OpenFiles(ctx context.Context) (int32, error)
	Threads(ctx context.Context) (int32, error)
}

// ProcessProbe refreshes the process_* gauges.
type ProcessProbe struct {
	src    ProcessSource
	gauges processGauges
}

// NewProcessProbe creates a probe writing into m's process gauges.
func NewProcessProbe(m *Metrics, src ProcessSource) *ProcessProbe {
	return &ProcessProbe{src: src, gauges: m.process}
}

// Name implements Probe.
func (p *ProcessProbe) Name() string { return "process" }

// Refresh implements Probe.
func (p *ProcessProbe) Refresh(ctx context.Context) Report {
	return Report{
		sample("cpu", func() error {
			v, err := p.src.CPUPercent(ctx)
			if err != nil {
				return err
			}
			p.gauges.cpu.Set(v)
			return nil
		}),
		sample("memory", func() error {
			v, err := p.src.ResidentMemory(ctx)
			if err != nil {
				return err
			}
			p.gauges.memory.Set(float64(v))
			return nil
		}),
		sample("open_fds", func() error {
			v, err := p.src.OpenFiles(ctx)
			if err != nil {
				return err
			}
			p.gauges.openFDs.Set(float64(v))
			return nil
		}),
		sample("threads", func() error {
			v, err := p.src.Threads(ctx)
			if err != nil {
				return err
			}
			p.gauges.threads.Set(float64(v))
			return nil
		}),
	}
}

// HostProbes returns the system and process probes backed by the real host.
func HostProbes(m *Metrics) []Probe {
	return []Probe{
		NewSystemProbe(m, hostinfo.NewSystem()),
		NewProcessProbe(m, hostinfo.Self()),
	}
}
