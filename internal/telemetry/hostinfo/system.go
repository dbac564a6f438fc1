package hostinfo

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/disk"
	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/load"
	"github.com/shirou/gopsutil/v4/mem"
)

// ErrUnsupported is returned for measurements the platform does not provide.
var ErrUnsupported = errors.New("hostinfo: not supported on this platform")

// Memory is a virtual memory reading in bytes.
type Memory struct {
	Used  uint64
	Total uint64
}

// Partition is a mounted filesystem.
type Partition struct {
	Device     string
	Mountpoint string
}

// DiskUsage is the space accounting of one mountpoint in bytes.
type DiskUsage struct {
	Used  uint64
	Total uint64
}

// LoadAverage holds the 1, 5 and 15 minute run queue averages.
type LoadAverage struct {
	Load1  float64
	Load5  float64
	Load15 float64
}

// System reads host-wide facts.
type System struct{}

// NewSystem creates a host reader.
func NewSystem() *System {
	return &System{}
}

// CPUPercent returns the CPU utilization since the previous call.
func (s *System) CPUPercent(ctx context.Context) (float64, error) {
	percents, err := cpu.PercentWithContext(ctx, 0, false)
	if err != nil {
		return 0, fmt.Errorf("cpu percent: %w", err)
	}
	if len(percents) == 0 {
		return 0, errors.New("cpu percent: no sample")
	}
	return percents[0], nil
}

// VirtualMemory returns used and total virtual memory.
func (s *System) VirtualMemory(ctx context.Context) (Memory, error) {
	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return Memory{}, fmt.Errorf("virtual memory: %w", err)
	}
	return Memory{Used: vm.Used, Total: vm.Total}, nil
}

// Partitions returns the physical mounted partitions.
func (s *System) Partitions(ctx context.Context) ([]Partition, error) {
	stats, err := disk.PartitionsWithContext(ctx, false)
	if err != nil {
		return nil, fmt.Errorf("disk partitions: %w", err)
	}
	parts := make([]Partition, 0, len(stats))
	for _, st := range stats {
		parts = append(parts, Partition{Device: st.Device, Mountpoint: st.Mountpoint})
	}
	return parts, nil
}

// DiskUsage returns the space accounting of mountpoint.
func (s *System) DiskUsage(ctx context.Context, mountpoint string) (DiskUsage, error) {
	u, err := disk.UsageWithContext(ctx, mountpoint)
	if err != nil {
		return DiskUsage{}, fmt.Errorf("disk usage %s: %w", mountpoint, err)
	}
	return DiskUsage{Used: u.Used, Total: u.Total}, nil
}

// LoadAverage returns the load averages. Windows has none.
func (s *System) LoadAverage(ctx context.Context) (LoadAverage, error) {
	if runtime.GOOS == "windows" {
		return LoadAverage{}, ErrUnsupported
	}
	avg, err := load.AvgWithContext(ctx)
	if err != nil {
		return LoadAverage{}, fmt.Errorf("load average: %w", err)
	}
	return LoadAverage{Load1: avg.Load1, Load5: avg.Load5, Load15: avg.Load15}, nil
}

// Uptime returns the time since boot.
func (s *System) Uptime(ctx context.Context) (time.Duration, error) {
	secs, err := host.UptimeWithContext(ctx)
	if err != nil {
		return 0, fmt.Errorf("uptime: %w", err)
	}
	return time.Duration(secs) * time.Second, nil
}
