package hostinfo

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"sync"

	"github.com/shirou/gopsutil/v4/process"
)

// Process reads facts about one process.
//
// If the process handle could not be opened, every reading returns that error.
type Process struct {
	mu   sync.Mutex
	proc *process.Process
	err  error
}

// NewProcess opens a reader for pid.
func NewProcess(pid int) *Process {
	p, err := process.NewProcess(int32(pid))
	if err != nil {
		return &Process{err: fmt.Errorf("open process %d: %w", pid, err)}
	}
	return &Process{proc: p}
}

// Self opens a reader for the current process.
func Self() *Process {
	return NewProcess(os.Getpid())
}

// CPUPercent returns the CPU utilization since the previous call.
// The first call returns 0.
func (p *Process) CPUPercent(ctx context.Context) (float64, error) {
	if p.err != nil {
		return 0, p.err
	}
	// gopsutil keeps the previous sample on the handle.
	p.mu.Lock()
	defer p.mu.Unlock()

	v, err := p.proc.PercentWithContext(ctx, 0)
	if err != nil {
		return 0, fmt.Errorf("process cpu percent: %w", err)
	}
	return v, nil
}

// ResidentMemory returns the resident set size in bytes.
func (p *Process) ResidentMemory(ctx context.Context) (uint64, error) {
	if p.err != nil {
		return 0, p.err
	}
	mi, err := p.proc.MemoryInfoWithContext(ctx)
	if err != nil {
		return 0, fmt.Errorf("process memory: %w", err)
	}
	return mi.RSS, nil
}

// OpenFiles returns the number of open file descriptors. Windows has none.
func (p *Process) OpenFiles(ctx context.Context) (int32, error) {
	if p.err != nil {
		return 0, p.err
	}
	if runtime.GOOS == "windows" {
		return 0, ErrUnsupported
	}
	n, err := p.proc.NumFDsWithContext(ctx)
	if err != nil {
		return 0, fmt.Errorf("process fds: %w", err)
	}
	return n, nil
}

// Threads returns the number of OS threads of the process.
func (p *Process) Threads(ctx context.Context) (int32, error) {
	if p.err != nil {
		return 0, p.err
	}
	n, err := p.proc.NumThreadsWithContext(ctx)
	if err != nil {
		return 0, fmt.Errorf("process threads: %w", err)
	}
	return n, nil
}
