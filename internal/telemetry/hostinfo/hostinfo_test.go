package hostinfo

import (
	"context"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSystem_VirtualMemory(t *testing.T) {
	m, err := NewSystem().VirtualMemory(context.Background())
	require.NoError(t, err)
	assert.Positive(t, m.Total)
	assert.LessOrEqual(t, m.Used, m.Total)
}

func TestSystem_CPUPercent(t *testing.T) {
	v, err := NewSystem().CPUPercent(context.Background())
	require.NoError(t, err)
	assert.GreaterOrEqual(t, v, 0.0)
	assert.LessOrEqual(t, v, 100.0)
}

func TestSystem_LoadAverage(t *testing.T) {
	_, err := NewSystem().LoadAverage(context.Background())
	if runtime.GOOS == "windows" {
		assert.ErrorIs(t, err, ErrUnsupported)
		return
	}
	assert.NoError(t, err)
}

func TestSystem_Uptime(t *testing.T) {
	up, err := NewSystem().Uptime(context.Background())
	require.NoError(t, err)
	assert.Positive(t, up)
}

func TestSelf_Readings(t *testing.T) {
	p := Self()
	ctx := context.Background()

	rss, err := p.ResidentMemory(ctx)
	require.NoError(t, err)
	assert.Positive(t, rss)

	threads, err := p.Threads(ctx)
	require.NoError(t, err)
	assert.Positive(t, threads)

	_, err = p.CPUPercent(ctx)
	assert.NoError(t, err)
}

func TestNewProcess_InvalidPID(t *testing.T) {
	p := NewProcess(-1)
	ctx := context.Background()

	_, err := p.CPUPercent(ctx)
	assert.Error(t, err)
	_, err = p.ResidentMemory(ctx)
	assert.Error(t, err)
	_, err = p.OpenFiles(ctx)
	assert.Error(t, err)
	_, err = p.Threads(ctx)
	assert.Error(t, err)
}
