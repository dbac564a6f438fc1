package confloader

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/darleilopes/healthy-go/internal/telemetry/logger"
)

func newTestWatcher(t *testing.T) *Watcher {
	t.Helper()
	w, err := NewWatcher(WithWatcherLogger(logger.Nop()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Stop() })
	return w
}

func TestWatcher_WatchNonexistentDir(t *testing.T) {
	w := newTestWatcher(t)
	assert.Error(t, w.Watch("/nonexistent/path/config.yaml"))
}

func TestWatcher_StopTwice(t *testing.T) {
	w, err := NewWatcher()
	require.NoError(t, err)

	w.StartAsync(context.Background())
	assert.NoError(t, w.Stop())
	assert.NoError(t, w.Stop())
}

func TestWatcher_RunReturnsOnCancel(t *testing.T) {
	w := newTestWatcher(t)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		w.Run(ctx)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestWatcher_NotifiesInOrder(t *testing.T) {
	w := newTestWatcher(t)

	var mu sync.Mutex
	var got []int
	for i := 0; i < 3; i++ {
		w.OnChange(func(string) {
			mu.Lock()
			got = append(got, i)
			mu.Unlock()
		})
	}

	w.notify("/etc/healthy.yaml")
	assert.Equal(t, []int{0, 1, 2}, got)
}

func TestWatcher_FileChange(t *testing.T) {
	dir := t.TempDir()
	configFile := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(configFile, []byte("log:\n  level: info\n"), 0o644))

	w := newTestWatcher(t)
	require.NoError(t, w.Watch(configFile))

	changed := make(chan string, 10)
	w.OnChange(func(path string) {
		select {
		case changed <- path:
		default:
		}
	})
	w.StartAsync(context.Background())

	// A sibling file is ignored.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.yaml"), []byte("x: 1"), 0o644))
	require.NoError(t, os.WriteFile(configFile, []byte("log:\n  level: debug\n"), 0o644))

	select {
	case path := <-changed:
		abs, _ := filepath.Abs(configFile)
		assert.Equal(t, abs, mustAbs(t, path))
	case <-time.After(2 * time.Second):
		t.Fatal("change was not reported")
	}
}

func mustAbs(t *testing.T, p string) string {
	t.Helper()
	abs, err := filepath.Abs(p)
	require.NoError(t, err)
	return abs
}
