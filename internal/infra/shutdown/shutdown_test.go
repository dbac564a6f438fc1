package shutdown

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/darleilopes/healthy-go/internal/telemetry/logger"
)

func newTestHandler(timeout time.Duration) *Handler {
	return NewHandler(timeout, WithLogger(logger.Nop()))
}

func waitAsync(h *Handler, ctx context.Context) <-chan error {
	errCh := make(chan error, 1)
	go func() { errCh <- h.Wait(ctx) }()
	return errCh
}

func TestHandler_TriggerRunsHooksInReverse(t *testing.T) {
	h := newTestHandler(time.Second)

	var mu sync.Mutex
	var order []string
	for _, name := range []string{"watcher", "logger", "http"} {
		h.OnShutdown(name, func(context.Context) error {
			mu.Lock()
			order = append(order, name)
			mu.Unlock()
			return nil
		})
	}

	errCh := waitAsync(h, context.Background())
	h.Trigger()
	h.Trigger()

	select {
	case err := <-errCh:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Wait did not return")
	}

	assert.Equal(t, []string{"http", "logger", "watcher"}, order)
	select {
	case <-h.Done():
	default:
		t.Error("Done should be closed after Wait")
	}
}

func TestHandler_JoinsHookErrors(t *testing.T) {
	h := newTestHandler(time.Second)
	errA := errors.New("a failed")
	errB := errors.New("b failed")

	h.OnShutdown("a", func(context.Context) error { return errA })
	h.OnShutdown("ok", func(context.Context) error { return nil })
	h.OnShutdown("b", func(context.Context) error { return errB })

	errCh := waitAsync(h, context.Background())
	h.Trigger()

	err := <-errCh
	assert.ErrorIs(t, err, errA)
	assert.ErrorIs(t, err, errB)
	assert.Contains(t, err.Error(), "a: a failed")
}

func TestHandler_HooksShareTimeout(t *testing.T) {
	h := newTestHandler(20 * time.Millisecond)
	h.OnShutdown("slow", func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})

	errCh := waitAsync(h, context.Background())
	h.Trigger()

	assert.ErrorIs(t, <-errCh, context.DeadlineExceeded)
}

func TestHandler_ParentCancelStillRunsHooks(t *testing.T) {
	h := newTestHandler(time.Second)

	ran := make(chan struct{})
	h.OnShutdown("hook", func(ctx context.Context) error {
		assert.NoError(t, ctx.Err())
		close(ran)
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	errCh := waitAsync(h, ctx)
	cancel()

	require.NoError(t, <-errCh)
	select {
	case <-ran:
	default:
		t.Error("hook did not run")
	}
}

func TestHandler_DoneOpenBeforeShutdown(t *testing.T) {
	h := newTestHandler(time.Second)
	select {
	case <-h.Done():
		t.Error("Done should not be closed initially")
	default:
	}
}
