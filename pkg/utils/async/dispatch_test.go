package async_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/herald/pkg/utils/async"
)

// safeBuffer is a thread-safe buffer for concurrent logging
type safeBuffer struct {
	b bytes.Buffer
	m sync.Mutex
}

func (sb *safeBuffer) Write(p []byte) (int, error) {
	sb.m.Lock()
	defer sb.m.Unlock()
	return sb.b.Write(p)
}

func (sb *safeBuffer) String() string {
	sb.m.Lock()
	defer sb.m.Unlock()
	return sb.b.String()
}

func newLogCtx(buf *safeBuffer) context.Context {
	logger := slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{
		Level: slog.LevelError,
	}))
	return ctxlog.With(context.Background(), logger)
}

func TestDispatch(t *testing.T) {
	t.Run("executes handler asynchronously", func(t *testing.T) {
		done := make(chan struct{})

		async.Dispatch(context.Background(), func(ctx context.Context) error {
			close(done)
			return nil
		})

		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("handler was not executed")
		}
	})

	t.Run("detaches from caller cancellation", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		done := make(chan error, 1)
		async.Dispatch(ctx, func(ctx context.Context) error {
			done <- ctx.Err()
			return nil
		})

		select {
		case err := <-done:
			gt.NoError(t, err)
		case <-time.After(time.Second):
			t.Fatal("handler was not executed")
		}
	})

	t.Run("recovers panic and logs stack", func(t *testing.T) {
		var buf safeBuffer
		ctx := newLogCtx(&buf)

		async.Dispatch(ctx, func(ctx context.Context) error {
			panic("test panic")
		})

		waitForLog(t, &buf, "panic in async handler")
		gt.String(t, buf.String()).Contains("test panic")
		gt.String(t, buf.String()).Contains("goroutine")
	})

	t.Run("logs handler error", func(t *testing.T) {
		var buf safeBuffer
		ctx := newLogCtx(&buf)

		async.Dispatch(ctx, func(ctx context.Context) error {
			return errors.New("handler failed")
		})

		waitForLog(t, &buf, "error in async handler")
		gt.String(t, buf.String()).Contains("handler failed")
	})
}

func waitForLog(t *testing.T, buf *safeBuffer, want string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if bytes.Contains([]byte(buf.String()), []byte(want)) {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("log output does not contain %q: %s", want, buf.String())
}
