package host

import (
	"context"
	"runtime/debug"
	"sync"

	"go.uber.org/zap"
)

// ClientThread is the host's logic thread. Callbacks scheduled with InvokeLater
// run one at a time, in scheduling order, on the goroutine executing Run.
type ClientThread struct {
	logger *zap.Logger

	mu    sync.Mutex
	queue []func()
	wake  chan struct{}
}

func NewClientThread(logger *zap.Logger) *ClientThread {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ClientThread{
		logger: logger,
		wake:   make(chan struct{}, 1),
	}
}

// InvokeLater schedules fn on the logic thread. It never blocks.
func (t *ClientThread) InvokeLater(fn func()) {
	if fn == nil {
		return
	}
	t.mu.Lock()
	t.queue = append(t.queue, fn)
	t.mu.Unlock()
	select {
	case t.wake <- struct{}{}:
	default:
	}
}

// Run executes scheduled callbacks until ctx is cancelled.
func (t *ClientThread) Run(ctx context.Context) error {
	for {
		t.drain()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.wake:
		}
	}
}

// Flush waits until every callback scheduled before the call has run. It needs
// Run to be executing on another goroutine.
func (t *ClientThread) Flush(ctx context.Context) error {
	done := make(chan struct{})
	t.InvokeLater(func() { close(done) })
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Pending reports the number of callbacks waiting to run.
func (t *ClientThread) Pending() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.queue)
}

func (t *ClientThread) drain() {
	for {
		t.mu.Lock()
		batch := t.queue
		t.queue = nil
		t.mu.Unlock()
		if len(batch) == 0 {
			return
		}
		for _, fn := range batch {
			t.call(fn)
		}
	}
}

func (t *ClientThread) call(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			t.logger.Error("client thread callback panicked",
				zap.Any("panic", r),
				zap.ByteString("stack", debug.Stack()))
		}
	}()
	fn()
}
