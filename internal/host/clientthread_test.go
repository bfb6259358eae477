package host

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func startThread(t *testing.T, th *ClientThread) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- th.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		require.ErrorIs(t, <-done, context.Canceled)
	})
}

func TestClientThread_RunsCallbacksInOrder(t *testing.T) {
	th := NewClientThread(nil)
	// Queued before Run starts.
	var got []int
	for i := 0; i < 50; i++ {
		i := i
		th.InvokeLater(func() { got = append(got, i) })
	}
	startThread(t, th)
	for i := 50; i < 100; i++ {
		i := i
		th.InvokeLater(func() { got = append(got, i) })
	}
	require.NoError(t, th.Flush(context.Background()))

	require.Len(t, got, 100)
	for i, v := range got {
		require.Equal(t, i, v)
	}
	assert.Equal(t, 0, th.Pending())
}

func TestClientThread_CallbackMaySchedule(t *testing.T) {
	th := NewClientThread(nil)
	startThread(t, th)

	done := make(chan struct{})
	th.InvokeLater(func() {
		th.InvokeLater(func() { close(done) })
	})
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("nested callback never ran")
	}
}

func TestClientThread_RecoversPanics(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	th := NewClientThread(zap.New(core))
	startThread(t, th)

	ran := false
	th.InvokeLater(func() { panic("boom") })
	th.InvokeLater(func() { ran = true })
	require.NoError(t, th.Flush(context.Background()))

	assert.True(t, ran)
	require.Equal(t, 1, logs.FilterMessage("client thread callback panicked").Len())
}

func TestClientThread_FlushHonoursContext(t *testing.T) {
	th := NewClientThread(nil)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	err := th.Flush(ctx)
	assert.True(t, errors.Is(err, context.DeadlineExceeded), "got %v", err)
}

func TestClientThread_IgnoresNil(t *testing.T) {
	th := NewClientThread(nil)
	th.InvokeLater(nil)
	assert.Equal(t, 0, th.Pending())
}
