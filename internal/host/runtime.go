package host

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"molopl.dev/addons/internal/protocol"
)

// Plugin is one add-on hosted by a Runtime.
type Plugin interface {
	Name() string
	// Subscribe registers the plugin's event handlers. It is called once, before
	// StartUp.
	Subscribe(bus *Bus)
	StartUp() error
	ShutDown()
}

// TickRecorder persists the events of each completed tick.
type TickRecorder interface {
	WriteTick(entry protocol.TickEntry) error
}

type Options struct {
	Logger   *zap.Logger
	Recorder TickRecorder
	// SyncTicks makes Dispatch wait for the client thread to drain before a
	// GAME_TICK is delivered. Replays set it so results do not depend on
	// goroutine scheduling.
	SyncTicks bool
}

// Runtime delivers host events to plugins. Dispatch must be called from a single
// goroutine, the event thread.
type Runtime struct {
	logger    *zap.Logger
	client    *Client
	thread    *ClientThread
	bus       *Bus
	recorder  TickRecorder
	syncTicks bool

	plugins []Plugin
	started []Plugin
	pending []protocol.RecordedEvent

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewRuntime(opts Options) *Runtime {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runtime{
		logger:    logger,
		client:    NewClient(),
		thread:    NewClientThread(logger.Named("client-thread")),
		bus:       NewBus(),
		recorder:  opts.Recorder,
		syncTicks: opts.SyncTicks,
	}
}

func (r *Runtime) Client() *Client             { return r.client }
func (r *Runtime) ClientThread() *ClientThread { return r.thread }
func (r *Runtime) Bus() *Bus                   { return r.bus }

// Register adds p to the runtime. Plugins must be registered before Start.
func (r *Runtime) Register(p Plugin) {
	r.plugins = append(r.plugins, p)
}

// Start launches the client thread and starts every plugin in registration
// order. If a plugin fails to start, the ones already started are shut down.
func (r *Runtime) Start(ctx context.Context) error {
	if r.cancel != nil {
		return errors.New("host: runtime already started")
	}
	runCtx, cancel := context.WithCancel(ctx)
	r.cancel = cancel
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		_ = r.thread.Run(runCtx)
	}()

	for _, p := range r.plugins {
		p.Subscribe(r.bus)
	}
	for _, p := range r.plugins {
		if err := p.StartUp(); err != nil {
			r.Close()
			return fmt.Errorf("start %s: %w", p.Name(), err)
		}
		r.started = append(r.started, p)
		r.logger.Debug("plugin started", zap.String("plugin", p.Name()))
	}
	return nil
}

// Close shuts plugins down in reverse start order, stops the client thread and
// writes any events of an unfinished tick.
func (r *Runtime) Close() {
	for i := len(r.started) - 1; i >= 0; i-- {
		r.started[i].ShutDown()
	}
	r.started = nil
	if r.cancel != nil {
		r.cancel()
		r.wg.Wait()
	}
	r.flushJournal()
}

// SeekTick sets the tick counter, so the next GAME_TICK is numbered n+1.
func (r *Runtime) SeekTick(n uint64) {
	r.client.tickCount.Store(n)
}

// Dispatch delivers one event. State owned by the logic thread is updated
// through the client thread before plugins see the event.
func (r *Runtime) Dispatch(ctx context.Context, ev protocol.Event) error {
	if ev == nil {
		return errors.New("host: nil event")
	}
	if r.recorder != nil {
		rec, err := protocol.Encode(ev)
		if err != nil {
			return err
		}
		r.pending = append(r.pending, rec)
	}

	switch e := ev.(type) {
	case protocol.GameStateChanged:
		r.client.setGameState(e.State)
	case protocol.GameTick:
		r.client.advanceTick()
	}
	if mutatesState(ev) {
		r.thread.InvokeLater(func() { r.client.apply(ev) })
	}
	if _, ok := ev.(protocol.GameTick); ok && r.syncTicks {
		if err := r.thread.Flush(ctx); err != nil {
			return fmt.Errorf("flush client thread: %w", err)
		}
	}

	r.bus.Publish(ev)

	if _, ok := ev.(protocol.GameTick); ok {
		r.flushJournal()
	}
	return nil
}

func (r *Runtime) flushJournal() {
	if r.recorder == nil || len(r.pending) == 0 {
		return
	}
	entry := protocol.TickEntry{Tick: r.client.TickCount(), Events: r.pending}
	r.pending = nil
	if err := r.recorder.WriteTick(entry); err != nil {
		r.logger.Warn("journal write failed", zap.Uint64("tick", entry.Tick), zap.Error(err))
	}
}
