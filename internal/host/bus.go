package host

import (
	"sync"

	"molopl.dev/addons/internal/protocol"
)

// Handler receives one host event.
type Handler func(protocol.Event)

// Bus dispatches host events to the handlers subscribed to their type.
// Handlers run synchronously on the publishing goroutine, in subscription order.
type Bus struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
}

func NewBus() *Bus {
	return &Bus{handlers: make(map[string][]Handler)}
}

func (b *Bus) Subscribe(eventType string, h Handler) {
	if h == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[eventType] = append(b.handlers[eventType], h)
}

func (b *Bus) Publish(ev protocol.Event) {
	if ev == nil {
		return
	}
	b.mu.RLock()
	hs := b.handlers[ev.EventType()]
	b.mu.RUnlock()
	for _, h := range hs {
		h(ev)
	}
}

// On subscribes fn to events of type T.
func On[T protocol.Event](b *Bus, fn func(T)) {
	var zero T
	b.Subscribe(zero.EventType(), func(ev protocol.Event) {
		if v, ok := ev.(T); ok {
			fn(v)
		}
	})
}
