package events

import "sync"

// Handler receives published events. Handlers run synchronously on the
// publisher's goroutine, so report lines come out in run order and nothing
// is dropped.
type Handler func(Event)

// Bus fans run events out to registered handlers.
type Bus struct {
	mu       sync.RWMutex
	handlers []subscription
}

type subscription struct {
	fn     Handler
	filter map[Type]bool // empty means all events
}

// NewBus creates an empty event bus.
func NewBus() *Bus {
	return &Bus{}
}

// Subscribe registers a handler. With no filter the handler sees every
// event; otherwise only the listed types.
func (b *Bus) Subscribe(fn Handler, filter ...Type) {
	sub := subscription{fn: fn}
	if len(filter) > 0 {
		sub.filter = make(map[Type]bool, len(filter))
		for _, t := range filter {
			sub.filter[t] = true
		}
	}

	b.mu.Lock()
	b.handlers = append(b.handlers, sub)
	b.mu.Unlock()
}

// Publish delivers the event to every matching handler in subscription
// order.
func (b *Bus) Publish(event Event) {
	b.mu.RLock()
	subs := make([]subscription, len(b.handlers))
	copy(subs, b.handlers)
	b.mu.RUnlock()

	for _, sub := range subs {
		if len(sub.filter) > 0 && !sub.filter[event.Type] {
			continue
		}
		sub.fn(event)
	}
}
