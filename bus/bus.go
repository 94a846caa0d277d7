// ABOUTME: Process-wide change notification bus
// ABOUTME: Synchronous fire-and-forget fanout to registered observers, FIFO per signal

package bus

import "sync"

// Signal identifies a notification topic.
type Signal string

const (
	// SignalConfig fires after every successful configuration save.
	SignalConfig Signal = "config"
	// SignalLogs fires after every system log append.
	SignalLogs Signal = "logs"
)

// Bus delivers signals synchronously to subscribers in registration
// order. Publish returns once every subscriber has run; subscribers
// must not block.
type Bus struct {
	mu   sync.Mutex
	next int
	subs map[Signal][]subscription
}

type subscription struct {
	id int
	fn func()
}

// New returns an empty bus.
func New() *Bus {
	return &Bus{subs: make(map[Signal][]subscription)}
}

// Subscribe registers fn for sig and returns a cancel function.
// Cancelling twice is harmless.
func (b *Bus) Subscribe(sig Signal, fn func()) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.next++
	id := b.next
	b.subs[sig] = append(b.subs[sig], subscription{id: id, fn: fn})

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		list := b.subs[sig]
		for i, s := range list {
			if s.id == id {
				b.subs[sig] = append(list[:i], list[i+1:]...)
				break
			}
		}
	}
}

// Publish runs every subscriber registered for sig, in registration
// order. The lock is released before fanout so a subscriber can
// publish or subscribe reentrantly.
func (b *Bus) Publish(sig Signal) {
	b.mu.Lock()
	list := make([]subscription, len(b.subs[sig]))
	copy(list, b.subs[sig])
	b.mu.Unlock()

	for _, s := range list {
		s.fn()
	}
}
