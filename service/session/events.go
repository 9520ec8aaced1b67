package session

import "sync"

type EventKind string

const (
	SignedIn  EventKind = "SIGNED_IN"
	SignedOut EventKind = "SIGNED_OUT"
)

type Event struct {
	Kind   EventKind
	UserID string
}

// Broker fans auth events out to subscribers for the lifetime of the process.
// Publishing never blocks; a subscriber that falls behind loses events.
type Broker struct {
	mu   sync.Mutex
	subs map[int]chan Event
	next int
}

func NewBroker() *Broker {
	return &Broker{subs: make(map[int]chan Event)}
}

// Subscribe returns an event channel and a function that cancels the
// subscription and closes the channel.
func (b *Broker) Subscribe() (<-chan Event, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.next
	b.next++
	ch := make(chan Event, 16)
	b.subs[id] = ch

	cancel := func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if c, ok := b.subs[id]; ok {
			delete(b.subs, id)
			close(c)
		}
	}
	return ch, cancel
}

func (b *Broker) Publish(ev Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, ch := range b.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}
