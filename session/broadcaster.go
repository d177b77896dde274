package session

import (
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// EventAuthChanged is the name of the sign-in/sign-out signal.
const EventAuthChanged = "auth:changed"

type listener struct {
	id      uuid.UUID
	fn      func()
	removed atomic.Bool
}

// Broadcaster fans the auth:changed signal out to every observer in the
// process. Delivery is synchronous and in registration order; a listener added
// while a notification is running only sees later notifications.
type Broadcaster struct {
	mu        sync.Mutex
	listeners []*listener
}

func NewBroadcaster() *Broadcaster {
	return &Broadcaster{}
}

// OnChanged registers fn and returns a function that unregisters it.
func (b *Broadcaster) OnChanged(fn func()) (unsubscribe func()) {
	l := &listener{id: uuid.New(), fn: fn}

	b.mu.Lock()
	b.listeners = append(b.listeners, l)
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { b.remove(l.id) })
	}
}

func (b *Broadcaster) remove(id uuid.UUID) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for i, l := range b.listeners {
		if l.id == id {
			l.removed.Store(true)
			b.listeners = append(b.listeners[:i:i], b.listeners[i+1:]...)
			return
		}
	}
}

// NotifyChanged calls every registered listener on the calling goroutine.
func (b *Broadcaster) NotifyChanged() {
	b.mu.Lock()
	snapshot := make([]*listener, len(b.listeners))
	copy(snapshot, b.listeners)
	b.mu.Unlock()

	for _, l := range snapshot {
		if l.removed.Load() {
			continue
		}
		b.invoke(l)
	}
}

func (b *Broadcaster) invoke(l *listener) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Str("event", EventAuthChanged).Msg("Listener panicked")
		}
	}()
	l.fn()
}

// Len is the number of registered listeners.
func (b *Broadcaster) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.listeners)
}
