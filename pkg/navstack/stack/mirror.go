package stack

import (
	"sync"

	"github.com/google/uuid"
)

// Mirror is an Observable that re-emits the snapshots of whichever source it
// currently follows. Switching sources emits the new source's snapshot, so
// subscribers always see the latest value of the selected stack.
//
// A Mirror with no source reports an empty snapshot and emits nil.
type Mirror[T any] struct {
	mu       sync.Mutex
	source   Observable[T]
	sourceID string
	last     []T
	subs     []subscription[T]
}

// NewMirror creates a mirror following src. src may be nil.
func NewMirror[T any](src Observable[T]) *Mirror[T] {
	m := &Mirror[T]{}
	m.Follow(src)
	return m
}

// Follow detaches from the current source and attaches to src.
// Subscribers receive src's current snapshot before Follow returns.
func (m *Mirror[T]) Follow(src Observable[T]) {
	m.mu.Lock()
	prev, prevID := m.source, m.sourceID
	m.source, m.sourceID = src, ""
	m.mu.Unlock()

	if prev != nil {
		prev.Unsubscribe(prevID)
	}

	if src == nil {
		m.emit(src, nil)
		return
	}

	id := src.Subscribe(func(snapshot []T) {
		m.emit(src, snapshot)
	})

	m.mu.Lock()
	if m.source == src {
		m.sourceID = id
		m.mu.Unlock()
		return
	}
	m.mu.Unlock()

	// Follow was called again while subscribing.
	src.Unsubscribe(id)
}

// Source returns the observable currently followed, or nil.
func (m *Mirror[T]) Source() Observable[T] {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.source
}

// Snapshot returns the last snapshot received from the source.
func (m *Mirror[T]) Snapshot() []T {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]T, len(m.last))
	copy(out, m.last)
	return out
}

// Len returns the length of the last snapshot.
func (m *Mirror[T]) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.last)
}

// Subscribe registers fn and immediately calls it with the current snapshot.
func (m *Mirror[T]) Subscribe(fn Handler[T]) string {
	m.mu.Lock()
	id := uuid.NewString()
	m.subs = append(m.subs, subscription[T]{id: id, handler: fn})
	snapshot := m.last
	m.mu.Unlock()

	safeCall(fn, snapshot)
	return id
}

// Unsubscribe removes a subscription by id.
func (m *Mirror[T]) Unsubscribe(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, sub := range m.subs {
		if sub.id == id {
			m.subs = append(m.subs[:i:i], m.subs[i+1:]...)
			return true
		}
	}
	return false
}

// Close detaches the mirror from its source.
func (m *Mirror[T]) Close() {
	m.mu.Lock()
	prev, prevID := m.source, m.sourceID
	m.source, m.sourceID = nil, ""
	m.mu.Unlock()

	if prev != nil {
		prev.Unsubscribe(prevID)
	}
}

// emit forwards a snapshot from src, dropping it if src is no longer followed.
func (m *Mirror[T]) emit(src Observable[T], snapshot []T) {
	m.mu.Lock()
	if m.source != src {
		m.mu.Unlock()
		return
	}
	m.last = snapshot
	subs := make([]subscription[T], len(m.subs))
	copy(subs, m.subs)
	m.mu.Unlock()

	for _, sub := range subs {
		safeCall(sub.handler, snapshot)
	}
}
