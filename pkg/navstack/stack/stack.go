package stack

import (
	"errors"
	"fmt"
	"runtime/debug"
	"sync"

	"github.com/BrandonKowalski/navstack/pkg/navstack/internal"
	"github.com/google/uuid"
	"go.uber.org/atomic"
)

// ErrEmpty is returned when popping from a stack with no entries.
var ErrEmpty = errors.New("stack: empty")

// Handler receives the full ordered snapshot of a stack.
// The slice is shared by every handler of an emission and must not be modified.
type Handler[T any] func(snapshot []T)

// Observable is the read side of a stack: an always-available snapshot plus
// a stream of snapshots emitted on every change.
type Observable[T any] interface {
	// Snapshot returns a copy of the current entries, bottom first.
	Snapshot() []T

	// Len returns the number of entries.
	Len() int

	// Subscribe registers fn and immediately calls it with the current snapshot.
	// Returns an id that can be passed to Unsubscribe.
	Subscribe(fn Handler[T]) string

	// Unsubscribe removes a subscription by id.
	Unsubscribe(id string) bool
}

type subscription[T any] struct {
	id      string
	handler Handler[T]
}

// Stack is an ordered, observable sequence of entries.
// Index 0 is the bottom (root) entry and the last index is the top.
//
// A Stack is safe for concurrent use, but emissions are only ordered when
// there is a single writer. Handlers run outside the stack's lock, in
// registration order, and a panicking handler does not stop delivery to the
// remaining handlers.
type Stack[T any] struct {
	mu      sync.RWMutex
	entries []T
	subs    []subscription[T]
	version atomic.Uint64
}

// New creates a stack holding the given entries, bottom first.
func New[T any](entries ...T) *Stack[T] {
	s := &Stack[T]{
		entries: make([]T, 0, len(entries)),
	}
	s.entries = append(s.entries, entries...)
	return s
}

// Snapshot returns a copy of the current entries.
func (s *Stack[T]) Snapshot() []T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

// Len returns the number of entries in the stack.
func (s *Stack[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// IsEmpty returns true if the stack has no entries.
func (s *Stack[T]) IsEmpty() bool {
	return s.Len() == 0
}

// Version counts the mutations applied to the stack.
func (s *Stack[T]) Version() uint64 {
	return s.version.Load()
}

// Peek returns the top entry without removing it.
// The boolean is false if the stack is empty.
func (s *Stack[T]) Peek() (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var zero T
	if len(s.entries) == 0 {
		return zero, false
	}
	return s.entries[len(s.entries)-1], true
}

// At returns the entry at index i.
func (s *Stack[T]) At(i int) (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var zero T
	if i < 0 || i >= len(s.entries) {
		return zero, false
	}
	return s.entries[i], true
}

// Push appends an entry on top of the stack.
func (s *Stack[T]) Push(v T) {
	s.mutate(func() error {
		s.entries = append(s.entries, v)
		return nil
	})
}

// Pop removes and returns the top entry.
// Returns ErrEmpty if there is nothing to pop.
func (s *Stack[T]) Pop() (T, error) {
	var popped T
	err := s.mutate(func() error {
		if len(s.entries) == 0 {
			return ErrEmpty
		}
		last := len(s.entries) - 1
		popped = s.entries[last]

		var zero T
		s.entries[last] = zero
		s.entries = s.entries[:last]
		return nil
	})
	return popped, err
}

// Insert places v at index i, shifting entries at i and above one position up.
// i may equal Len, which is the same as Push.
func (s *Stack[T]) Insert(i int, v T) error {
	return s.mutate(func() error {
		if i < 0 || i > len(s.entries) {
			return fmt.Errorf("stack: insert index %d out of range [0, %d]", i, len(s.entries))
		}
		var zero T
		s.entries = append(s.entries, zero)
		copy(s.entries[i+1:], s.entries[i:])
		s.entries[i] = v
		return nil
	})
}

// RemoveRange removes n entries starting at index start.
func (s *Stack[T]) RemoveRange(start, n int) error {
	return s.mutate(func() error {
		if start < 0 || n < 0 || start+n > len(s.entries) {
			return fmt.Errorf("stack: range [%d, %d) out of bounds for length %d", start, start+n, len(s.entries))
		}
		if n == 0 {
			return errNoChange
		}
		tail := len(s.entries) - n
		copy(s.entries[start:], s.entries[start+n:])

		var zero T
		for i := tail; i < len(s.entries); i++ {
			s.entries[i] = zero
		}
		s.entries = s.entries[:tail]
		return nil
	})
}

// Reset replaces all entries with the given ones.
func (s *Stack[T]) Reset(entries ...T) {
	s.mutate(func() error {
		s.entries = append(make([]T, 0, len(entries)), entries...)
		return nil
	})
}

// Clear removes all entries from the stack.
func (s *Stack[T]) Clear() {
	s.Reset()
}

// Subscribe registers fn to receive a snapshot after every change.
// fn is called once, synchronously, with the current snapshot before
// Subscribe returns.
func (s *Stack[T]) Subscribe(fn Handler[T]) string {
	s.mu.Lock()
	id := uuid.NewString()
	s.subs = append(s.subs, subscription[T]{id: id, handler: fn})
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	safeCall(fn, snapshot)
	return id
}

// Unsubscribe removes a subscription by id.
// Returns true if the subscription was found and removed.
func (s *Stack[T]) Unsubscribe(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, sub := range s.subs {
		if sub.id == id {
			s.subs = append(s.subs[:i:i], s.subs[i+1:]...)
			return true
		}
	}
	return false
}

// SubscriptionCount returns the number of active subscriptions.
func (s *Stack[T]) SubscriptionCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.subs)
}

// errNoChange lets a mutation succeed without emitting.
var errNoChange = errors.New("stack: no change")

// mutate applies fn under the write lock and, if it succeeded, emits the
// resulting snapshot to every subscriber after the lock is released.
func (s *Stack[T]) mutate(fn func() error) error {
	s.mu.Lock()
	if err := fn(); err != nil {
		s.mu.Unlock()
		if errors.Is(err, errNoChange) {
			return nil
		}
		return err
	}
	s.version.Inc()
	snapshot := s.snapshotLocked()
	subs := make([]subscription[T], len(s.subs))
	copy(subs, s.subs)
	s.mu.Unlock()

	for _, sub := range subs {
		safeCall(sub.handler, snapshot)
	}
	return nil
}

func (s *Stack[T]) snapshotLocked() []T {
	out := make([]T, len(s.entries))
	copy(out, s.entries)
	return out
}

// safeCall invokes a handler and recovers from any panics.
func safeCall[T any](handler Handler[T], snapshot []T) {
	defer func() {
		if r := recover(); r != nil {
			internal.GetInternalLogger().Error("stack subscriber panicked",
				"panic", fmt.Sprint(r),
				"stack", string(debug.Stack()))
		}
	}()
	handler(snapshot)
}
