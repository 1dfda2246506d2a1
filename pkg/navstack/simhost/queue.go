package simhost

import "sync"

// signalQueue decouples signal emission from delivery: put never blocks, and
// a forwarder goroutine feeds the queued values to out in order.
type signalQueue[T any] struct {
	mu    sync.Mutex
	items []T
	wake  chan struct{}
	out   chan T
}

func newSignalQueue[T any](buffer int) *signalQueue[T] {
	return &signalQueue[T]{
		wake: make(chan struct{}, 1),
		out:  make(chan T, buffer),
	}
}

func (q *signalQueue[T]) put(v T) {
	q.mu.Lock()
	q.items = append(q.items, v)
	q.mu.Unlock()

	select {
	case q.wake <- struct{}{}:
	default:
	}
}

// run forwards values until quit is closed, then closes out.
func (q *signalQueue[T]) run(quit <-chan struct{}) {
	defer close(q.out)

	for {
		q.mu.Lock()
		if len(q.items) == 0 {
			q.mu.Unlock()
			select {
			case <-q.wake:
				continue
			case <-quit:
				return
			}
		}

		v := q.items[0]
		var zero T
		q.items[0] = zero
		q.items = q.items[1:]
		q.mu.Unlock()

		select {
		case q.out <- v:
		case <-quit:
			return
		}
	}
}
