package session

import "sync"

// broadcaster fans values out to subscribers through one-slot channels.
// An undelivered value is replaced by a newer one.
type broadcaster[T any] struct {
	mu     sync.Mutex
	subs   map[uint64]chan T
	nextID uint64
	clone  func(T) T
	closed bool
}

func newBroadcaster[T any](clone func(T) T) *broadcaster[T] {
	return &broadcaster[T]{subs: make(map[uint64]chan T), clone: clone}
}

func (b *broadcaster[T]) subscribe(current T) (<-chan T, func()) {
	ch := make(chan T, 1)

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		close(ch)
		return ch, func() {}
	}

	ch <- b.clone(current)
	id := b.nextID
	b.nextID++
	b.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			if c, ok := b.subs[id]; ok {
				delete(b.subs, id)
				close(c)
			}
		})
	}
}

func (b *broadcaster[T]) publish(v T) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, ch := range b.subs {
		select {
		case <-ch:
		default:
		}
		// publish is the only sender and holds mu, so the slot is free.
		ch <- b.clone(v)
	}
}

func (b *broadcaster[T]) closeAll() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	b.closed = true
	for id, ch := range b.subs {
		delete(b.subs, id)
		close(ch)
	}
}

func (b *broadcaster[T]) size() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}
