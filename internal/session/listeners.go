package session

import "sync"

// listeners is an ordered set of callbacks. Removing twice is a no-op.
type listeners[F any] struct {
	mu   sync.Mutex
	next int
	ids  []int
	fns  []F
}

func (l *listeners[F]) add(fn F) (off func()) {
	l.mu.Lock()
	id := l.next
	l.next++
	l.ids = append(l.ids, id)
	l.fns = append(l.fns, fn)
	l.mu.Unlock()
	return func() { l.remove(id) }
}

func (l *listeners[F]) remove(id int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i, v := range l.ids {
		if v == id {
			l.ids = append(l.ids[:i], l.ids[i+1:]...)
			l.fns = append(l.fns[:i], l.fns[i+1:]...)
			return
		}
	}
}

// snapshot lets callbacks add or remove listeners while being notified.
func (l *listeners[F]) snapshot() []F {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]F, len(l.fns))
	copy(out, l.fns)
	return out
}

func (l *listeners[F]) len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.fns)
}
