package session

import "sync"

// Surface is the host area sessions draw into, sized in terminal cells.
// It outlives sessions: each session binds to it on Init and unbinds on
// Dispose.
type Surface struct {
	mu     sync.Mutex
	w, h   int
	resize listeners[func(w, h int)]
}

// NewSurface returns a surface of w x h cells.
func NewSurface(w, h int) *Surface {
	return &Surface{w: max(w, 1), h: max(h, 1)}
}

// Size returns the current size in cells.
func (s *Surface) Size() (w, h int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w, s.h
}

// SetSize updates the size and notifies resize listeners when it changed.
func (s *Surface) SetSize(w, h int) {
	w, h = max(w, 1), max(h, 1)
	s.mu.Lock()
	changed := w != s.w || h != s.h
	s.w, s.h = w, h
	s.mu.Unlock()
	if !changed {
		return
	}
	for _, fn := range s.resize.snapshot() {
		fn(w, h)
	}
}

// OnResize registers fn and returns its removal.
func (s *Surface) OnResize(fn func(w, h int)) (off func()) {
	return s.resize.add(fn)
}

// Listeners returns the number of bound resize listeners.
func (s *Surface) Listeners() int { return s.resize.len() }
