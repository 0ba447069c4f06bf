package session

import (
	"sync"

	"geoview/internal/logsink"
)

// Manager owns at most one live session. Every Open or Idle advances the
// generation; results produced for an older generation are dropped.
type Manager struct {
	mu      sync.Mutex
	surface *Surface
	opts    Options
	gen     uint64
	live    *Session
}

// NewManager returns a manager drawing onto surface.
func NewManager(surface *Surface, opts Options) *Manager {
	return &Manager{surface: surface, opts: opts.clamp()}
}

// Surface returns the host surface.
func (m *Manager) Surface() *Surface { return m.surface }

// Generation returns the live generation.
func (m *Manager) Generation() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.gen
}

// Current returns the live session (nil when idle) and its generation.
func (m *Manager) Current() (*Session, uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.live, m.gen
}

// Open disposes the live session, then creates and initialises a new one
// under a fresh generation.
func (m *Manager) Open() (*Session, uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.disposeLocked()
	m.gen++
	s := New(m.opts)
	s.gen = m.gen
	if err := s.Init(m.surface); err != nil {
		return nil, m.gen, err
	}
	m.live = s
	return s, m.gen, nil
}

// Idle disposes the live session and advances the generation without
// opening a new one. Vector files use it to invalidate point-cloud loads.
func (m *Manager) Idle() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.disposeLocked()
	m.gen++
	return m.gen
}

// Release disposes the live session if it belongs to gen.
func (m *Manager) Release(gen uint64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.live == nil || gen != m.gen {
		return false
	}
	m.disposeLocked()
	return true
}

// Deliver runs fn against the live session only when gen is still live.
// It reports whether fn ran.
func (m *Manager) Deliver(gen uint64, fn func(*Session) error) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if gen != m.gen || m.live == nil || m.live.State() == Disposed {
		logsink.Logger().Debug("dropping stale result", "gen", gen, "live", m.gen)
		return false, nil
	}
	return true, fn(m.live)
}

// SetOptions changes the drawing options of the live and future sessions.
func (m *Manager) SetOptions(o Options) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.opts = o.clamp()
	if m.live != nil {
		m.live.SetOptions(m.opts)
	}
}

// Options returns the drawing options.
func (m *Manager) Options() Options {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.opts
}

// Dispose tears down the live session; the manager stays usable.
func (m *Manager) Dispose() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.disposeLocked()
}

func (m *Manager) disposeLocked() {
	if m.live != nil {
		m.live.Dispose()
		m.live = nil
	}
}
