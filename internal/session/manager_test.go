package session

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"geoview/internal/pointcloud"
)

func TestManagerOpenDisposesPrevious(t *testing.T) {
	surf := NewSurface(20, 10)
	m := NewManager(surf, DefaultOptions())

	a, genA, err := m.Open()
	require.NoError(t, err)
	b, genB, err := m.Open()
	require.NoError(t, err)

	assert.Greater(t, genB, genA)
	assert.Equal(t, Disposed, a.State())
	assert.Equal(t, Ready, b.State())
	assert.Equal(t, 1, surf.Listeners())

	cur, gen := m.Current()
	assert.Same(t, b, cur)
	assert.Equal(t, genB, gen)
	assert.Equal(t, genB, b.Generation())
}

func TestManagerDropsStaleDelivery(t *testing.T) {
	m := NewManager(NewSurface(20, 10), DefaultOptions())
	_, stale, err := m.Open()
	require.NoError(t, err)
	fresh, gen, err := m.Open()
	require.NoError(t, err)

	buf := pointcloud.Normalize(&pointcloud.Buffer{Positions: []float32{1, 2, 3}})
	ran, err := m.Deliver(stale, func(s *Session) error { return s.Show(buf.Buffer, buf.Frame) })
	require.NoError(t, err)
	assert.False(t, ran)
	assert.Equal(t, Ready, fresh.State())
	assert.Nil(t, fresh.Attached())

	ran, err = m.Deliver(gen, func(s *Session) error { return s.Show(buf.Buffer, buf.Frame) })
	require.NoError(t, err)
	assert.True(t, ran)
	assert.Equal(t, Displaying, fresh.State())
}

func TestManagerIdleAndRelease(t *testing.T) {
	surf := NewSurface(20, 10)
	m := NewManager(surf, DefaultOptions())
	s, gen, err := m.Open()
	require.NoError(t, err)

	assert.False(t, m.Release(gen+1))
	assert.True(t, m.Release(gen))
	assert.Equal(t, Disposed, s.State())
	assert.Zero(t, surf.Listeners())

	ran, _ := m.Deliver(gen, func(*Session) error { return nil })
	assert.False(t, ran, "released session takes no results")

	_, gen2, _ := m.Open()
	idle := m.Idle()
	assert.Greater(t, idle, gen2)
	cur, _ := m.Current()
	assert.Nil(t, cur)
}

func TestManagerConcurrentDeliver(t *testing.T) {
	m := NewManager(NewSurface(20, 10), DefaultOptions())
	_, gen, err := m.Open()
	require.NoError(t, err)

	var wg sync.WaitGroup
	var mu sync.Mutex
	ran := 0
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(g uint64) {
			defer wg.Done()
			ok, _ := m.Deliver(g, func(*Session) error { return nil })
			if ok {
				mu.Lock()
				ran++
				mu.Unlock()
			}
		}(gen - uint64(i%2))
	}
	wg.Wait()
	assert.Equal(t, 8, ran)
}

func TestManagerOptions(t *testing.T) {
	m := NewManager(NewSurface(20, 10), DefaultOptions())
	s, _, _ := m.Open()
	m.SetOptions(Options{PointSize: 2, Shading: true})
	assert.Equal(t, 2, s.Options().PointSize)
	next, _, _ := m.Open()
	assert.True(t, next.Options().Shading)
	m.Dispose()
	assert.Equal(t, Disposed, next.State())
}
