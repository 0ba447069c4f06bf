package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"geoview/internal/logsink"
	"geoview/internal/session"
)

func TestWorkspaceAddActivateRemove(t *testing.T) {
	var sink logsink.Buffer
	w := NewWorkspace(&sink, nil)
	a := NewSourceFile("a.xyz", []byte("0 0 0\n"), &sink)
	b := NewSourceFile("b.xyz", []byte("1 1 1\n"), &sink)
	c := NewSourceFile("c.xyz", []byte("2 2 2\n"), &sink)

	w.Add(a, b)
	assert.Equal(t, a, w.Active())
	events := sink.Events()
	require.Len(t, events, 1)
	assert.Equal(t, logsink.Success, events[0].Severity)
	assert.Equal(t, "Uploaded file: a.xyz, File Size: 6 bytes (0 KB, <1 MB), b.xyz, File Size: 6 bytes (0 KB, <1 MB)", events[0].Message)

	w.Add(c)
	assert.Equal(t, c, w.Active())
	assert.True(t, w.Activate(b.ID))
	assert.False(t, w.Activate("nope"))
	assert.Equal(t, b, w.Active())

	removed, wasActive := w.Remove(b.ID)
	assert.Equal(t, b, removed)
	assert.True(t, wasActive)
	assert.Equal(t, c, w.Active(), "next file takes over")

	_, wasActive = w.Remove(a.ID)
	assert.False(t, wasActive)
	_, wasActive = w.Remove(c.ID)
	assert.True(t, wasActive)
	assert.Nil(t, w.Active())
	assert.Zero(t, w.Len())

	removed, _ = w.Remove("missing")
	assert.Nil(t, removed)
}

func TestWorkspaceRemoveReleasesSession(t *testing.T) {
	surf := session.NewSurface(20, 10)
	m := session.NewManager(surf, session.DefaultOptions())
	w := NewWorkspace(nil, m)
	f := NewSourceFile("a.xyz", []byte("0 0 0\n"), logsink.Discard)
	w.Add(f)

	s, gen, err := m.Open()
	require.NoError(t, err)
	w.Bind(f.ID, gen)

	w.Remove(f.ID)
	assert.Equal(t, session.Disposed, s.State())
	assert.Zero(t, surf.Listeners())
}
