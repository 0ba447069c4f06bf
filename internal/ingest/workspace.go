package ingest

import (
	"strings"

	"geoview/internal/logsink"
	"geoview/internal/session"
)

// Workspace is the ordered set of uploaded files and the active one.
// Removing a file releases the render session bound to it.
type Workspace struct {
	files    []*SourceFile
	active   string
	bound    map[string]uint64
	sink     logsink.Sink
	sessions *session.Manager
}

// NewWorkspace returns an empty workspace. sessions may be nil.
func NewWorkspace(sink logsink.Sink, sessions *session.Manager) *Workspace {
	if sink == nil {
		sink = logsink.Discard
	}
	return &Workspace{sink: sink, sessions: sessions, bound: map[string]uint64{}}
}

// Add appends files and activates the first of them.
func (w *Workspace) Add(files ...*SourceFile) {
	if len(files) == 0 {
		return
	}
	w.files = append(w.files, files...)
	w.active = files[0].ID
	names := make([]string, len(files))
	for i, f := range files {
		names[i] = f.Name + ", " + SizeMessage(f.Size())
	}
	w.sink.Emit(logsink.New(logsink.Success, "Uploaded file: %s", strings.Join(names, ", ")))
}

// Files returns the files in upload order.
func (w *Workspace) Files() []*SourceFile {
	out := make([]*SourceFile, len(w.files))
	copy(out, w.files)
	return out
}

// Len returns the number of files.
func (w *Workspace) Len() int { return len(w.files) }

// Get returns the file with id.
func (w *Workspace) Get(id string) (*SourceFile, bool) {
	for _, f := range w.files {
		if f.ID == id {
			return f, true
		}
	}
	return nil, false
}

// Active returns the active file, or nil.
func (w *Workspace) Active() *SourceFile {
	f, _ := w.Get(w.active)
	return f
}

// Activate makes id the active file.
func (w *Workspace) Activate(id string) bool {
	if _, ok := w.Get(id); !ok {
		return false
	}
	w.active = id
	return true
}

// Bind records that the session of generation gen displays file id.
func (w *Workspace) Bind(id string, gen uint64) {
	w.bound[id] = gen
}

// Remove deletes id, releasing its session. When the active file goes,
// the next file (or the previous one at the end) becomes active.
func (w *Workspace) Remove(id string) (removed *SourceFile, wasActive bool) {
	i := -1
	for k, f := range w.files {
		if f.ID == id {
			i = k
			break
		}
	}
	if i < 0 {
		return nil, false
	}
	removed = w.files[i]
	w.files = append(w.files[:i], w.files[i+1:]...)
	if gen, ok := w.bound[id]; ok {
		if w.sessions != nil {
			w.sessions.Release(gen)
		}
		delete(w.bound, id)
	}
	wasActive = w.active == id
	if wasActive {
		w.active = ""
		if len(w.files) > 0 {
			w.active = w.files[min(i, len(w.files)-1)].ID
		}
	}
	return removed, wasActive
}
