package tui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	list "github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"

	"geoview/internal/format"
	"geoview/internal/geom"
	"geoview/internal/ingest"
	"geoview/internal/logsink"
)

type fileItem struct {
	title, desc string
	path        string
	isDir       bool
}

func (f fileItem) Title() string       { return f.title }
func (f fileItem) Description() string { return f.desc }
func (f fileItem) FilterValue() string { return f.title }

// workspaceItem is an already opened file.
type workspaceItem struct {
	file   *ingest.SourceFile
	active bool
}

func (w workspaceItem) Title() string {
	if w.active {
		return "● " + w.file.Name
	}
	return "  " + w.file.Name
}
func (w workspaceItem) Description() string { return w.file.Summary() }
func (w workspaceItem) FilterValue() string { return w.file.Name }

// openedMsg carries files read from disk.
type openedMsg struct {
	files []*ingest.SourceFile
	err   error
}

// loadMsg is one pipeline message plus the channel it came from.
type loadMsg struct {
	msg ingest.Msg
	ch  <-chan ingest.Msg
}

func (m *Model) refreshDir() {
	entries, err := os.ReadDir(m.cwd)
	if err != nil {
		m.status = "read dir error: " + err.Error()
		return
	}
	items := []list.Item{fileItem{title: "..", desc: "parent directory", path: filepath.Dir(m.cwd), isDir: true}}
	var files []list.Item
	for _, e := range entries {
		name := e.Name()
		p := filepath.Join(m.cwd, name)
		if e.IsDir() {
			if name[0] != '.' {
				items = append(items, fileItem{title: name + "/", desc: "directory", path: p, isDir: true})
			}
			continue
		}
		if !format.Supported(name) {
			continue
		}
		desc := format.Classify(name).String()
		if info, err := e.Info(); err == nil {
			desc += " · " + humanize.Bytes(uint64(info.Size()))
		}
		files = append(files, fileItem{title: name, desc: desc, path: p})
	}
	sort.SliceStable(files, func(i, j int) bool { return files[i].(fileItem).Title() < files[j].(fileItem).Title() })
	m.sidebar = browseFiles
	m.l.Title = "Files · " + filepath.Base(m.cwd)
	m.l.SetItems(append(items, files...))
	if len(files) == 0 {
		m.status = "no supported files in " + m.cwd
	}
}

func (m *Model) refreshWorkspace() {
	active := m.ws.Active()
	items := make([]list.Item, 0, m.ws.Len())
	for _, f := range m.ws.Files() {
		items = append(items, workspaceItem{file: f, active: active != nil && f.ID == active.ID})
	}
	m.sidebar = workspaceFiles
	m.l.Title = fmt.Sprintf("Workspace · %d files", len(items))
	m.l.SetItems(items)
}

// openFiles reads paths off the UI goroutine.
func (m Model) openFiles(paths []string) tea.Cmd {
	sink := m.sink
	return func() tea.Msg {
		files, err := ingest.OpenAll(context.Background(), paths, sink)
		return openedMsg{files: files, err: err}
	}
}

// listen waits for the next message of a load.
func listen(ch <-chan ingest.Msg) tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-ch
		if !ok {
			return nil
		}
		return loadMsg{msg: msg, ch: ch}
	}
}

// stop cancels the running load. Its remaining messages are stale from
// here on and nobody listens for them.
func (m *Model) stop() {
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
	m.loading = ""
	m.fraction = 0
}

// clearData drops everything shown for the previous file.
func (m *Model) clearData() {
	m.mode = viewEmpty
	m.coll, m.index = nil, nil
	m.selected = -1
	m.hover = hoverState{feature: -1}
	m.inspectPopup = ""
	m.showAttrs = false
	m.decoded = 0
}

// load starts decoding f under a new generation. Point clouds get a fresh
// render session; vector files only invalidate the old one.
func (m *Model) load(f *ingest.SourceFile) tea.Cmd {
	m.stop()
	m.clearData()
	var gen uint64
	if f.Kind.Family == format.PointCloud {
		_, g, err := m.sessions.Open()
		if err != nil {
			m.status = "session error: " + err.Error()
			return nil
		}
		gen = g
	} else {
		gen = m.sessions.Idle()
	}
	m.ws.Bind(f.ID, gen)
	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	m.loading = f.Name
	m.status = "loading: " + f.Name
	if m.sidebar == workspaceFiles {
		m.refreshWorkspace()
	}
	return listen(m.runner.Start(ctx, f, gen))
}

func (m *Model) handleOpened(msg openedMsg) tea.Cmd {
	defer m.syncLogs()
	if msg.err != nil {
		m.status = "open error: " + msg.err.Error()
	}
	if len(msg.files) == 0 {
		return nil
	}
	m.ws.Add(msg.files...)
	return m.load(m.ws.Active())
}

func (m *Model) handleLoad(lm loadMsg) tea.Cmd {
	defer m.syncLogs()
	if lm.msg.Generation() != m.sessions.Generation() {
		return nil
	}
	switch msg := lm.msg.(type) {
	case ingest.Progress:
		m.fraction = msg.Fraction
		return listen(lm.ch)
	case ingest.PointCloudLoaded:
		m.loading = ""
		m.cancel = nil
		shown, err := ingest.Present(m.sessions, msg)
		if err != nil {
			m.status = "display error: " + err.Error()
			return nil
		}
		if !shown {
			return nil
		}
		m.mode = viewPoints
		m.cloud = msg.Result
		m.decoded = msg.Decoded
		m.status = fmt.Sprintf("loaded: %s  points: %s", msg.File.Name, humanize.Comma(int64(msg.Result.Buffer.Len())))
	case ingest.VectorLoaded:
		m.loading = ""
		m.cancel = nil
		m.showVector(msg.Collection, msg.Index, msg.Viewport)
		m.status = fmt.Sprintf("loaded: %s  %s", msg.File.Name, msg.Collection.Diagnostics)
	case ingest.Failed:
		m.loading = ""
		m.cancel = nil
		m.status = "load error: " + msg.Err.Error()
	}
	return nil
}

func (m *Model) showVector(c *geom.Collection, idx *geom.Index, vp geom.Viewport) {
	m.mode = viewMap
	m.coll, m.index, m.vp = c, idx, vp
	m.layers = geom.AllLayers()
	m.selected = -1
	if m.showAttrs {
		m.refreshAttrsFromCurrent()
	}
}

// pasteGeometry shows text from the paste area as a vector layer. It
// reports whether the text decoded.
func (m *Model) pasteGeometry(text string) bool {
	c, err := geom.DecodeText(text)
	if err != nil {
		m.sink.Emit(logsink.New(logsink.Error, "Failed to load GeoJSON: %v", err))
		m.status = "paste error: " + err.Error()
		m.syncLogs()
		return false
	}
	m.stop()
	m.clearData()
	m.sessions.Idle()
	vp, ok := geom.Fit(c)
	if !ok {
		vp = geom.DefaultViewport()
	}
	m.showVector(c, geom.NewIndex(c), vp)
	m.sink.Emit(logsink.New(logsink.Success, "Successfully loaded GeoJSON: pasted geometry"))
	m.status = "rendered paste  " + c.Diagnostics.String()
	m.syncLogs()
	return true
}

// step activates the workspace file delta positions away from the active one.
func (m *Model) step(delta int) tea.Cmd {
	files := m.ws.Files()
	if len(files) < 2 {
		return nil
	}
	cur := 0
	if a := m.ws.Active(); a != nil {
		for i, f := range files {
			if f.ID == a.ID {
				cur = i
			}
		}
	}
	next := files[(cur+delta+len(files))%len(files)]
	m.ws.Activate(next.ID)
	return m.load(next)
}

// removeActive drops the active file and loads whichever file takes over.
func (m *Model) removeActive() tea.Cmd {
	a := m.ws.Active()
	if a == nil {
		m.status = "no file to remove"
		return nil
	}
	m.stop()
	m.ws.Remove(a.ID)
	m.status = "removed: " + a.Name
	if m.sidebar == workspaceFiles {
		m.refreshWorkspace()
	}
	if next := m.ws.Active(); next != nil {
		return m.load(next)
	}
	m.sessions.Idle()
	m.clearData()
	return nil
}
