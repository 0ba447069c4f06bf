package tui

import (
	"context"
	"os"

	list "github.com/charmbracelet/bubbles/list"
	progress "github.com/charmbracelet/bubbles/progress"
	table "github.com/charmbracelet/bubbles/table"
	textarea "github.com/charmbracelet/bubbles/textarea"
	viewport "github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/lucasb-eyer/go-colorful"

	"geoview/internal/geom"
	"geoview/internal/ingest"
	"geoview/internal/logsink"
	"geoview/internal/pointcloud"
	"geoview/internal/session"
)

// Options configure a new Model.
type Options struct {
	// Dir is the directory listed in the sidebar; empty means the
	// working directory.
	Dir string
	// Paths are opened at startup.
	Paths []string
	// PointSize is the initial point size in micro-pixels, 1 to 3.
	PointSize int
	// ShowLogs opens the log panel at startup.
	ShowLogs bool
}

// DefaultOptions lists the working directory with the log panel open.
func DefaultOptions() Options {
	return Options{PointSize: 1, ShowLogs: true}
}

type viewMode int

const (
	viewEmpty viewMode = iota
	viewMap
	viewPoints
)

type sidebarMode int

const (
	browseFiles sidebarMode = iota
	workspaceFiles
)

type hoverState struct {
	on       bool
	cellX    int
	cellY    int
	lon, lat float64
	feature  int // -1 when nothing is close enough
}

type Model struct {
	opts   Options
	width  int
	height int

	showSidebar bool
	sidebar     sidebarMode
	helpVisible bool
	showLogs    bool

	status string

	// File explorer
	cwd string
	l   list.Model

	// Loading
	sink     *logsink.Buffer
	ws       *ingest.Workspace
	surface  *session.Surface
	sessions *session.Manager
	runner   *ingest.Runner
	cancel   context.CancelFunc
	loading  string
	fraction float64
	bar      progress.Model

	// log panel
	logs     viewport.Model
	logCount int

	mode viewMode

	// vector data
	coll     *geom.Collection
	index    *geom.Index
	vp       geom.Viewport
	layers   geom.Layers
	selected int
	hover    hoverState

	// point cloud
	cloud    pointcloud.Normalized
	decoded  int
	colorIdx int
	drag     struct {
		on   bool
		x, y int
	}

	// paste mode
	pasteMode bool
	ta        textarea.Model

	// inspect popup
	inspectPopup string

	// attributes table
	showAttrs bool
	tbl       table.Model
}

// overrides are the colours cycled by the colour key; nil keeps per-point
// colours.
var overrides = []*colorful.Color{
	nil,
	{R: 1, G: 1, B: 1},
	{R: 1, G: 0.647, B: 0},
	{R: 0.133, G: 0.773, B: 0.369},
	{R: 0, G: 0.486, B: 0.749},
}

func New(opts Options) Model {
	if opts.PointSize == 0 {
		opts.PointSize = 1
	}
	sink := &logsink.Buffer{}
	surface := session.NewSurface(1, 1)
	sopts := session.DefaultOptions()
	sopts.PointSize = opts.PointSize
	sessions := session.NewManager(surface, sopts)
	m := Model{
		opts:        opts,
		helpVisible: true,
		showLogs:    opts.ShowLogs,
		status:      "geoview ready",
		cwd:         opts.Dir,
		sink:        sink,
		ws:          ingest.NewWorkspace(sink, sessions),
		surface:     surface,
		sessions:    sessions,
		runner:      ingest.NewRunner(sink),
		vp:          geom.DefaultViewport(),
		layers:      geom.AllLayers(),
		selected:    -1,
		hover:       hoverState{feature: -1},
	}
	if m.cwd == "" {
		m.cwd, _ = os.Getwd()
	}
	// list setup
	d := list.NewDefaultDelegate()
	m.l = list.New(nil, d, 0, 0)
	m.l.SetShowHelp(false)
	m.l.SetShowStatusBar(false)
	m.l.SetFilteringEnabled(true)
	// textarea setup
	m.ta = textarea.New()
	m.ta.Placeholder = "Paste GeoJSON or WKT here. Press Enter to render; Esc to cancel."
	m.ta.CharLimit = 0
	m.ta.SetWidth(50)
	m.ta.SetHeight(6)
	// attributes table setup (columns will be inferred per dataset)
	m.tbl = table.New(table.WithFocused(true))
	m.tbl.SetHeight(12)
	m.bar = progress.New(progress.WithDefaultGradient())
	m.logs = viewport.New(0, 0)
	m.refreshDir()
	return m
}

// Init opens the files named in Options.Paths.
func (m Model) Init() tea.Cmd {
	if len(m.opts.Paths) == 0 {
		return nil
	}
	return m.openFiles(m.opts.Paths)
}

// Sink returns the in-memory log shown in the log panel.
func (m Model) Sink() *logsink.Buffer { return m.sink }
