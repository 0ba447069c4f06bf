package tui

import (
	"fmt"
	"strings"

	list "github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/paulmach/orb"

	"geoview/internal/geom"
	"geoview/internal/session"
)

// Navigation steps.
const (
	panStep    = 8.0  // micro-pixels per arrow press on the map
	zoomStep   = 0.5  // zoom levels per +/-
	orbitStep  = 0.15 // radians per arrow press
	dollyStep  = 1.2
	camPanStep = 0.05 // fraction of the visible height
	dragScale  = 0.05 // radians per cell of mouse drag
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil
	case openedMsg:
		cmd := m.handleOpened(msg)
		return m, cmd
	case loadMsg:
		cmd := m.handleLoad(msg)
		return m, cmd
	case tea.KeyMsg:
		return m.updateKey(msg)
	case tea.MouseMsg:
		m.updateMouse(msg)
		return m, nil
	}
	if m.showSidebar {
		var cmd tea.Cmd
		m.l, cmd = m.l.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// If list is visible and filtering, send keys to list and ignore global commands
	if m.showSidebar && m.l.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.l, cmd = m.l.Update(msg)
		return m, cmd
	}
	if m.pasteMode {
		switch msg.String() {
		case "esc":
			m.pasteMode = false
			m.ta.Blur()
			m.status = "view mode"
			return m, nil
		case "enter":
			w := strings.TrimSpace(m.ta.Value())
			if w == "" {
				m.status = "paste: empty"
				return m, nil
			}
			if m.pasteGeometry(w) {
				m.pasteMode = false
				m.ta.Blur()
			}
			return m, nil
		}
		var cmd tea.Cmd
		m.ta, cmd = m.ta.Update(msg)
		return m, cmd
	}
	if m.showAttrs {
		switch msg.String() {
		case "esc", "a":
			m.showAttrs = false
			return m, nil
		case "enter":
			m.selectFromTable()
			m.showAttrs = false
			return m, nil
		case "up", "down", "k", "j", "pgup", "pgdown", "home", "end":
			var cmd tea.Cmd
			m.tbl, cmd = m.tbl.Update(msg)
			return m, cmd
		}
	}

	switch msg.String() {
	case "ctrl+c", "q":
		m.stop()
		m.sessions.Dispose()
		return m, tea.Quit
	case "tab":
		m.showSidebar = !m.showSidebar
		if m.showSidebar && m.sidebar == browseFiles {
			m.refreshDir()
		}
		m.resize()
		return m, nil
	case "w":
		if m.sidebar == browseFiles {
			m.refreshWorkspace()
		} else {
			m.refreshDir()
		}
		m.showSidebar = true
		m.resize()
		return m, nil
	case "enter":
		if m.showSidebar {
			cmd := m.openSelected()
			return m, cmd
		}
		return m, nil
	case "n":
		cmd := m.step(1)
		return m, cmd
	case "N":
		cmd := m.step(-1)
		return m, cmd
	case "x":
		cmd := m.removeActive()
		return m, cmd
	case "g":
		m.showLogs = !m.showLogs
		m.resize()
		return m, nil
	case "h":
		m.helpVisible = !m.helpVisible
		return m, nil
	case "p":
		m.pasteMode = true
		m.ta.SetValue("")
		m.status = "paste mode"
		cmd := m.ta.Focus()
		return m, cmd
	case "esc":
		m.inspectPopup = ""
		m.selected = -1
		return m, nil
	}

	switch m.mode {
	case viewMap:
		m.mapKey(msg.String())
	case viewPoints:
		m.pointKey(msg.String())
	}
	if m.showSidebar {
		var cmd tea.Cmd
		m.l, cmd = m.l.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) openSelected() tea.Cmd {
	switch it := m.l.SelectedItem().(type) {
	case fileItem:
		if it.isDir {
			m.cwd = it.path
			m.refreshDir()
			return nil
		}
		m.status = "opening: " + it.title
		return m.openFiles([]string{it.path})
	case workspaceItem:
		m.ws.Activate(it.file.ID)
		return m.load(it.file)
	}
	return nil
}

func (m *Model) mapKey(key string) {
	switch key {
	case "1":
		m.layers.Points = !m.layers.Points
		m.status = fmt.Sprintf("points: %v", m.layers.Points)
	case "2":
		m.layers.Lines = !m.layers.Lines
		m.status = fmt.Sprintf("lines: %v", m.layers.Lines)
	case "3":
		m.layers.Polygons = !m.layers.Polygons
		m.status = fmt.Sprintf("polys: %v", m.layers.Polygons)
	case "4":
		m.layers.Other = !m.layers.Other
		m.status = fmt.Sprintf("other: %v", m.layers.Other)
	case "l":
		// toggle all layers
		all := m.layers == geom.AllLayers()
		m.layers = geom.Layers{Points: !all, Lines: !all, Polygons: !all, Other: !all}
		m.status = fmt.Sprintf("layers: %v", !all)
	case "+", "=":
		m.vp = m.vp.ZoomBy(zoomStep)
		m.status = zoomStatus(m.vp.Zoom)
	case "-", "_":
		m.vp = m.vp.ZoomBy(-zoomStep)
		m.status = zoomStatus(m.vp.Zoom)
	case "up":
		m.vp = m.vp.Pan(0, -panStep)
	case "down":
		m.vp = m.vp.Pan(0, panStep)
	case "left":
		m.vp = m.vp.Pan(-panStep, 0)
	case "right":
		m.vp = m.vp.Pan(panStep, 0)
	case "f":
		if vp, ok := geom.Fit(m.coll); ok {
			m.vp = vp
			m.status = "fitted to data"
		}
	case "a":
		m.showAttrs = true
		m.refreshAttrsFromCurrent()
	case "i":
		m.inspect()
	}
}

// inspect describes the feature nearest the pointer, or the map centre
// when the pointer is outside the map.
func (m *Model) inspect() {
	p := m.vp.Center
	if m.hover.on {
		p = orb.Point{m.hover.lon, m.hover.lat}
	}
	hit, ok := m.index.Nearest(p)
	if !ok {
		m.inspectPopup = "no feature nearby"
		m.status = m.inspectPopup
		return
	}
	m.selected = hit.Pos
	m.inspectPopup = geom.Describe(hit.Feature)
	m.status = "inspect popup"
}

func (m *Model) pointKey(key string) {
	s, _ := m.sessions.Current()
	if s == nil {
		return
	}
	c := s.Controls()
	switch key {
	case "left":
		c.Rotate(-orbitStep, 0)
	case "right":
		c.Rotate(orbitStep, 0)
	case "up":
		c.Rotate(0, -orbitStep)
	case "down":
		c.Rotate(0, orbitStep)
	case "shift+left":
		c.Pan(-camPanStep, 0)
	case "shift+right":
		c.Pan(camPanStep, 0)
	case "shift+up":
		c.Pan(0, camPanStep)
	case "shift+down":
		c.Pan(0, -camPanStep)
	case "+", "=":
		c.Dolly(1 / dollyStep)
	case "-", "_":
		c.Dolly(dollyStep)
	case "1", "2", "3":
		o := m.sessions.Options()
		o.PointSize = int(key[0] - '0')
		m.sessions.SetOptions(o)
		m.status = fmt.Sprintf("point size: %d", o.PointSize)
	case "c":
		m.colorIdx = (m.colorIdx + 1) % len(overrides)
		o := m.sessions.Options()
		o.Color = overrides[m.colorIdx]
		m.sessions.SetOptions(o)
		if o.Color == nil {
			m.status = "colour: per point"
		} else {
			m.status = "colour: " + o.Color.Hex()
		}
	case "o":
		o := m.sessions.Options()
		o.Shading = !o.Shading
		m.sessions.SetOptions(o)
		m.status = fmt.Sprintf("shading: %v", o.Shading)
	case "f":
		gen := m.sessions.Generation()
		_, _ = m.sessions.Deliver(gen, func(s *session.Session) error {
			return s.Show(m.cloud.Buffer, m.cloud.Frame)
		})
		m.status = "camera reset"
	case "i":
		m.inspectPopup = m.cloudInfo()
	}
}

func (m *Model) updateMouse(msg tea.MouseMsg) {
	l := m.layout()
	cx, cy, ok := l.inMap(msg.X, msg.Y)
	if !ok || m.pasteMode || m.showAttrs {
		m.hover.on = false
		m.drag.on = false
		return
	}
	switch m.mode {
	case viewMap:
		p := m.cellToLonLat(cx, cy, l.mapW, l.mapH)
		m.hover = hoverState{on: true, cellX: cx, cellY: cy, lon: p.Lon(), lat: p.Lat(),
			feature: m.featureAt(cx, cy, l.mapW, l.mapH)}
		switch {
		case msg.Button == tea.MouseButtonWheelUp:
			m.vp = m.vp.ZoomBy(zoomStep)
			m.status = zoomStatus(m.vp.Zoom)
		case msg.Button == tea.MouseButtonWheelDown:
			m.vp = m.vp.ZoomBy(-zoomStep)
			m.status = zoomStatus(m.vp.Zoom)
		case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
			m.inspect()
		}
	case viewPoints:
		s, _ := m.sessions.Current()
		if s == nil {
			return
		}
		c := s.Controls()
		switch {
		case msg.Button == tea.MouseButtonWheelUp:
			c.Dolly(1 / dollyStep)
		case msg.Button == tea.MouseButtonWheelDown:
			c.Dolly(dollyStep)
		case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
			m.drag.on, m.drag.x, m.drag.y = true, cx, cy
		case msg.Action == tea.MouseActionMotion && m.drag.on:
			dx, dy := cx-m.drag.x, cy-m.drag.y
			// cells are about twice as tall as wide
			c.Rotate(-float64(dx)*dragScale, -float64(dy)*dragScale*2)
			m.drag.x, m.drag.y = cx, cy
		case msg.Action == tea.MouseActionRelease:
			m.drag.on = false
		}
	}
}
