package tui

const (
	sidebarWidth = 32
	headerHeight = 1
	footerHeight = 2
	logHeight    = 7
)

// layout is the screen geometry shared by View and mouse handling.
type layout struct {
	contentW, contentH int
	sidebarW           int
	mapX, mapY         int
	mapW, mapH         int
	logH               int
}

func (m Model) layout() layout {
	var l layout
	l.contentW = max(10, m.width)
	l.contentH = max(4, m.height-headerHeight-footerHeight)
	if m.showSidebar {
		l.sidebarW = sidebarWidth
		l.mapX = sidebarWidth + 1
	}
	if m.showLogs {
		l.logH = min(logHeight, l.contentH/2)
	}
	l.mapY = headerHeight
	l.mapW = max(10, l.contentW-l.mapX)
	l.mapH = max(4, l.contentH-l.logH)
	return l
}

// inMap converts a screen position to a map cell.
func (l layout) inMap(x, y int) (cx, cy int, ok bool) {
	cx, cy = x-l.mapX, y-l.mapY
	return cx, cy, cx >= 0 && cx < l.mapW && cy >= 0 && cy < l.mapH
}

// resize applies the layout to every sized component.
func (m *Model) resize() {
	l := m.layout()
	m.surface.SetSize(l.mapW, l.mapH)
	m.l.SetSize(sidebarWidth-2, max(1, l.contentH-2))
	m.logs.Width = l.mapW
	m.logs.Height = max(0, l.logH-1)
	m.bar.Width = min(60, l.mapW-4)
	m.ta.SetWidth(l.mapW)
	m.ta.SetHeight(min(l.mapH, 12))
}
