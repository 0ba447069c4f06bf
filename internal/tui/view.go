package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	l := m.layout()

	// Header
	title := " geoview ─ terminal point cloud and GIS viewer "
	if a := m.ws.Active(); a != nil {
		title += fmt.Sprintf("─ %s (%d files) ", a.Name, m.ws.Len())
	}
	header := lipgloss.NewStyle().Width(l.contentW).Render(titleStyle.Render(title))

	// Sidebar
	var sidebar string
	if m.showSidebar {
		sidebar = lipgloss.NewStyle().Width(l.sidebarW).Height(l.contentH).Render(m.l.View())
	}

	var mapView string
	switch {
	case m.showAttrs:
		// Render attributes table centered in the map area
		colW := 0
		for _, c := range m.tbl.Columns() {
			colW += c.Width + 3
		}
		maxW := min(l.mapW, max(32, colW))
		m.tbl.SetWidth(maxW - 4)
		m.tbl.SetHeight(min(l.mapH-2, 20))
		attrsBox := boxStyle.Width(maxW).Render(m.tbl.View())
		mapView = lipgloss.Place(l.mapW, l.mapH, lipgloss.Center, lipgloss.Center, attrsBox)
	case m.pasteMode:
		mapView = m.ta.View()
	case m.mode == viewMap:
		mapView = m.renderMap(l.mapW, l.mapH)
	case m.mode == viewPoints:
		mapView = m.renderPoints(l.mapW, l.mapH)
	default:
		mapView = m.renderEmpty(l.mapW, l.mapH)
	}
	mapView = lipgloss.NewStyle().Width(l.mapW).Height(l.mapH).MaxHeight(l.mapH).Render(mapView)

	// Inspect popup overlays the right edge of the map
	if m.inspectPopup != "" && !m.showAttrs && !m.pasteMode {
		box := boxStyle.MaxWidth(min(48, l.mapW)).Render(m.inspectPopup)
		mapView = overlay(mapView, box, l.mapW-lipgloss.Width(box))
	}

	mainCol := mapView
	if l.logH > 0 {
		logs := logTitle.Render("Logs") + "\n" + m.logs.View()
		mainCol = lipgloss.JoinVertical(lipgloss.Left, mapView,
			lipgloss.NewStyle().Width(l.mapW).Height(l.logH).MaxHeight(l.logH).Render(logs))
	}

	// Body row
	body := mainCol
	if m.showSidebar {
		body = lipgloss.JoinHorizontal(lipgloss.Top, sidebar, " ", mainCol)
	}

	// Footer: status with pointer coordinates, then help
	status := dimStyle.Render(" " + m.status + " ")
	if m.loading != "" && m.mode != viewEmpty {
		status = m.bar.ViewAs(m.fraction) + status
	}
	coords := ""
	if m.hover.on && m.mode == viewMap {
		coords = dimStyle.Render(fmt.Sprintf("  lon=%.5f lat=%.5f  ", m.hover.lon, m.hover.lat))
	}
	spacer := strings.Repeat(" ", max(0, l.contentW-lipgloss.Width(status)-lipgloss.Width(coords)))
	footer := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().MaxWidth(l.contentW).Render(status+spacer+coords),
		lipgloss.NewStyle().MaxWidth(l.contentW).Render(m.renderHelp()))

	ui := lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
	return appStyle.Width(l.contentW).Height(m.height).MaxHeight(m.height).Render(ui)
}

// overlay draws box over the top of base starting at column x.
func overlay(base, box string, x int) string {
	lines := strings.Split(base, "\n")
	for i, row := range strings.Split(box, "\n") {
		if i >= len(lines) {
			break
		}
		w := lipgloss.Width(row)
		left := lipgloss.NewStyle().MaxWidth(max(0, x)).Render(lines[i])
		pad := strings.Repeat(" ", max(0, x-lipgloss.Width(left)))
		lines[i] = left + pad + row + strings.Repeat(" ", max(0, lipgloss.Width(lines[i])-x-w))
	}
	return strings.Join(lines, "\n")
}

// syncLogs copies new sink events into the log panel.
func (m *Model) syncLogs() {
	events := m.sink.Events()
	if len(events) == m.logCount {
		return
	}
	m.logCount = len(events)
	lines := make([]string, len(events))
	for i, e := range events {
		lines[i] = severityStyle(e.Severity).Render(e.String())
	}
	m.logs.SetContent(strings.Join(lines, "\n"))
	m.logs.GotoBottom()
}

func (m Model) renderHelp() string {
	if !m.helpVisible {
		return ""
	}
	keys := []string{"Tab files", "w workspace", "Enter open", "n/N next", "x remove", "p paste", "g logs"}
	switch m.mode {
	case viewMap:
		keys = append(keys, "↑↓←→ pan", "+/- zoom", "1-4 layers", "f fit", "a attrs", "i inspect")
	case viewPoints:
		keys = append(keys, "↑↓←→ orbit", "⇧↑↓←→ pan", "+/- dolly", "1-3 size", "c colour", "o shade", "f reset", "i info")
	}
	keys = append(keys, "h help", "q quit")
	return dimStyle.Render(" " + strings.Join(keys, "  "))
}
