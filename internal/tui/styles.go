package tui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"

	"geoview/internal/logsink"
)

// Styles
var (
	baseFg    = lipgloss.Color("#E6E6E6")
	baseDimFg = lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#6B7280"}
	accentFg  = lipgloss.Color("#7C3AED")
	borderCol = lipgloss.Color("#243141")

	appStyle   = lipgloss.NewStyle().Foreground(baseFg)
	boxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(borderCol).Padding(0, 1)
	titleStyle = lipgloss.NewStyle().Foreground(accentFg).Bold(true)
	dimStyle   = lipgloss.NewStyle().Foreground(baseDimFg)
	logTitle   = lipgloss.NewStyle().Foreground(baseDimFg).Bold(true)

	severityStyles = map[logsink.Severity]lipgloss.Style{
		logsink.Error:   lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444")),
		logsink.Warning: lipgloss.NewStyle().Foreground(lipgloss.Color("#EAB308")),
		logsink.Success: lipgloss.NewStyle().Foreground(lipgloss.Color("#22C55E")),
		logsink.Info:    lipgloss.NewStyle().Foreground(lipgloss.Color("#9CA3AF")),
	}

	// hoverColor marks the hovered or selected feature.
	hoverColor = colorful.Color{R: 1, G: 0.647, B: 0}
)

func severityStyle(s logsink.Severity) lipgloss.Style {
	if st, ok := severityStyles[s]; ok {
		return st
	}
	return dimStyle
}
