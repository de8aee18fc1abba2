package tui

import "github.com/charmbracelet/lipgloss"

// Styles
var (
	baseFg    = lipgloss.Color("#E6E6E6")
	baseDimFg = lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#6B7280"}
	accentFg  = lipgloss.Color("#7C3AED")
	activeFg  = lipgloss.Color("#22C55E")
	hoverFg   = lipgloss.Color("#FFA500")
	fillFg    = lipgloss.Color("#374151")
	borderCol = lipgloss.Color("#243141")

	appStyle   = lipgloss.NewStyle().Foreground(baseFg)
	boxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(borderCol).Padding(0, 1)
	titleStyle = lipgloss.NewStyle().Foreground(accentFg).Bold(true)
	dimStyle   = lipgloss.NewStyle().Foreground(baseDimFg)
	errStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444"))
)

// classStyles colors map cells; classNone is left unstyled.
var classStyles = map[cellClass]lipgloss.Style{
	classFill:     lipgloss.NewStyle().Foreground(fillFg),
	classFeature:  lipgloss.NewStyle().Foreground(baseFg),
	classSelected: lipgloss.NewStyle().Foreground(accentFg).Bold(true),
	classActive:   lipgloss.NewStyle().Foreground(activeFg),
	classMidpoint: lipgloss.NewStyle().Foreground(baseDimFg),
	classHandle:   lipgloss.NewStyle().Foreground(accentFg),
	classHover:    lipgloss.NewStyle().Foreground(hoverFg),
}
