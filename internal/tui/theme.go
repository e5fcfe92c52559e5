package tui

import "github.com/charmbracelet/lipgloss"

// ---------------------------------------------------------------------------
// Catppuccin Mocha palette (true-color hex values)
// https://catppuccin.com/palette
// ---------------------------------------------------------------------------

const (
	colorPink     lipgloss.Color = "#f5c2e7"
	colorMauve    lipgloss.Color = "#cba6f7"
	colorRed      lipgloss.Color = "#f38ba8"
	colorPeach    lipgloss.Color = "#fab387"
	colorYellow   lipgloss.Color = "#f9e2af"
	colorGreen    lipgloss.Color = "#a6e3a1"
	colorTeal     lipgloss.Color = "#94e2d5"
	colorLavender lipgloss.Color = "#b4befe"

	colorText     lipgloss.Color = "#cdd6f4"
	colorOverlay1 lipgloss.Color = "#7f849c"
	colorOverlay0 lipgloss.Color = "#6c7086"
	colorSurface1 lipgloss.Color = "#45475a"
	colorSurface0 lipgloss.Color = "#313244"
)

// ---------------------------------------------------------------------------
// Semantic color aliases
// ---------------------------------------------------------------------------

const (
	colorAccent  = colorPink
	colorFocus   = colorLavender
	colorSuccess = colorGreen
	colorError   = colorRed
	colorWarning = colorYellow
	colorInfo    = colorTeal
)

var (
	titleStyle     = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	headerStyle    = lipgloss.NewStyle().Bold(true).Foreground(colorMauve)
	chipStyle      = lipgloss.NewStyle().Foreground(colorText)
	occupantStyle  = lipgloss.NewStyle().Foreground(colorSuccess)
	placeholder    = lipgloss.NewStyle().Foreground(colorOverlay0).Italic(true)
	labelStyle     = lipgloss.NewStyle().Foreground(colorPeach)
	deleteStyle    = lipgloss.NewStyle().Foreground(colorError).Bold(true)
	draggedStyle   = lipgloss.NewStyle().Foreground(colorOverlay1).Strikethrough(true)
	changedStyle   = lipgloss.NewStyle().Foreground(colorInfo).Bold(true)
	statusStyle    = lipgloss.NewStyle().Foreground(colorOverlay1)
	errorStyle     = lipgloss.NewStyle().Foreground(colorError)
	warnStyle      = lipgloss.NewStyle().Foreground(colorWarning)
	badgeStyle     = lipgloss.NewStyle().Foreground(colorSurface0).Background(colorRed).Padding(0, 1)
	dragBadgeStyle = lipgloss.NewStyle().Foreground(colorSurface0).Background(colorFocus).Padding(0, 1)

	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorAccent).
			Padding(0, 1)
)

func boxStyle(hover bool) lipgloss.Style {
	c := colorSurface1
	if hover {
		c = colorFocus
	}
	return lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(c)
}

func rowStyle(hover bool) lipgloss.Style {
	if hover {
		return lipgloss.NewStyle().Background(colorSurface0)
	}
	return lipgloss.NewStyle()
}
