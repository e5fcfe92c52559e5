package tui

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// overlayAt draws modal over base with its top-left corner at cell (x, y).
// Lines of base outside the modal are kept as they are.
func overlayAt(base, modal string, x, y, width int) string {
	baseLines := splitLines(base)
	modalLines := splitLines(modal)
	modalWidth := maxLineWidth(modalLines)
	for i, line := range modalLines {
		row := y + i
		if row < 0 || row >= len(baseLines) {
			continue
		}
		target := padRight(baseLines[row], width)
		left := padRight(ansi.Truncate(target, x, ""), x)
		line = padRight(line, modalWidth)
		right := ansi.TruncateLeft(target, x+modalWidth, "")
		baseLines[row] = left + line + right
	}
	return strings.Join(baseLines, "\n")
}

// centerIn returns the offset that centres a block of size inner in outer.
func centerIn(outer, inner int) int {
	return max((outer-inner)/2, 0)
}

// ---------------------------------------------------------------------------
// String utilities
// ---------------------------------------------------------------------------

// splitLines splits a string on newlines, returning at least one element.
func splitLines(s string) []string {
	if s == "" {
		return []string{""}
	}
	return strings.Split(s, "\n")
}

// maxLineWidth returns the visual width of the widest line.
func maxLineWidth(lines []string) int {
	m := 0
	for _, line := range lines {
		if w := ansi.StringWidth(line); w > m {
			m = w
		}
	}
	return m
}

// padRight pads s with spaces so its visual width equals width.
func padRight(s string, width int) string {
	if width <= 0 {
		return s
	}
	w := ansi.StringWidth(s)
	if w >= width {
		return s
	}
	return s + strings.Repeat(" ", width-w)
}

// fit truncates s to width cells with an ellipsis and pads it out to width.
func fit(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return padRight(ansi.Truncate(s, width, "…"), width)
}
