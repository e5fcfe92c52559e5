package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/lipgloss"

	"github.com/jask/pairboard/internal/board"
)

func (a *App) View() string {
	var b strings.Builder
	b.WriteString(a.renderHeader())
	b.WriteString("\n")
	b.WriteString(a.renderPanes())
	b.WriteString("\n")
	b.WriteString(a.renderInput())
	b.WriteString("\n")
	b.WriteString(a.renderStatus())
	b.WriteString("\n")
	b.WriteString(a.renderHelp())
	view := b.String()

	if a.mode == modeConfirm {
		modal := a.renderConfirm()
		lines := splitLines(modal)
		w := max(a.width, maxLineWidth(splitLines(view)))
		x := centerIn(w, maxLineWidth(lines))
		y := headerRows + centerIn(max(a.layout.poolBox.H, a.layout.slotsBox.H), len(lines))
		view = overlayAt(view, modal, x, y, w)
	}
	return view
}

func (a *App) renderHeader() string {
	slots := a.layout.slots
	assigned := 0
	for _, s := range slots {
		if s.Occupied {
			assigned++
		}
	}
	parts := []string{
		titleStyle.Render("pairboard"),
		statusStyle.Render(fmt.Sprintf("%d/%d assigned", assigned, len(slots))),
	}
	if a.deleting {
		parts = append(parts, badgeStyle.Render("DELETE"))
	}
	if s := a.board.Dragging(); s != nil {
		parts = append(parts, dragBadgeStyle.Render("dragging "+s.Subject.Entry.String()))
	}
	line := strings.Join(parts, "  ")
	if a.width > 0 && lipgloss.Width(line) > a.width {
		line = fit(titleStyle.Render("pairboard"), a.width)
	}
	return line
}

func (a *App) renderPanes() string {
	return lipgloss.JoinHorizontal(lipgloss.Top, a.renderPool(), " ", a.renderSlots())
}

func (a *App) renderPool() string {
	l := a.layout
	w := l.poolWidth
	fold := "▾"
	if l.collapsed {
		fold = "▸"
	}
	lines := []string{headerStyle.Render(fit(fmt.Sprintf("%s Pool (%d)", fold, len(l.pool)), w))}
	if !l.collapsed {
		if len(l.pool) == 0 {
			lines = append(lines, placeholder.Render(fit("empty", w)))
		}
		drag := a.board.Dragging()
		for _, e := range l.pool {
			style := chipStyle
			if drag != nil && drag.Subject.Entry == e && drag.Subject.Origin.IsPool() {
				style = draggedStyle
			}
			lines = append(lines, a.withMarker(style, "• "+e.String(), w))
		}
	}
	return boxStyle(a.hover.IsPool()).Width(w).Render(strings.Join(lines, "\n"))
}

func (a *App) renderSlots() string {
	l := a.layout
	w := l.slotsWidth
	lines := []string{headerStyle.Render(fit("Slots", w))}
	if len(l.slots) == 0 {
		lines = append(lines, placeholder.Render(fit("press a to add someone", w)))
	}
	drag := a.board.Dragging()
	for _, s := range l.slots {
		hover := a.hover.IsSlot() && a.hover.Slot == s.Name
		nameStyle := labelStyle
		if _, ok := a.flash[s.Name]; ok {
			nameStyle = changedStyle
		}
		text := s.Name.String() + arrow
		occ := placeholder.Render("·")
		if s.Occupied {
			style := occupantStyle
			if drag != nil && drag.Subject.Origin == board.SlotRegion(s.Name) {
				style = draggedStyle
			}
			occ = style.Render(s.Occupant.String())
			text += s.Occupant.String()
		} else {
			text += "·"
		}

		avail := w
		if l.deleting {
			avail = w - 2
		}
		var row string
		if lipgloss.Width(text) > avail {
			row = labelStyle.Render(fit(text, avail))
		} else {
			row = nameStyle.Render(s.Name.String()) + statusStyle.Render(arrow) + occ
			row = padRight(row, avail)
		}
		if l.deleting {
			row += " " + deleteStyle.Render(deleteGlyph)
		}
		lines = append(lines, rowStyle(hover).Render(row))
	}
	return boxStyle(false).Width(w).Render(strings.Join(lines, "\n"))
}

// withMarker renders text in style, fitted to w, with a delete marker in the
// last column when delete mode is on.
func (a *App) withMarker(style lipgloss.Style, text string, w int) string {
	if !a.layout.deleting {
		return style.Render(fit(text, w))
	}
	return style.Render(fit(text, w-2)) + " " + deleteStyle.Render(deleteGlyph)
}

func (a *App) renderInput() string {
	if a.mode != modeAdd {
		return ""
	}
	line := a.input.View()
	if len(a.similar) > 0 {
		line += "  " + warnStyle.Render("looks like "+joinNames(a.similar))
	}
	return line
}

func (a *App) renderStatus() string {
	switch a.statusKind {
	case statusError:
		return errorStyle.Render(a.status)
	case statusWarn:
		return warnStyle.Render(a.status)
	default:
		return statusStyle.Render(a.status)
	}
}

func (a *App) renderHelp() string {
	var km help.KeyMap = a.keys
	switch a.mode {
	case modeAdd:
		km = inputKeyMap{a.keys}
	case modeConfirm:
		km = confirmKeyMap{a.keys}
	}
	return a.help.View(km)
}

func (a *App) renderConfirm() string {
	body := titleStyle.Render("Reset the board?") + "\n" +
		"Every slot, entry and assignment goes.\n" +
		"[y] Reset  [n] Keep"
	return modalStyle.Render(body)
}

func joinNames(names []board.Name) string {
	s := make([]string, len(names))
	for i, n := range names {
		s[i] = n.String()
	}
	return strings.Join(s, ", ")
}
