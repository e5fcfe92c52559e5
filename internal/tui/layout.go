package tui

import (
	"github.com/charmbracelet/x/ansi"

	"github.com/jask/pairboard/internal/board"
)

const (
	headerRows    = 1
	minSlotsWidth = 22
	arrow         = " → "
	deleteGlyph   = "✕"
)

// Rect is a cell rectangle on screen.
type Rect struct {
	X, Y, W, H int
}

// Contains reports whether p falls in r. Pointer coordinates are cells, so
// fractions are floored.
func (r Rect) Contains(p board.Point) bool {
	x, y := int(p.X), int(p.Y)
	if p.X < 0 || p.Y < 0 {
		return false
	}
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

type dropZone struct {
	rect   Rect
	region board.Region
	depth  int
}

type chipZone struct {
	rect    Rect
	subject board.Subject
}

// deleteTarget is what a ✕ marker removes.
type deleteTarget struct {
	slot bool
	name board.Name
}

type markerZone struct {
	rect   Rect
	target deleteTarget
}

// Layout is the geometry of one rendered frame. Render and hit-testing both
// read from it so the two cannot disagree.
type Layout struct {
	poolWidth  int
	slotsWidth int
	collapsed  bool
	deleting   bool

	pool  []board.Name
	slots []board.SlotView

	poolBox  Rect
	slotsBox Rect

	zones   []dropZone
	chips   []chipZone
	markers []markerZone
}

// buildLayout places the pool box at the left edge under the header and the
// slots box one column to its right. Each box has a header line, then one
// row per entry or slot.
func buildLayout(pool []board.Name, slots []board.SlotView, poolWidth, screenWidth int, collapsed, deleting bool) Layout {
	l := Layout{
		poolWidth: poolWidth,
		collapsed: collapsed,
		deleting:  deleting,
		pool:      pool,
		slots:     slots,
	}
	l.slotsWidth = slotsWidthFor(slots, deleting)
	if screenWidth > 0 {
		if room := screenWidth - (poolWidth + 2) - 1 - 2; room >= minSlotsWidth && l.slotsWidth > room {
			l.slotsWidth = room
		}
	}

	poolLines := 1
	if !collapsed {
		poolLines += max(len(pool), 1)
	}
	l.poolBox = Rect{X: 0, Y: headerRows, W: poolWidth + 2, H: poolLines + 2}
	slotLines := 1 + max(len(slots), 1)
	l.slotsBox = Rect{X: l.poolBox.W + 1, Y: headerRows, W: l.slotsWidth + 2, H: slotLines + 2}

	l.zones = append(l.zones, dropZone{rect: l.poolBox, region: board.PoolRegion(), depth: 1})

	if !collapsed {
		for i, e := range pool {
			row := l.contentRow(l.poolBox, i)
			l.chips = append(l.chips, chipZone{rect: row, subject: board.Subject{Entry: e, Origin: board.PoolRegion()}})
			if deleting {
				l.markers = append(l.markers, markerZone{rect: lastCell(row), target: deleteTarget{name: e}})
			}
		}
	}
	for i, s := range slots {
		row := l.contentRow(l.slotsBox, i)
		l.zones = append(l.zones, dropZone{rect: row, region: board.SlotRegion(s.Name), depth: 2})
		if s.Occupied {
			l.chips = append(l.chips, chipZone{rect: row, subject: board.Subject{Entry: s.Occupant, Origin: board.SlotRegion(s.Name)}})
		}
		if deleting {
			l.markers = append(l.markers, markerZone{rect: lastCell(row), target: deleteTarget{slot: true, name: s.Name}})
		}
	}
	return l
}

func slotsWidthFor(slots []board.SlotView, deleting bool) int {
	w := minSlotsWidth
	for _, s := range slots {
		n := ansi.StringWidth(string(s.Name)) + ansi.StringWidth(arrow) + 2
		if s.Occupied {
			n += ansi.StringWidth(string(s.Occupant))
		} else {
			n++
		}
		if deleting {
			n += 2
		}
		w = max(w, n)
	}
	return w
}

// contentRow is the rect of item row i inside box, below the box header.
func (l Layout) contentRow(box Rect, i int) Rect {
	return Rect{X: box.X + 1, Y: box.Y + 2 + i, W: box.W - 2, H: 1}
}

func lastCell(r Rect) Rect {
	return Rect{X: r.X + r.W - 1, Y: r.Y, W: 1, H: 1}
}

// RegionAt returns the deepest drop zone under p.
func (l Layout) RegionAt(p board.Point) board.Region {
	best, depth := board.NoRegion(), 0
	for _, z := range l.zones {
		if z.depth > depth && z.rect.Contains(p) {
			best, depth = z.region, z.depth
		}
	}
	return best
}

// ChipAt returns the draggable entry under p.
func (l Layout) ChipAt(p board.Point) (board.Subject, bool) {
	for _, c := range l.chips {
		if c.rect.Contains(p) {
			return c.subject, true
		}
	}
	return board.Subject{}, false
}

// DeleteAt returns the ✕ marker under p. Markers exist only in delete mode.
func (l Layout) DeleteAt(p board.Point) (deleteTarget, bool) {
	for _, m := range l.markers {
		if m.rect.Contains(p) {
			return m.target, true
		}
	}
	return deleteTarget{}, false
}

// slotRow returns the rect of the named slot's row, for tests and tooling
// that need to aim at it.
func (l Layout) slotRow(name board.Name) (Rect, bool) {
	for i, s := range l.slots {
		if s.Name == name {
			return l.contentRow(l.slotsBox, i), true
		}
	}
	return Rect{}, false
}

func (l Layout) poolRow(name board.Name) (Rect, bool) {
	if l.collapsed {
		return Rect{}, false
	}
	for i, e := range l.pool {
		if e == name {
			return l.contentRow(l.poolBox, i), true
		}
	}
	return Rect{}, false
}
