package board

import (
	"fmt"
	"slices"
)

// RegionKind tags a Region.
type RegionKind uint8

const (
	RegionNone RegionKind = iota
	RegionPool
	RegionSlot
)

// Region is where an entry sits or where a drag ended: nowhere, the pool, or
// a specific slot.
type Region struct {
	Kind RegionKind
	Slot Name // set only for RegionSlot
}

// NoRegion, PoolRegion and SlotRegion build the three Region variants.
func NoRegion() Region         { return Region{} }
func PoolRegion() Region       { return Region{Kind: RegionPool} }
func SlotRegion(s Name) Region { return Region{Kind: RegionSlot, Slot: s} }

func (r Region) IsNone() bool { return r.Kind == RegionNone }
func (r Region) IsPool() bool { return r.Kind == RegionPool }
func (r Region) IsSlot() bool { return r.Kind == RegionSlot }

func (r Region) String() string {
	switch r.Kind {
	case RegionPool:
		return "pool"
	case RegionSlot:
		return "slot:" + string(r.Slot)
	default:
		return "none"
	}
}

// SlotView is a read-only copy of one slot.
type SlotView struct {
	Name     Name
	Occupant Name
	Occupied bool
}

// Observer is told about every change to the store. Implementations may
// redraw incrementally or rebuild from Pool and Slots. Multi-step changes
// such as drops and deletes are reported once they are complete, so the
// store passes Check whenever an Observer method runs.
type Observer interface {
	PoolChanged(entries []Name)
	SlotChanged(slot Name, occupant Name, occupied bool)
	SlotsChanged(slots []Name)
}

type slot struct {
	name     Name
	occupant Name
	occupied bool
}

// Store is the in-memory pool and slot model. It is owned by a single
// goroutine and does no locking.
type Store struct {
	pool     []Name
	slots    []*slot
	observer Observer

	held      int
	heldPool  bool
	heldSlots bool
	heldSlot  []Name
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{}
}

// SetObserver registers o for change notifications. A nil o disables them.
func (s *Store) SetObserver(o Observer) { s.observer = o }

// ---------------------------------------------------------------------------
// Reads
// ---------------------------------------------------------------------------

// Pool returns the unassigned entries in insertion order.
func (s *Store) Pool() []Name {
	return slices.Clone(s.pool)
}

// Slots returns every slot in creation order.
func (s *Store) Slots() []SlotView {
	out := make([]SlotView, 0, len(s.slots))
	for _, sl := range s.slots {
		out = append(out, SlotView{Name: sl.name, Occupant: sl.occupant, Occupied: sl.occupied})
	}
	return out
}

// SlotNames returns the slot names in creation order.
func (s *Store) SlotNames() []Name {
	out := make([]Name, 0, len(s.slots))
	for _, sl := range s.slots {
		out = append(out, sl.name)
	}
	return out
}

// Occupant returns the entry held by slot, if any.
func (s *Store) Occupant(slotName Name) (Name, bool) {
	sl := s.slot(slotName)
	if sl == nil || !sl.occupied {
		return "", false
	}
	return sl.occupant, true
}

// HasSlot reports whether a slot called name exists.
func (s *Store) HasSlot(name Name) bool { return s.slot(name) != nil }

// InPool reports whether entry is waiting in the pool.
func (s *Store) InPool(entry Name) bool { return slices.Contains(s.pool, entry) }

// Locate returns where entry currently is. Entries that are not on the
// board at all report RegionNone.
func (s *Store) Locate(entry Name) Region {
	if s.InPool(entry) {
		return PoolRegion()
	}
	for _, sl := range s.slots {
		if sl.occupied && sl.occupant == entry {
			return SlotRegion(sl.name)
		}
	}
	return NoRegion()
}

// Entries returns every entry on the board: occupants in slot order, then
// the pool.
func (s *Store) Entries() []Name {
	var out []Name
	for _, sl := range s.slots {
		if sl.occupied {
			out = append(out, sl.occupant)
		}
	}
	return append(out, s.pool...)
}

// Empty reports whether the store has no slots and no pool entries.
func (s *Store) Empty() bool { return len(s.pool) == 0 && len(s.slots) == 0 }

// Len counts the entries on the board, placed or not.
func (s *Store) Len() int {
	n := len(s.pool)
	for _, sl := range s.slots {
		if sl.occupied {
			n++
		}
	}
	return n
}

// ---------------------------------------------------------------------------
// Mutations
// ---------------------------------------------------------------------------

// AddEntryToPool puts entry in the pool unless it is already on the board.
func (s *Store) AddEntryToPool(entry Name) bool {
	if !s.Locate(entry).IsNone() {
		return false
	}
	s.pool = append(s.pool, entry)
	s.notifyPool()
	return true
}

// AddSlot creates an empty slot unless one with the same name exists.
func (s *Store) AddSlot(name Name) bool {
	if s.HasSlot(name) {
		return false
	}
	s.slots = append(s.slots, &slot{name: name})
	s.notifySlots()
	return true
}

// SetOccupant places entry in slot, replacing whatever was there. It does
// not vacate entry's previous place; callers do that first.
func (s *Store) SetOccupant(slotName, entry Name) error {
	sl := s.slot(slotName)
	if sl == nil {
		return fmt.Errorf("set occupant of %q: %w", slotName, ErrUnknownSlot)
	}
	sl.occupant, sl.occupied = entry, true
	s.notifySlot(sl)
	return nil
}

// RemoveFromPool drops entry from the pool without placing it anywhere.
func (s *Store) RemoveFromPool(entry Name) bool {
	i := slices.Index(s.pool, entry)
	if i < 0 {
		return false
	}
	s.pool = slices.Delete(s.pool, i, i+1)
	s.notifyPool()
	return true
}

// RemoveOccupant empties slot and returns the entry it held.
func (s *Store) RemoveOccupant(slotName Name) (Name, bool) {
	sl := s.slot(slotName)
	if sl == nil || !sl.occupied {
		return "", false
	}
	prev := sl.occupant
	sl.occupant, sl.occupied = "", false
	s.notifySlot(sl)
	return prev, true
}

// RemoveSlot deletes the slot and returns its occupant, which is left
// detached. ok is false when no such slot exists.
func (s *Store) RemoveSlot(name Name) (occupant Name, occupied, ok bool) {
	i := slices.IndexFunc(s.slots, func(sl *slot) bool { return sl.name == name })
	if i < 0 {
		return "", false, false
	}
	sl := s.slots[i]
	s.slots = slices.Delete(s.slots, i, i+1)
	s.notifySlots()
	return sl.occupant, sl.occupied, true
}

// Reset removes every slot and entry.
func (s *Store) Reset() {
	defer s.Hold()()
	s.pool = nil
	s.slots = nil
	s.notifyPool()
	s.notifySlots()
}

// ---------------------------------------------------------------------------
// Invariants
// ---------------------------------------------------------------------------

// Check verifies that slot names are unique and that every entry is in
// exactly one place.
func (s *Store) Check() error {
	seenSlot := make(map[Name]bool, len(s.slots))
	where := make(map[Name]string)
	for _, sl := range s.slots {
		if seenSlot[sl.name] {
			return fmt.Errorf("duplicate slot %q", sl.name)
		}
		seenSlot[sl.name] = true
		if !sl.occupied {
			continue
		}
		if prev, dup := where[sl.occupant]; dup {
			return fmt.Errorf("entry %q in %s and slot %q", sl.occupant, prev, sl.name)
		}
		where[sl.occupant] = fmt.Sprintf("slot %q", sl.name)
	}
	for _, e := range s.pool {
		if prev, dup := where[e]; dup {
			return fmt.Errorf("entry %q in %s and the pool", e, prev)
		}
		where[e] = "the pool"
	}
	return nil
}

func (s *Store) slot(name Name) *slot {
	for _, sl := range s.slots {
		if sl.name == name {
			return sl
		}
	}
	return nil
}

// Hold queues observer notifications until the returned func is called.
// Holds nest; the outermost release reports the slot list first, then each
// touched slot that still exists, then the pool.
func (s *Store) Hold() (release func()) {
	s.held++
	return func() {
		s.held--
		if s.held > 0 {
			return
		}
		pool, slots, touched := s.heldPool, s.heldSlots, s.heldSlot
		s.heldPool, s.heldSlots, s.heldSlot = false, false, nil
		if s.observer == nil {
			return
		}
		if slots {
			s.observer.SlotsChanged(s.SlotNames())
		}
		for _, name := range touched {
			if sl := s.slot(name); sl != nil {
				s.observer.SlotChanged(sl.name, sl.occupant, sl.occupied)
			}
		}
		if pool {
			s.observer.PoolChanged(s.Pool())
		}
	}
}

func (s *Store) notifyPool() {
	if s.held > 0 {
		s.heldPool = true
		return
	}
	if s.observer != nil {
		s.observer.PoolChanged(s.Pool())
	}
}

func (s *Store) notifySlot(sl *slot) {
	if s.held > 0 {
		if !slices.Contains(s.heldSlot, sl.name) {
			s.heldSlot = append(s.heldSlot, sl.name)
		}
		return
	}
	if s.observer != nil {
		s.observer.SlotChanged(sl.name, sl.occupant, sl.occupied)
	}
}

func (s *Store) notifySlots() {
	if s.held > 0 {
		s.heldSlots = true
		return
	}
	if s.observer != nil {
		s.observer.SlotsChanged(s.SlotNames())
	}
}
