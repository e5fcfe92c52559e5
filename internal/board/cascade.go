package board

import (
	"fmt"
	"strings"
)

// DeletePolicy decides what deleting a slot does to the entry with the same
// name. Deleting a pool entry always removes the slot of the same name.
type DeletePolicy uint8

const (
	// PolicyKeepEntry leaves the co-named entry where it is.
	PolicyKeepEntry DeletePolicy = iota
	// PolicyCascade removes the co-named entry too, from the pool or from
	// whichever slot holds it.
	PolicyCascade
)

// ParseDeletePolicy reads the config spelling of a policy.
func ParseDeletePolicy(s string) (DeletePolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "keep-entry", "keep":
		return PolicyKeepEntry, nil
	case "cascade":
		return PolicyCascade, nil
	default:
		return PolicyKeepEntry, fmt.Errorf("unknown slot delete policy %q", s)
	}
}

func (p DeletePolicy) String() string {
	if p == PolicyCascade {
		return "cascade"
	}
	return "keep-entry"
}

// Deletion summarises what a delete action removed or moved.
type Deletion struct {
	RemovedEntries []Name
	RemovedSlots   []Name
	Returned       []Name // occupants sent back to the pool
}

// DeletePoolEntry removes entry from the pool together with the slot of the
// same name. That slot's occupant goes back to the pool first.
func DeletePoolEntry(s *Store, entry Name) (Deletion, error) {
	defer s.Hold()()
	var d Deletion
	if !s.RemoveFromPool(entry) {
		return d, fmt.Errorf("delete %q from pool: %w", entry, ErrUnknownEntry)
	}
	d.RemovedEntries = append(d.RemovedEntries, entry)
	if s.HasSlot(entry) {
		removeSlot(s, entry, &d)
	}
	return d, nil
}

// DeleteSlot removes slot, returning its occupant to the pool. Under
// PolicyCascade the entry named like the slot is removed as well.
func DeleteSlot(s *Store, slotName Name, policy DeletePolicy) (Deletion, error) {
	defer s.Hold()()
	var d Deletion
	if !s.HasSlot(slotName) {
		return d, fmt.Errorf("delete slot %q: %w", slotName, ErrUnknownSlot)
	}
	removeSlot(s, slotName, &d)
	if policy != PolicyCascade {
		return d, nil
	}
	switch where := s.Locate(slotName); {
	case where.IsPool():
		s.RemoveFromPool(slotName)
		d.RemovedEntries = append(d.RemovedEntries, slotName)
	case where.IsSlot():
		s.RemoveOccupant(where.Slot)
		d.RemovedEntries = append(d.RemovedEntries, slotName)
	}
	return d, nil
}

func removeSlot(s *Store, slotName Name, d *Deletion) {
	occupant, occupied, _ := s.RemoveSlot(slotName)
	d.RemovedSlots = append(d.RemovedSlots, slotName)
	if occupied && s.AddEntryToPool(occupant) {
		d.Returned = append(d.Returned, occupant)
	}
}
