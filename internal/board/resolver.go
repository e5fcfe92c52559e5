package board

import "fmt"

// Outcome is the effect a drop had on the store.
type Outcome uint8

const (
	OutcomeNoop     Outcome = iota
	OutcomeAssign           // pool -> empty slot
	OutcomeDisplace         // pool -> occupied slot, old occupant back to the pool
	OutcomeReturn           // slot -> pool
	OutcomeMove             // slot -> empty slot
	OutcomeSwap             // slot -> occupied slot, occupants trade places
)

var outcomeNames = [...]string{"noop", "assign", "displace", "return", "move", "swap"}

func (o Outcome) String() string {
	if int(o) < len(outcomeNames) {
		return outcomeNames[o]
	}
	return fmt.Sprintf("outcome(%d)", o)
}

// Changed reports whether the drop mutated the store.
func (o Outcome) Changed() bool { return o != OutcomeNoop }

// Resolve applies a finished drag session to the store.
//
// A session whose subject is no longer where it was picked up, or whose
// destination slot has gone away, changes nothing and returns an error
// wrapping ErrUnknownEntry or ErrUnknownSlot.
func Resolve(s *Store, sess *Session) (Outcome, error) {
	if sess == nil {
		return OutcomeNoop, nil
	}
	defer s.Hold()()
	return resolveDrop(s, sess.Subject, sess.Destination)
}

func resolveDrop(s *Store, subj Subject, dest Region) (Outcome, error) {
	if dest.IsNone() {
		return OutcomeNoop, nil
	}
	if s.Locate(subj.Entry) != subj.Origin || subj.Origin.IsNone() {
		return OutcomeNoop, fmt.Errorf("drop %q from %s: %w", subj.Entry, subj.Origin, ErrUnknownEntry)
	}
	if dest.IsSlot() && !s.HasSlot(dest.Slot) {
		return OutcomeNoop, fmt.Errorf("drop %q on %s: %w", subj.Entry, dest, ErrUnknownSlot)
	}

	switch {
	case subj.Origin.IsPool() && dest.IsPool():
		return OutcomeNoop, nil

	case subj.Origin.IsPool():
		prev, occupied := s.RemoveOccupant(dest.Slot)
		s.RemoveFromPool(subj.Entry)
		if occupied {
			s.AddEntryToPool(prev)
		}
		if err := s.SetOccupant(dest.Slot, subj.Entry); err != nil {
			return OutcomeNoop, err
		}
		if occupied {
			return OutcomeDisplace, nil
		}
		return OutcomeAssign, nil

	case dest.IsPool():
		s.RemoveOccupant(subj.Origin.Slot)
		s.AddEntryToPool(subj.Entry)
		return OutcomeReturn, nil

	case dest.Slot == subj.Origin.Slot:
		return OutcomeNoop, nil

	default:
		prev, occupied := s.Occupant(dest.Slot)
		s.RemoveOccupant(subj.Origin.Slot)
		if occupied {
			if err := s.SetOccupant(subj.Origin.Slot, prev); err != nil {
				return OutcomeNoop, err
			}
		}
		if err := s.SetOccupant(dest.Slot, subj.Entry); err != nil {
			return OutcomeNoop, err
		}
		if occupied {
			return OutcomeSwap, nil
		}
		return OutcomeMove, nil
	}
}
