package board

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// Options configures a Board.
type Options struct {
	KV       KV
	Key      string
	Policy   DeletePolicy
	Renderer Renderer
	Logger   *zap.Logger
}

// Board ties the store, the pointer tracker and persistence together. It is
// the only thing the UI and the CLI talk to. Every successful mutation is
// saved exactly once.
type Board struct {
	store    *Store
	tracker  *Tracker
	persist  *Persister
	policy   DeletePolicy
	observer Observer
	log      *zap.Logger
}

// New returns a Board with an empty store. Call Load to read the saved one.
func New(opts Options) *Board {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Board{
		store:   NewStore(),
		tracker: NewTracker(opts.Renderer, log),
		persist: NewPersister(opts.KV, opts.Key, log),
		policy:  opts.Policy,
		log:     log,
	}
}

// SetRenderer installs the hit-testing collaborator used by drags.
func (b *Board) SetRenderer(r Renderer) { b.tracker.SetRenderer(r) }

// SetObserver subscribes o to store changes, including those caused by Load.
func (b *Board) SetObserver(o Observer) {
	b.observer = o
	b.store.SetObserver(o)
}

// Key returns the KV key the board is saved under.
func (b *Board) Key() string { return b.persist.Key() }

// Policy returns the slot delete policy in force.
func (b *Board) Policy() DeletePolicy { return b.policy }

// Pool, Slots and Store expose the current state for rendering.
func (b *Board) Pool() []Name       { return b.store.Pool() }
func (b *Board) Slots() []SlotView  { return b.store.Slots() }
func (b *Board) Store() *Store      { return b.store }
func (b *Board) Dragging() *Session { return b.tracker.Active() }

// Load replaces the store with the persisted one. Any active drag is
// abandoned because its origin may no longer exist.
func (b *Board) Load(ctx context.Context) {
	b.CancelDrag()
	b.store = b.persist.Load(ctx)
	b.store.SetObserver(b.observer)
	if b.observer != nil {
		b.observer.SlotsChanged(b.store.SlotNames())
		b.observer.PoolChanged(b.store.Pool())
	}
	b.log.Info("board loaded",
		zap.Int("slots", len(b.store.SlotNames())),
		zap.Int("pool", len(b.store.Pool())))
}

// Save writes the store now.
func (b *Board) Save(ctx context.Context) {
	b.persist.Save(ctx, b.store)
}

// ---------------------------------------------------------------------------
// Dragging
// ---------------------------------------------------------------------------

// BeginDrag starts dragging subject from p.
func (b *Board) BeginDrag(pointerID int, p Point, subject Subject) error {
	if err := b.checkSubject(subject); err != nil {
		return err
	}
	_, err := b.tracker.Begin(pointerID, p, subject)
	return err
}

// BeginDragInput is BeginDrag for a raw mouse or touch event.
func (b *Board) BeginDragInput(pointerID int, in PointerInput, subject Subject) error {
	if err := b.checkSubject(subject); err != nil {
		return err
	}
	_, err := b.tracker.BeginInput(pointerID, in, subject)
	return err
}

func (b *Board) checkSubject(subject Subject) error {
	if a := b.tracker.Active(); a != nil {
		return fmt.Errorf("begin drag of %q: %w (dragging %q)", subject.Entry, ErrAlreadyDragging, a.Subject.Entry)
	}
	if subject.Origin.IsNone() || b.store.Locate(subject.Entry) != subject.Origin {
		return fmt.Errorf("drag %q from %s: %w", subject.Entry, subject.Origin, ErrUnknownEntry)
	}
	return nil
}

// CancelDrag ends the active drag without dropping it anywhere. It reports
// whether a drag was in flight.
func (b *Board) CancelDrag() bool {
	s := b.tracker.Active()
	if s == nil {
		return false
	}
	b.tracker.End(s.Last)
	b.log.Debug("drag cancelled", zap.String("session", s.ID), zap.String("entry", string(s.Subject.Entry)))
	return true
}

// MoveDrag feeds a pointer sample to the active drag.
func (b *Board) MoveDrag(p Point) { b.tracker.Move(p) }

// MoveDragInput is MoveDrag for a raw event.
func (b *Board) MoveDragInput(in PointerInput) { b.tracker.MoveInput(in) }

// EndDrag drops the active drag at p and applies it.
func (b *Board) EndDrag(ctx context.Context, p Point) (Outcome, error) {
	sess, ok := b.tracker.End(p)
	if !ok {
		return OutcomeNoop, nil
	}
	return b.apply(ctx, sess)
}

// EndDragInput is EndDrag for a raw event.
func (b *Board) EndDragInput(ctx context.Context, in PointerInput) (Outcome, error) {
	sess, ok := b.tracker.EndInput(in)
	if !ok {
		return OutcomeNoop, nil
	}
	return b.apply(ctx, sess)
}

// Drop moves entry to dest without a pointer, as if it had been dragged
// there from wherever it is now.
func (b *Board) Drop(ctx context.Context, entry Name, dest Region) (Outcome, error) {
	return b.apply(ctx, &Session{
		Subject:     Subject{Entry: entry, Origin: b.store.Locate(entry)},
		Destination: dest,
	})
}

func (b *Board) apply(ctx context.Context, sess *Session) (Outcome, error) {
	out, err := Resolve(b.store, sess)
	if err != nil {
		b.log.Warn("drop ignored", zap.String("session", sess.ID), zap.Error(err))
		return OutcomeNoop, err
	}
	b.log.Info("drop",
		zap.String("session", sess.ID),
		zap.String("entry", string(sess.Subject.Entry)),
		zap.Stringer("origin", sess.Subject.Origin),
		zap.Stringer("destination", sess.Destination),
		zap.Stringer("outcome", out))
	if out.Changed() {
		b.Save(ctx)
	}
	return out, nil
}

// ---------------------------------------------------------------------------
// Adding
// ---------------------------------------------------------------------------

// AddEntryToPool adds raw as a pool entry. The bool is false when the entry
// was already on the board.
func (b *Board) AddEntryToPool(ctx context.Context, raw string) (Name, bool, error) {
	name, err := ParseName(raw)
	if err != nil {
		return "", false, err
	}
	added := b.store.AddEntryToPool(name)
	if added {
		b.Save(ctx)
	}
	return name, added, nil
}

// AddSlot adds an empty slot called raw. The bool is false when it existed.
func (b *Board) AddSlot(ctx context.Context, raw string) (Name, bool, error) {
	name, err := ParseName(raw)
	if err != nil {
		return "", false, err
	}
	added := b.store.AddSlot(name)
	if added {
		b.Save(ctx)
	}
	return name, added, nil
}

// AddPerson adds both a slot and a pool entry for raw, skipping whichever
// already exists.
func (b *Board) AddPerson(ctx context.Context, raw string) (Name, bool, error) {
	name, err := ParseName(raw)
	if err != nil {
		return "", false, err
	}
	release := b.store.Hold()
	slotAdded := b.store.AddSlot(name)
	entryAdded := b.store.AddEntryToPool(name)
	release()
	added := slotAdded || entryAdded
	if added {
		b.log.Info("person added", zap.String("name", string(name)),
			zap.Bool("slot", slotAdded), zap.Bool("entry", entryAdded))
		b.Save(ctx)
	}
	return name, added, nil
}

// Similar lists names already on the board that look like name.
func (b *Board) Similar(name Name) []Name {
	known := append(b.store.SlotNames(), b.store.Entries()...)
	seen := make(map[Name]bool, len(known))
	var uniq []Name
	for _, n := range known {
		if !seen[n] {
			seen[n] = true
			uniq = append(uniq, n)
		}
	}
	return SimilarNames(name, uniq)
}

// ---------------------------------------------------------------------------
// Deleting
// ---------------------------------------------------------------------------

// DeletePoolEntry removes entry from the pool along with its slot.
func (b *Board) DeletePoolEntry(ctx context.Context, entry Name) (Deletion, error) {
	d, err := DeletePoolEntry(b.store, entry)
	return b.afterDelete(ctx, d, err)
}

// DeleteSlot removes slot under the board's delete policy.
func (b *Board) DeleteSlot(ctx context.Context, slotName Name) (Deletion, error) {
	d, err := DeleteSlot(b.store, slotName, b.policy)
	return b.afterDelete(ctx, d, err)
}

func (b *Board) afterDelete(ctx context.Context, d Deletion, err error) (Deletion, error) {
	if err != nil {
		b.log.Warn("delete ignored", zap.Error(err))
		return d, err
	}
	b.abandonStaleDrag()
	b.log.Info("deleted",
		zap.Stringers("entries", d.RemovedEntries),
		zap.Stringers("slots", d.RemovedSlots),
		zap.Stringers("returned", d.Returned),
		zap.Stringer("policy", b.policy))
	b.Save(ctx)
	return d, nil
}

// Reset empties the board and forgets the persisted copy.
func (b *Board) Reset(ctx context.Context) {
	b.CancelDrag()
	b.store.Reset()
	b.persist.Clear(ctx)
	b.log.Info("board reset")
}

// abandonStaleDrag ends a drag whose subject was just deleted or moved
// away from its origin. The dropped session resolves to nothing.
func (b *Board) abandonStaleDrag() {
	s := b.tracker.Active()
	if s == nil || b.store.Locate(s.Subject.Entry) == s.Subject.Origin {
		return
	}
	b.tracker.End(s.Last)
}

// IsRecoverable reports whether err is one of the board's own non-fatal
// errors.
func IsRecoverable(err error) bool {
	return errors.Is(err, ErrAlreadyDragging) ||
		errors.Is(err, ErrUnknownEntry) ||
		errors.Is(err, ErrUnknownSlot) ||
		errors.Is(err, ErrMalformedState) ||
		errors.Is(err, ErrEmptyName)
}
