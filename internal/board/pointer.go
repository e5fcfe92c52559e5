package board

import (
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Point is a pointer position in device-independent units (terminal cells
// for the TUI).
type Point struct {
	X, Y float64
}

// Device is the kind of hardware that produced a PointerInput.
type Device uint8

const (
	DeviceMouse Device = iota
	DeviceTouch
)

func (d Device) String() string {
	if d == DeviceTouch {
		return "touch"
	}
	return "mouse"
}

// Phase is the step of a drag an input belongs to.
type Phase uint8

const (
	PhaseBegin Phase = iota
	PhaseMove
	PhaseEnd
)

// PointerInput is one raw pointer event. Mouse events carry X and Y; touch
// events carry the active touches and, on release, the touches that lifted.
type PointerInput struct {
	Device  Device
	X, Y    float64
	Touches []Point
	Changed []Point
}

// MouseInput wraps a mouse position.
func MouseInput(x, y float64) PointerInput {
	return PointerInput{Device: DeviceMouse, X: x, Y: y}
}

// TouchInput wraps the active and lifted touch points of a touch event.
func TouchInput(touches, changed []Point) PointerInput {
	return PointerInput{Device: DeviceTouch, Touches: touches, Changed: changed}
}

// Point extracts the coordinates relevant to phase. It is the only place
// the device matters: a lifted finger is no longer in Touches, so the end
// of a touch drag reads Changed.
func (in PointerInput) Point(phase Phase) (Point, bool) {
	if in.Device == DeviceMouse {
		return Point{X: in.X, Y: in.Y}, true
	}
	if phase == PhaseEnd && len(in.Changed) > 0 {
		return in.Changed[0], true
	}
	if len(in.Touches) > 0 {
		return in.Touches[0], true
	}
	return Point{}, false
}

// Renderer is what the pointer tracker needs from whatever draws the board.
type Renderer interface {
	// RegionAt hit-tests a point. When regions nest, the innermost one wins.
	RegionAt(p Point) Region
	// Highlight marks the region under an active drag. Purely cosmetic.
	Highlight(r Region)
}

// Subject is the thing being dragged: an entry and the place it was picked
// up from.
type Subject struct {
	Entry  Name
	Origin Region
}

// Session is a drag in flight, or a finished one once Tracker.End returns
// it with Destination filled in.
type Session struct {
	ID          string
	PointerID   int
	Subject     Subject
	Start       Point
	Last        Point
	Samples     int
	Destination Region
}

// Tracker turns begin/move/end pointer events into at most one drag session
// at a time.
type Tracker struct {
	renderer Renderer
	log      *zap.Logger
	active   *Session
	hover    Region
}

// NewTracker returns a tracker that hit-tests through r. r may be nil, in
// which case every drop lands nowhere.
func NewTracker(r Renderer, log *zap.Logger) *Tracker {
	if log == nil {
		log = zap.NewNop()
	}
	return &Tracker{renderer: r, log: log}
}

// SetRenderer swaps the hit-testing collaborator.
func (t *Tracker) SetRenderer(r Renderer) { t.renderer = r }

// Active returns the session in flight, or nil.
func (t *Tracker) Active() *Session { return t.active }

// Begin starts a drag of subject at p. Only one drag may be in flight.
func (t *Tracker) Begin(pointerID int, p Point, subject Subject) (*Session, error) {
	if t.active != nil {
		return nil, fmt.Errorf("begin drag of %q: %w (dragging %q)", subject.Entry, ErrAlreadyDragging, t.active.Subject.Entry)
	}
	t.active = &Session{
		ID:        uuid.NewString(),
		PointerID: pointerID,
		Subject:   subject,
		Start:     p,
		Last:      p,
		Samples:   1,
	}
	t.log.Debug("drag begin",
		zap.String("session", t.active.ID),
		zap.String("entry", string(subject.Entry)),
		zap.Stringer("origin", subject.Origin))
	t.highlight(t.regionAt(p))
	return t.active, nil
}

// Move records a pointer sample. Without an active session it does nothing.
func (t *Tracker) Move(p Point) {
	if t.active == nil {
		return
	}
	t.active.Last = p
	t.active.Samples++
	t.highlight(t.regionAt(p))
}

// End finishes the active drag at p and returns it with its destination
// resolved. Without an active session it returns false.
func (t *Tracker) End(p Point) (*Session, bool) {
	if t.active == nil {
		return nil, false
	}
	s := t.active
	t.active = nil
	s.Last = p
	s.Samples++
	s.Destination = t.regionAt(p)
	t.highlight(NoRegion())
	t.log.Debug("drag end",
		zap.String("session", s.ID),
		zap.Stringer("destination", s.Destination),
		zap.Int("samples", s.Samples))
	return s, true
}

// BeginInput, MoveInput and EndInput accept raw device events.
func (t *Tracker) BeginInput(pointerID int, in PointerInput, subject Subject) (*Session, error) {
	p, ok := in.Point(PhaseBegin)
	if !ok {
		return nil, fmt.Errorf("begin drag of %q: %s event without coordinates", subject.Entry, in.Device)
	}
	return t.Begin(pointerID, p, subject)
}

func (t *Tracker) MoveInput(in PointerInput) {
	if p, ok := in.Point(PhaseMove); ok {
		t.Move(p)
	}
}

func (t *Tracker) EndInput(in PointerInput) (*Session, bool) {
	p, ok := in.Point(PhaseEnd)
	if !ok && t.active != nil {
		p = t.active.Last
	}
	return t.End(p)
}

func (t *Tracker) regionAt(p Point) Region {
	if t.renderer == nil {
		return NoRegion()
	}
	return t.renderer.RegionAt(p)
}

func (t *Tracker) highlight(r Region) {
	if t.renderer == nil || r == t.hover {
		return
	}
	t.hover = r
	t.renderer.Highlight(r)
}
