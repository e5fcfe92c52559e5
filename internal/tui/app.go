package tui

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/jask/pairboard/internal/board"
	"github.com/jask/pairboard/internal/config"
)

const flashFor = 700 * time.Millisecond

// App is the interactive board. It draws the pool and the slots, turns
// mouse presses, motion and releases into drags, and is the board's
// Renderer and Observer.
type App struct {
	ctx   context.Context
	cfg   config.UIConfig
	board *board.Board
	log   *zap.Logger

	keys  keyMap
	help  help.Model
	input textinput.Model

	mode      mode
	deleting  bool
	collapsed bool
	width     int
	height    int

	layout Layout
	hover  board.Region

	flash    map[board.Name]int
	flashGen int
	flashDue bool

	status     string
	statusKind statusKind
	similar    []board.Name
}

type mode string

const (
	modeBoard   mode = "board"
	modeAdd     mode = "add"
	modeConfirm mode = "confirmReset"
)

type statusKind uint8

const (
	statusInfo statusKind = iota
	statusWarn
	statusError
)

type flashDoneMsg int

// New builds the App and attaches it to b as renderer and observer.
func New(ctx context.Context, cfg config.UIConfig, b *board.Board, log *zap.Logger) *App {
	if log == nil {
		log = zap.NewNop()
	}
	in := textinput.New()
	in.Prompt = "name: "
	in.Placeholder = "who is taking part?"
	in.CharLimit = 64

	a := &App{
		ctx:       ctx,
		cfg:       cfg,
		board:     b,
		log:       log,
		keys:      newKeyMap(),
		help:      help.New(),
		input:     in,
		mode:      modeBoard,
		collapsed: cfg.PoolCollapsed,
		flash:     make(map[board.Name]int),
	}
	b.SetRenderer(a)
	b.SetObserver(a)
	a.relayout()
	return a
}

func (a *App) Init() tea.Cmd {
	return tea.SetWindowTitle("pairboard")
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = m.Width, m.Height
		a.help.Width = m.Width
	case tea.KeyMsg:
		cmd = a.handleKey(m)
	case tea.MouseMsg:
		a.handleMouse(m)
	case flashDoneMsg:
		for name, gen := range a.flash {
			if gen <= int(m) {
				delete(a.flash, name)
			}
		}
	}
	a.relayout()
	if a.flashDue {
		a.flashDue = false
		gen := a.flashGen
		cmd = tea.Batch(cmd, tea.Tick(flashFor, func(time.Time) tea.Msg { return flashDoneMsg(gen) }))
	}
	return a, cmd
}

func (a *App) relayout() {
	a.layout = buildLayout(a.board.Pool(), a.board.Slots(), a.cfg.PoolWidth, a.width, a.collapsed, a.deleting)
}

// ---------------------------------------------------------------------------
// Keyboard
// ---------------------------------------------------------------------------

func (a *App) handleKey(m tea.KeyMsg) tea.Cmd {
	switch a.mode {
	case modeAdd:
		return a.handleAddKey(m)
	case modeConfirm:
		a.handleConfirmKey(m)
		return nil
	}
	switch {
	case key.Matches(m, a.keys.Quit):
		return tea.Quit
	case key.Matches(m, a.keys.Add):
		a.cancelDrag()
		a.mode = modeAdd
		a.input.SetValue("")
		a.similar = nil
		return a.input.Focus()
	case key.Matches(m, a.keys.Delete):
		a.deleting = !a.deleting
		if a.deleting {
			a.setStatus(statusWarn, "delete mode: click ✕ to remove")
		} else {
			a.setStatus(statusInfo, "delete mode off")
		}
	case key.Matches(m, a.keys.Pool):
		a.collapsed = !a.collapsed
	case key.Matches(m, a.keys.Reset):
		if a.cfg.ConfirmReset {
			a.cancelDrag()
			a.mode = modeConfirm
		} else {
			a.reset()
		}
	case key.Matches(m, a.keys.Cancel):
		if a.deleting {
			a.deleting = false
			a.setStatus(statusInfo, "delete mode off")
		}
	}
	return nil
}

func (a *App) handleAddKey(m tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(m, a.keys.Cancel):
		a.mode = modeBoard
		a.input.Blur()
		a.similar = nil
		return nil
	case key.Matches(m, a.keys.Submit):
		a.addPerson(a.input.Value())
		return nil
	}
	var cmd tea.Cmd
	a.input, cmd = a.input.Update(m)
	a.similar = nil
	if name, err := board.ParseName(a.input.Value()); err == nil {
		a.similar = a.board.Similar(name)
	}
	return cmd
}

func (a *App) handleConfirmKey(m tea.KeyMsg) {
	switch {
	case key.Matches(m, a.keys.Confirm):
		a.mode = modeBoard
		a.reset()
	case key.Matches(m, a.keys.Decline):
		a.mode = modeBoard
	}
}

func (a *App) addPerson(raw string) {
	name, err := board.ParseName(raw)
	if err != nil {
		a.setError(err)
		return
	}
	similar := a.board.Similar(name)
	_, added, err := a.board.AddPerson(a.ctx, raw)
	if err != nil {
		a.setError(err)
		return
	}
	if !added {
		a.setStatus(statusWarn, fmt.Sprintf("%s is already on the board", name))
		return
	}
	a.input.SetValue("")
	a.similar = nil
	if len(similar) > 0 {
		a.setStatus(statusWarn, fmt.Sprintf("added %s (looks like %s)", name, joinNames(similar)))
		return
	}
	a.setStatus(statusInfo, "added "+name.String())
}

func (a *App) reset() {
	a.board.Reset(a.ctx)
	a.deleting = false
	a.hover = board.NoRegion()
	a.setStatus(statusInfo, "board reset")
}

// ---------------------------------------------------------------------------
// Mouse
// ---------------------------------------------------------------------------

func (a *App) handleMouse(m tea.MouseMsg) {
	if a.mode != modeBoard {
		if m.Action == tea.MouseActionRelease {
			a.cancelDrag()
		}
		return
	}
	in := board.MouseInput(float64(m.X), float64(m.Y))
	p, _ := in.Point(board.PhaseMove)

	switch m.Action {
	case tea.MouseActionPress:
		if m.Button != tea.MouseButtonLeft {
			return
		}
		if a.deleting {
			if t, ok := a.layout.DeleteAt(p); ok {
				a.delete(t)
			}
			return
		}
		subject, ok := a.layout.ChipAt(p)
		if !ok {
			return
		}
		if err := a.board.BeginDragInput(0, in, subject); err != nil {
			a.setError(err)
		}
	case tea.MouseActionMotion:
		a.board.MoveDragInput(in)
	case tea.MouseActionRelease:
		sess := a.board.Dragging()
		if sess == nil {
			return
		}
		subject := sess.Subject
		dest := a.layout.RegionAt(p)
		var prev board.Name
		if dest.IsSlot() {
			prev, _ = a.board.Store().Occupant(dest.Slot)
		}
		out, err := a.board.EndDragInput(a.ctx, in)
		if err != nil {
			a.setError(err)
			return
		}
		if out.Changed() {
			a.setStatus(statusInfo, describeDrop(out, subject.Entry, dest, prev))
		}
	}
}

// cancelDrag drops any drag in flight on the floor.
func (a *App) cancelDrag() {
	if a.board.CancelDrag() {
		a.hover = board.NoRegion()
	}
}

func describeDrop(out board.Outcome, entry board.Name, dest board.Region, prev board.Name) string {
	switch out {
	case board.OutcomeAssign:
		return fmt.Sprintf("%s → %s", entry, dest.Slot)
	case board.OutcomeDisplace:
		return fmt.Sprintf("%s → %s, %s back to the pool", entry, dest.Slot, prev)
	case board.OutcomeReturn:
		return fmt.Sprintf("%s back to the pool", entry)
	case board.OutcomeMove:
		return fmt.Sprintf("%s moved to %s", entry, dest.Slot)
	case board.OutcomeSwap:
		return fmt.Sprintf("%s and %s swapped", entry, prev)
	}
	return ""
}

func (a *App) delete(t deleteTarget) {
	var (
		d   board.Deletion
		err error
	)
	if t.slot {
		d, err = a.board.DeleteSlot(a.ctx, t.name)
	} else {
		d, err = a.board.DeletePoolEntry(a.ctx, t.name)
	}
	if err != nil {
		a.setError(err)
		return
	}
	msg := "removed " + t.name.String()
	if len(d.Returned) > 0 {
		msg += ", " + joinNames(d.Returned) + " back to the pool"
	}
	a.setStatus(statusInfo, msg)
}

// ---------------------------------------------------------------------------
// board.Renderer and board.Observer
// ---------------------------------------------------------------------------

func (a *App) RegionAt(p board.Point) board.Region { return a.layout.RegionAt(p) }

func (a *App) Highlight(r board.Region) { a.hover = r }

func (a *App) PoolChanged([]board.Name) {}

func (a *App) SlotChanged(slot board.Name, _ board.Name, _ bool) {
	a.flashGen++
	a.flash[slot] = a.flashGen
	a.flashDue = true
}

func (a *App) SlotsChanged(slots []board.Name) {
	keep := make(map[board.Name]bool, len(slots))
	for _, s := range slots {
		keep[s] = true
	}
	for name := range a.flash {
		if !keep[name] {
			delete(a.flash, name)
		}
	}
}

// ---------------------------------------------------------------------------
// Status
// ---------------------------------------------------------------------------

func (a *App) setStatus(kind statusKind, msg string) {
	a.status, a.statusKind = msg, kind
}

func (a *App) setError(err error) {
	if !board.IsRecoverable(err) {
		a.log.Error("board", zap.Error(err))
	}
	switch {
	case errors.Is(err, board.ErrEmptyName):
		a.setStatus(statusError, "a name cannot be blank")
	case errors.Is(err, board.ErrAlreadyDragging):
		a.setStatus(statusError, "already dragging")
	default:
		a.setStatus(statusError, err.Error())
	}
}
