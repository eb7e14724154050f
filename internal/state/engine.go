package state

import "fmt"

// Op says how an intent touched the effect log.
type Op string

const (
	OpNone   Op = ""
	OpCommit Op = "commit"
	OpUndo   Op = "undo"
	OpRedo   Op = "redo"
)

// Outcome describes what applying one intent did.
type Outcome struct {
	Intent   string
	Op       Op
	Group    *Group
	External *ExternalCommand
	Quit     bool
}

// Engine applies intents to a State through the effect log. It is not safe
// for concurrent use; callers serialize intents onto one goroutine.
type Engine struct {
	state     *State
	history   *History
	marker    *Marker
	clipboard []PixelColor
}

// Option configures an Engine.
type Option func(*Engine)

// WithSnapshotInterval sets how many groups pass between canvas snapshots.
func WithSnapshotInterval(n int) Option {
	return func(e *Engine) { e.history = NewHistory(n) }
}

func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		state:   NewState(),
		history: NewHistory(DefaultSnapshotInterval),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// State exposes the live state for read-only use.
func (e *Engine) State() *State { return e.state }

func (e *Engine) History() *History { return e.history }

// Marker returns the active marker, or nil.
func (e *Engine) Marker() *Marker { return e.marker }

func (e *Engine) Clipboard() []PixelColor { return e.clipboard }

// Apply translates in and commits the result. On error nothing changes.
func (e *Engine) Apply(in Intent) (Outcome, error) {
	p, err := translate(e, in)
	if err != nil {
		return Outcome{}, fmt.Errorf("%s: %w", in.Name(), err)
	}

	out := Outcome{Intent: in.Name(), External: p.external, Quit: p.quit}
	switch p.history {
	case historyUndo:
		out = e.withGroup(out, OpUndo, e.history.Undo)
	case historyRedo:
		out = e.withGroup(out, OpRedo, e.history.Redo)
	}
	if len(p.effects) > 0 {
		g := Group{Intent: in.Name(), Effects: p.effects}
		e.history.Commit(e.state, g)
		out.Op, out.Group = OpCommit, &g
	}
	if p.setMarker {
		e.marker = p.marker
	}
	if p.clipboard != nil {
		e.clipboard = p.clipboard
	}
	return out, nil
}

func (e *Engine) withGroup(out Outcome, op Op, step func(*State) (Group, bool)) Outcome {
	if g, ok := step(e.state); ok {
		out.Op, out.Group = op, &g
	}
	return out
}

// Commit appends a previously recorded group verbatim. It is used when
// replaying a session record.
func (e *Engine) Commit(g Group) {
	e.history.Commit(e.state, g)
}

// Undo reverts the latest group; false at the start of history.
func (e *Engine) Undo() bool {
	_, ok := e.history.Undo(e.state)
	return ok
}

// Redo re-applies the next undone group; false at the end of history.
func (e *Engine) Redo() bool {
	_, ok := e.history.Redo(e.state)
	return ok
}

// Rewind moves the log pointer back to the position named by tag, undoing
// every later group. Unlike Checkout it adds nothing to the log, so the
// rewound groups are lost as soon as a new group is committed. The tag
// itself is undone too when it was created after its own target.
func (e *Engine) Rewind(tag string) ([]Outcome, error) {
	pos, err := e.state.ResolveTag(tag)
	if err != nil {
		return nil, fmt.Errorf("rewind: %w", err)
	}
	var outs []Outcome
	for e.history.Pointer() > pos {
		out := e.withGroup(Outcome{Intent: "undo"}, OpUndo, e.history.Undo)
		outs = append(outs, out)
	}
	return outs, nil
}

// Advance moves playback forward one tick. Playback ticks are not logged.
func (e *Engine) Advance() bool {
	return e.state.Timeline.Advance()
}
