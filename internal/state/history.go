package state

// DefaultSnapshotInterval is how many groups pass between canvas snapshots.
const DefaultSnapshotInterval = 64

// Group is the atomic set of effects produced by one intent. Undo and redo
// always operate on whole groups.
type Group struct {
	Intent  string  `json:"intent"`
	Effects Effects `json:"effects"`
}

// History is the effect log. Groups before the pointer are applied, groups
// at or after it are redoable. Committing a new group discards the redoable
// tail.
type History struct {
	groups    []Group
	pointer   int
	interval  int
	snapshots map[int]*Canvas // pixel state after the first n groups
}

func NewHistory(interval int) *History {
	if interval <= 0 {
		interval = DefaultSnapshotInterval
	}
	return &History{interval: interval, snapshots: make(map[int]*Canvas)}
}

// Len is the number of groups in the log, including undone ones.
func (h *History) Len() int { return len(h.groups) }

// Pointer is the number of applied groups.
func (h *History) Pointer() int { return h.pointer }

func (h *History) CanUndo() bool { return h.pointer > 0 }

func (h *History) CanRedo() bool { return h.pointer < len(h.groups) }

// Groups returns the applied groups in order.
func (h *History) Groups() []Group {
	return append([]Group(nil), h.groups[:h.pointer]...)
}

// Commit truncates the redoable tail, applies g to s and appends it.
func (h *History) Commit(s *State, g Group) {
	h.truncate()
	g.Effects.apply(s)
	h.groups = append(h.groups, g)
	h.pointer++
	if h.pointer%h.interval == 0 {
		h.snapshots[h.pointer] = s.Canvas.Clone()
	}
}

func (h *History) truncate() {
	if h.pointer == len(h.groups) {
		return
	}
	h.groups = h.groups[:h.pointer]
	for n := range h.snapshots {
		if n > h.pointer {
			delete(h.snapshots, n)
		}
	}
}

// Undo reverts the most recent applied group. It is a no-op at the start
// of history.
func (h *History) Undo(s *State) (Group, bool) {
	if !h.CanUndo() {
		return Group{}, false
	}
	h.pointer--
	g := h.groups[h.pointer]
	g.Effects.Inverse().apply(s)
	return g, true
}

// Redo re-applies the next undone group. It is a no-op at the end of
// history.
func (h *History) Redo(s *State) (Group, bool) {
	if !h.CanRedo() {
		return Group{}, false
	}
	g := h.groups[h.pointer]
	g.Effects.apply(s)
	h.pointer++
	return g, true
}

// Replay rebuilds the pixel map after the first pos groups by replaying
// from an empty canvas. It is the reference for Reconstruct.
func (h *History) Replay(pos int) *Canvas {
	return h.replayFrom(NewCanvas(), 0, pos)
}

// Reconstruct rebuilds the pixel map after the first pos groups, starting
// from the nearest snapshot at or before pos.
func (h *History) Reconstruct(pos int) *Canvas {
	if pos > h.pointer {
		pos = h.pointer
	}
	base := 0
	for n := range h.snapshots {
		if n <= pos && n > base {
			base = n
		}
	}
	if base == 0 {
		return h.Replay(pos)
	}
	return h.replayFrom(h.snapshots[base].Clone(), base, pos)
}

func (h *History) replayFrom(c *Canvas, from, to int) *Canvas {
	if to > len(h.groups) {
		to = len(h.groups)
	}
	scratch := &State{Canvas: c}
	for _, g := range h.groups[from:to] {
		for _, e := range g.Effects {
			if px, ok := e.(PixelEffect); ok {
				px.Apply(scratch)
			}
		}
	}
	return c
}
