package state

import (
	"fmt"
	"sort"
)

// Scale bounds for the presentation zoom.
const (
	MinScale uint8 = 1
	MaxScale uint8 = 64
)

// State is the session state mutated by effects. It is owned by a single
// Engine and passed explicitly to effect application.
type State struct {
	Canvas     *Canvas
	Palette    *Palette
	Cursor     Position
	Camera     Position
	Scale      uint8
	Background Color
	Anchors    map[string]Position
	Tags       map[string]int
	Timeline   *Timeline
}

// NewState returns the documented session defaults.
func NewState() *State {
	return &State{
		Canvas:     NewCanvas(),
		Palette:    DefaultPalette(),
		Scale:      MinScale,
		Background: White,
		Anchors:    make(map[string]Position),
		Tags:       make(map[string]int),
		Timeline:   NewTimeline(),
	}
}

// ResolveAnchor returns the position stored under name.
func (s *State) ResolveAnchor(name string) (Position, error) {
	p, ok := s.Anchors[name]
	if !ok {
		return Position{}, fmt.Errorf("%w: %q", ErrUnknownAnchor, name)
	}
	return p, nil
}

// ResolveTag returns the log position stored under name.
func (s *State) ResolveTag(name string) (int, error) {
	pos, ok := s.Tags[name]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownTag, name)
	}
	return pos, nil
}

// AnchorNames returns the anchor names in sorted order.
func (s *State) AnchorNames() []string { return sortedKeys(s.Anchors) }

// TagNames returns the tag names in sorted order.
func (s *State) TagNames() []string { return sortedKeys(s.Tags) }

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
