package state

import "sort"

// Frame is a named pixel overlay that is visible while the clock lies in
// [Start, Start+Duration).
type Frame struct {
	Name     string       `json:"name"`
	Start    Ticks        `json:"start"`
	Duration Ticks        `json:"duration"`
	Pixels   []PixelColor `json:"pixels"`
}

// Active reports whether the frame's window contains clock.
func (f *Frame) Active(clock Ticks) bool {
	return clock >= f.Start && uint64(clock) < uint64(f.Start)+uint64(f.Duration)
}

func (f *Frame) clone() *Frame {
	out := *f
	out.Pixels = append([]PixelColor(nil), f.Pixels...)
	return &out
}

// Timeline holds embedded frames, the logical clock and playback state.
// It does not schedule anything itself; the runtime loop calls Advance.
type Timeline struct {
	frames   map[string]*Frame
	clock    Ticks
	playback *Playback
}

func NewTimeline() *Timeline {
	return &Timeline{frames: make(map[string]*Frame)}
}

func (t *Timeline) Clock() Ticks { return t.clock }

func (t *Timeline) Frame(name string) (*Frame, bool) {
	f, ok := t.frames[name]
	return f, ok
}

// Frames returns all frames sorted by name.
func (t *Timeline) Frames() []*Frame {
	out := make([]*Frame, 0, len(t.frames))
	for _, f := range t.frames {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// ActiveFrames returns the frames visible at the current clock, ordered
// by start tick and then name. Later entries paint over earlier ones.
func (t *Timeline) ActiveFrames() []*Frame {
	var out []*Frame
	for _, f := range t.frames {
		if f.Active(t.clock) {
			out = append(out, f)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Start != out[j].Start {
			return out[i].Start < out[j].Start
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// Overlay merges the active frames into one position to color map.
func (t *Timeline) Overlay() map[Position]Color {
	overlay := make(map[Position]Color)
	for _, f := range t.ActiveFrames() {
		for _, px := range f.Pixels {
			overlay[px.Position] = px.Color
		}
	}
	return overlay
}

// Playback returns the current playback settings, if playing.
func (t *Timeline) Playback() (Playback, bool) {
	if t.playback == nil {
		return Playback{}, false
	}
	return *t.playback, true
}

func (t *Timeline) Playing() bool { return t.playback != nil }

// Advance moves the clock forward one tick under the active playback.
// It returns whether playback is still running.
func (t *Timeline) Advance() bool {
	if t.playback == nil {
		return false
	}
	next, running := t.playback.step(t.clock)
	t.clock = next
	if !running {
		t.playback = nil
	}
	return running
}
