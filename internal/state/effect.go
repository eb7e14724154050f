package state

import (
	"encoding/json"
	"fmt"
)

// Effect is a primitive, exactly reversible state mutation. Every effect
// carries the value it replaces so that Inverse needs no outside state.
type Effect interface {
	Apply(s *State)
	Inverse() Effect
	Kind() string
}

// PixelEffect paints or clears one pixel. A nil color means unpainted.
type PixelEffect struct {
	Pos Position    `json:"pos"`
	Old *ColorIndex `json:"old,omitempty"`
	New *ColorIndex `json:"new,omitempty"`
}

func (e PixelEffect) Apply(s *State) {
	if e.New == nil {
		s.Canvas.Delete(e.Pos)
		return
	}
	s.Canvas.Set(e.Pos, *e.New)
}

func (e PixelEffect) Inverse() Effect { return PixelEffect{Pos: e.Pos, Old: e.New, New: e.Old} }
func (PixelEffect) Kind() string      { return "pixel" }

// PaletteEffect inserts, replaces or deletes a palette entry.
type PaletteEffect struct {
	Index ColorIndex `json:"index"`
	Old   *Color     `json:"old,omitempty"`
	New   *Color     `json:"new,omitempty"`
}

func (e PaletteEffect) Apply(s *State) {
	if e.New == nil {
		delete(s.Palette.colors, e.Index)
		return
	}
	s.Palette.colors[e.Index] = *e.New
}

func (e PaletteEffect) Inverse() Effect {
	return PaletteEffect{Index: e.Index, Old: e.New, New: e.Old}
}
func (PaletteEffect) Kind() string { return "palette" }

// SelectEffect changes the selected palette index.
type SelectEffect struct {
	Old ColorIndex `json:"old"`
	New ColorIndex `json:"new"`
}

func (e SelectEffect) Apply(s *State)   { s.Palette.selected = e.New }
func (e SelectEffect) Inverse() Effect { return SelectEffect{Old: e.New, New: e.Old} }
func (SelectEffect) Kind() string      { return "select" }

// CursorEffect moves the cursor to an absolute position.
type CursorEffect struct {
	Old Position `json:"old"`
	New Position `json:"new"`
}

func (e CursorEffect) Apply(s *State)   { s.Cursor = e.New }
func (e CursorEffect) Inverse() Effect { return CursorEffect{Old: e.New, New: e.Old} }
func (CursorEffect) Kind() string      { return "cursor" }

// CameraEffect moves the camera to an absolute position.
type CameraEffect struct {
	Old Position `json:"old"`
	New Position `json:"new"`
}

func (e CameraEffect) Apply(s *State)   { s.Camera = e.New }
func (e CameraEffect) Inverse() Effect { return CameraEffect{Old: e.New, New: e.Old} }
func (CameraEffect) Kind() string      { return "camera" }

// ScaleEffect changes the presentation zoom.
type ScaleEffect struct {
	Old uint8 `json:"old"`
	New uint8 `json:"new"`
}

func (e ScaleEffect) Apply(s *State)   { s.Scale = e.New }
func (e ScaleEffect) Inverse() Effect { return ScaleEffect{Old: e.New, New: e.Old} }
func (ScaleEffect) Kind() string      { return "scale" }

// BackgroundEffect changes the background color.
type BackgroundEffect struct {
	Old Color `json:"old"`
	New Color `json:"new"`
}

func (e BackgroundEffect) Apply(s *State)   { s.Background = e.New }
func (e BackgroundEffect) Inverse() Effect { return BackgroundEffect{Old: e.New, New: e.Old} }
func (BackgroundEffect) Kind() string      { return "background" }

// ClockEffect sets the timeline clock.
type ClockEffect struct {
	Old Ticks `json:"old"`
	New Ticks `json:"new"`
}

func (e ClockEffect) Apply(s *State)   { s.Timeline.clock = e.New }
func (e ClockEffect) Inverse() Effect { return ClockEffect{Old: e.New, New: e.Old} }
func (ClockEffect) Kind() string      { return "clock" }

// PlaybackEffect starts, replaces or stops playback.
type PlaybackEffect struct {
	Old *Playback `json:"old,omitempty"`
	New *Playback `json:"new,omitempty"`
}

func (e PlaybackEffect) Apply(s *State) {
	if e.New == nil {
		s.Timeline.playback = nil
		return
	}
	p := *e.New
	s.Timeline.playback = &p
}

func (e PlaybackEffect) Inverse() Effect { return PlaybackEffect{Old: e.New, New: e.Old} }
func (PlaybackEffect) Kind() string      { return "playback" }

// AnchorEffect creates, overwrites or deletes an anchor.
type AnchorEffect struct {
	Name string    `json:"name"`
	Old  *Position `json:"old,omitempty"`
	New  *Position `json:"new,omitempty"`
}

func (e AnchorEffect) Apply(s *State) {
	if e.New == nil {
		delete(s.Anchors, e.Name)
		return
	}
	s.Anchors[e.Name] = *e.New
}

func (e AnchorEffect) Inverse() Effect { return AnchorEffect{Name: e.Name, Old: e.New, New: e.Old} }
func (AnchorEffect) Kind() string      { return "anchor" }

// TagEffect creates, overwrites or deletes a tag.
type TagEffect struct {
	Name string `json:"name"`
	Old  *int   `json:"old,omitempty"`
	New  *int   `json:"new,omitempty"`
}

func (e TagEffect) Apply(s *State) {
	if e.New == nil {
		delete(s.Tags, e.Name)
		return
	}
	s.Tags[e.Name] = *e.New
}

func (e TagEffect) Inverse() Effect { return TagEffect{Name: e.Name, Old: e.New, New: e.Old} }
func (TagEffect) Kind() string      { return "tag" }

// FrameEffect embeds, replaces or removes an animation frame.
type FrameEffect struct {
	Name string `json:"name"`
	Old  *Frame `json:"old,omitempty"`
	New  *Frame `json:"new,omitempty"`
}

func (e FrameEffect) Apply(s *State) {
	if e.New == nil {
		delete(s.Timeline.frames, e.Name)
		return
	}
	s.Timeline.frames[e.Name] = e.New.clone()
}

func (e FrameEffect) Inverse() Effect { return FrameEffect{Name: e.Name, Old: e.New, New: e.Old} }
func (FrameEffect) Kind() string      { return "frame" }

// effectEnvelope is the externally tagged JSON form of an effect.
type effectEnvelope struct {
	Pixel      *PixelEffect      `json:"pixel,omitempty"`
	Palette    *PaletteEffect    `json:"palette,omitempty"`
	Select     *SelectEffect     `json:"select,omitempty"`
	Cursor     *CursorEffect     `json:"cursor,omitempty"`
	Camera     *CameraEffect     `json:"camera,omitempty"`
	Scale      *ScaleEffect      `json:"scale,omitempty"`
	Background *BackgroundEffect `json:"background,omitempty"`
	Clock      *ClockEffect      `json:"clock,omitempty"`
	Playback   *PlaybackEffect   `json:"playback,omitempty"`
	Anchor     *AnchorEffect     `json:"anchor,omitempty"`
	Tag        *TagEffect        `json:"tag,omitempty"`
	Frame      *FrameEffect      `json:"frame,omitempty"`
}

func wrapEffect(e Effect) (effectEnvelope, error) {
	var env effectEnvelope
	switch e := e.(type) {
	case PixelEffect:
		env.Pixel = &e
	case PaletteEffect:
		env.Palette = &e
	case SelectEffect:
		env.Select = &e
	case CursorEffect:
		env.Cursor = &e
	case CameraEffect:
		env.Camera = &e
	case ScaleEffect:
		env.Scale = &e
	case BackgroundEffect:
		env.Background = &e
	case ClockEffect:
		env.Clock = &e
	case PlaybackEffect:
		env.Playback = &e
	case AnchorEffect:
		env.Anchor = &e
	case TagEffect:
		env.Tag = &e
	case FrameEffect:
		env.Frame = &e
	default:
		return env, fmt.Errorf("unsupported effect %T", e)
	}
	return env, nil
}

// effect returns the wrapped effect, or nil for kinds this build does not
// know about.
func (env effectEnvelope) effect() Effect {
	switch {
	case env.Pixel != nil:
		return *env.Pixel
	case env.Palette != nil:
		return *env.Palette
	case env.Select != nil:
		return *env.Select
	case env.Cursor != nil:
		return *env.Cursor
	case env.Camera != nil:
		return *env.Camera
	case env.Scale != nil:
		return *env.Scale
	case env.Background != nil:
		return *env.Background
	case env.Clock != nil:
		return *env.Clock
	case env.Playback != nil:
		return *env.Playback
	case env.Anchor != nil:
		return *env.Anchor
	case env.Tag != nil:
		return *env.Tag
	case env.Frame != nil:
		return *env.Frame
	}
	return nil
}

// Effects is an ordered effect list with a JSON encoding that skips
// unknown effect kinds when decoding.
type Effects []Effect

func (es Effects) MarshalJSON() ([]byte, error) {
	envs := make([]effectEnvelope, 0, len(es))
	for _, e := range es {
		env, err := wrapEffect(e)
		if err != nil {
			return nil, err
		}
		envs = append(envs, env)
	}
	return json.Marshal(envs)
}

func (es *Effects) UnmarshalJSON(data []byte) error {
	var envs []effectEnvelope
	if err := json.Unmarshal(data, &envs); err != nil {
		return err
	}
	out := make(Effects, 0, len(envs))
	for _, env := range envs {
		if e := env.effect(); e != nil {
			out = append(out, e)
		}
	}
	*es = out
	return nil
}

// Inverse returns the effects that undo es, in reverse order.
func (es Effects) Inverse() Effects {
	out := make(Effects, len(es))
	for i, e := range es {
		out[len(es)-1-i] = e.Inverse()
	}
	return out
}

func (es Effects) apply(s *State) {
	for _, e := range es {
		e.Apply(s)
	}
}
