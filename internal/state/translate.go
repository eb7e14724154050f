package state

import "fmt"

type historyOp int

const (
	historyNone historyOp = iota
	historyUndo
	historyRedo
)

// plan is the result of translating one intent: the effects to commit as
// a group plus the transient changes that live outside the log.
type plan struct {
	effects   Effects
	history   historyOp
	setMarker bool
	marker    *Marker
	clipboard []PixelColor
	external  *ExternalCommand
	quit      bool
}

func (p *plan) clearMarker() {
	p.setMarker = true
	p.marker = nil
}

// draft accumulates effects against a read-only state, so that several
// writes to the same pixel or palette slot in one group chain correctly.
type draft struct {
	s       *State
	pixels  map[Position]*ColorIndex
	palette map[ColorIndex]Color
	effects Effects
}

func newDraft(s *State) *draft {
	return &draft{
		s:       s,
		pixels:  make(map[Position]*ColorIndex),
		palette: make(map[ColorIndex]Color),
	}
}

func (d *draft) pixel(p Position) *ColorIndex {
	if v, ok := d.pixels[p]; ok {
		return v
	}
	if i, ok := d.s.Canvas.Get(p); ok {
		return indexPtr(i)
	}
	return nil
}

// paint emits a pixel effect unless p already holds v.
func (d *draft) paint(p Position, v *ColorIndex) {
	old := d.pixel(p)
	if sameIndex(old, v) {
		return
	}
	d.pixels[p] = v
	d.effects = append(d.effects, PixelEffect{Pos: p, Old: old, New: v})
}

// ensureColor returns the palette index for c, inserting a new entry
// when no index holds it yet.
func (d *draft) ensureColor(c Color) ColorIndex {
	if i, ok := d.s.Palette.Lookup(c); ok {
		return i
	}
	for i, pc := range d.palette {
		if pc == c {
			return i
		}
	}
	next := d.s.Palette.NextIndex()
	for i := range d.palette {
		if i >= next {
			next = i + 1
		}
	}
	d.palette[next] = c
	d.effects = append(d.effects, PaletteEffect{Index: next, New: &c})
	return next
}

func sameIndex(a, b *ColorIndex) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// translate maps an intent to a plan without mutating e.
func translate(e *Engine, in Intent) (plan, error) {
	s := e.state
	var p plan
	d := newDraft(s)

	switch in := in.(type) {
	case Move:
		target := s.Cursor.Add(in.Delta)
		if in.Anchor != "" {
			pos, err := s.ResolveAnchor(in.Anchor)
			if err != nil {
				return p, err
			}
			target = pos
		}
		if target != s.Cursor {
			d.effects = append(d.effects, CursorEffect{Old: s.Cursor, New: target})
		}
		if e.marker != nil {
			p.setMarker = true
			p.marker = e.marker.Visit(target)
		}

	case Mark:
		if e.marker != nil {
			return p, ErrMarkerAlreadyActive
		}
		p.setMarker = true
		p.marker = NewMarker(in.Kind, s.Cursor)

	case Dip:
		i := d.ensureColor(in.Color)
		if i != s.Palette.Selected() {
			d.effects = append(d.effects, SelectEffect{Old: s.Palette.Selected(), New: i})
		}

	case Recolor:
		i := s.Palette.Selected()
		old, _ := s.Palette.Color(i)
		if old != in.Color {
			c := in.Color
			d.effects = append(d.effects, PaletteEffect{Index: i, Old: &old, New: &c})
		}

	case SelectColor:
		if _, ok := s.Palette.Color(in.Index); !ok {
			return p, fmt.Errorf("%w: %d", ErrInvalidColorIndex, in.Index)
		}
		if in.Index != s.Palette.Selected() {
			d.effects = append(d.effects, SelectEffect{Old: s.Palette.Selected(), New: in.Index})
		}

	case Pick:
		i, ok := s.Canvas.Get(s.Cursor)
		if !ok {
			return p, fmt.Errorf("%w: %s", ErrUnpaintedPixel, s.Cursor)
		}
		if i != s.Palette.Selected() {
			d.effects = append(d.effects, SelectEffect{Old: s.Palette.Selected(), New: i})
		}

	case Draw:
		selected := s.Palette.Selected()
		for _, pos := range e.targets() {
			d.paint(pos, indexPtr(selected))
		}
		p.clearMarker()

	case Erase:
		for _, pos := range e.targets() {
			d.paint(pos, nil)
		}
		p.clearMarker()

	case Copy, Cut:
		if e.marker == nil {
			return p, ErrNoActiveMarker
		}
		covered := e.marker.Covered()
		p.clipboard = e.clip(covered)
		if _, ok := in.(Cut); ok {
			for _, pos := range covered {
				d.paint(pos, nil)
			}
		}
		p.clearMarker()

	case Paste:
		for _, px := range e.clipboard {
			d.paint(s.Cursor.Add(px.Position), indexPtr(d.ensureColor(px.Color)))
		}

	case Cancel:
		p.clearMarker()

	case Undo:
		p.history = historyUndo

	case Redo:
		p.history = historyRedo

	case Quit:
		p.quit = true

	case Scale:
		next := int(s.Scale) + int(in.Delta)
		next = max(int(MinScale), min(int(MaxScale), next))
		if uint8(next) != s.Scale {
			d.effects = append(d.effects, ScaleEffect{Old: s.Scale, New: uint8(next)})
		}

	case Center:
		target := s.Cursor
		if in.Anchor != "" {
			pos, err := s.ResolveAnchor(in.Anchor)
			if err != nil {
				return p, err
			}
			target = pos
		}
		if target != s.Camera {
			d.effects = append(d.effects, CameraEffect{Old: s.Camera, New: target})
		}

	case SetAnchor:
		cursor := s.Cursor
		old, had := s.Anchors[in.Anchor]
		if !had || old != cursor {
			eff := AnchorEffect{Name: in.Anchor, New: &cursor}
			if had {
				eff.Old = &old
			}
			d.effects = append(d.effects, eff)
		}

	case SetTag:
		pos := e.history.Pointer()
		old, had := s.Tags[in.Tag]
		if !had || old != pos {
			eff := TagEffect{Name: in.Tag, New: &pos}
			if had {
				eff.Old = &old
			}
			d.effects = append(d.effects, eff)
		}

	case BackgroundColor:
		if in.Color != s.Background {
			d.effects = append(d.effects, BackgroundEffect{Old: s.Background, New: in.Color})
		}

	case Checkout:
		pos, err := s.ResolveTag(in.Tag)
		if err != nil {
			return p, err
		}
		target := e.history.Reconstruct(pos)
		for _, q := range s.Canvas.Positions() {
			if _, ok := target.Get(q); !ok {
				d.paint(q, nil)
			}
		}
		for _, q := range target.Positions() {
			i, _ := target.Get(q)
			d.paint(q, indexPtr(i))
		}

	case Import:
		for _, px := range in.Pixels {
			d.paint(px.Position, indexPtr(d.ensureColor(px.Color)))
		}

	case Embed:
		f := in.Frame.clone()
		eff := FrameEffect{Name: f.Name, New: f}
		if old, ok := s.Timeline.Frame(f.Name); ok {
			eff.Old = old.clone()
		}
		d.effects = append(d.effects, eff)

	case Tick:
		clock := s.Timeline.Clock()
		if next := clock.Add(in.Delta); next != clock {
			d.effects = append(d.effects, ClockEffect{Old: clock, New: next})
		}

	case Play:
		clock := s.Timeline.Clock()
		if clock != in.Playback.Offset {
			d.effects = append(d.effects, ClockEffect{Old: clock, New: in.Playback.Offset})
		}
		next := in.Playback
		eff := PlaybackEffect{New: &next}
		if old, ok := s.Timeline.Playback(); ok {
			eff.Old = &old
		}
		d.effects = append(d.effects, eff)

	case Remove:
		eff, err := removeEffect(s, in.Target)
		if err != nil {
			return p, err
		}
		d.effects = append(d.effects, eff)

	case Flip:
		e.transform(d, func(r Rect, q Position) Position {
			if in.Direction == FlipHorizontal {
				return Position{X: saturate(int32(r.Min.X) + int32(r.Max.X) - int32(q.X)), Y: q.Y}
			}
			return Position{X: q.X, Y: saturate(int32(r.Min.Y) + int32(r.Max.Y) - int32(q.Y))}
		})
		p.clearMarker()

	case Rotate:
		// 90 degrees clockwise about the bounding box origin.
		e.transform(d, func(r Rect, q Position) Position {
			return Position{
				X: saturate(int32(r.Min.X) + int32(r.Max.Y) - int32(q.Y)),
				Y: saturate(int32(r.Min.Y) + int32(q.X) - int32(r.Min.X)),
			}
		})
		p.clearMarker()

	case ExternalCommand:
		c := in
		c.Args = append([]string(nil), in.Args...)
		p.external = &c

	default:
		return p, fmt.Errorf("%w: unsupported intent %T", ErrInvalidIntent, in)
	}

	p.effects = d.effects
	return p, nil
}

func removeEffect(s *State, t RemoveTarget) (Effect, error) {
	switch t.Kind {
	case TargetTag:
		if old, ok := s.Tags[t.Name]; ok {
			return TagEffect{Name: t.Name, Old: &old}, nil
		}
	case TargetAnchor:
		if old, ok := s.Anchors[t.Name]; ok {
			return AnchorEffect{Name: t.Name, Old: &old}, nil
		}
	case TargetFrame:
		if old, ok := s.Timeline.Frame(t.Name); ok {
			return FrameEffect{Name: t.Name, Old: old.clone()}, nil
		}
	}
	return nil, fmt.Errorf("%w: %s %q", ErrUnknownTarget, t.Kind, t.Name)
}

// targets is the marker's covered set, or the cursor when not marking.
func (e *Engine) targets() []Position {
	if e.marker != nil {
		return e.marker.Covered()
	}
	return []Position{e.state.Cursor}
}

// clip snapshots the painted pixels among ps, relative to their bounding
// box origin.
func (e *Engine) clip(ps []Position) []PixelColor {
	bounds, ok := BoundsOf(ps)
	if !ok {
		return []PixelColor{}
	}
	out := make([]PixelColor, 0, len(ps))
	for _, q := range ps {
		i, painted := e.state.Canvas.Get(q)
		if !painted {
			continue
		}
		c, _ := e.state.Palette.Color(i)
		out = append(out, PixelColor{Position: q.Sub(bounds.Min), Color: c})
	}
	return out
}

// transform moves the marked pixels (or every painted pixel) through f,
// computed about their bounding box, and paints the differences.
func (e *Engine) transform(d *draft, f func(Rect, Position) Position) {
	var source []Position
	if e.marker != nil {
		source = e.marker.Covered()
	} else {
		source = e.state.Canvas.Positions()
	}
	bounds, ok := BoundsOf(source)
	if !ok {
		return
	}

	desired := make(map[Position]*ColorIndex, len(source))
	for _, q := range source {
		desired[q] = nil
	}
	for _, q := range source {
		if i, painted := e.state.Canvas.Get(q); painted {
			desired[f(bounds, q)] = indexPtr(i)
		}
	}

	order := make([]Position, 0, len(desired))
	for q := range desired {
		order = append(order, q)
	}
	sortPositions(order)
	for _, q := range order {
		d.paint(q, desired[q])
	}
}
