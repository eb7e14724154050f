package state

// Scene is an immutable snapshot of everything a renderer needs.
type Scene struct {
	Window     Rect
	Pixels     []PixelColor
	Overlay    []PixelColor
	Marked     []Position
	Cursor     Position
	Camera     Position
	Scale      uint8
	Background Color
	Brush      Color
	Palette    []PaletteEntry
	Selected   ColorIndex
	Clock      Ticks
	Playing    bool
	Marking    bool
}

// Window returns the width x height pixel window centered on the camera.
func (e *Engine) Window(width, height int) Rect {
	return WindowAround(e.state.Camera, width, height)
}

// Scene snapshots the base pixels and active frame overlay inside window.
func (e *Engine) Scene(window Rect) Scene {
	s := e.state
	sc := Scene{
		Window:     window,
		Cursor:     s.Cursor,
		Camera:     s.Camera,
		Scale:      s.Scale,
		Background: s.Background,
		Brush:      s.Palette.SelectedColor(),
		Palette:    s.Palette.Entries(),
		Selected:   s.Palette.Selected(),
		Clock:      s.Timeline.Clock(),
		Playing:    s.Timeline.Playing(),
		Marking:    e.marker != nil,
	}
	s.Canvas.Range(window, func(p Position, i ColorIndex) bool {
		c, _ := s.Palette.Color(i)
		sc.Pixels = append(sc.Pixels, PixelColor{Position: p, Color: c})
		return true
	})
	for p, c := range s.Timeline.Overlay() {
		if window.Contains(p) {
			sc.Overlay = append(sc.Overlay, PixelColor{Position: p, Color: c})
		}
	}
	sortPixels(sc.Overlay)
	if e.marker != nil {
		for _, p := range e.marker.Covered() {
			if window.Contains(p) {
				sc.Marked = append(sc.Marked, p)
			}
		}
	}
	return sc
}

// CanvasScene snapshots the whole painted area, or an empty window around
// the origin when nothing is painted.
func (e *Engine) CanvasScene() Scene {
	bounds, ok := e.state.Canvas.Bounds()
	if !ok {
		bounds = Rect{}
	}
	return e.Scene(bounds)
}

// Visible resolves the color shown at p: an active overlay pixel first,
// then the base canvas.
func (sc Scene) Visible() map[Position]Color {
	out := make(map[Position]Color, len(sc.Pixels)+len(sc.Overlay))
	for _, px := range sc.Pixels {
		out[px.Position] = px.Color
	}
	for _, px := range sc.Overlay {
		out[px.Position] = px.Color
	}
	return out
}

func sortPixels(ps []PixelColor) {
	if len(ps) < 2 {
		return
	}
	positions := make([]Position, len(ps))
	byPos := make(map[Position]Color, len(ps))
	for i, px := range ps {
		positions[i] = px.Position
		byPos[px.Position] = px.Color
	}
	sortPositions(positions)
	for i, p := range positions {
		ps[i] = PixelColor{Position: p, Color: byPos[p]}
	}
}
