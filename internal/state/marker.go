package state

import "fmt"

// MarkKind selects how a marker path turns into covered pixels.
type MarkKind string

const (
	MarkPoint     MarkKind = "point"
	MarkLine      MarkKind = "line"
	MarkRectangle MarkKind = "rectangle"
	MarkFill      MarkKind = "fill"
)

func (k MarkKind) Valid() bool {
	switch k {
	case MarkPoint, MarkLine, MarkRectangle, MarkFill:
		return true
	}
	return false
}

func (k *MarkKind) UnmarshalText(text []byte) error {
	kind := MarkKind(text)
	if !kind.Valid() {
		return fmt.Errorf("unknown mark kind %q", text)
	}
	*k = kind
	return nil
}

// Marker is an active selection. It stores only the cursor path; the
// covered set is recomputed from it on demand.
type Marker struct {
	Kind MarkKind   `json:"kind"`
	Path []Position `json:"path"`
}

// NewMarker starts a marking session anchored at start.
func NewMarker(kind MarkKind, start Position) *Marker {
	return &Marker{Kind: kind, Path: []Position{start}}
}

// Anchor is the position where marking began.
func (m *Marker) Anchor() Position { return m.Path[0] }

// Latest is the most recently visited position.
func (m *Marker) Latest() Position { return m.Path[len(m.Path)-1] }

// Visit returns a copy of m with p appended to the path.
func (m *Marker) Visit(p Position) *Marker {
	path := make([]Position, len(m.Path), len(m.Path)+1)
	copy(path, m.Path)
	if p != m.Latest() {
		path = append(path, p)
	}
	return &Marker{Kind: m.Kind, Path: path}
}

// Covered returns the sorted, de-duplicated set of marked positions.
func (m *Marker) Covered() []Position {
	var ps []Position
	switch m.Kind {
	case MarkLine:
		ps = linePositions(m.Anchor(), m.Latest())
	case MarkRectangle:
		ps = RectOf(m.Anchor(), m.Latest()).Positions()
	case MarkFill:
		ps = fillPositions(m.Path)
	default:
		ps = m.Path
	}
	return uniquePositions(ps)
}

func uniquePositions(ps []Position) []Position {
	seen := make(map[Position]struct{}, len(ps))
	out := make([]Position, 0, len(ps))
	for _, p := range ps {
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	sortPositions(out)
	return out
}

// linePositions rasterizes the segment from a to b (Bresenham).
func linePositions(a, b Position) []Position {
	x0, y0 := int32(a.X), int32(a.Y)
	x1, y1 := int32(b.X), int32(b.Y)
	dx, sx := abs32(x1-x0), int32(1)
	if x0 > x1 {
		sx = -1
	}
	dy, sy := -abs32(y1-y0), int32(1)
	if y0 > y1 {
		sy = -1
	}
	errv := dx + dy

	var ps []Position
	for {
		ps = append(ps, Position{X: int16(x0), Y: int16(y0)})
		if x0 == x1 && y0 == y1 {
			return ps
		}
		e2 := 2 * errv
		if e2 >= dy {
			errv += dy
			x0 += sx
		}
		if e2 <= dx {
			errv += dx
			y0 += sy
		}
	}
}

// fillPositions fills the closed polygon through path using the even-odd
// rule. The outline itself is always covered.
func fillPositions(path []Position) []Position {
	var ps []Position
	for i := range path {
		ps = append(ps, linePositions(path[i], path[(i+1)%len(path)])...)
	}
	if len(path) < 3 {
		return ps
	}
	bounds, _ := BoundsOf(path)
	for _, p := range bounds.Positions() {
		if insidePolygon(path, p) {
			ps = append(ps, p)
		}
	}
	return ps
}

func insidePolygon(path []Position, p Position) bool {
	x, y := float64(p.X), float64(p.Y)
	inside := false
	for i, j := 0, len(path)-1; i < len(path); j, i = i, i+1 {
		xi, yi := float64(path[i].X), float64(path[i].Y)
		xj, yj := float64(path[j].X), float64(path[j].Y)
		if (yi > y) != (yj > y) {
			cross := (xj-xi)*(y-yi)/(yj-yi) + xi
			if x < cross {
				inside = !inside
			}
		}
	}
	return inside
}

func abs32(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}
