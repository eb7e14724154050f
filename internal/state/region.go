package state

// Rect is an axis-aligned rectangle with inclusive bounds.
type Rect struct {
	Min Position `json:"min"`
	Max Position `json:"max"`
}

// RectOf returns the bounding box of a and b.
func RectOf(a, b Position) Rect {
	r := Rect{Min: a, Max: a}
	return r.Extend(b)
}

// BoundsOf returns the bounding box of ps, or false when ps is empty.
func BoundsOf(ps []Position) (Rect, bool) {
	if len(ps) == 0 {
		return Rect{}, false
	}
	r := Rect{Min: ps[0], Max: ps[0]}
	for _, p := range ps[1:] {
		r = r.Extend(p)
	}
	return r, true
}

// Extend grows r to include p.
func (r Rect) Extend(p Position) Rect {
	if p.X < r.Min.X {
		r.Min.X = p.X
	}
	if p.X > r.Max.X {
		r.Max.X = p.X
	}
	if p.Y < r.Min.Y {
		r.Min.Y = p.Y
	}
	if p.Y > r.Max.Y {
		r.Max.Y = p.Y
	}
	return r
}

// Union returns the smallest rectangle covering r and o.
func (r Rect) Union(o Rect) Rect {
	return r.Extend(o.Min).Extend(o.Max)
}

func (r Rect) Contains(p Position) bool {
	return p.X >= r.Min.X && p.X <= r.Max.X &&
		p.Y >= r.Min.Y && p.Y <= r.Max.Y
}

func (r Rect) Overlaps(o Rect) bool {
	return !(r.Max.X < o.Min.X || o.Max.X < r.Min.X ||
		r.Max.Y < o.Min.Y || o.Max.Y < r.Min.Y)
}

func (r Rect) Width() int { return int(r.Max.X) - int(r.Min.X) + 1 }

func (r Rect) Height() int { return int(r.Max.Y) - int(r.Min.Y) + 1 }

// Positions lists every position inside r in row-major order.
func (r Rect) Positions() []Position {
	ps := make([]Position, 0, r.Width()*r.Height())
	for y := int32(r.Min.Y); y <= int32(r.Max.Y); y++ {
		for x := int32(r.Min.X); x <= int32(r.Max.X); x++ {
			ps = append(ps, Position{X: int16(x), Y: int16(y)})
		}
	}
	return ps
}

// WindowAround returns a width x height rectangle centered on c.
func WindowAround(c Position, width, height int) Rect {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	minX := int32(c.X) - int32(width/2)
	minY := int32(c.Y) - int32(height/2)
	return Rect{
		Min: Position{X: saturate(minX), Y: saturate(minY)},
		Max: Position{X: saturate(minX + int32(width) - 1), Y: saturate(minY + int32(height) - 1)},
	}
}
