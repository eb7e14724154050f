package state

import "sort"

// Canvas is the sparse pixel grid. Only painted positions are stored.
// Iteration is ordered by y, then x.
type Canvas struct {
	pixels map[Position]ColorIndex
	keys   []Position // sorted; nil when stale
}

func NewCanvas() *Canvas {
	return &Canvas{pixels: make(map[Position]ColorIndex)}
}

func (c *Canvas) Len() int { return len(c.pixels) }

func (c *Canvas) Get(p Position) (ColorIndex, bool) {
	i, ok := c.pixels[p]
	return i, ok
}

// Set paints p and returns the previous value.
func (c *Canvas) Set(p Position, i ColorIndex) (ColorIndex, bool) {
	prev, had := c.pixels[p]
	c.pixels[p] = i
	if !had {
		c.keys = nil
	}
	return prev, had
}

// Delete clears p and returns the previous value.
func (c *Canvas) Delete(p Position) (ColorIndex, bool) {
	prev, had := c.pixels[p]
	if had {
		delete(c.pixels, p)
		c.keys = nil
	}
	return prev, had
}

func (c *Canvas) sorted() []Position {
	if c.keys == nil {
		c.keys = make([]Position, 0, len(c.pixels))
		for p := range c.pixels {
			c.keys = append(c.keys, p)
		}
		sortPositions(c.keys)
	}
	return c.keys
}

// Positions returns the painted positions in order.
func (c *Canvas) Positions() []Position {
	keys := c.sorted()
	out := make([]Position, len(keys))
	copy(out, keys)
	return out
}

// Range calls fn for each painted pixel inside r, in order, until fn
// returns false.
func (c *Canvas) Range(r Rect, fn func(Position, ColorIndex) bool) {
	keys := c.sorted()
	start := sort.Search(len(keys), func(i int) bool {
		return !keys[i].Less(Position{X: r.Min.X, Y: r.Min.Y})
	})
	for _, p := range keys[start:] {
		if p.Y > r.Max.Y {
			return
		}
		if p.X < r.Min.X || p.X > r.Max.X {
			continue
		}
		if !fn(p, c.pixels[p]) {
			return
		}
	}
}

// Bounds returns the bounding box of all painted pixels.
func (c *Canvas) Bounds() (Rect, bool) {
	return BoundsOf(c.sorted())
}

func (c *Canvas) Clone() *Canvas {
	out := &Canvas{pixels: make(map[Position]ColorIndex, len(c.pixels))}
	for p, i := range c.pixels {
		out.pixels[p] = i
	}
	return out
}

// Equal reports whether both canvases hold exactly the same pixels.
func (c *Canvas) Equal(o *Canvas) bool {
	if len(c.pixels) != len(o.pixels) {
		return false
	}
	for p, i := range c.pixels {
		if j, ok := o.pixels[p]; !ok || i != j {
			return false
		}
	}
	return true
}
