package state

import (
	"encoding/json"
	"fmt"
	"image/color"
	"math"
	"sort"
	"strconv"
	"strings"
)

// Position is a pixel coordinate on the unbounded canvas.
type Position struct {
	X int16 `json:"x"`
	Y int16 `json:"y"`
}

// Pos is shorthand for Position{X: x, Y: y}.
func Pos(x, y int16) Position {
	return Position{X: x, Y: y}
}

// Less orders positions by row first, then column.
func (p Position) Less(o Position) bool {
	if p.Y != o.Y {
		return p.Y < o.Y
	}
	return p.X < o.X
}

// Add moves p by d. Coordinates saturate at the int16 bounds.
func (p Position) Add(d Position) Position {
	return Position{X: saturate(int32(p.X) + int32(d.X)), Y: saturate(int32(p.Y) + int32(d.Y))}
}

// Sub returns the offset from o to p.
func (p Position) Sub(o Position) Position {
	return Position{X: saturate(int32(p.X) - int32(o.X)), Y: saturate(int32(p.Y) - int32(o.Y))}
}

func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

func saturate(v int32) int16 {
	if v > math.MaxInt16 {
		return math.MaxInt16
	}
	if v < math.MinInt16 {
		return math.MinInt16
	}
	return int16(v)
}

func sortPositions(ps []Position) {
	sort.Slice(ps, func(i, j int) bool { return ps[i].Less(ps[j]) })
}

// ColorIndex identifies an entry in the palette.
type ColorIndex uint32

func indexPtr(i ColorIndex) *ColorIndex { return &i }

// Color is a concrete RGBA color. Its JSON form is "#rrggbb" or "#rrggbbaa".
type Color struct {
	R, G, B, A uint8
}

// RGB returns an opaque color.
func RGB(r, g, b uint8) Color {
	return Color{R: r, G: g, B: b, A: 255}
}

var (
	White = RGB(255, 255, 255)
	Red   = RGB(255, 0, 0)
	Green = RGB(0, 255, 0)
	Blue  = RGB(0, 0, 255)
	Black = RGB(0, 0, 0)
)

func (c Color) String() string {
	if c.A == 255 {
		return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
	}
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
}

// NRGBA converts c for use with the image packages.
func (c Color) NRGBA() color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}
}

// ParseColor parses "#rrggbb" or "#rrggbbaa".
func ParseColor(s string) (Color, error) {
	hex := strings.TrimPrefix(s, "#")
	if len(hex) != 6 && len(hex) != 8 {
		return Color{}, fmt.Errorf("invalid color %q", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	if len(hex) == 6 {
		return RGB(uint8(v>>16), uint8(v>>8), uint8(v)), nil
	}
	return Color{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}

func (c Color) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

func (c *Color) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseColor(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// PixelColor pairs a position with a concrete color. It encodes as a
// two element array: [{"x":0,"y":0},"#ff0000"].
type PixelColor struct {
	Position Position
	Color    Color
}

func (p PixelColor) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]any{p.Position, p.Color})
}

func (p *PixelColor) UnmarshalJSON(data []byte) error {
	var pair []json.RawMessage
	if err := json.Unmarshal(data, &pair); err != nil {
		return err
	}
	if len(pair) != 2 {
		return fmt.Errorf("pixel must be a [position, color] pair")
	}
	if err := json.Unmarshal(pair[0], &p.Position); err != nil {
		return err
	}
	return json.Unmarshal(pair[1], &p.Color)
}

// PaletteEntry is one indexed palette color.
type PaletteEntry struct {
	Index ColorIndex `json:"index"`
	Color Color      `json:"color"`
}

// Palette maps color indices to colors and tracks the selected index.
// The selected index always refers to an existing entry.
type Palette struct {
	colors   map[ColorIndex]Color
	selected ColorIndex
}

// DefaultPalette returns white, red, green, blue and black with black selected.
func DefaultPalette() *Palette {
	return &Palette{
		colors: map[ColorIndex]Color{
			0: White,
			1: Red,
			2: Green,
			3: Blue,
			4: Black,
		},
		selected: 4,
	}
}

func (p *Palette) Color(i ColorIndex) (Color, bool) {
	c, ok := p.colors[i]
	return c, ok
}

func (p *Palette) Selected() ColorIndex { return p.selected }

func (p *Palette) SelectedColor() Color { return p.colors[p.selected] }

// Select changes the selected index. It fails without touching the palette
// when the index has no entry.
func (p *Palette) Select(i ColorIndex) error {
	if _, ok := p.colors[i]; !ok {
		return fmt.Errorf("%w: %d", ErrInvalidColorIndex, i)
	}
	p.selected = i
	return nil
}

// Lookup returns the lowest index holding c.
func (p *Palette) Lookup(c Color) (ColorIndex, bool) {
	found := false
	var best ColorIndex
	for i, pc := range p.colors {
		if pc == c && (!found || i < best) {
			best, found = i, true
		}
	}
	return best, found
}

// NextIndex is the index a newly inserted color receives.
func (p *Palette) NextIndex() ColorIndex {
	var next ColorIndex
	for i := range p.colors {
		if i >= next {
			next = i + 1
		}
	}
	return next
}

// Entries returns the palette sorted by index.
func (p *Palette) Entries() []PaletteEntry {
	entries := make([]PaletteEntry, 0, len(p.colors))
	for i, c := range p.colors {
		entries = append(entries, PaletteEntry{Index: i, Color: c})
	}
	sort.Slice(entries, func(a, b int) bool { return entries[a].Index < entries[b].Index })
	return entries
}

func (p *Palette) Len() int { return len(p.colors) }
