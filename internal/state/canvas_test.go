package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanvasOrderAndRange(t *testing.T) {
	c := NewCanvas()
	c.Set(Pos(3, 1), 1)
	c.Set(Pos(-2, 0), 2)
	c.Set(Pos(0, 1), 3)
	c.Set(Pos(9, 9), 4)

	assert.Equal(t, []Position{Pos(-2, 0), Pos(0, 1), Pos(3, 1), Pos(9, 9)}, c.Positions())

	var seen []Position
	c.Range(Rect{Min: Pos(0, 0), Max: Pos(5, 5)}, func(p Position, _ ColorIndex) bool {
		seen = append(seen, p)
		return true
	})
	assert.Equal(t, []Position{Pos(0, 1), Pos(3, 1)}, seen)

	bounds, ok := c.Bounds()
	assert.True(t, ok)
	assert.Equal(t, Rect{Min: Pos(-2, 0), Max: Pos(9, 9)}, bounds)
}

func TestCanvasSetDelete(t *testing.T) {
	c := NewCanvas()
	_, had := c.Set(Pos(1, 1), 2)
	assert.False(t, had)

	prev, had := c.Set(Pos(1, 1), 3)
	assert.True(t, had)
	assert.Equal(t, ColorIndex(2), prev)

	clone := c.Clone()
	prev, had = c.Delete(Pos(1, 1))
	assert.True(t, had)
	assert.Equal(t, ColorIndex(3), prev)
	assert.Equal(t, 0, c.Len())
	assert.Equal(t, 1, clone.Len())
	assert.False(t, c.Equal(clone))

	_, had = c.Delete(Pos(1, 1))
	assert.False(t, had)
}

func TestPositionSaturates(t *testing.T) {
	p := Pos(32760, -32760).Add(Pos(100, -100))
	assert.Equal(t, Pos(32767, -32768), p)
}

func TestWindowAround(t *testing.T) {
	r := WindowAround(Pos(0, 0), 4, 3)
	assert.Equal(t, 4, r.Width())
	assert.Equal(t, 3, r.Height())
	assert.True(t, r.Contains(Pos(0, 0)))
}

func TestParseColor(t *testing.T) {
	c, err := ParseColor("#ff8000")
	assert.NoError(t, err)
	assert.Equal(t, RGB(255, 128, 0), c)
	assert.Equal(t, "#ff8000", c.String())

	c, err = ParseColor("#00000080")
	assert.NoError(t, err)
	assert.Equal(t, uint8(0x80), c.A)

	_, err = ParseColor("red")
	assert.Error(t, err)
}

func TestPaletteLookupAndSelect(t *testing.T) {
	p := DefaultPalette()
	i, ok := p.Lookup(Blue)
	assert.True(t, ok)
	assert.Equal(t, ColorIndex(3), i)
	assert.Equal(t, ColorIndex(5), p.NextIndex())

	err := p.Select(42)
	assert.ErrorIs(t, err, ErrInvalidColorIndex)
	assert.Equal(t, ColorIndex(4), p.Selected())
	assert.Equal(t, Black, p.SelectedColor())
}
