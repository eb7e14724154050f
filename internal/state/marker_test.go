package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMarkerRectangleCoversBox(t *testing.T) {
	m := NewMarker(MarkRectangle, Pos(0, 0)).Visit(Pos(1, 0)).Visit(Pos(2, 2))
	covered := m.Covered()
	assert.Len(t, covered, 9)
	assert.Equal(t, Pos(0, 0), covered[0])
	assert.Equal(t, Pos(2, 2), covered[8])
}

func TestMarkerRectangleAnyCorner(t *testing.T) {
	a := NewMarker(MarkRectangle, Pos(2, 2)).Visit(Pos(-1, 0)).Covered()
	b := NewMarker(MarkRectangle, Pos(-1, 0)).Visit(Pos(2, 2)).Covered()
	assert.Equal(t, a, b)
	assert.Len(t, a, 12)
}

func TestMarkerLine(t *testing.T) {
	covered := NewMarker(MarkLine, Pos(0, 0)).Visit(Pos(3, 1)).Covered()
	assert.Len(t, covered, 4)
	assert.Contains(t, covered, Pos(0, 0))
	assert.Contains(t, covered, Pos(3, 1))
}

func TestMarkerPointKeepsPath(t *testing.T) {
	m := NewMarker(MarkPoint, Pos(0, 0))
	m = m.Visit(Pos(0, 0)).Visit(Pos(1, 0)).Visit(Pos(1, 1)).Visit(Pos(0, 0))
	assert.Equal(t, []Position{Pos(0, 0), Pos(1, 0), Pos(1, 1), Pos(0, 0)}, m.Path)
	assert.Equal(t, []Position{Pos(0, 0), Pos(1, 0), Pos(1, 1)}, m.Covered())
}

func TestMarkerFillSquare(t *testing.T) {
	m := NewMarker(MarkFill, Pos(0, 0)).
		Visit(Pos(4, 0)).
		Visit(Pos(4, 4)).
		Visit(Pos(0, 4))
	covered := m.Covered()
	assert.Len(t, covered, 25)
	assert.Contains(t, covered, Pos(2, 2))
}

func TestMarkerVisitDoesNotAlias(t *testing.T) {
	m := NewMarker(MarkPoint, Pos(0, 0))
	n := m.Visit(Pos(1, 0))
	assert.Len(t, m.Path, 1)
	assert.Len(t, n.Path, 2)
}
