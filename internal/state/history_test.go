package state

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReconstructMatchesReplay(t *testing.T) {
	e := NewEngine(WithSnapshotInterval(3))
	for i := range 20 {
		apply(t, e,
			SelectColor{Index: ColorIndex(i % 5)},
			Move{Delta: Pos(int16(i%3), 1)},
			Draw{},
		)
		if i%4 == 3 {
			apply(t, e, Undo{}, Undo{}, Erase{})
		}
	}

	h := e.History()
	require.Greater(t, h.Pointer(), 3)
	for pos := 0; pos <= h.Pointer(); pos++ {
		assert.True(t, h.Replay(pos).Equal(h.Reconstruct(pos)), "position %d", pos)
	}
	assert.True(t, h.Reconstruct(h.Pointer()).Equal(e.State().Canvas))
}

func TestReconstructAfterTruncation(t *testing.T) {
	e := NewEngine(WithSnapshotInterval(2))
	apply(t, e, Draw{}, Move{Delta: Pos(1, 0)}, Draw{}, Move{Delta: Pos(1, 0)}, Draw{})
	for range 4 {
		require.True(t, e.Undo())
	}
	apply(t, e, Move{Delta: Pos(0, 5)}, Draw{}, Move{Delta: Pos(0, 1)})

	h := e.History()
	for pos := 0; pos <= h.Pointer(); pos++ {
		assert.True(t, h.Replay(pos).Equal(h.Reconstruct(pos)), "position %d", pos)
	}
}

func TestGroupJSONRoundTrip(t *testing.T) {
	e := NewEngine()
	apply(t, e,
		Dip{Color: RGB(1, 2, 3)},
		Mark{Kind: MarkRectangle},
		Move{Delta: Pos(1, 1)},
		Draw{},
		SetTag{Tag: "v1"},
		Embed{Frame: Frame{Name: "f", Duration: 2, Pixels: []PixelColor{{Position: Pos(1, 1), Color: Red}}}},
		Play{Playback: Playback{Duration: 4, FPS: 12}},
	)

	data, err := json.Marshal(e.History().Groups())
	require.NoError(t, err)

	var groups []Group
	require.NoError(t, json.Unmarshal(data, &groups))

	replayed := NewEngine()
	for _, g := range groups {
		replayed.Commit(g)
	}
	assert.True(t, e.State().Canvas.Equal(replayed.State().Canvas))
	assert.Equal(t, e.State().Palette.Entries(), replayed.State().Palette.Entries())
	assert.Equal(t, e.State().TagNames(), replayed.State().TagNames())

	pb, ok := replayed.State().Timeline.Playback()
	assert.True(t, ok)
	assert.Equal(t, uint8(12), pb.FPS)

	for replayed.Undo() {
	}
	assert.Equal(t, 0, replayed.State().Canvas.Len())
	assert.Empty(t, replayed.State().Timeline.Frames())
}

func TestEffectsSkipUnknownKinds(t *testing.T) {
	var es Effects
	err := json.Unmarshal([]byte(`[{"pixel":{"pos":{"x":1,"y":2},"new":3}},{"sparkle":{"level":9}}]`), &es)
	require.NoError(t, err)
	require.Len(t, es, 1)

	px, ok := es[0].(PixelEffect)
	require.True(t, ok)
	assert.Equal(t, Pos(1, 2), px.Pos)
	assert.Nil(t, px.Old)
	assert.Equal(t, ColorIndex(3), *px.New)
}

func TestEffectsInverseOrder(t *testing.T) {
	es := Effects{
		CursorEffect{Old: Pos(0, 0), New: Pos(1, 0)},
		ScaleEffect{Old: 1, New: 2},
	}
	inv := es.Inverse()
	require.Len(t, inv, 2)
	assert.Equal(t, ScaleEffect{Old: 2, New: 1}, inv[0])
	assert.Equal(t, CursorEffect{Old: Pos(1, 0), New: Pos(0, 0)}, inv[1])
}
