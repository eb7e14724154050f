package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func apply(t *testing.T, e *Engine, ins ...Intent) []Outcome {
	t.Helper()
	outs := make([]Outcome, 0, len(ins))
	for _, in := range ins {
		out, err := e.Apply(in)
		require.NoError(t, err, "intent %s", in.Name())
		outs = append(outs, out)
	}
	return outs
}

func paletteIndex(t *testing.T, e *Engine, c Color) ColorIndex {
	t.Helper()
	i, ok := e.State().Palette.Lookup(c)
	require.True(t, ok, "color %s not in palette", c)
	return i
}

func TestDrawPathThenUndo(t *testing.T) {
	e := NewEngine()
	apply(t, e,
		Dip{Color: Red},
		Mark{Kind: MarkPoint},
		Move{Delta: Pos(1, 0)},
		Move{Delta: Pos(1, 0)},
		Draw{},
	)

	s := e.State()
	red := paletteIndex(t, e, Red)
	assert.Equal(t, 3, s.Canvas.Len())
	for _, p := range []Position{Pos(0, 0), Pos(1, 0), Pos(2, 0)} {
		i, ok := s.Canvas.Get(p)
		assert.True(t, ok)
		assert.Equal(t, red, i)
	}
	assert.Nil(t, e.Marker())

	out := apply(t, e, Undo{})[0]
	assert.Equal(t, OpUndo, out.Op)
	assert.Equal(t, "draw", out.Group.Intent)
	assert.Equal(t, 0, s.Canvas.Len())
	assert.Equal(t, Pos(2, 0), s.Cursor)
	assert.Equal(t, red, s.Palette.Selected())
}

func TestDrawMarkedPathTurningCorner(t *testing.T) {
	e := NewEngine()
	apply(t, e,
		Dip{Color: Red},
		Mark{Kind: MarkPoint},
		Move{Delta: Pos(1, 0)},
		Move{Delta: Pos(0, 1)},
		Draw{},
	)

	s := e.State()
	red := paletteIndex(t, e, Red)
	assert.Equal(t, []Position{Pos(0, 0), Pos(1, 0), Pos(1, 1)}, s.Canvas.Positions())
	for _, p := range s.Canvas.Positions() {
		i, _ := s.Canvas.Get(p)
		assert.Equal(t, red, i)
	}

	apply(t, e, Undo{})
	assert.Equal(t, 0, s.Canvas.Len())
}

func TestRecolorReplacesSelectedEntry(t *testing.T) {
	e := NewEngine()
	s := e.State()
	selected := s.Palette.Selected()
	apply(t, e, Draw{})

	out := apply(t, e, Recolor{Color: Green})[0]
	assert.Equal(t, OpCommit, out.Op)
	assert.Equal(t, selected, s.Palette.Selected())
	c, _ := s.Palette.Color(selected)
	assert.Equal(t, Green, c)
	assert.Equal(t, Green, e.Scene(e.Window(3, 3)).Visible()[Pos(0, 0)])

	apply(t, e, Undo{})
	c, _ = s.Palette.Color(selected)
	assert.Equal(t, Black, c)

	apply(t, e, Redo{})
	c, _ = s.Palette.Color(selected)
	assert.Equal(t, Green, c)

	out = apply(t, e, Recolor{Color: Green})[0]
	assert.Equal(t, OpNone, out.Op, "recoloring to the same color is elided")
}

func TestMarkDoesNotLog(t *testing.T) {
	e := NewEngine()
	out := apply(t, e, Mark{Kind: MarkLine})[0]
	assert.Equal(t, OpNone, out.Op)
	assert.Equal(t, 0, e.History().Len())
	require.NotNil(t, e.Marker())
	assert.Equal(t, MarkLine, e.Marker().Kind)

	_, err := e.Apply(Mark{Kind: MarkPoint})
	assert.ErrorIs(t, err, ErrMarkerAlreadyActive)

	apply(t, e, Cancel{})
	assert.Nil(t, e.Marker())
}

func TestRectangleDraw(t *testing.T) {
	e := NewEngine()
	apply(t, e, Mark{Kind: MarkRectangle}, Move{Delta: Pos(2, 2)}, Draw{})
	assert.Equal(t, 9, e.State().Canvas.Len())
	assert.Equal(t, 2, e.History().Len())
}

func TestDipNewColorIsUndoable(t *testing.T) {
	e := NewEngine()
	c := RGB(0x12, 0x34, 0x56)
	apply(t, e, Dip{Color: c})

	p := e.State().Palette
	assert.Equal(t, 6, p.Len())
	assert.Equal(t, ColorIndex(5), p.Selected())
	assert.Equal(t, c, p.SelectedColor())

	apply(t, e, Undo{})
	assert.Equal(t, 5, p.Len())
	assert.Equal(t, ColorIndex(4), p.Selected())
}

func TestSelectInvalidColorLeavesState(t *testing.T) {
	e := NewEngine()
	_, err := e.Apply(SelectColor{Index: 99})
	assert.ErrorIs(t, err, ErrInvalidColorIndex)
	assert.Equal(t, ColorIndex(4), e.State().Palette.Selected())
	assert.Equal(t, 0, e.History().Len())

	apply(t, e, SelectColor{Index: 2})
	assert.Equal(t, Green, e.State().Palette.SelectedColor())
}

func TestPickRequiresPaintedPixel(t *testing.T) {
	e := NewEngine()
	_, err := e.Apply(Pick{})
	assert.ErrorIs(t, err, ErrUnpaintedPixel)

	apply(t, e, SelectColor{Index: 2}, Draw{}, SelectColor{Index: 0}, Pick{})
	assert.Equal(t, ColorIndex(2), e.State().Palette.Selected())
}

func TestLookupErrors(t *testing.T) {
	e := NewEngine()
	_, err := e.Apply(Move{Anchor: "home"})
	assert.ErrorIs(t, err, ErrUnknownAnchor)

	_, err = e.Apply(Checkout{Tag: "v1"})
	assert.ErrorIs(t, err, ErrUnknownTag)

	_, err = e.Apply(Remove{Target: RemoveTarget{Kind: TargetFrame, Name: "f"}})
	assert.ErrorIs(t, err, ErrUnknownTarget)

	_, err = e.Apply(Copy{})
	assert.ErrorIs(t, err, ErrNoActiveMarker)
	assert.Equal(t, 0, e.History().Len())
}

func TestAnchorsMoveAndCenter(t *testing.T) {
	e := NewEngine()
	apply(t, e,
		Move{Delta: Pos(5, -3)},
		SetAnchor{Anchor: "home"},
		Move{Delta: Pos(10, 10)},
		Move{Anchor: "home"},
	)
	assert.Equal(t, Pos(5, -3), e.State().Cursor)

	apply(t, e, Move{Delta: Pos(1, 1)}, Center{Anchor: "home"})
	assert.Equal(t, Pos(5, -3), e.State().Camera)

	apply(t, e, Remove{Target: RemoveTarget{Kind: TargetAnchor, Name: "home"}})
	assert.Empty(t, e.State().AnchorNames())

	apply(t, e, Undo{})
	assert.Equal(t, []string{"home"}, e.State().AnchorNames())
}

func TestNullEffectsKeepRedo(t *testing.T) {
	e := NewEngine()
	apply(t, e, Draw{})

	out := apply(t, e, Draw{})[0]
	assert.Equal(t, OpNone, out.Op)
	assert.Equal(t, 1, e.History().Len())

	apply(t, e, Undo{}, Move{}, Scale{Delta: -1})
	assert.True(t, e.History().CanRedo())

	apply(t, e, Redo{})
	assert.Equal(t, 1, e.State().Canvas.Len())
}

func TestUndoRedoAtBoundsAreNoops(t *testing.T) {
	e := NewEngine()
	out := apply(t, e, Undo{})[0]
	assert.Equal(t, OpNone, out.Op)

	apply(t, e, Draw{})
	out = apply(t, e, Redo{})[0]
	assert.Equal(t, OpNone, out.Op)
}

func TestCommitTruncatesRedo(t *testing.T) {
	e := NewEngine()
	apply(t, e, Draw{}, Move{Delta: Pos(1, 0)}, Draw{}, Undo{}, Undo{})
	assert.Equal(t, 3, e.History().Len())
	assert.Equal(t, 1, e.History().Pointer())

	apply(t, e, Move{Delta: Pos(0, 1)})
	assert.Equal(t, e.History().Pointer(), e.History().Len())
	assert.False(t, e.History().CanRedo())
}

func TestUndoAllRedoAll(t *testing.T) {
	e := NewEngine()
	script := []Intent{
		Dip{Color: RGB(9, 9, 9)},
		Mark{Kind: MarkRectangle},
		Move{Delta: Pos(3, 2)},
		Draw{},
		BackgroundColor{Color: Blue},
		Scale{Delta: 4},
		Move{Delta: Pos(-1, 0)},
		Erase{},
		SetTag{Tag: "t"},
		Import{Pixels: []PixelColor{{Position: Pos(7, 7), Color: RGB(1, 2, 3)}}},
		Center{},
	}
	apply(t, e, script...)

	s := e.State()
	final := s.Canvas.Clone()
	finalPalette := s.Palette.Entries()
	finalCursor := s.Cursor

	for e.Undo() {
	}
	assert.Equal(t, 0, s.Canvas.Len())
	assert.Equal(t, DefaultPalette().Entries(), s.Palette.Entries())
	assert.Equal(t, Position{}, s.Cursor)
	assert.Equal(t, White, s.Background)
	assert.Equal(t, MinScale, s.Scale)
	assert.Empty(t, s.TagNames())

	for e.Redo() {
	}
	assert.True(t, final.Equal(s.Canvas))
	assert.Equal(t, finalPalette, s.Palette.Entries())
	assert.Equal(t, finalCursor, s.Cursor)
	assert.Equal(t, []string{"t"}, s.TagNames())
}

func TestScaleClamps(t *testing.T) {
	e := NewEngine()
	apply(t, e, Scale{Delta: 100}, Scale{Delta: 100})
	assert.Equal(t, MaxScale, e.State().Scale)
	assert.Equal(t, 1, e.History().Len())

	apply(t, e, Scale{Delta: -128}, Scale{Delta: -128})
	assert.Equal(t, MinScale, e.State().Scale)
}

func TestCheckoutRestoresTaggedCanvas(t *testing.T) {
	e := NewEngine()
	apply(t, e,
		Draw{},
		SetTag{Tag: "v1"},
		Move{Delta: Pos(1, 0)},
		Draw{},
	)
	s := e.State()
	require.Equal(t, 2, s.Canvas.Len())

	out := apply(t, e, Checkout{Tag: "v1"})[0]
	assert.Equal(t, OpCommit, out.Op)
	assert.Equal(t, []Position{Pos(0, 0)}, s.Canvas.Positions())
	assert.Equal(t, []string{"v1"}, s.TagNames())

	again := apply(t, e, Checkout{Tag: "v1"})[0]
	assert.Equal(t, OpNone, again.Op)
	assert.Equal(t, 5, e.History().Len())

	apply(t, e, Undo{})
	assert.Equal(t, 2, s.Canvas.Len())
}

func TestCheckoutAndRewindDiffer(t *testing.T) {
	build := func() *Engine {
		e := NewEngine()
		apply(t, e, Draw{}, SetTag{Tag: "v1"}, Move{Delta: Pos(1, 0)}, Draw{})
		return e
	}

	checkedOut := build()
	apply(t, checkedOut, Checkout{Tag: "v1"})

	rewound := build()
	outs, err := rewound.Rewind("v1")
	require.NoError(t, err)
	assert.Len(t, outs, 3)

	assert.True(t, checkedOut.State().Canvas.Equal(rewound.State().Canvas))
	assert.Equal(t, 5, checkedOut.History().Pointer())
	assert.Equal(t, 1, rewound.History().Pointer())
	assert.True(t, rewound.History().CanRedo())
	assert.Empty(t, rewound.State().TagNames())

	_, err = rewound.Rewind("v1")
	assert.ErrorIs(t, err, ErrUnknownTag)
}

func TestCopyPaste(t *testing.T) {
	e := NewEngine()
	apply(t, e,
		SelectColor{Index: 1},
		Draw{},
		Move{Delta: Pos(1, 1)},
		SelectColor{Index: 3},
		Draw{},
		Move{Delta: Pos(-1, -1)},
		Mark{Kind: MarkRectangle},
		Move{Delta: Pos(1, 1)},
		Copy{},
	)
	assert.Nil(t, e.Marker())
	assert.Equal(t, []PixelColor{
		{Position: Pos(0, 0), Color: Red},
		{Position: Pos(1, 1), Color: Blue},
	}, e.Clipboard())

	apply(t, e, Move{Delta: Pos(4, 4)}, Paste{})
	s := e.State()
	i, ok := s.Canvas.Get(Pos(5, 5))
	assert.True(t, ok)
	assert.Equal(t, ColorIndex(1), i)
	i, ok = s.Canvas.Get(Pos(6, 6))
	assert.True(t, ok)
	assert.Equal(t, ColorIndex(3), i)
}

func TestCutClearsSource(t *testing.T) {
	e := NewEngine()
	apply(t, e, Draw{}, Mark{Kind: MarkPoint}, Cut{})
	assert.Equal(t, 0, e.State().Canvas.Len())
	assert.Len(t, e.Clipboard(), 1)

	apply(t, e, Undo{})
	assert.Equal(t, 1, e.State().Canvas.Len())
}

func TestFlipAndRotate(t *testing.T) {
	e := NewEngine()
	apply(t, e,
		Draw{},
		Move{Delta: Pos(1, 0)},
		SelectColor{Index: 1},
		Draw{},
		Flip{Direction: FlipHorizontal},
	)
	s := e.State()
	left, _ := s.Canvas.Get(Pos(0, 0))
	right, _ := s.Canvas.Get(Pos(1, 0))
	assert.Equal(t, ColorIndex(1), left)
	assert.Equal(t, ColorIndex(4), right)

	apply(t, e, Rotate{})
	assert.Equal(t, []Position{Pos(0, 0), Pos(0, 1)}, s.Canvas.Positions())
	top, _ := s.Canvas.Get(Pos(0, 0))
	bottom, _ := s.Canvas.Get(Pos(0, 1))
	assert.Equal(t, ColorIndex(1), top)
	assert.Equal(t, ColorIndex(4), bottom)
}

func TestImportLastWins(t *testing.T) {
	e := NewEngine()
	apply(t, e, Import{Pixels: []PixelColor{
		{Position: Pos(2, 2), Color: Green},
		{Position: Pos(2, 2), Color: Blue},
	}})
	i, ok := e.State().Canvas.Get(Pos(2, 2))
	assert.True(t, ok)
	assert.Equal(t, ColorIndex(3), i)
	assert.Equal(t, 1, e.History().Len())
}

func TestEmbedAndTickOverlay(t *testing.T) {
	e := NewEngine()
	apply(t, e, Embed{Frame: Frame{
		Name:     "blink",
		Start:    2,
		Duration: 3,
		Pixels:   []PixelColor{{Position: Pos(5, 5), Color: Red}},
	}})
	tl := e.State().Timeline
	assert.Empty(t, tl.Overlay())

	apply(t, e, Tick{Delta: 2})
	assert.Equal(t, map[Position]Color{Pos(5, 5): Red}, tl.Overlay())

	sc := e.Scene(Rect{Min: Pos(0, 0), Max: Pos(9, 9)})
	assert.Equal(t, []PixelColor{{Position: Pos(5, 5), Color: Red}}, sc.Overlay)
	assert.Empty(t, sc.Pixels)

	apply(t, e, Tick{Delta: 3})
	assert.Empty(t, tl.Overlay())

	apply(t, e, Tick{Delta: -100})
	assert.Equal(t, Ticks(0), tl.Clock())
}

func TestPlaybackAdvance(t *testing.T) {
	e := NewEngine()
	apply(t, e, Play{Playback: Playback{Offset: 2, Duration: 3, FPS: 10}})
	tl := e.State().Timeline
	assert.Equal(t, Ticks(2), tl.Clock())
	assert.True(t, tl.Playing())

	assert.True(t, e.Advance())
	assert.True(t, e.Advance())
	assert.False(t, e.Advance())
	assert.Equal(t, Ticks(5), tl.Clock())
	assert.False(t, tl.Playing())
	assert.Equal(t, 1, e.History().Len())
}

func TestPlaybackRepeat(t *testing.T) {
	e := NewEngine()
	apply(t, e, Play{Playback: Playback{Offset: 2, Duration: 3, FPS: 10, Repeat: true}})
	for range 3 {
		assert.True(t, e.Advance())
	}
	assert.Equal(t, Ticks(2), e.State().Timeline.Clock())
}

func TestExternalAndQuitPassThrough(t *testing.T) {
	e := NewEngine()
	out := apply(t, e, ExternalCommand{Program: "echo", Args: []string{"hi"}})[0]
	require.NotNil(t, out.External)
	assert.Equal(t, "echo", out.External.Program)
	assert.Equal(t, OpNone, out.Op)

	out = apply(t, e, Quit{})[0]
	assert.True(t, out.Quit)
}

func TestSceneReportsMarker(t *testing.T) {
	e := NewEngine()
	apply(t, e, Draw{}, Mark{Kind: MarkLine}, Move{Delta: Pos(2, 0)})
	sc := e.Scene(e.Window(9, 9))
	assert.True(t, sc.Marking)
	assert.Equal(t, []Position{Pos(0, 0), Pos(1, 0), Pos(2, 0)}, sc.Marked)
	assert.Equal(t, []PixelColor{{Position: Pos(0, 0), Color: Black}}, sc.Pixels)
	assert.Equal(t, Black, sc.Brush)
	assert.Equal(t, Pos(2, 0), sc.Cursor)
}
