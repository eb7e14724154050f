package ui

import (
	"image"
	"image/color"
	"sync"
	"sync/atomic"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/widget"

	"PixelBoard/internal/export"
	"PixelBoard/internal/state"
)

// basePixel is the on-screen edge of one canvas pixel at scale 1.
const basePixel float32 = 4

var (
	markColor   = color.NRGBA{R: 0, G: 170, B: 255, A: 255}
	cursorColor = color.NRGBA{R: 255, G: 0, B: 200, A: 255}
)

// Poster is the editor queue as seen by the UI.
type Poster interface {
	Post(in state.Intent)
	SetViewport(width, height int)
	Refresh()
}

// Board displays the latest scene as a pixel raster and turns taps and
// scrolls into intents.
type Board struct {
	widget.BaseWidget

	mu     sync.RWMutex
	scene  state.Scene
	size   fyne.Size
	cols   int
	rows   int
	poster Poster
	live   atomic.Bool

	OnScene func(state.Scene)
}

var _ fyne.Widget = (*Board)(nil)
var _ fyne.Tappable = (*Board)(nil)
var _ fyne.Scrollable = (*Board)(nil)

func NewBoard(poster Poster) *Board {
	b := &Board{poster: poster, scene: state.Scene{Scale: state.MinScale, Background: state.White}}
	b.ExtendBaseWidget(b)
	return b
}

// ShowScene stores sc and schedules a redraw while the window is up. Safe from
// any goroutine.
func (b *Board) ShowScene(sc state.Scene) {
	b.mu.Lock()
	b.scene = sc
	b.mu.Unlock()
	b.updateViewport()
	if !b.live.Load() {
		return
	}

	fyne.Do(func() {
		b.Refresh()
		if b.OnScene != nil {
			b.OnScene(sc)
		}
	})
}

// Scene returns the scene currently on screen.
func (b *Board) Scene() state.Scene {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.scene
}

func (b *Board) cellSize() float32 {
	return basePixel * float32(max(b.scene.Scale, state.MinScale))
}

// updateViewport tells the editor how many canvas pixels fit on screen.
func (b *Board) updateViewport() {
	b.mu.Lock()
	if b.size.Width <= 0 || b.size.Height <= 0 {
		b.mu.Unlock()
		return
	}
	cell := b.cellSize()
	cols := max(int(b.size.Width/cell), 1)
	rows := max(int(b.size.Height/cell), 1)
	changed := cols != b.cols || rows != b.rows
	b.cols, b.rows = cols, rows
	b.mu.Unlock()

	if changed {
		b.poster.SetViewport(cols, rows)
		b.poster.Refresh()
	}
}

func (b *Board) resized(size fyne.Size) {
	b.mu.Lock()
	b.size = size
	b.mu.Unlock()
	b.updateViewport()
}

// Tapped moves the cursor to the tapped pixel.
func (b *Board) Tapped(ev *fyne.PointEvent) {
	b.mu.RLock()
	sc := b.scene
	cell := b.cellSize()
	b.mu.RUnlock()

	target := sc.Window.Min.Add(state.Pos(int16(ev.Position.X/cell), int16(ev.Position.Y/cell)))
	if target != sc.Cursor {
		b.poster.Post(state.Move{Delta: target.Sub(sc.Cursor)})
	}
}

// Scrolled zooms in and out.
func (b *Board) Scrolled(ev *fyne.ScrollEvent) {
	switch {
	case ev.Scrolled.DY > 0:
		b.poster.Post(state.Scale{Delta: 1})
	case ev.Scrolled.DY < 0:
		b.poster.Post(state.Scale{Delta: -1})
	}
}

func (b *Board) CreateRenderer() fyne.WidgetRenderer {
	r := &boardRenderer{board: b}
	r.background = canvas.NewRectangle(color.White)
	r.raster = canvas.NewRaster(func(w, h int) image.Image {
		return compose(b.Scene())
	})
	r.raster.ScaleMode = canvas.ImageScalePixels
	return r
}

type boardRenderer struct {
	board      *Board
	background *canvas.Rectangle
	raster     *canvas.Raster
}

func (r *boardRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.background, r.raster}
}

func (r *boardRenderer) Layout(size fyne.Size) {
	r.background.Resize(size)
	r.raster.Resize(size)
	r.board.resized(size)
}

func (r *boardRenderer) MinSize() fyne.Size {
	return fyne.NewSize(320, 240)
}

func (r *boardRenderer) Refresh() {
	r.background.FillColor = r.board.Scene().Background.NRGBA()
	r.background.Refresh()
	r.raster.Refresh()
}

func (r *boardRenderer) Destroy() {}

// compose draws sc with the marked pixels tinted and the cursor
// highlighted.
func compose(sc state.Scene) *image.NRGBA {
	img := export.Raster(sc)
	at := func(p state.Position) (int, int) {
		return int(p.X) - int(sc.Window.Min.X), int(p.Y) - int(sc.Window.Min.Y)
	}
	for _, p := range sc.Marked {
		x, y := at(p)
		img.SetNRGBA(x, y, blend(img.NRGBAAt(x, y), markColor))
	}
	if sc.Window.Contains(sc.Cursor) {
		x, y := at(sc.Cursor)
		img.SetNRGBA(x, y, blend(img.NRGBAAt(x, y), cursorColor))
	}
	return img
}

// blend mixes a and b half and half.
func blend(a, b color.NRGBA) color.NRGBA {
	return color.NRGBA{
		R: uint8((uint16(a.R) + uint16(b.R)) / 2),
		G: uint8((uint16(a.G) + uint16(b.G)) / 2),
		B: uint8((uint16(a.B) + uint16(b.B)) / 2),
		A: 255,
	}
}
