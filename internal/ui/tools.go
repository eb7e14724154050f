package ui

import (
	"fmt"
	"image/color"
	"slices"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"PixelBoard/internal/state"
)

// colorSwatch is one palette entry; tapping it selects the entry.
type colorSwatch struct {
	widget.BaseWidget
	Color    color.Color
	Selected bool
	OnTapped func()
}

func newColorSwatch(c color.Color, selected bool, tapped func()) *colorSwatch {
	s := &colorSwatch{Color: c, Selected: selected, OnTapped: tapped}
	s.ExtendBaseWidget(s)
	return s
}

func (s *colorSwatch) CreateRenderer() fyne.WidgetRenderer {
	rect := canvas.NewRectangle(s.Color)
	rect.SetMinSize(fyne.NewSize(28, 28))

	border := canvas.NewRectangle(color.Transparent)
	border.StrokeColor = color.Gray{Y: 150}
	border.StrokeWidth = 1
	if s.Selected {
		border.StrokeColor = color.Black
		border.StrokeWidth = 3
	}

	return widget.NewSimpleRenderer(container.NewStack(rect, border))
}

func (s *colorSwatch) Tapped(_ *fyne.PointEvent) {
	if s.OnTapped != nil {
		s.OnTapped()
	}
}

// Toolbar shows editing actions, the palette and a status line.
type Toolbar struct {
	Object fyne.CanvasObject
	Status *widget.Label

	post     func(state.Intent)
	swatches *fyne.Container
	palette  []state.PaletteEntry
	selected state.ColorIndex
}

// NewToolbar builds the toolbar. onExport and onShare may be nil.
func NewToolbar(post func(state.Intent), onExport, onShare func()) *Toolbar {
	t := &Toolbar{
		post:     post,
		swatches: container.NewHBox(),
		Status:   widget.NewLabel("Ready"),
	}

	items := []widget.ToolbarItem{
		widget.NewToolbarAction(theme.DocumentCreateIcon(), func() { post(state.Draw{}) }),
		widget.NewToolbarAction(theme.DeleteIcon(), func() { post(state.Erase{}) }),
		widget.NewToolbarAction(theme.ContentCutIcon(), func() { post(state.Cut{}) }),
		widget.NewToolbarAction(theme.ContentCopyIcon(), func() { post(state.Copy{}) }),
		widget.NewToolbarAction(theme.ContentPasteIcon(), func() { post(state.Paste{}) }),
		widget.NewToolbarSeparator(),
		widget.NewToolbarAction(theme.ContentUndoIcon(), func() { post(state.Undo{}) }),
		widget.NewToolbarAction(theme.ContentRedoIcon(), func() { post(state.Redo{}) }),
		widget.NewToolbarSeparator(),
		widget.NewToolbarAction(theme.ZoomInIcon(), func() { post(state.Scale{Delta: 1}) }),
		widget.NewToolbarAction(theme.ZoomOutIcon(), func() { post(state.Scale{Delta: -1}) }),
		widget.NewToolbarAction(theme.MediaPlayIcon(), func() {
			post(state.Play{Playback: state.Playback{Duration: 60, FPS: 12, Repeat: true}})
		}),
	}
	if onExport != nil {
		items = append(items, widget.NewToolbarSeparator(), widget.NewToolbarAction(theme.DocumentSaveIcon(), onExport))
	}
	if onShare != nil {
		items = append(items, widget.NewToolbarAction(theme.MailSendIcon(), onShare))
	}

	t.Object = container.NewHBox(
		widget.NewToolbar(items...),
		widget.NewSeparator(),
		widget.NewLabel("Color:"),
		t.swatches,
		layout.NewSpacer(),
	)
	return t
}

// Update reflects sc. It must run on the fyne goroutine.
func (t *Toolbar) Update(sc state.Scene) {
	if !slices.Equal(t.palette, sc.Palette) || t.selected != sc.Selected {
		t.palette = sc.Palette
		t.selected = sc.Selected
		objects := make([]fyne.CanvasObject, 0, len(sc.Palette))
		for _, entry := range sc.Palette {
			index := entry.Index
			objects = append(objects, newColorSwatch(entry.Color.NRGBA(), index == sc.Selected, func() {
				t.post(state.SelectColor{Index: index})
			}))
		}
		t.swatches.Objects = objects
		t.swatches.Refresh()
	}
	t.Status.SetText(statusLine(sc))
}

func statusLine(sc state.Scene) string {
	s := fmt.Sprintf("cursor %s  scale %dx  brush %s  clock %d", sc.Cursor, sc.Scale, sc.Brush, sc.Clock)
	if sc.Playing {
		s += "  playing"
	}
	if sc.Marking {
		s += fmt.Sprintf("  marking %d px", len(sc.Marked))
	}
	return s
}
