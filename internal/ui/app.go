package ui

import (
	"context"
	"image"
	"log"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"PixelBoard/internal/config"
	"PixelBoard/internal/export"
	"PixelBoard/internal/state"
)

// Options configure the editor window.
type Options struct {
	Title     string
	Keys      config.KeyMap
	ShareLink string
	QR        image.Image
}

// Run shows the editor window and blocks until it closes or ctx is done.
// It must be called from the main goroutine.
func Run(ctx context.Context, board *Board, opts Options) {
	a := app.New()
	w := a.NewWindow(opts.Title)
	w.Resize(fyne.NewSize(1024, 768))

	post := board.poster.Post

	var onShare func()
	if opts.ShareLink != "" {
		onShare = func() { showShare(w, opts.ShareLink, opts.QR) }
	}
	toolbar := NewToolbar(post, func() { showExport(w, board) }, onShare)
	board.OnScene = toolbar.Update

	w.SetContent(container.NewBorder(toolbar.Object, toolbar.Status, nil, nil, board))
	BindKeys(w.Canvas(), opts.Keys, post)
	w.SetCloseIntercept(func() {
		post(state.Quit{})
		w.Close()
	})

	go func() {
		<-ctx.Done()
		fyne.Do(a.Quit)
	}()

	board.live.Store(true)
	defer board.live.Store(false)
	board.poster.Refresh()
	w.ShowAndRun()
}

func showExport(w fyne.Window, board *Board) {
	dialog.ShowFileSave(func(uc fyne.URIWriteCloser, err error) {
		if err != nil || uc == nil {
			return
		}
		path := uc.URI().Path()
		uc.Close()
		if err := export.Save(path, board.Scene(), 8); err != nil {
			log.Printf("[UI] Export failed: %v", err)
			dialog.ShowError(err, w)
		}
	}, w)
}

func showShare(w fyne.Window, link string, qr image.Image) {
	objects := []fyne.CanvasObject{widget.NewLabel(link)}
	if qr != nil {
		img := canvas.NewImageFromImage(qr)
		img.FillMode = canvas.ImageFillOriginal
		objects = append(objects, img)
	}
	dialog.ShowCustom("Remote control", "Close", container.NewVBox(objects...), w)
}
