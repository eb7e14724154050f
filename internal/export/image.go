// Package export turns scene snapshots into files: bitmaps, PDFs and the
// QR code of a share link.
package export

import (
	"image"
	"image/draw"

	xdraw "golang.org/x/image/draw"

	"PixelBoard/internal/state"
)

// Raster paints sc into an image with one image pixel per canvas pixel.
// Overlay pixels are painted over the base canvas.
func Raster(sc state.Scene) *image.NRGBA {
	w := sc.Window
	img := image.NewNRGBA(image.Rect(0, 0, w.Width(), w.Height()))
	draw.Draw(img, img.Bounds(), image.NewUniform(sc.Background.NRGBA()), image.Point{}, draw.Src)

	for p, c := range sc.Visible() {
		img.SetNRGBA(int(p.X)-int(w.Min.X), int(p.Y)-int(w.Min.Y), c.NRGBA())
	}
	return img
}

// Image renders sc with each canvas pixel enlarged to a scale x scale block.
func Image(sc state.Scene, scale int) image.Image {
	src := Raster(sc)
	if scale <= 1 {
		return src
	}
	b := src.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx()*scale, b.Dy()*scale))
	xdraw.NearestNeighbor.Scale(dst, dst.Bounds(), src, b, xdraw.Src, nil)
	return dst
}
