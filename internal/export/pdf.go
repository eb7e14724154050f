package export

import (
	"fmt"
	"io"
	"log"

	"github.com/jung-kurt/gofpdf"

	"PixelBoard/internal/state"
)

// CellSize is the edge of one canvas pixel on the PDF page, in millimetres.
const CellSize = 2.0

const pdfMargin = 10.0

func newPDF(sc state.Scene, title string) *gofpdf.Fpdf {
	w := float64(sc.Window.Width())*CellSize + 2*pdfMargin
	h := float64(sc.Window.Height())*CellSize + 2*pdfMargin + 8
	p := gofpdf.NewCustom(&gofpdf.InitType{
		UnitStr: "mm",
		Size:    gofpdf.SizeType{Wd: w, Ht: h},
	})
	p.SetTitle(title, true)
	p.SetCreator("PixelBoard", true)
	p.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	p.SetAutoPageBreak(false, 0)
	p.AddPage()

	p.SetFont("Helvetica", "", 9)
	p.CellFormat(0, 6, title, "", 1, "L", false, 0, "")

	top := p.GetY()
	bg := sc.Background
	p.SetFillColor(int(bg.R), int(bg.G), int(bg.B))
	p.Rect(pdfMargin, top, float64(sc.Window.Width())*CellSize, float64(sc.Window.Height())*CellSize, "F")

	for pos, c := range sc.Visible() {
		x := pdfMargin + float64(int(pos.X)-int(sc.Window.Min.X))*CellSize
		y := top + float64(int(pos.Y)-int(sc.Window.Min.Y))*CellSize
		if c.A < 255 {
			p.SetAlpha(float64(c.A)/255, "Normal")
		}
		p.SetFillColor(int(c.R), int(c.G), int(c.B))
		p.Rect(x, y, CellSize, CellSize, "F")
		if c.A < 255 {
			p.SetAlpha(1, "Normal")
		}
	}
	return p
}

// WritePDF renders sc as a single-page PDF.
func WritePDF(w io.Writer, sc state.Scene, title string) error {
	p := newPDF(sc, title)
	if err := p.Output(w); err != nil {
		return fmt.Errorf("render pdf: %w", err)
	}
	return nil
}

// SavePDF writes sc to path as a PDF.
func SavePDF(path string, sc state.Scene, title string) error {
	p := newPDF(sc, title)
	if err := p.OutputFileAndClose(path); err != nil {
		return fmt.Errorf("write pdf %s: %w", path, err)
	}
	log.Printf("[EXPORT] Wrote PDF to %s", path)
	return nil
}
