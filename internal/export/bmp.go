package export

import (
	"fmt"
	"io"
	"log"
	"os"

	"golang.org/x/image/bmp"

	"PixelBoard/internal/state"
)

// WriteBMP encodes sc as a bitmap.
func WriteBMP(w io.Writer, sc state.Scene, scale int) error {
	if err := bmp.Encode(w, Image(sc, scale)); err != nil {
		return fmt.Errorf("encode bmp: %w", err)
	}
	return nil
}

// SaveBMP writes sc to path as a bitmap.
func SaveBMP(path string, sc state.Scene, scale int) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteBMP(f, sc, scale); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	log.Printf("[EXPORT] Wrote %dx%d bitmap to %s", sc.Window.Width()*max(scale, 1), sc.Window.Height()*max(scale, 1), path)
	return nil
}
