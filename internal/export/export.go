package export

import (
	"fmt"
	"path/filepath"
	"strings"

	"PixelBoard/internal/state"
)

// Save picks the format from the file extension: .bmp or .pdf.
func Save(path string, sc state.Scene, scale int) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".bmp":
		return SaveBMP(path, sc, scale)
	case ".pdf":
		return SavePDF(path, sc, filepath.Base(path))
	}
	return fmt.Errorf("unsupported export format %q", filepath.Ext(path))
}
