package export

import (
	"bytes"
	"image/color"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"

	"PixelBoard/internal/state"
)

func testScene(t *testing.T) state.Scene {
	t.Helper()
	e := state.NewEngine()
	for _, in := range []state.Intent{
		state.Move{Delta: state.Pos(1, 0)},
		state.SelectColor{Index: 1},
		state.Draw{},
		state.Embed{Frame: state.Frame{
			Name:     "f",
			Duration: 1,
			Pixels:   []state.PixelColor{{Position: state.Pos(2, 1), Color: state.Blue}},
		}},
	} {
		_, err := e.Apply(in)
		require.NoError(t, err)
	}
	return e.Scene(state.Rect{Min: state.Pos(0, 0), Max: state.Pos(2, 1)})
}

func TestRaster(t *testing.T) {
	img := Raster(testScene(t))
	assert.Equal(t, 3, img.Bounds().Dx())
	assert.Equal(t, 2, img.Bounds().Dy())
	assert.Equal(t, color.NRGBA{R: 255, G: 255, B: 255, A: 255}, img.NRGBAAt(0, 0))
	assert.Equal(t, color.NRGBA{R: 255, A: 255}, img.NRGBAAt(1, 0))
	assert.Equal(t, color.NRGBA{B: 255, A: 255}, img.NRGBAAt(2, 1))
}

func TestImageScales(t *testing.T) {
	img := Image(testScene(t), 3)
	assert.Equal(t, 9, img.Bounds().Dx())
	assert.Equal(t, 6, img.Bounds().Dy())

	r, g, b, _ := img.At(4, 1).RGBA()
	assert.Equal(t, []uint32{0xffff, 0, 0}, []uint32{r, g, b})
}

func TestWriteBMP(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteBMP(&buf, testScene(t), 2))

	img, err := bmp.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, 6, img.Bounds().Dx())
	assert.Equal(t, 4, img.Bounds().Dy())
}

func TestWritePDF(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WritePDF(&buf, testScene(t), "test"))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}

func TestSaveByExtension(t *testing.T) {
	dir := t.TempDir()
	sc := testScene(t)
	assert.NoError(t, Save(filepath.Join(dir, "out.bmp"), sc, 1))
	assert.NoError(t, Save(filepath.Join(dir, "out.PDF"), sc, 1))
	assert.Error(t, Save(filepath.Join(dir, "out.gif"), sc, 1))
}

func TestQR(t *testing.T) {
	text, err := QRText("pixelboard://192.168.1.2:8888")
	require.NoError(t, err)
	assert.NotEmpty(t, text)

	img, err := QRImage("pixelboard://192.168.1.2:8888", 128)
	require.NoError(t, err)
	assert.Equal(t, 128, img.Bounds().Dx())

	assert.NoError(t, SaveQR(filepath.Join(t.TempDir(), "link.png"), "pixelboard://x:1", 64))
}
