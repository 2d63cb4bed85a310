package vision

import (
	"encoding/binary"
	"image"
	"image/color"
	"image/png"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writePNG(t *testing.T, path string, img image.Image) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
}

func TestStdLoader_LoadRGBOrder(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 3, 2))
	src.Set(0, 0, color.NRGBA{R: 200, G: 10, B: 20, A: 255})
	src.Set(2, 1, color.NRGBA{R: 1, G: 2, B: 250, A: 255})
	path := filepath.Join(t.TempDir(), "rgb.png")
	writePNG(t, path, src)

	img, err := NewStdLoader().Load(path)
	require.NoError(t, err)
	require.Equal(t, 2, img.Height)
	require.Equal(t, 3, img.Width)
	require.Equal(t, 3, img.Channels)

	require.Equal(t, uint8(200), img.At(0, 0, 0))
	require.Equal(t, uint8(10), img.At(0, 0, 1))
	require.Equal(t, uint8(20), img.At(0, 0, 2))
	require.Equal(t, uint8(250), img.At(2, 1, 2))
}

func TestStdLoader_LoadDropsAlphaWithoutPremultiply(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 1, 1))
	src.Set(0, 0, color.NRGBA{R: 100, G: 150, B: 200, A: 128})
	path := filepath.Join(t.TempDir(), "alpha.png")
	writePNG(t, path, src)

	img, err := NewStdLoader().Load(path)
	require.NoError(t, err)
	require.Equal(t, []uint8{100, 150, 200}, img.Pix)
}

func TestStdLoader_LoadGray(t *testing.T) {
	src := image.NewGray(image.Rect(0, 0, 2, 1))
	src.SetGray(1, 0, color.Gray{Y: 77})
	path := filepath.Join(t.TempDir(), "gray.png")
	writePNG(t, path, src)

	img, err := NewStdLoader().Load(path)
	require.NoError(t, err)
	require.Equal(t, []uint8{0, 0, 0, 77, 77, 77}, img.Pix)
}

func TestStdLoader_LoadMissing(t *testing.T) {
	_, err := NewStdLoader().Load(filepath.Join(t.TempDir(), "missing.png"))
	require.ErrorIs(t, err, ErrLoad)
	require.ErrorIs(t, err, fs.ErrNotExist)
}

func TestStdLoader_LoadNotAnImage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.png")
	require.NoError(t, os.WriteFile(path, []byte("definitely not a png"), 0o644))

	_, err := NewStdLoader().Load(path)
	require.ErrorIs(t, err, ErrLoad)
}

func TestFloat32Bytes(t *testing.T) {
	buf := float32Bytes([]float32{1, -1, 0.5})
	require.Len(t, buf, 12)

	want := make([]byte, 12)
	binary.NativeEndian.PutUint32(want[0:], 0x3f800000)
	binary.NativeEndian.PutUint32(want[4:], 0xbf800000)
	binary.NativeEndian.PutUint32(want[8:], 0x3f000000)
	require.Equal(t, want, buf)
}
