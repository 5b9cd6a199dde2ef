package notecheck

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewImageConvertsToGray(t *testing.T) {
	t.Parallel()

	rgba := image.NewRGBA(image.Rect(0, 0, 2, 1))
	rgba.Set(0, 0, color.RGBA{R: 255, A: 255})
	rgba.Set(1, 0, color.RGBA{R: 255, G: 255, B: 255, A: 255})

	img := NewImage(rgba)
	assert.Equal(t, 2, img.Width())
	assert.Equal(t, 1, img.Height())
	assert.Equal(t, []uint8{76, 255}, img.Pixels())
}

func TestNewImageSubImage(t *testing.T) {
	t.Parallel()

	src := horizontal(10, 4).Gray()
	sub := src.SubImage(image.Rect(2, 1, 6, 3))

	img := NewImage(sub)
	assert.Equal(t, 4, img.Width())
	assert.Equal(t, 2, img.Height())
	row := src.Pix[src.PixOffset(2, 1) : src.PixOffset(2, 1)+4]
	assert.Equal(t, append(append([]uint8{}, row...), row...), img.Pixels())
}

func TestDecodeImage(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, checker(32, 16, 8).Gray(), &jpeg.Options{Quality: 95}))

	img, err := LoadImageFromBytes(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, 32, img.Width())
	assert.Equal(t, 16, img.Height())

	_, err = LoadImageFromBytes([]byte("definitely not an image"))
	assert.ErrorIs(t, err, ErrLoad)
}

func TestLoadImage(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := writePNG(t, dir, "in.png", vertical(8, 6).Gray())

	img, err := LoadImage(path)
	require.NoError(t, err)
	assert.Equal(t, vertical(8, 6).Pixels(), img.Pixels())

	missing := filepath.Join(dir, "missing.png")
	_, err = LoadImage(missing)
	require.ErrorIs(t, err, ErrLoad)
	var le *LoadError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, missing, le.Path)
}

func TestImageEmpty(t *testing.T) {
	t.Parallel()

	var img *Image
	assert.True(t, img.Empty())
	assert.True(t, (&Image{}).Empty())
	assert.False(t, flat(1, 1, 0).Empty())
	assert.Panics(t, func() { NewImageFromPixels(2, 2, []uint8{1}) })
}

// withOrientation inserts an EXIF APP1 segment carrying the orientation tag right after SOI.
func withOrientation(t *testing.T, jpg []byte, orientation uint16) []byte {
	t.Helper()
	require.Equal(t, []byte{0xff, 0xd8}, jpg[:2])

	tiff := []byte{
		'M', 'M', 0x00, 0x2a, 0x00, 0x00, 0x00, 0x08, // big endian header, IFD at 8
		0x00, 0x01, // one entry
		0x01, 0x12, 0x00, 0x03, 0x00, 0x00, 0x00, 0x01, // Orientation, SHORT, count 1
		byte(orientation >> 8), byte(orientation), 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00, // no next IFD
	}
	payload := append([]byte("Exif\x00\x00"), tiff...)
	size := len(payload) + 2

	out := []byte{0xff, 0xd8, 0xff, 0xe1, byte(size >> 8), byte(size)}
	out = append(out, payload...)
	return append(out, jpg[2:]...)
}

func TestDecodeImageAppliesEXIFOrientation(t *testing.T) {
	t.Parallel()

	// dark left half, bright right half
	src := pattern(80, 40, func(x, _ int) uint8 {
		if x < 40 {
			return 20
		}
		return 230
	})
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, src.Gray(), &jpeg.Options{Quality: 95}))

	plain, err := LoadImageFromBytes(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, 80, plain.Width())
	assert.Equal(t, 40, plain.Height())

	// orientation 6: the stored image is shown rotated 90 degrees clockwise
	img, err := LoadImageFromBytes(withOrientation(t, buf.Bytes(), 6))
	require.NoError(t, err)
	assert.Equal(t, 40, img.Width())
	assert.Equal(t, 80, img.Height())
	assert.Less(t, img.Gray().GrayAt(20, 10).Y, uint8(100))
	assert.Greater(t, img.Gray().GrayAt(20, 70).Y, uint8(150))
}
