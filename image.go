package notecheck

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/draw"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"

	"github.com/disintegration/imaging"
	_ "github.com/spakin/netpbm"
)

// Image is a single-channel 8-bit intensity grid with its origin at (0, 0).
type Image struct {
	gray *image.Gray
}

// NewImage converts img to grayscale. Colour is reduced with the ITU-R 601 luma weights.
func NewImage(img image.Image) *Image {
	b := img.Bounds()
	gray := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	if src, ok := img.(*image.Gray); ok {
		draw.Draw(gray, gray.Bounds(), src, b.Min, draw.Src)
		return &Image{gray: gray}
	}
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			gray.SetGray(x, y, color.GrayModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.Gray))
		}
	}
	return &Image{gray: gray}
}

// NewImageFromPixels builds an image from row-major intensities. It panics if len(pix) != w*h.
func NewImageFromPixels(w, h int, pix []uint8) *Image {
	if len(pix) != w*h {
		panic("notecheck: pixel count does not match dimensions")
	}
	gray := image.NewGray(image.Rect(0, 0, w, h))
	copy(gray.Pix, pix)
	return &Image{gray: gray}
}

func (i *Image) Width() int  { return i.gray.Rect.Dx() }
func (i *Image) Height() int { return i.gray.Rect.Dy() }

// Empty reports whether the image is nil or has no pixels.
func (i *Image) Empty() bool {
	return i == nil || i.gray == nil || i.Width() == 0 || i.Height() == 0
}

// Gray returns the underlying image. Callers must not modify it.
func (i *Image) Gray() *image.Gray { return i.gray }

// Pixels returns the intensities in row-major order.
func (i *Image) Pixels() []uint8 {
	w, h := i.Width(), i.Height()
	if i.gray.Stride == w {
		return i.gray.Pix[:w*h]
	}
	pix := make([]uint8, 0, w*h)
	for y := 0; y < h; y++ {
		off := y * i.gray.Stride
		pix = append(pix, i.gray.Pix[off:off+w]...)
	}
	return pix
}

var errEmptyImage = errors.New("image has no pixels")

// DecodeImage decodes any registered format (JPEG, PNG, GIF, Netpbm) into grayscale. A JPEG
// EXIF orientation tag is applied, so the grid is upright as a viewer would show it.
func DecodeImage(r io.Reader) (*Image, error) {
	img, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		return nil, &LoadError{Err: err}
	}
	out := NewImage(img)
	if out.Empty() {
		return nil, &LoadError{Err: errEmptyImage}
	}
	return out, nil
}

// LoadImageFromBytes decodes an in-memory image.
func LoadImageFromBytes(data []byte) (*Image, error) {
	return DecodeImage(bytes.NewReader(data))
}

// LoadImage reads and decodes the image at path.
func LoadImage(path string) (*Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	img, err := LoadImageFromBytes(data)
	if err != nil {
		var le *LoadError
		if errors.As(err, &le) {
			le.Path = path
		}
		return nil, err
	}
	return img, nil
}
