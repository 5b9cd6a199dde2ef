package notecheck

import (
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func pattern(w, h int, f func(x, y int) uint8) *Image {
	pix := make([]uint8, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			pix[y*w+x] = f(x, y)
		}
	}
	return NewImageFromPixels(w, h, pix)
}

func horizontal(w, h int) *Image {
	return pattern(w, h, func(x, _ int) uint8 { return uint8(x * 255 / (w - 1)) })
}

func vertical(w, h int) *Image {
	return pattern(w, h, func(_, y int) uint8 { return uint8(y * 255 / (h - 1)) })
}

func checker(w, h, cell int) *Image {
	return pattern(w, h, func(x, y int) uint8 {
		if (x/cell+y/cell)%2 == 0 {
			return 230
		}
		return 20
	})
}

func flat(w, h int, v uint8) *Image {
	return pattern(w, h, func(_, _ int) uint8 { return v })
}

func writePNG(t *testing.T, dir, name string, img image.Image) string {
	t.Helper()
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
	return path
}

func setOf(t *testing.T, templates ...*Template) *TemplateSet {
	t.Helper()
	set := NewTemplateSet()
	for _, tmpl := range templates {
		require.NoError(t, set.Add(tmpl))
	}
	return set
}
