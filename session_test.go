package notecheck

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSession(t *testing.T, opts ...SessionOption) *Session {
	t.Helper()
	set := setOf(t,
		&Template{Label: "10", Image: horizontal(40, 20)},
		&Template{Label: "20", Image: vertical(40, 20)},
	)
	s, err := NewSession(set, opts...)
	require.NoError(t, err)
	return s
}

func TestSessionDetectBeforeUpload(t *testing.T) {
	t.Parallel()

	s := newTestSession(t)
	assert.Equal(t, StateNoImage, s.State())

	_, err := s.Detect()
	require.ErrorIs(t, err, ErrInvalidState)
	assert.EqualError(t, err, "no input image loaded")
	assert.Equal(t, StateNoImage, s.State())
}

func TestSessionUploadAndDetect(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := writePNG(t, dir, "note.png", horizontal(80, 40).Gray())

	s := newTestSession(t)
	require.NoError(t, s.UploadImage(path))
	assert.Equal(t, StateImageLoaded, s.State())
	assert.Equal(t, path, s.InputName())

	v, err := s.Detect()
	require.NoError(t, err)
	assert.Equal(t, "10", v.Label)
	assert.True(t, v.IsLikelyGenuine)
	assert.Equal(t, DefaultThreshold, v.Threshold)

	again, err := s.Detect()
	require.NoError(t, err)
	assert.Equal(t, v, again)
	assert.Equal(t, StateImageLoaded, s.State())
}

func TestSessionFailedUploadKeepsInput(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	good := writePNG(t, dir, "good.png", horizontal(40, 20).Gray())
	bad := filepath.Join(dir, "bad.png")
	require.NoError(t, os.WriteFile(bad, []byte("garbage"), 0o644))

	s := newTestSession(t)
	require.NoError(t, s.UploadImage(good))
	before := s.Input()

	err := s.UploadImage(bad)
	require.ErrorIs(t, err, ErrLoad)
	var le *LoadError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, bad, le.Path)
	assert.Same(t, before, s.Input())
	assert.Equal(t, good, s.InputName())

	err = s.UploadImage(filepath.Join(dir, "missing.png"))
	require.ErrorIs(t, err, ErrLoad)
	assert.Same(t, before, s.Input())

	err = s.UploadImageBytes("upload", []byte{1, 2, 3})
	require.ErrorIs(t, err, ErrLoad)
	assert.Contains(t, err.Error(), "upload")
	assert.Same(t, before, s.Input())
}

func TestSessionUploadReplacesInput(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	first := writePNG(t, dir, "first.png", horizontal(40, 20).Gray())
	second := writePNG(t, dir, "second.png", vertical(40, 20).Gray())

	s := newTestSession(t)
	require.NoError(t, s.UploadImage(first))
	v, err := s.Detect()
	require.NoError(t, err)
	assert.Equal(t, "10", v.Label)

	require.NoError(t, s.UploadImage(second))
	v, err = s.Detect()
	require.NoError(t, err)
	assert.Equal(t, "20", v.Label)
}

func TestSessionThreshold(t *testing.T) {
	t.Parallel()

	s := newTestSession(t, WithThreshold(1.0))
	s.input = horizontal(40, 20)

	v, err := s.Detect()
	require.NoError(t, err)
	assert.Equal(t, "10", v.Label)
	// a perfect match does not exceed a threshold of 1
	assert.False(t, v.IsLikelyGenuine)
}

func TestNewSessionRequiresTemplates(t *testing.T) {
	t.Parallel()

	_, err := NewSession(NewTemplateSet())
	assert.ErrorIs(t, err, ErrConfiguration)

	_, err = NewSession(nil)
	assert.ErrorIs(t, err, ErrConfiguration)
}

func TestStateString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "no image loaded", StateNoImage.String())
	assert.Equal(t, "image loaded", StateImageLoaded.String())
}
