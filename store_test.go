package notecheck

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadTemplates(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writePNG(t, dir, "20.png", vertical(30, 10).Gray())
	writePNG(t, dir, "10.png", horizontal(40, 20).Gray())
	writePNG(t, dir, "50.PNG", checker(16, 16, 4).Gray())
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.jpg"), []byte("not an image"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignore me"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.png"), 0o755))

	set, err := LoadTemplates(context.Background(), dir, WithLogger(zerolog.Nop()), WithWorkers(2))
	require.NoError(t, err)
	assert.Equal(t, []string{"10", "20", "50"}, set.Labels())

	ten := mustGet(t, set, "10")
	assert.Equal(t, 40, ten.Width())
	assert.Equal(t, 20, ten.Height())
	assert.Equal(t, filepath.Join(dir, "10.png"), ten.Path)
	assert.Equal(t, horizontal(40, 20).Pixels(), ten.Image.Pixels())
}

func TestLoadTemplatesDuplicateLabelKeepsFirst(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writePNG(t, dir, "10.jpeg", horizontal(20, 10).Gray())
	writePNG(t, dir, "10.png", vertical(20, 10).Gray())

	set, err := LoadTemplates(context.Background(), dir, WithLogger(zerolog.Nop()))
	require.NoError(t, err)
	require.Equal(t, 1, set.Len())
	assert.Equal(t, filepath.Join(dir, "10.jpeg"), mustGet(t, set, "10").Path)
}

func TestLoadTemplatesExtensions(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writePNG(t, dir, "10.png", horizontal(20, 10).Gray())
	pgm := append([]byte("P5\n4 2\n255\n"), 0, 50, 100, 150, 200, 250, 10, 20)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "100.pgm"), pgm, 0o644))

	set, err := LoadTemplates(context.Background(), dir, WithLogger(zerolog.Nop()), WithExtensions("PGM"))
	require.NoError(t, err)
	assert.Equal(t, []string{"100"}, set.Labels())
	hundred := mustGet(t, set, "100")
	assert.Equal(t, 4, hundred.Width())
	assert.Equal(t, 2, hundred.Height())
}

func TestLoadTemplatesConfigurationErrors(t *testing.T) {
	t.Parallel()

	empty := t.TempDir()

	onlyBroken := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(onlyBroken, "10.png"), []byte{0x89, 'P', 'N', 'G'}, 0o644))

	file := filepath.Join(t.TempDir(), "templates")
	require.NoError(t, os.WriteFile(file, nil, 0o644))

	tests := []struct {
		name string
		dir  string
		msg  string
	}{
		{name: "missing directory", dir: filepath.Join(empty, "nope"), msg: "does not exist"},
		{name: "empty directory", dir: empty, msg: "no template images found"},
		{name: "nothing decodable", dir: onlyBroken, msg: "no template images found"},
		{name: "not a directory", dir: file, msg: "is not a directory"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			set, err := LoadTemplates(context.Background(), tt.dir, WithLogger(zerolog.Nop()))
			assert.Nil(t, set)
			require.ErrorIs(t, err, ErrConfiguration)
			assert.Contains(t, err.Error(), tt.msg)
			var ce *ConfigurationError
			require.ErrorAs(t, err, &ce)
			assert.Equal(t, tt.dir, ce.Path)
		})
	}
}

func TestTemplateSet(t *testing.T) {
	t.Parallel()

	set := NewTemplateSet()
	assert.True(t, set.Empty())
	require.NoError(t, set.Add(&Template{Label: "b", Image: flat(2, 2, 1)}))
	require.NoError(t, set.Add(&Template{Label: "a", Image: flat(2, 2, 1)}))
	assert.Error(t, set.Add(&Template{Label: "b", Image: flat(2, 2, 1)}))
	assert.Error(t, set.Add(&Template{Label: "c"}))

	assert.Equal(t, []string{"b", "a"}, set.Labels())
	assert.Equal(t, 2, set.Len())
	_, ok := set.Get("c")
	assert.False(t, ok)

	var seen []string
	set.Each(func(tmpl *Template) bool {
		seen = append(seen, tmpl.Label)
		return false
	})
	assert.Equal(t, []string{"b"}, seen)

	var nilSet *TemplateSet
	assert.True(t, nilSet.Empty())
}
