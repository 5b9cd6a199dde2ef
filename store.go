package notecheck

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/exp/slices"
	"golang.org/x/sync/errgroup"
)

// DefaultExtensions are the template file extensions accepted when none are configured.
var DefaultExtensions = []string{".jpg", ".jpeg", ".png"}

type loadOptions struct {
	extensions []string
	workers    int
	logger     zerolog.Logger
}

// LoadOption customises LoadTemplates.
type LoadOption func(*loadOptions)

// WithExtensions replaces the accepted extensions. Matching ignores case.
func WithExtensions(exts ...string) LoadOption {
	return func(o *loadOptions) {
		o.extensions = o.extensions[:0]
		for _, ext := range exts {
			ext = strings.ToLower(strings.TrimSpace(ext))
			if ext == "" {
				continue
			}
			if !strings.HasPrefix(ext, ".") {
				ext = "." + ext
			}
			o.extensions = append(o.extensions, ext)
		}
	}
}

// WithWorkers bounds the number of files decoded concurrently. n <= 0 means runtime.NumCPU().
func WithWorkers(n int) LoadOption {
	return func(o *loadOptions) { o.workers = n }
}

func WithLogger(l zerolog.Logger) LoadOption {
	return func(o *loadOptions) { o.logger = l }
}

// LoadTemplates reads every accepted image in dir. The label of a template is its file
// name without extension and templates are inserted in lexical file name order.
// Undecodable files are logged and skipped; when two files share a label the first one
// wins. A missing directory or one without any usable image is a *ConfigurationError.
func LoadTemplates(ctx context.Context, dir string, opts ...LoadOption) (*TemplateSet, error) {
	o := loadOptions{
		extensions: slices.Clone(DefaultExtensions),
		logger:     log.Logger,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.workers <= 0 {
		o.workers = runtime.NumCPU()
	}

	info, err := os.Stat(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &ConfigurationError{Path: dir, Msg: fmt.Sprintf("template directory %q does not exist", dir)}
		}
		return nil, &ConfigurationError{Path: dir, Msg: fmt.Sprintf("failed to stat template directory %q", dir), Err: err}
	}
	if !info.IsDir() {
		return nil, &ConfigurationError{Path: dir, Msg: fmt.Sprintf("template path %q is not a directory", dir)}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, &ConfigurationError{Path: dir, Msg: fmt.Sprintf("failed to read template directory %q", dir), Err: err}
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if slices.Contains(o.extensions, strings.ToLower(filepath.Ext(entry.Name()))) {
			paths = append(paths, filepath.Join(dir, entry.Name()))
		}
	}

	images := make([]*Image, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(o.workers)
	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			img, err := LoadImage(path)
			if err != nil {
				o.logger.Warn().Err(err).Str("path", path).Msg("skipping template")
				return nil
			}
			images[i] = img
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	set := NewTemplateSet()
	for i, path := range paths {
		if images[i] == nil {
			continue
		}
		base := filepath.Base(path)
		t := &Template{
			Label: strings.TrimSuffix(base, filepath.Ext(base)),
			Path:  path,
			Image: images[i],
		}
		if err := set.Add(t); err != nil {
			o.logger.Warn().Err(err).Str("path", path).Msg("skipping template")
			continue
		}
		o.logger.Debug().Object("template", t).Msg("template loaded")
	}

	if set.Empty() {
		return nil, &ConfigurationError{Path: dir, Msg: fmt.Sprintf("no template images found in %q", dir)}
	}
	o.logger.Info().Str("dir", dir).Int("count", set.Len()).Msg("templates loaded")
	return set, nil
}
