// Package logging builds the zerolog logger shared by the notecheck shells.
package logging

import (
	"io"
	"os"
	"path/filepath"
	"time"

	rotatelogs "github.com/lestrrat-go/file-rotatelogs"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/jtejido/notecheck/config"
)

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

// New returns a logger writing to console (or JSON on console when cfg.JSON is set) and,
// if cfg.File is set, to a file rotated every cfg.RotationTime. The returned closer
// releases the file and must be called on shutdown.
func New(console io.Writer, cfg config.LogConfig) (zerolog.Logger, io.WriteCloser, error) {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		return zerolog.Nop(), nil, err
	}
	if level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	var out io.Writer = console
	if !cfg.JSON {
		out = zerolog.ConsoleWriter{Out: console, TimeFormat: time.RFC3339}
	}

	var sink io.WriteCloser = nopCloser{out}
	if cfg.File != "" {
		rl, err := newRotator(cfg)
		if err != nil {
			return zerolog.Nop(), nil, err
		}
		sink = &multiCloser{Writer: zerolog.MultiLevelWriter(out, rl), closer: rl}
	}

	logger := zerolog.New(sink).Level(level).With().Timestamp().Logger()
	return logger, sink, nil
}

func newRotator(cfg config.LogConfig) (*rotatelogs.RotateLogs, error) {
	if err := os.MkdirAll(filepath.Dir(cfg.File), 0o755); err != nil {
		return nil, err
	}
	opts := []rotatelogs.Option{
		rotatelogs.WithLinkName(cfg.File),
	}
	if cfg.MaxAge > 0 {
		opts = append(opts, rotatelogs.WithMaxAge(cfg.MaxAge))
	}
	if cfg.RotationTime > 0 {
		opts = append(opts, rotatelogs.WithRotationTime(cfg.RotationTime))
	}
	return rotatelogs.New(cfg.File+".%Y%m%d", opts...)
}

type multiCloser struct {
	io.Writer
	closer io.Closer
}

func (m *multiCloser) Close() error { return m.closer.Close() }

// Setup builds the logger from config.Config.Log and installs it as the global zerolog
// logger. Closing the returned sink releases the log file.
func Setup(console io.Writer) (io.WriteCloser, error) {
	logger, sink, err := New(console, config.Config.Log)
	if err != nil {
		return nil, err
	}
	log.Logger = logger
	return sink, nil
}
