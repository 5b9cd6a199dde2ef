// Package config holds the notecheck configuration. Config is filled with defaults by
// LoadDefaultConfig and overridden from a TOML, YAML or INI file by LoadConfig.
package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/adrg/xdg"
	"github.com/mcuadros/go-defaults"
	"gopkg.in/ini.v1"
	"gopkg.in/yaml.v3"
)

// AppName names the XDG config directory.
const AppName = "notecheck"

// DefaultConfigFile is looked up in the working directory.
const DefaultConfigFile = "notecheck.toml"

type Configuration struct {
	TemplateDir   string   `toml:"template_dir" yaml:"template_dir" ini:"template_dir" default:"templates"`
	Extensions    []string `toml:"extensions" yaml:"extensions" ini:"extensions" delim:"," default:"[.jpg,.jpeg,.png]"`
	Threshold     float64  `toml:"threshold" yaml:"threshold" ini:"threshold" default:"0.9"`
	Interpolation string   `toml:"interpolation" yaml:"interpolation" ini:"interpolation" default:"linear"`
	// Workers bounds concurrent template decoding; 0 means one per CPU.
	Workers  int          `toml:"workers" yaml:"workers" ini:"workers"`
	Currency string       `toml:"currency" yaml:"currency" ini:"currency" default:"PKR"`
	Server   ServerConfig `toml:"server" yaml:"server" ini:"server"`
	Log      LogConfig    `toml:"log" yaml:"log" ini:"log"`
}

type ServerConfig struct {
	Addr        string        `toml:"addr" yaml:"addr" ini:"addr" default:":9090"`
	BodyLimit   int           `toml:"body_limit" yaml:"body_limit" ini:"body_limit" default:"10485760"`
	SessionTTL  time.Duration `toml:"session_ttl" yaml:"session_ttl" ini:"session_ttl" default:"30m"`
	MaxSessions int           `toml:"max_sessions" yaml:"max_sessions" ini:"max_sessions" default:"1024"`
}

type LogConfig struct {
	Level string `toml:"level" yaml:"level" ini:"level" default:"info"`
	// File enables a rotating log file; strftime patterns are expanded.
	File         string        `toml:"file" yaml:"file" ini:"file"`
	MaxAge       time.Duration `toml:"max_age" yaml:"max_age" ini:"max_age" default:"168h"`
	RotationTime time.Duration `toml:"rotation_time" yaml:"rotation_time" ini:"rotation_time" default:"24h"`
	JSON         bool          `toml:"json" yaml:"json" ini:"json"`
}

// Config is the process wide configuration.
var Config Configuration

// LoadDefaultConfig resets Config to the defaults.
func LoadDefaultConfig() {
	Config = New()
}

// New returns a Configuration holding only defaults.
func New() Configuration {
	var c Configuration
	defaults.SetDefaults(&c)
	return c
}

// LoadConfig resets Config to the defaults and applies the file at path on top. An empty
// path only applies the defaults.
func LoadConfig(path string) error {
	c, err := Load(path)
	if err != nil {
		return err
	}
	Config = c
	return nil
}

// Load reads path over the defaults without touching Config. The format follows the
// extension: .toml, .yaml/.yml or .ini.
func Load(path string) (Configuration, error) {
	c := New()
	if path == "" {
		return c, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return c, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return c, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		err = toml.Unmarshal(data, &c)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &c)
	case ".ini":
		var f *ini.File
		if f, err = ini.Load(data); err == nil {
			err = f.MapTo(&c)
		}
	default:
		return c, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return c, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return c, nil
}

// Find returns the config file to use: explicit if given, else notecheck.toml in the
// working directory, else notecheck/config.{toml,yaml,yml,ini} on the XDG config path.
// It returns "" when nothing is found.
func Find(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if _, err := os.Stat(DefaultConfigFile); err == nil {
		return DefaultConfigFile
	}
	for _, name := range []string{"config.toml", "config.yaml", "config.yml", "config.ini"} {
		if p, err := xdg.SearchConfigFile(filepath.Join(AppName, name)); err == nil {
			return p
		}
	}
	return ""
}

// Validate reports the first invalid setting.
func (c *Configuration) Validate() error {
	if c.TemplateDir == "" {
		return ErrNoTemplateDir
	}
	if len(c.Extensions) == 0 {
		return ErrNoExtensions
	}
	if math.IsNaN(c.Threshold) || c.Threshold < -1 || c.Threshold > 1 {
		return ErrInvalidThreshold
	}
	if c.Workers < 0 {
		return ErrInvalidWorkers
	}
	if c.Server.BodyLimit <= 0 {
		return ErrInvalidBodyLimit
	}
	if c.Server.SessionTTL <= 0 {
		return ErrInvalidSessionTTL
	}
	return nil
}

var (
	ErrConfigNotFound    = errors.New("configuration file not found")
	ErrUnsupportedFormat = errors.New("unsupported configuration format")
	ErrNoTemplateDir     = errors.New("invalid template_dir: must not be empty")
	ErrNoExtensions      = errors.New("invalid extensions: at least one is required")
	ErrInvalidThreshold  = errors.New("invalid threshold: must be within [-1, 1]")
	ErrInvalidWorkers    = errors.New("invalid workers: must be non-negative")
	ErrInvalidBodyLimit  = errors.New("invalid server.body_limit: must be positive")
	ErrInvalidSessionTTL = errors.New("invalid server.session_ttl: must be positive")
)
