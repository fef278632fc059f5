// Package config loads run configurations from TOML or YAML files.
//
// A configuration has a [model] section with the model parameters and an
// [engine] section with runtime settings:
//
//	[model]
//	mutation_rate = 1.0
//	lambda = 2.0
//	sampling_probability = 0.5
//	grid_size = 100
//	characters = 40
//
//	[engine]
//	workers = 4
//	log_level = "debug"
//
// Unknown keys are rejected so that typos do not silently fall back to
// defaults.
package config

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/branchtime/pkg/engine"
	bterrors "github.com/matzehuels/branchtime/pkg/errors"
	"github.com/matzehuels/branchtime/pkg/model"
)

// Format names a configuration syntax.
type Format string

// Supported formats.
const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
)

// DefaultLogLevel is used when engine.log_level is empty.
const DefaultLogLevel = "info"

// Config is a complete run configuration.
type Config struct {
	Model  model.Parameters `toml:"model" yaml:"model"`
	Engine EngineConfig     `toml:"engine" yaml:"engine"`
}

// EngineConfig holds the runtime settings of the engine.
type EngineConfig struct {
	// Workers bounds parallelism per tree level; 0 means GOMAXPROCS.
	Workers int `toml:"workers" yaml:"workers"`

	// LogLevel is one of debug, info, warn, error, fatal.
	LogLevel string `toml:"log_level" yaml:"log_level"`

	// LogTimestamps adds a timestamp to every log line.
	LogTimestamps bool `toml:"log_timestamps" yaml:"log_timestamps"`
}

// FormatFromPath picks the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", bterrors.New(bterrors.ErrCodeInvalidParameter, "unsupported config extension %q", filepath.Ext(path))
	}
}

// Load reads and validates the configuration at path.
func Load(path string) (*Config, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, bterrors.Wrap(bterrors.ErrCodeInvalidParameter, err, "read config %s", path)
	}
	return Decode(data, format)
}

// Decode parses and validates a configuration.
func Decode(data []byte, format Format) (*Config, error) {
	var c Config
	switch format {
	case FormatTOML:
		md, err := toml.Decode(string(data), &c)
		if err != nil {
			return nil, bterrors.Wrap(bterrors.ErrCodeInvalidParameter, err, "decode toml")
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return nil, bterrors.New(bterrors.ErrCodeInvalidParameter, "unknown config key %q", undecoded[0].String())
		}
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&c); err != nil && err != io.EOF {
			return nil, bterrors.Wrap(bterrors.ErrCodeInvalidParameter, err, "decode yaml")
		}
	default:
		return nil, bterrors.New(bterrors.ErrCodeInvalidParameter, "unsupported config format %q", format)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks the model parameters and engine settings.
func (c *Config) Validate() error {
	if err := c.Model.Validate(); err != nil {
		return err
	}
	if c.Engine.Workers < 0 {
		return bterrors.New(bterrors.ErrCodeInvalidParameter, "engine.workers must not be negative, got %d", c.Engine.Workers)
	}
	if _, err := c.logLevel(); err != nil {
		return err
	}
	return nil
}

// Parameters returns the model parameters.
func (c *Config) Parameters() model.Parameters { return c.Model }

// EngineOptions builds engine options whose logger writes to w.
func (c *Config) EngineOptions(w io.Writer) (engine.Options, error) {
	level, err := c.logLevel()
	if err != nil {
		return engine.Options{}, err
	}
	return engine.Options{
		Workers: c.Engine.Workers,
		Logger:  newLogger(w, level, c.Engine.LogTimestamps),
	}, nil
}

func (c *Config) logLevel() (log.Level, error) {
	name := c.Engine.LogLevel
	if name == "" {
		name = DefaultLogLevel
	}
	level, err := log.ParseLevel(name)
	if err != nil {
		return 0, bterrors.Wrap(bterrors.ErrCodeInvalidParameter, err, "engine.log_level")
	}
	return level, nil
}

// newLogger creates a logger that writes to w at the given level.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level, timestamps bool) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: timestamps,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}
