// Package config loads the application configuration file.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"midi-animator/internal/engine"
	"midi-animator/internal/event"
	"midi-animator/internal/listener"
	"midi-animator/internal/path"
	"midi-animator/internal/transport"
)

// ErrConfig is wrapped by every invalid configuration.
var ErrConfig = errors.New("invalid configuration")

// Input drivers.
const (
	DriverRtMidi = "rtmidi"
	DriverReplay = "replay"
)

// Config is the application configuration. Zero fields take defaults.
type Config struct {
	// Device is the input name or a fuzzy part of it. Empty picks the first input.
	Device string `yaml:"device,omitempty"`
	Driver string `yaml:"driver,omitempty"`
	// Replay is the recorded event file played by the replay driver.
	Replay         string   `yaml:"replay,omitempty"`
	ReplayInterval Duration `yaml:"replayInterval,omitempty"`
	Mappings       string   `yaml:"mappings,omitempty"`
	Scene          string   `yaml:"scene,omitempty"`
	// Save is where the scene is written on exit. Empty discards changes.
	Save           string   `yaml:"save,omitempty"`
	Root           string   `yaml:"root,omitempty"`
	FPS            float64  `yaml:"fps,omitempty"`
	Tick           Duration `yaml:"tick,omitempty"`
	AccumulateGain float64  `yaml:"accumulateGain,omitempty"`
	QueueSize      int      `yaml:"queueSize,omitempty"`
	Log            Log      `yaml:"log,omitempty"`
}

// Log configures the logger.
type Log struct {
	Level       string `yaml:"level,omitempty"`
	Development bool   `yaml:"development,omitempty"`
}

// Duration is a time.Duration written as a string such as "16ms".
type Duration time.Duration

func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}

	v, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}

	*d = Duration(v)

	return nil
}

// Default returns a configuration with every default applied.
func Default() *Config {
	c := &Config{}
	applyDefaults(c)

	return c
}

// LoadFile reads and validates a configuration file.
func LoadFile(p string) (*Config, error) {
	data, err := os.ReadFile(p)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", p, err)
	}

	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", p, err)
	}

	return c, nil
}

// Parse decodes and validates YAML configuration data.
func Parse(data []byte) (*Config, error) {
	var c Config

	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("%w: failed to parse config YAML: %w", ErrConfig, err)
	}

	applyDefaults(&c)

	if err := c.Validate(); err != nil {
		return nil, err
	}

	return &c, nil
}

// applyDefaults fills in default values for optional fields.
func applyDefaults(c *Config) {
	if c.Driver == "" {
		c.Driver = DriverRtMidi
		if c.Replay != "" {
			c.Driver = DriverReplay
		}
	}

	if c.ReplayInterval == 0 {
		c.ReplayInterval = Duration(transport.DefaultReplayInterval)
	}

	if c.Root == "" {
		c.Root = path.DefaultPrefix
	}

	if c.FPS == 0 {
		c.FPS = engine.DefaultFPS
	}

	if c.Tick == 0 {
		c.Tick = Duration(listener.DefaultInterval)
	}

	if c.AccumulateGain == 0 {
		c.AccumulateGain = engine.DefaultAccumulateGain
	}

	if c.QueueSize == 0 {
		c.QueueSize = event.DefaultQueueSize
	}

	if c.Log.Level == "" {
		c.Log.Level = zapcore.InfoLevel.String()
	}
}

// Validate checks field values after defaults were applied.
func (c *Config) Validate() error {
	var errs []error

	switch c.Driver {
	case DriverRtMidi:
	case DriverReplay:
		if c.Replay == "" {
			errs = append(errs, errors.New("driver replay needs a replay file"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown driver %q (want %s or %s)", c.Driver, DriverRtMidi, DriverReplay))
	}

	if c.FPS < 0 {
		errs = append(errs, fmt.Errorf("fps %v must be positive", c.FPS))
	}

	if c.Tick < 0 {
		errs = append(errs, fmt.Errorf("tick %v must be positive", time.Duration(c.Tick)))
	}

	if c.ReplayInterval < 0 {
		errs = append(errs, fmt.Errorf("replayInterval %v must not be negative", time.Duration(c.ReplayInterval)))
	}

	if c.QueueSize < 0 {
		errs = append(errs, fmt.Errorf("queueSize %d must be positive", c.QueueSize))
	}

	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrConfig, errors.Join(errs...))
	}

	return nil
}

// Marshal serializes c to YAML.
func Marshal(c *Config) ([]byte, error) {
	return yaml.Marshal(c)
}
