package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/Carmen-Shannon/oxy-anim/common"
	"github.com/Carmen-Shannon/oxy-anim/engine/renderer"
	"github.com/Carmen-Shannon/oxy-anim/engine/renderer/animator"
	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig is returned when a configuration value is out of range or unknown.
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Built-in defaults applied by Default and Resolve.
const (
	DefaultTickRate         = 60
	DefaultProfilerInterval = 5 * time.Second
	DefaultFadeTime         = float32(0.25)
	DefaultBlendType        = "linear"
	DefaultLogLevel         = "info"
)

// Config is the engine configuration.
//
// Example file:
//
//	tick_rate: 60
//	compute_workers: 4
//	profiling: true
//	profiler_interval: 2s
//	default_fade_time: 0.3
//	default_blend_type: ease_in_out
//	log_level: debug
type Config struct {
	// TickRate is the number of fixed updates per second of Engine.Run.
	TickRate int `yaml:"tick_rate"`

	// ComputeWorkers is the worker count of each scene's pose pool. 0 picks one per spare CPU.
	ComputeWorkers int `yaml:"compute_workers"`

	Profiling        bool          `yaml:"profiling"`
	ProfilerInterval time.Duration `yaml:"profiler_interval"`

	// FrameArenaPageSize is the number of matrices per frame allocator page.
	FrameArenaPageSize int `yaml:"frame_arena_page_size"`

	// DefaultFadeTime and DefaultBlendType are used by tools that crossfade without explicit settings.
	DefaultFadeTime  float32 `yaml:"default_fade_time"`
	DefaultBlendType string  `yaml:"default_blend_type"`

	LogLevel string `yaml:"log_level"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		TickRate:           DefaultTickRate,
		ProfilerInterval:   DefaultProfilerInterval,
		FrameArenaPageSize: renderer.DefaultFrameArenaPageSize,
		DefaultFadeTime:    DefaultFadeTime,
		DefaultBlendType:   DefaultBlendType,
		LogLevel:           DefaultLogLevel,
	}
}

// Load reads, resolves and validates a YAML configuration file.
//
// Parameters:
//   - path: the file path
//
// Returns:
//   - *Config: the configuration with defaults filled in
//   - error: I/O, decode or validation failure
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes, resolves and validates YAML configuration data.
//
// Parameters:
//   - data: the YAML document
//
// Returns:
//   - *Config: the configuration with defaults filled in
//   - error: decode or validation failure
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse: %w", err)
	}
	cfg.Resolve()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Resolve replaces zero-valued fields with the built-in defaults.
func (c *Config) Resolve() {
	d := Default()
	c.TickRate = common.Coalesce(c.TickRate, d.TickRate)
	c.ProfilerInterval = common.Coalesce(c.ProfilerInterval, d.ProfilerInterval)
	c.FrameArenaPageSize = common.Coalesce(c.FrameArenaPageSize, d.FrameArenaPageSize)
	c.DefaultFadeTime = common.Coalesce(c.DefaultFadeTime, d.DefaultFadeTime)
	c.DefaultBlendType = common.Coalesce(c.DefaultBlendType, d.DefaultBlendType)
	c.LogLevel = common.Coalesce(c.LogLevel, d.LogLevel)
}

// Validate reports the first out-of-range or unknown value, wrapping ErrInvalidConfig.
func (c *Config) Validate() error {
	switch {
	case c.TickRate < 0:
		return fmt.Errorf("%w: tick_rate %d is negative", ErrInvalidConfig, c.TickRate)
	case c.ComputeWorkers < 0:
		return fmt.Errorf("%w: compute_workers %d is negative", ErrInvalidConfig, c.ComputeWorkers)
	case c.ProfilerInterval < 0:
		return fmt.Errorf("%w: profiler_interval %s is negative", ErrInvalidConfig, c.ProfilerInterval)
	case c.FrameArenaPageSize < 0:
		return fmt.Errorf("%w: frame_arena_page_size %d is negative", ErrInvalidConfig, c.FrameArenaPageSize)
	case c.DefaultFadeTime < 0:
		return fmt.Errorf("%w: default_fade_time %v is negative", ErrInvalidConfig, c.DefaultFadeTime)
	}
	if _, ok := animator.ParseBlendType(c.DefaultBlendType); !ok {
		return fmt.Errorf("%w: unknown default_blend_type %q", ErrInvalidConfig, c.DefaultBlendType)
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return fmt.Errorf("%w: log_level: %v", ErrInvalidConfig, err)
	}
	return nil
}

// BlendType returns the parsed default blend type, falling back to linear.
func (c *Config) BlendType() animator.BlendType {
	bt, _ := animator.ParseBlendType(c.DefaultBlendType)
	return bt
}

// SlogLevel returns the parsed log level, falling back to info.
func (c *Config) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}
