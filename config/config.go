// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// ErrInvalidConfig is returned when a loaded value is out of range.
var ErrInvalidConfig = errors.New("invalid config")

// Config holds all simulation configuration parameters.
type Config struct {
	Screen       ScreenConfig       `yaml:"screen"`
	Population   PopulationConfig   `yaml:"population"`
	Reproduction ReproductionConfig `yaml:"reproduction"`
	Mutation     MutationConfig     `yaml:"mutation"`
	Lifecycle    LifecycleConfig    `yaml:"lifecycle"`
	KillZone     KillZoneConfig     `yaml:"kill_zone"`
	Overlay      OverlayConfig      `yaml:"overlay"`
	Telemetry    TelemetryConfig    `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings. The arena matches the screen.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// PopulationConfig holds population management parameters.
type PopulationConfig struct {
	Target int `yaml:"target"`
	Max    int `yaml:"max"`
}

// ReproductionConfig holds reproduction parameters.
type ReproductionConfig struct {
	ProcreateRate float64 `yaml:"procreate_rate"`
}

// MutationConfig holds mutation parameters.
type MutationConfig struct {
	Rate float64 `yaml:"rate"`
}

// LifecycleConfig holds creature lifetime parameters.
type LifecycleConfig struct {
	LifespanMs int `yaml:"lifespan_ms"`
}

// KillZoneConfig holds the pointer removal zone parameters.
type KillZoneConfig struct {
	Enabled bool    `yaml:"enabled"`
	Radius  float64 `yaml:"radius"`
}

// OverlayConfig holds the info overlay parameters.
type OverlayConfig struct {
	Enabled     bool `yaml:"enabled"`
	InfoDelayMs int  `yaml:"info_delay_ms"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow         float64 `yaml:"stats_window"`
	PerfCollectorWindow int     `yaml:"perf_collector_window"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	Lifespan     time.Duration // Lifecycle.LifespanMs as a duration
	StepDuration time.Duration // simulated time per tick (1 / TargetFPS)
	InfoDelay    time.Duration // Overlay.InfoDelayMs as a duration
	ScreenW      float64
	ScreenH      float64
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Default returns the embedded defaults.
func Default() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults: %v", err))
	}
	return cfg
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.ComputeDerived()

	return cfg, nil
}

// Validate checks that every value is within its allowed range.
func (c *Config) Validate() error {
	switch {
	case c.Screen.Width <= 0 || c.Screen.Height <= 0:
		return fmt.Errorf("%w: screen size %dx%d", ErrInvalidConfig, c.Screen.Width, c.Screen.Height)
	case c.Screen.TargetFPS <= 0:
		return fmt.Errorf("%w: screen.target_fps %d", ErrInvalidConfig, c.Screen.TargetFPS)
	case c.Population.Target <= 0:
		return fmt.Errorf("%w: population.target %d", ErrInvalidConfig, c.Population.Target)
	case c.Population.Max < 0:
		return fmt.Errorf("%w: population.max %d", ErrInvalidConfig, c.Population.Max)
	case c.Reproduction.ProcreateRate <= 0 || c.Reproduction.ProcreateRate >= 1:
		return fmt.Errorf("%w: reproduction.procreate_rate %v not in (0,1)", ErrInvalidConfig, c.Reproduction.ProcreateRate)
	case c.Mutation.Rate < 0 || c.Mutation.Rate > 1:
		return fmt.Errorf("%w: mutation.rate %v not in [0,1]", ErrInvalidConfig, c.Mutation.Rate)
	case c.Lifecycle.LifespanMs <= 0:
		return fmt.Errorf("%w: lifecycle.lifespan_ms %d", ErrInvalidConfig, c.Lifecycle.LifespanMs)
	case c.KillZone.Radius < 0:
		return fmt.Errorf("%w: kill_zone.radius %v", ErrInvalidConfig, c.KillZone.Radius)
	case c.Telemetry.StatsWindow <= 0:
		return fmt.Errorf("%w: telemetry.stats_window %v", ErrInvalidConfig, c.Telemetry.StatsWindow)
	}
	return nil
}

// ComputeDerived recalculates derived values. Call it after changing fields
// of a loaded config.
func (c *Config) ComputeDerived() {
	c.Derived.Lifespan = time.Duration(c.Lifecycle.LifespanMs) * time.Millisecond
	c.Derived.StepDuration = time.Second / time.Duration(c.Screen.TargetFPS)
	c.Derived.InfoDelay = time.Duration(c.Overlay.InfoDelayMs) * time.Millisecond
	c.Derived.ScreenW = float64(c.Screen.Width)
	c.Derived.ScreenH = float64(c.Screen.Height)
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
