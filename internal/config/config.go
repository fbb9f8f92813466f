// Package config loads the exhibit configuration from a YAML file. Flags in
// cmd/grid-sync take precedence over file values; the file exists so floor
// staff can retune the exhibit without touching the service unit.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/sweeney/grid-sync/internal/attract"
	"github.com/sweeney/grid-sync/internal/engine"
)

// Config is the full exhibit configuration.
type Config struct {
	// Difficulty selects a named tolerance preset (easy, medium, hard).
	// When set it overrides the explicit tolerance fields under Engine.
	Difficulty string `yaml:"difficulty"`

	FPS              int     `yaml:"fps"`
	Broker           string  `yaml:"broker"`
	HTTPAddr         string  `yaml:"http_addr"`
	HeartbeatSeconds float64 `yaml:"heartbeat_seconds"`

	Pins    PinConfig     `yaml:"pins"`
	Engine  EngineConfig  `yaml:"engine"`
	Attract AttractConfig `yaml:"attract"`
}

// PinConfig holds the button GPIO lines (BCM numbering).
type PinConfig struct {
	P1Up   int `yaml:"p1_up"`
	P1Down int `yaml:"p1_down"`
	P2Up   int `yaml:"p2_up"`
	P2Down int `yaml:"p2_down"`
}

// EngineConfig mirrors engine.Params. Durations are seconds, speeds rad/s.
type EngineConfig struct {
	InputDelay      float64 `yaml:"input_delay"`
	IdleResetTime   float64 `yaml:"idle_reset_time"`
	IdleReturnSpeed float64 `yaml:"idle_return_speed"`
	IdleWaveSettle  float64 `yaml:"idle_wave_settle"`
	SettleDuration  float64 `yaml:"settle_duration"`
	MinGap          float64 `yaml:"min_gap"`
	MaxGap          float64 `yaml:"max_gap"`
	SyncDuration    float64 `yaml:"sync_duration"`
	SyncDecayRatio  float64 `yaml:"sync_decay_ratio"`
	FreqTolerance   float64 `yaml:"freq_tolerance"`
	PhaseTolerance  float64 `yaml:"phase_tolerance"`
	MinActiveFreq   float64 `yaml:"min_active_freq"`
}

// AttractConfig holds the idle pulse tuning.
type AttractConfig struct {
	PulseInterval float64 `yaml:"pulse_interval"`
	PulseSpeed    float64 `yaml:"pulse_speed"`
}

// Default returns the shipped exhibit configuration.
func Default() *Config {
	p := engine.DefaultParams()
	return &Config{
		Difficulty:       "medium",
		FPS:              60,
		Broker:           "tcp://192.168.1.200:1883",
		HTTPAddr:         ":80",
		HeartbeatSeconds: 900,
		Pins: PinConfig{
			P1Up:   5,
			P1Down: 6,
			P2Up:   16,
			P2Down: 26,
		},
		Engine: EngineConfig{
			InputDelay:      p.InputDelay,
			IdleResetTime:   p.IdleResetTime,
			IdleReturnSpeed: p.IdleReturnSpeed,
			IdleWaveSettle:  p.IdleWaveSettle,
			SettleDuration:  p.SettleDuration,
			MinGap:          p.MinGap,
			MaxGap:          p.MaxGap,
			SyncDuration:    p.SyncDuration,
			SyncDecayRatio:  p.SyncDecayRatio,
			FreqTolerance:   p.FreqTolerance,
			PhaseTolerance:  p.PhaseTolerance,
			MinActiveFreq:   p.MinActiveFreq,
		},
		Attract: AttractConfig{
			PulseInterval: attract.DefaultInterval,
			PulseSpeed:    attract.DefaultSpeed,
		},
	}
}

// Load reads a YAML file over the defaults. Fields absent from the file keep
// their default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for values the exhibit cannot run with.
func (c *Config) Validate() error {
	if c.FPS <= 0 {
		return fmt.Errorf("fps must be positive, got %d", c.FPS)
	}
	if c.Difficulty != "" {
		if _, ok := engine.Difficulties[c.Difficulty]; !ok {
			return fmt.Errorf("unknown difficulty %q", c.Difficulty)
		}
	}
	e := c.Engine
	if e.InputDelay < 0 || e.IdleResetTime <= 0 || e.IdleWaveSettle <= 0 ||
		e.IdleReturnSpeed <= 0 || e.SettleDuration <= 0 || e.SyncDuration <= 0 {
		return fmt.Errorf("engine durations must be positive")
	}
	if e.MinGap <= 0 || e.MaxGap <= e.MinGap {
		return fmt.Errorf("gap window (%v, %v) is not a valid range", e.MinGap, e.MaxGap)
	}
	if c.Attract.PulseInterval <= 0 || c.Attract.PulseSpeed <= 0 {
		return fmt.Errorf("attract tuning must be positive")
	}
	return nil
}

// EngineParams builds the engine tuning, applying the difficulty preset on
// top of the explicit tolerance fields when one is named.
func (c *Config) EngineParams() engine.Params {
	p := engine.Params{
		InputDelay:      c.Engine.InputDelay,
		IdleResetTime:   c.Engine.IdleResetTime,
		IdleReturnSpeed: c.Engine.IdleReturnSpeed,
		IdleWaveSettle:  c.Engine.IdleWaveSettle,
		SettleDuration:  c.Engine.SettleDuration,
		MinGap:          c.Engine.MinGap,
		MaxGap:          c.Engine.MaxGap,
		SyncDuration:    c.Engine.SyncDuration,
		SyncDecayRatio:  c.Engine.SyncDecayRatio,
		FreqTolerance:   c.Engine.FreqTolerance,
		PhaseTolerance:  c.Engine.PhaseTolerance,
		MinActiveFreq:   c.Engine.MinActiveFreq,
	}
	if tol, ok := engine.Difficulties[c.Difficulty]; ok {
		p.FreqTolerance = tol.Freq
		p.PhaseTolerance = tol.Phase
	}
	return p
}
