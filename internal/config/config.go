package config

import (
	"fmt"
	"os"

	"github.com/san-kum/plexus/internal/particle"
	"github.com/san-kum/plexus/internal/render"
	"gopkg.in/yaml.v3"
)

const (
	DefaultWidth    = 1280
	DefaultHeight   = 720
	DefaultDPR      = 1.0
	DefaultFPS      = 60
	DefaultSeed     = 1
	DefaultPalette  = "aurora"
	DefaultIndex    = "brute"
	DefaultLogLevel = "info"
)

type Config struct {
	Simulation SimulationConfig `yaml:"simulation"`
	Viewport   ViewportConfig   `yaml:"viewport"`
	Render     RenderConfig     `yaml:"render"`
	Loop       LoopConfig       `yaml:"loop"`
	Log        LogConfig        `yaml:"log"`
}

type SimulationConfig struct {
	Seed              uint64  `yaml:"seed"`
	ParticleCount     int     `yaml:"particle_count"`
	VelocityScale     float64 `yaml:"velocity_scale"`
	RadiusMin         float64 `yaml:"radius_min"`
	RadiusMax         float64 `yaml:"radius_max"`
	RepulsionRadius   float64 `yaml:"repulsion_radius"`
	RepulsionStrength float64 `yaml:"repulsion_strength"`
	ConnectionRadius  float64 `yaml:"connection_radius"`
}

type ViewportConfig struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
	DPR    float64 `yaml:"dpr"`
}

type RenderConfig struct {
	Palette   string `yaml:"palette"`
	PairIndex string `yaml:"pair_index"`
}

type LoopConfig struct {
	FPS int `yaml:"fps"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

func DefaultConfig() *Config {
	return &Config{
		Simulation: SimulationConfig{
			Seed:              DefaultSeed,
			ParticleCount:     particle.DefaultCount,
			VelocityScale:     particle.DefaultVelocityScale,
			RadiusMin:         particle.DefaultRadiusMin,
			RadiusMax:         particle.DefaultRadiusMax,
			RepulsionRadius:   particle.DefaultRepulsionRadius,
			RepulsionStrength: particle.DefaultRepulsionStrength,
			ConnectionRadius:  particle.DefaultConnectionRadius,
		},
		Viewport: ViewportConfig{
			Width:  DefaultWidth,
			Height: DefaultHeight,
			DPR:    DefaultDPR,
		},
		Render: RenderConfig{
			Palette:   DefaultPalette,
			PairIndex: DefaultIndex,
		},
		Loop: LoopConfig{FPS: DefaultFPS},
		Log:  LogConfig{Level: DefaultLogLevel},
	}
}

// Load reads path over the defaults, so a file only needs the keys it
// changes.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if err := Overlay(path, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Overlay reads path over cfg, leaving keys the file omits untouched.
func Overlay(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) ParticleConfig() particle.Config {
	s := c.Simulation
	return particle.Config{
		ParticleCount:     s.ParticleCount,
		VelocityScale:     s.VelocityScale,
		RadiusMin:         s.RadiusMin,
		RadiusMax:         s.RadiusMax,
		RepulsionRadius:   s.RepulsionRadius,
		RepulsionStrength: s.RepulsionStrength,
		ConnectionRadius:  s.ConnectionRadius,
	}
}

// BuildViewport builds the configured viewport. A dpr outside [1, 2] is an
// error here rather than being clamped.
func (c *Config) BuildViewport() (particle.Viewport, error) {
	return particle.NewViewportStrict(c.Viewport.Width, c.Viewport.Height, c.Viewport.DPR)
}

func (c *Config) Palette() render.Palette {
	p, _ := render.GetPalette(c.Render.Palette)
	return p
}

func (c *Config) PairFinder() render.PairFinder {
	return render.FinderByName(c.Render.PairIndex)
}

// Validate checks every section that has a fixed domain.
func (c *Config) Validate() error {
	if err := c.ParticleConfig().Validate(); err != nil {
		return err
	}
	if _, err := c.BuildViewport(); err != nil {
		return err
	}
	if _, ok := render.Palettes[c.Render.Palette]; !ok {
		return fmt.Errorf("unknown palette %q (available: %v)", c.Render.Palette, render.PaletteNames())
	}
	switch c.Render.PairIndex {
	case "brute", "grid":
	default:
		return fmt.Errorf("unknown pair_index %q (want brute or grid)", c.Render.PairIndex)
	}
	if c.Loop.FPS <= 0 {
		return fmt.Errorf("fps must be positive, got %d", c.Loop.FPS)
	}
	return nil
}
