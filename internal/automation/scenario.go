package automation

import (
	"context"
	"fmt"
	"math"
	"os"

	"github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/plexus/internal/config"
)

// Scenario is a scripted input sequence replayed against a headless loop.
type Scenario struct {
	Name        string             `yaml:"name"`
	Description string             `yaml:"description"`
	Preset      string             `yaml:"preset"`
	Seed        uint64             `yaml:"seed"`
	Params      map[string]float64 `yaml:"params"`
	Steps       []ScenarioStep     `yaml:"steps"`
}

// ScenarioStep applies its events in the order resize, leave, pointer and
// then runs Frames frames, moving the pointer along Path if one is set.
type ScenarioStep struct {
	Frames  int       `yaml:"frames"`
	Resize  *Geometry `yaml:"resize"`
	Leave   bool      `yaml:"leave"`
	Pointer *Point    `yaml:"pointer"`
	Path    *Path     `yaml:"path"`
}

type Point struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

type Geometry struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
	DPR    float64 `yaml:"dpr"`
}

// Path is a pointer trajectory in logical coordinates. Kind "line" goes
// From→To inclusive; kind "circle" orbits Center Turns times.
type Path struct {
	Kind   string  `yaml:"kind"`
	From   Point   `yaml:"from"`
	To     Point   `yaml:"to"`
	Center Point   `yaml:"center"`
	Radius float64 `yaml:"radius"`
	Turns  float64 `yaml:"turns"`
}

// At returns the pointer position for frame i of n.
func (p *Path) At(i, n int) Point {
	switch p.Kind {
	case "circle":
		turns := p.Turns
		if turns == 0 {
			turns = 1
		}
		a := 2 * math.Pi * turns * float64(i) / float64(max(n, 1))
		return Point{X: p.Center.X + p.Radius*math.Cos(a), Y: p.Center.Y + p.Radius*math.Sin(a)}
	default:
		t := float64(i) / float64(max(n-1, 1))
		return Point{X: p.From.X + (p.To.X-p.From.X)*t, Y: p.From.Y + (p.To.Y-p.From.Y)*t}
	}
}

func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := scenario.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &scenario, nil
}

func (s *Scenario) Validate() error {
	if s.Preset != "" && config.GetPreset(s.Preset) == nil {
		return fmt.Errorf("unknown preset %q", s.Preset)
	}
	for i, step := range s.Steps {
		if step.Frames < 0 {
			return fmt.Errorf("step %d: negative frames", i+1)
		}
		if step.Path != nil {
			switch step.Path.Kind {
			case "line", "circle":
			default:
				return fmt.Errorf("step %d: unknown path kind %q", i+1, step.Path.Kind)
			}
		}
	}
	return nil
}

// Config resolves the scenario's preset, params and seed over base.
func (s *Scenario) Config(base *config.Config) (*config.Config, error) {
	cfg := *base
	if s.Preset != "" {
		p := config.GetPreset(s.Preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset %q", s.Preset)
		}
		p.Log = base.Log
		cfg = *p
	}
	for name, v := range s.Params {
		if err := cfg.SetParam(name, v); err != nil {
			return nil, err
		}
	}
	if s.Seed != 0 {
		cfg.Simulation.Seed = s.Seed
	}
	return &cfg, nil
}

type ScenarioResult struct {
	Name     string
	Frames   int
	Headless *Headless
	Config   *config.Config
}

// RunScenario replays every step. The returned Headless is stopped but its
// surface and recorder hold the final frame and the full series.
func RunScenario(ctx context.Context, s *Scenario, base *config.Config, logger *log.Logger) (*ScenarioResult, error) {
	cfg, err := s.Config(base)
	if err != nil {
		return nil, err
	}
	h, err := NewHeadless(cfg, logger)
	if err != nil {
		return nil, err
	}
	defer h.Close()

	res := &ScenarioResult{Name: s.Name, Headless: h, Config: cfg}
	for i, step := range s.Steps {
		if logger != nil {
			logger.Debug("scenario step", "step", i+1, "of", len(s.Steps), "frames", step.Frames)
		}
		if g := step.Resize; g != nil {
			dpr := g.DPR
			if dpr == 0 {
				dpr = 1
			}
			if err := h.Loop.OnResize(g.Width, g.Height, dpr); err != nil {
				return res, fmt.Errorf("step %d: %w", i+1, err)
			}
		}
		if step.Leave {
			h.Loop.OnPointerLeave()
		}
		if p := step.Pointer; p != nil {
			h.Loop.OnPointerMove(p.X, p.Y)
		}
		for f := 0; f < step.Frames; f++ {
			if err := ctx.Err(); err != nil {
				return res, err
			}
			if step.Path != nil {
				p := step.Path.At(f, step.Frames)
				h.Loop.OnPointerMove(p.X, p.Y)
			}
			if _, ok := h.Loop.Frame(); !ok {
				return res, fmt.Errorf("step %d: loop %s", i+1, h.Loop.State())
			}
			res.Frames++
		}
	}
	return res, nil
}
