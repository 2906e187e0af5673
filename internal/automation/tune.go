package automation

import (
	"context"
	"fmt"
	"math"

	"github.com/charmbracelet/log"

	"github.com/san-kum/plexus/internal/config"
	"github.com/san-kum/plexus/internal/optim"
)

// Tuning searches a grid of parameter values for the run whose Metric
// lands closest to Target.
type Tuning struct {
	Params  []string
	Ranges  [][]float64
	Frames  int
	Metric  string
	Target  float64
	Pointer *Path
}

func RunTune(ctx context.Context, t *Tuning, base *config.Config, logger *log.Logger) (optim.Trial, []optim.Trial, error) {
	for _, name := range t.Params {
		if _, err := base.Param(name); err != nil {
			return optim.Trial{}, nil, err
		}
	}
	if t.Frames < 1 {
		return optim.Trial{}, nil, fmt.Errorf("tuning needs at least one frame, got %d", t.Frames)
	}

	objective := func(ctx context.Context, params map[string]float64) (float64, error) {
		sc := &Scenario{
			Params: params,
			Steps:  []ScenarioStep{{Frames: t.Frames, Path: t.Pointer}},
		}
		res, err := RunScenario(ctx, sc, base, nil)
		if err != nil {
			return 0, err
		}
		v, ok := res.Headless.Recorder.Summary()[t.Metric]
		if !ok {
			return 0, fmt.Errorf("unknown metric %q", t.Metric)
		}
		if logger != nil {
			logger.Debug("tune", "params", params, t.Metric, v)
		}
		return math.Abs(v - t.Target), nil
	}
	return optim.NewGridSearch(t.Params, t.Ranges).Search(ctx, objective)
}
