package automation

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/san-kum/plexus/internal/analysis"
	"github.com/san-kum/plexus/internal/config"
)

// ParameterSweep runs the same seed across evenly spaced values of one
// simulation parameter.
type ParameterSweep struct {
	Param    string
	Min, Max float64
	NumSteps int
	Frames   int
	// Pointer, when set, orbits during every run so repulsion parameters
	// have something to act on.
	Pointer *Path
}

// SweepResult holds one run's aggregate metrics.
type SweepResult struct {
	Value   float64
	Metrics map[string]float64
}

func RunSweep(ctx context.Context, sweep *ParameterSweep, base *config.Config, logger *log.Logger) ([]SweepResult, error) {
	if sweep.NumSteps < 1 {
		return nil, fmt.Errorf("sweep needs at least one step, got %d", sweep.NumSteps)
	}
	if _, err := base.Param(sweep.Param); err != nil {
		return nil, err
	}

	paramStep := 0.0
	if sweep.NumSteps > 1 {
		paramStep = (sweep.Max - sweep.Min) / float64(sweep.NumSteps-1)
	}

	results := make([]SweepResult, 0, sweep.NumSteps)
	for i := 0; i < sweep.NumSteps; i++ {
		v := sweep.Min + float64(i)*paramStep
		sc := &Scenario{
			Params: map[string]float64{sweep.Param: v},
			Steps:  []ScenarioStep{{Frames: sweep.Frames, Path: sweep.Pointer}},
		}
		res, err := RunScenario(ctx, sc, base, nil)
		if err != nil {
			return results, fmt.Errorf("%s=%g: %w", sweep.Param, v, err)
		}
		results = append(results, SweepResult{Value: v, Metrics: res.Headless.Recorder.Summary()})
		if logger != nil {
			logger.Info("sweep", "step", i+1, "of", sweep.NumSteps, sweep.Param, v)
		}
	}
	return results, nil
}

// SeedTrial is one run of a seed study.
type SeedTrial struct {
	Seed    uint64
	Metrics map[string]float64
}

// RunSeeds repeats the base configuration for n consecutive seeds starting
// at first, one goroutine per seed and at most GOMAXPROCS at a time. Seed
// zero is skipped since a scenario reads it as unset.
func RunSeeds(ctx context.Context, base *config.Config, first uint64, n, frames int) ([]SeedTrial, error) {
	if n < 1 {
		return nil, fmt.Errorf("seed study needs at least one seed, got %d", n)
	}
	trials := make([]SeedTrial, n)
	errs := make([]error, n)
	sem := make(chan struct{}, runtime.GOMAXPROCS(0))
	start := max(first, 1)

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			seed := start + uint64(idx)
			sc := &Scenario{Seed: seed, Steps: []ScenarioStep{{Frames: frames}}}
			res, err := RunScenario(ctx, sc, base, nil)
			if err != nil {
				errs[idx] = fmt.Errorf("seed %d: %w", seed, err)
				return
			}
			trials[idx] = SeedTrial{Seed: seed, Metrics: res.Headless.Recorder.Summary()}
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return trials, nil
}

// TrialStats describes one metric across trials.
func TrialStats(trials []SeedTrial, metric string) analysis.Stats {
	vals := make([]float64, 0, len(trials))
	for _, t := range trials {
		if v, ok := t.Metrics[metric]; ok {
			vals = append(vals, v)
		}
	}
	return analysis.Describe(vals)
}
