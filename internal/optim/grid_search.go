// Package optim searches simulation parameters for a target behaviour.
package optim

import (
	"context"
	"fmt"
	"math"
	"sort"
)

// Objective scores one parameter assignment; lower is better.
type Objective func(ctx context.Context, params map[string]float64) (float64, error)

// GridSearch evaluates every combination of the listed values.
type GridSearch struct {
	paramNames []string
	ranges     [][]float64
}

func NewGridSearch(params []string, ranges [][]float64) *GridSearch {
	return &GridSearch{paramNames: params, ranges: ranges}
}

// Trial is one evaluated grid point.
type Trial struct {
	Params map[string]float64
	Score  float64
}

// Search returns the best trial and every trial in evaluation order. It
// stops at the first objective error.
func (g *GridSearch) Search(ctx context.Context, objective Objective) (Trial, []Trial, error) {
	if len(g.paramNames) != len(g.ranges) {
		return Trial{}, nil, fmt.Errorf("optim: %d params but %d ranges", len(g.paramNames), len(g.ranges))
	}
	best := Trial{Score: math.Inf(1)}
	var trials []Trial
	err := g.searchRecursive(ctx, 0, map[string]float64{}, objective, &best, &trials)
	return best, trials, err
}

func (g *GridSearch) searchRecursive(
	ctx context.Context,
	depth int,
	current map[string]float64,
	objective Objective,
	best *Trial,
	trials *[]Trial,
) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if depth == len(g.paramNames) {
		score, err := objective(ctx, current)
		if err != nil {
			return fmt.Errorf("%v: %w", formatParams(current), err)
		}
		t := Trial{Params: current, Score: score}
		*trials = append(*trials, t)
		if score < best.Score {
			*best = t
		}
		return nil
	}

	name := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		next := make(map[string]float64, len(current)+1)
		for k, v := range current {
			next[k] = v
		}
		next[name] = val
		if err := g.searchRecursive(ctx, depth+1, next, objective, best, trials); err != nil {
			return err
		}
	}
	return nil
}

// Linspace returns n evenly spaced values from lo to hi inclusive.
func Linspace(lo, hi float64, n int) []float64 {
	if n <= 1 {
		return []float64{lo}
	}
	out := make([]float64, n)
	step := (hi - lo) / float64(n-1)
	for i := range out {
		out[i] = lo + float64(i)*step
	}
	out[n-1] = hi
	return out
}

func formatParams(p map[string]float64) string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	s := ""
	for i, k := range keys {
		if i > 0 {
			s += " "
		}
		s += fmt.Sprintf("%s=%g", k, p[k])
	}
	return s
}
