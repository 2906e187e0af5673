package render_test

import (
	"image/color"
	"math"
	"math/rand/v2"
	"testing"

	"github.com/san-kum/plexus/internal/particle"
	"github.com/san-kum/plexus/internal/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r2"
)

type line struct {
	x0, y0, x1, y1 float64
	c              color.NRGBA
}

// recorder is a Surface that remembers every call.
type recorder struct {
	w, h   int
	calls  []string
	glows  int
	lines  []line
	washes int
}

func (r *recorder) Size() (int, int)   { return r.w, r.h }
func (r *recorder) Clear(c color.NRGBA) { r.calls = append(r.calls, "clear") }
func (r *recorder) FillDiagonalGradient(from, to color.NRGBA) {
	r.washes++
	r.calls = append(r.calls, "wash")
}
func (r *recorder) FillGlow(cx, cy, rad float64, core, edge color.NRGBA) {
	r.glows++
	r.calls = append(r.calls, "glow")
}
func (r *recorder) StrokeLine(x0, y0, x1, y1 float64, c color.NRGBA) {
	r.lines = append(r.lines, line{x0, y0, x1, y1, c})
	r.calls = append(r.calls, "line")
}

func at(x, y float64) particle.Particle {
	return particle.Particle{Pos: r2.Vec{X: x, Y: y}, Radius: 1}
}

func unitViewport(t *testing.T, w, h float64) particle.Viewport {
	t.Helper()
	vp, err := particle.NewViewport(w, h, 1)
	require.NoError(t, err)
	return vp
}

func TestConnectionAlpha(t *testing.T) {
	const radius = 120.0

	alpha, ok := render.ConnectionAlpha(radius*radius, radius)
	assert.False(t, ok)
	assert.Zero(t, alpha)

	half := radius / 2
	alpha, ok = render.ConnectionAlpha(half*half, radius)
	assert.True(t, ok)
	assert.InDelta(t, 0.75, alpha, 1e-12)

	alpha, ok = render.ConnectionAlpha(0, radius)
	assert.True(t, ok)
	assert.Equal(t, 1.0, alpha)
}

func TestRenderOrder(t *testing.T) {
	vp := unitViewport(t, 400, 400)
	ps := []particle.Particle{at(10, 10), at(20, 10), at(390, 390)}
	surf := &recorder{w: 400, h: 400}

	st := render.NewRenderer(particle.DefaultConfig()).Render(surf, ps, particle.Pointer{}, vp)

	assert.Equal(t, []string{"clear", "wash", "glow", "glow", "glow", "line"}, surf.calls)
	assert.Equal(t, 3, st.Glows)
	assert.Equal(t, 1, st.Connections)
	assert.Equal(t, 3, st.PairChecks)
}

func TestRenderThresholdAndAlpha(t *testing.T) {
	vp := unitViewport(t, 1000, 1000)
	cfg := particle.DefaultConfig()
	ps := []particle.Particle{at(100, 100), at(100+cfg.ConnectionRadius, 100), at(100, 100+cfg.ConnectionRadius/2)}
	surf := &recorder{w: 1000, h: 1000}

	render.NewRenderer(cfg).Render(surf, ps, particle.Pointer{}, vp)

	// Pair (0,1) sits exactly on the radius and is excluded. (1,2) is farther.
	require.Len(t, surf.lines, 1)
	l := surf.lines[0]
	assert.Equal(t, line{100, 100, 100, 160, l.c}, l)
	want := uint8(255*0.75*render.Aurora.LineOpacity + 0.5)
	assert.Equal(t, want, l.c.A)
}

func TestRenderScalesRadiusWithDPR(t *testing.T) {
	vp, err := particle.NewViewport(500, 500, 2)
	require.NoError(t, err)
	ps := []particle.Particle{at(10, 10), at(10, 200)}
	surf := &recorder{w: 1000, h: 1000}

	st := render.NewRenderer(particle.DefaultConfig()).Render(surf, ps, particle.Pointer{}, vp)
	assert.Equal(t, 1, st.Connections)
}

func TestNoSelfOrDuplicatePairs(t *testing.T) {
	vp := unitViewport(t, 50, 50)
	rng := rand.New(rand.NewPCG(1, 1))
	ps := make([]particle.Particle, 30)
	for i := range ps {
		ps[i] = at(rng.Float64()*50, rng.Float64()*50)
	}

	for _, finder := range []render.PairFinder{render.BruteForce{}, render.NewGrid()} {
		t.Run(finder.Name(), func(t *testing.T) {
			seen := map[[2]int]bool{}
			finder.Pairs(ps, particle.DefaultConnectionRadius*vp.DPR, func(i, j int, d2 float64) {
				assert.Less(t, i, j)
				key := [2]int{i, j}
				assert.False(t, seen[key], "pair %v twice", key)
				seen[key] = true
			})
			// Everything is within range in a 50px box.
			assert.Len(t, seen, 30*29/2)
		})
	}
}

func TestGridMatchesBruteForce(t *testing.T) {
	rng := rand.New(rand.NewPCG(21, 8))
	ps := make([]particle.Particle, 300)
	for i := range ps {
		ps[i] = at(rng.Float64()*1920, rng.Float64()*1080)
	}

	type hit struct {
		i, j int
		d2   float64
	}
	collect := func(f render.PairFinder) ([]hit, int) {
		var out []hit
		checks := f.Pairs(ps, 120, func(i, j int, d2 float64) { out = append(out, hit{i, j, d2}) })
		return out, checks
	}

	brute, bruteChecks := collect(render.BruteForce{})
	grid, gridChecks := collect(render.NewGrid())

	assert.Equal(t, brute, grid)
	assert.Equal(t, 300*299/2, bruteChecks)
	assert.Less(t, gridChecks, bruteChecks)
}

func TestRenderDoesNotMutate(t *testing.T) {
	vp := unitViewport(t, 64, 64)
	rng := rand.New(rand.NewPCG(4, 4))
	ps := make([]particle.Particle, 20)
	params := particle.DefaultConfig().Resolve(vp)
	for i := range ps {
		ps[i].Reset(vp, params, rng)
	}
	before := append([]particle.Particle(nil), ps...)

	r := render.NewRenderer(particle.DefaultConfig())
	r.Render(render.NewImageSurface(64, 64), ps, particle.At(32, 32), vp)

	assert.Equal(t, before, ps)
}

func TestRenderEmptyViewport(t *testing.T) {
	vp := unitViewport(t, 0, 0)
	surf := &recorder{}
	st := render.NewRenderer(particle.DefaultConfig()).Render(surf, []particle.Particle{at(0, 0), at(0, 0)}, particle.Pointer{}, vp)

	assert.Zero(t, st)
	assert.Empty(t, surf.calls)
}

func TestFinderByName(t *testing.T) {
	assert.Equal(t, "grid", render.FinderByName("grid").Name())
	assert.Equal(t, "brute", render.FinderByName("brute").Name())
	assert.Equal(t, "brute", render.FinderByName("").Name())
}

func TestPalettes(t *testing.T) {
	p, ok := render.GetPalette("ember")
	assert.True(t, ok)
	assert.Equal(t, "ember", p.Name)

	p, ok = render.GetPalette("missing")
	assert.False(t, ok)
	assert.Equal(t, render.Aurora, p)

	names := render.PaletteNames()
	assert.Equal(t, []string{"aurora", "ember", "mono", "ocean"}, names)
	assert.Equal(t, "ember", render.NextPalette("aurora").Name)
	assert.Equal(t, "aurora", render.NextPalette("ocean").Name)
}

func TestLerpAndAlpha(t *testing.T) {
	a := color.NRGBA{R: 0, G: 100, B: 200, A: 255}
	b := color.NRGBA{R: 100, G: 100, B: 0, A: 0}
	assert.Equal(t, a, render.Lerp(a, b, 0))
	assert.Equal(t, b, render.Lerp(a, b, 1))
	assert.Equal(t, color.NRGBA{R: 50, G: 100, B: 100, A: 128}, render.Lerp(a, b, 0.5))

	assert.Equal(t, uint8(0), render.WithAlpha(a, -1).A)
	assert.Equal(t, uint8(255), render.WithAlpha(a, 2).A)
	assert.Equal(t, uint8(math.Round(255*0.15)), render.WithAlpha(a, 0.15).A)
}
