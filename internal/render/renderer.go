package render

import (
	"github.com/san-kum/plexus/internal/particle"
)

// FrameStats counts what one Render call drew.
type FrameStats struct {
	Glows       int
	Connections int
	PairChecks  int
}

// Renderer paints particles onto a Surface. It reads particles and never
// mutates them.
type Renderer struct {
	connectionRadius float64
	palette          Palette
	finder           PairFinder
}

type Option func(*Renderer)

func WithPalette(p Palette) Option {
	return func(r *Renderer) { r.palette = p }
}

func WithPairFinder(f PairFinder) Option {
	return func(r *Renderer) { r.finder = f }
}

// NewRenderer builds a renderer for cfg's connection radius. The radius is
// scaled by the viewport's device pixel ratio at render time.
func NewRenderer(cfg particle.Config, opts ...Option) *Renderer {
	r := &Renderer{
		connectionRadius: cfg.ConnectionRadius,
		palette:          Aurora,
		finder:           BruteForce{},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Renderer) Palette() Palette     { return r.palette }
func (r *Renderer) SetPalette(p Palette) { r.palette = p }
func (r *Renderer) Finder() PairFinder   { return r.finder }

// Render draws one frame: background wash, particle glows, then
// connection lines. The pointer does not affect the picture; it is accepted
// so every frontend calls the renderer the same way.
func (r *Renderer) Render(dst Surface, ps []particle.Particle, _ particle.Pointer, vp particle.Viewport) FrameStats {
	var st FrameStats
	w, h := dst.Size()
	if w <= 0 || h <= 0 || vp.Empty() {
		return st
	}

	pal := r.palette
	dst.Clear(pal.Base)
	dst.FillDiagonalGradient(pal.WashFrom, pal.WashTo)

	for i := range ps {
		dst.FillGlow(ps[i].Pos.X, ps[i].Pos.Y, ps[i].Radius, pal.Core, pal.Edge)
		st.Glows++
	}

	radius := r.connectionRadius * vp.DPR
	st.PairChecks = r.finder.Pairs(ps, radius, func(i, j int, d2 float64) {
		alpha, ok := ConnectionAlpha(d2, radius)
		if !ok {
			return
		}
		a, b := ps[i].Pos, ps[j].Pos
		dst.StrokeLine(a.X, a.Y, b.X, b.Y, WithAlpha(pal.Line, alpha*pal.LineOpacity))
		st.Connections++
	})
	return st
}
