package viz

import (
	"image/color"
	"math"

	"github.com/san-kum/plexus/internal/render"
)

// DefaultDotScale is how many buffer pixels one braille dot covers.
// Terminal grids are coarse, so the simulation runs in a larger virtual
// space and is sampled down.
const DefaultDotScale = 4.0

// DefaultLineCutoff drops connection lines fainter than this alpha. At
// braille resolution faint lines only add noise.
const DefaultLineCutoff uint8 = 10

// BrailleSurface draws onto a Canvas. It has no colour depth: the wash is
// ignored, glows become filled dots and lines above the cutoff become
// Bresenham strokes.
type BrailleSurface struct {
	Canvas     *Canvas
	DotScale   float64
	LineCutoff uint8

	w, h int
}

var _ render.Surface = (*BrailleSurface)(nil)

func NewBrailleSurface(w, h int) *BrailleSurface {
	s := &BrailleSurface{Canvas: NewCanvas(0, 0), DotScale: DefaultDotScale, LineCutoff: DefaultLineCutoff}
	s.Resize(w, h)
	return s
}

// Resize sets the buffer size in pixels and fits the canvas to it.
func (s *BrailleSurface) Resize(w, h int) {
	s.w, s.h = max(w, 0), max(h, 0)
	cols := int(math.Ceil(float64(s.w) / (2 * s.DotScale)))
	rows := int(math.Ceil(float64(s.h) / (4 * s.DotScale)))
	if cols != s.Canvas.Width || rows != s.Canvas.Height {
		s.Canvas.Resize(cols, rows)
	}
}

func (s *BrailleSurface) Size() (int, int) { return s.w, s.h }

func (s *BrailleSurface) Clear(color.NRGBA) { s.Canvas.Clear() }

func (s *BrailleSurface) FillDiagonalGradient(from, to color.NRGBA) {}

func (s *BrailleSurface) FillGlow(cx, cy, r float64, core, edge color.NRGBA) {
	x, y := s.dot(cx), s.dot(cy)
	s.Canvas.Set(x, y, InkGlow)
	rd := int(r / s.DotScale)
	for dy := -rd; dy <= rd; dy++ {
		for dx := -rd; dx <= rd; dx++ {
			if dx*dx+dy*dy <= rd*rd {
				s.Canvas.Set(x+dx, y+dy, InkGlow)
			}
		}
	}
}

func (s *BrailleSurface) StrokeLine(x0, y0, x1, y1 float64, c color.NRGBA) {
	if c.A < s.LineCutoff {
		return
	}
	s.Canvas.DrawLine(s.dot(x0), s.dot(y0), s.dot(x1), s.dot(y1), InkLine)
}

func (s *BrailleSurface) dot(v float64) int {
	return int(math.Floor(v / s.DotScale))
}
