package ebitengui

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/san-kum/plexus/internal/particle"
	"github.com/san-kum/plexus/internal/render"
)

// spriteSize is the side of the pre-rendered glow sprite in pixels.
const spriteSize = 64

type glowKey struct{ core, edge color.NRGBA }

type washKey struct {
	w, h     int
	from, to color.NRGBA
}

// Surface draws into an offscreen ebiten image. Gradients are rasterized
// once in software and reused as sprites.
type Surface struct {
	img *ebiten.Image

	wash    *ebiten.Image
	washKey washKey
	glows   map[glowKey]*ebiten.Image
}

var _ render.Surface = (*Surface)(nil)

func NewSurface() *Surface {
	return &Surface{glows: make(map[glowKey]*ebiten.Image)}
}

// Acquire is the frame loop's SurfaceFunc: it fits the offscreen image to
// vp, reallocating on size changes.
func (s *Surface) Acquire(vp particle.Viewport) (render.Surface, error) {
	w, h := int(vp.BufferWidth), int(vp.BufferHeight)
	if s.img != nil {
		if b := s.img.Bounds(); b.Dx() == w && b.Dy() == h {
			return s, nil
		}
		s.img.Deallocate()
		s.img = nil
	}
	if w > 0 && h > 0 {
		s.img = ebiten.NewImage(w, h)
	}
	return s, nil
}

func (s *Surface) Image() *ebiten.Image { return s.img }

func (s *Surface) Size() (int, int) {
	if s.img == nil {
		return 0, 0
	}
	b := s.img.Bounds()
	return b.Dx(), b.Dy()
}

func (s *Surface) Clear(c color.NRGBA) {
	if s.img != nil {
		s.img.Fill(c)
	}
}

func (s *Surface) FillDiagonalGradient(from, to color.NRGBA) {
	w, h := s.Size()
	if w == 0 || h == 0 {
		return
	}
	key := washKey{w: w, h: h, from: from, to: to}
	if s.wash == nil || s.washKey != key {
		if s.wash != nil {
			s.wash.Deallocate()
		}
		src := render.NewImageSurface(w, h)
		src.FillDiagonalGradient(from, to)
		s.wash = ebiten.NewImageFromImage(src.Image())
		s.washKey = key
	}
	s.img.DrawImage(s.wash, nil)
}

func (s *Surface) FillGlow(cx, cy, r float64, core, edge color.NRGBA) {
	if s.img == nil || r <= 0 {
		return
	}
	key := glowKey{core, edge}
	sprite, ok := s.glows[key]
	if !ok {
		src := render.NewImageSurface(spriteSize, spriteSize)
		src.FillGlow(spriteSize/2, spriteSize/2, spriteSize/2, core, edge)
		sprite = ebiten.NewImageFromImage(src.Image())
		s.glows[key] = sprite
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(2*r/spriteSize, 2*r/spriteSize)
	op.GeoM.Translate(cx-r, cy-r)
	op.Filter = ebiten.FilterLinear
	s.img.DrawImage(sprite, op)
}

func (s *Surface) StrokeLine(x0, y0, x1, y1 float64, c color.NRGBA) {
	if s.img == nil {
		return
	}
	vector.StrokeLine(s.img, float32(x0), float32(y0), float32(x1), float32(y1), float32(render.LineWidth), c, true)
}
