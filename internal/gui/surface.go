package gui

import (
	"errors"
	"image/color"
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/san-kum/plexus/internal/particle"
	"github.com/san-kum/plexus/internal/render"
)

var errNoTarget = errors.New("gui: render target not allocated")

type washKey struct {
	w, h     int
	from, to color.NRGBA
}

// Surface draws into an off-screen render texture sized in buffer pixels.
// Calls must happen between BeginTextureMode and EndTextureMode on Target;
// App.Draw brackets each frame that way.
type Surface struct {
	Target rl.RenderTexture2D

	wash    rl.Texture2D
	washKey washKey
}

var _ render.Surface = (*Surface)(nil)

// Resize reallocates the target for vp. It must not run inside texture
// mode.
func (s *Surface) Resize(vp particle.Viewport) {
	w, h := int32(vp.BufferWidth), int32(vp.BufferHeight)
	if s.Target.ID != 0 && s.Target.Texture.Width == w && s.Target.Texture.Height == h {
		return
	}
	s.unloadTarget()
	if w > 0 && h > 0 {
		s.Target = rl.LoadRenderTexture(w, h)
		rl.SetTextureFilter(s.Target.Texture, rl.FilterBilinear)
	}
}

// Acquire is the frame loop's SurfaceFunc. The target is allocated by
// the window code ahead of the frame, so this only checks it matches.
func (s *Surface) Acquire(vp particle.Viewport) (render.Surface, error) {
	if vp.Empty() {
		return s, nil
	}
	if s.Target.ID == 0 {
		return nil, errNoTarget
	}
	return s, nil
}

func (s *Surface) Size() (int, int) {
	if s.Target.ID == 0 {
		return 0, 0
	}
	return int(s.Target.Texture.Width), int(s.Target.Texture.Height)
}

func (s *Surface) Clear(c color.NRGBA) { rl.ClearBackground(rgba(c)) }

// FillDiagonalGradient draws a cached texture produced by the software
// rasterizer, so every frontend shows the same wash.
func (s *Surface) FillDiagonalGradient(from, to color.NRGBA) {
	w, h := s.Size()
	if w == 0 || h == 0 {
		return
	}
	key := washKey{w: w, h: h, from: from, to: to}
	if s.wash.ID == 0 || s.washKey != key {
		if s.wash.ID != 0 {
			rl.UnloadTexture(s.wash)
		}
		img := render.NewImageSurface(w, h)
		img.FillDiagonalGradient(from, to)
		ri := rl.NewImageFromImage(img.Image())
		s.wash = rl.LoadTextureFromImage(ri)
		rl.UnloadImage(ri)
		s.washKey = key
	}
	rl.DrawTexture(s.wash, 0, 0, rl.White)
}

func (s *Surface) FillGlow(cx, cy, r float64, core, edge color.NRGBA) {
	rl.DrawCircleGradient(int32(math.Round(cx)), int32(math.Round(cy)), float32(r), rgba(core), rgba(edge))
}

func (s *Surface) StrokeLine(x0, y0, x1, y1 float64, c color.NRGBA) {
	rl.DrawLineEx(
		rl.NewVector2(float32(x0), float32(y0)),
		rl.NewVector2(float32(x1), float32(y1)),
		float32(render.LineWidth), rgba(c))
}

// Present draws the target onto the window at logical size. Render
// textures are stored upside down, hence the negative source height.
func (s *Surface) Present(vp particle.Viewport) {
	if s.Target.ID == 0 {
		return
	}
	tex := s.Target.Texture
	src := rl.NewRectangle(0, 0, float32(tex.Width), -float32(tex.Height))
	dst := rl.NewRectangle(0, 0, float32(vp.LogicalWidth), float32(vp.LogicalHeight))
	rl.DrawTexturePro(tex, src, dst, rl.NewVector2(0, 0), 0, rl.White)
}

func (s *Surface) Unload() {
	s.unloadTarget()
	if s.wash.ID != 0 {
		rl.UnloadTexture(s.wash)
		s.wash = rl.Texture2D{}
	}
}

func (s *Surface) unloadTarget() {
	if s.Target.ID != 0 {
		rl.UnloadRenderTexture(s.Target)
		s.Target = rl.RenderTexture2D{}
	}
}

// rgba converts to raylib's colour, which is straight alpha like NRGBA.
func rgba(c color.NRGBA) color.RGBA {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: c.A}
}
