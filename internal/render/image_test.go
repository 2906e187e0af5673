package render_test

import (
	"image/color"
	"testing"

	"github.com/san-kum/plexus/internal/render"
	"github.com/stretchr/testify/assert"
)

var black = color.NRGBA{A: 255}

func TestImageSurfaceClear(t *testing.T) {
	s := render.NewImageSurface(4, 3)
	w, h := s.Size()
	assert.Equal(t, 4, w)
	assert.Equal(t, 3, h)

	s.Clear(color.NRGBA{R: 10, G: 20, B: 30, A: 255})
	assert.Equal(t, color.RGBA{R: 10, G: 20, B: 30, A: 255}, s.Image().RGBAAt(3, 2))
}

func TestImageSurfaceGlow(t *testing.T) {
	s := render.NewImageSurface(21, 21)
	s.Clear(black)
	s.FillGlow(10.5, 10.5, 8, color.NRGBA{R: 255, A: 255}, color.NRGBA{R: 255, A: 0})

	centre := s.Image().RGBAAt(10, 10)
	assert.GreaterOrEqual(t, centre.R, uint8(250))

	rim := s.Image().RGBAAt(17, 10)
	assert.Less(t, rim.R, centre.R)
	assert.Greater(t, rim.R, uint8(0))

	outside := s.Image().RGBAAt(0, 0)
	assert.Equal(t, color.RGBA{A: 255}, outside)
}

func TestImageSurfaceGlowClipped(t *testing.T) {
	s := render.NewImageSurface(8, 8)
	s.Clear(black)
	assert.NotPanics(t, func() {
		s.FillGlow(0, 0, 20, color.NRGBA{G: 255, A: 255}, color.NRGBA{})
		s.FillGlow(7.9, 7.9, 3, color.NRGBA{G: 255, A: 255}, color.NRGBA{})
	})
	assert.Greater(t, s.Image().RGBAAt(0, 0).G, uint8(0))
}

func TestImageSurfaceSubPixelGlow(t *testing.T) {
	for _, r := range []float64{0.3, 0.6, 0.7, 1.0} {
		s := render.NewImageSurface(20, 20)
		s.Clear(black)
		// Centred on a pixel corner, so no pixel centre lies inside the disc.
		s.FillGlow(10, 10, r, color.NRGBA{R: 255, A: 255}, color.NRGBA{R: 255, A: 0})

		touched := 0
		for _, p := range [][2]int{{9, 9}, {10, 9}, {9, 10}, {10, 10}} {
			if s.Image().RGBAAt(p[0], p[1]).R > 0 {
				touched++
			}
		}
		assert.Equal(t, 4, touched, "r=%v", r)
		assert.Zero(t, s.Image().RGBAAt(12, 12).R, "r=%v", r)
	}
}

func TestImageSurfaceLine(t *testing.T) {
	s := render.NewImageSurface(32, 32)
	s.Clear(black)
	s.StrokeLine(2, 16, 30, 16, color.NRGBA{B: 255, A: 255})

	on := s.Image().RGBAAt(15, 15)
	off := s.Image().RGBAAt(15, 4)
	assert.Greater(t, on.B, uint8(0))
	assert.Equal(t, uint8(0), off.B)
}

func TestImageSurfaceLineEdges(t *testing.T) {
	s := render.NewImageSurface(16, 16)
	s.Clear(black)
	assert.NotPanics(t, func() {
		s.StrokeLine(0, 0, 15.99, 15.99, color.NRGBA{R: 255, A: 128})
		s.StrokeLine(5, 5, 5, 5, color.NRGBA{R: 255, A: 255})
		s.StrokeLine(0, 8, 15.9, 8, color.NRGBA{R: 255, A: 0})
	})
	assert.Greater(t, s.Image().RGBAAt(8, 8).R, uint8(0))
}

func TestImageSurfaceGradient(t *testing.T) {
	s := render.NewImageSurface(64, 64)
	s.Clear(black)
	s.FillDiagonalGradient(color.NRGBA{R: 255, A: 255}, color.NRGBA{B: 255, A: 255})

	tl := s.Image().RGBAAt(0, 0)
	br := s.Image().RGBAAt(63, 63)
	assert.Greater(t, tl.R, tl.B)
	assert.Greater(t, br.B, br.R)
}

func TestImageSurfaceResize(t *testing.T) {
	s := render.NewImageSurface(4, 4)
	img := s.Image()
	s.Resize(4, 4)
	assert.Same(t, img, s.Image())

	s.Resize(10, 2)
	w, h := s.Size()
	assert.Equal(t, 10, w)
	assert.Equal(t, 2, h)
}

func TestImageSurfaceLineCrossingEdgeStaysStraight(t *testing.T) {
	s := render.NewImageSurface(16, 16)
	s.Clear(black)
	// Enters the surface through the left edge at y=8.
	s.StrokeLine(-8, 0, 8, 16, color.NRGBA{R: 255, A: 255})

	assert.Greater(t, s.Image().RGBAAt(4, 12).R, uint8(0), "on the line")
	assert.Zero(t, s.Image().RGBAAt(2, 4).R, "above the entry point")
	assert.Zero(t, s.Image().RGBAAt(0, 4).R, "above the entry point")
}
