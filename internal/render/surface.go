package render

import "image/color"

// Surface is a drawable target sized in buffer pixels. Implementations
// composite with source-over unless stated otherwise.
type Surface interface {
	Size() (w, h int)
	// Clear replaces every pixel with c.
	Clear(c color.NRGBA)
	// FillDiagonalGradient washes the whole surface with a linear gradient
	// from the top-left corner to the bottom-right corner.
	FillDiagonalGradient(from, to color.NRGBA)
	// FillGlow fills a disc of radius r with a radial gradient from core at
	// the centre to edge at the rim.
	FillGlow(cx, cy, r float64, core, edge color.NRGBA)
	StrokeLine(x0, y0, x1, y1 float64, c color.NRGBA)
}

// Lerp interpolates two colours channel by channel, t in [0, 1].
func Lerp(a, b color.NRGBA, t float64) color.NRGBA {
	mix := func(x, y uint8) uint8 {
		return uint8(float64(x) + (float64(y)-float64(x))*t + 0.5)
	}
	return color.NRGBA{R: mix(a.R, b.R), G: mix(a.G, b.G), B: mix(a.B, b.B), A: mix(a.A, b.A)}
}

// WithAlpha returns c with its alpha multiplied by a.
func WithAlpha(c color.NRGBA, a float64) color.NRGBA {
	if a <= 0 {
		c.A = 0
		return c
	}
	if a > 1 {
		a = 1
	}
	c.A = uint8(float64(c.A)*a + 0.5)
	return c
}
