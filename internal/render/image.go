package render

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"golang.org/x/image/vector"
)

// LineWidth is the stroke width of connection lines in buffer pixels.
const LineWidth = 1.0

// ImageSurface draws into an in-memory RGBA image. Lines and glow
// coverage go through an anti-aliasing rasterizer sized to each shape's
// visible bounding box; the rasterizer clips whatever lies outside it.
type ImageSurface struct {
	img     *image.RGBA
	z       *vector.Rasterizer
	maskPix []uint8
}

func NewImageSurface(w, h int) *ImageSurface {
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	return &ImageSurface{
		img: image.NewRGBA(image.Rect(0, 0, w, h)),
		z:   vector.NewRasterizer(1, 1),
	}
}

func (s *ImageSurface) Image() *image.RGBA { return s.img }

func (s *ImageSurface) Size() (int, int) {
	b := s.img.Bounds()
	return b.Dx(), b.Dy()
}

// Resize reallocates the backing image when the size changes.
func (s *ImageSurface) Resize(w, h int) {
	if cw, ch := s.Size(); cw == w && ch == h {
		return
	}
	s.img = image.NewRGBA(image.Rect(0, 0, max(w, 0), max(h, 0)))
}

func (s *ImageSurface) Clear(c color.NRGBA) {
	draw.Draw(s.img, s.img.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
}

func (s *ImageSurface) FillDiagonalGradient(from, to color.NRGBA) {
	w, h := s.Size()
	if w == 0 || h == 0 {
		return
	}
	// Project each pixel centre onto the (0,0)->(w,h) axis.
	fw, fh := float64(w), float64(h)
	norm := fw*fw + fh*fh
	for y := 0; y < h; y++ {
		py := (float64(y) + 0.5) * fh
		for x := 0; x < w; x++ {
			t := ((float64(x)+0.5)*fw + py) / norm
			s.blend(x, y, Lerp(from, to, t))
		}
	}
}

// FillGlow shades each pixel by the gradient at its nearest point to the
// centre, weighted by how much of the pixel the disc covers. Sub-pixel
// glows still leave a mark.
func (s *ImageSurface) FillGlow(cx, cy, r float64, core, edge color.NRGBA) {
	if r <= 0 {
		return
	}
	bounds := image.Rect(
		int(math.Floor(cx-r)), int(math.Floor(cy-r)),
		int(math.Ceil(cx+r)), int(math.Ceil(cy+r)),
	).Intersect(s.img.Bounds())
	if bounds.Empty() {
		return
	}

	mask := s.coverage(bounds.Dx(), bounds.Dy())
	ox, oy := float64(bounds.Min.X), float64(bounds.Min.Y)
	s.z.Reset(bounds.Dx(), bounds.Dy())
	s.z.DrawOp = draw.Src
	circlePath(s.z, cx-ox, cy-oy, r)
	s.z.Draw(mask, mask.Bounds(), image.Opaque, image.Point{})

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		dy := nearest(cy, float64(y))
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			cov := mask.AlphaAt(x-bounds.Min.X, y-bounds.Min.Y).A
			if cov == 0 {
				continue
			}
			dx := nearest(cx, float64(x))
			t := math.Min(math.Sqrt(dx*dx+dy*dy)/r, 1)
			c := Lerp(core, edge, t)
			c.A = uint8(uint32(c.A) * uint32(cov) / 255)
			s.blend(x, y, c)
		}
	}
}

// nearest is the distance from c to the closest point of the unit cell
// starting at lo.
func nearest(c, lo float64) float64 {
	return c - clamp(c, lo, lo+1)
}

// kappa places cubic control points so four arcs approximate a circle.
const kappa = 0.5522847498

func circlePath(z *vector.Rasterizer, cx, cy, r float64) {
	x, y, rr := float32(cx), float32(cy), float32(r)
	k := rr * kappa
	z.MoveTo(x+rr, y)
	z.CubeTo(x+rr, y+k, x+k, y+rr, x, y+rr)
	z.CubeTo(x-k, y+rr, x-rr, y+k, x-rr, y)
	z.CubeTo(x-rr, y-k, x-k, y-rr, x, y-rr)
	z.CubeTo(x+k, y-rr, x+rr, y-k, x+rr, y)
	z.ClosePath()
}

// coverage returns a cleared w x h mask backed by a reused buffer.
func (s *ImageSurface) coverage(w, h int) *image.Alpha {
	n := w * h
	if cap(s.maskPix) < n {
		s.maskPix = make([]uint8, n)
	}
	pix := s.maskPix[:n]
	clear(pix)
	return &image.Alpha{Pix: pix, Stride: w, Rect: image.Rect(0, 0, w, h)}
}

func (s *ImageSurface) StrokeLine(x0, y0, x1, y1 float64, c color.NRGBA) {
	if c.A == 0 {
		return
	}
	dx, dy := x1-x0, y1-y0
	length := math.Hypot(dx, dy)
	if length == 0 {
		return
	}
	half := LineWidth / 2
	nx, ny := -dy/length*half, dx/length*half

	box := image.Rect(
		int(math.Floor(math.Min(x0, x1)-half)), int(math.Floor(math.Min(y0, y1)-half)),
		int(math.Ceil(math.Max(x0, x1)+half)), int(math.Ceil(math.Max(y0, y1)+half)),
	).Intersect(s.img.Bounds())
	if box.Empty() {
		return
	}

	ox, oy := float64(box.Min.X), float64(box.Min.Y)
	pt := func(x, y float64) (float32, float32) {
		return float32(x - ox), float32(y - oy)
	}

	s.z.Reset(box.Dx(), box.Dy())
	s.z.DrawOp = draw.Over
	s.z.MoveTo(pt(x0+nx, y0+ny))
	s.z.LineTo(pt(x1+nx, y1+ny))
	s.z.LineTo(pt(x1-nx, y1-ny))
	s.z.LineTo(pt(x0-nx, y0-ny))
	s.z.ClosePath()
	s.z.Draw(s.img, box, image.NewUniform(c), image.Point{})
}

// blend composites c over the pixel at (x, y).
func (s *ImageSurface) blend(x, y int, c color.NRGBA) {
	if c.A == 0 {
		return
	}
	i := s.img.PixOffset(x, y)
	pix := s.img.Pix[i : i+4 : i+4]
	a := uint32(c.A)
	inv := 255 - a
	pix[0] = uint8((uint32(c.R)*a + uint32(pix[0])*inv) / 255)
	pix[1] = uint8((uint32(c.G)*a + uint32(pix[1])*inv) / 255)
	pix[2] = uint8((uint32(c.B)*a + uint32(pix[2])*inv) / 255)
	pix[3] = uint8((a*255 + uint32(pix[3])*inv) / 255)
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(hi, math.Max(lo, v))
}
