package export

import (
	"errors"
	"image"
	"image/color/palette"
	"image/gif"
	"image/png"
	"io"

	xdraw "golang.org/x/image/draw"

	"github.com/san-kum/plexus/internal/sim"
)

var ErrNoFrames = errors.New("export: no frames captured")

// WritePNG encodes img, scaled to w×h when both are positive and differ
// from the image size. Windowed hosts present the buffer at logical size;
// passing the logical size here reproduces that.
func WritePNG(out io.Writer, img image.Image, w, h int) error {
	return png.Encode(out, Scale(img, w, h))
}

// Scale resamples img to w×h. Non-positive or matching sizes return img.
func Scale(img image.Image, w, h int) image.Image {
	b := img.Bounds()
	if w <= 0 || h <= 0 || (b.Dx() == w && b.Dy() == h) {
		return img
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, b, xdraw.Src, nil)
	return dst
}

// Animation collects frames for an animated GIF. As a sim.Observer it
// samples Source every Every frames.
type Animation struct {
	Source func() image.Image
	Every  int
	// Delay between frames in hundredths of a second.
	Delay int
	// MaxFrames bounds memory; zero means unbounded.
	MaxFrames int

	frames []*image.Paletted
}

func NewAnimation(source func() image.Image, every, delay int) *Animation {
	return &Animation{Source: source, Every: max(every, 1), Delay: delay}
}

func (a *Animation) OnFrame(rep sim.FrameReport) {
	if a.Source == nil || rep.Index%uint64(max(a.Every, 1)) != 0 {
		return
	}
	if a.MaxFrames > 0 && len(a.frames) >= a.MaxFrames {
		return
	}
	a.Add(a.Source())
}

// Add quantizes img to the web-safe palette with Floyd-Steinberg dithering.
func (a *Animation) Add(img image.Image) {
	if img == nil {
		return
	}
	b := img.Bounds()
	p := image.NewPaletted(image.Rect(0, 0, b.Dx(), b.Dy()), palette.WebSafe)
	xdraw.FloydSteinberg.Draw(p, p.Bounds(), img, b.Min)
	a.frames = append(a.frames, p)
}

func (a *Animation) Len() int { return len(a.frames) }

func (a *Animation) Encode(w io.Writer) error {
	if len(a.frames) == 0 {
		return ErrNoFrames
	}
	anim := gif.GIF{LoopCount: 0}
	for _, frame := range a.frames {
		anim.Image = append(anim.Image, frame)
		anim.Delay = append(anim.Delay, a.Delay)
	}
	return gif.EncodeAll(w, &anim)
}
