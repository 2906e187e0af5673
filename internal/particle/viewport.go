package particle

import "math"

const (
	MinDPR = 1.0
	MaxDPR = 2.0
)

// Viewport is the drawing surface geometry. Buffer dimensions are derived
// in the constructor and never change independently of the logical size.
type Viewport struct {
	LogicalWidth  float64
	LogicalHeight float64
	DPR           float64
	BufferWidth   uint32
	BufferHeight  uint32
}

// NewViewport clamps dpr into [MinDPR, MaxDPR] and derives the buffer size.
// Host resize events go through here: browsers and window systems report
// ratios like 3.0 that are legitimately clamped.
func NewViewport(width, height, dpr float64) (Viewport, error) {
	if err := checkSize(width, height); err != nil {
		return Viewport{}, err
	}
	if math.IsNaN(dpr) || math.IsInf(dpr, 0) || dpr <= 0 {
		return Viewport{}, invalid("dpr", dpr)
	}
	return newViewport(width, height, ClampDPR(dpr)), nil
}

// NewViewportStrict is NewViewport for user supplied values: a dpr outside
// [MinDPR, MaxDPR] is rejected rather than clamped.
func NewViewportStrict(width, height, dpr float64) (Viewport, error) {
	if err := checkSize(width, height); err != nil {
		return Viewport{}, err
	}
	if math.IsNaN(dpr) || dpr < MinDPR || dpr > MaxDPR {
		return Viewport{}, invalid("dpr", dpr)
	}
	return newViewport(width, height, dpr), nil
}

func newViewport(width, height, dpr float64) Viewport {
	return Viewport{
		LogicalWidth:  width,
		LogicalHeight: height,
		DPR:           dpr,
		BufferWidth:   uint32(math.Floor(width * dpr)),
		BufferHeight:  uint32(math.Floor(height * dpr)),
	}
}

func checkSize(width, height float64) error {
	if math.IsNaN(width) || math.IsInf(width, 0) || width < 0 {
		return invalid("width", width)
	}
	if math.IsNaN(height) || math.IsInf(height, 0) || height < 0 {
		return invalid("height", height)
	}
	return nil
}

// ClampDPR limits a device pixel ratio to the supported range.
func ClampDPR(dpr float64) float64 {
	return math.Min(MaxDPR, math.Max(MinDPR, dpr))
}

// Contains reports whether (x, y) lies in [0, BufferWidth) x [0, BufferHeight).
func (v Viewport) Contains(x, y float64) bool {
	return x >= 0 && y >= 0 && x < float64(v.BufferWidth) && y < float64(v.BufferHeight)
}

// Empty reports whether the buffer has no pixels.
func (v Viewport) Empty() bool {
	return v.BufferWidth == 0 || v.BufferHeight == 0
}
