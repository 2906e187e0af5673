package particle

import "gonum.org/v1/gonum/spatial/r2"

// Pointer is the last observed pointer position in buffer space.
// The zero value is an absent pointer.
type Pointer struct {
	Pos     r2.Vec
	Present bool
}

// ToBuffer converts logical pointer coordinates to a present buffer-space
// Pointer.
func ToBuffer(x, y float64, vp Viewport) Pointer {
	return Pointer{Pos: r2.Vec{X: x * vp.DPR, Y: y * vp.DPR}, Present: true}
}

// At returns a present pointer already in buffer space.
func At(x, y float64) Pointer {
	return Pointer{Pos: r2.Vec{X: x, Y: y}, Present: true}
}
