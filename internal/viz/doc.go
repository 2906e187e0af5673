// Package viz is the terminal frontend.
//
// The field is drawn on a braille [Canvas] (2x4 dots per cell) through
// [BrailleSurface], which implements render.Surface. [Model] is a Bubble
// Tea model that runs one frame per tick and shows live statistics next
// to the canvas.
//
// # Key Bindings
//
//	Space - Pause/Resume
//	R     - Reseed and repopulate
//	T     - Next palette
//	?     - Toggle help
//	Q     - Quit
//
// Mouse motion over the canvas moves the pointer; leaving the canvas or
// the terminal losing focus removes it.
package viz
