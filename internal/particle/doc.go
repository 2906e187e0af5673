// Package particle provides the data model of the particle field.
//
// The package defines the per-particle state and the values every other
// package shares:
//
//   - [Particle]: point mass with position, velocity and radius
//   - [Viewport]: logical size, device pixel ratio and buffer size
//   - [Pointer]: last known pointer position in buffer space
//   - [Config]: tunables in logical units, resolved to [Params]
//
// All positions and distances are in buffer space, the pixel grid of the
// drawing surface after device pixel ratio scaling. Inbound coordinates are
// converted once, by [ToBuffer], and never again.
//
// # Thread Safety
//
// Nothing in this package is safe for concurrent mutation. The frame loop
// in package sim owns all particles and hands values across goroutines
// through its own latest-value cells.
package particle
