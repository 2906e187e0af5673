// Package analysis inspects recorded metric series.
//
// A stored run carries per-frame series such as mean particle speed or the
// number of drawn connections. The helpers here characterize them:
//
//   - [Spectrum]: one-sided amplitude spectrum of a detrended series
//   - [DominantPeriod]: the strongest non-DC component, in frames
//   - [Describe]: mean, spread and extrema of a series
//
// # Periodicity
//
// A field driven by a scripted pointer loop settles into the loop's rhythm:
//
//	period, power := analysis.DominantPeriod(series["connections"])
//	if power > 0 {
//	    fmt.Printf("repeats every %.1f frames\n", period)
//	}
package analysis
