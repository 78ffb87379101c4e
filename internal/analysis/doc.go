// Package analysis inspects the spring-damper beyond a plain run.
//
//   - [StepMatrix], [Eigenvalues], [SpectralRadius] and [Stable]: the linear
//     map one semi-implicit Euler step applies to (x - anchor, v)
//   - [PowerSpectrum] and [DominantFrequency]: radix-2 FFT of a trace
//   - [Reference]: the continuous damped spring the discrete map approximates
//   - [Compare]: deviation between two traces
//
// # Stability
//
// The integrator converges to the anchor exactly when the spectral radius
// of the step matrix is below one:
//
//	if !analysis.Stable(p) {
//	    // trajectory grows without bound
//	}
package analysis
