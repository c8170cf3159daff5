// Package analysis measures recorded telemetry.
//
// The main question it answers is what the modulation actually did, as
// opposed to what the parameters asked for:
//
//   - [DominantRate]: the strongest periodic component of a trace, in Hz
//   - [Spectrum]: magnitude per frequency bin
//   - [Summarize]: range, mean and RMS of a trace
//
// A capture recorded at 60 frames per second with Rate at 2 Hz should
// report a dominant rate near 2:
//
//	hz, ok := analysis.DominantRate(lfo, 60)
package analysis
