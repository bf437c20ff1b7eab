// Package analysis provides pattern and time-series analysis for
// reaction-diffusion runs.
//
// The package includes:
//
//   - [PowerSpectrum] and [DominantPeriod]: oscillation in a sampled series
//   - [DominantWavelength]: characteristic spatial scale of a field
//   - [Divergence]: sensitivity of a configuration to a tiny perturbation
//   - [PhasePortrait]: two sampled series plotted against each other
//
// # Sensitivity
//
// A positive divergence exponent means two almost identical starts drift
// apart:
//
//	res, err := analysis.Divergence(cfg, seeder, 1e-6, 500)
//	if err == nil && res.Exponent > 0 {
//	    // pattern is sensitive to initial conditions
//	}
package analysis
