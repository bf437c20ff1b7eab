// Package field provides the scalar grids shared by the simulators.
//
// The package defines the storage and numerical primitives used by
// reaction-diffusion and cellular automaton models:
//
//   - [Grid]: row-major cols x rows float64 field
//   - [Laplacian] / [LaplacianWrap]: weighted 3x3 diffusion stencil
//   - [ParamMap]: per-cell parameter lookup ([Uniform], [PerCell], [Scaled])
//   - [Initial]: seeded starting conditions handed to a simulator
//
// Grids are plain values with no locking; the owning simulator serialises
// access.
package field
