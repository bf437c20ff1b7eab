// Package reaction implements a Gray-Scott reaction-diffusion simulator.
//
// A [Simulator] owns two double-buffered concentration fields A and B over a
// fixed grid and advances them with an explicit Euler step:
//
//	r  = A*B*B
//	A' = clamp(A + (Da*lapA - r + f*(1-A)) * dt/2, 0, 1)
//	B' = clamp(B + (Db*lapB + r - (k+f)*B) * dt/2, 0, 1)
//
// where the Laplacian uses the weighted 3x3 stencil from [field.Laplacian]
// and f, k are resolved per cell through [field.ParamMap].
//
// # Boundaries
//
// The boundary mode is fixed per instance. [Clamped] (the default) holds the
// outermost ring of cells at its previous value and only integrates interior
// cells; [Toroidal] integrates every cell with wrapped neighbours.
//
// # Example
//
//	cfg := reaction.DefaultConfig()
//	sim, err := reaction.New(cfg, seed.NewFileSeeder("logo.png", seed.DefaultOptions()))
//	if err != nil {
//	    return err
//	}
//	sim.StepN(100)
//	a, b := sim.Fields()
//
// # Thread Safety
//
// All Simulator methods lock the instance, so calls from a render loop and a
// control goroutine never observe a half-computed step. The simulation itself
// is not reentrant: a step always completes before the next begins.
package reaction
