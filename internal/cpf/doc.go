// Package cpf traces the solution curve of the AC power-flow equations as
// loading ramps from a base operating point toward a target point, using a
// predictor-corrector continuation scheme with a normalized tangent predictor.
//
// The continuation parameter lambda interpolates the bus injections,
// S(lambda) = Sbase + lambda*(Starget - Sbase). Augmenting the Newton system
// with a parameterization equation lets the corrector stay well-posed through
// the nose (maximum loadability) point where the plain power-flow Jacobian is
// singular.
//
// Bus types are fixed for a run: generator reactive-power limits are not
// enforced, so no PV/PQ switching happens mid-trace. This is a known
// limitation of the tracer.
package cpf
