// Package plant provides the lumped process models a regulator can be
// simulated against:
//
//   - [FirstOrder]: first-order lag with time constant tau
//   - [SecondOrder]: mass-spring-damper dynamics (omega_n, damping ratio)
//
// Constructors validate parameters up front (tau > 0, omega_n > 0), so a
// model in hand is always safe to step.
package plant
