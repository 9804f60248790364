// Package regulator implements a discrete PID control loop.
//
// A [Regulator] owns the mutable loop state (integral accumulator,
// previous measurement, derivative filter memory) and exposes a
// one-step Update(measurement) -> output. Two details matter:
//
//   - Anti-windup: the integral itself is clamped to the output limits
//     on every step, not just the final output.
//   - Derivative kick: the derivative term differentiates the
//     measurement, not the error, and is exactly zero on the first
//     call after New or Reset.
//
// # Usage
//
//	reg, err := regulator.New(regulator.Config{
//	    Kp: 0.2, Ki: 0.01, Kd: 0.05,
//	    Setpoint: 200, OutputLow: 0, OutputHigh: 400,
//	    SampleTime: 0.01,
//	})
//	out := reg.Update(measurement)
//
// A Regulator is not safe for concurrent use; run one instance per
// control loop.
package regulator
