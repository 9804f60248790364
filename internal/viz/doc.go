// Package viz renders a live, tick-driven view of a running control
// loop. It owns the timer: each bubbletea tick advances the shared
// [sim.Stepper] exactly one sample, so a live session follows the same
// trajectory a batch run would for the same seed and settings. Gains
// and setpoint are adjustable while the loop runs.
package viz
