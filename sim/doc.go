// Package sim provides the core stochastic simulation engine for gsp.
//
// # Reading Guide
//
// Start with these three files to understand the simulation kernel:
//   - state.go: species counts and elapsed time
//   - reaction.go: the six elementary reaction kinds (propensity + firing)
//   - simulator.go: reaction registration and the Direct Method step
//
// # Architecture
//
// The engine is single-threaded and synchronous. A Simulation owns exactly one
// State; callers only ever see clones of it. Randomness is never global:
// every Step receives a RandomSource, and PartitionedRNG derives isolated,
// seeded streams so that a seed plus a registration order fixes a trajectory.
//
// Sub-packages build on the engine's public contract:
//   - sim/network/: YAML network descriptions and built-in scenarios
//   - sim/trace/: trajectory recording and summary statistics
//
// # Errors
//
// Invalid initial states and reaction registrations fail fast with a
// *ConfigurationError (errors.Is(err, ErrConfiguration)). A network with no
// active reaction is not an error: Step reports StepStalled.
package sim
