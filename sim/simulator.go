// sim/simulator.go
package sim

import (
	"fmt"
	"math"

	"github.com/sirupsen/logrus"
)

// StepStatus reports what a call to Step did.
type StepStatus int

const (
	// StepFired means exactly one reaction fired and time advanced.
	StepFired StepStatus = iota
	// StepStalled means total propensity was zero; nothing changed and no
	// random draws were consumed.
	StepStalled
)

func (s StepStatus) String() string {
	switch s {
	case StepFired:
		return "fired"
	case StepStalled:
		return "stalled"
	default:
		return fmt.Sprintf("StepStatus(%d)", int(s))
	}
}

// StepResult describes one call to Step.
// Reaction is -1 and WaitingTime is 0 when Status is StepStalled.
type StepResult struct {
	Status      StepStatus
	Reaction    int     // registration index of the fired reaction
	WaitingTime float64 // sampled tau
	Total       float64 // total propensity before firing
}

// Stalled reports whether the step found no active reaction.
func (r StepResult) Stalled() bool { return r.Status == StepStalled }

// RunResult summarizes a Run call.
type RunResult struct {
	Steps     int // reactions fired during this run
	Stalled   bool
	FinalTime float64
}

// Simulation owns one State and an append-only, ordered set of reactions,
// and advances the State with Gillespie's Direct Method.
//
// Thread-safety: NOT thread-safe. One goroutine drives a Simulation.
type Simulation struct {
	state     *State
	reactions []Reaction
	// propensities is scratch space reused by every Step, same length as reactions
	propensities []float64
	stepCount    int
}

// NewSimulation creates a Simulation that owns a private copy of initial.
func NewSimulation(initial *State) *Simulation {
	return &Simulation{
		state:        initial.Clone(),
		reactions:    make([]Reaction, 0),
		propensities: make([]float64, 0),
	}
}

// AddReaction validates r against the current state and appends it.
// Every species index must be within the state vector and the rate constant
// must be finite and strictly positive. On error nothing is registered.
func (sim *Simulation) AddReaction(r Reaction) error {
	idx := len(sim.reactions)
	if r == nil {
		return &ConfigurationError{Reaction: idx, Field: "reaction", Reason: "must not be nil"}
	}
	for _, i := range r.Indices() {
		if i < 0 || i >= sim.state.Len() {
			return &ConfigurationError{
				Reaction: idx,
				Field:    r.Kind().String(),
				Reason:   fmt.Sprintf("species index %d out of range [0, %d)", i, sim.state.Len()),
			}
		}
	}
	k := r.RateConstant()
	if !(k > 0) || math.IsInf(k, 0) {
		return &ConfigurationError{
			Reaction: idx,
			Field:    r.Kind().String(),
			Reason:   fmt.Sprintf("rate must be finite and positive, got %g", k),
		}
	}
	sim.reactions = append(sim.reactions, r)
	sim.propensities = append(sim.propensities, 0)
	logrus.Debugf("registered reaction %d: %s", idx, Describe(r))
	return nil
}

// Reactions returns the registered reactions in registration order.
func (sim *Simulation) Reactions() []Reaction {
	out := make([]Reaction, len(sim.reactions))
	copy(out, sim.reactions)
	return out
}

// NumReactions returns the number of registered reactions.
func (sim *Simulation) NumReactions() int { return len(sim.reactions) }

// State returns a snapshot of the current state.
func (sim *Simulation) State() *State { return sim.state.Clone() }

// StepCount returns the number of reactions fired so far.
func (sim *Simulation) StepCount() int { return sim.stepCount }

// Step samples and applies exactly one reaction event.
//
// It draws u1 for the waiting time tau = -ln(u1)/total and u2 for the
// selection threshold u2*total, in that order. The fired reaction is the
// lowest registration index whose cumulative propensity exceeds the threshold.
// When total propensity is zero Step returns a StepStalled result, leaves the
// state untouched and draws nothing.
func (sim *Simulation) Step(src RandomSource) StepResult {
	total := 0.0
	for i, r := range sim.reactions {
		a := r.Propensity(sim.state)
		sim.propensities[i] = a
		total += a
	}
	if total == 0 {
		return StepResult{Status: StepStalled, Reaction: -1}
	}

	tau := -math.Log(src.Float64()) / total
	j := sim.selectReaction(src.Float64() * total)

	sim.state.advance(tau)
	sim.reactions[j].Fire(sim.state)
	sim.stepCount++

	if logrus.IsLevelEnabled(logrus.TraceLevel) {
		logrus.Tracef("[step %07d] t=%g tau=%g fired %d %s", sim.stepCount, sim.state.time, tau, j, Describe(sim.reactions[j]))
	}
	return StepResult{Status: StepFired, Reaction: j, WaitingTime: tau, Total: total}
}

// selectReaction scans the propensities of the current step in registration
// order. If rounding leaves the threshold at or above the final cumulative sum,
// the last reaction with non-zero propensity is chosen.
func (sim *Simulation) selectReaction(threshold float64) int {
	sum := 0.0
	last := -1
	for j, a := range sim.propensities {
		if a > 0 {
			last = j
		}
		sum += a
		if sum > threshold {
			return j
		}
	}
	return last
}

// Run calls Step up to maxSteps times, stopping early when the network stalls.
// observe, if non-nil, receives each fired step together with a snapshot of
// the state after it.
func (sim *Simulation) Run(src RandomSource, maxSteps int, observe func(StepResult, *State)) RunResult {
	var res RunResult
	for res.Steps < maxSteps {
		step := sim.Step(src)
		if step.Stalled() {
			res.Stalled = true
			logrus.Infof("[step %07d] total propensity is zero at t=%g; stopping", sim.stepCount, sim.state.time)
			break
		}
		res.Steps++
		if observe != nil {
			observe(step, sim.state.Clone())
		}
	}
	res.FinalTime = sim.state.time
	logrus.Debugf("run ended after %d steps at t=%g", res.Steps, res.FinalTime)
	return res
}
