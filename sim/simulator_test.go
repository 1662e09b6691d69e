package sim

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gsp-sim/gsp/sim/internal/testutil"
)

// newChainSimulation builds the chain network * --> A --> B --> C --> *
// starting from A=0, B=1, C=0.
func newChainSimulation(t *testing.T) *Simulation {
	t.Helper()
	s := NewSimulation(mustState(t, 0, 1, 0))
	for _, r := range []Reaction{
		SimpleGeneration{Species: 0, Rate: 0.1},
		SimpleTransformation{Reactant: 0, Product: 1, Rate: 0.2},
		SimpleTransformation{Reactant: 1, Product: 2, Rate: 0.3},
		SimpleDecay{Species: 2, Rate: 0.4},
	} {
		require.NoError(t, s.AddReaction(r))
	}
	return s
}

// === Registration ===

func TestAddReaction_InvalidConfiguration_Rejected(t *testing.T) {
	tests := []struct {
		name     string
		reaction Reaction
	}{
		{"nil reaction", nil},
		{"index past end", SimpleGeneration{Species: 3, Rate: 1}},
		{"negative index", SimpleDecay{Species: -1, Rate: 1}},
		{"product out of range", SimpleTransformation{Reactant: 0, Product: 9, Rate: 1}},
		{"mediator out of range", LinearMediatedGeneration{Species: 0, Mediator: 3, Rate: 1}},
		{"second product out of range", SimpleDissociation{Reactant: 0, Product1: 1, Product2: 4, Rate: 1}},
		{"zero rate", SimpleGeneration{Species: 0, Rate: 0}},
		{"negative rate", SimpleAssociation{Reactant1: 0, Reactant2: 1, Product: 2, Rate: -0.5}},
		{"NaN rate", SimpleDecay{Species: 0, Rate: math.NaN()}},
		{"infinite rate", SimpleDecay{Species: 0, Rate: math.Inf(1)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// GIVEN a simulation over three species with one valid reaction
			s := NewSimulation(mustState(t, 1, 1, 1))
			require.NoError(t, s.AddReaction(SimpleGeneration{Species: 0, Rate: 1}))

			// WHEN an invalid reaction is registered
			err := s.AddReaction(tt.reaction)

			// THEN registration fails with a ConfigurationError and nothing is appended
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrConfiguration), "error %v must wrap ErrConfiguration", err)
			var cfgErr *ConfigurationError
			require.True(t, errors.As(err, &cfgErr))
			assert.Equal(t, 1, cfgErr.Reaction)
			assert.Equal(t, 1, s.NumReactions())
		})
	}
}

func TestAddReaction_PreservesRegistrationOrder(t *testing.T) {
	s := newChainSimulation(t)
	got := s.Reactions()
	require.Len(t, got, 4)
	assert.Equal(t, KindGeneration, got[0].Kind())
	assert.Equal(t, KindTransformation, got[1].Kind())
	assert.Equal(t, KindTransformation, got[2].Kind())
	assert.Equal(t, KindDecay, got[3].Kind())
}

// === Stalled dynamics ===

func TestStep_ZeroTotalPropensity_NoOpWithoutDraws(t *testing.T) {
	// GIVEN a network whose only reaction has no reactant left
	s := NewSimulation(mustState(t, 0, 4))
	require.NoError(t, s.AddReaction(SimpleDecay{Species: 0, Rate: 1}))
	require.NoError(t, s.AddReaction(SimpleAssociation{Reactant1: 0, Reactant2: 1, Product: 1, Rate: 1}))
	src := testutil.NewScriptedSource(t)

	// WHEN stepped
	res := s.Step(src)

	// THEN the step reports a stall, draws nothing and changes nothing
	assert.True(t, res.Stalled())
	assert.Equal(t, StepStalled, res.Status)
	assert.Equal(t, -1, res.Reaction)
	assert.Equal(t, 0, src.Draws)
	assert.Equal(t, []int64{0, 4}, s.State().Species())
	assert.Equal(t, 0.0, s.State().Time())
	assert.Equal(t, 0, s.StepCount())
}

func TestStep_NoReactions_Stalls(t *testing.T) {
	s := NewSimulation(mustState(t, 1))
	if res := s.Step(testutil.NewScriptedSource(t)); !res.Stalled() {
		t.Errorf("Step with no reactions = %v, want stalled", res.Status)
	}
}

// === Direct Method mechanics ===

func TestStep_ScriptedDraws_WaitingTimeAndSelection(t *testing.T) {
	// GIVEN constant propensities 1 and 3 (total 4)
	s := NewSimulation(mustState(t, 0, 0))
	require.NoError(t, s.AddReaction(SimpleGeneration{Species: 0, Rate: 1}))
	require.NoError(t, s.AddReaction(SimpleGeneration{Species: 1, Rate: 3}))

	// WHEN u1 = e^-4 and u2 = 0.2 (threshold 0.8 < 1)
	src := testutil.NewScriptedSource(t, math.Exp(-4), 0.2)
	res := s.Step(src)

	// THEN tau = 4/4 = 1 and the first reaction fires
	assert.Equal(t, StepFired, res.Status)
	assert.Equal(t, 0, res.Reaction)
	assert.InDelta(t, 1.0, res.WaitingTime, 1e-12)
	assert.Equal(t, 4.0, res.Total)
	assert.Equal(t, 2, src.Draws)
	assert.Equal(t, []int64{1, 0}, s.State().Species())
	assert.InDelta(t, 1.0, s.State().Time(), 1e-12)
	assert.Equal(t, 1, s.StepCount())
}

func TestStep_ThresholdOnBoundary_GoesToNextReaction(t *testing.T) {
	// GIVEN propensities 1 and 3; threshold exactly 1.0 sits on the boundary
	s := NewSimulation(mustState(t, 0, 0))
	require.NoError(t, s.AddReaction(SimpleGeneration{Species: 0, Rate: 1}))
	require.NoError(t, s.AddReaction(SimpleGeneration{Species: 1, Rate: 3}))

	// WHEN u2 = 0.25 (threshold 1.0); cumulative sum must strictly exceed it
	res := s.Step(testutil.NewScriptedSource(t, 0.5, 0.25))

	// THEN the second reaction fires
	assert.Equal(t, 1, res.Reaction)
}

func TestStep_ZeroPropensityReaction_NeverSelected(t *testing.T) {
	// GIVEN propensities [1, 0, 1]
	s := NewSimulation(mustState(t, 0, 0, 0))
	require.NoError(t, s.AddReaction(SimpleGeneration{Species: 0, Rate: 1}))
	require.NoError(t, s.AddReaction(SimpleDecay{Species: 1, Rate: 5}))
	require.NoError(t, s.AddReaction(SimpleGeneration{Species: 2, Rate: 1}))

	// WHEN the threshold lands exactly on the first boundary
	res := s.Step(testutil.NewScriptedSource(t, 0.5, 0.5))

	// THEN the inactive middle reaction is skipped
	assert.Equal(t, 2, res.Reaction)
	assert.Equal(t, []int64{0, 0, 1}, s.State().Species())
}

func TestSelectReaction_ThresholdAtTotal_FallsBackToLastActive(t *testing.T) {
	s := NewSimulation(mustState(t, 0, 0, 0))
	require.NoError(t, s.AddReaction(SimpleGeneration{Species: 0, Rate: 1}))
	require.NoError(t, s.AddReaction(SimpleGeneration{Species: 1, Rate: 2}))
	require.NoError(t, s.AddReaction(SimpleDecay{Species: 2, Rate: 1}))
	s.propensities = []float64{1, 2, 0}

	if got := s.selectReaction(3); got != 1 {
		t.Errorf("selectReaction(total) = %d, want 1 (last non-zero propensity)", got)
	}
}

func TestNewSimulation_OwnsPrivateCopy(t *testing.T) {
	// GIVEN a caller-held initial state
	initial := mustState(t, 0, 1, 0)
	s := NewSimulation(initial)
	require.NoError(t, s.AddReaction(SimpleGeneration{Species: 0, Rate: 1}))

	// WHEN the simulation steps and the caller mutates a returned snapshot
	s.Step(testutil.NewScriptedSource(t, 0.5, 0.5))
	snap := s.State()
	snap.add(0, 100)

	// THEN neither the caller's handle nor the engine's state is aliased
	assert.Equal(t, []int64{0, 1, 0}, initial.Species())
	assert.Equal(t, 0.0, initial.Time())
	assert.Equal(t, []int64{1, 1, 0}, s.State().Species())
}

// === Properties ===

func TestStep_ChainScenario_TimeStrictlyIncreasingAndNonNegative(t *testing.T) {
	// GIVEN the chain network and a seeded source
	s := newChainSimulation(t)
	src := NewPartitionedRNG(NewSimulationKey(0)).Source(SubsystemReactions)

	// WHEN 100 steps are taken
	prev := s.State().Time()
	for step := 1; step <= 100; step++ {
		res := s.Step(src)
		require.False(t, res.Stalled(), "chain with generation never stalls")

		// THEN time strictly increases and no count goes negative
		st := s.State()
		if st.Time() <= prev {
			t.Fatalf("step %d: time %v did not increase from %v", step, st.Time(), prev)
		}
		prev = st.Time()
		for i, n := range st.Species() {
			if n < 0 {
				t.Fatalf("step %d: species %d = %d < 0", step, i, n)
			}
		}
	}
	assert.Equal(t, 100, s.StepCount())
}

func TestStep_NonNegativity_AllReactionKinds(t *testing.T) {
	for seed := int64(1); seed <= 20; seed++ {
		// GIVEN a network exercising every reaction kind, including self-association
		s := NewSimulation(mustState(t, 2, 1, 0, 0))
		for _, r := range []Reaction{
			SimpleGeneration{Species: 0, Rate: 0.5},
			SimpleTransformation{Reactant: 0, Product: 1, Rate: 1},
			SimpleAssociation{Reactant1: 0, Reactant2: 1, Product: 2, Rate: 2},
			SimpleAssociation{Reactant1: 1, Reactant2: 1, Product: 3, Rate: 3},
			SimpleDissociation{Reactant: 2, Product1: 0, Product2: 1, Rate: 0.7},
			SimpleDissociation{Reactant: 3, Product1: 1, Product2: 1, Rate: 0.9},
			LinearMediatedGeneration{Species: 3, Mediator: 2, Rate: 0.3},
			SimpleDecay{Species: 3, Rate: 1.1},
			SimpleDecay{Species: 1, Rate: 0.4},
		} {
			require.NoError(t, s.AddReaction(r))
		}
		src := NewPartitionedRNG(NewSimulationKey(seed)).Source(SubsystemReactions)

		// WHEN run for many steps
		s.Run(src, 2000, func(_ StepResult, st *State) {
			// THEN every count stays non-negative
			for i, n := range st.Species() {
				if n < 0 {
					t.Fatalf("seed %d: species %d = %d < 0 at t=%v", seed, i, n, st.Time())
				}
			}
		})
	}
}

func TestStep_Determinism_SameSeedIdenticalTrajectory(t *testing.T) {
	run := func(seed int64) ([]float64, [][]int64) {
		s := newChainSimulation(t)
		src := NewPartitionedRNG(NewSimulationKey(seed)).Source(SubsystemReactions)
		var times []float64
		var counts [][]int64
		s.Run(src, 500, func(_ StepResult, st *State) {
			times = append(times, st.Time())
			counts = append(counts, st.Species())
		})
		return times, counts
	}

	t1, c1 := run(42)
	t2, c2 := run(42)
	t3, _ := run(43)

	require.Len(t, t1, 500)
	assert.Equal(t, t1, t2, "same seed must give bit-identical times")
	assert.Equal(t, c1, c2, "same seed must give identical counts")
	assert.NotEqual(t, t1, t3, "different seeds should diverge")
}

func TestStep_SelectionFrequency_MatchesPropensityRatio(t *testing.T) {
	// GIVEN four constant-propensity channels with weights 1:2:3:4
	rates := []float64{1, 2, 3, 4}
	s := NewSimulation(mustState(t, 0, 0, 0, 0))
	for i, k := range rates {
		require.NoError(t, s.AddReaction(SimpleGeneration{Species: i, Rate: k}))
	}
	src := NewPartitionedRNG(NewSimulationKey(2024)).Source(SubsystemReactions)

	// WHEN 40000 events are sampled
	counts := make([]int, len(rates))
	s.Run(src, 40000, func(r StepResult, _ *State) { counts[r.Reaction]++ })

	// THEN the empirical frequencies pass a chi-square goodness-of-fit test
	probs := []float64{0.1, 0.2, 0.3, 0.4}
	p := testutil.ChiSquarePValue(counts, probs)
	if p < 0.001 {
		t.Errorf("chi-square p-value = %.6f for counts %v, want >= 0.001", p, counts)
	}
}

func TestStep_WaitingTimeMean_IsInverseTotalPropensity(t *testing.T) {
	// GIVEN a constant total propensity T = 10
	s := NewSimulation(mustState(t, 0, 0))
	require.NoError(t, s.AddReaction(SimpleGeneration{Species: 0, Rate: 4}))
	require.NoError(t, s.AddReaction(SimpleGeneration{Species: 1, Rate: 6}))
	src := NewPartitionedRNG(NewSimulationKey(7)).Source(SubsystemReactions)

	// WHEN many waiting times are sampled
	n := 20000
	sum := 0.0
	s.Run(src, n, func(r StepResult, _ *State) { sum += r.WaitingTime })

	// THEN the mean approximates 1/T
	testutil.AssertFloat64Equal(t, "mean tau", 0.1, sum/float64(n), 0.03)
	testutil.AssertFloat64Equal(t, "final time", sum, s.State().Time(), 1e-9)
}

// === Run ===

func TestRun_StopsOnStall(t *testing.T) {
	// GIVEN three molecules that can only decay
	s := NewSimulation(mustState(t, 3))
	require.NoError(t, s.AddReaction(SimpleDecay{Species: 0, Rate: 1}))
	src := NewPartitionedRNG(NewSimulationKey(1)).Source(SubsystemReactions)

	// WHEN run for up to 10 steps
	observed := 0
	res := s.Run(src, 10, func(r StepResult, st *State) {
		observed++
		assert.Equal(t, 0, r.Reaction)
	})

	// THEN it fires three times and reports the stall
	assert.Equal(t, 3, res.Steps)
	assert.True(t, res.Stalled)
	assert.Equal(t, 3, observed)
	assert.Equal(t, s.State().Time(), res.FinalTime)
	assert.Equal(t, []int64{0}, s.State().Species())
}

func TestRun_RespectsMaxSteps(t *testing.T) {
	s := newChainSimulation(t)
	res := s.Run(NewPartitionedRNG(NewSimulationKey(5)).Source(SubsystemReactions), 25, nil)
	assert.Equal(t, 25, res.Steps)
	assert.False(t, res.Stalled)
	assert.Equal(t, 25, s.StepCount())
}

func TestStepStatus_String(t *testing.T) {
	assert.Equal(t, "fired", StepFired.String())
	assert.Equal(t, "stalled", StepStalled.String())
	assert.Equal(t, "StepStatus(7)", StepStatus(7).String())
}

func BenchmarkStep_FeedbackRing(b *testing.B) {
	const genes = 11
	initial := make([]int64, genes*3)
	for i := 0; i < genes; i++ {
		initial[i*3+1] = 1
	}
	st, _ := NewState(initial)
	s := NewSimulation(st)
	for i := 0; i < genes; i++ {
		off, on, protein := i*3, i*3+1, i*3+2
		repressor := ((i+genes-1)%genes)*3 + 2
		_ = s.AddReaction(SimpleAssociation{Reactant1: on, Reactant2: repressor, Product: off, Rate: 1})
		_ = s.AddReaction(SimpleDissociation{Reactant: off, Product1: on, Product2: repressor, Rate: 0.1})
		_ = s.AddReaction(LinearMediatedGeneration{Species: protein, Mediator: on, Rate: 1})
		_ = s.AddReaction(SimpleDecay{Species: protein, Rate: 1})
	}
	src := NewPartitionedRNG(NewSimulationKey(0)).Source(SubsystemReactions)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		s.Step(src)
	}
}
