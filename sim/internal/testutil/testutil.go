// Package testutil provides shared test infrastructure for the gsp engine.
// It consolidates random-source doubles and statistical assertion helpers used
// across sim/, sim/network/ and sim/trace/ test packages.
package testutil

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// ScriptedSource is a RandomSource double that replays a fixed sequence of
// draws and counts how many were consumed.
type ScriptedSource struct {
	t      testing.TB
	values []float64
	Draws  int
}

// NewScriptedSource returns a source replaying values in order.
// Drawing past the end fails the test.
func NewScriptedSource(t testing.TB, values ...float64) *ScriptedSource {
	return &ScriptedSource{t: t, values: values}
}

// Float64 returns the next scripted draw.
func (s *ScriptedSource) Float64() float64 {
	if s.Draws >= len(s.values) {
		s.t.Fatalf("scripted source exhausted after %d draws", s.Draws)
		return 0.5
	}
	v := s.values[s.Draws]
	s.Draws++
	return v
}

// AssertFloat64Equal compares two float64 values with relative tolerance.
func AssertFloat64Equal(t *testing.T, name string, want, got, relTol float64) {
	t.Helper()
	if want == 0 && got == 0 {
		return
	}
	diff := math.Abs(want - got)
	maxVal := math.Max(math.Abs(want), math.Abs(got))
	if diff/maxVal > relTol {
		t.Errorf("%s: got %v, want %v (diff=%v, relDiff=%v)", name, got, want, diff, diff/maxVal)
	}
}

// ChiSquarePValue runs Pearson's goodness-of-fit test of observed counts
// against expected probabilities (which must sum to 1) and returns the p-value.
func ChiSquarePValue(observed []int, probs []float64) float64 {
	n := 0
	for _, o := range observed {
		n += o
	}
	obs := make([]float64, len(observed))
	exp := make([]float64, len(observed))
	for i := range observed {
		obs[i] = float64(observed[i])
		exp[i] = probs[i] * float64(n)
	}
	chi2 := stat.ChiSquare(obs, exp)
	dist := distuv.ChiSquared{K: float64(len(observed) - 1)}
	return dist.Survival(chi2)
}
