package sim

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewState_CopiesInputAndStartsAtZero(t *testing.T) {
	// GIVEN an initial vector owned by the caller
	initial := []int64{0, 1, 0}

	// WHEN a State is built from it and the caller mutates the slice afterwards
	s, err := NewState(initial)
	require.NoError(t, err)
	initial[1] = 99

	// THEN the State is unaffected and time starts at 0
	assert.Equal(t, []int64{0, 1, 0}, s.Species())
	assert.Equal(t, 0.0, s.Time())
	assert.Equal(t, 3, s.Len())
}

func TestNewState_NegativeCount_ConfigurationError(t *testing.T) {
	_, err := NewState([]int64{1, -2})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrConfiguration))

	var cfgErr *ConfigurationError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, -1, cfgErr.Reaction)
	assert.Equal(t, "species[1]", cfgErr.Field)
}

func TestNewState_Empty(t *testing.T) {
	s, err := NewState(nil)
	require.NoError(t, err)
	assert.Equal(t, 0, s.Len())
	assert.Equal(t, "0", s.String())
}

func TestState_SpeciesReturnsCopy(t *testing.T) {
	s, _ := NewState([]int64{5})
	got := s.Species()
	got[0] = 0
	if s.Count(0) != 5 {
		t.Errorf("Count(0) = %d after mutating Species() copy, want 5", s.Count(0))
	}
}

func TestState_CloneIsIndependent(t *testing.T) {
	s, _ := NewState([]int64{2, 3})
	c := s.Clone()
	s.add(0, -1)
	s.advance(1.5)

	assert.Equal(t, []int64{2, 3}, c.Species())
	assert.Equal(t, 0.0, c.Time())
	assert.Equal(t, []int64{1, 3}, s.Species())
	assert.Equal(t, 1.5, s.Time())
}

func TestState_String(t *testing.T) {
	s, _ := NewState([]int64{0, 1, 0})
	s.advance(0.25)
	assert.Equal(t, "0.25 0 1 0", s.String())
}
