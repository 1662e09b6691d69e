package sim

import (
	"fmt"
	"strconv"
	"strings"
)

// State is the population vector of a reaction network plus elapsed time.
// Index meaning is defined by the caller's species ordering.
// Only Simulation mutates a State; every other holder sees a clone.
type State struct {
	species []int64
	time    float64
}

// NewState creates a State at time 0 holding a copy of species.
// Negative counts are rejected.
func NewState(species []int64) (*State, error) {
	for i, n := range species {
		if n < 0 {
			return nil, &ConfigurationError{
				Reaction: -1,
				Field:    fmt.Sprintf("species[%d]", i),
				Reason:   fmt.Sprintf("count must be non-negative, got %d", n),
			}
		}
	}
	s := &State{species: make([]int64, len(species))}
	copy(s.species, species)
	return s, nil
}

// Len returns the number of species.
func (s *State) Len() int { return len(s.species) }

// Count returns the count of species i.
func (s *State) Count(i int) int64 { return s.species[i] }

// Time returns the elapsed simulated time.
func (s *State) Time() float64 { return s.time }

// Species returns a copy of the species vector.
func (s *State) Species() []int64 {
	out := make([]int64, len(s.species))
	copy(out, s.species)
	return out
}

// Clone returns an independent deep copy.
func (s *State) Clone() *State {
	return &State{species: s.Species(), time: s.time}
}

// String renders "time c0 c1 ...", one line.
func (s *State) String() string {
	var b strings.Builder
	b.WriteString(strconv.FormatFloat(s.time, 'g', -1, 64))
	for _, n := range s.species {
		b.WriteByte(' ')
		b.WriteString(strconv.FormatInt(n, 10))
	}
	return b.String()
}

func (s *State) add(i int, delta int64) {
	s.species[i] += delta
}

func (s *State) advance(tau float64) {
	s.time += tau
}
