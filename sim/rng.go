package sim

import (
	"fmt"
	"hash/fnv"
	"math/rand"
)

// RandomSource supplies uniform draws to the stepping algorithm.
// Float64 must return values in the open interval (0, 1).
// Implementations are consumed by exactly one goroutine at a time.
type RandomSource interface {
	Float64() float64
}

// openUniform adapts *rand.Rand, whose Float64 may return exactly 0, to the
// open-interval contract of RandomSource.
type openUniform struct {
	rng *rand.Rand
}

// NewRandomSource wraps rng so that every draw lies in (0, 1).
// Exact zeros from the underlying generator are redrawn.
func NewRandomSource(rng *rand.Rand) RandomSource {
	return &openUniform{rng: rng}
}

func (u *openUniform) Float64() float64 {
	for {
		if v := u.rng.Float64(); v > 0 {
			return v
		}
	}
}

// === SimulationKey ===

// SimulationKey uniquely identifies a reproducible simulation run.
// Two simulations with the same SimulationKey, the same initial state and the
// same reaction registration order MUST produce bit-for-bit identical trajectories.
type SimulationKey int64

// NewSimulationKey creates a SimulationKey from a seed value.
func NewSimulationKey(seed int64) SimulationKey {
	return SimulationKey(seed)
}

// === Subsystem Constants ===

const (
	// SubsystemReactions is the RNG subsystem feeding Simulation.Step.
	// Uses master seed directly so a bare --seed reproduces rand.NewSource(seed).
	SubsystemReactions = "reactions"
)

// SubsystemReplicate returns the subsystem name for replicate trajectory N.
func SubsystemReplicate(id int) string {
	return fmt.Sprintf("replicate_%d", id)
}

// === PartitionedRNG ===

// PartitionedRNG provides deterministic, isolated RNG instances per subsystem.
//
// Derivation formula:
//   - For SubsystemReactions: uses masterSeed directly
//   - For all other subsystems: masterSeed XOR fnv1a64(subsystemName)
//
// Thread-safety: NOT thread-safe. Must be called from single goroutine.
type PartitionedRNG struct {
	key        SimulationKey
	subsystems map[string]*rand.Rand
}

// NewPartitionedRNG creates a PartitionedRNG from a SimulationKey.
func NewPartitionedRNG(key SimulationKey) *PartitionedRNG {
	return &PartitionedRNG{
		key:        key,
		subsystems: make(map[string]*rand.Rand),
	}
}

// ForSubsystem returns a deterministically-seeded RNG for the named subsystem.
// The same subsystem name always returns the same *rand.Rand instance (cached).
// Never returns nil.
func (p *PartitionedRNG) ForSubsystem(name string) *rand.Rand {
	if rng, ok := p.subsystems[name]; ok {
		return rng
	}

	var derivedSeed int64
	if name == SubsystemReactions {
		derivedSeed = int64(p.key)
	} else {
		derivedSeed = int64(p.key) ^ fnv1a64(name)
	}

	rng := rand.New(rand.NewSource(derivedSeed))
	p.subsystems[name] = rng
	return rng
}

// Source returns the named subsystem stream as an open-interval RandomSource.
// Repeated calls share the underlying cached generator.
func (p *PartitionedRNG) Source(name string) RandomSource {
	return NewRandomSource(p.ForSubsystem(name))
}

// Key returns the SimulationKey used to create this PartitionedRNG.
func (p *PartitionedRNG) Key() SimulationKey {
	return p.key
}

// fnv1a64 computes a 64-bit FNV-1a hash of the input string.
func fnv1a64(s string) int64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return int64(h.Sum64())
}
