package network

import (
	"fmt"

	"github.com/gsp-sim/gsp/sim"
)

// Build validates the network and returns a Simulation with species indexed in
// declaration order and reactions registered in file order.
func (s *NetworkSpec) Build() (*sim.Simulation, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	initial, err := sim.NewState(s.InitialCounts())
	if err != nil {
		return nil, err
	}
	index := make(map[string]int, len(s.Species))
	for i, sp := range s.Species {
		index[sp.Name] = i
	}

	simulation := sim.NewSimulation(initial)
	for i := range s.Reactions {
		r, err := s.Reactions[i].toReaction(index)
		if err != nil {
			return nil, fmt.Errorf("reactions[%d]: %w", i, err)
		}
		if err := simulation.AddReaction(r); err != nil {
			return nil, fmt.Errorf("reactions[%d]: %w", i, err)
		}
	}
	return simulation, nil
}

func (r *ReactionSpec) toReaction(index map[string]int) (sim.Reaction, error) {
	switch sim.ReactionKind(r.Kind) {
	case sim.KindGeneration:
		return sim.SimpleGeneration{Species: index[r.Species], Rate: r.Rate}, nil
	case sim.KindTransformation:
		return sim.SimpleTransformation{Reactant: index[r.Reactant], Product: index[r.Product], Rate: r.Rate}, nil
	case sim.KindDecay:
		return sim.SimpleDecay{Species: index[r.Species], Rate: r.Rate}, nil
	case sim.KindAssociation:
		return sim.SimpleAssociation{
			Reactant1: index[r.Reactant1],
			Reactant2: index[r.Reactant2],
			Product:   index[r.Product],
			Rate:      r.Rate,
		}, nil
	case sim.KindDissociation:
		return sim.SimpleDissociation{
			Reactant: index[r.Reactant],
			Product1: index[r.Product1],
			Product2: index[r.Product2],
			Rate:     r.Rate,
		}, nil
	case sim.KindMediatedGeneration:
		return sim.LinearMediatedGeneration{Species: index[r.Species], Mediator: index[r.Mediator], Rate: r.Rate}, nil
	default:
		return nil, fmt.Errorf("unknown kind %q", r.Kind)
	}
}
