package network

import (
	"fmt"
	"sort"
)

// Built-in scenario presets.
// Each returns a valid NetworkSpec ready for Build.

// ScenarioChain creates the chain * --> A --> B --> C --> * starting from
// A=0, B=1, C=0.
func ScenarioChain() *NetworkSpec {
	return &NetworkSpec{
		Version: "1", Name: "abc",
		Species: []SpeciesSpec{{Name: "A", Initial: 0}, {Name: "B", Initial: 1}, {Name: "C", Initial: 0}},
		Reactions: []ReactionSpec{
			{Kind: "generation", Species: "A", Rate: 0.1},
			{Kind: "transformation", Reactant: "A", Product: "B", Rate: 0.2},
			{Kind: "transformation", Reactant: "B", Product: "C", Rate: 0.3},
			{Kind: "decay", Species: "C", Rate: 0.4},
		},
	}
}

// FeedbackCycleConfig parameterizes ScenarioFeedbackCycle.
type FeedbackCycleConfig struct {
	Genes     int
	OnRate    float64 // gene_off(i) --> gene_on(i) + protein(i-1)
	OffRate   float64 // gene_on(i) + protein(i-1) --> gene_off(i)
	ExprRate  float64 // gene_on(i) mediates * --> protein(i)
	DecayRate float64 // protein(i) --> *
}

// DefaultFeedbackCycleConfig returns an odd-length ring, which cannot settle
// into alternating on/off genes and therefore oscillates.
func DefaultFeedbackCycleConfig() FeedbackCycleConfig {
	return FeedbackCycleConfig{Genes: 11, OnRate: 0.1, OffRate: 1.0, ExprRate: 1.0, DecayRate: 1.0}
}

// ScenarioFeedbackCycle creates a ring of genes where each gene's protein
// represses the next gene. Every gene contributes three species in the order
// gene_off_i, gene_on_i, protein_i; all genes start on with no protein.
func ScenarioFeedbackCycle(cfg FeedbackCycleConfig) *NetworkSpec {
	spec := &NetworkSpec{Version: "1", Name: "feedback-cycle"}
	for i := 0; i < cfg.Genes; i++ {
		spec.Species = append(spec.Species,
			SpeciesSpec{Name: fmt.Sprintf("gene_off_%d", i)},
			SpeciesSpec{Name: fmt.Sprintf("gene_on_%d", i), Initial: 1},
			SpeciesSpec{Name: fmt.Sprintf("protein_%d", i)},
		)
	}
	for i := 0; i < cfg.Genes; i++ {
		off := fmt.Sprintf("gene_off_%d", i)
		on := fmt.Sprintf("gene_on_%d", i)
		protein := fmt.Sprintf("protein_%d", i)
		repressor := fmt.Sprintf("protein_%d", (i+cfg.Genes-1)%cfg.Genes)

		spec.Reactions = append(spec.Reactions,
			ReactionSpec{Kind: "association", Reactant1: on, Reactant2: repressor, Product: off, Rate: cfg.OffRate},
			ReactionSpec{Kind: "dissociation", Reactant: off, Product1: on, Product2: repressor, Rate: cfg.OnRate},
			ReactionSpec{Kind: "mediated_generation", Species: protein, Mediator: on, Rate: cfg.ExprRate},
			ReactionSpec{Kind: "decay", Species: protein, Rate: cfg.DecayRate},
		)
	}
	return spec
}

var scenarios = map[string]func() *NetworkSpec{
	"abc":            ScenarioChain,
	"feedback-cycle": defaultFeedbackCycle,
}

func defaultFeedbackCycle() *NetworkSpec {
	return ScenarioFeedbackCycle(DefaultFeedbackCycleConfig())
}

// Scenario returns the named built-in network.
func Scenario(name string) (*NetworkSpec, error) {
	build, ok := scenarios[name]
	if !ok {
		return nil, fmt.Errorf("unknown scenario %q; valid: %v", name, ScenarioNames())
	}
	return build(), nil
}

// ScenarioNames lists built-in scenarios in sorted order.
func ScenarioNames() []string {
	names := make([]string, 0, len(scenarios))
	for name := range scenarios {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
