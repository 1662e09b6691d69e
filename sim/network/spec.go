package network

import (
	"bytes"
	"fmt"
	"math"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/gsp-sim/gsp/sim"
)

// NetworkSpec is the top-level reaction network description.
// Loaded from YAML via LoadNetworkSpec(path).
type NetworkSpec struct {
	Version   string         `yaml:"version"`
	Name      string         `yaml:"name,omitempty"`
	Species   []SpeciesSpec  `yaml:"species"`
	Reactions []ReactionSpec `yaml:"reactions"`
}

// SpeciesSpec declares one species and its initial count.
// Declaration order fixes the species index.
type SpeciesSpec struct {
	Name    string `yaml:"name"`
	Initial int64  `yaml:"initial"`
}

// ReactionSpec declares one reaction. Which name fields are required depends
// on Kind; unused ones must be left empty.
type ReactionSpec struct {
	Kind      string  `yaml:"kind"`
	Rate      float64 `yaml:"rate"`
	Species   string  `yaml:"species,omitempty"`
	Mediator  string  `yaml:"mediator,omitempty"`
	Reactant  string  `yaml:"reactant,omitempty"`
	Product   string  `yaml:"product,omitempty"`
	Reactant1 string  `yaml:"reactant1,omitempty"`
	Reactant2 string  `yaml:"reactant2,omitempty"`
	Product1  string  `yaml:"product1,omitempty"`
	Product2  string  `yaml:"product2,omitempty"`
}

// Valid value registries.
var (
	validVersions = map[string]bool{"": true, "1": true}

	// requiredFields lists, per kind, the species-name fields that must be set.
	requiredFields = map[string][]string{
		string(sim.KindGeneration):          {"species"},
		string(sim.KindTransformation):      {"reactant", "product"},
		string(sim.KindDecay):               {"species"},
		string(sim.KindAssociation):         {"reactant1", "reactant2", "product"},
		string(sim.KindDissociation):        {"reactant", "product1", "product2"},
		string(sim.KindMediatedGeneration): {"species", "mediator"},
	}
)

// IsValidKind reports whether kind names one of the six reaction kinds.
func IsValidKind(kind string) bool {
	_, ok := requiredFields[kind]
	return ok
}

// LoadNetworkSpec reads and parses a YAML network file.
// Uses strict parsing: unrecognized keys (typos) are rejected.
func LoadNetworkSpec(path string) (*NetworkSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading network spec: %w", err)
	}
	return ParseNetworkSpec(data)
}

// ParseNetworkSpec parses a YAML network description with strict field checking.
func ParseNetworkSpec(data []byte) (*NetworkSpec, error) {
	var spec NetworkSpec
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&spec); err != nil {
		return nil, fmt.Errorf("parsing network spec: %w", err)
	}
	return &spec, nil
}

// fields maps the species-name fields of a ReactionSpec by YAML key.
func (r *ReactionSpec) fields() map[string]string {
	return map[string]string{
		"species":   r.Species,
		"mediator":  r.Mediator,
		"reactant":  r.Reactant,
		"product":   r.Product,
		"reactant1": r.Reactant1,
		"reactant2": r.Reactant2,
		"product1":  r.Product1,
		"product2":  r.Product2,
	}
}

// Validate checks that all fields in the spec are valid.
func (s *NetworkSpec) Validate() error {
	if !validVersions[s.Version] {
		return fmt.Errorf("unsupported version %q; valid: 1", s.Version)
	}
	if len(s.Species) == 0 {
		return fmt.Errorf("at least one species required")
	}
	index := make(map[string]int, len(s.Species))
	for i, sp := range s.Species {
		prefix := fmt.Sprintf("species[%d]", i)
		if sp.Name == "" {
			return fmt.Errorf("%s: name must not be empty", prefix)
		}
		if _, dup := index[sp.Name]; dup {
			return fmt.Errorf("%s: duplicate species name %q", prefix, sp.Name)
		}
		if sp.Initial < 0 {
			return fmt.Errorf("%s: initial count must be non-negative, got %d", prefix, sp.Initial)
		}
		index[sp.Name] = i
	}
	used := make(map[string]bool, len(s.Species))
	for i := range s.Reactions {
		if err := validateReaction(&s.Reactions[i], i, index, used); err != nil {
			return err
		}
	}
	for _, sp := range s.Species {
		if !used[sp.Name] {
			logrus.Warnf("species %q is not referenced by any reaction; its count stays constant", sp.Name)
		}
	}
	return nil
}

func validateReaction(r *ReactionSpec, idx int, index map[string]int, used map[string]bool) error {
	prefix := fmt.Sprintf("reactions[%d]", idx)
	required, ok := requiredFields[r.Kind]
	if !ok {
		return fmt.Errorf("%s: unknown kind %q; valid: generation, transformation, decay, association, dissociation, mediated_generation", prefix, r.Kind)
	}
	if math.IsNaN(r.Rate) || math.IsInf(r.Rate, 0) {
		return fmt.Errorf("%s: rate must be a finite number, got %f", prefix, r.Rate)
	}
	if r.Rate <= 0 {
		return fmt.Errorf("%s: rate must be positive, got %f", prefix, r.Rate)
	}
	fields := r.fields()
	want := make(map[string]bool, len(required))
	for _, key := range required {
		want[key] = true
		name := fields[key]
		if name == "" {
			return fmt.Errorf("%s: %s reaction requires %q", prefix, r.Kind, key)
		}
		if _, ok := index[name]; !ok {
			return fmt.Errorf("%s.%s: unknown species %q", prefix, key, name)
		}
		used[name] = true
	}
	for key, name := range fields {
		if name != "" && !want[key] {
			return fmt.Errorf("%s: field %q is not used by %s reactions", prefix, key, r.Kind)
		}
	}
	return nil
}

// SpeciesNames returns species names in index order.
func (s *NetworkSpec) SpeciesNames() []string {
	names := make([]string, len(s.Species))
	for i, sp := range s.Species {
		names[i] = sp.Name
	}
	return names
}

// InitialCounts returns initial counts in index order.
func (s *NetworkSpec) InitialCounts() []int64 {
	counts := make([]int64, len(s.Species))
	for i, sp := range s.Species {
		counts[i] = sp.Initial
	}
	return counts
}
