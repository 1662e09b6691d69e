package sim

import "fmt"

// ReactionKind tags one of the six elementary reaction variants.
type ReactionKind string

const (
	KindGeneration         ReactionKind = "generation"
	KindTransformation     ReactionKind = "transformation"
	KindDecay              ReactionKind = "decay"
	KindAssociation        ReactionKind = "association"
	KindDissociation       ReactionKind = "dissociation"
	KindMediatedGeneration ReactionKind = "mediated_generation"
)

func (k ReactionKind) String() string { return string(k) }

// Reaction is an elementary reaction channel.
//
// Propensity is non-negative and zero whenever a consumed reactant count is
// zero. Fire applies the stoichiometric update; it is called only by
// Simulation.Step right after the reaction was selected, so it may assume its
// reactants are present.
//
// The set of implementations is closed: the six parameter types in this file.
type Reaction interface {
	Propensity(s *State) float64
	Fire(s *State)
	RateConstant() float64
	// Indices lists every species index the reaction reads or writes.
	Indices() []int
	Kind() ReactionKind

	sealed()
}

// SimpleGeneration: * --> species, propensity k.
type SimpleGeneration struct {
	Species int
	Rate    float64
}

func (r SimpleGeneration) Propensity(*State) float64 { return r.Rate }
func (r SimpleGeneration) Fire(s *State)             { s.add(r.Species, 1) }
func (r SimpleGeneration) Indices() []int            { return []int{r.Species} }
func (r SimpleGeneration) Kind() ReactionKind        { return KindGeneration }
func (r SimpleGeneration) RateConstant() float64     { return r.Rate }
func (SimpleGeneration) sealed()                     {}

// SimpleTransformation: reactant --> product, propensity k·n(reactant).
type SimpleTransformation struct {
	Reactant int
	Product  int
	Rate     float64
}

func (r SimpleTransformation) Propensity(s *State) float64 {
	return r.Rate * float64(s.species[r.Reactant])
}

func (r SimpleTransformation) Fire(s *State) {
	s.add(r.Reactant, -1)
	s.add(r.Product, 1)
}

func (r SimpleTransformation) Indices() []int        { return []int{r.Reactant, r.Product} }
func (r SimpleTransformation) Kind() ReactionKind    { return KindTransformation }
func (r SimpleTransformation) RateConstant() float64 { return r.Rate }
func (SimpleTransformation) sealed()                 {}

// SimpleDecay: species --> *, propensity k·n(species).
type SimpleDecay struct {
	Species int
	Rate    float64
}

func (r SimpleDecay) Propensity(s *State) float64 {
	return r.Rate * float64(s.species[r.Species])
}

func (r SimpleDecay) Fire(s *State)         { s.add(r.Species, -1) }
func (r SimpleDecay) Indices() []int        { return []int{r.Species} }
func (r SimpleDecay) Kind() ReactionKind    { return KindDecay }
func (r SimpleDecay) RateConstant() float64 { return r.Rate }
func (SimpleDecay) sealed()                 {}

// SimpleAssociation: reactant1 + reactant2 --> product.
// When both reactants are the same species the combinatorial factor is
// n·(n-1), so a lone molecule never reacts with itself.
type SimpleAssociation struct {
	Reactant1 int
	Reactant2 int
	Product   int
	Rate      float64
}

func (r SimpleAssociation) Propensity(s *State) float64 {
	n1 := s.species[r.Reactant1]
	if r.Reactant1 == r.Reactant2 {
		return r.Rate * float64(n1) * float64(n1-1)
	}
	return r.Rate * float64(n1) * float64(s.species[r.Reactant2])
}

func (r SimpleAssociation) Fire(s *State) {
	s.add(r.Reactant1, -1)
	s.add(r.Reactant2, -1)
	s.add(r.Product, 1)
}

func (r SimpleAssociation) Indices() []int {
	return []int{r.Reactant1, r.Reactant2, r.Product}
}
func (r SimpleAssociation) Kind() ReactionKind    { return KindAssociation }
func (r SimpleAssociation) RateConstant() float64 { return r.Rate }
func (SimpleAssociation) sealed()                 {}

// SimpleDissociation: reactant --> product1 + product2, propensity k·n(reactant).
type SimpleDissociation struct {
	Reactant int
	Product1 int
	Product2 int
	Rate     float64
}

func (r SimpleDissociation) Propensity(s *State) float64 {
	return r.Rate * float64(s.species[r.Reactant])
}

func (r SimpleDissociation) Fire(s *State) {
	s.add(r.Reactant, -1)
	s.add(r.Product1, 1)
	s.add(r.Product2, 1)
}

func (r SimpleDissociation) Indices() []int {
	return []int{r.Reactant, r.Product1, r.Product2}
}
func (r SimpleDissociation) Kind() ReactionKind    { return KindDissociation }
func (r SimpleDissociation) RateConstant() float64 { return r.Rate }
func (SimpleDissociation) sealed()                 {}

// LinearMediatedGeneration: * --(mediator)--> species, propensity k·n(mediator).
// The mediator count is left unchanged.
type LinearMediatedGeneration struct {
	Species  int
	Mediator int
	Rate     float64
}

func (r LinearMediatedGeneration) Propensity(s *State) float64 {
	return r.Rate * float64(s.species[r.Mediator])
}

func (r LinearMediatedGeneration) Fire(s *State)         { s.add(r.Species, 1) }
func (r LinearMediatedGeneration) Indices() []int        { return []int{r.Species, r.Mediator} }
func (r LinearMediatedGeneration) Kind() ReactionKind    { return KindMediatedGeneration }
func (r LinearMediatedGeneration) RateConstant() float64 { return r.Rate }
func (LinearMediatedGeneration) sealed()                 {}

// Describe renders a reaction as a short human-readable string,
// e.g. "association(1+5->0, k=1)".
func Describe(r Reaction) string {
	switch v := r.(type) {
	case SimpleGeneration:
		return fmt.Sprintf("generation(->%d, k=%g)", v.Species, v.Rate)
	case SimpleTransformation:
		return fmt.Sprintf("transformation(%d->%d, k=%g)", v.Reactant, v.Product, v.Rate)
	case SimpleDecay:
		return fmt.Sprintf("decay(%d->, k=%g)", v.Species, v.Rate)
	case SimpleAssociation:
		return fmt.Sprintf("association(%d+%d->%d, k=%g)", v.Reactant1, v.Reactant2, v.Product, v.Rate)
	case SimpleDissociation:
		return fmt.Sprintf("dissociation(%d->%d+%d, k=%g)", v.Reactant, v.Product1, v.Product2, v.Rate)
	case LinearMediatedGeneration:
		return fmt.Sprintf("mediated_generation(%d=>%d, k=%g)", v.Mediator, v.Species, v.Rate)
	default:
		return fmt.Sprintf("%T", r)
	}
}
