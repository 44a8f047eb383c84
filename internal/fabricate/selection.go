package fabricate

import "sort"

// SelectionOptions bounds the search behind an essence selection. Zero
// values mean unbounded.
type SelectionOptions struct {
	// MaxCandidateTypes caps how many distinct component types are searched
	// after irrelevant ones are filtered out. The first types in inventory
	// order are kept.
	MaxCandidateTypes int `json:"max_candidate_types,omitempty"`
	// NodeLimit caps the number of search tree nodes.
	NodeLimit int `json:"node_limit,omitempty"`
}

// Within caps o by ceiling. A positive ceiling field replaces a request
// field that is zero (unbounded) or larger; a zero ceiling field leaves the
// request field as is.
func (o SelectionOptions) Within(ceiling SelectionOptions) SelectionOptions {
	o.MaxCandidateTypes = capLimit(o.MaxCandidateTypes, ceiling.MaxCandidateTypes)
	o.NodeLimit = capLimit(o.NodeLimit, ceiling.NodeLimit)
	return o
}

func capLimit(requested, ceiling int) int {
	if ceiling > 0 && (requested <= 0 || requested > ceiling) {
		return ceiling
	}
	return requested
}

// Selection is the detailed outcome of an essence selection.
type Selection struct {
	Components  Combination[Component]
	Essences    Combination[Essence]
	Requirement TrackedCombination[Essence]
	// Sufficient is true when Components fully covers the requirement.
	Sufficient bool
	// Candidates counts the distinct candidates the generator produced.
	Candidates   int
	NodesVisited int
	Truncated    bool
}

// EssenceSelection picks which owned components to spend to meet an
// essence requirement.
type EssenceSelection struct {
	required Combination[Essence]
	options  SelectionOptions
	logger   Logger
}

// NewEssenceSelection creates a selection strategy for required.
func NewEssenceSelection(required Combination[Essence], options SelectionOptions) *EssenceSelection {
	return &EssenceSelection{
		required: required,
		options:  options,
		logger:   NewNoOpLogger(),
	}
}

// WithLogger sets the logger used for search diagnostics.
func (s *EssenceSelection) WithLogger(logger Logger) *EssenceSelection {
	if logger != nil {
		s.logger = logger
	}
	return s
}

// Required returns the essence requirement.
func (s *EssenceSelection) Required() Combination[Essence] {
	return s.required
}

// Perform returns the chosen components: the smallest sufficient set when
// one exists, otherwise the closest insufficient one, otherwise empty.
func (s *EssenceSelection) Perform(available Combination[Component]) Combination[Component] {
	return s.Evaluate(available).Components
}

// Evaluate runs the selection and reports how the answer was reached.
//
// Sufficient candidates are ranked by fewest components, then by fewest
// essences produced (least waste). Without a sufficient candidate the one
// with the smallest deficit wins. Remaining ties keep generation order.
func (s *EssenceSelection) Evaluate(available Combination[Component]) Selection {
	pool := s.candidatePool(available)
	result := NewCombinationGenerator(pool, s.required).
		WithNodeLimit(s.options.NodeLimit).
		Generate()

	selection := Selection{
		NodesVisited: result.NodesVisited,
		Truncated:    result.Truncated,
		Candidates:   len(result.Sufficient) + len(result.Insufficient),
	}
	if result.Truncated {
		s.logger.Warnf("essence search truncated: node_limit=%d required=%s", s.options.NodeLimit, s.required)
	}

	var chosen ComponentEssenceCombination
	switch {
	case result.Successful:
		ranked := make([]ComponentEssenceCombination, len(result.Sufficient))
		copy(ranked, result.Sufficient)
		sort.SliceStable(ranked, func(i, j int) bool {
			if ranked[i].Components.Size() != ranked[j].Components.Size() {
				return ranked[i].Components.Size() < ranked[j].Components.Size()
			}
			return ranked[i].Essences.Size() < ranked[j].Essences.Size()
		})
		chosen = ranked[0]
	case len(result.Insufficient) > 0:
		chosen = closestMatch(s.required, result.Insufficient)
	}

	selection.Components = chosen.Components
	selection.Essences = chosen.Essences
	selection.Requirement = NewTrackedCombination(s.required, chosen.Essences)
	selection.Sufficient = result.Successful
	s.logger.Debugf("essence selection: required=%s pool=%s chosen=%s sufficient=%t nodes=%d",
		s.required, pool, chosen.Components, selection.Sufficient, result.NodesVisited)
	return selection
}

// candidatePool drops components that cannot contribute any required
// essence, then applies the candidate type cap.
func (s *EssenceSelection) candidatePool(available Combination[Component]) Combination[Component] {
	pool := available.Filter(func(u Unit[Component]) bool {
		essences := u.Element().Essences
		return !essences.IsEmpty() && essences.Intersects(s.required)
	})
	if limit := s.options.MaxCandidateTypes; limit > 0 && pool.Distinct() > limit {
		kept := 0
		pool = pool.Filter(func(Unit[Component]) bool {
			kept++
			return kept <= limit
		})
	}
	return pool
}

// closestMatch returns the first candidate with the smallest deficit.
func closestMatch(required Combination[Essence], candidates []ComponentEssenceCombination) ComponentEssenceCombination {
	best := candidates[0]
	bestDeficit := NewTrackedCombination(required, best.Essences).Deficit()
	for _, c := range candidates[1:] {
		if d := NewTrackedCombination(required, c.Essences).Deficit(); d < bestDeficit {
			best, bestDeficit = c, d
		}
	}
	return best
}
