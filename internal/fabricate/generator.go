package fabricate

// ComponentEssenceCombination is one candidate answer: a set of components
// and the essences they yield.
type ComponentEssenceCombination struct {
	Components Combination[Component] `json:"components"`
	Essences   Combination[Essence]   `json:"essences"`
}

// IsSufficientFor reports whether the essences cover required.
func (c ComponentEssenceCombination) IsSufficientFor(required Combination[Essence]) bool {
	return c.Essences.Size() >= required.Size() && required.IsIn(c.Essences)
}

// GenerationResult is the outcome of a search. When Successful is false,
// Sufficient is empty and Insufficient holds every near miss found (possibly
// none).
type GenerationResult struct {
	Successful   bool
	Sufficient   []ComponentEssenceCombination
	Insufficient []ComponentEssenceCombination

	// NodesVisited counts every node of the flattened tree, duplicates included.
	NodesVisited int
	// Truncated is set when a node limit stopped the expansion early.
	Truncated bool
}

// CombinationGenerator enumerates every pick of available components,
// bounded by the owned quantities, and sorts the distinct picks by whether
// they satisfy the essence requirement.
type CombinationGenerator struct {
	available Combination[Component]
	required  Combination[Essence]
	nodeLimit int

	roots  []*CombinationNode
	budget *nodeBudget
	built  bool
}

// NewCombinationGenerator creates a generator over the available components.
func NewCombinationGenerator(available Combination[Component], required Combination[Essence]) *CombinationGenerator {
	return &CombinationGenerator{
		available: available,
		required:  required,
	}
}

// WithNodeLimit caps the number of tree nodes created. Zero means no cap.
// It returns the generator for chaining and must be called before
// AllCombinations or Generate.
func (g *CombinationGenerator) WithNodeLimit(limit int) *CombinationGenerator {
	g.nodeLimit = limit
	return g
}

// build creates one root per distinct available component and expands it.
func (g *CombinationGenerator) build() {
	if g.built {
		return
	}
	g.built = true
	g.budget = newNodeBudget(g.nodeLimit)
	for _, component := range g.available.Members() {
		if !g.budget.take() {
			break
		}
		one := NewUnit(component, 1)
		g.roots = append(g.roots, NewCombinationNode(g.required, OfUnit(one), g.available.SubtractUnit(one)))
	}
	for _, root := range g.roots {
		root.populate(g.budget)
	}
}

// AllCombinations flattens the tree level by level. Every node is a
// candidate, not only the leaves.
func (g *CombinationGenerator) AllCombinations() []ComponentEssenceCombination {
	g.build()
	var out []ComponentEssenceCombination
	level := g.roots
	for len(level) > 0 {
		var next []*CombinationNode
		for _, node := range level {
			out = append(out, ComponentEssenceCombination{Components: node.pick, Essences: node.essences})
			next = append(next, node.children...)
		}
		level = next
	}
	return out
}

// Generate runs the search and partitions the distinct candidates.
func (g *CombinationGenerator) Generate() GenerationResult {
	all := g.AllCombinations()
	result := GenerationResult{
		NodesVisited: len(all),
		Truncated:    g.budget != nil && g.budget.exhausted,
	}
	if len(all) == 0 {
		result.Insufficient = []ComponentEssenceCombination{}
		return result
	}
	for _, candidate := range excludeDuplicates(all) {
		if candidate.IsSufficientFor(g.required) {
			result.Sufficient = append(result.Sufficient, candidate)
		} else {
			result.Insufficient = append(result.Insufficient, candidate)
		}
	}
	result.Successful = len(result.Sufficient) > 0
	return result
}

// excludeDuplicates drops candidates whose components are structurally
// equal to an earlier candidate, keeping first occurrences in order.
func excludeDuplicates(candidates []ComponentEssenceCombination) []ComponentEssenceCombination {
	seen := make(map[string]struct{}, len(candidates))
	out := make([]ComponentEssenceCombination, 0, len(candidates))
	for _, c := range candidates {
		key := c.Components.canonicalKey()
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, c)
	}
	return out
}
