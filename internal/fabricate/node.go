package fabricate

// CombinationNode is one candidate pick in the search tree. It owns the
// components picked so far, the essences they yield, and the pool of
// components not yet picked.
//
// Children are created lazily by Populate. Until then IsPopulated is false,
// which tells "not expanded yet" apart from "expanded into nothing".
type CombinationNode struct {
	required  Combination[Essence]
	pick      Combination[Component]
	essences  Combination[Essence]
	remaining Combination[Component]
	children  []*CombinationNode
	populated bool
}

// NewCombinationNode creates a node for pick, with remaining holding the
// candidates still available (pick already excluded).
func NewCombinationNode(required Combination[Essence], pick, remaining Combination[Component]) *CombinationNode {
	return &CombinationNode{
		required:  required,
		pick:      pick,
		essences:  Explode(pick, essencesOf),
		remaining: remaining,
	}
}

// Pick returns the components chosen on the path to this node.
func (n *CombinationNode) Pick() Combination[Component] {
	return n.pick
}

// Essences returns the essences yielded by Pick.
func (n *CombinationNode) Essences() Combination[Essence] {
	return n.essences
}

// Remaining returns the candidates that can still be picked below this node.
func (n *CombinationNode) Remaining() Combination[Component] {
	return n.remaining
}

// Children returns the expanded children, nil before Populate.
func (n *CombinationNode) Children() []*CombinationNode {
	return n.children
}

// IsPopulated reports whether Populate has run.
func (n *CombinationNode) IsPopulated() bool {
	return n.populated
}

// IsSufficient reports whether the node's essences already cover the
// requirement.
func (n *CombinationNode) IsSufficient() bool {
	return n.required.IsIn(n.essences)
}

// Populate expands the subtree below n. A sufficient node is not expanded:
// anything added to it is a superset that can only rank worse. Otherwise
// one child is created per distinct remaining component, each consuming one
// unit of that component from the pool, and every child is expanded in turn.
//
// The tree is exponential in the number of owned units in the worst case.
func (n *CombinationNode) Populate() {
	n.populate(nil)
}

func (n *CombinationNode) populate(budget *nodeBudget) {
	if n.populated {
		return
	}
	n.populated = true
	n.children = make([]*CombinationNode, 0, n.remaining.Distinct())
	if n.IsSufficient() {
		return
	}
	for _, candidate := range n.remaining.Members() {
		if !budget.take() {
			break
		}
		one := NewUnit(candidate, 1)
		n.children = append(n.children, NewCombinationNode(
			n.required,
			n.pick.AddUnit(one),
			n.remaining.SubtractUnit(one),
		))
	}
	for _, child := range n.children {
		child.populate(budget)
	}
}

// nodeBudget caps how many nodes a search may create. A nil budget or a
// zero limit never runs out.
type nodeBudget struct {
	limit     int
	used      int
	exhausted bool
}

func newNodeBudget(limit int) *nodeBudget {
	return &nodeBudget{limit: limit}
}

func (b *nodeBudget) take() bool {
	if b == nil || b.limit <= 0 {
		return true
	}
	if b.used >= b.limit {
		b.exhausted = true
		return false
	}
	b.used++
	return true
}
