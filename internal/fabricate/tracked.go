package fabricate

// TrackedUnit reports progress towards one required element.
type TrackedUnit[T Identifiable] struct {
	target Unit[T]
	actual int
}

// Element returns the required element.
func (u TrackedUnit[T]) Element() T {
	return u.target.element
}

// ID returns the required element's identity.
func (u TrackedUnit[T]) ID() string {
	return u.target.ID()
}

// Target returns the required quantity.
func (u TrackedUnit[T]) Target() int {
	return u.target.quantity
}

// Actual returns the quantity found.
func (u TrackedUnit[T]) Actual() int {
	return u.actual
}

// IsSufficient reports whether the found quantity meets the requirement.
func (u TrackedUnit[T]) IsSufficient() bool {
	return u.actual >= u.target.quantity
}

// TrackedCombination is a read-only view pairing a target combination with
// what was actually found. Used to report "X of Y" progress and to rank
// near misses by deficit.
type TrackedCombination[T Identifiable] struct {
	target Combination[T]
	actual Combination[T]
}

// NewTrackedCombination pairs target with actual.
func NewTrackedCombination[T Identifiable](target, actual Combination[T]) TrackedCombination[T] {
	return TrackedCombination[T]{target: target, actual: actual}
}

// Target returns the required combination.
func (t TrackedCombination[T]) Target() Combination[T] {
	return t.target
}

// Actual returns the found combination.
func (t TrackedCombination[T]) Actual() Combination[T] {
	return t.actual
}

// IsEmpty reports whether nothing is required.
func (t TrackedCombination[T]) IsEmpty() bool {
	return t.target.IsEmpty()
}

// IsSufficient reports whether every required unit is met. An empty target
// is always sufficient.
func (t TrackedCombination[T]) IsSufficient() bool {
	for _, u := range t.target.Units() {
		if t.actual.AmountForID(u.ID()) < u.quantity {
			return false
		}
	}
	return true
}

// Deficit is the shortfall of total size, floored at zero.
func (t TrackedCombination[T]) Deficit() int {
	return max(0, t.target.Size()-t.actual.Size())
}

// Units returns one tracked unit per required element, in target order.
func (t TrackedCombination[T]) Units() []TrackedUnit[T] {
	out := make([]TrackedUnit[T], 0, t.target.Distinct())
	for _, u := range t.target.Units() {
		out = append(out, TrackedUnit[T]{target: u, actual: t.actual.AmountForID(u.ID())})
	}
	return out
}

// AmountRequiredFor returns the required quantity of element.
func (t TrackedCombination[T]) AmountRequiredFor(element T) int {
	return t.target.AmountFor(element)
}

// AmountRequiredForID returns the required quantity stored under id.
func (t TrackedCombination[T]) AmountRequiredForID(id string) int {
	return t.target.AmountForID(id)
}

// AmountFoundFor returns the found quantity of element.
func (t TrackedCombination[T]) AmountFoundFor(element T) int {
	return t.actual.AmountFor(element)
}

// AmountFoundForID returns the found quantity stored under id.
func (t TrackedCombination[T]) AmountFoundForID(id string) int {
	return t.actual.AmountForID(id)
}
