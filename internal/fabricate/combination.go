package fabricate

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// Record is the serialized form of a Combination: element id -> quantity.
type Record map[string]int

// Validate reports the first id, in sorted order, whose quantity is not
// positive. FromRecord drops such entries, so records from outside the
// process should be validated first.
func (r Record) Validate() error {
	ids := make([]string, 0, len(r))
	for id := range r {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		if qty := r[id]; qty <= 0 {
			return fmt.Errorf("%w: %s has quantity %d", ErrInvalidQuantity, id, qty)
		}
	}
	return nil
}

// Combination is an immutable multiset of elements keyed by identity.
//
// Every stored unit has a quantity greater than zero. Distinct ids keep the
// order in which they were first inserted, so iteration over Units, IDs and
// Members is deterministic. The zero value is the empty combination.
type Combination[T Identifiable] struct {
	order []string
	units map[string]Unit[T]
	size  int
}

// Empty returns the canonical empty combination.
func Empty[T Identifiable]() Combination[T] {
	return Combination[T]{}
}

// Of returns a combination holding quantity copies of element.
func Of[T Identifiable](element T, quantity int) Combination[T] {
	return OfUnit(NewUnit(element, quantity))
}

// OfUnit returns a combination holding a single unit.
func OfUnit[T Identifiable](unit Unit[T]) Combination[T] {
	b := newCombinationBuilder[T](1)
	b.add(unit)
	return b.build()
}

// OfUnits builds a combination from units, summing the quantities of units
// that share an id. Units with a non-positive total are dropped.
func OfUnits[T Identifiable](units ...Unit[T]) Combination[T] {
	b := newCombinationBuilder[T](len(units))
	for _, u := range units {
		b.add(u)
	}
	return b.build()
}

// FromRecord builds a combination from a serialized record, resolving each
// key with resolve. Keys are inserted in sorted order. A resolver failure is
// returned as a *ResolutionError naming the key.
func FromRecord[T Identifiable](record Record, resolve func(id string) (T, error)) (Combination[T], error) {
	keys := make([]string, 0, len(record))
	for k := range record {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	b := newCombinationBuilder[T](len(keys))
	for _, k := range keys {
		element, err := resolve(k)
		if err != nil {
			return Combination[T]{}, &ResolutionError{Key: k, Err: err}
		}
		b.add(NewUnit(element, record[k]))
	}
	return b.build(), nil
}

// Explode maps every unit (e, q) of c to transform(e).Multiply(q) and folds
// the results together with CombineWith. It is how a combination of
// components becomes the combination of essences they carry.
func Explode[T, R Identifiable](c Combination[T], transform func(T) Combination[R]) Combination[R] {
	b := newCombinationBuilder[R](len(c.order))
	for _, id := range c.order {
		u := c.units[id]
		for _, r := range transform(u.element).Units() {
			b.add(r.Multiply(u.quantity))
		}
	}
	return b.build()
}

// Size returns the sum of all quantities.
func (c Combination[T]) Size() int {
	return c.size
}

// Distinct returns the number of distinct element ids.
func (c Combination[T]) Distinct() int {
	return len(c.order)
}

// IsEmpty reports whether the combination holds nothing.
func (c Combination[T]) IsEmpty() bool {
	return len(c.order) == 0
}

// Has reports whether at least atLeast copies of element are present.
func (c Combination[T]) Has(element T, atLeast int) bool {
	return c.HasID(element.Identity(), atLeast)
}

// HasID reports whether at least atLeast copies of the element with id are
// present.
func (c Combination[T]) HasID(id string, atLeast int) bool {
	u, ok := c.units[id]
	return ok && u.quantity >= atLeast
}

// AmountFor returns the quantity of element, or 0 when absent.
func (c Combination[T]) AmountFor(element T) int {
	return c.AmountForID(element.Identity())
}

// AmountForID returns the quantity stored under id, or 0 when absent.
func (c Combination[T]) AmountForID(id string) int {
	return c.units[id].quantity
}

// Unit returns the unit stored under id.
func (c Combination[T]) Unit(id string) (Unit[T], bool) {
	u, ok := c.units[id]
	return u, ok
}

// Units returns the units in insertion order.
func (c Combination[T]) Units() []Unit[T] {
	out := make([]Unit[T], 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.units[id])
	}
	return out
}

// Members returns the distinct elements in insertion order.
func (c Combination[T]) Members() []T {
	out := make([]T, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.units[id].element)
	}
	return out
}

// IDs returns the distinct ids in insertion order.
func (c Combination[T]) IDs() []string {
	out := make([]string, len(c.order))
	copy(out, c.order)
	return out
}

// IsIn reports whether c is a sub-multiset of other: every unit of c is
// matched by at least as many copies in other.
func (c Combination[T]) IsIn(other Combination[T]) bool {
	for _, id := range c.order {
		if other.AmountForID(id) < c.units[id].quantity {
			return false
		}
	}
	return true
}

// Contains reports whether other is a sub-multiset of c.
func (c Combination[T]) Contains(other Combination[T]) bool {
	return other.IsIn(c)
}

// Equals reports structural equality: same size and mutual inclusion.
func (c Combination[T]) Equals(other Combination[T]) bool {
	return c.size == other.size && c.IsIn(other) && other.IsIn(c)
}

// CombineWith returns the multiset union of c and other, adding quantities.
func (c Combination[T]) CombineWith(other Combination[T]) Combination[T] {
	if other.IsEmpty() {
		return c
	}
	if c.IsEmpty() {
		return other
	}
	b := c.toBuilder(len(other.order))
	for _, id := range other.order {
		b.add(other.units[id])
	}
	return b.build()
}

// AddUnit returns c with one extra unit added.
func (c Combination[T]) AddUnit(unit Unit[T]) Combination[T] {
	b := c.toBuilder(1)
	b.add(unit)
	return b.build()
}

// Subtract removes other from c per id, flooring at zero. Ids that reach
// zero are dropped.
func (c Combination[T]) Subtract(other Combination[T]) Combination[T] {
	if other.IsEmpty() {
		return c
	}
	b := c.toBuilder(0)
	for _, id := range other.order {
		if current, ok := b.units[id]; ok {
			b.set(current.MinusFloor(other.units[id].quantity, 0))
		}
	}
	return b.build()
}

// SubtractUnit removes a single unit from c, dropping the id when nothing
// is left.
func (c Combination[T]) SubtractUnit(unit Unit[T]) Combination[T] {
	current, ok := c.units[unit.ID()]
	if !ok {
		return c
	}
	b := c.toBuilder(0)
	b.set(current.MinusFloor(unit.quantity, 0))
	return b.build()
}

// Without removes element entirely, whatever its quantity.
func (c Combination[T]) Without(element T) Combination[T] {
	return c.WithoutID(element.Identity())
}

// WithoutID removes the element stored under id entirely.
func (c Combination[T]) WithoutID(id string) Combination[T] {
	current, ok := c.units[id]
	if !ok {
		return c
	}
	b := c.toBuilder(0)
	b.set(current.WithQuantity(0))
	return b.build()
}

// Multiply scales every quantity by factor. A non-positive factor yields
// the empty combination.
func (c Combination[T]) Multiply(factor int) Combination[T] {
	if factor <= 0 {
		return Combination[T]{}
	}
	b := newCombinationBuilder[T](len(c.order))
	for _, id := range c.order {
		b.add(c.units[id].Multiply(factor))
	}
	return b.build()
}

// Intersects reports whether any id is present in both combinations,
// regardless of quantity.
func (c Combination[T]) Intersects(other Combination[T]) bool {
	small, large := c, other
	if len(small.order) > len(large.order) {
		small, large = large, small
	}
	for _, id := range small.order {
		if _, ok := large.units[id]; ok {
			return true
		}
	}
	return false
}

// IntersectionWith keeps, per id present in both, the smaller quantity.
func (c Combination[T]) IntersectionWith(other Combination[T]) Combination[T] {
	b := newCombinationBuilder[T](min(len(c.order), len(other.order)))
	for _, id := range c.order {
		theirs, ok := other.units[id]
		if !ok {
			continue
		}
		mine := c.units[id]
		b.add(mine.WithQuantity(min(mine.quantity, theirs.quantity)))
	}
	return b.build()
}

// Filter keeps the units for which keep returns true.
func (c Combination[T]) Filter(keep func(Unit[T]) bool) Combination[T] {
	b := newCombinationBuilder[T](len(c.order))
	for _, id := range c.order {
		if u := c.units[id]; keep(u) {
			b.add(u)
		}
	}
	return b.build()
}

// Increment adds amount copies of element, inserting it when absent.
func (c Combination[T]) Increment(element T, amount int) Combination[T] {
	return c.AddUnit(NewUnit(element, amount))
}

// IncrementID adds amount to the element stored under id.
// It panics with an *UnknownMemberError when id is not a member: a stale
// id is a caller bug, not a runtime condition.
func (c Combination[T]) IncrementID(id string, amount int) Combination[T] {
	current, ok := c.units[id]
	if !ok {
		panic(newUnknownMemberError(id, c.order))
	}
	return c.AddUnit(current.WithQuantity(amount))
}

// Decrement removes amount copies of element, dropping it at zero.
func (c Combination[T]) Decrement(element T, amount int) Combination[T] {
	return c.SubtractUnit(NewUnit(element, amount))
}

// DecrementID removes amount from the element stored under id.
// It panics with an *UnknownMemberError when id is not a member.
func (c Combination[T]) DecrementID(id string, amount int) Combination[T] {
	current, ok := c.units[id]
	if !ok {
		panic(newUnknownMemberError(id, c.order))
	}
	return c.SubtractUnit(current.WithQuantity(amount))
}

// ToRecord serializes the combination to an id -> quantity record.
func (c Combination[T]) ToRecord() Record {
	out := make(Record, len(c.order))
	for _, id := range c.order {
		out[id] = c.units[id].quantity
	}
	return out
}

// MarshalJSON encodes the combination as its record.
func (c Combination[T]) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.ToRecord())
}

// String renders the combination as {id:qty, ...} in insertion order.
func (c Combination[T]) String() string {
	parts := make([]string, 0, len(c.order))
	for _, id := range c.order {
		parts = append(parts, fmt.Sprintf("%s:%d", id, c.units[id].quantity))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// canonicalKey is an order-independent rendering used to detect
// structurally equal combinations. Ids are length-prefixed so that no id,
// whatever bytes it holds, can run into its neighbour.
func (c Combination[T]) canonicalKey() string {
	ids := c.IDs()
	sort.Strings(ids)
	var sb strings.Builder
	for _, id := range ids {
		fmt.Fprintf(&sb, "%d:%s=%d;", len(id), id, c.units[id].quantity)
	}
	return sb.String()
}

// combinationBuilder accumulates units before freezing them into a
// Combination. It is never shared once build returns.
type combinationBuilder[T Identifiable] struct {
	order []string
	units map[string]Unit[T]
}

func newCombinationBuilder[T Identifiable](capacity int) *combinationBuilder[T] {
	return &combinationBuilder[T]{
		order: make([]string, 0, capacity),
		units: make(map[string]Unit[T], capacity),
	}
}

func (c Combination[T]) toBuilder(extra int) *combinationBuilder[T] {
	b := newCombinationBuilder[T](len(c.order) + extra)
	for _, id := range c.order {
		b.order = append(b.order, id)
		b.units[id] = c.units[id]
	}
	return b
}

// add sums the unit into the builder, inserting its id when new.
func (b *combinationBuilder[T]) add(u Unit[T]) {
	id := u.ID()
	if current, ok := b.units[id]; ok {
		b.units[id] = current.Add(u.quantity)
		return
	}
	b.order = append(b.order, id)
	b.units[id] = u
}

// set overwrites the unit stored under its id. Non-positive quantities are
// removed at build time.
func (b *combinationBuilder[T]) set(u Unit[T]) {
	id := u.ID()
	if _, ok := b.units[id]; !ok {
		b.order = append(b.order, id)
	}
	b.units[id] = u
}

func (b *combinationBuilder[T]) build() Combination[T] {
	out := Combination[T]{
		order: make([]string, 0, len(b.order)),
		units: make(map[string]Unit[T], len(b.order)),
	}
	for _, id := range b.order {
		u := b.units[id]
		if u.quantity <= 0 {
			continue
		}
		out.order = append(out.order, id)
		out.units[id] = u
		out.size += u.quantity
	}
	if len(out.order) == 0 {
		return Combination[T]{}
	}
	return out
}
