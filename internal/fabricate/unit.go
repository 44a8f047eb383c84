package fabricate

// Identifiable is anything with a stable, unique string identity.
// Combinations key their members by this identity.
type Identifiable interface {
	Identity() string
}

// Unit pairs an element with a quantity. Units are values: every
// arithmetic method returns a new Unit and leaves the receiver untouched.
type Unit[T Identifiable] struct {
	element  T
	quantity int
}

// NewUnit creates a unit of the given element and quantity.
func NewUnit[T Identifiable](element T, quantity int) Unit[T] {
	return Unit[T]{element: element, quantity: quantity}
}

// Element returns the unit's element.
func (u Unit[T]) Element() T {
	return u.element
}

// Quantity returns the unit's quantity.
func (u Unit[T]) Quantity() int {
	return u.quantity
}

// ID returns the identity of the unit's element.
func (u Unit[T]) ID() string {
	return u.element.Identity()
}

// Add returns a unit with quantity increased by amount.
func (u Unit[T]) Add(amount int) Unit[T] {
	return Unit[T]{element: u.element, quantity: u.quantity + amount}
}

// Minus returns a unit with quantity decreased by amount. The result may be
// zero or negative; use MinusFloor to clamp it.
func (u Unit[T]) Minus(amount int) Unit[T] {
	return Unit[T]{element: u.element, quantity: u.quantity - amount}
}

// MinusFloor returns a unit with quantity decreased by amount, never going
// below floor.
func (u Unit[T]) MinusFloor(amount, floor int) Unit[T] {
	return Unit[T]{element: u.element, quantity: max(u.quantity-amount, floor)}
}

// Multiply returns a unit with quantity scaled by factor.
func (u Unit[T]) Multiply(factor int) Unit[T] {
	return Unit[T]{element: u.element, quantity: u.quantity * factor}
}

// WithQuantity returns a unit of the same element with the given quantity.
func (u Unit[T]) WithQuantity(quantity int) Unit[T] {
	return Unit[T]{element: u.element, quantity: quantity}
}
