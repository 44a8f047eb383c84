package fabricate

// ComponentID is the unique identifier of a component.
type ComponentID string

// Component is a craftable or salvageable item type. It may carry essences
// and may break down into other components when salvaged.
type Component struct {
	ID       ComponentID
	Name     string
	Essences Combination[Essence]
	Salvage  Combination[ComponentRef]
}

// Identity implements Identifiable.
func (c Component) Identity() string {
	return string(c.ID)
}

// Ref returns a by-id reference to the component.
func (c Component) Ref() ComponentRef {
	return ComponentRef{ID: c.ID}
}

// HasEssences reports whether the component carries any essence.
func (c Component) HasEssences() bool {
	return !c.Essences.IsEmpty()
}

// IsSalvageable reports whether salvaging the component produces anything.
func (c Component) IsSalvageable() bool {
	return !c.Salvage.IsEmpty()
}

// ComponentRef refers to a component by id only. Salvage outputs use refs
// so a component never embeds copies of other components.
type ComponentRef struct {
	ID ComponentID
}

// Identity implements Identifiable.
func (r ComponentRef) Identity() string {
	return string(r.ID)
}

// essencesOf is the transform used to explode components into essences.
func essencesOf(c Component) Combination[Essence] {
	return c.Essences
}
