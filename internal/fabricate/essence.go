package fabricate

// EssenceID is the unique identifier of an essence.
type EssenceID string

// Essence is a tagged resource a component can carry, such as "fire" or
// "water". Recipes may require essences instead of named components.
type Essence struct {
	ID          EssenceID
	Name        string
	Description string
	Icon        string
}

// Identity implements Identifiable.
func (e Essence) Identity() string {
	return string(e.ID)
}
