package fabricate

import "fmt"

// Catalog defines the essences, components and recipes of a crafting
// system. A catalog is filled once, then shared read-only.
type Catalog struct {
	Name string

	essences       map[EssenceID]Essence
	essenceOrder   []EssenceID
	components     map[ComponentID]Component
	componentOrder []ComponentID
	recipes        map[RecipeID]Recipe
	recipeOrder    []RecipeID
}

// NewCatalog creates an empty catalog with the given name.
func NewCatalog(name string) *Catalog {
	return &Catalog{
		Name:       name,
		essences:   make(map[EssenceID]Essence),
		components: make(map[ComponentID]Component),
		recipes:    make(map[RecipeID]Recipe),
	}
}

// WithEssences adds essence definitions and returns the catalog for chaining.
// Redefining an id replaces the earlier definition in place.
func (c *Catalog) WithEssences(essences ...Essence) *Catalog {
	for _, e := range essences {
		if _, exists := c.essences[e.ID]; !exists {
			c.essenceOrder = append(c.essenceOrder, e.ID)
		}
		c.essences[e.ID] = e
	}
	return c
}

// WithComponents adds component definitions and returns the catalog for chaining.
func (c *Catalog) WithComponents(components ...Component) *Catalog {
	for _, comp := range components {
		if _, exists := c.components[comp.ID]; !exists {
			c.componentOrder = append(c.componentOrder, comp.ID)
		}
		c.components[comp.ID] = comp
	}
	return c
}

// WithRecipes adds recipe definitions and returns the catalog for chaining.
func (c *Catalog) WithRecipes(recipes ...Recipe) *Catalog {
	for _, r := range recipes {
		if _, exists := c.recipes[r.ID]; !exists {
			c.recipeOrder = append(c.recipeOrder, r.ID)
		}
		c.recipes[r.ID] = r
	}
	return c
}

func (c *Catalog) Essence(id EssenceID) (Essence, bool) {
	e, ok := c.essences[id]
	return e, ok
}

func (c *Catalog) Component(id ComponentID) (Component, bool) {
	comp, ok := c.components[id]
	return comp, ok
}

func (c *Catalog) Recipe(id RecipeID) (Recipe, bool) {
	r, ok := c.recipes[id]
	return r, ok
}

// Essences returns all essences in definition order.
func (c *Catalog) Essences() []Essence {
	out := make([]Essence, 0, len(c.essenceOrder))
	for _, id := range c.essenceOrder {
		out = append(out, c.essences[id])
	}
	return out
}

// Components returns all components in definition order.
func (c *Catalog) Components() []Component {
	out := make([]Component, 0, len(c.componentOrder))
	for _, id := range c.componentOrder {
		out = append(out, c.components[id])
	}
	return out
}

// Recipes returns all recipes in definition order.
func (c *Catalog) Recipes() []Recipe {
	out := make([]Recipe, 0, len(c.recipeOrder))
	for _, id := range c.recipeOrder {
		out = append(out, c.recipes[id])
	}
	return out
}

// ResolveEssence looks up an essence by its string id, for use with FromRecord.
func (c *Catalog) ResolveEssence(id string) (Essence, error) {
	if e, ok := c.essences[EssenceID(id)]; ok {
		return e, nil
	}
	ids := make([]string, len(c.essenceOrder))
	for i, eid := range c.essenceOrder {
		ids[i] = string(eid)
	}
	return Essence{}, notFound(ErrEssenceNotFound, id, ids)
}

// ResolveComponent looks up a component by its string id, for use with FromRecord.
func (c *Catalog) ResolveComponent(id string) (Component, error) {
	if comp, ok := c.components[ComponentID(id)]; ok {
		return comp, nil
	}
	return Component{}, notFound(ErrComponentNotFound, id, c.componentIDs())
}

// SuggestComponent returns the known component id closest to id, or "".
func (c *Catalog) SuggestComponent(id string) string {
	return closestID(id, c.componentIDs())
}

// ComponentsFromRecord resolves an inventory-style record against the catalog.
func (c *Catalog) ComponentsFromRecord(record Record) (Combination[Component], error) {
	return FromRecord(record, c.ResolveComponent)
}

// EssencesFromRecord resolves an essence requirement record against the catalog.
func (c *Catalog) EssencesFromRecord(record Record) (Combination[Essence], error) {
	return FromRecord(record, c.ResolveEssence)
}

func (c *Catalog) componentIDs() []string {
	ids := make([]string, len(c.componentOrder))
	for i, id := range c.componentOrder {
		ids[i] = string(id)
	}
	return ids
}

func notFound(sentinel error, id string, known []string) error {
	if suggestion := closestID(id, known); suggestion != "" {
		return fmt.Errorf("%w: %s (did you mean %q?)", sentinel, id, suggestion)
	}
	return fmt.Errorf("%w: %s", sentinel, id)
}
