package fabricate

// RecipeID is the unique identifier of a recipe.
type RecipeID string

// IngredientOption is one alternative set of named components a recipe
// accepts. Ingredients are consumed by crafting, catalysts only need to be
// present.
type IngredientOption struct {
	Name        string
	Ingredients Combination[Component]
	Catalysts   Combination[Component]
}

// Recipe describes how to craft its results. A recipe may require named
// ingredients (through one of its options), essences, or both.
type Recipe struct {
	ID                RecipeID
	Name              string
	IngredientOptions []IngredientOption
	Essences          Combination[Essence]
	Results           Combination[Component]
}

// Identity implements Identifiable.
func (r Recipe) Identity() string {
	return string(r.ID)
}

// RequiresIngredients reports whether the recipe has at least one ingredient option.
func (r Recipe) RequiresIngredients() bool {
	return len(r.IngredientOptions) > 0
}

// RequiresEssences reports whether the recipe needs essences.
func (r Recipe) RequiresEssences() bool {
	return !r.Essences.IsEmpty()
}

// options returns the ingredient options to check, substituting a single
// empty option for essence-only recipes.
func (r Recipe) options() []IngredientOption {
	if len(r.IngredientOptions) == 0 {
		return []IngredientOption{{}}
	}
	return r.IngredientOptions
}
