package fabricate

// CraftingCheck reports whether one ingredient option of a recipe can be
// crafted from an inventory.
type CraftingCheck struct {
	Recipe RecipeID
	Option string

	Ingredients TrackedCombination[Component]
	Catalysts   TrackedCombination[Component]
	Essences    TrackedCombination[Essence]

	// EssenceComponents are the components chosen to supply the recipe's
	// essences. They are consumed along with the ingredients.
	EssenceComponents Combination[Component]
	Craftable         bool
	Truncated         bool
}

// Consumed returns every component a craft with this option would remove.
func (c CraftingCheck) Consumed() Combination[Component] {
	return c.Ingredients.Target().CombineWith(c.EssenceComponents)
}

// Deficit is the combined shortfall of ingredients, catalysts and essences.
func (c CraftingCheck) Deficit() int {
	return c.Ingredients.Deficit() + c.Catalysts.Deficit() + c.Essences.Deficit()
}

// CheckRecipe checks every ingredient option of recipe against inventory.
// Essence-only recipes yield a single check with an empty option.
//
// Ingredients are reserved first, then catalysts. Essences are selected
// from whatever is left, so a catalyst is never spent for its essences.
func CheckRecipe(recipe Recipe, inventory Combination[Component], opts SelectionOptions) []CraftingCheck {
	return checkRecipe(recipe, inventory, opts, NewNoOpLogger())
}

func checkRecipe(recipe Recipe, inventory Combination[Component], opts SelectionOptions, logger Logger) []CraftingCheck {
	options := recipe.options()
	checks := make([]CraftingCheck, 0, len(options))
	for _, option := range options {
		check := CraftingCheck{
			Recipe:      recipe.ID,
			Option:      option.Name,
			Ingredients: NewTrackedCombination(option.Ingredients, inventory.IntersectionWith(option.Ingredients)),
		}
		afterIngredients := inventory.Subtract(option.Ingredients)
		check.Catalysts = NewTrackedCombination(option.Catalysts, afterIngredients.IntersectionWith(option.Catalysts))
		pool := afterIngredients.Subtract(option.Catalysts)

		if recipe.RequiresEssences() {
			selection := NewEssenceSelection(recipe.Essences, opts).WithLogger(logger).Evaluate(pool)
			check.EssenceComponents = selection.Components
			check.Truncated = selection.Truncated
			check.Essences = NewTrackedCombination(recipe.Essences, selection.Essences.IntersectionWith(recipe.Essences))
		} else {
			check.Essences = NewTrackedCombination(Empty[Essence](), Empty[Essence]())
		}

		check.Craftable = check.Ingredients.IsSufficient() &&
			check.Catalysts.IsSufficient() &&
			check.Essences.IsSufficient()
		checks = append(checks, check)
	}
	return checks
}

// BestOption returns the first craftable check, otherwise the check with
// the smallest combined deficit (first one on ties). It returns false when
// checks is empty.
func BestOption(checks []CraftingCheck) (CraftingCheck, bool) {
	if len(checks) == 0 {
		return CraftingCheck{}, false
	}
	best := checks[0]
	for _, c := range checks {
		if c.Craftable {
			return c, true
		}
		if c.Deficit() < best.Deficit() {
			best = c
		}
	}
	return best, true
}
