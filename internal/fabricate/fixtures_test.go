package fabricate

import "fmt"

var (
	fire  = Essence{ID: "fire", Name: "Fire"}
	water = Essence{ID: "water", Name: "Water"}
	earth = Essence{ID: "earth", Name: "Earth"}
	air   = Essence{ID: "air", Name: "Air"}
)

func essences(units ...Unit[Essence]) Combination[Essence] {
	return OfUnits(units...)
}

// Components of the alchemy fixture. c1 and c3 carry no essences.
var (
	c1 = Component{ID: "c1", Name: "Iron Nail"}
	c2 = Component{ID: "c2", Name: "Ember", Essences: essences(NewUnit(fire, 2))}
	c3 = Component{ID: "c3", Name: "Twine"}
	c4 = Component{ID: "c4", Name: "Feather", Essences: essences(NewUnit(air, 2))}
	c5 = Component{ID: "c5", Name: "Volcanic Rock", Essences: essences(NewUnit(fire, 1), NewUnit(earth, 3))}
	c6 = Component{ID: "c6", Name: "Dew Drop", Essences: essences(NewUnit(water, 1))}
	c7 = Component{ID: "c7", Name: "Breeze Shard", Essences: essences(NewUnit(air, 1))}
)

func fixtureCatalogConfig() CatalogConfig {
	return CatalogConfig{
		Name: "alchemy",
		Essences: []EssenceConfig{
			{ID: "fire", Name: "Fire"},
			{ID: "water", Name: "Water"},
			{ID: "earth", Name: "Earth"},
			{ID: "air", Name: "Air"},
		},
		Components: []ComponentConfig{
			{ID: "c1", Name: "Iron Nail"},
			{ID: "c2", Name: "Ember", Essences: Record{"fire": 2}},
			{ID: "c3", Name: "Twine"},
			{ID: "c4", Name: "Feather", Essences: Record{"air": 2}},
			{ID: "c5", Name: "Volcanic Rock", Essences: Record{"fire": 1, "earth": 3}, Salvage: Record{"c2": 1, "c1": 2}},
			{ID: "c6", Name: "Dew Drop", Essences: Record{"water": 1}},
			{ID: "c7", Name: "Breeze Shard", Essences: Record{"air": 1}},
			{ID: "torch", Name: "Torch"},
		},
		Recipes: []RecipeConfig{
			{
				ID:   "torch",
				Name: "Torch",
				IngredientOptions: []IngredientOptionConfig{
					{Name: "nailed", Ingredients: Record{"c1": 1, "c3": 2}},
					{Name: "tied", Ingredients: Record{"c3": 3}, Catalysts: Record{"c1": 1}},
				},
				Essences: Record{"fire": 3},
				Results:  Record{"torch": 1},
			},
			{
				ID:       "storm",
				Name:     "Bottled Storm",
				Essences: Record{"air": 2, "water": 1},
				Results:  Record{"c7": 2},
			},
		},
	}
}

func fixtureCatalog() *Catalog {
	c, err := BuildCatalogFromConfig(fixtureCatalogConfig())
	if err != nil {
		panic(fmt.Sprintf("fixture catalog: %v", err))
	}
	return c
}

type fixedResolver map[string]Essence

func (r fixedResolver) resolve(id string) (Essence, error) {
	if e, ok := r[id]; ok {
		return e, nil
	}
	return Essence{}, fmt.Errorf("no essence %s", id)
}

var essenceResolver = fixedResolver{"fire": fire, "water": water, "earth": earth, "air": air}
