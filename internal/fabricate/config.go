package fabricate

type EssenceConfig struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Icon        string `json:"icon,omitempty"`
}

// ComponentConfig describes a component. Essences and Salvage are records
// keyed by essence id and component id respectively.
type ComponentConfig struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Essences Record `json:"essences,omitempty"`
	Salvage  Record `json:"salvage,omitempty"`
}

type IngredientOptionConfig struct {
	Name        string `json:"name"`
	Ingredients Record `json:"ingredients,omitempty"`
	Catalysts   Record `json:"catalysts,omitempty"`
}

type RecipeConfig struct {
	ID                string                   `json:"id"`
	Name              string                   `json:"name"`
	IngredientOptions []IngredientOptionConfig `json:"ingredient_options,omitempty"`
	Essences          Record                   `json:"essences,omitempty"`
	Results           Record                   `json:"results"`
}

// CatalogConfig is the JSON form of a catalog, as loaded from files, sent
// to the server, or stored by the persistence layer.
type CatalogConfig struct {
	Name       string            `json:"name"`
	Essences   []EssenceConfig   `json:"essences"`
	Components []ComponentConfig `json:"components"`
	Recipes    []RecipeConfig    `json:"recipes,omitempty"`
}
