package fabricate

import (
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
)

// ImportFoundryItems converts an exported list of Foundry item documents
// into a catalog. The input is either a JSON array of items or an object
// with an "items" array. Crafting data lives under flags.fabricate:
//
//	{"_id": "x1", "name": "Ember", "flags": {"fabricate": {
//	    "essences": {"fire": 2}, "salvage": {"ash": 1}}}}
//
// Items carrying flags.fabricate.recipe become recipes instead of components.
// Essence definitions do not exist in item exports and are passed in.
// The result is validated before it is returned.
func ImportFoundryItems(name, itemsJSON string, essences []EssenceConfig) (CatalogConfig, error) {
	if !gjson.Valid(itemsJSON) {
		return CatalogConfig{}, fmt.Errorf("import %s: invalid JSON", name)
	}
	items := gjson.Parse(itemsJSON)
	if items.IsObject() {
		items = items.Get("items")
	}
	if !items.IsArray() {
		return CatalogConfig{}, fmt.Errorf("import %s: expected an array of items", name)
	}

	cfg := CatalogConfig{
		Name:       name,
		Essences:   essences,
		Components: []ComponentConfig{},
	}
	items.ForEach(func(_, item gjson.Result) bool {
		id := itemID(item)
		flags := item.Get("flags.fabricate")
		if recipe := flags.Get("recipe"); recipe.Exists() {
			cfg.Recipes = append(cfg.Recipes, parseFoundryRecipe(id, item.Get("name").String(), recipe))
			return true
		}
		cfg.Components = append(cfg.Components, ComponentConfig{
			ID:       id,
			Name:     item.Get("name").String(),
			Essences: parseRecord(flags.Get("essences")),
			Salvage:  parseRecord(flags.Get("salvage")),
		})
		return true
	})

	if err := ValidateCatalogConfig(cfg); err != nil {
		return CatalogConfig{}, fmt.Errorf("import %s: %w", name, err)
	}
	return cfg, nil
}

func parseFoundryRecipe(id, name string, recipe gjson.Result) RecipeConfig {
	rc := RecipeConfig{
		ID:       id,
		Name:     name,
		Essences: parseRecord(recipe.Get("essences")),
		Results:  parseRecord(recipe.Get("results")),
	}
	recipe.Get("ingredientOptions").ForEach(func(_, opt gjson.Result) bool {
		rc.IngredientOptions = append(rc.IngredientOptions, IngredientOptionConfig{
			Name:        opt.Get("name").String(),
			Ingredients: parseRecord(opt.Get("ingredients")),
			Catalysts:   parseRecord(opt.Get("catalysts")),
		})
		return true
	})
	return rc
}

// itemID prefers the document id and falls back to a slug of the name.
func itemID(item gjson.Result) string {
	if id := item.Get("_id").String(); id != "" {
		return id
	}
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(item.Get("name").String())), " ", "-")
}

// parseRecord reads an {"id": quantity} object. Absent objects yield nil.
func parseRecord(r gjson.Result) Record {
	if !r.IsObject() {
		return nil
	}
	out := make(Record)
	r.ForEach(func(key, value gjson.Result) bool {
		out[key.String()] = int(value.Int())
		return true
	})
	return out
}
