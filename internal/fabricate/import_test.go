package fabricate

import (
	"strings"
	"testing"
)

const foundryItems = `{
  "items": [
    {"_id": "ember", "name": "Ember", "type": "loot",
     "flags": {"fabricate": {"essences": {"fire": 2}}}},
    {"_id": "rock", "name": "Volcanic Rock", "type": "loot",
     "flags": {"fabricate": {"essences": {"fire": 1, "earth": 3}, "salvage": {"ember": 1}}}},
    {"name": "Iron Nail", "type": "loot"},
    {"_id": "torch", "name": "Torch", "type": "loot"},
    {"_id": "r-torch", "name": "Torch Recipe", "type": "recipe",
     "flags": {"fabricate": {"recipe": {
        "essences": {"fire": 3},
        "results": {"torch": 1},
        "ingredientOptions": [{"name": "nailed", "ingredients": {"iron-nail": 1}}]
     }}}}
  ]
}`

var importEssences = []EssenceConfig{
	{ID: "fire", Name: "Fire"},
	{ID: "earth", Name: "Earth"},
}

func TestImportFoundryItems(t *testing.T) {
	cfg, err := ImportFoundryItems("foundry", foundryItems, importEssences)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if len(cfg.Components) != 4 {
		t.Fatalf("Expected 4 components, got %d", len(cfg.Components))
	}
	if cfg.Components[2].ID != "iron-nail" {
		t.Errorf("Expected slug id iron-nail, got %s", cfg.Components[2].ID)
	}
	rock := cfg.Components[1]
	if rock.Essences["earth"] != 3 || rock.Salvage["ember"] != 1 {
		t.Errorf("Unexpected rock config: %+v", rock)
	}

	if len(cfg.Recipes) != 1 {
		t.Fatalf("Expected 1 recipe, got %d", len(cfg.Recipes))
	}
	recipe := cfg.Recipes[0]
	if recipe.ID != "r-torch" || recipe.Results["torch"] != 1 || recipe.Essences["fire"] != 3 {
		t.Errorf("Unexpected recipe config: %+v", recipe)
	}
	if len(recipe.IngredientOptions) != 1 || recipe.IngredientOptions[0].Ingredients["iron-nail"] != 1 {
		t.Errorf("Unexpected ingredient options: %+v", recipe.IngredientOptions)
	}

	catalog, err := BuildCatalogFromConfig(cfg)
	if err != nil {
		t.Fatalf("Expected imported config to build, got: %v", err)
	}
	selection := NewEssenceSelection(Of(Essence{ID: "fire"}, 3), SelectionOptions{}).
		Perform(mustComponents(t, catalog, Record{"ember": 2, "rock": 1}))
	if selection.Size() != 2 {
		t.Errorf("Expected two components to cover 3 fire, got %s", selection)
	}
}

func TestImportFoundryItems_BareArray(t *testing.T) {
	cfg, err := ImportFoundryItems("bare", `[{"_id": "ember", "name": "Ember", "flags": {"fabricate": {"essences": {"fire": 2}}}}]`, importEssences)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if len(cfg.Components) != 1 || cfg.Components[0].Essences["fire"] != 2 {
		t.Errorf("Unexpected components: %+v", cfg.Components)
	}
}

func TestImportFoundryItems_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"invalid json", `{"items": [`, "invalid JSON"},
		{"not an array", `{"items": {"_id": "x"}}`, "expected an array"},
		{"unknown essence", `[{"_id": "x", "name": "X", "flags": {"fabricate": {"essences": {"aether": 1}}}}]`, "essence 'aether' does not exist"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ImportFoundryItems("broken", tt.input, importEssences)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Expected error containing %q, got: %v", tt.want, err)
			}
		})
	}
}
