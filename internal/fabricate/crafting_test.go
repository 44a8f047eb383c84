package fabricate

import "testing"

func mustComponents(t *testing.T, catalog *Catalog, record Record) Combination[Component] {
	t.Helper()
	c, err := catalog.ComponentsFromRecord(record)
	if err != nil {
		t.Fatalf("Expected record %v to resolve, got: %v", record, err)
	}
	return c
}

func TestCheckRecipe_IngredientsAndEssences(t *testing.T) {
	catalog := fixtureCatalog()
	torch, _ := catalog.Recipe("torch")
	inventory := mustComponents(t, catalog, Record{"c1": 1, "c3": 2, "c2": 1, "c5": 1})

	checks := CheckRecipe(torch, inventory, SelectionOptions{})
	if len(checks) != 2 {
		t.Fatalf("Expected 2 checks, got %d", len(checks))
	}

	nailed := checks[0]
	if nailed.Option != "nailed" || !nailed.Craftable {
		t.Errorf("Expected nailed option to be craftable, got %+v", nailed.Option)
	}
	if !nailed.EssenceComponents.Equals(mustComponents(t, catalog, Record{"c2": 1, "c5": 1})) {
		t.Errorf("Expected essences from {c2:1, c5:1}, got %s", nailed.EssenceComponents)
	}
	if nailed.Essences.AmountFoundForID("fire") != 3 {
		t.Errorf("Expected 3 fire found, got %d", nailed.Essences.AmountFoundForID("fire"))
	}
	if nailed.Deficit() != 0 {
		t.Errorf("Expected no deficit, got %d", nailed.Deficit())
	}

	tied := checks[1]
	if tied.Craftable {
		t.Error("Expected tied option to lack twine")
	}
	if tied.Ingredients.Deficit() != 1 {
		t.Errorf("Expected ingredient deficit 1, got %d", tied.Ingredients.Deficit())
	}

	best, ok := BestOption(checks)
	if !ok || best.Option != "nailed" {
		t.Errorf("Expected nailed to be the best option, got %s", best.Option)
	}
}

func TestCheckRecipe_CatalystsAreNotConsumed(t *testing.T) {
	catalog := fixtureCatalog()
	torch, _ := catalog.Recipe("torch")
	inventory := mustComponents(t, catalog, Record{"c1": 1, "c3": 3, "c2": 2})

	checks := CheckRecipe(torch, inventory, SelectionOptions{})
	tied := checks[1]
	if !tied.Craftable {
		t.Fatal("Expected tied option to be craftable")
	}
	consumed := tied.Consumed()
	if consumed.HasID("c1", 1) {
		t.Errorf("Expected catalyst c1 not to be consumed, got %s", consumed)
	}
	if consumed.AmountForID("c3") != 3 || consumed.AmountForID("c2") != 2 {
		t.Errorf("Expected {c3:3, c2:2} consumed, got %s", consumed)
	}
}

func TestCheckRecipe_CatalystShortage(t *testing.T) {
	catalog := fixtureCatalog()
	torch, _ := catalog.Recipe("torch")
	inventory := mustComponents(t, catalog, Record{"c3": 3, "c2": 2})

	tied := CheckRecipe(torch, inventory, SelectionOptions{})[1]
	if tied.Craftable {
		t.Error("Expected tied option to need its catalyst")
	}
	if tied.Catalysts.IsSufficient() || tied.Catalysts.Deficit() != 1 {
		t.Errorf("Expected catalyst deficit 1, got %d", tied.Catalysts.Deficit())
	}
}

func TestCheckRecipe_EssenceOnly(t *testing.T) {
	catalog := fixtureCatalog()
	storm, _ := catalog.Recipe("storm")
	inventory := mustComponents(t, catalog, Record{"c4": 1, "c6": 1, "c2": 4})

	checks := CheckRecipe(storm, inventory, SelectionOptions{})
	if len(checks) != 1 {
		t.Fatalf("Expected a single check, got %d", len(checks))
	}
	if !checks[0].Craftable {
		t.Error("Expected storm to be craftable")
	}
	if !checks[0].Consumed().Equals(mustComponents(t, catalog, Record{"c4": 1, "c6": 1})) {
		t.Errorf("Expected {c4:1, c6:1} consumed, got %s", checks[0].Consumed())
	}
}

func TestBestOption_SmallestDeficit(t *testing.T) {
	catalog := fixtureCatalog()
	torch, _ := catalog.Recipe("torch")
	inventory := mustComponents(t, catalog, Record{"c3": 2, "c1": 1})

	checks := CheckRecipe(torch, inventory, SelectionOptions{})
	best, ok := BestOption(checks)
	if !ok {
		t.Fatal("Expected a best option")
	}
	if best.Craftable {
		t.Error("Expected nothing to be craftable without fire")
	}
	if best.Option != "nailed" {
		t.Errorf("Expected nailed (deficit %d) over tied (deficit %d), got %s",
			checks[0].Deficit(), checks[1].Deficit(), best.Option)
	}

	if _, ok := BestOption(nil); ok {
		t.Error("Expected no best option for no checks")
	}
}
