package fabricate

import (
	"fmt"
	"strings"
)

// ValidationError collects multiple validation issues
type ValidationError struct {
	Issues []string
}

func (e *ValidationError) Error() string {
	if len(e.Issues) == 0 {
		return "invalid catalog: unknown validation error"
	}
	if len(e.Issues) == 1 {
		return e.Issues[0]
	}
	return "catalog validation errors: " + strings.Join(e.Issues, "; ")
}

func (e *ValidationError) Add(issue string) {
	e.Issues = append(e.Issues, issue)
}

func (e *ValidationError) HasIssues() bool {
	return len(e.Issues) > 0
}

// ValidateCatalogConfig performs comprehensive validation of a CatalogConfig
func ValidateCatalogConfig(cfg CatalogConfig) error {
	err := &ValidationError{}

	if cfg.Name == "" {
		err.Add("catalog name is required")
	}

	essenceIDs := make(map[string]bool)
	for i, ec := range cfg.Essences {
		if ec.ID == "" {
			err.Add(fmt.Sprintf("essence at index %d: essence ID is required", i))
			continue
		}
		if essenceIDs[ec.ID] {
			err.Add("duplicate essence ID: " + ec.ID)
		}
		if ec.Name == "" {
			err.Add("essence '" + ec.ID + "': name is required")
		}
		essenceIDs[ec.ID] = true
	}

	componentIDs := make(map[string]bool)
	for i, cc := range cfg.Components {
		if cc.ID == "" {
			err.Add(fmt.Sprintf("component at index %d: component ID is required", i))
			continue
		}
		if componentIDs[cc.ID] {
			err.Add("duplicate component ID: " + cc.ID)
		}
		if cc.Name == "" {
			err.Add("component '" + cc.ID + "': name is required")
		}
		componentIDs[cc.ID] = true
	}

	for _, cc := range cfg.Components {
		if cc.ID == "" {
			continue
		}
		prefix := "component '" + cc.ID + "'"
		validateRecord(cc.Essences, prefix+" essences", "essence", essenceIDs, err)
		validateRecord(cc.Salvage, prefix+" salvage", "component", componentIDs, err)
		if cc.Salvage[cc.ID] > 0 {
			err.Add(prefix + ": component cannot salvage into itself")
		}
	}

	recipeIDs := make(map[string]bool)
	for i, rc := range cfg.Recipes {
		prefix := fmt.Sprintf("recipe at index %d", i)
		if rc.ID != "" {
			prefix = "recipe '" + rc.ID + "'"
		}

		if rc.ID == "" {
			err.Add(prefix + ": recipe ID is required")
		} else if recipeIDs[rc.ID] {
			err.Add("duplicate recipe ID: " + rc.ID)
		} else {
			recipeIDs[rc.ID] = true
		}
		if rc.Name == "" {
			err.Add(prefix + ": name is required")
		}

		if len(rc.Results) == 0 {
			err.Add(prefix + ": at least one result is required")
		}
		validateRecord(rc.Results, prefix+" results", "component", componentIDs, err)
		validateRecord(rc.Essences, prefix+" essences", "essence", essenceIDs, err)

		if len(rc.IngredientOptions) == 0 && len(rc.Essences) == 0 {
			err.Add(prefix + ": recipe needs ingredient options, essences, or both")
		}
		for j, opt := range rc.IngredientOptions {
			optPrefix := fmt.Sprintf("%s ingredient option at index %d", prefix, j)
			if opt.Name == "" {
				err.Add(optPrefix + ": option name is required")
			}
			if len(opt.Ingredients) == 0 {
				err.Add(optPrefix + ": at least one ingredient is required")
			}
			validateRecord(opt.Ingredients, optPrefix+" ingredients", "component", componentIDs, err)
			validateRecord(opt.Catalysts, optPrefix+" catalysts", "component", componentIDs, err)
		}
	}

	if err.HasIssues() {
		return err
	}
	return nil
}

// validateRecord checks that every key of a record is known and every
// quantity is positive.
func validateRecord(record Record, prefix, kind string, known map[string]bool, err *ValidationError) {
	for id, qty := range record {
		if !known[id] {
			err.Add(prefix + ": " + kind + " '" + id + "' does not exist")
		}
		if qty <= 0 {
			err.Add(fmt.Sprintf("%s: quantity for '%s' must be positive, got %d", prefix, id, qty))
		}
	}
}
