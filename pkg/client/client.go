// Package client builds fabricate catalogs with a fluent API and talks to a
// fabricate server over HTTP.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/daniacca/fabricate/internal/fabricate"
)

// CatalogBuilder provides a fluent API for building catalogs.
// Use it to define the essences, components and recipes of a crafting
// system.
type CatalogBuilder struct {
	name       string
	essences   []fabricate.EssenceConfig
	components []*ComponentBuilder
	recipes    []*RecipeBuilder
}

// NewCatalog creates a new catalog builder with the given name.
func NewCatalog(name string) *CatalogBuilder {
	return &CatalogBuilder{
		name:       name,
		essences:   make([]fabricate.EssenceConfig, 0),
		components: make([]*ComponentBuilder, 0),
		recipes:    make([]*RecipeBuilder, 0),
	}
}

// Essence adds an essence definition to the catalog.
func (cb *CatalogBuilder) Essence(id, name, description string) *CatalogBuilder {
	cb.essences = append(cb.essences, fabricate.EssenceConfig{
		ID:          id,
		Name:        name,
		Description: description,
	})
	return cb
}

// Component adds one or more component definitions to the catalog.
func (cb *CatalogBuilder) Component(components ...*ComponentBuilder) *CatalogBuilder {
	cb.components = append(cb.components, components...)
	return cb
}

// Recipe adds one or more recipe definitions to the catalog.
func (cb *CatalogBuilder) Recipe(recipes ...*RecipeBuilder) *CatalogBuilder {
	cb.recipes = append(cb.recipes, recipes...)
	return cb
}

// Build converts the builder to a CatalogConfig that can be used
// with ApplyCatalog or fabricate.BuildCatalogFromConfig.
func (cb *CatalogBuilder) Build() fabricate.CatalogConfig {
	components := make([]fabricate.ComponentConfig, 0, len(cb.components))
	for _, c := range cb.components {
		components = append(components, c.Build())
	}
	recipes := make([]fabricate.RecipeConfig, 0, len(cb.recipes))
	for _, r := range cb.recipes {
		recipes = append(recipes, r.Build())
	}
	return fabricate.CatalogConfig{
		Name:       cb.name,
		Essences:   cb.essences,
		Components: components,
		Recipes:    recipes,
	}
}

// ComponentBuilder provides a fluent API for building component
// configurations.
type ComponentBuilder struct {
	id       string
	name     string
	essences fabricate.Record
	salvage  fabricate.Record
}

// NewComponent creates a new component builder with the given ID.
// The name defaults to the ID but can be overridden with the Name method.
func NewComponent(id string) *ComponentBuilder {
	return &ComponentBuilder{id: id, name: id}
}

// Name sets the human-readable name for the component.
func (cb *ComponentBuilder) Name(name string) *ComponentBuilder {
	cb.name = name
	return cb
}

// Essence adds quantity units of an essence to the component. Repeated
// calls for the same essence accumulate.
func (cb *ComponentBuilder) Essence(id string, quantity int) *ComponentBuilder {
	cb.essences = addTo(cb.essences, id, quantity)
	return cb
}

// Salvage adds quantity units of a component produced when this one is
// salvaged.
func (cb *ComponentBuilder) Salvage(id string, quantity int) *ComponentBuilder {
	cb.salvage = addTo(cb.salvage, id, quantity)
	return cb
}

// Build converts the builder to a ComponentConfig.
func (cb *ComponentBuilder) Build() fabricate.ComponentConfig {
	return fabricate.ComponentConfig{
		ID:       cb.id,
		Name:     cb.name,
		Essences: cb.essences,
		Salvage:  cb.salvage,
	}
}

// RecipeBuilder provides a fluent API for building recipe configurations.
// A recipe needs ingredient options, essences, or both, and at least one
// result.
type RecipeBuilder struct {
	id       string
	name     string
	options  []*OptionBuilder
	essences fabricate.Record
	results  fabricate.Record
}

// NewRecipe creates a new recipe builder with the given ID.
// The name defaults to the ID.
func NewRecipe(id string) *RecipeBuilder {
	return &RecipeBuilder{
		id:      id,
		name:    id,
		options: make([]*OptionBuilder, 0),
	}
}

// Name sets the human-readable name for the recipe.
func (rb *RecipeBuilder) Name(name string) *RecipeBuilder {
	rb.name = name
	return rb
}

// Option adds ingredient options. Options are tried in the order added.
func (rb *RecipeBuilder) Option(options ...*OptionBuilder) *RecipeBuilder {
	rb.options = append(rb.options, options...)
	return rb
}

// Essence adds an essence requirement.
func (rb *RecipeBuilder) Essence(id string, quantity int) *RecipeBuilder {
	rb.essences = addTo(rb.essences, id, quantity)
	return rb
}

// Result adds a component produced by the recipe.
func (rb *RecipeBuilder) Result(id string, quantity int) *RecipeBuilder {
	rb.results = addTo(rb.results, id, quantity)
	return rb
}

// Build converts the builder to a RecipeConfig.
func (rb *RecipeBuilder) Build() fabricate.RecipeConfig {
	var options []fabricate.IngredientOptionConfig
	for _, ob := range rb.options {
		options = append(options, ob.Build())
	}
	return fabricate.RecipeConfig{
		ID:                rb.id,
		Name:              rb.name,
		IngredientOptions: options,
		Essences:          rb.essences,
		Results:           rb.results,
	}
}

// OptionBuilder provides a fluent API for one ingredient option of a recipe.
// Ingredients are consumed by a craft; catalysts must be present but are
// kept.
type OptionBuilder struct {
	name        string
	ingredients fabricate.Record
	catalysts   fabricate.Record
}

// NewOption creates a new ingredient option builder.
func NewOption(name string) *OptionBuilder {
	return &OptionBuilder{name: name}
}

// Ingredient adds a consumed component.
func (ob *OptionBuilder) Ingredient(id string, quantity int) *OptionBuilder {
	ob.ingredients = addTo(ob.ingredients, id, quantity)
	return ob
}

// Catalyst adds a required but unconsumed component.
func (ob *OptionBuilder) Catalyst(id string, quantity int) *OptionBuilder {
	ob.catalysts = addTo(ob.catalysts, id, quantity)
	return ob
}

// Build converts the builder to an IngredientOptionConfig.
func (ob *OptionBuilder) Build() fabricate.IngredientOptionConfig {
	return fabricate.IngredientOptionConfig{
		Name:        ob.name,
		Ingredients: ob.ingredients,
		Catalysts:   ob.catalysts,
	}
}

func addTo(record fabricate.Record, id string, quantity int) fabricate.Record {
	if record == nil {
		record = make(fabricate.Record)
	}
	record[id] += quantity
	return record
}

// TrackedAmount reports how much of one required element was found.
type TrackedAmount struct {
	ID         string `json:"id"`
	Target     int    `json:"target"`
	Actual     int    `json:"actual"`
	Sufficient bool   `json:"sufficient"`
}

// SelectionResult is the server's answer to a selection request.
type SelectionResult struct {
	Components   fabricate.Record `json:"components"`
	Essences     fabricate.Record `json:"essences"`
	Sufficient   bool             `json:"sufficient"`
	Deficit      int              `json:"deficit"`
	Requirement  []TrackedAmount  `json:"requirement"`
	Candidates   int              `json:"candidates"`
	NodesVisited int              `json:"nodes_visited"`
	Truncated    bool             `json:"truncated"`
}

// ApplyCatalog sends the catalog configuration to a fabricate server,
// replacing its active catalog. The baseURL is the server's base URL
// (e.g., "http://localhost:8080").
func ApplyCatalog(ctx context.Context, baseURL string, catalog *CatalogBuilder) error {
	u, err := url.JoinPath(baseURL, "catalog")
	if err != nil {
		return fmt.Errorf("failed to build URL: %w", err)
	}
	return postJSON(ctx, u, catalog.Build(), nil)
}

// Select asks the server which of the available components to spend to
// cover the required essences.
func Select(ctx context.Context, baseURL string, required, available fabricate.Record) (SelectionResult, error) {
	u, err := url.JoinPath(baseURL, "select")
	if err != nil {
		return SelectionResult{}, fmt.Errorf("failed to build URL: %w", err)
	}
	body := map[string]fabricate.Record{"required": required, "available": available}
	var result SelectionResult
	if err := postJSON(ctx, u, body, &result); err != nil {
		return SelectionResult{}, err
	}
	return result, nil
}

// postJSON posts payload and decodes a JSON response into out when out is
// non-nil.
func postJSON(ctx context.Context, u string, payload, out any) error {
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("server returned status %d: %s", resp.StatusCode, string(body))
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
