package fabricate

// BuildCatalogFromConfig validates cfg and builds the catalog it describes.
func BuildCatalogFromConfig(cfg CatalogConfig) (*Catalog, error) {
	if err := ValidateCatalogConfig(cfg); err != nil {
		return nil, err
	}

	c := NewCatalog(cfg.Name)

	for _, ec := range cfg.Essences {
		c = c.WithEssences(Essence{
			ID:          EssenceID(ec.ID),
			Name:        ec.Name,
			Description: ec.Description,
			Icon:        ec.Icon,
		})
	}

	// Salvage only refers to components by id, so one pass is enough.
	for _, cc := range cfg.Components {
		essences, err := c.EssencesFromRecord(cc.Essences)
		if err != nil {
			return nil, err
		}
		salvage, err := FromRecord(cc.Salvage, func(id string) (ComponentRef, error) {
			return ComponentRef{ID: ComponentID(id)}, nil
		})
		if err != nil {
			return nil, err
		}
		c = c.WithComponents(Component{
			ID:       ComponentID(cc.ID),
			Name:     cc.Name,
			Essences: essences,
			Salvage:  salvage,
		})
	}

	for _, rc := range cfg.Recipes {
		recipe := Recipe{
			ID:   RecipeID(rc.ID),
			Name: rc.Name,
		}
		var err error
		if recipe.Essences, err = c.EssencesFromRecord(rc.Essences); err != nil {
			return nil, err
		}
		if recipe.Results, err = c.ComponentsFromRecord(rc.Results); err != nil {
			return nil, err
		}
		for _, oc := range rc.IngredientOptions {
			option := IngredientOption{Name: oc.Name}
			if option.Ingredients, err = c.ComponentsFromRecord(oc.Ingredients); err != nil {
				return nil, err
			}
			if option.Catalysts, err = c.ComponentsFromRecord(oc.Catalysts); err != nil {
				return nil, err
			}
			recipe.IngredientOptions = append(recipe.IngredientOptions, option)
		}
		c = c.WithRecipes(recipe)
	}

	return c, nil
}

// Config converts the catalog back into its JSON form.
func (c *Catalog) Config() CatalogConfig {
	cfg := CatalogConfig{
		Name:       c.Name,
		Essences:   []EssenceConfig{},
		Components: []ComponentConfig{},
	}
	for _, e := range c.Essences() {
		cfg.Essences = append(cfg.Essences, EssenceConfig{
			ID:          string(e.ID),
			Name:        e.Name,
			Description: e.Description,
			Icon:        e.Icon,
		})
	}
	for _, comp := range c.Components() {
		cfg.Components = append(cfg.Components, ComponentConfig{
			ID:       string(comp.ID),
			Name:     comp.Name,
			Essences: recordOrNil(comp.Essences.ToRecord()),
			Salvage:  recordOrNil(comp.Salvage.ToRecord()),
		})
	}
	for _, r := range c.Recipes() {
		rc := RecipeConfig{
			ID:       string(r.ID),
			Name:     r.Name,
			Essences: recordOrNil(r.Essences.ToRecord()),
			Results:  r.Results.ToRecord(),
		}
		for _, opt := range r.IngredientOptions {
			rc.IngredientOptions = append(rc.IngredientOptions, IngredientOptionConfig{
				Name:        opt.Name,
				Ingredients: recordOrNil(opt.Ingredients.ToRecord()),
				Catalysts:   recordOrNil(opt.Catalysts.ToRecord()),
			})
		}
		cfg.Recipes = append(cfg.Recipes, rc)
	}
	return cfg
}

func recordOrNil(r Record) Record {
	if len(r) == 0 {
		return nil
	}
	return r
}
