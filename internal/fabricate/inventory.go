package fabricate

import (
	"fmt"
	"sync"
	"time"
)

// ActorID identifies the owner of an inventory.
type ActorID string

// Inventory holds the components owned by one actor. It is safe for
// concurrent use.
type Inventory struct {
	mu       sync.RWMutex
	actor    ActorID
	catalog  *Catalog
	contents Combination[Component]

	options SelectionOptions
	sink    EventSink
	logger  Logger
	now     func() time.Time
	// planned runs between planning a craft and committing it. Tests only.
	planned func()
}

// NewInventory creates an empty inventory for actor, resolving components
// against catalog.
func NewInventory(actor ActorID, catalog *Catalog) *Inventory {
	return &Inventory{
		actor:   actor,
		catalog: catalog,
		logger:  NewNoOpLogger(),
		now:     time.Now,
	}
}

// WithSelectionOptions sets the search bounds used by Check, Craft and Select.
func (inv *Inventory) WithSelectionOptions(opts SelectionOptions) *Inventory {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	inv.options = opts
	return inv
}

// WithEventSink sets where craft and salvage events are published.
func (inv *Inventory) WithEventSink(sink EventSink) *Inventory {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	inv.sink = sink
	return inv
}

// WithLogger sets the inventory logger.
func (inv *Inventory) WithLogger(logger Logger) *Inventory {
	if logger == nil {
		return inv
	}
	inv.mu.Lock()
	defer inv.mu.Unlock()
	inv.logger = logger
	return inv
}

func (inv *Inventory) ActorID() ActorID {
	return inv.actor
}

func (inv *Inventory) Catalog() *Catalog {
	inv.mu.RLock()
	defer inv.mu.RUnlock()
	return inv.catalog
}

// Contents returns the current components.
func (inv *Inventory) Contents() Combination[Component] {
	inv.mu.RLock()
	defer inv.mu.RUnlock()
	return inv.contents
}

// Add puts components into the inventory.
func (inv *Inventory) Add(items Combination[Component]) {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	inv.contents = inv.contents.CombineWith(items)
}

// AddRecord resolves record against the catalog and adds it.
func (inv *Inventory) AddRecord(record Record) error {
	items, err := inv.Catalog().ComponentsFromRecord(record)
	if err != nil {
		return err
	}
	inv.Add(items)
	return nil
}

// Remove takes components out of the inventory. Nothing is removed unless
// every requested unit is present.
func (inv *Inventory) Remove(items Combination[Component]) error {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	if !items.IsIn(inv.contents) {
		return fmt.Errorf("%w: want %s, have %s", ErrInsufficient, items, inv.contents.IntersectionWith(items))
	}
	inv.contents = inv.contents.Subtract(items)
	return nil
}

// RemoveRecord resolves record against the catalog and removes it.
func (inv *Inventory) RemoveRecord(record Record) error {
	items, err := inv.Catalog().ComponentsFromRecord(record)
	if err != nil {
		return err
	}
	return inv.Remove(items)
}

// Select chooses components from the inventory to cover required, without
// consuming them.
func (inv *Inventory) Select(required Combination[Essence]) Selection {
	inv.mu.RLock()
	defer inv.mu.RUnlock()
	return NewEssenceSelection(required, inv.options).WithLogger(inv.logger).Evaluate(inv.contents)
}

// Check checks every ingredient option of a recipe against the inventory.
func (inv *Inventory) Check(recipeID RecipeID) ([]CraftingCheck, error) {
	inv.mu.RLock()
	defer inv.mu.RUnlock()
	recipe, ok := inv.catalog.Recipe(recipeID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrRecipeNotFound, recipeID)
	}
	return checkRecipe(recipe, inv.contents, inv.options, inv.logger), nil
}

// Craft crafts recipeID with its best option, consuming ingredients and
// essence components and adding the results.
//
// The essence search runs on a snapshot of the contents without holding the
// lock, so reads and other mutations are not blocked by a long search. The
// pick is committed only if the inventory still holds every consumed unit
// under the same catalog; otherwise the craft is planned again against the
// new contents.
func (inv *Inventory) Craft(recipeID RecipeID) (CraftingCheck, error) {
	for {
		inv.mu.RLock()
		catalog, contents, opts, logger := inv.catalog, inv.contents, inv.options, inv.logger
		inv.mu.RUnlock()

		recipe, ok := catalog.Recipe(recipeID)
		if !ok {
			return CraftingCheck{}, fmt.Errorf("%w: %s", ErrRecipeNotFound, recipeID)
		}
		check, _ := BestOption(checkRecipe(recipe, contents, opts, logger))
		if !check.Craftable {
			return check, fmt.Errorf("%w: recipe %s (deficit %d)", ErrNotCraftable, recipeID, check.Deficit())
		}
		consumed := check.Consumed()
		if inv.planned != nil {
			inv.planned()
		}

		inv.mu.Lock()
		if inv.catalog != catalog || !consumed.IsIn(inv.contents) {
			inv.mu.Unlock()
			logger.Debugf("actor %s: inventory changed while planning %s, planning again", inv.actor, recipeID)
			continue
		}
		inv.contents = inv.contents.Subtract(consumed).CombineWith(recipe.Results)
		event := inv.event(EventCrafted, consumed, recipe.Results)
		event.RecipeID = recipe.ID
		event.Option = check.Option
		sink := inv.sink
		inv.logger.Infof("actor %s crafted %s: consumed=%s produced=%s", inv.actor, recipe.ID, consumed, recipe.Results)
		inv.mu.Unlock()

		if sink != nil {
			sink.Publish(event)
		}
		return check, nil
	}
}

// Salvage breaks one unit of componentID down into its salvage components.
// It returns what was produced.
func (inv *Inventory) Salvage(componentID ComponentID) (Combination[Component], error) {
	inv.mu.Lock()
	component, err := inv.catalog.ResolveComponent(string(componentID))
	if err != nil {
		inv.mu.Unlock()
		return Empty[Component](), err
	}
	if !component.IsSalvageable() {
		inv.mu.Unlock()
		return Empty[Component](), fmt.Errorf("%w: %s", ErrNothingToSalvage, componentID)
	}
	if !inv.contents.HasID(string(componentID), 1) {
		inv.mu.Unlock()
		return Empty[Component](), fmt.Errorf("%w: no %s to salvage", ErrInsufficient, componentID)
	}
	produced, err := FromRecord(component.Salvage.ToRecord(), inv.catalog.ResolveComponent)
	if err != nil {
		inv.mu.Unlock()
		return Empty[Component](), err
	}
	consumed := Of(component, 1)
	inv.contents = inv.contents.Subtract(consumed).CombineWith(produced)
	event := inv.event(EventSalvaged, consumed, produced)
	event.ComponentID = componentID
	sink := inv.sink
	inv.logger.Infof("actor %s salvaged %s: produced=%s", inv.actor, componentID, produced)
	inv.mu.Unlock()

	if sink != nil {
		sink.Publish(event)
	}
	return produced, nil
}

// SetCatalog swaps the catalog and re-resolves the contents against it.
// Components missing from the new catalog are dropped.
func (inv *Inventory) SetCatalog(catalog *Catalog) {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	kept := make(Record)
	for id, qty := range inv.contents.ToRecord() {
		if _, ok := catalog.Component(ComponentID(id)); ok {
			kept[id] = qty
		} else {
			inv.logger.Warnf("actor %s: dropping %d x %s, not in catalog %s", inv.actor, qty, id, catalog.Name)
		}
	}
	// Every key was checked above, so resolution cannot fail.
	inv.contents, _ = catalog.ComponentsFromRecord(kept)
	inv.catalog = catalog
}

func (inv *Inventory) event(kind EventKind, consumed, produced Combination[Component]) NotificationEvent {
	return NotificationEvent{
		Kind:      kind,
		ActorID:   inv.actor,
		Consumed:  consumed.ToRecord(),
		Produced:  produced.ToRecord(),
		Timestamp: inv.now().Unix(),
	}
}
