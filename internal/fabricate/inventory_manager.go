package fabricate

import (
	"fmt"
	"slices"
	"sync"
)

// InventoryManager manages the inventories of many actors sharing one catalog.
type InventoryManager struct {
	mu          sync.RWMutex
	catalog     *Catalog
	inventories map[ActorID]*Inventory

	options SelectionOptions
	sink    EventSink
	logger  Logger
}

// NewInventoryManager creates a manager whose inventories use catalog.
func NewInventoryManager(catalog *Catalog) *InventoryManager {
	return &InventoryManager{
		catalog:     catalog,
		inventories: make(map[ActorID]*Inventory),
		logger:      NewNoOpLogger(),
	}
}

// WithSelectionOptions sets the search bounds given to new inventories.
func (im *InventoryManager) WithSelectionOptions(opts SelectionOptions) *InventoryManager {
	im.options = opts
	return im
}

// WithEventSink sets the sink given to new inventories.
func (im *InventoryManager) WithEventSink(sink EventSink) *InventoryManager {
	im.sink = sink
	return im
}

// WithLogger sets the logger given to new inventories.
func (im *InventoryManager) WithLogger(logger Logger) *InventoryManager {
	if logger != nil {
		im.logger = logger
	}
	return im
}

func (im *InventoryManager) Catalog() *Catalog {
	im.mu.RLock()
	defer im.mu.RUnlock()
	return im.catalog
}

// SetCatalog replaces the shared catalog and rebinds every inventory to it.
func (im *InventoryManager) SetCatalog(catalog *Catalog) {
	im.mu.Lock()
	defer im.mu.Unlock()
	im.catalog = catalog
	for _, inv := range im.inventories {
		inv.SetCatalog(catalog)
	}
}

// CreateInventory creates an inventory for id holding contents.
// Returns an error if an inventory with that ID already exists
func (im *InventoryManager) CreateInventory(id ActorID, contents Combination[Component]) (*Inventory, error) {
	im.mu.Lock()
	defer im.mu.Unlock()

	if _, exists := im.inventories[id]; exists {
		return nil, fmt.Errorf("%w: %s", ErrActorExists, id)
	}

	inv := NewInventory(id, im.catalog).
		WithSelectionOptions(im.options).
		WithEventSink(im.sink).
		WithLogger(im.logger)
	inv.Add(contents)
	im.inventories[id] = inv
	return inv, nil
}

// GetInventory retrieves an inventory by actor ID
func (im *InventoryManager) GetInventory(id ActorID) (*Inventory, bool) {
	im.mu.RLock()
	defer im.mu.RUnlock()
	inv, exists := im.inventories[id]
	return inv, exists
}

// DeleteInventory removes an inventory by actor ID
func (im *InventoryManager) DeleteInventory(id ActorID) error {
	im.mu.Lock()
	defer im.mu.Unlock()

	if _, exists := im.inventories[id]; !exists {
		return fmt.Errorf("%w: %s", ErrActorNotFound, id)
	}
	delete(im.inventories, id)
	return nil
}

// ListInventories returns all actor IDs in sorted order
func (im *InventoryManager) ListInventories() []ActorID {
	im.mu.RLock()
	defer im.mu.RUnlock()

	ids := make([]ActorID, 0, len(im.inventories))
	for id := range im.inventories {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}
