package fabricate

import (
	"encoding/json"
	"fmt"
	"time"
)

// Snapshot represents a point-in-time capture of an actor's inventory.
type Snapshot struct {
	ActorID  ActorID   `json:"actor_id"`
	Catalog  string    `json:"catalog"`
	Contents Record    `json:"contents"`
	TakenAt  time.Time `json:"taken_at"`
}

// Snapshot captures the current contents of the inventory.
func (inv *Inventory) Snapshot() Snapshot {
	inv.mu.RLock()
	defer inv.mu.RUnlock()
	return Snapshot{
		ActorID:  inv.actor,
		Catalog:  inv.catalog.Name,
		Contents: inv.contents.ToRecord(),
		TakenAt:  inv.now().UTC(),
	}
}

// Restore replaces the inventory contents with those of snapshot. The
// snapshot is validated against the inventory's catalog first.
func (inv *Inventory) Restore(snapshot Snapshot) error {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	if snapshot.ActorID != inv.actor {
		return fmt.Errorf("snapshot belongs to actor %s, not %s", snapshot.ActorID, inv.actor)
	}
	if err := ValidateSnapshot(snapshot, inv.catalog); err != nil {
		return err
	}
	contents, err := inv.catalog.ComponentsFromRecord(snapshot.Contents)
	if err != nil {
		return err
	}
	inv.contents = contents
	return nil
}

// ValidateSnapshot performs validation checks on a snapshot.
// It verifies that:
//   - The actor ID is non-empty
//   - All quantities are positive
//   - All components exist in the provided catalog (if catalog is not nil)
//
// If catalog is nil, only the structural checks are performed.
func ValidateSnapshot(snapshot Snapshot, catalog *Catalog) error {
	if snapshot.ActorID == "" {
		return fmt.Errorf("snapshot has empty actor ID")
	}
	if err := snapshot.Contents.Validate(); err != nil {
		return fmt.Errorf("snapshot contents: %w", err)
	}
	for id := range snapshot.Contents {
		if catalog != nil {
			if _, exists := catalog.Component(ComponentID(id)); !exists {
				return fmt.Errorf("component %s not found in catalog %s", id, catalog.Name)
			}
		}
	}
	return nil
}

// EncodeSnapshotJSON encodes a snapshot to JSON format.
func EncodeSnapshotJSON(snapshot Snapshot) ([]byte, error) {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return nil, fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return data, nil
}

// DecodeSnapshotJSON decodes a snapshot from JSON format.
func DecodeSnapshotJSON(data []byte) (Snapshot, error) {
	var snapshot Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return Snapshot{}, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	return snapshot, nil
}
