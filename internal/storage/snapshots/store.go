// Package snapshots stores inventory snapshots as JSON blobs, either on the
// local filesystem or in an S3-compatible bucket.
package snapshots

import (
	"context"
	"fmt"
	"strings"

	"github.com/daniacca/fabricate/internal/fabricate"
)

// Store persists one snapshot per actor. Saving overwrites the previous
// snapshot of the same actor.
type Store interface {
	Save(ctx context.Context, snapshot fabricate.Snapshot) error
	// Load returns fabricate.ErrSnapshotNotFound when the actor has none.
	Load(ctx context.Context, actor fabricate.ActorID) (fabricate.Snapshot, error)
	// List returns the actors that have a snapshot, sorted.
	List(ctx context.Context) ([]fabricate.ActorID, error)
}

const snapshotSuffix = ".snapshot.json"

func objectName(actor fabricate.ActorID) (string, error) {
	id := string(actor)
	if id == "" {
		return "", fmt.Errorf("snapshot has empty actor ID")
	}
	if strings.ContainsAny(id, `/\`) || id == "." || id == ".." {
		return "", fmt.Errorf("invalid actor ID for snapshot: %q", id)
	}
	return id + snapshotSuffix, nil
}

func actorFromName(name string) (fabricate.ActorID, bool) {
	if !strings.HasSuffix(name, snapshotSuffix) {
		return "", false
	}
	id := strings.TrimSuffix(name, snapshotSuffix)
	if id == "" {
		return "", false
	}
	return fabricate.ActorID(id), true
}

func encode(snapshot fabricate.Snapshot) ([]byte, string, error) {
	name, err := objectName(snapshot.ActorID)
	if err != nil {
		return nil, "", err
	}
	if err := fabricate.ValidateSnapshot(snapshot, nil); err != nil {
		return nil, "", err
	}
	data, err := fabricate.EncodeSnapshotJSON(snapshot)
	if err != nil {
		return nil, "", err
	}
	return data, name, nil
}
