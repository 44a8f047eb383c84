package snapshots

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/daniacca/fabricate/internal/fabricate"
)

// FSStore keeps snapshots as <actor>.snapshot.json files in a directory.
type FSStore struct {
	dir string
}

// NewFSStore creates the directory if needed and returns a store rooted there.
func NewFSStore(dir string) (*FSStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("snapshot directory required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create snapshot directory: %w", err)
	}
	return &FSStore{dir: dir}, nil
}

// Dir returns the directory holding the snapshots.
func (s *FSStore) Dir() string { return s.dir }

func (s *FSStore) Save(ctx context.Context, snapshot fabricate.Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, name, err := encode(snapshot)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(s.dir, name+".*.tmp")
	if err != nil {
		return fmt.Errorf("write snapshot %s: %w", snapshot.ActorID, err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write snapshot %s: %w", snapshot.ActorID, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write snapshot %s: %w", snapshot.ActorID, err)
	}
	if err := os.Rename(tmp.Name(), filepath.Join(s.dir, name)); err != nil {
		return fmt.Errorf("write snapshot %s: %w", snapshot.ActorID, err)
	}
	return nil
}

func (s *FSStore) Load(ctx context.Context, actor fabricate.ActorID) (fabricate.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return fabricate.Snapshot{}, err
	}
	name, err := objectName(actor)
	if err != nil {
		return fabricate.Snapshot{}, err
	}
	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fabricate.Snapshot{}, fmt.Errorf("%w: %s", fabricate.ErrSnapshotNotFound, actor)
		}
		return fabricate.Snapshot{}, fmt.Errorf("read snapshot %s: %w", actor, err)
	}
	return fabricate.DecodeSnapshotJSON(data)
}

func (s *FSStore) List(ctx context.Context) ([]fabricate.ActorID, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	actors := []fabricate.ActorID{}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if actor, ok := actorFromName(entry.Name()); ok {
			actors = append(actors, actor)
		}
	}
	sort.Slice(actors, func(i, j int) bool { return actors[i] < actors[j] })
	return actors, nil
}
