package source

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/windowseat/windowseat/pkg/opensky"
)

// ErrNoSnapshot is returned when the fallback snapshot file does not
// exist.
var ErrNoSnapshot = errors.New("snapshot file not found")

// SnapshotStore persists a copy of the upstream feed payload to a flat
// file, in the same positional JSON shape the feed itself uses, so a
// saved snapshot is interchangeable with a live response.
type SnapshotStore struct {
	path string
}

// NewSnapshotStore creates a store backed by the given file path.
func NewSnapshotStore(path string) *SnapshotStore {
	return &SnapshotStore{path: path}
}

// Path returns the backing file path.
func (s *SnapshotStore) Path() string {
	return s.path
}

// Save writes the payload to the snapshot file, replacing any previous
// snapshot.
func (s *SnapshotStore) Save(payload *opensky.StatesResponse) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("writing snapshot %s: %w", s.path, err)
	}
	return nil
}

// Load reads the snapshot file. Returns ErrNoSnapshot when the file is
// absent.
func (s *SnapshotStore) Load() (*opensky.StatesResponse, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNoSnapshot, s.path)
		}
		return nil, fmt.Errorf("reading snapshot %s: %w", s.path, err)
	}

	var payload opensky.StatesResponse
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("parsing snapshot %s: %w", s.path, err)
	}
	return &payload, nil
}
