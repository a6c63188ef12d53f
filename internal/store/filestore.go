// Package store persists room snapshots to local files, the durable
// half of offline mode: a room saved here can be reloaded and resumed
// after the process restarts.
package store

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/Keithsel/kien-quoc-sub001/internal/engine"
)

type FileStore struct {
	dir string
}

func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create snapshot dir: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

func (fs *FileStore) path(roomCode string) string {
	return filepath.Join(fs.dir, roomCode+".json")
}

// Save writes the snapshot atomically: a half-written file must never
// shadow the previous good one.
func (fs *FileStore) Save(s *engine.State) error {
	data, err := engine.MarshalSnapshot(s)
	if err != nil {
		return err
	}
	tmp := fs.path(s.RoomCode) + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, fs.path(s.RoomCode))
}

func (fs *FileStore) Load(roomCode string) (*engine.State, error) {
	data, err := os.ReadFile(fs.path(roomCode))
	if err != nil {
		return nil, err
	}
	return engine.UnmarshalSnapshot(data)
}
