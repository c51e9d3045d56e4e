// SPDX-License-Identifier: MIT

package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/google/renameio/v2"
	"github.com/rs/zerolog"
	"github.com/xtreamgate/xtreamgate/internal/log"
)

const snapshotFile = "catalog.json"

// Store persists snapshots as a single JSON file. Writes are atomic and
// durable (fsync before rename), so readers of the file never observe a
// truncated snapshot.
type Store struct {
	path   string
	logger zerolog.Logger
}

// NewStore creates a store rooted at dataDir.
func NewStore(dataDir string) *Store {
	return &Store{
		path:   filepath.Join(dataDir, snapshotFile),
		logger: log.WithComponent("cache"),
	}
}

// Path returns the snapshot file location.
func (s *Store) Path() string {
	return s.path
}

// Save atomically replaces the snapshot file with the given snapshot.
func (s *Store) Save(snap *Snapshot) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	// renameio handles temp file creation, fsync, atomic rename and
	// cleanup on error.
	pending, err := renameio.NewPendingFile(s.path)
	if err != nil {
		return fmt.Errorf("create pending snapshot file: %w", err)
	}
	defer func() {
		if err := pending.Cleanup(); err != nil {
			s.logger.Debug().Err(err).Msg("cleanup pending snapshot file")
		}
	}()

	enc := json.NewEncoder(pending)
	if err := enc.Encode(snap); err != nil {
		return fmt.Errorf("write snapshot data: %w", err)
	}
	if err := pending.CloseAtomicallyReplace(); err != nil {
		return fmt.Errorf("atomically replace snapshot file: %w", err)
	}
	return nil
}

// Load reads the last persisted snapshot. A missing or unreadable file is
// treated as "no snapshot": the cache is simply not built yet and the next
// refresh recreates it. Load never fails the caller for corruption.
func (s *Store) Load() *Snapshot {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			s.logger.Warn().Err(err).Str("path", s.path).Msg("snapshot file unreadable, treating as absent")
		}
		return nil
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		s.logger.Warn().Err(err).Str("path", s.path).Msg("snapshot file corrupt, treating as absent")
		return nil
	}
	return &snap
}
