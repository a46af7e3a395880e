package storage

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"

	"carteira/internal/core"
)

// FileStore keeps the ledger as a single JSON document on disk.
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Load reads the blob. Absent or unparsable data falls back to the seed
// ledger, which is persisted right away so the next load finds it.
func (s *FileStore) Load(ctx context.Context) (core.Ledger, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			slog.WarnContext(ctx, "Ledger file unreadable, using seed", "path", s.path, "error", err)
		}
		return s.seed(ctx), nil
	}

	var l core.Ledger
	if err := json.Unmarshal(data, &l); err != nil {
		slog.WarnContext(ctx, "Ledger file unparsable, using seed", "path", s.path, "error", err)
		return s.seed(ctx), nil
	}
	if l.Transactions == nil && l.Settings == (core.Settings{}) {
		// Valid JSON but not our shape; treat as absent.
		slog.WarnContext(ctx, "Ledger file has unexpected shape, using seed", "path", s.path)
		return s.seed(ctx), nil
	}

	l.Settings = l.Settings.Normalized()
	return l, nil
}

// Save overwrites the blob atomically (temp file plus rename) so a crash
// mid-write never leaves a truncated ledger behind.
func (s *FileStore) Save(ctx context.Context, l core.Ledger) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return &PersistenceError{Op: "save", Err: err}
	}

	data, err := json.MarshalIndent(l, "", "  ")
	if err != nil {
		return &PersistenceError{Op: "save", Err: err}
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return &PersistenceError{Op: "save", Err: err}
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return &PersistenceError{Op: "save", Err: err}
	}
	return nil
}

func (s *FileStore) seed(ctx context.Context) core.Ledger {
	l := core.SeedLedger()
	if err := s.Save(ctx, l); err != nil {
		// Keep working from memory; the next successful save will land.
		slog.WarnContext(ctx, "Could not persist seed ledger", "path", s.path, "error", err)
	}
	return l
}
