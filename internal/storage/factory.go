package storage

import (
	"fmt"
	"log/slog"
)

const (
	FileBackend   = "file"
	SQLiteBackend = "sqlite"
)

// NewRepository selects the persistence backend. The returned cleanup
// func is a no-op for the file store.
func NewRepository(backend, dataFile, sqlitePath string, logger *slog.Logger) (Repository, func() error, error) {
	if logger == nil {
		logger = slog.Default()
	}

	switch backend {
	case SQLiteBackend:
		store, err := NewSQLiteStore(sqlitePath)
		if err != nil {
			return nil, nil, fmt.Errorf("initialize sqlite backend: %w", err)
		}
		logger.Info("Initialized sqlite backend", "db_path", sqlitePath)
		return store, store.Close, nil
	case FileBackend:
		logger.Info("Initialized file backend", "path", dataFile)
		return NewFileStore(dataFile), func() error { return nil }, nil
	default:
		return nil, nil, fmt.Errorf("unsupported data backend: %s", backend)
	}
}
