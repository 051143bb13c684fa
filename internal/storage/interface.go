package storage

import (
	"fmt"

	"musespark-backend/internal/config"
)

// Blob keys
const (
	KeySessions     = "sessions"
	KeyInspirations = "inspirations"
)

// Storage persists named JSON blobs. Read returns ErrBlobNotFound for a key
// that was never written.
type Storage interface {
	Read(key string) ([]byte, error)
	Write(key string, data []byte) error

	// Lifecycle
	Init() error
	Close() error
	Backup() error
}

// New builds the backend selected by cfg.Type and initializes it.
func New(cfg config.StorageConfig) (Storage, error) {
	var s Storage
	switch cfg.Type {
	case "memory":
		s = NewMemoryStorage()
	case "sqlite":
		s = NewSQLiteStorage(cfg.SQLitePath)
	case "disk", "":
		s = NewDiskStorage(cfg.DataDir)
	default:
		return nil, fmt.Errorf("%w: unknown storage type %q", ErrStorageInit, cfg.Type)
	}
	if err := s.Init(); err != nil {
		return nil, err
	}
	return s, nil
}
