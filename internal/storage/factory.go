package storage

import (
	"fmt"
	"path/filepath"

	"github.com/bobmcallan/cryptodash/internal/common"
	"github.com/bobmcallan/cryptodash/internal/interfaces"
)

// Backend type constants.
const (
	BackendFile   = "file"
	BackendBadger = "badger"
	BackendMemory = "memory"
)

// NewStore opens the backend named in the [storage] section.
// Supported backends: "file" (default), "badger", "memory".
func NewStore(logger *common.Logger, config common.StorageConfig) (interfaces.KVStore, error) {
	backend := config.Backend
	if backend == "" {
		backend = BackendFile
	}

	switch backend {
	case BackendFile:
		return NewFileStore(logger, filepath.Join(config.Path, "kv"), config.Versions)

	case BackendBadger:
		return NewBadgerStore(logger, filepath.Join(config.Path, "badger"))

	case BackendMemory:
		return NewMemoryStore(), nil

	default:
		return nil, fmt.Errorf("unknown storage backend: %s (supported: file, badger, memory)", backend)
	}
}
