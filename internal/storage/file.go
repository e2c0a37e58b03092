// Package storage persists one JSON blob per key with pluggable backends.
package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/bobmcallan/cryptodash/internal/common"
	"github.com/bobmcallan/cryptodash/internal/interfaces"
)

// FileStore keeps each key in <path>/<key>.json with optional versioning.
// Writes are atomic: temp file in the same directory, then rename.
type FileStore struct {
	basePath string
	versions int
	logger   *common.Logger
	mu       sync.Mutex
}

var _ interfaces.KVStore = (*FileStore)(nil)

// NewFileStore creates the data directory if needed.
func NewFileStore(logger *common.Logger, path string, versions int) (*FileStore, error) {
	if versions < 0 {
		versions = 0
	}
	if err := os.MkdirAll(path, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory %s: %w", path, err)
	}

	logger.Debug().Str("path", path).Int("versions", versions).Msg("FileStore opened")
	return &FileStore{basePath: path, versions: versions, logger: logger}, nil
}

// sanitizeKey makes a key safe for use as a filename.
func sanitizeKey(key string) string {
	r := strings.NewReplacer("/", "_", "\\", "_", ":", "_", "..", "_")
	return r.Replace(key)
}

func (fs *FileStore) filePath(key string) string {
	return filepath.Join(fs.basePath, sanitizeKey(key)+".json")
}

// Get returns the stored bytes for key, or ErrNotFound.
func (fs *FileStore) Get(_ context.Context, key string) ([]byte, error) {
	data, err := os.ReadFile(fs.filePath(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return data, nil
}

// Put replaces the value for key, rotating previous versions first.
func (fs *FileStore) Put(_ context.Context, key string, value []byte) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	target := fs.filePath(key)
	if fs.versions > 0 {
		fs.rotateVersions(target)
	}

	tmpFile, err := os.CreateTemp(fs.basePath, ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	if _, err := tmpFile.Write(value); err != nil {
		tmpFile.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, target); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	return nil
}

// rotateVersions shifts key.json.v1..vN up by one and copies the current file to v1.
func (fs *FileStore) rotateVersions(target string) {
	os.Remove(fmt.Sprintf("%s.v%d", target, fs.versions))
	for i := fs.versions; i > 1; i-- {
		os.Rename(fmt.Sprintf("%s.v%d", target, i-1), fmt.Sprintf("%s.v%d", target, i))
	}
	if data, err := os.ReadFile(target); err == nil {
		os.WriteFile(target+".v1", data, 0644)
	}
}

// Delete removes key and its versions. Missing keys are not an error.
func (fs *FileStore) Delete(_ context.Context, key string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	target := fs.filePath(key)
	if err := os.Remove(target); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	for i := 1; i <= fs.versions; i++ {
		os.Remove(fmt.Sprintf("%s.v%d", target, i))
	}
	return nil
}

// Keys lists stored keys, excluding versions and temp files.
func (fs *FileStore) Keys(_ context.Context) ([]string, error) {
	entries, err := os.ReadDir(fs.basePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read directory %s: %w", fs.basePath, err)
	}

	var keys []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || strings.HasPrefix(name, ".tmp-") || !strings.HasSuffix(name, ".json") {
			continue
		}
		keys = append(keys, strings.TrimSuffix(name, ".json"))
	}
	sort.Strings(keys)
	return keys, nil
}

// Close is a no-op for the file backend.
func (fs *FileStore) Close() error {
	return nil
}
