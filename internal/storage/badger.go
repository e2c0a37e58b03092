package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/timshannon/badgerhold/v4"

	"github.com/bobmcallan/cryptodash/internal/common"
	"github.com/bobmcallan/cryptodash/internal/interfaces"
)

// blobEntry is one key and its serialized value.
type blobEntry struct {
	Key   string `badgerhold:"key"`
	Value []byte
}

// BadgerStore keeps blobs in an embedded BadgerHold database.
// The directory is locked while open, so a second process sharing it fails at open.
type BadgerStore struct {
	db     *badgerhold.Store
	logger *common.Logger
}

var _ interfaces.KVStore = (*BadgerStore)(nil)

// NewBadgerStore opens (or creates) a database at path.
func NewBadgerStore(logger *common.Logger, path string) (*BadgerStore, error) {
	if err := os.MkdirAll(path, 0755); err != nil {
		return nil, fmt.Errorf("failed to create badger directory %s: %w", path, err)
	}

	options := badgerhold.DefaultOptions
	options.Dir = path
	options.ValueDir = path
	options.Logger = nil

	db, err := badgerhold.Open(options)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger database: %w", err)
	}

	logger.Debug().Str("path", path).Msg("BadgerStore opened")
	return &BadgerStore{db: db, logger: logger}, nil
}

func (s *BadgerStore) Get(_ context.Context, key string) ([]byte, error) {
	var entry blobEntry
	if err := s.db.Get(key, &entry); err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get key '%s': %w", key, err)
	}
	return entry.Value, nil
}

func (s *BadgerStore) Put(_ context.Context, key string, value []byte) error {
	entry := blobEntry{Key: key, Value: value}
	if err := s.db.Upsert(key, &entry); err != nil {
		return fmt.Errorf("failed to set key '%s': %w", key, err)
	}
	return nil
}

func (s *BadgerStore) Delete(_ context.Context, key string) error {
	err := s.db.Delete(key, blobEntry{})
	if err != nil && !errors.Is(err, badgerhold.ErrNotFound) {
		return fmt.Errorf("failed to delete key '%s': %w", key, err)
	}
	return nil
}

func (s *BadgerStore) Keys(_ context.Context) ([]string, error) {
	var entries []blobEntry
	if err := s.db.Find(&entries, nil); err != nil {
		return nil, fmt.Errorf("failed to list keys: %w", err)
	}
	keys := make([]string, len(entries))
	for i, e := range entries {
		keys[i] = e.Key
	}
	sort.Strings(keys)
	return keys, nil
}

// Close closes the database and releases the directory lock.
func (s *BadgerStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
