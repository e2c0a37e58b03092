package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/cryptodash/internal/common"
)

func newTestFileStore(t *testing.T, versions int) *FileStore {
	t.Helper()
	fs, err := NewFileStore(common.NewSilentLogger(), t.TempDir(), versions)
	require.NoError(t, err)
	return fs
}

func TestFileStore_PutGetDelete(t *testing.T) {
	ctx := context.Background()
	fs := newTestFileStore(t, 0)

	_, err := fs.Get(ctx, KeyPortfolio)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, fs.Put(ctx, KeyPortfolio, []byte(`[]`)))
	got, err := fs.Get(ctx, KeyPortfolio)
	require.NoError(t, err)
	assert.Equal(t, `[]`, string(got))

	require.NoError(t, fs.Delete(ctx, KeyPortfolio))
	_, err = fs.Get(ctx, KeyPortfolio)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.NoError(t, fs.Delete(ctx, "never-written"))
}

func TestFileStore_AtomicWriteLeavesNoTempFiles(t *testing.T) {
	ctx := context.Background()
	fs := newTestFileStore(t, 0)

	for i := 0; i < 5; i++ {
		require.NoError(t, fs.Put(ctx, KeyWatchlist, []byte(`["bitcoin"]`)))
	}

	entries, err := os.ReadDir(fs.basePath)
	require.NoError(t, err)
	for _, e := range entries {
		assert.False(t, strings.HasPrefix(e.Name(), ".tmp-"), "temp file left behind: %s", e.Name())
	}
}

func TestFileStore_RotatesVersions(t *testing.T) {
	ctx := context.Background()
	fs := newTestFileStore(t, 2)

	require.NoError(t, fs.Put(ctx, KeyAlerts, []byte("one")))
	require.NoError(t, fs.Put(ctx, KeyAlerts, []byte("two")))
	require.NoError(t, fs.Put(ctx, KeyAlerts, []byte("three")))

	target := fs.filePath(KeyAlerts)
	v1, err := os.ReadFile(target + ".v1")
	require.NoError(t, err)
	assert.Equal(t, "two", string(v1))
	v2, err := os.ReadFile(target + ".v2")
	require.NoError(t, err)
	assert.Equal(t, "one", string(v2))

	keys, err := fs.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{KeyAlerts}, keys)

	require.NoError(t, fs.Delete(ctx, KeyAlerts))
	_, err = os.Stat(target + ".v1")
	assert.True(t, os.IsNotExist(err))
}

func TestSanitizeKey(t *testing.T) {
	assert.Equal(t, "a_b_c", sanitizeKey("a/b:c"))
	assert.Equal(t, "_etc", sanitizeKey("..etc"))
	assert.NotContains(t, filepath.Base(sanitizeKey("../../x")), "/")
}

func TestLoadJSON_MissingAndCorrupt(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	var ids []string
	found, err := LoadJSON(ctx, store, KeyWatchlist, &ids)
	assert.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, store.Put(ctx, KeyWatchlist, []byte(`{not json`)))
	found, err = LoadJSON(ctx, store, KeyWatchlist, &ids)
	assert.False(t, found)
	var perr *PersistenceError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "decode", perr.Op)
	assert.Equal(t, KeyWatchlist, perr.Key)

	require.NoError(t, SaveJSON(ctx, store, KeyWatchlist, []string{"bitcoin", "solana"}))
	found, err = LoadJSON(ctx, store, KeyWatchlist, &ids)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []string{"bitcoin", "solana"}, ids)
}

func TestNewStore_Backends(t *testing.T) {
	logger := common.NewSilentLogger()
	dir := t.TempDir()

	s, err := NewStore(logger, common.StorageConfig{Path: dir})
	require.NoError(t, err)
	assert.IsType(t, &FileStore{}, s)

	s, err = NewStore(logger, common.StorageConfig{Backend: BackendMemory})
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, s)

	_, err = NewStore(logger, common.StorageConfig{Backend: "postgres"})
	assert.Error(t, err)
}
