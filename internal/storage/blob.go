package storage

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/bobmcallan/cryptodash/internal/interfaces"
)

// Persisted keys.
const (
	KeyPortfolio = "crypto_portfolio"
	KeyWatchlist = "crypto_watchlist"
	KeyAlerts    = "crypto_alerts"
	KeyTheme     = "crypto_theme"
	KeyCurrency  = "crypto_currency"
)

// LoadJSON decodes the blob at key into dest. It reports found=false with a
// nil error when the key is missing. Read and decode failures are returned as
// *PersistenceError; dest should then be discarded.
func LoadJSON(ctx context.Context, store interfaces.KVStore, key string, dest interface{}) (bool, error) {
	data, err := store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return false, nil
		}
		return false, &PersistenceError{Op: "read", Key: key, Err: err}
	}
	if len(data) == 0 {
		return false, nil
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return false, &PersistenceError{Op: "decode", Key: key, Err: err}
	}
	return true, nil
}

// SaveJSON encodes v and writes it at key.
func SaveJSON(ctx context.Context, store interfaces.KVStore, key string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return &PersistenceError{Op: "encode", Key: key, Err: err}
	}
	if err := store.Put(ctx, key, data); err != nil {
		return &PersistenceError{Op: "write", Key: key, Err: err}
	}
	return nil
}
