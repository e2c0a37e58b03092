package storage

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned by Get when a key has never been written.
var ErrNotFound = errors.New("key not found")

// PersistenceError reports a local storage read, write or decode failure.
type PersistenceError struct {
	Op  string // "read", "write", "decode", "encode", "delete"
	Key string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("failed to %s %s: %v", e.Op, e.Key, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
