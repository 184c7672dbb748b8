package storage

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("record not found")

// ErrConflict is returned by Commit when a record read by the transaction was
// modified by someone else before the commit.
var ErrConflict = errors.New("transaction conflict")

// ErrTxDone is returned when a transaction is used after Commit or Rollback.
var ErrTxDone = errors.New("transaction already committed or rolled back")

// ErrIndexLag is returned when a lookup through a secondary index has not yet
// caught up with committed writes. It wraps ErrConflict so the whole
// transaction is retried.
var ErrIndexLag = fmt.Errorf("secondary index behind committed writes: %w", ErrConflict)
