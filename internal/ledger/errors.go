package ledger

import (
	"errors"
	"fmt"
)

var (
	// ErrRetrieval matches any failure reading records from the store.
	ErrRetrieval = errors.New("ledger: retrieval failed")
	// ErrWrite matches any failure creating, deleting or appending a record.
	ErrWrite = errors.New("ledger: write failed")
	// ErrNoHistory is returned when the store cannot list full records.
	ErrNoHistory = errors.New("ledger: store does not support history")
)

// RetrievalError wraps a store read failure.
type RetrievalError struct {
	Op     string
	UserID string
	Err    error
}

func (e *RetrievalError) Error() string {
	return fmt.Sprintf("ledger: %s for %q: %v", e.Op, e.UserID, e.Err)
}

func (e *RetrievalError) Unwrap() error { return e.Err }

// Is lets errors.Is(err, ErrRetrieval) match.
func (e *RetrievalError) Is(target error) bool { return target == ErrRetrieval }

// WriteError wraps a store write failure.
type WriteError struct {
	Op     string
	UserID string
	Err    error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("ledger: %s for %q: %v", e.Op, e.UserID, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// Is lets errors.Is(err, ErrWrite) match.
func (e *WriteError) Is(target error) bool { return target == ErrWrite }
