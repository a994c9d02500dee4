package domain

import "fmt"

// ValidationError reports a malformed or missing event field. It is always
// raised before any mutation, so a caller seeing it knows nothing was
// recorded.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid event: field %q %s", e.Field, e.Reason)
}

// StorageError reports a snapshot read or write failure against the
// persistence backend. The pipeline never retries internally; the caller
// decides whether to repeat the whole logical operation.
type StorageError struct {
	Op  string // "load", "persist"
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s failed: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// ClassificationError reports that the completion service call failed or
// produced no output. The originating event remains persisted; no alert
// exists for it.
type ClassificationError struct {
	Err error
}

func (e *ClassificationError) Error() string {
	return fmt.Sprintf("threat classification failed: %v", e.Err)
}

func (e *ClassificationError) Unwrap() error { return e.Err }
