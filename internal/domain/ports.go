package domain

import "context"

// Snapshot keys for the two persisted collections.
const (
	SnapshotKeyEvents = "events"
	SnapshotKeyAlerts = "alerts"
)

// SnapshotStore is the key-value persistence collaborator. Values are whole
// JSON snapshots of one collection; every Put overwrites the prior snapshot
// for that key. This abstracts the concrete backends (Redis, PostgreSQL).
type SnapshotStore interface {
	// Get returns the snapshot stored under key. The second return value is
	// false when no snapshot exists, which is not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Put stores payload under key, replacing any prior snapshot.
	Put(ctx context.Context, key string, payload []byte) error
}

// CompletionStream is a finite, non-restartable sequence of text chunks
// produced by the completion service. Recv returns io.EOF after the final
// chunk has been delivered.
type CompletionStream interface {
	Recv() (string, error)

	// Close releases the underlying connection. Safe to call after EOF.
	Close() error
}

// Completer is the text-completion collaborator. The returned stream must be
// fully drained (or closed) by the caller; classification is not usable
// until the stream completes or errors.
type Completer interface {
	Complete(ctx context.Context, prompt string, temperature float64) (CompletionStream, error)
}
