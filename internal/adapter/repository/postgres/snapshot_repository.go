package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
)

const snapshotsTable = "snapshots"

// SnapshotRepository implements domain.SnapshotStore on a single key/value
// table. Each row holds the full JSON snapshot of one collection; Put is an
// upsert keyed on the logical key.
type SnapshotRepository struct {
	db     *sql.DB
	prefix string
	logger *slog.Logger
}

// NewSnapshotRepository creates a PostgreSQL-backed snapshot store.
func NewSnapshotRepository(db *sql.DB, prefix string, logger *slog.Logger) *SnapshotRepository {
	return &SnapshotRepository{
		db:     db,
		prefix: prefix,
		logger: logger.With("component", "postgres_snapshot_repository"),
	}
}

// EnsureSchema creates the snapshots table if it does not exist.
func (r *SnapshotRepository) EnsureSchema(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS `+snapshotsTable+` (
			key        TEXT PRIMARY KEY,
			payload    JSONB NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);`)
	if err != nil {
		return fmt.Errorf("failed to create snapshots table: %w", err)
	}
	return nil
}

func (r *SnapshotRepository) key(logical string) string {
	if r.prefix == "" {
		return logical
	}
	return r.prefix + ":" + logical
}

// Get returns the snapshot stored under key; a missing row is not an error.
func (r *SnapshotRepository) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var payload []byte
	err := r.db.QueryRowContext(ctx,
		`SELECT payload FROM `+snapshotsTable+` WHERE key = $1`, r.key(key),
	).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("select snapshot %q: %w", r.key(key), err)
	}
	return payload, true, nil
}

// Put overwrites the snapshot under key.
func (r *SnapshotRepository) Put(ctx context.Context, key string, payload []byte) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO `+snapshotsTable+` (key, payload, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE SET
			payload = EXCLUDED.payload,
			updated_at = EXCLUDED.updated_at;`,
		r.key(key), payload,
	)
	if err != nil {
		return fmt.Errorf("upsert snapshot %q: %w", r.key(key), err)
	}
	return nil
}
