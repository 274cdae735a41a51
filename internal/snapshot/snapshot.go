// Package snapshot is the local snapshot tier of the sync store. It keeps a
// single msgpack-encoded copy of the store's entities in SQLite.
package snapshot

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/vbonduro/folio/internal/db"
	"github.com/vbonduro/folio/internal/syncstore"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Tier implements syncstore.SnapshotTier.
type Tier struct {
	db *sql.DB
}

var _ syncstore.SnapshotTier = (*Tier)(nil)

func Open(path string) (*Tier, error) {
	d, err := db.OpenWithMigrations(path, migrationsFS)
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot database: %w", err)
	}
	return &Tier{db: d}, nil
}

func OpenInMemory() (*Tier, error) {
	d, err := db.OpenInMemory(migrationsFS)
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot database: %w", err)
	}
	return &Tier{db: d}, nil
}

func (t *Tier) Close() error {
	return t.db.Close()
}

// Load returns the saved snapshot, or nil if none has been saved.
func (t *Tier) Load(ctx context.Context) (*syncstore.Snapshot, error) {
	var payload []byte
	err := t.db.QueryRowContext(ctx, `SELECT payload FROM snapshots WHERE id = 1`).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}

	var snap syncstore.Snapshot
	if err := msgpack.Unmarshal(payload, &snap); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	return &snap, nil
}

// Save replaces the stored snapshot.
func (t *Tier) Save(ctx context.Context, snap syncstore.Snapshot) error {
	payload, err := msgpack.Marshal(&snap)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	savedAt := snap.SavedAt
	if savedAt.IsZero() {
		savedAt = time.Now().UTC()
	}

	_, err = t.db.ExecContext(ctx, `
		INSERT INTO snapshots (id, payload, saved_at) VALUES (1, ?, ?)
		ON CONFLICT(id) DO UPDATE SET payload = excluded.payload, saved_at = excluded.saved_at
	`, payload, savedAt)
	if err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}
	return nil
}

// Clear removes the stored snapshot.
func (t *Tier) Clear(ctx context.Context) error {
	if _, err := t.db.ExecContext(ctx, `DELETE FROM snapshots`); err != nil {
		return fmt.Errorf("failed to clear snapshot: %w", err)
	}
	return nil
}
