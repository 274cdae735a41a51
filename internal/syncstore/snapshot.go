package syncstore

import (
	"context"
	"fmt"
	"time"

	"github.com/vbonduro/folio/internal/domain"
)

// Snapshot is the locally persisted copy of the store's entities.
type Snapshot struct {
	Current    *domain.Portfolio  `msgpack:"current"`
	Portfolios []domain.Portfolio `msgpack:"portfolios"`
	SavedAt    time.Time          `msgpack:"saved_at"`
}

// SnapshotTier is the advisory local cache under the store. Load returns
// nil, nil when nothing has been saved yet.
type SnapshotTier interface {
	Load(ctx context.Context) (*Snapshot, error)
	Save(ctx context.Context, snap Snapshot) error
}

// Restore pre-populates the store from the snapshot tier. It is meant to be
// called once at startup and is ignored if a load from the gateway has
// already succeeded.
func (s *Store) Restore(ctx context.Context) error {
	if s.snap == nil {
		return nil
	}
	snap, err := s.snap.Load(ctx)
	if err != nil {
		s.logger.Warn("failed to load snapshot", "error", err)
		return fmt.Errorf("failed to load snapshot: %w", err)
	}
	if snap == nil {
		return nil
	}

	s.mu.Lock()
	if s.synced {
		s.mu.Unlock()
		s.logger.Debug("ignoring snapshot, store already synced")
		return nil
	}
	s.state.Portfolios = snap.Portfolios
	s.state.Current = snap.Current.Clone()
	c := s.commitLocked(false)
	s.mu.Unlock()
	s.publish(ctx, c)

	s.logger.Info("restored snapshot", "portfolios", len(snap.Portfolios), "saved_at", snap.SavedAt)
	return nil
}

// saveSnapshot writes c to the snapshot tier unless a newer version has been
// written already. Failures are logged only.
func (s *Store) saveSnapshot(ctx context.Context, c change) {
	if s.snap == nil {
		return
	}
	s.saveMu.Lock()
	defer s.saveMu.Unlock()
	if c.version <= s.savedVersion {
		return
	}
	snap := Snapshot{
		Current:    c.state.Current,
		Portfolios: c.state.Portfolios,
		SavedAt:    s.now().UTC(),
	}
	if err := s.snap.Save(ctx, snap); err != nil {
		s.logger.Warn("failed to save snapshot", "version", c.version, "error", err)
		return
	}
	s.savedVersion = c.version
}
