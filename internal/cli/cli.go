// Package cli implements the folio command line client. Every command runs
// against a freshly loaded sync store: the local snapshot is restored first,
// then the store is reloaded from the backend.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/subcommands"

	"github.com/vbonduro/folio/internal/config"
	"github.com/vbonduro/folio/internal/domain"
	"github.com/vbonduro/folio/internal/gateway/httpgw"
	"github.com/vbonduro/folio/internal/snapshot"
	"github.com/vbonduro/folio/internal/syncstore"
)

// App carries what every command needs.
type App struct {
	Config *config.Config
	Logger *slog.Logger
	Out    io.Writer
	Err    io.Writer
}

// Register adds all commands to c.
func Register(c *subcommands.Commander, app *App) {
	c.Register(&lsCmd{app: app}, "browse")
	c.Register(&showCmd{app: app}, "browse")

	c.Register(&createCmd{app: app}, "edit")
	c.Register(&sectionCmd{app: app}, "edit")
	c.Register(&uploadCmd{app: app}, "edit")
	c.Register(&moveCmd{app: app}, "edit")
	c.Register(&rmCmd{app: app}, "edit")
}

type session struct {
	store *syncstore.Store
	tier  *snapshot.Tier
	// offline is set when the backend could not be reached and the state
	// comes from the snapshot only.
	offline bool
}

func (s *session) Close() error {
	if s.tier == nil {
		return nil
	}
	return s.tier.Close()
}

// open builds the store, restores the snapshot and syncs with the backend.
// A failed sync is reported but not fatal when allowOffline is set.
func (a *App) open(ctx context.Context, allowOffline bool) (*session, error) {
	var (
		tier *snapshot.Tier
		err  error
	)
	if a.Config.SnapshotPath == "" {
		tier, err = snapshot.OpenInMemory()
	} else {
		tier, err = snapshot.Open(a.Config.SnapshotPath)
	}
	if err != nil {
		return nil, err
	}

	gw := httpgw.New(a.Config.APIBaseURL, a.Config.APITimeout, a.Logger)
	s := &session{
		store: syncstore.New(gw, syncstore.WithLogger(a.Logger), syncstore.WithSnapshot(tier)),
		tier:  tier,
	}

	if err := s.store.Restore(ctx); err != nil {
		a.Logger.Warn("snapshot unavailable", "error", err)
	}
	if err := s.store.LoadAllFromSource(ctx); err != nil {
		if !allowOffline {
			_ = s.Close()
			return nil, err
		}
		s.offline = true
		_, _ = fmt.Fprintf(a.Err, "warning: %s, showing last snapshot\n", s.store.State().Error)
	}
	return s, nil
}

// openPortfolio opens a session with portfolio id selected.
func (a *App) openPortfolio(ctx context.Context, id string) (*session, error) {
	if id == "" {
		return nil, errors.New("a portfolio id is required (-p)")
	}
	s, err := a.open(ctx, false)
	if err != nil {
		return nil, err
	}
	if !s.store.SelectPortfolio(id) {
		_ = s.Close()
		return nil, fmt.Errorf("portfolio %s not found", id)
	}
	return s, nil
}

func (a *App) fail(err error) subcommands.ExitStatus {
	var vf *domain.ValidationFailed
	if errors.As(err, &vf) {
		_, _ = fmt.Fprintf(a.Err, "invalid input: %s\n", vf.Error())
		return subcommands.ExitUsageError
	}
	_, _ = fmt.Fprintf(a.Err, "error: %v\n", err)
	return subcommands.ExitFailure
}

func (a *App) closeSession(s *session) {
	if err := s.Close(); err != nil {
		a.Logger.Error("failed to close snapshot", "error", err)
	}
}
