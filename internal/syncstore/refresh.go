package syncstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/vbonduro/folio/internal/domain"
	"github.com/vbonduro/folio/internal/gateway"
)

// LoadAllFromSource replaces Portfolios wholesale with the authoritative set.
// A previously current portfolio is replaced by its fresh copy, or cleared if
// the server no longer has it; another portfolio is never picked instead.
// On failure Error is set and the previous Portfolios and Current are kept.
//
// A response is discarded if a newer LoadAllFromSource was issued meanwhile.
// Issuing a load also invalidates every single-portfolio refresh still in
// flight, since those were issued before it.
func (s *Store) LoadAllFromSource(ctx context.Context) error {
	s.mu.Lock()
	s.loadSeq++
	token := s.loadSeq
	for id := range s.refreshSeq {
		s.refreshSeq[id]++
	}
	s.loading++
	s.state.IsLoading = true
	c := s.commitLocked(false)
	s.mu.Unlock()
	s.publish(ctx, c)

	fresh, err := s.fetchAll(ctx)

	s.mu.Lock()
	s.loading--
	s.state.IsLoading = s.loading > 0
	stale := token != s.loadSeq
	switch {
	case stale:
		s.logger.Debug("discarding stale portfolio load", "token", token, "latest", s.loadSeq)
	case err != nil:
		s.state.Error = userMessage("load portfolios", err)
	default:
		s.reconcileAllLocked(fresh)
		s.synced = true
		s.state.Error = ""
	}
	c = s.commitLocked(!stale && err == nil)
	s.mu.Unlock()
	s.publish(context.WithoutCancel(ctx), c)

	if err != nil && !stale {
		s.logger.Error("failed to load portfolios", "error", err)
		return err
	}
	return nil
}

func (s *Store) fetchAll(ctx context.Context) ([]domain.Portfolio, error) {
	summaries, err := s.gw.ListPortfolios(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list portfolios: %w", err)
	}
	out := make([]domain.Portfolio, 0, len(summaries))
	for _, sum := range summaries {
		p, err := s.gw.GetPortfolio(ctx, sum.ID)
		if errors.Is(err, gateway.ErrNotFound) {
			// deleted between list and get
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to get portfolio %s: %w", sum.ID, err)
		}
		out = append(out, *p)
	}
	return out, nil
}

func (s *Store) reconcileAllLocked(fresh []domain.Portfolio) {
	st := &s.state
	st.Portfolios = fresh
	if st.Current == nil {
		return
	}
	if i := domain.PortfolioIndex(fresh, st.Current.ID); i >= 0 {
		st.Current = fresh[i].Clone()
		return
	}
	s.logger.Info("current portfolio no longer exists", "portfolio_id", st.Current.ID)
	st.Current = nil
}

// RefreshCurrent re-fetches the current portfolio and replaces both Current
// and its entry in Portfolios. It is a no-op without a current portfolio.
func (s *Store) RefreshCurrent(ctx context.Context) error {
	s.mu.Lock()
	if s.state.Current == nil {
		s.mu.Unlock()
		return nil
	}
	id := s.state.Current.ID
	s.mu.Unlock()
	return s.refreshPortfolio(ctx, id)
}

// refreshPortfolio re-fetches one portfolio. Responses are tagged per id and
// dropped if a newer refresh of the same id, or any LoadAllFromSource, was
// issued meanwhile. If the
// server no longer has the portfolio it is dropped locally.
func (s *Store) refreshPortfolio(ctx context.Context, id string) error {
	s.mu.Lock()
	s.refreshSeq[id]++
	token := s.refreshSeq[id]
	s.mu.Unlock()

	fresh, err := s.gw.GetPortfolio(ctx, id)

	s.mu.Lock()
	if token != s.refreshSeq[id] {
		s.mu.Unlock()
		s.logger.Debug("discarding stale portfolio refresh", "portfolio_id", id, "token", token)
		return nil
	}
	switch {
	case errors.Is(err, gateway.ErrNotFound):
		deletePortfolioLocked(&s.state, id)
		s.state.Error = userMessage("refresh portfolio", err)
	case err != nil:
		s.state.Error = userMessage("refresh portfolio", err)
	default:
		s.replacePortfolioLocked(fresh)
		s.state.Error = ""
	}
	c := s.commitLocked(err == nil || errors.Is(err, gateway.ErrNotFound))
	s.mu.Unlock()
	s.publish(context.WithoutCancel(ctx), c)

	if err != nil {
		s.logger.Error("failed to refresh portfolio", "portfolio_id", id, "error", err)
		return fmt.Errorf("failed to refresh portfolio %s: %w", id, err)
	}
	return nil
}

// replacePortfolioLocked swaps in an authoritative copy of p. A portfolio that
// was removed locally in the meantime is not resurrected.
func (s *Store) replacePortfolioLocked(p *domain.Portfolio) {
	st := &s.state
	if i := domain.PortfolioIndex(st.Portfolios, p.ID); i >= 0 {
		st.Portfolios[i] = *p.Clone()
	}
	if st.Current != nil && st.Current.ID == p.ID {
		st.Current = p.Clone()
	}
}
