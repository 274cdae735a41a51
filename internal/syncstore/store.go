// Package syncstore holds the canonical client side copy of the portfolios
// and keeps it consistent with the remote gateway.
//
// Local transitions (SetCurrentPortfolio, AddItem, ReorderItem, ...) only
// touch memory. Flows (CreateSection, UploadItem, RemoveItem, ...) combine a
// local transition with a gateway call and fall back to re-fetching from the
// gateway whenever the call fails, instead of hand-reverting the local change.
//
// Whenever Current changes, the entry with the same id in Portfolios is
// replaced with a copy of it in the same transition, so the two never diverge.
package syncstore

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/vbonduro/folio/internal/domain"
	"github.com/vbonduro/folio/internal/gateway"
)

// State is a point-in-time copy of the store. Callers own the copy.
type State struct {
	Current    *domain.Portfolio
	Portfolios []domain.Portfolio
	IsLoading  bool
	Error      string
}

func (s State) clone() State {
	out := State{
		Current:   s.Current.Clone(),
		IsLoading: s.IsLoading,
		Error:     s.Error,
	}
	if s.Portfolios != nil {
		out.Portfolios = make([]domain.Portfolio, len(s.Portfolios))
		for i := range s.Portfolios {
			out.Portfolios[i] = *s.Portfolios[i].Clone()
		}
	}
	return out
}

type Store struct {
	gw     gateway.Gateway
	logger *slog.Logger
	snap   SnapshotTier
	now    func() time.Time

	mu         sync.Mutex
	state      State
	version    uint64
	loading    int
	synced     bool
	loadSeq    uint64
	refreshSeq map[string]uint64
	subs       map[int]func(State)
	nextSub    int

	saveMu       sync.Mutex
	savedVersion uint64
}

type Option func(*Store)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) { s.logger = logger }
}

// WithSnapshot layers a local snapshot tier under the store. It is written
// after every transition and read once by Restore.
func WithSnapshot(tier SnapshotTier) Option {
	return func(s *Store) { s.snap = tier }
}

func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func New(gw gateway.Gateway, opts ...Option) *Store {
	s := &Store{
		gw:         gw,
		logger:     slog.Default(),
		now:        time.Now,
		refreshSeq: make(map[string]uint64),
		subs:       make(map[int]func(State)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// State returns a deep copy of the current state.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.clone()
}

// Current returns a copy of the current portfolio, or nil.
func (s *Store) Current() *domain.Portfolio {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Current.Clone()
}

// Subscribe registers fn to be called with a copy of the state after every
// transition. fn runs on the goroutine that made the transition and must not
// call back into blocking store flows.
func (s *Store) Subscribe(fn func(State)) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
}

// change is the result of a transition, captured under the lock and published
// after it is released.
type change struct {
	state   State
	version uint64
	subs    []func(State)
	persist bool
}

// commitLocked bumps the version and captures what publish needs. s.mu must
// be held.
func (s *Store) commitLocked(persist bool) change {
	s.version++
	subs := make([]func(State), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	return change{state: s.state.clone(), version: s.version, subs: subs, persist: persist}
}

func (s *Store) publish(ctx context.Context, c change) {
	for _, fn := range c.subs {
		fn(c.state.clone())
	}
	if c.persist {
		s.saveSnapshot(ctx, c)
	}
}

// update runs fn under the lock and publishes if it reports a change.
func (s *Store) update(ctx context.Context, fn func(st *State) bool) bool {
	s.mu.Lock()
	if !fn(&s.state) {
		s.mu.Unlock()
		return false
	}
	c := s.commitLocked(true)
	s.mu.Unlock()
	s.publish(ctx, c)
	return true
}

// mirrorLocked copies Current over its entry in Portfolios.
func mirrorLocked(st *State) {
	if st.Current == nil {
		return
	}
	if i := domain.PortfolioIndex(st.Portfolios, st.Current.ID); i >= 0 {
		st.Portfolios[i] = *st.Current.Clone()
	}
}

// withPortfolioLocked applies fn to the portfolio with id wherever it lives:
// Current (then mirrored) or the entry in Portfolios. It reports false if the
// portfolio is not held locally.
func withPortfolioLocked(st *State, id string, fn func(p *domain.Portfolio)) bool {
	if st.Current != nil && st.Current.ID == id {
		fn(st.Current)
		mirrorLocked(st)
		return true
	}
	if i := domain.PortfolioIndex(st.Portfolios, id); i >= 0 {
		fn(&st.Portfolios[i])
		return true
	}
	return false
}
