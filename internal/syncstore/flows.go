package syncstore

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/vbonduro/folio/internal/domain"
	"github.com/vbonduro/folio/internal/gateway"
)

// Creates go to the gateway first and only touch local state on success.
// Edits and deletes are applied locally first. Any failed call is followed by
// a re-fetch of the affected target, and the failure is then left in Error.

// ItemDraft describes the item created by UploadItem. An empty Title falls
// back to the uploaded file name without its extension.
type ItemDraft struct {
	Type        domain.MediaType
	Title       string
	Description string
	SectionID   string
}

func (s *Store) CreatePortfolio(ctx context.Context, in gateway.PortfolioInput) (*domain.Portfolio, error) {
	if err := domain.ValidateTitle(in.Title); err != nil {
		return nil, err
	}
	p, err := s.gw.CreatePortfolio(ctx, in)
	if err != nil {
		return nil, s.fail(ctx, "create portfolio", err, s.LoadAllFromSource)
	}
	s.update(ctx, func(st *State) bool {
		addPortfolioLocked(st, p)
		st.Error = ""
		return true
	})
	s.logger.Info("created portfolio", "portfolio_id", p.ID)
	return p.Clone(), nil
}

// SavePortfolio updates the title and description of id.
func (s *Store) SavePortfolio(ctx context.Context, id string, in gateway.PortfolioInput) error {
	if err := domain.ValidateTitle(in.Title); err != nil {
		return err
	}
	s.update(ctx, func(st *State) bool {
		return updatePortfolioLocked(st, id, PortfolioPatch{Title: &in.Title, Description: &in.Description})
	})

	saved, err := s.gw.UpdatePortfolio(ctx, id, in)
	if err != nil {
		return s.fail(ctx, "update portfolio", err, s.refresher(id))
	}
	s.update(ctx, func(st *State) bool {
		return withPortfolioLocked(st, id, func(p *domain.Portfolio) {
			p.Title = saved.Title
			p.Description = saved.Description
			p.UpdatedAt = saved.UpdatedAt
		})
	})
	return nil
}

// RemovePortfolio deletes id locally, then remotely. A portfolio that is
// already gone server side counts as deleted.
func (s *Store) RemovePortfolio(ctx context.Context, id string) error {
	s.DeletePortfolio(id)
	err := s.gw.DeletePortfolio(ctx, id)
	if err != nil && !gateway.IsNotFound(err) {
		return s.fail(ctx, "delete portfolio", err, s.LoadAllFromSource)
	}
	s.logger.Info("deleted portfolio", "portfolio_id", id)
	return nil
}

func (s *Store) CreateSection(ctx context.Context, in gateway.SectionInput) (*domain.Section, error) {
	if err := domain.ValidateTitle(in.Title); err != nil {
		return nil, err
	}
	pid, err := s.currentID()
	if err != nil {
		return nil, err
	}
	sec, err := s.gw.CreateSection(ctx, pid, in)
	if err != nil {
		return nil, s.fail(ctx, "create section", err, s.refresher(pid))
	}
	s.update(ctx, func(st *State) bool {
		return withPortfolioLocked(st, pid, func(p *domain.Portfolio) { putSection(p, *sec) })
	})
	return sec, nil
}

func (s *Store) SaveSection(ctx context.Context, id string, in gateway.SectionInput) error {
	if err := domain.ValidateTitle(in.Title); err != nil {
		return err
	}
	pid, err := s.currentID()
	if err != nil {
		return err
	}
	patch := SectionPatch{Title: &in.Title, Description: &in.Description, Order: &in.Order}
	s.update(ctx, func(st *State) bool {
		return withPortfolioLocked(st, pid, func(p *domain.Portfolio) { patchSection(p, id, patch) })
	})

	sec, err := s.gw.UpdateSection(ctx, pid, id, in)
	if err != nil {
		return s.fail(ctx, "update section", err, s.refresher(pid))
	}
	s.update(ctx, func(st *State) bool {
		return withPortfolioLocked(st, pid, func(p *domain.Portfolio) { putSection(p, *sec) })
	})
	return nil
}

// RemoveSection deletes the section only. Its items stay in place and are
// grouped as Unsorted.
func (s *Store) RemoveSection(ctx context.Context, id string) error {
	pid, err := s.currentID()
	if err != nil {
		return err
	}
	s.update(ctx, func(st *State) bool {
		return withPortfolioLocked(st, pid, func(p *domain.Portfolio) { removeSection(p, id) })
	})
	err = s.gw.DeleteSection(ctx, pid, id)
	if err != nil && !gateway.IsNotFound(err) {
		return s.fail(ctx, "delete section", err, s.refresher(pid))
	}
	return nil
}

// CreateItem creates an item for a file that has already been uploaded and
// adds it to the current portfolio.
func (s *Store) CreateItem(ctx context.Context, in gateway.ItemInput) (*domain.Item, error) {
	if err := validateItem(in.Type, in.Title); err != nil {
		return nil, err
	}
	pid, err := s.currentID()
	if err != nil {
		return nil, err
	}
	return s.createItem(ctx, pid, in)
}

func (s *Store) createItem(ctx context.Context, pid string, in gateway.ItemInput) (*domain.Item, error) {
	it, err := s.gw.CreateItem(ctx, pid, in)
	if err != nil {
		return nil, s.fail(ctx, "create item", err, s.refresher(pid))
	}
	s.update(ctx, func(st *State) bool {
		return withPortfolioLocked(st, pid, func(p *domain.Portfolio) { putItem(p, *it) })
	})
	out := it.Clone()
	return &out, nil
}

// UploadItem uploads f and creates an item referencing it, placed after the
// last item of the draft's section.
func (s *Store) UploadItem(ctx context.Context, f gateway.Upload, d ItemDraft) (*domain.Item, error) {
	title := d.Title
	if strings.TrimSpace(title) == "" {
		title = strings.TrimSuffix(filepath.Base(f.Name), filepath.Ext(f.Name))
	}
	if err := validateItem(d.Type, title); err != nil {
		return nil, err
	}
	if err := gateway.CheckUpload(f, d.Type); err != nil {
		return nil, err
	}

	s.mu.Lock()
	cur := s.state.Current
	if cur == nil {
		s.mu.Unlock()
		return nil, ErrNoCurrentPortfolio
	}
	pid := cur.ID
	order := domain.NextOrder(cur, d.SectionID)
	s.mu.Unlock()

	up, err := s.gw.UploadFile(ctx, f, d.Type)
	if err != nil {
		s.logger.Error("failed to upload file", "name", f.Name, "error", err)
		s.setError(ctx, userMessage("upload file", err))
		return nil, fmt.Errorf("failed to upload file: %w", err)
	}

	return s.createItem(ctx, pid, gateway.ItemInput{
		Type:         d.Type,
		Filename:     up.Filename,
		OriginalName: up.OriginalName,
		URL:          up.URL,
		ThumbnailURL: up.ThumbnailURL,
		Title:        title,
		Description:  d.Description,
		Metadata:     up.Metadata,
		SectionID:    d.SectionID,
		Order:        order,
	})
}

// EditItem applies patch locally, sends it and keeps the server's copy of
// the item.
func (s *Store) EditItem(ctx context.Context, id string, patch gateway.ItemPatch) error {
	if patch.Empty() {
		return nil
	}
	if patch.Title != nil {
		if err := domain.ValidateTitle(*patch.Title); err != nil {
			return err
		}
	}
	pid, err := s.currentID()
	if err != nil {
		return err
	}
	s.update(ctx, func(st *State) bool {
		return withPortfolioLocked(st, pid, func(p *domain.Portfolio) { patchItem(p, id, patch) })
	})

	it, err := s.gw.UpdateItem(ctx, pid, id, patch)
	if err != nil {
		return s.fail(ctx, "update item", err, s.refresher(pid))
	}
	s.update(ctx, func(st *State) bool {
		return withPortfolioLocked(st, pid, func(p *domain.Portfolio) {
			// don't resurrect an item deleted while the patch was in flight
			if p.ItemIndex(id) >= 0 {
				putItem(p, *it)
			}
		})
	})
	return nil
}

// MoveItem places an item in sectionID at order. Section and order change in
// one transition and travel in one request. An empty sectionID moves the item
// to Unsorted.
func (s *Store) MoveItem(ctx context.Context, id, sectionID string, order int) error {
	if sectionID != "" {
		cur := s.Current()
		if cur != nil && !cur.HasSection(sectionID) {
			return &domain.ValidationFailed{Field: "section_id", Message: "does not exist"}
		}
	}
	return s.EditItem(ctx, id, movePatch(sectionID, order))
}

func (s *Store) RemoveItem(ctx context.Context, id string) error {
	pid, err := s.currentID()
	if err != nil {
		return err
	}
	s.update(ctx, func(st *State) bool {
		return withPortfolioLocked(st, pid, func(p *domain.Portfolio) { removeItem(p, id) })
	})
	err = s.gw.DeleteItem(ctx, pid, id)
	if err != nil && !gateway.IsNotFound(err) {
		return s.fail(ctx, "delete item", err, s.refresher(pid))
	}
	return nil
}

func validateItem(t domain.MediaType, title string) error {
	if err := domain.ValidateMediaType(t); err != nil {
		return err
	}
	return domain.ValidateTitle(title)
}

func (s *Store) currentID() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.Current == nil {
		return "", ErrNoCurrentPortfolio
	}
	return s.state.Current.ID, nil
}

func (s *Store) refresher(id string) func(context.Context) error {
	return func(ctx context.Context) error { return s.refreshPortfolio(ctx, id) }
}

// fail resynchronizes through resync and then records err in Error, so a
// successful resync does not hide the failure.
func (s *Store) fail(ctx context.Context, op string, err error, resync func(context.Context) error) error {
	s.logger.Error("failed to "+op, "error", err)
	ctx = context.WithoutCancel(ctx)
	if rerr := resync(ctx); rerr != nil && !errors.Is(rerr, gateway.ErrNotFound) {
		s.logger.Error("failed to resync", "op", op, "error", rerr)
	}
	s.setError(ctx, userMessage(op, err))
	return fmt.Errorf("failed to %s: %w", op, err)
}

func (s *Store) setError(ctx context.Context, msg string) {
	s.mu.Lock()
	s.state.Error = msg
	c := s.commitLocked(false)
	s.mu.Unlock()
	s.publish(ctx, c)
}
