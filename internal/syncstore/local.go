package syncstore

import (
	"context"

	"github.com/vbonduro/folio/internal/domain"
	"github.com/vbonduro/folio/internal/gateway"
)

// PortfolioPatch is a partial portfolio update. Nil fields are left unchanged.
type PortfolioPatch struct {
	Title       *string
	Description *string
}

func (p PortfolioPatch) apply(dst *domain.Portfolio) {
	if p.Title != nil {
		dst.Title = *p.Title
	}
	if p.Description != nil {
		dst.Description = *p.Description
	}
}

// SectionPatch is a partial section update. Nil fields are left unchanged.
type SectionPatch struct {
	Title       *string
	Description *string
	Order       *int
}

func (p SectionPatch) apply(dst *domain.Section) {
	if p.Title != nil {
		dst.Title = *p.Title
	}
	if p.Description != nil {
		dst.Description = *p.Description
	}
	if p.Order != nil {
		dst.Order = *p.Order
	}
}

// SetCurrentPortfolio replaces Current. A nil p clears the selection.
func (s *Store) SetCurrentPortfolio(p *domain.Portfolio) {
	s.update(context.Background(), func(st *State) bool {
		st.Current = p.Clone()
		return true
	})
}

// SelectPortfolio makes the local copy of id current.
func (s *Store) SelectPortfolio(id string) bool {
	return s.update(context.Background(), func(st *State) bool {
		i := domain.PortfolioIndex(st.Portfolios, id)
		if i < 0 {
			return false
		}
		st.Current = st.Portfolios[i].Clone()
		return true
	})
}

// AddPortfolio appends an already persisted portfolio and makes it current.
// A portfolio with the same id is replaced in place.
func (s *Store) AddPortfolio(p *domain.Portfolio) {
	if p == nil {
		return
	}
	s.update(context.Background(), func(st *State) bool {
		addPortfolioLocked(st, p)
		return true
	})
}

func addPortfolioLocked(st *State, p *domain.Portfolio) {
	if i := domain.PortfolioIndex(st.Portfolios, p.ID); i >= 0 {
		st.Portfolios[i] = *p.Clone()
	} else {
		st.Portfolios = append(st.Portfolios, *p.Clone())
	}
	st.Current = p.Clone()
}

// UpdatePortfolio merges patch into the portfolio with id, in both Portfolios
// and Current. It is a no-op if id is not held locally.
func (s *Store) UpdatePortfolio(id string, patch PortfolioPatch) bool {
	return s.update(context.Background(), func(st *State) bool {
		return updatePortfolioLocked(st, id, patch)
	})
}

func updatePortfolioLocked(st *State, id string, patch PortfolioPatch) bool {
	found := false
	if i := domain.PortfolioIndex(st.Portfolios, id); i >= 0 {
		patch.apply(&st.Portfolios[i])
		found = true
	}
	if st.Current != nil && st.Current.ID == id {
		patch.apply(st.Current)
		found = true
	}
	return found
}

// DeletePortfolio removes id and clears Current if it was the deleted one.
// Deleting an absent id is a no-op.
func (s *Store) DeletePortfolio(id string) bool {
	return s.update(context.Background(), func(st *State) bool {
		return deletePortfolioLocked(st, id)
	})
}

func deletePortfolioLocked(st *State, id string) bool {
	found := false
	if i := domain.PortfolioIndex(st.Portfolios, id); i >= 0 {
		st.Portfolios = append(st.Portfolios[:i:i], st.Portfolios[i+1:]...)
		found = true
	}
	if st.Current != nil && st.Current.ID == id {
		st.Current = nil
		found = true
	}
	return found
}

// currentLocked applies fn to Current and mirrors the result. It reports
// false, and leaves the state untouched, when there is no current portfolio
// or fn reports no change.
func currentLocked(st *State, fn func(p *domain.Portfolio) bool) bool {
	if st.Current == nil {
		return false
	}
	if !fn(st.Current) {
		return false
	}
	mirrorLocked(st)
	return true
}

// AddSection appends sec to Current's sections, replacing a section with the
// same id.
func (s *Store) AddSection(sec domain.Section) bool {
	return s.update(context.Background(), func(st *State) bool {
		return currentLocked(st, func(p *domain.Portfolio) bool {
			putSection(p, sec)
			return true
		})
	})
}

func (s *Store) UpdateSection(id string, patch SectionPatch) bool {
	return s.update(context.Background(), func(st *State) bool {
		return currentLocked(st, func(p *domain.Portfolio) bool {
			return patchSection(p, id, patch)
		})
	})
}

// DeleteSection removes the section only. Items keep their SectionID and
// display as Unsorted until the server clears it.
func (s *Store) DeleteSection(id string) bool {
	return s.update(context.Background(), func(st *State) bool {
		return currentLocked(st, func(p *domain.Portfolio) bool {
			return removeSection(p, id)
		})
	})
}

// AddItem appends it to Current's items, replacing an item with the same id.
func (s *Store) AddItem(it domain.Item) bool {
	return s.update(context.Background(), func(st *State) bool {
		return currentLocked(st, func(p *domain.Portfolio) bool {
			putItem(p, it)
			return true
		})
	})
}

func (s *Store) UpdateItem(id string, patch gateway.ItemPatch) bool {
	return s.update(context.Background(), func(st *State) bool {
		return currentLocked(st, func(p *domain.Portfolio) bool {
			return patchItem(p, id, patch)
		})
	})
}

func (s *Store) DeleteItem(id string) bool {
	return s.update(context.Background(), func(st *State) bool {
		return currentLocked(st, func(p *domain.Portfolio) bool {
			return removeItem(p, id)
		})
	})
}

// ReorderItem moves an item to sectionID at order in a single transition.
// An empty sectionID moves it to Unsorted.
func (s *Store) ReorderItem(id, sectionID string, order int) bool {
	return s.UpdateItem(id, movePatch(sectionID, order))
}

func movePatch(sectionID string, order int) gateway.ItemPatch {
	return gateway.ItemPatch{Order: &order, Section: gateway.AssignSection(sectionID)}
}

func putSection(p *domain.Portfolio, sec domain.Section) {
	if i := p.SectionIndex(sec.ID); i >= 0 {
		p.Sections[i] = sec
		return
	}
	p.Sections = append(p.Sections, sec)
}

func patchSection(p *domain.Portfolio, id string, patch SectionPatch) bool {
	i := p.SectionIndex(id)
	if i < 0 {
		return false
	}
	patch.apply(&p.Sections[i])
	return true
}

func removeSection(p *domain.Portfolio, id string) bool {
	i := p.SectionIndex(id)
	if i < 0 {
		return false
	}
	p.Sections = append(p.Sections[:i:i], p.Sections[i+1:]...)
	return true
}

func putItem(p *domain.Portfolio, it domain.Item) {
	it = it.Clone()
	if i := p.ItemIndex(it.ID); i >= 0 {
		p.Items[i] = it
		return
	}
	p.Items = append(p.Items, it)
}

func patchItem(p *domain.Portfolio, id string, patch gateway.ItemPatch) bool {
	i := p.ItemIndex(id)
	if i < 0 {
		return false
	}
	patch.Apply(&p.Items[i])
	return true
}

func removeItem(p *domain.Portfolio, id string) bool {
	i := p.ItemIndex(id)
	if i < 0 {
		return false
	}
	p.Items = append(p.Items[:i:i], p.Items[i+1:]...)
	return true
}
