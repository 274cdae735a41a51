package domain

// Entities are the same iff their ids match, regardless of attribute
// differences. All merge and replace logic relies on this.

func (p Portfolio) SameEntity(o Portfolio) bool { return p.ID == o.ID }
func (s Section) SameEntity(o Section) bool     { return s.ID == o.ID }
func (i Item) SameEntity(o Item) bool           { return i.ID == o.ID }

// Clone returns a deep copy of p. Nil slices stay nil.
func (p *Portfolio) Clone() *Portfolio {
	if p == nil {
		return nil
	}
	c := *p
	if p.Sections != nil {
		c.Sections = make([]Section, len(p.Sections))
		copy(c.Sections, p.Sections)
	}
	if p.Items != nil {
		c.Items = make([]Item, len(p.Items))
		for i := range p.Items {
			c.Items[i] = p.Items[i].Clone()
		}
	}
	return &c
}

// Clone returns a copy of it that shares no pointers with the original.
func (it Item) Clone() Item {
	c := it
	if it.Metadata.Dimensions != nil {
		d := *it.Metadata.Dimensions
		c.Metadata.Dimensions = &d
	}
	if it.Metadata.Duration != nil {
		d := *it.Metadata.Duration
		c.Metadata.Duration = &d
	}
	return c
}

func (p *Portfolio) SectionIndex(id string) int {
	for i := range p.Sections {
		if p.Sections[i].ID == id {
			return i
		}
	}
	return -1
}

func (p *Portfolio) ItemIndex(id string) int {
	for i := range p.Items {
		if p.Items[i].ID == id {
			return i
		}
	}
	return -1
}

// HasSection reports whether id resolves to an existing section of p.
func (p *Portfolio) HasSection(id string) bool {
	return id != "" && p.SectionIndex(id) >= 0
}

// PortfolioIndex returns the position of the portfolio with id in ps, or -1.
func PortfolioIndex(ps []Portfolio, id string) int {
	for i := range ps {
		if ps[i].ID == id {
			return i
		}
	}
	return -1
}
