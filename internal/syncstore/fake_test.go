package syncstore

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/vbonduro/folio/internal/domain"
	"github.com/vbonduro/folio/internal/gateway"
)

// fakeGateway is an in-memory gateway.Gateway behaving like the backend.
type fakeGateway struct {
	mu         sync.Mutex
	portfolios map[string]*domain.Portfolio
	order      []string
	seq        int
	gets       int

	// errs maps a method name to the error it returns.
	errs map[string]error
	// onGet runs after GetPortfolio has copied its result, outside the lock.
	onGet func(id string, call int)

	patches []gateway.ItemPatch
	uploads []gateway.Upload
	calls   []string
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{
		portfolios: make(map[string]*domain.Portfolio),
		errs:       make(map[string]error),
	}
}

func (f *fakeGateway) nextID(prefix string) string {
	f.seq++
	return fmt.Sprintf("%s%d", prefix, f.seq)
}

func (f *fakeGateway) failWith(method string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errs[method] = err
}

func (f *fakeGateway) called(method string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.calls {
		if c == method {
			return true
		}
	}
	return false
}

// enter records the call and returns the injected error, if any. f.mu must be held.
func (f *fakeGateway) enter(method string) error {
	f.calls = append(f.calls, method)
	return f.errs[method]
}

// seed stores p as if it had been created server side.
func (f *fakeGateway) seed(p domain.Portfolio) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.portfolios[p.ID]; !ok {
		f.order = append(f.order, p.ID)
	}
	f.portfolios[p.ID] = p.Clone()
}

func (f *fakeGateway) drop(id string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.portfolios, id)
}

func (f *fakeGateway) rename(id, title string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.portfolios[id].Title = title
}

func (f *fakeGateway) ListPortfolios(_ context.Context) ([]domain.PortfolioSummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("ListPortfolios"); err != nil {
		return nil, err
	}
	var out []domain.PortfolioSummary
	for _, id := range f.order {
		p, ok := f.portfolios[id]
		if !ok {
			continue
		}
		out = append(out, domain.PortfolioSummary{ID: p.ID, Title: p.Title, Description: p.Description, CreatedAt: p.CreatedAt})
	}
	return out, nil
}

func (f *fakeGateway) GetPortfolio(_ context.Context, id string) (*domain.Portfolio, error) {
	f.mu.Lock()
	if err := f.enter("GetPortfolio"); err != nil {
		f.mu.Unlock()
		return nil, err
	}
	f.gets++
	call := f.gets
	p, ok := f.portfolios[id]
	var out *domain.Portfolio
	if ok {
		out = p.Clone()
	}
	hook := f.onGet
	f.mu.Unlock()

	if hook != nil {
		hook(id, call)
	}
	if out == nil {
		return nil, fmt.Errorf("get portfolio %s: %w", id, gateway.ErrNotFound)
	}
	return out, nil
}

func (f *fakeGateway) CreatePortfolio(_ context.Context, in gateway.PortfolioInput) (*domain.Portfolio, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("CreatePortfolio"); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	p := &domain.Portfolio{ID: f.nextID("p"), Title: in.Title, Description: in.Description, CreatedAt: now, UpdatedAt: now}
	f.portfolios[p.ID] = p
	f.order = append(f.order, p.ID)
	return p.Clone(), nil
}

func (f *fakeGateway) UpdatePortfolio(_ context.Context, id string, in gateway.PortfolioInput) (*domain.Portfolio, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("UpdatePortfolio"); err != nil {
		return nil, err
	}
	p, ok := f.portfolios[id]
	if !ok {
		return nil, gateway.ErrNotFound
	}
	p.Title = in.Title
	p.Description = in.Description
	p.UpdatedAt = time.Now().UTC()
	return p.Clone(), nil
}

func (f *fakeGateway) DeletePortfolio(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("DeletePortfolio"); err != nil {
		return err
	}
	if _, ok := f.portfolios[id]; !ok {
		return gateway.ErrNotFound
	}
	delete(f.portfolios, id)
	return nil
}

func (f *fakeGateway) CreateSection(_ context.Context, pid string, in gateway.SectionInput) (*domain.Section, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("CreateSection"); err != nil {
		return nil, err
	}
	p, ok := f.portfolios[pid]
	if !ok {
		return nil, gateway.ErrNotFound
	}
	sec := domain.Section{ID: f.nextID("s"), Title: in.Title, Description: in.Description, Order: in.Order}
	p.Sections = append(p.Sections, sec)
	return &sec, nil
}

func (f *fakeGateway) UpdateSection(_ context.Context, pid, sid string, in gateway.SectionInput) (*domain.Section, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("UpdateSection"); err != nil {
		return nil, err
	}
	p, ok := f.portfolios[pid]
	if !ok || p.SectionIndex(sid) < 0 {
		return nil, gateway.ErrNotFound
	}
	i := p.SectionIndex(sid)
	p.Sections[i].Title = in.Title
	p.Sections[i].Description = in.Description
	p.Sections[i].Order = in.Order
	sec := p.Sections[i]
	return &sec, nil
}

// DeleteSection unassigns the section's items like the backend does.
func (f *fakeGateway) DeleteSection(_ context.Context, pid, sid string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("DeleteSection"); err != nil {
		return err
	}
	p, ok := f.portfolios[pid]
	if !ok || p.SectionIndex(sid) < 0 {
		return gateway.ErrNotFound
	}
	removeSection(p, sid)
	for i := range p.Items {
		if p.Items[i].SectionID == sid {
			p.Items[i].SectionID = ""
		}
	}
	return nil
}

func (f *fakeGateway) CreateItem(_ context.Context, pid string, in gateway.ItemInput) (*domain.Item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("CreateItem"); err != nil {
		return nil, err
	}
	p, ok := f.portfolios[pid]
	if !ok {
		return nil, gateway.ErrNotFound
	}
	it := domain.Item{
		ID:           f.nextID("i"),
		Type:         in.Type,
		Filename:     in.Filename,
		OriginalName: in.OriginalName,
		URL:          in.URL,
		Title:        in.Title,
		Description:  in.Description,
		Metadata:     in.Metadata,
		SectionID:    in.SectionID,
		Order:        in.Order,
	}
	p.Items = append(p.Items, it)
	return &it, nil
}

func (f *fakeGateway) UpdateItem(_ context.Context, pid, iid string, patch gateway.ItemPatch) (*domain.Item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("UpdateItem"); err != nil {
		return nil, err
	}
	f.patches = append(f.patches, patch)
	p, ok := f.portfolios[pid]
	if !ok || p.ItemIndex(iid) < 0 {
		return nil, gateway.ErrNotFound
	}
	i := p.ItemIndex(iid)
	patch.Apply(&p.Items[i])
	p.Items[i].UpdatedAt = time.Now().UTC()
	it := p.Items[i].Clone()
	return &it, nil
}

func (f *fakeGateway) DeleteItem(_ context.Context, pid, iid string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("DeleteItem"); err != nil {
		return err
	}
	p, ok := f.portfolios[pid]
	if !ok || !removeItem(p, iid) {
		return gateway.ErrNotFound
	}
	return nil
}

func (f *fakeGateway) UploadFile(_ context.Context, up gateway.Upload, _ domain.MediaType) (*gateway.UploadedFile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("UploadFile"); err != nil {
		return nil, err
	}
	f.uploads = append(f.uploads, up)
	name := f.nextID("f") + ".png"
	return &gateway.UploadedFile{
		Filename:     name,
		OriginalName: up.Name,
		URL:          "/uploads/" + name,
		Metadata:     domain.ItemMetadata{Size: int64(len(up.Data)), Format: "png"},
	}, nil
}

// memTier is an in-memory SnapshotTier.
type memTier struct {
	mu      sync.Mutex
	snap    *Snapshot
	saves   int
	saveErr error
}

func (m *memTier) Load(_ context.Context) (*Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.snap == nil {
		return nil, nil
	}
	cp := *m.snap
	return &cp, nil
}

func (m *memTier) Save(_ context.Context, snap Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.snap = &snap
	m.saves++
	return nil
}

func (m *memTier) last() *Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snap
}
