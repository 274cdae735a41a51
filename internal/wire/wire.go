// Package wire maps domain records to the backend's snake_case JSON payloads
// and back. The mapping is exact in both directions.
package wire

import (
	"time"

	"github.com/vbonduro/folio/internal/domain"
)

type Portfolio struct {
	ID          string     `json:"id"`
	LegacyID    string     `json:"_id,omitempty"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Sections    []Section  `json:"sections"`
	Items       []Item     `json:"items"`
	CreatedAt   *time.Time `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at"`
}

type PortfolioSummary struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	CreatedAt   *time.Time `json:"created_at"`
}

type Section struct {
	ID          string     `json:"id"`
	LegacyID    string     `json:"_id,omitempty"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Order       int        `json:"order"`
	CreatedAt   *time.Time `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at"`
}

type Item struct {
	ID              string     `json:"id"`
	LegacyID        string     `json:"_id,omitempty"`
	Type            string     `json:"type"`
	Filename        string     `json:"filename"`
	OriginalName    string     `json:"original_name"`
	URL             string     `json:"url"`
	ThumbnailURL    *string    `json:"thumbnail_url"`
	ThumbnailBase64 *string    `json:"thumbnail_base64"`
	Title           string     `json:"title"`
	Description     string     `json:"description"`
	Metadata        Metadata   `json:"metadata"`
	SectionID       *string    `json:"section_id"`
	Order           int        `json:"order"`
	CreatedAt       *time.Time `json:"created_at"`
	UpdatedAt       *time.Time `json:"updated_at"`
}

type Metadata struct {
	Size       int64       `json:"size"`
	Dimensions *Dimensions `json:"dimensions"`
	Duration   *int        `json:"duration"`
	Format     string      `json:"format"`
}

type Dimensions struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// UploadedFile is the response body of the upload endpoint.
type UploadedFile struct {
	Filename     string   `json:"filename"`
	OriginalName string   `json:"original_name"`
	URL          string   `json:"url"`
	ThumbnailURL *string  `json:"thumbnail_url"`
	Metadata     Metadata `json:"metadata"`
}

// ErrorBody is returned by the backend on any non-2xx response.
type ErrorBody struct {
	Error  string `json:"error,omitempty"`
	Detail string `json:"detail,omitempty"`
}

func (e ErrorBody) Message() string {
	if e.Error != "" {
		return e.Error
	}
	return e.Detail
}

func pickID(id, legacy string) string {
	if id != "" {
		return id
	}
	return legacy
}

func timePtr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	u := t.UTC()
	return &u
}

func timeVal(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return t.UTC()
}

func strPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func strVal(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func FromPortfolio(p *domain.Portfolio) Portfolio {
	out := Portfolio{
		ID:          p.ID,
		Title:       p.Title,
		Description: p.Description,
		Sections:    make([]Section, 0, len(p.Sections)),
		Items:       make([]Item, 0, len(p.Items)),
		CreatedAt:   timePtr(p.CreatedAt),
		UpdatedAt:   timePtr(p.UpdatedAt),
	}
	for i := range p.Sections {
		out.Sections = append(out.Sections, FromSection(&p.Sections[i]))
	}
	for i := range p.Items {
		out.Items = append(out.Items, FromItem(&p.Items[i]))
	}
	return out
}

func (w Portfolio) ToDomain() *domain.Portfolio {
	p := &domain.Portfolio{
		ID:          pickID(w.ID, w.LegacyID),
		Title:       w.Title,
		Description: w.Description,
		CreatedAt:   timeVal(w.CreatedAt),
		UpdatedAt:   timeVal(w.UpdatedAt),
	}
	if w.Sections != nil {
		p.Sections = make([]domain.Section, 0, len(w.Sections))
		for _, s := range w.Sections {
			p.Sections = append(p.Sections, *s.ToDomain())
		}
	}
	if w.Items != nil {
		p.Items = make([]domain.Item, 0, len(w.Items))
		for _, it := range w.Items {
			p.Items = append(p.Items, *it.ToDomain())
		}
	}
	return p
}

func FromSummary(s domain.PortfolioSummary) PortfolioSummary {
	return PortfolioSummary{
		ID:          s.ID,
		Title:       s.Title,
		Description: s.Description,
		CreatedAt:   timePtr(s.CreatedAt),
	}
}

func (w PortfolioSummary) ToDomain() domain.PortfolioSummary {
	return domain.PortfolioSummary{
		ID:          w.ID,
		Title:       w.Title,
		Description: w.Description,
		CreatedAt:   timeVal(w.CreatedAt),
	}
}

func FromSection(s *domain.Section) Section {
	return Section{
		ID:          s.ID,
		Title:       s.Title,
		Description: s.Description,
		Order:       s.Order,
		CreatedAt:   timePtr(s.CreatedAt),
		UpdatedAt:   timePtr(s.UpdatedAt),
	}
}

func (w Section) ToDomain() *domain.Section {
	return &domain.Section{
		ID:          pickID(w.ID, w.LegacyID),
		Title:       w.Title,
		Description: w.Description,
		Order:       w.Order,
		CreatedAt:   timeVal(w.CreatedAt),
		UpdatedAt:   timeVal(w.UpdatedAt),
	}
}

func FromItem(it *domain.Item) Item {
	return Item{
		ID:              it.ID,
		Type:            string(it.Type),
		Filename:        it.Filename,
		OriginalName:    it.OriginalName,
		URL:             it.URL,
		ThumbnailURL:    strPtr(it.ThumbnailURL),
		ThumbnailBase64: strPtr(it.ThumbnailBase64),
		Title:           it.Title,
		Description:     it.Description,
		Metadata:        FromMetadata(it.Metadata),
		SectionID:       strPtr(it.SectionID),
		Order:           it.Order,
		CreatedAt:       timePtr(it.CreatedAt),
		UpdatedAt:       timePtr(it.UpdatedAt),
	}
}

func (w Item) ToDomain() *domain.Item {
	return &domain.Item{
		ID:              pickID(w.ID, w.LegacyID),
		Type:            domain.MediaType(w.Type),
		Filename:        w.Filename,
		OriginalName:    w.OriginalName,
		URL:             w.URL,
		ThumbnailURL:    strVal(w.ThumbnailURL),
		ThumbnailBase64: strVal(w.ThumbnailBase64),
		Title:           w.Title,
		Description:     w.Description,
		Metadata:        w.Metadata.ToDomain(),
		SectionID:       strVal(w.SectionID),
		Order:           w.Order,
		CreatedAt:       timeVal(w.CreatedAt),
		UpdatedAt:       timeVal(w.UpdatedAt),
	}
}

func FromMetadata(m domain.ItemMetadata) Metadata {
	out := Metadata{Size: m.Size, Format: m.Format}
	if m.Dimensions != nil {
		out.Dimensions = &Dimensions{Width: m.Dimensions.Width, Height: m.Dimensions.Height}
	}
	if m.Duration != nil {
		d := *m.Duration
		out.Duration = &d
	}
	return out
}

func (w Metadata) ToDomain() domain.ItemMetadata {
	out := domain.ItemMetadata{Size: w.Size, Format: w.Format}
	if w.Dimensions != nil {
		out.Dimensions = &domain.Dimensions{Width: w.Dimensions.Width, Height: w.Dimensions.Height}
	}
	if w.Duration != nil {
		d := *w.Duration
		out.Duration = &d
	}
	return out
}
