// Package gateway defines the contract of the remote portfolio backend. The
// synchronization store depends on it and treats it as the source of truth.
package gateway

import (
	"context"

	"github.com/vbonduro/folio/internal/domain"
)

type Gateway interface {
	ListPortfolios(ctx context.Context) ([]domain.PortfolioSummary, error)
	// GetPortfolio fails with ErrNotFound if id is unknown.
	GetPortfolio(ctx context.Context, id string) (*domain.Portfolio, error)
	CreatePortfolio(ctx context.Context, in PortfolioInput) (*domain.Portfolio, error)
	UpdatePortfolio(ctx context.Context, id string, in PortfolioInput) (*domain.Portfolio, error)
	// DeletePortfolio fails with ErrNotFound if the portfolio is already gone.
	DeletePortfolio(ctx context.Context, id string) error

	CreateSection(ctx context.Context, portfolioID string, in SectionInput) (*domain.Section, error)
	UpdateSection(ctx context.Context, portfolioID, sectionID string, in SectionInput) (*domain.Section, error)
	DeleteSection(ctx context.Context, portfolioID, sectionID string) error

	CreateItem(ctx context.Context, portfolioID string, in ItemInput) (*domain.Item, error)
	UpdateItem(ctx context.Context, portfolioID, itemID string, patch ItemPatch) (*domain.Item, error)
	DeleteItem(ctx context.Context, portfolioID, itemID string) error

	// UploadFile stores a file and returns its metadata. It has no portfolio
	// linkage; callers create the item separately.
	UploadFile(ctx context.Context, f Upload, declared domain.MediaType) (*UploadedFile, error)
}

type PortfolioInput struct {
	Title       string
	Description string
}

type SectionInput struct {
	Title       string
	Description string
	Order       int
}

// ItemInput is the payload used to create an item from an uploaded file.
type ItemInput struct {
	Type            domain.MediaType
	Filename        string
	OriginalName    string
	URL             string
	ThumbnailURL    string
	ThumbnailBase64 string
	Title           string
	Description     string
	Metadata        domain.ItemMetadata
	SectionID       string
	Order           int
}

// ItemPatch describes a partial item update. Nil fields are left unchanged.
type ItemPatch struct {
	Title       *string
	Description *string
	Order       *int
	Section     SectionAssignment
}

func (p ItemPatch) Empty() bool {
	return p.Title == nil && p.Description == nil && p.Order == nil && !p.Section.Set
}

// Apply merges the patch into it.
func (p ItemPatch) Apply(it *domain.Item) {
	if p.Title != nil {
		it.Title = *p.Title
	}
	if p.Description != nil {
		it.Description = *p.Description
	}
	if p.Order != nil {
		it.Order = *p.Order
	}
	if p.Section.Set {
		it.SectionID = p.Section.ID
	}
}

// SectionAssignment is a tri-state section change: unset, assign to ID, or
// clear when Set is true and ID is empty.
type SectionAssignment struct {
	Set bool
	ID  string
}

func AssignSection(id string) SectionAssignment { return SectionAssignment{Set: true, ID: id} }

func ClearSection() SectionAssignment { return SectionAssignment{Set: true} }

// Upload is a raw file handed to UploadFile.
type Upload struct {
	Name        string
	ContentType string
	Data        []byte
}

type UploadedFile struct {
	Filename     string
	OriginalName string
	URL          string
	ThumbnailURL string
	Metadata     domain.ItemMetadata
}
