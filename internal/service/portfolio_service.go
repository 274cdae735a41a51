package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path"
	"strings"

	"github.com/vbonduro/folio/internal/caption"
	"github.com/vbonduro/folio/internal/domain"
	"github.com/vbonduro/folio/internal/gateway"
	"github.com/vbonduro/folio/internal/media"
	"github.com/vbonduro/folio/internal/mediastore"
	"github.com/vbonduro/folio/internal/store"
)

// ErrNotFound is returned when a portfolio, section or item does not exist.
var ErrNotFound = errors.New("not found")

// portfolioRepository is the subset of store.PortfolioStore that PortfolioService requires.
type portfolioRepository interface {
	Create(ctx context.Context, title, description string) (*domain.Portfolio, error)
	GetByID(ctx context.Context, id string) (*domain.Portfolio, error)
	List(ctx context.Context) ([]domain.PortfolioSummary, error)
	Update(ctx context.Context, id, title, description string) error
	Delete(ctx context.Context, id string) error
	Touch(ctx context.Context, id string) error
}

// sectionRepository is the subset of store.SectionStore that PortfolioService requires.
type sectionRepository interface {
	Create(ctx context.Context, portfolioID, title, description string, order int) (*domain.Section, error)
	GetByID(ctx context.Context, portfolioID, id string) (*domain.Section, error)
	ListByPortfolioID(ctx context.Context, portfolioID string) ([]domain.Section, error)
	Update(ctx context.Context, portfolioID, id, title, description string, order int) error
	Delete(ctx context.Context, portfolioID, id string) error
}

// itemRepository is the subset of store.ItemStore that PortfolioService requires.
type itemRepository interface {
	Create(ctx context.Context, portfolioID string, it domain.Item) (*domain.Item, error)
	GetByID(ctx context.Context, portfolioID, id string) (*domain.Item, error)
	ListByPortfolioID(ctx context.Context, portfolioID string) ([]domain.Item, error)
	Update(ctx context.Context, portfolioID string, it domain.Item) error
	Delete(ctx context.Context, portfolioID, id string) error
}

type PortfolioService struct {
	portfolioStore portfolioRepository
	sectionStore   sectionRepository
	itemStore      itemRepository
	captioner      caption.Captioner
	mediaStg       mediastore.MediaStore
	mediaURLPrefix string
	logger         *slog.Logger
}

// NewPortfolioService wires the service. captioner may be nil, in which case
// item descriptions are stored as given.
func NewPortfolioService(
	portfolioStore portfolioRepository,
	sectionStore sectionRepository,
	itemStore itemRepository,
	captioner caption.Captioner,
	mediaStg mediastore.MediaStore,
	mediaURLPrefix string,
	logger *slog.Logger,
) *PortfolioService {
	return &PortfolioService{
		portfolioStore: portfolioStore,
		sectionStore:   sectionStore,
		itemStore:      itemStore,
		captioner:      captioner,
		mediaStg:       mediaStg,
		mediaURLPrefix: strings.TrimRight(mediaURLPrefix, "/"),
		logger:         logger,
	}
}

func notFound(entity string) error {
	return fmt.Errorf("%s %w", entity, ErrNotFound)
}

// translate maps a store miss to ErrNotFound.
func translate(err error, entity string) error {
	if errors.Is(err, store.ErrNotFound) {
		return notFound(entity)
	}
	return err
}

func (s *PortfolioService) ListPortfolios(ctx context.Context) ([]domain.PortfolioSummary, error) {
	list, err := s.portfolioStore.List(ctx)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []domain.PortfolioSummary{}
	}
	return list, nil
}

// GetPortfolio returns the portfolio with its sections and items.
func (s *PortfolioService) GetPortfolio(ctx context.Context, id string) (*domain.Portfolio, error) {
	p, err := s.portfolioStore.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get portfolio: %w", err)
	}
	if p == nil {
		return nil, notFound("portfolio")
	}

	sections, err := s.sectionStore.ListByPortfolioID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to list sections: %w", err)
	}
	items, err := s.itemStore.ListByPortfolioID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}

	p.Sections = append([]domain.Section{}, sections...)
	p.Items = append([]domain.Item{}, items...)
	return p, nil
}

func (s *PortfolioService) CreatePortfolio(ctx context.Context, in gateway.PortfolioInput) (*domain.Portfolio, error) {
	if err := domain.ValidateTitle(in.Title); err != nil {
		return nil, err
	}
	p, err := s.portfolioStore.Create(ctx, strings.TrimSpace(in.Title), in.Description)
	if err != nil {
		return nil, err
	}
	s.logger.Info("portfolio created", "portfolio_id", p.ID)
	return s.GetPortfolio(ctx, p.ID)
}

func (s *PortfolioService) UpdatePortfolio(ctx context.Context, id string, in gateway.PortfolioInput) (*domain.Portfolio, error) {
	if err := domain.ValidateTitle(in.Title); err != nil {
		return nil, err
	}
	if err := s.portfolioStore.Update(ctx, id, strings.TrimSpace(in.Title), in.Description); err != nil {
		return nil, translate(err, "portfolio")
	}
	return s.GetPortfolio(ctx, id)
}

// DeletePortfolio removes the portfolio and then the media files of its items.
// File removal failures are logged and do not fail the call.
func (s *PortfolioService) DeletePortfolio(ctx context.Context, id string) error {
	p, err := s.GetPortfolio(ctx, id)
	if err != nil {
		return err
	}
	if err := s.portfolioStore.Delete(ctx, id); err != nil {
		return translate(err, "portfolio")
	}
	for i := range p.Items {
		s.removeFiles(ctx, &p.Items[i])
	}
	s.logger.Info("portfolio deleted", "portfolio_id", id, "items", len(p.Items))
	return nil
}

func (s *PortfolioService) requirePortfolio(ctx context.Context, id string) error {
	p, err := s.portfolioStore.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to get portfolio: %w", err)
	}
	if p == nil {
		return notFound("portfolio")
	}
	return nil
}

func (s *PortfolioService) touch(ctx context.Context, portfolioID string) {
	if err := s.portfolioStore.Touch(ctx, portfolioID); err != nil {
		s.logger.Warn("failed to touch portfolio", "portfolio_id", portfolioID, "error", err)
	}
}

func (s *PortfolioService) ListSections(ctx context.Context, portfolioID string) ([]domain.Section, error) {
	if err := s.requirePortfolio(ctx, portfolioID); err != nil {
		return nil, err
	}
	sections, err := s.sectionStore.ListByPortfolioID(ctx, portfolioID)
	if err != nil {
		return nil, err
	}
	return append([]domain.Section{}, sections...), nil
}

func (s *PortfolioService) CreateSection(ctx context.Context, portfolioID string, in gateway.SectionInput) (*domain.Section, error) {
	if err := domain.ValidateTitle(in.Title); err != nil {
		return nil, err
	}
	if err := s.requirePortfolio(ctx, portfolioID); err != nil {
		return nil, err
	}
	sec, err := s.sectionStore.Create(ctx, portfolioID, strings.TrimSpace(in.Title), in.Description, in.Order)
	if err != nil {
		return nil, err
	}
	s.touch(ctx, portfolioID)
	return sec, nil
}

func (s *PortfolioService) UpdateSection(ctx context.Context, portfolioID, sectionID string, in gateway.SectionInput) (*domain.Section, error) {
	if err := domain.ValidateTitle(in.Title); err != nil {
		return nil, err
	}
	if err := s.requirePortfolio(ctx, portfolioID); err != nil {
		return nil, err
	}
	if err := s.sectionStore.Update(ctx, portfolioID, sectionID, strings.TrimSpace(in.Title), in.Description, in.Order); err != nil {
		return nil, translate(err, "section")
	}
	s.touch(ctx, portfolioID)

	sec, err := s.sectionStore.GetByID(ctx, portfolioID, sectionID)
	if err != nil {
		return nil, err
	}
	if sec == nil {
		return nil, notFound("section")
	}
	return sec, nil
}

// DeleteSection removes the section. Its items stay in the portfolio with
// no section assigned.
func (s *PortfolioService) DeleteSection(ctx context.Context, portfolioID, sectionID string) error {
	if err := s.requirePortfolio(ctx, portfolioID); err != nil {
		return err
	}
	if err := s.sectionStore.Delete(ctx, portfolioID, sectionID); err != nil {
		return translate(err, "section")
	}
	s.touch(ctx, portfolioID)
	s.logger.Info("section deleted", "portfolio_id", portfolioID, "section_id", sectionID)
	return nil
}

func (s *PortfolioService) checkSection(ctx context.Context, portfolioID, sectionID string) error {
	if sectionID == "" {
		return nil
	}
	sec, err := s.sectionStore.GetByID(ctx, portfolioID, sectionID)
	if err != nil {
		return err
	}
	if sec == nil {
		return &domain.ValidationFailed{Field: "section_id", Message: "does not exist"}
	}
	return nil
}

// CreateItem stores an item for a previously uploaded file. An image item
// with no description is captioned when a captioner is configured.
func (s *PortfolioService) CreateItem(ctx context.Context, portfolioID string, in gateway.ItemInput) (*domain.Item, error) {
	if err := domain.ValidateTitle(in.Title); err != nil {
		return nil, err
	}
	if err := domain.ValidateMediaType(in.Type); err != nil {
		return nil, err
	}
	if err := s.requirePortfolio(ctx, portfolioID); err != nil {
		return nil, err
	}
	if err := s.checkSection(ctx, portfolioID, in.SectionID); err != nil {
		return nil, err
	}

	it := domain.Item{
		Type:            in.Type,
		Filename:        in.Filename,
		OriginalName:    in.OriginalName,
		URL:             in.URL,
		ThumbnailURL:    in.ThumbnailURL,
		ThumbnailBase64: in.ThumbnailBase64,
		Title:           strings.TrimSpace(in.Title),
		Description:     in.Description,
		Metadata:        in.Metadata,
		SectionID:       in.SectionID,
		Order:           in.Order,
	}
	if strings.TrimSpace(it.Description) == "" && it.Type == domain.MediaImage {
		it.Description = s.describe(ctx, it.Filename)
	}

	created, err := s.itemStore.Create(ctx, portfolioID, it)
	if err != nil {
		return nil, err
	}
	s.touch(ctx, portfolioID)
	s.logger.Info("item created", "portfolio_id", portfolioID, "item_id", created.ID, "type", created.Type)
	return created, nil
}

// describe returns a caption for the stored file, or "" if captioning is
// disabled or fails.
func (s *PortfolioService) describe(ctx context.Context, filename string) string {
	if s.captioner == nil || filename == "" {
		return ""
	}
	rc, mimeType, err := s.mediaStg.Get(ctx, filename)
	if err != nil {
		s.logger.Warn("caption skipped, media unavailable", "filename", filename, "error", err)
		return ""
	}
	defer func() {
		if err := rc.Close(); err != nil {
			s.logger.Error("failed to close media", "filename", filename, "error", err)
		}
	}()

	s.logger.Info("caption started", "filename", filename)
	text, err := s.captioner.Caption(ctx, rc, mimeType)
	if err != nil {
		s.logger.Warn("caption failed", "filename", filename, "error", err)
		return ""
	}
	s.logger.Info("caption complete", "filename", filename)
	return text
}

// UpdateItem applies patch to the item and returns the stored result.
func (s *PortfolioService) UpdateItem(ctx context.Context, portfolioID, itemID string, patch gateway.ItemPatch) (*domain.Item, error) {
	if patch.Title != nil {
		if err := domain.ValidateTitle(*patch.Title); err != nil {
			return nil, err
		}
		t := strings.TrimSpace(*patch.Title)
		patch.Title = &t
	}
	if err := s.requirePortfolio(ctx, portfolioID); err != nil {
		return nil, err
	}

	it, err := s.itemStore.GetByID(ctx, portfolioID, itemID)
	if err != nil {
		return nil, fmt.Errorf("failed to get item: %w", err)
	}
	if it == nil {
		return nil, notFound("item")
	}
	if patch.Section.Set {
		if err := s.checkSection(ctx, portfolioID, patch.Section.ID); err != nil {
			return nil, err
		}
	}

	patch.Apply(it)
	if err := s.itemStore.Update(ctx, portfolioID, *it); err != nil {
		return nil, translate(err, "item")
	}
	s.touch(ctx, portfolioID)

	updated, err := s.itemStore.GetByID(ctx, portfolioID, itemID)
	if err != nil {
		return nil, fmt.Errorf("failed to get item: %w", err)
	}
	if updated == nil {
		return nil, notFound("item")
	}
	return updated, nil
}

func (s *PortfolioService) DeleteItem(ctx context.Context, portfolioID, itemID string) error {
	if err := s.requirePortfolio(ctx, portfolioID); err != nil {
		return err
	}
	it, err := s.itemStore.GetByID(ctx, portfolioID, itemID)
	if err != nil {
		return fmt.Errorf("failed to get item: %w", err)
	}
	if it == nil {
		return notFound("item")
	}
	if err := s.itemStore.Delete(ctx, portfolioID, itemID); err != nil {
		return translate(err, "item")
	}
	s.touch(ctx, portfolioID)
	s.removeFiles(ctx, it)
	return nil
}

// removeFiles deletes the item's media file and stored thumbnail. Inline
// data: thumbnails have no file.
func (s *PortfolioService) removeFiles(ctx context.Context, it *domain.Item) {
	names := make([]string, 0, 2)
	if it.Filename != "" {
		names = append(names, it.Filename)
	}
	if it.ThumbnailURL != "" && !strings.HasPrefix(it.ThumbnailURL, "data:") {
		names = append(names, path.Base(it.ThumbnailURL))
	}
	for _, name := range names {
		err := s.mediaStg.Delete(ctx, name)
		if err != nil && !errors.Is(err, mediastore.ErrNotFound) {
			s.logger.Error("failed to delete media file", "item_id", it.ID, "filename", name, "error", err)
		}
	}
}

// Upload validates and stores a file. The result is not linked to any
// portfolio until an item is created for it.
func (s *PortfolioService) Upload(ctx context.Context, f gateway.Upload, declared domain.MediaType) (*gateway.UploadedFile, error) {
	s.logger.Info("upload started", "name", f.Name, "content_type", f.ContentType, "bytes", len(f.Data))

	info, err := media.Inspect(f.Data, declared, f.ContentType)
	if err != nil {
		return nil, err
	}

	filename, err := s.mediaStg.Save(ctx, info.MIME, bytes.NewReader(f.Data))
	if err != nil {
		return nil, fmt.Errorf("failed to save media: %w", err)
	}
	s.logger.Debug("media saved", "filename", filename, "format", info.Metadata.Format)

	return &gateway.UploadedFile{
		Filename:     filename,
		OriginalName: f.Name,
		URL:          s.mediaURLPrefix + "/" + filename,
		Metadata:     info.Metadata,
	}, nil
}
