package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/vbonduro/folio/internal/domain"
)

type ItemStore struct {
	db *sql.DB
}

func NewItemStore(db *sql.DB) *ItemStore {
	return &ItemStore{db: db}
}

const itemColumns = `id, type, filename, original_name, url, thumbnail_url, thumbnail_base64,
	title, description, size, width, height, duration, format, section_id, sort_order, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(row rowScanner) (domain.Item, error) {
	var (
		it                      domain.Item
		width, height, duration sql.NullInt64
		sectionID               sql.NullString
	)
	err := row.Scan(&it.ID, &it.Type, &it.Filename, &it.OriginalName, &it.URL, &it.ThumbnailURL, &it.ThumbnailBase64,
		&it.Title, &it.Description, &it.Metadata.Size, &width, &height, &duration, &it.Metadata.Format,
		&sectionID, &it.Order, &it.CreatedAt, &it.UpdatedAt)
	if err != nil {
		return it, err
	}
	if width.Valid && height.Valid {
		it.Metadata.Dimensions = &domain.Dimensions{Width: int(width.Int64), Height: int(height.Int64)}
	}
	if duration.Valid {
		d := int(duration.Int64)
		it.Metadata.Duration = &d
	}
	it.SectionID = sectionID.String
	return it, nil
}

// Create inserts it under portfolioID. it.ID and timestamps are assigned here.
func (s *ItemStore) Create(ctx context.Context, portfolioID string, it domain.Item) (*domain.Item, error) {
	id := uuid.NewString()
	now := time.Now().UTC()
	var width, height, duration sql.NullInt64
	if d := it.Metadata.Dimensions; d != nil {
		width = sql.NullInt64{Int64: int64(d.Width), Valid: true}
		height = sql.NullInt64{Int64: int64(d.Height), Valid: true}
	}
	if it.Metadata.Duration != nil {
		duration = sql.NullInt64{Int64: int64(*it.Metadata.Duration), Valid: true}
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO items (id, portfolio_id, type, filename, original_name, url, thumbnail_url, thumbnail_base64,
			title, description, size, width, height, duration, format, section_id, sort_order, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, id, portfolioID, it.Type, it.Filename, it.OriginalName, it.URL, it.ThumbnailURL, it.ThumbnailBase64,
		it.Title, it.Description, it.Metadata.Size, width, height, duration, it.Metadata.Format,
		nullString(it.SectionID), it.Order, now, now)
	if err != nil {
		return nil, fmt.Errorf("failed to create item: %w", err)
	}

	return s.GetByID(ctx, portfolioID, id)
}

func (s *ItemStore) GetByID(ctx context.Context, portfolioID, id string) (*domain.Item, error) {
	it, err := scanItem(s.db.QueryRowContext(ctx, `
		SELECT `+itemColumns+` FROM items WHERE portfolio_id = ? AND id = ?
	`, portfolioID, id))

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get item: %w", err)
	}

	return &it, nil
}

// ListByPortfolioID returns the portfolio's items in insertion order.
func (s *ItemStore) ListByPortfolioID(ctx context.Context, portfolioID string) ([]domain.Item, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+itemColumns+` FROM items WHERE portfolio_id = ? ORDER BY created_at ASC, rowid ASC
	`, portfolioID)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			slog.Error("failed to close rows", "error", err)
		}
	}()

	var items []domain.Item
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		items = append(items, it)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating items: %w", err)
	}

	return items, nil
}

// Update writes the editable fields of it: title, description, section and
// order.
func (s *ItemStore) Update(ctx context.Context, portfolioID string, it domain.Item) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE items SET title = ?, description = ?, section_id = ?, sort_order = ?, updated_at = ?
		WHERE portfolio_id = ? AND id = ?
	`, it.Title, it.Description, nullString(it.SectionID), it.Order, time.Now().UTC(), portfolioID, it.ID)
	if err != nil {
		return fmt.Errorf("failed to update item: %w", err)
	}
	return expectOne(result, "item")
}

func (s *ItemStore) Delete(ctx context.Context, portfolioID, id string) error {
	result, err := s.db.ExecContext(ctx, `
		DELETE FROM items WHERE portfolio_id = ? AND id = ?
	`, portfolioID, id)
	if err != nil {
		return fmt.Errorf("failed to delete item: %w", err)
	}
	return expectOne(result, "item")
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
