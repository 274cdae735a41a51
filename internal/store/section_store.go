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

type SectionStore struct {
	db *sql.DB
}

func NewSectionStore(db *sql.DB) *SectionStore {
	return &SectionStore{db: db}
}

func (s *SectionStore) Create(ctx context.Context, portfolioID, title, description string, order int) (*domain.Section, error) {
	id := uuid.NewString()
	now := time.Now().UTC()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sections (id, portfolio_id, title, description, sort_order, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, id, portfolioID, title, description, order, now, now)
	if err != nil {
		return nil, fmt.Errorf("failed to create section: %w", err)
	}

	return s.GetByID(ctx, portfolioID, id)
}

func (s *SectionStore) GetByID(ctx context.Context, portfolioID, id string) (*domain.Section, error) {
	sec := &domain.Section{}
	err := s.db.QueryRowContext(ctx, `
		SELECT id, title, description, sort_order, created_at, updated_at FROM sections
		WHERE portfolio_id = ? AND id = ?
	`, portfolioID, id).Scan(&sec.ID, &sec.Title, &sec.Description, &sec.Order, &sec.CreatedAt, &sec.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get section: %w", err)
	}

	return sec, nil
}

// ListByPortfolioID returns sections in display order.
func (s *SectionStore) ListByPortfolioID(ctx context.Context, portfolioID string) ([]domain.Section, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, description, sort_order, created_at, updated_at FROM sections
		WHERE portfolio_id = ? ORDER BY sort_order ASC, created_at ASC, rowid ASC
	`, portfolioID)
	if err != nil {
		return nil, fmt.Errorf("failed to list sections: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			slog.Error("failed to close rows", "error", err)
		}
	}()

	var sections []domain.Section
	for rows.Next() {
		var sec domain.Section
		if err := rows.Scan(&sec.ID, &sec.Title, &sec.Description, &sec.Order, &sec.CreatedAt, &sec.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan section: %w", err)
		}
		sections = append(sections, sec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating sections: %w", err)
	}

	return sections, nil
}

func (s *SectionStore) Update(ctx context.Context, portfolioID, id, title, description string, order int) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE sections SET title = ?, description = ?, sort_order = ?, updated_at = ?
		WHERE portfolio_id = ? AND id = ?
	`, title, description, order, time.Now().UTC(), portfolioID, id)
	if err != nil {
		return fmt.Errorf("failed to update section: %w", err)
	}
	return expectOne(result, "section")
}

// Delete removes the section. Items that referenced it become unsorted.
func (s *SectionStore) Delete(ctx context.Context, portfolioID, id string) error {
	result, err := s.db.ExecContext(ctx, `
		DELETE FROM sections WHERE portfolio_id = ? AND id = ?
	`, portfolioID, id)
	if err != nil {
		return fmt.Errorf("failed to delete section: %w", err)
	}
	return expectOne(result, "section")
}
