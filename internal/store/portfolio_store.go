package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/vbonduro/folio/internal/domain"
)

// ErrNotFound is returned by updates and deletes that match no row.
var ErrNotFound = errors.New("not found")

type PortfolioStore struct {
	db *sql.DB
}

func NewPortfolioStore(db *sql.DB) *PortfolioStore {
	return &PortfolioStore{db: db}
}

func (s *PortfolioStore) Create(ctx context.Context, title, description string) (*domain.Portfolio, error) {
	id := uuid.NewString()
	now := time.Now().UTC()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO portfolios (id, title, description, created_at, updated_at) VALUES (?, ?, ?, ?, ?)
	`, id, title, description, now, now)
	if err != nil {
		return nil, fmt.Errorf("failed to create portfolio: %w", err)
	}

	return s.GetByID(ctx, id)
}

// GetByID returns the portfolio row without its sections and items, or nil
// if there is none.
func (s *PortfolioStore) GetByID(ctx context.Context, id string) (*domain.Portfolio, error) {
	p := &domain.Portfolio{}
	err := s.db.QueryRowContext(ctx, `
		SELECT id, title, description, created_at, updated_at FROM portfolios WHERE id = ?
	`, id).Scan(&p.ID, &p.Title, &p.Description, &p.CreatedAt, &p.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get portfolio: %w", err)
	}

	return p, nil
}

// List returns summaries, oldest first.
func (s *PortfolioStore) List(ctx context.Context) ([]domain.PortfolioSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, description, created_at FROM portfolios ORDER BY created_at ASC, rowid ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list portfolios: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			slog.Error("failed to close rows", "error", err)
		}
	}()

	var out []domain.PortfolioSummary
	for rows.Next() {
		var p domain.PortfolioSummary
		if err := rows.Scan(&p.ID, &p.Title, &p.Description, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan portfolio: %w", err)
		}
		out = append(out, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating portfolios: %w", err)
	}

	return out, nil
}

func (s *PortfolioStore) Update(ctx context.Context, id, title, description string) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE portfolios SET title = ?, description = ?, updated_at = ? WHERE id = ?
	`, title, description, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to update portfolio: %w", err)
	}
	return expectOne(result, "portfolio")
}

// Delete removes the portfolio. Its sections and items go with it.
func (s *PortfolioStore) Delete(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `
		DELETE FROM portfolios WHERE id = ?
	`, id)
	if err != nil {
		return fmt.Errorf("failed to delete portfolio: %w", err)
	}
	return expectOne(result, "portfolio")
}

// Touch bumps updated_at after a change to one of the portfolio's children.
func (s *PortfolioStore) Touch(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE portfolios SET updated_at = ? WHERE id = ?
	`, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to touch portfolio: %w", err)
	}
	return nil
}

func expectOne(result sql.Result, entity string) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("%s %w", entity, ErrNotFound)
	}

	return nil
}
