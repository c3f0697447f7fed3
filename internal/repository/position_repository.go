package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/steven6143/stock-profit-calculator/internal/apperrors"
	"github.com/steven6143/stock-profit-calculator/internal/model"
)

// PositionRepository provides data access methods for the position table.
// Positions are unique by code; writes are upserts that preserve the
// original creation timestamp.
type PositionRepository struct {
	db *sql.DB
}

// NewPositionRepository creates a new repository instance.
func NewPositionRepository(db *sql.DB) *PositionRepository {
	return &PositionRepository{db: db}
}

// GetPositions retrieves all positions ordered most-recently-touched first.
// Returns an empty slice if no positions exist.
func (r *PositionRepository) GetPositions() ([]model.Position, error) {
	query := `
		SELECT id, code, name, cost_price, shares, created_at, updated_at
		FROM position
		ORDER BY updated_at DESC
	`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query position table: %w", err)
	}
	defer rows.Close()

	positions := []model.Position{}

	for rows.Next() {
		p, err := scanPosition(rows)
		if err != nil {
			return nil, err
		}
		positions = append(positions, p)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating position table: %w", err)
	}

	return positions, nil
}

// GetPositionByCode retrieves a single position by its security code.
// Returns apperrors.ErrPositionNotFound if no position exists for the code.
func (r *PositionRepository) GetPositionByCode(code string) (model.Position, error) {
	query := `
		SELECT id, code, name, cost_price, shares, created_at, updated_at
		FROM position
		WHERE code = ?
	`

	row := r.db.QueryRow(query, code)
	p, err := scanPosition(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Position{}, apperrors.ErrPositionNotFound
	}
	if err != nil {
		return model.Position{}, err
	}

	return p, nil
}

// ListCodes returns the distinct set of tracked security codes.
func (r *PositionRepository) ListCodes() ([]string, error) {
	rows, err := r.db.Query(`SELECT DISTINCT code FROM position`)
	if err != nil {
		return nil, fmt.Errorf("failed to query tracked codes: %w", err)
	}
	defer rows.Close()

	codes := []string{}
	for rows.Next() {
		var code string
		if err := rows.Scan(&code); err != nil {
			return nil, fmt.Errorf("failed to scan code: %w", err)
		}
		codes = append(codes, code)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tracked codes: %w", err)
	}

	return codes, nil
}

// UpsertPosition inserts a position or, when the code already exists,
// overwrites its name, cost basis and unit count. CreatedAt and the row ID
// are preserved on update; UpdatedAt is stamped on every write.
//
// Returns the stored position, including the ID and CreatedAt of a
// pre-existing row when the write was an update.
func (r *PositionRepository) UpsertPosition(p model.Position) (model.Position, error) {
	now := time.Now().UTC()
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	p.CreatedAt = now
	p.UpdatedAt = now

	query := `
		INSERT INTO position (id, code, name, cost_price, shares, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(code) DO UPDATE SET
			name = excluded.name,
			cost_price = excluded.cost_price,
			shares = excluded.shares,
			updated_at = excluded.updated_at
	`

	_, err := r.db.Exec(query,
		p.ID, p.Code, p.Name, p.CostPrice, p.Shares,
		FormatTime(p.CreatedAt), FormatTime(p.UpdatedAt),
	)
	if err != nil {
		return model.Position{}, fmt.Errorf("failed to upsert position %s: %w", p.Code, err)
	}

	// Re-read so updates return the original ID and CreatedAt.
	return r.GetPositionByCode(p.Code)
}

// DeletePosition removes a position by code.
// Returns apperrors.ErrPositionNotFound if no row was deleted.
func (r *PositionRepository) DeletePosition(code string) error {
	result, err := r.db.Exec(`DELETE FROM position WHERE code = ?`, code)
	if err != nil {
		return fmt.Errorf("failed to delete position %s: %w", code, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return apperrors.ErrPositionNotFound
	}

	return nil
}

// TouchPosition bumps a position's updated_at so it sorts first in the
// most-recently-touched ordering. Used on read-select.
func (r *PositionRepository) TouchPosition(code string) error {
	_, err := r.db.Exec(
		`UPDATE position SET updated_at = ? WHERE code = ?`,
		FormatTime(time.Now()), code,
	)
	if err != nil {
		return fmt.Errorf("failed to touch position %s: %w", code, err)
	}
	return nil
}

// RenamePosition updates the stored display name for a code. Used when a
// fetched quote carries a name that differs from the stored one.
func (r *PositionRepository) RenamePosition(code, newName string) error {
	_, err := r.db.Exec(
		`UPDATE position SET name = ? WHERE code = ?`,
		newName, code,
	)
	if err != nil {
		return fmt.Errorf("failed to rename position %s: %w", code, err)
	}
	return nil
}

// scanner abstracts *sql.Row and *sql.Rows for the shared scan logic.
type scanner interface {
	Scan(dest ...any) error
}

func scanPosition(s scanner) (model.Position, error) {
	var p model.Position
	var createdAtStr, updatedAtStr string

	err := s.Scan(
		&p.ID,
		&p.Code,
		&p.Name,
		&p.CostPrice,
		&p.Shares,
		&createdAtStr,
		&updatedAtStr,
	)
	if err != nil {
		return model.Position{}, fmt.Errorf("failed to scan position row: %w", err)
	}

	p.CreatedAt, err = ParseTime(createdAtStr)
	if err != nil {
		return model.Position{}, fmt.Errorf("failed to parse created_at: %w", err)
	}

	p.UpdatedAt, err = ParseTime(updatedAtStr)
	if err != nil {
		return model.Position{}, fmt.Errorf("failed to parse updated_at: %w", err)
	}

	return p, nil
}
