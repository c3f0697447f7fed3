package repository

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/steven6143/stock-profit-calculator/internal/apperrors"
	"github.com/steven6143/stock-profit-calculator/internal/model"
)

// snapshotKey is the fixed key of the singleton snapshot slot.
const snapshotKey = "main"

// SnapshotRepository provides data access methods for the portfolio_cache
// table, which holds exactly one precomputed, serialized portfolio
// snapshot. The slot is fully replaced on every save, never merged.
type SnapshotRepository struct {
	db *sql.DB
}

// NewSnapshotRepository creates a new repository instance.
func NewSnapshotRepository(db *sql.DB) *SnapshotRepository {
	return &SnapshotRepository{db: db}
}

// Save serializes the snapshot and overwrites the singleton slot.
func (r *SnapshotRepository) Save(snapshot model.PortfolioSnapshot) error {
	payload, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("failed to serialize snapshot: %w", err)
	}

	query := `
		INSERT INTO portfolio_cache (key, payload, computed_at)
		VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			payload = excluded.payload,
			computed_at = excluded.computed_at
	`

	_, err = r.db.Exec(query, snapshotKey, string(payload), FormatTime(snapshot.ComputedAt))
	if err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}

	return nil
}

// Load reads and deserializes the singleton snapshot.
// Returns apperrors.ErrSnapshotNotFound if the slot has never been written
// (cold start); callers synthesize an empty snapshot in that case.
func (r *SnapshotRepository) Load() (model.PortfolioSnapshot, error) {
	var payload string
	err := r.db.QueryRow(
		`SELECT payload FROM portfolio_cache WHERE key = ?`, snapshotKey,
	).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return model.PortfolioSnapshot{}, apperrors.ErrSnapshotNotFound
	}
	if err != nil {
		return model.PortfolioSnapshot{}, fmt.Errorf("failed to query portfolio_cache: %w", err)
	}

	var snapshot model.PortfolioSnapshot
	if err := json.Unmarshal([]byte(payload), &snapshot); err != nil {
		return model.PortfolioSnapshot{}, fmt.Errorf("failed to deserialize snapshot: %w", err)
	}
	snapshot.ComputedAt = snapshot.ComputedAt.UTC()

	return snapshot, nil
}

// ComputedAt returns the timestamp of the stored snapshot without
// deserializing the full payload.
func (r *SnapshotRepository) ComputedAt() (time.Time, error) {
	var computedAtStr string
	err := r.db.QueryRow(
		`SELECT computed_at FROM portfolio_cache WHERE key = ?`, snapshotKey,
	).Scan(&computedAtStr)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, apperrors.ErrSnapshotNotFound
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to query portfolio_cache: %w", err)
	}

	return ParseTime(computedAtStr)
}
