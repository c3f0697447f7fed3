package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/steven6143/stock-profit-calculator/internal/apperrors"
	"github.com/steven6143/stock-profit-calculator/internal/model"
)

// PriceCacheRepository provides data access methods for the price_cache
// table: the durable code→price tier. Rows are upserted on every
// successful fetch, always stamping the write time, and are never deleted
// or expired — staleness is bounded by refresh frequency, not TTL.
type PriceCacheRepository struct {
	db *sql.DB
}

// NewPriceCacheRepository creates a new repository instance.
func NewPriceCacheRepository(db *sql.DB) *PriceCacheRepository {
	return &PriceCacheRepository{db: db}
}

// Get retrieves the cached price for a single code.
// Returns apperrors.ErrPriceNotFound if no entry exists.
func (r *PriceCacheRepository) Get(code string) (model.CachedPrice, error) {
	query := `SELECT code, price, updated_at FROM price_cache WHERE code = ?`

	var cp model.CachedPrice
	var updatedAtStr string

	err := r.db.QueryRow(query, code).Scan(&cp.Code, &cp.Price, &updatedAtStr)
	if errors.Is(err, sql.ErrNoRows) {
		return model.CachedPrice{}, apperrors.ErrPriceNotFound
	}
	if err != nil {
		return model.CachedPrice{}, fmt.Errorf("failed to query price_cache: %w", err)
	}

	cp.UpdatedAt, err = ParseTime(updatedAtStr)
	if err != nil {
		return model.CachedPrice{}, fmt.Errorf("failed to parse updated_at: %w", err)
	}

	return cp, nil
}

// GetBatch retrieves cached prices for the given codes. Codes with no
// entry are simply absent from the result map, never represented as
// zero-valued entries. An empty input returns an empty map without
// touching the database.
func (r *PriceCacheRepository) GetBatch(codes []string) (map[string]float64, error) {
	prices := make(map[string]float64, len(codes))
	if len(codes) == 0 {
		return prices, nil
	}

	placeholders := make([]string, len(codes))
	for i := range placeholders {
		placeholders[i] = "?"
	}

	//#nosec G202 -- Safe: placeholders are generated programmatically, not from user input
	query := `SELECT code, price FROM price_cache WHERE code IN (` +
		strings.Join(placeholders, ",") + `)`

	args := make([]any, len(codes))
	for i, code := range codes {
		args[i] = code
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query price_cache: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var code string
		var price float64
		if err := rows.Scan(&code, &price); err != nil {
			return nil, fmt.Errorf("failed to scan price_cache row: %w", err)
		}
		prices[code] = price
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating price_cache: %w", err)
	}

	return prices, nil
}

// Set upserts a single price, stamping the write time.
func (r *PriceCacheRepository) Set(code string, price float64) error {
	_, err := r.db.Exec(upsertPriceQuery, code, price, FormatTime(time.Now()))
	if err != nil {
		return fmt.Errorf("failed to upsert price for %s: %w", code, err)
	}
	return nil
}

// SetBatch upserts all prices in the map inside one transaction so a
// refresh cycle's successes land atomically.
func (r *PriceCacheRepository) SetBatch(prices map[string]float64) error {
	if len(prices) == 0 {
		return nil
	}

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin price_cache transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

	now := FormatTime(time.Now())
	for code, price := range prices {
		if _, err := tx.Exec(upsertPriceQuery, code, price, now); err != nil {
			return fmt.Errorf("failed to upsert price for %s: %w", code, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit price_cache transaction: %w", err)
	}

	return nil
}

const upsertPriceQuery = `
	INSERT INTO price_cache (code, price, updated_at)
	VALUES (?, ?, ?)
	ON CONFLICT(code) DO UPDATE SET
		price = excluded.price,
		updated_at = excluded.updated_at
`
