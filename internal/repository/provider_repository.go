package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/steven6143/stock-profit-calculator/internal/apperrors"
)

// ProviderRepository provides data access methods for the provider_config
// table, which holds at most one row of quote-provider credentials. The
// token column stores ciphertext; encryption is the service layer's
// concern.
type ProviderRepository struct {
	db *sql.DB
}

// NewProviderRepository creates a new repository instance.
func NewProviderRepository(db *sql.DB) *ProviderRepository {
	return &ProviderRepository{db: db}
}

// GetEncryptedToken retrieves the stored token ciphertext.
// Returns apperrors.ErrProviderConfigNotFound if credentials have never
// been configured, which is a normal state.
func (r *ProviderRepository) GetEncryptedToken() (string, error) {
	var token string
	err := r.db.QueryRow(
		`SELECT token_encrypted FROM provider_config ORDER BY updated_at DESC LIMIT 1`,
	).Scan(&token)
	if errors.Is(err, sql.ErrNoRows) {
		return "", apperrors.ErrProviderConfigNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to query provider_config: %w", err)
	}

	return token, nil
}

// SaveEncryptedToken replaces the stored credentials with the given
// ciphertext. Only one row is kept.
func (r *ProviderRepository) SaveEncryptedToken(ciphertext string) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin provider_config transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

	if _, err := tx.Exec(`DELETE FROM provider_config`); err != nil {
		return fmt.Errorf("failed to clear provider_config: %w", err)
	}

	_, err = tx.Exec(
		`INSERT INTO provider_config (id, token_encrypted, updated_at) VALUES (?, ?, ?)`,
		uuid.New().String(), ciphertext, FormatTime(time.Now()),
	)
	if err != nil {
		return fmt.Errorf("failed to insert provider_config: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit provider_config transaction: %w", err)
	}

	return nil
}
