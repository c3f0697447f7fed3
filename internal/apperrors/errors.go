package apperrors

import "errors"

// Domain entity errors represent missing entities in the system.
var (
	// ErrPositionNotFound indicates that no position exists for the given code.
	ErrPositionNotFound = errors.New("position not found")

	// ErrPriceNotFound indicates no cached price exists for the given code.
	ErrPriceNotFound = errors.New("price not found")

	// ErrSnapshotNotFound indicates the portfolio snapshot has never been computed.
	ErrSnapshotNotFound = errors.New("portfolio snapshot not found")

	// ErrProviderConfigNotFound indicates quote-provider credentials have not been set up.
	ErrProviderConfigNotFound = errors.New("provider configuration not found")
)

// Business logic errors represent validation failures or constraint violations.
var (
	// ErrEmptyCode indicates that a required security code is empty or missing.
	ErrEmptyCode = errors.New("code cannot be empty")

	// ErrInvalidCostPrice indicates a non-positive cost basis.
	ErrInvalidCostPrice = errors.New("cost price must be positive")

	// ErrInvalidShares indicates a non-positive unit count.
	ErrInvalidShares = errors.New("shares must be positive")

	// ErrInvalidTypeFilter indicates an unknown asset-type filter value.
	ErrInvalidTypeFilter = errors.New("type filter must be one of: all, equity, fund")
)

// Operation failure errors represent system-level failures when retrieving
// or processing data.
var (
	ErrFailedToRetrievePositions = errors.New("failed to retrieve positions")
	ErrFailedToSavePosition      = errors.New("failed to save position")
	ErrFailedToDeletePosition    = errors.New("failed to delete position")
	ErrFailedToReadSnapshot      = errors.New("failed to read portfolio snapshot")
	ErrFailedToRefresh           = errors.New("failed to run price refresh")
)

// Quote provider errors.
var (
	// ErrQuoteUnavailable indicates the provider returned no usable price for a code.
	ErrQuoteUnavailable = errors.New("quote unavailable")

	// ErrMalformedQuote indicates the provider response could not be parsed.
	ErrMalformedQuote = errors.New("malformed quote response")
)
