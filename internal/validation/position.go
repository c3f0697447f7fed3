// Package validation rejects invalid input before any write happens.
package validation

import (
	"fmt"
	"strings"

	"github.com/steven6143/stock-profit-calculator/internal/apperrors"
	"github.com/steven6143/stock-profit-calculator/internal/model"
)

// ValidatePosition checks the fields a position save requires: a
// non-empty code, a positive cost basis and a positive unit count.
// Violations map to bad-request conditions at the API layer.
func ValidatePosition(p model.Position) error {
	if strings.TrimSpace(p.Code) == "" {
		return apperrors.ErrEmptyCode
	}
	if p.CostPrice <= 0 {
		return fmt.Errorf("%w: got %v", apperrors.ErrInvalidCostPrice, p.CostPrice)
	}
	if p.Shares <= 0 {
		return fmt.Errorf("%w: got %v", apperrors.ErrInvalidShares, p.Shares)
	}
	return nil
}

// ValidateTypeFilter parses a filter query value. Empty selects all.
func ValidateTypeFilter(raw string) (model.TypeFilter, error) {
	switch model.TypeFilter(raw) {
	case "", model.TypeFilterAll:
		return model.TypeFilterAll, nil
	case model.TypeFilterEquity:
		return model.TypeFilterEquity, nil
	case model.TypeFilterFund:
		return model.TypeFilterFund, nil
	default:
		return "", fmt.Errorf("%w: got %q", apperrors.ErrInvalidTypeFilter, raw)
	}
}
