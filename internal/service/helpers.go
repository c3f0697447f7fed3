package service

import (
	"errors"

	"github.com/steven6143/stock-profit-calculator/internal/apperrors"
)

// isNotFound reports whether err is one of the domain's not-found
// sentinels, which services treat as an absence rather than a failure.
func isNotFound(err error) bool {
	return errors.Is(err, apperrors.ErrPositionNotFound) ||
		errors.Is(err, apperrors.ErrPriceNotFound) ||
		errors.Is(err, apperrors.ErrSnapshotNotFound) ||
		errors.Is(err, apperrors.ErrProviderConfigNotFound)
}
