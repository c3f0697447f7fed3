package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/steven6143/stock-profit-calculator/internal/model"
	"github.com/steven6143/stock-profit-calculator/internal/repository"
	"github.com/steven6143/stock-profit-calculator/internal/validation"
)

// saveRefreshTimeout bounds the detached refresh triggered after a
// position save.
const saveRefreshTimeout = 30 * time.Second

// PositionService handles position CRUD with validation and keeps the
// portfolio snapshot in step with position writes.
type PositionService struct {
	positionRepo *repository.PositionRepository
	portfolio    *PortfolioService
	refresh      *RefreshService
	log          zerolog.Logger
}

// NewPositionService creates a new PositionService with the provided
// dependencies.
func NewPositionService(
	positionRepo *repository.PositionRepository,
	portfolio *PortfolioService,
	refresh *RefreshService,
	log zerolog.Logger,
) *PositionService {
	return &PositionService{
		positionRepo: positionRepo,
		portfolio:    portfolio,
		refresh:      refresh,
		log:          log.With().Str("component", "positions").Logger(),
	}
}

// ListPositions returns all positions, most-recently-touched first.
func (s *PositionService) ListPositions() ([]model.Position, error) {
	return s.positionRepo.GetPositions()
}

// GetPosition retrieves one position by code and bumps its last-touched
// timestamp, which drives the "most recently viewed" ordering.
func (s *PositionService) GetPosition(code string) (model.Position, error) {
	p, err := s.positionRepo.GetPositionByCode(code)
	if err != nil {
		return model.Position{}, err
	}

	if err := s.positionRepo.TouchPosition(code); err != nil {
		// Ordering drift is tolerable; the read itself succeeded.
		s.log.Warn().Err(err).Str("code", code).Msg("Failed to touch position")
	}

	return p, nil
}

// SavePosition validates and upserts a position, then kicks off a
// detached forced refresh for that code so its price and the snapshot
// catch up without delaying the save response.
//
// The background refresh has no result channel back to this call: its
// failures are logged, never surfaced, and the returned position does not
// wait on it.
func (s *PositionService) SavePosition(p model.Position) (model.Position, error) {
	if err := validation.ValidatePosition(p); err != nil {
		return model.Position{}, err
	}

	saved, err := s.positionRepo.UpsertPosition(p)
	if err != nil {
		return model.Position{}, err
	}

	go s.refreshAfterSave(saved.Code)

	return saved, nil
}

// DeletePosition removes a position and synchronously recomputes the
// snapshot so the deleted holding disappears from the next read.
func (s *PositionService) DeletePosition(code string) error {
	if err := s.positionRepo.DeletePosition(code); err != nil {
		return err
	}

	if _, err := s.portfolio.RecomputeSnapshot(); err != nil {
		return err
	}

	return nil
}

// refreshAfterSave runs the fire-and-forget refresh that follows a save.
// It forces a fetch for the saved code's asset type so the new position
// gets a price even outside its refresh window.
func (s *PositionService) refreshAfterSave(code string) {
	ctx, cancel := context.WithTimeout(context.Background(), saveRefreshTimeout)
	defer cancel()

	filter := model.TypeFilterEquity
	if model.ClassifyCode(code) == model.AssetTypeFund {
		filter = model.TypeFilterFund
	}

	if _, err := s.refresh.Refresh(ctx, true, filter); err != nil {
		s.log.Warn().Err(err).Str("code", code).Msg("Post-save refresh failed")
	}
}
