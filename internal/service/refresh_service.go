package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/steven6143/stock-profit-calculator/internal/market"
	"github.com/steven6143/stock-profit-calculator/internal/model"
	"github.com/steven6143/stock-profit-calculator/internal/repository"
)

// maxConcurrentFetches bounds the refresh fan-out so a large watchlist
// does not open one connection per code at once.
const maxConcurrentFetches = 8

// QuoteFetcher is the slice of the quote client the refresh pipeline
// needs. Tests substitute a fake.
type QuoteFetcher interface {
	FetchEquityQuote(ctx context.Context, code string) (model.Quote, error)
	FetchFundQuote(ctx context.Context, code string) (model.Quote, error)
}

// RefreshService runs the price refresh pipeline: decide which tracked
// codes are due for a live fetch, fan the fetches out concurrently, write
// the successes into the price cache, and replace the portfolio snapshot.
//
// Overlapping cycles (a forced refresh while a scheduled one is in flight)
// are allowed to race: both write upserts keyed by code plus the fixed
// snapshot slot, so the last writer wins row by row. That relaxation is
// deliberate — the design trades strict freshness for lock-free reads and
// writes.
type RefreshService struct {
	positionRepo *repository.PositionRepository
	prices       *PriceService
	portfolio    *PortfolioService
	fetcher      QuoteFetcher
	calendar     *market.Calendar
	log          zerolog.Logger
}

// NewRefreshService creates a new RefreshService with the provided
// dependencies.
func NewRefreshService(
	positionRepo *repository.PositionRepository,
	prices *PriceService,
	portfolio *PortfolioService,
	fetcher QuoteFetcher,
	calendar *market.Calendar,
	log zerolog.Logger,
) *RefreshService {
	return &RefreshService{
		positionRepo: positionRepo,
		prices:       prices,
		portfolio:    portfolio,
		fetcher:      fetcher,
		calendar:     calendar,
		log:          log.With().Str("component", "refresh").Logger(),
	}
}

// Refresh runs one refresh cycle.
//
// When force is false, each code is checked against its asset type's
// refresh window (equity trading sessions, fund evening hours); force
// makes every selected code eligible regardless of clock. filter drops
// codes of the non-matching asset type before eligibility is evaluated.
//
// Per-code fetch failures are soft: they are counted in Failed and logged,
// never propagated, and never block or roll back sibling codes. Storage
// failures are hard: they abort the cycle and surface to the caller.
//
// The snapshot is recomputed and replaced even when nothing was fetched,
// so position edits made since the last cycle are always reflected.
func (s *RefreshService) Refresh(ctx context.Context, force bool, filter model.TypeFilter) (model.RefreshResult, error) {
	positions, err := s.positionRepo.GetPositions()
	if err != nil {
		return model.RefreshResult{}, fmt.Errorf("failed to load tracked positions: %w", err)
	}
	if len(positions) == 0 {
		return model.RefreshResult{NothingDue: true}, nil
	}

	nameByCode := make(map[string]string, len(positions))
	seen := make(map[string]bool, len(positions))
	eligible := make([]string, 0, len(positions))

	for _, p := range positions {
		if seen[p.Code] {
			continue
		}
		seen[p.Code] = true
		nameByCode[p.Code] = p.Name

		assetType := p.AssetType()
		if !filter.Matches(assetType) {
			continue
		}
		if !force && !s.calendar.Eligible(assetType) {
			continue
		}
		eligible = append(eligible, p.Code)
	}

	if len(eligible) == 0 {
		s.log.Debug().Bool("force", force).Str("filter", string(filter)).
			Msg("No codes due for refresh")
		return model.RefreshResult{NothingDue: true}, nil
	}

	quotes := s.fetchAll(ctx, eligible)

	successes := make(map[string]float64, len(quotes))
	for _, q := range quotes {
		successes[q.Code] = q.Price
	}

	if err := s.prices.SetBatch(successes); err != nil {
		return model.RefreshResult{}, fmt.Errorf("failed to write price cache: %w", err)
	}

	// Name sync is a best-effort secondary effect; a failed rename does
	// not change the cycle's accounting.
	for _, q := range quotes {
		if q.Name == "" || q.Name == nameByCode[q.Code] {
			continue
		}
		if err := s.positionRepo.RenamePosition(q.Code, q.Name); err != nil {
			s.log.Warn().Err(err).Str("code", q.Code).Msg("Failed to sync position name")
		}
	}

	if _, err := s.portfolio.RecomputeSnapshot(); err != nil {
		return model.RefreshResult{}, fmt.Errorf("failed to recompute snapshot: %w", err)
	}

	result := model.RefreshResult{
		Eligible: len(eligible),
		Updated:  len(successes),
		Failed:   len(eligible) - len(successes),
	}

	s.log.Info().
		Int("eligible", result.Eligible).
		Int("updated", result.Updated).
		Int("failed", result.Failed).
		Bool("force", force).
		Msg("Refresh cycle completed")

	return result, nil
}

// fetchAll fetches quotes for all codes concurrently and returns the
// successes. Each fetch is independent: a failure for one code is logged
// and dropped without aborting or delaying the others. The call returns
// only once every fetch has settled (fan-out/fan-in barrier).
func (s *RefreshService) fetchAll(ctx context.Context, codes []string) []model.Quote {
	var mu sync.Mutex
	quotes := make([]model.Quote, 0, len(codes))

	g := &errgroup.Group{}
	g.SetLimit(maxConcurrentFetches)

	for _, code := range codes {
		code := code
		g.Go(func() error {
			var q model.Quote
			var err error

			if model.ClassifyCode(code) == model.AssetTypeFund {
				q, err = s.fetcher.FetchFundQuote(ctx, code)
			} else {
				q, err = s.fetcher.FetchEquityQuote(ctx, code)
			}
			if err != nil {
				s.log.Debug().Err(err).Str("code", code).Msg("Quote fetch failed")
				return nil
			}
			if q.Price <= 0 {
				s.log.Debug().Str("code", code).Msg("Quote carried no usable price")
				return nil
			}

			mu.Lock()
			quotes = append(quotes, q)
			mu.Unlock()
			return nil
		})
	}

	// Goroutines never return errors; Wait is purely the barrier.
	_ = g.Wait()

	return quotes
}

// Name identifies the service as a scheduler job.
func (s *RefreshService) Name() string {
	return "price-refresh"
}

// Run executes a scheduled, non-forced refresh of all asset types. It
// satisfies the scheduler's Job interface; "nothing due" is a normal
// outcome for most of the day and is not an error.
func (s *RefreshService) Run() error {
	_, err := s.Refresh(context.Background(), false, model.TypeFilterAll)
	return err
}
