package service

import (
	"time"

	"github.com/steven6143/stock-profit-calculator/internal/model"
	"github.com/steven6143/stock-profit-calculator/internal/repository"
)

// PortfolioService computes and serves the precomputed portfolio snapshot.
// Readers never reach the quote providers: the hot path is a single read
// of the snapshot slot, and recomputation happens out of band after each
// refresh cycle or position write.
type PortfolioService struct {
	positionRepo *repository.PositionRepository
	prices       *PriceService
	snapshotRepo *repository.SnapshotRepository
}

// NewPortfolioService creates a new PortfolioService with the provided
// dependencies.
func NewPortfolioService(
	positionRepo *repository.PositionRepository,
	prices *PriceService,
	snapshotRepo *repository.SnapshotRepository,
) *PortfolioService {
	return &PortfolioService{
		positionRepo: positionRepo,
		prices:       prices,
		snapshotRepo: snapshotRepo,
	}
}

// ComputeSnapshot derives the portfolio snapshot from positions and a
// code→price map.
//
// It is a pure function: deterministic, side-effect free, and trivially
// testable without storage or network. Item ordering follows the input
// positions ordering (most-recently-touched first, as the repository
// returns them); no re-sorting happens here.
//
// Null propagation: an item whose code has no entry in prices gets nil
// CurrentPrice, MarketValue, Profit and ProfitPercent. Unknown prices are
// never coerced to zero — doing so would fabricate a 100% loss. Items with
// unknown prices still contribute their full cost to Summary.TotalCost and
// contribute 0 to the market-value and profit sums.
func ComputeSnapshot(positions []model.Position, prices map[string]float64) model.PortfolioSnapshot {
	snapshot := model.PortfolioSnapshot{
		Items:      make([]model.PortfolioItem, 0, len(positions)),
		ComputedAt: time.Now().UTC(),
	}

	for _, p := range positions {
		item := model.PortfolioItem{
			ID:        p.ID,
			Code:      p.Code,
			Name:      p.Name,
			AssetType: p.AssetType(),
			CostPrice: p.CostPrice,
			Shares:    p.Shares,
			TotalCost: p.CostPrice * p.Shares,
		}

		if price, ok := prices[p.Code]; ok {
			current := price
			marketValue := current * p.Shares
			profit := marketValue - item.TotalCost

			item.CurrentPrice = &current
			item.MarketValue = &marketValue
			item.Profit = &profit

			if item.TotalCost > 0 {
				pct := profit / item.TotalCost * 100
				item.ProfitPercent = &pct
			}

			snapshot.HasPrices = true
			snapshot.Summary.TotalMarketValue += marketValue
			snapshot.Summary.TotalProfit += profit
		}

		snapshot.Summary.TotalCost += item.TotalCost
		snapshot.Items = append(snapshot.Items, item)
	}

	if snapshot.Summary.TotalCost > 0 {
		snapshot.Summary.TotalProfitPercent =
			snapshot.Summary.TotalProfit / snapshot.Summary.TotalCost * 100
	}

	return snapshot
}

// RecomputeSnapshot rebuilds the snapshot from current positions and
// cached prices and replaces the singleton slot. All positions are priced
// from the cache, not just freshly fetched ones, so a code that missed
// this cycle still shows its last known price.
//
// Recomputation is cheap and idempotent; callers run it unconditionally
// after every refresh cycle and position write.
func (s *PortfolioService) RecomputeSnapshot() (model.PortfolioSnapshot, error) {
	positions, err := s.positionRepo.GetPositions()
	if err != nil {
		return model.PortfolioSnapshot{}, err
	}

	codes := make([]string, len(positions))
	for i, p := range positions {
		codes[i] = p.Code
	}

	prices, err := s.prices.GetBatch(codes)
	if err != nil {
		return model.PortfolioSnapshot{}, err
	}

	snapshot := ComputeSnapshot(positions, prices)

	if err := s.snapshotRepo.Save(snapshot); err != nil {
		return model.PortfolioSnapshot{}, err
	}

	return snapshot, nil
}

// ReadSnapshot returns the stored snapshot. On cold start, before any
// recompute has run, it returns an empty-but-valid snapshot rather than
// an error.
func (s *PortfolioService) ReadSnapshot() (model.PortfolioSnapshot, error) {
	snapshot, err := s.snapshotRepo.Load()
	if err != nil {
		if isNotFound(err) {
			return model.EmptySnapshot(), nil
		}
		return model.PortfolioSnapshot{}, err
	}
	return snapshot, nil
}
