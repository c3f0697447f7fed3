package service

import (
	"github.com/steven6143/stock-profit-calculator/internal/cache"
	"github.com/steven6143/stock-profit-calculator/internal/repository"
)

// PriceService layers the ephemeral in-memory price tier in front of the
// durable price cache.
//
// Reads consult memory first and fall through to the database for misses;
// writes go to the database first (the authoritative tier) and only then
// to memory, so a crash between the two writes can never leave memory
// holding a price the database lost.
type PriceService struct {
	memory *cache.MemoryPriceCache
	repo   *repository.PriceCacheRepository
}

// NewPriceService creates a new PriceService over the given tiers.
func NewPriceService(memory *cache.MemoryPriceCache, repo *repository.PriceCacheRepository) *PriceService {
	return &PriceService{
		memory: memory,
		repo:   repo,
	}
}

// Get returns the current cached price for a code and whether one exists.
// An expired memory entry is not an absence: the durable tier is consulted
// before reporting a miss.
func (s *PriceService) Get(code string) (float64, bool, error) {
	if price, ok := s.memory.Get(code); ok {
		return price, true, nil
	}

	cp, err := s.repo.Get(code)
	if err != nil {
		if isNotFound(err) {
			return 0, false, nil
		}
		return 0, false, err
	}

	s.memory.Set(code, cp.Price)
	return cp.Price, true, nil
}

// GetBatch returns cached prices for the given codes. Codes with no entry
// in either tier are absent from the result map. Memory hits are served
// without touching the database; only the misses are batch-read.
func (s *PriceService) GetBatch(codes []string) (map[string]float64, error) {
	prices := make(map[string]float64, len(codes))
	misses := make([]string, 0, len(codes))

	for _, code := range codes {
		if price, ok := s.memory.Get(code); ok {
			prices[code] = price
		} else {
			misses = append(misses, code)
		}
	}

	if len(misses) > 0 {
		stored, err := s.repo.GetBatch(misses)
		if err != nil {
			return nil, err
		}
		for code, price := range stored {
			prices[code] = price
			s.memory.Set(code, price)
		}
	}

	return prices, nil
}

// SetBatch writes all prices through both tiers: the durable cache in one
// batched upsert, then the memory tier.
func (s *PriceService) SetBatch(prices map[string]float64) error {
	if len(prices) == 0 {
		return nil
	}

	if err := s.repo.SetBatch(prices); err != nil {
		return err
	}

	s.memory.SetBatch(prices)
	return nil
}
