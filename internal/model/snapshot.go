package model

import "time"

// PortfolioItem is the derived per-position profit/loss view.
//
// CurrentPrice is nil iff no cached price existed for the code when the
// snapshot was computed. That nullability propagates through MarketValue,
// Profit and ProfitPercent: an unknown price must never be rendered as 0,
// which would fabricate a false loss.
type PortfolioItem struct {
	ID            string    `json:"id"`
	Code          string    `json:"code"`
	Name          string    `json:"name"`
	AssetType     AssetType `json:"assetType"`
	CostPrice     float64   `json:"costPrice"`
	Shares        float64   `json:"shares"`
	CurrentPrice  *float64  `json:"currentPrice"`
	TotalCost     float64   `json:"totalCost"`
	MarketValue   *float64  `json:"marketValue"`
	Profit        *float64  `json:"profit"`
	ProfitPercent *float64  `json:"profitPercent"`
}

// PortfolioSummary aggregates totals across all items. Items with an
// unknown price contribute 0 to TotalMarketValue and TotalProfit but are
// always counted in TotalCost.
type PortfolioSummary struct {
	TotalCost          float64 `json:"totalCost"`
	TotalMarketValue   float64 `json:"totalMarketValue"`
	TotalProfit        float64 `json:"totalProfit"`
	TotalProfitPercent float64 `json:"totalProfitPercent"`
}

// PortfolioSnapshot is the precomputed aggregate of all positions joined
// with cached prices. It is derived data: fully replaced on every recompute
// and always regenerable from positions and the price cache, so it is safe
// to treat as a disposable cache.
type PortfolioSnapshot struct {
	Items      []PortfolioItem  `json:"items"`
	Summary    PortfolioSummary `json:"summary"`
	HasPrices  bool             `json:"hasPrices"`
	ComputedAt time.Time        `json:"computedAt"`
}

// EmptySnapshot returns the snapshot served before any computation has run
// (cold start). Callers get a valid zero-value aggregate, not an error.
func EmptySnapshot() PortfolioSnapshot {
	return PortfolioSnapshot{
		Items:     []PortfolioItem{},
		Summary:   PortfolioSummary{},
		HasPrices: false,
	}
}

// RefreshResult reports the outcome of one refresh cycle.
//
// NothingDue distinguishes "ran but no code was eligible" from "ran and
// every fetch failed"; both have Updated == 0 but mean different things to
// the caller.
type RefreshResult struct {
	Eligible   int  `json:"eligible"`
	Updated    int  `json:"updated"`
	Failed     int  `json:"failed"`
	NothingDue bool `json:"nothingDue"`
}
