package testutil

import (
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/steven6143/stock-profit-calculator/internal/cache"
	"github.com/steven6143/stock-profit-calculator/internal/market"
	"github.com/steven6143/stock-profit-calculator/internal/model"
	"github.com/steven6143/stock-profit-calculator/internal/repository"
	"github.com/steven6143/stock-profit-calculator/internal/service"
)

// NopLogger returns a logger that discards everything.
func NopLogger() zerolog.Logger {
	return zerolog.Nop()
}

// CreatePosition inserts a position row and returns it. Zero CostPrice
// and Shares get sensible defaults so tests only spell out what they
// assert on.
func CreatePosition(t *testing.T, db *sql.DB, code string, costPrice, shares float64) model.Position {
	t.Helper()

	if costPrice == 0 {
		costPrice = 100
	}
	if shares == 0 {
		shares = 10
	}

	p := model.Position{
		ID:        uuid.New().String(),
		Code:      code,
		Name:      "Test " + code,
		CostPrice: costPrice,
		Shares:    shares,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}

	_, err := db.Exec(
		`INSERT INTO position (id, code, name, cost_price, shares, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Code, p.Name, p.CostPrice, p.Shares,
		p.CreatedAt.Format(time.RFC3339), p.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		t.Fatalf("Failed to insert test position %s: %v", code, err)
	}

	return p
}

// SetCachedPrice inserts or replaces a durable price cache row.
func SetCachedPrice(t *testing.T, db *sql.DB, code string, price float64) {
	t.Helper()

	_, err := db.Exec(
		`INSERT INTO price_cache (code, price, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(code) DO UPDATE SET price = excluded.price, updated_at = excluded.updated_at`,
		code, price, time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		t.Fatalf("Failed to insert test price for %s: %v", code, err)
	}
}

// FrozenCalendar returns a market calendar whose clock always reads the
// given local market time, parsed as "2006-01-02 15:04".
func FrozenCalendar(t *testing.T, localTime string) *market.Calendar {
	t.Helper()

	cal, err := market.NewCalendar(market.DefaultTimezone)
	if err != nil {
		t.Fatalf("Failed to create market calendar: %v", err)
	}

	frozen, err := time.ParseInLocation("2006-01-02 15:04", localTime, cal.Location())
	if err != nil {
		t.Fatalf("Failed to parse frozen time %q: %v", localTime, err)
	}

	return cal.WithClock(func() time.Time { return frozen })
}

// Services bundles the wired service layer for integration-style tests.
type Services struct {
	Positions *service.PositionService
	Portfolio *service.PortfolioService
	Refresh   *service.RefreshService
	Prices    *service.PriceService
}

// NewTestServices wires the full service stack over the given database,
// quote fetcher and calendar, with an isolated in-memory price tier.
func NewTestServices(t *testing.T, db *sql.DB, fetcher service.QuoteFetcher, cal *market.Calendar) Services {
	t.Helper()

	positionRepo := repository.NewPositionRepository(db)
	priceRepo := repository.NewPriceCacheRepository(db)
	snapshotRepo := repository.NewSnapshotRepository(db)

	prices := service.NewPriceService(cache.NewMemoryPriceCache(0), priceRepo)
	portfolio := service.NewPortfolioService(positionRepo, prices, snapshotRepo)
	refresh := service.NewRefreshService(positionRepo, prices, portfolio, fetcher, cal, NopLogger())
	positions := service.NewPositionService(positionRepo, portfolio, refresh, NopLogger())

	return Services{
		Positions: positions,
		Portfolio: portfolio,
		Refresh:   refresh,
		Prices:    prices,
	}
}
