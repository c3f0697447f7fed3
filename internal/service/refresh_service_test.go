package service_test

import (
	"context"
	"testing"

	"github.com/steven6143/stock-profit-calculator/internal/model"
	"github.com/steven6143/stock-profit-calculator/internal/testutil"
)

// TestRefreshService_Refresh tests the refresh pipeline end to end over an
// in-memory database and a fake quote provider.
//
// WHY: this is the hardest subsystem — eligibility policy, concurrent
// fan-out, partial-failure tolerance and cache consistency all meet here.
func TestRefreshService_Refresh(t *testing.T) {
	t.Run("empty watchlist reports nothing due", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestServices(t, db, testutil.NewFakeQuoteFetcher(), testutil.FrozenCalendar(t, "2026-08-25 10:00"))

		result, err := svc.Refresh.Refresh(context.Background(), false, model.TypeFilterAll)
		if err != nil {
			t.Fatalf("Refresh() returned unexpected error: %v", err)
		}
		if !result.NothingDue {
			t.Errorf("Expected NothingDue, got %+v", result)
		}
	})

	t.Run("partial failure counts successes and failures per code", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		fetcher := testutil.NewFakeQuoteFetcher()
		svc := testutil.NewTestServices(t, db, fetcher, testutil.FrozenCalendar(t, "2026-08-25 10:00"))

		// Tuesday 10:00: all three equity codes are in the trading window.
		testutil.CreatePosition(t, db, "sh600519", 1500, 10)
		testutil.CreatePosition(t, db, "sz000001", 12, 100)
		testutil.CreatePosition(t, db, "sh600036", 30, 50)

		fetcher.SetQuote("sh600519", 1650, "")
		fetcher.SetQuote("sz000001", 13.5, "")
		fetcher.FailCode("sh600036")

		result, err := svc.Refresh.Refresh(context.Background(), false, model.TypeFilterAll)
		if err != nil {
			t.Fatalf("Refresh() returned unexpected error: %v", err)
		}

		if result.Eligible != 3 {
			t.Errorf("Expected 3 eligible, got %d", result.Eligible)
		}
		if result.Updated != 2 {
			t.Errorf("Expected 2 updated, got %d", result.Updated)
		}
		if result.Failed != 1 {
			t.Errorf("Expected 1 failed, got %d", result.Failed)
		}
		if result.NothingDue {
			t.Error("Expected NothingDue false")
		}

		// The two successes are cached; the failed code has no entry.
		prices, err := svc.Prices.GetBatch([]string{"sh600519", "sz000001", "sh600036"})
		if err != nil {
			t.Fatalf("GetBatch() returned unexpected error: %v", err)
		}
		if prices["sh600519"] != 1650 || prices["sz000001"] != 13.5 {
			t.Errorf("Expected fresh prices for successes, got %v", prices)
		}
		if _, ok := prices["sh600036"]; ok {
			t.Errorf("Expected no cached price for failed code, got %v", prices["sh600036"])
		}
	})

	t.Run("one failing code leaves a sibling's previous price untouched", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		fetcher := testutil.NewFakeQuoteFetcher()
		svc := testutil.NewTestServices(t, db, fetcher, testutil.FrozenCalendar(t, "2026-08-25 10:00"))

		testutil.CreatePosition(t, db, "sh600519", 1500, 10)
		testutil.SetCachedPrice(t, db, "sh600519", 1600)
		fetcher.FailCode("sh600519")

		result, err := svc.Refresh.Refresh(context.Background(), false, model.TypeFilterAll)
		if err != nil {
			t.Fatalf("Refresh() returned unexpected error: %v", err)
		}
		if result.Updated != 0 || result.Failed != 1 {
			t.Errorf("Expected 0 updated / 1 failed, got %+v", result)
		}

		// The stale price survives a failed cycle.
		price, ok, err := svc.Prices.Get("sh600519")
		if err != nil {
			t.Fatalf("Get() returned unexpected error: %v", err)
		}
		if !ok || price != 1600 {
			t.Errorf("Expected previous price 1600 to survive, got %v (present=%v)", price, ok)
		}
	})

	t.Run("equity codes outside the trading window are not fetched", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		fetcher := testutil.NewFakeQuoteFetcher()
		// Saturday 10:00: market closed.
		svc := testutil.NewTestServices(t, db, fetcher, testutil.FrozenCalendar(t, "2026-08-29 10:00"))

		testutil.CreatePosition(t, db, "sh600519", 1500, 10)
		fetcher.SetQuote("sh600519", 1650, "")

		result, err := svc.Refresh.Refresh(context.Background(), false, model.TypeFilterAll)
		if err != nil {
			t.Fatalf("Refresh() returned unexpected error: %v", err)
		}

		if !result.NothingDue {
			t.Errorf("Expected NothingDue on Saturday, got %+v", result)
		}
		if calls := fetcher.Calls(); len(calls) != 0 {
			t.Errorf("Expected no provider calls, got %v", calls)
		}
	})

	t.Run("fund codes are eligible in the evening window only", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		fetcher := testutil.NewFakeQuoteFetcher()
		fetcher.SetQuote("161725", 1.2345, "")

		morning := testutil.NewTestServices(t, db, fetcher, testutil.FrozenCalendar(t, "2026-08-25 10:00"))
		testutil.CreatePosition(t, db, "161725", 1.0, 1000)

		result, err := morning.Refresh.Refresh(context.Background(), false, model.TypeFilterAll)
		if err != nil {
			t.Fatalf("Refresh() returned unexpected error: %v", err)
		}
		if !result.NothingDue {
			t.Errorf("Expected NothingDue at 10:00 for a fund, got %+v", result)
		}

		evening := testutil.NewTestServices(t, db, fetcher, testutil.FrozenCalendar(t, "2026-08-25 21:00"))
		result, err = evening.Refresh.Refresh(context.Background(), false, model.TypeFilterAll)
		if err != nil {
			t.Fatalf("Refresh() returned unexpected error: %v", err)
		}
		if result.Updated != 1 {
			t.Errorf("Expected 1 updated at 21:00, got %+v", result)
		}
	})

	t.Run("force bypasses every window", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		fetcher := testutil.NewFakeQuoteFetcher()
		// Saturday night: neither window is open for equities.
		svc := testutil.NewTestServices(t, db, fetcher, testutil.FrozenCalendar(t, "2026-08-29 03:00"))

		testutil.CreatePosition(t, db, "sh600519", 1500, 10)
		testutil.CreatePosition(t, db, "161725", 1.0, 1000)
		fetcher.SetQuote("sh600519", 1650, "")
		fetcher.SetQuote("161725", 1.2345, "")

		result, err := svc.Refresh.Refresh(context.Background(), true, model.TypeFilterAll)
		if err != nil {
			t.Fatalf("Refresh() returned unexpected error: %v", err)
		}
		if result.Updated != 2 || result.Failed != 0 {
			t.Errorf("Expected 2 updated with force, got %+v", result)
		}
	})

	t.Run("type filter drops the other asset class", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		fetcher := testutil.NewFakeQuoteFetcher()
		svc := testutil.NewTestServices(t, db, fetcher, testutil.FrozenCalendar(t, "2026-08-25 10:00"))

		testutil.CreatePosition(t, db, "sh600519", 1500, 10)
		testutil.CreatePosition(t, db, "161725", 1.0, 1000)
		fetcher.SetQuote("sh600519", 1650, "")
		fetcher.SetQuote("161725", 1.2345, "")

		result, err := svc.Refresh.Refresh(context.Background(), true, model.TypeFilterFund)
		if err != nil {
			t.Fatalf("Refresh() returned unexpected error: %v", err)
		}
		if result.Eligible != 1 || result.Updated != 1 {
			t.Errorf("Expected only the fund to refresh, got %+v", result)
		}

		calls := fetcher.Calls()
		if len(calls) != 1 || calls[0] != "161725" {
			t.Errorf("Expected a single fund fetch, got %v", calls)
		}
	})

	t.Run("quote names sync back to positions best-effort", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		fetcher := testutil.NewFakeQuoteFetcher()
		svc := testutil.NewTestServices(t, db, fetcher, testutil.FrozenCalendar(t, "2026-08-25 10:00"))

		testutil.CreatePosition(t, db, "sh600519", 1500, 10)
		fetcher.SetQuote("sh600519", 1650, "贵州茅台")

		if _, err := svc.Refresh.Refresh(context.Background(), true, model.TypeFilterAll); err != nil {
			t.Fatalf("Refresh() returned unexpected error: %v", err)
		}

		var name string
		if err := db.QueryRow(`SELECT name FROM position WHERE code = ?`, "sh600519").Scan(&name); err != nil {
			t.Fatalf("Failed to read position name: %v", err)
		}
		if name != "贵州茅台" {
			t.Errorf("Expected synced name, got %q", name)
		}
	})

	t.Run("snapshot is recomputed from all cached prices, not just fetched ones", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		fetcher := testutil.NewFakeQuoteFetcher()
		svc := testutil.NewTestServices(t, db, fetcher, testutil.FrozenCalendar(t, "2026-08-25 10:00"))

		// One code fetched this cycle, one priced from a previous cycle.
		testutil.CreatePosition(t, db, "sh600519", 1500, 10)
		testutil.CreatePosition(t, db, "161725", 1.0, 1000)
		testutil.SetCachedPrice(t, db, "161725", 1.5)
		fetcher.SetQuote("sh600519", 1650, "")

		// Morning: only the equity is in window.
		if _, err := svc.Refresh.Refresh(context.Background(), false, model.TypeFilterAll); err != nil {
			t.Fatalf("Refresh() returned unexpected error: %v", err)
		}

		snapshot, err := svc.Portfolio.ReadSnapshot()
		if err != nil {
			t.Fatalf("ReadSnapshot() returned unexpected error: %v", err)
		}

		if len(snapshot.Items) != 2 {
			t.Fatalf("Expected 2 items, got %d", len(snapshot.Items))
		}
		for _, item := range snapshot.Items {
			if item.CurrentPrice == nil {
				t.Errorf("Expected a price for %s from the cache, got nil", item.Code)
			}
		}
	})

	t.Run("snapshot replaced even when nothing was fetched successfully", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		fetcher := testutil.NewFakeQuoteFetcher()
		svc := testutil.NewTestServices(t, db, fetcher, testutil.FrozenCalendar(t, "2026-08-25 10:00"))

		testutil.CreatePosition(t, db, "sh600519", 1500, 10)
		fetcher.FailCode("sh600519")

		if _, err := svc.Refresh.Refresh(context.Background(), false, model.TypeFilterAll); err != nil {
			t.Fatalf("Refresh() returned unexpected error: %v", err)
		}

		snapshot, err := svc.Portfolio.ReadSnapshot()
		if err != nil {
			t.Fatalf("ReadSnapshot() returned unexpected error: %v", err)
		}
		if len(snapshot.Items) != 1 {
			t.Errorf("Expected the snapshot to reflect current positions, got %+v", snapshot.Items)
		}
	})
}

// TestRefreshService_DatabaseErrors tests hard-failure propagation.
//
// WHY: storage failures must abort the cycle loudly, unlike per-code
// provider failures which are swallowed.
func TestRefreshService_DatabaseErrors(t *testing.T) {
	t.Run("unreadable position store fails the cycle", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestServices(t, db, testutil.NewFakeQuoteFetcher(), testutil.FrozenCalendar(t, "2026-08-25 10:00"))

		db.Close()

		_, err := svc.Refresh.Refresh(context.Background(), true, model.TypeFilterAll)
		if err == nil {
			t.Error("Expected error when database is closed, got nil")
		}
	})
}
