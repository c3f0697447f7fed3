package service_test

import (
	"errors"
	"testing"

	"github.com/steven6143/stock-profit-calculator/internal/apperrors"
	"github.com/steven6143/stock-profit-calculator/internal/model"
	"github.com/steven6143/stock-profit-calculator/internal/testutil"
)

// TestPositionService_SavePosition tests validated upserts.
//
// WHY: saves must reject bad input before any write and must keep upsert
// semantics — re-saving a code overwrites the economics but preserves the
// row's identity and creation time.
func TestPositionService_SavePosition(t *testing.T) {
	t.Run("rejects invalid input before any write", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestServices(t, db, testutil.NewFakeQuoteFetcher(), testutil.FrozenCalendar(t, "2026-08-25 10:00"))

		tests := []struct {
			name    string
			pos     model.Position
			wantErr error
		}{
			{"empty code", model.Position{CostPrice: 10, Shares: 1}, apperrors.ErrEmptyCode},
			{"zero cost", model.Position{Code: "sh600519", Shares: 1}, apperrors.ErrInvalidCostPrice},
			{"negative cost", model.Position{Code: "sh600519", CostPrice: -1, Shares: 1}, apperrors.ErrInvalidCostPrice},
			{"zero shares", model.Position{Code: "sh600519", CostPrice: 10}, apperrors.ErrInvalidShares},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := svc.Positions.SavePosition(tt.pos)
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("Expected %v, got %v", tt.wantErr, err)
				}
			})
		}

		var count int
		if err := db.QueryRow(`SELECT COUNT(*) FROM position`).Scan(&count); err != nil {
			t.Fatalf("Failed to count positions: %v", err)
		}
		if count != 0 {
			t.Errorf("Expected no rows written, got %d", count)
		}
	})

	t.Run("creates then upserts by code preserving identity", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestServices(t, db, testutil.NewFakeQuoteFetcher(), testutil.FrozenCalendar(t, "2026-08-25 10:00"))

		first, err := svc.Positions.SavePosition(model.Position{
			Code: "sh600519", Name: "Moutai", CostPrice: 1500, Shares: 10,
		})
		if err != nil {
			t.Fatalf("SavePosition() returned unexpected error: %v", err)
		}

		second, err := svc.Positions.SavePosition(model.Position{
			Code: "sh600519", Name: "Kweichow Moutai", CostPrice: 1550, Shares: 12,
		})
		if err != nil {
			t.Fatalf("SavePosition() returned unexpected error: %v", err)
		}

		if second.ID != first.ID {
			t.Errorf("Expected upsert to keep row ID %s, got %s", first.ID, second.ID)
		}
		if !second.CreatedAt.Equal(first.CreatedAt) {
			t.Errorf("Expected CreatedAt preserved (%v), got %v", first.CreatedAt, second.CreatedAt)
		}
		if second.Name != "Kweichow Moutai" || second.CostPrice != 1550 || second.Shares != 12 {
			t.Errorf("Expected overwritten fields, got %+v", second)
		}

		var count int
		if err := db.QueryRow(`SELECT COUNT(*) FROM position`).Scan(&count); err != nil {
			t.Fatalf("Failed to count positions: %v", err)
		}
		if count != 1 {
			t.Errorf("Expected a single row after re-save, got %d", count)
		}
	})
}

// TestPositionService_GetPosition tests the touch-on-read behavior behind
// "most recently viewed" ordering.
func TestPositionService_GetPosition(t *testing.T) {
	t.Run("returns not found for unknown code", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestServices(t, db, testutil.NewFakeQuoteFetcher(), testutil.FrozenCalendar(t, "2026-08-25 10:00"))

		_, err := svc.Positions.GetPosition("sh999999")
		if !errors.Is(err, apperrors.ErrPositionNotFound) {
			t.Errorf("Expected ErrPositionNotFound, got %v", err)
		}
	})

	t.Run("reading a position moves it to the front of the list", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestServices(t, db, testutil.NewFakeQuoteFetcher(), testutil.FrozenCalendar(t, "2026-08-25 10:00"))

		testutil.CreatePosition(t, db, "sh600519", 1500, 10)
		testutil.CreatePosition(t, db, "sz000001", 12, 100)

		// Backdate the first row so ordering is deterministic, then read it.
		if _, err := db.Exec(`UPDATE position SET updated_at = '2020-01-01T00:00:00Z' WHERE code = 'sh600519'`); err != nil {
			t.Fatalf("Failed to backdate position: %v", err)
		}

		if _, err := svc.Positions.GetPosition("sh600519"); err != nil {
			t.Fatalf("GetPosition() returned unexpected error: %v", err)
		}

		positions, err := svc.Positions.ListPositions()
		if err != nil {
			t.Fatalf("ListPositions() returned unexpected error: %v", err)
		}
		if len(positions) != 2 || positions[0].Code != "sh600519" {
			t.Errorf("Expected sh600519 first after read, got %+v", positions)
		}
	})
}

// TestPositionService_DeletePosition tests deletion and snapshot upkeep.
func TestPositionService_DeletePosition(t *testing.T) {
	t.Run("delete removes the row and refreshes the snapshot", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestServices(t, db, testutil.NewFakeQuoteFetcher(), testutil.FrozenCalendar(t, "2026-08-25 10:00"))

		testutil.CreatePosition(t, db, "sh600519", 1500, 10)
		if _, err := svc.Portfolio.RecomputeSnapshot(); err != nil {
			t.Fatalf("RecomputeSnapshot() returned unexpected error: %v", err)
		}

		if err := svc.Positions.DeletePosition("sh600519"); err != nil {
			t.Fatalf("DeletePosition() returned unexpected error: %v", err)
		}

		snapshot, err := svc.Portfolio.ReadSnapshot()
		if err != nil {
			t.Fatalf("ReadSnapshot() returned unexpected error: %v", err)
		}
		if len(snapshot.Items) != 0 {
			t.Errorf("Expected snapshot without the deleted position, got %+v", snapshot.Items)
		}
	})

	t.Run("deleting an unknown code reports not found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestServices(t, db, testutil.NewFakeQuoteFetcher(), testutil.FrozenCalendar(t, "2026-08-25 10:00"))

		err := svc.Positions.DeletePosition("sh999999")
		if !errors.Is(err, apperrors.ErrPositionNotFound) {
			t.Errorf("Expected ErrPositionNotFound, got %v", err)
		}
	})
}
