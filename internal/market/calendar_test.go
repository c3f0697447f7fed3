package market

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/steven6143/stock-profit-calculator/internal/model"
)

func mustCalendar(t *testing.T) *Calendar {
	t.Helper()
	cal, err := NewCalendar(DefaultTimezone)
	require.NoError(t, err)
	return cal
}

func localTime(t *testing.T, cal *Calendar, value string) time.Time {
	t.Helper()
	parsed, err := time.ParseInLocation("2006-01-02 15:04", value, cal.Location())
	require.NoError(t, err)
	return parsed
}

func TestInEquityWindow(t *testing.T) {
	cal := mustCalendar(t)

	// 2026-08-25 is a Tuesday, 2026-08-29 a Saturday.
	tests := []struct {
		name string
		when string
		want bool
	}{
		{"Tuesday mid-morning session", "2026-08-25 10:00", true},
		{"Tuesday morning open boundary", "2026-08-25 09:30", true},
		{"Tuesday just before morning open", "2026-08-25 09:29", false},
		{"Tuesday morning close boundary", "2026-08-25 11:30", true},
		{"Tuesday lunch break", "2026-08-25 12:00", false},
		{"Tuesday afternoon open boundary", "2026-08-25 13:00", true},
		{"Tuesday afternoon session", "2026-08-25 14:30", true},
		{"Tuesday afternoon close boundary", "2026-08-25 15:00", true},
		{"Tuesday after close", "2026-08-25 15:01", false},
		{"Tuesday evening", "2026-08-25 21:00", false},
		{"Saturday mid-morning", "2026-08-29 10:00", false},
		{"Sunday afternoon session hours", "2026-08-30 14:00", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cal.InEquityWindow(localTime(t, cal, tt.when)))
		})
	}
}

func TestInFundWindow(t *testing.T) {
	cal := mustCalendar(t)

	tests := []struct {
		name string
		when string
		want bool
	}{
		{"morning", "2026-08-25 10:00", false},
		{"just before window", "2026-08-25 19:59", false},
		{"window start", "2026-08-25 20:00", true},
		{"mid window", "2026-08-25 21:00", true},
		{"window end hour", "2026-08-25 23:59", true},
		{"midnight", "2026-08-26 00:00", false},
		{"weekend evening still counts", "2026-08-29 21:00", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cal.InFundWindow(localTime(t, cal, tt.when)))
		})
	}
}

func TestEligibleUsesInjectedClock(t *testing.T) {
	cal := mustCalendar(t)

	tradingHours := cal.WithClock(func() time.Time {
		return localTime(t, cal, "2026-08-25 10:00")
	})
	assert.True(t, tradingHours.Eligible(model.AssetTypeEquity))
	assert.False(t, tradingHours.Eligible(model.AssetTypeFund))

	evening := cal.WithClock(func() time.Time {
		return localTime(t, cal, "2026-08-25 21:00")
	})
	assert.False(t, evening.Eligible(model.AssetTypeEquity))
	assert.True(t, evening.Eligible(model.AssetTypeFund))
}

func TestWindowEvaluatesInMarketTimezone(t *testing.T) {
	cal := mustCalendar(t)

	// 02:00 UTC on a Tuesday is 10:00 in Shanghai — inside the morning session.
	utc := time.Date(2026, 8, 25, 2, 0, 0, 0, time.UTC)
	assert.True(t, cal.InEquityWindow(utc))
}

func TestNewCalendarRejectsUnknownTimezone(t *testing.T) {
	_, err := NewCalendar("Not/AZone")
	require.Error(t, err)
}
