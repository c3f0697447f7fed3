// Package market implements the refresh-window policy: the time-of-day and
// day-of-week rules that decide whether a live quote fetch is worthwhile
// for a given asset type.
package market

import (
	"fmt"
	"time"

	"github.com/steven6143/stock-profit-calculator/internal/model"
)

// DefaultTimezone is the market's local timezone. Equity trading windows
// and fund publication hours are both evaluated in this zone.
const DefaultTimezone = "Asia/Shanghai"

// minuteOfDay converts a local time to minutes since midnight.
func minuteOfDay(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}

// Trading session boundaries, minutes since midnight, endpoints inclusive.
var (
	morningOpen    = 9*60 + 30  // 09:30
	morningClose   = 11*60 + 30 // 11:30
	afternoonOpen  = 13 * 60    // 13:00
	afternoonClose = 15 * 60    // 15:00
)

// Fund valuations are published in the evening; refreshing outside these
// local hours only re-reads yesterday's NAV.
const (
	fundWindowStartHour = 20
	fundWindowEndHour   = 23
)

// Calendar evaluates refresh eligibility against a fixed market timezone.
// The clock is injectable so window logic is testable with frozen times.
type Calendar struct {
	loc *time.Location
	now func() time.Time
}

// NewCalendar loads the given timezone identifier and returns a calendar
// bound to it. An empty name selects DefaultTimezone.
func NewCalendar(timezone string) (*Calendar, error) {
	if timezone == "" {
		timezone = DefaultTimezone
	}
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("failed to load market timezone %q: %w", timezone, err)
	}
	return &Calendar{loc: loc, now: time.Now}, nil
}

// WithClock returns a copy of the calendar that reads time from the given
// function instead of time.Now. Used by tests.
func (c *Calendar) WithClock(now func() time.Time) *Calendar {
	return &Calendar{loc: c.loc, now: now}
}

// Location returns the market timezone the calendar evaluates in.
func (c *Calendar) Location() *time.Location {
	return c.loc
}

// InEquityWindow reports whether the given instant falls inside an equity
// trading session: Monday through Friday, 09:30-11:30 or 13:00-15:00 local
// market time, both endpoints inclusive, minute granularity.
//
// Exchange holidays are not modelled; a holiday weekday counts as open and
// the fetch simply returns the last close.
func (c *Calendar) InEquityWindow(t time.Time) bool {
	local := t.In(c.loc)
	switch local.Weekday() {
	case time.Saturday, time.Sunday:
		return false
	}
	m := minuteOfDay(local)
	return (m >= morningOpen && m <= morningClose) ||
		(m >= afternoonOpen && m <= afternoonClose)
}

// InFundWindow reports whether the given instant falls inside the evening
// hours when fund end-of-day valuations are published (local hour 20-23
// inclusive).
func (c *Calendar) InFundWindow(t time.Time) bool {
	h := t.In(c.loc).Hour()
	return h >= fundWindowStartHour && h <= fundWindowEndHour
}

// Eligible reports whether a code of the given asset type is due for a live
// fetch right now.
func (c *Calendar) Eligible(assetType model.AssetType) bool {
	now := c.now()
	if assetType == model.AssetTypeFund {
		return c.InFundWindow(now)
	}
	return c.InEquityWindow(now)
}
