// Package analytics turns the raw payment collection into time-windowed
// aggregates, rankings and report inputs. Every function is a pure
// computation over its inputs; callers own the clock.
package analytics

import (
	"fmt"
	"time"

	"fournipay/internal/core"
)

// Period is a named analysis period selector.
type Period string

const (
	PeriodWeek    Period = "week"
	PeriodMonth   Period = "month"
	PeriodQuarter Period = "quarter"
	PeriodYear    Period = "year"
)

// ErrInvalidPeriodToken is returned for unrecognized period selectors.
// Resolution never silently falls back to all-time.
var ErrInvalidPeriodToken = fmt.Errorf("invalid period token")

// ResolvePeriod converts a named period into an absolute window ending at
// now. The lower bound is inclusive; the upper bound stays open (zero End)
// so records dated exactly "now" always match.
func ResolvePeriod(token Period, now time.Time) (core.PeriodWindow, error) {
	switch token {
	case PeriodWeek:
		return core.PeriodWindow{Start: now.AddDate(0, 0, -7)}, nil
	case PeriodMonth:
		return core.PeriodWindow{Start: addMonthsClamped(now, -1)}, nil
	case PeriodQuarter:
		return core.PeriodWindow{Start: addMonthsClamped(now, -3)}, nil
	case PeriodYear:
		return core.PeriodWindow{Start: now.AddDate(-1, 0, 0)}, nil
	}
	return core.PeriodWindow{}, fmt.Errorf("%w: %q", ErrInvalidPeriodToken, token)
}

// addMonthsClamped shifts t by n calendar months, clamping the day of month
// to the target month's length. time.AddDate would normalize Jan 31 - 1
// month into Jan 2/3 instead of Dec 31.
func addMonthsClamped(t time.Time, n int) time.Time {
	y, m, d := t.Date()
	m += time.Month(n)
	for m < time.January {
		m += 12
		y--
	}
	for m > time.December {
		m -= 12
		y++
	}
	if last := daysIn(y, m); d > last {
		d = last
	}
	h, min, sec := t.Clock()
	return time.Date(y, m, d, h, min, sec, t.Nanosecond(), t.Location())
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
