package core

import "time"

// PeriodWindow is a resolved absolute date range backing a named period
// selector. Start is inclusive; a zero End means the window is open above.
// Derived on every call, never persisted.
type PeriodWindow struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether a payment date falls inside the window.
func (w PeriodWindow) Contains(d Date) bool {
	if d.Before(w.Start) {
		return false
	}
	if !w.End.IsZero() && d.After(w.End) {
		return false
	}
	return true
}

// ScalarSummary is the headline aggregate over a filtered view.
// Average is 0 when Count is 0.
type ScalarSummary struct {
	Total   Money
	Count   int
	Average Money
}

// MonthBucket is one point of the trailing 12-month series.
type MonthBucket struct {
	Year  int
	Month time.Month
	Label string // e.g. "janv. 2024"
	Total Money
	Count int
}

// GroupSummary is an aggregate keyed by a single dimension (supplier or
// payment method). Percentage is the group's share of the grand total of
// the same aggregation call.
type GroupSummary struct {
	Key        string
	Name       string
	Total      Money
	Count      int
	Percentage float64

	// Supplier-keyed groups only.
	LastPayment Date
	Category    string
}
