package analytics

import (
	"fmt"
	"time"

	"fournipay/internal/core"
)

// frenchShortMonths matches the labels the dashboard chart displays.
var frenchShortMonths = [...]string{
	"janv.", "févr.", "mars", "avr.", "mai", "juin",
	"juil.", "août", "sept.", "oct.", "nov.", "déc.",
}

// Summarize computes the headline totals over a filtered view. An empty
// view yields an all-zero summary; the average never divides by zero.
func Summarize(view []core.Payment) core.ScalarSummary {
	var total int64
	for _, p := range view {
		total += p.Amount.Cents
	}
	s := core.ScalarSummary{
		Total: core.Money{Cents: total},
		Count: len(view),
	}
	if s.Count > 0 {
		s.Average = core.Money{Cents: total / int64(s.Count)}
	}
	return s
}

// MonthlySeries computes the trailing 12-month evolution ending at and
// including the month of now. It always emits exactly 12 buckets in
// chronological order, zero-valued when a month has no payments.
//
// The series deliberately takes the entire record set rather than a
// filtered view: the dashboard shows a stable macro trend next to the
// filterable ranking.
func MonthlySeries(all []core.Payment, now time.Time) []core.MonthBucket {
	buckets := make([]core.MonthBucket, 0, 12)
	for i := 11; i >= 0; i-- {
		ref := addMonthsClamped(now, -i)
		year, month := ref.Year(), ref.Month()

		b := core.MonthBucket{
			Year:  year,
			Month: month,
			Label: fmt.Sprintf("%s %d", frenchShortMonths[month-1], year),
		}
		for _, p := range all {
			if p.Date.Year() == year && p.Date.Month() == month {
				b.Total.Cents += p.Amount.Cents
				b.Count++
			}
		}
		buckets = append(buckets, b)
	}
	return buckets
}

// GroupBySupplier aggregates the filtered view per supplier. Suppliers
// without matching payments are excluded. Group order follows the supplier
// collection order; ranking happens separately.
func GroupBySupplier(view []core.Payment, suppliers []core.Supplier) []core.GroupSummary {
	groups := make([]core.GroupSummary, 0, len(suppliers))
	for _, s := range suppliers {
		g := core.GroupSummary{Key: s.ID, Name: s.Name, Category: s.Category}
		for _, p := range view {
			if p.SupplierID != s.ID {
				continue
			}
			g.Total.Cents += p.Amount.Cents
			g.Count++
			if g.LastPayment.IsZero() || p.Date.After(g.LastPayment.Time) {
				g.LastPayment = p.Date
			}
		}
		if g.Total.Cents == 0 {
			continue
		}
		groups = append(groups, g)
	}
	return withPercentages(groups)
}

// GroupByMethod aggregates the filtered view per payment method, in the
// enum's declaration order. Methods without matching payments are excluded.
func GroupByMethod(view []core.Payment) []core.GroupSummary {
	methods := []core.PaymentMethod{
		core.MethodBankTransfer,
		core.MethodCheque,
		core.MethodCash,
		core.MethodPromissoryNote,
	}

	groups := make([]core.GroupSummary, 0, len(methods))
	for _, m := range methods {
		g := core.GroupSummary{Key: string(m), Name: m.Label()}
		for _, p := range view {
			if p.Method != m {
				continue
			}
			g.Total.Cents += p.Amount.Cents
			g.Count++
		}
		if g.Total.Cents == 0 {
			continue
		}
		groups = append(groups, g)
	}
	return withPercentages(groups)
}

// withPercentages fills each group's share of the grand total of the same
// call. A zero grand total leaves every percentage at 0.
func withPercentages(groups []core.GroupSummary) []core.GroupSummary {
	var grand int64
	for _, g := range groups {
		grand += g.Total.Cents
	}
	if grand == 0 {
		return groups
	}
	for i := range groups {
		groups[i].Percentage = float64(groups[i].Total.Cents) / float64(grand) * 100
	}
	return groups
}
