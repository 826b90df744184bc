package analytics

import (
	"strings"

	"fournipay/internal/core"
)

// Criteria holds the independently optional filter dimensions for the
// payment list and the dashboard. Present dimensions combine with AND.
type Criteria struct {
	Window     *core.PeriodWindow
	SupplierID string
	Method     core.PaymentMethod
	Category   core.PaymentCategory
	Search     string
}

// IsZero reports whether no dimension is set.
func (c Criteria) IsZero() bool {
	return c.Window == nil && c.SupplierID == "" && c.Method == "" && c.Category == "" && strings.TrimSpace(c.Search) == ""
}

// Key returns a stable cache key for the criteria.
func (c Criteria) Key() string {
	var b strings.Builder
	if c.Window != nil {
		b.WriteString(c.Window.Start.Format("2006-01-02"))
		b.WriteByte('|')
		if !c.Window.End.IsZero() {
			b.WriteString(c.Window.End.Format("2006-01-02"))
		}
	}
	b.WriteByte('|')
	b.WriteString(c.SupplierID)
	b.WriteByte('|')
	b.WriteString(string(c.Method))
	b.WriteByte('|')
	b.WriteString(string(c.Category))
	b.WriteByte('|')
	b.WriteString(strings.ToLower(strings.TrimSpace(c.Search)))
	return b.String()
}

// Filter returns the payments matching every set dimension of c, in the
// original order. The input is never mutated. Unknown enum values on the
// criteria match nothing (fail-closed); an empty search matches everything.
func Filter(payments []core.Payment, c Criteria) []core.Payment {
	search := strings.ToLower(strings.TrimSpace(c.Search))

	out := make([]core.Payment, 0, len(payments))
	for _, p := range payments {
		if c.Window != nil && !c.Window.Contains(p.Date) {
			continue
		}
		if c.SupplierID != "" && p.SupplierID != c.SupplierID {
			continue
		}
		if c.Method != "" && p.Method != c.Method {
			continue
		}
		if c.Category != "" && p.Category != c.Category {
			continue
		}
		if search != "" && !matchesSearch(p, search) {
			continue
		}
		out = append(out, p)
	}
	return out
}

func matchesSearch(p core.Payment, lowered string) bool {
	return strings.Contains(strings.ToLower(p.SupplierName), lowered) ||
		strings.Contains(strings.ToLower(p.Reference), lowered) ||
		strings.Contains(strings.ToLower(p.InvoiceNumber), lowered)
}
