package http

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"fournipay/internal/analytics"
	"fournipay/internal/core"
	"fournipay/internal/report"
)

type statsResponse struct {
	TotalCents       int64  `json:"total_cents"`
	TotalFormatted   string `json:"total_formatted"`
	Count            int    `json:"count"`
	AverageCents     int64  `json:"average_cents"`
	AverageFormatted string `json:"average_formatted"`
	SupplierCount    int    `json:"supplier_count"`
}

type trendPoint struct {
	Year       int    `json:"year"`
	Month      int    `json:"month"`
	Label      string `json:"label"`
	TotalCents int64  `json:"total_cents"`
	Count      int    `json:"count"`
}

type groupEntry struct {
	Key            string  `json:"key"`
	Name           string  `json:"name"`
	TotalCents     int64   `json:"total_cents"`
	TotalFormatted string  `json:"total_formatted"`
	Count          int     `json:"count"`
	Percentage     float64 `json:"percentage"`
	LastPayment    string  `json:"last_payment,omitempty"`
	Category       string  `json:"category,omitempty"`
	Rank           int     `json:"rank,omitempty"`
	Badge          string  `json:"badge,omitempty"`
}

// cachedJSON serves the endpoint from the response cache when the filter
// criteria and record-set version both match, rebuilding otherwise.
func (s *Server) cachedJSON(w http.ResponseWriter, r *http.Request, endpoint string, criteria analytics.Criteria, build func() (any, error)) {
	version, err := s.store.Version(r.Context())
	if err != nil {
		storeError(w, r, err)
		return
	}

	key := fmt.Sprintf("%s|%s|%d", endpoint, criteria.Key(), version)
	if body, ok := s.respCache.Get(key); ok {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.Header().Set("X-Cache", "HIT")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(body)
		return
	}

	payload, err := build()
	if err != nil {
		storeError(w, r, err)
		return
	}

	body, err := json.Marshal(payload)
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to marshal dashboard payload", "error", err, "endpoint", endpoint)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	s.respCache.Set(key, body)

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("X-Cache", "MISS")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

func (s *Server) handleDashboardStats(w http.ResponseWriter, r *http.Request) {
	criteria, err := parseCriteria(r, s.now())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.cachedJSON(w, r, "stats", criteria, func() (any, error) {
		payments, err := s.store.Payments(r.Context())
		if err != nil {
			return nil, err
		}
		suppliers, err := s.store.Suppliers(r.Context())
		if err != nil {
			return nil, err
		}

		summary := analytics.Summarize(analytics.Filter(payments, criteria))
		return statsResponse{
			TotalCents:       summary.Total.Cents,
			TotalFormatted:   report.FormatMAD(summary.Total),
			Count:            summary.Count,
			AverageCents:     summary.Average.Cents,
			AverageFormatted: report.FormatMAD(summary.Average),
			SupplierCount:    len(suppliers),
		}, nil
	})
}

// handleDashboardTrend returns the trailing 12-month series. The series
// always spans the full payment collection, ignoring filters, so the
// trend stays comparable across filter changes.
func (s *Server) handleDashboardTrend(w http.ResponseWriter, r *http.Request) {
	s.cachedJSON(w, r, "trend", analytics.Criteria{}, func() (any, error) {
		payments, err := s.store.Payments(r.Context())
		if err != nil {
			return nil, err
		}

		buckets := analytics.MonthlySeries(payments, s.now())
		points := make([]trendPoint, 0, len(buckets))
		for _, b := range buckets {
			points = append(points, trendPoint{
				Year:       b.Year,
				Month:      int(b.Month),
				Label:      b.Label,
				TotalCents: b.Total.Cents,
				Count:      b.Count,
			})
		}
		return map[string]any{"months": points}, nil
	})
}

func (s *Server) handleTopSuppliers(w http.ResponseWriter, r *http.Request) {
	criteria, err := parseCriteria(r, s.now())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	limit := parseLimit(r, 10, 50)

	s.cachedJSON(w, r, fmt.Sprintf("top-suppliers:%d", limit), criteria, func() (any, error) {
		payments, err := s.store.Payments(r.Context())
		if err != nil {
			return nil, err
		}
		suppliers, err := s.store.Suppliers(r.Context())
		if err != nil {
			return nil, err
		}

		groups := analytics.GroupBySupplier(analytics.Filter(payments, criteria), suppliers)
		ranked := analytics.Rank(groups, limit)

		entries := make([]groupEntry, 0, len(ranked))
		for _, g := range ranked {
			entries = append(entries, rankedEntry(g))
		}
		return map[string]any{"suppliers": entries}, nil
	})
}

func (s *Server) handleMethodDistribution(w http.ResponseWriter, r *http.Request) {
	criteria, err := parseCriteria(r, s.now())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.cachedJSON(w, r, "methods", criteria, func() (any, error) {
		payments, err := s.store.Payments(r.Context())
		if err != nil {
			return nil, err
		}

		groups := analytics.GroupByMethod(analytics.Filter(payments, criteria))
		entries := make([]groupEntry, 0, len(groups))
		for _, g := range groups {
			entries = append(entries, plainEntry(g))
		}
		return map[string]any{"methods": entries}, nil
	})
}

func plainEntry(g core.GroupSummary) groupEntry {
	e := groupEntry{
		Key:            g.Key,
		Name:           g.Name,
		TotalCents:     g.Total.Cents,
		TotalFormatted: report.FormatMAD(g.Total),
		Count:          g.Count,
		Percentage:     g.Percentage,
		Category:       g.Category,
	}
	if !g.LastPayment.IsZero() {
		e.LastPayment = report.FormatDate(g.LastPayment.Time)
	}
	return e
}

func rankedEntry(g analytics.RankedGroup) groupEntry {
	e := plainEntry(g.GroupSummary)
	e.Rank = g.Rank
	e.Badge = string(g.Badge)
	return e
}
