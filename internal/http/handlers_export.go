package http

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"fournipay/internal/analytics"
	"fournipay/internal/core"
	"fournipay/internal/license"
	"fournipay/internal/report"
)

type exportRequest struct {
	Period     string `json:"period" validate:"omitempty,oneof=week month quarter year"`
	SupplierID string `json:"supplier_id"`
	Method     string `json:"method"`
	Category   string `json:"category"`
	Search     string `json:"search"`
	FileName   string `json:"file_name" validate:"omitempty,endswith=.pdf"`
}

func (req exportRequest) criteria(s *Server) (analytics.Criteria, error) {
	c := analytics.Criteria{
		SupplierID: strings.TrimSpace(req.SupplierID),
		Method:     core.PaymentMethod(strings.TrimSpace(req.Method)),
		Category:   core.PaymentCategory(strings.TrimSpace(req.Category)),
		Search:     req.Search,
	}

	if token := strings.TrimSpace(req.Period); token != "" {
		window, err := analytics.ResolvePeriod(analytics.Period(token), s.now())
		if err != nil {
			return analytics.Criteria{}, err
		}
		c.Window = &window
	}
	return c, nil
}

// requireFeature gates an export endpoint on the license plan.
func (s *Server) requireFeature(w http.ResponseWriter, r *http.Request, f license.Feature) bool {
	if s.licenses == nil || s.licenses.HasAccess(f) {
		return true
	}
	slog.WarnContext(r.Context(), "Feature not licensed",
		"feature", string(f),
		"plan", s.licenses.Plan())
	writeError(w, http.StatusForbidden, fmt.Sprintf("feature %q requires the pro plan", f))
	return false
}

// handleExportReport renders the supplier report for the requested
// filter view and hands it to the PDF collaborator.
func (s *Server) handleExportReport(w http.ResponseWriter, r *http.Request) {
	if !s.requireFeature(w, r, license.FeaturePDFExport) {
		return
	}
	if s.exporter == nil {
		writeError(w, http.StatusServiceUnavailable, "report export not configured")
		return
	}

	var req exportRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	criteria, err := req.criteria(s)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	payments, err := s.store.Payments(r.Context())
	if err != nil {
		storeError(w, r, err)
		return
	}
	suppliers, err := s.store.Suppliers(r.Context())
	if err != nil {
		storeError(w, r, err)
		return
	}

	view := analytics.Filter(payments, criteria)
	groups := analytics.GroupBySupplier(view, suppliers)

	meta := report.Meta{Organization: s.organization, GeneratedAt: s.now()}
	data := report.Compose(meta, suppliers, view, groups)

	fileName := strings.TrimSpace(req.FileName)
	if fileName == "" {
		fileName = fmt.Sprintf("rapport_fournisseurs_%s.pdf", s.now().Format("2006-01-02"))
	}

	if err := s.exporter.Export(r.Context(), data, report.DefaultOptions(fileName)); err != nil {
		slog.ErrorContext(r.Context(), "Report export failed", "error", err, "file", fileName)
		writeError(w, http.StatusBadGateway, "report rendering failed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"file_name": fileName,
		"suppliers": data.SupplierCount,
		"payments":  data.Summary.Count,
	})
}

// handleExportSheets writes the current supplier ranking to the
// configured spreadsheet.
func (s *Server) handleExportSheets(w http.ResponseWriter, r *http.Request) {
	if !s.requireFeature(w, r, license.FeatureSheetsExport) {
		return
	}
	if s.rankings == nil {
		writeError(w, http.StatusServiceUnavailable, "spreadsheet export not configured")
		return
	}

	var req exportRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	criteria, err := req.criteria(s)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	payments, err := s.store.Payments(r.Context())
	if err != nil {
		storeError(w, r, err)
		return
	}
	suppliers, err := s.store.Suppliers(r.Context())
	if err != nil {
		storeError(w, r, err)
		return
	}

	groups := analytics.GroupBySupplier(analytics.Filter(payments, criteria), suppliers)
	ranked := analytics.Rank(groups, 10)

	ref, err := s.rankings.WriteRanking(r.Context(), s.now(), ranked)
	if err != nil {
		slog.ErrorContext(r.Context(), "Spreadsheet export failed", "error", err)
		writeError(w, http.StatusBadGateway, "spreadsheet export failed")
		return
	}

	slog.InfoContext(r.Context(), "Ranking exported", "sheets_ref", ref, "rows", len(ranked))
	writeJSON(w, http.StatusOK, map[string]any{"ref": ref, "rows": len(ranked)})
}
