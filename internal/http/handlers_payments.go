package http

import (
	"log/slog"
	"net/http"
	"strings"

	"fournipay/internal/analytics"
	"fournipay/internal/core"
	"fournipay/internal/report"
)

type paymentRequest struct {
	SupplierID    string `json:"supplier_id" validate:"required"`
	Amount        string `json:"amount" validate:"required"`
	Date          string `json:"date" validate:"required,datetime=2006-01-02"`
	Method        string `json:"method" validate:"required"`
	Category      string `json:"category" validate:"required"`
	Reference     string `json:"reference"`
	InvoiceNumber string `json:"invoice_number"`
	Description   string `json:"description"`
}

type paymentResponse struct {
	core.Payment
	AmountFormatted string `json:"amount_formatted"`
	MethodLabel     string `json:"method_label"`
	CategoryLabel   string `json:"category_label"`
}

func toPaymentResponse(p core.Payment) paymentResponse {
	return paymentResponse{
		Payment:         p,
		AmountFormatted: report.FormatMAD(p.Amount),
		MethodLabel:     p.Method.Label(),
		CategoryLabel:   p.Category.Label(),
	}
}

// handleListPayments returns payments matching the query filters, newest
// insertion last.
func (s *Server) handleListPayments(w http.ResponseWriter, r *http.Request) {
	criteria, err := parseCriteria(r, s.now())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	payments, err := s.store.Payments(r.Context())
	if err != nil {
		storeError(w, r, err)
		return
	}

	view := analytics.Filter(payments, criteria)
	out := make([]paymentResponse, 0, len(view))
	for _, p := range view {
		out = append(out, toPaymentResponse(p))
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"payments": out,
		"count":    len(out),
	})
}

func (s *Server) handleCreatePayment(w http.ResponseWriter, r *http.Request) {
	var req paymentRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	cents, err := core.ParseDecimalToCents(req.Amount)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid amount: "+err.Error())
		return
	}

	date, err := parseDate(req.Date)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid date: "+err.Error())
		return
	}

	method, err := core.ParseMethod(req.Method)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	category, err := core.ParseCategory(req.Category)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	// Snapshot supplier identity onto the payment record.
	sup, err := s.store.GetSupplier(r.Context(), req.SupplierID)
	if err != nil {
		storeError(w, r, err)
		return
	}

	p := core.Payment{
		SupplierID:    sup.ID,
		SupplierName:  sup.Name,
		SupplierICE:   sup.ICE,
		Amount:        core.Money{Cents: cents},
		Date:          date,
		Method:        method,
		Category:      category,
		Reference:     strings.TrimSpace(req.Reference),
		InvoiceNumber: strings.TrimSpace(req.InvoiceNumber),
		Description:   strings.TrimSpace(req.Description),
	}

	saved, err := s.store.AddPayment(r.Context(), p)
	if err != nil {
		storeError(w, r, err)
		return
	}

	slog.InfoContext(r.Context(), "Payment created",
		"payment_id", saved.ID,
		"supplier_id", saved.SupplierID,
		"amount_cents", saved.Amount.Cents)
	writeJSON(w, http.StatusCreated, toPaymentResponse(saved))
}

func (s *Server) handleDeletePayment(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := s.store.DeletePayment(r.Context(), id); err != nil {
		storeError(w, r, err)
		return
	}

	slog.InfoContext(r.Context(), "Payment deleted", "payment_id", id)
	w.WriteHeader(http.StatusNoContent)
}
