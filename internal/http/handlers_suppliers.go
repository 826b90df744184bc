package http

import (
	"log/slog"
	"net/http"
	"strings"

	"fournipay/internal/core"
)

type supplierRequest struct {
	Name             string `json:"name" validate:"required"`
	ICE              string `json:"ice" validate:"required"`
	RC               string `json:"rc"`
	IF               string `json:"if"`
	Address          string `json:"address"`
	Phone            string `json:"phone"`
	Email            string `json:"email" validate:"omitempty,email"`
	Website          string `json:"website" validate:"omitempty,url"`
	ContactPerson    string `json:"contact_person"`
	PaymentTermsDays int    `json:"payment_terms_days" validate:"gte=0,lte=365"`
	Category         string `json:"category"`
	Status           string `json:"status" validate:"omitempty,oneof=active inactive"`
}

func (req supplierRequest) toDomain(id string) core.Supplier {
	status := core.SupplierStatus(req.Status)
	if status == "" {
		status = core.StatusActive
	}
	return core.Supplier{
		ID:               id,
		Name:             strings.TrimSpace(req.Name),
		ICE:              strings.TrimSpace(req.ICE),
		RC:               strings.TrimSpace(req.RC),
		IF:               strings.TrimSpace(req.IF),
		Address:          strings.TrimSpace(req.Address),
		Phone:            strings.TrimSpace(req.Phone),
		Email:            strings.TrimSpace(req.Email),
		Website:          strings.TrimSpace(req.Website),
		ContactPerson:    strings.TrimSpace(req.ContactPerson),
		PaymentTermsDays: req.PaymentTermsDays,
		Category:         strings.TrimSpace(req.Category),
		Status:           status,
	}
}

func (s *Server) handleListSuppliers(w http.ResponseWriter, r *http.Request) {
	suppliers, err := s.store.Suppliers(r.Context())
	if err != nil {
		storeError(w, r, err)
		return
	}

	if status := strings.TrimSpace(r.URL.Query().Get("status")); status != "" {
		filtered := make([]core.Supplier, 0, len(suppliers))
		for _, sup := range suppliers {
			if string(sup.Status) == status {
				filtered = append(filtered, sup)
			}
		}
		suppliers = filtered
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"suppliers": suppliers,
		"count":     len(suppliers),
	})
}

func (s *Server) handleGetSupplier(w http.ResponseWriter, r *http.Request) {
	sup, err := s.store.GetSupplier(r.Context(), r.PathValue("id"))
	if err != nil {
		storeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sup)
}

func (s *Server) handleCreateSupplier(w http.ResponseWriter, r *http.Request) {
	var req supplierRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	sup, err := s.store.AddSupplier(r.Context(), req.toDomain(""))
	if err != nil {
		storeError(w, r, err)
		return
	}

	slog.InfoContext(r.Context(), "Supplier created", "supplier_id", sup.ID, "name", sup.Name)
	writeJSON(w, http.StatusCreated, sup)
}

func (s *Server) handleUpdateSupplier(w http.ResponseWriter, r *http.Request) {
	var req supplierRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	sup := req.toDomain(r.PathValue("id"))
	if err := s.store.UpdateSupplier(r.Context(), sup); err != nil {
		storeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sup)
}

func (s *Server) handleDeleteSupplier(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := s.store.DeleteSupplier(r.Context(), id); err != nil {
		storeError(w, r, err)
		return
	}

	slog.InfoContext(r.Context(), "Supplier deleted", "supplier_id", id)
	w.WriteHeader(http.StatusNoContent)
}
