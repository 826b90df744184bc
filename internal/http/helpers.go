package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"fournipay/internal/analytics"
	"fournipay/internal/core"
	"fournipay/internal/records"
)

const maxBodyBytes = 1 << 20

// clientIP extracts the caller's address, honoring proxy headers.
func clientIP(r *http.Request) string {
	if ip := r.Header.Get("X-Forwarded-For"); ip != "" {
		if i := strings.IndexByte(ip, ','); i >= 0 {
			return strings.TrimSpace(ip[:i])
		}
		return ip
	}
	if ip := r.Header.Get("X-Real-IP"); ip != "" {
		return ip
	}
	return r.RemoteAddr
}

// parseCriteria builds filter criteria from query parameters. Only the
// period selector can fail; unknown method or category values pass
// through and match nothing.
func parseCriteria(r *http.Request, now time.Time) (analytics.Criteria, error) {
	q := r.URL.Query()
	c := analytics.Criteria{
		SupplierID: strings.TrimSpace(q.Get("supplier")),
		Method:     core.PaymentMethod(strings.TrimSpace(q.Get("method"))),
		Category:   core.PaymentCategory(strings.TrimSpace(q.Get("category"))),
		Search:     q.Get("search"),
	}

	if token := strings.TrimSpace(q.Get("period")); token != "" {
		window, err := analytics.ResolvePeriod(analytics.Period(token), now)
		if err != nil {
			return analytics.Criteria{}, err
		}
		c.Window = &window
	}
	return c, nil
}

// parseLimit reads a positive integer limit with a default and upper cap.
func parseLimit(r *http.Request, def, max int) int {
	v := strings.TrimSpace(r.URL.Query().Get("limit"))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		return def
	}
	if n > max {
		return max
	}
	return n
}

func parseDate(dateStr string) (core.Date, error) {
	t, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		return core.Date{}, err
	}
	return core.Date{Time: t}, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// decodeJSON reads and validates a request body into dst.
func (s *Server) decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return false
	}
	if err := s.validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, fmt.Sprintf("%s (%s)", fe.Field(), fe.Tag()))
			}
			writeError(w, http.StatusUnprocessableEntity, "validation failed: "+strings.Join(fields, ", "))
		} else {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
		}
		return false
	}
	return true
}

// storeError maps record store failures to HTTP responses.
func storeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, records.ErrNotFound):
		writeError(w, http.StatusNotFound, "record not found")
	case errors.Is(err, core.ErrInvalidDate),
		errors.Is(err, core.ErrInvalidAmount),
		errors.Is(err, core.ErrInvalidMethod),
		errors.Is(err, core.ErrInvalidCategory),
		errors.Is(err, core.ErrInvalidStatus),
		errors.Is(err, core.ErrEmptyName),
		errors.Is(err, core.ErrEmptyICE),
		errors.Is(err, core.ErrEmptySupplierID):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		slog.ErrorContext(r.Context(), "Store operation failed", "error", err, "path", r.URL.Path)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
