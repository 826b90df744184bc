package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"fournipay/internal/core"
	"fournipay/internal/license"
	"fournipay/internal/records/memory"
	"fournipay/internal/report"
	sheetsmem "fournipay/internal/sheets/memory"
)

type okRenderer struct{ calls int }

func (r *okRenderer) Render(ctx context.Context, staging *report.Staging, opts report.Options) error {
	r.calls++
	return nil
}

func fixedNow() time.Time {
	return time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
}

func newTestServer(t *testing.T, plan string) (*Server, *memory.Store) {
	t.Helper()

	store := memory.New()
	store.Seed(
		[]core.Supplier{
			{ID: "s1", Name: "Atlas Distribution", ICE: "001", Category: "Équipements", Status: core.StatusActive},
			{ID: "s2", Name: "Bureau Plus", ICE: "002", Status: core.StatusActive},
		},
		[]core.Payment{
			{ID: "p1", SupplierID: "s1", SupplierName: "Atlas Distribution", Amount: core.Money{Cents: 750000},
				Date: core.NewDate(2024, 6, 10), Method: core.MethodBankTransfer, Category: core.CategoryPurchase, Reference: "VIR-1"},
			{ID: "p2", SupplierID: "s2", SupplierName: "Bureau Plus", Amount: core.Money{Cents: 250000},
				Date: core.NewDate(2024, 6, 12), Method: core.MethodCheque, Category: core.CategoryService, Reference: "CHQ-9"},
			{ID: "p3", SupplierID: "s1", SupplierName: "Atlas Distribution", Amount: core.Money{Cents: 100000},
				Date: core.NewDate(2023, 11, 2), Method: core.MethodCash, Category: core.CategoryOther},
		},
	)

	srv := NewServer(":0", Deps{
		Store:        store,
		Exporter:     report.NewExporter(&okRenderer{}, nil),
		Rankings:     sheetsmem.New(),
		Licenses:     license.NewStaticChecker(plan),
		Organization: "FourniPay SARL",
		Now:          fixedNow,
	})
	t.Cleanup(func() { srv.Shutdown(context.Background()) })
	return srv, store
}

func do(t *testing.T, srv *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	srv.Server.Handler.ServeHTTP(rr, req)
	return rr
}

func TestHealthEndpoints(t *testing.T) {
	srv, _ := newTestServer(t, license.PlanFree)

	for _, path := range []string{"/healthz", "/readyz"} {
		rr := do(t, srv, http.MethodGet, path, "")
		if rr.Code != http.StatusOK {
			t.Errorf("%s status = %d", path, rr.Code)
		}
	}
}

func TestSupplierCRUD(t *testing.T) {
	srv, _ := newTestServer(t, license.PlanFree)

	rr := do(t, srv, http.MethodPost, "/api/suppliers",
		`{"name":"Maroc Telecom","ice":"003","email":"contact@iam.ma","payment_terms_days":30}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body = %s", rr.Code, rr.Body)
	}
	if !strings.Contains(rr.Body.String(), "Maroc Telecom") {
		t.Errorf("create body = %s", rr.Body)
	}

	rr = do(t, srv, http.MethodGet, "/api/suppliers", "")
	if rr.Code != http.StatusOK || !strings.Contains(rr.Body.String(), `"count":3`) {
		t.Errorf("list status = %d, body = %s", rr.Code, rr.Body)
	}

	rr = do(t, srv, http.MethodGet, "/api/suppliers/s1", "")
	if rr.Code != http.StatusOK || !strings.Contains(rr.Body.String(), "Atlas Distribution") {
		t.Errorf("get status = %d, body = %s", rr.Code, rr.Body)
	}

	rr = do(t, srv, http.MethodPut, "/api/suppliers/s2",
		`{"name":"Bureau Plus Maroc","ice":"002","status":"inactive"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("update status = %d, body = %s", rr.Code, rr.Body)
	}

	rr = do(t, srv, http.MethodDelete, "/api/suppliers/s2", "")
	if rr.Code != http.StatusNoContent {
		t.Errorf("delete status = %d", rr.Code)
	}

	rr = do(t, srv, http.MethodGet, "/api/suppliers/s2", "")
	if rr.Code != http.StatusNotFound {
		t.Errorf("get deleted status = %d", rr.Code)
	}
}

func TestSupplierValidation(t *testing.T) {
	srv, _ := newTestServer(t, license.PlanFree)

	tests := []struct {
		name string
		body string
		want int
	}{
		{"missing name", `{"ice":"007"}`, http.StatusUnprocessableEntity},
		{"missing ice", `{"name":"X"}`, http.StatusUnprocessableEntity},
		{"bad email", `{"name":"X","ice":"007","email":"nope"}`, http.StatusUnprocessableEntity},
		{"bad status", `{"name":"X","ice":"007","status":"dormant"}`, http.StatusUnprocessableEntity},
		{"unknown field", `{"name":"X","ice":"007","plan":"pro"}`, http.StatusBadRequest},
		{"malformed json", `{`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := do(t, srv, http.MethodPost, "/api/suppliers", tt.body)
			if rr.Code != tt.want {
				t.Errorf("status = %d, want %d, body = %s", rr.Code, tt.want, rr.Body)
			}
		})
	}
}

func TestCreatePaymentSnapshotsSupplier(t *testing.T) {
	srv, _ := newTestServer(t, license.PlanFree)

	rr := do(t, srv, http.MethodPost, "/api/payments",
		`{"supplier_id":"s1","amount":"1234,56","date":"2024-06-14","method":"bank_transfer","category":"purchase","reference":"VIR-7"}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rr.Code, rr.Body)
	}
	body := rr.Body.String()
	if !strings.Contains(body, "Atlas Distribution") || !strings.Contains(body, `"001"`) {
		t.Errorf("supplier snapshot missing: %s", body)
	}
	if !strings.Contains(body, "1 234,56 MAD") {
		t.Errorf("formatted amount missing: %s", body)
	}
}

func TestCreatePaymentRejections(t *testing.T) {
	srv, _ := newTestServer(t, license.PlanFree)

	tests := []struct {
		name string
		body string
		want int
	}{
		{"unknown supplier", `{"supplier_id":"nope","amount":"10","date":"2024-06-14","method":"cash","category":"other"}`, http.StatusNotFound},
		{"bad amount", `{"supplier_id":"s1","amount":"abc","date":"2024-06-14","method":"cash","category":"other"}`, http.StatusUnprocessableEntity},
		{"bad date", `{"supplier_id":"s1","amount":"10","date":"14/06/2024","method":"cash","category":"other"}`, http.StatusUnprocessableEntity},
		{"bad method", `{"supplier_id":"s1","amount":"10","date":"2024-06-14","method":"paypal","category":"other"}`, http.StatusUnprocessableEntity},
		{"bad category", `{"supplier_id":"s1","amount":"10","date":"2024-06-14","method":"cash","category":"misc"}`, http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := do(t, srv, http.MethodPost, "/api/payments", tt.body)
			if rr.Code != tt.want {
				t.Errorf("status = %d, want %d, body = %s", rr.Code, tt.want, rr.Body)
			}
		})
	}
}

func TestListPaymentsFilters(t *testing.T) {
	srv, _ := newTestServer(t, license.PlanFree)

	rr := do(t, srv, http.MethodGet, "/api/payments", "")
	if !strings.Contains(rr.Body.String(), `"count":3`) {
		t.Errorf("unfiltered: %s", rr.Body)
	}

	// Month window keeps only June payments.
	rr = do(t, srv, http.MethodGet, "/api/payments?period=month", "")
	if !strings.Contains(rr.Body.String(), `"count":2`) {
		t.Errorf("month filter: %s", rr.Body)
	}

	rr = do(t, srv, http.MethodGet, "/api/payments?method=cheque", "")
	if !strings.Contains(rr.Body.String(), `"count":1`) {
		t.Errorf("method filter: %s", rr.Body)
	}

	// Unknown enum values match nothing rather than everything.
	rr = do(t, srv, http.MethodGet, "/api/payments?method=paypal", "")
	if !strings.Contains(rr.Body.String(), `"count":0`) {
		t.Errorf("unknown method should fail closed: %s", rr.Body)
	}

	rr = do(t, srv, http.MethodGet, "/api/payments?search=chq", "")
	if !strings.Contains(rr.Body.String(), `"count":1`) {
		t.Errorf("search filter: %s", rr.Body)
	}

	rr = do(t, srv, http.MethodGet, "/api/payments?period=fortnight", "")
	if rr.Code != http.StatusBadRequest {
		t.Errorf("invalid period status = %d", rr.Code)
	}
}

func TestDashboardStats(t *testing.T) {
	srv, _ := newTestServer(t, license.PlanFree)

	rr := do(t, srv, http.MethodGet, "/api/dashboard/stats", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	body := rr.Body.String()
	if !strings.Contains(body, `"total_cents":1100000`) {
		t.Errorf("total: %s", body)
	}
	if !strings.Contains(body, `"supplier_count":2`) {
		t.Errorf("supplier count: %s", body)
	}

	rr = do(t, srv, http.MethodGet, "/api/dashboard/stats?supplier=s1", "")
	if !strings.Contains(rr.Body.String(), `"total_cents":850000`) {
		t.Errorf("filtered total: %s", rr.Body)
	}
}

func TestDashboardCacheInvalidation(t *testing.T) {
	srv, store := newTestServer(t, license.PlanFree)

	rr := do(t, srv, http.MethodGet, "/api/dashboard/stats", "")
	if got := rr.Header().Get("X-Cache"); got != "MISS" {
		t.Errorf("first call X-Cache = %q", got)
	}

	rr = do(t, srv, http.MethodGet, "/api/dashboard/stats", "")
	if got := rr.Header().Get("X-Cache"); got != "HIT" {
		t.Errorf("second call X-Cache = %q", got)
	}

	// Any mutation bumps the record-set version and misses the cache.
	if _, err := store.AddPayment(context.Background(), core.Payment{
		SupplierID: "s1", SupplierName: "Atlas Distribution", Amount: core.Money{Cents: 5000},
		Date: core.NewDate(2024, 6, 14), Method: core.MethodCash, Category: core.CategoryOther,
	}); err != nil {
		t.Fatal(err)
	}

	rr = do(t, srv, http.MethodGet, "/api/dashboard/stats", "")
	if got := rr.Header().Get("X-Cache"); got != "MISS" {
		t.Errorf("after write X-Cache = %q", got)
	}
	if !strings.Contains(rr.Body.String(), `"total_cents":1105000`) {
		t.Errorf("stale total after write: %s", rr.Body)
	}
}

func TestDashboardTrendIgnoresFilters(t *testing.T) {
	srv, _ := newTestServer(t, license.PlanFree)

	rr := do(t, srv, http.MethodGet, "/api/dashboard/trend?supplier=s1&method=cheque", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	body := rr.Body.String()
	if strings.Count(body, `"label"`) != 12 {
		t.Errorf("want 12 buckets: %s", body)
	}
	// The November 2023 cash payment stays visible despite the filters.
	if !strings.Contains(body, `"total_cents":100000`) {
		t.Errorf("trend should span all payments: %s", body)
	}
}

func TestTopSuppliers(t *testing.T) {
	srv, _ := newTestServer(t, license.PlanFree)

	rr := do(t, srv, http.MethodGet, "/api/dashboard/top-suppliers", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	body := rr.Body.String()
	atlas := strings.Index(body, "Atlas Distribution")
	bureau := strings.Index(body, "Bureau Plus")
	if atlas == -1 || bureau == -1 || atlas > bureau {
		t.Errorf("ranking order: %s", body)
	}
	if !strings.Contains(body, `"badge":"leader"`) {
		t.Errorf("leader badge missing: %s", body)
	}

	rr = do(t, srv, http.MethodGet, "/api/dashboard/top-suppliers?limit=1", "")
	if strings.Contains(rr.Body.String(), "Bureau Plus") {
		t.Errorf("limit not applied: %s", rr.Body)
	}
}

func TestMethodDistribution(t *testing.T) {
	srv, _ := newTestServer(t, license.PlanFree)

	rr := do(t, srv, http.MethodGet, "/api/dashboard/methods", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	body := rr.Body.String()
	for _, label := range []string{"Virement bancaire", "Chèque", "Espèces"} {
		if !strings.Contains(body, label) {
			t.Errorf("missing method %q: %s", label, body)
		}
	}
}

func TestExportLicenseGate(t *testing.T) {
	srv, _ := newTestServer(t, license.PlanFree)

	for _, path := range []string{"/api/export/report", "/api/export/sheets"} {
		rr := do(t, srv, http.MethodPost, path, `{}`)
		if rr.Code != http.StatusForbidden {
			t.Errorf("%s on free plan status = %d", path, rr.Code)
		}
	}
}

func TestExportReport(t *testing.T) {
	srv, _ := newTestServer(t, license.PlanPro)

	rr := do(t, srv, http.MethodPost, "/api/export/report", `{"period":"month"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rr.Code, rr.Body)
	}
	if !strings.Contains(rr.Body.String(), "rapport_fournisseurs_2024-06-15.pdf") {
		t.Errorf("default file name: %s", rr.Body)
	}

	rr = do(t, srv, http.MethodPost, "/api/export/report", `{"file_name":"notes.txt"}`)
	if rr.Code != http.StatusUnprocessableEntity {
		t.Errorf("non-pdf file name status = %d", rr.Code)
	}

	rr = do(t, srv, http.MethodPost, "/api/export/report", `{"period":"decade"}`)
	if rr.Code != http.StatusUnprocessableEntity {
		t.Errorf("invalid period status = %d, body = %s", rr.Code, rr.Body)
	}
}

func TestExportSheets(t *testing.T) {
	srv, _ := newTestServer(t, license.PlanPro)

	rr := do(t, srv, http.MethodPost, "/api/export/sheets", `{}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rr.Code, rr.Body)
	}
	if !strings.Contains(rr.Body.String(), `"ref":"mem:1"`) {
		t.Errorf("ref: %s", rr.Body)
	}
	if !strings.Contains(rr.Body.String(), `"rows":2`) {
		t.Errorf("rows: %s", rr.Body)
	}
}

func TestRateLimiter(t *testing.T) {
	rl := newRateLimiter()
	defer rl.stop()

	for i := 0; i < requestsPerMinute; i++ {
		if !rl.allow("10.0.0.1") {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}
	if rl.allow("10.0.0.1") {
		t.Error("request over budget should be denied")
	}
	if !rl.allow("10.0.0.2") {
		t.Error("different client should not be affected")
	}
}
