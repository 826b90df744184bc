// Package http exposes the payment analytics engine as a JSON API.
package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"

	"fournipay/internal/cache"
	"fournipay/internal/license"
	"fournipay/internal/middleware/trace"
	"fournipay/internal/records"
	"fournipay/internal/report"
	"fournipay/internal/sheets"
)

// Deps bundles the collaborators behind the API.
type Deps struct {
	Store        records.Store
	Exporter     *report.Exporter
	Rankings     sheets.RankingWriter // optional
	Licenses     license.Checker
	Organization string

	CacheMaxEntries int
	CacheTTL        time.Duration

	// Now is the dashboard clock. Defaults to time.Now.
	Now func() time.Time
}

type Server struct {
	http.Server
	store        records.Store
	exporter     *report.Exporter
	rankings     sheets.RankingWriter
	licenses     license.Checker
	organization string
	now          func() time.Time
	validate     *validator.Validate
	rateLimiter  *rateLimiter

	// Dashboard responses cached as marshaled JSON, keyed by endpoint,
	// filter criteria and record-set version.
	respCache    *cache.LRUCache[[]byte]
	cacheManager *cache.Manager

	shutdownOnce sync.Once
}

// NewServer configures routes and caches, returning a ready-to-run server.
func NewServer(addr string, deps Deps) *Server {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	maxEntries := deps.CacheMaxEntries
	if maxEntries < 1 {
		maxEntries = 100
	}
	ttl := deps.CacheTTL
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}

	mux := http.NewServeMux()
	s := &Server{
		store:        deps.Store,
		exporter:     deps.Exporter,
		rankings:     deps.Rankings,
		licenses:     deps.Licenses,
		organization: deps.Organization,
		now:          now,
		validate:     validator.New(validator.WithRequiredStructEnabled()),
		rateLimiter:  newRateLimiter(),
		respCache:    cache.NewLRUCache[[]byte](maxEntries, ttl),
		cacheManager: cache.NewManager(),
	}

	s.cacheManager.Register(s.respCache)
	s.cacheManager.StartCleanup(10 * time.Minute)

	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", handleReady)

	mux.HandleFunc("GET /api/suppliers", s.handleListSuppliers)
	mux.HandleFunc("POST /api/suppliers", s.handleCreateSupplier)
	mux.HandleFunc("GET /api/suppliers/{id}", s.handleGetSupplier)
	mux.HandleFunc("PUT /api/suppliers/{id}", s.handleUpdateSupplier)
	mux.HandleFunc("DELETE /api/suppliers/{id}", s.handleDeleteSupplier)

	mux.HandleFunc("GET /api/payments", s.handleListPayments)
	mux.HandleFunc("POST /api/payments", s.handleCreatePayment)
	mux.HandleFunc("DELETE /api/payments/{id}", s.handleDeletePayment)

	mux.HandleFunc("GET /api/dashboard/stats", s.handleDashboardStats)
	mux.HandleFunc("GET /api/dashboard/trend", s.handleDashboardTrend)
	mux.HandleFunc("GET /api/dashboard/top-suppliers", s.handleTopSuppliers)
	mux.HandleFunc("GET /api/dashboard/methods", s.handleMethodDistribution)

	mux.HandleFunc("POST /api/export/report", s.handleExportReport)
	mux.HandleFunc("POST /api/export/sheets", s.handleExportSheets)

	traced := trace.NewMiddleware(clientIP)
	s.Server = http.Server{
		Addr:    addr,
		Handler: traced.Middleware(s.withGuards(mux)),
	}
	return s
}

// withGuards adds security headers and rate limits mutating requests.
func (s *Server) withGuards(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		switch r.Method {
		case http.MethodPost, http.MethodPut, http.MethodDelete:
			if !s.rateLimiter.allow(clientIP(r)) {
				w.Header().Set("Retry-After", "60")
				writeError(w, http.StatusTooManyRequests, "rate limit exceeded, try again later")
				return
			}
		}

		next.ServeHTTP(w, r)
	})
}

// Shutdown stops the server and its cleanup goroutines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		if s.cacheManager != nil {
			s.cacheManager.Stop()
		}
		if s.rateLimiter != nil {
			s.rateLimiter.stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
