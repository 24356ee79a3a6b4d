// Package http exposes the expense tracker as a JSON API.
package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"kharcha/internal/auth"
	"kharcha/internal/cache"
	"kharcha/internal/core"
	"kharcha/internal/middleware/ratelimit"
	"kharcha/internal/middleware/security"
	"kharcha/internal/middleware/trace"
	"kharcha/internal/services"
)

// sessionCookie carries the server-side session token.
const sessionCookie = "kharcha_session"

type Server struct {
	http.Server

	auth     *auth.Service
	sessions auth.SessionStore
	expenses *services.ExpenseService

	limiter      *ratelimit.Limiter
	summaryCache *cache.LRUCache[core.Summary]
	cacheManager *cache.Manager

	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run
// http.Server.
func NewServer(addr string, authSvc *auth.Service, sessions auth.SessionStore, expenses *services.ExpenseService) *Server {
	mux := http.NewServeMux()

	s := &Server{
		auth:         authSvc,
		sessions:     sessions,
		expenses:     expenses,
		limiter:      ratelimit.NewLimiter(ratelimit.DefaultConfig()),
		summaryCache: cache.NewLRU[core.Summary](256, 5*time.Minute),
		cacheManager: cache.NewManager(),
	}
	s.cacheManager.Register(s.summaryCache)
	s.cacheManager.StartCleanup(10 * time.Minute)

	mux.HandleFunc("/healthz", handleHealth)
	mux.HandleFunc("/readyz", handleReady)
	mux.HandleFunc("/register", s.handleRegister)
	mux.HandleFunc("/login", s.handleLogin)
	mux.HandleFunc("/logout", s.handleLogout)
	mux.HandleFunc("/api/expenses", s.handleExpenses)
	mux.HandleFunc("/api/categories", s.handleCategories)
	mux.HandleFunc("/api/monthly-summary", s.handleMonthlySummary)
	mux.HandleFunc("/export-csv", s.handleExportCSV)

	traceMW := trace.NewMiddleware(trace.ClientIP)
	headersMW := security.NewHeadersMiddleware(security.DefaultHeadersConfig())

	s.Server = http.Server{
		Addr:    addr,
		Handler: traceMW.Middleware(headersMW.Middleware(s.withRateLimit(mux))),
	}

	return s
}

// withRateLimit applies the per-client limiter to mutating requests.
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost || r.Method == http.MethodDelete {
			if !s.limiter.Allow(trace.ClientIP(r)) {
				w.Header().Set("Retry-After", "60")
				writeError(w, http.StatusTooManyRequests, "Rate limit exceeded. Please try again later.")
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

// Shutdown gracefully shuts down the server and its helper goroutines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		s.cacheManager.Stop()
		s.limiter.Stop()
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
