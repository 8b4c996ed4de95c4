// Package http exposes the ledger over a local JSON API.
package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"daftar/internal/analytics"
	"daftar/internal/auth"
	"daftar/internal/config"
	applog "daftar/internal/log"
	"daftar/internal/services"
)

type Server struct {
	http.Server

	ledger *services.Ledger
	gate   *auth.Gate

	currency    string
	trendWindow int

	rateLimiter  *rateLimiter
	metrics      *securityMetrics
	logger       *applog.Logger
	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run server.
func NewServer(cfg *config.Config, ledger *services.Ledger, gate *auth.Gate, logger *applog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:              ":" + cfg.Port,
			ReadHeaderTimeout: 10 * time.Second,
		},
		ledger:      ledger,
		gate:        gate,
		currency:    cfg.Currency,
		trendWindow: cfg.TrendWindowMonths,
		rateLimiter: newRateLimiter(cfg.RateLimitPerMinute),
		metrics:     &securityMetrics{},
		logger:      logger.WithComponent(applog.ComponentHTTP),
	}
	if s.trendWindow < 1 {
		s.trendWindow = analytics.DefaultTrendWindow
	}

	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)

	mux.HandleFunc("POST /login", s.handleLogin)
	mux.HandleFunc("POST /password", s.handleChangePassword)

	mux.HandleFunc("POST /transactions", s.handleCreateTransaction)
	mux.HandleFunc("GET /transactions", s.handleListTransactions)
	mux.HandleFunc("DELETE /transactions", s.handleDeleteTransactions)
	mux.HandleFunc("DELETE /transactions/{id}", s.handleDeleteTransactionByID)

	mux.HandleFunc("GET /summary", s.handleSummary)
	mux.HandleFunc("GET /report", s.handleReport)
	mux.HandleFunc("GET /analysis/expenses", s.handleExpenseAnalysis)
	mux.HandleFunc("GET /analysis/patterns", s.handlePatternAnalysis)
	mux.HandleFunc("GET /analysis/tips", s.handleTips)

	mux.HandleFunc("POST /goals", s.handleCreateGoal)
	mux.HandleFunc("GET /goals", s.handleListGoals)
	mux.HandleFunc("GET /goals/active", s.handleActiveGoal)

	mux.HandleFunc("POST /reminders", s.handleCreateReminder)
	mux.HandleFunc("GET /reminders", s.handleListReminders)
	mux.HandleFunc("GET /reminders/due", s.handleDueReminders)
	mux.HandleFunc("POST /reminders/{id}/complete", s.handleCompleteReminder)
	mux.HandleFunc("DELETE /reminders/{id}", s.handleDeleteReminder)

	mux.HandleFunc("GET /export", s.handleExport)
	mux.HandleFunc("POST /import", s.handleImport)

	mux.HandleFunc("POST /backup", s.handleBackup)
	mux.HandleFunc("POST /restore", s.handleRestore)
	mux.HandleFunc("POST /clear", s.handleClear)

	s.Handler = applog.Middleware(s.logger)(s.withObservability(mux))

	return s
}

// Shutdown gracefully shuts down the server and cleanup routines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		if s.rateLimiter != nil {
			s.rateLimiter.stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})

	return shutdownErr
}

// withObservability adds request tracing, rate limiting, and security headers.
func (s *Server) withObservability(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		clientIP := extractClientIP(r)
		requestID := uuid.NewString()

		logger := applog.FromContext(r.Context()).With(applog.FieldRequestID, requestID)
		ctx := context.WithValue(r.Context(), applog.LoggerContextKey, logger)
		r = r.WithContext(ctx)

		fields := applog.NewFields().
			WithHTTPRequest(r.Method, r.URL.Path, r.URL.RawQuery, r.Header.Get("User-Agent")).
			WithClientIP(clientIP)
		logger.InfoContext(ctx, "Request started", fields.ToSlice()...)

		// Mutating routes are rate limited, reads are not.
		switch r.Method {
		case http.MethodPost, http.MethodDelete, http.MethodPut:
			if !s.rateLimiter.allow(clientIP, s.metrics) {
				logger.WarnContext(ctx, "Rate limit exceeded",
					applog.FieldClientIP, clientIP,
					applog.FieldMethod, r.Method,
					applog.FieldPath, r.URL.Path)
				w.Header().Set("Retry-After", "60")
				writeJSON(w, http.StatusTooManyRequests, errorBody{Error: "rate limit exceeded"})
				return
			}
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r)

		duration := time.Since(start)
		done := applog.NewFields().
			WithHTTPResponse(rw.statusCode, duration.Milliseconds(), rw.statusCode < 400).
			WithClientIP(clientIP)
		done[applog.FieldMethod] = r.Method
		done[applog.FieldPath] = r.URL.Path
		logger.InfoContext(ctx, "Request completed", done.ToSlice()...)
	})
}

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if _, err := s.ledger.Snapshot(r.Context()); err != nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("not ready"))
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
