package http

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"caixa/internal/cache"
	"caixa/internal/core"
	"caixa/internal/services"
	"caixa/internal/storage"
)

// EntryReader lists ledger rows and audit logs for the read endpoints.
type EntryReader interface {
	ListIncome(ctx context.Context, f storage.IncomeFilter) ([]core.IncomeEntry, error)
	ListFixedBills(ctx context.Context, f storage.FixedFilter) ([]core.FixedBill, error)
	ListWeeklyBills(ctx context.Context, f storage.WeeklyFilter) ([]core.WeeklyBill, error)
	ListDailyBills(ctx context.Context, f storage.DailyFilter) ([]core.DailyBill, error)
	ListLogs(ctx context.Context, limit int) ([]storage.AuditLog, error)
}

// EntryWriter performs ledger mutations. *services.LedgerService satisfies it.
type EntryWriter interface {
	CreateIncome(ctx context.Context, e core.IncomeEntry) (core.IncomeEntry, error)
	UpdateIncome(ctx context.Context, id int64, e core.IncomeEntry) (core.IncomeEntry, error)
	DeleteIncome(ctx context.Context, id int64) error
	CreateFixedBill(ctx context.Context, b core.FixedBill) (core.FixedBill, error)
	UpdateFixedBill(ctx context.Context, id int64, b core.FixedBill) (core.FixedBill, error)
	DeleteFixedBill(ctx context.Context, id int64) error
	CreateWeeklyBill(ctx context.Context, b core.WeeklyBill) (core.WeeklyBill, error)
	UpdateWeeklyBill(ctx context.Context, id int64, b core.WeeklyBill) (core.WeeklyBill, error)
	DeleteWeeklyBill(ctx context.Context, id int64) error
	CreateDailyBill(ctx context.Context, b core.DailyBill) (core.DailyBill, error)
	UpdateDailyBill(ctx context.Context, id int64, b core.DailyBill) (core.DailyBill, error)
	DeleteDailyBill(ctx context.Context, id int64) error
}

// ReportBuilder assembles the unified financial report.
type ReportBuilder interface {
	Build(ctx context.Context, q services.ReportQuery, now time.Time) (core.Report, error)
}

// OverviewBuilder assembles the dashboard and the month comparison.
type OverviewBuilder interface {
	Build(ctx context.Context, month string, now time.Time) (services.Dashboard, error)
	CompareMonths(ctx context.Context, month1, month2 string) (services.MonthComparison, error)
}

// Options tunes server limits. Zero values fall back to defaults.
type Options struct {
	RateLimitPerMinute int
	DashboardCacheTTL  time.Duration
}

type Server struct {
	http.Server

	reader    EntryReader
	writer    EntryWriter
	reports   ReportBuilder
	overviews OverviewBuilder

	rateLimiter  *rateLimiter
	dashCache    *cache.LRUCache[services.Dashboard]
	cacheManager *cache.Manager
	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run server.
func NewServer(addr string, reader EntryReader, writer EntryWriter, reports ReportBuilder, overviews OverviewBuilder, opts Options) *Server {
	if opts.RateLimitPerMinute <= 0 {
		opts.RateLimitPerMinute = 60
	}
	if opts.DashboardCacheTTL <= 0 {
		opts.DashboardCacheTTL = time.Minute
	}

	mux := http.NewServeMux()
	s := &Server{
		Server: http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 10 * time.Second,
		},
		reader:       reader,
		writer:       writer,
		reports:      reports,
		overviews:    overviews,
		rateLimiter:  newRateLimiter(opts.RateLimitPerMinute),
		dashCache:    cache.NewLRUCache[services.Dashboard](100, opts.DashboardCacheTTL),
		cacheManager: cache.NewManager(),
	}
	s.cacheManager.Register(s.dashCache)
	s.cacheManager.StartCleanup(10 * time.Minute)

	mux.HandleFunc("/healthz", handleHealth)
	mux.HandleFunc("/readyz", handleReady)

	mux.HandleFunc("GET /api/arrecadacao", s.withMiddleware(s.handleListIncome))
	mux.HandleFunc("POST /api/arrecadacao", s.withMiddleware(s.handleCreateIncome))
	mux.HandleFunc("PUT /api/arrecadacao/{id}", s.withMiddleware(s.handleUpdateIncome))
	mux.HandleFunc("DELETE /api/arrecadacao/{id}", s.withMiddleware(s.handleDeleteIncome))

	mux.HandleFunc("GET /api/contas-fixas", s.withMiddleware(s.handleListFixedBills))
	mux.HandleFunc("POST /api/contas-fixas", s.withMiddleware(s.handleCreateFixedBill))
	mux.HandleFunc("PUT /api/contas-fixas/{id}", s.withMiddleware(s.handleUpdateFixedBill))
	mux.HandleFunc("DELETE /api/contas-fixas/{id}", s.withMiddleware(s.handleDeleteFixedBill))

	mux.HandleFunc("GET /api/contas-semanais", s.withMiddleware(s.handleListWeeklyBills))
	mux.HandleFunc("POST /api/contas-semanais", s.withMiddleware(s.handleCreateWeeklyBill))
	mux.HandleFunc("PUT /api/contas-semanais/{id}", s.withMiddleware(s.handleUpdateWeeklyBill))
	mux.HandleFunc("DELETE /api/contas-semanais/{id}", s.withMiddleware(s.handleDeleteWeeklyBill))

	mux.HandleFunc("GET /api/contas-diarias", s.withMiddleware(s.handleListDailyBills))
	mux.HandleFunc("POST /api/contas-diarias", s.withMiddleware(s.handleCreateDailyBill))
	mux.HandleFunc("PUT /api/contas-diarias/{id}", s.withMiddleware(s.handleUpdateDailyBill))
	mux.HandleFunc("DELETE /api/contas-diarias/{id}", s.withMiddleware(s.handleDeleteDailyBill))

	mux.HandleFunc("GET /api/relatorios", s.withMiddleware(s.handleReport))
	mux.HandleFunc("GET /api/dashboard", s.withMiddleware(s.handleDashboard))
	mux.HandleFunc("GET /api/comparar-meses", s.withMiddleware(s.handleCompareMonths))
	mux.HandleFunc("GET /api/logs", s.withMiddleware(s.handleListLogs))

	return s
}

// Shutdown stops the HTTP listener and the background cleanup goroutines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.cacheManager.Stop()
		s.rateLimiter.stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

// withMiddleware adds security headers, rate limiting and request logging.
func (s *Server) withMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ip := clientIP(r)

		requestID := generateRequestID()
		ctx := context.WithValue(r.Context(), requestIDKey{}, requestID)
		r = r.WithContext(ctx)

		slog.InfoContext(ctx, "Request started",
			"request_id", requestID,
			"method", r.Method,
			"url", r.URL.Path,
			"client_ip", ip)

		if isMutation(r.Method) && !s.rateLimiter.allow(ip) {
			slog.WarnContext(ctx, "Rate limit exceeded",
				"client_ip", ip, "method", r.Method, "url", r.URL.Path)
			w.Header().Set("Retry-After", "60")
			writeError(w, r, http.StatusTooManyRequests, "Muitas requisições, tente novamente em instantes")
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		// Any successful write makes the cached dashboards stale.
		if isMutation(r.Method) && rw.statusCode < 400 {
			s.dashCache.Clear()
		}

		slog.InfoContext(ctx, "Request completed",
			"request_id", requestID,
			"method", r.Method,
			"url", r.URL.Path,
			"status", rw.statusCode,
			"duration_ms", time.Since(start).Milliseconds(),
			"client_ip", ip)
	}
}

type requestIDKey struct{}

func isMutation(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodDelete:
		return true
	}
	return false
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

// rateLimiter is a per-IP fixed-window limiter.
type rateLimiter struct {
	mu           sync.Mutex
	perMinute    int
	clients      map[string]*clientInfo
	stopCleanup  chan struct{}
	shutdownOnce sync.Once
}

type clientInfo struct {
	lastRequest time.Time
	requests    int
}

func newRateLimiter(perMinute int) *rateLimiter {
	rl := &rateLimiter{
		perMinute:   perMinute,
		clients:     make(map[string]*clientInfo),
		stopCleanup: make(chan struct{}),
	}
	go rl.startCleanup()
	return rl
}

func (rl *rateLimiter) allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	client, exists := rl.clients[ip]
	if !exists {
		rl.clients[ip] = &clientInfo{lastRequest: now, requests: 1}
		return true
	}

	if now.Sub(client.lastRequest) > time.Minute {
		client.requests = 1
		client.lastRequest = now
		return true
	}

	client.requests++
	client.lastRequest = now
	return client.requests <= rl.perMinute
}

func (rl *rateLimiter) startCleanup() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.cleanupStaleEntries()
		case <-rl.stopCleanup:
			return
		}
	}
}

// cleanupStaleEntries drops client entries idle for over 10 minutes.
func (rl *rateLimiter) cleanupStaleEntries() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := time.Now().Add(-10 * time.Minute)
	for ip, client := range rl.clients {
		if client.lastRequest.Before(cutoff) {
			delete(rl.clients, ip)
		}
	}
}

func (rl *rateLimiter) stop() {
	rl.shutdownOnce.Do(func() {
		close(rl.stopCleanup)
	})
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
