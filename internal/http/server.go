package http

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"sync"
	"time"

	"nairaghibli/internal/auth"
	"nairaghibli/internal/core"
	"nairaghibli/internal/dashboard"
	"nairaghibli/internal/log"
	"nairaghibli/internal/middleware/ratelimit"
	"nairaghibli/internal/middleware/security"
	"nairaghibli/internal/middleware/trace"
	"nairaghibli/internal/services"
	appweb "nairaghibli/web"
)

// SessionCookieName carries the session id between requests.
const SessionCookieName = "nairaghibli_session"

// Ledger is the write side of the data collaborator.
type Ledger interface {
	AddExpense(ctx context.Context, in services.ExpenseInput) services.Outcome
	AddIncome(ctx context.Context, month string, amount core.Money) services.Outcome
}

// ReadinessCheck is one dependency probed by /readyz.
type ReadinessCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

// Deps wires the server to the rest of the application.
type Deps struct {
	Gate   *auth.Gate
	Ledger Ledger
	Views  *dashboard.Builder
	Logger *log.Logger
	Ready  []ReadinessCheck

	RateLimit ratelimit.Config
	// SecureCookie sets the Secure flag on the session cookie.
	SecureCookie bool
}

type Server struct {
	http.Server
	templates *template.Template
	gate      *auth.Gate
	ledger    Ledger
	views     *dashboard.Builder
	logger    *log.Logger
	sl        *log.StructuredLogger
	ready     []ReadinessCheck

	limiter      *ratelimit.Limiter
	detector     *security.Detector
	tracer       *trace.Middleware
	secureCookie bool
	started      time.Time

	stopBackground context.CancelFunc
	shutdownOnce   sync.Once
}

// NewServer parses the embedded templates and mounts every route.
func NewServer(addr string, deps Deps) (*Server, error) {
	if deps.Gate == nil || deps.Ledger == nil || deps.Views == nil {
		return nil, errors.New("http server requires a gate, a ledger and a view builder")
	}
	logger := deps.Logger
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}

	t, err := parseTemplates()
	if err != nil {
		return nil, err
	}

	s := &Server{
		templates:    t,
		gate:         deps.Gate,
		ledger:       deps.Ledger,
		views:        deps.Views,
		logger:       logger.WithComponent(log.ComponentHTTP),
		sl:           log.NewStructuredLogger(logger),
		ready:        deps.Ready,
		limiter:      ratelimit.NewLimiter(deps.RateLimit),
		detector:     security.NewDetector(),
		secureCookie: deps.SecureCookie,
		started:      time.Now(),
	}
	s.tracer = trace.NewMiddleware(logger, s.detector.ExtractClientIP)

	mux := http.NewServeMux()

	static, err := fs.Sub(appweb.StaticFS, "static")
	if err != nil {
		return nil, fmt.Errorf("mount static assets: %w", err)
	}
	mux.Handle("GET /static/", security.StaticAssetMiddleware(3600)(
		http.StripPrefix("/static/", http.FileServer(http.FS(static)))))

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)

	mux.Handle("GET /login", s.withSession(http.HandlerFunc(s.handleLoginPage)))
	mux.Handle("POST /login", s.withSession(http.HandlerFunc(s.handleLogin)))
	mux.Handle("GET /{$}", s.private(s.handleIndex))
	mux.Handle("POST /expenses", s.private(s.handleCreateExpense))
	mux.Handle("POST /income", s.private(s.handleCreateIncome))

	var h http.Handler = mux
	h = s.limitPOST(h)
	h = security.NewHeadersMiddleware(security.DefaultHeadersConfig()).Middleware(h)
	h = s.detector.Middleware(logger)(h)
	h = log.RequestIDMiddleware(trace.RequestID)(h)
	h = log.Middleware(logger)(h)
	h = s.tracer.Middleware(h)

	s.Server = http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s, nil
}

func parseTemplates() (*template.Template, error) {
	t, err := template.New("").Funcs(templateFuncs).ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return t, nil
}

// Start runs background maintenance and serves until Shutdown.
func (s *Server) Start() error {
	ctx, cancel := context.WithCancel(context.Background())
	s.stopBackground = cancel
	go func() { _ = s.limiter.Run(ctx) }()

	s.logger.Info("HTTP server listening", "addr", s.Addr)
	if err := s.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

// Shutdown stops background maintenance and drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		if s.stopBackground != nil {
			s.stopBackground()
		}
		err = s.Server.Shutdown(ctx)
	})
	return err
}

// private wraps pages that show ledger data: session required, never cached.
func (s *Server) private(h http.HandlerFunc) http.Handler {
	return security.NoStore(s.withSession(s.requireAuth(h)))
}

// limitPOST applies the per-client limiter to form submissions only.
func (s *Server) limitPOST(next http.Handler) http.Handler {
	limited := s.limiter.Middleware(s.detector.ExtractClientIP, func(w http.ResponseWriter, r *http.Request) {
		s.logger.WithComponent(log.ComponentRateLimit).WarnContext(r.Context(), "Rate limit exceeded",
			log.FieldClientIP, s.detector.ExtractClientIP(r),
			log.FieldMethod, r.Method,
			log.FieldPath, r.URL.Path)
		w.Header().Set("Retry-After", "60")
		http.Error(w, "Rate limit exceeded. Please try again later.", http.StatusTooManyRequests)
	})(next)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			limited.ServeHTTP(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}
