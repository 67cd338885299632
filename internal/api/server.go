package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/workmatechiho-source/shotcrete/internal/block"
	"github.com/workmatechiho-source/shotcrete/internal/casefile"
	"github.com/workmatechiho-source/shotcrete/internal/codes"
	"github.com/workmatechiho-source/shotcrete/internal/config"
	"github.com/workmatechiho-source/shotcrete/internal/design"
	"github.com/workmatechiho-source/shotcrete/internal/lining"
	"github.com/workmatechiho-source/shotcrete/internal/version"
)

// maxBody limits request bodies to 1 MiB
const maxBody = 1 << 20

// Server exposes evaluation and sweeps over HTTP
type Server struct {
	router  *mux.Router
	cfg     *config.Config
	table   *codes.Table
	ev      *design.Evaluator
	limiter *ipRateLimiter
	log     *zap.Logger
	server  *http.Server
}

// NewServer builds the router from the configuration
func NewServer(cfg *config.Config, log *zap.Logger) (*Server, error) {
	if log == nil {
		log = zap.NewNop()
	}
	tbl, err := cfg.Table()
	if err != nil {
		return nil, err
	}
	ev := design.NewEvaluator(tbl)
	ev.DefaultFoS = cfg.RequiredFoS

	s := &Server{
		router:  mux.NewRouter(),
		cfg:     cfg,
		table:   tbl,
		ev:      ev,
		limiter: newIPRateLimiter(rate.Limit(cfg.Server.RateLimit), cfg.Server.Burst),
		log:     log,
	}
	s.setupRoutes()
	s.setupMiddleware()

	s.server = &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      s.router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}
	return s, nil
}

func (s *Server) setupRoutes() {
	api := s.router.PathPrefix("/api/v1").Subrouter()
	api.Use(s.limiter.middleware)

	api.HandleFunc("/evaluate", s.evaluate).Methods(http.MethodPost)
	api.HandleFunc("/sweep", s.sweep).Methods(http.MethodPost)
	api.HandleFunc("/factors", s.factors).Methods(http.MethodGet)

	s.router.HandleFunc("/health", s.healthCheck).Methods(http.MethodGet)
	s.router.NotFoundHandler = http.HandlerFunc(s.notFound)
}

func (s *Server) setupMiddleware() {
	s.router.Use(s.loggingMiddleware)
	s.router.Use(s.recoveryMiddleware)
}

// Handler returns the root handler
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start listens on the configured address until Shutdown
func (s *Server) Start() error {
	s.log.Info("starting HTTP server", zap.String("addr", s.cfg.Server.Addr))
	err := s.server.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown drains in-flight requests
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info("shutting down HTTP server")
	return s.server.Shutdown(ctx)
}

// statusRecorder captures the response code for the access log
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		if r.URL.Path == "/health" {
			return
		}
		s.log.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("remote", r.RemoteAddr),
			zap.Int("status", rec.status),
			zap.Duration("elapsed", time.Since(start)))
	})
}

func (s *Server) recoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				s.log.Error("panic recovered", zap.Any("panic", err), zap.String("path", r.URL.Path))
				s.respondWithError(w, http.StatusInternalServerError, "internal server error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// ipRateLimiter keeps one token bucket per client address
type ipRateLimiter struct {
	ips map[string]*rate.Limiter
	mu  sync.Mutex
	r   rate.Limit
	b   int
}

func newIPRateLimiter(r rate.Limit, b int) *ipRateLimiter {
	if r <= 0 {
		r = rate.Inf
	}
	if b <= 0 {
		b = 1
	}
	return &ipRateLimiter{ips: make(map[string]*rate.Limiter), r: r, b: b}
}

func (i *ipRateLimiter) get(ip string) *rate.Limiter {
	i.mu.Lock()
	defer i.mu.Unlock()

	limiter, ok := i.ips[ip]
	if !ok {
		limiter = rate.NewLimiter(i.r, i.b)
		i.ips[ip] = limiter
	}
	return limiter
}

func (i *ipRateLimiter) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			ip = r.RemoteAddr
		}
		if !i.get(ip).Allow() {
			respondWithJSON(w, http.StatusTooManyRequests, errorBody{Error: "too many requests"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// decodeCase reads a case from the request body. Selectors left empty take
// the configured defaults.
func (s *Server) decodeCase(w http.ResponseWriter, r *http.Request) (*casefile.Case, bool) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBody))
	if err != nil {
		s.respondWithError(w, http.StatusRequestEntityTooLarge, err.Error())
		return nil, false
	}

	c := casefile.New()
	if err := json.Unmarshal(data, c); err != nil {
		s.respondWithError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return nil, false
	}
	if c.Philosophy == "" {
		c.Philosophy = string(s.cfg.DefaultPhilosophy())
	}
	if c.CodeVersion == "" {
		c.CodeVersion = string(s.cfg.DefaultVersion())
	}
	if err := c.Validate(); err != nil {
		s.respondWithError(w, statusFor(err), err.Error())
		return nil, false
	}
	return c, true
}

func (s *Server) healthCheck(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]any{
		"status":    "healthy",
		"service":   "shotcrete",
		"version":   version.Version,
		"factors":   s.table.Len(),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) notFound(w http.ResponseWriter, r *http.Request) {
	s.respondWithError(w, http.StatusNotFound, "endpoint not found")
}

type errorBody struct {
	Error string `json:"error"`
}

// respondWithJSON encodes before writing the header so an unencodable
// payload becomes a 500 instead of an empty body
func respondWithJSON(w http.ResponseWriter, status int, payload any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(payload); err != nil {
		status = http.StatusInternalServerError
		buf.Reset()
		_ = json.NewEncoder(&buf).Encode(errorBody{Error: "encoding response: " + err.Error()})
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) respondWithError(w http.ResponseWriter, status int, message string) {
	if status >= http.StatusInternalServerError {
		s.log.Error("request failed", zap.Int("status", status), zap.String("error", message))
	}
	respondWithJSON(w, status, errorBody{Error: message})
}

// statusFor maps evaluation errors to HTTP status codes
func statusFor(err error) int {
	var caseErr *casefile.ValidationError
	switch {
	case errors.As(err, &caseErr),
		errors.Is(err, block.ErrInvalidGeometry),
		errors.Is(err, lining.ErrInvalidMaterial),
		errors.Is(err, lining.ErrMissingFactor),
		errors.Is(err, codes.ErrUnknownFactor),
		errors.Is(err, design.ErrInvalidInput):
		return http.StatusUnprocessableEntity
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}
