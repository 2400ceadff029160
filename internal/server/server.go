// Package server provides the HTTP API for ranking candidates against vacancies.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"github.com/jonathan/talent-match/internal/config"
	"github.com/jonathan/talent-match/internal/db"
	"github.com/jonathan/talent-match/internal/ranking"
	"github.com/jonathan/talent-match/internal/server/middleware"
	"github.com/jonathan/talent-match/internal/server/ratelimit"
	"go.uber.org/zap"
)

const (
	// DefaultRequestTimeout bounds a single ranking request
	DefaultRequestTimeout = 60 * time.Second
	// maxBodyBytes caps request bodies; a large pool of candidate profiles fits well within it
	maxBodyBytes = 16 << 20
)

// Store is the database surface the server needs. *db.DB satisfies it.
type Store interface {
	GetVacancy(ctx context.Context, id uuid.UUID) (*db.Vacancy, error)
	ListApplicants(ctx context.Context, vacancyID uuid.UUID) ([]db.Candidate, error)
	ListTalentPool(ctx context.Context) ([]db.Candidate, error)
	RecordRankingRun(ctx context.Context, input *db.RankingRunInput) (uuid.UUID, error)
}

var _ Store = (*db.DB)(nil)

// Config holds server configuration
type Config struct {
	Port int
	// Settings supplies default weights, scoring constants and rank options
	Settings       config.Config
	APIKeys        []middleware.APIKey
	RateLimit      *ratelimit.Config
	RequestTimeout time.Duration
}

// Server represents the HTTP server
type Server struct {
	httpServer *http.Server
	engine     *ranking.Engine
	settings   config.Config
	store      Store
	limiter    *ratelimit.Limiter
	log        *zap.Logger
}

// New creates a server. store may be nil, in which case the vacancy endpoints
// that read from the database answer 503.
func New(cfg Config, store Store, log *zap.Logger) (*Server, error) {
	if log == nil {
		log = zap.NewNop()
	}

	settings := cfg.Settings.MergeWithDefaults(config.Config{})
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	engineOpts := settings.EngineOptions()
	engineOpts.Logger = log
	engine, err := ranking.NewEngine(engineOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to create ranking engine: %w", err)
	}

	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = DefaultRequestTimeout
	}

	s := &Server{
		engine:   engine,
		settings: settings,
		store:    store,
		limiter:  ratelimit.NewLimiter(cfg.RateLimit),
		log:      log,
	}

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.routes(cfg.APIKeys, timeout),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: timeout + 10*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

func (s *Server) routes(keys []middleware.APIKey, timeout time.Duration) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(s.withLogging)
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID", RunIDHeader},
		MaxAge:         300,
	}))
	r.Use(s.withRateLimit)

	r.Get("/health", s.handleHealth)

	r.Route("/v1", func(r chi.Router) {
		r.Use(middleware.APIKeyAuth(keys))
		r.Use(chimw.Timeout(timeout))

		r.Post("/rank", s.handleRank)
		r.Post("/match-pool", s.handleMatchPool)

		r.Route("/vacancies/{id}", func(r chi.Router) {
			r.Post("/rank", s.handleRankVacancy)
			r.Post("/match-pool", s.handleMatchPoolVacancy)
		})
	})

	return r
}

// Handler returns the configured router
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.log.Info("server starting", zap.String("addr", s.httpServer.Addr))
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		s.limiter.Stop()
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.log.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	// Stop rate limiter sweeper
	s.limiter.Stop()
	s.log.Info("server stopped")
	return nil
}

// Close releases background resources without serving
func (s *Server) Close() {
	s.limiter.Stop()
}

// withRateLimit adds rate limiting middleware
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowed, info := s.limiter.Allow(extractClientID(r), r.URL.Path, r.Method)
		setRateLimitHeaders(w, info)
		if !allowed {
			s.rateLimitResponse(w, info)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			s.log.Info("http request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("duration", time.Since(start)),
				zap.String("request_id", chimw.GetReqID(r.Context())),
				zap.String("remote_addr", r.RemoteAddr),
			)
		}()

		next.ServeHTTP(ww, r)
	})
}

// pinger is implemented by stores that can report their reachability
type pinger interface {
	Ping(ctx context.Context) error
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status, database := http.StatusOK, "disabled"
	if s.store != nil {
		database = "configured"
		if p, ok := s.store.(pinger); ok {
			database = "connected"
			if err := p.Ping(r.Context()); err != nil {
				s.log.Warn("health check failed", zap.Error(err))
				status, database = http.StatusServiceUnavailable, "unreachable"
			}
		}
	}

	body := map[string]string{"status": "ok", "database": database}
	if status != http.StatusOK {
		body["status"] = "degraded"
	}
	s.jsonResponse(w, status, body)
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Warn("failed to encode JSON response", zap.Error(err))
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// writeError maps err to a status code and writes it
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		s.log.Error("request failed", zap.Error(err))
	}
	s.errorResponse(w, status, err.Error())
}

// extractClientID uses the IP address from RemoteAddr, which RealIP has already
// replaced with the forwarded client address when present.
func extractClientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// setRateLimitHeaders sets standard rate limit headers on the response.
func setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", info.Limit))
		w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", info.Remaining))
		w.Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", info.ResetTime.Unix()))
	}
}

// rateLimitResponse writes a 429 Too Many Requests response with rate limit information.
func (s *Server) rateLimitResponse(w http.ResponseWriter, info ratelimit.Info) {
	response := map[string]any{
		"error":     "rate_limit_exceeded",
		"message":   "Rate limit exceeded. Please try again later.",
		"limit":     info.Limit,
		"remaining": info.Remaining,
	}
	if !info.ResetTime.IsZero() {
		response["reset_at"] = info.ResetTime.Format(time.RFC3339)
	}

	if info.RetryAfter > 0 {
		seconds := int(info.RetryAfter.Seconds())
		if seconds < 1 {
			seconds = 1
		}
		response["retry_after"] = seconds
		w.Header().Set("Retry-After", fmt.Sprintf("%d", seconds))
	}

	s.log.Warn("rate limit exceeded",
		zap.Int("limit", info.Limit),
		zap.Int("remaining", info.Remaining),
	)

	s.jsonResponse(w, http.StatusTooManyRequests, response)
}
