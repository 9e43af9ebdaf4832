// internal/server/server.go
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"scholarship-matcher/internal/catalog"
	"scholarship-matcher/internal/common/config"
	"scholarship-matcher/internal/common/logger"
	"scholarship-matcher/internal/common/observability"
	"scholarship-matcher/internal/common/validation"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const maxBodyBytes = 1 << 20

// Deps are the collaborators the HTTP API needs.
type Deps struct {
	Source    catalog.Source
	Validator *validation.Validator
	Obs       *observability.Observability
	Logger    logger.Logger
	// Now defaults to time.Now.
	Now func() time.Time
}

// Server is the scholarship matching HTTP API.
type Server struct {
	cfg        config.ServerConfig
	matching   config.MatchingConfig
	source     catalog.Source
	validator  *validation.Validator
	obs        *observability.Observability
	logger     logger.Logger
	now        func() time.Time
	handler    http.Handler
	httpServer *http.Server
}

func New(cfg config.ServerConfig, mcfg config.MatchingConfig, deps Deps) *Server {
	s := &Server{
		cfg:       cfg,
		matching:  mcfg,
		source:    deps.Source,
		validator: deps.Validator,
		obs:       deps.Obs,
		logger:    logger.ForComponent(deps.Logger, "http"),
		now:       deps.Now,
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.validator == nil {
		s.validator = validation.MustNewValidator()
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /match", s.handleMatch)
	mux.HandleFunc("POST /match/more", s.handleLoadMore)
	mux.HandleFunc("POST /view", s.handleView)

	// Paths served by the original backend.
	mux.HandleFunc("POST /api/scholarships", s.handleMatch)
	mux.HandleFunc("POST /api/scholarships/load-more", s.handleLoadMore)

	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /ready", s.handleReady)
	mux.HandleFunc("GET /test-cors", s.handleTestCORS)
	mux.Handle("GET /metrics", promhttp.Handler())

	s.handler = s.withRequestID(s.withCORS(s.withLogging(s.withMetrics(mux))))

	s.httpServer = &http.Server{
		Addr:         cfg.Addr(),
		Handler:      s.handler,
		ReadTimeout:  config.GetDuration(cfg.ReadTimeout),
		WriteTimeout: config.GetDuration(cfg.WriteTimeout),
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// Handler returns the fully wrapped router.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start blocks serving requests until Shutdown is called.
func (s *Server) Start() error {
	s.logger.Info("http server listening", map[string]interface{}{"addr": s.httpServer.Addr})
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
