// Package server is a development implementation of the warehouse auth backend.
// It serves the login, logout and current-user endpoints the client talks to,
// issuing HS256 session tokens for accounts held in a users.AccountRepo.
package server

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/jrsteele09/go-warehouse-client/internal/config"
	"github.com/jrsteele09/go-warehouse-client/metrics"
	"github.com/jrsteele09/go-warehouse-client/token/jwt"
	"github.com/jrsteele09/go-warehouse-client/users"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type Server struct {
	env      string // Environment (e.g., "DEV", "PROD")
	mux      *http.ServeMux
	routes   []string
	config   config.Config
	accounts users.AccountRepo
	tokens   *jwt.Creator
	limiter  *loginLimiter
	registry *prometheus.Registry
	metrics  *metrics.Collector
	log      zerolog.Logger

	limiterCleanup time.Duration
}

type Option func(*Server)

func WithLogger(l zerolog.Logger) Option {
	return func(s *Server) {
		s.log = l
	}
}

// WithLimiterCleanup sets how often idle login rate limiters are evicted.
func WithLimiterCleanup(d time.Duration) Option {
	return func(s *Server) {
		s.limiterCleanup = d
	}
}

// WithRegistry serves reg on /metrics instead of a private registry.
func WithRegistry(reg *prometheus.Registry) Option {
	return func(s *Server) {
		s.registry = reg
	}
}

func New(config config.Config, accounts users.AccountRepo, opts ...Option) (*Server, error) {
	tokens, err := jwt.NewCreator(config.GetJWTSecret(), config.GetTokenExpiry())
	if err != nil {
		return nil, fmt.Errorf("[Server New] failed to create token creator: %w", err)
	}

	s := &Server{
		env:      config.GetEnv(),
		mux:      http.NewServeMux(),
		config:   config,
		accounts: accounts,
		tokens:   tokens,
		log:      log.Logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.limiter = newLoginLimiter(config.GetLoginRateLimit(), config.GetLoginBurst(), s.limiterCleanup)
	if s.registry == nil {
		s.registry = prometheus.NewRegistry()
	}
	s.metrics = metrics.NewCollector(s.registry)

	if err := s.InitialiseSystem(); err != nil {
		s.Close()
		return nil, fmt.Errorf("[Server New] Failed to initialise the system: %w", err)
	}

	s.initRoutes()
	s.logRoutes()

	return s, nil
}

// Close stops background work. The handler keeps serving afterwards, but idle
// rate limiters are no longer evicted.
func (s *Server) Close() {
	s.limiter.stop()
}

// LoginLimiterCount is the number of accounts with a live login rate limiter.
func (s *Server) LoginLimiterCount() int {
	return s.limiter.count()
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// Tokens exposes the signer, mainly so tests can mint tokens.
func (s *Server) Tokens() *jwt.Creator {
	return s.tokens
}

func (s *Server) RegisterRouteHandler(pattern string, handler http.Handler) {
	s.routes = append(s.routes, pattern)
	s.mux.Handle(pattern, handler)
}

func (s *Server) RegisterRouteFunc(pattern string, handler func(http.ResponseWriter, *http.Request)) {
	s.routes = append(s.routes, pattern)
	s.mux.HandleFunc(pattern, handler)
}

func (s *Server) logRoutes() {
	if s.env != "DEV" {
		return // Skip logging in non-development environments
	}
	for _, route := range s.routes {
		parts := strings.SplitN(route, " ", 2)

		if len(parts) > 1 {
			s.logRoute(parts[0], parts[1])
		} else {
			s.logRoute("", parts[0])
		}
	}
}

func (s *Server) logRoute(method, path string) {
	var displayMethod string
	paddedMethod := fmt.Sprintf(" %-7s", method)
	if color, ok := methodColors[method]; ok {
		displayMethod = color + paddedMethod + ResetColor
	} else {
		displayMethod = Gray + paddedMethod + ResetColor
	}
	s.log.Info().Msgf("[%-19s] %s", displayMethod, path)
}
