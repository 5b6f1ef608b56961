// Package server wires the HTTP surface together.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/quantfolio/quantfolio/internal/config"
	priceshandlers "github.com/quantfolio/quantfolio/internal/marketdata/handlers"
	chartshandlers "github.com/quantfolio/quantfolio/internal/modules/charts/handlers"
	dcfhandlers "github.com/quantfolio/quantfolio/internal/modules/dcf/handlers"
	optimizationhandlers "github.com/quantfolio/quantfolio/internal/modules/optimization/handlers"
	rebalancinghandlers "github.com/quantfolio/quantfolio/internal/modules/rebalancing/handlers"
	riskhandlers "github.com/quantfolio/quantfolio/internal/modules/risk/handlers"
)

// Handlers holds the per-module HTTP handlers mounted under /api.
type Handlers struct {
	Prices       *priceshandlers.Handler
	Risk         *riskhandlers.Handler
	Analytics    *dcfhandlers.Handler
	Optimization *optimizationhandlers.Handler
	Rebalancing  *rebalancinghandlers.Handler
	Charts       *chartshandlers.Handler
}

// Server represents the HTTP server
type Server struct {
	router    *chi.Mux
	server    *http.Server
	log       zerolog.Logger
	startTime time.Time
}

// New creates a new HTTP server
func New(cfg *config.Config, handlers Handlers, log zerolog.Logger) *Server {
	s := &Server{
		router:    chi.NewRouter(),
		log:       log.With().Str("component", "server").Logger(),
		startTime: time.Now(),
	}

	s.setupMiddleware(cfg.DevMode)
	s.setupRoutes(handlers)

	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// Router exposes the configured router, used by tests.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// setupMiddleware configures middleware
func (s *Server) setupMiddleware(devMode bool) {
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(s.loggingMiddleware)

	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	if !devMode {
		s.router.Use(middleware.Compress(5))
	}
}

// setupRoutes mounts all module routes under /api
func (s *Server) setupRoutes(handlers Handlers) {
	s.router.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handleHealth)

		if handlers.Prices != nil {
			handlers.Prices.RegisterRoutes(r)
		}
		if handlers.Risk != nil {
			handlers.Risk.RegisterRoutes(r)
		}
		if handlers.Analytics != nil {
			handlers.Analytics.RegisterRoutes(r)
		}
		if handlers.Optimization != nil {
			handlers.Optimization.RegisterRoutes(r)
		}
		if handlers.Rebalancing != nil {
			handlers.Rebalancing.RegisterRoutes(r)
		}
		if handlers.Charts != nil {
			handlers.Charts.RegisterRoutes(r)
		}
	})
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.log.Info().Str("addr", s.server.Addr).Msg("Starting HTTP server")
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info().Msg("Shutting down HTTP server")
	return s.server.Shutdown(ctx)
}

// loggingMiddleware logs HTTP requests
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		s.log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Dur("duration_ms", time.Since(start)).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("HTTP request")
	})
}
