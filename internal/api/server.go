// Copyright (c) 2026 Editaliza. All rights reserved.

/*
Package api composes the HTTP router: middleware chain, JSON API, health checks and
the gated page UI.

Layout:

	/health, /ready        health checks, never gated
	/api/auth/*            login, logout, verify, me, register, setup
	/api/*                 feed listings, cookie authentication required
	everything else        page UI behind the request gate
*/
package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/editaliza/editaliza/internal/gate"
	"github.com/editaliza/editaliza/internal/platform/apperr"
	"github.com/editaliza/editaliza/internal/platform/config"
	"github.com/editaliza/editaliza/internal/platform/constants"
	"github.com/editaliza/editaliza/internal/platform/middleware"
	"github.com/editaliza/editaliza/internal/platform/respond"
)

// RouteProvider is a domain handler that exposes its own sub-router.
type RouteProvider interface {
	Routes() chi.Router
}

// Handlers groups the handlers mounted by [NewServer].
type Handlers struct {
	Liveness  http.HandlerFunc
	Readiness http.HandlerFunc

	// Auth is mounted at /api/auth without authentication.
	Auth RouteProvider

	// Feed is mounted at /api behind cookie authentication.
	Feed RouteProvider

	// Pages serves the UI; the server wraps it with the request gate.
	Pages http.Handler
}

// Server owns the router and the [http.Server].
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	log        *slog.Logger
}

// NewServer builds the router. ctx bounds the rate limiter's janitor.
func NewServer(ctx context.Context, cfg *config.Config, log *slog.Logger, verifier middleware.TokenVerifier, pageGate *gate.Gate, h Handlers) *Server {
	r := chi.NewRouter()

	limiter := middleware.NewRateLimiter(ctx, constants.DefaultRateLimitRPS, constants.DefaultRateLimitBurst)

	r.Use(middleware.RequestID)
	r.Use(middleware.ClientIP(cfg.TrustedProxyPrefixes()))
	r.Use(middleware.StructuredLogger(log))
	r.Use(middleware.PanicRecovery)
	r.Use(chimw.CleanPath)
	r.Use(chimw.Timeout(constants.GlobalRequestTimeout))
	r.Use(middleware.CORS(cfg.AllowedOrigins()))
	r.Use(limiter.Middleware)

	r.Get("/health", h.Liveness)
	r.Get("/ready", h.Readiness)

	r.Route("/api", func(api chi.Router) {
		api.NotFound(notFound)
		api.MethodNotAllowed(methodNotAllowed)

		api.Mount("/auth", h.Auth.Routes())

		api.Group(func(protected chi.Router) {
			protected.Use(middleware.Authenticate(verifier))
			protected.Use(middleware.RequireAuth)
			protected.Mount("/", h.Feed.Routes())
		})
	})

	pages := pageGate.Middleware(h.Pages)
	r.Handle("/", pages)
	r.Handle("/*", pages)

	return &Server{
		router: r,
		log:    log,
		httpServer: &http.Server{
			Addr:              ":" + cfg.ServerPort,
			Handler:           r,
			ReadTimeout:       constants.DefaultReadTimeout,
			WriteTimeout:      constants.DefaultWriteTimeout,
			IdleTimeout:       constants.DefaultIdleTimeout,
			ReadHeaderTimeout: constants.DefaultReadHeaderTimeout,
			ErrorLog:          slog.NewLogLogger(log.Handler(), slog.LevelWarn),
		},
	}
}

// Handler returns the composed router.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe blocks until the server is shut down or fails.
func (s *Server) ListenAndServe() error {
	s.log.Info("server_starting", slog.String("addr", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown waits for in-flight requests until ctx ends.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func notFound(writer http.ResponseWriter, request *http.Request) {
	respond.Error(writer, request, apperr.NotFound("Route"))
}

func methodNotAllowed(writer http.ResponseWriter, request *http.Request) {
	respond.Error(writer, request, &apperr.AppError{
		Code:       "METHOD_NOT_ALLOWED",
		Message:    "Method not allowed",
		HTTPStatus: http.StatusMethodNotAllowed,
	})
}
