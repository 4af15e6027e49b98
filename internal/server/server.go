// Package server wires the dependency graph and defines the routes.
//
// main.go stays minimal; this package is the composition root: it builds the
// database, services, and handlers, mounts them on a chi router, and owns
// the HTTP server lifecycle including graceful shutdown.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/sakif/webhook-hub/internal/auth"
	"github.com/sakif/webhook-hub/internal/config"
	"github.com/sakif/webhook-hub/internal/handler"
	"github.com/sakif/webhook-hub/internal/middleware"
	sqliteRepo "github.com/sakif/webhook-hub/internal/repository/sqlite"
	"github.com/sakif/webhook-hub/internal/service"
)

// Server owns the router, the configuration, and the database connection.
// The connection is closed during shutdown in Start.
type Server struct {
	router *chi.Mux
	cfg    config.Config
	logger *slog.Logger
	db     *sqliteRepo.DB
}

// New assembles the full dependency chain:
// sqlite.DB → repositories → services → handlers → routes.
//
// Services receive the repository interfaces, handlers receive the services;
// no layer reaches past its neighbour.
func New(cfg config.Config, logger *slog.Logger) (*Server, error) {
	db, err := sqliteRepo.New(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Server{
		router: chi.NewRouter(),
		cfg:    cfg,
		logger: logger,
		db:     db,
	}

	if err := s.setupRoutes(); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting up routes: %w", err)
	}

	return s, nil
}

// setupRoutes configures middleware and mounts all endpoints.
//
//	POST   /auth/register        create an account
//	POST   /auth/login           obtain a bearer token
//	GET    /auth/me              current user            (bearer)
//	POST   /webhooks             create webhook          (bearer)
//	GET    /webhooks             list own webhooks       (bearer)
//	GET    /webhooks/{id}        get one                 (bearer)
//	PATCH  /webhooks/{id}        partial update          (bearer)
//	DELETE /webhooks/{id}        delete                  (bearer)
func (s *Server) setupRoutes() error {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))

	tokens, err := auth.NewTokenService(
		s.cfg.JWT.Secret,
		time.Duration(s.cfg.JWT.ExpireMinutes)*time.Minute,
	)
	if err != nil {
		return fmt.Errorf("creating token service: %w", err)
	}
	passwords := auth.NewPasswordService()

	authService := service.NewAuthService(s.db, tokens, passwords, s.logger)
	webhookService := service.NewWebhookService(s.db, s.logger)

	authHandler := handler.NewAuthHandler(authService, s.logger)
	webhookHandler := handler.NewWebhookHandler(webhookService, s.logger)

	s.router.Route("/auth", func(r chi.Router) {
		r.Post("/register", authHandler.HandleRegister)
		r.Post("/login", authHandler.HandleLogin)

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAuth(tokens))
			r.Get("/me", authHandler.HandleMe)
		})
	})

	s.router.Route("/webhooks", func(r chi.Router) {
		r.Use(auth.RequireAuth(tokens))
		r.Post("/", webhookHandler.HandleCreate)
		r.Get("/", webhookHandler.HandleList)
		r.Get("/{id}", webhookHandler.HandleGet)
		r.Patch("/{id}", webhookHandler.HandleUpdate)
		r.Delete("/{id}", webhookHandler.HandleDelete)
	})

	return nil
}

// Start runs the HTTP server until SIGINT/SIGTERM, then shuts down
// gracefully: stop accepting connections, drain in-flight requests, close
// the database.
func (s *Server) Start() error {
	defer s.db.Close()

	srv := &http.Server{
		Addr:         s.cfg.Server.Addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("server starting",
			slog.String("addr", s.cfg.Server.Addr),
			slog.String("database", s.cfg.Database.Path),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}
