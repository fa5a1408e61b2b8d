// Package server exposes report generation over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/ukaji3/ticketreport-go/internal/config"
	"github.com/ukaji3/ticketreport-go/pkg/ticketreport"
)

// Server serves the report API.
type Server struct {
	cfg      config.ServerConfig
	defaults ticketreport.Options
	log      *slog.Logger
	metrics  *metrics
	router   chi.Router
}

// New creates a server. Report settings from cfg become the defaults each
// request may override.
func New(cfg *config.Config, logger *slog.Logger) (*Server, error) {
	defaults, err := cfg.Report.Options()
	if err != nil {
		return nil, fmt.Errorf("invalid report defaults: %w", err)
	}

	s := &Server{
		cfg:      cfg.Server,
		defaults: defaults,
		log:      logger,
		metrics:  newMetrics(),
	}
	s.setupRouter()
	return s, nil
}

func (s *Server) setupRouter() {
	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(middleware.RealIP)
	r.Use(StructuredLogger(s.log))
	r.Use(Recoverer(s.log))

	r.Get("/healthz", s.handleHealth)
	r.Handle("/metrics", s.metrics.handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/reports", s.handleCreateReport)
	})

	s.router = r
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.Addr,
		Handler:      s.router,
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("server listening", slog.String("addr", s.cfg.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.log.Info("server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]string{"status": "ok"})
}
