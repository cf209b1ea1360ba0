// Package server exposes assessment sessions over a JSON HTTP API.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-playground/validator/v10"
	log "github.com/sirupsen/logrus"

	"github.com/abhisek/assessor/internal/catalog"
	"github.com/abhisek/assessor/internal/config"
	"github.com/abhisek/assessor/internal/debrief"
	"github.com/abhisek/assessor/internal/store"
)

// Server is the HTTP front end for interview sessions.
type Server struct {
	cfg      config.ServerConfig
	router   *chi.Mux
	catalog  *catalog.Catalog
	sessions *Registry
	events   store.EventRepo
	debrief  *debrief.Service
	validate *validator.Validate
}

// Option customises a Server.
type Option func(*Server)

// WithEvents journals every session mutation to repo.
func WithEvents(repo store.EventRepo) Option {
	return func(s *Server) { s.events = repo }
}

// WithDebrief enables the debrief endpoint.
func WithDebrief(svc *debrief.Service) Option {
	return func(s *Server) { s.debrief = svc }
}

// New creates a server over the given catalog.
func New(cfg config.ServerConfig, c *catalog.Catalog, opts ...Option) *Server {
	s := &Server{
		cfg:      cfg,
		catalog:  c,
		sessions: NewRegistry(c),
		validate: validator.New(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.setupRouter()
	return s
}

// Router returns the HTTP handler.
func (s *Server) Router() http.Handler {
	return s.router
}

// Sessions returns the live session registry.
func (s *Server) Sessions() *Registry {
	return s.sessions
}

func (s *Server) setupRouter() {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(loggingMiddleware)
	r.Use(middleware.Recoverer)
	if s.cfg.RequestTimeout > 0 {
		r.Use(middleware.Timeout(s.cfg.RequestTimeout))
	}

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"Content-Disposition", "X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/health", s.handleHealth)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/categories", s.handleListCategories)
		r.Get("/questions", s.handleListQuestions)

		r.Route("/sessions", func(r chi.Router) {
			r.Post("/", s.handleCreateSession)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.handleGetSession)
				r.Delete("/", s.handleDeleteSession)
				r.Post("/category", s.handleSelectCategory)
				r.Get("/current", s.handleCurrentQuestion)
				r.Put("/answers/{qid}/rating", s.handleSetRating)
				r.Put("/answers/{qid}/notes", s.handleSetNotes)
				r.Post("/advance", s.handleAdvance)
				r.Post("/retreat", s.handleRetreat)
				r.Get("/report", s.handleReport)
				r.Get("/report.md", s.handleReportMarkdown)
				r.Post("/debrief", s.handleDebrief)
			})
		})
	})

	s.router = r
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
// When idleTTL is positive, sessions untouched for that long are discarded.
func (s *Server) ListenAndServe(ctx context.Context, idleTTL time.Duration) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr(),
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	if idleTTL > 0 {
		go s.pruneLoop(ctx, idleTTL)
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infof("listening on %s", srv.Addr)
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

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	log.Info("shutting down")
	return srv.Shutdown(shutdownCtx)
}

// MinSessionTTL is the shortest idle timeout ValidateSessionTTL accepts.
const MinSessionTTL = time.Second

// ErrInvalidSessionTTL is returned for a negative or too short idle timeout.
var ErrInvalidSessionTTL = errors.New("invalid session ttl")

// ValidateSessionTTL accepts zero (keep sessions forever) or any duration of
// at least MinSessionTTL.
func ValidateSessionTTL(ttl time.Duration) error {
	switch {
	case ttl < 0:
		return fmt.Errorf("%w: %s is negative", ErrInvalidSessionTTL, ttl)
	case ttl > 0 && ttl < MinSessionTTL:
		return fmt.Errorf("%w: %s is below %s", ErrInvalidSessionTTL, ttl, MinSessionTTL)
	}
	return nil
}

// pruneInterval is how often idle sessions are swept: half the ttl, never
// less than a millisecond.
func pruneInterval(ttl time.Duration) time.Duration {
	return max(ttl/2, time.Millisecond)
}

func (s *Server) pruneLoop(ctx context.Context, ttl time.Duration) {
	ticker := time.NewTicker(pruneInterval(ttl))
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			for _, id := range s.sessions.Prune(ttl) {
				log.WithField("session", id).Info("discarded idle session")
				s.journal(ctx, store.SessionEventData{
					SessionID: id,
					Action:    store.ActionDiscard,
					Detail:    "idle",
				})
			}
		}
	}
}

// journal appends a session event. Failures are logged and never surface.
func (s *Server) journal(ctx context.Context, data store.SessionEventData) {
	if s.events == nil {
		return
	}
	if err := s.events.AppendSessionEvent(context.WithoutCancel(ctx), data); err != nil {
		log.WithError(err).WithField("session", data.SessionID).Warn("failed to journal session event")
	}
}
