package httpserver

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httplog/v3"
	"github.com/google/uuid"

	"github.com/Clark-Hu/cinema-catalog/internal/config"
	"github.com/Clark-Hu/cinema-catalog/internal/service"
)

// MovieService is the movie surface the handlers depend on.
type MovieService interface {
	Create(ctx context.Context, req service.MovieCreateRequest) (service.MovieResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (service.MovieResponse, error)
	GetAll(ctx context.Context, name string) ([]service.MovieResponse, error)
	Update(ctx context.Context, id uuid.UUID, req service.MovieUpdateRequest) (service.MovieResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteMany(ctx context.Context, ids []string) (service.DeleteManyResponse, error)
}

// ActorService is the actor surface the handlers depend on.
type ActorService interface {
	AddActor(ctx context.Context, in service.ActorInput) (service.ActorResponse, error)
	GetAll(ctx context.Context, filter service.ActorFilter) ([]service.ActorResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (service.ActorResponse, error)
	Update(ctx context.Context, id uuid.UUID, patch service.ActorPatch) (service.ActorResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// DirectorService is the director surface the handlers depend on.
type DirectorService interface {
	Add(ctx context.Context, in service.DirectorInput) (service.DirectorResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (service.DirectorResponse, error)
	GetAll(ctx context.Context, name string) ([]service.DirectorResponse, error)
	Update(ctx context.Context, id uuid.UUID, in service.DirectorInput) (service.DirectorResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// HealthChecker reports whether the backing store is reachable.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// Services groups the aggregate services exposed over HTTP.
type Services struct {
	Movies    MovieService
	Actors    ActorService
	Directors DirectorService
}

// Server wires HTTP routing, middleware, and handlers.
type Server struct {
	cfg       config.Config
	health    HealthChecker
	movies    MovieService
	actors    ActorService
	directors DirectorService
	logger    *slog.Logger
	router    chi.Router
	httpSrv   *http.Server
}

// New constructs the HTTP server with base middleware and routes.
func New(cfg config.Config, health HealthChecker, svc Services, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:             slog.LevelDebug,
		Schema:            httplog.SchemaECS.Concise(true),
		LogRequestHeaders: []string{},
	}))

	s := &Server{
		cfg:       cfg,
		health:    health,
		movies:    svc.Movies,
		actors:    svc.Actors,
		directors: svc.Directors,
		logger:    logger,
		router:    r,
	}
	s.registerRoutes()
	return s
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) registerRoutes() {
	s.router.Get("/healthz", s.handleHealthz)
	s.router.Route("/movies", func(r chi.Router) {
		r.Get("/", s.handleListMovies)
		r.Post("/", s.handleCreateMovie)
		r.Delete("/", s.handleDeleteMovies)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.handleGetMovie)
			r.Put("/", s.handleUpdateMovie)
			r.Delete("/", s.handleDeleteMovie)
		})
	})
	s.router.Route("/actors", func(r chi.Router) {
		r.Get("/", s.handleListActors)
		r.Post("/", s.handleCreateActor)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.handleGetActor)
			r.Put("/", s.handleUpdateActor)
			r.Delete("/", s.handleDeleteActor)
		})
	})
	s.router.Route("/directors", func(r chi.Router) {
		r.Get("/", s.handleListDirectors)
		r.Post("/", s.handleCreateDirector)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.handleGetDirector)
			r.Put("/", s.handleUpdateDirector)
			r.Delete("/", s.handleDeleteDirector)
		})
	})
}

// Start boots the HTTP server and blocks until ctx is cancelled or the
// listener fails.
func (s *Server) Start(ctx context.Context) error {
	s.httpSrv = &http.Server{
		Addr:         ":" + s.cfg.Port,
		Handler:      s.router,
		ReadTimeout:  time.Duration(s.cfg.ReadTimeoutSecs) * time.Second,
		WriteTimeout: time.Duration(s.cfg.WriteTimeoutSecs) * time.Second,
		IdleTimeout:  time.Duration(s.cfg.IdleTimeoutSecs) * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", "addr", s.httpSrv.Addr)
		if err := s.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.httpSrv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("http server shutdown", "err", err)
		}
		return ctx.Err()
	case err := <-errCh:
		return err
	}
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpSrv == nil {
		return nil
	}
	return s.httpSrv.Shutdown(ctx)
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if s.health == nil {
		http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
		return
	}
	if err := s.health.HealthCheck(ctx); err != nil {
		s.logger.Warn("health check failed", "err", err)
		http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
