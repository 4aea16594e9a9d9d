// Package api provides the HTTP API server and handlers for StatLine.
package api

import (
	"log/slog"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/akanel15/StatLine-sub001/internal/ratelimit"
	"github.com/akanel15/StatLine-sub001/internal/store"
)

// Options configures the HTTP surface.
type Options struct {
	// AllowedOrigins for CORS. Empty allows any origin.
	AllowedOrigins []string
	// ImportRateLimit is the number of import requests per minute per client.
	ImportRateLimit int
	// Version is reported in the OpenAPI document.
	Version string
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	store         *store.Store
	services      *Services
	router        *chi.Mux
	api           huma.API
	importLimiter *ratelimit.KeyedRateLimiter
	logger        *slog.Logger
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(st *store.Store, services *Services, opts Options, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Version == "" {
		opts.Version = "1.0.0"
	}

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)
	router.Use(requestLogger(logger))
	router.Use(cors.Handler(corsOptions(opts.AllowedOrigins)))

	api := humachi.New(router, huma.DefaultConfig("StatLine API", opts.Version))
	RegisterErrorHandler()

	s := &Server{
		store:         st,
		services:      services,
		router:        router,
		api:           api,
		importLimiter: ratelimit.PerMinute(opts.ImportRateLimit),
		logger:        logger,
	}
	s.registerRoutes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// API returns the huma API, used by tests and OpenAPI dumps.
func (s *Server) API() huma.API {
	return s.api
}

// Shutdown releases background resources. Implements do.Shutdowner.
func (s *Server) Shutdown() error {
	s.importLimiter.Stop()
	return nil
}

func (s *Server) registerRoutes() {
	s.registerHealthRoutes()
	s.registerRosterRoutes()
	s.registerGameRoutes()
	s.registerBackupRoutes()
	s.registerAdminRoutes()
}

func corsOptions(origins []string) cors.Options {
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"Content-Disposition", "X-Request-ID"},
		MaxAge:         300,
	}
}
