package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dgallion1/examstyle/internal/config"
	"github.com/dgallion1/examstyle/internal/content"
	"github.com/dgallion1/examstyle/internal/pipeline"
)

// Server is the HTTP API server for examstyle.
type Server struct {
	router       chi.Router
	orchestrator *pipeline.Orchestrator
	builder      *content.Builder
	metrics      http.Handler
	log          *slog.Logger
	cfg          config.Config
}

// NewServer creates and configures the HTTP server. metrics may be nil, in
// which case /metrics is not served.
func NewServer(orch *pipeline.Orchestrator, builder *content.Builder, metrics http.Handler, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		orchestrator: orch,
		builder:      builder,
		metrics:      metrics,
		log:          log,
		cfg:          cfg,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))

	// Public endpoints.
	r.Get("/health", s.handleHealth)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics)
	}

	// Authenticated endpoints.
	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(s.cfg.APIKey, s.log))

		r.Route("/api/styles", func(r chi.Router) {
			r.Post("/validate", s.handleValidate)
			r.Post("/compile", s.handleCompile)
			r.Post("/merge", s.handleMerge)
		})
		r.Post("/api/sessions", s.handleSession)

		r.Post("/api/import", s.handleImport)
		r.Get("/api/import/{jobID}/status", s.handleImportStatus)
		r.Get("/api/import/{jobID}/result", s.handleImportResult)

		r.Get("/api/stats/processing", s.handleProcessingStats)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
