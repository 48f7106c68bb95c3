package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/arthur-theuer/signaleditor/internal/config"
	"github.com/arthur-theuer/signaleditor/internal/pipeline"
	"github.com/arthur-theuer/signaleditor/internal/report"
	"github.com/arthur-theuer/signaleditor/internal/resolver"
	"github.com/arthur-theuer/signaleditor/internal/routestore"
)

// Deps are the collaborators the API serves from.
type Deps struct {
	Orchestrator *pipeline.Orchestrator
	Resolver     *resolver.Resolver
	Store        routestore.Store
	Builder      report.Builder
	Metrics      *Metrics
	Gatherer     prometheus.Gatherer
}

// Server is the HTTP API server of the signal editor.
type Server struct {
	router       chi.Router
	orchestrator *pipeline.Orchestrator
	resolver     *resolver.Resolver
	store        routestore.Store
	builder      report.Builder
	metrics      *Metrics
	gatherer     prometheus.Gatherer
	validator    *requestValidator
	log          *slog.Logger
	cfg          config.Config
}

// NewServer creates and configures the HTTP server.
func NewServer(deps Deps, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		orchestrator: deps.Orchestrator,
		resolver:     deps.Resolver,
		store:        deps.Store,
		builder:      deps.Builder,
		metrics:      deps.Metrics,
		gatherer:     deps.Gatherer,
		validator:    newRequestValidator(),
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
	r.Use(PromMiddleware(s.metrics))

	// Public endpoints.
	r.Get("/health", s.handleHealth)
	if s.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}
	r.Post("/api/auth", s.handleAuth)

	// Authenticated endpoints.
	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(s.cfg.EditorPIN, s.log))
		r.Use(middleware.RequestSize(s.cfg.MaxUploadBytes))

		r.Post("/api/classify", s.handleClassify)
		r.Post("/api/choices", s.handleChoices)
		r.Post("/api/autofill", s.handleAutofill)

		r.Post("/api/report", s.handleReport)
		r.Post("/api/resolve", s.handleResolve)
		r.Post("/api/stitch", s.handleStitch)

		r.Post("/api/exports", s.handleExport)
		r.Get("/api/exports/{jobID}/status", s.handleExportStatus)
		r.Get("/api/exports/{jobID}/download", s.handleExportDownload)

		r.Get("/api/files", s.handleListFiles)
		r.Post("/api/files", s.handleCreateFile)
		r.Get("/api/files/{name}", s.handleGetFile)
		r.Put("/api/files/{name}", s.handlePutFile)
		r.Delete("/api/files/{name}", s.handleDeleteFile)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
