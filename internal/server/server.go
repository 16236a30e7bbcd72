// Package server exposes the extractor, tutor and session layer as a JSON
// HTTP API and serves the static frontend.
package server

import (
	"context"
	"net/http"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/sells-group/cf-tutor/internal/model"
	"github.com/sells-group/cf-tutor/internal/monitoring"
	"github.com/sells-group/cf-tutor/internal/session"
	"github.com/sells-group/cf-tutor/internal/tutor"
)

// Extractor is the problem pipeline the API drives.
type Extractor interface {
	Extract(ctx context.Context, url string) (*model.Problem, error)
	Search(id string) (*model.Problem, bool)
	List() []model.ProblemSummary
}

// Tutor produces the LLM-backed replies.
type Tutor interface {
	StartSession(ctx context.Context, p *model.Problem) string
	Respond(ctx context.Context, msg string, p *model.Problem, history []model.ChatMessage, hintsGiven int) tutor.Reply
	ProgressiveHint(ctx context.Context, p *model.Problem, hintsGiven int, history []model.ChatMessage) tutor.Hint
	CompleteSolution(ctx context.Context, p *model.Problem, history []model.ChatMessage) tutor.Solution
	AnalyzeCode(ctx context.Context, code string, p *model.Problem) string
}

// Config holds the HTTP-facing settings.
type Config struct {
	FrontendDir string
	CORSOrigins []string
}

// Server wires handlers to their collaborators.
type Server struct {
	cfg       Config
	extractor Extractor
	tutor     Tutor
	sessions  *session.Manager
	metrics   *monitoring.Metrics
	collector *monitoring.Collector
	now       func() time.Time
}

// Option configures a Server.
type Option func(*Server)

// WithMetrics records request metrics and serves /metrics.
func WithMetrics(m *monitoring.Metrics) Option {
	return func(s *Server) { s.metrics = m }
}

// WithCollector lets the health endpoint report breaker states.
func WithCollector(c *monitoring.Collector) Option {
	return func(s *Server) { s.collector = c }
}

// New creates a Server.
func New(cfg Config, ex Extractor, tu Tutor, sessions *session.Manager, opts ...Option) *Server {
	s := &Server{
		cfg:       cfg,
		extractor: ex,
		tutor:     tu,
		sessions:  sessions,
		now:       time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Handler builds the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(s.recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.corsOrigins(),
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "Endpoint not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	r.Get("/", s.handleIndex)
	r.Get("/static/*", s.handleStatic)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	}

	r.Route("/api", func(r chi.Router) {
		r.Post("/extract-problem", s.handleExtractProblem)
		r.Post("/start-session", s.handleStartSession)
		r.Post("/chat", s.handleChat)
		r.Post("/get-hint", s.handleGetHint)
		r.Post("/get-solution", s.handleGetSolution)
		r.Post("/analyze-code", s.handleAnalyzeCode)
		r.Get("/problems", s.handleListProblems)
		r.Get("/problems/{id}", s.handleGetProblem)
		r.Get("/conversation/{id}/history", s.handleConversationHistory)
		r.Get("/session/{id}/history", s.handleSessionHistory)
		r.Get("/health", s.handleHealth)
	})

	return r
}

func (s *Server) corsOrigins() []string {
	if len(s.cfg.CORSOrigins) == 0 {
		return []string{"*"}
	}
	return s.cfg.CORSOrigins
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	serveFile(w, r, filepath.Join(s.cfg.FrontendDir, "index.html"))
}

func (s *Server) handleStatic(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "*")
	serveFile(w, r, filepath.Join(s.cfg.FrontendDir, "static", filepath.FromSlash(filepath.Clean("/"+name))))
}
