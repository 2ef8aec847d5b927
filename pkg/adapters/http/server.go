package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/aretw0/statewrap"
	"github.com/aretw0/statewrap/internal/emitter/golang"
	"github.com/aretw0/statewrap/internal/logging"
	"github.com/aretw0/statewrap/internal/presentation/graph"
	"github.com/aretw0/statewrap/pkg/domain"
	"github.com/aretw0/statewrap/pkg/registry"
	"github.com/aretw0/statewrap/pkg/schema"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// maxDescriptionBytes bounds POST /generate bodies.
const maxDescriptionBytes = 1 << 20

// Engine defines what the HTTP surface needs from the statewrap engine.
type Engine interface {
	List(ctx context.Context) ([]string, error)
	Describe(ctx context.Context, name string) (*domain.Entity, error)
	GenerateEntity(ctx context.Context, entity *domain.Entity) (*domain.CompilationUnit, error)
	Emit(w io.Writer, unit *domain.CompilationUnit, format string) error
	Watch(ctx context.Context) (<-chan string, error)
}

// Server serves entity descriptions and generated units.
type Server struct {
	Engine   Engine
	Logger   *slog.Logger
	gatherer prometheus.Gatherer
}

// Option configures the handler.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.Logger = logger
	}
}

// WithMetrics exposes g on GET /metrics.
func WithMetrics(g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.gatherer = g
	}
}

// NewHandler creates a new HTTP handler for the engine.
func NewHandler(engine Engine, opts ...Option) http.Handler {
	server := &Server{Engine: engine, Logger: logging.NewNop()}
	for _, opt := range opts {
		opt(server)
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/health", server.GetHealth)
	r.Get("/info", server.GetInfo)
	r.Get("/events", server.SubscribeEvents)
	r.Route("/entities", func(r chi.Router) {
		r.Get("/", server.ListEntities)
		r.Get("/{name}", server.GetEntity)
		r.Get("/{name}/unit", server.GetUnit)
		r.Get("/{name}/graph", server.GetGraph)
	})
	r.Post("/generate", server.Generate)
	if server.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(server.gatherer, promhttp.HandlerOpts{}))
	}

	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetHealth handles GET /health.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles GET /info.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"app":     "statewrap-http",
		"version": statewrap.Version,
	})
}

// ListEntities handles GET /entities.
func (s *Server) ListEntities(w http.ResponseWriter, r *http.Request) {
	names, err := s.Engine.List(r.Context())
	if err != nil {
		s.fail(w, "List failed", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]string{"entities": names})
}

// GetEntity handles GET /entities/{name}.
func (s *Server) GetEntity(w http.ResponseWriter, r *http.Request) {
	entity, err := s.Engine.Describe(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		s.fail(w, "Describe failed", err)
		return
	}
	writeJSON(w, http.StatusOK, entity)
}

// GetUnit handles GET /entities/{name}/unit?format=json.
func (s *Server) GetUnit(w http.ResponseWriter, r *http.Request) {
	unit, ok := s.generateNamed(w, r)
	if !ok {
		return
	}
	s.emit(w, unit, formatParam(r))
}

// GetGraph handles GET /entities/{name}/graph?from=Wrapper.
func (s *Server) GetGraph(w http.ResponseWriter, r *http.Request) {
	unit, ok := s.generateNamed(w, r)
	if !ok {
		return
	}

	var overlay *graph.GraphOverlay
	if from := r.URL.Query().Get("from"); from != "" {
		if _, ok := unit.Wrapper(from); !ok {
			http.Error(w, fmt.Sprintf("unknown wrapper %q", from), http.StatusNotFound)
			return
		}
		overlay = &graph.GraphOverlay{CurrentWrapper: from}
	}

	w.Header().Set("Content-Type", contentType(graph.Format))
	io.WriteString(w, graph.GenerateMermaid(unit, overlay))
}

// Generate handles POST /generate?format=go. The body is a description document in JSON,
// shorthands included.
func (s *Server) Generate(w http.ResponseWriter, r *http.Request) {
	var raw map[string]any
	if err := json.NewDecoder(io.LimitReader(r.Body, maxDescriptionBytes)).Decode(&raw); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		s.Logger.Warn("Generate: Invalid request body", "err", err)
		return
	}

	entity, err := schema.Decode(raw)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	unit, err := s.Engine.GenerateEntity(r.Context(), entity)
	if err != nil {
		s.fail(w, "Generate failed", err)
		return
	}
	s.emit(w, unit, formatParam(r))
}

// SubscribeEvents handles GET /events (SSE). Every description change is pushed as one data line.
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	events, err := s.Engine.Watch(r.Context())
	if err != nil {
		http.Error(w, fmt.Sprintf("Watch error: %v", err), http.StatusNotImplemented)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			fmt.Fprintf(w, "data: %s\n\n", event)
			flusher.Flush()
		}
	}
}

func (s *Server) generateNamed(w http.ResponseWriter, r *http.Request) (*domain.CompilationUnit, bool) {
	entity, err := s.Engine.Describe(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		s.fail(w, "Describe failed", err)
		return nil, false
	}
	unit, err := s.Engine.GenerateEntity(r.Context(), entity)
	if err != nil {
		s.fail(w, "Generate failed", err)
		return nil, false
	}
	return unit, true
}

// emit renders into a buffer first so emitter failures still produce a clean error status.
func (s *Server) emit(w http.ResponseWriter, unit *domain.CompilationUnit, format string) {
	var buf bytes.Buffer
	if err := s.Engine.Emit(&buf, unit, format); err != nil {
		s.fail(w, "Emit failed", err)
		return
	}
	w.Header().Set("Content-Type", contentType(format))
	buf.WriteTo(w)
}

func (s *Server) fail(w http.ResponseWriter, msg string, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.Logger.Error(msg, "err", err)
	} else {
		s.Logger.Debug(msg, "err", err)
	}
	http.Error(w, err.Error(), status)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrEntityNotFound):
		return http.StatusNotFound
	case errors.Is(err, registry.ErrUnknownFormat):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrInvalidStateRepresentation), errors.Is(err, golang.ErrNotRepresentable):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func formatParam(r *http.Request) string {
	if f := r.URL.Query().Get("format"); f != "" {
		return f
	}
	return "json"
}

func contentType(format string) string {
	switch format {
	case "json":
		return "application/json"
	case "go":
		return "text/x-go; charset=utf-8"
	default:
		return "text/plain; charset=utf-8"
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
