// Package mcp exposes the generator to Model Context Protocol clients.
package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/statewrap"
	"github.com/aretw0/statewrap/internal/logging"
	"github.com/aretw0/statewrap/internal/validator"
	"github.com/aretw0/statewrap/pkg/domain"
	"github.com/aretw0/statewrap/pkg/schema"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// EntityURIPrefix addresses the JSON unit of an entity as a resource.
const EntityURIPrefix = "statewrap://entities/"

const shutdownTimeout = 5 * time.Second

// Engine is the part of the statewrap engine the MCP server drives.
type Engine interface {
	List(ctx context.Context) ([]string, error)
	Describe(ctx context.Context, name string) (*domain.Entity, error)
	Generate(ctx context.Context, name string) (*domain.CompilationUnit, error)
	GenerateEntity(ctx context.Context, entity *domain.Entity) (*domain.CompilationUnit, error)
	Validate(ctx context.Context, name string) (*domain.Entity, *domain.CompilationUnit, error)
	Emit(w io.Writer, unit *domain.CompilationUnit, format string) error
}

// ValidateArgs are the arguments of the validate tool.
type ValidateArgs struct {
	Name string `json:"name"`
	From string `json:"from,omitempty"`
}

// ValidateResponse is the structured result of the validate tool.
type ValidateResponse struct {
	Entity   string   `json:"entity" jsonschema_description:"Name of the validated entity"`
	Valid    bool     `json:"valid" jsonschema_description:"Whether the entity expands into a unit"`
	Wrappers int      `json:"wrappers" jsonschema_description:"Number of generated wrappers"`
	Reason   string   `json:"reason,omitempty" jsonschema_description:"Machine-readable rejection reason"`
	Message  string   `json:"message,omitempty" jsonschema_description:"Why the entity was rejected"`
	Findings []string `json:"findings,omitempty" jsonschema_description:"Lint findings of a valid entity"`
}

// Server wraps the statewrap engine and exposes it as an MCP Server.
type Server struct {
	engine    Engine
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// Option configures the server.
type Option func(*Server)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer creates a new MCP Server instance.
func NewServer(engine Engine, opts ...Option) *Server {
	s := &Server{
		engine:    engine,
		logger:    logging.NewNop(),
		mcpServer: server.NewMCPServer("statewrap-mcp", strings.TrimSpace(statewrap.Version), server.WithRecovery()),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	s.registerResources()
	return s
}

// MCPServer returns the underlying protocol server.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE serves on addr using SSE until ctx is cancelled.
func (s *Server) ServeSSE(ctx context.Context, addr, baseURL string) error {
	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.NewTool("list_entities",
		mcp.WithDescription("List the names of the described stateful entities."),
	), s.handleList)

	s.mcpServer.AddTool(mcp.NewTool("describe_entity",
		mcp.WithDescription("Return the description of an entity: state groups and capabilities."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Entity name")),
	), s.handleDescribe)

	s.mcpServer.AddTool(mcp.NewTool("generate",
		mcp.WithDescription("Generate the state wrappers of an entity and return them in the requested format."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Entity name")),
		mcp.WithString("format", mcp.Description("Output format: go, json or mermaid (default go)")),
	), s.handleGenerate)

	s.mcpServer.AddTool(mcp.NewTool("generate_from_description",
		mcp.WithDescription("Generate wrappers from an inline JSON description instead of a stored one."),
		mcp.WithString("description", mcp.Required(), mcp.Description("JSON entity description")),
		mcp.WithString("format", mcp.Description("Output format: go, json or mermaid (default go)")),
	), s.handleGenerateFromDescription)

	s.mcpServer.AddTool(mcp.NewTool("validate",
		mcp.WithDescription("Check an entity for invalid state representations and lint its unit."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Entity name")),
		mcp.WithString("from", mcp.Description("Also report wrappers unreachable from this wrapper")),
		mcp.WithOutputSchema[ValidateResponse](),
	), mcp.NewStructuredToolHandler(s.handleValidate))
}

func (s *Server) handleList(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	names, err := s.engine.List(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("list failed: %v", err)), nil
	}
	jsonBytes, _ := json.Marshal(names)
	return mcp.NewToolResultText(string(jsonBytes)), nil
}

func (s *Server) handleDescribe(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	entity, err := s.engine.Describe(ctx, request.GetString("name", ""))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("describe failed: %v", err)), nil
	}
	jsonBytes, _ := json.MarshalIndent(entity, "", "  ")
	return mcp.NewToolResultText(string(jsonBytes)), nil
}

func (s *Server) handleGenerate(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name := request.GetString("name", "")
	unit, err := s.engine.Generate(ctx, name)
	if err != nil {
		s.logger.Warn("MCP Generate: generation failed", "entity", name, "err", err)
		return mcp.NewToolResultError(fmt.Sprintf("generate failed: %v", err)), nil
	}
	return s.emit(unit, request.GetString("format", "go"))
}

func (s *Server) handleGenerateFromDescription(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var raw map[string]any
	if err := json.Unmarshal([]byte(request.GetString("description", "")), &raw); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("description is not valid JSON: %v", err)), nil
	}
	entity, err := schema.Decode(raw)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid description: %v", err)), nil
	}
	unit, err := s.engine.GenerateEntity(ctx, entity)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("generate failed: %v", err)), nil
	}
	return s.emit(unit, request.GetString("format", "go"))
}

func (s *Server) emit(unit *domain.CompilationUnit, format string) (*mcp.CallToolResult, error) {
	var buf bytes.Buffer
	if err := s.engine.Emit(&buf, unit, format); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("emit failed: %v", err)), nil
	}
	return mcp.NewToolResultText(buf.String()), nil
}

func (s *Server) handleValidate(ctx context.Context, request mcp.CallToolRequest, args ValidateArgs) (ValidateResponse, error) {
	resp := ValidateResponse{Entity: args.Name}

	entity, unit, err := s.engine.Validate(ctx, args.Name)
	if err != nil {
		isr, ok := domain.AsInvalidStateRepresentation(err)
		if !ok {
			return resp, fmt.Errorf("validate failed: %w", err)
		}
		resp.Reason = string(isr.Reason)
		resp.Message = isr.Message
		return resp, nil
	}

	resp.Valid = true
	resp.Wrappers = len(unit.Wrappers)
	start := args.From
	if _, ok := unit.Lookup(start); !ok {
		start = ""
	}
	findings, err := validator.Lint(entity, unit, start)
	if err != nil {
		return resp, err
	}
	for _, f := range findings {
		resp.Findings = append(resp.Findings, f.String())
	}
	return resp, nil
}

func (s *Server) registerResources() {
	s.mcpServer.AddResourceTemplate(mcp.NewResourceTemplate(EntityURIPrefix+"{name}", "Generated unit",
		mcp.WithTemplateDescription("JSON compilation unit of a described entity"),
		mcp.WithTemplateMIMEType("application/json"),
	), s.readEntity)
}

func (s *Server) readEntity(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	uri := request.Params.URI
	name := strings.TrimPrefix(uri, EntityURIPrefix)
	if name == uri || name == "" {
		return nil, fmt.Errorf("unexpected resource uri %q", uri)
	}

	unit, err := s.engine.Generate(ctx, name)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := s.engine.Emit(&buf, unit, "json"); err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     buf.String(),
		},
	}, nil
}
