// Package mcpserver exposes the toolkit's actions over the Model
// Context Protocol, so AI assistants can build decks and documents
// through typed tools. Documents travel as opaque handles in tool
// arguments and results; the server itself holds no document state.
package mcpserver

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/wudi/docsmith/actions"
	"github.com/wudi/docsmith/observability"
)

// Version is the MCP server version.
const Version = "0.1.0"

// ErrMissingService is returned when no action service is provided.
var ErrMissingService = errors.New("mcpserver: action service is required")

// Server wraps an MCP server around an action service.
type Server struct {
	svc    *actions.Service
	reg    *actions.Registry
	server *mcp.Server
	log    observability.Logger
}

// NewServer creates an MCP server for the given action service. Which
// remote tools appear depends on which providers the service carries.
func NewServer(svc *actions.Service, log observability.Logger) (*Server, error) {
	if svc == nil {
		return nil, ErrMissingService
	}
	if log == nil {
		log = observability.NopLogger{}
	}
	reg, err := svc.Registry()
	if err != nil {
		return nil, fmt.Errorf("building action registry: %w", err)
	}

	impl := &mcp.Implementation{
		Name:    "docsmith",
		Version: Version,
	}

	s := &Server{
		svc:    svc,
		reg:    reg,
		server: mcp.NewServer(impl, nil),
		log:    log,
	}

	s.registerTools()
	s.registerResources()

	return s, nil
}

// Run starts the MCP server over stdio.
// It blocks until the context is cancelled or an error occurs.
func (s *Server) Run(ctx context.Context) error {
	s.log.Info("mcp server starting", observability.String("transport", "stdio"))
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

// RunHTTP starts the MCP server over HTTP on the specified address.
// It blocks until the context is cancelled or an error occurs.
func (s *Server) RunHTTP(ctx context.Context, addr string) error {
	handler := mcp.NewStreamableHTTPHandler(func(_ *http.Request) *mcp.Server {
		return s.server
	}, nil)

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		httpServer.Shutdown(context.Background()) //nolint:errcheck
	}()

	s.log.Info("mcp server starting",
		observability.String("transport", "http"),
		observability.String("addr", addr))
	err := httpServer.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}
