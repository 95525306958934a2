// Package mcp exposes classification and generation as MCP tools.
package mcp

import (
	"log/slog"

	"github.com/mark3labs/mcp-go/server"
	"github.com/quarryhq/fieldsmith/internal/core/port"
	"github.com/quarryhq/fieldsmith/internal/core/service"
	"go.opentelemetry.io/otel/trace"
)

// Deps bundles the collaborators the tool handlers need. Profiler and
// Templates may be nil; the matching tools are then not registered.
type Deps struct {
	Classify  *service.ClassifyService
	Generate  *service.GenerateService
	Templates port.TemplateGenerator
	Profiler  port.TableProfiler
}

// NewServer creates an MCPServer with tools and logging hooks.
func NewServer(version string, deps Deps, logger *slog.Logger, tracer trace.Tracer, inst port.Instrumentation) *server.MCPServer {
	s := server.NewMCPServer(
		serverName,
		version,
		server.WithHooks(ToolCallHooks(logger, tracer, inst)),
	)

	RegisterTools(s, deps)

	return s
}
