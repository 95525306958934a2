package mcp

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/quarryhq/fieldsmith/internal/core/port"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// inFlight tracks tool calls between the before and after/error hooks,
// keyed by JSON-RPC request id.
type inFlight struct {
	mu    sync.Mutex
	calls map[any]callState
}

type callState struct {
	started time.Time
	span    trace.Span
}

func (f *inFlight) begin(id any, state callState) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.calls == nil {
		f.calls = make(map[any]callState)
	}
	f.calls[id] = state
}

// finish removes the call and returns its elapsed time and span. The span
// may be nil when tracing is disabled.
func (f *inFlight) finish(id any) (time.Duration, trace.Span) {
	f.mu.Lock()
	defer f.mu.Unlock()
	state, ok := f.calls[id]
	if !ok {
		return 0, nil
	}
	delete(f.calls, id)
	return time.Since(state.started), state.span
}

// ToolCallHooks builds MCP server hooks that log every tool call with its
// duration and outcome, and record OTel spans and metrics when configured.
func ToolCallHooks(logger *slog.Logger, tracer trace.Tracer, inst port.Instrumentation) *server.Hooks {
	hooks := &server.Hooks{}
	pending := &inFlight{}

	hooks.AddBeforeCallTool(func(ctx context.Context, id any, req *mcp.CallToolRequest) {
		state := callState{started: time.Now()}
		if tracer != nil {
			_, state.span = tracer.Start(ctx, "fieldsmith.tool",
				trace.WithAttributes(attribute.String("mcp.tool", req.Params.Name)),
			)
		}
		pending.begin(id, state)
	})

	hooks.AddAfterCallTool(func(ctx context.Context, id any, req *mcp.CallToolRequest, result any) {
		duration, span := pending.finish(id)

		toolErr := false
		if r, ok := result.(*mcp.CallToolResult); ok && r.IsError {
			toolErr = true
		}

		level := slog.LevelInfo
		if toolErr {
			level = slog.LevelError
		}
		logger.LogAttrs(ctx, level, "tool call",
			slog.String("rpc.method", "tools/call"),
			slog.String("mcp.tool", req.Params.Name),
			slog.Duration("duration", duration),
			slog.Bool("error", toolErr),
		)

		if inst != nil {
			inst.RecordToolDuration(ctx, float64(duration.Milliseconds()))
		}

		if span != nil {
			if toolErr {
				span.SetStatus(codes.Error, "tool returned error")
				span.RecordError(fmt.Errorf("tool %s returned error", req.Params.Name))
			}
			span.End()
		}
	})

	hooks.AddOnError(func(ctx context.Context, id any, method mcp.MCPMethod, message any, err error) {
		duration, span := pending.finish(id)

		if req, ok := message.(*mcp.CallToolRequest); ok {
			logger.LogAttrs(ctx, slog.LevelError, "tool call",
				slog.String("rpc.method", "tools/call"),
				slog.String("mcp.tool", req.Params.Name),
				slog.Duration("duration", duration),
				slog.Bool("error", true),
				slog.String("error.message", err.Error()),
			)
		}

		if span != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			span.End()
		}
	})

	return hooks
}
