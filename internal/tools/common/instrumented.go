package common

import (
	"context"
	"errors"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/teemow/docsmith/internal/instrumentation"
	"github.com/teemow/docsmith/internal/server"
)

// ToolHandler is the mcp-go tool handler signature.
type ToolHandler = func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error)

// InstrumentedToolHandler wraps handler with a tool span, the tool metrics
// and an audit record. service and operation label the audit record and
// may be empty for offline tools.
//
// Usage:
//
//	s.AddTool(tool, common.InstrumentedToolHandler("docs_get_document", instrumentation.ServiceDocs, instrumentation.OperationGet, sc, handler))
func InstrumentedToolHandler(toolName, service, operation string, sc *server.ServerContext, handler ToolHandler) ToolHandler {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := request.GetArguments()
		account := ""
		if service != "" {
			account = GetAccountFromArgs(sc, args)
		}

		ctx, span := instrumentation.StartToolSpan(ctx, toolName)
		invocation := instrumentation.NewToolInvocation(toolName).
			WithSpanContext(ctx).
			WithService(service, operation).
			WithAccount(account).
			WithTarget(StringArg(args, "documentId", ""))

		start := time.Now()
		result, err := handler(ctx, request)
		duration := time.Since(start)

		outcome := err
		if outcome == nil && result != nil && result.IsError {
			outcome = errors.New(resultText(result))
		}
		invocation.Complete(outcome)

		sc.Metrics().RecordToolInvocation(ctx, toolName, invocation.Status(), account, duration)
		sc.AuditLogger().LogToolInvocation(invocation)
		instrumentation.EndSpan(span, outcome)

		return result, err
	}
}

func resultText(result *mcp.CallToolResult) string {
	for _, c := range result.Content {
		if text, ok := c.(mcp.TextContent); ok {
			return text.Text
		}
	}
	return "tool returned an error"
}
