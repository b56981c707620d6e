package instrumentation

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracerName is the tracer name used for docsmith spans.
const TracerName = "github.com/teemow/docsmith"

// Span attribute keys.
const (
	SpanAttrTool           = "mcp.tool"
	SpanAttrAccount        = "mcp.account"
	SpanAttrReadOnly       = "mcp.read_only"
	SpanAttrService        = "google.service"
	SpanAttrOperation      = "google.operation"
	SpanAttrDocumentID     = "docs.document_id"
	SpanAttrPresentationID = "slides.presentation_id"
	SpanAttrRequestCount   = "docsmith.request_count"
)

// DocumentID returns the span attribute for a Docs document ID.
func DocumentID(id string) attribute.KeyValue {
	return attribute.String(SpanAttrDocumentID, id)
}

// PresentationID returns the span attribute for a Slides presentation ID.
func PresentationID(id string) attribute.KeyValue {
	return attribute.String(SpanAttrPresentationID, id)
}

// RequestCount returns the span attribute for the size of a batch update.
func RequestCount(n int) attribute.KeyValue {
	return attribute.Int(SpanAttrRequestCount, n)
}

// StartToolSpan starts a server span for an MCP tool invocation. The caller
// ends it.
func StartToolSpan(ctx context.Context, toolName string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	allAttrs := make([]attribute.KeyValue, 0, len(attrs)+1)
	allAttrs = append(allAttrs, attribute.String(SpanAttrTool, toolName))
	allAttrs = append(allAttrs, attrs...)

	return otel.GetTracerProvider().Tracer(TracerName).Start(ctx, "tool."+toolName,
		trace.WithAttributes(allAttrs...),
		trace.WithSpanKind(trace.SpanKindServer),
	)
}

// StartGoogleAPISpan starts a client span named google.<service>.<operation>.
func StartGoogleAPISpan(ctx context.Context, service, operation string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	allAttrs := make([]attribute.KeyValue, 0, len(attrs)+2)
	allAttrs = append(allAttrs,
		attribute.String(SpanAttrService, service),
		attribute.String(SpanAttrOperation, operation),
	)
	allAttrs = append(allAttrs, attrs...)

	return otel.GetTracerProvider().Tracer(TracerName).Start(ctx, "google."+service+"."+operation,
		trace.WithAttributes(allAttrs...),
		trace.WithSpanKind(trace.SpanKindClient),
	)
}

// EndSpan sets the span status from err and ends it.
func EndSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

// GetTraceID returns the trace ID of the span in ctx, or "".
func GetTraceID(ctx context.Context) string {
	sc := trace.SpanFromContext(ctx).SpanContext()
	if !sc.IsValid() {
		return ""
	}
	return sc.TraceID().String()
}

// GetSpanID returns the span ID of the span in ctx, or "".
func GetSpanID(ctx context.Context) string {
	sc := trace.SpanFromContext(ctx).SpanContext()
	if !sc.IsValid() {
		return ""
	}
	return sc.SpanID().String()
}
