// Package instrumentation provides OpenTelemetry metrics, tracing and tool
// audit logging for docsmith.
//
// # Metrics
//
// Tool metrics:
//   - mcp_tool_invocations_total: tool calls by tool and status
//   - mcp_tool_duration_seconds: tool call duration
//
// Google API metrics:
//   - google_api_operations_total: Docs, Slides and Drive calls by service, operation and status
//   - google_api_operation_duration_seconds: Google API call duration
//
// Conversion metrics:
//   - conversions_total: Markdown conversions by kind (docs, slides)
//   - conversion_requests: batch update requests produced per conversion
//   - slides_partial_failures_total: slides that failed inside an otherwise created deck
//
// HTTP metrics:
//   - http_requests_total and http_request_duration_seconds
//
// # Tracing
//
// Spans are created for tool calls (tool.<name>) and Google API calls
// (google.<service>.<operation>). Tracing is off unless TRACING_EXPORTER is
// set to otlp or stdout.
//
// # Configuration
//
// Environment variables read by DefaultConfig:
//   - INSTRUMENTATION_ENABLED (default: true)
//   - METRICS_EXPORTER: prometheus, otlp or stdout (default: prometheus)
//   - TRACING_EXPORTER: otlp, stdout or none (default: none)
//   - OTEL_EXPORTER_OTLP_ENDPOINT, OTEL_EXPORTER_OTLP_INSECURE
//   - OTEL_TRACES_SAMPLER_ARG (default: 0.1)
//   - OTEL_SERVICE_NAME (default: docsmith)
//   - METRICS_DETAILED_LABELS, AUDIT_LOGGING_ENABLED, AUDIT_LOGGING_INCLUDE_ACCOUNT
package instrumentation
