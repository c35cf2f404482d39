// Package instrumentation provides OpenTelemetry instrumentation for the
// fathom-mcp server.
//
// This package enables observability through:
//   - OpenTelemetry metrics for the HTTP transport, tool calls and Fathom API calls
//   - Distributed tracing for tool invocations and upstream requests
//   - Prometheus metrics export via /metrics endpoint on dedicated port
//   - OTLP export support for modern observability platforms
//
// # Metrics
//
// Server/HTTP Metrics:
//   - http_requests_total: Counter of HTTP requests by method, path, and status
//   - http_request_duration_seconds: Histogram of HTTP request durations
//   - active_sessions: Gauge of active MCP sessions
//
// Upstream API Metrics:
//   - upstream_api_operations_total: Counter of Fathom API operations by service, operation, status
//   - upstream_api_operation_duration_seconds: Histogram of Fathom API operation durations
//   - fathom_pages_fetched_total: Counter of meeting list pages requested by status
//
// Search Metrics:
//   - meeting_search_matched: Histogram of meetings matched per search
//
// MCP Tool Metrics:
//   - mcp_tool_invocations_total: Counter of MCP tool invocations by tool name and status
//   - mcp_tool_duration_seconds: Histogram of MCP tool execution durations
//
// # Tracing
//
// Distributed tracing spans are created for:
//   - MCP tool invocations (tool.<name>)
//   - Fathom API calls (fathom.<operation>)
//   - outgoing HTTP requests via otelhttp
//
// # Configuration
//
// Instrumentation can be configured via environment variables:
//   - INSTRUMENTATION_ENABLED: Enable/disable instrumentation (default: true)
//   - METRICS_EXPORTER: Metrics exporter type (prometheus, otlp, stdout, default: prometheus)
//   - TRACING_EXPORTER: Tracing exporter type (otlp, stdout, none, default: none)
//   - OTEL_EXPORTER_OTLP_ENDPOINT: OTLP endpoint for traces/metrics
//   - OTEL_TRACES_SAMPLER_ARG: Sampling rate (0.0 to 1.0, default: 0.1)
//   - OTEL_SERVICE_NAME: Service name (default: fathom-mcp)
//
// # Example Usage
//
//	provider, err := instrumentation.NewProvider(ctx, instrumentation.DefaultConfig())
//	if err != nil {
//		return err
//	}
//	defer provider.Shutdown(ctx)
//
//	recorder := provider.Metrics()
//	recorder.RecordUpstreamOperation(ctx, "fathom", "list", "success", time.Since(start))
//	recorder.RecordToolInvocation(ctx, "search_meetings", "success", time.Since(start))
package instrumentation
