// Package server provides the MCP server context and the HTTP surfaces of
// fathom-mcp.
//
// # Key Components
//
// ServerContext holds the resolved configuration, the shared Fathom client
// and the metrics and audit hooks used by the tool handlers. Setting a
// metrics recorder rebuilds the client so upstream calls are recorded.
//
// HTTPServer serves the streamable HTTP transport on /mcp together with
// Kubernetes style health endpoints:
//   - /healthz: liveness
//   - /readyz: readiness, turns 503 once shutdown starts
//   - /healthz/detailed: uptime, upstream root and whether an API key is set
//
// MetricsServer exposes Prometheus metrics on a dedicated port so that
// operational data stays off the MCP listener.
package server
