package instrumentation

// Cardinality management helpers for metrics. Label values derived from
// request input must pass through these before being recorded.

// knownHTTPPaths are the routes served by the streamable HTTP transport.
var knownHTTPPaths = map[string]struct{}{
	"/mcp":              {},
	"/healthz":          {},
	"/readyz":           {},
	"/healthz/detailed": {},
	"/metrics":          {},
}

// NormalizeHTTPPath maps any request path outside the served routes to "other"
// so scanners probing random URLs cannot grow the label set.
func NormalizeHTTPPath(path string) string {
	if _, ok := knownHTTPPaths[path]; ok {
		return path
	}
	return "other"
}

// Operation types for upstream API metrics and spans.
// Status and service constants are defined in config.go.
const (
	OperationList       = "list"
	OperationSummary    = "summary"
	OperationTranscript = "transcript"
	OperationSearch     = "search"
)
