// Package resources provides MCP resources for reading Fathom data without a
// tool call.
//
// Resource templates expose the same detail fetchers as the tools:
//   - fathom://recordings/{recordingId}/summary
//   - fathom://recordings/{recordingId}/transcript
//
// fathom://status reports the effective connection settings.
package resources
