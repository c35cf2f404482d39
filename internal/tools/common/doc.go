// Package common provides shared helpers for the MCP tool implementations:
// instrumentation wrappers for tool handlers and argument parsing for the
// values MCP clients send in loosely typed JSON.
package common
