// Package cmd implements the command-line interface for fathom-mcp.
//
// This package provides the following commands:
//   - serve: Start the MCP server (stdio or streamable HTTP)
//   - meetings search|summary|transcript: Query Fathom from the terminal
//   - version: Display version information
//   - generate-docs: Generate markdown documentation for all MCP tools
//
// The serve command on stdio is the default when no subcommand is specified.
package cmd
