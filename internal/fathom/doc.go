// Package fathom is a small client for the Fathom external API.
//
// It covers the three endpoints the MCP server needs:
//   - GET /meetings (cursor paginated)
//   - GET /recordings/{id}/summary
//   - GET /recordings/{id}/transcript
//
// Every request authenticates with the X-Api-Key header. Upstream failures
// are returned as *Error values wrapping one of the sentinel errors
// (ErrUnauthorized, ErrNotFound, ErrRateLimited, ErrUnexpectedResponse) or an
// *APIError. The client never retries.
package fathom
