// Package logging provides structured logging utilities for the fathom-mcp server.
//
// This package centralizes logging patterns to ensure consistent, structured logging
// throughout the codebase using the standard library's slog package.
//
// # Key Features
//
//   - Structured logging with slog
//   - PII sanitization (email anonymization)
//   - Consistent attribute naming across the codebase
//   - Logger adapter interface for flexibility
//
// # Usage Patterns
//
// Create a logger with standard attributes:
//
//	logger := logging.WithOperation(slog.Default(), "fathom.summary")
//	logger.Info("summary fetched",
//	    logging.RecordingID(id),
//	    logging.Status("success"))
//
// Sanitize sensitive data before logging:
//
//	logger.Info("starting", "api_key", logging.SanitizeToken(apiKey))
//	logger.Debug("search", "participant", logging.AnonymizeEmail(email))
//
// # Security Considerations
//
// This package is designed with security in mind:
//   - Participant emails are hashed to prevent PII leakage while allowing correlation
//   - The Fathom API key is never logged directly, only its length
package logging
