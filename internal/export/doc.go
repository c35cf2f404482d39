// Package export writes meeting search results in machine-readable formats
// for the meetings command.
package export
