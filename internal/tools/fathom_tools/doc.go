// Package fathom_tools provides the MCP tools for searching Fathom meeting
// recordings and drilling into their summaries and transcripts.
//
// Available tools:
//   - search_meetings - Aggregate all meetings and filter them by participant
//     or title keywords and an inclusive date range
//   - fathom_get_summary - Fetch the summary of one recording
//   - fathom_get_transcript - Fetch the normalized transcript of one recording
//
// Keyword filters are case-insensitive substrings matched against meeting
// titles and invitee names and emails. Participant and title keywords are
// merged, so a meeting matches when any keyword hits any of those fields.
// Dates are calendar days (YYYY-MM-DD) in the configured timezone.
//
// Every invocation is independent. A failed page during search still returns
// the meetings collected before the failure, flagged as an error result.
//
// Example usage:
//
//	search_meetings(participantKeywords=["alice@acme.com"], startDate="2024-01-01")
//	fathom_get_summary(recordingId=123456)
//	fathom_get_transcript(recordingId=123456)
package fathom_tools
