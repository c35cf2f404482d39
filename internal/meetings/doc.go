// Package meetings implements the meeting search pipeline behind the
// search_meetings tool: draining the paginated Fathom meeting list
// (Aggregate), selecting meetings by keyword and date range (Filter) and
// projecting them into a display view (Format).
//
// Keyword matching is a disjunction over all participant and title keywords
// and all searchable fields; the keyword criterion is then combined with the
// date range by conjunction.
package meetings
