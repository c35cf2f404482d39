package meetings

import (
	"math"
	"time"

	"github.com/teemow/fathom-mcp/internal/fathom"
)

// DisplayTimeLayout is used for the human-formatted start and end times
const DisplayTimeLayout = "Mon, Jan 2, 2006 3:04 PM MST"

// ElicitationPrompt invites the caller to drill into a result.
const ElicitationPrompt = "Would you like a summary or the full transcript of any of these meetings? " +
	"Call fathom_get_summary or fathom_get_transcript with the recordingId of the meeting."

// Participant is the display view of a calendar invitee
type Participant struct {
	Name  string `json:"name,omitempty" yaml:"name,omitempty"`
	Email string `json:"email,omitempty" yaml:"email,omitempty"`
}

// FormattedMeeting is the reduced, display-oriented view of a meeting
type FormattedMeeting struct {
	RecordingID     int64         `json:"recordingId" yaml:"recordingId"`
	Title           string        `json:"title" yaml:"title"`
	MeetingTitle    string        `json:"meetingTitle,omitempty" yaml:"meetingTitle,omitempty"`
	Start           string        `json:"start,omitempty" yaml:"start,omitempty"`
	End             string        `json:"end,omitempty" yaml:"end,omitempty"`
	DurationMinutes int           `json:"durationMinutes" yaml:"durationMinutes"`
	URL             string        `json:"url,omitempty" yaml:"url,omitempty"`
	ShareURL        string        `json:"shareUrl,omitempty" yaml:"shareUrl,omitempty"`
	Participants    []Participant `json:"participants" yaml:"participants"`
}

// FormatOptions is passed explicitly by the caller; there are no package defaults.
type FormatOptions struct {
	// Location for display times, UTC when nil
	Location *time.Location

	// IncludeElicitation attaches ElicitationPrompt when at least one meeting matched
	IncludeElicitation bool
}

// SearchResult is the payload returned by a meeting search
type SearchResult struct {
	Meetings    []FormattedMeeting `json:"meetings" yaml:"meetings"`
	Count       int                `json:"count" yaml:"count"`
	Elicitation string             `json:"elicitation,omitempty" yaml:"elicitation,omitempty"`
}

// Format projects matched meetings into a SearchResult.
func Format(matched []fathom.Meeting, opts FormatOptions) SearchResult {
	formatted := make([]FormattedMeeting, 0, len(matched))
	for _, m := range matched {
		formatted = append(formatted, FormatMeeting(m, opts.Location))
	}

	result := SearchResult{
		Meetings: formatted,
		Count:    len(formatted),
	}
	if opts.IncludeElicitation && len(formatted) > 0 {
		result.Elicitation = ElicitationPrompt
	}
	return result
}

// FormatMeeting projects a single meeting into its display view.
func FormatMeeting(m fathom.Meeting, loc *time.Location) FormattedMeeting {
	if loc == nil {
		loc = time.UTC
	}

	participants := make([]Participant, 0, len(m.CalendarInvitees))
	for _, inv := range m.CalendarInvitees {
		participants = append(participants, Participant{Name: inv.Name, Email: inv.Email})
	}

	return FormattedMeeting{
		RecordingID:     m.RecordingID,
		Title:           m.Title,
		MeetingTitle:    m.MeetingTitle,
		Start:           formatTime(m.ScheduledStartTime, loc),
		End:             formatTime(m.ScheduledEndTime, loc),
		DurationMinutes: DurationMinutes(m.ScheduledStartTime, m.ScheduledEndTime),
		URL:             m.URL,
		ShareURL:        m.ShareURL,
		Participants:    participants,
	}
}

// DurationMinutes returns the rounded number of whole minutes between start
// and end, or 0 when either is missing or end precedes start.
func DurationMinutes(start, end *time.Time) int {
	if start == nil || end == nil {
		return 0
	}
	d := end.Sub(*start)
	if d <= 0 {
		return 0
	}
	return int(math.Round(d.Minutes()))
}

func formatTime(t *time.Time, loc *time.Location) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.In(loc).Format(DisplayTimeLayout)
}
