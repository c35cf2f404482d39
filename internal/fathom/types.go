package fathom

import (
	"encoding/json"
	"strings"
	"time"
)

// UnknownSpeaker is reported for transcript segments without a speaker name.
const UnknownSpeaker = "Unknown Speaker"

// Meeting is a single recorded meeting as returned by the list endpoint
type Meeting struct {
	// Title is the primary title of the recording
	Title string `json:"title"`

	// MeetingTitle is the calendar event title, shown as the display title
	MeetingTitle string `json:"meeting_title,omitempty"`

	// RecordingID uniquely identifies the recording
	RecordingID int64 `json:"recording_id"`

	// URL links to the recording in the Fathom app
	URL string `json:"url"`

	// ShareURL is the public share link
	ShareURL string `json:"share_url,omitempty"`

	CreatedAt          *time.Time `json:"created_at,omitempty"`
	ScheduledStartTime *time.Time `json:"scheduled_start_time,omitempty"`
	ScheduledEndTime   *time.Time `json:"scheduled_end_time,omitempty"`
	RecordingStartTime *time.Time `json:"recording_start_time,omitempty"`
	RecordingEndTime   *time.Time `json:"recording_end_time,omitempty"`

	// CalendarInvitees is the ordered list of participants
	CalendarInvitees []Invitee `json:"calendar_invitees,omitempty"`

	// RecordedBy is the Fathom user who recorded the meeting
	RecordedBy *Invitee `json:"recorded_by,omitempty"`

	// Transcript is only present when requested with include_transcript
	Transcript json.RawMessage `json:"transcript,omitempty"`

	// DefaultSummary is only present when requested with include_summary
	DefaultSummary json.RawMessage `json:"default_summary,omitempty"`
}

// Invitee is a calendar participant of a meeting. Name and email are optional.
type Invitee struct {
	Name        string `json:"name,omitempty"`
	Email       string `json:"email,omitempty"`
	EmailDomain string `json:"email_domain,omitempty"`
	IsExternal  bool   `json:"is_external,omitempty"`
}

// ListMeetingsParams holds the query parameters for one page request
type ListMeetingsParams struct {
	// Cursor is the opaque pagination token; empty starts from the beginning
	Cursor string

	IncludeSummary    bool
	IncludeTranscript bool
}

// ListMeetingsResponse is one page of the list endpoint
type ListMeetingsResponse struct {
	Items []Meeting `json:"items"`

	// NextCursor is nil or empty when there are no further pages
	NextCursor *string `json:"next_cursor"`

	Limit int `json:"limit,omitempty"`
}

// HasMore reports whether the response points at another page.
func (r *ListMeetingsResponse) HasMore() bool {
	return r != nil && r.NextCursor != nil && *r.NextCursor != ""
}

// TranscriptSegment is a normalized utterance within a recording transcript
type TranscriptSegment struct {
	Speaker      string `json:"speaker" yaml:"speaker"`
	SpeakerEmail string `json:"speakerEmail,omitempty" yaml:"speakerEmail,omitempty"`
	Text         string `json:"text" yaml:"text"`
	Timestamp    string `json:"timestamp" yaml:"timestamp"`
}

// rawSpeaker accepts either {"display_name": ..., "matched_calendar_invitee_email": ...}
// or a plain string.
type rawSpeaker struct {
	DisplayName string
	Email       string
}

func (s *rawSpeaker) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		s.DisplayName = name
		return nil
	}

	var obj struct {
		DisplayName string `json:"display_name"`
		Name        string `json:"name"`
		Email       string `json:"matched_calendar_invitee_email"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	s.DisplayName = obj.DisplayName
	if s.DisplayName == "" {
		s.DisplayName = obj.Name
	}
	s.Email = obj.Email
	return nil
}

type rawSegment struct {
	Speaker   *rawSpeaker `json:"speaker"`
	Text      string      `json:"text"`
	Timestamp string      `json:"timestamp"`
}

func (r rawSegment) normalize() TranscriptSegment {
	seg := TranscriptSegment{
		Speaker:   UnknownSpeaker,
		Text:      r.Text,
		Timestamp: r.Timestamp,
	}
	if r.Speaker != nil {
		if name := strings.TrimSpace(r.Speaker.DisplayName); name != "" {
			seg.Speaker = name
		}
		seg.SpeakerEmail = r.Speaker.Email
	}
	return seg
}

// ParseTranscript decodes a transcript response body into normalized segments.
// Both {"transcript": [...]} and a bare JSON array are accepted; anything else
// is reported as ErrUnexpectedResponse.
func ParseTranscript(body []byte) ([]TranscriptSegment, error) {
	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" {
		return nil, unexpected("empty transcript response")
	}

	var raw []rawSegment
	switch trimmed[0] {
	case '[':
		if err := json.Unmarshal(body, &raw); err != nil {
			return nil, unexpected("transcript array: %v", err)
		}
	case '{':
		var envelope struct {
			Transcript *[]rawSegment `json:"transcript"`
		}
		if err := json.Unmarshal(body, &envelope); err != nil {
			return nil, unexpected("transcript object: %v", err)
		}
		if envelope.Transcript == nil {
			return nil, unexpected("response has no transcript field")
		}
		raw = *envelope.Transcript
	default:
		return nil, unexpected("transcript response is neither an object nor an array")
	}

	segments := make([]TranscriptSegment, 0, len(raw))
	for _, r := range raw {
		segments = append(segments, r.normalize())
	}
	return segments, nil
}
