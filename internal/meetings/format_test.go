package meetings

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teemow/fathom-mcp/internal/fathom"
)

func TestFormatMeeting(t *testing.T) {
	m := fathom.Meeting{
		RecordingID:        42,
		Title:              "Standup",
		MeetingTitle:       "Daily Standup",
		URL:                "https://fathom.video/calls/42",
		ShareURL:           "https://fathom.video/share/abc",
		ScheduledStartTime: at(t, "2024-01-02T09:00:00Z"),
		ScheduledEndTime:   at(t, "2024-01-02T09:14:40Z"),
		CalendarInvitees: []fathom.Invitee{
			{Name: "Jo", Email: "jo@example.com", EmailDomain: "example.com", IsExternal: true},
			{Email: "sam@x.com"},
		},
		Transcript: []byte(`[{"text":"dropped"}]`),
	}

	got := FormatMeeting(m, time.UTC)

	assert.Equal(t, FormattedMeeting{
		RecordingID:     42,
		Title:           "Standup",
		MeetingTitle:    "Daily Standup",
		Start:           "Tue, Jan 2, 2024 9:00 AM UTC",
		End:             "Tue, Jan 2, 2024 9:14 AM UTC",
		DurationMinutes: 15,
		URL:             "https://fathom.video/calls/42",
		ShareURL:        "https://fathom.video/share/abc",
		Participants: []Participant{
			{Name: "Jo", Email: "jo@example.com"},
			{Email: "sam@x.com"},
		},
	}, got)
}

func TestFormatMeeting_MissingTimes(t *testing.T) {
	got := FormatMeeting(fathom.Meeting{RecordingID: 1}, nil)

	assert.Empty(t, got.Start)
	assert.Empty(t, got.End)
	assert.Equal(t, 0, got.DurationMinutes)
	assert.NotNil(t, got.Participants)
}

func TestDurationMinutes(t *testing.T) {
	start := at(t, "2024-01-01T10:00:00Z")

	tests := []struct {
		name string
		end  *time.Time
		want int
	}{
		{name: "exact", end: at(t, "2024-01-01T10:30:00Z"), want: 30},
		{name: "rounds down", end: at(t, "2024-01-01T10:30:29Z"), want: 30},
		{name: "rounds up at half", end: at(t, "2024-01-01T10:30:30Z"), want: 31},
		{name: "end before start", end: at(t, "2024-01-01T09:00:00Z"), want: 0},
		{name: "missing end", end: nil, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DurationMinutes(start, tt.end))
		})
	}
}

func TestFormat_Elicitation(t *testing.T) {
	matched := sampleMeetings(t)

	t.Run("attached when enabled and matches exist", func(t *testing.T) {
		res := Format(matched, FormatOptions{IncludeElicitation: true})
		assert.Equal(t, 2, res.Count)
		assert.Equal(t, ElicitationPrompt, res.Elicitation)
	})

	t.Run("absent when disabled", func(t *testing.T) {
		res := Format(matched, FormatOptions{IncludeElicitation: false})
		assert.Empty(t, res.Elicitation)
	})

	t.Run("absent when nothing matched", func(t *testing.T) {
		res := Format(nil, FormatOptions{IncludeElicitation: true})
		require.NotNil(t, res.Meetings)
		assert.Equal(t, 0, res.Count)
		assert.Empty(t, res.Elicitation)
	})
}

func TestFormat_UsesLocation(t *testing.T) {
	tokyo, err := time.LoadLocation("Asia/Tokyo")
	require.NoError(t, err)

	res := Format(sampleMeetings(t)[:1], FormatOptions{Location: tokyo})
	require.Len(t, res.Meetings, 1)
	assert.Equal(t, "Tue, Jan 2, 2024 6:00 PM JST", res.Meetings[0].Start)
}
