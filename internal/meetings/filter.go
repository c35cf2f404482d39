package meetings

import (
	"fmt"
	"strings"
	"time"

	"github.com/teemow/fathom-mcp/internal/fathom"
)

const dateLayout = "2006-01-02"

// Criteria selects meetings from an aggregated collection.
// The zero value matches everything.
type Criteria struct {
	ParticipantKeywords []string
	TitleKeywords       []string

	// StartDate is inclusive and already normalized to the start of its day
	StartDate *time.Time

	// EndDate is inclusive and already normalized to the last millisecond of its day
	EndDate *time.Time
}

// ParseCriteria builds Criteria from raw tool arguments. Dates may be given as
// YYYY-MM-DD or RFC 3339; only the calendar day is kept and it is interpreted
// in loc (UTC when nil).
func ParseCriteria(participantKeywords, titleKeywords []string, startDate, endDate string, loc *time.Location) (Criteria, error) {
	c := Criteria{
		ParticipantKeywords: participantKeywords,
		TitleKeywords:       titleKeywords,
	}

	if strings.TrimSpace(startDate) != "" {
		day, err := parseDay(startDate, loc)
		if err != nil {
			return Criteria{}, fmt.Errorf("invalid startDate: %w", err)
		}
		start := StartOfDay(day)
		c.StartDate = &start
	}

	if strings.TrimSpace(endDate) != "" {
		day, err := parseDay(endDate, loc)
		if err != nil {
			return Criteria{}, fmt.Errorf("invalid endDate: %w", err)
		}
		end := EndOfDay(day)
		c.EndDate = &end
	}

	return c, nil
}

func parseDay(value string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	value = strings.TrimSpace(value)

	if t, err := time.ParseInLocation(dateLayout, value, loc); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%q is not a YYYY-MM-DD or RFC 3339 date", value)
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc), nil
}

// StartOfDay returns 00:00:00.000 of t's calendar day in t's location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// EndOfDay returns 23:59:59.999 of t's calendar day in t's location.
func EndOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, int(999*time.Millisecond), t.Location())
}

// IsEmpty reports whether no keyword or date criterion is set.
func (c Criteria) IsEmpty() bool {
	return len(c.Keywords()) == 0 && c.StartDate == nil && c.EndDate == nil
}

// Keywords merges participant and title keywords into one lower-cased set.
// Blank entries are dropped.
func (c Criteria) Keywords() []string {
	seen := make(map[string]struct{})
	var keywords []string
	for _, list := range [][]string{c.ParticipantKeywords, c.TitleKeywords} {
		for _, k := range list {
			k = strings.ToLower(strings.TrimSpace(k))
			if k == "" {
				continue
			}
			if _, ok := seen[k]; ok {
				continue
			}
			seen[k] = struct{}{}
			keywords = append(keywords, k)
		}
	}
	return keywords
}

// Matches reports whether m satisfies the keyword criterion AND the date criterion.
func (c Criteria) Matches(m fathom.Meeting) bool {
	return c.matches(m, c.Keywords())
}

// Filter returns the meetings that satisfy c, preserving order.
func Filter(meetings []fathom.Meeting, c Criteria) []fathom.Meeting {
	keywords := c.Keywords()
	matched := make([]fathom.Meeting, 0, len(meetings))
	for _, m := range meetings {
		if c.matches(m, keywords) {
			matched = append(matched, m)
		}
	}
	return matched
}

// matches is Matches with the keyword set already built.
func (c Criteria) matches(m fathom.Meeting, keywords []string) bool {
	return matchesKeywords(m, keywords) && c.matchesDates(m)
}

// matchesKeywords is true when any keyword is a case-insensitive substring of
// any invitee name or email, the title or the meeting title.
// keywords must already be lower-cased.
func matchesKeywords(m fathom.Meeting, keywords []string) bool {
	if len(keywords) == 0 {
		return true
	}

	fields := make([]string, 0, 2+2*len(m.CalendarInvitees))
	fields = append(fields, strings.ToLower(m.Title), strings.ToLower(m.MeetingTitle))
	for _, inv := range m.CalendarInvitees {
		fields = append(fields, strings.ToLower(inv.Name), strings.ToLower(inv.Email))
	}

	for _, k := range keywords {
		for _, f := range fields {
			if f != "" && strings.Contains(f, k) {
				return true
			}
		}
	}
	return false
}

func (c Criteria) matchesDates(m fathom.Meeting) bool {
	if c.StartDate == nil && c.EndDate == nil {
		return true
	}
	if m.ScheduledStartTime == nil {
		return false
	}

	start := *m.ScheduledStartTime
	if c.StartDate != nil && start.Before(*c.StartDate) {
		return false
	}
	if c.EndDate != nil && start.After(*c.EndDate) {
		return false
	}
	return true
}
