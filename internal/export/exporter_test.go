package export

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/teemow/fathom-mcp/internal/meetings"
)

func sampleResult() meetings.SearchResult {
	return meetings.SearchResult{
		Meetings: []meetings.FormattedMeeting{
			{
				RecordingID:     101,
				Title:           "Weekly Standup",
				DurationMinutes: 30,
				URL:             "https://fathom.video/calls/101",
				Participants: []meetings.Participant{
					{Name: "Alice", Email: "alice@acme.io"},
				},
			},
		},
		Count: 1,
	}
}

func TestNewExporter(t *testing.T) {
	tests := []struct {
		format  string
		ext     string
		wantErr bool
	}{
		{format: "json", ext: "json"},
		{format: "yaml", ext: "yaml"},
		{format: "yml", ext: "yaml"},
		{format: "csv", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			exp, err := NewExporter(tt.format)
			if tt.wantErr {
				assert.ErrorContains(t, err, "unsupported format")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.ext, exp.Extension())
		})
	}
}

func TestJSONExporter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, (&JSONExporter{}).Export(sampleResult(), &buf))

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, float64(1), decoded["count"])
	assert.NotContains(t, decoded, "elicitation")

	items := decoded["meetings"].([]interface{})
	require.Len(t, items, 1)
	assert.Equal(t, float64(101), items[0].(map[string]interface{})["recordingId"])
}

func TestYAMLExporter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, (&YAMLExporter{}).Export(sampleResult(), &buf))

	out := buf.String()
	assert.Contains(t, out, "recordingId: 101")
	assert.Contains(t, out, "title: Weekly Standup")
	assert.NotContains(t, out, "shareUrl")

	var decoded meetings.SearchResult
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, sampleResult(), decoded)
}
