package resources

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teemow/fathom-mcp/internal/config"
	"github.com/teemow/fathom-mcp/internal/server"
)

func newTestServerContext(t *testing.T, handler http.Handler) *server.ServerContext {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := config.Default()
	cfg.APIKey = "test-key"
	cfg.BaseURL = srv.URL

	sc := server.NewServerContext(context.Background(), cfg, nil)
	t.Cleanup(func() { _ = sc.Shutdown() })
	return sc
}

func readRequest(uri string) mcp.ReadResourceRequest {
	req := mcp.ReadResourceRequest{}
	req.Params.URI = uri
	return req
}

func textOf(t *testing.T, contents []mcp.ResourceContents) string {
	t.Helper()
	require.Len(t, contents, 1)
	tc, ok := contents[0].(*mcp.TextResourceContents)
	require.True(t, ok)
	assert.Equal(t, "application/json", tc.MIMEType)
	return tc.Text
}

func TestParseRecordingURI(t *testing.T) {
	tests := []struct {
		uri     string
		id      int64
		view    string
		wantErr bool
	}{
		{uri: "fathom://recordings/42/summary", id: 42, view: "summary"},
		{uri: "fathom://recordings/7/transcript", id: 7, view: "transcript"},
		{uri: "fathom://recordings/abc/summary", wantErr: true},
		{uri: "fathom://recordings/0/summary", wantErr: true},
		{uri: "fathom://recordings/42/notes", wantErr: true},
		{uri: "user://profile", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.uri, func(t *testing.T) {
			id, view, err := parseRecordingURI(tt.uri)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.id, id)
			assert.Equal(t, tt.view, view)
		})
	}
}

func TestHandleRecording(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/recordings/42/summary", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"summary":{"markdown_formatted":"# Notes"}}`))
	})
	mux.HandleFunc("/recordings/42/transcript", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[{"speaker":"Alice","text":"Hi","timestamp":"00:00:01"}]`))
	})
	mux.HandleFunc("/recordings/43/transcript", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})
	sc := newTestServerContext(t, mux)

	contents, err := handleRecording(context.Background(), readRequest("fathom://recordings/42/summary"), sc)
	require.NoError(t, err)
	assert.JSONEq(t, `{"markdown_formatted":"# Notes"}`, textOf(t, contents))

	contents, err = handleRecording(context.Background(), readRequest("fathom://recordings/42/transcript"), sc)
	require.NoError(t, err)
	var transcript map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(textOf(t, contents)), &transcript))
	assert.Equal(t, float64(42), transcript["recordingId"])
	assert.Equal(t, float64(1), transcript["count"])

	_, err = handleRecording(context.Background(), readRequest("fathom://recordings/43/transcript"), sc)
	assert.ErrorContains(t, err, "not found")
}

func TestHandleStatus(t *testing.T) {
	sc := newTestServerContext(t, http.NewServeMux())

	contents, err := handleStatus(context.Background(), readRequest(StatusURI), sc)
	require.NoError(t, err)

	text := textOf(t, contents)
	assert.NotContains(t, text, "test-key")

	var status map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(text), &status))
	assert.Equal(t, true, status["apiKeyConfigured"])
	assert.Equal(t, "UTC", status["timezone"])
	assert.Equal(t, "15s", status["summaryTimeout"])
}

func TestRegisterRecordingResources(t *testing.T) {
	sc := newTestServerContext(t, http.NewServeMux())
	s := mcpserver.NewMCPServer("fathom-mcp", "test", mcpserver.WithResourceCapabilities(false, false))

	assert.NoError(t, RegisterRecordingResources(s, sc))
}
