package common

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/metric/noop"

	"github.com/teemow/fathom-mcp/internal/config"
	"github.com/teemow/fathom-mcp/internal/instrumentation"
	"github.com/teemow/fathom-mcp/internal/server"
)

func newServerContext(t *testing.T) *server.ServerContext {
	t.Helper()
	sc := server.NewServerContext(context.Background(), config.Default(), nil)
	t.Cleanup(func() { _ = sc.Shutdown() })
	return sc
}

func withAudit(t *testing.T, sc *server.ServerContext) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	sc.SetAuditLogger(instrumentation.NewAuditLogger(slog.New(slog.NewTextHandler(&buf, nil))))

	metrics, err := instrumentation.NewMetrics(noop.NewMeterProvider().Meter("test"), false)
	require.NoError(t, err)
	sc.SetMetrics(metrics)
	return &buf
}

func callRequest(args map[string]interface{}) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

type partialPayload struct{ partial bool }

func (p partialPayload) IsPartial() bool { return p.partial }

func TestInstrumentedToolHandler_NoInstrumentation(t *testing.T) {
	sc := newServerContext(t)

	called := false
	handler := func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		called = true
		return mcp.NewToolResultText("success"), nil
	}

	result, err := InstrumentedToolHandler("test_tool", sc, handler)(context.Background(), mcp.CallToolRequest{})

	require.NoError(t, err)
	assert.True(t, called)
	require.NotNil(t, result)
	assert.False(t, result.IsError)
}

func TestInstrumentedToolHandler_PropagatesError(t *testing.T) {
	sc := newServerContext(t)
	buf := withAudit(t, sc)

	expectedErr := errors.New("boom")
	handler := func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return nil, expectedErr
	}

	_, err := InstrumentedToolHandler("test_tool", sc, handler)(context.Background(), mcp.CallToolRequest{})

	assert.Equal(t, expectedErr, err)
	assert.Contains(t, buf.String(), "tool_failed")
	assert.Contains(t, buf.String(), "error=boom")
}

func TestInstrumentedToolHandlerWithService_ErrorResult(t *testing.T) {
	sc := newServerContext(t)
	buf := withAudit(t, sc)

	handler := func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return mcp.NewToolResultError("summary not found"), nil
	}

	wrapped := InstrumentedToolHandlerWithService("fathom_get_summary", instrumentation.ServiceFathom, instrumentation.OperationSummary, sc, handler)
	result, err := wrapped(context.Background(), callRequest(map[string]interface{}{ArgRecordingID: float64(77)}))

	require.NoError(t, err)
	require.NotNil(t, result)
	assert.True(t, result.IsError)

	out := buf.String()
	assert.Contains(t, out, "tool_failed")
	assert.Contains(t, out, "service=fathom")
	assert.Contains(t, out, "operation=summary")
	assert.Contains(t, out, "recording_id=77")
	assert.Contains(t, out, "summary not found")
}

func TestInstrumentedToolHandlerWithService_SearchAudit(t *testing.T) {
	sc := newServerContext(t)
	buf := withAudit(t, sc)

	handler := func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return &mcp.CallToolResult{
			Content:           []mcp.Content{mcp.NewTextContent("{}")},
			StructuredContent: partialPayload{partial: true},
			IsError:           true,
		}, nil
	}

	wrapped := InstrumentedToolHandlerWithService("search_meetings", instrumentation.ServiceFathom, instrumentation.OperationSearch, sc, handler)
	_, err := wrapped(context.Background(), callRequest(map[string]interface{}{
		ArgParticipantKeywords: []interface{}{"alice@acme.com"},
		ArgTitleKeywords:       "standup",
	}))
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "partial=true")
	assert.Contains(t, out, "keyword_hashes")
	assert.NotContains(t, out, "alice@acme.com")
	assert.NotContains(t, out, "recording_id")
}

func TestInstrumentedToolHandlerWithService_Success(t *testing.T) {
	sc := newServerContext(t)
	buf := withAudit(t, sc)

	handler := func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return mcp.NewToolResultText("ok"), nil
	}

	wrapped := InstrumentedToolHandlerWithService("fathom_get_transcript", instrumentation.ServiceFathom, instrumentation.OperationTranscript, sc, handler)
	result, err := wrapped(context.Background(), callRequest(map[string]interface{}{ArgRecordingID: "12"}))

	require.NoError(t, err)
	assert.False(t, result.IsError)
	assert.Contains(t, buf.String(), "tool_executed")
	assert.Contains(t, buf.String(), "recording_id=12")
}

func TestResultText_Truncates(t *testing.T) {
	long := make([]byte, maxAuditErrorLen+50)
	for i := range long {
		long[i] = 'x'
	}

	got := resultText(mcp.NewToolResultError(string(long)))

	assert.Len(t, got, maxAuditErrorLen+3)
	assert.Equal(t, errToolResult.Error(), resultText(&mcp.CallToolResult{}))
}

func TestInstrumentedToolHandler_DebugLog(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	sc := server.NewServerContext(context.Background(), config.Default(), logger)
	t.Cleanup(func() { _ = sc.Shutdown() })
	withAudit(t, sc)

	handler := func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return mcp.NewToolResultError("boom"), nil
	}
	_, err := InstrumentedToolHandler("fathom_get_summary", sc, handler)(context.Background(), mcp.CallToolRequest{})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "tool invocation completed")
	assert.Contains(t, out, "tool=fathom_get_summary")
	assert.Contains(t, out, "status=error")
}
