package fathom_tools

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/teemow/fathom-mcp/internal/fathom"
	"github.com/teemow/fathom-mcp/internal/logging"
	"github.com/teemow/fathom-mcp/internal/server"
	"github.com/teemow/fathom-mcp/internal/tools/common"
)

// TranscriptPayload is the structured result of fathom_get_transcript.
type TranscriptPayload struct {
	RecordingID int64                      `json:"recordingId" yaml:"recordingId"`
	Count       int                        `json:"count" yaml:"count"`
	Segments    []fathom.TranscriptSegment `json:"segments" yaml:"segments"`
}

// FetchSummary returns the summary of a recording verbatim. The request is
// bounded by the configured summary timeout.
func FetchSummary(ctx context.Context, sc *server.ServerContext, recordingID int64) (json.RawMessage, error) {
	timeout := sc.Config().SummaryTimeout
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	summary, err := sc.FathomClient().GetSummary(ctx, recordingID)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("summary for recording %d timed out after %s", recordingID, timeout)
		}
		return nil, fmt.Errorf("failed to fetch summary for recording %d: %w", recordingID, err)
	}
	logging.WithRecording(sc.Logger(), recordingID).Debug("summary fetched", slog.Int("bytes", len(summary)))
	return summary, nil
}

// FetchTranscript returns the normalized transcript of a recording.
func FetchTranscript(ctx context.Context, sc *server.ServerContext, recordingID int64) (*TranscriptPayload, error) {
	segments, err := sc.FathomClient().GetTranscript(ctx, recordingID)
	if err != nil {
		if errors.Is(err, fathom.ErrUnexpectedResponse) {
			return nil, fmt.Errorf("unexpected transcript format for recording %d: %w", recordingID, err)
		}
		return nil, fmt.Errorf("failed to fetch transcript for recording %d: %w", recordingID, err)
	}
	logging.WithRecording(sc.Logger(), recordingID).Debug("transcript fetched", logging.Count(len(segments)))
	return &TranscriptPayload{
		RecordingID: recordingID,
		Count:       len(segments),
		Segments:    segments,
	}, nil
}

func handleGetSummary(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	recordingID, err := common.ParseRecordingID(request.GetArguments())
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	summary, err := FetchSummary(ctx, sc, recordingID)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var text bytes.Buffer
	if err := json.Indent(&text, summary, "", "  "); err != nil {
		text.Reset()
		text.Write(summary)
	}
	return mcp.NewToolResultStructured(summary, text.String()), nil
}

func handleGetTranscript(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	recordingID, err := common.ParseRecordingID(request.GetArguments())
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	payload, err := FetchTranscript(ctx, sc, recordingID)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	text, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode transcript: %v", err)), nil
	}
	return mcp.NewToolResultStructured(payload, string(text)), nil
}
