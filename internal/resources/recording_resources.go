package resources

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/fathom-mcp/internal/server"
	"github.com/teemow/fathom-mcp/internal/tools/fathom_tools"
)

// Resource URIs
const (
	StatusURI             = "fathom://status"
	SummaryURITemplate    = "fathom://recordings/{recordingId}/summary"
	TranscriptURITemplate = "fathom://recordings/{recordingId}/transcript"
)

var recordingURIPattern = regexp.MustCompile(`^fathom://recordings/([^/]+)/(summary|transcript)$`)

// RegisterRecordingResources registers the per-recording summary and
// transcript templates and the server status resource.
func RegisterRecordingResources(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	statusResource := mcp.NewResource(
		StatusURI,
		"Fathom Server Status",
		mcp.WithResourceDescription("Effective configuration of the Fathom connection: API root, timezone and whether an API key is set"),
		mcp.WithMIMEType("application/json"),
	)

	s.AddResource(statusResource, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		return handleStatus(ctx, request, sc)
	})

	summaryTemplate := mcp.NewResourceTemplate(
		SummaryURITemplate,
		"Meeting Summary",
		mcp.WithTemplateDescription("Summary of a Fathom recording, as returned by fathom_get_summary"),
		mcp.WithTemplateMIMEType("application/json"),
	)

	s.AddResourceTemplate(summaryTemplate, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		return handleRecording(ctx, request, sc)
	})

	transcriptTemplate := mcp.NewResourceTemplate(
		TranscriptURITemplate,
		"Meeting Transcript",
		mcp.WithTemplateDescription("Normalized transcript of a Fathom recording, as returned by fathom_get_transcript"),
		mcp.WithTemplateMIMEType("application/json"),
	)

	s.AddResourceTemplate(transcriptTemplate, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		return handleRecording(ctx, request, sc)
	})

	return nil
}

// parseRecordingURI extracts the recording ID and the requested view.
func parseRecordingURI(uri string) (int64, string, error) {
	m := recordingURIPattern.FindStringSubmatch(uri)
	if m == nil {
		return 0, "", fmt.Errorf("unsupported resource URI: %s", uri)
	}
	id, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil || id <= 0 {
		return 0, "", fmt.Errorf("invalid recording ID %q in %s", m[1], uri)
	}
	return id, m[2], nil
}

func handleRecording(ctx context.Context, request mcp.ReadResourceRequest, sc *server.ServerContext) ([]mcp.ResourceContents, error) {
	recordingID, view, err := parseRecordingURI(request.Params.URI)
	if err != nil {
		return nil, err
	}

	var data []byte
	switch view {
	case "summary":
		summary, err := fathom_tools.FetchSummary(ctx, sc, recordingID)
		if err != nil {
			return nil, err
		}
		var buf bytes.Buffer
		if err := json.Indent(&buf, summary, "", "  "); err != nil {
			buf.Reset()
			buf.Write(summary)
		}
		data = buf.Bytes()
	default:
		transcript, err := fathom_tools.FetchTranscript(ctx, sc, recordingID)
		if err != nil {
			return nil, err
		}
		if data, err = json.MarshalIndent(transcript, "", "  "); err != nil {
			return nil, fmt.Errorf("failed to marshal transcript: %w", err)
		}
	}

	return []mcp.ResourceContents{
		&mcp.TextResourceContents{
			URI:      request.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

// handleStatus reports the effective Fathom settings. The API key is never included.
func handleStatus(_ context.Context, request mcp.ReadResourceRequest, sc *server.ServerContext) ([]mcp.ResourceContents, error) {
	cfg := sc.Config()
	client := sc.FathomClient()

	statusData := map[string]interface{}{
		"baseUrl":            client.BaseURL(),
		"apiKeyConfigured":   client.HasAPIKey(),
		"timezone":           cfg.Location().String(),
		"summaryTimeout":     cfg.SummaryTimeout.String(),
		"elicitationEnabled": cfg.IncludeElicitation,
	}

	jsonData, err := json.MarshalIndent(statusData, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal status data: %w", err)
	}

	return []mcp.ResourceContents{
		&mcp.TextResourceContents{
			URI:      request.Params.URI,
			MIMEType: "application/json",
			Text:     string(jsonData),
		},
	}, nil
}
