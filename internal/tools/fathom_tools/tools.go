package fathom_tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/fathom-mcp/internal/instrumentation"
	"github.com/teemow/fathom-mcp/internal/server"
	"github.com/teemow/fathom-mcp/internal/tools/common"
)

// Tool names
const (
	ToolSearchMeetings = "search_meetings"
	ToolGetSummary     = "fathom_get_summary"
	ToolGetTranscript  = "fathom_get_transcript"
)

// RegisterFathomTools registers the meeting search and detail tools with the MCP server
func RegisterFathomTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	searchTool := mcp.NewTool(ToolSearchMeetings,
		mcp.WithDescription("Search Fathom meeting recordings by participant, title and date. "+
			"Keywords are case-insensitive and match titles as well as invitee names and emails; "+
			"a meeting matches if any keyword matches. Returns the matching meetings with their recordingId."),
		mcp.WithArray(common.ArgParticipantKeywords,
			mcp.Description("Keywords matched against invitee names and emails (a single string is accepted too)"),
			mcp.WithStringItems(),
		),
		mcp.WithArray(common.ArgTitleKeywords,
			mcp.Description("Keywords matched against meeting titles (a single string is accepted too)"),
			mcp.WithStringItems(),
		),
		mcp.WithString(common.ArgStartDate,
			mcp.Description("Earliest scheduled start day, inclusive (YYYY-MM-DD)"),
		),
		mcp.WithString(common.ArgEndDate,
			mcp.Description("Latest scheduled start day, inclusive (YYYY-MM-DD)"),
		),
		mcp.WithReadOnlyHintAnnotation(true),
	)

	s.AddTool(searchTool, common.InstrumentedToolHandlerWithService(
		ToolSearchMeetings, instrumentation.ServiceFathom, instrumentation.OperationSearch, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleSearchMeetings(ctx, request, sc)
		}))

	summaryTool := mcp.NewTool(ToolGetSummary,
		mcp.WithDescription("Get the summary of a Fathom meeting recording"),
		mcp.WithNumber(common.ArgRecordingID,
			mcp.Required(),
			mcp.Description("The recordingId returned by search_meetings"),
		),
		mcp.WithReadOnlyHintAnnotation(true),
	)

	s.AddTool(summaryTool, common.InstrumentedToolHandlerWithService(
		ToolGetSummary, instrumentation.ServiceFathom, instrumentation.OperationSummary, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleGetSummary(ctx, request, sc)
		}))

	transcriptTool := mcp.NewTool(ToolGetTranscript,
		mcp.WithDescription("Get the full transcript of a Fathom meeting recording as ordered segments with speaker, text and timestamp"),
		mcp.WithNumber(common.ArgRecordingID,
			mcp.Required(),
			mcp.Description("The recordingId returned by search_meetings"),
		),
		mcp.WithReadOnlyHintAnnotation(true),
	)

	s.AddTool(transcriptTool, common.InstrumentedToolHandlerWithService(
		ToolGetTranscript, instrumentation.ServiceFathom, instrumentation.OperationTranscript, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleGetTranscript(ctx, request, sc)
		}))

	return nil
}
