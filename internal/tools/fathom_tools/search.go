package fathom_tools

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"go.opentelemetry.io/otel/trace"

	"github.com/teemow/fathom-mcp/internal/instrumentation"
	"github.com/teemow/fathom-mcp/internal/logging"
	"github.com/teemow/fathom-mcp/internal/meetings"
	"github.com/teemow/fathom-mcp/internal/server"
	"github.com/teemow/fathom-mcp/internal/tools/common"
)

// SearchPayload is the structured result of search_meetings. Partial is set
// when pagination stopped early; Meetings then holds the matches among the
// pages fetched before the failure.
type SearchPayload struct {
	meetings.SearchResult
	Partial bool   `json:"partial"`
	Error   string `json:"error,omitempty"`
}

// IsPartial reports whether the search ran on incomplete data.
func (p SearchPayload) IsPartial() bool {
	return p.Partial
}

// SearchRequest holds the parsed search arguments.
type SearchRequest struct {
	ParticipantKeywords []string
	TitleKeywords       []string
	StartDate           string
	EndDate             string
}

// ParseSearchRequest reads the search arguments of a tool call.
func ParseSearchRequest(args map[string]interface{}) (SearchRequest, error) {
	var req SearchRequest
	var err error

	if req.ParticipantKeywords, err = common.ParseStringOrArray(args[common.ArgParticipantKeywords], common.ArgParticipantKeywords); err != nil {
		return SearchRequest{}, err
	}
	if req.TitleKeywords, err = common.ParseStringOrArray(args[common.ArgTitleKeywords], common.ArgTitleKeywords); err != nil {
		return SearchRequest{}, err
	}
	if req.StartDate, err = common.OptionalString(args, common.ArgStartDate); err != nil {
		return SearchRequest{}, err
	}
	if req.EndDate, err = common.OptionalString(args, common.ArgEndDate); err != nil {
		return SearchRequest{}, err
	}
	return req, nil
}

// Search aggregates every meeting page, filters and formats the matches.
// Invalid criteria are returned as an error before any upstream call; an
// upstream failure is reported inside the payload.
func Search(ctx context.Context, sc *server.ServerContext, req SearchRequest) (SearchPayload, error) {
	cfg := sc.Config()
	loc := cfg.Location()

	criteria, err := meetings.ParseCriteria(req.ParticipantKeywords, req.TitleKeywords, req.StartDate, req.EndDate, loc)
	if err != nil {
		return SearchPayload{}, err
	}

	logger := logging.WithOperation(sc.Logger(), "meetings.search")
	agg := meetings.Aggregate(ctx, sc.FathomClient(), meetings.AggregateOptions{
		Logger:  sc.Logger(),
		Metrics: sc.Metrics(),
	})

	matched := meetings.Filter(agg.Meetings, criteria)
	payload := SearchPayload{
		SearchResult: meetings.Format(matched, meetings.FormatOptions{
			Location:           loc,
			IncludeElicitation: cfg.IncludeElicitation,
		}),
		Partial: agg.Errored(),
	}

	status := instrumentation.StatusSuccess
	if agg.Errored() {
		status = instrumentation.StatusError
		payload.Error = fmt.Sprintf("failed to fetch all meetings, results are partial: %v", agg.Err)
	}
	sc.Metrics().RecordMeetingSearch(ctx, status, payload.Count)
	trace.SpanFromContext(ctx).SetAttributes(
		instrumentation.NewSpanAttributeBuilder().WithSearchStats(agg.Pages, payload.Count).Build()...)

	logger.Debug("meeting search completed",
		slog.Any("participants", anonymizeKeywords(req.ParticipantKeywords)),
		slog.Int("pages", agg.Pages),
		slog.Int("aggregated", len(agg.Meetings)),
		logging.Count(payload.Count),
		logging.Status(status))

	return payload, nil
}

func handleSearchMeetings(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	req, err := ParseSearchRequest(request.GetArguments())
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	payload, err := Search(ctx, sc, req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	text, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode search results: %v", err)), nil
	}

	return &mcp.CallToolResult{
		Content:           []mcp.Content{mcp.NewTextContent(string(text))},
		StructuredContent: payload,
		IsError:           payload.Partial,
	}, nil
}

// anonymizeKeywords hashes participant keywords, which are often emails,
// so debug logs can be correlated without exposing them.
func anonymizeKeywords(keywords []string) []string {
	hashed := make([]string, 0, len(keywords))
	for _, k := range keywords {
		if k = strings.TrimSpace(k); k != "" {
			hashed = append(hashed, logging.AnonymizeEmail(strings.ToLower(k)))
		}
	}
	return hashed
}
