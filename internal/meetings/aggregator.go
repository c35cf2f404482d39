package meetings

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/teemow/fathom-mcp/internal/fathom"
	"github.com/teemow/fathom-mcp/internal/instrumentation"
	"github.com/teemow/fathom-mcp/internal/logging"
)

// MeetingLister fetches one page of meetings. *fathom.Client implements it.
type MeetingLister interface {
	ListMeetings(ctx context.Context, params fathom.ListMeetingsParams) (*fathom.ListMeetingsResponse, error)
}

// AggregateOptions controls what each page request asks the upstream to embed
type AggregateOptions struct {
	IncludeSummary    bool
	IncludeTranscript bool

	// Logger defaults to slog.Default()
	Logger *slog.Logger

	// Metrics is optional
	Metrics *instrumentation.Metrics
}

// AggregateResult holds everything collected by Aggregate
type AggregateResult struct {
	// Meetings is the concatenation of all successfully fetched pages, in order
	Meetings []fathom.Meeting

	// Pages is the number of pages fetched successfully
	Pages int

	// Err is the page error that stopped aggregation, if any
	Err error
}

// Errored reports whether a page fetch failed and Meetings is partial.
func (r *AggregateResult) Errored() bool {
	return r.Err != nil
}

// Aggregate drains the cursor-paginated meeting list starting from the first
// page. It stops at the first failed page and returns what was collected so
// far together with the error; nothing is retried.
func Aggregate(ctx context.Context, lister MeetingLister, opts AggregateOptions) *AggregateResult {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logging.WithOperation(logger, "meetings.aggregate")

	result := &AggregateResult{Meetings: []fathom.Meeting{}}
	cursor := ""
	hasMore := true
	requested := map[string]bool{}

	for hasMore {
		if err := ctx.Err(); err != nil {
			result.Err = err
			break
		}

		requested[cursor] = true
		page, err := lister.ListMeetings(ctx, fathom.ListMeetingsParams{
			Cursor:            cursor,
			IncludeSummary:    opts.IncludeSummary,
			IncludeTranscript: opts.IncludeTranscript,
		})
		if err != nil {
			result.Err = err
			opts.Metrics.RecordPageFetch(ctx, instrumentation.StatusError)
			logger.Warn("meeting page fetch failed, returning partial results",
				slog.Int("pages", result.Pages),
				slog.Int("meetings", len(result.Meetings)),
				logging.Err(err))
			break
		}

		result.Pages++
		if page == nil {
			break
		}
		result.Meetings = append(result.Meetings, page.Items...)
		opts.Metrics.RecordPageFetch(ctx, instrumentation.StatusSuccess)

		hasMore = page.HasMore()
		if hasMore {
			cursor = *page.NextCursor
			if requested[cursor] {
				// a cursor is never requested twice
				result.Err = fmt.Errorf("%w: next_cursor %q was already requested", fathom.ErrUnexpectedResponse, cursor)
				logger.Warn("meeting pagination loops, returning partial results",
					slog.Int("pages", result.Pages),
					logging.Err(result.Err))
				break
			}
		}

		logger.Debug("fetched meeting page",
			slog.Int("page", result.Pages),
			slog.Int("items", len(page.Items)),
			slog.Bool("has_more", hasMore))
	}

	return result
}
