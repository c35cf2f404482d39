package fathom

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"

	"github.com/teemow/fathom-mcp/internal/instrumentation"
	"github.com/teemow/fathom-mcp/internal/logging"
)

const (
	// DefaultBaseURL is the Fathom external API root
	DefaultBaseURL = "https://api.fathom.ai/external/v1"

	apiKeyHeader = "X-Api-Key"

	// maxErrorBody caps how much of an error response is kept for messages
	maxErrorBody = 1024
)

// Client provides access to the Fathom external API
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	metrics    *instrumentation.Metrics
	logger     *slog.Logger
}

// Option configures a Client
type Option func(*Client)

// WithBaseURL overrides the API root, mainly for tests and proxies.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		if baseURL != "" {
			c.baseURL = strings.TrimRight(baseURL, "/")
		}
	}
}

// WithHTTPClient sets the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithTimeout sets a per-request timeout on the HTTP client. Without it the
// client sets no deadline of its own and only the context bounds a request.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// WithMetrics records upstream operation metrics on every request.
func WithMetrics(m *instrumentation.Metrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// WithLogger sets the logger used for request diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewClient creates a Fathom client. An empty apiKey is allowed: requests are
// still issued and the upstream rejects them with ErrUnauthorized.
func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = logging.WithService(c.logger, instrumentation.ServiceFathom)
	return c
}

// BaseURL returns the API root this client talks to
func (c *Client) BaseURL() string {
	return c.baseURL
}

// HasAPIKey reports whether a credential was configured
func (c *Client) HasAPIKey() bool {
	return c.apiKey != ""
}

// ListMeetings fetches a single page of meetings.
func (c *Client) ListMeetings(ctx context.Context, params ListMeetingsParams) (*ListMeetingsResponse, error) {
	query := url.Values{}
	if params.Cursor != "" {
		query.Set("cursor", params.Cursor)
	}
	query.Set("include_summary", strconv.FormatBool(params.IncludeSummary))
	query.Set("include_transcript", strconv.FormatBool(params.IncludeTranscript))

	body, err := c.get(ctx, instrumentation.OperationList, "/meetings", query)
	if err != nil {
		return nil, &Error{Op: "list meetings", Err: err}
	}

	var resp ListMeetingsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, &Error{Op: "list meetings", Err: unexpected("decoding meetings page: %v", err)}
	}
	return &resp, nil
}

// GetSummary fetches the summary object for a recording and returns it verbatim.
// The response envelope {"summary": {...}} is unwrapped when present.
func (c *Client) GetSummary(ctx context.Context, recordingID int64) (json.RawMessage, error) {
	path := fmt.Sprintf("/recordings/%d/summary", recordingID)
	body, err := c.get(ctx, instrumentation.OperationSummary, path, nil)
	if err != nil {
		return nil, &Error{Op: "get summary", RecordingID: recordingID, Err: err}
	}

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, &Error{Op: "get summary", RecordingID: recordingID, Err: unexpected("summary is not a JSON object: %v", err)}
	}
	if summary, ok := envelope["summary"]; ok && len(summary) > 0 && string(summary) != "null" {
		return summary, nil
	}
	return json.RawMessage(body), nil
}

// GetTranscript fetches and normalizes the transcript of a recording.
func (c *Client) GetTranscript(ctx context.Context, recordingID int64) ([]TranscriptSegment, error) {
	path := fmt.Sprintf("/recordings/%d/transcript", recordingID)
	body, err := c.get(ctx, instrumentation.OperationTranscript, path, nil)
	if err != nil {
		return nil, &Error{Op: "get transcript", RecordingID: recordingID, Err: err}
	}

	segments, err := ParseTranscript(body)
	if err != nil {
		return nil, &Error{Op: "get transcript", RecordingID: recordingID, Err: err}
	}
	return segments, nil
}

// get performs one authenticated GET and returns the raw body of a 2xx response.
func (c *Client) get(ctx context.Context, operation, path string, query url.Values) ([]byte, error) {
	ctx, span := instrumentation.StartUpstreamSpan(ctx, instrumentation.ServiceFathom, operation,
		attribute.String("http.route", path))
	defer span.End()

	start := time.Now()
	body, err := c.do(ctx, path, query)
	duration := time.Since(start)

	status := instrumentation.StatusSuccess
	if err != nil {
		status = instrumentation.StatusError
		instrumentation.SetSpanError(span, err)
	} else {
		instrumentation.SetSpanSuccess(span)
	}
	if c.metrics != nil {
		c.metrics.RecordUpstreamOperation(ctx, instrumentation.ServiceFathom, operation, status, duration)
	}

	c.logger.Debug("fathom request",
		logging.Operation(operation),
		slog.String("path", path),
		logging.Status(status),
		slog.Duration(logging.KeyDuration, duration),
		logging.Err(err))

	return body, err
}

func (c *Client) do(ctx context.Context, path string, query url.Values) ([]byte, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set(apiKeyHeader, c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusUnauthorized, resp.StatusCode == http.StatusForbidden:
		return nil, ErrUnauthorized
	case resp.StatusCode == http.StatusNotFound:
		return nil, ErrNotFound
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, ErrRateLimited
	case resp.StatusCode >= 400:
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &APIError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(snippet))}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}
	return body, nil
}
