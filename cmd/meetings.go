package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/teemow/fathom-mcp/internal/export"
	"github.com/teemow/fathom-mcp/internal/logging"
	"github.com/teemow/fathom-mcp/internal/meetings"
	"github.com/teemow/fathom-mcp/internal/server"
	"github.com/teemow/fathom-mcp/internal/tools/fathom_tools"
)

const formatTable = "table"

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("62"))

	columnStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212"))

	idStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("240"))

	dateStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	hintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)

	speakerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("135"))
)

func newMeetingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "meetings",
		Short: "Search Fathom meetings and read summaries and transcripts",
	}

	cmd.AddCommand(newMeetingsSearchCmd())
	cmd.AddCommand(newMeetingsSummaryCmd())
	cmd.AddCommand(newMeetingsTranscriptCmd())
	return cmd
}

func newMeetingsSearchCmd() *cobra.Command {
	var (
		participants []string
		titles       []string
		startDate    string
		endDate      string
		format       string
	)

	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search meetings by participant, title and date range",
		Long: `Fetch every meeting page from Fathom and filter the result.

Participant and title keywords are matched case-insensitively; a meeting
matches when any keyword is found. The date range is inclusive and applies
to the scheduled start time.`,
		Example: `  fathom-mcp meetings search --participant alice --start-date 2024-03-01
  fathom-mcp meetings search --title "weekly sync,retro" --format yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, err := newCLIServerContext(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = sc.Shutdown() }()

			payload, err := fathom_tools.Search(cmd.Context(), sc, fathom_tools.SearchRequest{
				ParticipantKeywords: splitKeywords(participants),
				TitleKeywords:       splitKeywords(titles),
				StartDate:           startDate,
				EndDate:             endDate,
			})
			if err != nil {
				return err
			}

			if err := writeSearchResult(cmd.OutOrStdout(), payload.SearchResult, format); err != nil {
				return err
			}
			if payload.Partial {
				return fmt.Errorf("%s", payload.Error)
			}
			return nil
		},
	}

	cmd.Flags().StringSliceVarP(&participants, "participant", "p", nil, "Participant name or email keyword (repeatable, comma-separated)")
	cmd.Flags().StringSliceVarP(&titles, "title", "t", nil, "Meeting title keyword (repeatable, comma-separated)")
	cmd.Flags().StringVar(&startDate, "start-date", "", "Earliest scheduled start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&endDate, "end-date", "", "Latest scheduled start date (YYYY-MM-DD)")
	cmd.Flags().StringVarP(&format, "format", "f", formatTable, "Output format: table, json or yaml")

	return cmd
}

func newMeetingsSummaryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "summary <recording-id>",
		Short: "Print the AI summary of a recording",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			recordingID, err := parseRecordingArg(args[0])
			if err != nil {
				return err
			}

			sc, err := newCLIServerContext(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = sc.Shutdown() }()

			summary, err := fathom_tools.FetchSummary(cmd.Context(), sc, recordingID)
			if err != nil {
				return err
			}

			var buf bytes.Buffer
			if err := json.Indent(&buf, summary, "", "  "); err != nil {
				buf.Reset()
				buf.Write(summary)
			}
			buf.WriteByte('\n')
			_, err = buf.WriteTo(cmd.OutOrStdout())
			return err
		},
	}
}

func newMeetingsTranscriptCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "transcript <recording-id>",
		Short: "Print the transcript of a recording",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			recordingID, err := parseRecordingArg(args[0])
			if err != nil {
				return err
			}

			sc, err := newCLIServerContext(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = sc.Shutdown() }()

			transcript, err := fathom_tools.FetchTranscript(cmd.Context(), sc, recordingID)
			if err != nil {
				return err
			}

			renderTranscript(cmd.OutOrStdout(), transcript)
			return nil
		},
	}
}

// newCLIServerContext builds a server context for one-shot terminal commands.
// Instrumentation stays off; logs go to stderr.
func newCLIServerContext(cmd *cobra.Command) (*server.ServerContext, error) {
	cfg, err := globalFlags.load(cmd)
	if err != nil {
		return nil, err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
		cmd.SetContext(ctx)
	}
	return server.NewServerContext(ctx, cfg, logging.New(os.Stderr, globalFlags.debug)), nil
}

func parseRecordingArg(arg string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(arg), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("recording ID must be a positive integer, got %q", arg)
	}
	return id, nil
}

// splitKeywords flattens repeated, comma-separated flag values.
func splitKeywords(values []string) []string {
	var out []string
	for _, v := range values {
		out = append(out, parseCommaSeparatedList(v)...)
	}
	return out
}

// parseCommaSeparatedList parses a comma-separated string into a slice,
// trimming whitespace from each element and filtering out empty strings.
// Returns nil if the input is empty or contains only whitespace/commas.
func parseCommaSeparatedList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	if len(result) == 0 {
		return nil
	}
	return result
}

func writeSearchResult(w io.Writer, result meetings.SearchResult, format string) error {
	if format == "" || format == formatTable {
		renderMeetingsTable(w, result)
		return nil
	}

	exporter, err := export.NewExporter(format)
	if err != nil {
		return err
	}
	return exporter.Export(result, w)
}

func renderMeetingsTable(w io.Writer, result meetings.SearchResult) {
	if result.Count == 0 {
		fmt.Fprintln(w, headerStyle.Render("No meetings found"))
		return
	}

	fmt.Fprintln(w, headerStyle.Render(fmt.Sprintf("Found %d meeting(s)", result.Count)))
	fmt.Fprintln(w)

	tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
	_, _ = fmt.Fprintln(tw, strings.Join([]string{
		columnStyle.Render("ID"),
		columnStyle.Render("Title"),
		columnStyle.Render("Start"),
		columnStyle.Render("Minutes"),
		columnStyle.Render("Participants"),
	}, "\t")+"\t")

	for _, m := range result.Meetings {
		title := m.Title
		if title == "" {
			title = m.MeetingTitle
		}
		if len(title) > 50 {
			title = title[:47] + "..."
		}

		start := m.Start
		if start == "" {
			start = "-"
		}

		names := make([]string, 0, len(m.Participants))
		for _, p := range m.Participants {
			if p.Name != "" {
				names = append(names, p.Name)
			} else if p.Email != "" {
				names = append(names, p.Email)
			}
		}

		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\t\n",
			idStyle.Render(strconv.FormatInt(m.RecordingID, 10)),
			title,
			dateStyle.Render(start),
			m.DurationMinutes,
			strings.Join(names, ", "))
	}
	_ = tw.Flush()

	fmt.Fprintln(w)
	fmt.Fprintln(w, hintStyle.Render(fmt.Sprintf(
		"Use `fathom-mcp meetings summary %d` or `fathom-mcp meetings transcript %d` for details",
		result.Meetings[0].RecordingID, result.Meetings[0].RecordingID)))
}

func renderTranscript(w io.Writer, transcript *fathom_tools.TranscriptPayload) {
	fmt.Fprintln(w, headerStyle.Render(fmt.Sprintf("Recording %d, %d segment(s)", transcript.RecordingID, transcript.Count)))
	for _, seg := range transcript.Segments {
		prefix := ""
		if seg.Timestamp != "" {
			prefix = dateStyle.Render("["+seg.Timestamp+"]") + " "
		}
		fmt.Fprintf(w, "%s%s: %s\n", prefix, speakerStyle.Render(seg.Speaker), seg.Text)
	}
}
