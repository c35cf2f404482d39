package instrumentation

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

const (
	testTraceID     = "abc123def456"
	testSpanID      = "span789"
	testToolSearch  = "search_meetings"
	testToolSummary = "fathom_get_summary"
	testRecordingID = int64(42)
)

func attrsToMap(attrs []slog.Attr) map[string]slog.Value {
	m := make(map[string]slog.Value, len(attrs))
	for _, a := range attrs {
		m[a.Key] = a.Value
	}
	return m
}

func TestToolInvocation_NewAndComplete(t *testing.T) {
	ti := NewToolInvocation(testToolSearch)

	if ti.Tool != testToolSearch {
		t.Errorf("Tool = %q, want %q", ti.Tool, testToolSearch)
	}
	if ti.StartTime.IsZero() {
		t.Error("StartTime should not be zero")
	}

	ti.CompleteSuccess()

	if !ti.Success {
		t.Error("Success should be true")
	}
	if ti.Duration < 0 {
		t.Error("Duration should not be negative")
	}
	if ti.Error != "" {
		t.Errorf("Error should be empty, got %q", ti.Error)
	}
}

func TestToolInvocation_CompleteWithError(t *testing.T) {
	ti := NewToolInvocation(testToolSummary)

	ti.CompleteWithError(errors.New("not found"))

	if ti.Success {
		t.Error("Success should be false")
	}
	if ti.Error != "not found" {
		t.Errorf("Error = %q, want %q", ti.Error, "not found")
	}
	if ti.Status() != StatusError {
		t.Errorf("Status() = %q, want %q", ti.Status(), StatusError)
	}
}

func TestToolInvocation_Builders(t *testing.T) {
	ti := NewToolInvocation(testToolSummary).
		WithService(ServiceFathom, OperationSummary).
		WithRecording(testRecordingID).
		WithKeywords([]string{"alice"})

	if ti.ServiceName != ServiceFathom {
		t.Errorf("ServiceName = %q, want %q", ti.ServiceName, ServiceFathom)
	}
	if ti.Operation != OperationSummary {
		t.Errorf("Operation = %q, want %q", ti.Operation, OperationSummary)
	}
	if ti.RecordingID != testRecordingID {
		t.Errorf("RecordingID = %d, want %d", ti.RecordingID, testRecordingID)
	}
	if len(ti.Keywords) != 1 || ti.Keywords[0] != "alice" {
		t.Errorf("Keywords = %v, want [alice]", ti.Keywords)
	}
}

func TestToolInvocation_LogAttrs_HashesKeywords(t *testing.T) {
	ti := &ToolInvocation{
		Tool:        testToolSearch,
		ServiceName: ServiceFathom,
		Operation:   OperationSearch,
		Keywords:    []string{"alice@acme.com", "standup"},
		Success:     true,
		Partial:     true,
		TraceID:     testTraceID,
		SpanID:      testSpanID,
	}

	m := attrsToMap(ti.LogAttrs())

	if _, ok := m["keywords"]; ok {
		t.Error("LogAttrs must not include raw keywords")
	}
	hashes, ok := m["keyword_hashes"]
	if !ok {
		t.Fatal("expected keyword_hashes attribute")
	}
	hashed, ok := hashes.Any().([]string)
	if !ok || len(hashed) != 2 {
		t.Fatalf("keyword_hashes = %v, want two hashes", hashes.Any())
	}
	for _, h := range hashed {
		if strings.Contains(h, "alice") || len(h) != 12 {
			t.Errorf("unexpected hash %q", h)
		}
	}
	if m["partial"].Bool() != true {
		t.Error("expected partial attribute")
	}
	if m["trace_id"].String() != testTraceID {
		t.Errorf("trace_id = %q, want %q", m["trace_id"].String(), testTraceID)
	}
	if _, ok := m["span_id"]; ok {
		t.Error("LogAttrs should not include span_id")
	}
}

func TestToolInvocation_LogAttrs_MinimalFields(t *testing.T) {
	ti := &ToolInvocation{Tool: testToolSearch, Success: true}

	m := attrsToMap(ti.LogAttrs())

	for _, key := range []string{"service", "operation", "recording_id", "keyword_hashes", "partial", "trace_id", "error"} {
		if _, ok := m[key]; ok {
			t.Errorf("unexpected attribute %q", key)
		}
	}
	if m["tool"].String() != testToolSearch {
		t.Errorf("tool = %q, want %q", m["tool"].String(), testToolSearch)
	}
}

func TestToolInvocation_LogAuditAttrs(t *testing.T) {
	ti := &ToolInvocation{
		Tool:        testToolSummary,
		RecordingID: testRecordingID,
		Keywords:    []string{"alice"},
		Error:       "fathom: not found",
		TraceID:     testTraceID,
		SpanID:      testSpanID,
	}

	m := attrsToMap(ti.LogAuditAttrs())

	if got := m["keywords"].Any().([]string); len(got) != 1 || got[0] != "alice" {
		t.Errorf("keywords = %v, want [alice]", got)
	}
	if m["recording_id"].Int64() != testRecordingID {
		t.Errorf("recording_id = %d, want %d", m["recording_id"].Int64(), testRecordingID)
	}
	if m["span_id"].String() != testSpanID {
		t.Errorf("span_id = %q, want %q", m["span_id"].String(), testSpanID)
	}
	if m["error"].String() != "fathom: not found" {
		t.Errorf("error = %q", m["error"].String())
	}
}

func TestAuditLogger_New(t *testing.T) {
	al := NewAuditLogger(nil)
	if al == nil {
		t.Fatal("NewAuditLogger returned nil")
	}
	if al.includePII {
		t.Error("includePII should default to false")
	}
	if !al.enabled {
		t.Error("enabled should default to true")
	}
}

func TestAuditLogger_LogToolInvocation(t *testing.T) {
	var buf bytes.Buffer
	al := NewAuditLogger(slog.New(slog.NewTextHandler(&buf, nil)))

	al.LogToolInvocation(NewToolInvocation(testToolSearch).WithKeywords([]string{"alice"}).CompleteSuccess())
	out := buf.String()
	if !strings.Contains(out, "tool_executed") {
		t.Errorf("expected tool_executed message, got %q", out)
	}
	if strings.Contains(out, "alice") {
		t.Errorf("keywords must be hashed by default, got %q", out)
	}

	buf.Reset()
	al.LogToolInvocation(NewToolInvocation(testToolSummary).CompleteWithError(errors.New("boom")))
	if !strings.Contains(buf.String(), "tool_failed") {
		t.Errorf("expected tool_failed message, got %q", buf.String())
	}
}

func TestAuditLogger_IncludePII(t *testing.T) {
	var buf bytes.Buffer
	al := NewAuditLoggerWithConfig(slog.New(slog.NewTextHandler(&buf, nil)), AuditLoggingConfig{
		Enabled:    true,
		IncludePII: true,
	})

	al.LogToolInvocation(NewToolInvocation(testToolSearch).WithKeywords([]string{"alice"}).CompleteSuccess())

	if !strings.Contains(buf.String(), "alice") {
		t.Errorf("expected raw keyword in audit output, got %q", buf.String())
	}
}

func TestAuditLogger_Disabled(t *testing.T) {
	var buf bytes.Buffer
	al := NewAuditLogger(slog.New(slog.NewTextHandler(&buf, nil)))
	al.SetEnabled(false)

	al.LogToolInvocation(NewToolInvocation(testToolSearch).CompleteSuccess())

	if buf.Len() != 0 {
		t.Errorf("expected no output, got %q", buf.String())
	}

	var nilLogger *AuditLogger
	nilLogger.LogToolInvocation(NewToolInvocation(testToolSearch).CompleteSuccess())
}

func TestToolInvocation_WithSpanContext_NoSpan(t *testing.T) {
	ti := NewToolInvocation(testToolSearch).WithSpanContext(context.Background())

	if ti.TraceID != "" || ti.SpanID != "" {
		t.Errorf("expected empty trace context, got %q/%q", ti.TraceID, ti.SpanID)
	}
}
