package instrumentation

import (
	"bytes"
	"context"
	"io"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testContext(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func TestNewProvider_Disabled(t *testing.T) {
	provider, err := NewProvider(context.Background(), Config{ServiceName: "fathom-mcp", Enabled: false})
	require.NoError(t, err)

	assert.False(t, provider.Enabled())
	assert.NotNil(t, provider.Metrics(), "tools record into no-op metrics when disabled")
	assert.NotNil(t, provider.Tracer("fathom"))
	assert.Nil(t, provider.PrometheusHandler())
	assert.NoError(t, provider.Shutdown(context.Background()))
}

func TestNewProvider_Exporters(t *testing.T) {
	tests := []struct {
		name       string
		metrics    string
		tracing    string
		wantScrape bool
	}{
		{name: "prometheus metrics", metrics: ExporterPrometheus, tracing: ExporterNone, wantScrape: true},
		{name: "stdout metrics and traces", metrics: ExporterStdout, tracing: ExporterStdout, wantScrape: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := testContext(t)
			provider, err := NewProvider(ctx, Config{
				ServiceName:     "fathom-mcp",
				ServiceVersion:  "test",
				Enabled:         true,
				MetricsExporter: tt.metrics,
				TracingExporter: tt.tracing,
				ConsoleWriter:   io.Discard,
			})
			require.NoError(t, err)
			defer func() { _ = provider.Shutdown(ctx) }()

			assert.True(t, provider.Enabled())
			assert.NotNil(t, provider.Metrics())
			assert.Equal(t, tt.wantScrape, provider.PrometheusHandler() != nil)
		})
	}
}

func TestNewProvider_InvalidConfig(t *testing.T) {
	tests := []struct {
		name   string
		config Config
	}{
		{name: "unknown metrics exporter", config: Config{MetricsExporter: "statsd", TracingExporter: ExporterNone}},
		{name: "unknown tracing exporter", config: Config{MetricsExporter: ExporterStdout, TracingExporter: "jaeger"}},
		{name: "otlp tracing without endpoint", config: Config{MetricsExporter: ExporterStdout, TracingExporter: ExporterOTLP}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.config.ServiceName = "fathom-mcp"
			tt.config.Enabled = true
			tt.config.ConsoleWriter = io.Discard

			_, err := NewProvider(testContext(t), tt.config)
			assert.Error(t, err)
		})
	}
}

func TestProvider_ConsoleWriterDefaultsToStderr(t *testing.T) {
	p := &Provider{config: Config{}}
	assert.Same(t, os.Stderr, p.consoleWriter())

	var buf bytes.Buffer
	p = &Provider{config: Config{ConsoleWriter: &buf}}
	assert.Same(t, &buf, p.consoleWriter())
}

func TestNewProvider_StdoutTracesGoToConsoleWriter(t *testing.T) {
	var buf bytes.Buffer
	ctx := testContext(t)

	provider, err := NewProvider(ctx, Config{
		ServiceName:       "fathom-mcp",
		ServiceVersion:    "test",
		Enabled:           true,
		MetricsExporter:   ExporterStdout,
		TracingExporter:   ExporterStdout,
		TraceSamplingRate: 1.0,
		ConsoleWriter:     &buf,
	})
	require.NoError(t, err)

	_, span := provider.Tracer("fathom").Start(ctx, "fathom.list")
	span.End()
	require.NoError(t, provider.Shutdown(ctx))

	assert.Contains(t, buf.String(), "fathom.list")
}
