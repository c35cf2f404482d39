package instrumentation

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"strconv"
)

// Environment variables read by DefaultConfig.
const (
	EnvServiceName      = "OTEL_SERVICE_NAME"
	EnvServiceInstance  = "OTEL_SERVICE_INSTANCE_ID"
	EnvEnabled          = "INSTRUMENTATION_ENABLED"
	EnvMetricsExporter  = "METRICS_EXPORTER"
	EnvTracingExporter  = "TRACING_EXPORTER"
	EnvOTLPEndpoint     = "OTEL_EXPORTER_OTLP_ENDPOINT"
	EnvOTLPInsecure     = "OTEL_EXPORTER_OTLP_INSECURE"
	EnvSamplingRate     = "OTEL_TRACES_SAMPLER_ARG"
	EnvDetailedLabels   = "METRICS_DETAILED_LABELS"
	EnvAuditEnabled     = "AUDIT_LOGGING_ENABLED"
	EnvAuditIncludePII  = "AUDIT_LOGGING_INCLUDE_PII"
	defaultServiceName  = "fathom-mcp"
	defaultSamplingRate = 0.1
)

// Exporter types.
const (
	ExporterPrometheus = "prometheus"
	ExporterOTLP       = "otlp"
	ExporterStdout     = "stdout"
	ExporterNone       = "none"
)

// Label values shared by metrics, spans and audit records.
const (
	StatusSuccess = "success"
	StatusError   = "error"

	// ServiceFathom is the only upstream this server talks to
	ServiceFathom = "fathom"
)

var (
	metricsExporters = []string{ExporterPrometheus, ExporterOTLP, ExporterStdout}
	tracingExporters = []string{ExporterOTLP, ExporterStdout, ExporterNone}
)

// Config holds the configuration for OpenTelemetry instrumentation.
type Config struct {
	// ServiceName is the resource service name (default: fathom-mcp)
	ServiceName string

	// ServiceVersion is set from the build version by the serve command
	ServiceVersion string

	// ServiceInstanceID identifies this process; falls back to the pod name
	ServiceInstanceID string

	// K8sNamespace and K8sPodName are added as resource attributes when set
	K8sNamespace string
	K8sPodName   string

	// Enabled turns metrics and tracing on (default: true)
	Enabled bool

	// MetricsExporter is one of prometheus, otlp or stdout (default: prometheus).
	// Only prometheus exposes a scrape endpoint for the metrics server.
	MetricsExporter string

	// TracingExporter is one of otlp, stdout or none (default: none)
	TracingExporter string

	// OTLPEndpoint is the collector host:port, without scheme
	OTLPEndpoint string

	// OTLPInsecure sends OTLP over plain HTTP. Keep it off outside local setups.
	OTLPInsecure bool

	// TraceSamplingRate is the parent-based sampling ratio, 0.0 to 1.0
	TraceSamplingRate float64

	// DetailedLabels keeps unknown HTTP paths as metric labels instead of
	// collapsing them to "other"
	DetailedLabels bool

	// AuditLogging configures the per tool call audit records.
	AuditLogging AuditLoggingConfig

	// ConsoleWriter receives the output of the stdout exporters.
	// Defaults to os.Stderr because stdout carries the stdio transport.
	ConsoleWriter io.Writer

	// Logger receives exporter warnings (default: slog.Default())
	Logger *slog.Logger
}

// AuditLoggingConfig holds configuration for audit logging.
type AuditLoggingConfig struct {
	// Enabled determines if audit logging is active (default: true)
	Enabled bool

	// IncludePII logs participant and title keywords verbatim instead of
	// hashing them (default: false)
	IncludePII bool
}

// DefaultConfig reads the instrumentation settings from the environment.
func DefaultConfig() Config {
	return Config{
		ServiceName:       getEnvOrDefault(EnvServiceName, defaultServiceName),
		ServiceVersion:    "unknown",
		ServiceInstanceID: os.Getenv(EnvServiceInstance),
		K8sNamespace:      getEnvOrDefault("K8S_NAMESPACE", os.Getenv("POD_NAMESPACE")),
		K8sPodName:        getEnvOrDefault("K8S_POD_NAME", os.Getenv("HOSTNAME")),
		Enabled:           getEnvBoolOrDefault(EnvEnabled, true),
		MetricsExporter:   getEnvOrDefault(EnvMetricsExporter, ExporterPrometheus),
		TracingExporter:   getEnvOrDefault(EnvTracingExporter, ExporterNone),
		OTLPEndpoint:      os.Getenv(EnvOTLPEndpoint),
		OTLPInsecure:      getEnvBoolOrDefault(EnvOTLPInsecure, false),
		TraceSamplingRate: getEnvFloatOrDefault(EnvSamplingRate, defaultSamplingRate),
		DetailedLabels:    getEnvBoolOrDefault(EnvDetailedLabels, false),
		AuditLogging: AuditLoggingConfig{
			Enabled:    getEnvBoolOrDefault(EnvAuditEnabled, true),
			IncludePII: getEnvBoolOrDefault(EnvAuditIncludePII, false),
		},
	}
}

// Validate checks exporter names, the sampling rate and the OTLP endpoint.
func (c *Config) Validate() error {
	if c.TraceSamplingRate < 0 || c.TraceSamplingRate > 1 {
		return fmt.Errorf("trace sampling rate must be between 0.0 and 1.0, got %f", c.TraceSamplingRate)
	}
	if c.MetricsExporter != "" && !slices.Contains(metricsExporters, c.MetricsExporter) {
		return fmt.Errorf("invalid metrics exporter %q, must be one of: prometheus, otlp, stdout", c.MetricsExporter)
	}
	if c.TracingExporter != "" && !slices.Contains(tracingExporters, c.TracingExporter) {
		return fmt.Errorf("invalid tracing exporter %q, must be one of: otlp, stdout, none", c.TracingExporter)
	}
	if c.OTLPEndpoint == "" {
		if c.TracingExporter == ExporterOTLP {
			return fmt.Errorf("OTLP endpoint is required when using OTLP tracing exporter")
		}
		if c.MetricsExporter == ExporterOTLP {
			return fmt.Errorf("OTLP endpoint is required when using OTLP metrics exporter")
		}
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBoolOrDefault falls back to defaultValue when the variable is unset
// or not a valid bool.
func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	parsed, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return parsed
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	parsed, err := strconv.ParseFloat(os.Getenv(key), 64)
	if err != nil {
		return defaultValue
	}
	return parsed
}
