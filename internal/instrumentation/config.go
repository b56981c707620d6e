package instrumentation

import (
	"fmt"
	"os"
	"strconv"
)

// Label values shared by metrics, spans and audit records.
const (
	StatusSuccess = "success"
	StatusError   = "error"

	ServiceDocs   = "docs"
	ServiceSlides = "slides"
	ServiceDrive  = "drive"

	OperationGet     = "get"
	OperationCreate  = "create"
	OperationUpdate  = "update"
	OperationCompile = "compile"

	// Conversion kinds recorded by RecordConversion.
	ConversionDocs   = "docs"
	ConversionSlides = "slides"
)

// Exporter types.
const (
	ExporterPrometheus = "prometheus"
	ExporterOTLP       = "otlp"
	ExporterStdout     = "stdout"
	ExporterNone       = "none"
)

// Config configures the OpenTelemetry provider.
type Config struct {
	ServiceName    string
	ServiceVersion string
	// ServiceInstanceID defaults to the hostname.
	ServiceInstanceID string

	Enabled bool

	// MetricsExporter is prometheus, otlp or stdout.
	MetricsExporter string
	// TracingExporter is otlp, stdout or none.
	TracingExporter string

	// OTLPEndpoint is host:port without a scheme. TLS is used unless
	// OTLPInsecure is set.
	OTLPEndpoint string
	OTLPInsecure bool

	TraceSamplingRate float64

	// DetailedLabels adds the account label to tool metrics. Keep it off
	// unless the number of accounts is small.
	DetailedLabels bool

	AuditLogging AuditLoggingConfig
}

// AuditLoggingConfig configures the tool audit log.
type AuditLoggingConfig struct {
	Enabled bool
	// IncludeAccount logs account names in clear instead of their hash.
	IncludeAccount bool
}

// DefaultConfig returns the configuration read from the OpenTelemetry
// environment variables.
func DefaultConfig() Config {
	return ConfigFromEnv(os.LookupEnv)
}

// ConfigFromEnv builds a Config from lookup, falling back to defaults for
// unset or malformed values.
func ConfigFromEnv(lookup func(string) (string, bool)) Config {
	e := env(lookup)
	return Config{
		ServiceName:       e.str("OTEL_SERVICE_NAME", "docsmith"),
		ServiceVersion:    "unknown",
		ServiceInstanceID: e.str("OTEL_SERVICE_INSTANCE_ID", ""),
		Enabled:           e.boolean("INSTRUMENTATION_ENABLED", true),
		MetricsExporter:   e.str("METRICS_EXPORTER", ExporterPrometheus),
		TracingExporter:   e.str("TRACING_EXPORTER", ExporterNone),
		OTLPEndpoint:      e.str("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		OTLPInsecure:      e.boolean("OTEL_EXPORTER_OTLP_INSECURE", false),
		TraceSamplingRate: e.float("OTEL_TRACES_SAMPLER_ARG", 0.1),
		DetailedLabels:    e.boolean("METRICS_DETAILED_LABELS", false),
		AuditLogging: AuditLoggingConfig{
			Enabled:        e.boolean("AUDIT_LOGGING_ENABLED", true),
			IncludeAccount: e.boolean("AUDIT_LOGGING_INCLUDE_ACCOUNT", false),
		},
	}
}

// Validate checks exporter names, the sampling rate and the OTLP endpoint.
func (c *Config) Validate() error {
	if c.TraceSamplingRate < 0 || c.TraceSamplingRate > 1 {
		return fmt.Errorf("trace sampling rate must be between 0.0 and 1.0, got %f", c.TraceSamplingRate)
	}

	switch c.MetricsExporter {
	case "", ExporterPrometheus, ExporterOTLP, ExporterStdout:
	default:
		return fmt.Errorf("invalid metrics exporter %q, must be one of: prometheus, otlp, stdout", c.MetricsExporter)
	}
	switch c.TracingExporter {
	case "", ExporterOTLP, ExporterStdout, ExporterNone:
	default:
		return fmt.Errorf("invalid tracing exporter %q, must be one of: otlp, stdout, none", c.TracingExporter)
	}

	if c.OTLPEndpoint == "" && (c.MetricsExporter == ExporterOTLP || c.TracingExporter == ExporterOTLP) {
		return fmt.Errorf("OTLP endpoint is required when using an OTLP exporter")
	}
	return nil
}

type env func(string) (string, bool)

func (e env) str(key, def string) string {
	if v, ok := e(key); ok && v != "" {
		return v
	}
	return def
}

func (e env) boolean(key string, def bool) bool {
	v, err := strconv.ParseBool(e.str(key, strconv.FormatBool(def)))
	if err != nil {
		return def
	}
	return v
}

func (e env) float(key string, def float64) float64 {
	v, err := strconv.ParseFloat(e.str(key, ""), 64)
	if err != nil {
		return def
	}
	return v
}
