package instrumentation

import (
	"testing"
)

func lookup(env map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
}

func TestConfigFromEnv_Defaults(t *testing.T) {
	config := ConfigFromEnv(lookup(nil))

	if config.ServiceName != "docsmith" {
		t.Errorf("expected ServiceName 'docsmith', got %q", config.ServiceName)
	}
	if !config.Enabled {
		t.Error("expected Enabled to be true by default")
	}
	if config.MetricsExporter != ExporterPrometheus {
		t.Errorf("expected MetricsExporter 'prometheus', got %q", config.MetricsExporter)
	}
	if config.TracingExporter != ExporterNone {
		t.Errorf("expected TracingExporter 'none', got %q", config.TracingExporter)
	}
	if config.TraceSamplingRate != 0.1 {
		t.Errorf("expected TraceSamplingRate 0.1, got %f", config.TraceSamplingRate)
	}
	if !config.AuditLogging.Enabled || config.AuditLogging.IncludeAccount {
		t.Errorf("unexpected audit defaults: %+v", config.AuditLogging)
	}
	if err := config.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestConfigFromEnv(t *testing.T) {
	config := ConfigFromEnv(lookup(map[string]string{
		"OTEL_SERVICE_NAME":             "test-service",
		"INSTRUMENTATION_ENABLED":       "false",
		"METRICS_EXPORTER":              "stdout",
		"TRACING_EXPORTER":              "stdout",
		"OTEL_TRACES_SAMPLER_ARG":       "0.5",
		"METRICS_DETAILED_LABELS":       "true",
		"AUDIT_LOGGING_INCLUDE_ACCOUNT": "true",
	}))

	if config.ServiceName != "test-service" {
		t.Errorf("expected ServiceName 'test-service', got %q", config.ServiceName)
	}
	if config.Enabled {
		t.Error("expected Enabled to be false")
	}
	if config.MetricsExporter != ExporterStdout || config.TracingExporter != ExporterStdout {
		t.Errorf("unexpected exporters %q/%q", config.MetricsExporter, config.TracingExporter)
	}
	if config.TraceSamplingRate != 0.5 {
		t.Errorf("expected TraceSamplingRate 0.5, got %f", config.TraceSamplingRate)
	}
	if !config.DetailedLabels {
		t.Error("expected DetailedLabels to be true")
	}
	if !config.AuditLogging.IncludeAccount {
		t.Error("expected IncludeAccount to be true")
	}
}

func TestConfigFromEnv_MalformedValuesFallBack(t *testing.T) {
	config := ConfigFromEnv(lookup(map[string]string{
		"INSTRUMENTATION_ENABLED": "sometimes",
		"OTEL_TRACES_SAMPLER_ARG": "half",
	}))

	if !config.Enabled {
		t.Error("malformed bool should fall back to true")
	}
	if config.TraceSamplingRate != 0.1 {
		t.Errorf("malformed float should fall back to 0.1, got %f", config.TraceSamplingRate)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{
			name:   "prometheus without tracing",
			config: Config{MetricsExporter: ExporterPrometheus, TracingExporter: ExporterNone, TraceSamplingRate: 0.1},
		},
		{
			name:   "otlp with endpoint",
			config: Config{MetricsExporter: ExporterOTLP, TracingExporter: ExporterOTLP, OTLPEndpoint: "localhost:4318", TraceSamplingRate: 1},
		},
		{
			name:    "otlp without endpoint",
			config:  Config{MetricsExporter: ExporterPrometheus, TracingExporter: ExporterOTLP},
			wantErr: true,
		},
		{
			name:    "sampling rate above one",
			config:  Config{TraceSamplingRate: 1.5},
			wantErr: true,
		},
		{
			name:    "negative sampling rate",
			config:  Config{TraceSamplingRate: -0.1},
			wantErr: true,
		},
		{
			name:    "unknown metrics exporter",
			config:  Config{MetricsExporter: "statsd"},
			wantErr: true,
		},
		{
			name:    "unknown tracing exporter",
			config:  Config{TracingExporter: "jaeger"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
