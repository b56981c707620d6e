package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/teemow/docsmith/internal/logging"
)

// Transports supported by the serve command.
const (
	TransportStdio          = "stdio"
	TransportStreamableHTTP = "streamable-http"
)

const appName = "docsmith"

// Config is the docsmith configuration. Values are resolved in this order:
// defaults, the YAML config file, environment variables, then command-line
// flags (applied by the caller).
type Config struct {
	LogLevel  string `yaml:"logLevel,omitempty" json:"logLevel,omitempty"`
	LogFormat string `yaml:"logFormat,omitempty" json:"logFormat,omitempty"`
	Transport string `yaml:"transport,omitempty" json:"transport,omitempty"`
	HTTPAddr  string `yaml:"httpAddr,omitempty" json:"httpAddr,omitempty"`
	// Yolo enables the tools that modify documents and presentations.
	Yolo bool `yaml:"yolo,omitempty" json:"yolo,omitempty"`

	Metrics MetricsConfig `yaml:"metrics,omitempty" json:"metrics"`
	Google  GoogleConfig  `yaml:"google,omitempty" json:"google"`
	Docs    DocsConfig    `yaml:"docs,omitempty" json:"docs"`
	Slides  SlidesConfig  `yaml:"slides,omitempty" json:"slides"`
}

// MetricsConfig holds configuration for the metrics server
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled,omitempty" json:"enabled"`
	Addr    string `yaml:"addr,omitempty" json:"addr,omitempty"`
}

// GoogleConfig configures access to the Google APIs.
type GoogleConfig struct {
	// CredentialsFile is the OAuth client JSON downloaded from the Google
	// Cloud console.
	CredentialsFile string `yaml:"credentialsFile,omitempty" json:"credentialsFile,omitempty"`
	TokenDir        string `yaml:"tokenDir,omitempty" json:"tokenDir,omitempty"`
	DefaultAccount  string `yaml:"defaultAccount,omitempty" json:"defaultAccount,omitempty"`
	RetryMax        int    `yaml:"retryMax,omitempty" json:"retryMax"`
}

// DocsConfig configures the Docs request compiler.
type DocsConfig struct {
	ImageWidthPt float64 `yaml:"imageWidthPt,omitempty" json:"imageWidthPt"`
}

// SlidesConfig configures the slide layout.
type SlidesConfig struct {
	PageWidthPt  float64 `yaml:"pageWidthPt,omitempty" json:"pageWidthPt"`
	PageHeightPt float64 `yaml:"pageHeightPt,omitempty" json:"pageHeightPt"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		LogLevel:  "info",
		LogFormat: logging.FormatText,
		Transport: TransportStdio,
		HTTPAddr:  ":8080",
		Metrics: MetricsConfig{
			Addr: ":9090",
		},
		Google: GoogleConfig{
			CredentialsFile: filepath.Join(Dir(), "credentials.json"),
			DefaultAccount:  "default",
			RetryMax:        5,
		},
		Docs: DocsConfig{
			ImageWidthPt: 300,
		},
		Slides: SlidesConfig{
			PageWidthPt:  720,
			PageHeightPt: 405,
		},
	}
}

// Load reads the config file at path over the defaults. An empty path
// searches Dir() for config.yml and config.yaml; a missing file there is not
// an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(b, cfg); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config %s: %w", path, err)
		}
		return cfg, nil
	}

	for _, ext := range []string{".yml", ".yaml"} {
		candidate := filepath.Join(Dir(), "config"+ext)
		b, err := os.ReadFile(candidate)
		if err != nil {
			continue
		}
		if err := yaml.Unmarshal(b, cfg); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config %s: %w", candidate, err)
		}
		return cfg, nil
	}
	return cfg, nil
}

// ApplyEnv overrides cfg with the environment variables present in lookup,
// usually os.LookupEnv.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	boolean := func(key string, dst *bool) error {
		v, ok := lookup(key)
		if !ok || v == "" {
			return nil
		}
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid %s value %q (expected true/false)", key, v)
		}
		*dst = parsed
		return nil
	}
	number := func(key string, dst *float64) error {
		v, ok := lookup(key)
		if !ok || v == "" {
			return nil
		}
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid %s value %q: %w", key, v, err)
		}
		*dst = parsed
		return nil
	}

	str("DOCSMITH_LOG_LEVEL", &c.LogLevel)
	str("DOCSMITH_LOG_FORMAT", &c.LogFormat)
	str("DOCSMITH_TRANSPORT", &c.Transport)
	str("DOCSMITH_HTTP_ADDR", &c.HTTPAddr)
	str("METRICS_ADDR", &c.Metrics.Addr)
	str("GOOGLE_CREDENTIALS_FILE", &c.Google.CredentialsFile)
	str("DOCSMITH_TOKEN_DIR", &c.Google.TokenDir)
	str("DOCSMITH_ACCOUNT", &c.Google.DefaultAccount)

	if v, ok := lookup("DOCSMITH_GOOGLE_RETRY_MAX"); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid DOCSMITH_GOOGLE_RETRY_MAX value %q: %w", v, err)
		}
		c.Google.RetryMax = n
	}

	for key, dst := range map[string]*bool{
		"DOCSMITH_YOLO":   &c.Yolo,
		"METRICS_ENABLED": &c.Metrics.Enabled,
	} {
		if err := boolean(key, dst); err != nil {
			return err
		}
	}
	for key, dst := range map[string]*float64{
		"DOCSMITH_DOCS_IMAGE_WIDTH_PT":   &c.Docs.ImageWidthPt,
		"DOCSMITH_SLIDES_PAGE_WIDTH_PT":  &c.Slides.PageWidthPt,
		"DOCSMITH_SLIDES_PAGE_HEIGHT_PT": &c.Slides.PageHeightPt,
	} {
		if err := number(key, dst); err != nil {
			return err
		}
	}
	return nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	switch strings.ToLower(c.LogFormat) {
	case logging.FormatText, logging.FormatJSON:
	default:
		return fmt.Errorf("unsupported log format %q (supported: text, json)", c.LogFormat)
	}
	switch c.Transport {
	case TransportStdio, TransportStreamableHTTP:
	default:
		return fmt.Errorf("unsupported transport type: %s (supported: stdio, streamable-http)", c.Transport)
	}
	if c.Google.RetryMax < 0 {
		return fmt.Errorf("google.retryMax must not be negative")
	}
	if c.Docs.ImageWidthPt <= 0 {
		return fmt.Errorf("docs.imageWidthPt must be positive")
	}
	if c.Slides.PageWidthPt <= 0 || c.Slides.PageHeightPt <= 0 {
		return fmt.Errorf("slides page size must be positive")
	}
	return nil
}

// Dir returns the configuration directory, $XDG_CONFIG_HOME/docsmith or
// ~/.config/docsmith.
func Dir() string {
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return filepath.Join(v, appName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return appName
	}
	return filepath.Join(home, ".config", appName)
}
