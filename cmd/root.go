package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/teemow/docsmith/internal/config"
	"github.com/teemow/docsmith/internal/logging"
)

// rootCmd represents the base command for the docsmith application
var rootCmd = &cobra.Command{
	Use:   "docsmith",
	Short: "Converts between Markdown and Google Docs and Slides",
	Long: `docsmith reads Google Docs into a structured tree, Markdown or plain
text, and turns Markdown into native Google Docs and Slides.

It can run as:
  - An MCP (Model Context Protocol) server for AI assistants
  - A CLI for offline conversions and Google account setup`,
	SilenceUsage: true,
}

// version will be set by main
var version = "dev"

var (
	configFile string
	logLevel   string
	logFormat  string
)

// SetVersion sets the version for the root command
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

// Execute is the main entry point for the CLI application
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "docsmith version %s\n" .Version}}`)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Config file (default: $XDG_CONFIG_HOME/docsmith/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn or error. Can also use DOCSMITH_LOG_LEVEL env var.")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "Log format: text or json. Can also use DOCSMITH_LOG_FORMAT env var.")

	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newConvertCmd())
	rootCmd.AddCommand(newAuthCmd())
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newGenerateDocsCmd())
}

// loadConfig resolves the configuration from the defaults, the config file,
// the environment and finally the flags the user set on cmd.
func loadConfig(cmd *cobra.Command, apply ...func(*cobra.Command, *config.Config)) (*config.Config, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}

	if cmd.Flags().Changed("log-level") {
		cfg.LogLevel = logLevel
	}
	if cmd.Flags().Changed("log-format") {
		cfg.LogFormat = logFormat
	}
	for _, fn := range apply {
		fn(cmd, cfg)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// newLogger builds the process logger. Logs go to stderr so that stdout
// stays free for the stdio transport and command output.
func newLogger(cfg *config.Config) (*slog.Logger, error) {
	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	handler, err := logging.NewHandler(level, cfg.LogFormat, os.Stderr)
	if err != nil {
		return nil, err
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger, nil
}
