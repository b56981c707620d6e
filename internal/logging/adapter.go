package logging

import (
	"log/slog"
	"strings"

	"github.com/hashicorp/go-retryablehttp"
)

var _ retryablehttp.LeveledLogger = (*APILogger)(nil)

// APILogger adapts an slog.Logger to the leveled logger of the retrying
// HTTP client used for Google API calls. Records are grouped under "api" and
// keep the level the client logged them at.
type APILogger struct {
	logger *slog.Logger
}

// NewAPILogger creates an APILogger. If logger is nil, slog.Default() is used.
func NewAPILogger(logger *slog.Logger) *APILogger {
	if logger == nil {
		logger = slog.Default()
	}
	return &APILogger{logger: logger.WithGroup("api")}
}

func (a *APILogger) Error(msg string, keysAndValues ...any) {
	a.logger.Error(msg, a.args("error", keysAndValues)...)
}

func (a *APILogger) Info(msg string, keysAndValues ...any) {
	a.logger.Info(msg, a.args("info", keysAndValues)...)
}

// Debug promotes retry notices to info so that backoff is visible at the
// default level.
func (a *APILogger) Debug(msg string, keysAndValues ...any) {
	if strings.HasPrefix(msg, "retrying") {
		a.logger.Info(msg, a.args("debug", keysAndValues)...)
		return
	}
	a.logger.Debug(msg, a.args("debug", keysAndValues)...)
}

func (a *APILogger) Warn(msg string, keysAndValues ...any) {
	a.logger.Warn(msg, a.args("warn", keysAndValues)...)
}

// Logger returns the underlying slog.Logger.
func (a *APILogger) Logger() *slog.Logger {
	return a.logger
}

func (a *APILogger) args(level string, keysAndValues []any) []any {
	return append([]any{slog.String("original_log_level", level)}, keysAndValues...)
}
