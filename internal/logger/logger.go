// Package logger configures the application's logging and observability.
//
// It uses *ZeroLog* for logging and integrates with *New Relic* to forward
// logs and database traces when a license key is configured.
package logger

import (
	"io"
	"os"
	"time"

	"github.com/deppfellow/questions/internal/config"
	"github.com/jackc/pgx/v5/tracelog"
	"github.com/newrelic/go-agent/v3/integrations/logcontext-v2/zerologWriter"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/rs/zerolog"
)

// LoggerService owns the optional New Relic application.
//
// When New Relic is not configured the service still exists but
// GetApplication returns nil, so callers can check a single value.
type LoggerService struct {
	nrApp *newrelic.Application
}

// NewLoggerService starts the New Relic agent if a license key is set.
//
// Agent start failures are not fatal: the service comes back without an
// application and the error is returned for the caller to log.
func NewLoggerService(cfg *config.ObservabilityConfig) (*LoggerService, error) {
	service := &LoggerService{}

	if !cfg.NewRelicEnabled() {
		return service, nil
	}

	opts := []newrelic.ConfigOption{
		newrelic.ConfigAppName(cfg.ServiceName),
		newrelic.ConfigLicense(cfg.NewRelic.LicenseKey),
		newrelic.ConfigAppLogForwardingEnabled(cfg.NewRelic.AppLogForwardingEnabled),
		newrelic.ConfigDistributedTracerEnabled(cfg.NewRelic.DistributedTracingEnabled),
		newrelic.ConfigEnabled(true),
	}
	if cfg.NewRelic.DebugLogging {
		opts = append(opts, newrelic.ConfigDebugLogger(os.Stdout))
	}

	app, err := newrelic.NewApplication(opts...)
	if err != nil {
		return service, err
	}

	service.nrApp = app
	return service, nil
}

// GetApplication returns the New Relic application, or nil.
func (ls *LoggerService) GetApplication() *newrelic.Application {
	if ls == nil {
		return nil
	}
	return ls.nrApp
}

// Shutdown flushes pending New Relic data.
func (ls *LoggerService) Shutdown() {
	if ls.GetApplication() != nil {
		ls.nrApp.Shutdown(10 * time.Second)
	}
}

// NewLoggerWithService builds the application logger.
//
//   - level comes from cfg.GetLogLevel()
//   - a console writer outside production, JSON in production; an explicit
//     logging format overrides either
//   - with New Relic enabled, output goes through the zerolog writer so
//     log lines are decorated and forwarded
func NewLoggerWithService(cfg *config.ObservabilityConfig, ls *LoggerService) zerolog.Logger {
	level := ParseLevel(cfg.GetLogLevel())

	var out io.Writer = os.Stdout
	if useConsole(cfg) {
		out = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	}

	if app := ls.GetApplication(); app != nil {
		out = zerologWriter.New(out, app)
	}

	return zerolog.New(out).
		Level(level).
		With().
		Timestamp().
		Str("service", cfg.ServiceName).
		Str("env", cfg.Environment).
		Logger()
}

// useConsole reports whether logs go through the human-readable console
// writer. An explicit format wins; otherwise only production logs JSON.
func useConsole(cfg *config.ObservabilityConfig) bool {
	switch cfg.Logging.Format {
	case "console":
		return true
	case "json":
		return false
	}
	return !cfg.IsProduction()
}

// NewPgxLogger builds the logger handed to pgx tracelog.
//
// It is a console logger on stderr tagged with component=database; SQL
// output is noisy and only wired in the local environment.
func NewPgxLogger(level zerolog.Level) zerolog.Logger {
	writer := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.Kitchen,
	}

	return zerolog.New(writer).
		Level(level).
		With().
		Timestamp().
		Str("component", "database").
		Logger()
}

// GetPgxTraceLogLevel maps a zerolog level onto the pgx tracelog level.
func GetPgxTraceLogLevel(level zerolog.Level) int {
	switch level {
	case zerolog.TraceLevel:
		return int(tracelog.LogLevelTrace)
	case zerolog.DebugLevel:
		return int(tracelog.LogLevelDebug)
	case zerolog.InfoLevel:
		return int(tracelog.LogLevelInfo)
	case zerolog.WarnLevel:
		return int(tracelog.LogLevelWarn)
	case zerolog.ErrorLevel, zerolog.FatalLevel, zerolog.PanicLevel:
		return int(tracelog.LogLevelError)
	case zerolog.Disabled:
		return int(tracelog.LogLevelNone)
	default:
		return int(tracelog.LogLevelInfo)
	}
}

// ParseLevel converts a config level into a zerolog level, defaulting to info.
func ParseLevel(level string) zerolog.Level {
	parsed, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		return zerolog.InfoLevel
	}
	return parsed
}
