package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Logger represents a structured logger
type Logger struct {
	logger zerolog.Logger
}

// Fields represents log fields
type Fields map[string]interface{}

var (
	// Default is the default logger instance
	Default *Logger

	// fallback serves callers that run before Init
	fallback     *Logger
	fallbackOnce sync.Once
)

// Init initializes the default logger. level is a zerolog level name; when
// empty, production logs at info and everything else at debug. Production
// writes JSON lines, other environments a console format.
func Init(level, environment string) {
	Default = New(os.Stdout, level, environment)

	Default.Debug().
		Str("level", Default.logger.GetLevel().String()).
		Str("environment", environment).
		Msg("Logger initialized")
}

// New builds a logger writing to out.
func New(out io.Writer, level, environment string) *Logger {
	zerolog.TimeFieldFormat = time.RFC3339

	if environment != "production" {
		out = zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: time.RFC3339,
		}
	}

	l := zerolog.New(out).Level(parseLevel(level, environment)).With().Timestamp().Logger()
	return &Logger{logger: l}
}

// parseLevel resolves the configured level
func parseLevel(levelStr, environment string) zerolog.Level {
	if strings.TrimSpace(levelStr) == "" {
		if environment == "production" {
			return zerolog.InfoLevel
		}
		return zerolog.DebugLevel
	}

	level, err := zerolog.ParseLevel(strings.ToLower(levelStr))
	if err != nil {
		return zerolog.InfoLevel
	}
	return level
}

// defaultLogger returns Default, or a logger configured from the environment
// when Init was never called.
func defaultLogger() *Logger {
	if l := Default; l != nil {
		return l
	}
	fallbackOnce.Do(func() {
		fallback = New(os.Stdout, os.Getenv("LOG_LEVEL"), os.Getenv("MPCONTACTS_ENVIRONMENT"))
	})
	return fallback
}

// WithFields creates a new logger with fields
func (l *Logger) WithFields(fields Fields) *Logger {
	newLogger := l.logger.With()
	for k, v := range fields {
		newLogger = newLogger.Interface(k, v)
	}
	return &Logger{logger: newLogger.Logger()}
}

// WithField creates a new logger with a single field
func (l *Logger) WithField(key string, value interface{}) *Logger {
	return &Logger{logger: l.logger.With().Interface(key, value).Logger()}
}

// WithError adds an error to the logger
func (l *Logger) WithError(err error) *Logger {
	return &Logger{logger: l.logger.With().Err(err).Logger()}
}

// Debug returns a debug event
func (l *Logger) Debug() *zerolog.Event {
	return l.logger.Debug()
}

// Info returns an info event
func (l *Logger) Info() *zerolog.Event {
	return l.logger.Info()
}

// Warn returns a warn event
func (l *Logger) Warn() *zerolog.Event {
	return l.logger.Warn()
}

// Error returns an error event
func (l *Logger) Error() *zerolog.Event {
	return l.logger.Error()
}

// Fatal returns a fatal event
func (l *Logger) Fatal() *zerolog.Event {
	return l.logger.Fatal()
}

// Debug logs a debug message
func Debug(format string, v ...interface{}) {
	defaultLogger().Debug().Msgf(format, v...)
}

// Info logs an info message
func Info(format string, v ...interface{}) {
	defaultLogger().Info().Msgf(format, v...)
}

// Warn logs a warning message
func Warn(format string, v ...interface{}) {
	defaultLogger().Warn().Msgf(format, v...)
}

// Error logs an error message
func Error(format string, v ...interface{}) {
	defaultLogger().Error().Msgf(format, v...)
}

// IsDebugEnabled returns true if debug logging is enabled
func IsDebugEnabled() bool {
	return defaultLogger().logger.GetLevel() <= zerolog.DebugLevel
}

// ForJurisdiction creates a logger for one site profile
func ForJurisdiction(id string) *Logger {
	return defaultLogger().WithField("jurisdiction", id)
}

// ForWorker creates a logger for the worker
func ForWorker() *Logger {
	return defaultLogger().WithField("component", "worker")
}

// ForPublisher creates a logger for a record publisher
func ForPublisher(name string) *Logger {
	return defaultLogger().WithFields(Fields{"component": "publisher", "publisher": name})
}

// ForCache creates a logger for the cache
func ForCache() *Logger {
	return defaultLogger().WithField("component", "cache")
}

// LogError is a convenience method for logging errors with context
func LogError(component string, err error, format string, v ...interface{}) {
	defaultLogger().Error().
		Str("component", component).
		Err(err).
		Msg(fmt.Sprintf(format, v...))
}
