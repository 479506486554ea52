package logger

import (
	"context"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

type ctxKey struct{}

type implLogger struct {
	logger zerolog.Logger
	level  zerolog.Level
}

// New creates a new Logger instance writing to stdout.
// format "text" selects the human-readable console writer, anything else emits JSON.
func New(level, format string) Logger {
	return NewWithWriter(os.Stdout, level, format)
}

// NewWithWriter creates a Logger writing to w.
func NewWithWriter(w io.Writer, level, format string) Logger {
	lvl := parseLevel(level)

	out := w
	if strings.EqualFold(format, "text") {
		out = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}

	return &implLogger{
		logger: zerolog.New(out).Level(lvl).With().Timestamp().Logger(),
		level:  lvl,
	}
}

// Nop returns a Logger that discards everything.
func Nop() Logger {
	return &implLogger{logger: zerolog.Nop(), level: zerolog.Disabled}
}

// WithJobID returns a context whose log lines carry the job id.
func WithJobID(ctx context.Context, jobID string) context.Context {
	return context.WithValue(ctx, ctxKey{}, jobID)
}

// JobID extracts the job id stored by WithJobID.
func JobID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxKey{}).(string); ok {
		return v
	}
	return ""
}

func parseLevel(level string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || level == "" {
		return zerolog.InfoLevel // default to info
	}
	return lvl
}

func (l *implLogger) shouldLog(level zerolog.Level) bool {
	return level >= l.level
}

func (l *implLogger) event(ctx context.Context, e *zerolog.Event) *zerolog.Event {
	if id := JobID(ctx); id != "" {
		e = e.Str("job_id", id)
	}
	return e
}

func (l *implLogger) Debug(ctx context.Context, msg string, args ...interface{}) {
	if l.shouldLog(zerolog.DebugLevel) {
		l.event(ctx, l.logger.Debug()).Msgf(msg, args...)
	}
}

func (l *implLogger) Info(ctx context.Context, msg string, args ...interface{}) {
	if l.shouldLog(zerolog.InfoLevel) {
		l.event(ctx, l.logger.Info()).Msgf(msg, args...)
	}
}

func (l *implLogger) Warn(ctx context.Context, msg string, args ...interface{}) {
	if l.shouldLog(zerolog.WarnLevel) {
		l.event(ctx, l.logger.Warn()).Msgf(msg, args...)
	}
}

func (l *implLogger) Error(ctx context.Context, msg string, args ...interface{}) {
	if l.shouldLog(zerolog.ErrorLevel) {
		l.event(ctx, l.logger.Error()).Msgf(msg, args...)
	}
}
