package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Options configures a ZerologLogger.
type Options struct {
	// Level is a zerolog level name; empty means info.
	Level string
	// Console switches to the human readable console writer.
	Console bool
	// Out defaults to stdout.
	Out io.Writer
}

// ZerologLogger implements Logger using rs/zerolog.
type ZerologLogger struct {
	log zerolog.Logger
}

// NewZerologLogger creates a ZerologLogger using APP_ENV to pick the output
// format and LOG_LEVEL for the level. All logs include the component field.
func NewZerologLogger(component string) Logger {
	return NewWithOptions(component, Options{
		Level:   os.Getenv("LOG_LEVEL"),
		Console: strings.ToLower(os.Getenv("APP_ENV")) == "dev",
	})
}

// NewWithOptions creates a ZerologLogger from explicit options.
func NewWithOptions(component string, opts Options) *ZerologLogger {
	out := opts.Out
	if out == nil {
		out = os.Stdout
	}
	if opts.Console {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}
	level, err := zerolog.ParseLevel(strings.ToLower(opts.Level))
	if err != nil || opts.Level == "" {
		level = zerolog.InfoLevel
	}
	z := zerolog.New(out).Level(level).With().Timestamp().Str("component", component).Logger()
	return &ZerologLogger{log: z}
}

func (l *ZerologLogger) Debugf(format string, args ...any) {
	l.log.Debug().Msgf(format, args...)
}

func (l *ZerologLogger) Debugw(msg string, fields map[string]any) {
	l.log.Debug().Fields(fields).Msg(msg)
}

func (l *ZerologLogger) Infof(format string, args ...any) {
	l.log.Info().Msgf(format, args...)
}

func (l *ZerologLogger) Infow(msg string, fields map[string]any) {
	l.log.Info().Fields(fields).Msg(msg)
}

func (l *ZerologLogger) Warnf(format string, args ...any) {
	l.log.Warn().Msgf(format, args...)
}

func (l *ZerologLogger) Errorf(format string, args ...any) {
	l.log.Error().Msgf(format, args...)
}
