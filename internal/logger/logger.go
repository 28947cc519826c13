package logger

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

var (
	defaultLogger zerolog.Logger
	mu            sync.RWMutex
	once          sync.Once
)

// Init initializes the default logger with a JSON writer on os.Stderr.
// It ensures that the logger is initialized only once; Configure may replace it later.
func Init() {
	once.Do(func() {
		mu.Lock()
		defaultLogger = zerolog.New(os.Stderr).Level(zerolog.InfoLevel).With().Timestamp().Logger()
		mu.Unlock()
	})
}

// Configure replaces the default logger. format is "json" or "console";
// level is any zerolog level name and falls back to info.
func Configure(level, format string, w io.Writer) {
	Init()
	if w == nil {
		w = os.Stderr
	}

	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}

	out := w
	if strings.EqualFold(format, "console") || strings.EqualFold(format, "text") {
		out = zerolog.ConsoleWriter{Out: w, TimeFormat: time.TimeOnly}
	}

	mu.Lock()
	defaultLogger = zerolog.New(out).Level(lvl).With().Timestamp().Logger()
	mu.Unlock()
}

// Get returns the initialized default logger.
func Get() *zerolog.Logger {
	Init()
	mu.RLock()
	defer mu.RUnlock()
	l := defaultLogger
	return &l
}

// Info logs an informational message with optional key-value pairs.
func Info(msg string, args ...any) {
	withFields(Get().Info(), args).Msg(msg)
}

// Warn logs a warning message with optional key-value pairs.
func Warn(msg string, args ...any) {
	withFields(Get().Warn(), args).Msg(msg)
}

// Error logs an error message. err may be nil.
func Error(msg string, err error, args ...any) {
	e := Get().Error()
	if err != nil {
		e = e.Err(err)
	}
	withFields(e, args).Msg(msg)
}

// Debug logs a debug message with optional key-value pairs.
func Debug(msg string, args ...any) {
	withFields(Get().Debug(), args).Msg(msg)
}

// withFields attaches alternating key/value pairs. A trailing key without a
// value is recorded under "!BADKEY", matching slog's behaviour.
func withFields(e *zerolog.Event, args []any) *zerolog.Event {
	if len(args) == 0 {
		return e
	}
	if len(args)%2 != 0 {
		args = append(args[:len(args)-1:len(args)-1], "!BADKEY", args[len(args)-1])
	}
	return e.Fields(args)
}
