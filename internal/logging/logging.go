// Package logging builds the process-wide slog logger.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Options selects the log level and an optional rotating JSON log file.
type Options struct {
	Level      string
	FilePath   string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// ParseLevel maps a level name to a slog level, defaulting to info.
func ParseLevel(name string) slog.Level {
	switch strings.ToLower(name) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

// New returns a logger writing text to stdout and, when FilePath is set,
// JSON to a size-rotated file. The returned closer releases the file.
func New(stdout io.Writer, opts Options) (*slog.Logger, io.Closer) {
	handlerOpts := &slog.HandlerOptions{Level: ParseLevel(opts.Level)}
	text := slog.NewTextHandler(stdout, handlerOpts)

	if opts.FilePath == "" {
		return slog.New(text), nopCloser{}
	}

	file := &lumberjack.Logger{
		Filename:   opts.FilePath,
		MaxSize:    withDefault(opts.MaxSizeMB, 100),
		MaxBackups: withDefault(opts.MaxBackups, 5),
		MaxAge:     withDefault(opts.MaxAgeDays, 30),
		Compress:   true,
	}
	return slog.New(slog.NewMultiHandler(text, slog.NewJSONHandler(file, handlerOpts))), file
}

// Setup builds the logger for stdout and installs it as the default.
func Setup(opts Options) io.Closer {
	logger, closer := New(os.Stdout, opts)
	slog.SetDefault(logger)
	return closer
}

func withDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
