// Package logger builds the structured logger of the address book binaries.
package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Options select level, output and format of the logger.
type Options struct {
	Level  string
	File   string
	Format string
}

// level maps the level option to a slog level. An empty option means the slog default.
func level(option string) (slog.Leveler, bool) {
	switch strings.ToLower(option) {
	case "":
		return nil, true
	case "debug":
		return slog.LevelDebug, true
	case "info":
		return slog.LevelInfo, true
	case "warn":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	default:
		return nil, false
	}
}

// New builds a logger from the options. Options that cannot be used are replaced by their
// defaults, and the returned logger warns about them. The closer releases the log file, if one
// was opened; the logger must not be used after closing it.
func New(options Options) (*slog.Logger, io.Closer) {
	return newWithStdout(options, os.Stdout)
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

func newWithStdout(options Options, stdout io.Writer) (*slog.Logger, io.Closer) {
	lvl, ok := level(options.Level)
	if !ok {
		bad := options.Level
		options.Level = ""
		logger, closer := newWithStdout(options, stdout)
		logger.Warn("could not parse logger level", "level", bad)
		return logger, closer
	}
	opts := slog.HandlerOptions{Level: lvl}

	newHandler := func(w io.Writer) slog.Handler { return slog.NewTextHandler(w, &opts) }
	switch strings.ToLower(options.Format) {
	case "", "text":
	case "json":
		newHandler = func(w io.Writer) slog.Handler { return slog.NewJSONHandler(w, &opts) }
	default:
		bad := options.Format
		options.Format = "text"
		logger, closer := newWithStdout(options, stdout)
		logger.Warn("could not parse logger format", "format", bad)
		return logger, closer
	}

	switch options.File {
	case "", "-":
		return slog.New(newHandler(stdout)), nopCloser{}
	case os.DevNull:
		return slog.New(slog.DiscardHandler), nopCloser{}
	}
	file, err := os.OpenFile(options.File, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		options.File = ""
		logger, closer := newWithStdout(options, stdout)
		logger.Warn("could not open logger file", Err(err))
		return logger, closer
	}
	return slog.New(newHandler(file)), file
}

// Err returns the attribute under which errors are logged.
//
//	log.Error("failed to save address book", logger.Err(err))
func Err(err error) slog.Attr {
	return slog.String("error", err.Error())
}
