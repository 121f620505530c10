// Package logging configures the process-wide slog logger.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-colorable"
	slogmulti "github.com/samber/slog-multi"
)

var Levels = []string{"debug", "info", "warn", "error"}

func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("invalid log level %q (want one of %s)", s, strings.Join(Levels, ", "))
}

// NewHandler returns a colored console handler on console, fanned out to a
// JSON handler on file when file is not nil.
func NewHandler(console io.Writer, file io.Writer, level slog.Level) slog.Handler {
	h := tint.NewHandler(console, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			// errors in red
			if a.Value.Kind() == slog.KindAny {
				if _, ok := a.Value.Any().(error); ok {
					return tint.Attr(9, a)
				}
			}
			return a
		},
	})
	if file == nil {
		return h
	}
	return slogmulti.Fanout(h, slog.NewJSONHandler(file, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// Setup installs the default logger. The returned func closes the log file.
func Setup(level, logFile string) (func() error, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}
	var file *os.File
	closeFn := func() error { return nil }
	if logFile != "" {
		file, err = os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("opening log file: %w", err)
		}
		closeFn = file.Close
	}
	var fileWriter io.Writer
	if file != nil {
		fileWriter = file
	}
	slog.SetDefault(slog.New(NewHandler(colorable.NewColorableStderr(), fileWriter, lvl)))
	return closeFn, nil
}
