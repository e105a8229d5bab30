// Package logging builds the process-wide slog logger.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/SscSPs/cancha_booking_app/internal/platform/config"
	"gopkg.in/natefinch/lumberjack.v2"
)

// New returns a JSON logger writing to stdout and, when LOG_FILE is set, to a
// rotating file as well. The returned closer flushes the file writer.
func New(cfg *config.Config) (*slog.Logger, io.Closer) {
	var writers []io.Writer
	writers = append(writers, os.Stdout)

	var closer io.Closer = nopCloser{}
	if cfg.LogFile != "" {
		file := &lumberjack.Logger{
			Filename:   cfg.LogFile,
			MaxSize:    cfg.LogMaxSizeMB,
			MaxBackups: cfg.LogMaxBackups,
			MaxAge:     cfg.LogMaxAgeDays,
			Compress:   true,
		}
		writers = append(writers, file)
		closer = file
	}

	h := slog.NewJSONHandler(io.MultiWriter(writers...), &slog.HandlerOptions{
		Level:     ParseLevel(cfg.LogLevel),
		AddSource: !cfg.IsProduction,
	})
	return slog.New(h).With(slog.String("service", "cancha_backend")), closer
}

// ParseLevel maps debug/warn/error to slog levels. Anything else is info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
