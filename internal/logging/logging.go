// Package logging installs the process-wide slog logger.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/theirongolddev/debtgauge/internal/config"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Mode selects logging defaults for the kind of process.
type Mode int

const (
	ModeCLI Mode = iota
	ModeDaemon
)

func (m Mode) String() string {
	if m == ModeDaemon {
		return "daemon"
	}
	return "cli"
}

// Init builds a logger from cfg, installs it as the slog default and returns
// a function that releases the underlying sink.
//
// CLI processes log to stderr unless a file is configured. The daemon always
// logs to a rotating file, falling back to defaultFile when cfg.File is empty.
func Init(cfg config.LogConfig, mode Mode, defaultFile string) (func() error, error) {
	logger, closeFn, err := New(cfg, mode, defaultFile)
	if err != nil {
		return nil, err
	}
	slog.SetDefault(logger)
	return closeFn, nil
}

// New builds a logger without installing it.
func New(cfg config.LogConfig, mode Mode, defaultFile string) (*slog.Logger, func() error, error) {
	path := strings.TrimSpace(cfg.File)
	if path == "" && mode == ModeDaemon {
		path = defaultFile
	}

	var (
		w       io.Writer = os.Stderr
		closeFn           = func() error { return nil }
	)
	if path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
			return nil, nil, fmt.Errorf("creating log dir: %w", err)
		}
		rot := &lumberjack.Logger{
			Filename:   path,
			MaxSize:    positive(cfg.MaxSizeMB, 20),
			MaxBackups: positive(cfg.MaxBackups, 5),
			MaxAge:     7,
			Compress:   true,
		}
		w = rot
		closeFn = rot.Close
	}

	opts := &slog.HandlerOptions{Level: ParseLevel(cfg.Level)}
	var handler slog.Handler
	switch strings.ToLower(cfg.Format) {
	case "json":
		handler = slog.NewJSONHandler(w, opts)
	case "text", "":
		handler = slog.NewTextHandler(w, opts)
	default:
		_ = closeFn()
		return nil, nil, fmt.Errorf("logging: unknown format %q", cfg.Format)
	}

	logger := slog.New(handler).With(slog.String("mode", mode.String()))
	return logger, closeFn, nil
}

// ParseLevel maps a level name to a slog level, defaulting to info.
func ParseLevel(value string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(value)) {
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

func positive(v, fallback int) int {
	if v <= 0 {
		return fallback
	}
	return v
}
