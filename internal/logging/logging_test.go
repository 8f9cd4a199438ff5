package logging

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/theirongolddev/debtgauge/internal/config"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		" WARN ":  slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestNew_UnknownFormat(t *testing.T) {
	if _, _, err := New(config.LogConfig{Format: "xml"}, ModeCLI, ""); err == nil {
		t.Fatal("expected error for unknown format")
	}
}

func TestNew_DaemonWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "daemon.log")
	logger, closeFn, err := New(config.LogConfig{Level: "info", Format: "json"}, ModeDaemon, path)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	logger.Info("polled", "accounts", 3)
	if err := closeFn(); err != nil {
		t.Fatalf("close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	out := string(data)
	if !strings.Contains(out, `"msg":"polled"`) || !strings.Contains(out, `"mode":"daemon"`) {
		t.Errorf("log output = %s", out)
	}
}
