package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestInitCreatesLogFile(t *testing.T) {
	configDir := filepath.Join(t.TempDir(), "config")

	if err := Init(Config{ConfigDir: configDir}); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	if Logger == nil {
		t.Fatal("Logger is nil after initialization")
	}

	Info("remote mirror unavailable", "collection", "entries")
	Debug("not written at info level")

	data, err := os.ReadFile(filepath.Join(configDir, "logs", "curiosity.log"))
	if err != nil {
		t.Fatalf("log file was not written: %v", err)
	}
	if !strings.Contains(string(data), "remote mirror unavailable") {
		t.Errorf("expected info message in log file, got %q", string(data))
	}
	if strings.Contains(string(data), "not written at info level") {
		t.Error("debug message should be filtered in normal mode")
	}
}

func TestHelpersAreSafeWithoutInit(t *testing.T) {
	saved := Logger
	Logger = nil
	defer func() { Logger = saved }()

	Debug("debug")
	Info("info")
	Warn("warn")
	Error("error")
}
