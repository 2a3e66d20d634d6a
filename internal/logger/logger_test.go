package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func readLog(t *testing.T, configDir string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(configDir, "logs", "habitree.log"))
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}
	return string(data)
}

func TestInit(t *testing.T) {
	configDir := filepath.Join(t.TempDir(), "config")

	if err := Init(Config{ConfigDir: configDir}); err != nil {
		t.Fatalf("Failed to initialize logger: %v", err)
	}
	if Logger == nil {
		t.Fatal("Logger is nil after initialization")
	}

	Info("chain management updated habits")
	Warn("cache mirror failed", "habit", "water-1")

	got := readLog(t, configDir)
	if !strings.Contains(got, "cache mirror failed") {
		t.Errorf("log file missing warning, got %q", got)
	}
	if strings.Contains(got, "chain management updated habits") {
		t.Errorf("info record written at the default warn level: %q", got)
	}
}

func TestInitLevel(t *testing.T) {
	configDir := filepath.Join(t.TempDir(), "config")

	if err := Init(Config{Level: "info", ConfigDir: configDir}); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	Info("chain management updated habits", "count", 2)
	Debug("version conflict, retrying")

	got := readLog(t, configDir)
	if !strings.Contains(got, "chain management updated habits") {
		t.Errorf("expected info record, got %q", got)
	}
	if strings.Contains(got, "version conflict") {
		t.Errorf("debug record written at info level: %q", got)
	}
}

func TestInitInvalidLevel(t *testing.T) {
	if err := Init(Config{Level: "loud", ConfigDir: t.TempDir()}); err == nil {
		t.Error("expected error for unknown level")
	}
}

func TestWith(t *testing.T) {
	configDir := filepath.Join(t.TempDir(), "config")
	if err := Init(Config{ConfigDir: configDir}); err != nil {
		t.Fatalf("Init failed: %v", err)
	}

	With("habit", "water-1").Warn("save retried")
	if got := readLog(t, configDir); !strings.Contains(got, "habit=water-1") {
		t.Errorf("expected scoped field in %q", got)
	}
}

func TestLogFunctionsWithoutInit(t *testing.T) {
	Logger = nil

	// These should not panic when Logger is nil
	Debug("Test debug message")
	Info("Test info message")
	Warn("Test warning message")
	Error("Test error message")
	With("habit", "h1").Error("discarded")
}
