package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
)

func TestNewSessionLogger_WritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "guide_creation_test.log")

	logger, err := NewSessionLogger(path, false)
	if err != nil {
		t.Fatalf("NewSessionLogger: %v", err)
	}
	logger.Info("outline created", zap.Int("sections", 4))
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !strings.Contains(string(data), "outline created") {
		t.Errorf("log file missing record:\n%s", data)
	}
}

func TestNewSessionLogger_VerboseEnablesDebug(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.log")

	logger, err := NewSessionLogger(path, true)
	if err != nil {
		t.Fatalf("NewSessionLogger: %v", err)
	}
	logger.Debug("prompt assembled")
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !strings.Contains(string(data), "prompt assembled") {
		t.Errorf("debug record missing at verbose level:\n%s", data)
	}
}

func TestNewFileLogger_DoesNotRequireStderr(t *testing.T) {
	path := filepath.Join(t.TempDir(), "monitor.log")

	logger, err := NewFileLogger(path)
	if err != nil {
		t.Fatalf("NewFileLogger: %v", err)
	}
	logger.Info("watching output directory")
	_ = logger.Sync()

	if _, err := os.Stat(path); err != nil {
		t.Errorf("log file not created: %v", err)
	}
}
