package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestInitAndLog(t *testing.T) {
	Reset()
	defer Reset()

	path := filepath.Join(t.TempDir(), "test.log")
	if err := Init(path); err != nil {
		t.Fatalf("Init() error = %v", err)
	}

	Info("hello %s", "world")
	Close()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading log file: %v", err)
	}
	if !strings.Contains(string(data), "hello world") {
		t.Errorf("log file missing message, got: %s", data)
	}
}

func TestInit_Idempotent(t *testing.T) {
	Reset()
	defer Reset()

	path := filepath.Join(t.TempDir(), "test.log")
	if err := Init(path); err != nil {
		t.Fatalf("first Init() error = %v", err)
	}
	if err := Init(filepath.Join(t.TempDir(), "other.log")); err != nil {
		t.Errorf("second Init() error = %v", err)
	}
}

func TestDebugLevelFiltering(t *testing.T) {
	Reset()
	defer Reset()

	path := filepath.Join(t.TempDir(), "test.log")
	if err := Init(path); err != nil {
		t.Fatalf("Init() error = %v", err)
	}

	SetDebug(false)
	Debug("should not appear")
	SetDebug(true)
	Debug("should appear")
	Close()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading log file: %v", err)
	}
	if strings.Contains(string(data), "should not appear") {
		t.Error("debug message logged while debug disabled")
	}
	if !strings.Contains(string(data), "should appear") {
		t.Error("debug message missing while debug enabled")
	}
}

func TestComponentLogger(t *testing.T) {
	Reset()
	defer Reset()

	path := filepath.Join(t.TempDir(), "test.log")
	if err := Init(path); err != nil {
		t.Fatalf("Init() error = %v", err)
	}

	ComponentLogger("feed").Info("older page merged", "count", 10)
	Close()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading log file: %v", err)
	}
	if !strings.Contains(string(data), "component=feed") {
		t.Errorf("log line missing component attribute, got: %s", data)
	}
}
