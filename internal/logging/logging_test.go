package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNew_WritesJSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "movieflix.log")

	logger, err := New(Options{Path: path, Verbose: true})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Debug("debug line")
	logger.Info("feed loaded")
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	out := string(data)
	if !strings.Contains(out, `"msg":"feed loaded"`) {
		t.Fatalf("log output = %q, want feed loaded entry", out)
	}
	if !strings.Contains(out, `"msg":"debug line"`) {
		t.Fatalf("log output = %q, want debug entry when verbose", out)
	}
}

func TestNew_InfoLevelDropsDebug(t *testing.T) {
	path := filepath.Join(t.TempDir(), "movieflix.log")

	logger, err := New(Options{Path: path})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Debug("hidden")
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if strings.Contains(string(data), "hidden") {
		t.Fatalf("debug entry written at info level: %q", data)
	}
}

func TestOrNop(t *testing.T) {
	if OrNop(nil) == nil {
		t.Fatalf("OrNop(nil) returned nil")
	}
}
