package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNew_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, Options{})

	logger.Debug("hidden")
	logger.Info("shown", "key", "value")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Error("debug record should be filtered without Verbose")
	}

	var rec map[string]any
	if err := json.Unmarshal([]byte(strings.TrimSpace(out)), &rec); err != nil {
		t.Fatalf("output is not JSON: %v (%s)", err, out)
	}
	if rec["msg"] != "shown" || rec["key"] != "value" {
		t.Errorf("unexpected record: %v", rec)
	}
}

func TestNew_Verbose(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, Options{Verbose: true}).Debug("visible")

	if !strings.Contains(buf.String(), "visible") {
		t.Error("debug record should be written with Verbose")
	}
}

func TestNew_Mirror(t *testing.T) {
	var main, mirror bytes.Buffer
	logger := New(&main, Options{Mirror: &mirror}).With("component", "store")

	logger.Warn("persist failed")

	if !strings.Contains(main.String(), `"component":"store"`) {
		t.Errorf("main output missing attrs: %s", main.String())
	}
	if !strings.Contains(mirror.String(), "component=store") {
		t.Errorf("mirror output missing attrs: %s", mirror.String())
	}
}

func TestOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "evychat.log")

	logger, closer, err := Open(path, Options{})
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	logger.Info("hello")
	if err := closer.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if !strings.Contains(string(data), "hello") {
		t.Errorf("log file content = %s", data)
	}
}

func TestDiscard(t *testing.T) {
	// Must not panic
	Discard().Error("dropped")
	OrDiscard(nil).Info("dropped")

	l := Discard()
	if OrDiscard(l) != l {
		t.Error("OrDiscard should return a non-nil logger unchanged")
	}
}
