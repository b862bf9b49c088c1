package commands

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func TestSpinnerLifecycle_StopWithSuccess(t *testing.T) {
	var buf bytes.Buffer
	s := newSpinner(&buf, "Thinking")
	s.start()
	// Let it spin briefly
	time.Sleep(100 * time.Millisecond)
	s.stopWithSuccess("done")

	if !strings.Contains(buf.String(), "done") {
		t.Errorf("expected success message, got %q", buf.String())
	}
}

func TestSpinnerLifecycle_StopWithError(t *testing.T) {
	var buf bytes.Buffer
	s := newSpinner(&buf, "Thinking")
	s.start()
	time.Sleep(30 * time.Millisecond)
	// Should stop cleanly on error (no panic)
	s.stopWithError()
	s.stopWithError()
}
