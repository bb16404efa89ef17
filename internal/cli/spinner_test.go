package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"
)

func TestSpinnerSilentWithoutTerminal(t *testing.T) {
	var buf bytes.Buffer
	s := newSpinner(context.Background(), &buf, "Generating 50x50 dungeon")
	if s.enabled {
		t.Fatal("spinner enabled for a buffer")
	}
	s.Start()
	time.Sleep(2 * spinnerInterval)
	s.Stop()

	if buf.Len() != 0 {
		t.Errorf("spinner wrote %q to a non-terminal", buf.String())
	}
	if s.Elapsed() <= 0 {
		t.Error("Elapsed() should be positive after Start")
	}
}

func TestSpinnerDrawsAndClears(t *testing.T) {
	var buf bytes.Buffer
	s := newSpinner(context.Background(), &buf, "Carving rooms")
	s.enabled = true
	s.Start()
	time.Sleep(2 * spinnerInterval)
	s.Stop()

	out := buf.String()
	if !strings.Contains(out, "Carving rooms") {
		t.Errorf("output %q missing message", out)
	}
	if !strings.HasSuffix(out, "\r") {
		t.Errorf("output %q should end by clearing the line", out)
	}
}

func TestSpinnerStopIsIdempotent(t *testing.T) {
	var buf bytes.Buffer
	s := newSpinner(context.Background(), &buf, "stop twice")
	s.enabled = true
	s.Start()
	s.Stop()
	s.Stop()
}

func TestSpinnerCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var buf bytes.Buffer
	s := newSpinner(ctx, &buf, "interrupted")
	s.enabled = true
	s.Start()
	cancel()
	s.Stop()

	if !s.Cancelled() {
		t.Error("Cancelled() = false after the parent context ended")
	}
}

func TestSpinnerStopNotCancelled(t *testing.T) {
	s := newSpinner(context.Background(), &bytes.Buffer{}, "done")
	s.Start()
	s.Stop()
	if s.Cancelled() {
		t.Error("Cancelled() = true after a plain Stop")
	}
}
