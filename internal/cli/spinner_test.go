package cli

import (
	"bytes"
	"context"
	"testing"
	"time"
)

func TestSpinnerSilentOffTerminal(t *testing.T) {
	var buf bytes.Buffer
	s := newSpinner(context.Background(), &buf, "Rendering...")
	s.Start()
	time.Sleep(2 * spinnerInterval)
	s.Stop()

	if buf.Len() != 0 {
		t.Errorf("spinner wrote %q to a non-terminal", buf.String())
	}
}

func TestSpinnerWithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	s := newSpinner(ctx, &bytes.Buffer{}, "Testing with context...")
	s.Start()
	cancel()

	if !s.Cancelled() {
		t.Error("spinner should be cancelled after context cancellation")
	}
	s.Stop()
	if s.Cancelled() {
		t.Error("a stopped spinner is not cancelled")
	}
}

func TestSpinnerWithTimeout(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	s := newSpinner(ctx, &bytes.Buffer{}, "Testing with timeout...")
	s.Start()
	<-ctx.Done()

	if !s.Cancelled() {
		t.Error("spinner should be cancelled after context timeout")
	}
}

func TestSpinnerStopIsIdempotent(t *testing.T) {
	s := newSpinner(context.Background(), &bytes.Buffer{}, "Testing idempotent stop...")
	s.Start()

	s.Stop()
	s.Stop()
	s.Stop()
}

func TestSpinnerStopWithoutStart(t *testing.T) {
	s := newSpinner(context.Background(), &bytes.Buffer{}, "never started")
	done := make(chan struct{})
	go func() {
		s.Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Stop blocked on a spinner that never started")
	}
}

func TestSpinnerHooks(t *testing.T) {
	s := newSpinner(context.Background(), &bytes.Buffer{}, "Rendering...")
	h := spinnerHooks{s: s}

	h.OnBuildStart(context.Background(), "json", 2048)
	if got, want := s.Message(), "Building graph from json (2.0 KiB)..."; got != want {
		t.Errorf("Message() = %q, want %q", got, want)
	}

	h.OnRenderStart(context.Background(), []string{"svg", "dot"})
	if got, want := s.Message(), "Rendering svg, dot..."; got != want {
		t.Errorf("Message() = %q, want %q", got, want)
	}
}

func TestHumanSize(t *testing.T) {
	tests := map[int]string{
		0:       "0 B",
		1023:    "1023 B",
		1536:    "1.5 KiB",
		5 << 20: "5.0 MiB",
	}
	for n, want := range tests {
		if got := humanSize(n); got != want {
			t.Errorf("humanSize(%d) = %q, want %q", n, got, want)
		}
	}
}
