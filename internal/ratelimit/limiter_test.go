package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/MrSnakeDoc/bang/internal/domain"
)

func TestTrackDelayAccumulation(t *testing.T) {
	l := New(Config{
		FreeSearches:   3,
		DelayIncrement: 5 * time.Second,
		MaxDelay:       12 * time.Second,
		WarnEvery:      10,
	})
	state := &domain.SessionState{}

	// Within the free allowance: no delay.
	for i := 0; i < 3; i++ {
		l.Track(state)
	}
	if state.SearchCount != 3 {
		t.Fatalf("SearchCount = %d, want 3", state.SearchCount)
	}
	if state.CumulativeDelay != 0 {
		t.Fatalf("CumulativeDelay = %v, want 0", state.CumulativeDelay)
	}

	// Past the allowance: monotonic fixed increments.
	l.Track(state)
	if state.CumulativeDelay != 5*time.Second {
		t.Errorf("CumulativeDelay = %v, want 5s", state.CumulativeDelay)
	}
	l.Track(state)
	if state.CumulativeDelay != 10*time.Second {
		t.Errorf("CumulativeDelay = %v, want 10s", state.CumulativeDelay)
	}

	// Capped at the configured maximum.
	l.Track(state)
	l.Track(state)
	if state.CumulativeDelay != 12*time.Second {
		t.Errorf("CumulativeDelay = %v, want cap 12s", state.CumulativeDelay)
	}
}

func TestWarningEveryTenth(t *testing.T) {
	l := New(DefaultConfig())

	for count := 1; count <= 120; count++ {
		warning := l.WarningFor(count)
		if count%10 == 0 && warning == "" {
			t.Errorf("count %d: expected a warning", count)
		}
		if count%10 != 0 && warning != "" {
			t.Errorf("count %d: unexpected warning %q", count, warning)
		}
	}

	// The message changes once the limit has been exceeded.
	before := l.WarningFor(60)
	after := l.WarningFor(70)
	if before == "" || after == "" || before == after {
		t.Errorf("warnings should differ across the limit: %q vs %q", before, after)
	}
}

func TestWaitZeroDelayReturnsImmediately(t *testing.T) {
	l := New(DefaultConfig())
	state := &domain.SessionState{}

	done := make(chan struct{})
	go func() {
		l.Wait(context.Background(), state)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Wait blocked with zero delay")
	}
}
