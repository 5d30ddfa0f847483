package pacing

import (
	"context"
	"testing"
	"time"
)

func TestPacer_EnforcesMinIntervalPerProvider(t *testing.T) {
	t.Parallel()

	const gap = 80 * time.Millisecond
	pacer := NewPacer(gap, nil)
	ctx := context.Background()

	if err := pacer.AwaitTurn(ctx, "football-data"); err != nil {
		t.Fatalf("first turn should not block: %v", err)
	}

	started := time.Now()
	if err := pacer.AwaitTurn(ctx, "football-data"); err != nil {
		t.Fatalf("second turn failed: %v", err)
	}
	elapsed := time.Since(started)

	// Small tolerance for timer granularity.
	if elapsed < gap-10*time.Millisecond {
		t.Fatalf("consecutive turns only %v apart, want at least %v", elapsed, gap)
	}
}

func TestPacer_ProvidersDoNotBlockEachOther(t *testing.T) {
	t.Parallel()

	pacer := NewPacer(500*time.Millisecond, nil)
	ctx := context.Background()

	if err := pacer.AwaitTurn(ctx, "ai-model"); err != nil {
		t.Fatalf("first provider turn failed: %v", err)
	}

	started := time.Now()
	if err := pacer.AwaitTurn(ctx, "wiki"); err != nil {
		t.Fatalf("second provider turn failed: %v", err)
	}
	if elapsed := time.Since(started); elapsed > 100*time.Millisecond {
		t.Fatalf("distinct providers must not serialize, waited %v", elapsed)
	}
}

func TestPacer_PerProviderOverride(t *testing.T) {
	t.Parallel()

	pacer := NewPacer(time.Second, map[string]time.Duration{"wiki": 10 * time.Millisecond})
	if got := pacer.MinInterval("wiki"); got != 10*time.Millisecond {
		t.Fatalf("unexpected override interval: %v", got)
	}
	if got := pacer.MinInterval("ai-model"); got != time.Second {
		t.Fatalf("unexpected default interval: %v", got)
	}
}

func TestPacer_ContextCancellationUnblocks(t *testing.T) {
	t.Parallel()

	pacer := NewPacer(time.Minute, nil)
	ctx, cancel := context.WithCancel(context.Background())

	if err := pacer.AwaitTurn(ctx, "slow"); err != nil {
		t.Fatalf("first turn failed: %v", err)
	}

	done := make(chan error, 1)
	go func() { done <- pacer.AwaitTurn(ctx, "slow") }()
	cancel()

	select {
	case err := <-done:
		if err == nil {
			t.Fatalf("expected context error")
		}
	case <-time.After(time.Second):
		t.Fatalf("AwaitTurn did not honor cancellation")
	}
}
