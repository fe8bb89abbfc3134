package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/QuincyMillerDev/cooliomusic/internal/services"
)

func instantPolicy(maxAttempts int) (Policy, *[]time.Duration) {
	delays := &[]time.Duration{}
	return Policy{
		MaxAttempts: maxAttempts,
		BaseDelay:   time.Second,
		MaxDelay:    10 * time.Second,
		Jitter:      func(d time.Duration) time.Duration { return d },
		Sleep: func(_ context.Context, d time.Duration) error {
			*delays = append(*delays, d)
			return nil
		},
	}, delays
}

func TestDoSucceedsAfterRetries(t *testing.T) {
	policy, delays := instantPolicy(5)
	calls := 0
	err := policy.Do(context.Background(), func(context.Context) error {
		calls++
		if calls < 3 {
			return errors.New("transient")
		}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if calls != 3 {
		t.Fatalf("expected 3 calls, got %d", calls)
	}
	want := []time.Duration{time.Second, 2 * time.Second}
	if len(*delays) != len(want) {
		t.Fatalf("expected delays %v, got %v", want, *delays)
	}
	for i := range want {
		if (*delays)[i] != want[i] {
			t.Fatalf("expected delays %v, got %v", want, *delays)
		}
	}
}

func TestDoExhaustsAttempts(t *testing.T) {
	policy, _ := instantPolicy(3)
	calls := 0
	failure := errors.New("still broken")
	err := policy.Do(context.Background(), func(context.Context) error {
		calls++
		return failure
	})
	if calls != 3 {
		t.Fatalf("expected 3 calls, got %d", calls)
	}
	if !errors.Is(err, failure) {
		t.Fatalf("expected wrapped last error, got %v", err)
	}
}

func TestDoStopsOnPermanent(t *testing.T) {
	policy, _ := instantPolicy(5)
	calls := 0
	inner := errors.New("bad request")
	err := policy.Do(context.Background(), func(context.Context) error {
		calls++
		return Permanent(inner)
	})
	if calls != 1 {
		t.Fatalf("expected 1 call, got %d", calls)
	}
	if !errors.Is(err, inner) {
		t.Fatalf("expected the underlying error, got %v", err)
	}
}

func TestDoStopsOnValidationError(t *testing.T) {
	policy, _ := instantPolicy(5)
	calls := 0
	err := policy.Do(context.Background(), func(context.Context) error {
		calls++
		return services.Wrap(services.ErrValidation, "providers", "generate", "empty prompt", nil)
	})
	if calls != 1 {
		t.Fatalf("validation failures must not retry, got %d calls", calls)
	}
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestDoHonorsContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	policy := Policy{
		MaxAttempts: 5,
		BaseDelay:   time.Second,
		Jitter:      func(d time.Duration) time.Duration { return d },
		Sleep: func(ctx context.Context, _ time.Duration) error {
			cancel()
			return ctx.Err()
		},
	}
	err := policy.Do(ctx, func(context.Context) error {
		return errors.New("transient")
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context cancellation, got %v", err)
	}
}

func TestDelayCapsAtMax(t *testing.T) {
	policy := Policy{BaseDelay: time.Second, MaxDelay: 3 * time.Second}
	if got := policy.delayFor(1); got != time.Second {
		t.Fatalf("attempt 1: got %v", got)
	}
	if got := policy.delayFor(2); got != 2*time.Second {
		t.Fatalf("attempt 2: got %v", got)
	}
	if got := policy.delayFor(5); got != 3*time.Second {
		t.Fatalf("attempt 5 should cap at max, got %v", got)
	}
}

func TestPermanentNil(t *testing.T) {
	if Permanent(nil) != nil {
		t.Fatal("Permanent(nil) should stay nil")
	}
}
