package retryx

import (
	"context"
	"errors"
	"testing"
	"time"
)

var errFlaky = errors.New("flaky")

func fastPolicy(maxAttempts int) Policy {
	p := NewPolicy(maxAttempts, nil)
	p.InitialInterval = time.Millisecond
	p.MaxInterval = 5 * time.Millisecond
	return p
}

func TestDoValueSucceedsFirstAttempt(t *testing.T) {
	p := fastPolicy(3)

	calls := 0
	result, err := DoValue(context.Background(), p, "test_op", func(ctx context.Context) (string, error) {
		calls++
		return "ok", nil
	})
	if err != nil {
		t.Fatalf("DoValue() error = %v", err)
	}
	if result != "ok" {
		t.Errorf("DoValue() result = %q, want %q", result, "ok")
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestDoValueRetriesUntilSuccess(t *testing.T) {
	p := fastPolicy(3)

	calls := 0
	result, err := DoValue(context.Background(), p, "test_op", func(ctx context.Context) (int, error) {
		calls++
		if calls < 3 {
			return 0, errFlaky
		}
		return 42, nil
	})
	if err != nil {
		t.Fatalf("DoValue() error = %v", err)
	}
	if result != 42 {
		t.Errorf("DoValue() result = %d, want 42", result)
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
}

func TestDoValueExhaustsAttempts(t *testing.T) {
	p := fastPolicy(3)

	calls := 0
	_, err := DoValue(context.Background(), p, "test_op", func(ctx context.Context) (int, error) {
		calls++
		return 0, errFlaky
	})
	if err == nil {
		t.Fatal("DoValue() expected error, got nil")
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
	if !errors.Is(err, errFlaky) {
		t.Errorf("DoValue() error = %v, want wrapped %v", err, errFlaky)
	}
}

func TestDoValueStopsOnNonRetryable(t *testing.T) {
	permanent := errors.New("bad request")

	p := fastPolicy(5)
	p.Retryable = func(err error) bool {
		return !errors.Is(err, permanent)
	}

	calls := 0
	_, err := DoValue(context.Background(), p, "test_op", func(ctx context.Context) (int, error) {
		calls++
		return 0, permanent
	})
	if !errors.Is(err, permanent) {
		t.Fatalf("DoValue() error = %v, want %v", err, permanent)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestDoValueHonorsContextCancellation(t *testing.T) {
	p := fastPolicy(5)
	p.InitialInterval = time.Minute // force a long wait so cancellation wins

	ctx, cancel := context.WithCancel(context.Background())

	calls := 0
	done := make(chan error, 1)
	go func() {
		_, err := DoValue(ctx, p, "test_op", func(ctx context.Context) (int, error) {
			calls++
			return 0, errFlaky
		})
		done <- err
	}()

	time.Sleep(10 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("DoValue() error = %v, want context.Canceled", err)
		}
	case <-time.After(time.Second):
		t.Fatal("DoValue() did not return after cancellation")
	}

	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestDoValueWaitForOverride(t *testing.T) {
	p := fastPolicy(3)

	var overrideUsed bool
	p.WaitFor = func(err error, attempt int) (time.Duration, bool) {
		overrideUsed = true
		return time.Millisecond, true
	}

	calls := 0
	_, err := DoValue(context.Background(), p, "test_op", func(ctx context.Context) (int, error) {
		calls++
		if calls < 2 {
			return 0, errFlaky
		}
		return 1, nil
	})
	if err != nil {
		t.Fatalf("DoValue() error = %v", err)
	}
	if !overrideUsed {
		t.Error("WaitFor override was not consulted")
	}
}

func TestDo(t *testing.T) {
	p := fastPolicy(2)

	calls := 0
	err := p.Do(context.Background(), "test_op", func(ctx context.Context) error {
		calls++
		if calls < 2 {
			return errFlaky
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Do() error = %v", err)
	}
	if calls != 2 {
		t.Errorf("calls = %d, want 2", calls)
	}
}
