package poller

import (
	"context"
	"errors"
	"testing"
	"time"
)

func fastPoller(maxAttempts int) *Poller {
	return &Poller{
		Interval:       time.Millisecond,
		MaxAttempts:    maxAttempts,
		MaxConsecutive: DefaultMaxConsecutive,
	}
}

func TestWaitDone(t *testing.T) {
	calls := 0
	outcome, status, err := fastPoller(100).Wait(context.Background(), func(ctx context.Context) (Status, error) {
		calls++
		if calls < 3 {
			return Status{Progress: calls * 30}, nil
		}
		return Status{Done: true, Progress: 100}, nil
	})
	if err != nil {
		t.Fatalf("Wait: %v", err)
	}
	if outcome != OutcomeDone {
		t.Errorf("outcome = %v, want done", outcome)
	}
	if status.Progress != 100 {
		t.Errorf("progress = %d", status.Progress)
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
}

func TestWaitJobFailed(t *testing.T) {
	outcome, _, err := fastPoller(100).Wait(context.Background(), func(ctx context.Context) (Status, error) {
		return Status{Failed: true}, nil
	})
	if err != nil {
		t.Fatalf("Wait: %v", err)
	}
	if outcome != OutcomeFailed {
		t.Errorf("outcome = %v, want failed", outcome)
	}
}

func TestWaitTimeout(t *testing.T) {
	p := fastPoller(10)
	calls := 0
	start := time.Now()
	outcome, _, err := p.Wait(context.Background(), func(ctx context.Context) (Status, error) {
		calls++
		return Status{Progress: 50}, nil
	})
	elapsed := time.Since(start)
	if err != nil {
		t.Fatalf("Wait: %v", err)
	}
	if outcome != OutcomeTimeout {
		t.Errorf("outcome = %v, want timeout", outcome)
	}
	if calls != 10 {
		t.Errorf("calls = %d, attempt cap must be honored", calls)
	}
	// a full run waits one interval per attempt, never less
	if floor := time.Duration(p.MaxAttempts) * p.Interval; elapsed < floor {
		t.Errorf("timeout after %v, want at least %v", elapsed, floor)
	}
}

func TestWaitConnectionLost(t *testing.T) {
	boom := errors.New("connection refused")
	calls := 0
	outcome, _, err := fastPoller(100).Wait(context.Background(), func(ctx context.Context) (Status, error) {
		calls++
		return Status{}, boom
	})
	if outcome != OutcomeConnectionLost {
		t.Errorf("outcome = %v, want connection lost", outcome)
	}
	if !errors.Is(err, boom) {
		t.Errorf("err = %v", err)
	}
	// the error cap trips long before the attempt cap
	if calls != DefaultMaxConsecutive {
		t.Errorf("calls = %d, want %d", calls, DefaultMaxConsecutive)
	}
}

func TestWaitErrorStreakResets(t *testing.T) {
	calls := 0
	outcome, _, err := fastPoller(100).Wait(context.Background(), func(ctx context.Context) (Status, error) {
		calls++
		// errors alternate with good reads, so the streak never reaches the cap
		if calls%2 == 1 && calls < 12 {
			return Status{}, errors.New("transient")
		}
		if calls >= 12 {
			return Status{Done: true}, nil
		}
		return Status{Progress: calls}, nil
	})
	if err != nil {
		t.Fatalf("Wait: %v", err)
	}
	if outcome != OutcomeDone {
		t.Errorf("outcome = %v, want done after transient errors", outcome)
	}
}
