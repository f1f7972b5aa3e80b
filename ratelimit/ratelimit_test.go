package ratelimit

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/itbasis/go-clock"
)

func TestSixthCallWaitsForWindow(t *testing.T) {
	const window = 200 * time.Millisecond
	l := New(5, window, 5, time.Second, clock.New())

	ctx := context.Background()
	start := time.Now()
	for i := 0; i < 5; i++ {
		if err := l.WaitForRequest(ctx); err != nil {
			t.Fatalf("call %d failed: %v", i, err)
		}
	}
	if burst := time.Since(start); burst > window/2 {
		t.Fatalf("first 5 calls should not have been limited, took %v", burst)
	}

	// The 6th call must wait until the 1st timestamp ages out.
	if err := l.WaitForRequest(ctx); err != nil {
		t.Fatalf("6th call failed: %v", err)
	}
	if elapsed := time.Since(start); elapsed < window {
		t.Errorf("6th call returned after %v, expected at least %v", elapsed, window)
	}
}

// For any trailing window the number of recorded timestamps must never exceed
// maxRequests, even with concurrent callers.
func TestWindowInvariantUnderConcurrency(t *testing.T) {
	const (
		maxRequests = 5
		window      = 50 * time.Millisecond
	)
	l := New(maxRequests, window, 3, 10*time.Second, clock.New())

	var mu sync.Mutex
	granted := make([]time.Time, 0, 20)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := l.WaitForRequest(context.Background()); err != nil {
				t.Errorf("unexpected error: %v", err)
				return
			}
			mu.Lock()
			granted = append(granted, time.Now())
			mu.Unlock()
		}()
	}
	wg.Wait()

	if len(granted) != 20 {
		t.Fatalf("expected 20 grants, got %d", len(granted))
	}
	for i, start := range granted {
		count := 0
		for _, ts := range granted {
			d := ts.Sub(start)
			if d >= 0 && d < window {
				count++
			}
		}
		// Allow one extra grant for scheduling jitter between the limiter
		// recording a timestamp and the test observing time.Now().
		if count > maxRequests+1 {
			t.Errorf("grant %d: %d grants within one window, max is %d", i, count, maxRequests)
		}
	}
}

func TestCanMakeRequest(t *testing.T) {
	mock := clock.NewMock()
	l := New(2, time.Minute, 2, time.Second, mock)

	if !l.CanMakeRequest() {
		t.Error("expected CanMakeRequest to be true with an empty window")
	}

	ctx := context.Background()
	for i := 0; i < 2; i++ {
		if err := l.WaitForRequest(ctx); err != nil {
			t.Fatalf("call %d failed: %v", i, err)
		}
	}

	if l.CanMakeRequest() {
		t.Error("expected CanMakeRequest to be false with a full window")
	}
	// A read-only check must not change the answer.
	if l.CanMakeRequest() {
		t.Error("CanMakeRequest mutated state on a previous call")
	}

	mock.Add(time.Minute + time.Second)
	if !l.CanMakeRequest() {
		t.Error("expected CanMakeRequest to be true after the window passed")
	}
}

func TestGetStatus(t *testing.T) {
	mock := clock.NewMock()
	l := New(3, time.Minute, 3, time.Second, mock)

	s := l.GetStatus()
	if s.TotalRequests != 0 || s.RequestsRemaining != 3 || s.IsLimited {
		t.Errorf("unexpected empty status: %+v", s)
	}

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		if err := l.WaitForRequest(ctx); err != nil {
			t.Fatalf("call %d failed: %v", i, err)
		}
	}

	s = l.GetStatus()
	if s.TotalRequests != 3 {
		t.Errorf("expected 3 total requests, got %d", s.TotalRequests)
	}
	if s.RequestsRemaining != 0 {
		t.Errorf("expected 0 requests remaining, got %d", s.RequestsRemaining)
	}
	if !s.IsLimited {
		t.Error("expected the limiter to report limited")
	}
	if s.TimeUntilReset != time.Minute {
		t.Errorf("expected a full window until reset, got %v", s.TimeUntilReset)
	}

	mock.Add(20 * time.Second)
	s = l.GetStatus()
	if s.TimeUntilReset != 40*time.Second {
		t.Errorf("expected 40s until reset, got %v", s.TimeUntilReset)
	}
}

func TestReset(t *testing.T) {
	mock := clock.NewMock()
	l := New(1, time.Minute, 1, time.Second, mock)

	if err := l.WaitForRequest(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if l.CanMakeRequest() {
		t.Fatal("window should be full")
	}

	l.Reset()
	if !l.CanMakeRequest() {
		t.Error("expected the window to be clear after Reset")
	}
	if s := l.GetStatus(); s.TotalRequests != 0 {
		t.Errorf("expected 0 total requests after Reset, got %d", s.TotalRequests)
	}
}

func TestQueueTimeout(t *testing.T) {
	l := New(5, time.Minute, 1, 20*time.Millisecond, clock.New())

	// Occupy the only admission slot so the caller has to queue.
	l.slots <- struct{}{}

	err := l.WaitForRequest(context.Background())
	if !errors.Is(err, ErrQueueTimeout) {
		t.Errorf("expected ErrQueueTimeout, got: %v", err)
	}
}

func TestCancelledWhileWaitingForWindow(t *testing.T) {
	l := New(1, time.Minute, 1, time.Second, clock.New())

	if err := l.WaitForRequest(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	start := time.Now()
	err := l.WaitForRequest(ctx)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected context.DeadlineExceeded, got: %v", err)
	}
	if elapsed := time.Since(start); elapsed > 10*time.Second {
		t.Errorf("cancellation took too long: %v", elapsed)
	}
}
