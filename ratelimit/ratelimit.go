package ratelimit

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/itbasis/go-clock"
)

// ErrQueueTimeout is returned when a caller could not get through the
// admission gate within the configured queue timeout. It is distinct from
// context cancellation so callers can tell "still rate limited" apart from
// "give up, the system is shutting down".
var ErrQueueTimeout = errors.New("timed out waiting for rate limiter admission")

// Limiter throttles outbound ESPN requests with a sliding window. At most
// maxRequests timestamps may be recorded within any trailing timeWindow, and
// at most burstAllowance callers may be inside the admission gate at once.
type Limiter struct {
	maxRequests  int
	timeWindow   time.Duration
	queueTimeout time.Duration
	clock        clock.Clock

	// Counting admission gate. A caller holds a slot only while doing
	// bookkeeping, never while sleeping out the rate window.
	slots chan struct{}

	mu         sync.Mutex
	timestamps []time.Time // FIFO, oldest first
}

// Status is a point-in-time snapshot of the limiter. It is recomputed from
// the live timestamp queue on every call and never cached.
type Status struct {
	RequestsRemaining int           `json:"requestsRemaining"`
	TotalRequests     int           `json:"totalRequests"`
	WindowStart       time.Time     `json:"windowStart"`
	WindowEnd         time.Time     `json:"windowEnd"`
	TimeUntilReset    time.Duration `json:"timeUntilReset"`
	IsLimited         bool          `json:"isLimited"`
}

func New(maxRequests int, timeWindow time.Duration, burstAllowance int, queueTimeout time.Duration, clock clock.Clock) *Limiter {
	if burstAllowance <= 0 {
		burstAllowance = maxRequests
	}
	return &Limiter{
		maxRequests:  maxRequests,
		timeWindow:   timeWindow,
		queueTimeout: queueTimeout,
		clock:        clock,
		slots:        make(chan struct{}, burstAllowance),
		timestamps:   make([]time.Time, 0, maxRequests),
	}
}

// WaitForRequest blocks until a request slot is available, recording the
// request timestamp on success. It returns ErrQueueTimeout if the admission
// gate could not be acquired in time, or the context error if ctx is
// cancelled while waiting.
func (l *Limiter) WaitForRequest(ctx context.Context) error {
	if err := l.acquire(ctx); err != nil {
		return err
	}

	for {
		wait := l.tryRecord()
		if wait <= 0 {
			l.release()
			return nil
		}

		// The window is full. Release the admission slot while sleeping so
		// other callers aren't serialized behind us, then re-acquire once the
		// oldest timestamp has aged out. Collapsing this into a single held
		// slot would make every sleeper block the whole gate.
		l.release()
		if err := l.sleep(ctx, wait); err != nil {
			return err
		}
		if err := l.acquire(ctx); err != nil {
			return err
		}
	}
}

// CanMakeRequest reports whether a request would currently be admitted by the
// sliding window. It never mutates the timestamp queue and says nothing about
// the admission gate.
func (l *Limiter) CanMakeRequest() bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := l.clock.Now().Add(-l.timeWindow)
	active := 0
	for _, ts := range l.timestamps {
		if ts.After(cutoff) {
			active++
		}
	}
	return active < l.maxRequests
}

// GetStatus returns a snapshot of the current window.
func (l *Limiter) GetStatus() Status {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.clock.Now()
	cutoff := now.Add(-l.timeWindow)

	var oldest time.Time
	active := 0
	for _, ts := range l.timestamps {
		if ts.After(cutoff) {
			if active == 0 {
				oldest = ts
			}
			active++
		}
	}

	s := Status{
		TotalRequests:     active,
		RequestsRemaining: l.maxRequests - active,
		WindowStart:       now,
		WindowEnd:         now.Add(l.timeWindow),
		IsLimited:         active >= l.maxRequests,
	}
	if s.RequestsRemaining < 0 {
		s.RequestsRemaining = 0
	}
	if active > 0 {
		s.WindowStart = oldest
		s.WindowEnd = oldest.Add(l.timeWindow)
		if s.IsLimited {
			s.TimeUntilReset = s.WindowEnd.Sub(now)
			if s.TimeUntilReset < 0 {
				s.TimeUntilReset = 0
			}
		}
	}
	return s
}

// Reset clears the sliding window. It is an administrative operation and is
// not used while requests are in flight.
func (l *Limiter) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.timestamps = l.timestamps[:0]
}

func (l *Limiter) acquire(ctx context.Context) error {
	select {
	case l.slots <- struct{}{}:
		return nil
	default:
	}

	timeout := l.clock.Timer(l.queueTimeout)
	defer timeout.Stop()

	select {
	case l.slots <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-timeout.C:
		return ErrQueueTimeout
	}
}

func (l *Limiter) release() {
	<-l.slots
}

func (l *Limiter) sleep(ctx context.Context, d time.Duration) error {
	t := l.clock.Timer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// tryRecord purges timestamps that have aged out of the window and, if room
// remains, records the current time and returns 0. Otherwise it returns how
// long until the oldest timestamp leaves the window.
func (l *Limiter) tryRecord() time.Duration {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.clock.Now()
	l.purge(now)

	if len(l.timestamps) < l.maxRequests {
		l.timestamps = append(l.timestamps, now)
		return 0
	}
	return l.timeWindow - now.Sub(l.timestamps[0])
}

// purge drops every timestamp at least timeWindow old. Callers must hold mu.
func (l *Limiter) purge(now time.Time) {
	cutoff := now.Add(-l.timeWindow)
	i := 0
	for i < len(l.timestamps) && !l.timestamps[i].After(cutoff) {
		i++
	}
	if i > 0 {
		l.timestamps = append(l.timestamps[:0], l.timestamps[i:]...)
	}
}
