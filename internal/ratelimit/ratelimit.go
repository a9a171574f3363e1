// Package ratelimit enforces the minimum interval between two successful
// submissions from the same client.
package ratelimit

import (
	"sync"
	"time"
)

// MinInterval is the minimum spacing between two successful submissions.
const MinInterval = 60 * time.Second

// Decision is the result of a rate-limit check.
type Decision struct {
	Allowed           bool
	RetryAfterSeconds int
}

// CheckAndRecord decides whether a submission at now is allowed given the
// time of the client's last successful submission. A zero lastSuccessAt
// means the client has never submitted.
func CheckAndRecord(lastSuccessAt, now time.Time) Decision {
	return check(lastSuccessAt, now, MinInterval)
}

func check(last, now time.Time, interval time.Duration) Decision {
	if last.IsZero() {
		return Decision{Allowed: true}
	}
	elapsed := now.Sub(last)
	if elapsed >= interval {
		return Decision{Allowed: true}
	}
	remaining := interval - elapsed
	secs := int((remaining + time.Second - 1) / time.Second)
	return Decision{Allowed: false, RetryAfterSeconds: secs}
}

// Limiter holds one client's last successful submission.
type Limiter struct {
	last time.Time
	now  func() time.Time
}

func NewLimiter() *Limiter {
	return &Limiter{now: time.Now}
}

// Check reports whether a submission is allowed right now. It does not
// change state.
func (l *Limiter) Check() Decision {
	return CheckAndRecord(l.last, l.now())
}

// Record marks a successful submission.
func (l *Limiter) Record() {
	l.last = l.now()
}

// LastSuccess returns the time of the last recorded submission, zero if none.
func (l *Limiter) LastSuccess() time.Time {
	return l.last
}

// Restore seeds the limiter from persisted state.
func (l *Limiter) Restore(last time.Time) {
	l.last = last
}

// Tracker applies the interval per key (the client token) on the server.
type Tracker struct {
	mu       sync.Mutex
	last     map[string]time.Time
	interval time.Duration
	now      func() time.Time
}

// NewTracker creates a Tracker. A non-positive interval uses MinInterval.
func NewTracker(interval time.Duration) *Tracker {
	if interval <= 0 {
		interval = MinInterval
	}
	return &Tracker{
		last:     make(map[string]time.Time),
		interval: interval,
		now:      time.Now,
	}
}

func (t *Tracker) Check(key string) Decision {
	t.mu.Lock()
	defer t.mu.Unlock()
	return check(t.last[key], t.now(), t.interval)
}

func (t *Tracker) Record(key string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.last[key] = t.now()
}

// Reserve checks key and, when allowed, claims the slot in the same critical
// section so concurrent callers with one key cannot both pass. The returned
// release gives the slot back; call it when the submission does not go
// through. release is a no-op when the check fails.
func (t *Tracker) Reserve(key string) (Decision, func()) {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	prev, had := t.last[key]
	d := check(prev, now, t.interval)
	if !d.Allowed {
		return d, func() {}
	}
	t.last[key] = now

	var once sync.Once
	release := func() {
		once.Do(func() {
			t.mu.Lock()
			defer t.mu.Unlock()
			if cur, ok := t.last[key]; !ok || !cur.Equal(now) {
				return
			}
			if had {
				t.last[key] = prev
			} else {
				delete(t.last, key)
			}
		})
	}
	return d, release
}

// Cleanup drops entries whose interval has already elapsed and returns how
// many were removed.
func (t *Tracker) Cleanup() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	removed := 0
	for k, last := range t.last {
		if now.Sub(last) >= t.interval {
			delete(t.last, k)
			removed++
		}
	}
	return removed
}

// Len returns the number of tracked clients.
func (t *Tracker) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.last)
}
