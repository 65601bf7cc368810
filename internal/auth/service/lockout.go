package service

import (
	"sync"
	"time"

	"github.com/Damatnic/astral-planner-sub006/internal/auth/domain"
)

// Lockout policy constants. Fixed rather than per-account configurable,
// the directory is tiny and these exist purely to slow PIN guessing over
// a 10,000-value space.
const (
	LockoutThreshold = 5
	LockoutDuration  = 15 * time.Minute
)

// sweepSize is the map size past which RecordFailure sweeps stale
// entries. Unknown account ids burn attempts too, so an id-spraying
// client would otherwise grow the map without bound.
const sweepSize = 1024

// LockoutTracker keeps per-account failed-attempt counters and lockout
// expiry in memory. State lives for the life of the process only.
//
// Updates are serialized under one mutex so two racing failures can never
// read a stale count and under-count a threshold crossing. A global lock
// is fine at this directory size.
type LockoutTracker struct {
	mu     sync.Mutex
	states map[string]*lockoutEntry

	threshold uint
	duration  time.Duration
	sweepAt   int
	now       func() time.Time
}

// lockoutEntry pairs the account state with the time of its last failure
// so idle entries can be reclaimed.
type lockoutEntry struct {
	domain.LockoutState

	touched time.Time
}

func NewLockoutTracker() *LockoutTracker {
	return &LockoutTracker{
		states:    make(map[string]*lockoutEntry),
		threshold: LockoutThreshold,
		duration:  LockoutDuration,
		sweepAt:   sweepSize,
		now:       time.Now,
	}
}

// Threshold returns the failure count that triggers a lockout.
func (t *LockoutTracker) Threshold() uint { return t.threshold }

// CheckAllowed reports whether the account may attempt a login. When the
// account is locked it returns the remaining lockout duration.
func (t *LockoutTracker) CheckAllowed(accountID string) (bool, time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()

	s, ok := t.states[accountID]
	if !ok {
		return true, 0
	}

	now := t.now()
	if s.Locked(now) {
		return false, s.LockedUntil.Sub(now)
	}

	// Window elapsed, the account is open again. The stale counter is
	// cleared so the next failure starts a fresh count.
	if !s.LockedUntil.IsZero() {
		delete(t.states, accountID)
	}

	return true, 0
}

// RecordFailure atomically increments the failure count and returns the
// resulting snapshot. Reaching the threshold sets the lockout window once
// and pins the counter at the threshold until a success resets it.
func (t *LockoutTracker) RecordFailure(accountID string) domain.LockoutState {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	t.maybeSweep(now)

	s, ok := t.states[accountID]
	if !ok {
		s = &lockoutEntry{}
		t.states[accountID] = s
	}
	s.touched = now

	// A failure after an elapsed lockout window starts a fresh count.
	if s.Failures >= t.threshold && !s.Locked(now) {
		s.LockoutState = domain.LockoutState{}
	}

	if s.Failures < t.threshold {
		s.Failures++
		if s.Failures == t.threshold {
			s.LockedUntil = now.Add(t.duration)
		}
	}

	return s.LockoutState
}

// maybeSweep reclaims stale entries once the map has grown past the sweep
// size: anything not locked whose last failure is older than the lockout
// duration carries no information the next failure wouldn't reset anyway.
// Callers hold the mutex.
func (t *LockoutTracker) maybeSweep(now time.Time) {
	if len(t.states) < t.sweepAt {
		return
	}

	for id, s := range t.states {
		if !s.Locked(now) && now.Sub(s.touched) >= t.duration {
			delete(t.states, id)
		}
	}
}

// RecordSuccess atomically clears the account's failure state.
func (t *LockoutTracker) RecordSuccess(accountID string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	delete(t.states, accountID)
}

// Snapshot returns the current state without mutating it.
func (t *LockoutTracker) Snapshot(accountID string) domain.LockoutState {
	t.mu.Lock()
	defer t.mu.Unlock()

	if s, ok := t.states[accountID]; ok {
		return s.LockoutState
	}
	return domain.LockoutState{}
}
