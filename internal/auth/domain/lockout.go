package domain

import "time"

// LockoutState is a point-in-time snapshot of an account's failed-attempt
// tracking. The zero value means no recorded failures and no lockout.
type LockoutState struct {
	Failures    uint
	LockedUntil time.Time
}

// Locked reports whether the account is still inside its lockout window
// at the given time.
func (s LockoutState) Locked(now time.Time) bool {
	return !s.LockedUntil.IsZero() && now.Before(s.LockedUntil)
}
