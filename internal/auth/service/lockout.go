package service

import "time"

// LockoutPolicy decides when repeated login failures lock an account and how
// long the lock holds. It is a pure value type; all persistence goes through
// the repository.
type LockoutPolicy struct {
	MaxAttempts  int
	LockDuration time.Duration
}

// ShouldLock reports whether the given consecutive failure count reaches the
// lock threshold.
func (p LockoutPolicy) ShouldLock(attempts int) bool {
	return attempts >= p.MaxAttempts
}

// LockUntil returns the end of a lock window starting at now.
func (p LockoutPolicy) LockUntil(now time.Time) time.Time {
	return now.Add(p.LockDuration)
}

// IsLocked reports whether a lock window is still in effect. An elapsed lock
// is simply ignored; it lapses lazily rather than being cleared by a timer.
func (p LockoutPolicy) IsLocked(lockedUntil *time.Time, now time.Time) bool {
	return lockedUntil != nil && lockedUntil.After(now)
}

// RemainingMinutes returns the time left on a lock, ceiling-rounded to whole
// minutes so the caller can tell the user when to retry.
func (p LockoutPolicy) RemainingMinutes(lockedUntil, now time.Time) int {
	remaining := lockedUntil.Sub(now)
	minutes := int((remaining + time.Minute - 1) / time.Minute)
	if minutes < 1 {
		minutes = 1
	}
	return minutes
}
