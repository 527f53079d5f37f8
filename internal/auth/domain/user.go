package domain

import "time"

type User struct {
	ID           string
	Email        string
	Name         string
	PasswordHash string
	// LoginAttempts counts consecutive failed verifications since the last
	// success or the last lock. Mutated only through the repository's atomic
	// login-state operations.
	LoginAttempts int
	// LockedUntil is non-nil while a lock window is in effect. A lock in the
	// past lapses lazily on the next login attempt.
	LockedUntil *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type RefreshToken struct {
	ID        string
	UserID    string
	Token     string
	ExpiresAt time.Time
	CreatedAt time.Time
}
