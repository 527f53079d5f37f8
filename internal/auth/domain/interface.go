package domain

import (
	"context"
	"time"
)

// UserRepository is the credential store contract. Implementations must make
// Create and the login-state mutations atomic: two concurrent registrations
// with one email yield exactly one row, and two concurrent failed logins
// never lose an increment.
type UserRepository interface {
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, userID string) (*User, error)
	Create(ctx context.Context, user *User) error

	// IncrementLoginAttempts adds one to the counter in a single
	// read-modify-write and returns the new value.
	IncrementLoginAttempts(ctx context.Context, userID string) (int, error)
	// LockUser sets the lock window and resets the counter to zero.
	LockUser(ctx context.Context, userID string, until time.Time) error
	// ResetLoginState clears the counter and any lock.
	ResetLoginState(ctx context.Context, userID string) error

	StoreRefreshToken(ctx context.Context, rt *RefreshToken) error
	GetRefreshToken(ctx context.Context, token string) (*RefreshToken, error)
	// DeleteRefreshToken removes the token; deleting an absent token is not
	// an error.
	DeleteRefreshToken(ctx context.Context, token string) error
}
