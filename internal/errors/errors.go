package errors

import (
	"errors"
	"fmt"
)

var (
	ErrEmailAlreadyInUse            = errors.New("email already in use")
	ErrInvalidCredentials           = errors.New("invalid credentials")
	ErrInvalidOrExpiredRefreshToken = errors.New("invalid or expired refresh token")
	ErrInvalidToken                 = errors.New("invalid token")
	ErrStoreUnavailable             = errors.New("credential store unavailable")
)

// AccountLockedError is returned when a login is refused because the account
// is inside a lock window. RemainingMinutes is ceiling-rounded so callers can
// surface an actionable retry hint.
type AccountLockedError struct {
	RemainingMinutes int
}

func (e *AccountLockedError) Error() string {
	return fmt.Sprintf("account locked, try again in %d minutes", e.RemainingMinutes)
}
