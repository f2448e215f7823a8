package identity

import "errors"

var (
	// ErrInvalidCredentials signals wrong email or password.
	ErrInvalidCredentials = errors.New("identity: invalid credentials")
	// ErrDuplicateEmail signals that the email is already registered.
	ErrDuplicateEmail = errors.New("identity: email already registered")
	// ErrWeakPassword signals the password doesn't meet the minimum length.
	ErrWeakPassword = errors.New("identity: password must be at least 6 characters")
)

// MinPasswordLength is the shortest password the directory accepts.
const MinPasswordLength = 6

// Identity is an authenticated principal issued by the directory. It is
// independent of any profile record and carries no role; roles are derived
// from authority collections at session time.
type Identity struct {
	ID    string
	Email string
}
