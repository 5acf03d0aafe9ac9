package auth

import "errors"

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrIncorrectPassword = errors.New("incorrect password")
	ErrAccountLocked     = errors.New("account locked")
)

// Message returns the text shown to the person at the login prompt.
func Message(err error) string {
	switch {
	case errors.Is(err, ErrAccountLocked):
		return "Account locked. Too many failed attempts."
	case errors.Is(err, ErrIncorrectPassword):
		return "Incorrect password"
	case errors.Is(err, ErrUserNotFound):
		return "User not found"
	case err == nil:
		return ""
	}
	return err.Error()
}
