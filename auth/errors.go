package auth

import "fmt"

const (
	minPasswordLength = 7
	maxPasswordBytes  = 72
)

type (
	MissingCredentials struct{}

	PasswordTooShort struct {
		Min int
	}

	UnknownUser struct {
		Username string
	}

	WrongPassword struct{}

	InvalidToken struct {
		cause error
	}

	CorruptedHash struct {
		cause error
	}
)

func (MissingCredentials) Error() string {
	return "username and password are required"
}

func (p PasswordTooShort) Error() string {
	return fmt.Sprintf("password must have at least %v characters", p.Min)
}

func (u UnknownUser) Error() string {
	return fmt.Sprintf("user %v is not registered", u.Username)
}

func (WrongPassword) Error() string {
	return "password does not match"
}

func (i InvalidToken) Error() string {
	if i.cause == nil {
		return "invalid token"
	}
	return fmt.Sprintf("invalid token, cause %v", i.cause)
}

func (i InvalidToken) Unwrap() error { return i.cause }

func (InvalidToken) Is(target error) bool {
	_, ok := target.(InvalidToken)
	return ok
}

func (c CorruptedHash) Error() string {
	return fmt.Sprintf("stored password hash is corrupted, cause %v", c.cause)
}

func (c CorruptedHash) Unwrap() error { return c.cause }

func (CorruptedHash) Is(target error) bool {
	_, ok := target.(CorruptedHash)
	return ok
}
