package auth

import (
	"context"
	"errors"
	"unicode/utf16"

	"github.com/andrebq/blogd/store"
)

type (
	// Credentials is the subset of the store used by Register and Login.
	Credentials interface {
		FindUser(ctx context.Context, username string) (store.User, error)
		CreateUser(ctx context.Context, username, passwordHash string) (int64, error)
	}
)

// Register creates a new user with a hashed password.
//
// An existing username is reported as store.UsernameTaken before the
// password length is checked. Two concurrent registrations for the same
// username are settled by the store, the loser also gets
// store.UsernameTaken.
func Register(ctx context.Context, users Credentials, hasher Hasher, user, passwd PlainText) (int64, error) {
	if len(user) == 0 || len(passwd) == 0 {
		return 0, MissingCredentials{}
	}
	username := string(user)
	_, err := users.FindUser(ctx, username)
	if err == nil {
		return 0, store.UsernameTaken{Username: username}
	} else if !errors.As(err, &store.UserNotFound{}) {
		return 0, err
	}
	if passwordLength(passwd) < minPasswordLength {
		return 0, PasswordTooShort{Min: minPasswordLength}
	}
	hash, err := hasher.Hash(passwd)
	if err != nil {
		return 0, err
	}
	return users.CreateUser(ctx, username, hash)
}

// passwordLength counts UTF-16 code units, so a character outside the
// basic multilingual plane counts as two. Invalid UTF-8 bytes count as one.
func passwordLength(passwd PlainText) int {
	n := 0
	for _, r := range string(passwd) {
		if l := utf16.RuneLen(r); l > 0 {
			n += l
		} else {
			n++
		}
	}
	return n
}
