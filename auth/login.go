package auth

import (
	"context"
	"errors"

	"github.com/andrebq/blogd/store"
)

// Login checks passwd against the stored hash of user and returns a fresh
// token on success.
func Login(ctx context.Context, users Credentials, hasher Hasher, issuer TokenIssuer, user, passwd PlainText) (token string, err error) {
	if len(user) == 0 || len(passwd) == 0 {
		return "", MissingCredentials{}
	}
	username := string(user)
	u, err := users.FindUser(ctx, username)
	if errors.As(err, &store.UserNotFound{}) {
		return "", UnknownUser{Username: username}
	} else if err != nil {
		return "", err
	}
	matched, err := hasher.Verify(passwd, u.PasswordHash)
	if err != nil {
		return "", err
	} else if !matched {
		return "", WrongPassword{}
	}
	return issuer.Issue(u.Username)
}
