package auth

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type (
	Claims struct {
		Username string `json:"username"`
		jwt.RegisteredClaims
	}

	TokenIssuer interface {
		Issue(username string) (string, error)
	}

	TokenVerifier interface {
		Verify(ctx context.Context, token string) (Claims, error)
	}

	// Signer issues and verifies HS256 tokens with a single shared secret.
	Signer struct {
		secret []byte
		now    func() time.Time
	}
)

var (
	errMissingToken    = errors.New("token is empty")
	errMissingUsername = errors.New("token does not carry a username")
)

func NewSigner(secret []byte) (*Signer, error) {
	if len(secret) == 0 {
		return nil, errEmptySecret
	}
	s := &Signer{
		secret: make([]byte, len(secret)),
		now:    time.Now,
	}
	copy(s.secret, secret)
	return s, nil
}

// Issue returns a signed token for username. The token has no expiration.
func (s *Signer) Issue(username string) (string, error) {
	claims := Claims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt: jwt.NewNumericDate(s.now()),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

func (s *Signer) Verify(_ context.Context, token string) (Claims, error) {
	if len(token) == 0 {
		return Claims{}, InvalidToken{cause: errMissingToken}
	}
	var claims Claims
	_, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return Claims{}, InvalidToken{cause: err}
	}
	if len(claims.Username) == 0 {
		return Claims{}, InvalidToken{cause: errMissingUsername}
	}
	return claims, nil
}
