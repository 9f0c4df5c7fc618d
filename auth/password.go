package auth

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

const (
	DefaultCost = bcrypt.DefaultCost
)

type (
	PlainText []byte

	// Hasher hashes passwords with bcrypt at Cost rounds (DefaultCost when zero).
	Hasher struct {
		Cost int
	}
)

func (p PlainText) Zero() {
	for i := range p {
		p[i] = 0
	}
}

// bcryptInput returns the prefix of p that bcrypt actually reads.
// Bytes past maxPasswordBytes never affect the hash.
func (p PlainText) bcryptInput() []byte {
	if len(p) > maxPasswordBytes {
		return p[:maxPasswordBytes]
	}
	return p
}

// Hash accepts passwords of any length, only the first maxPasswordBytes
// bytes are hashed.
func (h Hasher) Hash(passwd PlainText) (string, error) {
	cost := h.Cost
	if cost == 0 {
		cost = DefaultCost
	}
	buf, err := bcrypt.GenerateFromPassword(passwd.bcryptInput(), cost)
	if err != nil {
		return "", err
	}
	return string(buf), nil
}

// Verify reports whether passwd matches hash. A mismatch is not an error,
// only a malformed hash is.
func (h Hasher) Verify(passwd PlainText, hash string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hash), passwd.bcryptInput())
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, CorruptedHash{cause: err}
	}
}
