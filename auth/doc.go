// Package auth holds the credential logic of blogd: password hashing,
// token issuance and token verification, plus the register and login flows
// that tie them to the user store.
//
// Passwords are hashed with bcrypt, the plain text never reaches the
// database.
//
// Tokens are HS256 JWTs carrying only the username and the issue time.
// They are stateless: nothing is stored when a token is issued, and
// verifying one is purely a signature check against the shared secret.
//
// Tokens do not expire and cannot be revoked, once issued a token is valid
// for as long as the secret does not change. Rotating the secret is the
// only way to invalidate every token at once.
//
// Verification results may be kept in a TokenCache, since a token that
// verified once will always verify again.
package auth
