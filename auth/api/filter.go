package api

import (
	"net/http"
	"regexp"

	"github.com/andrebq/blogd/auth"
	"github.com/andrebq/blogd/internal/logutil"
	"github.com/andrebq/blogd/internal/reply"
)

type (
	SecurityRealm struct {
		verifier auth.TokenVerifier
	}
)

const (
	InvalidTokenMessage = "Invalid JWT Token"
)

var (
	bearerTokenRE = regexp.MustCompile(`^Bearer ([^\s]+)$`)
)

func NewRealm(verifier auth.TokenVerifier) *SecurityRealm {
	return &SecurityRealm{
		verifier: verifier,
	}
}

// Protect only lets requests carrying a valid bearer token reach sensitive.
// The username from the token is attached to the request context, no check
// is made that the user still exists.
func (s *SecurityRealm) Protect(sensitive http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		username, ok := s.checkToken(r)
		if !ok {
			reply.Text(w, http.StatusUnauthorized, InvalidTokenMessage)
			return
		}
		sensitive.ServeHTTP(w, r.WithContext(auth.WithUsername(r.Context(), username)))
	})
}

func (s *SecurityRealm) checkToken(r *http.Request) (string, bool) {
	ctx := r.Context()
	log := logutil.GetOrDefault(ctx)
	hdrVal := r.Header.Get("Authorization")
	groups := bearerTokenRE.FindStringSubmatch(hdrVal)
	if len(groups) == 0 {
		log.Debug().Msg("Bearer token not found")
		return "", false
	}
	claims, err := s.verifier.Verify(ctx, groups[1])
	if err != nil {
		log.Debug().Err(err).Msg("Rejecting bearer token")
		return "", false
	}
	return claims.Username, true
}
