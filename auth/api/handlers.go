package api

import (
	"errors"
	"net/http"

	"github.com/andrebq/blogd/auth"
	"github.com/andrebq/blogd/internal/logutil"
	"github.com/andrebq/blogd/internal/reply"
	"github.com/andrebq/blogd/store"
)

type (
	credentialsRequest struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}

	registerResponse struct {
		Message string `json:"message"`
	}

	loginResponse struct {
		Token string `json:"jwtToken"`
	}
)

func RegisterHandler(users auth.Credentials, hasher auth.Hasher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logutil.GetOrDefault(r.Context())
		var req credentialsRequest
		if err := reply.Decode(r, &req); err != nil {
			reply.Text(w, http.StatusBadRequest, "Missing data")
			return
		}
		passwd := auth.PlainText(req.Password)
		defer passwd.Zero()
		_, err := auth.Register(r.Context(), users, hasher, auth.PlainText(req.Username), passwd)
		switch {
		case err == nil:
			log.Info().Str("username", req.Username).Msg("User registered")
			reply.JSON(w, http.StatusOK, registerResponse{Message: "User registered successfully."})
		case errors.Is(err, auth.MissingCredentials{}):
			reply.Text(w, http.StatusBadRequest, "Missing data")
		case errors.As(err, &store.UsernameTaken{}):
			reply.JSON(w, http.StatusConflict, reply.RejectBody{Error: "Username already exists."})
		case errors.As(err, &auth.PasswordTooShort{}):
			reply.JSON(w, http.StatusBadRequest, reply.RejectBody{Error: "The password must be more than six characters long."})
		default:
			log.Error().Err(err).Str("username", req.Username).Msg("Unable to register user")
			reply.JSON(w, http.StatusInternalServerError, reply.ErrorBody{Error: err.Error()})
		}
	}
}

func LoginHandler(users auth.Credentials, hasher auth.Hasher, issuer auth.TokenIssuer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logutil.GetOrDefault(r.Context())
		var req credentialsRequest
		if err := reply.Decode(r, &req); err != nil {
			reply.Text(w, http.StatusBadRequest, "Missing Data")
			return
		}
		passwd := auth.PlainText(req.Password)
		defer passwd.Zero()
		token, err := auth.Login(r.Context(), users, hasher, issuer, auth.PlainText(req.Username), passwd)
		switch {
		case err == nil:
			reply.JSON(w, http.StatusOK, loginResponse{Token: token})
		case errors.Is(err, auth.MissingCredentials{}):
			reply.Text(w, http.StatusBadRequest, "Missing Data")
		case errors.As(err, &auth.UnknownUser{}):
			reply.Text(w, http.StatusBadRequest, "Invalid user")
		case errors.Is(err, auth.WrongPassword{}):
			log.Info().Str("username", req.Username).Msg("Login attempt with wrong password")
			reply.Text(w, http.StatusBadRequest, "Invalid password")
		default:
			log.Error().Err(err).Str("username", req.Username).Msg("Unable to login user")
			reply.JSON(w, http.StatusInternalServerError, reply.ErrorBody{Error: err.Error()})
		}
	}
}
