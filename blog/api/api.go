package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/andrebq/blogd/auth"
	authapi "github.com/andrebq/blogd/auth/api"
	"github.com/andrebq/blogd/internal/logutil"
	"github.com/andrebq/blogd/internal/reply"
	"github.com/andrebq/blogd/store"
	"github.com/julienschmidt/httprouter"
)

type (
	// Blog is everything the resource handlers need from storage.
	Blog interface {
		auth.Credentials
		CreatePost(ctx context.Context, title, content string, createdAt time.Time) (int64, error)
		CreateComment(ctx context.Context, postID, userID int64, comment string, createdAt time.Time) (int64, error)
		ListComments(ctx context.Context, postID int64) ([]store.Comment, error)
	}

	Options struct {
		Hasher   auth.Hasher
		Issuer   auth.TokenIssuer
		Verifier auth.TokenVerifier
		// Now defaults to time.Now
		Now func() time.Time
	}

	handlers struct {
		blog Blog
		now  func() time.Time
	}
)

// AsHandler exposes the blog over HTTP. Registration and login are public,
// every /posts route requires a bearer token.
func AsHandler(ctx context.Context, blog Blog, opts Options) (http.Handler, error) {
	if blog == nil {
		return nil, errors.New("blog api: missing storage")
	}
	if opts.Issuer == nil || opts.Verifier == nil {
		return nil, errors.New("blog api: token issuer and verifier are required")
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	h := &handlers{blog: blog, now: opts.Now}
	realm := authapi.NewRealm(opts.Verifier)

	router := httprouter.New()
	router.HandlerFunc("POST", "/register/", authapi.RegisterHandler(blog, opts.Hasher))
	router.HandlerFunc("POST", "/login/", authapi.LoginHandler(blog, opts.Hasher, opts.Issuer))
	router.Handler("POST", "/posts", realm.Protect(http.HandlerFunc(h.createPost)))
	router.Handler("POST", "/posts/:postId/comments", realm.Protect(http.HandlerFunc(h.createComment)))
	router.Handler("GET", "/posts/:postId/comments", realm.Protect(http.HandlerFunc(h.listComments)))
	router.PanicHandler = func(w http.ResponseWriter, r *http.Request, v interface{}) {
		log := logutil.GetOrDefault(r.Context())
		log.Error().Interface("panic", v).Msg("Handler panic")
		reply.JSON(w, http.StatusInternalServerError, reply.ErrorBody{Error: "internal server error"})
	}
	return router, nil
}

// currentUser resolves the username attached by the realm back to a user.
// A user that vanished after the token was issued is a bad request, not an
// authorization failure.
func (h *handlers) currentUser(w http.ResponseWriter, r *http.Request) (store.User, bool) {
	username, _ := auth.UsernameFrom(r.Context())
	u, err := h.blog.FindUser(r.Context(), username)
	if errors.As(err, &store.UserNotFound{}) {
		reply.Text(w, http.StatusBadRequest, "Invalid user")
		return store.User{}, false
	} else if err != nil {
		storageError(w, r, err)
		return store.User{}, false
	}
	return u, true
}

func postID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := httprouter.ParamsFromContext(r.Context()).ByName("postId")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		reply.JSON(w, http.StatusBadRequest, reply.ErrorBody{Error: "Invalid post id"})
		return 0, false
	}
	return id, true
}

func storageError(w http.ResponseWriter, r *http.Request, err error) {
	log := logutil.GetOrDefault(r.Context())
	log.Error().Err(err).Msg("Storage failure")
	reply.JSON(w, http.StatusInternalServerError, reply.ErrorBody{Error: err.Error()})
}
