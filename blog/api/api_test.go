package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/andrebq/blogd/auth"
	"github.com/andrebq/blogd/internal/testutil"
	"github.com/andrebq/blogd/store"
	"github.com/goccy/go-json"
	"github.com/steinfletcher/apitest"
	jsonpath "github.com/steinfletcher/apitest-jsonpath"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type (
	brokenBlog struct {
		Blog
	}
)

var (
	errDiskOnFire = errors.New("disk on fire")
)

func (brokenBlog) ListComments(context.Context, int64) ([]store.Comment, error) {
	return nil, errDiskOnFire
}

func (brokenBlog) CreatePost(context.Context, string, string, time.Time) (int64, error) {
	return 0, errDiskOnFire
}

func TestEndToEnd(t *testing.T) {
	handler, signer, cleanup := acquireHandler(t)
	defer cleanup()

	apitest.New().
		Handler(handler).
		Post("/register/").
		JSON(`{"username":"bob","password":"secret123"}`).
		Expect(t).
		Status(http.StatusOK).
		Body(`{"message":"User registered successfully."}`).
		End()

	token := login(t, handler, "bob", "secret123")
	claims, err := signer.Verify(context.Background(), token)
	require.NoError(t, err)
	require.Equal(t, "bob", claims.Username)
	bearer := fmt.Sprintf("Bearer %v", token)

	apitest.New().
		Handler(handler).
		Post("/posts").
		Header("Authorization", bearer).
		JSON(`{"title":"hi","content":"world"}`).
		Expect(t).
		Status(http.StatusCreated).
		Body(`"Post Successfully Added."`).
		End()

	apitest.New().
		Handler(handler).
		Get("/posts/1/comments").
		Header("Authorization", bearer).
		Expect(t).
		Status(http.StatusOK).
		Body(`{"comments":[]}`).
		End()

	apitest.New().
		Handler(handler).
		Post("/posts/1/comments").
		Header("Authorization", bearer).
		JSON(`{"comment":"first!"}`).
		Expect(t).
		Status(http.StatusCreated).
		Body(`"Comment successfully added to postId 1"`).
		End()

	apitest.New().
		Handler(handler).
		Get("/posts/1/comments").
		Header("Authorization", bearer).
		Expect(t).
		Status(http.StatusOK).
		Assert(jsonpath.Len(`$.comments`, 1)).
		Assert(jsonpath.Equal(`$.comments[0].comment`, "first!")).
		Assert(jsonpath.Equal(`$.comments[0].post_id`, float64(1))).
		Assert(jsonpath.Equal(`$.comments[0].user_id`, float64(1))).
		Assert(jsonpath.Present(`$.comments[0].created_at`)).
		End()
}

func TestRegister(t *testing.T) {
	handler, _, cleanup := acquireHandler(t)
	defer cleanup()

	for _, body := range []string{
		`{}`,
		`{"username":"bob"}`,
		`{"password":"secret123"}`,
		`{"username":"","password":"secret123"}`,
		`not json`,
	} {
		apitest.New().
			Handler(handler).
			Post("/register/").
			JSON(body).
			Expect(t).
			Status(http.StatusBadRequest).
			Body(`Missing data`).
			End()
	}

	apitest.New().
		Handler(handler).
		Post("/register/").
		JSON(`{"username":"bob","password":"123456"}`).
		Expect(t).
		Status(http.StatusBadRequest).
		Body(`{"Error":"The password must be more than six characters long."}`).
		End()

	// a rejected registration leaves no user behind
	apitest.New().
		Handler(handler).
		Post("/login/").
		JSON(`{"username":"bob","password":"123456"}`).
		Expect(t).
		Status(http.StatusBadRequest).
		Body(`Invalid user`).
		End()

	apitest.New().
		Handler(handler).
		Post("/register/").
		JSON(`{"username":"bob","password":"1234567"}`).
		Expect(t).
		Status(http.StatusOK).
		End()

	apitest.New().
		Handler(handler).
		Post("/register/").
		JSON(`{"username":"bob","password":"1234567"}`).
		Expect(t).
		Status(http.StatusConflict).
		Body(`{"Error":"Username already exists."}`).
		End()
}

func TestRegisterPasswordEdges(t *testing.T) {
	handler, _, cleanup := acquireHandler(t)
	defer cleanup()

	long := strings.Repeat("p", 80)
	register(t, handler, "long", long)
	login(t, handler, "long", long)

	// four surrogate pairs are eight code units
	register(t, handler, "emoji", "😀😀😀😀")
	login(t, handler, "emoji", "😀😀😀😀")

	apitest.New().
		Handler(handler).
		Post("/register/").
		JSON(`{"username":"few-emoji","password":"😀😀😀"}`).
		Expect(t).
		Status(http.StatusBadRequest).
		Body(`{"Error":"The password must be more than six characters long."}`).
		End()
}

func TestConcurrentRegister(t *testing.T) {
	handler, _, cleanup := acquireHandler(t)
	defer cleanup()

	const attempts = 6
	codes := make([]int, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			req := httptest.NewRequest("POST", "/register/", strings.NewReader(`{"username":"bob","password":"secret123"}`))
			req.Header.Set("Content-Type", "application/json")
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			codes[i] = rec.Code
		}(i)
	}
	wg.Wait()

	counts := map[int]int{}
	for _, c := range codes {
		counts[c]++
	}
	require.Equal(t, map[int]int{http.StatusOK: 1, http.StatusConflict: attempts - 1}, counts)
}

func TestLogin(t *testing.T) {
	handler, _, cleanup := acquireHandler(t)
	defer cleanup()
	register(t, handler, "bob", "secret123")

	apitest.New().
		Handler(handler).
		Post("/login/").
		JSON(`{"username":"bob","password":"wrongpass"}`).
		Expect(t).
		Status(http.StatusBadRequest).
		Body(`Invalid password`).
		End()

	apitest.New().
		Handler(handler).
		Post("/login/").
		JSON(`{"username":"alice","password":"secret123"}`).
		Expect(t).
		Status(http.StatusBadRequest).
		Body(`Invalid user`).
		End()

	apitest.New().
		Handler(handler).
		Post("/login/").
		JSON(`{"username":"bob"}`).
		Expect(t).
		Status(http.StatusBadRequest).
		Body(`Missing Data`).
		End()

	apitest.New().
		Handler(handler).
		Post("/login/").
		JSON(`{"username":"bob","password":"secret123"}`).
		Expect(t).
		Status(http.StatusOK).
		Assert(jsonpath.Present(`$.jwtToken`)).
		End()
}

func TestProtectedRoutes(t *testing.T) {
	handler, _, cleanup := acquireHandler(t)
	defer cleanup()

	apitest.New().
		Handler(handler).
		Post("/posts").
		JSON(`{"title":"hi","content":"world"}`).
		Expect(t).
		Status(http.StatusUnauthorized).
		Body(`Invalid JWT Token`).
		End()

	apitest.New().
		Handler(handler).
		Post("/posts/1/comments").
		Header("Authorization", "Bearer abc123").
		JSON(`{"comment":"hello"}`).
		Expect(t).
		Status(http.StatusUnauthorized).
		Body(`Invalid JWT Token`).
		End()

	apitest.New().
		Handler(handler).
		Get("/posts/1/comments").
		Header("Authorization", "Token abc123").
		Expect(t).
		Status(http.StatusUnauthorized).
		Body(`Invalid JWT Token`).
		End()
}

func TestVanishedUser(t *testing.T) {
	handler, signer, cleanup := acquireHandler(t)
	defer cleanup()
	// valid signature, but nobody registered as ghost
	token, err := signer.Issue("ghost")
	require.NoError(t, err)
	bearer := fmt.Sprintf("Bearer %v", token)

	apitest.New().
		Handler(handler).
		Post("/posts").
		Header("Authorization", bearer).
		JSON(`{"title":"hi","content":"world"}`).
		Expect(t).
		Status(http.StatusBadRequest).
		Body(`Invalid user`).
		End()

	apitest.New().
		Handler(handler).
		Post("/posts/1/comments").
		Header("Authorization", bearer).
		JSON(`{"comment":"boo"}`).
		Expect(t).
		Status(http.StatusBadRequest).
		Body(`Invalid user`).
		End()

	// listing does not need the user to exist
	apitest.New().
		Handler(handler).
		Get("/posts/1/comments").
		Header("Authorization", bearer).
		Expect(t).
		Status(http.StatusOK).
		Body(`{"comments":[]}`).
		End()
}

func TestResourceValidation(t *testing.T) {
	handler, _, cleanup := acquireHandler(t)
	defer cleanup()
	register(t, handler, "bob", "secret123")
	bearer := fmt.Sprintf("Bearer %v", login(t, handler, "bob", "secret123"))

	for _, body := range []string{`{}`, `{"title":"hi"}`, `{"content":"world"}`, `[]`} {
		apitest.New().
			Handler(handler).
			Post("/posts").
			Header("Authorization", bearer).
			JSON(body).
			Expect(t).
			Status(http.StatusBadRequest).
			Body(`{"error":"Title and content are required"}`).
			End()
	}

	apitest.New().
		Handler(handler).
		Post("/posts/1/comments").
		Header("Authorization", bearer).
		JSON(`{"comment":""}`).
		Expect(t).
		Status(http.StatusBadRequest).
		Body(`{"error":"Comment is required"}`).
		End()

	apitest.New().
		Handler(handler).
		Get("/posts/abc/comments").
		Header("Authorization", bearer).
		Expect(t).
		Status(http.StatusBadRequest).
		Body(`{"error":"Invalid post id"}`).
		End()

	// post 99 does not exist, the foreign key rejects the comment
	apitest.New().
		Handler(handler).
		Post("/posts/99/comments").
		Header("Authorization", bearer).
		JSON(`{"comment":"hello?"}`).
		Expect(t).
		Status(http.StatusInternalServerError).
		Assert(jsonpath.Present(`$.error`)).
		End()
}

func TestStorageErrors(t *testing.T) {
	ctx := context.Background()
	st, cleanup := testutil.AcquireStore(ctx, t, "broken")
	defer cleanup()
	signer, err := auth.NewSigner([]byte(testutil.TestSecret))
	require.NoError(t, err)
	_, err = st.CreateUser(ctx, "bob", "hash")
	require.NoError(t, err)
	handler, err := AsHandler(ctx, brokenBlog{Blog: st}, Options{Issuer: signer, Verifier: signer})
	require.NoError(t, err)
	token, err := signer.Issue("bob")
	require.NoError(t, err)
	bearer := fmt.Sprintf("Bearer %v", token)

	apitest.New().
		Handler(handler).
		Get("/posts/1/comments").
		Header("Authorization", bearer).
		Expect(t).
		Status(http.StatusInternalServerError).
		Body(`{"error":"disk on fire"}`).
		End()

	apitest.New().
		Handler(handler).
		Post("/posts").
		Header("Authorization", bearer).
		JSON(`{"title":"hi","content":"world"}`).
		Expect(t).
		Status(http.StatusInternalServerError).
		Body(`{"error":"disk on fire"}`).
		End()
}

func TestAsHandlerRequiresTokens(t *testing.T) {
	ctx := context.Background()
	st, cleanup := testutil.AcquireStore(ctx, t, "options")
	defer cleanup()
	_, err := AsHandler(ctx, st, Options{})
	require.Error(t, err)
}

func acquireHandler(t *testing.T) (http.Handler, *auth.Signer, func()) {
	ctx := context.Background()
	st, cleanup := testutil.AcquireStore(ctx, t, "blog")
	signer, err := auth.NewSigner([]byte(testutil.TestSecret))
	if err != nil {
		cleanup()
		t.Fatal(err)
	}
	handler, err := AsHandler(ctx, st, Options{
		Hasher:   auth.Hasher{Cost: bcrypt.MinCost},
		Issuer:   signer,
		Verifier: signer,
	})
	if err != nil {
		cleanup()
		t.Fatal(err)
	}
	return handler, signer, cleanup
}

func register(t *testing.T, handler http.Handler, username, password string) {
	apitest.New().
		Handler(handler).
		Post("/register/").
		JSON(fmt.Sprintf(`{"username":%q,"password":%q}`, username, password)).
		Expect(t).
		Status(http.StatusOK).
		End()
}

func login(t *testing.T, handler http.Handler, username, password string) string {
	req := httptest.NewRequest("POST", "/login/", strings.NewReader(fmt.Sprintf(`{"username":%q,"password":%q}`, username, password)))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, "login should succeed: %v", rec.Body.String())
	var res struct {
		Token string `json:"jwtToken"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	require.NotEmpty(t, res.Token)
	return res.Token
}
