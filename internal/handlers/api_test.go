package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devlink/backend/internal/models"
	"github.com/devlink/backend/internal/services"
)

type testAPI struct {
	router chi.Router
	users  *services.MemoryUserService
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()

	tokens := services.NewTokenService("test-secret", time.Hour)
	users := services.NewMemoryUserService()
	profiles := services.NewMemoryProfileService(users)
	posts := services.NewMemoryPostService(users)
	github := services.NewGithubClient("", "")

	router := NewRouter(
		NewUserHandler(users, tokens),
		NewAuthHandler(users, tokens),
		NewProfileHandler(profiles, github),
		NewPostHandler(posts),
		tokens,
	)

	return &testAPI{router: router, users: users}
}

func (a *testAPI) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("x-auth-token", token)
	}

	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

func (a *testAPI) register(t *testing.T, name, email, password string) string {
	t.Helper()

	rec := a.do(t, "POST", "/api/users", "", map[string]string{
		"name": name, "email": email, "password": password,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp models.TokenResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func decodeJSON[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&out))
	return out
}

func TestRegisterValidation(t *testing.T) {
	api := newTestAPI(t)

	tests := []struct {
		name    string
		body    map[string]string
		wantMsg string
	}{
		{"missing name", map[string]string{"email": "a@x.com", "password": "secret1"}, "Name is required"},
		{"bad email", map[string]string{"name": "Alice", "email": "nope", "password": "secret1"}, "Please include a valid email"},
		{"short password", map[string]string{"name": "Alice", "email": "a@x.com", "password": "abc"}, "Please enter a password with 6 or more characters"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := api.do(t, "POST", "/api/users", "", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantMsg)
		})
	}
}

func TestRegisterDuplicate(t *testing.T) {
	api := newTestAPI(t)
	api.register(t, "Alice", "a@x.com", "secret1")

	rec := api.do(t, "POST", "/api/users", "", map[string]string{
		"name": "Alice Again", "email": "a@x.com", "password": "secret2",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "User already exists")
}

func TestLoginAndSelf(t *testing.T) {
	api := newTestAPI(t)
	api.register(t, "Alice", "a@x.com", "secret1")

	rec := api.do(t, "POST", "/api/auth", "", map[string]string{
		"email": "a@x.com", "password": "secret1",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	token := decodeJSON[models.TokenResponse](t, rec).Token

	rec = api.do(t, "GET", "/api/auth", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	rawBody := rec.Body.String()
	user := decodeJSON[models.User](t, rec)
	assert.Equal(t, "Alice", user.Name)
	assert.Equal(t, "a@x.com", user.Email)
	// The password hash must never appear on the wire.
	assert.NotContains(t, rawBody, "password")

	rec = api.do(t, "POST", "/api/auth", "", map[string]string{
		"email": "a@x.com", "password": "wrong-password",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid Credentials")
}

func TestPrivateRoutesRequireToken(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, "GET", "/api/posts", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "No token, authorization denied")

	rec = api.do(t, "GET", "/api/posts", "bogus-token", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Token is not valid")
}

func TestProfileFlow(t *testing.T) {
	api := newTestAPI(t)
	token := api.register(t, "Alice", "a@x.com", "secret1")

	// No profile yet.
	rec := api.do(t, "GET", "/api/profile/me", token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// Missing status/skills is rejected before any store access.
	rec = api.do(t, "POST", "/api/profile", token, map[string]string{"bio": "hi"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Status is required")
	assert.Contains(t, rec.Body.String(), "Skills is required")

	rec = api.do(t, "POST", "/api/profile", token, map[string]string{
		"status": "Developer", "skills": "Go, JS", "company": "Acme",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	prof := decodeJSON[models.Profile](t, rec)
	assert.Equal(t, []string{"Go", "JS"}, prof.Skills)
	assert.Equal(t, "Alice", prof.User.Name)

	// Public listing joins the owner's name/avatar.
	rec = api.do(t, "GET", "/api/profile", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	list := decodeJSON[[]models.Profile](t, rec)
	require.Len(t, list, 1)
	assert.Equal(t, "Alice", list[0].User.Name)

	rec = api.do(t, "GET", "/api/profile/user/"+prof.User.ID, "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = api.do(t, "GET", "/api/profile/user/unknown-id", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Profile not found")

	// Experience: add, then remove by the returned id.
	rec = api.do(t, "PUT", "/api/profile/experience", token, map[string]interface{}{
		"title": "Engineer", "company": "Acme", "from": "2020-01-01T00:00:00Z",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	prof = decodeJSON[models.Profile](t, rec)
	require.Len(t, prof.Experience, 1)

	rec = api.do(t, "DELETE", "/api/profile/experience/"+prof.Experience[0].ID, token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	prof = decodeJSON[models.Profile](t, rec)
	assert.Empty(t, prof.Experience)

	// Account deletion cascades: profile and user both gone.
	rec = api.do(t, "DELETE", "/api/profile", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "User deleted")

	rec = api.do(t, "GET", "/api/auth", token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPostFlow(t *testing.T) {
	api := newTestAPI(t)
	aliceToken := api.register(t, "Alice", "a@x.com", "secret1")
	bobToken := api.register(t, "Bob", "b@x.com", "secret2")

	rec := api.do(t, "POST", "/api/posts", aliceToken, map[string]string{"text": ""})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Text is required")

	rec = api.do(t, "POST", "/api/posts", aliceToken, map[string]string{"text": "hello"})
	require.Equal(t, http.StatusOK, rec.Code)
	post := decodeJSON[models.Post](t, rec)
	assert.Equal(t, "hello", post.Text)
	assert.Equal(t, "Alice", post.Name)

	rec = api.do(t, "GET", "/api/posts", bobToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	posts := decodeJSON[[]models.Post](t, rec)
	require.Len(t, posts, 1)
	assert.Equal(t, "hello", posts[0].Text)

	// Like, then like again.
	rec = api.do(t, "PUT", "/api/posts/like/"+post.ID, aliceToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	likes := decodeJSON[[]models.Like](t, rec)
	require.Len(t, likes, 1)
	assert.Equal(t, post.UserID, likes[0].UserID)

	rec = api.do(t, "PUT", "/api/posts/like/"+post.ID, aliceToken, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Post already liked")

	rec = api.do(t, "PUT", "/api/posts/unlike/"+post.ID, bobToken, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Post has not yet been liked")

	// Comments.
	rec = api.do(t, "POST", "/api/posts/comment/"+post.ID, bobToken, map[string]string{"text": "nice"})
	require.Equal(t, http.StatusOK, rec.Code)
	comments := decodeJSON[[]models.Comment](t, rec)
	require.Len(t, comments, 1)
	assert.Equal(t, "Bob", comments[0].Name)

	// Only the comment author may remove it.
	rec = api.do(t, "DELETE", "/api/posts/comment/"+post.ID+"/"+comments[0].ID, aliceToken, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "User not authorized")

	rec = api.do(t, "DELETE", "/api/posts/comment/"+post.ID+"/"+comments[0].ID, bobToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]\n", rec.Body.String())

	// Delete: non-owner rejected, post survives; owner succeeds.
	rec = api.do(t, "DELETE", "/api/posts/"+post.ID, bobToken, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = api.do(t, "GET", "/api/posts/"+post.ID, aliceToken, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = api.do(t, "DELETE", "/api/posts/"+post.ID, aliceToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Post removed")

	rec = api.do(t, "GET", "/api/posts/"+post.ID, aliceToken, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Post not found")
}

func TestGithubProxyRoute(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"name":"repo-one"}]`))
	}))
	defer upstream.Close()

	tokens := services.NewTokenService("test-secret", time.Hour)
	users := services.NewMemoryUserService()
	github := services.NewGithubClient("", "")
	github.Endpoint = upstream.URL

	router := NewRouter(
		NewUserHandler(users, tokens),
		NewAuthHandler(users, tokens),
		NewProfileHandler(services.NewMemoryProfileService(users), github),
		NewPostHandler(services.NewMemoryPostService(users)),
		tokens,
	)

	req := httptest.NewRequest("GET", "/api/profile/github/alice", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[{"name":"repo-one"}]`, rec.Body.String())
}
