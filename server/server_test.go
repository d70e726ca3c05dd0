package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"devconnector/cache"
	"devconnector/confs"
	"devconnector/db"
	"devconnector/mail"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captureMailer struct {
	mu   sync.Mutex
	sent []mail.Message
}

func (m *captureMailer) Send(_ context.Context, msg mail.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, msg)
	return nil
}

func (m *captureMailer) last() mail.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sent[len(m.sent)-1]
}

type stubRepos struct{}

func (stubRepos) Repos(_ context.Context, username string) (json.RawMessage, error) {
	return json.RawMessage(`[{"name":"` + username + `/dotfiles"}]`), nil
}

type apiClient struct {
	t       *testing.T
	handler http.Handler
	cache   *cache.TTLCache
}

type response struct {
	Code   int
	Header http.Header
	Body   map[string]any
}

func (r response) data() map[string]any {
	d, _ := r.Body["data"].(map[string]any)
	return d
}

func (a apiClient) do(method, path, token string, body any) response {
	a.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(a.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.handler.ServeHTTP(w, req)

	res := response{Code: w.Code, Header: w.Header()}
	if w.Body.Len() > 0 {
		require.NoError(a.t, json.Unmarshal(w.Body.Bytes(), &res.Body), w.Body.String())
	}
	return res
}

func newTestServer(t *testing.T) (apiClient, *captureMailer) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	database, err := db.OpenInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })

	cfg := confs.Config{
		Port:               "0",
		Env:                "test",
		JWTSecret:          "test-secret",
		JWTExpire:          time.Hour,
		JWTCookieExpire:    30,
		ResetSweepInterval: time.Minute,
	}
	mailer := &captureMailer{}
	githubCache := cache.NewTTLCache(time.Minute)
	s := NewServer(cfg, database, Deps{Mailer: mailer, Repos: stubRepos{}, GithubCache: githubCache})
	return apiClient{t: t, handler: s.Handler(), cache: githubCache}, mailer
}

func (a apiClient) register(name, email string) string {
	a.t.Helper()
	res := a.do(http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"name": name, "email": email, "password": "secret1",
	})
	require.Equal(a.t, http.StatusOK, res.Code, res.Body)
	token, _ := res.Body["token"].(string)
	require.NotEmpty(a.t, token)
	return token
}

func TestHealth(t *testing.T) {
	api, _ := newTestServer(t)
	res := api.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, res.Code)
	assert.Equal(t, "OK", res.Body["status"])
}

func TestAuthFlow(t *testing.T) {
	api, _ := newTestServer(t)
	token := api.register("Ada", "ada@example.com")

	t.Run("token cookie is set", func(t *testing.T) {
		res := api.do(http.MethodPost, "/api/v1/auth/login", "", map[string]string{"email": "ada@example.com", "password": "secret1"})
		require.Equal(t, http.StatusOK, res.Code)
		cookie := res.Header.Get("Set-Cookie")
		assert.Contains(t, cookie, "token=")
		assert.Contains(t, cookie, "HttpOnly")
		assert.Contains(t, cookie, "Max-Age=2592000")
	})

	t.Run("duplicate registration", func(t *testing.T) {
		res := api.do(http.MethodPost, "/api/v1/auth/register", "", map[string]string{
			"name": "Again", "email": "ada@example.com", "password": "secret1",
		})
		assert.Equal(t, http.StatusBadRequest, res.Code)
		assert.Equal(t, "Duplicate field value entered", res.Body["Error"])
	})

	t.Run("identical credential errors", func(t *testing.T) {
		wrong := api.do(http.MethodPost, "/api/v1/auth/login", "", map[string]string{"email": "ada@example.com", "password": "nope123"})
		unknown := api.do(http.MethodPost, "/api/v1/auth/login", "", map[string]string{"email": "eve@example.com", "password": "secret1"})
		assert.Equal(t, http.StatusUnauthorized, wrong.Code)
		assert.Equal(t, wrong.Code, unknown.Code)
		assert.Equal(t, wrong.Body, unknown.Body)
		assert.Equal(t, "Invalid credentials", wrong.Body["Error"])
	})

	t.Run("me hides the password", func(t *testing.T) {
		res := api.do(http.MethodGet, "/api/v1/auth/me", token, nil)
		require.Equal(t, http.StatusOK, res.Code)
		assert.Equal(t, "ada@example.com", res.data()["email"])
		assert.NotContains(t, res.data(), "PasswordHash")
		assert.NotContains(t, res.data(), "passwordHash")
	})

	t.Run("protected routes need a token", func(t *testing.T) {
		res := api.do(http.MethodGet, "/api/v1/auth/me", "", nil)
		assert.Equal(t, http.StatusUnauthorized, res.Code)
		assert.Equal(t, "Not authorized to access this route", res.Body["Error"])
	})

	t.Run("update details and password", func(t *testing.T) {
		res := api.do(http.MethodPut, "/api/v1/auth/updatedetails", token, map[string]string{"name": "Ada L"})
		require.Equal(t, http.StatusOK, res.Code)
		assert.Equal(t, "Ada L", res.data()["name"])

		res = api.do(http.MethodPut, "/api/v1/auth/updatepassword", token, map[string]string{"currentPassword": "bad", "newPassword": "secret2"})
		assert.Equal(t, http.StatusUnauthorized, res.Code)
		assert.Equal(t, "Password is incorrect", res.Body["Error"])

		res = api.do(http.MethodPut, "/api/v1/auth/updatepassword", token, map[string]string{"currentPassword": "secret1", "newPassword": "secret2"})
		require.Equal(t, http.StatusOK, res.Code)
		assert.NotEmpty(t, res.Body["token"])
	})

	t.Run("logout clears the cookie", func(t *testing.T) {
		res := api.do(http.MethodGet, "/api/v1/auth/logout", "", nil)
		assert.Equal(t, http.StatusOK, res.Code)
		assert.Contains(t, res.Header.Get("Set-Cookie"), "token=none")
	})
}

func TestPasswordResetFlow(t *testing.T) {
	api, mailer := newTestServer(t)
	api.register("Ada", "ada@example.com")

	res := api.do(http.MethodPost, "/api/v1/auth/forgotpassword", "", map[string]string{"email": "ada@example.com"})
	require.Equal(t, http.StatusOK, res.Code)
	assert.Equal(t, "Email sent", res.Body["data"])

	body := mailer.last().Body
	i := strings.Index(body, "/api/v1/auth/resetpassword/")
	require.NotEqual(t, -1, i)
	resetPath := strings.TrimSpace(body[i:])
	assert.Contains(t, body, "http://example.com/api/v1/auth/resetpassword/")

	res = api.do(http.MethodPut, resetPath, "", map[string]string{"password": "fresh1"})
	require.Equal(t, http.StatusOK, res.Code)
	assert.NotEmpty(t, res.Body["token"])

	res = api.do(http.MethodPut, resetPath, "", map[string]string{"password": "fresh2"})
	assert.Equal(t, http.StatusBadRequest, res.Code)
	assert.Equal(t, "Invalid or expired token", res.Body["Error"])

	res = api.do(http.MethodPost, "/api/v1/auth/login", "", map[string]string{"email": "ada@example.com", "password": "fresh1"})
	assert.Equal(t, http.StatusOK, res.Code)
}

func TestPostFlow(t *testing.T) {
	api, _ := newTestServer(t)
	ada := api.register("Ada", "ada@example.com")
	bob := api.register("Bob", "bob@example.com")

	res := api.do(http.MethodPost, "/api/v1/posts", ada, map[string]string{"text": "First post"})
	require.Equal(t, http.StatusCreated, res.Code, res.Body)
	postID := res.data()["id"].(string)
	assert.Equal(t, "Ada", res.data()["name"])

	res = api.do(http.MethodPost, "/api/v1/posts", ada, map[string]string{})
	assert.Equal(t, http.StatusBadRequest, res.Code)

	t.Run("like twice, unlike twice", func(t *testing.T) {
		res := api.do(http.MethodPut, "/api/v1/posts/likes/"+postID, bob, nil)
		require.Equal(t, http.StatusOK, res.Code)
		assert.Equal(t, float64(1), res.Body["count"])

		res = api.do(http.MethodPut, "/api/v1/posts/likes/"+postID, bob, nil)
		assert.Equal(t, http.StatusBadRequest, res.Code)
		assert.Equal(t, "Post already liked", res.Body["Error"])

		res = api.do(http.MethodPut, "/api/v1/posts/unlike/"+postID, bob, nil)
		require.Equal(t, http.StatusOK, res.Code)
		assert.Equal(t, float64(0), res.Body["count"])

		res = api.do(http.MethodPut, "/api/v1/posts/unlike/"+postID, bob, nil)
		assert.Equal(t, http.StatusBadRequest, res.Code)
		assert.Equal(t, "Post has not yet been liked", res.Body["Error"])
	})

	t.Run("only the author edits or deletes", func(t *testing.T) {
		res := api.do(http.MethodPut, "/api/v1/posts/"+postID, bob, map[string]string{"text": "mine now"})
		assert.Equal(t, http.StatusForbidden, res.Code)
		res = api.do(http.MethodDelete, "/api/v1/posts/"+postID, bob, nil)
		assert.Equal(t, http.StatusForbidden, res.Code)

		res = api.do(http.MethodGet, "/api/v1/posts/"+postID, bob, nil)
		require.Equal(t, http.StatusOK, res.Code)
		assert.Equal(t, "First post", res.data()["text"])
	})

	t.Run("comments", func(t *testing.T) {
		res := api.do(http.MethodPut, "/api/v1/posts/comment/"+postID, bob, map[string]string{"text": "Welcome"})
		require.Equal(t, http.StatusOK, res.Code)
		comments := res.Body["data"].([]any)
		require.Len(t, comments, 1)
		commentID := comments[0].(map[string]any)["id"].(string)

		res = api.do(http.MethodDelete, "/api/v1/posts/comment/"+postID+"/"+commentID, ada, nil)
		assert.Equal(t, http.StatusForbidden, res.Code)

		res = api.do(http.MethodDelete, "/api/v1/posts/comment/"+postID+"/"+commentID, bob, nil)
		require.Equal(t, http.StatusOK, res.Code)
		assert.Equal(t, float64(0), res.Body["count"])
	})

	t.Run("list with query", func(t *testing.T) {
		for _, text := range []string{"two", "three"} {
			res := api.do(http.MethodPost, "/api/v1/posts", bob, map[string]string{"text": text})
			require.Equal(t, http.StatusCreated, res.Code)
		}

		res := api.do(http.MethodGet, "/api/v1/posts?limit=2", ada, nil)
		require.Equal(t, http.StatusOK, res.Code)
		assert.Equal(t, true, res.Body["success"])
		assert.Equal(t, float64(2), res.Body["count"])
		pagination := res.Body["pagination"].(map[string]any)
		assert.Contains(t, pagination, "next")
		assert.NotContains(t, pagination, "prev")

		res = api.do(http.MethodGet, "/api/v1/posts?name=Ada", ada, nil)
		require.Equal(t, http.StatusOK, res.Code)
		assert.Equal(t, float64(1), res.Body["count"])

		res = api.do(http.MethodGet, "/api/v1/posts?secret=1", ada, nil)
		assert.Equal(t, http.StatusBadRequest, res.Code)
	})

	t.Run("unknown ids", func(t *testing.T) {
		res := api.do(http.MethodGet, "/api/v1/posts/not-an-id", ada, nil)
		assert.Equal(t, http.StatusNotFound, res.Code)
	})

	t.Run("author deletes", func(t *testing.T) {
		res := api.do(http.MethodDelete, "/api/v1/posts/"+postID, ada, nil)
		require.Equal(t, http.StatusOK, res.Code)
		assert.Empty(t, res.data())

		res = api.do(http.MethodGet, "/api/v1/posts/"+postID, ada, nil)
		assert.Equal(t, http.StatusNotFound, res.Code)
	})
}

func TestProfileFlow(t *testing.T) {
	api, _ := newTestServer(t)
	ada := api.register("Ada", "ada@example.com")

	res := api.do(http.MethodGet, "/api/v1/profile/me", ada, nil)
	assert.Equal(t, http.StatusNotFound, res.Code)
	assert.Equal(t, "There is no profile for this user", res.Body["Error"])

	res = api.do(http.MethodDelete, "/api/v1/profile", ada, nil)
	assert.Equal(t, http.StatusBadRequest, res.Code)
	assert.Equal(t, "You have not created a profile yet", res.Body["Error"])
	res = api.do(http.MethodGet, "/api/v1/auth/me", ada, nil)
	require.Equal(t, http.StatusOK, res.Code)

	res = api.do(http.MethodPost, "/api/v1/profile", ada, map[string]any{"status": "Developer"})
	assert.Equal(t, http.StatusBadRequest, res.Code)

	res = api.do(http.MethodPost, "/api/v1/profile", ada, map[string]any{
		"status":  "Developer",
		"skills":  "Go, Postgres",
		"website": "example.com",
		"youtube": "http://youtube.com/ada",
	})
	require.Equal(t, http.StatusCreated, res.Code, res.Body)
	assert.Equal(t, []any{"Go", "Postgres"}, res.data()["skills"])
	assert.Equal(t, "https://example.com", res.data()["website"])
	assert.Equal(t, "https://youtube.com/ada", res.data()["social"].(map[string]any)["youtube"])
	user := res.data()["user"].(map[string]any)
	assert.Equal(t, "Ada", user["name"])
	userID := user["id"].(string)

	res = api.do(http.MethodPost, "/api/v1/profile", ada, map[string]any{"status": "x", "skills": []string{"y"}})
	assert.Equal(t, http.StatusBadRequest, res.Code)
	assert.Equal(t, "You have already created a profile", res.Body["Error"])

	res = api.do(http.MethodPut, "/api/v1/profile", ada, map[string]any{"company": "Engines Ltd"})
	require.Equal(t, http.StatusOK, res.Code)
	assert.Equal(t, "Engines Ltd", res.data()["company"])
	assert.Equal(t, "Developer", res.data()["status"])

	res = api.do(http.MethodPut, "/api/v1/profile/experience", ada, map[string]any{
		"title": "Engineer", "company": "Engines Ltd", "from": "2021-03-01",
	})
	require.Equal(t, http.StatusCreated, res.Code, res.Body)
	exps := res.data()["experience"].([]any)
	require.Len(t, exps, 1)
	expID := exps[0].(map[string]any)["id"].(string)

	res = api.do(http.MethodPut, "/api/v1/profile/education", ada, map[string]any{
		"school": "London", "degree": "BSc", "fieldofstudy": "Maths", "from": "2015-09-01",
	})
	require.Equal(t, http.StatusCreated, res.Code, res.Body)

	res = api.do(http.MethodDelete, "/api/v1/profile/experience/"+expID, ada, nil)
	require.Equal(t, http.StatusOK, res.Code)
	assert.Empty(t, res.data()["experience"])

	res = api.do(http.MethodGet, "/api/v1/profile", "", nil)
	require.Equal(t, http.StatusOK, res.Code)
	assert.Equal(t, float64(1), res.Body["count"])

	res = api.do(http.MethodGet, "/api/v1/profile/"+userID, "", nil)
	require.Equal(t, http.StatusOK, res.Code)
	assert.Equal(t, "Engines Ltd", res.data()["company"])

	res = api.do(http.MethodGet, "/api/v1/profile/github/ada", "", nil)
	require.Equal(t, http.StatusOK, res.Code)
	assert.Len(t, res.Body["data"], 1)

	res = api.do(http.MethodPost, "/api/v1/posts", ada, map[string]string{"text": "bye"})
	require.Equal(t, http.StatusCreated, res.Code)

	res = api.do(http.MethodDelete, "/api/v1/profile", ada, nil)
	require.Equal(t, http.StatusOK, res.Code)

	res = api.do(http.MethodGet, "/api/v1/profile/"+userID, "", nil)
	assert.Equal(t, http.StatusNotFound, res.Code)

	res = api.do(http.MethodGet, "/api/v1/auth/me", ada, nil)
	assert.Equal(t, http.StatusUnauthorized, res.Code)
}

func TestCacheRoutes(t *testing.T) {
	api, _ := newTestServer(t)
	ada := api.register("Ada", "ada@example.com")
	api.cache.Set("gopher", []byte(`[]`))

	res := api.do(http.MethodGet, "/api/v1/cache/stats", "", nil)
	assert.Equal(t, http.StatusUnauthorized, res.Code)

	res = api.do(http.MethodGet, "/api/v1/cache/stats", ada, nil)
	require.Equal(t, http.StatusOK, res.Code)
	assert.Equal(t, float64(1), res.data()["entries"])
	assert.Equal(t, float64(60), res.data()["ttl_seconds"])

	res = api.do(http.MethodDelete, "/api/v1/cache", ada, nil)
	require.Equal(t, http.StatusOK, res.Code)

	res = api.do(http.MethodGet, "/api/v1/cache/stats", ada, nil)
	require.Equal(t, http.StatusOK, res.Code)
	assert.Equal(t, float64(0), res.data()["entries"])
}

func TestFeedPresence(t *testing.T) {
	api, _ := newTestServer(t)
	ada := api.register("Ada", "ada@example.com")
	bob := api.register("Bob", "bob@example.com")
	adaID := api.do(http.MethodGet, "/api/v1/auth/me", ada, nil).data()["id"].(string)
	bobID := api.do(http.MethodGet, "/api/v1/auth/me", bob, nil).data()["id"].(string)

	// safe to call from Eventually's goroutine
	connected := func(userID string) bool {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/posts/feed/connected/"+userID, nil)
		req.Header.Set("Authorization", "Bearer "+bob)
		w := httptest.NewRecorder()
		api.handler.ServeHTTP(w, req)
		var body struct {
			Data struct {
				Connected bool `json:"connected"`
			} `json:"data"`
		}
		if w.Code != http.StatusOK || json.Unmarshal(w.Body.Bytes(), &body) != nil {
			return false
		}
		return body.Data.Connected
	}
	assert.False(t, connected(adaID))

	srv := httptest.NewServer(api.handler)
	defer srv.Close()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/v1/posts/feed"
	conn, _, err := websocket.DefaultDialer.Dial(url, http.Header{"Authorization": {"Bearer " + ada}})
	require.NoError(t, err)

	assert.Eventually(t, func() bool { return connected(adaID) }, time.Second, 10*time.Millisecond)
	assert.False(t, connected(bobID))

	conn.Close()
	assert.Eventually(t, func() bool { return !connected(adaID) }, time.Second, 10*time.Millisecond)
}
