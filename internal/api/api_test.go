package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/tankbattle/internal/api"
	"github.com/mcoot/tankbattle/internal/api/apierr"
	"github.com/mcoot/tankbattle/internal/api/response"
	"github.com/mcoot/tankbattle/internal/factory"
	"github.com/mcoot/tankbattle/internal/middleware"
	"github.com/mcoot/tankbattle/internal/model"
	"github.com/mcoot/tankbattle/internal/storage/memory"
	"github.com/mcoot/tankbattle/internal/testutil"
)

// testServer wires the API router to an in-memory app
type testServer struct {
	handler http.Handler
	app     *factory.TestApp
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	app := factory.NewTestApp()
	t.Cleanup(func() { _ = app.Close() })

	router := api.NewRouter(api.RouterConfig{
		Logger:         testutil.NopLogger(),
		AuthService:    app.AuthService,
		AccountService: app.AccountService,
		HistoryService: app.HistoryService,
		Storage:        app.Storage,
	})

	return &testServer{
		handler: router,
		app:     app,
	}
}

func (ts *testServer) request(method, path string, body any, token string) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer
	if body != nil {
		b, _ := json.Marshal(body)
		reqBody = bytes.NewBuffer(b)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)
	return rr
}

func TestHealthCheck(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/health", nil, "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rr.Body.String())
}

// downStore fails every ping
type downStore struct {
	*memory.Storage
}

func (downStore) Ping(context.Context) error {
	return model.ErrStoreUnavailable
}

func TestHealthCheckReportsStoreOutage(t *testing.T) {
	app := factory.NewTestApp()
	router := api.NewRouter(api.RouterConfig{
		Logger:         testutil.NopLogger(),
		AuthService:    app.AuthService,
		AccountService: app.AccountService,
		HistoryService: app.HistoryService,
		Storage:        downStore{memory.New()},
	})

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	assert.JSONEq(t, `{"status":"unavailable"}`, rr.Body.String())
}

func TestRegisterAndLogin(t *testing.T) {
	ts := newTestServer(t)

	body := map[string]string{"username": "alice", "email": "alice@example.com", "password": "secret123"}
	rr := ts.request(http.MethodPost, "/api/register", body, "")
	require.Equal(t, http.StatusCreated, rr.Code)

	var registered response.Registered
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &registered))
	assert.True(t, registered.Success)
	assert.Equal(t, "alice", registered.User.Username)
	assert.NotContains(t, rr.Body.String(), "password")

	loginBody := map[string]string{"username": "alice", "password": "secret123"}
	rr = ts.request(http.MethodPost, "/api/login", loginBody, "")
	require.Equal(t, http.StatusOK, rr.Code)

	var loginResp response.AuthResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &loginResp))
	assert.True(t, loginResp.Success)
	assert.NotEmpty(t, loginResp.SessionToken)
	assert.Equal(t, registered.User.ID, loginResp.User.ID)
}

func TestRegisterConflict(t *testing.T) {
	ts := newTestServer(t)
	register(t, ts, "alice")

	body := map[string]string{"username": "alice", "email": "other@example.com", "password": "secret123"}
	rr := ts.request(http.MethodPost, "/api/register", body, "")
	assert.Equal(t, http.StatusConflict, rr.Code)

	var errResp apierr.ErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &errResp))
	assert.False(t, errResp.Success)
	assert.Equal(t, "Username or email already exists", errResp.Message)
}

func TestRegisterValidation(t *testing.T) {
	ts := newTestServer(t)

	cases := []struct {
		name string
		body map[string]string
	}{
		{"blank username", map[string]string{"username": " ", "email": "a@example.com", "password": "secret123"}},
		{"bad email", map[string]string{"username": "alice", "email": "nope", "password": "secret123"}},
		{"short password", map[string]string{"username": "alice", "email": "a@example.com", "password": "abc"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rr := ts.request(http.MethodPost, "/api/register", tc.body, "")
			assert.Equal(t, http.StatusBadRequest, rr.Code)
		})
	}
}

func TestLoginWrongPassword(t *testing.T) {
	ts := newTestServer(t)
	register(t, ts, "alice")

	rr := ts.request(http.MethodPost, "/api/login", map[string]string{"username": "alice", "password": "wrong-password"}, "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = ts.request(http.MethodPost, "/api/login", map[string]string{"username": "nobody", "password": "wrong-password"}, "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestProtectedRoutesRequireSession(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodPost, "/api/save_game", map[string]any{"game_mode": "ai-normal"}, "")
	assert.Equal(t, http.StatusForbidden, rr.Code)

	var errResp apierr.ErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &errResp))
	assert.Equal(t, "Authentication required", errResp.Message)

	rr = ts.request(http.MethodGet, "/api/account", nil, "not-a-token")
	assert.Equal(t, http.StatusForbidden, rr.Code)
}

func TestSaveGameAndAccount(t *testing.T) {
	ts := newTestServer(t)
	token := login(t, ts, "bob")

	win := map[string]any{"game_mode": "ai-hard", "winner": 1, "player1_nation": "US", "player2_nation": "German"}
	rr := ts.request(http.MethodPost, "/api/save_game", win, token)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"success":true}`, rr.Body.String())

	loss := map[string]any{"game_mode": "ai-normal", "winner": 2, "player1_nation": "Japan", "player2_nation": "USSR"}
	rr = ts.request(http.MethodPost, "/api/save_game", loss, token)
	require.Equal(t, http.StatusOK, rr.Code)

	rr = ts.request(http.MethodGet, "/api/account", nil, token)
	require.Equal(t, http.StatusOK, rr.Code)

	var account response.Account
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &account))
	assert.Equal(t, "bob", account.User.Username)
	assert.Equal(t, response.Stats{TotalGames: 2, Wins: 1, Losses: 1}, account.Stats)
	require.Len(t, account.RecentGames, 2)
	assert.Equal(t, "ai-normal", account.RecentGames[0].GameMode)
	assert.Equal(t, "Defeat", account.RecentGames[0].Result)
	assert.Equal(t, "Victory", account.RecentGames[1].Result)
}

func TestSaveGameRejectsBadInput(t *testing.T) {
	ts := newTestServer(t)
	token := login(t, ts, "bob")

	cases := []struct {
		name string
		body map[string]any
	}{
		{"unknown mode", map[string]any{"game_mode": "chess", "winner": 1, "player1_nation": "US", "player2_nation": "German"}},
		{"bad winner", map[string]any{"game_mode": "ai-hard", "winner": 3, "player1_nation": "US", "player2_nation": "German"}},
		{"bad nation", map[string]any{"game_mode": "ai-hard", "winner": 1, "player1_nation": "Mars", "player2_nation": "German"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rr := ts.request(http.MethodPost, "/api/save_game", tc.body, token)
			assert.Equal(t, http.StatusBadRequest, rr.Code)
		})
	}

	rr := ts.request(http.MethodGet, "/api/account", nil, token)
	require.Equal(t, http.StatusOK, rr.Code)
	var account response.Account
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &account))
	assert.Zero(t, account.Stats.TotalGames)
}

func TestSessionCookieAccepted(t *testing.T) {
	ts := newTestServer(t)
	token := login(t, ts, "carol")

	req := httptest.NewRequest(http.MethodGet, "/api/account", nil)
	req.AddCookie(&http.Cookie{Name: middleware.SessionCookieName, Value: token})
	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestLogout(t *testing.T) {
	ts := newTestServer(t)
	token := login(t, ts, "dave")

	rr := ts.request(http.MethodPost, "/api/logout", nil, token)
	require.Equal(t, http.StatusOK, rr.Code)

	rr = ts.request(http.MethodGet, "/api/account", nil, token)
	assert.Equal(t, http.StatusForbidden, rr.Code)
}

// Helper functions

func register(t *testing.T, ts *testServer, username string) {
	t.Helper()

	body := map[string]string{"username": username, "email": username + "@example.com", "password": "secret123"}
	rr := ts.request(http.MethodPost, "/api/register", body, "")
	require.Equal(t, http.StatusCreated, rr.Code)
}

func login(t *testing.T, ts *testServer, username string) string {
	t.Helper()
	register(t, ts, username)

	body := map[string]string{"username": username, "password": "secret123"}
	rr := ts.request(http.MethodPost, "/api/login", body, "")
	require.Equal(t, http.StatusOK, rr.Code)

	var resp response.AuthResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	return resp.SessionToken
}
