package web_test

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoginPage(t *testing.T) {
	ts := newWebTestServer(t)

	rr := ts.get("/login")
	require.Equal(t, http.StatusOK, rr.Code)

	doc := parseHTML(rr.Body)
	assertContainsElement(t, doc, "form#login-form input[name='username']")
	assertContainsElement(t, doc, "form#login-form input[name='password']")
	assertContainsText(t, doc, "nav", "Register")
}

func TestLoginRedirectsPlayerToLobby(t *testing.T) {
	ts := newWebTestServer(t)
	ts.createUser("alice", false)

	redirect := ts.login("alice")
	assert.Equal(t, "/lobby", redirect)

	cookie := ts.cookies.cookies["session"]
	require.NotNil(t, cookie)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, cookie.SameSite)
	assert.Equal(t, 24*60*60, cookie.MaxAge)
}

func TestLoginRedirectsAdminToDashboard(t *testing.T) {
	ts := newWebTestServer(t)
	ts.createUser("root", true)

	assert.Equal(t, "/admin", ts.login("root"))
}

func TestLoginWrongPassword(t *testing.T) {
	ts := newWebTestServer(t)
	ts.createUser("alice", false)

	rr := ts.postJSON("/login", map[string]string{"username": "alice", "password": "nope-nope"})
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.False(t, ts.cookies.hasSession())

	body := decodeJSON(t, rr)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Invalid username or password", body["message"])
}

func TestLoginWithFormFields(t *testing.T) {
	ts := newWebTestServer(t)
	ts.createUser("alice", false)

	rr := ts.postForm("/login", url.Values{"username": {"alice"}, "password": {testPassword}})
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, ts.cookies.hasSession())
}

func TestAuthenticatedVisitorSkipsLoginAndRegister(t *testing.T) {
	ts := newWebTestServer(t)
	ts.signIn("alice", false)

	assertRedirect(t, ts.get("/login"), "/lobby")
	assertRedirect(t, ts.get("/register"), "/lobby")
}

func TestRegister(t *testing.T) {
	ts := newWebTestServer(t)

	rr := ts.postJSON("/register", map[string]string{
		"username": "alice",
		"email":    "alice@example.com",
		"password": testPassword,
	})
	require.Equal(t, http.StatusCreated, rr.Code)

	body := decodeJSON(t, rr)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "/login", body["redirect"])

	// Registering does not log in
	assert.False(t, ts.cookies.hasSession())

	// The login page shows the confirmation once
	doc := parseHTML(ts.get("/login").Body)
	assertContainsText(t, doc, ".flash", "Account created")
	doc = parseHTML(ts.get("/login").Body)
	assertNotContainsElement(t, doc, ".flash")

	assert.Equal(t, "/lobby", ts.login("alice"))
}

func TestLoginUsesUsernameExactlyAsRegistered(t *testing.T) {
	ts := newWebTestServer(t)

	rr := ts.postJSON("/register", map[string]string{
		"username": "bob ",
		"email":    "bob@example.com",
		"password": testPassword,
	})
	require.Equal(t, http.StatusCreated, rr.Code)

	rr = ts.postJSON("/login", map[string]string{"username": "bob ", "password": testPassword})
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "/lobby", decodeJSON(t, rr)["redirect"])
	assert.True(t, ts.cookies.hasSession())

	// Matching is exact, so the unpadded name is a different user
	rr = ts.postJSON("/login", map[string]string{"username": "bob", "password": testPassword})
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestRegisterConflict(t *testing.T) {
	ts := newWebTestServer(t)
	ts.createUser("alice", false)

	cases := []struct {
		name  string
		user  string
		email string
	}{
		{"same username", "alice", "other@example.com"},
		{"same email", "alice2", "alice@example.com"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rr := ts.postJSON("/register", map[string]string{"username": tc.user, "email": tc.email, "password": testPassword})
			assert.Equal(t, http.StatusConflict, rr.Code)
			assert.Equal(t, "Username or email already exists", decodeJSON(t, rr)["message"])
		})
	}
}

func TestRegisterValidation(t *testing.T) {
	ts := newWebTestServer(t)

	rr := ts.postJSON("/register", map[string]string{"username": "alice", "email": "alice@example.com", "password": "123"})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, false, decodeJSON(t, rr)["success"])
}

func TestLogout(t *testing.T) {
	ts := newWebTestServer(t)
	ts.signIn("alice", false)

	rr := ts.get("/logout")
	assertRedirect(t, rr, "/login")
	assert.False(t, ts.cookies.hasSession())

	rr = ts.followRedirect(rr)
	require.Equal(t, http.StatusOK, rr.Code)
	assertContainsText(t, parseHTML(rr.Body), ".flash", "You have been logged out")

	assertRedirect(t, ts.get("/lobby"), "/login")
}

func TestLogoutRevokesToken(t *testing.T) {
	ts := newWebTestServer(t)
	ts.signIn("alice", false)
	stolen := ts.cookies.cookies["session"]

	ts.get("/logout")

	// Replaying the old cookie no longer works
	ts.cookies.cookies["session"] = stolen
	assertRedirect(t, ts.get("/lobby"), "/login")
}
