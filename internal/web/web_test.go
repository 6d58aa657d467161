package web_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/tankbattle/internal/factory"
	"github.com/mcoot/tankbattle/internal/model"
	"github.com/mcoot/tankbattle/internal/testutil"
	"github.com/mcoot/tankbattle/internal/web"
)

const testPassword = "secret123"

// webTestServer provides a test server for web interface testing
type webTestServer struct {
	t       *testing.T
	handler http.Handler
	app     *factory.TestApp
	cookies *cookieJar
}

// newWebTestServer creates a new test server with all dependencies wired
func newWebTestServer(t *testing.T) *webTestServer {
	t.Helper()

	app := factory.NewTestApp()
	t.Cleanup(func() { _ = app.Close() })

	router := web.NewRouter(web.RouterConfig{
		Logger:         testutil.NopLogger(),
		AuthService:    app.AuthService,
		HistoryService: app.HistoryService,
		AdminService:   app.AdminService,
		StaticDir:      "", // No static files in tests
	})

	return &webTestServer{
		t:       t,
		handler: router,
		app:     app,
		cookies: newCookieJar(),
	}
}

// request makes an HTTP request and returns the response
func (ts *webTestServer) request(method, path string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	// Add cookies from jar
	ts.cookies.addTo(req)

	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)

	// Extract Set-Cookie headers into jar
	ts.cookies.extract(rr)

	return rr
}

// get makes a GET request
func (ts *webTestServer) get(path string) *httptest.ResponseRecorder {
	return ts.request(http.MethodGet, path, nil, "")
}

// post makes a POST request without a body
func (ts *webTestServer) post(path string) *httptest.ResponseRecorder {
	return ts.request(http.MethodPost, path, nil, "")
}

// postJSON makes a POST request with a JSON body, as the page scripts do
func (ts *webTestServer) postJSON(path string, v any) *httptest.ResponseRecorder {
	b, err := json.Marshal(v)
	require.NoError(ts.t, err)
	return ts.request(http.MethodPost, path, bytes.NewReader(b), "application/json")
}

// postForm makes a POST request with form data
func (ts *webTestServer) postForm(path string, form url.Values) *httptest.ResponseRecorder {
	return ts.request(http.MethodPost, path, strings.NewReader(form.Encode()), "application/x-www-form-urlencoded")
}

// parseHTML parses the response body as HTML
func parseHTML(r io.Reader) *goquery.Document {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		panic(err)
	}
	return doc
}

// decodeJSON decodes a JSON response body into a map
func decodeJSON(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	return body
}

// cookieJar maintains cookies across requests (like a browser would)
type cookieJar struct {
	cookies map[string]*http.Cookie
}

func newCookieJar() *cookieJar {
	return &cookieJar{
		cookies: make(map[string]*http.Cookie),
	}
}

// addTo adds all cookies to the request
func (j *cookieJar) addTo(req *http.Request) {
	for _, cookie := range j.cookies {
		req.AddCookie(cookie)
	}
}

// extract extracts Set-Cookie headers from response
func (j *cookieJar) extract(rr *httptest.ResponseRecorder) {
	for _, cookie := range rr.Result().Cookies() {
		if cookie.MaxAge < 0 {
			// Cookie being deleted
			delete(j.cookies, cookie.Name)
		} else {
			j.cookies[cookie.Name] = cookie
		}
	}
}

// hasSession returns true if the session cookie is set
func (j *cookieJar) hasSession() bool {
	_, ok := j.cookies["session"]
	return ok
}

// Helper functions for common test operations

// createUser registers an account directly via the auth service
func (ts *webTestServer) createUser(username string, isAdmin bool) model.UserID {
	ts.t.Helper()
	id, err := ts.app.AuthService.Register(ts.t.Context(), username, username+"@example.com", testPassword)
	require.NoError(ts.t, err, "Expected registration to succeed")
	if isAdmin {
		require.NoError(ts.t, ts.app.AccountService.SetAdmin(ts.t.Context(), id, true))
	}
	return id
}

// login logs in through the login endpoint and returns the redirect target
func (ts *webTestServer) login(username string) string {
	ts.t.Helper()
	rr := ts.postJSON("/login", map[string]string{"username": username, "password": testPassword})
	require.Equal(ts.t, http.StatusOK, rr.Code, "Expected login to succeed")
	require.True(ts.t, ts.cookies.hasSession(), "Expected session cookie to be set")

	body := decodeJSON(ts.t, rr)
	require.Equal(ts.t, true, body["success"])
	return body["redirect"].(string)
}

// signIn creates a user and logs in as them
func (ts *webTestServer) signIn(username string, isAdmin bool) model.UserID {
	ts.t.Helper()
	id := ts.createUser(username, isAdmin)
	ts.login(username)
	return id
}

// recordGame saves a finished match for the given player
func (ts *webTestServer) recordGame(player model.UserID, mode model.GameMode, winner model.WinnerFlag) {
	ts.t.Helper()
	_, err := ts.app.HistoryService.Record(ts.t.Context(), historyParams(player, mode, winner))
	require.NoError(ts.t, err)
}

// followRedirect follows a redirect and returns the response
func (ts *webTestServer) followRedirect(rr *httptest.ResponseRecorder) *httptest.ResponseRecorder {
	ts.t.Helper()
	location := rr.Header().Get("Location")
	require.NotEmpty(ts.t, location, "Expected Location header for redirect")
	return ts.get(location)
}

// Assertion helpers

// assertRedirect asserts a 303 to the given location
func assertRedirect(t *testing.T, rr *httptest.ResponseRecorder, location string) {
	t.Helper()
	require.Equal(t, http.StatusSeeOther, rr.Code)
	require.Equal(t, location, rr.Header().Get("Location"))
}

// assertContainsElement asserts that the document contains an element matching the selector
func assertContainsElement(t *testing.T, doc *goquery.Document, selector string) {
	t.Helper()
	if doc.Find(selector).Length() == 0 {
		t.Errorf("Expected to find element matching %q, but none found", selector)
	}
}

// assertNotContainsElement asserts that the document does not contain an element matching the selector
func assertNotContainsElement(t *testing.T, doc *goquery.Document, selector string) {
	t.Helper()
	if doc.Find(selector).Length() > 0 {
		t.Errorf("Expected NOT to find element matching %q, but found %d", selector, doc.Find(selector).Length())
	}
}

// assertContainsText asserts that the element matching the selector contains the text
func assertContainsText(t *testing.T, doc *goquery.Document, selector, text string) {
	t.Helper()
	el := doc.Find(selector)
	if el.Length() == 0 {
		t.Errorf("Expected to find element matching %q, but none found", selector)
		return
	}
	if !strings.Contains(el.Text(), text) {
		t.Errorf("Expected element %q to contain %q, but got %q", selector, text, el.Text())
	}
}
