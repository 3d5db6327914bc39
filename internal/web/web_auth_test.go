package web_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clearview-aqi/dashboard/internal/middleware"
	"github.com/clearview-aqi/dashboard/internal/model"
	"github.com/clearview-aqi/dashboard/internal/web/handler"
)

func TestAnonymousNavigation(t *testing.T) {
	ts := newWebTestServer(t)

	rr := ts.get("/login")
	require.Equal(t, http.StatusOK, rr.Code)

	doc := parseHTML(rr.Body)
	assert.Equal(t, []string{"Login", "Signup"}, navLabels(doc))
	assertContainsText(t, doc, "nav li.active", "Login")
	assertNotContainsElement(t, doc, ".sidebar .user")
	assert.Empty(t, ts.cookies.sessionToken(), "Anonymous visitors need no session cookie")
}

func TestRootRedirects(t *testing.T) {
	ts := newWebTestServer(t)

	rr := ts.get("/")
	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/login", rr.Header().Get("Location"))

	ts.signupAndLogin("alice", "s3cret!")

	rr = ts.get("/")
	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/dashboard", rr.Header().Get("Location"))
}

func TestSignupPage(t *testing.T) {
	ts := newWebTestServer(t)

	rr := ts.get("/signup")
	require.Equal(t, http.StatusOK, rr.Code)

	doc := parseHTML(rr.Body)
	assertContainsElement(t, doc, `form[action="/signup"]`)
	assertContainsElement(t, doc, `input[name="username"]`)
	assertContainsElement(t, doc, `input[name="password"][type="password"]`)
	assertContainsElement(t, doc, `input[name="password_confirm"][type="password"]`)
}

func TestSignupSuccess(t *testing.T) {
	ts := newWebTestServer(t)
	ts.get("/signup")
	before := ts.cookies.sessionToken()

	rr := ts.signup("alice", "s3cret!", "s3cret!")
	require.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/login", rr.Header().Get("Location"))

	// Signup never signs the browser in
	assert.Equal(t, before, ts.cookies.sessionToken())
	assert.Empty(t, ts.cookies.sessionToken())

	rr = ts.followRedirect(rr)
	doc := parseHTML(rr.Body)
	assertContainsText(t, doc, ".flash-success", handler.MsgSignupSuccess)
	assert.Equal(t, []string{"Login", "Signup"}, navLabels(doc))

	ok, err := ts.app.Credentials.Verify(context.Background(), "alice", "s3cret!")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestSignupDuplicateUser(t *testing.T) {
	ts := newWebTestServer(t)

	rr := ts.signup("alice", "first", "first")
	require.Equal(t, http.StatusSeeOther, rr.Code)

	rr = ts.signup("alice", "second", "second")
	require.Equal(t, http.StatusOK, rr.Code)

	doc := parseHTML(rr.Body)
	assertContainsText(t, doc, "#form-error", handler.MsgDuplicateUser)
	val, _ := doc.Find(`input[name="username"]`).Attr("value")
	assert.Equal(t, "alice", val)

	// The original credential is untouched
	ok, err := ts.app.Credentials.Verify(context.Background(), "alice", "first")
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = ts.app.Credentials.Verify(context.Background(), "alice", "second")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSignupPasswordMismatch(t *testing.T) {
	ts := newWebTestServer(t)

	rr := ts.signup("bob", "abc", "abd")
	require.Equal(t, http.StatusOK, rr.Code)

	doc := parseHTML(rr.Body)
	assertContainsText(t, doc, `.field-error[data-field="password_confirm"]`, handler.MsgPasswordMismatch)

	ok, err := ts.app.Credentials.Verify(context.Background(), "bob", "abc")
	require.NoError(t, err)
	assert.False(t, ok, "Mismatched signup must not register the user")
}

func TestSignupValidationErrors(t *testing.T) {
	tests := []struct {
		name     string
		username string
		password string
		confirm  string
		field    string
		message  string
	}{
		{"missing username", "", "pw", "pw", "username", "Username is required"},
		{"short username", "al", "pw", "pw", "username", "Username must be at least 3 characters"},
		{"bad characters", "al ice", "pw", "pw", "username", "Username may only contain letters, digits, dots, underscores and dashes"},
		{"missing password", "alice", "", "", "password", "Password is required"},
		{"overlong password", "alice", strings.Repeat("x", 73), strings.Repeat("x", 73), "password", "Password must be at most 72 bytes"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newWebTestServer(t)

			rr := ts.signup(tt.username, tt.password, tt.confirm)
			require.Equal(t, http.StatusOK, rr.Code)

			doc := parseHTML(rr.Body)
			assertContainsText(t, doc, `.field-error[data-field="`+tt.field+`"]`, tt.message)
		})
	}
}

func TestLoginSuccess(t *testing.T) {
	ts := newWebTestServer(t)
	require.Equal(t, http.StatusSeeOther, ts.signup("alice", "s3cret!", "s3cret!").Code)
	anonymous := ts.cookies.sessionToken()

	rr := ts.login("alice", "s3cret!")
	require.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/dashboard", rr.Header().Get("Location"))
	assert.NotEqual(t, anonymous, ts.cookies.sessionToken(), "Login must issue a fresh session token")
	assert.NotEmpty(t, ts.cookies.sessionToken())

	rr = ts.followRedirect(rr)
	require.Equal(t, http.StatusOK, rr.Code)

	doc := parseHTML(rr.Body)
	assertContainsText(t, doc, ".flash-success", "Logged in as alice")
	assertContainsText(t, doc, ".sidebar .user", "alice")
	assert.Equal(t, []string{"Dashboard", "Connect", "Logout"}, navLabels(doc))
}

func TestLoginOldTokenIsDiscarded(t *testing.T) {
	ts := newWebTestServer(t)
	require.Equal(t, http.StatusSeeOther, ts.signup("alice", "s3cret!", "s3cret!").Code)

	previous, err := ts.app.AuthService.NewSession(context.Background())
	require.NoError(t, err)
	ts.cookies.cookies["session"] = &http.Cookie{Name: "session", Value: previous.Token}

	require.Equal(t, http.StatusSeeOther, ts.login("alice", "s3cret!").Code)
	assert.NotEqual(t, previous.Token, ts.cookies.sessionToken())

	_, err = ts.app.AuthService.Resume(context.Background(), previous.Token)
	assert.Error(t, err)
}

func TestLoginInvalidCredentials(t *testing.T) {
	ts := newWebTestServer(t)
	require.Equal(t, http.StatusSeeOther, ts.signup("alice", "s3cret!", "s3cret!").Code)

	wrongPassword := ts.login("alice", "wrong")
	require.Equal(t, http.StatusOK, wrongPassword.Code)
	wrongDoc := parseHTML(wrongPassword.Body)

	unknownUser := ts.login("mallory", "s3cret!")
	require.Equal(t, http.StatusOK, unknownUser.Code)
	unknownDoc := parseHTML(unknownUser.Body)

	assertContainsText(t, wrongDoc, "#form-error", handler.MsgInvalidCredentials)
	assertContainsText(t, unknownDoc, "#form-error", handler.MsgInvalidCredentials)
	assert.Equal(t, wrongDoc.Find("#form-error").Text(), unknownDoc.Find("#form-error").Text())

	// Still anonymous
	assert.Equal(t, []string{"Login", "Signup"}, navLabels(unknownDoc))
	rr := ts.get("/dashboard")
	assert.Equal(t, http.StatusSeeOther, rr.Code)
}

func TestLoginMissingFields(t *testing.T) {
	ts := newWebTestServer(t)

	rr := ts.login("", "")
	require.Equal(t, http.StatusOK, rr.Code)

	doc := parseHTML(rr.Body)
	assertContainsText(t, doc, "#form-error", handler.MsgMissingCredentials)
}

func TestLoginRedirectsToNext(t *testing.T) {
	ts := newWebTestServer(t)
	require.Equal(t, http.StatusSeeOther, ts.signup("alice", "s3cret!", "s3cret!").Code)

	rr := ts.get("/connect")
	require.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/login?next=%2Fconnect", rr.Header().Get("Location"))

	rr = ts.followRedirect(rr)
	doc := parseHTML(rr.Body)
	next, ok := doc.Find(`input[name="next"]`).Attr("value")
	require.True(t, ok)
	assert.Equal(t, "/connect", next)

	rr = ts.post("/login", url.Values{
		"username": {"alice"},
		"password": {"s3cret!"},
		"next":     {next},
	})
	require.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/connect", rr.Header().Get("Location"))
}

func TestLoginIgnoresOffsiteNext(t *testing.T) {
	ts := newWebTestServer(t)
	require.Equal(t, http.StatusSeeOther, ts.signup("alice", "s3cret!", "s3cret!").Code)

	rr := ts.post("/login", url.Values{
		"username": {"alice"},
		"password": {"s3cret!"},
		"next":     {"//evil.example.com/"},
	})
	require.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/dashboard", rr.Header().Get("Location"))
}

func TestAuthenticatedUserSkipsAuthPages(t *testing.T) {
	ts := newWebTestServer(t)
	ts.signupAndLogin("alice", "s3cret!")

	for _, path := range []string{"/login", "/signup"} {
		rr := ts.get(path)
		assert.Equal(t, http.StatusSeeOther, rr.Code, path)
		assert.Equal(t, "/dashboard", rr.Header().Get("Location"), path)
	}
}

func TestLogout(t *testing.T) {
	ts := newWebTestServer(t)
	ts.signupAndLogin("alice", "s3cret!")
	token := ts.cookies.sessionToken()

	rr := ts.post("/logout", nil)
	require.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/login", rr.Header().Get("Location"))
	assert.Empty(t, ts.cookies.sessionToken())

	_, err := ts.app.Sessions.GetSession(context.Background(), token)
	assert.ErrorIs(t, err, model.ErrSessionNotFound)

	rr = ts.followRedirect(rr)
	doc := parseHTML(rr.Body)
	assertContainsText(t, doc, ".flash-info", handler.MsgLoggedOut)
	assert.Equal(t, []string{"Login", "Signup"}, navLabels(doc))

	rr = ts.get("/dashboard")
	assert.Equal(t, http.StatusSeeOther, rr.Code)
}

func TestLogoutWhenAnonymous(t *testing.T) {
	ts := newWebTestServer(t)

	rr := ts.post("/logout", nil)
	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/login", rr.Header().Get("Location"))
}

func TestLoginRateLimited(t *testing.T) {
	limiter := middleware.NewRateLimiter("web_login_test", 0.001, 2)
	ts := newWebTestServerWithLimiter(t, limiter)
	require.Equal(t, http.StatusSeeOther, ts.signup("alice", "s3cret!", "s3cret!").Code)

	assert.Equal(t, http.StatusOK, ts.login("alice", "wrong").Code)
	assert.Equal(t, http.StatusOK, ts.login("alice", "wrong").Code)

	rr := ts.login("alice", "s3cret!")
	require.Equal(t, http.StatusTooManyRequests, rr.Code)
	doc := parseHTML(rr.Body)
	assertContainsText(t, doc, "#form-error", handler.MsgTooManyAttempts)

	// The throttled attempt did not sign the browser in
	assert.Equal(t, http.StatusSeeOther, ts.get("/dashboard").Code)
}

func TestLoginRateLimitIgnoresForwardedFor(t *testing.T) {
	limiter := middleware.NewRateLimiter("web_login_forwarded_test", 0.001, 2)
	ts := newWebTestServerWithLimiter(t, limiter)

	limited := 0
	for i := 0; i < 20; i++ {
		form := url.Values{"username": {"alice"}, "password": {"wrong"}}
		req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		req.Header.Set("X-Forwarded-For", fmt.Sprintf("10.0.0.%d", i))

		rr := httptest.NewRecorder()
		ts.handler.ServeHTTP(rr, req)
		if rr.Code == http.StatusTooManyRequests {
			limited++
		}
	}
	assert.Equal(t, 18, limited)
}

// TestAliceScenario walks the full browser journey: signup, a bad login,
// a good login, the dashboard and logout
func TestAliceScenario(t *testing.T) {
	ts := newWebTestServer(t)

	rr := ts.signup("alice", "s3cret!", "s3cret!")
	require.Equal(t, http.StatusSeeOther, rr.Code)

	rr = ts.signup("alice", "other", "other")
	require.Equal(t, http.StatusOK, rr.Code)
	assertContainsText(t, parseHTML(rr.Body), "#form-error", handler.MsgDuplicateUser)

	rr = ts.login("alice", "wrong")
	require.Equal(t, http.StatusOK, rr.Code)
	assertContainsText(t, parseHTML(rr.Body), "#form-error", handler.MsgInvalidCredentials)

	rr = ts.login("alice", "s3cret!")
	require.Equal(t, http.StatusSeeOther, rr.Code)

	rr = ts.followRedirect(rr)
	require.Equal(t, http.StatusOK, rr.Code)
	doc := parseHTML(rr.Body)
	assertContainsElement(t, doc, `iframe[title="AQI"]`)

	rr = ts.post("/logout", nil)
	require.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, http.StatusSeeOther, ts.get("/dashboard").Code)
}
