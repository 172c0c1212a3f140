package handler

import (
	"context"
	"errors"
	"html"
	"net/http"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/DukeRupert/authpages/internal/backend"
	"github.com/DukeRupert/authpages/internal/domain"
	"github.com/DukeRupert/authpages/internal/form"
	"github.com/DukeRupert/authpages/internal/page"
	"github.com/DukeRupert/authpages/web"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// =============================================================================
// Test Helpers
// =============================================================================

// fakeBackend implements backend.Backend. Nil funcs succeed immediately.
type fakeBackend struct {
	LoginFunc                func(ctx context.Context, email, password string) error
	SocialLoginFunc          func(ctx context.Context, provider string) error
	RegisterFunc             func(ctx context.Context, params backend.RegisterParams) error
	RequestPasswordResetFunc func(ctx context.Context, email string) error
	VerifyResetTokenFunc     func(ctx context.Context, token string) error
	ResetPasswordFunc        func(ctx context.Context, token, newPassword string) error

	loginCalls  atomic.Int32
	verifyCalls atomic.Int32
	resetCalls  atomic.Int32
}

func (f *fakeBackend) Login(ctx context.Context, email, password string) error {
	f.loginCalls.Add(1)
	if f.LoginFunc != nil {
		return f.LoginFunc(ctx, email, password)
	}
	return nil
}

func (f *fakeBackend) SocialLogin(ctx context.Context, provider string) error {
	if f.SocialLoginFunc != nil {
		return f.SocialLoginFunc(ctx, provider)
	}
	return nil
}

func (f *fakeBackend) Register(ctx context.Context, params backend.RegisterParams) error {
	if f.RegisterFunc != nil {
		return f.RegisterFunc(ctx, params)
	}
	return nil
}

func (f *fakeBackend) RequestPasswordReset(ctx context.Context, email string) error {
	if f.RequestPasswordResetFunc != nil {
		return f.RequestPasswordResetFunc(ctx, email)
	}
	return nil
}

func (f *fakeBackend) VerifyResetToken(ctx context.Context, token string) error {
	f.verifyCalls.Add(1)
	if f.VerifyResetTokenFunc != nil {
		return f.VerifyResetTokenFunc(ctx, token)
	}
	return nil
}

func (f *fakeBackend) ResetPassword(ctx context.Context, token, newPassword string) error {
	f.resetCalls.Add(1)
	if f.ResetPasswordFunc != nil {
		return f.ResetPasswordFunc(ctx, token, newPassword)
	}
	return nil
}

type testServer struct {
	mux   *http.ServeMux
	pages *page.Registry
}

func newTestServer(t *testing.T, b backend.Backend) *testServer {
	t.Helper()
	logger := discardLogger()

	renderer, err := NewRenderer(RendererConfig{FS: web.Templates(), Logger: logger})
	require.NoError(t, err)

	pages := page.NewRegistry(time.Hour, logger)
	t.Cleanup(pages.Close)

	cfg := AuthConfig{AppName: "AppLogo", CompanyName: "Your Company", ResetRedirectDelay: 3 * time.Second}
	mux := http.NewServeMux()
	NewAuthHandler(b, pages, renderer, logger, cfg).RegisterRoutes(mux)
	NewPageHandler(renderer, logger, cfg).RegisterRoutes(mux)

	return &testServer{mux: mux, pages: pages}
}

func newSimulatedServer(t *testing.T) *testServer {
	t.Helper()
	sim, err := backend.NewSimulated(backend.SimulatedConfig{
		DemoEmail:    "user@example.com",
		DemoPassword: "password123",
		HashCost:     bcrypt.MinCost,
		Logger:       discardLogger(),
	})
	require.NoError(t, err)
	return newTestServer(t, sim)
}

func (s *testServer) get(t *testing.T, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	s.mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func (s *testServer) post(t *testing.T, target string, values url.Values) *httptest.ResponseRecorder {
	t.Helper()
	return s.serveForm(target, values)
}

// serveForm posts values to target. It takes no *testing.T so it is safe to
// call from goroutines other than the test's own.
func (s *testServer) serveForm(target string, values url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	s.mux.ServeHTTP(rec, req)
	return rec
}

var instanceRe = regexp.MustCompile(`name="instance" value="([^"]+)"`)

// mount GETs target and returns the page instance ID it rendered.
func (s *testServer) mount(t *testing.T, target string) string {
	t.Helper()
	rec := s.get(t, target)
	require.Equal(t, http.StatusOK, rec.Code)
	m := instanceRe.FindStringSubmatch(rec.Body.String())
	require.Len(t, m, 2, "page should carry an instance field")
	return m[1]
}

// submitDisabled matches the primary submit button rendered disabled.
const submitDisabled = `disabled:opacity-50" disabled>`

// =============================================================================
// Login
// =============================================================================

func TestShowLogin_RendersShellAndEmptyForm(t *testing.T) {
	s := newSimulatedServer(t)

	for _, path := range []string{"/login", "/"} {
		rec := s.get(t, path)
		require.Equal(t, http.StatusOK, rec.Code, path)
		body := rec.Body.String()

		assert.Contains(t, body, "Welcome Back!")
		assert.Contains(t, body, `href="/register"`)
		assert.Contains(t, body, "Sign Up")
		assert.Contains(t, body, `href="/privacy"`)
		assert.Contains(t, body, `href="/terms"`)
		assert.Contains(t, body, "Your Company")
		assert.Contains(t, body, "Sign in with Google")
		assert.Contains(t, body, "Sign in with GitHub")
		assert.NotContains(t, body, "user@example.com", "no credentials shipped as defaults")
		assert.NotContains(t, body, submitDisabled)
		assert.NotContains(t, body, `http-equiv="refresh"`)
	}
}

func TestShowLogin_FlashMessages(t *testing.T) {
	s := newSimulatedServer(t)

	assert.Contains(t, s.get(t, "/login?registered=1").Body.String(), msgRegistered)
	assert.Contains(t, s.get(t, "/login?reset=1").Body.String(), msgPasswordReset)
}

func TestLogin_DemoCredentialsNavigateToDashboard(t *testing.T) {
	s := newSimulatedServer(t)
	id := s.mount(t, "/login")

	rec := s.post(t, "/login", url.Values{
		"instance": {id},
		"email":    {"User@Example.com "},
		"password": {"password123"},
	})

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/dashboard", rec.Header().Get("Location"))
	assert.Equal(t, 0, s.pages.Len(), "instance is dropped on navigation")
}

func TestLogin_OtherCredentialsShowGenericFailure(t *testing.T) {
	s := newSimulatedServer(t)

	tests := []struct {
		name     string
		email    string
		password string
	}{
		{"wrong password", "user@example.com", "password124"},
		{"unknown email", "someone@example.com", "password123"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id := s.mount(t, "/login")
			rec := s.post(t, "/login", url.Values{
				"instance": {id},
				"email":    {tt.email},
				"password": {tt.password},
			})

			require.Equal(t, http.StatusOK, rec.Code)
			assert.Empty(t, rec.Header().Get("Location"))
			body := rec.Body.String()
			assert.Contains(t, body, "Login Failed")
			assert.Contains(t, body, "Invalid email or password. Please try again.")
			assert.Contains(t, body, `value="`+tt.email+`"`, "email is kept for another try")
		})
	}
}

func TestLogin_InvalidFieldsNeverReachBackend(t *testing.T) {
	fb := &fakeBackend{}
	s := newTestServer(t, fb)
	id := s.mount(t, "/login")

	for _, email := range []string{"plainaddress", "@missing-local.org", "user@", "user@@example.com", "user example@x.com"} {
		rec := s.post(t, "/login", url.Values{
			"instance": {id},
			"email":    {email},
			"password": {"123"},
		})

		body := rec.Body.String()
		assert.Contains(t, body, "Invalid email address.", email)
		assert.Contains(t, body, "Password must be at least 6 characters.", email)
		assert.NotContains(t, body, "Login Failed")
	}
	assert.Equal(t, int32(0), fb.loginCalls.Load())
}

func TestLogin_ReturnTo(t *testing.T) {
	s := newSimulatedServer(t)

	tests := []struct {
		returnTo string
		want     string
	}{
		{"/privacy", "/privacy"},
		{"https://evil.com", "/dashboard"},
		{"//evil.com", "/dashboard"},
	}

	for _, tt := range tests {
		t.Run(tt.returnTo, func(t *testing.T) {
			id := s.mount(t, "/login")
			rec := s.post(t, "/login", url.Values{
				"instance":  {id},
				"email":     {"user@example.com"},
				"password":  {"password123"},
				"return_to": {tt.returnTo},
			})
			assert.Equal(t, tt.want, rec.Header().Get("Location"))
		})
	}
}

func TestLogin_ResubmitWhileInFlightIsNoOp(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	fb := &fakeBackend{
		LoginFunc: func(ctx context.Context, email, password string) error {
			close(started)
			<-release
			return nil
		},
	}
	s := newTestServer(t, fb)
	id := s.mount(t, "/login")

	values := url.Values{
		"instance": {id},
		"email":    {"user@example.com"},
		"password": {"password123"},
	}

	var wg sync.WaitGroup
	var first *httptest.ResponseRecorder
	wg.Add(1)
	go func() {
		defer wg.Done()
		first = s.serveForm("/login", values)
	}()
	<-started

	second := s.post(t, "/login", values)
	require.Equal(t, http.StatusOK, second.Code)
	body := second.Body.String()
	assert.Contains(t, body, submitDisabled, "submit control is disabled while in flight")
	assert.Contains(t, body, "animate-spin")
	assert.Contains(t, body, `<meta http-equiv="refresh" content="2;url=/login">`, "a stuck tab recovers on its own")

	close(release)
	wg.Wait()

	assert.Equal(t, http.StatusSeeOther, first.Code)
	assert.Equal(t, int32(1), fb.loginCalls.Load())
}

func TestForgotPassword_ResubmitWhileInFlightRefreshes(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	var calls atomic.Int32
	fb := &fakeBackend{
		RequestPasswordResetFunc: func(ctx context.Context, email string) error {
			calls.Add(1)
			close(started)
			<-release
			return nil
		},
	}
	s := newTestServer(t, fb)
	id := s.mount(t, "/forgot-password")

	values := url.Values{"instance": {id}, "email": {"user@example.com"}}
	done := make(chan struct{})
	go func() {
		defer close(done)
		s.serveForm("/forgot-password", values)
	}()
	<-started

	second := s.post(t, "/forgot-password", url.Values{"instance": {id}, "email": {"other@example.com"}})
	body := second.Body.String()
	assert.Contains(t, body, `<meta http-equiv="refresh" content="2;url=/forgot-password">`)
	assert.Contains(t, body, `value="user@example.com"`, "values posted while in flight are ignored")

	close(release)
	<-done
	assert.Equal(t, int32(1), calls.Load())
}

func TestLogin_UnmountCancelsSubmission(t *testing.T) {
	started := make(chan struct{})
	var sawCancel atomic.Bool
	fb := &fakeBackend{
		LoginFunc: func(ctx context.Context, email, password string) error {
			close(started)
			<-ctx.Done()
			sawCancel.Store(true)
			return ctx.Err()
		},
	}
	s := newTestServer(t, fb)
	id := s.mount(t, "/login")

	done := make(chan *httptest.ResponseRecorder, 1)
	go func() {
		done <- s.serveForm("/login", url.Values{
			"instance": {id},
			"email":    {"user@example.com"},
			"password": {"password123"},
		})
	}()
	<-started

	s.pages.Unmount(id)

	select {
	case rec := <-done:
		assert.True(t, sawCancel.Load())
		assert.NotEqual(t, http.StatusSeeOther, rec.Code)
		assert.NotContains(t, rec.Body.String(), "Login Failed", "abandoned submissions show no failure")
	case <-time.After(2 * time.Second):
		t.Fatal("submission outlived its page instance")
	}
}

func TestLogin_ExpiredInstanceIsRemounted(t *testing.T) {
	s := newSimulatedServer(t)

	rec := s.post(t, "/login", url.Values{
		"instance": {"gone"},
		"email":    {"user@example.com"},
		"password": {"password123"},
	})

	assert.Equal(t, http.StatusSeeOther, rec.Code)
}

// =============================================================================
// Social Login
// =============================================================================

func TestSocialLogin_NavigatesToDashboard(t *testing.T) {
	var gotProvider string
	fb := &fakeBackend{
		SocialLoginFunc: func(ctx context.Context, provider string) error {
			gotProvider = provider
			return nil
		},
	}
	s := newTestServer(t, fb)
	id := s.mount(t, "/login")

	rec := s.post(t, "/login/social/github", url.Values{"instance": {id}})

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/dashboard", rec.Header().Get("Location"))
	assert.Equal(t, "github", gotProvider)
}

func TestSocialLogin_FailureShowsBanner(t *testing.T) {
	fb := &fakeBackend{
		SocialLoginFunc: func(ctx context.Context, provider string) error {
			return domain.Unauthorized("test", "Google sign-in was cancelled.")
		},
	}
	s := newTestServer(t, fb)
	id := s.mount(t, "/login")

	rec := s.post(t, "/login/social/google", url.Values{"instance": {id}})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Social Login Failed")
	assert.Contains(t, rec.Body.String(), "Google sign-in was cancelled.")
}

func TestSocialLogin_UnknownProvider(t *testing.T) {
	s := newSimulatedServer(t)

	rec := s.post(t, "/login/social/myspace", url.Values{})

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// =============================================================================
// Registration
// =============================================================================

func TestRegister_SuccessRedirectsToLogin(t *testing.T) {
	var got backend.RegisterParams
	fb := &fakeBackend{
		RegisterFunc: func(ctx context.Context, params backend.RegisterParams) error {
			got = params
			return nil
		},
	}
	s := newTestServer(t, fb)
	id := s.mount(t, "/register")

	rec := s.post(t, "/register", url.Values{
		"instance":              {id},
		"name":                  {"  Ada Lovelace "},
		"email":                 {"ADA@example.com"},
		"password":              {"analytical"},
		"password_confirmation": {"analytical"},
		"terms":                 {"on"},
	})

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login?registered=1", rec.Header().Get("Location"))
	assert.Equal(t, backend.RegisterParams{Name: "Ada Lovelace", Email: "ada@example.com", Password: "analytical"}, got)
}

func TestRegister_ValidationErrors(t *testing.T) {
	s := newSimulatedServer(t)
	id := s.mount(t, "/register")

	rec := s.post(t, "/register", url.Values{
		"instance":              {id},
		"email":                 {"ada@example.com"},
		"password":              {"analytical"},
		"password_confirmation": {"analyticaL"},
	})

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Name is required.")
	assert.Contains(t, body, html.EscapeString(form.MsgPasswordsMismatch))
	assert.Contains(t, body, `data-field-error="password_confirmation"`)
	assert.NotContains(t, body, `data-field-error="password"`)
	assert.Contains(t, body, "You must accept the Terms of Service.")
}

// =============================================================================
// Forgot Password
// =============================================================================

func TestForgotPassword_ClearsFieldAndShowsNeutralBanner(t *testing.T) {
	s := newSimulatedServer(t)

	for _, email := range []string{"user@example.com", "nobody@nowhere.test"} {
		t.Run(email, func(t *testing.T) {
			id := s.mount(t, "/forgot-password")
			rec := s.post(t, "/forgot-password", url.Values{
				"instance": {id},
				"email":    {email},
			})

			require.Equal(t, http.StatusOK, rec.Code)
			body := rec.Body.String()
			assert.Contains(t, body, "Instructions Sent")
			assert.Contains(t, body, html.EscapeString(msgInstructionsSent))
			assert.NotContains(t, body, email, "field is cleared after success")
			assert.Empty(t, rec.Header().Get("Location"), "no navigation")
		})
	}
}

func TestForgotPassword_InvalidEmail(t *testing.T) {
	fb := &fakeBackend{}
	called := false
	fb.RequestPasswordResetFunc = func(ctx context.Context, email string) error {
		called = true
		return nil
	}
	s := newTestServer(t, fb)
	id := s.mount(t, "/forgot-password")

	rec := s.post(t, "/forgot-password", url.Values{"instance": {id}, "email": {"nope"}})

	assert.Contains(t, rec.Body.String(), "Invalid email address.")
	assert.NotContains(t, rec.Body.String(), "Instructions Sent")
	assert.False(t, called)
}

// =============================================================================
// Password Reset
// =============================================================================

func TestShowResetPassword_MissingTokenHidesForm(t *testing.T) {
	fb := &fakeBackend{}
	s := newTestServer(t, fb)

	rec := s.get(t, "/reset-password")

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, msgResetTokenMissing)
	assert.NotContains(t, body, `name="new_password"`)
	assert.NotContains(t, body, `name="confirm_new_password"`)
	assert.Equal(t, int32(0), fb.verifyCalls.Load())
}

func TestShowResetPassword_FailsClosed(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"rejected token", domain.Invalid("test", "expired")},
		{"verification unavailable", errors.New("connection refused")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fb := &fakeBackend{
				VerifyResetTokenFunc: func(ctx context.Context, token string) error { return tt.err },
			}
			s := newTestServer(t, fb)

			rec := s.get(t, "/reset-password?token=abc123")

			body := rec.Body.String()
			assert.Contains(t, body, "Invalid Link")
			assert.Contains(t, body, msgResetTokenInvalid)
			assert.NotContains(t, body, `name="new_password"`)
		})
	}
}

func TestResetPassword_SuccessShowsBannerAndRedirects(t *testing.T) {
	var gotToken, gotPassword string
	fb := &fakeBackend{
		ResetPasswordFunc: func(ctx context.Context, token, newPassword string) error {
			gotToken, gotPassword = token, newPassword
			return nil
		},
	}
	s := newTestServer(t, fb)

	first := s.get(t, "/reset-password?token=abc123")
	require.Contains(t, first.Body.String(), `name="new_password"`)
	id := instanceRe.FindStringSubmatch(first.Body.String())[1]

	values := url.Values{
		"instance":             {id},
		"token":                {"abc123"},
		"new_password":         {"correct horse"},
		"confirm_new_password": {"correct horse"},
	}
	rec := s.post(t, "/reset-password", values)

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, msgPasswordResetDone)
	assert.Contains(t, body, `<meta http-equiv="refresh" content="3;url=/login?reset=1">`)
	assert.Contains(t, body, submitDisabled)
	assert.Equal(t, "abc123", gotToken)
	assert.Equal(t, "correct horse", gotPassword)

	// resubmitting after success is ignored
	again := s.post(t, "/reset-password", values)
	assert.Contains(t, again.Body.String(), msgPasswordResetDone)
	assert.Equal(t, int32(1), fb.resetCalls.Load())
}

func TestResetPassword_ValidationErrors(t *testing.T) {
	fb := &fakeBackend{}
	s := newTestServer(t, fb)
	id := s.mount(t, "/reset-password?token=abc123")

	tests := []struct {
		name    string
		pass    string
		confirm string
		field   string
		message string
	}{
		{"too short", "short", "short", "new_password", "Password must be at least 8 characters."},
		{"mismatch", "longenough", "longenougH", "confirm_new_password", html.EscapeString(form.MsgPasswordsMismatch)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := s.post(t, "/reset-password", url.Values{
				"instance":             {id},
				"new_password":         {tt.pass},
				"confirm_new_password": {tt.confirm},
			})

			body := rec.Body.String()
			assert.Contains(t, body, tt.message)
			assert.Contains(t, body, `data-field-error="`+tt.field+`"`)
		})
	}
	assert.Equal(t, int32(0), fb.resetCalls.Load())
}

func TestResetPassword_ExpiredInstanceReverifiesToken(t *testing.T) {
	fb := &fakeBackend{}
	s := newTestServer(t, fb)

	rec := s.post(t, "/reset-password", url.Values{
		"instance":             {"evicted"},
		"token":                {"abc123"},
		"new_password":         {"correct horse"},
		"confirm_new_password": {"correct horse"},
	})

	assert.Contains(t, rec.Body.String(), msgPasswordResetDone)
	assert.Equal(t, int32(1), fb.verifyCalls.Load())

	rec = s.post(t, "/reset-password", url.Values{
		"instance":             {"evicted"},
		"new_password":         {"correct horse"},
		"confirm_new_password": {"correct horse"},
	})
	assert.Contains(t, rec.Body.String(), "Invalid Link")
	assert.NotContains(t, rec.Body.String(), `name="new_password"`)
}

func TestResetPassword_TokenRejectedOnSubmit(t *testing.T) {
	fb := &fakeBackend{
		ResetPasswordFunc: func(ctx context.Context, token, newPassword string) error {
			return domain.Invalid("test", backend.MsgInvalidResetToken)
		},
	}
	s := newTestServer(t, fb)
	id := s.mount(t, "/reset-password?token=abc123")

	rec := s.post(t, "/reset-password", url.Values{
		"instance":             {id},
		"new_password":         {"correct horse"},
		"confirm_new_password": {"correct horse"},
	})

	assert.Contains(t, rec.Body.String(), "Invalid Link")
	assert.NotContains(t, rec.Body.String(), `name="new_password"`)
}

// =============================================================================
// Static Pages and Fallback
// =============================================================================

func TestStaticPages(t *testing.T) {
	s := newSimulatedServer(t)

	tests := map[string]string{
		"/dashboard": "Welcome to your dashboard!",
		"/privacy":   "Privacy Policy",
		"/terms":     "Terms of Service",
	}
	for path, want := range tests {
		rec := s.get(t, path)
		assert.Equal(t, http.StatusOK, rec.Code, path)
		assert.Contains(t, rec.Body.String(), want, path)
	}
}

func TestUnmatchedPathRendersNotFound(t *testing.T) {
	s := newSimulatedServer(t)

	rec := s.get(t, "/does-not-exist")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Oops! Page not found")
}

// =============================================================================
// Helper Function Tests
// =============================================================================

func TestIsSafeRedirectURL(t *testing.T) {
	tests := []struct {
		name string
		url  string
		safe bool
	}{
		{"simple path", "/dashboard", true},
		{"path with query", "/login?reset=1", true},
		{"root path", "/", true},
		{"protocol-relative", "//evil.com", false},
		{"backslash trick", "/\\evil.com", false},
		{"http URL", "http://evil.com", false},
		{"javascript scheme", "javascript:alert(1)", false},
		{"empty", "", false},
		{"no leading slash", "dashboard", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isSafeRedirectURL(tt.url); got != tt.safe {
				t.Errorf("isSafeRedirectURL(%q) = %v, want %v", tt.url, got, tt.safe)
			}
		})
	}
}
