// Package handler contains HTTP handlers for the auth pages.
//
// This file implements the login, social login, registration, forgot
// password and password reset workflows. Every GET mounts a page instance
// (see internal/page) that owns the page's form controllers; the instance ID
// travels back with each POST in the hidden "instance" field.
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/DukeRupert/authpages/internal/backend"
	"github.com/DukeRupert/authpages/internal/domain"
	"github.com/DukeRupert/authpages/internal/form"
	"github.com/DukeRupert/authpages/internal/metrics"
	"github.com/DukeRupert/authpages/internal/page"
	authpages "github.com/DukeRupert/authpages/internal/templ/pages/auth"
	"github.com/DukeRupert/authpages/internal/templ/components"
)

// =============================================================================
// Page Kinds and Messages
// =============================================================================

// Page instance kinds, one per auth page.
const (
	kindLogin    = "login"
	kindRegister = "register"
	kindForgot   = "forgot-password"
	kindReset    = "reset-password"
)

// Controller names within an instance.
const (
	formMain   = "main"
	formSocial = "social"
	formVerify = "verify"
)

// instanceField is the hidden input carrying the page instance ID.
const instanceField = "instance"

// resetTokenAttr is where a verified reset token is kept on the instance.
const resetTokenAttr = "token"

const (
	msgRegistered          = "Account created successfully! Please sign in."
	msgPasswordReset       = "Password reset successfully! Please sign in with your new password."
	msgInstructionsSent    = "If an account with that email exists, we've sent instructions to reset your password."
	msgResetTokenMissing   = "Invalid or missing password reset token. Please request a new reset link."
	msgResetTokenInvalid   = backend.MsgInvalidResetToken
	msgPasswordResetDone   = "Your password has been reset successfully! You can now log in with your new password."
	defaultLandingPath     = "/dashboard"
	resetRedirectPath      = "/login?reset=1"
	defaultResetRedirectIn = 3 * time.Second
	pendingRefreshSeconds  = 2
)

// socialProviders lists the providers offered on the login page, in order.
var socialProviders = []string{"google", "facebook", "github", "apple"}

// =============================================================================
// Handler Configuration
// =============================================================================

// TemplateRenderer is the interface for rendering HTML templates.
// This interface allows for mocking in tests.
type TemplateRenderer interface {
	RenderHTTP(w http.ResponseWriter, name string, data interface{})
}

// AuthConfig holds presentation settings for the auth pages.
type AuthConfig struct {
	AppName     string
	CompanyName string

	// ResetRedirectDelay is how long the reset success banner stays up
	// before the page refreshes to the login page.
	ResetRedirectDelay time.Duration
}

// AuthHandler handles the auth page workflows.
//
// Dependencies:
// - backend: the collaborator every submission calls
// - pages: registry of mounted page instances
// - renderer: template rendering for HTML responses
// - logger: structured logging for request handling
//
// Routes handled:
// - GET  /, /login               -> ShowLogin
// - POST /login                  -> Login
// - POST /login/social/{provider} -> SocialLogin
// - GET  /register               -> ShowRegister
// - POST /register               -> Register
// - GET  /forgot-password        -> ShowForgotPassword
// - POST /forgot-password        -> ForgotPassword
// - GET  /reset-password         -> ShowResetPassword
// - POST /reset-password         -> ResetPassword
type AuthHandler struct {
	backend  backend.Backend
	pages    *page.Registry
	renderer TemplateRenderer
	logger   *slog.Logger
	cfg      AuthConfig
}

// NewAuthHandler creates a new AuthHandler with the required dependencies.
func NewAuthHandler(
	b backend.Backend,
	pages *page.Registry,
	renderer TemplateRenderer,
	logger *slog.Logger,
	cfg AuthConfig,
) *AuthHandler {
	if cfg.ResetRedirectDelay <= 0 {
		cfg.ResetRedirectDelay = defaultResetRedirectIn
	}
	return &AuthHandler{
		backend:  b,
		pages:    pages,
		renderer: renderer,
		logger:   logger,
		cfg:      cfg,
	}
}

// RegisterRoutes registers all auth routes on the provided ServeMux.
//
// Usage in main.go:
//
//	authHandler := handler.NewAuthHandler(backend, registry, renderer, logger, cfg)
//	authHandler.RegisterRoutes(mux)
func (h *AuthHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", h.ShowLogin)
	mux.HandleFunc("GET /login", h.ShowLogin)
	mux.HandleFunc("POST /login", h.Login)
	mux.HandleFunc("POST /login/social/{provider}", h.SocialLogin)

	mux.HandleFunc("GET /register", h.ShowRegister)
	mux.HandleFunc("POST /register", h.Register)

	mux.HandleFunc("GET /forgot-password", h.ShowForgotPassword)
	mux.HandleFunc("POST /forgot-password", h.ForgotPassword)
	mux.HandleFunc("GET /reset-password", h.ShowResetPassword)
	mux.HandleFunc("POST /reset-password", h.ResetPassword)
}

// =============================================================================
// Page Instances
// =============================================================================

func (h *AuthHandler) newController(schema *form.Schema, defaults form.Values) *form.Controller {
	return form.NewController(schema, defaults, form.WithFailureMessage(domain.ErrorMessage))
}

func (h *AuthHandler) mountLogin() *page.Instance {
	return h.pages.Mount(kindLogin, map[string]*form.Controller{
		formMain:   h.newController(form.LoginSchema(), nil),
		formSocial: h.newController(nil, nil),
	})
}

func (h *AuthHandler) mountRegister() *page.Instance {
	return h.pages.Mount(kindRegister, map[string]*form.Controller{
		formMain: h.newController(form.RegisterSchema(), nil),
	})
}

func (h *AuthHandler) mountForgot() *page.Instance {
	return h.pages.Mount(kindForgot, map[string]*form.Controller{
		formMain: h.newController(form.ForgotPasswordSchema(), nil),
	})
}

func (h *AuthHandler) mountReset() *page.Instance {
	return h.pages.Mount(kindReset, map[string]*form.Controller{
		formMain:   h.newController(form.ResetPasswordSchema(), nil),
		formVerify: h.newController(nil, nil),
	})
}

// instance returns the page instance named by the posted instance field. An
// unknown or evicted ID mounts a fresh instance, as reloading the page would.
func (h *AuthHandler) instance(r *http.Request, kind string, mount func() *page.Instance) *page.Instance {
	if id := r.PostFormValue(instanceField); id != "" {
		if inst, ok := h.pages.Lookup(id, kind); ok {
			return inst
		}
		h.logger.Debug("page instance not found, remounting", "kind", kind, "instance", id)
	}
	return mount()
}

// submit runs one submission against the named controller of inst. The
// backend call is cancelled when either the request or the instance ends.
func (h *AuthHandler) submit(r *http.Request, inst *page.Instance, name, label string, fn form.Handler) error {
	c := inst.Form(name)

	ctx, cancel := inst.Bind(r.Context())
	defer cancel()

	start := time.Now()
	err := c.Submit(ctx, fn)
	elapsed := time.Since(start)

	outcome := submissionOutcome(err)
	metrics.FormSubmissionsTotal.WithLabelValues(label, outcome).Inc()
	if outcome == "succeeded" || outcome == "failed" {
		metrics.FormSubmissionDuration.WithLabelValues(label).Observe(elapsed.Seconds())
	}

	attrs := []any{
		"form", label,
		"outcome", outcome,
		"instance", inst.ID,
		"duration_ms", elapsed.Milliseconds(),
	}
	switch outcome {
	case "failed":
		attrs = append(attrs, "error", err, "code", domain.ErrorCode(err))
		if domain.ErrorCode(err) == domain.EINTERNAL {
			h.logger.Error("form submission failed", attrs...)
		} else {
			h.logger.Info("form submission failed", attrs...)
		}
	case "abandoned":
		h.logger.Debug("form submission abandoned", attrs...)
	default:
		h.logger.Debug("form submission", attrs...)
	}

	return err
}

func submissionOutcome(err error) string {
	switch {
	case err == nil:
		return "succeeded"
	case errors.Is(err, form.ErrInFlight):
		return "in_flight"
	case errors.Is(err, form.ErrInvalid):
		return "invalid"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "abandoned"
	default:
		return "failed"
	}
}

// clientGone reports whether the request was abandoned by the browser, in
// which case nothing should be written.
func clientGone(r *http.Request) bool {
	return r.Context().Err() != nil
}

// apply copies posted values into c. It reports false, leaving c untouched
// and counting the attempt, when a submission for c is still in flight; the
// caller must then render the page instead of submitting.
func apply(c *form.Controller, label string, values form.Values) bool {
	if err := c.Apply(values); err != nil {
		metrics.FormSubmissionsTotal.WithLabelValues(label, "in_flight").Inc()
		return false
	}
	return true
}

// pending marks layout to refresh to target while a submission is in flight.
func pending(layout *authpages.Layout, busy bool, target string) {
	if busy {
		layout.PendingURL = target
		layout.PendingSeconds = pendingRefreshSeconds
	}
}

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func (h *AuthHandler) layout(title, footerText, footerLinkText, footerLinkPath string) authpages.Layout {
	return authpages.Layout{
		Title:          title,
		FooterText:     footerText,
		FooterLinkText: footerLinkText,
		FooterLinkPath: footerLinkPath,
		AppName:        h.cfg.AppName,
		CompanyName:    h.cfg.CompanyName,
	}
}

// failureBanner turns a Failed status into an error banner.
func failureBanner(status form.Status, title string) *authpages.Banner {
	if !status.IsFailed() {
		return nil
	}
	return &authpages.Banner{Variant: components.AlertError, Title: title, Message: status.Message}
}

// =============================================================================
// GET /login - Show Login Form
// =============================================================================

// ShowLogin mounts a login page instance and renders the empty form.
//
// Query Parameters:
// - return_to (optional): URL to redirect to after successful login
// - registered (optional): If "1", show success message for new registration
// - reset (optional): If "1", show success message for password reset
func (h *AuthHandler) ShowLogin(w http.ResponseWriter, r *http.Request) {
	inst := h.mountLogin()

	var flash *authpages.Banner
	if r.URL.Query().Get("registered") == "1" {
		flash = &authpages.Banner{Variant: components.AlertSuccess, Title: "Welcome!", Message: msgRegistered}
	} else if r.URL.Query().Get("reset") == "1" {
		flash = &authpages.Banner{Variant: components.AlertSuccess, Title: "Password Updated", Message: msgPasswordReset}
	}

	h.renderLogin(w, inst, flash, r.URL.Query().Get("return_to"))
}

// =============================================================================
// POST /login - Process Login
// =============================================================================

// Login processes the login form submission.
//
// Form Fields:
// - instance: page instance ID
// - email, password (min 6), remember_me (optional)
// - return_to (optional): URL to redirect to after successful login
//
// Success redirects to return_to or /dashboard. Failure re-renders the page
// with the "Login Failed" banner. A POST that arrives while the previous one
// is still waiting on the backend renders the page with the submit control
// disabled and a short refresh back to /login, and does not call the backend
// again.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	inst := h.instance(r, kindLogin, h.mountLogin)
	returnTo := r.PostFormValue("return_to")

	c := inst.Form(formMain)
	if !apply(c, "login", form.Values{
		form.FieldEmail:      normalizeEmail(r.PostFormValue(form.FieldEmail)),
		form.FieldPassword:   r.PostFormValue(form.FieldPassword),
		form.FieldRememberMe: r.PostFormValue(form.FieldRememberMe),
	}) {
		h.renderLogin(w, inst, nil, returnTo)
		return
	}

	err := h.submit(r, inst, formMain, "login", func(ctx context.Context, v form.Values) (string, error) {
		return "", h.backend.Login(ctx, v[form.FieldEmail], v[form.FieldPassword])
	})
	if err == nil {
		h.pages.Unmount(inst.ID)

		redirectURL := defaultLandingPath
		if returnTo != "" && isSafeRedirectURL(returnTo) {
			redirectURL = returnTo
		}
		http.Redirect(w, r, redirectURL, http.StatusSeeOther)
		return
	}
	if clientGone(r) {
		return
	}

	h.renderLogin(w, inst, nil, returnTo)
}

// =============================================================================
// POST /login/social/{provider} - Process Social Login
// =============================================================================

// SocialLogin runs the social sign-in for provider. It uses its own controller
// on the login instance, so its status is independent of the email form.
func (h *AuthHandler) SocialLogin(w http.ResponseWriter, r *http.Request) {
	provider := r.PathValue("provider")
	if !slices.Contains(socialProviders, provider) {
		NotFound(w, r, h.logger)
		return
	}

	inst := h.instance(r, kindLogin, h.mountLogin)

	err := h.submit(r, inst, formSocial, "social_login", func(ctx context.Context, _ form.Values) (string, error) {
		return "", h.backend.SocialLogin(ctx, provider)
	})
	if err == nil {
		h.pages.Unmount(inst.ID)
		http.Redirect(w, r, defaultLandingPath, http.StatusSeeOther)
		return
	}
	if clientGone(r) {
		return
	}

	h.renderLogin(w, inst, nil, "")
}

// renderLogin renders the login page from the instance's current state. The
// email form and social buttons share one busy flag: while either is in
// flight, every submit control is disabled.
func (h *AuthHandler) renderLogin(w http.ResponseWriter, inst *page.Instance, flash *authpages.Banner, returnTo string) {
	main := inst.Form(formMain).Snapshot()
	social := inst.Form(formSocial).Snapshot()
	busy := main.Disabled || social.Disabled

	banner := flash
	if b := failureBanner(main.Status, "Login Failed"); b != nil {
		banner = b
	} else if b := failureBanner(social.Status, "Social Login Failed"); b != nil {
		banner = b
	}

	buttons := make([]authpages.SocialButton, 0, len(socialProviders))
	for _, p := range socialProviders {
		buttons = append(buttons, authpages.SocialButton{
			Provider: p,
			Loading:  social.Disabled,
			Disabled: busy,
		})
	}

	layout := h.layout("Welcome Back!", "Don't have an account?", "Sign Up", "/register")
	refresh := "/login"
	if returnTo != "" && isSafeRedirectURL(returnTo) {
		refresh += "?return_to=" + url.QueryEscape(returnTo)
	}
	pending(&layout, busy, refresh)

	data := authpages.LoginPageData{
		Layout:         layout,
		Instance:       inst.ID,
		Form:           main,
		Banner:         banner,
		Social:         buttons,
		SubmitDisabled: busy,
		ReturnTo:       returnTo,
	}

	h.renderer.RenderHTTP(w, "auth/login", data)
}

// =============================================================================
// GET/POST /register - Registration
// =============================================================================

// ShowRegister mounts a registration page instance and renders the empty form.
func (h *AuthHandler) ShowRegister(w http.ResponseWriter, r *http.Request) {
	h.renderRegister(w, h.mountRegister())
}

// Register processes the registration form submission.
//
// Form Fields:
// - name (required), email, password (min 8), password_confirmation (must
//   match password), terms (must be checked)
//
// Success redirects to /login?registered=1.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	inst := h.instance(r, kindRegister, h.mountRegister)

	if !apply(inst.Form(formMain), "register", form.Values{
		form.FieldName:                 strings.TrimSpace(r.PostFormValue(form.FieldName)),
		form.FieldEmail:                normalizeEmail(r.PostFormValue(form.FieldEmail)),
		form.FieldPassword:             r.PostFormValue(form.FieldPassword),
		form.FieldPasswordConfirmation: r.PostFormValue(form.FieldPasswordConfirmation),
		form.FieldTerms:                r.PostFormValue(form.FieldTerms),
	}) {
		h.renderRegister(w, inst)
		return
	}

	err := h.submit(r, inst, formMain, "register", func(ctx context.Context, v form.Values) (string, error) {
		return "", h.backend.Register(ctx, backend.RegisterParams{
			Name:     v[form.FieldName],
			Email:    v[form.FieldEmail],
			Password: v[form.FieldPassword],
		})
	})
	if err == nil {
		h.pages.Unmount(inst.ID)
		http.Redirect(w, r, "/login?registered=1", http.StatusSeeOther)
		return
	}
	if clientGone(r) {
		return
	}

	h.renderRegister(w, inst)
}

func (h *AuthHandler) renderRegister(w http.ResponseWriter, inst *page.Instance) {
	snap := inst.Form(formMain).Snapshot()

	layout := h.layout("Create an Account", "Already have an account?", "Sign In", "/login")
	pending(&layout, snap.Disabled, "/register")

	data := authpages.RegisterPageData{
		Layout:   layout,
		Instance: inst.ID,
		Form:     snap,
		Banner:   failureBanner(snap.Status, "Registration Failed"),
	}

	h.renderer.RenderHTTP(w, "auth/register", data)
}

// =============================================================================
// GET/POST /forgot-password - Request Reset Instructions
// =============================================================================

// ShowForgotPassword mounts a forgot-password page instance.
func (h *AuthHandler) ShowForgotPassword(w http.ResponseWriter, r *http.Request) {
	h.renderForgotPassword(w, h.mountForgot())
}

// ForgotPassword processes the forgot password form submission.
//
// The success banner is the same whether or not the address has an account,
// and the form is cleared. The page does not navigate away.
func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	inst := h.instance(r, kindForgot, h.mountForgot)
	c := inst.Form(formMain)

	if !apply(c, "forgot_password", form.Values{
		form.FieldEmail: normalizeEmail(r.PostFormValue(form.FieldEmail)),
	}) {
		h.renderForgotPassword(w, inst)
		return
	}

	err := h.submit(r, inst, formMain, "forgot_password", func(ctx context.Context, v form.Values) (string, error) {
		if err := h.backend.RequestPasswordReset(ctx, v[form.FieldEmail]); err != nil {
			return "", err
		}
		return msgInstructionsSent, nil
	})
	if err == nil {
		c.Reset()
	}
	if clientGone(r) {
		return
	}

	h.renderForgotPassword(w, inst)
}

func (h *AuthHandler) renderForgotPassword(w http.ResponseWriter, inst *page.Instance) {
	snap := inst.Form(formMain).Snapshot()

	banner := failureBanner(snap.Status, "Error")
	if snap.Status.IsSucceeded() {
		banner = &authpages.Banner{Variant: components.AlertSuccess, Title: "Instructions Sent", Message: snap.Status.Message}
	}

	layout := h.layout("Forgot Your Password?", "Remember your password?", "Sign In", "/login")
	pending(&layout, snap.Disabled, "/forgot-password")

	data := authpages.ForgotPasswordPageData{
		Layout:   layout,
		Instance: inst.ID,
		Form:     snap,
		Banner:   banner,
	}

	h.renderer.RenderHTTP(w, "auth/forgot_password", data)
}

// =============================================================================
// GET/POST /reset-password - Set a New Password
// =============================================================================

// ShowResetPassword mounts a reset page instance and verifies the token.
//
// Query Parameters:
// - token (required): the password reset token from the email link
//
// The password fields are only rendered once the backend has accepted the
// token. A missing token, a rejected token and a failed verification call
// all render an error banner and no form.
func (h *AuthHandler) ShowResetPassword(w http.ResponseWriter, r *http.Request) {
	inst := h.mountReset()

	token := r.URL.Query().Get("token")
	if token == "" {
		h.renderResetPassword(w, inst, &authpages.Banner{
			Variant: components.AlertError,
			Title:   "Error",
			Message: msgResetTokenMissing,
		})
		return
	}

	if !h.verifyResetToken(r, inst, token) {
		if clientGone(r) {
			return
		}
		h.renderResetPassword(w, inst, invalidLinkBanner())
		return
	}

	h.renderResetPassword(w, inst, nil)
}

// verifyResetToken asks the backend about token and records it on inst when
// accepted. Any error counts as rejection.
func (h *AuthHandler) verifyResetToken(r *http.Request, inst *page.Instance, token string) bool {
	err := h.submit(r, inst, formVerify, "verify_reset_token", func(ctx context.Context, _ form.Values) (string, error) {
		return "", h.backend.VerifyResetToken(ctx, token)
	})
	if err != nil {
		return false
	}
	inst.SetAttr(resetTokenAttr, token)
	return true
}

func invalidLinkBanner() *authpages.Banner {
	return &authpages.Banner{Variant: components.AlertError, Title: "Invalid Link", Message: msgResetTokenInvalid}
}

// ResetPassword processes the password reset form submission.
//
// Form Fields:
// - instance: page instance ID
// - token: the reset token, used only to re-verify when the instance expired
// - new_password (min 8), confirm_new_password (must match)
//
// On success the page shows a success banner, keeps the submit control
// disabled and refreshes to /login?reset=1 after the configured delay.
// Further posts against the same instance are ignored.
func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	inst := h.instance(r, kindReset, h.mountReset)

	if inst.Attr(resetTokenAttr) == "" {
		token := r.PostFormValue("token")
		if token == "" || !h.verifyResetToken(r, inst, token) {
			if clientGone(r) {
				return
			}
			h.renderResetPassword(w, inst, invalidLinkBanner())
			return
		}
	}
	token := inst.Attr(resetTokenAttr)

	c := inst.Form(formMain)
	if c.Status().IsSucceeded() {
		h.renderResetPassword(w, inst, nil)
		return
	}

	if !apply(c, "reset_password", form.Values{
		form.FieldNewPassword:        r.PostFormValue(form.FieldNewPassword),
		form.FieldConfirmNewPassword: r.PostFormValue(form.FieldConfirmNewPassword),
	}) {
		h.renderResetPassword(w, inst, nil)
		return
	}

	err := h.submit(r, inst, formMain, "reset_password", func(ctx context.Context, v form.Values) (string, error) {
		if err := h.backend.ResetPassword(ctx, token, v[form.FieldNewPassword]); err != nil {
			return "", err
		}
		return msgPasswordResetDone, nil
	})
	if clientGone(r) {
		return
	}
	if domain.ErrorCode(err) == domain.EINVALID {
		// The backend no longer accepts the token.
		inst.SetAttr(resetTokenAttr, "")
		h.renderResetPassword(w, inst, invalidLinkBanner())
		return
	}

	h.renderResetPassword(w, inst, nil)
}

// renderResetPassword renders the reset page. A non-nil override banner
// replaces the status banner; the form is shown only for a verified token.
func (h *AuthHandler) renderResetPassword(w http.ResponseWriter, inst *page.Instance, override *authpages.Banner) {
	snap := inst.Form(formMain).Snapshot()
	token := inst.Attr(resetTokenAttr)

	layout := h.layout("Set a New Password", "", "", "")
	refresh := "/reset-password"
	if token != "" {
		refresh += "?token=" + url.QueryEscape(token)
	}
	pending(&layout, snap.Disabled, refresh)

	data := authpages.ResetPasswordPageData{
		Layout:         layout,
		Instance:       inst.ID,
		Token:          token,
		Form:           snap,
		ShowForm:       token != "" && override == nil,
		SubmitDisabled: snap.Disabled,
		Banner:         override,
	}

	switch {
	case override != nil:
	case snap.Status.IsSucceeded():
		data.Banner = &authpages.Banner{Variant: components.AlertSuccess, Title: "Success", Message: snap.Status.Message}
		data.SubmitDisabled = true
		data.RedirectURL = resetRedirectPath
		data.RedirectSeconds = int(h.cfg.ResetRedirectDelay.Round(time.Second) / time.Second)
	default:
		data.Banner = failureBanner(snap.Status, "Error")
	}

	h.renderer.RenderHTTP(w, "auth/reset_password", data)
}

// =============================================================================
// Helper Functions
// =============================================================================

// isSafeRedirectURL validates that a redirect URL is safe (prevents open redirect).
//
// Examples:
// - "/dashboard"              -> true (relative URL)
// - "/settings?tab=profile"   -> true (relative URL with query)
// - "//evil.com"              -> false (protocol-relative, could be external)
// - "https://evil.com"        -> false (absolute URL to external domain)
// - "javascript:alert(1)"     -> false (javascript URL)
func isSafeRedirectURL(rawURL string) bool {
	// Must start with /
	if !strings.HasPrefix(rawURL, "/") {
		return false
	}

	// Must not start with // (protocol-relative URL)
	if strings.HasPrefix(rawURL, "//") || strings.HasPrefix(rawURL, "/\\") {
		return false
	}

	parsed, err := url.Parse(rawURL)
	if err != nil {
		return false
	}

	// Must not have a scheme or host
	return parsed.Scheme == "" && parsed.Host == ""
}
