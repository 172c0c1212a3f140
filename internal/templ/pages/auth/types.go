// Package auth holds the view models for the auth pages.
package auth

import (
	"github.com/DukeRupert/authpages/internal/form"
	"github.com/DukeRupert/authpages/internal/templ/components"
)

// Banner is a page-level message rendered with components.Alert.
type Banner struct {
	Variant components.AlertVariant
	Title   string
	Message string
}

// Layout carries the shell data every auth page renders with. The footer is
// only shown when FooterText, FooterLinkText and FooterLinkPath are all set.
type Layout struct {
	Title          string
	FooterText     string
	FooterLinkText string
	FooterLinkPath string
	AppName        string
	CompanyName    string

	// PendingURL is set when the page is rendered while a submission is
	// still in flight. The page refreshes to it after PendingSeconds so a
	// tab whose first request was dropped does not stay disabled.
	PendingURL     string
	PendingSeconds int
}

// HasFooter reports whether the footer link line should render.
func (l Layout) HasFooter() bool {
	return l.FooterText != "" && l.FooterLinkText != "" && l.FooterLinkPath != ""
}

// SocialButton is one provider button on the login page.
type SocialButton struct {
	Provider string
	Label    string
	Loading  bool
	Disabled bool
}

// LoginPageData contains data for the login page
type LoginPageData struct {
	Layout
	Instance       string
	Form           form.Snapshot
	Banner         *Banner
	Social         []SocialButton
	SubmitDisabled bool // also set while a social login is in flight
	ReturnTo       string
}

// RegisterPageData contains data for the registration page
type RegisterPageData struct {
	Layout
	Instance string
	Form     form.Snapshot
	Banner   *Banner
}

// ForgotPasswordPageData contains data for the forgot password page
type ForgotPasswordPageData struct {
	Layout
	Instance string
	Form     form.Snapshot
	Banner   *Banner
}

// ResetPasswordPageData contains data for the reset password page.
//
// ShowForm is false until the backend has confirmed the token; the password
// fields are not rendered at all in that case. RedirectURL and
// RedirectSeconds are set once the reset succeeded and drive the meta refresh
// back to the login page.
type ResetPasswordPageData struct {
	Layout
	Instance        string
	Token           string
	Form            form.Snapshot
	Banner          *Banner
	ShowForm        bool
	SubmitDisabled  bool
	RedirectURL     string
	RedirectSeconds int
}
