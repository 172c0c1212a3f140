// Package backend defines the collaborator that auth pages submit to, and a
// simulated implementation that answers after a fixed delay.
package backend

import (
	"context"
)

// Backend is everything the auth pages need from the server side. Every call
// blocks for as long as the backend takes and returns early with ctx.Err()
// when ctx ends.
//
// Errors are *domain.Error values whose Message is safe to show to users.
type Backend interface {
	// Login checks an email/password pair.
	Login(ctx context.Context, email, password string) error

	// SocialLogin completes a sign-in through a third-party provider.
	SocialLogin(ctx context.Context, provider string) error

	// Register creates an account.
	Register(ctx context.Context, params RegisterParams) error

	// RequestPasswordReset sends reset instructions if the account exists.
	// It must not reveal whether it does.
	RequestPasswordReset(ctx context.Context, email string) error

	// VerifyResetToken confirms a reset token is usable. Callers treat any
	// error as "invalid" and fail closed.
	VerifyResetToken(ctx context.Context, token string) error

	// ResetPassword sets a new password for the account behind token.
	ResetPassword(ctx context.Context, token, newPassword string) error
}

// RegisterParams holds the fields of a sign-up submission.
type RegisterParams struct {
	Name     string
	Email    string
	Password string
}
