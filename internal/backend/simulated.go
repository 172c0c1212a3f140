package backend

import (
	"context"
	"crypto/subtle"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/DukeRupert/authpages/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

// Messages returned by the simulated backend.
const (
	MsgInvalidCredentials = "Invalid email or password. Please try again."
	MsgInvalidResetToken  = "This password reset link is invalid or has expired. Please request a new one."
)

// SimulatedConfig configures a Simulated backend.
type SimulatedConfig struct {
	// Delay is how long every call takes. Zero answers immediately.
	Delay time.Duration

	// DemoEmail and DemoPassword form the only credential pair Login accepts.
	DemoEmail    string
	DemoPassword string

	// HashCost is the bcrypt cost for the demo password. Zero means
	// bcrypt.DefaultCost.
	HashCost int

	Logger *slog.Logger
}

// Simulated stands in for a real auth server. Login accepts a single
// configured credential pair; every other call succeeds after the delay.
type Simulated struct {
	delay     time.Duration
	demoEmail string
	demoHash  []byte
	logger    *slog.Logger
}

var _ Backend = (*Simulated)(nil)

// NewSimulated hashes the demo password and returns a ready backend.
func NewSimulated(cfg SimulatedConfig) (*Simulated, error) {
	if cfg.Delay < 0 {
		return nil, fmt.Errorf("simulated delay must not be negative, got %s", cfg.Delay)
	}
	if cfg.DemoEmail == "" || cfg.DemoPassword == "" {
		return nil, fmt.Errorf("demo email and password are required")
	}

	cost := cfg.HashCost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.DemoPassword), cost)
	if err != nil {
		return nil, fmt.Errorf("hash demo password: %w", err)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Simulated{
		delay:     cfg.Delay,
		demoEmail: strings.ToLower(strings.TrimSpace(cfg.DemoEmail)),
		demoHash:  hash,
		logger:    logger,
	}, nil
}

// wait blocks for the configured delay or until ctx ends.
func (s *Simulated) wait(ctx context.Context) error {
	if s.delay <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(s.delay)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func (s *Simulated) Login(ctx context.Context, email, password string) error {
	const op = "backend.login"
	if err := s.wait(ctx); err != nil {
		return err
	}

	emailMatch := subtle.ConstantTimeCompare([]byte(email), []byte(s.demoEmail)) == 1
	passErr := bcrypt.CompareHashAndPassword(s.demoHash, []byte(password))
	if !emailMatch || passErr != nil {
		s.logger.Debug("simulated login rejected", "email", email)
		return domain.Unauthorized(op, MsgInvalidCredentials)
	}

	s.logger.Debug("simulated login accepted", "email", email)
	return nil
}

func (s *Simulated) SocialLogin(ctx context.Context, provider string) error {
	if err := s.wait(ctx); err != nil {
		return err
	}
	s.logger.Debug("simulated social login accepted", "provider", provider)
	return nil
}

func (s *Simulated) Register(ctx context.Context, params RegisterParams) error {
	if err := s.wait(ctx); err != nil {
		return err
	}
	s.logger.Debug("simulated registration accepted", "email", params.Email)
	return nil
}

func (s *Simulated) RequestPasswordReset(ctx context.Context, email string) error {
	if err := s.wait(ctx); err != nil {
		return err
	}
	s.logger.Debug("simulated reset instructions sent", "email", email)
	return nil
}

func (s *Simulated) VerifyResetToken(ctx context.Context, token string) error {
	const op = "backend.verify_reset_token"
	if err := s.wait(ctx); err != nil {
		return err
	}
	if strings.TrimSpace(token) == "" {
		return domain.Invalid(op, MsgInvalidResetToken)
	}
	return nil
}

func (s *Simulated) ResetPassword(ctx context.Context, token, newPassword string) error {
	const op = "backend.reset_password"
	if err := s.wait(ctx); err != nil {
		return err
	}
	if strings.TrimSpace(token) == "" {
		return domain.Invalid(op, MsgInvalidResetToken)
	}
	s.logger.Debug("simulated password reset accepted")
	return nil
}
