// Package service contains the business logic layer: handlers parse HTTP
// and delegate here; this layer enforces the rules and talks to the
// repositories through their interfaces.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sakif/webhook-hub/internal/apperror"
	"github.com/sakif/webhook-hub/internal/auth"
	"github.com/sakif/webhook-hub/internal/model"
	"github.com/sakif/webhook-hub/internal/repository"
)

const (
	MinPasswordLength = 8
	MaxPasswordLength = 72 // bcrypt input limit
)

// AuthService orchestrates registration, login, and identity resolution.
type AuthService struct {
	users     repository.UserRepository
	tokens    *auth.TokenService
	passwords *auth.PasswordService
	logger    *slog.Logger
}

// NewAuthService creates an AuthService with all dependencies injected.
func NewAuthService(
	users repository.UserRepository,
	tokens *auth.TokenService,
	passwords *auth.PasswordService,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		users:     users,
		tokens:    tokens,
		passwords: passwords,
		logger:    logger,
	}
}

// NormalizeEmail lowercases and trims an email address. Every entry point —
// registration, login, lookups — must go through this before touching the
// store, so "A@x.com" and "a@x.com" collide on the unique constraint.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a new account.
//
// Duplicate email is the one failure whose reason is surfaced distinctly
// (Conflict): it reflects the caller's own input, not another identity's
// credentials. The storage-layer unique constraint backs up the lookup so a
// concurrent duplicate registration still fails with the same Conflict.
func (s *AuthService) Register(ctx context.Context, email, password string) (*model.User, error) {
	email = NormalizeEmail(email)
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}

	_, err := s.users.GetUserByEmail(ctx, email)
	if err == nil {
		return nil, apperror.Conflict("email is already registered")
	}
	if !errors.Is(err, apperror.ErrNotFound) {
		return nil, fmt.Errorf("service/auth: checking email: %w", err)
	}

	hash, err := s.passwords.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("service/auth: hashing password: %w", err)
	}

	user := &model.User{
		Email:        email,
		PasswordHash: hash,
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, apperror.ErrConflict) {
			return nil, err
		}
		return nil, fmt.Errorf("service/auth: creating user: %w", err)
	}

	s.logger.Info("user registered", slog.String("userID", user.ID))

	return user, nil
}

// Login verifies credentials and issues a session token.
//
// Unknown email and wrong password converge on one code path returning one
// Unauthorized value — the response must never reveal whether the email
// exists. The real cause goes to the internal log only.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	email = NormalizeEmail(email)

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil || !s.passwords.Verify(user.PasswordHash, password) {
		if err != nil && !errors.Is(err, apperror.ErrNotFound) {
			return "", fmt.Errorf("service/auth: looking up user: %w", err)
		}
		s.logger.Info("login rejected", slog.Bool("knownEmail", err == nil))
		return "", apperror.Unauthorized("invalid email or password")
	}

	token, err := s.tokens.Generate(user.ID)
	if err != nil {
		return "", fmt.Errorf("service/auth: generating token for user %s: %w", user.ID, err)
	}

	return token, nil
}

// GetUserByID resolves a verified token subject to a concrete user record.
//
// A subject that no longer maps to a user (account deleted after issuance)
// is Unauthorized: there is no revocation list, so this downstream check is
// what invalidates tokens for deleted accounts.
func (s *AuthService) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	if id == "" {
		return nil, apperror.Unauthorized("valid authentication required")
	}

	user, err := s.users.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, apperror.Unauthorized("valid authentication required")
		}
		return nil, fmt.Errorf("service/auth: fetching user %s: %w", id, err)
	}

	return user, nil
}

func validateEmail(email string) error {
	if email == "" {
		return apperror.ValidationFailed("email", "email is required")
	}
	at := strings.Index(email, "@")
	if at <= 0 || at == len(email)-1 || !strings.Contains(email[at+1:], ".") {
		return apperror.ValidationFailed("email", "email is not a valid address")
	}
	return nil
}

func validatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return apperror.ValidationFailed("password",
			fmt.Sprintf("password must be at least %d characters", MinPasswordLength))
	}
	if len(password) > MaxPasswordLength {
		return apperror.ValidationFailed("password",
			fmt.Sprintf("password must be %d bytes or fewer", MaxPasswordLength))
	}
	return nil
}
