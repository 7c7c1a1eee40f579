package services

import (
	"context"
	"errors"
	"strings"

	"github.com/anonto42/nano-feed/backend/internal/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AuthService applies the password policy on top of IdentityService
type AuthService struct {
	identity *IdentityService
	hasher   PasswordHasher
	logger   *zap.Logger
}

// Signup validates the password, hashes it and creates the account
func (s *AuthService) Signup(ctx context.Context, email, name, password string) (*models.User, error) {
	if err := ValidatePassword(password); err != nil {
		return nil, err
	}
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, storageError("auth.Signup", err)
	}
	return s.identity.CreateUser(ctx, email, name, hash)
}

// Authenticate returns the user owning email when password matches. An
// unknown email and a wrong password produce the same AuthorizationError.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	const op = "auth.Authenticate"

	user, err := s.identity.FindUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, authorizationError(op, "invalid email or password")
		}
		return nil, err
	}
	if err := s.hasher.Compare(user.Password, password); err != nil {
		s.logger.Debug("password mismatch", zap.Uint("user_id", user.ID))
		return nil, authorizationError(op, "invalid email or password")
	}
	return user, nil
}

// ChangePassword replaces the password after checking the current one
func (s *AuthService) ChangePassword(ctx context.Context, userID uint, current, next string) error {
	const op = "auth.ChangePassword"

	user, err := s.identity.GetUser(ctx, userID)
	if err != nil {
		return err
	}
	if err := s.hasher.Compare(user.Password, current); err != nil {
		return authorizationError(op, "current password is incorrect")
	}
	if current == next {
		return validationError(op, "new password must be different from the current password")
	}
	if err := ValidatePassword(next); err != nil {
		return err
	}
	hash, err := s.hasher.Hash(next)
	if err != nil {
		return storageError(op, err)
	}
	return s.identity.UpdatePassword(ctx, userID, hash)
}

// EnsureExternalUser returns the account for an externally verified email,
// creating one with an unusable password when none exists
func (s *AuthService) EnsureExternalUser(ctx context.Context, email, name string) (*models.User, error) {
	user, err := s.identity.FindUserByEmail(ctx, email)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}
	if name == "" {
		name = strings.SplitN(NormalizeEmail(email), "@", 2)[0]
	}
	if runes := []rune(name); len(runes) > maxNameLength {
		name = string(runes[:maxNameLength])
	}
	hash, err := s.hasher.Hash(uuid.NewString())
	if err != nil {
		return nil, storageError("auth.EnsureExternalUser", err)
	}
	user, err = s.identity.CreateUser(ctx, email, name, hash)
	if errors.Is(err, ErrConflict) {
		return s.identity.FindUserByEmail(ctx, email)
	}
	return user, err
}
