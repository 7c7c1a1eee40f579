package services

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/anonto42/nano-feed/backend/internal/models"
	"github.com/anonto42/nano-feed/backend/internal/repositories"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

const (
	maxNameLength     = 100
	searchResultLimit = 50
)

var validate = validator.New()

// IdentityService owns user accounts
type IdentityService struct {
	store  *Store
	logger *zap.Logger
}

// NormalizeEmail trims and lower-cases an address
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// CreateUser registers an account. A taken email is a ConflictError, whether
// it is caught by the pre-check or by the unique index under a race.
func (s *IdentityService) CreateUser(ctx context.Context, email, name, passwordHash string) (*models.User, error) {
	const op = "identity.CreateUser"

	email = NormalizeEmail(email)
	if err := validate.Var(email, "required,email"); err != nil {
		return nil, validationError(op, "a valid email address is required")
	}
	name = strings.TrimSpace(name)
	if name == "" || utf8.RuneCountInString(name) > maxNameLength {
		return nil, validationError(op, "name must be between 1 and %d characters", maxNameLength)
	}
	if passwordHash == "" {
		return nil, validationError(op, "password hash is required")
	}

	user := &models.User{Email: email, Name: name, Password: passwordHash}
	err := s.store.WithinTx(ctx, op, func(repos *repositories.Repositories) error {
		taken, err := repos.Users.CountByEmail(email)
		if err != nil {
			return err
		}
		if taken > 0 {
			return conflictError(op, "this email address is already used")
		}
		if err := repos.Users.CreateUser(user); err != nil {
			if isDuplicateKey(err) {
				return conflictError(op, "this email address is already used")
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.Debug("user created", zap.Uint("user_id", user.ID))
	return user, nil
}

// FindUserByEmail returns NotFoundError when no account uses the address
func (s *IdentityService) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	user, err := s.store.Read(ctx).Users.GetUserByEmail(NormalizeEmail(email))
	if err != nil {
		return nil, lookupError("identity.FindUserByEmail", "user", err)
	}
	return user, nil
}

func (s *IdentityService) GetUser(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.store.Read(ctx).Users.GetUserByID(id)
	if err != nil {
		return nil, lookupError("identity.GetUser", "user", err)
	}
	return user, nil
}

// UpdatePassword replaces the stored hash
func (s *IdentityService) UpdatePassword(ctx context.Context, userID uint, newHash string) error {
	const op = "identity.UpdatePassword"
	if newHash == "" {
		return validationError(op, "password hash is required")
	}
	return s.store.WithinTx(ctx, op, func(repos *repositories.Repositories) error {
		updated, err := repos.Users.UpdatePassword(userID, newHash)
		if err != nil {
			return err
		}
		if updated == 0 {
			return notFoundError(op, "user not found")
		}
		return nil
	})
}

// UpdateProfile sets the display name and bio
func (s *IdentityService) UpdateProfile(ctx context.Context, userID uint, name, bio string) (*models.User, error) {
	const op = "identity.UpdateProfile"

	name = strings.TrimSpace(name)
	if name == "" || utf8.RuneCountInString(name) > maxNameLength {
		return nil, validationError(op, "name must be between 1 and %d characters", maxNameLength)
	}
	bio = strings.TrimSpace(bio)
	if utf8.RuneCountInString(bio) > models.MaxBioLength {
		return nil, validationError(op, "bio must be at most %d characters", models.MaxBioLength)
	}

	var user *models.User
	err := s.store.WithinTx(ctx, op, func(repos *repositories.Repositories) error {
		updated, err := repos.Users.UpdateProfile(userID, name, bio)
		if err != nil {
			return err
		}
		if updated == 0 {
			return notFoundError(op, "user not found")
		}
		user, err = repos.Users.GetUserByID(userID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// FindUsersByNamePrefix matches display names starting with query, ignoring case
func (s *IdentityService) FindUsersByNamePrefix(ctx context.Context, query string) ([]models.User, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, validationError("identity.FindUsersByNamePrefix", "search query is required")
	}
	users, err := s.store.Read(ctx).Users.SearchByNamePrefix(query, searchResultLimit)
	if err != nil {
		return nil, storageError("identity.FindUsersByNamePrefix", err)
	}
	return users, nil
}

// FindUsersByNameSubstring matches display names containing query, ignoring case
func (s *IdentityService) FindUsersByNameSubstring(ctx context.Context, query string) ([]models.User, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, validationError("identity.FindUsersByNameSubstring", "search query is required")
	}
	users, err := s.store.Read(ctx).Users.SearchByNameSubstring(query, searchResultLimit)
	if err != nil {
		return nil, storageError("identity.FindUsersByNameSubstring", err)
	}
	return users, nil
}

// UsersByIDs returns the existing users among ids keyed by id
func (s *IdentityService) UsersByIDs(ctx context.Context, ids []uint) (map[uint]models.User, error) {
	users := make(map[uint]models.User, len(ids))
	if len(ids) == 0 {
		return users, nil
	}
	found, err := s.store.Read(ctx).Users.GetUsersByIDs(ids)
	if err != nil {
		return nil, storageError("identity.UsersByIDs", err)
	}
	for _, u := range found {
		users[u.ID] = u
	}
	return users, nil
}
