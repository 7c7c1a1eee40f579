package services

import (
	"context"

	"github.com/anonto42/nano-feed/backend/internal/models"
	"github.com/anonto42/nano-feed/backend/internal/repositories"
	"go.uber.org/zap"
)

// FollowService maintains the directed follow graph
type FollowService struct {
	store         *Store
	notifications *NotificationService
	clock         Clock
	logger        *zap.Logger
}

// Follow adds the edge follower -> target and reports whether it was created.
// Following someone twice is a no-op and only the first call notifies.
func (s *FollowService) Follow(ctx context.Context, followerID, targetID uint) (bool, error) {
	const op = "follows.Follow"
	if followerID == targetID {
		return false, validationError(op, "you cannot follow yourself")
	}

	var created bool
	err := s.store.WithinTx(ctx, op, func(repos *repositories.Repositories) error {
		if _, err := repos.Users.GetUserByID(followerID); err != nil {
			return lookupError(op, "user", err)
		}
		if _, err := repos.Users.GetUserByID(targetID); err != nil {
			return lookupError(op, "user", err)
		}

		var err error
		created, err = repos.Follows.CreateFollow(&models.Follow{
			FollowerID:  followerID,
			FollowingID: targetID,
			CreatedAt:   s.clock(),
		})
		if err != nil || !created {
			return err
		}
		_, err = s.notifications.append(repos, targetID, followerID, models.NotificationFollow, nil)
		return err
	})
	if err != nil {
		return false, err
	}
	if created {
		s.logger.Debug("follow created", zap.Uint("follower_id", followerID), zap.Uint("following_id", targetID))
	}
	return created, nil
}

// Unfollow removes the edge and reports whether one existed
func (s *FollowService) Unfollow(ctx context.Context, followerID, targetID uint) (bool, error) {
	var removed bool
	err := s.store.WithinTx(ctx, "follows.Unfollow", func(repos *repositories.Repositories) error {
		var err error
		removed, err = repos.Follows.DeleteFollow(followerID, targetID)
		return err
	})
	if err != nil {
		return false, err
	}
	return removed, nil
}

// IsFollowing is always false for a user and themselves
func (s *FollowService) IsFollowing(ctx context.Context, followerID, targetID uint) (bool, error) {
	if followerID == targetID {
		return false, nil
	}
	following, err := s.store.Read(ctx).Follows.IsFollowing(followerID, targetID)
	if err != nil {
		return false, storageError("follows.IsFollowing", err)
	}
	return following, nil
}

func (s *FollowService) FollowingIDs(ctx context.Context, userID uint) ([]uint, error) {
	ids, err := s.store.Read(ctx).Follows.GetFollowingIDs(userID)
	if err != nil {
		return nil, storageError("follows.FollowingIDs", err)
	}
	return ids, nil
}

func (s *FollowService) FollowerCount(ctx context.Context, userID uint) (int64, error) {
	count, err := s.store.Read(ctx).Follows.GetFollowersCount(userID)
	if err != nil {
		return 0, storageError("follows.FollowerCount", err)
	}
	return count, nil
}

func (s *FollowService) FollowingCount(ctx context.Context, userID uint) (int64, error) {
	count, err := s.store.Read(ctx).Follows.GetFollowingCount(userID)
	if err != nil {
		return 0, storageError("follows.FollowingCount", err)
	}
	return count, nil
}

// Followers lists the users following userID
func (s *FollowService) Followers(ctx context.Context, userID uint) ([]models.User, error) {
	repos := s.store.Read(ctx)
	if _, err := repos.Users.GetUserByID(userID); err != nil {
		return nil, lookupError("follows.Followers", "user", err)
	}
	users, err := repos.Follows.GetFollowers(userID)
	if err != nil {
		return nil, storageError("follows.Followers", err)
	}
	return users, nil
}

// Following lists the users userID follows
func (s *FollowService) Following(ctx context.Context, userID uint) ([]models.User, error) {
	repos := s.store.Read(ctx)
	if _, err := repos.Users.GetUserByID(userID); err != nil {
		return nil, lookupError("follows.Following", "user", err)
	}
	users, err := repos.Follows.GetFollowing(userID)
	if err != nil {
		return nil, storageError("follows.Following", err)
	}
	return users, nil
}
