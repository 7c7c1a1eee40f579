// Package services holds the social feed core: identity, follow graph,
// content, hashtags, feed composition and notifications. Every mutation runs
// in one Store transaction.
package services

import (
	"time"

	"github.com/anonto42/nano-feed/backend/internal/repositories"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Clock returns the current time. Tweets and notifications are stamped with it.
type Clock func() time.Time

// Ranking holds the weights of the ranked feed score:
// score = LikeWeight*likes + CommentWeight*comments
type Ranking struct {
	LikeWeight    int
	CommentWeight int
}

// DefaultRanking is the 10x likes + 3x comments policy
var DefaultRanking = Ranking{LikeWeight: 10, CommentWeight: 3}

func (r Ranking) weights() repositories.Weights {
	return repositories.Weights{Like: r.LikeWeight, Comment: r.CommentWeight}
}

// Options configures New. Zero values fall back to defaults; a nil Ranking
// means DefaultRanking.
type Options struct {
	Logger      *zap.Logger
	Clock       Clock
	Hasher      PasswordHasher
	Ranking     *Ranking
	MaxPageSize int
}

// Services is the set of core services sharing one Store
type Services struct {
	Store         *Store
	Identity      *IdentityService
	Auth          *AuthService
	Follows       *FollowService
	Content       *ContentService
	Feed          *FeedService
	Notifications *NotificationService
}

// New wires every service over db
func New(db *gorm.DB, opts Options) *Services {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Clock == nil {
		opts.Clock = func() time.Time { return time.Now().UTC() }
	}
	if opts.Hasher == nil {
		opts.Hasher = NewBcryptHasher(0)
	}
	ranking := DefaultRanking
	if opts.Ranking != nil {
		ranking = *opts.Ranking
	}
	if opts.MaxPageSize <= 0 {
		opts.MaxPageSize = DefaultMaxPageSize
	}

	store := NewStore(db)
	notifications := &NotificationService{store: store, clock: opts.Clock, maxPageSize: opts.MaxPageSize, logger: opts.Logger.Named("notifications")}
	identity := &IdentityService{store: store, logger: opts.Logger.Named("identity")}

	return &Services{
		Store:         store,
		Identity:      identity,
		Auth:          &AuthService{identity: identity, hasher: opts.Hasher, logger: opts.Logger.Named("auth")},
		Follows:       &FollowService{store: store, notifications: notifications, clock: opts.Clock, logger: opts.Logger.Named("follows")},
		Content:       &ContentService{store: store, notifications: notifications, clock: opts.Clock, ranking: ranking, maxPageSize: opts.MaxPageSize, logger: opts.Logger.Named("content")},
		Feed:          &FeedService{store: store, ranking: ranking, maxPageSize: opts.MaxPageSize},
		Notifications: notifications,
	}
}
