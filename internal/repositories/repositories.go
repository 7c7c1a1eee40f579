package repositories

import (
	"strings"

	"github.com/anonto42/nano-feed/backend/internal/models"
	"gorm.io/gorm"
)

// Repositories bundles every repository over one gorm handle. When the handle
// is a transaction, all of them share it.
type Repositories struct {
	Users         UserRepository
	Follows       FollowRepository
	Tweets        TweetRepository
	Likes         LikeRepository
	Comments      CommentRepository
	Hashtags      HashtagRepository
	Notifications NotificationRepository
}

// New binds all repositories to db
func New(db *gorm.DB) *Repositories {
	return &Repositories{
		Users:         NewUserRepository(db),
		Follows:       NewFollowRepository(db),
		Tweets:        NewTweetRepository(db),
		Likes:         NewLikeRepository(db),
		Comments:      NewCommentRepository(db),
		Hashtags:      NewHashtagRepository(db),
		Notifications: NewNotificationRepository(db),
	}
}

// Migrate creates or updates the schema for all models
func Migrate(db *gorm.DB) error {
	if err := db.SetupJoinTable(&models.Tweet{}, "Hashtags", &models.TweetHashtag{}); err != nil {
		return err
	}
	return db.AutoMigrate(
		&models.User{},
		&models.Follow{},
		&models.Tweet{},
		&models.Hashtag{},
		&models.TweetHashtag{},
		&models.Like{},
		&models.Comment{},
		&models.Notification{},
	)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes s safe to embed in a LIKE pattern using ESCAPE '\'
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
