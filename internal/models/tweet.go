package models

import "time"

// MaxTweetLength is the longest tweet content accepted, in characters.
const MaxTweetLength = 280

// Tweet is a short post. LikesCount, CommentsCount and Score are aggregated
// by the feed queries; they are never written and have no columns.
// LikedByViewer is filled per request.
type Tweet struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"not null;index"` // Author, immutable after creation
	Content   string    `json:"content" gorm:"size:280;not null"`
	CreatedAt time.Time `json:"created_at" gorm:"index"`
	Hashtags  []Hashtag `json:"hashtags,omitempty" gorm:"many2many:tweet_hashtags;"`

	LikesCount    int64 `json:"likes_count" gorm:"->;-:migration"`
	CommentsCount int64 `json:"comments_count" gorm:"->;-:migration"`
	Score         int64 `json:"score" gorm:"->;-:migration"`
	LikedByViewer bool  `json:"liked_by_viewer" gorm:"-"`
}

// CreateTweetRequest defines the request body for posting a tweet
type CreateTweetRequest struct {
	Content string `json:"content" validate:"required"`
}
