package models

import "time"

// Like represents a user's like on a tweet.
// The combination of UserID and TweetID must be unique.
type Like struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"not null;uniqueIndex:idx_like_user_tweet"`
	TweetID   uint      `json:"tweet_id" gorm:"not null;index;uniqueIndex:idx_like_user_tweet"`
	CreatedAt time.Time `json:"created_at"`
}
