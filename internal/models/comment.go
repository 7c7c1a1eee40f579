package models

import "time"

// MaxCommentLength is the longest comment accepted, in characters.
const MaxCommentLength = 500

// Comment represents a comment on a tweet
type Comment struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	TweetID   uint      `json:"tweet_id" gorm:"not null;index"`
	UserID    uint      `json:"user_id" gorm:"not null;index"`
	Content   string    `json:"content" gorm:"size:500;not null"`
	CreatedAt time.Time `json:"created_at" gorm:"index"`
}

// CreateCommentRequest defines the request body for commenting on a tweet
type CreateCommentRequest struct {
	Content string `json:"content" validate:"required"`
}
