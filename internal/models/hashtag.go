package models

import "time"

// Hashtag is a tag token without its leading '#'. Case is preserved and the
// text is unique.
type Hashtag struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Tag       string    `json:"tag" gorm:"size:280;not null;uniqueIndex"`
	CreatedAt time.Time `json:"-"`
}

// TweetHashtag is the join row between a tweet and a hashtag
type TweetHashtag struct {
	TweetID   uint `gorm:"primaryKey"`
	HashtagID uint `gorm:"primaryKey;index"`
}
