package repositories

import (
	"github.com/anonto42/nano-feed/backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// HashtagRepository defines the interface for hashtag data operations
type HashtagRepository interface {
	GetOrCreate(tag string) (*models.Hashtag, error)
	GetByTag(tag string) (*models.Hashtag, error)
	Link(tweetID uint, hashtagIDs []uint) error
	UnlinkTweet(tweetID uint) error
}

type gormHashtagRepository struct {
	db *gorm.DB
}

// NewHashtagRepository creates a new HashtagRepository
func NewHashtagRepository(db *gorm.DB) HashtagRepository {
	return &gormHashtagRepository{db: db}
}

// GetOrCreate returns the hashtag with the exact tag text, inserting it first
// when absent. The insert ignores a conflicting concurrent insert and the
// re-read picks up whichever row won.
func (r *gormHashtagRepository) GetOrCreate(tag string) (*models.Hashtag, error) {
	candidate := models.Hashtag{Tag: tag}
	if err := r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&candidate).Error; err != nil {
		return nil, err
	}
	return r.GetByTag(tag)
}

func (r *gormHashtagRepository) GetByTag(tag string) (*models.Hashtag, error) {
	var hashtag models.Hashtag
	if err := r.db.Where("tag = ?", tag).First(&hashtag).Error; err != nil {
		return nil, err
	}
	return &hashtag, nil
}

func (r *gormHashtagRepository) Link(tweetID uint, hashtagIDs []uint) error {
	if len(hashtagIDs) == 0 {
		return nil
	}
	links := make([]models.TweetHashtag, len(hashtagIDs))
	for i, id := range hashtagIDs {
		links[i] = models.TweetHashtag{TweetID: tweetID, HashtagID: id}
	}
	return r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&links).Error
}

func (r *gormHashtagRepository) UnlinkTweet(tweetID uint) error {
	return r.db.Where("tweet_id = ?", tweetID).Delete(&models.TweetHashtag{}).Error
}

