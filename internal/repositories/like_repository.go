package repositories

import (
	"github.com/anonto42/nano-feed/backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LikeRepository defines the interface for like data operations
type LikeRepository interface {
	CreateLike(like *models.Like) (bool, error)
	DeleteLike(tweetID, userID uint) (bool, error)
	DeleteByTweetID(tweetID uint) error
	GetLikesCountByTweetID(tweetID uint) (int64, error)
	HasUserLikedTweet(tweetID, userID uint) (bool, error)
	GetLikedTweetIDs(userID uint, tweetIDs []uint) (map[uint]bool, error)
}

type gormLikeRepository struct {
	db *gorm.DB
}

// NewLikeRepository creates a new LikeRepository
func NewLikeRepository(db *gorm.DB) LikeRepository {
	return &gormLikeRepository{db: db}
}

// CreateLike inserts the like unless the (user, tweet) pair already exists and
// reports whether a row was written
func (r *gormLikeRepository) CreateLike(like *models.Like) (bool, error) {
	res := r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(like)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// DeleteLike removes the user's like on a tweet and reports whether one existed
func (r *gormLikeRepository) DeleteLike(tweetID, userID uint) (bool, error) {
	res := r.db.Where("tweet_id = ? AND user_id = ?", tweetID, userID).Delete(&models.Like{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *gormLikeRepository) DeleteByTweetID(tweetID uint) error {
	return r.db.Where("tweet_id = ?", tweetID).Delete(&models.Like{}).Error
}


func (r *gormLikeRepository) GetLikesCountByTweetID(tweetID uint) (int64, error) {
	var count int64
	if err := r.db.Model(&models.Like{}).Where("tweet_id = ?", tweetID).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *gormLikeRepository) HasUserLikedTweet(tweetID, userID uint) (bool, error) {
	var count int64
	if err := r.db.Model(&models.Like{}).Where("tweet_id = ? AND user_id = ?", tweetID, userID).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// GetLikedTweetIDs returns the subset of tweetIDs the user has liked
func (r *gormLikeRepository) GetLikedTweetIDs(userID uint, tweetIDs []uint) (map[uint]bool, error) {
	result := make(map[uint]bool)
	if len(tweetIDs) == 0 {
		return result, nil
	}
	var liked []uint
	err := r.db.Model(&models.Like{}).Where("user_id = ? AND tweet_id IN ?", userID, tweetIDs).Pluck("tweet_id", &liked).Error
	if err != nil {
		return nil, err
	}
	for _, id := range liked {
		result[id] = true
	}
	return result, nil
}
