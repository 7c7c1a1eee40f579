package repositories

import (
	"github.com/anonto42/nano-feed/backend/internal/models"
	"gorm.io/gorm"
)

// CommentRepository defines the interface for comment data operations
type CommentRepository interface {
	CreateComment(comment *models.Comment) error
	GetCommentsByTweetID(tweetID uint) ([]models.Comment, error)
	GetCommentsCountByTweetID(tweetID uint) (int64, error)
	DeleteByTweetID(tweetID uint) error
}

type gormCommentRepository struct {
	db *gorm.DB
}

// NewCommentRepository creates a new CommentRepository
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &gormCommentRepository{db: db}
}

func (r *gormCommentRepository) CreateComment(comment *models.Comment) error {
	return r.db.Create(comment).Error
}

// GetCommentsByTweetID lists a tweet's comments oldest first
func (r *gormCommentRepository) GetCommentsByTweetID(tweetID uint) ([]models.Comment, error) {
	var comments []models.Comment
	if err := r.db.Where("tweet_id = ?", tweetID).Order("created_at ASC").Order("id ASC").Find(&comments).Error; err != nil {
		return nil, err
	}
	return comments, nil
}

func (r *gormCommentRepository) GetCommentsCountByTweetID(tweetID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Comment{}).Where("tweet_id = ?", tweetID).Count(&count).Error
	return count, err
}

func (r *gormCommentRepository) DeleteByTweetID(tweetID uint) error {
	return r.db.Where("tweet_id = ?", tweetID).Delete(&models.Comment{}).Error
}
