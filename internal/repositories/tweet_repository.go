package repositories

import (
	"fmt"

	"github.com/anonto42/nano-feed/backend/internal/models"
	"gorm.io/gorm"
)

// FeedOrder selects the ordering of a tweet listing
type FeedOrder int

const (
	OrderChronological FeedOrder = iota
	OrderRanked
)

// Weights are the multipliers of the ranking score
type Weights struct {
	Like    int
	Comment int
}

// TweetQuery describes a page of tweets by a set of authors
type TweetQuery struct {
	AuthorIDs []uint
	Order     FeedOrder
	Weights   Weights
	Offset    int
	Limit     int
}

const (
	likesCountSQL    = "(SELECT COUNT(*) FROM likes WHERE likes.tweet_id = tweets.id)"
	commentsCountSQL = "(SELECT COUNT(*) FROM comments WHERE comments.tweet_id = tweets.id)"
)

// TweetRepository defines the interface for tweet data operations
type TweetRepository interface {
	CreateTweet(tweet *models.Tweet) error
	GetTweetByID(id uint) (*models.Tweet, error)
	GetTweetWithCounts(id uint, w Weights) (*models.Tweet, error)
	DeleteTweet(id uint) error
	ListByAuthors(q TweetQuery) ([]models.Tweet, error)
	CountByAuthors(authorIDs []uint) (int64, error)
	ListByHashtag(tag string, w Weights) ([]models.Tweet, error)
}

type gormTweetRepository struct {
	db *gorm.DB
}

// NewTweetRepository creates a new TweetRepository
func NewTweetRepository(db *gorm.DB) TweetRepository {
	return &gormTweetRepository{db: db}
}

func (r *gormTweetRepository) CreateTweet(tweet *models.Tweet) error {
	return r.db.Omit("Hashtags").Create(tweet).Error
}

// GetTweetByID returns gorm.ErrRecordNotFound when the tweet does not exist
func (r *gormTweetRepository) GetTweetByID(id uint) (*models.Tweet, error) {
	var tweet models.Tweet
	if err := r.db.First(&tweet, id).Error; err != nil {
		return nil, err
	}
	return &tweet, nil
}

func (r *gormTweetRepository) GetTweetWithCounts(id uint, w Weights) (*models.Tweet, error) {
	var tweet models.Tweet
	err := r.withCounts(w).
		Preload("Hashtags").
		Where("tweets.id = ?", id).
		First(&tweet).Error
	if err != nil {
		return nil, err
	}
	return &tweet, nil
}

func (r *gormTweetRepository) DeleteTweet(id uint) error {
	return r.db.Delete(&models.Tweet{}, id).Error
}

// ListByAuthors returns one page of tweets by the given authors with their
// engagement counts aggregated at read time
func (r *gormTweetRepository) ListByAuthors(q TweetQuery) ([]models.Tweet, error) {
	tweets := []models.Tweet{}
	if len(q.AuthorIDs) == 0 {
		return tweets, nil
	}
	tx := r.withCounts(q.Weights).Where("tweets.user_id IN ?", q.AuthorIDs)
	if q.Order == OrderRanked {
		tx = tx.Order("score DESC")
	}
	err := tx.Order("tweets.created_at DESC").Order("tweets.id DESC").
		Preload("Hashtags").
		Offset(q.Offset).Limit(q.Limit).
		Find(&tweets).Error
	return tweets, err
}

func (r *gormTweetRepository) CountByAuthors(authorIDs []uint) (int64, error) {
	var count int64
	if len(authorIDs) == 0 {
		return 0, nil
	}
	err := r.db.Model(&models.Tweet{}).Where("user_id IN ?", authorIDs).Count(&count).Error
	return count, err
}

// ListByHashtag returns every tweet linked to the exact tag, newest first
func (r *gormTweetRepository) ListByHashtag(tag string, w Weights) ([]models.Tweet, error) {
	tweets := []models.Tweet{}
	err := r.withCounts(w).
		Joins("JOIN tweet_hashtags ON tweet_hashtags.tweet_id = tweets.id").
		Joins("JOIN hashtags ON hashtags.id = tweet_hashtags.hashtag_id").
		Where("hashtags.tag = ?", tag).
		Order("tweets.created_at DESC").Order("tweets.id DESC").
		Preload("Hashtags").
		Find(&tweets).Error
	return tweets, err
}

func (r *gormTweetRepository) withCounts(w Weights) *gorm.DB {
	score := fmt.Sprintf("(%d * %s + %d * %s)", w.Like, likesCountSQL, w.Comment, commentsCountSQL)
	return r.db.Model(&models.Tweet{}).Select(
		"tweets.*, " +
			likesCountSQL + " AS likes_count, " +
			commentsCountSQL + " AS comments_count, " +
			score + " AS score",
	)
}
