package services

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/anonto42/nano-feed/backend/internal/models"
	"github.com/anonto42/nano-feed/backend/internal/repositories"
	"go.uber.org/zap"
)

// ContentService owns tweets, likes and comments
type ContentService struct {
	store         *Store
	notifications *NotificationService
	clock         Clock
	ranking       Ranking
	maxPageSize   int
	logger        *zap.Logger
}

// LikeState is the outcome of a like toggle
type LikeState struct {
	Liked      bool  `json:"liked"`
	LikesCount int64 `json:"likes_count"`
}

// TweetPage is one page of an author's timeline
type TweetPage struct {
	Items      []models.Tweet
	Page       int
	PageSize   int
	TotalItems int64
}

// CreateTweet stores the tweet and indexes its hashtags in one transaction
func (s *ContentService) CreateTweet(ctx context.Context, authorID uint, text string) (*models.Tweet, error) {
	const op = "content.CreateTweet"

	text = strings.TrimSpace(text)
	if text == "" {
		return nil, validationError(op, "tweet content is required")
	}
	if utf8.RuneCountInString(text) > models.MaxTweetLength {
		return nil, validationError(op, "tweet must be at most %d characters", models.MaxTweetLength)
	}

	tweet := &models.Tweet{UserID: authorID, Content: text, CreatedAt: s.clock()}
	err := s.store.WithinTx(ctx, op, func(repos *repositories.Repositories) error {
		if _, err := repos.Users.GetUserByID(authorID); err != nil {
			return lookupError(op, "user", err)
		}
		if err := repos.Tweets.CreateTweet(tweet); err != nil {
			return err
		}
		hashtags, err := linkHashtags(repos, tweet)
		if err != nil {
			return err
		}
		tweet.Hashtags = hashtags
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.Debug("tweet created",
		zap.Uint("tweet_id", tweet.ID),
		zap.Uint("author_id", authorID),
		zap.Int("hashtags", len(tweet.Hashtags)),
	)
	return tweet, nil
}

// DeleteTweet removes the tweet with its likes, comments and hashtag links.
// Only the author may delete it.
func (s *ContentService) DeleteTweet(ctx context.Context, requesterID, tweetID uint) error {
	const op = "content.DeleteTweet"
	err := s.store.WithinTx(ctx, op, func(repos *repositories.Repositories) error {
		tweet, err := repos.Tweets.GetTweetByID(tweetID)
		if err != nil {
			return lookupError(op, "tweet", err)
		}
		if tweet.UserID != requesterID {
			return authorizationError(op, "you can only delete your own tweets")
		}
		if err := repos.Likes.DeleteByTweetID(tweetID); err != nil {
			return err
		}
		if err := repos.Comments.DeleteByTweetID(tweetID); err != nil {
			return err
		}
		if err := repos.Hashtags.UnlinkTweet(tweetID); err != nil {
			return err
		}
		return repos.Tweets.DeleteTweet(tweetID)
	})
	if err != nil {
		return err
	}
	s.logger.Debug("tweet deleted", zap.Uint("tweet_id", tweetID))
	return nil
}

// ToggleLike likes the tweet when the user has not, and unlikes it otherwise
func (s *ContentService) ToggleLike(ctx context.Context, userID, tweetID uint) (*LikeState, error) {
	const op = "content.ToggleLike"

	state := &LikeState{}
	err := s.store.WithinTx(ctx, op, func(repos *repositories.Repositories) error {
		if _, err := repos.Users.GetUserByID(userID); err != nil {
			return lookupError(op, "user", err)
		}
		tweet, err := repos.Tweets.GetTweetByID(tweetID)
		if err != nil {
			return lookupError(op, "tweet", err)
		}

		removed, err := repos.Likes.DeleteLike(tweetID, userID)
		if err != nil {
			return err
		}
		if !removed {
			created, err := repos.Likes.CreateLike(&models.Like{UserID: userID, TweetID: tweetID, CreatedAt: s.clock()})
			if err != nil {
				return err
			}
			state.Liked = true
			if created && tweet.UserID != userID {
				payload := map[string]interface{}{"tweet_id": tweetID}
				if _, err := s.notifications.append(repos, tweet.UserID, userID, models.NotificationLike, payload); err != nil {
					return err
				}
			}
		}

		state.LikesCount, err = repos.Likes.GetLikesCountByTweetID(tweetID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return state, nil
}

func (s *ContentService) HasLiked(ctx context.Context, userID, tweetID uint) (bool, error) {
	liked, err := s.store.Read(ctx).Likes.HasUserLikedTweet(tweetID, userID)
	if err != nil {
		return false, storageError("content.HasLiked", err)
	}
	return liked, nil
}

// AddComment attaches a comment and notifies the author unless they wrote it
func (s *ContentService) AddComment(ctx context.Context, userID, tweetID uint, text string) (*models.Comment, error) {
	const op = "content.AddComment"

	text = strings.TrimSpace(text)
	if text == "" {
		return nil, validationError(op, "comment content is required")
	}
	if utf8.RuneCountInString(text) > models.MaxCommentLength {
		return nil, validationError(op, "comment must be at most %d characters", models.MaxCommentLength)
	}

	comment := &models.Comment{TweetID: tweetID, UserID: userID, Content: text, CreatedAt: s.clock()}
	err := s.store.WithinTx(ctx, op, func(repos *repositories.Repositories) error {
		if _, err := repos.Users.GetUserByID(userID); err != nil {
			return lookupError(op, "user", err)
		}
		tweet, err := repos.Tweets.GetTweetByID(tweetID)
		if err != nil {
			return lookupError(op, "tweet", err)
		}
		if err := repos.Comments.CreateComment(comment); err != nil {
			return err
		}
		if tweet.UserID == userID {
			return nil
		}
		payload := map[string]interface{}{"tweet_id": tweetID, "comment_id": comment.ID}
		_, err = s.notifications.append(repos, tweet.UserID, userID, models.NotificationComment, payload)
		return err
	})
	if err != nil {
		return nil, err
	}
	return comment, nil
}

// GetTweet returns a tweet with its engagement counts
func (s *ContentService) GetTweet(ctx context.Context, viewerID, tweetID uint) (*models.Tweet, error) {
	const op = "content.GetTweet"
	repos := s.store.Read(ctx)
	tweet, err := repos.Tweets.GetTweetWithCounts(tweetID, s.ranking.weights())
	if err != nil {
		return nil, lookupError(op, "tweet", err)
	}
	if viewerID != 0 {
		if tweet.LikedByViewer, err = repos.Likes.HasUserLikedTweet(tweetID, viewerID); err != nil {
			return nil, storageError(op, err)
		}
	}
	return tweet, nil
}

// Comments lists a tweet's comments, oldest first
func (s *ContentService) Comments(ctx context.Context, tweetID uint) ([]models.Comment, error) {
	const op = "content.Comments"
	repos := s.store.Read(ctx)
	if _, err := repos.Tweets.GetTweetByID(tweetID); err != nil {
		return nil, lookupError(op, "tweet", err)
	}
	comments, err := repos.Comments.GetCommentsByTweetID(tweetID)
	if err != nil {
		return nil, storageError(op, err)
	}
	return comments, nil
}

func (s *ContentService) LikesCount(ctx context.Context, tweetID uint) (int64, error) {
	count, err := s.store.Read(ctx).Likes.GetLikesCountByTweetID(tweetID)
	if err != nil {
		return 0, storageError("content.LikesCount", err)
	}
	return count, nil
}

func (s *ContentService) CommentsCount(ctx context.Context, tweetID uint) (int64, error) {
	count, err := s.store.Read(ctx).Comments.GetCommentsCountByTweetID(tweetID)
	if err != nil {
		return 0, storageError("content.CommentsCount", err)
	}
	return count, nil
}

// TweetsByUser returns one chronological page of the author's own tweets
func (s *ContentService) TweetsByUser(ctx context.Context, viewerID, authorID uint, page, pageSize int) (*TweetPage, error) {
	const op = "content.TweetsByUser"
	if err := checkPage(op, page, pageSize, s.maxPageSize); err != nil {
		return nil, err
	}

	repos := s.store.Read(ctx)
	if _, err := repos.Users.GetUserByID(authorID); err != nil {
		return nil, lookupError(op, "user", err)
	}
	authors := []uint{authorID}
	total, err := repos.Tweets.CountByAuthors(authors)
	if err != nil {
		return nil, storageError(op, err)
	}
	tweets, err := repos.Tweets.ListByAuthors(repositories.TweetQuery{
		AuthorIDs: authors,
		Order:     repositories.OrderChronological,
		Weights:   s.ranking.weights(),
		Offset:    pageOffset(page, pageSize),
		Limit:     pageSize,
	})
	if err != nil {
		return nil, storageError(op, err)
	}
	if err := markLiked(repos, viewerID, tweets); err != nil {
		return nil, storageError(op, err)
	}
	return &TweetPage{Items: tweets, Page: page, PageSize: pageSize, TotalItems: total}, nil
}

// markLiked sets LikedByViewer on each tweet with a single query
func markLiked(repos *repositories.Repositories, viewerID uint, tweets []models.Tweet) error {
	if viewerID == 0 || len(tweets) == 0 {
		return nil
	}
	ids := make([]uint, len(tweets))
	for i := range tweets {
		ids[i] = tweets[i].ID
	}
	liked, err := repos.Likes.GetLikedTweetIDs(viewerID, ids)
	if err != nil {
		return err
	}
	for i := range tweets {
		tweets[i].LikedByViewer = liked[tweets[i].ID]
	}
	return nil
}
