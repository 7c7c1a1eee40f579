package services

import (
	"context"
	"math"
	"strings"

	"github.com/anonto42/nano-feed/backend/internal/models"
	"github.com/anonto42/nano-feed/backend/internal/repositories"
)

// DefaultMaxPageSize bounds every paginated listing unless configured otherwise
const DefaultMaxPageSize = 100

// FeedMode selects how a feed is ordered
type FeedMode string

const (
	FeedChronological FeedMode = "chronological"
	FeedRanked        FeedMode = "ranked"
)

// ParseFeedMode maps a query value to a FeedMode. Empty means chronological.
func ParseFeedMode(s string) (FeedMode, error) {
	switch FeedMode(strings.ToLower(strings.TrimSpace(s))) {
	case "", FeedChronological:
		return FeedChronological, nil
	case FeedRanked:
		return FeedRanked, nil
	}
	return "", validationError("feed.ParseFeedMode", "unknown feed mode %q", s)
}

// FeedPage is one page of a viewer's feed
type FeedPage struct {
	Items           []models.Tweet `json:"items"`
	Page            int            `json:"page"`
	PageSize        int            `json:"page_size"`
	TotalItems      int64          `json:"total_items"`
	TotalPages      int            `json:"total_pages"`
	HasNextPage     bool           `json:"has_next_page"`
	HasPreviousPage bool           `json:"has_previous_page"`
}

// FeedService composes feeds from the viewer's own tweets and those of the
// users they follow
type FeedService struct {
	store       *Store
	ranking     Ranking
	maxPageSize int
}

// ComposeFeed returns the requested page of the viewer's feed. Pages past the
// end are empty.
func (s *FeedService) ComposeFeed(ctx context.Context, viewerID uint, mode FeedMode, page, pageSize int) (*FeedPage, error) {
	const op = "feed.ComposeFeed"

	var order repositories.FeedOrder
	switch mode {
	case FeedChronological:
		order = repositories.OrderChronological
	case FeedRanked:
		order = repositories.OrderRanked
	default:
		return nil, validationError(op, "unknown feed mode %q", mode)
	}
	if err := checkPage(op, page, pageSize, s.maxPageSize); err != nil {
		return nil, err
	}

	repos := s.store.Read(ctx)
	if _, err := repos.Users.GetUserByID(viewerID); err != nil {
		return nil, lookupError(op, "user", err)
	}
	following, err := repos.Follows.GetFollowingIDs(viewerID)
	if err != nil {
		return nil, storageError(op, err)
	}
	authors := append([]uint{viewerID}, following...)

	total, err := repos.Tweets.CountByAuthors(authors)
	if err != nil {
		return nil, storageError(op, err)
	}
	tweets, err := repos.Tweets.ListByAuthors(repositories.TweetQuery{
		AuthorIDs: authors,
		Order:     order,
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

	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	return &FeedPage{
		Items:           tweets,
		Page:            page,
		PageSize:        pageSize,
		TotalItems:      total,
		TotalPages:      totalPages,
		HasNextPage:     page < totalPages,
		HasPreviousPage: page > 1,
	}, nil
}

func checkPage(op string, page, pageSize, maxPageSize int) error {
	if page < 1 {
		return validationError(op, "page must be at least 1")
	}
	if pageSize < 1 || pageSize > maxPageSize {
		return validationError(op, "page size must be between 1 and %d", maxPageSize)
	}
	return nil
}

// pageOffset is the row offset of a checked page. Pages whose offset would
// overflow int are clamped to the largest page-aligned offset, which is past
// the end of any table.
func pageOffset(page, pageSize int) int {
	if page-1 > math.MaxInt/pageSize {
		return math.MaxInt / pageSize * pageSize
	}
	return (page - 1) * pageSize
}
