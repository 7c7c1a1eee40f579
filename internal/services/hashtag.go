package services

import (
	"context"
	"regexp"
	"strings"

	"github.com/anonto42/nano-feed/backend/internal/models"
	"github.com/anonto42/nano-feed/backend/internal/repositories"
)

var hashtagPattern = regexp.MustCompile(`#([\p{L}\p{N}_]+)`)

// ExtractHashtags returns the distinct tags in text without the leading '#',
// in order of first appearance. Tags are case-sensitive.
func ExtractHashtags(text string) []string {
	matches := hashtagPattern.FindAllStringSubmatch(text, -1)
	tags := make([]string, 0, len(matches))
	seen := make(map[string]struct{}, len(matches))
	for _, m := range matches {
		tag := m[1]
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		tags = append(tags, tag)
	}
	return tags
}

// linkHashtags indexes every tag of the tweet and returns the linked hashtags
func linkHashtags(repos *repositories.Repositories, tweet *models.Tweet) ([]models.Hashtag, error) {
	tags := ExtractHashtags(tweet.Content)
	hashtags := make([]models.Hashtag, 0, len(tags))
	ids := make([]uint, 0, len(tags))
	for _, tag := range tags {
		hashtag, err := repos.Hashtags.GetOrCreate(tag)
		if err != nil {
			return nil, err
		}
		hashtags = append(hashtags, *hashtag)
		ids = append(ids, hashtag.ID)
	}
	if err := repos.Hashtags.Link(tweet.ID, ids); err != nil {
		return nil, err
	}
	return hashtags, nil
}

// TweetsForTag lists the tweets carrying tag, newest first. A leading '#' is
// ignored and an unknown tag yields an empty list.
func (s *ContentService) TweetsForTag(ctx context.Context, viewerID uint, tag string) ([]models.Tweet, error) {
	const op = "content.TweetsForTag"
	tag = strings.TrimPrefix(strings.TrimSpace(tag), "#")
	if tag == "" {
		return []models.Tweet{}, nil
	}
	repos := s.store.Read(ctx)
	tweets, err := repos.Tweets.ListByHashtag(tag, s.ranking.weights())
	if err != nil {
		return nil, storageError(op, err)
	}
	if err := markLiked(repos, viewerID, tweets); err != nil {
		return nil, storageError(op, err)
	}
	return tweets, nil
}
