package handlers

import (
	"net/http"

	"github.com/anonto42/nano-feed/backend/internal/models"
	"github.com/anonto42/nano-feed/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// TweetHandler handles tweet and hashtag HTTP requests
type TweetHandler struct {
	content  *services.ContentService
	identity *services.IdentityService
}

// NewTweetHandler creates a new TweetHandler
func NewTweetHandler(content *services.ContentService, identity *services.IdentityService) *TweetHandler {
	return &TweetHandler{content: content, identity: identity}
}

// RegisterTweetRoutes registers tweet-related routes
func (h *TweetHandler) RegisterTweetRoutes(g *echo.Group) {
	g.POST("/tweets", h.CreateTweet)
	g.GET("/tweets/:id", h.GetTweet)
	g.DELETE("/tweets/:id", h.DeleteTweet)
	g.GET("/hashtags/:tag/tweets", h.GetTweetsByHashtag)
}

// EnrichedTweet is a tweet with its author
type EnrichedTweet struct {
	models.Tweet
	Author models.UserCompact `json:"author"`
}

// enrichTweets attaches authors with one lookup for the whole slice
func enrichTweets(c echo.Context, identity *services.IdentityService, tweets []models.Tweet) ([]EnrichedTweet, error) {
	ids := make([]uint, 0, len(tweets))
	seen := make(map[uint]bool, len(tweets))
	for _, t := range tweets {
		if !seen[t.UserID] {
			seen[t.UserID] = true
			ids = append(ids, t.UserID)
		}
	}
	authors, err := identity.UsersByIDs(c.Request().Context(), ids)
	if err != nil {
		return nil, err
	}

	enriched := make([]EnrichedTweet, len(tweets))
	for i, t := range tweets {
		enriched[i] = EnrichedTweet{Tweet: t}
		if author, ok := authors[t.UserID]; ok {
			enriched[i].Author = author.ToCompact()
		}
	}
	return enriched, nil
}

func (h *TweetHandler) CreateTweet(c echo.Context) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}
	var req models.CreateTweetRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	tweet, err := h.content.CreateTweet(c.Request().Context(), userID, req.Content)
	if err != nil {
		return respondError(err)
	}
	enriched, err := enrichTweets(c, h.identity, []models.Tweet{*tweet})
	if err != nil {
		return respondError(err)
	}
	return success(c, http.StatusCreated, enriched[0])
}

func (h *TweetHandler) GetTweet(c echo.Context) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}
	tweetID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	tweet, err := h.content.GetTweet(c.Request().Context(), userID, tweetID)
	if err != nil {
		return respondError(err)
	}
	enriched, err := enrichTweets(c, h.identity, []models.Tweet{*tweet})
	if err != nil {
		return respondError(err)
	}
	return success(c, http.StatusOK, enriched[0])
}

// DeleteTweet deletes one of the authenticated user's tweets
func (h *TweetHandler) DeleteTweet(c echo.Context) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}
	tweetID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.content.DeleteTweet(c.Request().Context(), userID, tweetID); err != nil {
		return respondError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *TweetHandler) GetTweetsByHashtag(c echo.Context) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}
	tweets, err := h.content.TweetsForTag(c.Request().Context(), userID, c.Param("tag"))
	if err != nil {
		return respondError(err)
	}
	enriched, err := enrichTweets(c, h.identity, tweets)
	if err != nil {
		return respondError(err)
	}
	return success(c, http.StatusOK, echo.Map{"tweets": enriched})
}
