package handlers

import (
	"net/http"

	"github.com/anonto42/nano-feed/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// LikeHandler handles HTTP requests related to likes
type LikeHandler struct {
	content *services.ContentService
}

// NewLikeHandler creates a new LikeHandler
func NewLikeHandler(content *services.ContentService) *LikeHandler {
	return &LikeHandler{content: content}
}

// RegisterLikeRoutes registers like-related routes
func (h *LikeHandler) RegisterLikeRoutes(g *echo.Group) {
	g.POST("/tweets/:id/like", h.ToggleLike)
	g.GET("/tweets/:id/like", h.GetLikeStatus)
}

// ToggleLike likes the tweet, or removes the like when it exists
func (h *LikeHandler) ToggleLike(c echo.Context) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}
	tweetID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	state, err := h.content.ToggleLike(c.Request().Context(), userID, tweetID)
	if err != nil {
		return respondError(err)
	}
	return success(c, http.StatusOK, state)
}

// GetLikeStatus reports whether the user likes the tweet and the like count
func (h *LikeHandler) GetLikeStatus(c echo.Context) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}
	tweetID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	tweet, err := h.content.GetTweet(ctx, userID, tweetID)
	if err != nil {
		return respondError(err)
	}
	return success(c, http.StatusOK, services.LikeState{Liked: tweet.LikedByViewer, LikesCount: tweet.LikesCount})
}
