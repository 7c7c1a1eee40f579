package handlers

import (
	"github.com/anonto42/nano-feed/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// FeedHandler handles feed-related HTTP requests
type FeedHandler struct {
	feed            *services.FeedService
	identity        *services.IdentityService
	defaultPageSize int
}

// NewFeedHandler creates a new FeedHandler
func NewFeedHandler(feed *services.FeedService, identity *services.IdentityService, defaultPageSize int) *FeedHandler {
	return &FeedHandler{feed: feed, identity: identity, defaultPageSize: defaultPageSize}
}

// RegisterFeedRoutes registers feed-related routes
func (h *FeedHandler) RegisterFeedRoutes(g *echo.Group) {
	g.GET("/feed", h.GetFeed)
}

// GetFeed returns a page of the current user's home feed. mode is
// chronological (default) or ranked.
func (h *FeedHandler) GetFeed(c echo.Context) error {
	currentUserID, err := requireUserID(c)
	if err != nil {
		return err
	}
	mode, err := services.ParseFeedMode(c.QueryParam("mode"))
	if err != nil {
		return respondError(err)
	}
	page, limit, err := pageParams(c, h.defaultPageSize)
	if err != nil {
		return err
	}

	feed, err := h.feed.ComposeFeed(c.Request().Context(), currentUserID, mode, page, limit)
	if err != nil {
		return respondError(err)
	}
	tweets, err := enrichTweets(c, h.identity, feed.Items)
	if err != nil {
		return respondError(err)
	}

	return successPage(c, echo.Map{"mode": mode, "tweets": tweets}, echo.Map{
		"currentPage":     feed.Page,
		"totalPages":      feed.TotalPages,
		"totalItems":      feed.TotalItems,
		"itemsPerPage":    feed.PageSize,
		"hasNextPage":     feed.HasNextPage,
		"hasPreviousPage": feed.HasPreviousPage,
	})
}
