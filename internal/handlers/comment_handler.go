package handlers

import (
	"net/http"

	"github.com/anonto42/nano-feed/backend/internal/models"
	"github.com/anonto42/nano-feed/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// CommentHandler handles HTTP requests related to comments
type CommentHandler struct {
	content  *services.ContentService
	identity *services.IdentityService
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(content *services.ContentService, identity *services.IdentityService) *CommentHandler {
	return &CommentHandler{content: content, identity: identity}
}

// RegisterCommentRoutes registers comment-related routes
func (h *CommentHandler) RegisterCommentRoutes(g *echo.Group) {
	g.POST("/tweets/:id/comments", h.CreateComment)
	g.GET("/tweets/:id/comments", h.GetComments)
}

// EnrichedComment is a comment with its author
type EnrichedComment struct {
	models.Comment
	Author models.UserCompact `json:"author"`
}

func (h *CommentHandler) CreateComment(c echo.Context) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}
	tweetID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	var req models.CreateCommentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	comment, err := h.content.AddComment(ctx, userID, tweetID, req.Content)
	if err != nil {
		return respondError(err)
	}
	author, err := h.identity.GetUser(ctx, userID)
	if err != nil {
		return respondError(err)
	}
	return success(c, http.StatusCreated, EnrichedComment{Comment: *comment, Author: author.ToCompact()})
}

// GetComments lists a tweet's comments, oldest first
func (h *CommentHandler) GetComments(c echo.Context) error {
	if _, err := requireUserID(c); err != nil {
		return err
	}
	tweetID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	comments, err := h.content.Comments(ctx, tweetID)
	if err != nil {
		return respondError(err)
	}

	ids := make([]uint, len(comments))
	for i, cm := range comments {
		ids[i] = cm.UserID
	}
	authors, err := h.identity.UsersByIDs(ctx, ids)
	if err != nil {
		return respondError(err)
	}
	enriched := make([]EnrichedComment, len(comments))
	for i, cm := range comments {
		enriched[i] = EnrichedComment{Comment: cm}
		if author, ok := authors[cm.UserID]; ok {
			enriched[i].Author = author.ToCompact()
		}
	}
	return success(c, http.StatusOK, echo.Map{"comments": enriched, "count": len(enriched)})
}
