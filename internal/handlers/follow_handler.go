package handlers

import (
	"net/http"

	"github.com/anonto42/nano-feed/backend/internal/models"
	"github.com/anonto42/nano-feed/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// FollowHandler handles follow/unfollow HTTP requests
type FollowHandler struct {
	follows *services.FollowService
}

// NewFollowHandler creates a new FollowHandler
func NewFollowHandler(follows *services.FollowService) *FollowHandler {
	return &FollowHandler{follows: follows}
}

// RegisterFollowRoutes registers follow-related routes
func (h *FollowHandler) RegisterFollowRoutes(g *echo.Group) {
	g.POST("/users/:id/follow", h.FollowUser)
	g.DELETE("/users/:id/follow", h.UnfollowUser)
	g.GET("/users/:id/followers", h.GetFollowers)
	g.GET("/users/:id/following", h.GetFollowing)
}

// FollowUser follows a user. Following again is not an error.
func (h *FollowHandler) FollowUser(c echo.Context) error {
	currentUserID, err := requireUserID(c)
	if err != nil {
		return err
	}
	targetID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	created, err := h.follows.Follow(c.Request().Context(), currentUserID, targetID)
	if err != nil {
		return respondError(err)
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	return success(c, status, echo.Map{"following": true, "created": created})
}

func (h *FollowHandler) UnfollowUser(c echo.Context) error {
	currentUserID, err := requireUserID(c)
	if err != nil {
		return err
	}
	targetID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	removed, err := h.follows.Unfollow(c.Request().Context(), currentUserID, targetID)
	if err != nil {
		return respondError(err)
	}
	return success(c, http.StatusOK, echo.Map{"following": false, "removed": removed})
}

func (h *FollowHandler) GetFollowers(c echo.Context) error {
	if _, err := requireUserID(c); err != nil {
		return err
	}
	userID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	users, err := h.follows.Followers(c.Request().Context(), userID)
	if err != nil {
		return respondError(err)
	}
	return success(c, http.StatusOK, echo.Map{"followers": compactUsers(users), "count": len(users)})
}

func (h *FollowHandler) GetFollowing(c echo.Context) error {
	if _, err := requireUserID(c); err != nil {
		return err
	}
	userID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	users, err := h.follows.Following(c.Request().Context(), userID)
	if err != nil {
		return respondError(err)
	}
	return success(c, http.StatusOK, echo.Map{"following": compactUsers(users), "count": len(users)})
}

func compactUsers(users []models.User) []models.UserCompact {
	compact := make([]models.UserCompact, len(users))
	for i := range users {
		compact[i] = users[i].ToCompact()
	}
	return compact
}
