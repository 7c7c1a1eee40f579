package handlers

import (
	"net/http"
	"strings"

	"github.com/anonto42/nano-feed/backend/internal/models"
	"github.com/anonto42/nano-feed/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// UserHandler handles HTTP requests related to users
type UserHandler struct {
	services        *services.Services
	defaultPageSize int
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(svc *services.Services, defaultPageSize int) *UserHandler {
	return &UserHandler{services: svc, defaultPageSize: defaultPageSize}
}

// RegisterProfileRoutes registers user profile-related routes
func (h *UserHandler) RegisterProfileRoutes(g *echo.Group) {
	g.GET("/profile", h.GetProfile)
	g.PUT("/profile", h.UpdateProfile)
	g.PUT("/profile/password", h.ChangePassword)
	g.GET("/users/search", h.SearchUsers)
	g.GET("/users/:id", h.GetUser)
	g.GET("/users/:id/tweets", h.GetUserTweets)
}

// UserProfile is a user with follow graph counters
type UserProfile struct {
	*models.User
	FollowersCount int64 `json:"followers_count"`
	FollowingCount int64 `json:"following_count"`
	IsFollowing    bool  `json:"is_following"`
}

func (h *UserHandler) profile(c echo.Context, viewerID, userID uint) (*UserProfile, error) {
	ctx := c.Request().Context()
	user, err := h.services.Identity.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	p := &UserProfile{User: user}
	if p.FollowersCount, err = h.services.Follows.FollowerCount(ctx, userID); err != nil {
		return nil, err
	}
	if p.FollowingCount, err = h.services.Follows.FollowingCount(ctx, userID); err != nil {
		return nil, err
	}
	if p.IsFollowing, err = h.services.Follows.IsFollowing(ctx, viewerID, userID); err != nil {
		return nil, err
	}
	return p, nil
}

// GetUser retrieves another user's profile by id
func (h *UserHandler) GetUser(c echo.Context) error {
	viewerID, err := requireUserID(c)
	if err != nil {
		return err
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	p, err := h.profile(c, viewerID, id)
	if err != nil {
		return respondError(err)
	}
	return success(c, http.StatusOK, p)
}

// GetProfile retrieves the authenticated user's profile
func (h *UserHandler) GetProfile(c echo.Context) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}
	p, err := h.profile(c, userID, userID)
	if err != nil {
		return respondError(err)
	}
	return success(c, http.StatusOK, p)
}

// UpdateProfile updates the authenticated user's name and bio
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}
	var req models.UpdateUserRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	current, err := h.services.Identity.GetUser(ctx, userID)
	if err != nil {
		return respondError(err)
	}
	name, bio := current.Name, current.Bio
	if req.Name != "" {
		name = req.Name
	}
	if req.Bio != nil {
		bio = *req.Bio
	}

	user, err := h.services.Identity.UpdateProfile(ctx, userID, name, bio)
	if err != nil {
		return respondError(err)
	}
	return success(c, http.StatusOK, user)
}

// ChangePassword replaces the authenticated user's password
func (h *UserHandler) ChangePassword(c echo.Context) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}
	var req models.ChangePasswordRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	if err := h.services.Auth.ChangePassword(c.Request().Context(), userID, req.CurrentPassword, req.NewPassword); err != nil {
		return respondError(err)
	}
	return success(c, http.StatusOK, echo.Map{"message": "Password updated"})
}

// SearchUsers finds users by display name. mode is prefix (default) or substring.
func (h *UserHandler) SearchUsers(c echo.Context) error {
	ctx := c.Request().Context()
	query := c.QueryParam("q")

	var (
		users []models.User
		err   error
	)
	switch strings.ToLower(c.QueryParam("mode")) {
	case "", "prefix":
		users, err = h.services.Identity.FindUsersByNamePrefix(ctx, query)
	case "substring":
		users, err = h.services.Identity.FindUsersByNameSubstring(ctx, query)
	default:
		return echo.NewHTTPError(http.StatusBadRequest, "mode must be prefix or substring")
	}
	if err != nil {
		return respondError(err)
	}

	return success(c, http.StatusOK, echo.Map{"users": compactUsers(users)})
}

// GetUserTweets returns a page of one user's tweets, newest first
func (h *UserHandler) GetUserTweets(c echo.Context) error {
	viewerID, err := requireUserID(c)
	if err != nil {
		return err
	}
	authorID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	page, limit, err := pageParams(c, h.defaultPageSize)
	if err != nil {
		return err
	}

	result, err := h.services.Content.TweetsByUser(c.Request().Context(), viewerID, authorID, page, limit)
	if err != nil {
		return respondError(err)
	}
	tweets, err := enrichTweets(c, h.services.Identity, result.Items)
	if err != nil {
		return respondError(err)
	}
	return successPage(c, echo.Map{"tweets": tweets}, paginationMeta(page, limit, result.TotalItems))
}
