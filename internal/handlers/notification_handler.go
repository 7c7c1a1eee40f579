package handlers

import (
	"net/http"

	"github.com/anonto42/nano-feed/backend/internal/models"
	"github.com/anonto42/nano-feed/backend/internal/services"
	"github.com/labstack/echo/v4"
)

const defaultNotificationPageSize = 20

// NotificationHandler handles notification-related HTTP requests
type NotificationHandler struct {
	notifications *services.NotificationService
	identity      *services.IdentityService
}

// NewNotificationHandler creates a new NotificationHandler
func NewNotificationHandler(notifications *services.NotificationService, identity *services.IdentityService) *NotificationHandler {
	return &NotificationHandler{notifications: notifications, identity: identity}
}

// RegisterNotificationRoutes registers notification routes
func (h *NotificationHandler) RegisterNotificationRoutes(g *echo.Group) {
	g.GET("/notifications", h.GetNotifications)
	g.GET("/notifications/grouped", h.GetGroupedNotifications)
	g.GET("/notifications/unread-count", h.GetUnreadCount)
	g.PUT("/notifications/:id/read", h.MarkAsRead)
	g.PUT("/notifications/read-all", h.MarkAllAsRead)
}

// EnrichedNotification includes actor info
type EnrichedNotification struct {
	models.Notification
	Actor models.UserCompact `json:"actor"`
}

func (h *NotificationHandler) enrichNotifications(c echo.Context, notifications []models.Notification) ([]EnrichedNotification, error) {
	ids := make([]uint, len(notifications))
	for i, n := range notifications {
		ids[i] = n.ActorID
	}
	actors, err := h.identity.UsersByIDs(c.Request().Context(), ids)
	if err != nil {
		return nil, err
	}

	enriched := make([]EnrichedNotification, len(notifications))
	for i, n := range notifications {
		enriched[i] = EnrichedNotification{Notification: n}
		if actor, ok := actors[n.ActorID]; ok {
			enriched[i].Actor = actor.ToCompact()
		}
	}
	return enriched, nil
}

// GetNotifications returns paginated notifications, newest first
func (h *NotificationHandler) GetNotifications(c echo.Context) error {
	currentUserID, err := requireUserID(c)
	if err != nil {
		return err
	}
	page, limit, err := pageParams(c, defaultNotificationPageSize)
	if err != nil {
		return err
	}

	result, err := h.notifications.ListPage(c.Request().Context(), currentUserID, page, limit)
	if err != nil {
		return respondError(err)
	}
	enriched, err := h.enrichNotifications(c, result.Items)
	if err != nil {
		return respondError(err)
	}
	return successPage(c, echo.Map{"notifications": enriched}, paginationMeta(page, limit, result.TotalItems))
}

// GetGroupedNotifications returns notifications bucketed by age
func (h *NotificationHandler) GetGroupedNotifications(c echo.Context) error {
	currentUserID, err := requireUserID(c)
	if err != nil {
		return err
	}

	grouped, err := h.notifications.Grouped(c.Request().Context(), currentUserID)
	if err != nil {
		return respondError(err)
	}

	buckets := echo.Map{}
	for key, items := range map[string][]models.Notification{
		"today":     grouped.Today,
		"yesterday": grouped.Yesterday,
		"thisWeek":  grouped.ThisWeek,
		"older":     grouped.Older,
	} {
		enriched, err := h.enrichNotifications(c, items)
		if err != nil {
			return respondError(err)
		}
		buckets[key] = enriched
	}
	return success(c, http.StatusOK, buckets)
}

func (h *NotificationHandler) GetUnreadCount(c echo.Context) error {
	currentUserID, err := requireUserID(c)
	if err != nil {
		return err
	}
	count, err := h.notifications.UnreadCount(c.Request().Context(), currentUserID)
	if err != nil {
		return respondError(err)
	}
	return success(c, http.StatusOK, echo.Map{"count": count})
}

func (h *NotificationHandler) MarkAsRead(c echo.Context) error {
	currentUserID, err := requireUserID(c)
	if err != nil {
		return err
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.notifications.MarkRead(c.Request().Context(), id, currentUserID); err != nil {
		return respondError(err)
	}
	return success(c, http.StatusOK, echo.Map{"message": "Notification marked as read"})
}

func (h *NotificationHandler) MarkAllAsRead(c echo.Context) error {
	currentUserID, err := requireUserID(c)
	if err != nil {
		return err
	}
	updated, err := h.notifications.MarkAllRead(c.Request().Context(), currentUserID)
	if err != nil {
		return respondError(err)
	}
	return success(c, http.StatusOK, echo.Map{"updated": updated})
}
