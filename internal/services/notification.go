package services

import (
	"context"
	"errors"

	"github.com/anonto42/nano-feed/backend/internal/models"
	"github.com/anonto42/nano-feed/backend/internal/repositories"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// NotificationService owns the per-recipient notification log
type NotificationService struct {
	store       *Store
	clock       Clock
	maxPageSize int
	logger      *zap.Logger
}

// GroupedNotifications buckets a recipient's notifications by age
type GroupedNotifications struct {
	Today     []models.Notification `json:"today"`
	Yesterday []models.Notification `json:"yesterday"`
	ThisWeek  []models.Notification `json:"this_week"`
	Older     []models.Notification `json:"older"`
}

// NotificationPage is one page of a recipient's notifications
type NotificationPage struct {
	Items      []models.Notification
	Page       int
	PageSize   int
	TotalItems int64
}

// Notify appends one notification in its own transaction. Recipient and actor
// must both exist.
func (s *NotificationService) Notify(ctx context.Context, recipientID, actorID uint, notificationType string, payload map[string]interface{}) (*models.Notification, error) {
	const op = "notifications.Notify"
	var notification *models.Notification
	err := s.store.WithinTx(ctx, op, func(repos *repositories.Repositories) error {
		if _, err := repos.Users.GetUserByID(recipientID); err != nil {
			return lookupError(op, "recipient", err)
		}
		if _, err := repos.Users.GetUserByID(actorID); err != nil {
			return lookupError(op, "actor", err)
		}
		var err error
		notification, err = s.append(repos, recipientID, actorID, notificationType, payload)
		return err
	})
	if err != nil {
		return nil, err
	}
	return notification, nil
}

// append writes a notification through repos so that callers can make it part
// of their own transaction
func (s *NotificationService) append(repos *repositories.Repositories, recipientID, actorID uint, notificationType string, payload map[string]interface{}) (*models.Notification, error) {
	const op = "notifications.Notify"

	if !models.IsValidNotificationType(notificationType) {
		return nil, validationError(op, "unknown notification type %q", notificationType)
	}
	if recipientID == actorID {
		return nil, validationError(op, "a user cannot notify themselves")
	}

	notification := &models.Notification{
		RecipientID: recipientID,
		ActorID:     actorID,
		Type:        notificationType,
		Payload:     datatypes.JSONMap(payload),
		CreatedAt:   s.clock(),
	}
	if err := repos.Notifications.CreateNotification(notification); err != nil {
		return nil, err
	}
	s.logger.Debug("notification appended",
		zap.Uint("recipient_id", recipientID),
		zap.Uint("actor_id", actorID),
		zap.String("type", notificationType),
	)
	return notification, nil
}

// ListFor returns every notification of the recipient, newest first
func (s *NotificationService) ListFor(ctx context.Context, recipientID uint) ([]models.Notification, error) {
	notifications, err := s.store.Read(ctx).Notifications.GetAllByRecipientID(recipientID)
	if err != nil {
		return nil, storageError("notifications.ListFor", err)
	}
	return notifications, nil
}

// ListPage returns one page of the recipient's notifications, newest first
func (s *NotificationService) ListPage(ctx context.Context, recipientID uint, page, pageSize int) (*NotificationPage, error) {
	const op = "notifications.ListPage"
	if err := checkPage(op, page, pageSize, s.maxPageSize); err != nil {
		return nil, err
	}
	items, total, err := s.store.Read(ctx).Notifications.GetByRecipientID(recipientID, pageOffset(page, pageSize), pageSize)
	if err != nil {
		return nil, storageError(op, err)
	}
	return &NotificationPage{Items: items, Page: page, PageSize: pageSize, TotalItems: total}, nil
}

// Grouped returns the recipient's notifications bucketed relative to the clock
func (s *NotificationService) Grouped(ctx context.Context, recipientID uint) (*GroupedNotifications, error) {
	now := s.clock()
	today, yesterday, week, older, err := s.store.Read(ctx).Notifications.GetGrouped(recipientID, now.UTC())
	if err != nil {
		return nil, storageError("notifications.Grouped", err)
	}
	return &GroupedNotifications{Today: today, Yesterday: yesterday, ThisWeek: week, Older: older}, nil
}

func (s *NotificationService) UnreadCount(ctx context.Context, recipientID uint) (int64, error) {
	count, err := s.store.Read(ctx).Notifications.GetUnreadCount(recipientID)
	if err != nil {
		return 0, storageError("notifications.UnreadCount", err)
	}
	return count, nil
}

// MarkAllRead flags every unread notification of the recipient and returns how
// many changed
func (s *NotificationService) MarkAllRead(ctx context.Context, recipientID uint) (int64, error) {
	var updated int64
	err := s.store.WithinTx(ctx, "notifications.MarkAllRead", func(repos *repositories.Repositories) error {
		var err error
		updated, err = repos.Notifications.MarkAllAsRead(recipientID)
		return err
	})
	if err != nil {
		s.logger.Error("mark all read failed", zap.Uint("recipient_id", recipientID), zap.Error(err))
		return 0, err
	}
	return updated, nil
}

// MarkRead flags one notification. Only its recipient may do so.
func (s *NotificationService) MarkRead(ctx context.Context, notificationID, requesterID uint) error {
	const op = "notifications.MarkRead"
	return s.store.WithinTx(ctx, op, func(repos *repositories.Repositories) error {
		notification, err := repos.Notifications.GetByID(notificationID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFoundError(op, "notification not found")
			}
			return err
		}
		if notification.RecipientID != requesterID {
			return authorizationError(op, "notification belongs to another user")
		}
		return repos.Notifications.MarkAsRead(notificationID)
	})
}
