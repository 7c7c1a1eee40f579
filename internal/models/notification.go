package models

import (
	"time"

	"gorm.io/datatypes"
)

const (
	NotificationFollow  = "follow"
	NotificationLike    = "like"
	NotificationComment = "comment"
)

// Notification is an append-only event for a recipient. Only IsRead changes
// after creation.
type Notification struct {
	ID          uint              `json:"id" gorm:"primaryKey"`
	RecipientID uint              `json:"recipient_id" gorm:"not null;index"`
	ActorID     uint              `json:"actor_id" gorm:"not null;index"`
	Type        string            `json:"type" gorm:"size:20;not null;index"` // follow, like, comment
	Payload     datatypes.JSONMap `json:"payload,omitempty"`
	IsRead      bool              `json:"is_read" gorm:"default:false;index"`
	CreatedAt   time.Time         `json:"created_at" gorm:"index"`
}

// IsValidNotificationType reports whether t is a known notification type
func IsValidNotificationType(t string) bool {
	switch t {
	case NotificationFollow, NotificationLike, NotificationComment:
		return true
	}
	return false
}
