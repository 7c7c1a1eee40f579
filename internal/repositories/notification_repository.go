package repositories

import (
	"time"

	"github.com/anonto42/nano-feed/backend/internal/models"
	"gorm.io/gorm"
)

// NotificationRepository defines the interface for notification operations
type NotificationRepository interface {
	CreateNotification(notification *models.Notification) error
	GetByID(id uint) (*models.Notification, error)
	GetAllByRecipientID(recipientID uint) ([]models.Notification, error)
	GetByRecipientID(recipientID uint, offset, limit int) ([]models.Notification, int64, error)
	GetGrouped(recipientID uint, now time.Time) ([]models.Notification, []models.Notification, []models.Notification, []models.Notification, error)
	GetUnreadCount(recipientID uint) (int64, error)
	MarkAsRead(notificationID uint) error
	MarkAllAsRead(recipientID uint) (int64, error)
}

type gormNotificationRepository struct {
	db *gorm.DB
}

// NewNotificationRepository creates a new NotificationRepository
func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &gormNotificationRepository{db: db}
}

func (r *gormNotificationRepository) CreateNotification(notification *models.Notification) error {
	return r.db.Create(notification).Error
}

func (r *gormNotificationRepository) GetByID(id uint) (*models.Notification, error) {
	var notification models.Notification
	if err := r.db.First(&notification, id).Error; err != nil {
		return nil, err
	}
	return &notification, nil
}

func (r *gormNotificationRepository) GetAllByRecipientID(recipientID uint) ([]models.Notification, error) {
	notifications := []models.Notification{}
	err := r.newestFirst(r.db.Where("recipient_id = ?", recipientID)).Find(&notifications).Error
	return notifications, err
}

func (r *gormNotificationRepository) GetByRecipientID(recipientID uint, offset, limit int) ([]models.Notification, int64, error) {
	notifications := []models.Notification{}
	var total int64

	if err := r.db.Model(&models.Notification{}).Where("recipient_id = ?", recipientID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.newestFirst(r.db.Where("recipient_id = ?", recipientID)).
		Offset(offset).Limit(limit).
		Find(&notifications).Error

	return notifications, total, err
}

// GetGrouped splits a recipient's notifications into today, yesterday, the
// rest of the last seven days, and the 50 most recent older ones
func (r *gormNotificationRepository) GetGrouped(recipientID uint, now time.Time) (today, yesterday, thisWeek, older []models.Notification, retErr error) {
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	yesterdayStart := todayStart.AddDate(0, 0, -1)
	weekStart := todayStart.AddDate(0, 0, -7)

	today, yesterday, thisWeek, older = []models.Notification{}, []models.Notification{}, []models.Notification{}, []models.Notification{}

	if err := r.newestFirst(r.db.Where("recipient_id = ? AND created_at >= ?", recipientID, todayStart)).
		Find(&today).Error; err != nil {
		return nil, nil, nil, nil, err
	}

	if err := r.newestFirst(r.db.Where("recipient_id = ? AND created_at >= ? AND created_at < ?", recipientID, yesterdayStart, todayStart)).
		Find(&yesterday).Error; err != nil {
		return nil, nil, nil, nil, err
	}

	if err := r.newestFirst(r.db.Where("recipient_id = ? AND created_at >= ? AND created_at < ?", recipientID, weekStart, yesterdayStart)).
		Find(&thisWeek).Error; err != nil {
		return nil, nil, nil, nil, err
	}

	if err := r.newestFirst(r.db.Where("recipient_id = ? AND created_at < ?", recipientID, weekStart)).
		Limit(50).Find(&older).Error; err != nil {
		return nil, nil, nil, nil, err
	}

	return today, yesterday, thisWeek, older, nil
}

func (r *gormNotificationRepository) GetUnreadCount(recipientID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Notification{}).Where("recipient_id = ? AND is_read = ?", recipientID, false).Count(&count).Error
	return count, err
}

func (r *gormNotificationRepository) MarkAsRead(notificationID uint) error {
	return r.db.Model(&models.Notification{}).Where("id = ?", notificationID).Update("is_read", true).Error
}

func (r *gormNotificationRepository) MarkAllAsRead(recipientID uint) (int64, error) {
	res := r.db.Model(&models.Notification{}).Where("recipient_id = ? AND is_read = ?", recipientID, false).Update("is_read", true)
	return res.RowsAffected, res.Error
}

func (r *gormNotificationRepository) newestFirst(tx *gorm.DB) *gorm.DB {
	return tx.Order("created_at DESC").Order("id DESC")
}
