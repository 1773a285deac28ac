package repository

import (
	"context"

	"alumninet/cmd/internal/domain/entity"

	"gorm.io/gorm"
)

type DefaultNotificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) *DefaultNotificationRepository {
	return &DefaultNotificationRepository{db: db}
}

func (n *DefaultNotificationRepository) Save(ctx context.Context, notification *entity.Notification) error {
	return n.db.WithContext(ctx).Save(notification).Error
}

// FindByUserID returns the latest notifications of a user, newest first.
func (n *DefaultNotificationRepository) FindByUserID(ctx context.Context, userID string, limit int) ([]*entity.Notification, error) {
	var notifications []*entity.Notification
	err := n.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&notifications).Error
	if err != nil {
		return nil, err
	}
	return notifications, nil
}

// MarkRead flags a notification as read. It reports false when the
// notification does not exist or belongs to someone else.
func (n *DefaultNotificationRepository) MarkRead(ctx context.Context, id int64, userID string) (bool, error) {
	result := n.db.WithContext(ctx).
		Model(&entity.Notification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("read", true)

	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
