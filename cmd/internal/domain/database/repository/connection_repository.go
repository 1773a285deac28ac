package repository

import (
	"context"

	"alumninet/cmd/internal/domain/entity"

	"gorm.io/gorm"
)

type DefaultConnectionRepository struct {
	db *gorm.DB
}

func NewConnectionRepository(db *gorm.DB) *DefaultConnectionRepository {
	return &DefaultConnectionRepository{db: db}
}

func (c *DefaultConnectionRepository) Save(ctx context.Context, conn *entity.Connection) error {
	return c.db.WithContext(ctx).Save(conn).Error
}

func (c *DefaultConnectionRepository) Delete(ctx context.Context, connID string) error {
	return c.db.WithContext(ctx).Where("connection_id = ?", connID).Delete(&entity.Connection{}).Error
}

func (c *DefaultConnectionRepository) FindByUserID(ctx context.Context, userID string) ([]string, error) {
	var ids []string
	result := c.db.WithContext(ctx).
		Model(&entity.Connection{}).
		Where("user_id = ?", userID).
		Pluck("connection_id", &ids)

	if result.Error != nil {
		return nil, result.Error
	}

	return ids, nil
}

// FindStale returns connections past their token expiry or whose last
// heartbeat is older than hbLimit.
func (c *DefaultConnectionRepository) FindStale(ctx context.Context, now int64, hbLimit int64) ([]*entity.Connection, error) {
	var conns []*entity.Connection
	err := c.db.WithContext(ctx).
		Where("expires_at <= ? OR last_heartbeat_at < ?", now, now-hbLimit).
		Find(&conns).Error
	if err != nil {
		return nil, err
	}
	return conns, nil
}

// UpdateHeartbeat reports false when the connection is unknown.
func (c *DefaultConnectionRepository) UpdateHeartbeat(ctx context.Context, connID string, now int64) (bool, error) {
	result := c.db.WithContext(ctx).
		Model(&entity.Connection{}).
		Where("connection_id = ?", connID).
		Update("last_heartbeat_at", now)

	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
