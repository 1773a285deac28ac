package repository

import (
	"context"
	"errors"

	"alumninet/cmd/internal/domain/entity"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DefaultStoryRepository struct {
	db *gorm.DB
}

func NewStoryRepository(db *gorm.DB) *DefaultStoryRepository {
	return &DefaultStoryRepository{db: db}
}

func (s *DefaultStoryRepository) FindByID(ctx context.Context, id int64) (*entity.SuccessStory, error) {
	var story entity.SuccessStory
	err := s.db.WithContext(ctx).First(&story, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}
	return &story, nil
}

// FindByStatus lists stories with their author, newest first.
func (s *DefaultStoryRepository) FindByStatus(ctx context.Context, status entity.ApprovalStatus) ([]*entity.SuccessStory, error) {
	var stories []*entity.SuccessStory
	err := s.db.WithContext(ctx).
		Preload("Author").
		Where("status = ?", status).
		Order("created_at DESC").
		Find(&stories).Error
	if err != nil {
		return nil, err
	}
	return stories, nil
}

func (s *DefaultStoryRepository) Save(ctx context.Context, story *entity.SuccessStory) error {
	return s.db.WithContext(ctx).Omit(clause.Associations).Save(story).Error
}
