package repository

import (
	"context"
	"errors"

	"alumninet/cmd/internal/domain/entity"

	"gorm.io/gorm"
)

type DefaultJobRepository struct {
	db *gorm.DB
}

func NewJobRepository(db *gorm.DB) *DefaultJobRepository {
	return &DefaultJobRepository{db: db}
}

func (j *DefaultJobRepository) FindByID(ctx context.Context, id int64) (*entity.Job, error) {
	var job entity.Job
	err := j.db.WithContext(ctx).First(&job, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}
	return &job, nil
}

// FindByStatus lists jobs in the given review state, newest first.
func (j *DefaultJobRepository) FindByStatus(ctx context.Context, status entity.ApprovalStatus) ([]*entity.Job, error) {
	var jobs []*entity.Job
	err := j.db.WithContext(ctx).
		Where("status = ?", status).
		Order("created_at DESC").
		Find(&jobs).Error
	if err != nil {
		return nil, err
	}
	return jobs, nil
}

func (j *DefaultJobRepository) Save(ctx context.Context, job *entity.Job) error {
	return j.db.WithContext(ctx).Save(job).Error
}

func (j *DefaultJobRepository) Delete(ctx context.Context, id int64) error {
	return j.db.WithContext(ctx).Delete(&entity.Job{}, id).Error
}
