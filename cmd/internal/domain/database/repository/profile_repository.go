package repository

import (
	"context"
	"errors"

	"alumninet/cmd/internal/domain/entity"

	"gorm.io/gorm"
)

type DefaultProfileRepository struct {
	db *gorm.DB
}

func NewProfileRepository(db *gorm.DB) *DefaultProfileRepository {
	return &DefaultProfileRepository{db: db}
}

func (p *DefaultProfileRepository) FindByID(ctx context.Context, id string) (*entity.Profile, error) {
	var profile entity.Profile
	err := p.db.WithContext(ctx).Where("id = ?", id).First(&profile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// GetProfileRole reads only the columns the session resolver needs.
func (p *DefaultProfileRepository) GetProfileRole(ctx context.Context, id string) (*entity.ProfileRole, error) {
	var role entity.ProfileRole
	result := p.db.WithContext(ctx).
		Model(&entity.Profile{}).
		Select("role", "is_verified").
		Where("id = ?", id).
		Limit(1).
		Scan(&role)

	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, nil
	}

	role.Role = entity.ParseRole(string(role.Role))
	return &role, nil
}

func (p *DefaultProfileRepository) FindVerifiedByID(ctx context.Context, id string) (*entity.Profile, error) {
	var profile entity.Profile
	err := p.db.WithContext(ctx).
		Where("id = ? AND is_verified = ?", id, true).
		First(&profile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// FindVerified lists verified profiles by name. A non-empty query filters
// on name, degree and company.
func (p *DefaultProfileRepository) FindVerified(ctx context.Context, query string) ([]*entity.Profile, error) {
	tx := p.db.WithContext(ctx).Where("is_verified = ?", true)
	tx = filterProfiles(tx, query)

	var profiles []*entity.Profile
	if err := tx.Order("full_name ASC").Find(&profiles).Error; err != nil {
		return nil, err
	}
	return profiles, nil
}

// FindAll lists every profile, newest first.
func (p *DefaultProfileRepository) FindAll(ctx context.Context, query string) ([]*entity.Profile, error) {
	tx := filterProfiles(p.db.WithContext(ctx), query)

	var profiles []*entity.Profile
	if err := tx.Order("created_at DESC").Find(&profiles).Error; err != nil {
		return nil, err
	}
	return profiles, nil
}

func (p *DefaultProfileRepository) FindAllInIDs(ctx context.Context, ids []string) ([]*entity.Profile, error) {
	if len(ids) == 0 {
		return []*entity.Profile{}, nil
	}

	var profiles []*entity.Profile
	err := p.db.WithContext(ctx).Where("id IN ?", ids).Find(&profiles).Error
	if err != nil {
		return nil, err
	}
	return profiles, nil
}

func (p *DefaultProfileRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	err := p.db.WithContext(ctx).
		Model(&entity.Profile{}).
		Where("LOWER(email) = LOWER(?)", email).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// DegreeStats returns the most common degrees, largest first.
func (p *DefaultProfileRepository) DegreeStats(ctx context.Context, limit int) ([]entity.DegreeCount, error) {
	var stats []entity.DegreeCount
	err := p.db.WithContext(ctx).
		Model(&entity.Profile{}).
		Select("degree, COUNT(*) AS count").
		Where("degree <> ''").
		Group("degree").
		Order("count DESC, degree ASC").
		Limit(limit).
		Scan(&stats).Error
	if err != nil {
		return nil, err
	}
	return stats, nil
}

func (p *DefaultProfileRepository) Save(ctx context.Context, profile *entity.Profile) error {
	return p.db.WithContext(ctx).Save(profile).Error
}

// Delete removes a profile together with everything it owns.
func (p *DefaultProfileRepository) Delete(ctx context.Context, id string) error {
	return p.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		owned := []struct {
			model  any
			column string
		}{
			{&entity.EventRsvp{}, "user_id"},
			{&entity.SuccessStory{}, "user_id"},
			{&entity.Notification{}, "user_id"},
			{&entity.Connection{}, "user_id"},
			{&entity.Job{}, "posted_by_id"},
			{&entity.Event{}, "organizer_id"},
		}

		err := tx.Where("event_id IN (SELECT id FROM events WHERE organizer_id = ?)", id).
			Delete(&entity.EventRsvp{}).Error
		if err != nil {
			return err
		}

		for _, o := range owned {
			if err := tx.Where(o.column+" = ?", id).Delete(o.model).Error; err != nil {
				return err
			}
		}
		return tx.Where("id = ?", id).Delete(&entity.Profile{}).Error
	})
}

func filterProfiles(tx *gorm.DB, query string) *gorm.DB {
	if query == "" {
		return tx
	}

	pattern := containsPattern(query)
	return tx.Where(
		`(LOWER(full_name) LIKE ? ESCAPE '\' OR LOWER(degree) LIKE ? ESCAPE '\' OR LOWER(company) LIKE ? ESCAPE '\')`,
		pattern, pattern, pattern,
	)
}
