package repository

import (
	"context"
	"errors"

	"alumninet/cmd/internal/domain/entity"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DefaultEventRepository struct {
	db *gorm.DB
}

func NewEventRepository(db *gorm.DB) *DefaultEventRepository {
	return &DefaultEventRepository{db: db}
}

func (e *DefaultEventRepository) FindByID(ctx context.Context, id int64) (*entity.Event, error) {
	var event entity.Event
	err := e.db.WithContext(ctx).First(&event, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}
	return &event, nil
}

// FindApprovedWithCounts lists approved events by date with their RSVP counts.
func (e *DefaultEventRepository) FindApprovedWithCounts(ctx context.Context) ([]*entity.EventWithCount, error) {
	var events []*entity.EventWithCount
	err := e.db.WithContext(ctx).
		Model(&entity.Event{}).
		Select("events.*, COUNT(event_rsvps.user_id) AS rsvp_count").
		Joins("LEFT JOIN event_rsvps ON event_rsvps.event_id = events.id").
		Where("events.status = ?", entity.StatusApproved).
		Group("events.id").
		Order("events.event_date ASC, events.id ASC").
		Scan(&events).Error
	if err != nil {
		return nil, err
	}
	return events, nil
}

func (e *DefaultEventRepository) FindByStatus(ctx context.Context, status entity.ApprovalStatus) ([]*entity.Event, error) {
	var events []*entity.Event
	err := e.db.WithContext(ctx).
		Where("status = ?", status).
		Order("event_date ASC").
		Find(&events).Error
	if err != nil {
		return nil, err
	}
	return events, nil
}

// FindByOrganizer lists the proposals of one organizer, newest first.
func (e *DefaultEventRepository) FindByOrganizer(ctx context.Context, organizerID string) ([]*entity.Event, error) {
	var events []*entity.Event
	err := e.db.WithContext(ctx).
		Where("organizer_id = ?", organizerID).
		Order("created_at DESC").
		Find(&events).Error
	if err != nil {
		return nil, err
	}
	return events, nil
}

func (e *DefaultEventRepository) Save(ctx context.Context, event *entity.Event) error {
	return e.db.WithContext(ctx).Save(event).Error
}

// CreateRsvp stores an RSVP. It reports false when the user had already
// RSVP'd to the event.
func (e *DefaultEventRepository) CreateRsvp(ctx context.Context, rsvp *entity.EventRsvp) (bool, error) {
	result := e.db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(rsvp)

	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// FindRsvpEventIDs returns the ids of every event the user RSVP'd to.
func (e *DefaultEventRepository) FindRsvpEventIDs(ctx context.Context, userID string) ([]int64, error) {
	var ids []int64
	err := e.db.WithContext(ctx).
		Model(&entity.EventRsvp{}).
		Where("user_id = ?", userID).
		Pluck("event_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// FindAttendees returns the profiles that RSVP'd to an event, in RSVP order.
func (e *DefaultEventRepository) FindAttendees(ctx context.Context, eventID int64) ([]*entity.Profile, error) {
	var rsvps []*entity.EventRsvp
	err := e.db.WithContext(ctx).
		Preload("Profile").
		Where("event_id = ?", eventID).
		Order("created_at ASC").
		Find(&rsvps).Error
	if err != nil {
		return nil, err
	}

	profiles := make([]*entity.Profile, 0, len(rsvps))
	for _, r := range rsvps {
		p := r.Profile
		profiles = append(profiles, &p)
	}
	return profiles, nil
}
