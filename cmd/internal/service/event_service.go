package service

import (
	"context"

	"alumninet/cmd/internal/access"
	"alumninet/cmd/internal/contract"
	"alumninet/cmd/internal/domain/entity"
	"alumninet/cmd/internal/domain/policy"
	"alumninet/cmd/internal/utils"
	"alumninet/cmd/internal/utils/apierror"
	"alumninet/cmd/internal/utils/uid"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/gommon/log"
)

type EventRepository interface {
	FindByID(ctx context.Context, id int64) (*entity.Event, error)
	FindApprovedWithCounts(ctx context.Context) ([]*entity.EventWithCount, error)
	FindByStatus(ctx context.Context, status entity.ApprovalStatus) ([]*entity.Event, error)
	FindByOrganizer(ctx context.Context, organizerID string) ([]*entity.Event, error)
	Save(ctx context.Context, event *entity.Event) error
	CreateRsvp(ctx context.Context, rsvp *entity.EventRsvp) (bool, error)
	FindRsvpEventIDs(ctx context.Context, userID string) ([]int64, error)
	FindAttendees(ctx context.Context, eventID int64) ([]*entity.Profile, error)
}

type EventService struct {
	EventRepo     EventRepository
	Validate      *validator.Validate
	ContentPolicy *policy.ContentPolicy
}

func NewEventService(eventRepo EventRepository, validate *validator.Validate, contentPolicy *policy.ContentPolicy) *EventService {
	return &EventService{
		EventRepo:     eventRepo,
		Validate:      validate,
		ContentPolicy: contentPolicy,
	}
}

// ListApproved returns every approved event ordered by date, past ones
// included, with their attendee counts.
// Signed-in callers also get the ids of the events they RSVP'd to.
func (e *EventService) ListApproved(ctx context.Context, actor *access.Session) (*contract.EventListResponse, apierror.ErrorResponse) {
	listed, err := e.EventRepo.FindApprovedWithCounts(ctx)
	if err != nil {
		log.Errorf("failed to fetch events: %v", err)
		return nil, apierror.InternalServerError
	}

	resp := &contract.EventListResponse{
		Events:  make([]*contract.EventResponse, len(listed)),
		MyRsvps: []string{},
	}
	for i, ev := range listed {
		count := ev.RsvpCount
		resp.Events[i] = toEventResponse(&ev.Event)
		resp.Events[i].RsvpCount = &count
	}

	if !actor.State.Authenticated() {
		return resp, nil
	}

	ids, err := e.EventRepo.FindRsvpEventIDs(ctx, actor.IdentityID)
	if err != nil {
		log.Errorf("failed to fetch RSVPs of %s: %v", actor.IdentityID, err)
		return nil, apierror.InternalServerError
	}

	for _, id := range ids {
		resp.MyRsvps = append(resp.MyRsvps, formatID(id))
	}
	return resp, nil
}

func (e *EventService) ListPending(ctx context.Context) ([]*contract.EventResponse, apierror.ErrorResponse) {
	events, err := e.EventRepo.FindByStatus(ctx, entity.StatusPending)
	if err != nil {
		log.Errorf("failed to fetch pending events: %v", err)
		return nil, apierror.InternalServerError
	}
	return toEventResponses(events), nil
}

// ListOwn returns the caller's proposals with their review status.
func (e *EventService) ListOwn(ctx context.Context, actor *access.Session) ([]*contract.EventResponse, apierror.ErrorResponse) {
	events, err := e.EventRepo.FindByOrganizer(ctx, actor.IdentityID)
	if err != nil {
		log.Errorf("failed to fetch events organized by %s: %v", actor.IdentityID, err)
		return nil, apierror.InternalServerError
	}
	return toEventResponses(events), nil
}

// ProposeEvent submits an event for review.
func (e *EventService) ProposeEvent(ctx context.Context, actor *access.Session, req *contract.CreateEventRequest) (*contract.EventResponse, apierror.ErrorResponse) {
	utils.Sanitize(req)
	if err := e.Validate.Struct(req); err != nil {
		return nil, apierror.FromValidationError(err)
	}

	now := utils.NowUTC()
	event := &entity.Event{
		ID:          uid.Generate(),
		Title:       req.Title,
		Description: req.Description,
		EventDate:   req.EventDate,
		EventTime:   req.EventTime,
		Location:    req.Location,
		ImageURL:    req.ImageURL,
		OrganizerID: actor.IdentityID,
		Status:      entity.StatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := e.EventRepo.Save(ctx, event); err != nil {
		log.Errorf("failed to save event: %v", err)
		return nil, apierror.InternalServerError
	}
	return toEventResponse(event), nil
}

// Rsvp registers the caller as attending an approved event, once.
func (e *EventService) Rsvp(ctx context.Context, actor *access.Session, eventID int64) apierror.ErrorResponse {
	event, apierr := e.fetchEvent(ctx, eventID)
	if apierr != nil {
		return apierr
	}

	if apierr = e.ContentPolicy.CanSee(actor, event.OrganizerID, event.Status); apierr != nil {
		return apierr
	}

	if !event.Status.IsPublic() {
		return apierror.EventNotOpenError
	}

	created, err := e.EventRepo.CreateRsvp(ctx, &entity.EventRsvp{
		EventID:   eventID,
		UserID:    actor.IdentityID,
		CreatedAt: utils.NowUTC(),
	})
	if err != nil {
		log.Errorf("failed to RSVP %s to event %d: %v", actor.IdentityID, eventID, err)
		return apierror.InternalServerError
	}

	if !created {
		return apierror.AlreadyRsvpdError
	}
	return nil
}

// Review approves or rejects a pending event.
func (e *EventService) Review(ctx context.Context, actor *access.Session, id int64, status entity.ApprovalStatus) (*contract.EventResponse, apierror.ErrorResponse) {
	event, apierr := e.fetchEvent(ctx, id)
	if apierr != nil {
		return nil, apierr
	}

	if apierr = e.ContentPolicy.CanReview(actor, event.Status); apierr != nil {
		return nil, apierr
	}

	event.Status = status
	event.UpdatedAt = utils.NowUTC()
	if err := e.EventRepo.Save(ctx, event); err != nil {
		log.Errorf("failed to review event %d: %v", id, err)
		return nil, apierror.InternalServerError
	}
	return toEventResponse(event), nil
}

// Attendees returns the event together with the profiles attending it.
func (e *EventService) Attendees(ctx context.Context, eventID int64) (*entity.Event, []*entity.Profile, apierror.ErrorResponse) {
	event, apierr := e.fetchEvent(ctx, eventID)
	if apierr != nil {
		return nil, nil, apierr
	}

	attendees, err := e.EventRepo.FindAttendees(ctx, eventID)
	if err != nil {
		log.Errorf("failed to fetch attendees of event %d: %v", eventID, err)
		return nil, nil, apierror.InternalServerError
	}
	return event, attendees, nil
}

func (e *EventService) fetchEvent(ctx context.Context, id int64) (*entity.Event, apierror.ErrorResponse) {
	event, err := e.EventRepo.FindByID(ctx, id)
	if err != nil {
		log.Errorf("failed to fetch event %d: %v", id, err)
		return nil, apierror.InternalServerError
	}

	if event == nil {
		return nil, apierror.NotFoundError
	}
	return event, nil
}

func toEventResponses(events []*entity.Event) []*contract.EventResponse {
	resp := make([]*contract.EventResponse, len(events))
	for i, event := range events {
		resp[i] = toEventResponse(event)
	}
	return resp
}
