package handler

import (
	"context"
	"net/http"

	"alumninet/cmd/internal/access"
	"alumninet/cmd/internal/contract"
	"alumninet/cmd/internal/utils/apierror"

	"github.com/labstack/echo/v4"
)

type EventService interface {
	ListApproved(ctx context.Context, actor *access.Session) (*contract.EventListResponse, apierror.ErrorResponse)
	ListOwn(ctx context.Context, actor *access.Session) ([]*contract.EventResponse, apierror.ErrorResponse)
	ProposeEvent(ctx context.Context, actor *access.Session, req *contract.CreateEventRequest) (*contract.EventResponse, apierror.ErrorResponse)
	Rsvp(ctx context.Context, actor *access.Session, eventID int64) apierror.ErrorResponse
}

type DefaultEventRoute struct {
	EventService EventService
}

func NewEventDefault(eventService EventService) *DefaultEventRoute {
	return &DefaultEventRoute{EventService: eventService}
}

// GetEvents is public. Signed-in callers also get their own RSVPs.
func (e *DefaultEventRoute) GetEvents(c echo.Context) error {
	resp, apierr := e.EventService.ListApproved(c.Request().Context(), access.FromContext(c))
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, resp)
}

func (e *DefaultEventRoute) GetOwnEvents(c echo.Context) error {
	sess, apierr := access.RequireSession(c)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	events, apierr := e.EventService.ListOwn(c.Request().Context(), sess)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	resp := echo.Map{"events": events}
	return c.JSON(http.StatusOK, &resp)
}

func (e *DefaultEventRoute) ProposeEvent(c echo.Context) error {
	sess, apierr := access.RequireSession(c)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	var req contract.CreateEventRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	event, apierr := e.EventService.ProposeEvent(c.Request().Context(), sess, &req)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusCreated, event)
}

func (e *DefaultEventRoute) Rsvp(c echo.Context) error {
	sess, apierr := access.RequireSession(c)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	id, apierr := parseID(c, "id")
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	if apierr = e.EventService.Rsvp(c.Request().Context(), sess, id); apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.NoContent(http.StatusCreated)
}
