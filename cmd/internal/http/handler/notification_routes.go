package handler

import (
	"context"
	"net/http"

	"alumninet/cmd/internal/access"
	"alumninet/cmd/internal/contract"
	"alumninet/cmd/internal/utils/apierror"

	"github.com/labstack/echo/v4"
)

type NotificationService interface {
	List(ctx context.Context, actor *access.Session) ([]*contract.NotificationResponse, apierror.ErrorResponse)
	MarkRead(ctx context.Context, actor *access.Session, id int64) apierror.ErrorResponse
}

type DefaultNotificationRoute struct {
	NotificationService NotificationService
}

func NewNotificationDefault(notificationService NotificationService) *DefaultNotificationRoute {
	return &DefaultNotificationRoute{NotificationService: notificationService}
}

func (n *DefaultNotificationRoute) GetNotifications(c echo.Context) error {
	sess, apierr := access.RequireSession(c)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	notifications, apierr := n.NotificationService.List(c.Request().Context(), sess)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	resp := echo.Map{"notifications": notifications}
	return c.JSON(http.StatusOK, &resp)
}

func (n *DefaultNotificationRoute) MarkRead(c echo.Context) error {
	sess, apierr := access.RequireSession(c)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	id, apierr := parseID(c, "id")
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	if apierr = n.NotificationService.MarkRead(c.Request().Context(), sess, id); apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.NoContent(http.StatusNoContent)
}
