package handler

import (
	"context"
	"crypto/subtle"
	"net/http"

	"alumninet/cmd/internal/access"
	"alumninet/cmd/internal/contract"
	"alumninet/cmd/internal/infrastructure/aws/websocket"
	"alumninet/cmd/internal/utils/apierror"

	"github.com/labstack/echo/v4"
)

type WebSocketService interface {
	RegisterConnection(ctx context.Context, userID string, connID string, exp int64) apierror.ErrorResponse
	RemoveConnection(ctx context.Context, connectionID string)
	HandleMessage(ctx context.Context, msg *contract.IncomingSocketMessage, connID string)
}

type DefaultWSRoute struct {
	WSService WebSocketService

	// Secret must match the HeaderGatewaySecret of every request.
	// An empty secret rejects them all.
	Secret string
}

func NewWSDefault(wsService WebSocketService, secret string) *DefaultWSRoute {
	return &DefaultWSRoute{WSService: wsService, Secret: secret}
}

// HandleConnect binds the gateway connection to the caller until their
// session token expires.
func (h *DefaultWSRoute) HandleConnect(c echo.Context) error {
	if !h.fromGateway(c) {
		return c.JSON(apierror.GatewayOnlyError.Code(), apierror.GatewayOnlyError)
	}

	sess, apierr := access.RequireSession(c)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	connID := c.Request().Header.Get(websocket.HeaderConnectionID)
	if connID == "" {
		return c.JSON(http.StatusBadRequest, apierror.NewMissingParamError("connectionId"))
	}

	if apierr = h.WSService.RegisterConnection(c.Request().Context(), sess.IdentityID, connID, sess.ExpiresAt); apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.NoContent(http.StatusOK)
}

func (h *DefaultWSRoute) HandleDisconnect(c echo.Context) error {
	if !h.fromGateway(c) {
		return c.JSON(apierror.GatewayOnlyError.Code(), apierror.GatewayOnlyError)
	}

	connID := c.Request().Header.Get(websocket.HeaderConnectionID)
	if connID != "" {
		h.WSService.RemoveConnection(c.Request().Context(), connID)
	}
	return c.NoContent(http.StatusOK)
}

func (h *DefaultWSRoute) HandleMessage(c echo.Context) error {
	if !h.fromGateway(c) {
		return c.JSON(apierror.GatewayOnlyError.Code(), apierror.GatewayOnlyError)
	}

	connID := c.Request().Header.Get(websocket.HeaderConnectionID)
	if connID == "" {
		return c.JSON(http.StatusBadRequest, apierror.NewMissingParamError("connectionId"))
	}

	var msg contract.IncomingSocketMessage
	if err := c.Bind(&msg); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	h.WSService.HandleMessage(c.Request().Context(), &msg, connID)
	return c.NoContent(http.StatusOK)
}

func (h *DefaultWSRoute) fromGateway(c echo.Context) bool {
	if h.Secret == "" {
		return false
	}
	got := c.Request().Header.Get(websocket.HeaderGatewaySecret)
	return subtle.ConstantTimeCompare([]byte(got), []byte(h.Secret)) == 1
}
