package service

import (
	"context"
	"time"

	"alumninet/cmd/internal/contract"
	"alumninet/cmd/internal/domain/entity"
	"alumninet/cmd/internal/domain/events"
	"alumninet/cmd/internal/infrastructure/aws/websocket"
	"alumninet/cmd/internal/utils"
	"alumninet/cmd/internal/utils/apierror"

	"github.com/labstack/gommon/log"
)

type ConnectionRepository interface {
	Save(ctx context.Context, conn *entity.Connection) error
	Delete(ctx context.Context, connID string) error
	FindByUserID(ctx context.Context, userID string) ([]string, error)
	FindStale(ctx context.Context, now int64, hbLimit int64) ([]*entity.Connection, error)
	UpdateHeartbeat(ctx context.Context, connID string, now int64) (bool, error)
}

type WebSocketService struct {
	ConnRepo ConnectionRepository
	Gateway  websocket.GatewayClient
}

func NewWebSocketService(repo ConnectionRepository, gateway websocket.GatewayClient) *WebSocketService {
	return &WebSocketService{
		ConnRepo: repo,
		Gateway:  gateway,
	}
}

// RegisterConnection binds a gateway connection to a signed-in user until
// the user's token expires. exp is in epoch seconds.
func (s *WebSocketService) RegisterConnection(ctx context.Context, userID string, connectionID string, exp int64) apierror.ErrorResponse {
	now := utils.NowUTC()
	conn := &entity.Connection{
		ConnectionID:    connectionID,
		UserID:          userID,
		ExpiresAt:       exp * 1000, // "exp" is stored in seconds, our app uses millis
		LastHeartbeatAt: now,        // Avoid users getting disconnected immediately
		CreatedAt:       now,
	}

	if err := s.ConnRepo.Save(ctx, conn); err != nil {
		log.Errorf("failed to save connection: %v", err)
		return apierror.InternalServerError
	}
	return nil
}

func (s *WebSocketService) RemoveConnection(ctx context.Context, connectionID string) {
	// We don't return error here because if it fails, it's not the client's fault
	_ = s.ConnRepo.Delete(ctx, connectionID)
}

func (s *WebSocketService) HandleMessage(ctx context.Context, msg *contract.IncomingSocketMessage, connID string) {
	switch msg.Type {
	case contract.EventPing:
		s.handlePing(ctx, connID)
	default:
		log.Debugf("ignoring socket message of type %q from %s", msg.Type, connID)
	}
}

// Dispatch pushes evt to every live connection of userID.
func (s *WebSocketService) Dispatch(ctx context.Context, userID string, evt events.SocketEvent) {
	conns, err := s.ConnRepo.FindByUserID(ctx, userID)
	if err != nil {
		log.Errorf("failed to fetch connections for user %s: %v", userID, err)
		return
	}

	envelope := &contract.OutgoingSocketMessage{
		Type: evt.GetType(),
		Data: evt,
	}

	for _, connID := range conns {
		// We ignore errors here so one stale connection doesn't block others
		_ = s.Gateway.PostToConnection(ctx, connID, envelope)
	}
}

// TerminateUserConnections sends a "poison pill" message and then disconnects
func (s *WebSocketService) TerminateUserConnections(ctx context.Context, userID string, ck *events.ConnectionKill) {
	conns, err := s.ConnRepo.FindByUserID(ctx, userID)
	if err != nil {
		log.Errorf("failed to fetch connections for user %s: %v", userID, err)
		return
	}

	msg := contract.OutgoingSocketMessage{
		Type: contract.EventConnectionKill,
		Data: ck,
	}

	for _, connID := range conns {
		_ = s.Gateway.PostToConnection(ctx, connID, msg)

		go func(cid string) {
			time.Sleep(200 * time.Millisecond)
			_ = s.Gateway.DeleteConnection(context.Background(), cid)
			_ = s.ConnRepo.Delete(context.Background(), cid)
		}(connID)
	}
}

func (s *WebSocketService) handlePing(ctx context.Context, connID string) {
	known, err := s.ConnRepo.UpdateHeartbeat(ctx, connID, utils.NowUTC())
	if err != nil {
		log.Errorf("failed to update heartbeat: %v", err)
		return
	}

	if !known {
		// The connection was cleaned up already, drop it on the gateway side too
		_ = s.Gateway.DeleteConnection(ctx, connID)
		return
	}

	go func(conn string) {
		err := s.Gateway.PostToConnection(context.Background(), conn, &contract.OutgoingSocketMessage{
			Type: contract.EventAck,
		})
		if err != nil {
			log.Errorf("failed to post ack to conn %s: %v", conn, err)
		}
	}(connID)
}
