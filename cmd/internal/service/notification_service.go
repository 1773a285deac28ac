package service

import (
	"context"

	"alumninet/cmd/internal/access"
	"alumninet/cmd/internal/contract"
	"alumninet/cmd/internal/domain/entity"
	"alumninet/cmd/internal/domain/events"
	"alumninet/cmd/internal/utils"
	"alumninet/cmd/internal/utils/apierror"
	"alumninet/cmd/internal/utils/uid"

	"github.com/labstack/gommon/log"
)

// NotificationListLimit caps how many notifications are listed at once.
const NotificationListLimit = 50

type NotificationRepository interface {
	Save(ctx context.Context, n *entity.Notification) error
	FindByUserID(ctx context.Context, userID string, limit int) ([]*entity.Notification, error)
	MarkRead(ctx context.Context, id int64, userID string) (bool, error)
}

type NotificationService struct {
	NotificationRepo NotificationRepository
	WSService        *WebSocketService
}

func NewNotificationService(repo NotificationRepository, wsService *WebSocketService) *NotificationService {
	return &NotificationService{
		NotificationRepo: repo,
		WSService:        wsService,
	}
}

// Notify stores a notification for userID and pushes it to their live connections.
func (n *NotificationService) Notify(ctx context.Context, userID, message, link string) error {
	notification := &entity.Notification{
		ID:        uid.Generate(),
		UserID:    userID,
		Message:   message,
		Link:      link,
		CreatedAt: utils.NowUTC(),
	}

	if err := n.NotificationRepo.Save(ctx, notification); err != nil {
		return err
	}

	resp := toNotificationResponse(notification)
	go n.WSService.Dispatch(context.Background(), userID, &events.NotificationCreated{
		NotificationResponse: resp,
	})
	return nil
}

func (n *NotificationService) List(ctx context.Context, actor *access.Session) ([]*contract.NotificationResponse, apierror.ErrorResponse) {
	notifications, err := n.NotificationRepo.FindByUserID(ctx, actor.IdentityID, NotificationListLimit)
	if err != nil {
		log.Errorf("failed to fetch notifications of %s: %v", actor.IdentityID, err)
		return nil, apierror.InternalServerError
	}

	resp := make([]*contract.NotificationResponse, len(notifications))
	for i, notification := range notifications {
		resp[i] = toNotificationResponse(notification)
	}
	return resp, nil
}

func (n *NotificationService) MarkRead(ctx context.Context, actor *access.Session, id int64) apierror.ErrorResponse {
	found, err := n.NotificationRepo.MarkRead(ctx, id, actor.IdentityID)
	if err != nil {
		log.Errorf("failed to mark notification %d as read: %v", id, err)
		return apierror.InternalServerError
	}

	if !found {
		return apierror.NotFoundError
	}
	return nil
}
