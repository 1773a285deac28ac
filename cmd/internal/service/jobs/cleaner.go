package jobs

import (
	"context"
	"time"

	"alumninet/cmd/internal/contract"
	"alumninet/cmd/internal/domain/entity"
	"alumninet/cmd/internal/domain/events"
	"alumninet/cmd/internal/service"
	"alumninet/cmd/internal/utils"

	"github.com/labstack/gommon/log"
)

// CleanupInterval is how often expired and silent connections are swept.
const CleanupInterval = 5 * time.Minute

type ConnectionCleaner struct {
	wsService *service.WebSocketService
	interval  time.Duration
}

func NewConnectionCleaner(wsService *service.WebSocketService) *ConnectionCleaner {
	return &ConnectionCleaner{wsService: wsService, interval: CleanupInterval}
}

func (c *ConnectionCleaner) Start(ctx context.Context) {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	log.Info("Connection cleaner cron started")

	for {
		select {
		case <-ctx.Done():
			log.Info("Stopping connection cleaner...")
			return
		case <-ticker.C:
			c.cleanup(ctx)
		}
	}
}

// cleanup terminates connections whose session expired or that stopped
// sending heartbeats.
func (c *ConnectionCleaner) cleanup(ctx context.Context) {
	hbLimit := entity.HeartbeatPeriodMillis + entity.HeartbeatToleranceMillis
	conns, err := c.wsService.ConnRepo.FindStale(ctx, utils.NowUTC(), hbLimit)
	if err != nil {
		log.Errorf("Cleaner: failed to fetch stale connections: %v", err)
		return
	}

	if len(conns) == 0 {
		return
	}

	log.Infof("Cleaner: Found %d stale connections. Terminating...", len(conns))

	envelope := &contract.OutgoingSocketMessage{
		Type: (&events.SessionExpired{}).GetType(),
	}

	for _, conn := range conns {
		// Detached from the ticker, shutdown should not leave half-closed connections
		bgCtx := context.Background()

		// So the client knows NOT to try reconnecting
		_ = c.wsService.Gateway.PostToConnection(bgCtx, conn.ConnectionID, envelope)
		_ = c.wsService.Gateway.DeleteConnection(bgCtx, conn.ConnectionID)
		_ = c.wsService.ConnRepo.Delete(bgCtx, conn.ConnectionID)
	}
}
