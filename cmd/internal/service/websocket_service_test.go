package service

import (
	"context"
	"testing"

	"alumninet/cmd/internal/contract"
	"alumninet/cmd/internal/domain/entity"
	"alumninet/cmd/internal/utils"
)

func TestWebSocketService_PingAcknowledgesKnownConnections(t *testing.T) {
	conns := newFakeConnRepo()
	gateway := newFakeGateway()
	svc := NewWebSocketService(conns, gateway)
	ctx := context.Background()

	if apierr := svc.RegisterConnection(ctx, "m1", "c1", 4102444800); apierr != nil {
		t.Fatal(apierr)
	}

	svc.HandleMessage(ctx, &contract.IncomingSocketMessage{Type: contract.EventPing}, "c1")
	eventually(t, func() bool {
		posted := gateway.postedTo("c1")
		return len(posted) == 1 && posted[0].(*contract.OutgoingSocketMessage).Type == contract.EventAck
	})

	svc.HandleMessage(ctx, &contract.IncomingSocketMessage{Type: contract.EventPing}, "gone")
	if deleted := gateway.deletedConns(); len(deleted) != 1 || deleted[0] != "gone" {
		t.Errorf("unknown connection should be dropped, got %v", deleted)
	}
}

func TestWebSocketService_RegisterStoresExpiryInMillis(t *testing.T) {
	conns := newFakeConnRepo()
	svc := NewWebSocketService(conns, newFakeGateway())

	_ = svc.RegisterConnection(context.Background(), "m1", "c1", 100)

	stale, _ := conns.FindStale(context.Background(), 100*1000, entity.HeartbeatPeriodMillis)
	if len(stale) != 1 {
		t.Fatal("connection should expire with its token")
	}

	fresh, _ := conns.FindStale(context.Background(), 99*1000, utils.NowUTC())
	if len(fresh) != 0 {
		t.Fatal("connection should be alive before its token expires")
	}
}

func TestNotificationService_ListAndMarkRead(t *testing.T) {
	repo := &fakeNotificationRepo{}
	svc := NewNotificationService(repo, NewWebSocketService(newFakeConnRepo(), newFakeGateway()))
	ctx := context.Background()

	if err := svc.Notify(ctx, "m1", "hello", "/directory"); err != nil {
		t.Fatal(err)
	}
	_ = svc.Notify(ctx, "m2", "not yours", "")

	list, apierr := svc.List(ctx, member("m1"))
	if apierr != nil {
		t.Fatal(apierr)
	}
	if len(list) != 1 || list[0].Message != "hello" || list[0].Read {
		t.Fatalf("unexpected notifications: %+v", list)
	}

	id := repo.all()[1].ID
	if apierr = svc.MarkRead(ctx, member("m1"), id); apierr == nil {
		t.Error("marking someone else's notification must fail")
	}

	id = repo.all()[0].ID
	if apierr = svc.MarkRead(ctx, member("m1"), id); apierr != nil {
		t.Fatal(apierr)
	}
	if list, _ = svc.List(ctx, member("m1")); !list[0].Read {
		t.Error("notification was not marked as read")
	}
}
