package redis

import (
	"context"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// fakeCmdable keeps keys in memory and implements only what RevocationList uses.
type fakeCmdable struct {
	goredis.Cmdable
	keys map[string]time.Duration
}

func newFake() *fakeCmdable {
	return &fakeCmdable{keys: map[string]time.Duration{}}
}

func (f *fakeCmdable) Set(_ context.Context, key string, _ any, ttl time.Duration) *goredis.StatusCmd {
	f.keys[key] = ttl
	return goredis.NewStatusResult("OK", nil)
}

func (f *fakeCmdable) Exists(_ context.Context, keys ...string) *goredis.IntCmd {
	var n int64
	for _, k := range keys {
		if _, ok := f.keys[k]; ok {
			n++
		}
	}
	return goredis.NewIntResult(n, nil)
}

func TestRevocationList(t *testing.T) {
	ctx := context.Background()
	fake := newFake()
	list := NewRevocationList(fake)

	if err := list.Revoke(ctx, "sess-1", time.Now().Add(time.Hour)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ttl, ok := fake.keys["revoked:sess-1"]
	if !ok {
		t.Fatal("expected revocation key to be written")
	}
	if ttl <= 0 || ttl > time.Hour {
		t.Errorf("expected ttl bounded by token expiry, got %s", ttl)
	}

	revoked, err := list.IsRevoked(ctx, "sess-1")
	if err != nil || !revoked {
		t.Errorf("expected sess-1 revoked, got %v %v", revoked, err)
	}

	revoked, err = list.IsRevoked(ctx, "sess-2")
	if err != nil || revoked {
		t.Errorf("expected sess-2 live, got %v %v", revoked, err)
	}
}

func TestRevocationList_SkipsExpired(t *testing.T) {
	fake := newFake()
	list := NewRevocationList(fake)

	if err := list.Revoke(context.Background(), "old", time.Now().Add(-time.Minute)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(fake.keys) != 0 {
		t.Error("expected no entry for an already expired token")
	}
}

func TestRevocationList_RequiresTokenID(t *testing.T) {
	list := NewRevocationList(newFake())

	if err := list.Revoke(context.Background(), "", time.Now().Add(time.Hour)); err == nil {
		t.Error("expected an error for an empty token id")
	}
}
