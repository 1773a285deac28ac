// Package redis holds the list of sign-ins ended before their tokens expired.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

type Client struct {
	*goredis.Client
}

func New(ctx context.Context, addr, password string, db int) (*Client, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to reach redis at %s: %w", addr, err)
	}
	return &Client{Client: client}, nil
}

// RevocationList remembers signed-out sessions until their tokens would
// have expired anyway.
type RevocationList struct {
	client goredis.Cmdable
	prefix string
}

func NewRevocationList(client goredis.Cmdable) *RevocationList {
	return &RevocationList{
		client: client,
		prefix: "revoked:",
	}
}

func (r *RevocationList) key(tokenID string) string {
	return r.prefix + tokenID
}

// Revoke marks tokenID as ended until expiresAt. Already expired tokens
// need no entry.
func (r *RevocationList) Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error {
	if tokenID == "" {
		return errors.New("revocation: missing token id")
	}

	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}
	return r.client.Set(ctx, r.key(tokenID), "1", ttl).Err()
}

func (r *RevocationList) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := r.client.Exists(ctx, r.key(tokenID)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
