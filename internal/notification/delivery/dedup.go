package delivery

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Deduper records which document events have been handled so Pub/Sub
// redeliveries do not notify twice.
type Deduper interface {
	// Claim reports whether the caller is the first to handle eventID.
	Claim(ctx context.Context, eventID string) (bool, error)
	// Release forgets eventID so a redelivery is handled again.
	Release(ctx context.Context, eventID string) error
}

type RedisDeduper struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

func NewRedisDeduper(client redis.UniversalClient, prefix string, ttl time.Duration) *RedisDeduper {
	if prefix == "" {
		prefix = "docevent"
	}
	return &RedisDeduper{client: client, prefix: prefix, ttl: ttl}
}

func (d *RedisDeduper) redisKey(eventID string) string {
	return fmt.Sprintf("%s:%s", d.prefix, eventID)
}

func (d *RedisDeduper) Claim(ctx context.Context, eventID string) (bool, error) {
	if d.client == nil {
		return false, errors.New("redis client is not configured")
	}
	ok, err := d.client.SetNX(ctx, d.redisKey(eventID), time.Now().UTC().Format(time.RFC3339), d.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("claim event %s: %w", eventID, err)
	}
	return ok, nil
}

func (d *RedisDeduper) Release(ctx context.Context, eventID string) error {
	if d.client == nil {
		return errors.New("redis client is not configured")
	}
	if err := d.client.Del(ctx, d.redisKey(eventID)).Err(); err != nil {
		return fmt.Errorf("release event %s: %w", eventID, err)
	}
	return nil
}
