package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/eventix/eventix/config"
	"github.com/eventix/eventix/internal/domain"
	"github.com/redis/go-redis/v9"
)

type RedisCache struct {
	client     *redis.Client
	catalogTTL time.Duration
}

func NewRedisCache(cfg config.RedisConfig, catalogTTL time.Duration) *RedisCache {
	return &RedisCache{
		client:     redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}),
		catalogTTL: catalogTTL,
	}
}

func (c *RedisCache) GetEvents(ctx context.Context) ([]domain.Event, error) {
	data, err := c.client.Get(ctx, eventsKey()).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var events []domain.Event
	if err := json.Unmarshal(data, &events); err != nil {
		return nil, err
	}
	return events, nil
}

func (c *RedisCache) SetEvents(ctx context.Context, events []domain.Event) error {
	payload, err := json.Marshal(events)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, eventsKey(), payload, c.catalogTTL).Err()
}

func (c *RedisCache) InvalidateEvents(ctx context.Context) error {
	return c.client.Del(ctx, eventsKey()).Err()
}

// MarkWebhookSeen records a provider event id the first time it is observed.
// Returns false when the id was already present, letting the reconciler skip
// exact replays without a database round trip. The order-status CAS remains
// the idempotency authority; this is only a fast path.
func (c *RedisCache) MarkWebhookSeen(ctx context.Context, eventID string, ttl time.Duration) (bool, error) {
	return c.client.SetNX(ctx, webhookSeenKey(eventID), "seen", ttl).Result()
}

func (c *RedisCache) ClearWebhookSeen(ctx context.Context, eventID string) error {
	return c.client.Del(ctx, webhookSeenKey(eventID)).Err()
}

func eventsKey() string {
	return "cache:events"
}

func webhookSeenKey(eventID string) string {
	return "webhook:seen:" + eventID
}
