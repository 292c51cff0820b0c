package database

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/ds124wfegd/flux-ideal-size/internal/entity"

	"github.com/redis/go-redis/v9"
)

const cacheKeyPrefix = "ideal_size:"

type redisResultCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisResultCache(client *redis.Client, ttl time.Duration) ResultCache {
	return &redisResultCache{
		client: client,
		ttl:    ttl,
	}
}

func (c *redisResultCache) Get(ctx context.Context, key string) (entity.Size, error) {
	data, err := c.client.Get(ctx, cacheKeyPrefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return entity.Size{}, entity.ErrCacheMiss
		}
		return entity.Size{}, err
	}

	var size entity.Size
	if err := json.Unmarshal(data, &size); err != nil {
		return entity.Size{}, err
	}
	return size, nil
}

func (c *redisResultCache) Set(ctx context.Context, key string, size entity.Size) error {
	data, err := json.Marshal(size)
	if err != nil {
		return err
	}

	return c.client.Set(ctx, cacheKeyPrefix+key, data, c.ttl).Err()
}

// noopResultCache is used when no redis is configured.
type noopResultCache struct{}

func NewNoopResultCache() ResultCache {
	return noopResultCache{}
}

func (noopResultCache) Get(context.Context, string) (entity.Size, error) {
	return entity.Size{}, entity.ErrCacheMiss
}

func (noopResultCache) Set(context.Context, string, entity.Size) error {
	return nil
}
