package store

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/karthikkrs/ISMS-Dashboard-sub001/internal/catalog/models"
	id "github.com/karthikkrs/ISMS-Dashboard-sub001/pkg/domain"
)

// Reader is the read side of the catalog store.
type Reader interface {
	FindByID(ctx context.Context, controlID id.ControlID) (models.Control, error)
	List(ctx context.Context) ([]models.Control, error)
}

const listCacheKey = "catalog:controls"

// Cache is a Redis read-through wrapper over a catalog Reader. The catalog is
// immutable after seeding, so a short TTL only bounds staleness across
// deploys that ship new controls. Cache misses and Redis failures fall back
// to the inner reader; the cache can never make a read fail.
type Cache struct {
	inner  Reader
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewCache wraps reader with a Redis list cache.
func NewCache(inner Reader, client *redis.Client, ttl time.Duration, logger *slog.Logger) *Cache {
	return &Cache{inner: inner, client: client, ttl: ttl, logger: logger}
}

func (c *Cache) FindByID(ctx context.Context, controlID id.ControlID) (models.Control, error) {
	return c.inner.FindByID(ctx, controlID)
}

func (c *Cache) List(ctx context.Context) ([]models.Control, error) {
	raw, err := c.client.Get(ctx, listCacheKey).Bytes()
	if err == nil {
		var controls []models.Control
		if err := json.Unmarshal(raw, &controls); err == nil {
			return controls, nil
		}
		// Corrupt entry: drop it and fall through to the store.
		c.client.Del(ctx, listCacheKey)
	} else if !errors.Is(err, redis.Nil) && c.logger != nil {
		c.logger.WarnContext(ctx, "catalog cache read failed", "error", err)
	}

	controls, err := c.inner.List(ctx)
	if err != nil {
		return nil, err
	}

	if raw, err := json.Marshal(controls); err == nil {
		if err := c.client.Set(ctx, listCacheKey, raw, c.ttl).Err(); err != nil && c.logger != nil {
			c.logger.WarnContext(ctx, "catalog cache write failed", "error", err)
		}
	}
	return controls, nil
}
