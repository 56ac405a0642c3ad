// Package cache provides a Redis cache-aside layer for catalog listings.
// The cache is an optimization only: a nil *ProductCache is valid and every
// method degrades to a miss or no-op.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"novashop/internal/models"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type ProductCache struct {
	rdb    *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

func NewProductCache(addr, password string, ttl time.Duration, logger *zap.Logger) (*ProductCache, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	logger.Info("redis connection established", zap.String("addr", addr))
	return &ProductCache{rdb: rdb, ttl: ttl, logger: logger}, nil
}

func listKey(category string) string {
	if category == "" {
		return "products:all"
	}
	return "products:category:" + category
}

func (c *ProductCache) GetList(ctx context.Context, category string) ([]*models.Product, bool) {
	if c == nil {
		return nil, false
	}
	data, err := c.rdb.Get(ctx, listKey(category)).Bytes()
	if err != nil {
		return nil, false
	}
	var out []*models.Product
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, false
	}
	return out, true
}

func (c *ProductCache) SetList(ctx context.Context, category string, products []*models.Product) {
	if c == nil {
		return
	}
	data, err := json.Marshal(products)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, listKey(category), data, c.ttl).Err(); err != nil {
		c.logger.Debug("cache set failed", zap.Error(err))
	}
}

// Invalidate drops every cached listing. Called on any catalog mutation and
// on order completion (stock changed).
func (c *ProductCache) Invalidate(ctx context.Context) {
	if c == nil {
		return
	}
	iter := c.rdb.Scan(ctx, 0, "products:*", 0).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if len(keys) > 0 {
		if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
			c.logger.Debug("cache invalidation failed", zap.Error(err))
		}
	}
}

func (c *ProductCache) Close() error {
	if c == nil {
		return nil
	}
	return c.rdb.Close()
}
