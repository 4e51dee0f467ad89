// Package cache is a thin cache-aside layer over redis. When no redis
// address is configured the client stays nil and every call degrades to a
// pass-through, so handlers never need to care whether a cache exists.
package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/AustinQian/EcommerceAPI/config"
)

var (
	rdb *redis.Client
	ctx = context.Background()
)

// Connect initializes the redis client if REDIS_ADDR is set.
func Connect() {
	addr := config.RedisAddr()
	if addr == "" {
		return
	}
	rdb = redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: config.RedisPassword(),
	})
}

// Get unmarshals a cached value into dest, returning false on any miss.
func Get(key string, dest interface{}) bool {
	if rdb == nil {
		return false
	}
	val, err := rdb.Get(ctx, key).Result()
	if err != nil {
		return false
	}
	return json.Unmarshal([]byte(val), dest) == nil
}

// Set stores a value under key for ttl. No-op without a client.
func Set(key string, value interface{}, ttl time.Duration) error {
	if rdb == nil {
		return nil
	}
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return rdb.Set(ctx, key, data, ttl).Err()
}

// Invalidate drops a cached key.
func Invalidate(key string) {
	if rdb == nil {
		return
	}
	rdb.Del(ctx, key)
}
