package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// KeyPrefix namespaces every key this service writes.
const KeyPrefix = "etshoes:"

// Client is a fail-safe redis wrapper. Reads treat an unreachable server as
// a miss and Set drops silently; SetStrict is the exception.
// A nil Client behaves like an always-empty store.
type Client struct {
	rdb *redis.Client
}

// New connects lazily; use Ping to check reachability at startup.
func New(addr, password string, db int) *Client {
	return &Client{rdb: redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  time.Second,
		WriteTimeout: time.Second,
	})}
}

func (c *Client) ready() bool {
	return c != nil && c.rdb != nil
}

// Ping is the one call that surfaces connectivity errors.
func (c *Client) Ping(ctx context.Context) error {
	if !c.ready() {
		return errors.New("redis client not configured")
	}
	return c.rdb.Ping(ctx).Err()
}

// Get returns the stored bytes, or nil on a miss.
func (c *Client) Get(ctx context.Context, key string) ([]byte, error) {
	if !c.ready() {
		return nil, nil
	}
	return miss(c.rdb.Get(ctx, KeyPrefix+key).Bytes())
}

// Take reads and deletes key atomically, so a single-use token cannot be
// redeemed twice.
func (c *Client) Take(ctx context.Context, key string) ([]byte, error) {
	if !c.ready() {
		return nil, nil
	}
	return miss(c.rdb.GetDel(ctx, KeyPrefix+key).Bytes())
}

// Set stores value for ttl.
func (c *Client) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if !c.ready() {
		return nil
	}
	if err := c.rdb.Set(ctx, KeyPrefix+key, value, ttl).Err(); err != nil {
		zap.L().Warn("redis write dropped", zap.String("key", key), zap.Error(err))
	}
	return nil
}

// SetStrict stores value for ttl and reports failures. Use it for writes a
// later request depends on.
func (c *Client) SetStrict(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if !c.ready() {
		return errors.New("redis client not configured")
	}
	if err := c.rdb.Set(ctx, KeyPrefix+key, value, ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

// Delete removes key.
func (c *Client) Delete(ctx context.Context, key string) error {
	if !c.ready() {
		return nil
	}
	if err := c.rdb.Del(ctx, KeyPrefix+key).Err(); err != nil {
		zap.L().Warn("redis delete dropped", zap.String("key", key), zap.Error(err))
	}
	return nil
}

// Close releases the connection pool.
func (c *Client) Close() error {
	if !c.ready() {
		return nil
	}
	return c.rdb.Close()
}

func miss(value []byte, err error) ([]byte, error) {
	if err == nil {
		return value, nil
	}
	if !errors.Is(err, redis.Nil) {
		zap.L().Warn("redis read failed, treating as miss", zap.Error(err))
	}
	return nil, nil
}
