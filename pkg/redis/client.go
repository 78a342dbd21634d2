package redis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/angelmondragon/darkstore-backend/pkg/config"
	"github.com/angelmondragon/darkstore-backend/pkg/logger"
)

const defaultKeyPrefix = "ds"

var errNotConnected = errors.New("redis client not connected")

// commands is the slice of go-redis the client drives; tests swap in a fake.
type commands interface {
	Ping(ctx context.Context) *redis.StatusCmd
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, ttl time.Duration) *redis.StatusCmd
	SetNX(ctx context.Context, key string, value any, ttl time.Duration) *redis.BoolCmd
	Incr(ctx context.Context, key string) *redis.IntCmd
	ExpireNX(ctx context.Context, key string, ttl time.Duration) *redis.BoolCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// Client is the shared Redis handle. Every key it builds carries the
// configured prefix.
type Client struct {
	cmd    commands
	closer func() error
	prefix string
}

type Pinger interface {
	Ping(context.Context) error
}

// IdempotencyStore is what the idempotency middleware needs.
type IdempotencyStore interface {
	Get(context.Context, string) (string, error)
	SetNX(context.Context, string, any, time.Duration) (bool, error)
	IdempotencyKey(scope, id string) string
	Del(context.Context, ...string) error
}

// New connects and pings. URL settings win over the discrete config fields.
func New(ctx context.Context, cfg config.RedisConfig, logg *logger.Logger) (*Client, error) {
	opts, err := optionsFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("ping redis %s: %w", opts.Addr, err)
	}
	if logg != nil {
		logg.Info(logg.WithFields(ctx, map[string]any{"redis_addr": opts.Addr, "redis_db": opts.DB}), "redis connected")
	}
	return &Client{cmd: rdb, closer: rdb.Close, prefix: keyPrefix(cfg.KeyPrefix)}, nil
}

func optionsFromConfig(cfg config.RedisConfig) (*redis.Options, error) {
	var opts *redis.Options
	switch {
	case cfg.URL != "":
		parsed, err := redis.ParseURL(cfg.URL)
		if err != nil {
			return nil, fmt.Errorf("parse redis url: %w", err)
		}
		opts = parsed
	case cfg.Address != "":
		opts = &redis.Options{Addr: cfg.Address, Password: cfg.Password}
	default:
		return nil, errors.New("redis url or address is required")
	}

	orInt(&opts.DB, cfg.DB)
	orInt(&opts.PoolSize, cfg.PoolSize)
	orInt(&opts.MinIdleConns, cfg.MinIdleConns)
	orDuration(&opts.DialTimeout, cfg.DialTimeout)
	orDuration(&opts.ReadTimeout, cfg.ReadTimeout)
	orDuration(&opts.WriteTimeout, cfg.WriteTimeout)
	return opts, nil
}

func orInt(dst *int, fallback int) {
	if *dst == 0 {
		*dst = fallback
	}
}

func orDuration(dst *time.Duration, fallback time.Duration) {
	if *dst == 0 {
		*dst = fallback
	}
}

func keyPrefix(prefix string) string {
	prefix = strings.Trim(strings.TrimSpace(prefix), ":")
	if prefix == "" {
		return defaultKeyPrefix
	}
	return prefix
}

func (c *Client) Get(ctx context.Context, key string) (string, error) {
	if c.cmd == nil {
		return "", errNotConnected
	}
	return c.cmd.Get(ctx, key).Result()
}

// Set writes value; a zero ttl keeps the key forever.
func (c *Client) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	if c.cmd == nil {
		return errNotConnected
	}
	return c.cmd.Set(ctx, key, value, ttl).Err()
}

func (c *Client) SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error) {
	if c.cmd == nil {
		return false, errNotConnected
	}
	return c.cmd.SetNX(ctx, key, value, ttl).Result()
}

func (c *Client) Del(ctx context.Context, keys ...string) error {
	if c.cmd == nil {
		return errNotConnected
	}
	return c.cmd.Del(ctx, keys...).Err()
}

// FixedWindowAllow counts a hit against scope and reports whether the count is
// still within limit. The window starts at the first hit; EXPIRE NX keeps later
// hits from extending it and repairs a counter left without a TTL.
func (c *Client) FixedWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (bool, int64, error) {
	if c.cmd == nil {
		return false, 0, errNotConnected
	}
	key := c.RateLimitKey(scope)
	count, err := c.cmd.Incr(ctx, key).Result()
	if err != nil {
		return false, 0, fmt.Errorf("incr %s: %w", key, err)
	}
	if window > 0 {
		if err := c.cmd.ExpireNX(ctx, key, window).Err(); err != nil {
			return false, count, fmt.Errorf("expire %s: %w", key, err)
		}
	}
	return count <= limit, count, nil
}

func (c *Client) Ping(ctx context.Context) error {
	if c.cmd == nil {
		return errNotConnected
	}
	return c.cmd.Ping(ctx).Err()
}

func (c *Client) Close() error {
	if c.closer == nil {
		return nil
	}
	return c.closer()
}

func (c *Client) IdempotencyKey(scope, id string) string {
	return c.key("idempotency", scope, id)
}

func (c *Client) RateLimitKey(scope string) string {
	return c.key("rate_limit", scope)
}

func (c *Client) AccessSessionKey(accessID string) string {
	return c.key("session", "access", accessID)
}

func (c *Client) SnapshotKey(name string) string {
	return c.key("snapshot", name)
}

func (c *Client) LockKey(name string) string {
	return c.key("lock", name)
}

// key joins the non-empty parts under the client prefix.
func (c *Client) key(parts ...string) string {
	out := make([]string, 0, len(parts)+1)
	out = append(out, keyPrefix(c.prefix))
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return strings.Join(out, ":")
}
