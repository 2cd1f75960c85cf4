package redis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/exactmatch/storefront/pkg/config"
	"github.com/redis/go-redis/v9"
)

const (
	keyNamespace   = "exactmatch"
	snapshotPrefix = "snapshot"
)

type cmdable interface {
	Ping(context.Context) *redis.StatusCmd
	Set(context.Context, string, any, time.Duration) *redis.StatusCmd
	Get(context.Context, string) *redis.StringCmd
	Del(context.Context, ...string) *redis.IntCmd
}

// Client wraps the redis connection used for cart snapshot storage.
type Client struct {
	store cmdable
	raw   *redis.Client
}

// Pinger exposes the health-check surface.
type Pinger interface {
	Ping(context.Context) error
}

// New bootstraps a Redis client with pooling/timeouts and verifies connectivity.
func New(ctx context.Context, cfg config.RedisConfig) (*Client, error) {
	opts, err := optionsFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	raw := redis.NewClient(opts)
	if err := raw.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &Client{store: raw, raw: raw}, nil
}

func optionsFromConfig(cfg config.RedisConfig) (*redis.Options, error) {
	if cfg.URL == "" && cfg.Address == "" {
		return nil, errors.New("redis url or address is required")
	}
	var opts *redis.Options
	if cfg.URL != "" {
		parsed, err := redis.ParseURL(cfg.URL)
		if err != nil {
			return nil, fmt.Errorf("parsing redis url: %w", err)
		}
		opts = parsed
	} else {
		opts = &redis.Options{
			Addr:     cfg.Address,
			Password: cfg.Password,
			DB:       cfg.DB,
		}
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns
	opts.DialTimeout = cfg.DialTimeout
	opts.ReadTimeout = cfg.ReadTimeout
	opts.WriteTimeout = cfg.WriteTimeout
	return opts, nil
}

// SnapshotKey builds the namespaced key for a named snapshot slot.
func SnapshotKey(slot string) string {
	return strings.Join([]string{keyNamespace, snapshotPrefix, slot}, ":")
}

// GetSnapshot returns the raw snapshot payload for the slot, or redis.Nil
// wrapped as ErrNoSnapshot when the slot has never been written.
func (c *Client) GetSnapshot(ctx context.Context, slot string) ([]byte, error) {
	val, err := c.store.Get(ctx, SnapshotKey(slot)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNoSnapshot
		}
		return nil, fmt.Errorf("get snapshot %q: %w", slot, err)
	}
	return val, nil
}

// SetSnapshot overwrites the slot with the given payload. Snapshots never expire.
func (c *Client) SetSnapshot(ctx context.Context, slot string, payload []byte) error {
	if err := c.store.Set(ctx, SnapshotKey(slot), payload, 0).Err(); err != nil {
		return fmt.Errorf("set snapshot %q: %w", slot, err)
	}
	return nil
}

// DeleteSnapshot removes the slot. Missing slots are not an error.
func (c *Client) DeleteSnapshot(ctx context.Context, slot string) error {
	if err := c.store.Del(ctx, SnapshotKey(slot)).Err(); err != nil {
		return fmt.Errorf("delete snapshot %q: %w", slot, err)
	}
	return nil
}

// Ping verifies the connection is healthy.
func (c *Client) Ping(ctx context.Context) error {
	return c.store.Ping(ctx).Err()
}

// Close releases the underlying connection pool.
func (c *Client) Close() error {
	if c.raw == nil {
		return nil
	}
	return c.raw.Close()
}

// ErrNoSnapshot reports that a snapshot slot has never been written.
var ErrNoSnapshot = errors.New("snapshot slot is empty")
