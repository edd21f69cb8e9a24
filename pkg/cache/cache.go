// Package cache provides a Redis-backed result cache for discovery runs.
// The pipeline is pure, so a hit keyed by log content and options is
// always equivalent to a fresh run.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/procflow/procflow/pkg/discovery"
	"github.com/procflow/procflow/pkg/export"
)

// Config configures the Redis backend.
type Config struct {
	// Address is the Redis server address (e.g., "localhost:6379").
	Address string

	// Password for authentication (optional).
	Password string

	// Database number to use.
	Database int

	// Prefix is prepended to all keys.
	Prefix string

	// TTL bounds how long results are kept (0 = no expiration).
	TTL time.Duration

	// Timeout for Redis operations.
	Timeout time.Duration
}

// DefaultConfig returns sensible defaults.
func DefaultConfig(address string) Config {
	return Config{
		Address: address,
		Prefix:  "procflow:results:",
		TTL:     24 * time.Hour,
		Timeout: 5 * time.Second,
	}
}

// Cache stores discovery result bundles in Redis.
type Cache struct {
	cfg    Config
	client *redis.Client
}

// New connects to Redis and verifies the connection.
func New(cfg Config) (*Cache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Address,
		Password:     cfg.Password,
		DB:           cfg.Database,
		ReadTimeout:  cfg.Timeout,
		WriteTimeout: cfg.Timeout,
	})

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("cache: connect %s: %w", cfg.Address, err)
	}
	return &Cache{cfg: cfg, client: client}, nil
}

// Key derives a cache key from log content and discovery options.
func Key(content []byte, opts discovery.Options) string {
	h := sha256.New()
	h.Write(content)
	fmt.Fprintf(h, "|%g|%d|", opts.MinFrequency, opts.MaxActivities)
	return hex.EncodeToString(h.Sum(nil))
}

// Get fetches a cached bundle. The second return is false on a miss.
func (c *Cache) Get(ctx context.Context, key string) (*export.Bundle, bool, error) {
	data, err := c.client.Get(ctx, c.cfg.Prefix+key).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("cache: get: %w", err)
	}
	var bundle export.Bundle
	if err := json.Unmarshal(data, &bundle); err != nil {
		return nil, false, fmt.Errorf("cache: decode: %w", err)
	}
	return &bundle, true, nil
}

// Set stores a bundle under the key with the configured TTL.
func (c *Cache) Set(ctx context.Context, key string, bundle *export.Bundle) error {
	data, err := json.Marshal(bundle)
	if err != nil {
		return fmt.Errorf("cache: encode: %w", err)
	}
	if err := c.client.Set(ctx, c.cfg.Prefix+key, data, c.cfg.TTL).Err(); err != nil {
		return fmt.Errorf("cache: set: %w", err)
	}
	return nil
}

// Close releases the Redis connection.
func (c *Cache) Close() error {
	return c.client.Close()
}
