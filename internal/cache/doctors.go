// Package cache keeps the doctor directory in Redis between mutations.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"clinicAppointments/internal/config"
	"clinicAppointments/internal/service"
	"clinicAppointments/models"
)

// DirectoryKey holds the JSON-encoded directory.
const DirectoryKey = "clinic:doctors"

var _ service.DirectoryCache = (*DoctorDirectory)(nil)

// DoctorDirectory is a Redis-backed cache of the doctor directory.
type DoctorDirectory struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewDoctorDirectory wraps an existing client. A non-positive ttl keeps
// entries until they are invalidated.
func NewDoctorDirectory(rdb *redis.Client, ttl time.Duration) *DoctorDirectory {
	if ttl < 0 {
		ttl = 0
	}
	return &DoctorDirectory{rdb: rdb, ttl: ttl}
}

// Connect dials Redis and checks it answers. It returns nil, nil when no
// address is configured.
func Connect(ctx context.Context, cfg config.CacheConfig) (*DoctorDirectory, error) {
	if cfg.RedisAddr == "" {
		return nil, nil
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:        cfg.RedisAddr,
		Password:    cfg.RedisPassword,
		DB:          cfg.RedisDB,
		DialTimeout: 2 * time.Second,
	})
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping %s: %w", cfg.RedisAddr, err)
	}
	return NewDoctorDirectory(rdb, cfg.TTL), nil
}

// Get returns the cached directory. ok is false on a miss.
func (c *DoctorDirectory) Get(ctx context.Context) ([]models.DoctorView, bool, error) {
	val, err := c.rdb.Get(ctx, DirectoryKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var out []models.DoctorView
	if err := json.Unmarshal(val, &out); err != nil {
		return nil, false, fmt.Errorf("decode directory: %w", err)
	}
	return out, true, nil
}

// Set stores the directory.
func (c *DoctorDirectory) Set(ctx context.Context, doctors []models.DoctorView) error {
	if doctors == nil {
		doctors = []models.DoctorView{}
	}
	b, err := json.Marshal(doctors)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, DirectoryKey, b, c.ttl).Err()
}

// Invalidate drops the cached directory.
func (c *DoctorDirectory) Invalidate(ctx context.Context) error {
	return c.rdb.Del(ctx, DirectoryKey).Err()
}

// Close releases the Redis client.
func (c *DoctorDirectory) Close() error {
	return c.rdb.Close()
}
