package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"clinicAppointments/internal/config"
	"clinicAppointments/models"
)

func TestConnect_DisabledWithoutAddress(t *testing.T) {
	c, err := Connect(context.Background(), config.CacheConfig{})
	require.NoError(t, err)
	require.Nil(t, c)
}

func TestConnect_Unreachable(t *testing.T) {
	_, err := Connect(context.Background(), config.CacheConfig{RedisAddr: "127.0.0.1:1"})
	require.Error(t, err)
}

func TestGet_ErrorWhenServerDown(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", MaxRetries: -1, DialTimeout: 200 * time.Millisecond})
	c := NewDoctorDirectory(rdb, time.Minute)
	t.Cleanup(func() { _ = c.Close() })

	_, ok, err := c.Get(context.Background())
	require.Error(t, err)
	require.False(t, ok)
}

// liveDirectory connects to REDIS_TEST_ADDR or skips.
func liveDirectory(t *testing.T) *DoctorDirectory {
	t.Helper()
	addr := os.Getenv("REDIS_TEST_ADDR")
	if addr == "" {
		t.Skip("REDIS_TEST_ADDR not set")
	}
	c, err := Connect(context.Background(), config.CacheConfig{RedisAddr: addr, TTL: time.Minute})
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = c.Invalidate(context.Background())
		_ = c.Close()
	})
	return c
}

func TestDirectory_SetGetInvalidate(t *testing.T) {
	c := liveDirectory(t)
	ctx := context.Background()
	require.NoError(t, c.Invalidate(ctx))

	_, ok, err := c.Get(ctx)
	require.NoError(t, err)
	require.False(t, ok)

	want := []models.DoctorView{
		{ID: 2, FIO: "Adams", Specialization: "ENT"},
		{ID: 1, FIO: "Brown", Specialization: "Cardiology"},
	}
	require.NoError(t, c.Set(ctx, want))

	got, ok, err := c.Get(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, want, got)

	require.NoError(t, c.Invalidate(ctx))
	_, ok, err = c.Get(ctx)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestDirectory_EmptyListIsAHit(t *testing.T) {
	c := liveDirectory(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, nil))
	got, ok, err := c.Get(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	require.Empty(t, got)
}
