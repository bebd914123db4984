package cache_test

import (
	"context"
	"taskly/infras/otel/mocks"
	"taskly/shared/cache"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCache(t *testing.T) (cache.RedisCache, *miniredis.Miniredis) {
	t.Helper()

	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return cache.NewRedisCache(client, mocks.NewOtel()), server
}

func TestRedisCache_Increment(t *testing.T) {
	c, server := newCache(t)
	ctx := context.Background()

	first, err := c.Increment(ctx, "limiter:1.2.3.4", 30)
	require.NoError(t, err)
	assert.Equal(t, int64(1), first)
	assert.Equal(t, 30*time.Second, server.TTL("limiter:1.2.3.4"))

	server.FastForward(10 * time.Second)

	second, err := c.Increment(ctx, "limiter:1.2.3.4", 30)
	require.NoError(t, err)
	assert.Equal(t, int64(2), second)
	assert.Equal(t, 20*time.Second, server.TTL("limiter:1.2.3.4"))

	server.FastForward(21 * time.Second)

	reset, err := c.Increment(ctx, "limiter:1.2.3.4", 30)
	require.NoError(t, err)
	assert.Equal(t, int64(1), reset)
}

func TestRedisCache_StoreDown(t *testing.T) {
	c, server := newCache(t)
	server.Close()

	_, err := c.Increment(context.Background(), "key", 10)
	assert.Error(t, err)
}
