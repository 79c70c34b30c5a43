package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"renaissance-story/internal/common/config"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisClient_IncrWindow(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := NewRedis(config.RedisConfig{Address: mr.Addr()})
	require.NoError(t, err)
	defer client.Close()

	ctx := context.Background()
	require.NoError(t, client.Ping(ctx))

	for want := int64(1); want <= 3; want++ {
		got, err := client.IncrWindow(ctx, "rl:apply:1.2.3.4", time.Minute)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	assert.Equal(t, time.Minute, mr.TTL("rl:apply:1.2.3.4"))

	mr.FastForward(time.Minute + time.Second)

	got, err := client.IncrWindow(ctx, "rl:apply:1.2.3.4", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got)
}

func TestNewRedis_RequiresAddress(t *testing.T) {
	_, err := NewRedis(config.RedisConfig{})
	assert.Error(t, err)
}

// failOnce fails the first window script call before it reaches Redis.
type failOnce struct {
	failed bool
}

func (h *failOnce) DialHook(next redis.DialHook) redis.DialHook { return next }

func (h *failOnce) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		if !h.failed && (cmd.Name() == "evalsha" || cmd.Name() == "eval") {
			h.failed = true
			err := errors.New("connection reset")
			cmd.SetErr(err)
			return err
		}
		return next(ctx, cmd)
	}
}

func (h *failOnce) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return next
}

func TestRedisClient_IncrWindow_AlwaysSetsTTL(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := NewRedis(config.RedisConfig{Address: mr.Addr()})
	require.NoError(t, err)
	defer client.Close()

	ctx := context.Background()
	client.Client.AddHook(&failOnce{})

	_, err = client.IncrWindow(ctx, "rl:apply:5.6.7.8", time.Minute)
	require.Error(t, err)
	assert.False(t, mr.Exists("rl:apply:5.6.7.8"))

	for want := int64(1); want <= 3; want++ {
		got, err := client.IncrWindow(ctx, "rl:apply:5.6.7.8", time.Minute)
		require.NoError(t, err)
		assert.Equal(t, want, got)
		assert.Equal(t, time.Minute, mr.TTL("rl:apply:5.6.7.8"))
	}

	mr.FastForward(time.Hour)

	got, err := client.IncrWindow(ctx, "rl:apply:5.6.7.8", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got)
}

func TestRedisClient_IncrWindow_RepairsKeyWithoutTTL(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := NewRedis(config.RedisConfig{Address: mr.Addr()})
	require.NoError(t, err)
	defer client.Close()

	// Counter left behind without an expiry.
	require.NoError(t, mr.Set("rl:apply:9.9.9.9", "41"))

	ctx := context.Background()
	got, err := client.IncrWindow(ctx, "rl:apply:9.9.9.9", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(42), got)
	assert.Equal(t, time.Minute, mr.TTL("rl:apply:9.9.9.9"))

	mr.FastForward(time.Minute + time.Second)

	got, err = client.IncrWindow(ctx, "rl:apply:9.9.9.9", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got)
}
