package database

import (
	"context"
	"testing"
	"time"

	"conversation-starters/internal/common/config"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRedis(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	c := NewRedis(config.RedisConfig{Enabled: true, Address: mr.Addr(), TTL: 1500})
	defer c.Close()

	require.NoError(t, c.Ping(context.Background()))

	require.NoError(t, c.Client.Set(context.Background(), "k", "v", config.GetDuration(1500)).Err())
	got, err := mr.Get("k")
	require.NoError(t, err)
	assert.Equal(t, "v", got)
	assert.Equal(t, 1500*time.Millisecond, mr.TTL("k"))
}

func TestPing_Unreachable(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	addr := mr.Addr()
	mr.Close()

	c := NewRedis(config.RedisConfig{Enabled: true, Address: addr, TTL: 1000})
	defer c.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	assert.Error(t, c.Ping(ctx))
}
