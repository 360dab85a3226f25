package store

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rushteam/ratekit/core"
)

func TestNewRedisStore_InvalidConfig(t *testing.T) {
	tests := []struct {
		name string
		cfg  RedisConfig
	}{
		{name: "missing addr", cfg: RedisConfig{}},
		{name: "negative db", cfg: RedisConfig{Addr: "localhost:6379", DB: -1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRedisStore(context.Background(), tt.cfg)
			assert.ErrorContains(t, err, "redis config")
		})
	}
}

// 需要 RATEKIT_REDIS_ADDR 指向可用的 Redis 才运行
func TestRedisStore(t *testing.T) {
	addr := os.Getenv("RATEKIT_REDIS_ADDR")
	if addr == "" {
		t.Skip("RATEKIT_REDIS_ADDR not set")
	}
	ctx := context.Background()

	s, err := NewRedisStore(ctx, RedisConfig{Addr: addr})
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.BatchSet(ctx, map[string][]byte{
		"ratekit:test:a": []byte("1"),
		"ratekit:test:b": []byte("2"),
	}, 60))

	got, err := s.BatchGet(ctx, []string{"ratekit:test:a", "ratekit:test:b", "ratekit:test:none"})
	require.NoError(t, err)
	assert.Len(t, got, 2)

	_, err = s.Get(ctx, "ratekit:test:none")
	assert.True(t, core.IsStoreNotFound(err))

	require.NoError(t, s.Delete(ctx, "ratekit:test:a"))
	require.NoError(t, s.Delete(ctx, "ratekit:test:b"))
}
