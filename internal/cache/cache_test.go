package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMemory_GetSet(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	m := NewMemory(time.Minute)

	_, err := m.Get(ctx, "missing")
	assert.True(t, IsCacheMiss(err))

	require.NoError(t, m.Set(ctx, "k", "v", 0))
	val, err := m.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", val)
}

func TestMemory_Expiry(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	m := NewMemory(time.Minute)

	now := time.Now()
	m.now = func() time.Time { return now }
	require.NoError(t, m.Set(ctx, "k", "v", time.Second))

	// 时钟前进后条目过期并被清理。
	m.now = func() time.Time { return now.Add(2 * time.Second) }
	_, err := m.Get(ctx, "k")
	assert.True(t, IsCacheMiss(err))
	assert.Zero(t, m.Len())
}

func TestRedis_GetSet(t *testing.T) {
	t.Parallel()

	mr := miniredis.RunT(t)

	cfg := DefaultConfig()
	cfg.Addr = mr.Addr()

	r, err := NewRedis(cfg, zap.NewNop())
	require.NoError(t, err)
	defer r.Close()

	ctx := context.Background()

	_, err = r.Get(ctx, "missing")
	assert.True(t, IsCacheMiss(err))

	require.NoError(t, r.Set(ctx, "summary:3:msg-9", "digest text", time.Minute))
	val, err := r.Get(ctx, "summary:3:msg-9")
	require.NoError(t, err)
	assert.Equal(t, "digest text", val)

	// TTL 到期后未命中。
	mr.FastForward(2 * time.Minute)
	_, err = r.Get(ctx, "summary:3:msg-9")
	assert.True(t, IsCacheMiss(err))
}

func TestRedis_Closed(t *testing.T) {
	t.Parallel()

	mr := miniredis.RunT(t)
	cfg := DefaultConfig()
	cfg.Addr = mr.Addr()

	r, err := NewRedis(cfg, nil)
	require.NoError(t, err)
	require.NoError(t, r.Close())

	_, err = r.Get(context.Background(), "k")
	assert.Error(t, err)
	assert.False(t, IsCacheMiss(err))
}
