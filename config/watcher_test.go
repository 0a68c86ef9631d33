package config

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReloadWatcher_DetectsChange(t *testing.T) {
	t.Parallel()

	path := writeConfigFile(t, "history:\n  history_limit: 10\n")
	w, err := NewReloadWatcher(path,
		WithPollInterval(10*time.Millisecond),
		WithDebounce(time.Millisecond))
	require.NoError(t, err)

	reloaded := make(chan *Config, 1)
	w.OnReload(func(cfg *Config) {
		select {
		case reloaded <- cfg:
		default:
		}
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, w.Start(ctx))
	defer w.Stop()

	// 保证修改时间前移。
	time.Sleep(20 * time.Millisecond)
	require.NoError(t, os.WriteFile(path, []byte("history:\n  history_limit: 42\n"), 0o644))
	now := time.Now()
	require.NoError(t, os.Chtimes(path, now, now))

	select {
	case cfg := <-reloaded:
		assert.Equal(t, 42, cfg.History.HistoryLimit)
	case <-time.After(3 * time.Second):
		t.Fatal("expected reload callback")
	}
}

func TestReloadWatcher_InvalidConfigKeepsOld(t *testing.T) {
	t.Parallel()

	path := writeConfigFile(t, "history:\n  history_limit: 10\n")
	w, err := NewReloadWatcher(path,
		WithPollInterval(10*time.Millisecond),
		WithDebounce(time.Millisecond))
	require.NoError(t, err)

	reloaded := make(chan *Config, 1)
	w.OnReload(func(cfg *Config) {
		select {
		case reloaded <- cfg:
		default:
		}
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, w.Start(ctx))
	defer w.Stop()

	time.Sleep(20 * time.Millisecond)
	// 校验失败的配置不触发回调。
	require.NoError(t, os.WriteFile(path, []byte("history:\n  strategy: mystery\n"), 0o644))
	now := time.Now()
	require.NoError(t, os.Chtimes(path, now, now))

	select {
	case <-reloaded:
		t.Fatal("invalid config must not be dispatched")
	case <-time.After(300 * time.Millisecond):
	}
}

func TestReloadWatcher_StartStop(t *testing.T) {
	t.Parallel()

	path := writeConfigFile(t, "history:\n  history_limit: 10\n")
	w, err := NewReloadWatcher(path)
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, w.Start(ctx))
	assert.True(t, w.IsRunning())
	assert.Error(t, w.Start(ctx))

	w.Stop()
	assert.False(t, w.IsRunning())
	w.Stop()
}

func TestReloadWatcher_MissingFileAllowed(t *testing.T) {
	t.Parallel()

	w, err := NewReloadWatcher("/nonexistent/config.yaml")
	require.NoError(t, err)
	assert.False(t, w.IsRunning())
}
