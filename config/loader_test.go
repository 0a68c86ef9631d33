package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_DefaultsOnly(t *testing.T) {
	t.Parallel()

	cfg, err := NewLoader().Load()
	require.NoError(t, err)

	assert.Equal(t, "sliding_window", cfg.History.Strategy)
	assert.Equal(t, 10, cfg.History.HistoryLimit)
	assert.Equal(t, "memory", cfg.Cache.Type)
	assert.Equal(t, 5, cfg.RAG.TopK)
	assert.InDelta(t, 0.3, cfg.RAG.ScoreThreshold, 1e-9)
	assert.InDelta(t, 0.3, cfg.Bot.Temperature, 1e-9)
	assert.Equal(t, 1024, cfg.Bot.MaxTokens)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	t.Parallel()

	path := writeConfigFile(t, `
history:
  strategy: summary_recent
  history_limit: 20
cache:
  type: redis
  ttl: 30m
  redis:
    addr: redis:6379
llm:
  model: gpt-4o
  pricing:
    my-model:
      input: 1.5
      output: 3.0
`)

	cfg, err := NewLoader().WithConfigPath(path).Load()
	require.NoError(t, err)

	assert.Equal(t, "summary_recent", cfg.History.Strategy)
	assert.Equal(t, 20, cfg.History.HistoryLimit)
	assert.Equal(t, "redis", cfg.Cache.Type)
	assert.Equal(t, 30*time.Minute, cfg.Cache.TTL)
	assert.Equal(t, "redis:6379", cfg.Cache.Redis.Addr)
	assert.Equal(t, "gpt-4o", cfg.LLM.Model)
	require.Contains(t, cfg.LLM.Pricing, "my-model")
	assert.InDelta(t, 1.5, cfg.LLM.Pricing["my-model"].Input, 1e-9)

	// 未覆盖的节保持默认值。
	assert.Equal(t, 5, cfg.RAG.TopK)
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := NewLoader().WithConfigPath("/nonexistent/config.yaml").Load()
	require.NoError(t, err)
	assert.Equal(t, "sliding_window", cfg.History.Strategy)
}

func TestLoad_MalformedFile(t *testing.T) {
	t.Parallel()

	path := writeConfigFile(t, "history: [not a mapping")
	_, err := NewLoader().WithConfigPath(path).Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load config from file")
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfigFile(t, `
history:
  history_limit: 20
`)
	t.Setenv("KEFUFLOW_HISTORY_HISTORY_LIMIT", "7")
	t.Setenv("KEFUFLOW_CACHE_TYPE", "redis")
	t.Setenv("KEFUFLOW_CACHE_TTL", "15m")
	t.Setenv("KEFUFLOW_LOG_OUTPUT_PATHS", "stdout, /var/log/kefuflow.log")

	cfg, err := NewLoader().WithConfigPath(path).Load()
	require.NoError(t, err)

	assert.Equal(t, 7, cfg.History.HistoryLimit)
	assert.Equal(t, "redis", cfg.Cache.Type)
	assert.Equal(t, 15*time.Minute, cfg.Cache.TTL)
	assert.Equal(t, []string{"stdout", "/var/log/kefuflow.log"}, cfg.Log.OutputPaths)
}

func TestLoad_CustomEnvPrefix(t *testing.T) {
	t.Setenv("MYAPP_RAG_TOP_K", "9")

	cfg, err := NewLoader().WithEnvPrefix("MYAPP").Load()
	require.NoError(t, err)
	assert.Equal(t, 9, cfg.RAG.TopK)
}

func TestLoad_ValidatorRejects(t *testing.T) {
	t.Parallel()

	_, err := NewLoader().
		WithValidator(func(c *Config) error {
			return assert.AnError
		}).
		Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config validation failed")
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "defaults pass",
			mutate: func(c *Config) {},
		},
		{
			name:    "unknown strategy",
			mutate:  func(c *Config) { c.History.Strategy = "mystery" },
			wantErr: "unknown history strategy",
		},
		{
			name:    "unknown cache type",
			mutate:  func(c *Config) { c.Cache.Type = "memcached" },
			wantErr: "unknown cache type",
		},
		{
			name:    "temperature out of range",
			mutate:  func(c *Config) { c.Bot.Temperature = 3.5 },
			wantErr: "temperature",
		},
		{
			name:    "non-positive top_k",
			mutate:  func(c *Config) { c.RAG.TopK = 0 },
			wantErr: "top_k",
		},
		{
			name:    "threshold out of range",
			mutate:  func(c *Config) { c.RAG.ScoreThreshold = 1.5 },
			wantErr: "score_threshold",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
