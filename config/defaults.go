package config

import "time"

// DefaultConfig 返回全部配置项的默认值。
func DefaultConfig() *Config {
	return &Config{
		Bot:      DefaultBotConfig(),
		History:  DefaultHistoryConfig(),
		Cache:    DefaultCacheConfig(),
		Database: DefaultDatabaseConfig(),
		LLM:      DefaultLLMConfig(),
		RAG:      DefaultRAGConfig(),
		Log:      DefaultLogConfig(),
	}
}

// DefaultBotConfig 返回默认机器人参数。
func DefaultBotConfig() BotConfig {
	return BotConfig{
		Temperature:  0.3,
		MaxTokens:    1024,
		HistoryLimit: 10,
	}
}

// DefaultHistoryConfig 返回默认历史压缩配置。
func DefaultHistoryConfig() HistoryConfig {
	return HistoryConfig{
		Strategy:           "sliding_window",
		HistoryLimit:       10,
		RecentTurns:        3,
		SummaryMaxTokens:   200,
		RouterContextLimit: 3,
	}
}

// DefaultCacheConfig 返回默认缓存配置。
func DefaultCacheConfig() CacheConfig {
	return CacheConfig{
		Type: "memory",
		TTL:  time.Hour,
		Redis: RedisConfig{
			Addr:         "localhost:6379",
			DB:           0,
			PoolSize:     10,
			MinIdleConns: 2,
		},
	}
}

// DefaultDatabaseConfig 返回默认数据库配置。
func DefaultDatabaseConfig() DatabaseConfig {
	return DatabaseConfig{
		Driver:       "sqlite",
		DSN:          "kefuflow.db",
		SeedDemoData: false,
	}
}

// DefaultLLMConfig 返回默认 LLM 配置。
func DefaultLLMConfig() LLMConfig {
	return LLMConfig{
		Model:   "gpt-4o-mini",
		Timeout: 2 * time.Minute,
	}
}

// DefaultRAGConfig 返回默认检索配置。
func DefaultRAGConfig() RAGConfig {
	return RAGConfig{
		TopK:           5,
		ScoreThreshold: 0.3,
	}
}

// DefaultLogConfig 返回默认日志配置。
func DefaultLogConfig() LogConfig {
	return LogConfig{
		Level:       "info",
		Format:      "json",
		OutputPaths: []string{"stdout"},
	}
}
