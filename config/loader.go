package config

import (
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config 是 kefuflow 的完整配置结构。
type Config struct {
	// Bot 默认机器人配置。
	Bot BotConfig `yaml:"bot" env:"BOT"`

	// History 历史压缩配置。
	History HistoryConfig `yaml:"history" env:"HISTORY"`

	// Cache 摘要缓存配置。
	Cache CacheConfig `yaml:"cache" env:"CACHE"`

	// Database 工具后端数据库配置。
	Database DatabaseConfig `yaml:"database" env:"DATABASE"`

	// LLM 大语言模型配置。
	LLM LLMConfig `yaml:"llm" env:"LLM"`

	// RAG 知识检索配置。
	RAG RAGConfig `yaml:"rag" env:"RAG"`

	// Log 日志配置。
	Log LogConfig `yaml:"log" env:"LOG"`
}

// BotConfig 是未在租户侧配置机器人时的默认生成参数。
type BotConfig struct {
	// 系统提示词，空值回落到内置人设。
	SystemPrompt string `yaml:"system_prompt" env:"SYSTEM_PROMPT"`
	// 温度参数
	Temperature float64 `yaml:"temperature" env:"TEMPERATURE"`
	// 最大 Token 数
	MaxTokens int `yaml:"max_tokens" env:"MAX_TOKENS"`
	// 历史条数上限
	HistoryLimit int `yaml:"history_limit" env:"HISTORY_LIMIT"`
	// 频率惩罚
	FrequencyPenalty float64 `yaml:"frequency_penalty" env:"FREQUENCY_PENALTY"`
}

// HistoryConfig 历史压缩配置。
type HistoryConfig struct {
	// 策略: full, sliding_window, summary_recent, rag_history
	Strategy string `yaml:"strategy" env:"STRATEGY"`
	// 滑动窗口条数
	HistoryLimit int `yaml:"history_limit" env:"HISTORY_LIMIT"`
	// summary_recent 保留的近期轮数
	RecentTurns int `yaml:"recent_turns" env:"RECENT_TURNS"`
	// 摘要生成的 token 上限
	SummaryMaxTokens int `yaml:"summary_max_tokens" env:"SUMMARY_MAX_TOKENS"`
	// 路由上下文条数
	RouterContextLimit int `yaml:"router_context_limit" env:"ROUTER_CONTEXT_LIMIT"`
}

// CacheConfig 摘要缓存配置。
type CacheConfig struct {
	// 类型: memory, redis
	Type string `yaml:"type" env:"TYPE"`
	// 条目 TTL
	TTL time.Duration `yaml:"ttl" env:"TTL"`
	// Redis 连接配置，Type 为 redis 时生效。
	Redis RedisConfig `yaml:"redis" env:"REDIS"`
}

// RedisConfig Redis 配置。
type RedisConfig struct {
	Addr         string `yaml:"addr" env:"ADDR"`
	Password     string `yaml:"password" env:"PASSWORD"`
	DB           int    `yaml:"db" env:"DB"`
	PoolSize     int    `yaml:"pool_size" env:"POOL_SIZE"`
	MinIdleConns int    `yaml:"min_idle_conns" env:"MIN_IDLE_CONNS"`
}

// DatabaseConfig 数据库配置。
type DatabaseConfig struct {
	// 驱动类型: sqlite
	Driver string `yaml:"driver" env:"DRIVER"`
	// DSN；sqlite 下为文件路径或 :memory:
	DSN string `yaml:"dsn" env:"DSN"`
	// 是否写入演示数据
	SeedDemoData bool `yaml:"seed_demo_data" env:"SEED_DEMO_DATA"`
}

// LLMConfig LLM 配置。
type LLMConfig struct {
	// 模型名称，用于定价表查询。
	Model string `yaml:"model" env:"MODEL"`
	// 请求超时
	Timeout time.Duration `yaml:"timeout" env:"TIMEOUT"`
	// 定价表覆盖，键为模型名，单位 USD per 1M tokens。
	Pricing map[string]PriceConfig `yaml:"pricing" env:"-"`
}

// PriceConfig 单个模型的定价覆盖。
type PriceConfig struct {
	Input  float64 `yaml:"input"`
	Output float64 `yaml:"output"`
}

// RAGConfig 知识检索配置。
type RAGConfig struct {
	TopK           int     `yaml:"top_k" env:"TOP_K"`
	ScoreThreshold float64 `yaml:"score_threshold" env:"SCORE_THRESHOLD"`
}

// LogConfig 日志配置。
type LogConfig struct {
	// 日志级别: debug, info, warn, error
	Level string `yaml:"level" env:"LEVEL"`
	// 输出格式: json, console
	Format string `yaml:"format" env:"FORMAT"`
	// 输出路径
	OutputPaths []string `yaml:"output_paths" env:"OUTPUT_PATHS"`
}

// Loader 配置加载器（Builder 模式）。
type Loader struct {
	configPath string
	envPrefix  string
	validators []func(*Config) error
}

// NewLoader 创建配置加载器。
func NewLoader() *Loader {
	return &Loader{
		envPrefix:  "KEFUFLOW",
		validators: make([]func(*Config) error, 0),
	}
}

// WithConfigPath 设置配置文件路径。
func (l *Loader) WithConfigPath(path string) *Loader {
	l.configPath = path
	return l
}

// WithEnvPrefix 设置环境变量前缀。
func (l *Loader) WithEnvPrefix(prefix string) *Loader {
	l.envPrefix = prefix
	return l
}

// WithValidator 添加配置验证器。
func (l *Loader) WithValidator(v func(*Config) error) *Loader {
	l.validators = append(l.validators, v)
	return l
}

// Load 加载配置。优先级: 默认值 → YAML 文件 → 环境变量。
func (l *Loader) Load() (*Config, error) {
	cfg := DefaultConfig()

	if l.configPath != "" {
		if err := l.loadFromFile(cfg); err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
	}

	if err := l.loadFromEnv(cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	for _, v := range l.validators {
		if err := v(cfg); err != nil {
			return nil, fmt.Errorf("config validation failed: %w", err)
		}
	}

	return cfg, nil
}

// loadFromFile 从 YAML 文件加载配置。文件不存在时沿用默认值。
func (l *Loader) loadFromFile(cfg *Config) error {
	data, err := os.ReadFile(l.configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	return nil
}

func (l *Loader) loadFromEnv(cfg *Config) error {
	return l.setFieldsFromEnv(reflect.ValueOf(cfg).Elem(), l.envPrefix)
}

// setFieldsFromEnv 递归设置结构体字段，env tag 为 "-" 的字段跳过。
func (l *Loader) setFieldsFromEnv(v reflect.Value, prefix string) error {
	t := v.Type()

	for i := 0; i < v.NumField(); i++ {
		field := v.Field(i)
		fieldType := t.Field(i)

		envTag := fieldType.Tag.Get("env")
		if envTag == "" || envTag == "-" {
			continue
		}

		envKey := prefix + "_" + envTag

		if field.Kind() == reflect.Struct && field.Type() != reflect.TypeOf(time.Duration(0)) {
			if err := l.setFieldsFromEnv(field, envKey); err != nil {
				return err
			}
			continue
		}

		envValue := os.Getenv(envKey)
		if envValue == "" {
			continue
		}

		if err := setFieldValue(field, envValue); err != nil {
			return fmt.Errorf("failed to set %s: %w", envKey, err)
		}
	}

	return nil
}

func setFieldValue(field reflect.Value, value string) error {
	if !field.CanSet() {
		return nil
	}

	switch field.Kind() {
	case reflect.String:
		field.SetString(value)

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		// time.Duration 按持续时间语法解析。
		if field.Type() == reflect.TypeOf(time.Duration(0)) {
			d, err := time.ParseDuration(value)
			if err != nil {
				return err
			}
			field.SetInt(int64(d))
		} else {
			i, err := strconv.ParseInt(value, 10, 64)
			if err != nil {
				return err
			}
			field.SetInt(i)
		}

	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return err
		}
		field.SetFloat(f)

	case reflect.Bool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return err
		}
		field.SetBool(b)

	case reflect.Slice:
		// 逗号分隔的字符串切片。
		if field.Type().Elem().Kind() == reflect.String {
			parts := strings.Split(value, ",")
			for i := range parts {
				parts[i] = strings.TrimSpace(parts[i])
			}
			field.Set(reflect.ValueOf(parts))
		}
	}

	return nil
}

// MustLoad 加载配置，失败时 panic。
func MustLoad(path string) *Config {
	cfg, err := NewLoader().WithConfigPath(path).Load()
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}
	return cfg
}

// Validate 验证配置。
func (c *Config) Validate() error {
	var errs []string

	switch c.History.Strategy {
	case "full", "sliding_window", "summary_recent", "rag_history":
	default:
		errs = append(errs, fmt.Sprintf("unknown history strategy %q", c.History.Strategy))
	}
	if c.History.HistoryLimit <= 0 {
		errs = append(errs, "history_limit must be positive")
	}

	switch c.Cache.Type {
	case "memory", "redis":
	default:
		errs = append(errs, fmt.Sprintf("unknown cache type %q", c.Cache.Type))
	}

	if c.Bot.Temperature < 0 || c.Bot.Temperature > 2 {
		errs = append(errs, "temperature must be between 0 and 2")
	}
	if c.Bot.MaxTokens <= 0 {
		errs = append(errs, "max_tokens must be positive")
	}

	if c.RAG.TopK <= 0 {
		errs = append(errs, "rag top_k must be positive")
	}
	if c.RAG.ScoreThreshold < 0 || c.RAG.ScoreThreshold > 1 {
		errs = append(errs, "rag score_threshold must be between 0 and 1")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation errors: %s", strings.Join(errs, "; "))
	}

	return nil
}
